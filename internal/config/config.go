package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	// 拆分
	Buckets int
	Format  string
	OutDir  string
	// 日志
	LogLevel string
	// excelize 解压上限
	UnzipSizeLimit    int64
	UnzipXMLSizeLimit int64
}

// Load 读取环境变量，files 为空时尝试加载当前目录下的 .env（不存在则忽略）
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	return &Config{
		Buckets:           getEnvInt("SPLIT_BUCKETS", 3),
		Format:            strings.ToLower(getEnvString("SPLIT_FORMAT", "xlsx")),
		OutDir:            getEnvString("SPLIT_OUT_DIR", ""),
		LogLevel:          getEnvString("SPLIT_LOG_LEVEL", "info"),
		UnzipSizeLimit:    getEnvInt64("SPLIT_UNZIP_SIZE_LIMIT", 8<<30),     // 8GB
		UnzipXMLSizeLimit: getEnvInt64("SPLIT_UNZIP_XML_SIZE_LIMIT", 4<<30), // 4GB
	}, nil
}

func getEnvString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			return i
		}
	}
	return fallback
}
