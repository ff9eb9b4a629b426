package util

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitLog
// 日志写入与 outPath 同名的 .log 文件；返回的清理函数关闭文件，空日志一并删除
func InitLog(outPath string, level string) (func(), error) {
	if outPath == "" {
		return func() {}, nil
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	ext := filepath.Ext(outPath)
	logPath := strings.TrimSuffix(outPath, ext) + ".log"
	file, err := os.OpenFile(
		logPath,
		os.O_CREATE|os.O_WRONLY|os.O_APPEND,
		0644,
	)
	if err != nil {
		return nil, err
	}
	log.Logger = zerolog.New(file).With().Timestamp().Logger().Level(lvl)
	return func() {
		log.Logger = zerolog.Nop()
		file.Sync() // 同步缓冲区到磁盘
		file.Close()
		info, err := os.Stat(logPath)
		if err != nil {
			return
		}
		if info.Size() == 0 {
			_ = os.Remove(logPath)
		}
	}, nil
}
