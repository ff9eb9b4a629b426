package util

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
)

// WaitForExit 双击运行时保留窗口
func WaitForExit() {
	fmt.Print(color.HiBlackString("程序已结束，按回车键关闭…"))
	_, _ = bufio.NewReader(os.Stdin).ReadBytes('\n')
}

func SizeReadable(bytes int64) string {
	if bytes < 1024 {
		return fmt.Sprintf("%dByte", bytes)
	}
	if bytes < 1024*1024 {
		return fmt.Sprintf("%.1fKB", float64(bytes)/1024)
	}
	if bytes < 1024*1024*1024 {
		return fmt.Sprintf("%.1fMB", float64(bytes)/1024/1024)
	}
	return fmt.Sprintf("%.2fGB", float64(bytes)/1024/1024/1024)
}

func CostReadable(sec float64) string {
	sec = math.Ceil(sec)
	if sec < 60 {
		return fmt.Sprintf("%.0f秒", sec)
	}
	if sec < 60*60 {
		m := int(sec / 60)
		s := sec - float64(m)*60
		if s < 0.5 {
			return fmt.Sprintf("%d分钟", m)
		}
		return fmt.Sprintf("%d分%.0f秒", m, s)
	}
	h := int(sec / 60 / 60)
	m := (sec - float64(h)*60*60) / 60
	if m < 0.5 {
		return fmt.Sprintf("%d小时", h)
	}
	return fmt.Sprintf("%d时%.0f分", h, m)
}

func Cost(start time.Time) string {
	sec := time.Since(start).Seconds()
	return CostReadable(sec)
}

// IsSourceFile 支持 .xlsx .xlsm .xls .csv
func IsSourceFile(file string) bool {
	if file == "" {
		return false
	}
	switch strings.ToLower(filepath.Ext(file)) {
	case ".xlsx", ".xlsm", ".xls", ".csv":
	default:
		return false
	}
	info, err := os.Stat(file)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// BaseName 去除目录与后缀的文件名，用于命名拆分文件
func BaseName(file string) string {
	base := filepath.Base(file)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func IsDir(path string) (bool, error) {
	if path == "" {
		return false, nil
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return info.IsDir(), nil
}
