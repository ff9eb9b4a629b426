package archive

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

// Assemble
// 按顺序将文件压缩进 archivePath（仅保留文件名，不含目录），
// 每个文件写入压缩包后立即删除。失败时删除未完成的压缩包
func Assemble(paths []string, archivePath string) (_ string, err error) {
	zipFile, err := os.Create(archivePath)
	if err != nil {
		return "", err
	}
	defer func() {
		if err != nil {
			zipFile.Close()
			_ = os.Remove(archivePath)
		}
	}()

	zw := zip.NewWriter(zipFile)
	for _, path := range paths {
		if err := add(zw, path); err != nil {
			zw.Close()
			return "", err
		}
		if err := os.Remove(path); err != nil {
			zw.Close()
			return "", err
		}
		log.Debug().Str("path", path).Str("archive", archivePath).Msg("已压缩")
	}
	if err := zw.Close(); err != nil {
		return "", err
	}
	if err := zipFile.Close(); err != nil {
		return "", err
	}
	return archivePath, nil
}

func add(zw *zip.Writer, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()
	info, err := file.Stat()
	if err != nil {
		return err
	}
	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	header.Name = filepath.Base(path)
	header.Method = zip.Deflate
	w, err := zw.CreateHeader(header)
	if err != nil {
		return err
	}
	_, err = io.Copy(w, file)
	return err
}
