package csv

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"gitee.com/nguaduot/split-column-go/internal/table"
)

// SheetName CSV 无工作表，统一以此命名
const SheetName = "Sheet1"

var (
	bom              = []byte{0xEF, 0xBB, 0xBF}
	ErrSheetNotFound = errors.New("工作表不存在")
)

type Source struct {
	path string
}

func OpenSource(path string) (*Source, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("非文件：%s", path)
	}
	return &Source{path: path}, nil
}

func (s *Source) Sheets() []string {
	return []string{SheetName}
}

func (s *Source) Close() error {
	return nil
}

// Table 首行为行首，允许各行列数不一致；数据类型未知，交由写入端判断
func (s *Source) Table(sheet string) (*table.Table, error) {
	if sheet != SheetName {
		return nil, fmt.Errorf("%w：%s", ErrSheetNotFound, sheet)
	}
	file, err := os.Open(s.path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	bufReader := bufio.NewReaderSize(file, 1<<20)
	// 跳过 UTF-8 BOM
	if head, err := bufReader.Peek(len(bom)); err == nil && bytes.Equal(head, bom) {
		if _, err := bufReader.Discard(len(bom)); err != nil {
			return nil, err
		}
	}
	reader := csv.NewReader(bufReader)
	reader.FieldsPerRecord = -1
	var (
		header []string
		rows   []table.Row
		line   int
	)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line++
		if line == 1 {
			header = record
			continue
		}
		cells := make([]table.Cell, len(record))
		for c, val := range record {
			cells[c] = table.Cell{Value: val, Kind: table.KindUnset}
		}
		rows = append(rows, table.Row{Line: line, Cells: cells})
	}
	return table.New(sheet, header, rows), nil
}

// WriteArtifact
// 写 UTF-8 BOM，确保 Windows Excel 能正常打开；失败时删除未完成的文件
func WriteArtifact(path string, columns []string, rows []table.Row) (err error) {
	tarFile, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := tarFile.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			_ = os.Remove(path)
		}
	}()
	if _, err := tarFile.Write(bom); err != nil {
		return err
	}

	// 使用 bufio.Writer 减少 syscall
	bufWriter := bufio.NewWriterSize(tarFile, 1<<20)
	writer := csv.NewWriter(bufWriter)
	if err := writer.Write(columns); err != nil {
		return err
	}
	record := make([]string, len(columns))
	for _, row := range rows {
		for c := range columns {
			record[c] = row.Cell(c).Value
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}
	return bufWriter.Flush()
}
