package xls

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gitee.com/nguaduot/split-column-go/internal/table"
	"github.com/shakinm/xlsReader/xls"
	"github.com/shakinm/xlsReader/xls/structure"
)

var ErrSheetNotFound = errors.New("工作表不存在")

// Source 旧版 .xls 工作簿，仅读取值，不含样式
type Source struct {
	wb     xls.Workbook
	sheets []string
}

func OpenSource(path string) (*Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	wb, err := xls.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	s := &Source{wb: wb}
	for i := 0; i < wb.GetNumberSheets(); i++ {
		sheet, err := wb.GetSheet(i)
		if err != nil || sheet == nil {
			continue
		}
		s.sheets = append(s.sheets, sheet.GetName())
	}
	return s, nil
}

func (s *Source) Sheets() []string {
	return append([]string(nil), s.sheets...)
}

func (s *Source) Close() error {
	return nil
}

func (s *Source) Table(name string) (*table.Table, error) {
	for i := 0; i < s.wb.GetNumberSheets(); i++ {
		sheet, err := s.wb.GetSheet(i)
		if err != nil || sheet == nil || sheet.GetName() != name {
			continue
		}
		var (
			header []table.Cell
			rows   []table.Row
		)
		for r, row := range sheet.GetRows() {
			cells := s.rowCells(row.GetCols())
			if r == 0 {
				header = cells
				continue
			}
			rows = append(rows, table.Row{Line: r + 1, Cells: cells})
		}
		return table.NewWithHeader(name, header, rows), nil
	}
	return nil, fmt.Errorf("%w：%s", ErrSheetNotFound, name)
}

// 单元格记录类型，与 GetType 的返回值对应
const (
	typeNumber  = "*record.Number"
	typeRk      = "*record.Rk"
	typeBoolErr = "*record.BoolErr"
)

// numFmt 单元格所用 XF 的数字格式；XF 记录不全的文件视为常规格式
func (s *Source) numFmt(col structure.CellData) (f table.NumFmt) {
	defer func() {
		if recover() != nil {
			f = table.NumFmt{}
		}
	}()
	id := s.wb.GetXFbyIndex(col.GetXFIndex()).GetFormatIndex()
	if id < customNumFmtID {
		return table.NumFmt{ID: id}
	}
	format := s.wb.GetFormatByIndex(id)
	return table.NumFmt{Custom: format.String()}
}

// 自定义数字格式的起始编号
const customNumFmtID = 164

// rowCells 数字按所用格式区分日期，日期值保留序列号
func (s *Source) rowCells(cols []structure.CellData) []table.Cell {
	cells := make([]table.Cell, len(cols))
	for c, col := range cols {
		if col == nil {
			continue
		}
		val := col.GetString()
		if val == "" {
			continue
		}
		switch col.GetType() {
		case typeNumber, typeRk:
			cells[c] = table.Cell{Value: val, Kind: table.KindNumber}
			if format := s.numFmt(col); format.IsDate() {
				cells[c] = table.Cell{Value: val, Kind: table.KindDate, Format: format}
			}
		case typeBoolErr:
			switch val {
			case "TRUE", "FALSE":
				cells[c] = table.Cell{Value: val, Kind: table.KindBool}
			default: // 错误值
				cells[c] = table.Cell{Value: val, Kind: table.KindString}
			}
		default:
			cells[c] = table.Cell{Value: val, Kind: table.KindString}
		}
	}
	return cells
}
