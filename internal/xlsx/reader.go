package xlsx

import (
	"errors"
	"fmt"
	"strconv"

	"gitee.com/nguaduot/split-column-go/internal/table"
	"github.com/xuri/excelize/v2"
)

var ErrSheetNotFound = errors.New("工作表不存在")

// DefaultOptions 大文件解压上限
func DefaultOptions() excelize.Options {
	return excelize.Options{
		UnzipSizeLimit:    8 << 30, // 8GB
		UnzipXMLSizeLimit: 4 << 30, // 4GB
	}
}

type Source struct {
	path string
	file *excelize.File
}

func OpenSource(path string, opts excelize.Options) (*Source, error) {
	f, err := excelize.OpenFile(path, opts)
	if err != nil {
		return nil, err
	}
	return &Source{path: path, file: f}, nil
}

func (s *Source) Sheets() []string {
	return s.file.GetSheetList()
}

func (s *Source) Close() error {
	return s.file.Close()
}

func (s *Source) checkSheet(sheet string) error {
	idx, err := s.file.GetSheetIndex(sheet)
	if err != nil {
		return err
	}
	if idx == -1 {
		return fmt.Errorf("%w：%s", ErrSheetNotFound, sheet)
	}
	return nil
}

// Table
// 流式读取（不会一次性加载整表），首行为行首，其余为数据行。
// 数字单元格若使用日期格式则记为 KindDate，1904 日期系统的序列号换算为 1900 日期系统
func (s *Source) Table(sheet string) (*table.Table, error) {
	if err := s.checkSheet(sheet); err != nil {
		return nil, err
	}
	props, err := s.file.GetWorkbookProps()
	if err != nil {
		return nil, err
	}
	r := &cellReader{
		file:     s.file,
		sheet:    sheet,
		date1904: props.Date1904 != nil && *props.Date1904,
		formats:  make(map[int]*table.NumFmt),
	}
	iter, err := s.file.Rows(sheet)
	if err != nil {
		return nil, err
	}
	defer iter.Close()
	var (
		header []table.Cell
		rows   []table.Row
		line   int
	)
	for iter.Next() {
		line++
		cols, err := iter.Columns(excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, err
		}
		cells := make([]table.Cell, len(cols))
		for c, val := range cols {
			if val == "" { // 无值
				continue
			}
			if cells[c], err = r.cell(c, line, val); err != nil {
				return nil, err
			}
		}
		if line == 1 {
			header = cells
			continue
		}
		rows = append(rows, table.Row{Line: line, Cells: cells})
	}
	if err := iter.Error(); err != nil {
		return nil, err
	}
	return table.NewWithHeader(sheet, header, rows), nil
}

type cellReader struct {
	file     *excelize.File
	sheet    string
	date1904 bool
	formats  map[int]*table.NumFmt // 样式编号 → 日期格式，非日期格式为 nil
}

func (r *cellReader) cell(col, line int, val string) (table.Cell, error) {
	axis, err := excelize.CoordinatesToCellName(col+1, line)
	if err != nil {
		return table.Cell{}, err
	}
	cellType, err := r.file.GetCellType(r.sheet, axis)
	if err != nil {
		return table.Cell{}, err
	}
	cell := table.Cell{Value: val, Kind: kindOf(cellType)}
	if line == 1 { // 行首日期沿用模板样式中的数字格式
		return cell, nil
	}
	switch cell.Kind {
	case table.KindNumber, table.KindUnset, table.KindDate:
	default:
		return cell, nil
	}
	format, err := r.dateFormat(axis)
	if err != nil {
		return table.Cell{}, err
	}
	if cell.Kind == table.KindDate { // ISO 8601 时间
		cell.Format = table.NumFmt{ID: 22}
		if format != nil {
			cell.Format = *format
		}
		return cell, nil
	}
	serial, err := strconv.ParseFloat(val, 64)
	if format == nil || err != nil || serial < 0 {
		return cell, nil
	}
	if r.date1904 {
		cell.Value = strconv.FormatFloat(serial+date1904Offset, 'f', -1, 64)
	}
	cell.Kind = table.KindDate
	cell.Format = *format
	return cell, nil
}

// 1904 与 1900 日期系统相差的天数
const date1904Offset = 1462

func (r *cellReader) dateFormat(axis string) (*table.NumFmt, error) {
	styleID, err := r.file.GetCellStyle(r.sheet, axis)
	if err != nil {
		return nil, err
	}
	if format, ok := r.formats[styleID]; ok {
		return format, nil
	}
	style, err := r.file.GetStyle(styleID)
	if err != nil {
		return nil, err
	}
	numFmt := table.NumFmt{ID: style.NumFmt}
	if style.CustomNumFmt != nil && *style.CustomNumFmt != "" {
		numFmt = table.NumFmt{Custom: *style.CustomNumFmt}
	}
	var format *table.NumFmt
	if numFmt.IsDate() {
		format = &numFmt
	}
	r.formats[styleID] = format
	return format, nil
}

func kindOf(t excelize.CellType) table.Kind {
	switch t {
	case excelize.CellTypeNumber:
		return table.KindNumber
	case excelize.CellTypeBool:
		return table.KindBool
	case excelize.CellTypeUnset:
		return table.KindUnset
	case excelize.CellTypeDate:
		return table.KindDate
	default: // 字符串、公式、错误值均按文本处理
		return table.KindString
	}
}
