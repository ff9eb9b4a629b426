package xlsx

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gitee.com/nguaduot/split-column-go/internal/table"
	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
)

// BuildArtifact
// 新建工作簿写入行首与数据行：行首按列复制模板样式并保留单元格类型，
// 数据行使用默认样式，日期单元格沿用源数字格式。
// 写入失败时删除未完成的文件
func BuildArtifact(path string, sheet string, header []table.Cell, rows []table.Row, tpl Template) (err error) {
	defer func() {
		if err != nil {
			_ = os.Remove(path)
		}
	}()

	// 新建文件，使用 excelize 默认模板，表名沿用源表
	f := excelize.NewFile()
	defer f.Close()
	if sheet != "" && sheet != f.GetSheetName(0) {
		if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
			return err
		}
	} else {
		sheet = f.GetSheetName(0)
	}

	// 样式须在流式写入前创建
	headerRow := make([]any, len(header))
	for c, hc := range header {
		cell := excelize.Cell{Value: cellValue(hc)}
		if hs, ok := tpl.Style(c); ok {
			styleID, err := f.NewStyle(hs.Excelize())
			if err != nil {
				col, _ := excelize.ColumnNumberToName(c + 1)
				log.Warn().Err(err).Str("path", path).Str("column", col).Msg("行首样式无效，使用默认样式")
			} else {
				cell.StyleID = styleID
			}
		}
		headerRow[c] = cell
	}
	dateStyles := make(map[NumFmt]int)
	dateStyle := func(format NumFmt) (int, error) {
		if id, ok := dateStyles[format]; ok {
			return id, nil
		}
		id, err := f.NewStyle(HeaderStyle{NumFmt: format}.Excelize())
		if err != nil {
			return 0, err
		}
		dateStyles[format] = id
		return id, nil
	}
	for _, row := range rows {
		for _, c := range row.Cells {
			if c.Kind == table.KindDate && !c.Missing() {
				if _, err := dateStyle(c.Format); err != nil {
					return err
				}
			}
		}
	}

	sw, err := f.NewStreamWriter(sheet) // 流式写入（注意始终从首行开始）
	if err != nil {
		return err
	}
	if err := sw.SetRow("A1", headerRow); err != nil {
		return err
	}
	for i, row := range rows {
		values := make([]any, len(header))
		for c := range header {
			cell := row.Cell(c)
			v := cellValue(cell)
			if _, ok := v.(time.Time); ok {
				styleID, _ := dateStyle(cell.Format)
				v = excelize.Cell{Value: v, StyleID: styleID}
			}
			values[c] = v
		}
		axis := fmt.Sprintf("A%d", i+2)
		if err := sw.SetRow(axis, values); err != nil {
			return err
		}
	}
	if err := sw.Flush(); err != nil {
		return err
	}
	return f.SaveAs(path)
}

// 日期单元格中 ISO 8601 时间的可能格式
var dateLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02"}

func cellValue(c table.Cell) any {
	if c.Missing() {
		return nil
	}
	switch c.Kind {
	case table.KindNumber, table.KindUnset:
		if v, err := strconv.ParseFloat(c.Value, 64); err == nil {
			return v
		}
		return c.Value
	case table.KindBool:
		if v, err := strconv.ParseBool(c.Value); err == nil {
			return v
		}
		return c.Value
	case table.KindDate:
		if v, err := strconv.ParseFloat(c.Value, 64); err == nil {
			if t, err := excelize.ExcelDateToTime(v, false); err == nil {
				return t
			}
			return v
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, c.Value); err == nil {
				return t
			}
		}
		return c.Value
	default:
		return c.Value
	}
}
