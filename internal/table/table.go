package table

import (
	"errors"
	"fmt"
	"strconv"
)

var ErrColumnNotFound = errors.New("列不存在")

// Kind 单元格数据类型，由读取端按源文件的单元格类型填写
type Kind int

const (
	KindUnset Kind = iota
	KindString
	KindNumber
	KindBool
	KindDate // 值为 Excel 日期序列号，或 ISO 8601 时间
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindDate:
		return "date"
	default:
		return "unset"
	}
}

// NumFmt 日期单元格的数字格式：内置编号或自定义格式代码
type NumFmt struct {
	ID     int
	Custom string
}

// IsDate 内置日期时间格式（27-36、50-58 为中日韩语言的日期格式），
// 或自定义格式代码中出现 y/m/d/h/s（引号内的文本、方括号与转义字符不计）
func (f NumFmt) IsDate() bool {
	if f.Custom == "" {
		id := f.ID
		return (id >= 14 && id <= 22) || (id >= 27 && id <= 36) ||
			(id >= 45 && id <= 47) || (id >= 50 && id <= 58)
	}
	code := f.Custom
	inQuote, inBracket := false, false
	for i := 0; i < len(code); i++ {
		ch := code[i]
		switch {
		case inQuote:
			inQuote = ch != '"'
		case inBracket:
			inBracket = ch != ']'
		case ch == '"':
			inQuote = true
		case ch == '[':
			inBracket = true
		case ch == '\\' || ch == '_' || ch == '*':
			i++
		case ch == ';': // 只看第一段
			return false
		default:
			switch ch {
			case 'y', 'Y', 'm', 'M', 'd', 'D', 'h', 'H', 's', 'S':
				return true
			}
		}
	}
	return false
}

type Cell struct {
	Value  string // 原始值（不经格式化）
	Kind   Kind
	Format NumFmt // 仅 KindDate 有效
}

// Missing 空单元格视为缺失值
func (c Cell) Missing() bool {
	return c.Value == ""
}

type Row struct {
	Line  int // 在源表中的行号，从 1 开始
	Cells []Cell
}

// Cell 越界返回空单元格（源表中的短行）
func (r Row) Cell(col int) Cell {
	if col < 0 || col >= len(r.Cells) {
		return Cell{}
	}
	return r.Cells[col]
}

// Table 源数据表，加载后只读
type Table struct {
	Sheet   string
	Columns []string
	Header  []Cell // 写出的行首：值为列名，未改名的列保留源单元格类型
	Rows    []Row
}

// New 首行均按文本处理
func New(sheet string, header []string, rows []Row) *Table {
	cells := make([]Cell, len(header))
	for i, name := range header {
		cells[i] = Cell{Value: name, Kind: KindString}
	}
	return NewWithHeader(sheet, cells, rows)
}

// NewWithHeader
// 列数取首行与数据行的最大宽度，
// 空列名记为 "Unnamed: i"，重复列名追加 ".1"、".2"…（跳过已被占用的名称）
func NewWithHeader(sheet string, header []Cell, rows []Row) *Table {
	width := len(header)
	for _, row := range rows {
		if len(row.Cells) > width {
			width = len(row.Cells)
		}
	}
	columns := make([]string, width)
	cells := make([]Cell, width)
	seen := make(map[string]int, width)
	for i := range width {
		var cell Cell
		if i < len(header) {
			cell = header[i]
		}
		name := cell.Value
		if name == "" {
			name = "Unnamed: " + strconv.Itoa(i)
		}
		if _, ok := seen[name]; ok {
			base := name
			for k := seen[base] + 1; ; k++ {
				name = fmt.Sprintf("%s.%d", base, k)
				if _, ok := seen[name]; !ok {
					seen[base] = k
					break
				}
			}
		}
		seen[name] = 0
		columns[i] = name
		if name != cell.Value {
			cell = Cell{Value: name, Kind: KindString}
		}
		cells[i] = cell
	}
	return &Table{
		Sheet:   sheet,
		Columns: columns,
		Header:  cells,
		Rows:    rows,
	}
}

func (t *Table) Width() int {
	return len(t.Columns)
}

func (t *Table) ColumnIndex(name string) (int, error) {
	for i, c := range t.Columns {
		if c == name {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w：%s", ErrColumnNotFound, name)
}

// Skip 跳过前 n 行数据（行首不计），返回新表，源表不变
func (t *Table) Skip(n int) *Table {
	if n <= 0 {
		return t
	}
	if n > len(t.Rows) {
		n = len(t.Rows)
	}
	return &Table{
		Sheet:   t.Sheet,
		Columns: t.Columns,
		Header:  t.Header,
		Rows:    t.Rows[n:],
	}
}

// Distinct 按自上而下首次出现的顺序返回该列的非缺失值
func (t *Table) Distinct(col int) []string {
	var values []string
	seen := make(map[string]struct{})
	for _, row := range t.Rows {
		c := row.Cell(col)
		if c.Missing() {
			continue
		}
		if _, ok := seen[c.Value]; ok {
			continue
		}
		seen[c.Value] = struct{}{}
		values = append(values, c.Value)
	}
	return values
}
