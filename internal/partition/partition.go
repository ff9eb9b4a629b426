package partition

import (
	"errors"
	"fmt"

	"gitee.com/nguaduot/split-column-go/internal/table"
)

var (
	ErrBuckets        = errors.New("拆分文件数须大于0")
	ErrMissingValue   = errors.New("缺失值不参与分组")
	ErrDuplicateValue = errors.New("分组值重复")
)

// Assignment 值到分组序号的映射，构建后只读
type Assignment struct {
	order   []string
	index   map[string]int
	buckets int
}

// Assign
// 按给定顺序轮询分配：第 i 个值分到 i % buckets 组
func Assign(values []string, buckets int) (*Assignment, error) {
	if buckets < 1 {
		return nil, fmt.Errorf("%w：%d", ErrBuckets, buckets)
	}
	a := &Assignment{
		order:   make([]string, 0, len(values)),
		index:   make(map[string]int, len(values)),
		buckets: buckets,
	}
	for i, v := range values {
		if v == "" {
			return nil, fmt.Errorf("%w：第%d个值", ErrMissingValue, i+1)
		}
		if _, ok := a.index[v]; ok {
			return nil, fmt.Errorf("%w：%s", ErrDuplicateValue, v)
		}
		a.index[v] = i % buckets
		a.order = append(a.order, v)
	}
	return a, nil
}

// FromTable 取该列首次出现顺序的非缺失值进行分配
func FromTable(t *table.Table, col int, buckets int) (*Assignment, error) {
	return Assign(t.Distinct(col), buckets)
}

func (a *Assignment) Buckets() int {
	return a.buckets
}

func (a *Assignment) Bucket(value string) (int, bool) {
	b, ok := a.index[value]
	return b, ok
}

// Order 返回参与分配的值（分配顺序）
func (a *Assignment) Order() []string {
	return append([]string(nil), a.order...)
}

// Values 返回分到该组的值，保持分配顺序
func (a *Assignment) Values(bucket int) []string {
	var values []string
	for _, v := range a.order {
		if a.index[v] == bucket {
			values = append(values, v)
		}
	}
	return values
}

// Select 筛选该组的数据行，保持源表行序
func (a *Assignment) Select(t *table.Table, col int, bucket int) []table.Row {
	var rows []table.Row
	for _, row := range t.Rows {
		c := row.Cell(col)
		if c.Missing() {
			continue
		}
		if b, ok := a.index[c.Value]; ok && b == bucket {
			rows = append(rows, row)
		}
	}
	return rows
}

// Dropped 该列缺失值的行数，这些行不会出现在任何分组
func Dropped(t *table.Table, col int) int {
	n := 0
	for _, row := range t.Rows {
		if row.Cell(col).Missing() {
			n++
		}
	}
	return n
}
