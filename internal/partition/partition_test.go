package partition

import (
	"fmt"
	"testing"

	"gitee.com/nguaduot/split-column-go/internal/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func regionTable() *table.Table {
	regions := []string{"A", "A", "B", "C", "B", "", "C"}
	rows := make([]table.Row, len(regions))
	for i, r := range regions {
		rows[i] = table.Row{
			Line: i + 2,
			Cells: []table.Cell{
				{Value: fmt.Sprint(i + 1), Kind: table.KindNumber},
				{Value: r, Kind: table.KindString},
			},
		}
	}
	return table.New("data", []string{"ID", "Region"}, rows)
}

func lines(rows []table.Row) []int {
	res := make([]int, len(rows))
	for i, r := range rows {
		res[i] = r.Line - 1 // 数据行序号，从 1 开始
	}
	return res
}

func TestAssign_RoundRobin(t *testing.T) {
	a, err := Assign([]string{"A", "B", "C"}, 2)
	require.NoError(t, err)

	for v, want := range map[string]int{"A": 0, "B": 1, "C": 0} {
		got, ok := a.Bucket(v)
		require.True(t, ok, v)
		assert.Equal(t, want, got, v)
	}
	_, ok := a.Bucket("D")
	assert.False(t, ok)
	assert.Equal(t, 2, a.Buckets())
	assert.Equal(t, []string{"A", "C"}, a.Values(0))
	assert.Equal(t, []string{"B"}, a.Values(1))
	assert.Equal(t, []string{"A", "B", "C"}, a.Order())
}

func TestAssign_InvalidInput(t *testing.T) {
	_, err := Assign([]string{"A"}, 0)
	assert.ErrorIs(t, err, ErrBuckets)

	_, err = Assign([]string{"A", ""}, 2)
	assert.ErrorIs(t, err, ErrMissingValue)

	_, err = Assign([]string{"A", "B", "A"}, 2)
	assert.ErrorIs(t, err, ErrDuplicateValue)
}

func TestAssign_Deterministic(t *testing.T) {
	tbl := regionTable()
	a1, err := FromTable(tbl, 1, 2)
	require.NoError(t, err)
	a2, err := FromTable(tbl, 1, 2)
	require.NoError(t, err)

	assert.Equal(t, a1, a2)
	for b := range 2 {
		assert.Equal(t, a1.Select(tbl, 1, b), a2.Select(tbl, 1, b))
	}
}

func TestAssign_Balance(t *testing.T) {
	for d := 0; d <= 23; d++ {
		values := make([]string, d)
		for i := range values {
			values[i] = fmt.Sprintf("v%02d", i)
		}
		for n := 1; n <= 9; n++ {
			a, err := Assign(values, n)
			require.NoError(t, err)
			lo, hi := d/n, (d+n-1)/n
			for b := range n {
				got := len(a.Values(b))
				assert.True(t, got == lo || got == hi, "d=%d n=%d bucket=%d got=%d", d, n, b, got)
			}
		}
	}
}

func TestSelect_RegionScenario(t *testing.T) {
	tbl := regionTable()
	a, err := FromTable(tbl, 1, 2)
	require.NoError(t, err)

	assert.Equal(t, []string{"A", "B", "C"}, a.Order())
	assert.Equal(t, []int{1, 2, 4, 7}, lines(a.Select(tbl, 1, 0)))
	assert.Equal(t, []int{3, 5}, lines(a.Select(tbl, 1, 1)))
	assert.Equal(t, 1, Dropped(tbl, 1))
}

func TestSelect_EveryRowExactlyOnce(t *testing.T) {
	tbl := regionTable()
	for n := 1; n <= 8; n++ {
		a, err := FromTable(tbl, 1, n)
		require.NoError(t, err)

		seen := map[int]int{}
		for b := range n {
			for _, row := range a.Select(tbl, 1, b) {
				seen[row.Line]++
			}
		}
		for _, row := range tbl.Rows {
			if row.Cell(1).Missing() {
				assert.Zero(t, seen[row.Line], "n=%d line=%d", n, row.Line)
			} else {
				assert.Equal(t, 1, seen[row.Line], "n=%d line=%d", n, row.Line)
			}
		}
		assert.Equal(t, len(tbl.Rows)-Dropped(tbl, 1), sum(seen))
	}
}

func TestSelect_MoreBucketsThanValues(t *testing.T) {
	tbl := regionTable()
	a, err := FromTable(tbl, 1, 10)
	require.NoError(t, err)

	for b := 3; b < 10; b++ {
		assert.Empty(t, a.Values(b))
		assert.Empty(t, a.Select(tbl, 1, b))
	}
}

func sum(m map[int]int) int {
	n := 0
	for _, v := range m {
		n += v
	}
	return n
}
