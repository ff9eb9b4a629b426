package csv

import (
	"os"
	"path/filepath"
	"testing"

	"gitee.com/nguaduot/split-column-go/internal/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSource_Table(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orders.csv")
	content := "\xEF\xBB\xBFID,Region,Note\n1,A,\"x, y\"\n2,,\n3,B\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	src, err := OpenSource(path)
	require.NoError(t, err)
	defer src.Close()
	assert.Equal(t, []string{SheetName}, src.Sheets())

	tbl, err := src.Table(SheetName)
	require.NoError(t, err)
	assert.Equal(t, []string{"ID", "Region", "Note"}, tbl.Columns)
	require.Len(t, tbl.Rows, 3)
	assert.Equal(t, "x, y", tbl.Rows[0].Cell(2).Value)
	assert.Equal(t, table.KindUnset, tbl.Rows[0].Cell(0).Kind)
	assert.True(t, tbl.Rows[1].Cell(1).Missing())
	assert.True(t, tbl.Rows[2].Cell(2).Missing())
	assert.Equal(t, 4, tbl.Rows[2].Line)

	_, err = src.Table("Other")
	assert.ErrorIs(t, err, ErrSheetNotFound)
}

func TestOpenSource_Missing(t *testing.T) {
	_, err := OpenSource(filepath.Join(t.TempDir(), "none.csv"))
	assert.Error(t, err)

	_, err = OpenSource(t.TempDir())
	assert.Error(t, err)
}

func TestWriteArtifact(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orders_split_0.csv")
	rows := []table.Row{
		{Line: 2, Cells: []table.Cell{{Value: "1"}, {Value: "A"}}},
		{Line: 5, Cells: []table.Cell{{Value: "4"}, {Value: "A"}, {Value: "x, y"}}},
	}
	require.NoError(t, WriteArtifact(path, []string{"ID", "Region", "Note"}, rows))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "\xEF\xBB\xBFID,Region,Note\n1,A,\n4,A,\"x, y\"\n", string(got))
}

func TestWriteArtifact_BadPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing-dir", "x.csv")
	assert.Error(t, WriteArtifact(path, []string{"ID"}, nil))
}
