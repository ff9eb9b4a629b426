package main

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gitee.com/nguaduot/split-column-go/internal/splitter"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withInput(t *testing.T, input string) {
	t.Helper()
	old := reader
	reader = bufio.NewReader(strings.NewReader(input))
	t.Cleanup(func() { reader = old })
}

func TestGetColumn(t *testing.T) {
	info := &splitter.Info{Sheet: "Details", Columns: []string{"ID", "Region"}, Rows: 7}

	withInput(t, "Region\n")
	col, err := getColumn(info)
	require.NoError(t, err)
	assert.Equal(t, "Region", col)

	withInput(t, "1\n")
	col, err = getColumn(info)
	require.NoError(t, err)
	assert.Equal(t, "ID", col)

	withInput(t, "Country\n")
	_, err = getColumn(info)
	assert.Error(t, err)
}

func TestGetInt(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.Flags().Int("buckets", 3, "")

	withInput(t, "\n")
	n, err := getInt(cmd, "buckets", "拆分文件数", "(直接回车设为%d)", 3, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	withInput(t, "5\n")
	n, err = getInt(cmd, "buckets", "拆分文件数", "(直接回车设为%d)", 3, 1)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	withInput(t, "0\n")
	_, err = getInt(cmd, "buckets", "拆分文件数", "(直接回车设为%d)", 3, 1)
	assert.Error(t, err)

	require.NoError(t, cmd.Flags().Set("buckets", "7"))
	n, err = getInt(cmd, "buckets", "拆分文件数", "(直接回车设为%d)", 3, 1)
	require.NoError(t, err)
	assert.Equal(t, 7, n)
}

func TestCheckOutDir(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, checkOutDir(""))
	assert.NoError(t, checkOutDir(dir))
	assert.NoError(t, checkOutDir(filepath.Join(dir, "new")), "created when splitting")

	file := filepath.Join(dir, "source.xlsx")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))
	assert.Error(t, checkOutDir(file))
}
