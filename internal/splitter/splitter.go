package splitter

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gitee.com/nguaduot/split-column-go/internal/archive"
	"gitee.com/nguaduot/split-column-go/internal/csv"
	"gitee.com/nguaduot/split-column-go/internal/partition"
	"gitee.com/nguaduot/split-column-go/internal/table"
	"gitee.com/nguaduot/split-column-go/internal/xls"
	"gitee.com/nguaduot/split-column-go/internal/xlsx"
	"gitee.com/nguaduot/split-column-go/pkg/util"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
)

const (
	FormatXlsx = "xlsx"
	FormatCSV  = "csv"
)

type Request struct {
	Source  string
	Sheet   string // 为空则取第一张表
	Skip    int    // 跳过的数据行数（行首不计）
	Column  string
	Buckets int
	OutDir  string // 为空则与源文件同目录
	Format  string // xlsx / csv，为空则为 xlsx

	UnzipSizeLimit    int64
	UnzipXMLSizeLimit int64
}

// Progress 每完成一个拆分文件回调一次
type Progress func(done, total int)

type Result struct {
	Archive    string
	Assignment *partition.Assignment
	Rows       []int // 各拆分文件的数据行数
	Dropped    int   // 拆分列缺失值的行数
	Warnings   []StyleCopyWarning
}

// Info 供调用方选择工作表与拆分列
type Info struct {
	Sheets  []string
	Sheet   string
	Columns []string
	Rows    int
}

type source interface {
	Sheets() []string
	Table(sheet string) (*table.Table, error)
	Close() error
}

// 仅 xlsx 源文件提供行首样式
type templateSource interface {
	Template(sheet string, width int) (xlsx.Template, []int, error)
}

func ArtifactName(base string, bucket int, format string) string {
	return fmt.Sprintf("%s_split_%d.%s", base, bucket, format)
}

func ArchiveName(base string) string {
	return base + "_split.zip"
}

func openSource(path string, opts excelize.Options) (source, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		s, err := xlsx.OpenSource(path, opts)
		if err != nil {
			return nil, err
		}
		return s, nil
	case ".xls":
		s, err := xls.OpenSource(path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case ".csv":
		s, err := csv.OpenSource(path)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("%w：%s", ErrUnsupportedSource, filepath.Ext(path))
	}
}

func excelizeOptions(sizeLimit, xmlSizeLimit int64) excelize.Options {
	opts := xlsx.DefaultOptions()
	if sizeLimit > 0 {
		opts.UnzipSizeLimit = sizeLimit
	}
	if xmlSizeLimit > 0 {
		opts.UnzipXMLSizeLimit = xmlSizeLimit
	}
	return opts
}

// loadTable 打开源文件并读取工作表，sheet 为空时取第一张表
func loadTable(src source, sheet string) (*table.Table, error) {
	if sheet == "" {
		sheets := src.Sheets()
		if len(sheets) == 0 {
			return nil, errors.New("无可用工作表")
		}
		sheet = sheets[0]
	}
	return src.Table(sheet)
}

// Inspect 读取工作表列表与所选表的列名，opts 为 xlsx 解压上限（零值取默认）
func Inspect(path string, sheet string, opts excelize.Options) (*Info, error) {
	src, err := openSource(path, excelizeOptions(opts.UnzipSizeLimit, opts.UnzipXMLSizeLimit))
	if err != nil {
		return nil, &InputError{Source: path, Err: err}
	}
	defer src.Close()
	tbl, err := loadTable(src, sheet)
	if err != nil {
		return nil, &InputError{Source: path, Err: err}
	}
	return &Info{
		Sheets:  src.Sheets(),
		Sheet:   tbl.Sheet,
		Columns: tbl.Columns,
		Rows:    len(tbl.Rows),
	}, nil
}

func validate(req *Request) error {
	switch strings.ToLower(req.Format) {
	case "", FormatXlsx:
		req.Format = FormatXlsx
	case FormatCSV:
		req.Format = FormatCSV
	default:
		return fmt.Errorf("%w：%s", ErrUnsupportedFormat, req.Format)
	}
	if req.Buckets < 1 {
		return fmt.Errorf("%w：%d", ErrInvalidBuckets, req.Buckets)
	}
	if req.Skip < 0 {
		return fmt.Errorf("%w：%d", ErrInvalidSkip, req.Skip)
	}
	return nil
}

// Run
// 读取源表 → 按拆分列的值轮询分组 → 逐组生成拆分文件 → 压缩。
// 参数或源文件有误时返回 *InputError，此时不产生任何文件；
// 写入失败返回 *IOError，临时目录与未完成的压缩包均会清理
func Run(ctx context.Context, req Request, progress Progress) (*Result, error) {
	start := time.Now()
	runID := uuid.NewString()
	logger := log.With().Str("run", runID).Str("source", filepath.Base(req.Source)).Logger()

	if err := validate(&req); err != nil {
		return nil, &InputError{Source: req.Source, Err: err}
	}
	src, err := openSource(req.Source, excelizeOptions(req.UnzipSizeLimit, req.UnzipXMLSizeLimit))
	if err != nil {
		return nil, &InputError{Source: req.Source, Err: err}
	}
	defer src.Close()
	tbl, err := loadTable(src, req.Sheet)
	if err != nil {
		return nil, &InputError{Source: req.Source, Err: err}
	}
	col, err := tbl.ColumnIndex(req.Column)
	if err != nil {
		return nil, &InputError{Source: req.Source, Err: err}
	}
	tbl = tbl.Skip(req.Skip)
	assignment, err := partition.FromTable(tbl, col, req.Buckets)
	if err != nil {
		return nil, &InputError{Source: req.Source, Err: err}
	}
	res := &Result{
		Assignment: assignment,
		Rows:       make([]int, req.Buckets),
		Dropped:    partition.Dropped(tbl, col),
	}
	logger.Info().Str("sheet", tbl.Sheet).Str("column", req.Column).Int("skip", req.Skip).
		Int("rows", len(tbl.Rows)).Int("values", len(assignment.Order())).Int("dropped", res.Dropped).
		Int("buckets", req.Buckets).Msg("开始拆分")

	var tpl xlsx.Template
	if req.Format == FormatXlsx {
		if ts, ok := src.(templateSource); ok {
			var missing []int
			tpl, missing, err = ts.Template(tbl.Sheet, tbl.Width())
			if err != nil {
				return nil, &InputError{Source: req.Source, Err: err}
			}
			for _, c := range missing {
				w := StyleCopyWarning{Column: c, Name: tbl.Columns[c]}
				res.Warnings = append(res.Warnings, w)
				logger.Warn().Int("column", c+1).Str("name", w.Name).Msg(w.String())
			}
		} else {
			logger.Info().Msg("源文件不含样式，行首使用默认样式")
		}
	}

	outDir := req.OutDir
	if outDir == "" {
		outDir = filepath.Dir(req.Source)
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, &IOError{Path: outDir, Err: err}
	}
	// 拆分文件先写入临时目录，结束后（无论成败）删除
	staging := filepath.Join(outDir, ".split-"+runID)
	if err := os.Mkdir(staging, 0755); err != nil {
		return nil, &IOError{Path: staging, Err: err}
	}
	defer os.RemoveAll(staging)

	base := util.BaseName(req.Source)
	paths := make([]string, 0, req.Buckets)
	for b := range req.Buckets {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		} // 响应 Ctrl+C 打断
		rows := assignment.Select(tbl, col, b)
		path := filepath.Join(staging, ArtifactName(base, b, req.Format))
		if req.Format == FormatCSV {
			err = csv.WriteArtifact(path, tbl.Columns, rows)
		} else {
			err = xlsx.BuildArtifact(path, tbl.Sheet, tbl.Header, rows, tpl)
		}
		if err != nil {
			return nil, &IOError{Path: path, Err: err}
		}
		paths = append(paths, path)
		res.Rows[b] = len(rows)
		logger.Info().Int("bucket", b).Int("rows", len(rows)).Strs("values", assignment.Values(b)).
			Msg("拆分文件写入完成")
		if progress != nil {
			progress(b+1, req.Buckets)
		}
	}

	archivePath := filepath.Join(outDir, ArchiveName(base))
	if _, err := archive.Assemble(paths, archivePath); err != nil {
		return nil, &IOError{Path: archivePath, Err: err}
	}
	res.Archive = archivePath
	logger.Info().Str("archive", archivePath).Str("cost", util.Cost(start)).Msg("拆分完成")
	return res, nil
}
