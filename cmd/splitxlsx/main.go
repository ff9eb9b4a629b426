//go:generate goversioninfo
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"syscall"
	"time"

	"gitee.com/nguaduot/split-column-go/internal/config"
	"gitee.com/nguaduot/split-column-go/internal/splitter"
	"gitee.com/nguaduot/split-column-go/pkg/util"
	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/xuri/excelize/v2"
)

var (
	reader = bufio.NewReader(os.Stdin)

	sheetName string
	column    string
	buckets   int
	skipRows  int
	outDir    string
	format    string
	wait      bool
)

func prompt(label string, hint string) (string, error) {
	if hint != "" {
		fmt.Printf("%s %s：", label, color.HiBlackString(hint))
	} else {
		fmt.Printf("%s：", label)
	}
	input, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.Trim(strings.TrimSpace(input), "\"'"), nil
}

func getSrcPath(args []string) (string, error) {
	for _, arg := range args {
		if !util.IsSourceFile(arg) {
			fmt.Printf("该文件不存在或非 Excel/CSV 文件：%s\n", arg)
			continue
		}
		fmt.Printf("数据文件：%s\n", filepath.Base(arg))
		return arg, nil
	}
	file, err := prompt("数据文件", "")
	if err != nil {
		return "", err
	}
	if file != "" && !util.IsSourceFile(file) {
		return "", fmt.Errorf("该文件不存在或非 Excel/CSV 文件：%s", file)
	}
	return file, nil
}

func getSheet(srcPath string, opts excelize.Options) (*splitter.Info, error) {
	info, err := splitter.Inspect(srcPath, sheetName, opts)
	if err != nil {
		return nil, err
	}
	if sheetName != "" || len(info.Sheets) < 2 {
		return info, nil
	}
	for i, sheet := range info.Sheets {
		fmt.Printf("%s. %s\n", color.HiYellowString("%d", i+1), sheet)
	}
	input, err := prompt("选择工作表", "(直接回车选择第1张)")
	if err != nil {
		return nil, err
	}
	if input == "" {
		return info, nil
	}
	if idx, err := strconv.Atoi(input); err == nil && idx >= 1 && idx <= len(info.Sheets) {
		input = info.Sheets[idx-1]
	}
	if !slices.Contains(info.Sheets, input) {
		return nil, fmt.Errorf("工作表不存在：%s", input)
	}
	return splitter.Inspect(srcPath, input, opts)
}

// checkOutDir 输出目录不存在时由拆分时创建，已存在则须为目录
func checkOutDir(dir string) error {
	if dir == "" {
		return nil
	}
	if ok, err := util.IsDir(dir); err != nil || ok {
		return err
	}
	if _, err := os.Stat(dir); err == nil {
		return fmt.Errorf("输出路径不是目录：%s", dir)
	}
	return nil
}

func getColumn(info *splitter.Info) (string, error) {
	if column != "" {
		return column, nil
	}
	fmt.Printf("工作表 %s，%d行数据，列：\n", color.HiYellowString(info.Sheet), info.Rows)
	for i, col := range info.Columns {
		fmt.Printf("%s. %s\n", color.HiYellowString("%d", i+1), col)
	}
	input, err := prompt("拆分依据列", "(输入列名或序号)")
	if err != nil {
		return "", err
	}
	if slices.Contains(info.Columns, input) {
		return input, nil
	}
	if idx, err := strconv.Atoi(input); err == nil && idx >= 1 && idx <= len(info.Columns) {
		return info.Columns[idx-1], nil
	}
	return "", fmt.Errorf("列不存在：%s", input)
}

func getInt(cmd *cobra.Command, flag string, label string, hint string, def int, minVal int) (int, error) {
	if cmd.Flags().Changed(flag) {
		v, _ := cmd.Flags().GetInt(flag)
		return v, nil
	}
	input, err := prompt(label, fmt.Sprintf(hint, def))
	if err != nil {
		return 0, err
	}
	if input == "" {
		return def, nil
	}
	v, err := strconv.Atoi(input)
	if err != nil {
		return 0, err
	}
	if v < minVal {
		return 0, fmt.Errorf("%s异常：%d", label, v)
	}
	return v, nil
}

func split(req splitter.Request) (*splitter.Result, error) {
	// 用于响应用户 Ctrl+C 打断
	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	fmt.Printf("正在拆分为%s文件… %s\n", color.HiYellowString("%d个", req.Buckets), color.HiBlackString("(停止：Ctrl+C)"))
	bar := progressbar.NewOptions(req.Buckets,
		progressbar.OptionSetDescription("拆分进度"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionClearOnFinish(),
	)
	return splitter.Run(ctx, req, func(done, total int) {
		_ = bar.Set(done)
	})
}

func run(cmd *cobra.Command, args []string) error {
	start := time.Now()
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("buckets") {
		buckets = cfg.Buckets
	}
	if format == "" {
		format = cfg.Format
	}
	if outDir == "" {
		outDir = cfg.OutDir
	}
	if err := checkOutDir(outDir); err != nil {
		return err
	}

	srcPath, err := getSrcPath(args)
	if err != nil {
		return err
	}
	if srcPath == "" {
		return errors.New("未选择数据文件，无可拆分")
	}

	cleanLog, err := util.InitLog(srcPath, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer cleanLog()

	info, err := getSheet(srcPath, excelize.Options{
		UnzipSizeLimit:    cfg.UnzipSizeLimit,
		UnzipXMLSizeLimit: cfg.UnzipXMLSizeLimit,
	})
	if err != nil {
		return err
	}
	col, err := getColumn(info)
	if err != nil {
		return err
	}
	skip, err := getInt(cmd, "skip", "跳过数据行数", "(直接回车设为%d)", skipRows, 0)
	if err != nil {
		return err
	}
	n, err := getInt(cmd, "buckets", "拆分文件数", "(直接回车设为%d)", buckets, 1)
	if err != nil {
		return err
	}

	res, err := split(splitter.Request{
		Source:            srcPath,
		Sheet:             info.Sheet,
		Skip:              skip,
		Column:            col,
		Buckets:           n,
		OutDir:            outDir,
		Format:            format,
		UnzipSizeLimit:    cfg.UnzipSizeLimit,
		UnzipXMLSizeLimit: cfg.UnzipXMLSizeLimit,
	})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Println("注意：你已强行停止，拆分并未完成")
		}
		return err
	}

	for _, w := range res.Warnings {
		fmt.Println(color.HiRedString(w.String()))
	}
	total := 0
	for i, rows := range res.Rows {
		total += rows
		fmt.Printf("数据文件%d：%s，%s\n", i+1, color.HiYellowString("%d行", rows),
			strings.Join(res.Assignment.Values(i), "、"))
	}
	size := ""
	if stat, err := os.Stat(res.Archive); err == nil {
		size = util.SizeReadable(stat.Size())
	}
	fmt.Printf("拆分完成，共%s，%s，分为%s文件，耗时%s\n",
		color.HiYellowString("%d行", total), color.HiBlackString("%d行拆分列为空已忽略", res.Dropped),
		color.HiYellowString("%d个", len(res.Rows)), util.Cost(start))
	fmt.Printf("压缩包：%s%s，%s\n", strings.TrimSuffix(res.Archive, filepath.Base(res.Archive)),
		color.HiYellowString(filepath.Base(res.Archive)), size)
	return nil
}

func welcome() {
	fmt.Println("====", color.HiCyanString("Excel Split by Column"), "===========================")
	fmt.Println("Version :", color.HiGreenString("v2.0.261018"))
	fmt.Println("Author  :", color.HiGreenString("nguaduot"))
	fmt.Println("======================================================")

	fmt.Printf("提示1：%s\n", color.HiRedString("按所选列的值轮询分组，该列为空的行不会出现在任何拆分文件中。"))
	fmt.Printf("提示2：%s\n", color.HiRedString("拆分文件保留源表首行样式，全部打包为 zip。"))
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "splitxlsx [file]",
		Short: "按列值将 Excel 拆分为多个文件并打包",
		Long: `splitxlsx 按所选列的不同值（首次出现顺序）轮询分配到 N 个文件，
每个文件保留源表首行样式，最终打包为 {文件名}_split.zip。
未通过参数指定的选项将交互式询问。`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}
	rootCmd.Flags().StringVarP(&sheetName, "sheet", "s", "", "工作表名称（默认第一张）")
	rootCmd.Flags().StringVarP(&column, "column", "c", "", "拆分依据列名")
	rootCmd.Flags().IntVarP(&buckets, "buckets", "n", 3, "拆分文件数")
	rootCmd.Flags().IntVar(&skipRows, "skip", 0, "跳过的数据行数（行首不计）")
	rootCmd.Flags().StringVarP(&outDir, "out", "o", "", "输出目录（默认与源文件同目录）")
	rootCmd.Flags().StringVarP(&format, "format", "f", "", "拆分文件格式：xlsx 或 csv")
	rootCmd.Flags().BoolVar(&wait, "wait", false, "结束后等待回车再退出")

	welcome()
	err := rootCmd.Execute()
	if err != nil {
		fmt.Println(err)
	}
	if wait || len(os.Args) == 1 { // 双击运行
		util.WaitForExit()
	}
	if err != nil {
		os.Exit(1)
	}
}
