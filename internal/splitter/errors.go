package splitter

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedSource = errors.New("不支持的文件类型")
	ErrUnsupportedFormat = errors.New("不支持的导出格式")
	ErrInvalidBuckets    = errors.New("拆分文件数须大于0")
	ErrInvalidSkip       = errors.New("跳过行数不能为负数")
)

// InputError 源文件不可读、工作表或列不存在、参数无效，在拆分开始前返回
type InputError struct {
	Source string
	Err    error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("输入错误（%s）：%v", e.Source, e.Err)
}

func (e *InputError) Unwrap() error {
	return e.Err
}

// IOError 写入拆分文件或压缩包失败，已写入的文件均已清理
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("写入失败（%s）：%v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// StyleCopyWarning 模板缺少该列行首单元格，该列使用默认样式
type StyleCopyWarning struct {
	Column int // 从 0 开始
	Name   string
}

func (w StyleCopyWarning) String() string {
	return fmt.Sprintf("第%d列（%s）缺少行首样式，使用默认样式", w.Column+1, w.Name)
}
