package xlsx

import (
	"gitee.com/nguaduot/split-column-go/internal/table"
	"github.com/xuri/excelize/v2"
)

// HeaderStyle 行首单元格样式，仅包含需复制的字段，按值传递
type HeaderStyle struct {
	Font      Font
	Fill      Fill
	Border    Border
	Alignment Alignment
	NumFmt    NumFmt
}

type Font struct {
	Name         string
	Size         float64
	Bold         bool
	Color        string // RGB，不含 alpha
	ColorIndexed int
	ColorTheme   int
	HasTheme     bool
	ColorTint    float64
}

type Fill struct {
	Type       string // pattern / gradient
	Pattern    int
	Shading    int
	StartColor string
	EndColor   string
}

type BorderSide struct {
	Style int
	Color string
}

type Border struct {
	Left   BorderSide
	Right  BorderSide
	Top    BorderSide
	Bottom BorderSide
}

type Alignment struct {
	Horizontal string
	Vertical   string
	WrapText   bool
}

// NumFmt 内置格式取 ID，自定义格式取 Custom（ID 依工作簿而定，不保留）
type NumFmt = table.NumFmt

// StyleFrom 从 excelize 样式中提取需复制的字段
func StyleFrom(s *excelize.Style) HeaderStyle {
	var hs HeaderStyle
	if s == nil {
		return hs
	}
	if s.Font != nil {
		hs.Font = Font{
			Name:         s.Font.Family,
			Size:         s.Font.Size,
			Bold:         s.Font.Bold,
			Color:        s.Font.Color,
			ColorIndexed: s.Font.ColorIndexed,
			ColorTint:    s.Font.ColorTint,
		}
		if s.Font.ColorTheme != nil {
			hs.Font.ColorTheme = *s.Font.ColorTheme
			hs.Font.HasTheme = true
		}
	}
	hs.Fill = Fill{
		Type:    s.Fill.Type,
		Pattern: s.Fill.Pattern,
		Shading: s.Fill.Shading,
	}
	if len(s.Fill.Color) > 0 {
		hs.Fill.StartColor = s.Fill.Color[0]
	}
	if len(s.Fill.Color) > 1 {
		hs.Fill.EndColor = s.Fill.Color[1]
	}
	for _, b := range s.Border {
		side := BorderSide{Style: b.Style, Color: b.Color}
		switch b.Type {
		case "left":
			hs.Border.Left = side
		case "right":
			hs.Border.Right = side
		case "top":
			hs.Border.Top = side
		case "bottom":
			hs.Border.Bottom = side
		}
	}
	if s.Alignment != nil {
		hs.Alignment = Alignment{
			Horizontal: s.Alignment.Horizontal,
			Vertical:   s.Alignment.Vertical,
			WrapText:   s.Alignment.WrapText,
		}
	}
	if s.CustomNumFmt != nil && *s.CustomNumFmt != "" {
		hs.NumFmt.Custom = *s.CustomNumFmt
	} else {
		hs.NumFmt.ID = s.NumFmt
	}
	return hs
}

// Excelize 生成新的 excelize 样式，每次调用均为独立副本
func (hs HeaderStyle) Excelize() *excelize.Style {
	s := &excelize.Style{}
	if hs.Font != (Font{}) {
		s.Font = &excelize.Font{
			Family:       hs.Font.Name,
			Size:         hs.Font.Size,
			Bold:         hs.Font.Bold,
			Color:        hs.Font.Color,
			ColorIndexed: hs.Font.ColorIndexed,
			ColorTint:    hs.Font.ColorTint,
		}
		if hs.Font.HasTheme {
			theme := hs.Font.ColorTheme
			s.Font.ColorTheme = &theme
		}
	}
	if hs.Fill.Pattern > 0 || hs.Fill.Type == "gradient" {
		s.Fill = excelize.Fill{
			Type:    hs.Fill.Type,
			Pattern: hs.Fill.Pattern,
			Shading: hs.Fill.Shading,
		}
		if hs.Fill.StartColor != "" {
			s.Fill.Color = append(s.Fill.Color, hs.Fill.StartColor)
			if hs.Fill.EndColor != "" {
				s.Fill.Color = append(s.Fill.Color, hs.Fill.EndColor)
			}
		}
	}
	for _, side := range []struct {
		typ string
		BorderSide
	}{
		{"left", hs.Border.Left},
		{"right", hs.Border.Right},
		{"top", hs.Border.Top},
		{"bottom", hs.Border.Bottom},
	} {
		if side.Style == 0 {
			continue
		}
		s.Border = append(s.Border, excelize.Border{
			Type:  side.typ,
			Color: side.Color,
			Style: side.Style,
		})
	}
	if hs.Alignment != (Alignment{}) {
		s.Alignment = &excelize.Alignment{
			Horizontal: hs.Alignment.Horizontal,
			Vertical:   hs.Alignment.Vertical,
			WrapText:   hs.Alignment.WrapText,
		}
	}
	if hs.NumFmt.Custom != "" {
		custom := hs.NumFmt.Custom
		s.CustomNumFmt = &custom
	} else {
		s.NumFmt = hs.NumFmt.ID
	}
	return s
}

// Template 源表首行各列的样式，列号从 0 开始
type Template struct {
	styles map[int]HeaderStyle
}

func NewTemplate(styles map[int]HeaderStyle) Template {
	t := Template{styles: make(map[int]HeaderStyle, len(styles))}
	for c, s := range styles {
		t.styles[c] = s
	}
	return t
}

// Style 缺失时返回 false，调用方保持默认样式
func (t Template) Style(col int) (HeaderStyle, bool) {
	s, ok := t.styles[col]
	return s, ok
}

func (t Template) Len() int {
	return len(t.styles)
}
