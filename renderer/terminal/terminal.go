// Package terminal 在字符网格上度量与绘制帧：一个单元格即一个长度单位，
// 字体字号被忽略，宽字符占两列。
package terminal

import (
	"fmt"
	"math"
	"strings"
	"unicode"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"

	"github.com/ByLCY/yas/layout"
	"github.com/ByLCY/yas/renderer"
)

// 输出格式
const (
	FormatText = "text"
	FormatANSI = "ansi"
)

// 多边形与位图在网格上的替代字形
const (
	glyphFilled  = '▶'
	glyphStroked = '▷'
	glyphCaret   = '▌'
	glyphBitmap  = '░'
)

// Renderer 实现字符网格上的度量服务与渲染。
type Renderer struct {
	palette renderer.Palette
	styles  map[layout.ColorRole]lipgloss.Style
}

var (
	_ renderer.Renderer   = (*Renderer)(nil)
	_ layout.Measurer     = (*Renderer)(nil)
	_ layout.CaretLocator = (*Renderer)(nil)
	_ renderer.Surface    = (*Surface)(nil)
)

// New 按调色板创建终端渲染器，palette 为空时使用默认配色。
func New(palette renderer.Palette) *Renderer {
	if palette == nil {
		palette = renderer.DefaultPalette()
	}
	bg := lipgloss.Color(palette.Lookup(layout.RoleBackground).Hex())
	styles := map[layout.ColorRole]lipgloss.Style{}
	for _, role := range []layout.ColorRole{
		layout.RoleHighlight, layout.RoleDimmed, layout.RoleSeparator, layout.RoleCaret, layout.RoleBackground,
	} {
		styles[role] = lipgloss.NewStyle().
			Foreground(lipgloss.Color(palette.Lookup(role).Hex())).
			Background(bg)
	}
	styles[layout.RoleHighlight] = styles[layout.RoleHighlight].Bold(true)
	return &Renderer{palette: palette, styles: styles}
}

// DefaultOptions 返回适合字符网格的布局参数：无边距，分隔符占两列。
func DefaultOptions() layout.Options {
	return layout.Options{
		SeparatorWidth: 2,
		StrokeWidth:    1,
		BigFont:        layout.FontProfile{Size: 1, Bold: true},
		SmallFont:      layout.FontProfile{Size: 1},
	}
}

// Measure 以列数为宽、行数为高。空文本仍占一行。
func (r *Renderer) Measure(text string, font layout.FontProfile, maxWidth, maxHeight float64) (layout.Metrics, error) {
	if font.Size <= 0 {
		return layout.Metrics{}, fmt.Errorf("字号无效: %g", font.Size)
	}
	lines := wrapCells(text, maxWidth)
	m := layout.Metrics{Height: float64(len(lines))}
	for _, line := range lines {
		m.Width = math.Max(m.Width, float64(cellWidth(strings.TrimRightFunc(line, unicode.IsSpace))))
		m.WidthIncludingTrailingWhitespace = math.Max(m.WidthIncludingTrailingWhitespace, float64(cellWidth(line)))
	}
	return m, nil
}

// HitTestTrailingEdge 返回最后一行末尾所在的单元格。
func (r *Renderer) HitTestTrailingEdge(text string, font layout.FontProfile, maxWidth, maxHeight float64) (layout.HitPoint, error) {
	if font.Size <= 0 {
		return layout.HitPoint{}, fmt.Errorf("字号无效: %g", font.Size)
	}
	lines := wrapCells(text, maxWidth)
	return layout.HitPoint{
		X:          float64(cellWidth(lines[len(lines)-1])),
		Y:          float64(len(lines) - 1),
		LineHeight: 1,
	}, nil
}

// Render 回放一帧。format 为 text（纯文本）或 ansi（带颜色转义）。
func (r *Renderer) Render(frame *layout.Frame, format string) ([]byte, error) {
	switch format {
	case "", FormatText, FormatANSI:
	default:
		return nil, fmt.Errorf("不支持的输出格式 %q", format)
	}
	s := r.NewSurface()
	if err := renderer.Replay(frame, s); err != nil {
		return nil, err
	}
	if format == FormatANSI {
		return []byte(s.styled(r.styles)), nil
	}
	return []byte(s.String()), nil
}

// View 返回带样式的整屏字符串，供交互界面直接显示。
func (r *Renderer) View(frame *layout.Frame) (string, error) {
	out, err := r.Render(frame, FormatANSI)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// wrapCells 按显式换行拆分，再把超出 maxWidth 列的行在字素簇边界处硬折断。
func wrapCells(text string, maxWidth float64) []string {
	limit := int(maxWidth)
	var out []string
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r", ""), "\n") {
		if limit <= 0 || cellWidth(line) <= limit {
			out = append(out, line)
			continue
		}
		var b strings.Builder
		w := 0
		clusters(line, func(cluster string, cw int) {
			if w > 0 && w+cw > limit {
				out = append(out, b.String())
				b.Reset()
				w = 0
			}
			b.WriteString(cluster)
			w += cw
		})
		out = append(out, b.String())
	}
	return out
}

// clusters 按字素簇遍历一行，回调得到要写入单元格的文本及其列数。
// 度量与绘制共用这一规则：控制字符画成一个空格，
// 没有基字符的零宽簇（孤立的组合符、ZWJ）挂在一个空格上占一列。
func clusters(line string, fn func(cluster string, width int)) {
	g := uniseg.NewGraphemes(line)
	for g.Next() {
		cluster := g.Str()
		if unicode.IsControl(g.Runes()[0]) {
			fn(" ", 1)
			continue
		}
		w := runewidth.StringWidth(cluster)
		if w <= 0 {
			fn(" "+cluster, 1)
			continue
		}
		fn(cluster, w)
	}
}

// cellWidth 返回一行文本在网格上占用的列数。
func cellWidth(line string) int {
	w := 0
	clusters(line, func(_ string, cw int) { w += cw })
	return w
}
