package canvasrenderer

import (
	"bytes"
	"fmt"
	"image/color"
	"image/png"
	"math"
	"os"
	"strings"
	"sync"
	"unicode"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"
	"github.com/tdewolff/canvas/renderers/rasterizer"
	"github.com/tdewolff/canvas/renderers/svg"

	"github.com/ByLCY/yas/fonts"
	"github.com/ByLCY/yas/layout"
	"github.com/ByLCY/yas/renderer"
)

// 本渲染器的布局单位为毫米（mm）：度量结果、画布尺寸与绘制坐标均为 mm。
// 字体面按 pt 创建，在边界做 mm↔pt 换算。

// Renderer measures and draws frames via github.com/tdewolff/canvas.
type Renderer struct {
	baseDir    string
	palette    renderer.Palette
	resolution float64 // PNG 输出的像素/毫米

	imageBlobs map[string][]byte
	fontBlobs  map[string]FontSource

	fontMu   sync.Mutex
	families map[string]*canvas.FontFamily
}

var (
	_ renderer.Renderer   = (*Renderer)(nil)
	_ layout.Measurer     = (*Renderer)(nil)
	_ layout.CaretLocator = (*Renderer)(nil)
	_ renderer.Surface    = (*Surface)(nil)
)

// Options configures the canvas renderer.
type Options struct {
	BaseDir    string
	Palette    renderer.Palette
	Resolution float64               // pixels per mm for PNG output, 0 means 96 DPI
	Fonts      map[string]FontSource // by family name
	Images     map[string]Resource   // built-in images accessible via built-in:<name>
}

// FontSource provides the regular and (optionally) bold face of a family.
type FontSource struct {
	Regular Resource
	Bold    Resource
}

// Resource can be provided either by Bytes or by Path. Paths prefixed with
// "embed:" name a built-in font, eg: embed:Go-Bold.
type Resource struct {
	Bytes []byte
	Path  string
}

func (r Resource) load() ([]byte, error) {
	if len(r.Bytes) > 0 {
		return r.Bytes, nil
	}
	if r.Path == "" {
		return nil, nil
	}
	if strings.HasPrefix(r.Path, "embed:") {
		return fonts.Load(r.Path)
	}
	return os.ReadFile(r.Path)
}

// NewRendererWithOptions creates a renderer with injected resources.
func NewRendererWithOptions(opts Options) *Renderer {
	r := &Renderer{
		baseDir:    opts.BaseDir,
		palette:    opts.Palette,
		resolution: opts.Resolution,
		imageBlobs: map[string][]byte{},
		fontBlobs:  map[string]FontSource{},
		families:   map[string]*canvas.FontFamily{},
	}
	if r.palette == nil {
		r.palette = renderer.DefaultPalette()
	}
	if r.resolution <= 0 {
		r.resolution = layout.MmToPx
	}
	for name, src := range opts.Fonts {
		if name != "" {
			r.fontBlobs[name] = src
		}
	}
	for name, res := range opts.Images {
		if name == "" {
			continue
		}
		data, _ := res.load() // 读取失败在真正使用时报错
		if len(data) > 0 {
			r.imageBlobs[name] = data
		}
	}
	return r
}

// Measure 实现 layout.Measurer：按 maxWidth 折行后返回最宽行的宽度与总高度。
// 空文本仍占一行高度。
func (r *Renderer) Measure(text string, font layout.FontProfile, maxWidth, maxHeight float64) (layout.Metrics, error) {
	face, err := r.fontFace(font, layout.RoleHighlight)
	if err != nil {
		return layout.Metrics{}, err
	}
	lines := wrapText(text, maxWidth, face.TextWidth)
	lineHeight := face.Metrics().LineHeight
	m := layout.Metrics{Height: lineHeight * float64(len(lines))}
	for _, line := range lines {
		m.Width = math.Max(m.Width, face.TextWidth(strings.TrimRightFunc(line, unicode.IsSpace)))
		m.WidthIncludingTrailingWhitespace = math.Max(m.WidthIncludingTrailingWhitespace, face.TextWidth(line))
	}
	return m, nil
}

// HitTestTrailingEdge 实现 layout.CaretLocator：返回最后一行末尾的位置与行高。
func (r *Renderer) HitTestTrailingEdge(text string, font layout.FontProfile, maxWidth, maxHeight float64) (layout.HitPoint, error) {
	face, err := r.fontFace(font, layout.RoleHighlight)
	if err != nil {
		return layout.HitPoint{}, err
	}
	lines := wrapText(text, maxWidth, face.TextWidth)
	lineHeight := face.Metrics().LineHeight
	last := lines[len(lines)-1]
	return layout.HitPoint{
		X:          face.TextWidth(last),
		Y:          lineHeight * float64(len(lines)-1),
		LineHeight: lineHeight,
	}, nil
}

// Render 回放一帧并按 format（png/pdf/svg）编码。
func (r *Renderer) Render(frame *layout.Frame, format string) ([]byte, error) {
	if frame == nil {
		return nil, fmt.Errorf("渲染帧为空")
	}
	if frame.Width <= 0 || frame.Height <= 0 {
		return nil, fmt.Errorf("画布尺寸无效: %gx%g", frame.Width, frame.Height)
	}
	s := r.NewSurface()
	if err := renderer.Replay(frame, s); err != nil {
		return nil, err
	}
	return r.encode(s.canvas, format)
}

func (r *Renderer) encode(c *canvas.Canvas, format string) ([]byte, error) {
	var buf bytes.Buffer
	switch strings.ToLower(strings.TrimPrefix(format, ".")) {
	case "", "png":
		img := rasterizer.Draw(c, canvas.DPMM(r.resolution), canvas.DefaultColorSpace)
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("写入 PNG 失败: %w", err)
		}
	case "pdf":
		writer := pdf.New(&buf, c.W, c.H, nil)
		c.RenderTo(writer)
		if err := writer.Close(); err != nil {
			return nil, fmt.Errorf("写入 PDF 失败: %w", err)
		}
	case "svg":
		writer := svg.New(&buf, c.W, c.H, nil)
		c.RenderTo(writer)
		if err := writer.Close(); err != nil {
			return nil, fmt.Errorf("写入 SVG 失败: %w", err)
		}
	default:
		return nil, fmt.Errorf("不支持的输出格式 %q", format)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) fontFace(font layout.FontProfile, role layout.ColorRole) (*canvas.FontFace, error) {
	if font.Size <= 0 {
		return nil, fmt.Errorf("字号无效: %g", font.Size)
	}
	family, err := r.ensureFamily(font.Family)
	if err != nil {
		return nil, err
	}
	style := canvas.FontRegular
	if font.Bold {
		style = canvas.FontBold
	}
	return family.Face(toPt(font.Size), colorFromPalette(r.palette, role), style, canvas.FontNormal), nil
}

func (r *Renderer) ensureFamily(name string) (*canvas.FontFamily, error) {
	if name == "" {
		name = fonts.Family
	}
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if family, ok := r.families[name]; ok {
		return family, nil
	}
	regular, bold, err := r.loadFontBytes(name)
	if err != nil {
		if name == fonts.Family {
			return nil, err
		}
		// 自定义字体不可用时回退到内置字体
		regular, bold = fonts.Regular(), fonts.Bold()
	}
	family := canvas.NewFontFamily(name)
	if err := family.LoadFont(regular, 0, canvas.FontRegular); err != nil {
		return nil, fmt.Errorf("加载字体 %s 失败: %w", name, err)
	}
	if err := family.LoadFont(bold, 0, canvas.FontBold); err != nil {
		return nil, fmt.Errorf("加载字体 %s 粗体失败: %w", name, err)
	}
	r.families[name] = family
	return family, nil
}

// loadFontBytes 优先使用注入的字体，其次回退到内置 Go 字体。缺少粗体时复用常规字重。
func (r *Renderer) loadFontBytes(name string) ([]byte, []byte, error) {
	src, ok := r.fontBlobs[name]
	if !ok {
		if name != fonts.Family {
			return nil, nil, fmt.Errorf("字体 %s 未定义", name)
		}
		return fonts.Regular(), fonts.Bold(), nil
	}
	regular, err := src.Regular.load()
	if err != nil {
		return nil, nil, fmt.Errorf("读取字体 %s 失败: %w", name, err)
	}
	if len(regular) == 0 {
		return nil, nil, fmt.Errorf("字体 %s 缺少常规字重", name)
	}
	bold, err := src.Bold.load()
	if err != nil {
		return nil, nil, fmt.Errorf("读取字体 %s 粗体失败: %w", name, err)
	}
	if len(bold) == 0 {
		bold = regular
	}
	return regular, bold, nil
}

func colorFromPalette(p renderer.Palette, role layout.ColorRole) color.Color {
	c := p.Lookup(role)
	return canvas.RGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, 1.0)
}

// toPt 将毫米(mm)转换为点(pt)。
func toPt(mm float64) float64 { return mm * layout.MmToPt }
