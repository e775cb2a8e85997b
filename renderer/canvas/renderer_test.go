package canvasrenderer

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"
	"strings"
	"testing"

	"github.com/ByLCY/yas/fieldlist"
	"github.com/ByLCY/yas/layout"
)

// 这里的字号/宽度均为 mm
var (
	bigFont   = layout.FontProfile{Size: 24 * layout.PxToMm, Bold: true}
	smallFont = layout.FontProfile{Size: 12 * layout.PxToMm}
)

func TestMeasureTrailingWhitespace(t *testing.T) {
	r := NewRendererWithOptions(Options{BaseDir: "."})
	m, err := r.Measure("Hi  ", bigFont, 500, 300)
	if err != nil {
		t.Fatalf("Measure: %v", err)
	}
	if m.Width <= 0 || m.Height <= 0 {
		t.Fatalf("度量应为正: %+v", m)
	}
	if m.WidthIncludingTrailingWhitespace <= m.Width {
		t.Fatalf("含尾随空白的宽度应更大: %+v", m)
	}
}

func TestMeasureEmptyTextKeepsLineHeight(t *testing.T) {
	r := NewRendererWithOptions(Options{BaseDir: "."})
	m, err := r.Measure("", bigFont, 500, 300)
	if err != nil {
		t.Fatalf("Measure: %v", err)
	}
	if m.Width != 0 || m.WidthIncludingTrailingWhitespace != 0 {
		t.Fatalf("空文本宽度应为 0: %+v", m)
	}
	if m.Height <= 0 {
		t.Fatalf("空文本仍应占一行高度: %+v", m)
	}
}

func TestMeasureWrapsAtMaxWidth(t *testing.T) {
	r := NewRendererWithOptions(Options{BaseDir: "."})
	one, err := r.Measure("word", smallFont, 1000, 1000)
	if err != nil {
		t.Fatalf("Measure: %v", err)
	}
	limit := one.WidthIncludingTrailingWhitespace * 1.5
	many, err := r.Measure("word word word word", smallFont, limit, 1000)
	if err != nil {
		t.Fatalf("Measure: %v", err)
	}
	lines := many.Height / one.Height
	if math.Abs(lines-math.Round(lines)) > 1e-6 || lines < 2 {
		t.Fatalf("应折成整数行（≥2），实际 %g 行", lines)
	}
	if many.Width-limit > 1e-6 {
		t.Fatalf("折行后宽度超限: width=%g limit=%g", many.Width, limit)
	}
}

func TestMeasureRejectsInvalidSize(t *testing.T) {
	r := NewRendererWithOptions(Options{BaseDir: "."})
	if _, err := r.Measure("x", layout.FontProfile{}, 100, 100); err == nil {
		t.Fatalf("字号为 0 时应返回错误")
	}
}

func TestUnknownFamilyFallsBack(t *testing.T) {
	r := NewRendererWithOptions(Options{BaseDir: "."})
	font := smallFont
	font.Family = "NoSuchFamily"
	if _, err := r.Measure("x", font, 100, 100); err != nil {
		t.Fatalf("未知字体应回退到内置字体: %v", err)
	}
}

func TestEmbeddedFontSource(t *testing.T) {
	r := NewRendererWithOptions(Options{Fonts: map[string]FontSource{
		"Heavy": {Regular: Resource{Path: "embed:Go-Bold"}},
	}})
	regular, bold, err := r.loadFontBytes("Heavy")
	if err != nil || len(regular) == 0 {
		t.Fatalf("embed: 字体应可加载: %v", err)
	}
	if !bytes.Equal(regular, bold) {
		t.Fatalf("缺少粗体时应复用常规字重")
	}
	font := smallFont
	font.Family = "Heavy"
	if _, err := r.Measure("x", font, 100, 100); err != nil {
		t.Fatalf("Measure: %v", err)
	}
}

func TestHitTestTrailingEdge(t *testing.T) {
	r := NewRendererWithOptions(Options{BaseDir: "."})
	m, err := r.Measure("caret ", bigFont, 500, 300)
	if err != nil {
		t.Fatalf("Measure: %v", err)
	}
	hit, err := r.HitTestTrailingEdge("caret ", bigFont, 500, 300)
	if err != nil {
		t.Fatalf("HitTestTrailingEdge: %v", err)
	}
	if math.Abs(hit.X-m.WidthIncludingTrailingWhitespace) > 1e-9 || hit.Y != 0 {
		t.Fatalf("单行文本的末尾位置错误: hit=%+v metrics=%+v", hit, m)
	}
	if math.Abs(hit.LineHeight-m.Height) > 1e-9 {
		t.Fatalf("行高应与单行高度一致: hit=%+v metrics=%+v", hit, m)
	}
}

func renderSample(t *testing.T, r *Renderer, opts layout.Options, format string) []byte {
	t.Helper()
	snap := fieldlist.Snapshot{Fields: []string{"YAS!", "Hi"}, Active: 1}
	frame := layout.Layout(snap, 120, 60, r, opts)
	out, err := r.Render(frame, format)
	if err != nil {
		t.Fatalf("Render(%s): %v", format, err)
	}
	return out
}

func sampleOptions() layout.Options {
	return layout.Options{
		Border:         4 * layout.PxToMm,
		SeparatorWidth: 16 * layout.PxToMm,
		StrokeWidth:    2 * layout.PxToMm,
		BigFont:        bigFont,
		SmallFont:      smallFont,
	}
}

func TestRenderFormats(t *testing.T) {
	r := NewRendererWithOptions(Options{BaseDir: "."})
	cases := []struct {
		format string
		check  func([]byte) bool
	}{
		{"png", func(b []byte) bool { return bytes.HasPrefix(b, []byte("\x89PNG")) }},
		{"pdf", func(b []byte) bool { return bytes.HasPrefix(b, []byte("%PDF")) }},
		{"svg", func(b []byte) bool { return bytes.Contains(b, []byte("<svg")) }},
	}
	for _, tc := range cases {
		out := renderSample(t, r, sampleOptions(), tc.format)
		if !tc.check(out) {
			t.Fatalf("%s 输出格式不符，前缀 %q", tc.format, out[:min(len(out), 16)])
		}
	}
}

func TestRenderRejectsUnknownFormat(t *testing.T) {
	r := NewRendererWithOptions(Options{BaseDir: "."})
	frame := layout.Layout(fieldlist.Snapshot{Fields: []string{"x"}}, 50, 50, r, sampleOptions())
	if _, err := r.Render(frame, "bmp"); err == nil || !strings.Contains(err.Error(), "bmp") {
		t.Fatalf("未知格式应返回错误，实际 %v", err)
	}
	if _, err := r.Render(&layout.Frame{}, "png"); err == nil {
		t.Fatalf("零尺寸画布应返回错误")
	}
}

func TestRenderBuiltInBackground(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.RGBA{R: 0, G: 0, B: 255, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	r := NewRendererWithOptions(Options{Images: map[string]Resource{"bg": {Bytes: buf.Bytes()}}})
	opts := sampleOptions()
	opts.Background = &layout.Bitmap{Source: "built-in:bg"}
	renderSample(t, r, opts, "png")

	opts.Background = &layout.Bitmap{Source: "built-in:missing"}
	snap := fieldlist.Snapshot{Fields: []string{"x"}}
	if _, err := r.Render(layout.Layout(snap, 50, 50, r, opts), "png"); err == nil {
		t.Fatalf("缺失的内置图片应返回错误")
	}
}

func TestSurfaceRequiresBeginFrame(t *testing.T) {
	s := NewRendererWithOptions(Options{BaseDir: "."}).NewSurface()
	if err := s.FillPolygon([]layout.Point{{}, {X: 1}, {Y: 1}}, layout.RoleSeparator); err == nil {
		t.Fatalf("未开始绘制时应返回错误")
	}
	if err := s.BeginFrame(10, 10); err != nil {
		t.Fatalf("BeginFrame: %v", err)
	}
	if err := s.StrokePolygon([]layout.Point{{}, {X: 1}}, layout.RoleSeparator, 1); err == nil {
		t.Fatalf("少于 3 个顶点应返回错误")
	}
	if err := s.EndFrame(); err != nil {
		t.Fatalf("EndFrame: %v", err)
	}
	if err := s.EndFrame(); err == nil {
		t.Fatalf("重复调用 EndFrame 应返回错误")
	}
}
