package canvasrenderer

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/yas/layout"
)

// Surface 是一次绘制的渲染面，绑定到单个 canvas.Canvas。
type Surface struct {
	r      *Renderer
	canvas *canvas.Canvas
	ctx    *canvas.Context
}

// NewSurface 创建一个尚未开始绘制的渲染面。
func (r *Renderer) NewSurface() *Surface { return &Surface{r: r} }

// BeginFrame 新建画布并以背景色清屏。
func (s *Surface) BeginFrame(width, height float64) error {
	s.canvas = canvas.New(width, height)
	s.ctx = canvas.NewContext(s.canvas)
	s.ctx.SetCoordSystem(canvas.CartesianIV) // 使坐标与布局保持左上角为原点

	s.ctx.SetFillColor(colorFromPalette(s.r.palette, layout.RoleBackground))
	s.ctx.SetStrokeColor(color.RGBA{0, 0, 0, 0})
	s.ctx.DrawPath(0, 0, canvas.Rectangle(width, height))
	return nil
}

// DrawTextRun 以与度量相同的折行规则逐行绘制文本，Origin 为布局框左上角。
func (s *Surface) DrawTextRun(run layout.TextRun) error {
	if s.ctx == nil {
		return fmt.Errorf("尚未调用 BeginFrame")
	}
	face, err := s.r.fontFace(run.Font, run.Role)
	if err != nil {
		return err
	}
	metrics := face.Metrics()
	lines := wrapText(run.Text, run.MaxWidth, face.TextWidth)
	for i, line := range lines {
		if line == "" {
			continue
		}
		// 基线位置：行顶部加上字体上升部
		baseline := run.Origin.Y + float64(i)*metrics.LineHeight + metrics.Ascent
		s.ctx.DrawText(run.Origin.X, baseline, canvas.NewTextLine(face, line, canvas.Left))
	}
	return nil
}

// FillPolygon 以角色颜色填充多边形。
func (s *Surface) FillPolygon(points []layout.Point, role layout.ColorRole) error {
	path, x, y, err := s.polygon(points)
	if err != nil {
		return err
	}
	s.ctx.SetFillColor(colorFromPalette(s.r.palette, role))
	s.ctx.SetStrokeColor(color.RGBA{0, 0, 0, 0})
	s.ctx.DrawPath(x, y, path)
	return nil
}

// StrokePolygon 以角色颜色描边多边形，不填充。
func (s *Surface) StrokePolygon(points []layout.Point, role layout.ColorRole, width float64) error {
	path, x, y, err := s.polygon(points)
	if err != nil {
		return err
	}
	if width <= 0 {
		width = 2 * layout.PxToMm
	}
	s.ctx.SetFillColor(color.RGBA{0, 0, 0, 0})
	s.ctx.SetStrokeColor(colorFromPalette(s.r.palette, role))
	s.ctx.SetStrokeWidth(width)
	s.ctx.DrawPath(x, y, path)
	return nil
}

// polygon 构建以首个顶点为原点的闭合路径。
func (s *Surface) polygon(points []layout.Point) (*canvas.Path, float64, float64, error) {
	if s.ctx == nil {
		return nil, 0, 0, fmt.Errorf("尚未调用 BeginFrame")
	}
	if len(points) < 3 {
		return nil, 0, 0, fmt.Errorf("多边形至少需要 3 个顶点，实际 %d", len(points))
	}
	x0, y0 := points[0].X, points[0].Y
	p := &canvas.Path{}
	p.MoveTo(0, 0)
	for _, pt := range points[1:] {
		p.LineTo(pt.X-x0, pt.Y-y0)
	}
	p.Close()
	return p, x0, y0, nil
}

// DrawBitmap 解码位图并缩放到目标矩形的宽度。
func (s *Surface) DrawBitmap(source string, dest layout.Rect) error {
	if s.ctx == nil {
		return fmt.Errorf("尚未调用 BeginFrame")
	}
	img, err := s.r.loadImage(source)
	if err != nil {
		return err
	}
	width := dest.Width
	if width <= 0 {
		width = s.canvas.W
	}
	dpmm := float64(img.Bounds().Dx()) / width
	if dpmm <= 0 {
		dpmm = 1
	}
	s.ctx.DrawImage(dest.X, dest.Y, img, canvas.DPMM(dpmm))
	return nil
}

// EndFrame 结束绘制；画布保留用于编码。
func (s *Surface) EndFrame() error {
	if s.ctx == nil {
		return fmt.Errorf("尚未调用 BeginFrame")
	}
	s.ctx = nil
	return nil
}

func (r *Renderer) loadImage(src string) (image.Image, error) {
	if src == "" {
		return nil, fmt.Errorf("图片路径为空")
	}
	// built-in resources take precedence
	if strings.HasPrefix(src, "built-in:") || strings.HasPrefix(src, "builtin:") {
		name := strings.TrimPrefix(strings.TrimPrefix(src, "built-in:"), "builtin:")
		blob, ok := r.imageBlobs[name]
		if !ok {
			return nil, fmt.Errorf("找不到内置图片资源 built-in:%s", name)
		}
		img, _, err := image.Decode(bytes.NewReader(blob))
		if err != nil {
			return nil, fmt.Errorf("解码内置图片 built-in:%s 失败: %w", name, err)
		}
		return img, nil
	}
	if r.baseDir == "" && !filepath.IsAbs(src) {
		return nil, fmt.Errorf("未指定资源目录时不允许直接使用路径：%s（请改用 built-in:）", src)
	}
	path := src
	if !filepath.IsAbs(path) {
		path = filepath.Join(r.baseDir, path)
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("读取图片 %s 失败: %w", src, err)
	}
	defer file.Close()
	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("解码图片 %s 失败: %w", src, err)
	}
	return img, nil
}
