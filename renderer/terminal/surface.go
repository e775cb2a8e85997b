package terminal

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ByLCY/yas/layout"
)

// cell 是网格中的一个单元格，text 为一个字素簇；
// text 为空表示宽字符的右半部分。
type cell struct {
	text string
	role layout.ColorRole
}

// Surface 把绘制调用落到字符网格上，超出网格的内容被裁掉。
type Surface struct {
	r      *Renderer
	width  int
	height int
	grid   [][]cell
	open   bool
}

// NewSurface 创建一个尚未开始绘制的网格。
func (r *Renderer) NewSurface() *Surface { return &Surface{r: r} }

func (s *Surface) BeginFrame(width, height float64) error {
	if width < 0 || height < 0 {
		return fmt.Errorf("画布尺寸无效: %gx%g", width, height)
	}
	s.width, s.height = int(width), int(height)
	s.grid = make([][]cell, s.height)
	for y := range s.grid {
		row := make([]cell, s.width)
		for x := range row {
			row[x] = cell{text: " ", role: layout.RoleBackground}
		}
		s.grid[y] = row
	}
	s.open = true
	return nil
}

func (s *Surface) DrawTextRun(run layout.TextRun) error {
	if !s.open {
		return fmt.Errorf("尚未调用 BeginFrame")
	}
	x0, y0 := int(math.Floor(run.Origin.X)), int(math.Floor(run.Origin.Y))
	for i, line := range wrapCells(run.Text, run.MaxWidth) {
		x, y := x0, y0+i
		clusters(line, func(cluster string, w int) {
			s.put(x, y, cluster, w, run.Role)
			x += w
		})
	}
	return nil
}

func (s *Surface) FillPolygon(points []layout.Point, role layout.ColorRole) error {
	glyph := glyphFilled
	if role == layout.RoleCaret {
		glyph = glyphCaret
	}
	return s.polygon(points, role, glyph)
}

func (s *Surface) StrokePolygon(points []layout.Point, role layout.ColorRole, width float64) error {
	return s.polygon(points, role, glyphStroked)
}

// polygon 在包围盒左侧、垂直中点所在的单元格放一个字形。
func (s *Surface) polygon(points []layout.Point, role layout.ColorRole, glyph rune) error {
	if !s.open {
		return fmt.Errorf("尚未调用 BeginFrame")
	}
	if len(points) < 3 {
		return fmt.Errorf("多边形至少需要 3 个顶点，实际 %d", len(points))
	}
	minX, minY, maxY := points[0].X, points[0].Y, points[0].Y
	for _, p := range points[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}
	s.put(int(math.Floor(minX)), int(math.Floor((minY+maxY)/2)), string(glyph), 1, role)
	return nil
}

// DrawBitmap 无法在网格上显示图片，用阴影字符铺满目标矩形。
func (s *Surface) DrawBitmap(source string, dest layout.Rect) error {
	if !s.open {
		return fmt.Errorf("尚未调用 BeginFrame")
	}
	if source == "" {
		return fmt.Errorf("图片路径为空")
	}
	x0, y0 := int(math.Floor(dest.X)), int(math.Floor(dest.Y))
	for y := y0; y < y0+int(dest.Height); y++ {
		for x := x0; x < x0+int(dest.Width); x++ {
			s.put(x, y, string(glyphBitmap), 1, layout.RoleDimmed)
		}
	}
	return nil
}

func (s *Surface) EndFrame() error {
	if !s.open {
		return fmt.Errorf("尚未调用 BeginFrame")
	}
	s.open = false
	return nil
}

// put 把一个占 w 列的字素簇写到 (x, y)；越界时不写入。
func (s *Surface) put(x, y int, text string, w int, role layout.ColorRole) {
	if y < 0 || y >= s.height || x < 0 || x+w > s.width {
		return
	}
	// 覆盖宽字符的一半时把另一半清成空格
	if s.grid[y][x].text == "" && x > 0 {
		s.grid[y][x-1] = cell{text: " ", role: s.grid[y][x-1].role}
	}
	if last := x + w - 1; last+1 < s.width && s.grid[y][last+1].text == "" {
		s.grid[y][last+1] = cell{text: " ", role: s.grid[y][last+1].role}
	}
	s.grid[y][x] = cell{text: text, role: role}
	for i := 1; i < w; i++ {
		s.grid[y][x+i] = cell{role: role}
	}
}

// String 返回去掉样式的网格内容，每行以换行结尾。
func (s *Surface) String() string {
	var b strings.Builder
	for _, row := range s.grid {
		for _, c := range row {
			b.WriteString(c.text)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// styled 把同一角色的连续单元格合并后交给 lipgloss 渲染。
func (s *Surface) styled(styles map[layout.ColorRole]lipgloss.Style) string {
	var b strings.Builder
	for y, row := range s.grid {
		var run strings.Builder
		role := layout.ColorRole("")
		flush := func() {
			if run.Len() > 0 {
				b.WriteString(styles[role].Render(run.String()))
				run.Reset()
			}
		}
		for _, c := range row {
			if c.text == "" {
				continue
			}
			if c.role != role {
				flush()
				role = c.role
			}
			run.WriteString(c.text)
		}
		flush()
		if y < len(s.grid)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
