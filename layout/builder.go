package layout

import (
	"github.com/ByLCY/yas/fieldlist"
)

// caretScale 为光标三角形高度相对行高的比例。
const caretScale = 0.8

// Layout 根据字段快照、画布尺寸与度量服务生成一帧绘制指令。
// 先排大字号行（每个字段一段文本加一个分隔三角形），再用活动字段的小字号文本平铺剩余区域。
// 相同输入得到逐位相同的指令序列；度量失败只跳过受影响的部分。
func Layout(snap fieldlist.Snapshot, width, height float64, m Measurer, opts Options) *Frame {
	b := &frameBuilder{
		frame: &Frame{Width: width, Height: height},
		opts:  opts,
		m:     m,
	}
	b.background()
	cursorY := b.bigRow(snap)
	b.tiling(snap, cursorY)
	return b.frame
}

type frameBuilder struct {
	frame *Frame
	opts  Options
	m     Measurer
}

func (b *frameBuilder) background() {
	bg := b.opts.Background
	if bg == nil || bg.Source == "" {
		return
	}
	dest := bg.Dest
	if dest.Empty() {
		dest = Rect{Width: b.frame.Width, Height: b.frame.Height}
	}
	b.frame.Instructions = append(b.frame.Instructions, Instruction{
		Kind:   KindBitmap,
		Bitmap: &Bitmap{Source: bg.Source, Dest: dest},
	})
}

// bigRow 从左上角（含边距）开始自左向右排列所有字段，不折行也不裁剪。
// 返回行下方平铺区域的起始纵坐标。
func (b *frameBuilder) bigRow(snap fieldlist.Snapshot) float64 {
	border := b.opts.Border
	x, y := border, border
	rowStart := len(b.frame.Instructions)
	rowHeight := 0.0
	caretMode := b.opts.Caret && len(snap.Fields) == 1

	for i, text := range snap.Fields {
		metrics, err := b.m.Measure(text, b.opts.BigFont, b.frame.Width, b.frame.Height)
		if err != nil {
			b.skip("row", i, err)
			continue
		}
		if metrics.Height > rowHeight {
			rowHeight = metrics.Height
		}
		active := i == snap.Active
		role := RoleDimmed
		if active {
			role = RoleHighlight
		}
		b.text(TextRun{
			Text:      text,
			Origin:    Point{X: x, Y: y},
			Font:      b.opts.BigFont,
			Role:      role,
			MaxWidth:  b.frame.Width,
			MaxHeight: b.frame.Height,
		})

		if caretMode {
			b.caret(i, text, x, y, metrics)
			x += metrics.WidthIncludingTrailingWhitespace
			continue
		}

		x += metrics.WidthIncludingTrailingWhitespace
		// 分隔三角形以字段自身高度（而非行高）垂直居中
		tri := triangle(x, y, b.opts.SeparatorWidth, metrics.Height)
		if active {
			b.fill(tri, RoleSeparator)
		} else {
			b.stroke(tri, RoleSeparator, b.opts.StrokeWidth)
		}
		x += b.opts.SeparatorWidth
	}

	if rowHeight <= 0 {
		b.frame.Instructions = b.frame.Instructions[:rowStart]
		rowHeight = 0
	}
	b.frame.Row = RowInfo{Y: y, Height: rowHeight, Width: x}
	return y + rowHeight + border
}

// caret 在活动文本的末尾插入点处绘制一个实心三角形，高度为行高的 0.8 倍。
func (b *frameBuilder) caret(field int, text string, x, y float64, metrics Metrics) {
	hit := HitPoint{X: metrics.WidthIncludingTrailingWhitespace, LineHeight: metrics.Height}
	if locator, ok := b.m.(CaretLocator); ok {
		h, err := locator.HitTestTrailingEdge(text, b.opts.BigFont, b.frame.Width, b.frame.Height)
		if err != nil {
			b.skip("caret", field, err)
			return
		}
		hit = h
	}
	if hit.LineHeight <= 0 {
		return
	}
	size := caretScale * hit.LineHeight
	cx := x + hit.X
	cy := y + hit.Y + hit.LineHeight/2
	b.fill([]Point{
		{X: cx, Y: cy - size/2},
		{X: cx + size/2, Y: cy},
		{X: cx, Y: cy + size/2},
	}, RoleCaret)
}

// tiling 把活动字段的小字号文本以居中网格铺满行下方的剩余区域。
// cols/rows 向零截断，因此平铺块永远不会超出区域。
func (b *frameBuilder) tiling(snap fieldlist.Snapshot, top float64) {
	border := b.opts.Border
	area := Rect{
		X:      border,
		Y:      top,
		Width:  b.frame.Width - 2*border,
		Height: b.frame.Height - top - border,
	}
	if area.Empty() {
		return
	}
	text := snap.ActiveText()
	if text == "" {
		return
	}
	metrics, err := b.m.Measure(text, b.opts.SmallFont, area.Width, area.Height)
	if err != nil {
		b.skip("tiling", snap.Active, err)
		return
	}
	cellW := metrics.WidthIncludingTrailingWhitespace
	cellH := metrics.Height
	if cellW <= 0 || cellH <= 0 {
		return
	}

	cols := int(area.Width / cellW)
	rows := int(area.Height / cellH)
	grid := &TilingGrid{
		Area:    area,
		CellW:   cellW,
		CellH:   cellH,
		Cols:    cols,
		Rows:    rows,
		OffsetX: area.X + (area.Width-float64(cols)*cellW)/2,
		OffsetY: area.Y + (area.Height-float64(rows)*cellH)/2,
	}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			b.text(TextRun{
				Text:      text,
				Origin:    Point{X: grid.OffsetX + float64(c)*cellW, Y: grid.OffsetY + float64(r)*cellH},
				Font:      b.opts.SmallFont,
				Role:      RoleHighlight,
				MaxWidth:  area.Width,
				MaxHeight: area.Height,
			})
			grid.TileCount++
		}
	}
	b.frame.Tiling = grid
}

func (b *frameBuilder) text(run TextRun) {
	b.frame.Instructions = append(b.frame.Instructions, Instruction{Kind: KindText, Text: &run})
}

func (b *frameBuilder) fill(points []Point, role ColorRole) {
	b.frame.Instructions = append(b.frame.Instructions, Instruction{
		Kind:    KindFill,
		Polygon: &Polygon{Points: points, Role: role},
	})
}

func (b *frameBuilder) stroke(points []Point, role ColorRole, width float64) {
	b.frame.Instructions = append(b.frame.Instructions, Instruction{
		Kind:    KindStroke,
		Polygon: &Polygon{Points: points, Role: role, StrokeWidth: width},
	})
}

func (b *frameBuilder) skip(stage string, field int, err error) {
	b.frame.Skipped = append(b.frame.Skipped, Skip{Stage: stage, Field: field, Reason: err.Error()})
}

// triangle 返回锚定在 (x, y)、指向右侧、高为 h 的三角形。
func triangle(x, y, w, h float64) []Point {
	return []Point{
		{X: x, Y: y},
		{X: x + w, Y: y + h/2},
		{X: x, Y: y + h},
	}
}
