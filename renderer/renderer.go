package renderer

import (
	"fmt"

	"github.com/ByLCY/yas/layout"
)

// Renderer 将一帧布局输出为最终文件，例如 PNG、PDF 或 SVG。
// Render 返回生成的二进制数据以及可能的错误。
type Renderer interface {
	Render(frame *layout.Frame, format string) ([]byte, error)
}

// Surface 是渲染面：在 BeginFrame/EndFrame 之间按顺序接收绘制调用。
// 后绘制的内容覆盖先绘制的内容，因此调用顺序必须与帧中的指令顺序一致。
type Surface interface {
	BeginFrame(width, height float64) error
	DrawTextRun(run layout.TextRun) error
	FillPolygon(points []layout.Point, role layout.ColorRole) error
	StrokePolygon(points []layout.Point, role layout.ColorRole, width float64) error
	DrawBitmap(source string, dest layout.Rect) error
	EndFrame() error
}

// Replay 把帧中的指令原样回放到渲染面上。
func Replay(frame *layout.Frame, s Surface) error {
	if frame == nil {
		return fmt.Errorf("渲染帧为空")
	}
	if err := s.BeginFrame(frame.Width, frame.Height); err != nil {
		return fmt.Errorf("开始绘制失败: %w", err)
	}
	for i, ins := range frame.Instructions {
		if err := replayOne(ins, s); err != nil {
			return fmt.Errorf("回放第 %d 条指令（%s）失败: %w", i, ins.Kind, err)
		}
	}
	if err := s.EndFrame(); err != nil {
		return fmt.Errorf("结束绘制失败: %w", err)
	}
	return nil
}

func replayOne(ins layout.Instruction, s Surface) error {
	switch ins.Kind {
	case layout.KindText:
		if ins.Text == nil {
			return fmt.Errorf("文本指令缺少内容")
		}
		return s.DrawTextRun(*ins.Text)
	case layout.KindFill:
		if ins.Polygon == nil {
			return fmt.Errorf("填充指令缺少多边形")
		}
		return s.FillPolygon(ins.Polygon.Points, ins.Polygon.Role)
	case layout.KindStroke:
		if ins.Polygon == nil {
			return fmt.Errorf("描边指令缺少多边形")
		}
		return s.StrokePolygon(ins.Polygon.Points, ins.Polygon.Role, ins.Polygon.StrokeWidth)
	case layout.KindBitmap:
		if ins.Bitmap == nil {
			return fmt.Errorf("位图指令缺少内容")
		}
		return s.DrawBitmap(ins.Bitmap.Source, ins.Bitmap.Dest)
	default:
		return fmt.Errorf("未知指令类型 %q", ins.Kind)
	}
}
