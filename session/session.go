// Package session 把输入事件作用到字段列表上，并在需要时重新生成布局帧。
// 会话是单线程的：所有方法都应在同一个 goroutine 中调用。
package session

import (
	"go.uber.org/zap"

	"github.com/ByLCY/yas/fieldlist"
	"github.com/ByLCY/yas/layout"
	"github.com/ByLCY/yas/logging"
)

// Result 描述一次事件处理的结果。
type Result struct {
	Changed   bool     // 字段或尺寸发生了变化
	Repaint   bool     // 宿主应当重绘
	Quit      bool     // 会话结束
	Submitted []string // Submit 时所有字段的副本
}

// Session 持有字段列表与当前客户区尺寸。
type Session struct {
	fields *fieldlist.List
	width  float64
	height float64

	measurer layout.Measurer
	opts     layout.Options
	log      *zap.Logger

	frame *layout.Frame
	dirty bool
}

// New 以 seed 作为唯一字段创建会话。logger 为空时使用全局日志器。
func New(seed string, m layout.Measurer, opts layout.Options, logger *zap.Logger) *Session {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Session{
		fields:   fieldlist.New(seed),
		measurer: m,
		opts:     opts,
		log:      logger,
		dirty:    true,
	}
}

// Snapshot 返回字段列表的当前快照。
func (s *Session) Snapshot() fieldlist.Snapshot { return s.fields.Snapshot() }

// Size 返回当前客户区尺寸。
func (s *Session) Size() (float64, float64) { return s.width, s.height }

// Handle 处理一个事件。
func (s *Session) Handle(ev Event) Result {
	var res Result
	switch e := ev.(type) {
	case CharTyped:
		switch {
		case e.Rune == '\b':
			res.Changed = s.fields.Backspace()
		case e.Rune < 0x20 || e.Rune == 0x7f:
			// 其余控制字符不进入字段
		default:
			s.fields.InsertChar(e.Rune)
			res.Changed = true
		}
	case Backspace:
		res.Changed = s.fields.Backspace()
	case NavigateNext:
		res.Changed = s.fields.NextField()
	case NavigatePrev:
		res.Changed = s.fields.PrevField()
	case Resize:
		if e.Width < 0 || e.Height < 0 {
			s.log.Warn("ignoring negative size", zap.Float64("width", e.Width), zap.Float64("height", e.Height))
			break
		}
		if e.Width != s.width || e.Height != s.height {
			s.width, s.height = e.Width, e.Height
			res.Changed = true
		}
	case RepaintRequested:
		res.Repaint = true
	case Submit:
		res.Submitted = s.fields.Texts()
		s.log.Info("RETURN", zap.Strings("fields", res.Submitted))
	case Quit:
		res.Quit = true
	}
	if res.Changed {
		s.dirty = true
		res.Repaint = true
	}
	if ev != nil {
		s.log.Debug("event",
			zap.String("type", ev.eventName()),
			zap.Int("fields", s.fields.Len()),
			zap.Int("active", s.fields.Active()),
			zap.Bool("changed", res.Changed),
		)
	}
	return res
}

// Frame 返回当前帧；字段或尺寸变化后才重新布局。
func (s *Session) Frame() *layout.Frame {
	if s.frame == nil || s.dirty {
		s.frame = layout.Layout(s.fields.Snapshot(), s.width, s.height, s.measurer, s.opts)
		s.dirty = false
		logging.LogSkips(s.log, s.frame)
	}
	return s.frame
}

// Outcome 汇总一次批量回放的结果。
type Outcome struct {
	Handled   int
	Quit      bool
	Submitted [][]string
}

// Replay 依次处理事件，遇到 Quit 即停止。每个 RepaintRequested 都会以当前帧
// 调用 onRepaint（可为空），onRepaint 返回错误时立即中止。
func (s *Session) Replay(events []Event, onRepaint func(*layout.Frame) error) (Outcome, error) {
	var out Outcome
	for _, ev := range events {
		res := s.Handle(ev)
		out.Handled++
		if res.Submitted != nil {
			out.Submitted = append(out.Submitted, res.Submitted)
		}
		if res.Quit {
			out.Quit = true
			break
		}
		if _, ok := ev.(RepaintRequested); ok && onRepaint != nil {
			if err := onRepaint(s.Frame()); err != nil {
				return out, err
			}
		}
	}
	return out, nil
}
