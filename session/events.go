package session

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/ByLCY/yas/binding"
	"github.com/ByLCY/yas/dsl"
)

// Event 是宿主投递给会话的输入事件。
type Event interface {
	eventName() string
}

// CharTyped 表示输入了一个字符。U+0008 视为退格，其余控制字符被忽略。
type CharTyped struct{ Rune rune }

// Backspace 删除活动字段的最后一个字符。
type Backspace struct{}

// NavigateNext 对应 Tab 或右方向键。
type NavigateNext struct{}

// NavigatePrev 对应 Shift+Tab 或左方向键。
type NavigatePrev struct{}

// Resize 表示客户区尺寸变化，单位与度量服务一致。
type Resize struct{ Width, Height float64 }

// RepaintRequested 请求重绘当前帧。
type RepaintRequested struct{}

// Submit 对应回车键，提交当前所有字段。
type Submit struct{}

// Quit 对应 Esc，结束会话。
type Quit struct{}

func (CharTyped) eventName() string        { return "char" }
func (Backspace) eventName() string        { return "backspace" }
func (NavigateNext) eventName() string     { return "next" }
func (NavigatePrev) eventName() string     { return "prev" }
func (Resize) eventName() string           { return "resize" }
func (RepaintRequested) eventName() string { return "repaint" }
func (Submit) eventName() string           { return "submit" }
func (Quit) eventName() string             { return "quit" }

// CompileScript 把事件脚本展开为事件序列。type 的文本先用 data 做 ${path} 替换，
// 再逐字符生成 CharTyped。提供了 data 却解析不到的路径原样保留并记一条警告。
func CompileScript(script *dsl.Script, data any, logger *zap.Logger) ([]Event, error) {
	if script == nil {
		return nil, fmt.Errorf("脚本为空")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	var events []Event
	for _, st := range script.Statements {
		switch st.Verb() {
		case dsl.VerbType:
			if data != nil {
				for _, path := range binding.Unresolved(st.Text(), data) {
					logger.Warn("unresolved placeholder", zap.String("path", path), zap.Stringer("pos", st.Pos))
				}
			}
			for _, r := range binding.Interpolate(st.Text(), data) {
				events = append(events, CharTyped{Rune: r})
			}
		case dsl.VerbBackspace:
			for i := 0; i < st.Count(); i++ {
				events = append(events, Backspace{})
			}
		case dsl.VerbNext:
			events = append(events, NavigateNext{})
		case dsl.VerbPrev:
			events = append(events, NavigatePrev{})
		case dsl.VerbResize:
			w, h := st.Size()
			events = append(events, Resize{Width: w, Height: h})
		case dsl.VerbRepaint:
			events = append(events, RepaintRequested{})
		case dsl.VerbEnter:
			events = append(events, Submit{})
		case dsl.VerbQuit:
			events = append(events, Quit{})
		default:
			return nil, fmt.Errorf("%s: 未知命令 %q", st.Pos, st.Name)
		}
	}
	return events, nil
}
