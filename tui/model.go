// Package tui 是交互式终端宿主：把按键和窗口尺寸变化转成会话事件，
// 并用终端渲染器显示当前帧。
package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ByLCY/yas/renderer/terminal"
	"github.com/ByLCY/yas/session"
)

// Model implements tea.Model.
type Model struct {
	sess *session.Session
	r    *terminal.Renderer
	keys keyMap
	help help.Model

	width, height int
	ready         bool
	status        string
	submitted     [][]string
}

var statusStyle = lipgloss.NewStyle().Faint(true)

// New 创建交互模型。会话的尺寸由第一条 WindowSizeMsg 设置。
func New(sess *session.Session, r *terminal.Renderer) Model {
	return Model{
		sess: sess,
		r:    r,
		keys: DefaultKeyMap(),
		help: help.New(),
	}
}

// Submitted 返回会话期间所有回车提交的字段。
func (m Model) Submitted() [][]string { return m.submitted }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.ready = true
		// 最后一行留给状态与帮助
		m.sess.Handle(session.Resize{Width: float64(msg.Width), Height: float64(max(msg.Height-1, 0))})
		return m, nil
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.sess.Handle(session.Quit{})
		return m, tea.Quit
	case key.Matches(msg, m.keys.Submit):
		res := m.sess.Handle(session.Submit{})
		m.submitted = append(m.submitted, res.Submitted)
		m.status = "RETURN " + strings.Join(res.Submitted, " | ")
	case key.Matches(msg, m.keys.Next):
		m.sess.Handle(session.NavigateNext{})
	case key.Matches(msg, m.keys.Prev):
		m.sess.Handle(session.NavigatePrev{})
	case key.Matches(msg, m.keys.Backspace):
		m.sess.Handle(session.Backspace{})
	case msg.Type == tea.KeySpace:
		m.sess.Handle(session.CharTyped{Rune: ' '})
	case msg.Type == tea.KeyRunes:
		for _, r := range msg.Runes {
			m.sess.Handle(session.CharTyped{Rune: r})
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	screen, err := m.r.View(m.sess.Frame())
	if err != nil {
		return statusStyle.Render(err.Error())
	}
	footer := m.help.View(m.keys)
	if m.status != "" {
		footer = statusStyle.Render(m.status) + "  " + footer
	}
	return screen + "\n" + footer
}

// Run 启动全屏交互界面，退出后返回最终模型。
func Run(sess *session.Session, r *terminal.Renderer, opts ...tea.ProgramOption) (Model, error) {
	opts = append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)
	p := tea.NewProgram(New(sess, r), opts...)
	final, err := p.Run()
	if err != nil {
		return Model{}, err
	}
	m, _ := final.(Model)
	return m, nil
}
