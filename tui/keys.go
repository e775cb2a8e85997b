package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap 定义交互界面的全部按键。字符输入不在这里，直接转为 CharTyped。
type keyMap struct {
	Next      key.Binding
	Prev      key.Binding
	Backspace key.Binding
	Submit    key.Binding
	Quit      key.Binding
}

// DefaultKeyMap 返回默认按键：Tab/右键前进，Shift+Tab/左键后退，
// Enter 提交，Esc 退出。
func DefaultKeyMap() keyMap {
	return keyMap{
		Next: key.NewBinding(
			key.WithKeys("tab", "right"),
			key.WithHelp("tab/→", "next field"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab", "left"),
			key.WithHelp("shift+tab/←", "prev field"),
		),
		Backspace: key.NewBinding(
			key.WithKeys("backspace", "ctrl+h"),
			key.WithHelp("⌫", "delete"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "submit"),
		),
		Quit: key.NewBinding(
			key.WithKeys("esc", "ctrl+c"),
			key.WithHelp("esc", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Prev, k.Backspace, k.Submit, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
