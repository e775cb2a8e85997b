package fieldlist

import (
	"errors"
	"fmt"
)

// 该文件实现字段列表：有序的文本条目与当前活动条目下标。
// 所有变更都经由 InsertChar/Backspace/NextField/PrevField 完成，操作后校验结构不变式。

var (
	// ErrEmpty 表示快照中没有任何字段。
	ErrEmpty = errors.New("fieldlist: 字段列表不能为空")
	// ErrActiveOutOfRange 表示快照中的活动下标越界。
	ErrActiveOutOfRange = errors.New("fieldlist: 活动下标越界")
)

// Snapshot 是字段列表在某一时刻的只读副本，供布局阶段消费。
type Snapshot struct {
	Fields []string `json:"fields"`
	Active int      `json:"active"`
}

// ActiveText 返回快照中活动字段的文本。
func (s Snapshot) ActiveText() string {
	if s.Active < 0 || s.Active >= len(s.Fields) {
		return ""
	}
	return s.Fields[s.Active]
}

// List 保存字段缓冲区（按 Unicode 码点存储）与活动下标。
// 字段数始终 ≥ 1；除唯一字段外，空字段仅由导航操作惰性清理。
type List struct {
	fields [][]rune
	active int
}

// New 以一个种子字段创建列表，活动下标为 0。
func New(seed string) *List {
	return &List{fields: [][]rune{[]rune(seed)}}
}

// FromSnapshot 根据快照重建列表。
func FromSnapshot(s Snapshot) (*List, error) {
	if len(s.Fields) == 0 {
		return nil, ErrEmpty
	}
	if s.Active < 0 || s.Active >= len(s.Fields) {
		return nil, fmt.Errorf("%w: active=%d len=%d", ErrActiveOutOfRange, s.Active, len(s.Fields))
	}
	l := &List{fields: make([][]rune, len(s.Fields)), active: s.Active}
	for i, f := range s.Fields {
		l.fields[i] = []rune(f)
	}
	return l, nil
}

// Len 返回字段数量。
func (l *List) Len() int { return len(l.fields) }

// Active 返回活动字段下标。
func (l *List) Active() int { return l.active }

// Text 返回第 i 个字段的文本。
func (l *List) Text(i int) string { return string(l.fields[i]) }

// ActiveText 返回活动字段的文本。
func (l *List) ActiveText() string { return string(l.fields[l.active]) }

// Texts 返回所有字段文本的副本。
func (l *List) Texts() []string {
	out := make([]string, len(l.fields))
	for i, f := range l.fields {
		out[i] = string(f)
	}
	return out
}

// Snapshot 返回当前状态的不可变副本。
func (l *List) Snapshot() Snapshot {
	return Snapshot{Fields: l.Texts(), Active: l.active}
}

// InsertChar 在活动字段末尾追加字符。控制字符的过滤由调用方负责。
func (l *List) InsertChar(r rune) {
	l.fields[l.active] = append(l.fields[l.active], r)
	l.check("InsertChar")
}

// Backspace 删除活动字段的最后一个字符。
// 若删除后字段变空且列表中不止一个字段，则移除该字段并把下标钳制到末尾。
// 活动字段本就为空时什么也不做。返回列表是否发生变化。
func (l *List) Backspace() bool {
	buf := l.fields[l.active]
	if len(buf) == 0 {
		return false
	}
	buf = buf[:len(buf)-1]
	l.fields[l.active] = buf
	if len(buf) == 0 && len(l.fields) > 1 {
		l.remove(l.active)
		l.clamp()
	}
	l.check("Backspace")
	return true
}

// NextField 前进到下一个字段。
// 活动字段为空（且不是唯一字段）时将其移除；否则在其后插入一个空字段并移动过去。
// 唯一的空字段上为空操作，返回 false。
func (l *List) NextField() bool {
	if len(l.fields[l.active]) == 0 {
		if len(l.fields) == 1 {
			return false
		}
		l.remove(l.active)
		l.clamp()
	} else {
		l.insert(l.active+1, nil)
		l.active++
	}
	l.check("NextField")
	return true
}

// PrevField 后退到上一个字段。
// 活动字段为空（且不是唯一字段）时将其移除并左移一位；
// 否则在其前插入一个空字段，下标保持不变，于是新空字段成为活动字段。
// 唯一的空字段上为空操作，返回 false。
func (l *List) PrevField() bool {
	if len(l.fields[l.active]) == 0 {
		if len(l.fields) == 1 {
			return false
		}
		l.remove(l.active)
		if l.active > 0 {
			l.active--
		}
		l.clamp()
	} else {
		l.insert(l.active, nil)
	}
	l.check("PrevField")
	return true
}

func (l *List) insert(at int, buf []rune) {
	l.fields = append(l.fields, nil)
	copy(l.fields[at+1:], l.fields[at:])
	l.fields[at] = buf
}

func (l *List) remove(at int) {
	copy(l.fields[at:], l.fields[at+1:])
	l.fields[len(l.fields)-1] = nil
	l.fields = l.fields[:len(l.fields)-1]
}

func (l *List) clamp() {
	if l.active >= len(l.fields) {
		l.active = len(l.fields) - 1
	}
}

// check 在每次操作后校验结构不变式；违反即为程序错误。
func (l *List) check(op string) {
	if len(l.fields) == 0 {
		panic(fmt.Sprintf("fieldlist: %s 之后字段列表为空", op))
	}
	if l.active < 0 || l.active >= len(l.fields) {
		panic(fmt.Sprintf("fieldlist: %s 之后活动下标越界: active=%d len=%d", op, l.active, len(l.fields)))
	}
}
