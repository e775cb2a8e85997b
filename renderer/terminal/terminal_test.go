package terminal

import (
	"reflect"
	"strings"
	"testing"

	"github.com/ByLCY/yas/fieldlist"
	"github.com/ByLCY/yas/layout"
)

func TestMeasureCells(t *testing.T) {
	r := New(nil)
	font := layout.FontProfile{Size: 1}
	cases := []struct {
		text        string
		maxWidth    float64
		width, incl float64
		height      float64
	}{
		{"YAS!", 80, 4, 4, 1},
		{"Hi  ", 80, 2, 4, 1},
		{"", 80, 0, 0, 1},
		{"日本", 80, 4, 4, 1},
		{"abcdef", 4, 4, 4, 2},
		{"ab\ncde", 80, 3, 3, 2},
		{"e\u0301", 80, 1, 1, 1},
		{"👍🏽", 80, 2, 2, 1},
		{"a\tb", 80, 3, 3, 1},
	}
	for _, tc := range cases {
		m, err := r.Measure(tc.text, font, tc.maxWidth, 24)
		if err != nil {
			t.Fatalf("Measure(%q): %v", tc.text, err)
		}
		want := layout.Metrics{Width: tc.width, WidthIncludingTrailingWhitespace: tc.incl, Height: tc.height}
		if m != want {
			t.Fatalf("Measure(%q) = %+v, want %+v", tc.text, m, want)
		}
	}
	if _, err := r.Measure("x", layout.FontProfile{}, 10, 10); err == nil {
		t.Fatalf("字号为 0 时应返回错误")
	}
}

func TestWrapCells(t *testing.T) {
	got := wrapCells("abcdef\r\ngh", 4)
	want := []string{"abcd", "ef", "gh"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("wrapCells = %q, want %q", got, want)
	}
	if got := wrapCells("日本語", 3); !reflect.DeepEqual(got, []string{"日", "本", "語"}) {
		t.Fatalf("宽字符不应被拆开: %q", got)
	}
	if got := wrapCells("e\u0301e\u0301e\u0301", 2); !reflect.DeepEqual(got, []string{"e\u0301e\u0301", "e\u0301"}) {
		t.Fatalf("组合字符应与基字符一起折行: %q", got)
	}
}

// 组合字符、肤色修饰与制表符：绘制占用的列数必须与度量一致。
func TestRenderGraphemeClusters(t *testing.T) {
	r := New(nil)
	cases := []struct {
		field string
		w, h  float64
		want  string
	}{
		{"e\u0301", 12, 3, "e\u0301▶" + strings.Repeat(" ", 10) + "\n" + strings.Repeat(strings.Repeat("e\u0301", 12)+"\n", 2)},
		{"👍🏽", 8, 2, "👍🏽▶" + strings.Repeat(" ", 5) + "\n" + strings.Repeat("👍🏽", 4) + "\n"},
		{"a\tb", 10, 1, "a b▶" + strings.Repeat(" ", 6) + "\n"},
	}
	for _, tc := range cases {
		frame := layout.Layout(fieldlist.Snapshot{Fields: []string{tc.field}}, tc.w, tc.h, r, DefaultOptions())
		out, err := r.Render(frame, FormatText)
		if err != nil {
			t.Fatalf("Render(%q): %v", tc.field, err)
		}
		if string(out) != tc.want {
			t.Fatalf("Render(%q) =\n%q\nwant\n%q", tc.field, out, tc.want)
		}
	}
}

func TestRenderFrameText(t *testing.T) {
	r := New(nil)
	snap := fieldlist.Snapshot{Fields: []string{"ab", "c"}, Active: 1}
	frame := layout.Layout(snap, 20, 4, r, DefaultOptions())
	out, err := r.Render(frame, FormatText)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	want := "ab▷ c▶" + strings.Repeat(" ", 14) + "\n" + strings.Repeat(strings.Repeat("c", 20)+"\n", 3)
	if string(out) != want {
		t.Fatalf("渲染结果不符:\n%q\nwant\n%q", out, want)
	}
}

func TestRenderCaret(t *testing.T) {
	r := New(nil)
	opts := DefaultOptions()
	opts.Caret = true
	frame := layout.Layout(fieldlist.Snapshot{Fields: []string{"hi"}}, 10, 2, r, opts)
	out, err := r.Render(frame, FormatText)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	lines := strings.Split(string(out), "\n")
	if lines[0] != "hi▌"+strings.Repeat(" ", 7) {
		t.Fatalf("光标位置错误: %q", lines[0])
	}
	if lines[1] != strings.Repeat("hi", 5) {
		t.Fatalf("平铺行错误: %q", lines[1])
	}
}

func TestRenderClipsAndBitmap(t *testing.T) {
	r := New(nil)
	opts := DefaultOptions()
	opts.Background = &layout.Bitmap{Source: "built-in:bg"}
	frame := layout.Layout(fieldlist.Snapshot{Fields: []string{"toolong"}}, 4, 1, r, opts)
	out, err := r.Render(frame, "")
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	// 文本按列宽折行，越界的部分被裁掉
	if string(out) != "tool\n" {
		t.Fatalf("裁剪结果不符: %q", out)
	}
}

func TestRenderFormats(t *testing.T) {
	r := New(nil)
	frame := layout.Layout(fieldlist.Snapshot{Fields: []string{"ab"}}, 6, 1, r, DefaultOptions())
	if _, err := r.Render(frame, "png"); err == nil {
		t.Fatalf("终端渲染器应拒绝 png")
	}
	view, err := r.View(frame)
	if err != nil {
		t.Fatalf("View: %v", err)
	}
	if !strings.Contains(view, "ab") {
		t.Fatalf("带样式的输出缺少文本: %q", view)
	}
	if _, err := r.Render(nil, FormatText); err == nil {
		t.Fatalf("空帧应返回错误")
	}
}

func TestPutWideRuneOverwrite(t *testing.T) {
	s := New(nil).NewSurface()
	if err := s.BeginFrame(4, 1); err != nil {
		t.Fatalf("BeginFrame: %v", err)
	}
	s.put(0, 0, "日", 2, layout.RoleHighlight)
	s.put(1, 0, "x", 1, layout.RoleHighlight)
	if got := s.String(); got != " x  \n" {
		t.Fatalf("覆盖宽字符右半部分后应清掉左半部分: %q", got)
	}
	s.put(3, 0, "本", 2, layout.RoleHighlight) // 越界
	if got := s.String(); got != " x  \n" {
		t.Fatalf("越界写入不应生效: %q", got)
	}
}
