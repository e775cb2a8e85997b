package canvasrenderer

import (
	"reflect"
	"testing"
	"unicode/utf8"
)

// runeWidth 让每个码点宽 1，便于断言折行结果。
func runeWidth(s string) float64 { return float64(utf8.RuneCountInString(s)) }

func TestWrapText(t *testing.T) {
	cases := []struct {
		name    string
		content string
		limit   float64
		want    []string
	}{
		{"no limit", "hello world", 0, []string{"hello world"}},
		{"breaks at spaces", "aaa bbb ccc", 7, []string{"aaa bbb ", "ccc"}},
		{"splits long words", "abcdefghij", 4, []string{"abcd", "efgh", "ij"}},
		{"honors newlines", "foo\n\nbar", 100, []string{"foo", "", "bar"}},
		{"empty", "", 10, []string{""}},
		{"trailing whitespace stays", "Hi   ", 2, []string{"Hi   "}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := wrapText(tc.content, tc.limit, runeWidth)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("wrapText(%q, %g) = %q, want %q", tc.content, tc.limit, got, tc.want)
			}
		})
	}
}

// TestWrapWidthLimit 验证除尾随空白外每行宽度不超过限制。
func TestWrapWidthLimit(t *testing.T) {
	content := "longlonglong longlonglong longlonglong longlonglong"
	for _, line := range wrapText(content, 10, runeWidth) {
		if w := runeWidth(trimRight(line)); w > 10 {
			t.Fatalf("行宽超限: %q (%g)", line, w)
		}
	}
}

func trimRight(s string) string {
	for len(s) > 0 && s[len(s)-1] == ' ' {
		s = s[:len(s)-1]
	}
	return s
}
