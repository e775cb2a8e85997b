package dsl_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/ByLCY/yas/dsl"
)

const sampleScript = `
# 输入标题后切到下一个字段
type "YAS!"
next
type "Hello, ${user.name}"; backspace 2
shift-tab // 回到第一个字段

resize 800 600.5
repaint; enter
quit
`

func TestParseScript(t *testing.T) {
	script, err := dsl.ParseString(sampleScript)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	var verbs []string
	for _, st := range script.Statements {
		verbs = append(verbs, st.Verb())
	}
	want := "type next type backspace prev resize repaint enter quit"
	if got := strings.Join(verbs, " "); got != want {
		t.Fatalf("unexpected verbs:\n got %s\nwant %s", got, want)
	}

	if got := script.Statements[0].Text(); got != "YAS!" {
		t.Fatalf("expected type text YAS!, got %q", got)
	}
	if got := script.Statements[2].Text(); !strings.Contains(got, "${user.name}") {
		t.Fatalf("expected interpolation placeholder to survive parsing, got %q", got)
	}
	if got := script.Statements[3].Count(); got != 2 {
		t.Fatalf("expected backspace count 2, got %d", got)
	}
	if w, h := script.Statements[5].Size(); w != 800 || h != 600.5 {
		t.Fatalf("unexpected resize size %gx%g", w, h)
	}
	if script.Statements[3].Pos.Line != 5 {
		t.Fatalf("expected backspace on line 5, got %d", script.Statements[3].Pos.Line)
	}
}

func TestParseDefaults(t *testing.T) {
	script, err := dsl.ParseString("backspace")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if got := script.Statements[0].Count(); got != 1 {
		t.Fatalf("backspace without count should default to 1, got %d", got)
	}

	empty, err := dsl.Parse(strings.NewReader("\n# nothing\n;;\n"))
	if err != nil {
		t.Fatalf("parse empty failed: %v", err)
	}
	if len(empty.Statements) != 0 {
		t.Fatalf("expected no statements, got %d", len(empty.Statements))
	}
}

func TestParseAliases(t *testing.T) {
	script, err := dsl.ParseString("tab\nright\nleft\nreturn\nescape")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	want := []string{dsl.VerbNext, dsl.VerbNext, dsl.VerbPrev, dsl.VerbEnter, dsl.VerbQuit}
	for i, st := range script.Statements {
		if st.Verb() != want[i] {
			t.Fatalf("statement %d: expected %s, got %s", i, want[i], st.Verb())
		}
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"unknown command", "jump", "未知命令"},
		{"missing separator", "next prev", "缺少换行或分号"},
		{"type without text", "type", "字符串参数"},
		{"type with number", "type 3", "字符串参数"},
		{"navigation with args", "next 2", "不接受参数"},
		{"fractional backspace", "backspace 1.5", "正整数"},
		{"zero backspace", "backspace 0", "正整数"},
		{"huge backspace", "backspace 100000000000", "不能超过"},
		{"resize arity", "resize 10", "宽和高"},
		{"unterminated string", `type "abc`, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := dsl.ParseString(tc.input)
			if err == nil {
				t.Fatalf("expected error for %q", tc.input)
			}
			if tc.want != "" && !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestBackspaceCountLimit(t *testing.T) {
	script, err := dsl.ParseString(fmt.Sprintf("backspace %d", dsl.MaxBackspaceCount))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := script.Statements[0].Count(); got != dsl.MaxBackspaceCount {
		t.Fatalf("Count() = %d, want %d", got, dsl.MaxBackspaceCount)
	}
	if _, err := dsl.ParseString(fmt.Sprintf("backspace %d", dsl.MaxBackspaceCount+1)); err == nil {
		t.Fatalf("count above the limit should fail")
	}
}

func TestParseErrorPosition(t *testing.T) {
	_, err := dsl.ParseNamed("demo.yas", strings.NewReader("next\n\n  jump\n"))
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.HasPrefix(err.Error(), "demo.yas:3:3") {
		t.Fatalf("expected error position demo.yas:3:3, got %v", err)
	}
}
