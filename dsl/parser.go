package dsl

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	scriptLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Newline", Pattern: `\n+`},
		{Name: "LineComment", Pattern: `//[^\n]*`},
		{Name: "HashComment", Pattern: `#[^\n]*`},
		{Name: "Number", Pattern: `\d+(?:\.\d+)?`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Semi", Pattern: `;`},
	})

	scriptParser = participle.MustBuild[Script](
		participle.Lexer(scriptLexer),
		participle.Elide("Whitespace", "LineComment", "HashComment"),
	)
)

// 命令的规范名称；别名在 Verb 中归一。
const (
	VerbType      = "type"
	VerbNext      = "next"
	VerbPrev      = "prev"
	VerbBackspace = "backspace"
	VerbResize    = "resize"
	VerbRepaint   = "repaint"
	VerbEnter     = "enter"
	VerbQuit      = "quit"
)

// MaxBackspaceCount 是单条 backspace 语句允许的最大次数。
const MaxBackspaceCount = 10000

var aliases = map[string]string{
	"tab":       VerbNext,
	"right":     VerbNext,
	"shift-tab": VerbPrev,
	"left":      VerbPrev,
	"return":    VerbEnter,
	"escape":    VerbQuit,
}

// Script is the root AST node of an event script.
type Script struct {
	Pos        lexer.Position `parser:"" json:"-"`
	Statements []*Statement   `parser:"( Semi | Newline )* @@*"`
}

// Statement is a single command followed by its separator.
// The separator is optional only for the last statement.
type Statement struct {
	Pos  lexer.Position `parser:"" json:"-"`
	Name string         `parser:"@Ident"`
	Args []*Arg         `parser:"@@*"`
	Sep  string         `parser:"@( Semi | Newline )? ( Semi | Newline )*" json:"-"`
}

// Arg is a string or numeric argument.
type Arg struct {
	Pos    lexer.Position `parser:"" json:"-"`
	String *StringLiteral `parser:"  @String"`
	Number *float64       `parser:"| @Number"`
}

// StringLiteral unquotes Go-style strings on capture.
type StringLiteral string

// Capture implements participle.Capture.
func (s *StringLiteral) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("string literal capture requires value")
	}
	val, err := strconv.Unquote(values[0])
	if err != nil {
		return err
	}
	*s = StringLiteral(val)
	return nil
}

// Verb 返回命令的规范名称。
func (s *Statement) Verb() string {
	if v, ok := aliases[s.Name]; ok {
		return v
	}
	return s.Name
}

// Text 返回 type 命令的文本参数。
func (s *Statement) Text() string {
	if len(s.Args) == 0 || s.Args[0].String == nil {
		return ""
	}
	return string(*s.Args[0].String)
}

// Count 返回 backspace 的重复次数，缺省为 1。
func (s *Statement) Count() int {
	if len(s.Args) == 0 || s.Args[0].Number == nil {
		return 1
	}
	return int(*s.Args[0].Number)
}

// Size 返回 resize 的宽高。
func (s *Statement) Size() (float64, float64) {
	if len(s.Args) < 2 || s.Args[0].Number == nil || s.Args[1].Number == nil {
		return 0, 0
	}
	return *s.Args[0].Number, *s.Args[1].Number
}

// Parse parses an event script from an io.Reader.
func Parse(r io.Reader) (*Script, error) {
	return ParseNamed("", r)
}

// ParseNamed parses a script and reports positions relative to filename.
func ParseNamed(filename string, r io.Reader) (*Script, error) {
	script, err := scriptParser.Parse(filename, r)
	if err != nil {
		return nil, err
	}
	if err := script.validate(); err != nil {
		return nil, err
	}
	return script, nil
}

// ParseString parses an event script from a string.
func ParseString(input string) (*Script, error) {
	script, err := scriptParser.ParseString("", input)
	if err != nil {
		return nil, err
	}
	if err := script.validate(); err != nil {
		return nil, err
	}
	return script, nil
}

// validate 检查命令名、参数个数与类型，以及语句之间的分隔符。
func (s *Script) validate() error {
	for i, st := range s.Statements {
		if st.Sep == "" && i < len(s.Statements)-1 {
			return fmt.Errorf("%s: 命令 %s 之后缺少换行或分号", s.Statements[i+1].Pos, st.Name)
		}
		if err := st.validate(); err != nil {
			return fmt.Errorf("%s: %w", st.Pos, err)
		}
	}
	return nil
}

func (s *Statement) validate() error {
	switch s.Verb() {
	case VerbType:
		if len(s.Args) != 1 || s.Args[0].String == nil {
			return fmt.Errorf("type 需要一个字符串参数")
		}
	case VerbNext, VerbPrev, VerbRepaint, VerbEnter, VerbQuit:
		if len(s.Args) != 0 {
			return fmt.Errorf("%s 不接受参数", s.Name)
		}
	case VerbBackspace:
		if len(s.Args) > 1 {
			return fmt.Errorf("backspace 最多接受一个参数")
		}
		if len(s.Args) == 1 {
			n := s.Args[0].Number
			if n == nil || *n < 1 || *n != math.Trunc(*n) {
				return fmt.Errorf("backspace 的次数必须是正整数")
			}
			if *n > MaxBackspaceCount {
				return fmt.Errorf("backspace 的次数不能超过 %d", MaxBackspaceCount)
			}
		}
	case VerbResize:
		if len(s.Args) != 2 || s.Args[0].Number == nil || s.Args[1].Number == nil {
			return fmt.Errorf("resize 需要宽和高两个数值")
		}
	default:
		return fmt.Errorf("未知命令 %q", s.Name)
	}
	return nil
}
