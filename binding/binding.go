// Package binding 把脚本文本中的 ${path} 占位符替换为外部 JSON 数据中的值。
package binding

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var placeholder = regexp.MustCompile(`\$\{([^}]+)\}`)

// step 是路径中的一段：键名或数组下标。
type step struct {
	key   string
	index int
	isIdx bool
}

// Interpolate 将文本中的 ${path.to.value} 替换为 data 中的值。
// 若 data 为空或路径不存在，则保留原占位符。
func Interpolate(text string, data any) string {
	if data == nil {
		return text
	}
	return placeholder.ReplaceAllStringFunc(text, func(match string) string {
		if val, ok := Lookup(data, match[2:len(match)-1]); ok {
			return format(val)
		}
		return match
	})
}

// Unresolved 返回文本中无法从 data 解析的路径，按出现顺序排列。
func Unresolved(text string, data any) []string {
	var missing []string
	for _, groups := range placeholder.FindAllStringSubmatch(text, -1) {
		if _, ok := Lookup(data, groups[1]); !ok {
			missing = append(missing, strings.TrimSpace(groups[1]))
		}
	}
	return missing
}

// Lookup 按 a.b[0].c 形式的路径在 JSON 解码后的数据中取值。
func Lookup(data any, path string) (any, bool) {
	steps, ok := parsePath(strings.TrimSpace(path))
	if !ok || data == nil {
		return nil, false
	}
	current := data
	for _, s := range steps {
		if s.isIdx {
			arr, ok := current.([]any)
			if !ok || s.index < 0 || s.index >= len(arr) {
				return nil, false
			}
			current = arr[s.index]
			continue
		}
		obj, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		if current, ok = obj[s.key]; !ok {
			return nil, false
		}
	}
	return current, true
}

func parsePath(path string) ([]step, bool) {
	if path == "" {
		return nil, false
	}
	var steps []step
	for _, segment := range strings.Split(path, ".") {
		name, rest, _ := strings.Cut(segment, "[")
		if name == "" && rest == "" {
			return nil, false
		}
		if name != "" {
			steps = append(steps, step{key: name})
		}
		if rest == "" {
			continue
		}
		if !strings.HasSuffix(rest, "]") {
			return nil, false
		}
		for _, idx := range strings.Split(strings.TrimSuffix(rest, "]"), "][") {
			n, err := strconv.Atoi(idx)
			if err != nil {
				return nil, false
			}
			steps = append(steps, step{index: n, isIdx: true})
		}
	}
	return steps, true
}

func format(val any) string {
	switch v := val.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}
