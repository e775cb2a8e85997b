package canvasrenderer

import (
	"math"
	"strings"
	"unicode"
)

// wrapText 按宽度把文本拆成多行：优先在空白处断开，单词超过限制时在词内拆分，
// 并尊重显式换行。limit ≤ 0 表示不限宽。measure 返回一段文本的宽度。
func wrapText(content string, limit float64, measure func(string) float64) []string {
	if limit <= 0 {
		limit = math.MaxFloat64
	}
	var lines []string
	var builder strings.Builder
	current := 0.0

	emit := func(force bool) {
		if builder.Len() == 0 {
			if force {
				lines = append(lines, "")
			}
			return
		}
		lines = append(lines, builder.String())
		builder.Reset()
		current = 0
	}
	appendToken := func(token string, w float64) {
		builder.WriteString(token)
		current += w
	}

	for _, token := range tokenize(content) {
		if token == "\n" {
			emit(true)
			continue
		}
		w := measure(token)
		// 行尾空白不触发折行，与常见排版引擎一致
		if isSpace(token) {
			appendToken(token, w)
			continue
		}
		if current > 0 && current+w > limit {
			emit(false)
		}
		if w <= limit {
			appendToken(token, w)
			continue
		}
		for _, chunk := range splitByWidth(token, limit, measure) {
			cw := measure(chunk)
			if current > 0 && current+cw > limit {
				emit(false)
			}
			appendToken(chunk, cw)
		}
	}
	emit(true)
	return lines
}

// tokenize 把文本切成交替的空白/非空白片段，换行单独成为一个片段。
func tokenize(s string) []string {
	var tokens []string
	var builder strings.Builder
	lastWasSpace := false
	flush := func() {
		if builder.Len() == 0 {
			return
		}
		tokens = append(tokens, builder.String())
		builder.Reset()
	}
	for _, r := range s {
		if r == '\r' {
			continue
		}
		if r == '\n' {
			flush()
			tokens = append(tokens, "\n")
			continue
		}
		space := unicode.IsSpace(r)
		if builder.Len() > 0 && lastWasSpace != space {
			flush()
		}
		lastWasSpace = space
		builder.WriteRune(r)
	}
	flush()
	return tokens
}

func splitByWidth(token string, limit float64, measure func(string) float64) []string {
	var parts []string
	var chunk []rune
	for _, r := range token {
		chunk = append(chunk, r)
		if len(chunk) > 1 && measure(string(chunk)) > limit {
			parts = append(parts, string(chunk[:len(chunk)-1]))
			chunk = []rune{r}
		}
	}
	if len(chunk) > 0 {
		parts = append(parts, string(chunk))
	}
	return parts
}

func isSpace(token string) bool {
	return strings.TrimSpace(token) == ""
}
