package renderer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ByLCY/yas/layout"
)

// Color 采用 0-255 的 RGB 数值。
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// Hex 返回 #RRGGBB 形式。
func (c Color) Hex() string { return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B) }

// Palette 把语义颜色映射为具体颜色。
type Palette map[layout.ColorRole]Color

// DefaultPalette 黑底白字，非活动字段灰色，分隔符与光标红色。
func DefaultPalette() Palette {
	return Palette{
		layout.RoleHighlight:  {R: 255, G: 255, B: 255},
		layout.RoleDimmed:     {R: 170, G: 170, B: 170},
		layout.RoleSeparator:  {R: 255, G: 0, B: 0},
		layout.RoleCaret:      {R: 255, G: 0, B: 0},
		layout.RoleBackground: {R: 0, G: 0, B: 0},
	}
}

// Lookup 返回角色对应的颜色，未配置时回退到默认调色板。
func (p Palette) Lookup(role layout.ColorRole) Color {
	if c, ok := p[role]; ok {
		return c
	}
	return DefaultPalette()[role]
}

// ParseColor 解析 #RGB、#RRGGBB 或 #RRGGBBAA（忽略透明度）。
func ParseColor(value string) (Color, error) {
	v := strings.TrimPrefix(strings.TrimSpace(value), "#")
	switch len(v) {
	case 3:
		v = string([]byte{v[0], v[0], v[1], v[1], v[2], v[2]})
	case 6:
	case 8:
		v = v[:6]
	default:
		return Color{}, fmt.Errorf("颜色值 %s 无法解析", value)
	}
	n, err := strconv.ParseUint(v, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("颜色值 %s 无法解析: %w", value, err)
	}
	return Color{R: int(n >> 16 & 0xFF), G: int(n >> 8 & 0xFF), B: int(n & 0xFF)}, nil
}
