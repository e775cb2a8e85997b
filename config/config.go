// Package config 读取 yas 的 TOML/YAML 配置，缺失的键使用默认值。
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/ByLCY/yas/fonts"
	"github.com/ByLCY/yas/layout"
	"github.com/ByLCY/yas/renderer"
)

// Config 是解析并补全默认值后的配置。长度保留原始单位，
// 由 LayoutOptions/CanvasSize 统一换算为毫米。
type Config struct {
	Seed     string
	LogLevel string
	Canvas   Canvas
	Fonts    Fonts
	Layout   Layout
	Palette  renderer.Palette

	// BaseDir 是配置文件所在目录，用于解析相对路径。
	BaseDir string
}

// Canvas 描述离屏渲染的画布。
type Canvas struct {
	Width  layout.Length
	Height layout.Length
	Format string
}

// Fonts 描述大小两种字体。Regular/Bold 为可选的字体文件路径。
type Fonts struct {
	Family  string
	Big     layout.Length
	Small   layout.Length
	BigBold bool
	Regular string
	Bold    string
}

// Layout 描述布局常量。
type Layout struct {
	Border     layout.Length
	Separator  layout.Length
	Stroke     layout.Length
	Caret      bool
	Background string
}

const (
	DefaultSeed   = "YAS!"
	DefaultFormat = "png"
)

// rawConfig 对应文件中的键；字符串留空表示使用默认值。
type rawConfig struct {
	Seed     *string `toml:"seed" yaml:"seed"`
	LogLevel string  `toml:"log_level" yaml:"log_level"`
	Canvas   struct {
		Width  string `toml:"width" yaml:"width"`
		Height string `toml:"height" yaml:"height"`
		Format string `toml:"format" yaml:"format"`
	} `toml:"canvas" yaml:"canvas"`
	Fonts struct {
		Family  string `toml:"family" yaml:"family"`
		Big     string `toml:"big" yaml:"big"`
		Small   string `toml:"small" yaml:"small"`
		BigBold *bool  `toml:"big_bold" yaml:"big_bold"`
		Regular string `toml:"regular" yaml:"regular"`
		Bold    string `toml:"bold" yaml:"bold"`
	} `toml:"fonts" yaml:"fonts"`
	Layout struct {
		Border     string `toml:"border" yaml:"border"`
		Separator  string `toml:"separator" yaml:"separator"`
		Stroke     string `toml:"stroke" yaml:"stroke"`
		Caret      bool   `toml:"caret" yaml:"caret"`
		Background string `toml:"background" yaml:"background"`
	} `toml:"layout" yaml:"layout"`
	Colors map[string]string `toml:"colors" yaml:"colors"`
}

// Default 返回默认配置：24px 粗体大字、12px 小字、
// 16px 分隔符、2px 描边、4px 边距，黑底白字。
func Default() Config {
	return Config{
		Seed: DefaultSeed,
		Canvas: Canvas{
			Width:  layout.Length{Value: 1920, Unit: layout.UnitPX},
			Height: layout.Length{Value: 1080, Unit: layout.UnitPX},
			Format: DefaultFormat,
		},
		Fonts: Fonts{
			Family:  fonts.Family,
			Big:     layout.Length{Value: 24, Unit: layout.UnitPX},
			Small:   layout.Length{Value: 12, Unit: layout.UnitPX},
			BigBold: true,
		},
		Layout: Layout{
			Border:    layout.Length{Value: 4, Unit: layout.UnitPX},
			Separator: layout.Length{Value: 16, Unit: layout.UnitPX},
			Stroke:    layout.Length{Value: 2, Unit: layout.UnitPX},
		},
		Palette: renderer.DefaultPalette(),
	}
}

// Load 读取配置文件；path 为空或文件不存在时返回默认配置。
// 扩展名为 .yaml/.yml 时按 YAML 解析，其余按 TOML 解析。
func Load(path string) (Config, error) {
	cfg := Default()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}
	resolved, err := expandPath(path)
	if err != nil {
		return Config{}, err
	}
	cfg.BaseDir = filepath.Dir(resolved)

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("打开配置文件失败: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("读取配置文件失败: %w", err)
	}

	var raw rawConfig
	switch strings.ToLower(filepath.Ext(resolved)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &raw)
	default:
		err = toml.Unmarshal(data, &raw)
	}
	if err != nil {
		return Config{}, fmt.Errorf("解析配置文件 %s 失败: %w", path, err)
	}
	if err := cfg.apply(raw); err != nil {
		return Config{}, fmt.Errorf("配置文件 %s 无效: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) apply(raw rawConfig) error {
	if raw.Seed != nil {
		c.Seed = *raw.Seed
	}
	if c.Seed == "" {
		return fmt.Errorf("seed 不能为空")
	}
	c.LogLevel = strings.TrimSpace(raw.LogLevel)

	lengths := []struct {
		key   string
		value string
		dst   *layout.Length
	}{
		{"canvas.width", raw.Canvas.Width, &c.Canvas.Width},
		{"canvas.height", raw.Canvas.Height, &c.Canvas.Height},
		{"fonts.big", raw.Fonts.Big, &c.Fonts.Big},
		{"fonts.small", raw.Fonts.Small, &c.Fonts.Small},
		{"layout.border", raw.Layout.Border, &c.Layout.Border},
		{"layout.separator", raw.Layout.Separator, &c.Layout.Separator},
		{"layout.stroke", raw.Layout.Stroke, &c.Layout.Stroke},
	}
	for _, l := range lengths {
		if strings.TrimSpace(l.value) == "" {
			continue
		}
		parsed, err := layout.ParseLength(l.value)
		if err != nil {
			return fmt.Errorf("%s: %w", l.key, err)
		}
		*l.dst = parsed
	}
	if c.Canvas.Width.IsZero() || c.Canvas.Height.IsZero() {
		return fmt.Errorf("画布尺寸必须为正，实际 %s×%s", c.Canvas.Width, c.Canvas.Height)
	}
	if c.Fonts.Big.IsZero() || c.Fonts.Small.IsZero() {
		return fmt.Errorf("字号必须为正，实际 big=%s small=%s", c.Fonts.Big, c.Fonts.Small)
	}

	if f := strings.ToLower(strings.TrimSpace(raw.Canvas.Format)); f != "" {
		switch f {
		case "png", "pdf", "svg":
			c.Canvas.Format = f
		default:
			return fmt.Errorf("canvas.format 不支持 %q", raw.Canvas.Format)
		}
	}

	if v := strings.TrimSpace(raw.Fonts.Family); v != "" {
		c.Fonts.Family = v
	}
	if raw.Fonts.BigBold != nil {
		c.Fonts.BigBold = *raw.Fonts.BigBold
	}
	c.Fonts.Regular = c.resolve(raw.Fonts.Regular)
	c.Fonts.Bold = c.resolve(raw.Fonts.Bold)
	if c.Fonts.Bold != "" && c.Fonts.Regular == "" {
		return fmt.Errorf("fonts.bold 需要同时指定 fonts.regular")
	}

	c.Layout.Caret = raw.Layout.Caret
	c.Layout.Background = strings.TrimSpace(raw.Layout.Background)

	for key, value := range raw.Colors {
		role := layout.ColorRole(strings.ToLower(strings.TrimSpace(key)))
		if _, known := c.Palette[role]; !known {
			return fmt.Errorf("colors: 未知的颜色角色 %q", key)
		}
		color, err := renderer.ParseColor(value)
		if err != nil {
			return fmt.Errorf("colors.%s: %w", key, err)
		}
		c.Palette[role] = color
	}
	return nil
}

// resolve 把相对路径解析为相对配置文件目录的路径。
func (c *Config) resolve(path string) string {
	path = strings.TrimSpace(path)
	if path == "" || filepath.IsAbs(path) || c.BaseDir == "" || strings.HasPrefix(path, "embed:") {
		return path
	}
	return filepath.Join(c.BaseDir, path)
}

// CanvasSize 返回画布尺寸（mm）。
func (c Config) CanvasSize() (float64, float64) {
	return c.Canvas.Width.ToMM(), c.Canvas.Height.ToMM()
}

// LayoutOptions 把配置换算为毫米单位的布局参数。
func (c Config) LayoutOptions() layout.Options {
	opts := layout.Options{
		Border:         c.Layout.Border.ToMM(),
		SeparatorWidth: c.Layout.Separator.ToMM(),
		StrokeWidth:    c.Layout.Stroke.ToMM(),
		BigFont:        layout.FontProfile{Family: c.Fonts.Family, Size: c.Fonts.Big.ToMM(), Bold: c.Fonts.BigBold},
		SmallFont:      layout.FontProfile{Family: c.Fonts.Family, Size: c.Fonts.Small.ToMM()},
		Caret:          c.Layout.Caret,
	}
	if c.Layout.Background != "" {
		opts.Background = &layout.Bitmap{Source: c.Layout.Background}
	}
	return opts
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("解析用户目录失败: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
