package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/ByLCY/yas/config"
	"github.com/ByLCY/yas/dsl"
	"github.com/ByLCY/yas/layout"
	"github.com/ByLCY/yas/logging"
	canvasrenderer "github.com/ByLCY/yas/renderer/canvas"
	"github.com/ByLCY/yas/renderer/terminal"
	"github.com/ByLCY/yas/session"
	"github.com/ByLCY/yas/tui"
)

// renderOptions 汇总 render 子命令的参数。
type renderOptions struct {
	ScriptPath string
	OutputPath string
	DebugPath  string
	FramesDir  string
	Data       any
}

var (
	scriptPath string
	outputPath string
	debugPath  string
	framesDir  string
	dataJSON   string
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Replay an event script and render the final frame",
	Long: `Replay an event script against a fresh session and write the final
frame as PNG, PDF or SVG. The format follows the output extension, falling
back to canvas.format from the config file.

Sizes in "resize" statements are pixels (96 per inch).`,
	Example: `  # Render the seed field only
  yas render --out output/yas.png

  # Replay a script with data bound to ${...} placeholders
  yas render --script demo.yas --data '{"user":{"name":"Ada"}}' --out demo.pdf`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := renderOptions{
			ScriptPath: scriptPath,
			OutputPath: outputPath,
			DebugPath:  debugPath,
			FramesDir:  framesDir,
		}
		if dataJSON != "" {
			if err := json.Unmarshal([]byte(dataJSON), &opts.Data); err != nil {
				return fmt.Errorf("解析 data JSON 失败: %w", err)
			}
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := run(cfg, opts, cmd.OutOrStdout()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "已生成：%s\n", opts.OutputPath)
		return nil
	},
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Start the interactive terminal UI",
	RunE:  runTUI,
}

func init() {
	renderCmd.Flags().StringVar(&scriptPath, "script", "", "事件脚本路径，留空则只渲染初始字段")
	renderCmd.Flags().StringVar(&outputPath, "out", "output/yas.png", "输出文件路径")
	renderCmd.Flags().StringVar(&debugPath, "debug", "", "布局调试 JSON 输出路径")
	renderCmd.Flags().StringVar(&framesDir, "frames", "", "每个 repaint 输出一帧到该目录")
	renderCmd.Flags().StringVar(&dataJSON, "data", "", "绑定到脚本的 JSON 数据")
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, err
	}
	level := logLevel
	if level == "" {
		level = cfg.LogLevel
	}
	if err := logging.Initialize(level); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// run 串联脚本解析、事件回放、布局与渲染。
func run(cfg config.Config, opts renderOptions, stdout io.Writer) error {
	log := logging.GetLogger()
	events, err := loadEvents(opts.ScriptPath, opts.Data, log)
	if err != nil {
		return err
	}

	baseDir := cfg.BaseDir
	if baseDir == "" && opts.ScriptPath != "" {
		baseDir = filepath.Dir(opts.ScriptPath)
	}
	if baseDir == "" {
		baseDir = "."
	}
	r := canvasrenderer.NewRendererWithOptions(canvasrenderer.Options{
		BaseDir: baseDir,
		Palette: cfg.Palette,
		Fonts:   fontSources(cfg),
	})

	sess := session.New(cfg.Seed, r, cfg.LayoutOptions(), log)
	width, height := cfg.CanvasSize()
	sess.Handle(session.Resize{Width: width, Height: height})

	format := outputFormat(opts.OutputPath, cfg.Canvas.Format)
	frameNo := 0
	outcome, err := sess.Replay(events, func(frame *layout.Frame) error {
		if opts.FramesDir == "" {
			return nil
		}
		frameNo++
		path := filepath.Join(opts.FramesDir, fmt.Sprintf("frame-%03d.%s", frameNo, format))
		return writeFrame(r, frame, format, path)
	})
	if err != nil {
		return fmt.Errorf("回放事件失败: %w", err)
	}
	log.Debug("script replayed", zap.Int("events", outcome.Handled), zap.Bool("quit", outcome.Quit))
	for _, fields := range outcome.Submitted {
		fmt.Fprintf(stdout, "RETURN %s\n", strings.Join(fields, " | "))
	}

	frame := sess.Frame()
	if opts.DebugPath != "" {
		if err := writeDebug(frame, opts.DebugPath); err != nil {
			return err
		}
	}
	return writeFrame(r, frame, format, opts.OutputPath)
}

// loadEvents 解析脚本并展开为事件；path 为空时返回空序列。
func loadEvents(path string, data any, log *zap.Logger) ([]session.Event, error) {
	if path == "" {
		return nil, nil
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("无法打开脚本文件 %s: %w", path, err)
	}
	defer file.Close()

	script, err := dsl.ParseNamed(path, file)
	if err != nil {
		return nil, fmt.Errorf("解析脚本失败: %w", err)
	}
	events, err := session.CompileScript(script, data, log)
	if err != nil {
		return nil, err
	}
	// 脚本中的尺寸按 px 书写，画布渲染器以 mm 为单位
	for i, ev := range events {
		if rs, ok := ev.(session.Resize); ok {
			events[i] = session.Resize{Width: rs.Width * layout.PxToMm, Height: rs.Height * layout.PxToMm}
		}
	}
	return events, nil
}

func fontSources(cfg config.Config) map[string]canvasrenderer.FontSource {
	if cfg.Fonts.Regular == "" {
		return nil
	}
	return map[string]canvasrenderer.FontSource{
		cfg.Fonts.Family: {
			Regular: canvasrenderer.Resource{Path: cfg.Fonts.Regular},
			Bold:    canvasrenderer.Resource{Path: cfg.Fonts.Bold},
		},
	}
}

// outputFormat 优先使用输出文件的扩展名。
func outputFormat(path, fallback string) string {
	switch ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")); ext {
	case "png", "pdf", "svg":
		return ext
	}
	if fallback == "" {
		return config.DefaultFormat
	}
	return fallback
}

func writeFrame(r *canvasrenderer.Renderer, frame *layout.Frame, format, path string) error {
	data, err := r.Render(frame, format)
	if err != nil {
		return fmt.Errorf("渲染失败: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("写入文件 %s 失败: %w", path, err)
	}
	return nil
}

func writeDebug(frame *layout.Frame, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := layout.WriteDebugJSON(frame, path); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("交互界面需要终端；非交互环境请使用 yas render")
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	r := terminal.New(cfg.Palette)
	opts := terminal.DefaultOptions()
	opts.Caret = cfg.Layout.Caret
	sess := session.New(cfg.Seed, r, opts, logging.GetLogger())

	final, err := tui.Run(sess, r)
	if err != nil {
		return fmt.Errorf("交互界面异常退出: %w", err)
	}
	for _, fields := range final.Submitted() {
		fmt.Fprintf(cmd.OutOrStdout(), "RETURN %s\n", strings.Join(fields, " | "))
	}
	return nil
}
