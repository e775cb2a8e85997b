// Yas 是一个全屏字段循环器：大字号横排所有字段，下方用活动字段平铺整个画面。
//
// 用法：
//
//	yas [command] [flags]
//
// 不带子命令时启动交互界面；render 按事件脚本离屏渲染出 PNG/PDF/SVG。
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ByLCY/yas/logging"
	"github.com/ByLCY/yas/version"
)

func main() {
	defer logging.Sync()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var (
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "yas",
	Short: "YAS! full-screen field cycler",
	Long: `YAS! shows every field in one big row and tiles the active field
across the rest of the screen.

Without a subcommand the interactive terminal UI is started.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runTUI,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "配置文件路径（.toml / .yaml）")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "日志级别 debug|info|warn|error，默认读取 "+logging.LogLevelEnvVar)

	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "yas %s\n", version.Full())
	},
}
