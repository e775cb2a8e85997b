// Package logging 提供进程级的 zap 日志器。未设置级别时保持静默，
// 交互界面占用终端时不会被日志打乱。
package logging

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ByLCY/yas/layout"
)

var logger *zap.Logger

// LogLevelEnvVar 控制日志级别；未设置或为空时不输出任何日志。
// 可选值: "debug", "info", "warn", "error"
const LogLevelEnvVar = "YAS_LOG_LEVEL"

// Initialize 按 level 创建全局日志器。level 为空时读取 YAS_LOG_LEVEL，
// 两者都为空则使用静默日志器。
func Initialize(level string) error {
	l, err := New(level)
	if err != nil {
		return err
	}
	logger = l
	return nil
}

// New 创建一个输出到 stderr 的日志器，规则同 Initialize。
func New(level string) (*zap.Logger, error) {
	if level == "" {
		level = os.Getenv(LogLevelEnvVar)
	}
	if level == "" {
		return zap.NewNop(), nil
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(ParseLevel(level)),
		Development:      false,
		Encoding:         "console",
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}
	config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder

	l, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("初始化日志失败: %w", err)
	}
	return l, nil
}

// ParseLevel 解析级别名称，无法识别的值按 info 处理。
func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// GetLogger 返回全局日志器；未初始化时返回静默日志器。
func GetLogger() *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return logger
}

// LogSkips 以 warn 级别记录一帧中因度量失败而跳过的部分。
func LogSkips(l *zap.Logger, frame *layout.Frame) {
	if l == nil || frame == nil {
		return
	}
	for _, s := range frame.Skipped {
		l.Warn("measurement failed, skipped",
			zap.String("stage", s.Stage),
			zap.Int("field", s.Field),
			zap.String("reason", s.Reason),
		)
	}
}

// Sync 刷新缓冲的日志。
func Sync() {
	if logger != nil {
		_ = logger.Sync()
	}
}
