// Package logging 构建 commentscan 使用的 slog 日志器。
package logging

import (
	"io"
	"log/slog"
	"strings"
)

// Format 表示日志输出格式。
type Format string

const (
	// TextFormat 输出 key=value 文本。
	TextFormat Format = "text"
	// JSONFormat 输出 JSON 行。
	JSONFormat Format = "json"
)

// quietLevel 高于所有标准级别，用于完全静默。
const quietLevel = slog.Level(100)

// NewLogger 创建写入 writer 的日志器。
func NewLogger(writer io.Writer, level slog.Level, format Format) *slog.Logger {
	options := &slog.HandlerOptions{Level: level}
	if format == JSONFormat {
		return slog.New(slog.NewJSONHandler(writer, options))
	}
	return slog.New(slog.NewTextHandler(writer, options))
}

// NewDiscardLogger 创建丢弃全部输出的日志器，测试和未配置日志时使用。
func NewDiscardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// LevelFromString 把 debug/info/warn/error 转换为 slog 级别，无法识别时返回 warn。
func LevelFromString(value string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// LevelFromVerbosity 把命令行的 -v 次数和 -q 转换为日志级别。
//   - quiet: 静默
//   - 0: 使用 fallback
//   - 1: info
//   - >=2: debug
func LevelFromVerbosity(verbosity int, quiet bool, fallback slog.Level) slog.Level {
	if quiet {
		return quietLevel
	}
	switch verbosity {
	case 0:
		return fallback
	case 1:
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}
