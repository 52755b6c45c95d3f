package logger

import (
	"io"
	"log/slog"
	"os"
)

// Setup 生成输出 JSON 结构化日志的 slog.Logger。
// 指定 writer 时输出到该 writer。
func Setup(w io.Writer) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	return slog.New(handler)
}

// SetupDefault 将 JSON 结构化日志设置为全局缺省 logger。
// w 为 nil 时输出到 os.Stdout，生产环境预期传入 os.Stdout。
func SetupDefault(w io.Writer) {
	if w == nil {
		w = os.Stdout
	}
	logger := Setup(w)
	slog.SetDefault(logger)
}
