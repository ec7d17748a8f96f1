// Package base
package base

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/vatger-pmp/pmp-server/internal/interfaces/global"
)

var levelColors = map[slog.Level]*color.Color{
	slog.LevelDebug: color.New(color.FgCyan),
	slog.LevelInfo:  color.New(color.FgGreen),
	slog.LevelWarn:  color.New(color.FgYellow),
	slog.LevelError: color.New(color.FgRed),
}

type consoleHandler struct {
	level slog.Level
	mu    sync.Mutex
	attrs []slog.Attr
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *consoleHandler) Handle(_ context.Context, record slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	tag := record.Level.String()
	if c, ok := levelColors[record.Level]; ok {
		tag = c.Sprint(tag)
	}
	_, err := fmt.Fprintf(os.Stdout, "%s [%s] %s",
		record.Time.Format(time.DateTime), tag, record.Message)
	record.Attrs(func(attr slog.Attr) bool {
		_, _ = fmt.Fprintf(os.Stdout, " %s=%v", attr.Key, attr.Value)
		return true
	})
	for _, attr := range h.attrs {
		_, _ = fmt.Fprintf(os.Stdout, " %s=%v", attr.Key, attr.Value)
	}
	_, err = fmt.Fprintln(os.Stdout)
	return err
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &consoleHandler{level: h.level, attrs: append(h.attrs, attrs...)}
}

func (h *consoleHandler) WithGroup(_ string) slog.Handler { return h }

type Logger struct {
	logger *slog.Logger
}

func NewLogger() *Logger {
	return &Logger{}
}

func (l *Logger) Init(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	l.logger = slog.New(&consoleHandler{level: level})
	slog.SetDefault(l.logger)
}

type loggerShutdownCallback struct{}

func (c *loggerShutdownCallback) Invoke(_ context.Context) error { return nil }

func (l *Logger) ShutdownCallback() global.Callable { return &loggerShutdownCallback{} }

func (l *Logger) Debug(msg string, v ...interface{}) { l.logger.Debug(msg, v...) }

func (l *Logger) DebugF(msg string, v ...interface{}) { l.logger.Debug(fmt.Sprintf(msg, v...)) }

func (l *Logger) Info(msg string, v ...interface{}) { l.logger.Info(msg, v...) }

func (l *Logger) InfoF(msg string, v ...interface{}) { l.logger.Info(fmt.Sprintf(msg, v...)) }

func (l *Logger) Warn(msg string, v ...interface{}) { l.logger.Warn(msg, v...) }

func (l *Logger) WarnF(msg string, v ...interface{}) { l.logger.Warn(fmt.Sprintf(msg, v...)) }

func (l *Logger) Error(msg string, v ...interface{}) { l.logger.Error(msg, v...) }

func (l *Logger) ErrorF(msg string, v ...interface{}) { l.logger.Error(fmt.Sprintf(msg, v...)) }

func (l *Logger) Fatal(msg string, v ...interface{}) {
	l.logger.Error(msg, v...)
	os.Exit(1)
}

func (l *Logger) FatalF(msg string, v ...interface{}) {
	l.logger.Error(fmt.Sprintf(msg, v...))
	os.Exit(1)
}
