package logger

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/natefinch/lumberjack"
)

// slogLogger backs every Logger implementation with a log/slog handler
type slogLogger struct {
	logger *slog.Logger
}

func newSlogLogger(handler slog.Handler) *slogLogger {
	return &slogLogger{logger: slog.New(handler).With(slog.String(ServiceKey, ServiceName))}
}

// NewConsoleLogger creates a human readable logger writing to stdout.
func NewConsoleLogger(level string) Logger {
	return NewWriterLogger(level, os.Stdout)
}

// NewWriterLogger creates a text logger writing to w.
func NewWriterLogger(level string, w io.Writer) Logger {
	return newSlogLogger(slog.NewTextHandler(w, handlerOptions(level)))
}

// NewFileLogger creates a JSON logger writing to a size-rotated, compressed file.
func NewFileLogger(level string, filePath string, maxSize int, maxBackups int, maxAge int) Logger {
	writer := &lumberjack.Logger{
		Filename:   filePath,
		MaxSize:    maxSize,
		MaxBackups: maxBackups,
		MaxAge:     maxAge,
		Compress:   true,
	}
	return newSlogLogger(slog.NewJSONHandler(writer, handlerOptions(level)))
}

func (l *slogLogger) Debug(args ...interface{}) {
	l.logger.Debug(formatArgs(args...))
}

func (l *slogLogger) Info(args ...interface{}) {
	l.logger.Info(formatArgs(args...))
}

func (l *slogLogger) Warn(args ...interface{}) {
	l.logger.Warn(formatArgs(args...))
}

func (l *slogLogger) Error(args ...interface{}) {
	l.logger.Error(formatArgs(args...))
}

// Fatal logs at critical level and exits the process.
func (l *slogLogger) Fatal(args ...interface{}) {
	l.logger.Log(context.Background(), LevelCritical, formatArgs(args...))
	os.Exit(1)
}

// Panic logs at critical level and panics with the message.
func (l *slogLogger) Panic(args ...interface{}) {
	msg := formatArgs(args...)
	l.logger.Log(context.Background(), LevelCritical, msg)
	panic(msg)
}
