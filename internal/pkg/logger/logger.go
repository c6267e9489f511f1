package logger

import "log/slog"

// Logger defines the logging interface used across the service.
// Callers must never pass raw account numbers; mask them first.
type Logger interface {
	Debug(args ...interface{})
	Info(args ...interface{})
	Warn(args ...interface{})
	Error(args ...interface{})
	Fatal(args ...interface{})
	Panic(args ...interface{})
}

// Every record carries service=tokenization-service so that REST and CLI logs
// can be told apart from other processes once shipped.
const (
	ServiceKey  = "service"
	ServiceName = "tokenization-service"
)

// LevelCritical is written by Fatal and Panic. The critical log level keeps only these records.
const LevelCritical = slog.Level(12)
