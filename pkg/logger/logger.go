package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var log = zap.NewNop()

// Initialize builds the JSON logger. Every entry carries the service name so
// the backend and the widget host can share a log sink.
func Initialize(logLevel, service string) error {
	zLevel, err := zapcore.ParseLevel(logLevel)
	if err != nil {
		return err
	}

	config := zap.Config{
		Encoding:         "json",
		Level:            zap.NewAtomicLevelAt(zLevel),
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
		InitialFields:    map[string]any{"service": service},
		EncoderConfig: zapcore.EncoderConfig{
			MessageKey:   "message",
			LevelKey:     "level",
			TimeKey:      "time",
			CallerKey:    "caller",
			NameKey:      "component",
			EncodeLevel:  zapcore.LowercaseLevelEncoder,
			EncodeTime:   zapcore.ISO8601TimeEncoder,
			EncodeCaller: zapcore.ShortCallerEncoder,
		},
	}

	built, err := config.Build()
	if err != nil {
		return err
	}
	Set(built)

	return nil
}

// Set replaces the process logger and returns a func restoring the previous one.
func Set(l *zap.Logger) (restore func()) {
	prev := log
	log = l
	return func() { log = prev }
}

func Logger() *zap.Logger {
	return log
}

// Named returns a child logger for one component, e.g. "widget".
func Named(component string) *zap.Logger {
	return log.Named(component)
}

func Sync() error {
	return log.Sync()
}
