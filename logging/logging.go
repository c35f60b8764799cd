// Package logging constructs the application logger.
//
// Technical detail always lands here at Error with full context; the
// operator only ever sees the apperr user-message mapping. Output goes to
// stdout and ./logs/app.log so support can collect a file after the fact.
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the logger for the given LOG_LEVEL string (INFO, DEBUG, ...).
// Unknown levels fall back to Info.
func New(level string) *zap.Logger {
	var lvl zapcore.Level
	if err := lvl.Set(level); err != nil {
		lvl = zapcore.InfoLevel
	}

	_ = os.MkdirAll("logs", 0o755)

	cfg := zap.Config{
		Encoding:         "console",
		Level:            zap.NewAtomicLevelAt(lvl),
		OutputPaths:      []string{"stdout", "./logs/app.log"},
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig:    zap.NewProductionEncoderConfig(),
	}

	logger, err := cfg.Build()
	if err != nil {
		// Logging must never take the application down with it.
		return zap.NewNop()
	}
	return logger
}
