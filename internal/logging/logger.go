// Package logging builds the diagnostic logger. Diagnostics go to the error
// stream only; standard output carries the machine-readable result tokens.
package logging

import (
	"io"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"academicRecords/internal/config"
)

// New creates a logger writing to w at the configured level and format.
// Every entry carries an invocation_id unique to this process run.
func New(cfg config.LogConfig, w io.Writer) *zap.Logger {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var enc zapcore.Encoder
	switch strings.ToLower(cfg.Format) {
	case "json":
		enc = zapcore.NewJSONEncoder(encCfg)
	default:
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	}

	core := zapcore.NewCore(enc, zapcore.Lock(zapcore.AddSync(w)), ParseLevel(cfg.Level))
	return zap.New(core).With(zap.String("invocation_id", uuid.NewString()))
}

// ParseLevel converts a string log level to a zap level.
// Supported levels: debug, info, warn, error. Defaults to warn if unrecognised.
func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.WarnLevel
	}
}
