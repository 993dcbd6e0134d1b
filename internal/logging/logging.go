package logging

import (
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Common field keys for consistent naming across the codebase.
const (
	KeyRunID      = "run_id"
	KeyCommand    = "command"
	KeyUsername   = "username"
	KeyCollection = "collection"
	KeyDuration   = "duration"
	KeyStatus     = "status"
	KeyComponent  = "component"
)

// Status values for consistent logging.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// New builds a logger writing to w. format is "console" or "json";
// level is a zap level name (debug, info, warn, error).
func New(level, format string, w io.Writer) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout(time.RFC3339Nano)

	var enc zapcore.Encoder
	switch strings.ToLower(format) {
	case "json":
		enc = zapcore.NewJSONEncoder(encCfg)
	case "", "console":
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	default:
		return nil, fmt.Errorf("invalid log format %q (want console or json)", format)
	}

	core := zapcore.NewCore(enc, zapcore.AddSync(w), lvl)
	return zap.New(core), nil
}

// RunID returns a field identifying one invocation.
func RunID(id string) zap.Field {
	return zap.String(KeyRunID, id)
}

// Command returns a field for the command path, e.g. "user add".
func Command(name string) zap.Field {
	return zap.String(KeyCommand, name)
}

// Username returns a field for the principal being administered.
func Username(name string) zap.Field {
	return zap.String(KeyUsername, name)
}

// Collection returns a field for a collection path.
func Collection(path string) zap.Field {
	return zap.String(KeyCollection, path)
}

// Component returns a field naming the subsystem that logs.
func Component(name string) zap.Field {
	return zap.String(KeyComponent, name)
}

// Status returns a field for the outcome.
func Status(status string) zap.Field {
	return zap.String(KeyStatus, status)
}

// Duration returns a field for elapsed time.
func Duration(d time.Duration) zap.Field {
	return zap.Duration(KeyDuration, d)
}

// SanitizePassword masks a password for logging.
// It only reveals whether a value was supplied.
func SanitizePassword(pw string) string {
	if pw == "" {
		return "<empty>"
	}
	return "[redacted]"
}
