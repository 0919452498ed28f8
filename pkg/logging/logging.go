// Package logging builds the zap loggers used across repunto.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config controls basic logger behaviour
type Config struct {
	Level   string // debug, info, warn, error
	Format  string // json or console
	Verbose bool   // forces debug level

	// Output replaces stderr as the log destination when set
	Output zapcore.WriteSyncer
}

// New constructs a zap logger from cfg. JSON uses the production encoder,
// console the development one.
func New(cfg Config) (*zap.Logger, error) {
	var zc zap.Config
	switch strings.ToLower(cfg.Format) {
	case "console", "text":
		zc = zap.NewDevelopmentConfig()
	default:
		zc = zap.NewProductionConfig()
	}

	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	if cfg.Verbose {
		level = zapcore.DebugLevel
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	var opts []zap.Option
	if cfg.Output != nil {
		encoder := zapcore.NewJSONEncoder(zc.EncoderConfig)
		if zc.Encoding == "console" {
			encoder = zapcore.NewConsoleEncoder(zc.EncoderConfig)
		}
		core := zapcore.NewCore(encoder, cfg.Output, zc.Level)
		opts = append(opts, zap.WrapCore(func(zapcore.Core) zapcore.Core { return core }))
	}

	logger, err := zc.Build(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

// ParseLevel maps a level name to a zap level; empty means info
func ParseLevel(level string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "", "info":
		return zapcore.InfoLevel, nil
	case "debug":
		return zapcore.DebugLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", level)
	}
}
