// Package logger builds the process logger and carries request-scoped
// loggers through context.
package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type preset func() zap.Config

func jsonPreset() zap.Config {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg
}

func consolePreset() zap.Config {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return cfg
}

var presets = map[string]preset{
	"prod":   jsonPreset,
	"local":  consolePreset,
	"dev":    consolePreset,
	"docker": consolePreset,
}

// NewLogger returns the logger for env. "test" yields a no-op logger.
// An optional level (debug, info, warn, error) replaces the preset's default.
func NewLogger(env string, level ...string) (*zap.Logger, error) {
	if env == "test" {
		return zap.NewNop(), nil
	}
	mk, ok := presets[env]
	if !ok {
		return nil, fmt.Errorf("unknown environment %q for logger", env)
	}
	cfg := mk()

	if len(level) > 0 && level[0] != "" {
		lvl, err := zap.ParseAtomicLevel(level[0])
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", level[0], err)
		}
		cfg.Level = lvl
	}

	l, err := cfg.Build(zap.AddStacktrace(zapcore.ErrorLevel))
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return l.Named("basil"), nil
}
