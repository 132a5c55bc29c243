// Package logging provides configurable zap logger creation.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/roboco-io/manustruct/internal/config"
)

// Logger styles.
const (
	StyleTerminal = "terminal"
	StyleJSON     = "json"
	StyleNoop     = "noop"
)

// New creates a zap logger based on the logging config. A nil or zero-value
// config yields a terminal-style logger at info level.
func New(c *config.Logging) (*zap.Logger, error) {
	style := StyleTerminal
	level := zapcore.InfoLevel

	if c != nil {
		if c.Style != "" {
			style = c.Style
		}
		if c.Level != "" {
			lvl, err := zapcore.ParseLevel(c.Level)
			if err != nil {
				return nil, fmt.Errorf("invalid log level %q: %w", c.Level, err)
			}
			level = lvl
		}
	}

	switch style {
	case StyleNoop:
		return zap.NewNop(), nil
	case StyleJSON:
		cfg := zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(level)
		return cfg.Build(zap.AddStacktrace(zap.ErrorLevel))
	case StyleTerminal:
		cfg := zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(level)
		return cfg.Build(zap.AddStacktrace(zap.ErrorLevel))
	default:
		return nil, fmt.Errorf("invalid logging style %q: must be one of: terminal, json, noop", style)
	}
}
