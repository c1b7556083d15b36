package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Log struct {
	Level string `yaml:"level" envconfig:"LOG_LEVEL" default:"info"`
}

// NewLogger builds a named zap logger at the configured level. A bad
// level falls back to info rather than failing startup.
func NewLogger(cfg Log, name string) *zap.Logger {
	lvl := zapcore.InfoLevel
	if err := lvl.Set(cfg.Level); err != nil {
		lvl = zapcore.InfoLevel
	}

	c := zap.NewDevelopmentConfig()
	c.Level = zap.NewAtomicLevelAt(lvl)
	log, err := c.Build()
	if err != nil {
		return zap.NewNop()
	}
	return log.Named(name)
}
