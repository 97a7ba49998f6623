// Package logger builds the zap loggers used by the command-line tools.
package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// New returns a production (JSON) or development (console) logger. Unknown
// modes fall back to development.
func New(mode string) (*zap.Logger, error) {
	var cfg zap.Config
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
	case "quiet":
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	default:
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	l, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build %s logger: %w", mode, err)
	}
	return l, nil
}

// Sync flushes buffered entries, ignoring the errors some terminals report
// on stderr sync.
func Sync(l *zap.Logger) {
	_ = l.Sync()
}
