// Package logging builds the application's zap logger.
package logging

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/ersonp/revmod/internal/infrastructure/config"
)

// New creates a logger from configuration. The json format uses zap's
// production encoder, anything else the development console encoder.
// Output goes to stderr so command output on stdout stays clean.
func New(cfg config.LogConfig) (*zap.Logger, error) {
	var zcfg zap.Config
	if cfg.Format == "json" {
		zcfg = zap.NewProductionConfig()
	} else {
		zcfg = zap.NewDevelopmentConfig()
		zcfg.DisableStacktrace = true
	}

	level := cfg.Level
	if level == "" {
		level = "info"
	}
	atomic, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level: %w", err)
	}
	zcfg.Level = atomic
	zcfg.OutputPaths = []string{"stderr"}
	zcfg.ErrorOutputPaths = []string{"stderr"}

	logger, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return logger, nil
}
