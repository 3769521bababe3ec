// Package config handles application configuration and setup
package config

import (
	"github.com/retroenv/ihexgoedit/internal/options"
	"github.com/retroenv/retrogolib/log"
)

// CreateLogger creates a logger with appropriate settings
func CreateLogger(opts options.Program) *log.Logger {
	cfg := log.DefaultConfig()

	switch {
	case opts.Debug:
		cfg.Level = log.DebugLevel
	case opts.Quiet, opts.View:
		// the viewer owns the terminal, keep log output out of the frame
		cfg.Level = log.ErrorLevel
	}

	return log.NewWithConfig(cfg)
}
