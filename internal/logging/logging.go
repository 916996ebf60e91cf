// Package logging builds the zap logger shared by every entry point.
package logging

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a JSON logger, or a console logger when dev is set. Output
// goes to stderr so the MCP stdio transport keeps stdout to itself.
func New(level string, dev bool) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}

	var cfg zap.Config
	if dev {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	return cfg.Build()
}

// Must is New for main: a bad level falls back to info.
func Must(level string, dev bool) *zap.Logger {
	log, err := New(level, dev)
	if err == nil {
		return log
	}
	fmt.Fprintf(os.Stderr, "logging: %v, using info\n", err)
	log, err = New("info", dev)
	if err != nil {
		return zap.NewNop()
	}
	return log
}
