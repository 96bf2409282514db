// Package log holds the process-wide zap logger.
package log

import (
	"fmt"

	"go.uber.org/zap"
)

// Logger is a no-op until Initialize is called
var Logger *zap.Logger = zap.NewNop()

// Initialize builds a JSON logger at level writing to path. The terminal is
// owned by the TUI, so logs never go to stdout/stderr.
func Initialize(level, path string) error {
	const op = "initializing logger"

	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return errorf(op, err)
	}

	config := zap.NewProductionConfig()
	config.Level = lvl
	config.OutputPaths = []string{path}
	config.ErrorOutputPaths = []string{path}
	logger, err := config.Build()
	if err != nil {
		return errorf(op, err)
	}

	Logger = logger
	return nil
}

// Sync flushes buffered entries
func Sync() {
	_ = Logger.Sync()
}

func errorf(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}
