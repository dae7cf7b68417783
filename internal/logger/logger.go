package logger

import (
	"fmt"

	"go.uber.org/zap"
)

// Init replaces zap's global logger according to the running environment.
func Init(environment string) error {
	var (
		l   *zap.Logger
		err error
	)
	switch environment {
	case "production":
		l, err = zap.NewProduction()
	case "test":
		l = zap.NewNop()
	default:
		l, err = zap.NewDevelopment()
	}
	if err != nil {
		return fmt.Errorf("zap.New -> %w", err)
	}

	zap.ReplaceGlobals(l)

	return nil
}

// Named returns a child of the global logger, or of l when given.
func Named(l *zap.Logger, name string) *zap.Logger {
	if l == nil {
		l = zap.L()
	}
	return l.Named(name)
}
