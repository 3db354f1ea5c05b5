// Package logging builds the diagnostic logger. Diagnostics go to stderr so
// stdout carries only the report.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level picks the minimum level from the CLI verbosity flags. quiet wins
// over verbose.
func Level(verbose, quiet bool) zapcore.Level {
	switch {
	case quiet:
		return zapcore.ErrorLevel
	case verbose:
		return zapcore.DebugLevel
	default:
		return zapcore.InfoLevel
	}
}

// New creates a console logger writing to stderr.
func New(verbose, quiet bool) (*zap.Logger, error) {
	config := zap.NewDevelopmentConfig()
	config.Level = zap.NewAtomicLevelAt(Level(verbose, quiet))
	config.Encoding = "console"
	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}
	config.DisableStacktrace = true
	config.DisableCaller = !verbose
	config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	config.EncoderConfig.TimeKey = ""

	return config.Build()
}
