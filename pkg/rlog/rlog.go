// Package rlog carries the renderer's logging interface, decoupling the
// rest of the module from any specific logging library.
package rlog

import "go.uber.org/zap"

// Logger is the narrow interface every package logs through.
type Logger interface {
	Printf(format string, args ...interface{})
}

// zapLogger adapts a *zap.SugaredLogger to Logger.
type zapLogger struct {
	s *zap.SugaredLogger
}

func (l *zapLogger) Printf(format string, args ...interface{}) {
	l.s.Infof(format, args...)
}

// NewProduction returns a Logger backed by zap's production configuration
// (JSON encoding, info level and above).
func NewProduction() (Logger, error) {
	z, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	return &zapLogger{s: z.Sugar()}, nil
}

// NewNop returns a Logger that discards everything, for tests and library
// callers that don't want renderer log output.
func NewNop() Logger {
	return &zapLogger{s: zap.NewNop().Sugar()}
}

// NewDevelopment returns a Logger backed by zap's development configuration
// (console encoding, debug level and above, stack traces on warn+).
func NewDevelopment() (Logger, error) {
	z, err := zap.NewDevelopment()
	if err != nil {
		return nil, err
	}
	return &zapLogger{s: z.Sugar()}, nil
}
