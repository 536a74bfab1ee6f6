package main

import (
	"github.com/goliatone/go-accounts"
	"go.uber.org/zap"
)

// zapLogger adapts a zap sugared logger to accounts.Logger
type zapLogger struct {
	s *zap.SugaredLogger
}

var _ accounts.Logger = zapLogger{}

func newLogger(production bool) (*zap.Logger, error) {
	if production {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func (l zapLogger) Debug(format string, args ...any) { l.s.Debugf(format, args...) }
func (l zapLogger) Info(format string, args ...any)  { l.s.Infof(format, args...) }
func (l zapLogger) Warn(format string, args ...any)  { l.s.Warnf(format, args...) }
func (l zapLogger) Error(format string, args ...any) { l.s.Errorf(format, args...) }
