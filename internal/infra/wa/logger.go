package wa

import (
	walog "go.mau.fi/whatsmeow/util/log"
	"go.uber.org/zap"
)

type zapLogger struct {
	sugar *zap.SugaredLogger
}

// NewLogger routes whatsmeow's internal logging through zap.
func NewLogger(logger *zap.Logger) walog.Logger {
	return &zapLogger{sugar: logger.Sugar()}
}

func (l *zapLogger) Errorf(msg string, args ...interface{}) { l.sugar.Errorf(msg, args...) }
func (l *zapLogger) Warnf(msg string, args ...interface{})  { l.sugar.Warnf(msg, args...) }
func (l *zapLogger) Infof(msg string, args ...interface{})  { l.sugar.Infof(msg, args...) }
func (l *zapLogger) Debugf(msg string, args ...interface{}) { l.sugar.Debugf(msg, args...) }

func (l *zapLogger) Sub(module string) walog.Logger {
	return &zapLogger{sugar: l.sugar.Named(module)}
}
