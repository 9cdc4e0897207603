package logger

import (
	"go.uber.org/zap"

	"github.com/tailortalk/booking-assistant/internal/core/ports/out"
)

// ZapLogger adapts a zap.Logger to the LoggerPort contract. The module
// name and any bound fields travel with every event.
type ZapLogger struct {
	zl *zap.Logger
}

// NewZapLogger builds a colored development logger for local runs and a
// JSON production logger otherwise.
func NewZapLogger(local bool) (*ZapLogger, error) {
	var (
		zl  *zap.Logger
		err error
	)

	if local {
		cfg := zap.NewDevelopmentConfig()
		zl, err = cfg.Build(zap.AddCallerSkip(1))
	} else {
		zl, err = zap.NewProduction(zap.AddCallerSkip(1))
	}
	if err != nil {
		return nil, err
	}

	return &ZapLogger{zl: zl}, nil
}

func zapFields(fields out.LogFields) []zap.Field {
	zfs := make([]zap.Field, 0, len(fields))
	for k, v := range fields {
		zfs = append(zfs, zap.Any(k, v))
	}
	return zfs
}

func (l *ZapLogger) Debug(event string, fields out.LogFields) {
	l.zl.Debug(event, zapFields(fields)...)
}

func (l *ZapLogger) Info(event string, fields out.LogFields) {
	l.zl.Info(event, zapFields(fields)...)
}

func (l *ZapLogger) Warn(event string, fields out.LogFields) {
	l.zl.Warn(event, zapFields(fields)...)
}

func (l *ZapLogger) Error(event string, fields out.LogFields) {
	l.zl.Error(event, zapFields(fields)...)
}

func (l *ZapLogger) WithFields(fields out.LogFields) out.LoggerPort {
	return &ZapLogger{zl: l.zl.With(zapFields(fields)...)}
}

func (l *ZapLogger) WithModule(module string) out.LoggerPort {
	return &ZapLogger{zl: l.zl.With(zap.String("module", module))}
}

// Sync flushes buffered entries, meant for deferred use at shutdown.
func (l *ZapLogger) Sync() {
	_ = l.zl.Sync()
}
