package xlog

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type AntsXLogger struct {
	logger XLogger
}

func (l *AntsXLogger) Printf(format string, args ...any) {
	if l == nil || l.logger == nil {
		return
	}
	l.logger.Logf(zapcore.ErrorLevel, format, args...)
}

func NewAntsXLogger(logger XLogger) *AntsXLogger {
	return &AntsXLogger{
		logger: newComponentLogger(logger, "Ants"),
	}
}

// newComponentLogger creates a named child logger without the caller
// and function fields. The level enabler of the parent is still in use.
func newComponentLogger(logger XLogger, name string) XLogger {
	if logger == nil {
		return nil
	}
	l := &xLogger{}
	if parent, ok := logger.(*xLogger); ok {
		l.ctxFields = parent.ctxFields
		l.dynamicLevelEnabler = parent.dynamicLevelEnabler
		l.ws = parent.ws
		l.encoder = parent.encoder
	}
	l.logger.Store(logger.
		zap().
		Named(name).
		WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
			if core == nil {
				panic("[xtree] xlogger core is nil")
			}
			var (
				cc  xLogCore
				err error
			)
			switch c := core.(type) {
			case xLogMultiCore:
				cc, err = WrapCores(c, componentCoreEncoderCfg)
			case xLogCore:
				cc, err = WrapCore(c, componentCoreEncoderCfg)
			default:
				panic("[xtree] core is not xLogCore")
			}
			if err != nil {
				panic(err)
			}
			return cc
		})),
	)
	return l
}
