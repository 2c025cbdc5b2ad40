package xlog

import (
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

var _ fxevent.Logger = (*FxXLogger)(nil)

// FxXLogger prints the fx lifecycle events. The hook and the app
// lifecycle events are INFO, the dependency graph events are DEBUG.
type FxXLogger struct {
	logger XLogger
}

// result logs the failed event as ERROR, otherwise by the fallback.
func (l *FxXLogger) result(err error, fallback func(msg string, fields ...zap.Field), msg string, fields ...zap.Field) {
	if err != nil {
		l.logger.Error(err, msg+" failed", fields...)
		return
	}
	if fallback != nil {
		fallback(msg, fields...)
	}
}

func moduleField(module string) zap.Field {
	if module == "" {
		return zap.Skip()
	}
	return zap.String("module", module)
}

func (l *FxXLogger) LogEvent(event fxevent.Event) {
	if l == nil || l.logger == nil {
		return
	}

	switch e := event.(type) {
	case *fxevent.OnStartExecuting:
		l.logger.Debug("HOOK OnStart executing",
			zap.String("function", e.FunctionName),
			zap.String("caller", e.CallerName),
		)
	case *fxevent.OnStartExecuted:
		l.result(e.Err, l.logger.Info, "HOOK OnStart",
			zap.String("function", e.FunctionName),
			zap.String("caller", e.CallerName),
			zap.Duration("in", e.Runtime),
		)
	case *fxevent.OnStopExecuting:
		l.logger.Debug("HOOK OnStop executing",
			zap.String("function", e.FunctionName),
			zap.String("caller", e.CallerName),
		)
	case *fxevent.OnStopExecuted:
		l.result(e.Err, l.logger.Info, "HOOK OnStop",
			zap.String("function", e.FunctionName),
			zap.String("caller", e.CallerName),
			zap.Duration("in", e.Runtime),
		)
	case *fxevent.Supplied:
		l.result(e.Err, l.logger.Debug, "SUPPLY",
			zap.String("type", e.TypeName),
			moduleField(e.ModuleName),
		)
	case *fxevent.Provided:
		for _, rtype := range e.OutputTypeNames {
			l.logger.Debug("PROVIDE",
				zap.Bool("private", e.Private),
				zap.String("rtype", rtype),
				zap.String("constructor", e.ConstructorName),
				moduleField(e.ModuleName),
			)
		}
		l.result(e.Err, nil, "PROVIDE", zap.Strings("stacktrace", e.StackTrace))
	case *fxevent.Replaced:
		for _, rtype := range e.OutputTypeNames {
			l.logger.Debug("REPLACE", zap.String("rtype", rtype), moduleField(e.ModuleName))
		}
		l.result(e.Err, nil, "REPLACE", zap.Strings("stacktrace", e.StackTrace))
	case *fxevent.Decorated:
		for _, rtype := range e.OutputTypeNames {
			l.logger.Debug("DECORATE",
				zap.String("rtype", rtype),
				zap.String("decorator", e.DecoratorName),
				moduleField(e.ModuleName),
			)
		}
		l.result(e.Err, nil, "DECORATE", zap.Strings("stacktrace", e.StackTrace))
	case *fxevent.Invoking:
		l.logger.Debug("INVOKING", zap.String("function", e.FunctionName), moduleField(e.ModuleName))
	case *fxevent.Invoked:
		l.result(e.Err, nil, "INVOKE",
			zap.String("function", e.FunctionName),
			zap.String("trace", e.Trace),
		)
	case *fxevent.Stopping:
		l.logger.Info("STOPPING", zap.String("signal", e.Signal.String()))
	case *fxevent.Stopped:
		l.result(e.Err, l.logger.Info, "STOPPED")
	case *fxevent.RollingBack:
		l.logger.Warn("Start failed, rolling back", zap.Error(e.StartErr))
	case *fxevent.RolledBack:
		l.result(e.Err, nil, "ROLLBACK")
	case *fxevent.Started:
		l.result(e.Err, l.logger.Info, "RUNNING")
	case *fxevent.LoggerInitialized:
		l.result(e.Err, l.logger.Debug, "LOGGER initialized",
			zap.String("constructor", e.ConstructorName),
		)
	}
}

func NewFxXLogger(logger XLogger) *FxXLogger {
	return &FxXLogger{logger: newComponentLogger(logger, "Fx")}
}
