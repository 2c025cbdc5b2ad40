package xlog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestConsoleCore(t *testing.T) {
	w := &syncBuffer{}
	lvlEnabler := zap.NewAtomicLevelAt(LogLevelDebug.zapLevel())
	cc := newConsoleCore(
		context.TODO(),
		&lvlEnabler,
		JSON,
		zapcore.AddSync(w),
		zapcore.CapitalLevelEncoder,
		zapcore.ISO8601TimeEncoder,
	)
	require.NotNil(t, cc.outEncoder())
	require.NotNil(t, cc.writeSyncer())
	require.NotNil(t, cc.levelEncoder())
	require.NotNil(t, cc.timeEncoder())
	require.NotNil(t, cc.context())
	require.NotNil(t, cc.(*commonCore).core)

	require.True(t, cc.Enabled(zapcore.DebugLevel))
	require.True(t, cc.Enabled(zapcore.InfoLevel))
	require.True(t, cc.Enabled(zapcore.WarnLevel))
	require.True(t, cc.Enabled(zapcore.ErrorLevel))

	lvlEnabler.SetLevel(zapcore.ErrorLevel)
	require.False(t, cc.Enabled(zapcore.DebugLevel))
	require.False(t, cc.Enabled(zapcore.InfoLevel))
	require.False(t, cc.Enabled(zapcore.WarnLevel))
	require.True(t, cc.Enabled(zapcore.ErrorLevel))
	require.Nil(t, cc.Check(zapcore.Entry{Level: zapcore.DebugLevel}, nil))

	lvlEnabler.SetLevel(zapcore.DebugLevel)

	core := cc.With([]zap.Field{zap.String("key", "value")})
	_, ok := core.(xLogCore)
	require.True(t, ok)

	ent := cc.Check(zapcore.Entry{Level: zapcore.DebugLevel}, nil)
	require.NotNil(t, ent)
	err := cc.Write(ent.Entry, []zap.Field{zap.String("key", "value")})
	require.NoError(t, err)
	require.NoError(t, cc.Sync())

	cc, err = WrapCore(cc, componentCoreEncoderCfg)
	require.NoError(t, err)
	require.NotNil(t, cc)
	err = cc.Write(zapcore.Entry{Level: zapcore.DebugLevel, LoggerName: "commonCore"}, []zap.Field{zap.String("key", "value")})
	require.NoError(t, err)
	require.NoError(t, cc.Sync())

	lines := w.lines()
	require.Len(t, lines, 2)
	require.Equal(t, "commonCore", lines[1]["component"])

	_, err = WrapCore(nil, componentCoreEncoderCfg)
	require.ErrorIs(t, err, errXLogNilCore)
}

func TestConsoleCore_DefaultStdOut(t *testing.T) {
	lvlEnabler := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	cc := newConsoleCore(
		context.TODO(),
		&lvlEnabler,
		PlainText,
		nil,
		zapcore.CapitalLevelEncoder,
		zapcore.ISO8601TimeEncoder,
	)
	require.Equal(t, getStdOutWriter(), cc.writeSyncer())
}

type errWriter struct{}

func (errWriter) Write([]byte) (int, error) {
	return 0, errors.New("write failed")
}

func TestTeeCore(t *testing.T) {
	w1, w2 := &syncBuffer{}, &syncBuffer{}
	lvlEnabler := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	newCore := func(ws zapcore.WriteSyncer) xLogCore {
		return newConsoleCore(context.TODO(), &lvlEnabler, JSON, ws,
			zapcore.CapitalLevelEncoder, zapcore.ISO8601TimeEncoder)
	}

	tee := XLogTeeCore(newCore(zapcore.AddSync(w1)), nil, newCore(zapcore.AddSync(w2)))
	require.Len(t, tee.(xLogMultiCore), 2)
	require.False(t, tee.Enabled(zapcore.DebugLevel))
	require.True(t, tee.Enabled(zapcore.InfoLevel))
	require.NotNil(t, tee.context())

	l := zap.New(tee)
	l.Info("to both")
	l.With(zap.String("engine", "rb")).Info("with field")
	require.Len(t, w1.lines(), 2)
	require.Len(t, w2.lines(), 2)
	require.Equal(t, "rb", w2.lines()[1]["engine"])

	failed := XLogTeeCore(
		newCore(zapcore.AddSync(errWriter{})),
		newCore(zapcore.AddSync(errWriter{})),
	)
	err := failed.Write(zapcore.Entry{Level: zapcore.InfoLevel}, nil)
	require.Error(t, err)
	require.Len(t, multierr.Errors(err), 2)

	wrapped, err := WrapCores(tee.(xLogMultiCore), componentCoreEncoderCfg)
	require.NoError(t, err)
	require.Len(t, wrapped.(xLogMultiCore), 2)
}
