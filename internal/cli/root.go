package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/automaxprocs/maxprocs"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/benz9527/xtree/xlog"
)

var ErrInvalidLogOption = errors.New("[xtree] invalid log option")

var (
	logLevelOptions = map[string]xlog.XLoggerOption{
		"debug": xlog.WithXLoggerLevel(xlog.LogLevelDebug),
		"info":  xlog.WithXLoggerLevel(xlog.LogLevelInfo),
		"warn":  xlog.WithXLoggerLevel(xlog.LogLevelWarn),
		"error": xlog.WithXLoggerLevel(xlog.LogLevelError),
	}
	logEncoderOptions = map[string]xlog.XLoggerOption{
		"json": xlog.WithXLoggerEncoder(xlog.JSON),
		"text": xlog.WithXLoggerEncoder(xlog.PlainText),
	}
)

type rootOptions struct {
	logLevel   string
	logEncoder string
	logger     xlog.XLogger
}

func (opts *rootOptions) setup(cmd *cobra.Command) error {
	loggerOpts := []xlog.XLoggerOption{
		xlog.WithXLoggerWriter(cmd.ErrOrStderr()),
		xlog.WithXLoggerContextFieldExtract("engine"),
	}
	if lvl := strings.ToLower(strings.TrimSpace(opts.logLevel)); lvl != "" {
		o, ok := logLevelOptions[lvl]
		if !ok {
			return fmt.Errorf("%w: level %q", ErrInvalidLogOption, opts.logLevel)
		}
		loggerOpts = append(loggerOpts, o)
	}
	o, ok := logEncoderOptions[strings.ToLower(strings.TrimSpace(opts.logEncoder))]
	if !ok {
		return fmt.Errorf("%w: encoder %q", ErrInvalidLogOption, opts.logEncoder)
	}
	loggerOpts = append(loggerOpts, o)
	opts.logger = xlog.NewXLogger(loggerOpts...)

	if _, err := maxprocs.Set(maxprocs.Logger(func(format string, args ...any) {
		opts.logger.Logf(zapcore.DebugLevel, format, args...)
	})); err != nil {
		opts.logger.Warn("unable to set GOMAXPROCS", zap.Error(err))
	}
	return nil
}

func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "xtree",
		Short: "Ordered map engines, AVL, red-black, B-tree and plain BST",
		Long: `xtree drives the ordered map engines from the command line.
The demo command prints the tree shapes step by step and the bench
command runs the workloads concurrently and exports the metrics.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.logger != nil {
				_ = opts.logger.Sync()
			}
		},
	}
	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.logLevel, "log-level", "", "log level, debug|info|warn|error, defaults to the XLOG_LVL env")
	flags.StringVar(&opts.logEncoder, "log-encoder", "json", "log encoder, json|text")
	cmd.AddCommand(
		newDemoCmd(),
		newBenchCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := NewRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error executing xtree: %v\n", err)
		os.Exit(1)
	}
}
