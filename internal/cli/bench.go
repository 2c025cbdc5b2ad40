package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net"
	"net/http"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/benz9527/xtree/observability"
	"github.com/benz9527/xtree/xlog"
)

var ErrBenchInvalidWorkload = errors.New("[xtree] invalid bench workload")

type benchConfig struct {
	engines    string
	n          int
	workers    int
	order      int
	seed       uint64
	check      bool
	metrics    string
	interval   time.Duration
	listen     string
	linger     time.Duration
	out        io.Writer
	metricsOut io.Writer
}

func (cfg benchConfig) validate() error {
	if cfg.n <= 0 {
		return fmt.Errorf("%w: n %d", ErrBenchInvalidWorkload, cfg.n)
	}
	if cfg.workers <= 0 {
		return fmt.Errorf("%w: workers %d", ErrBenchInvalidWorkload, cfg.workers)
	}
	if cfg.interval <= 0 {
		return fmt.Errorf("%w: metrics interval %s", ErrBenchInvalidWorkload, cfg.interval)
	}
	return nil
}

func newBenchCmd(root *rootOptions) *cobra.Command {
	cfg := benchConfig{}
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Run the insert, find and erase workloads of the engines concurrently",
		Long: `Bench runs one workload per engine in a goroutine pool. Each workload
owns a private engine, inserts n keys in a random order, finds them
and erases them. The durations are logged and printed, the operation
metrics are exported by OpenTelemetry.`,
		Example: `  xtree bench --engines avl,rb,btree --n 100000 --workers 4
  xtree bench --metrics prometheus --listen :9464 --linger 1m`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.out = cmd.OutOrStdout()
			cfg.metricsOut = cmd.ErrOrStderr()
			return runBench(cmd.Context(), cfg, root.logger)
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&cfg.engines, "engines", "avl,rb,btree,bst", "comma separated tree engines")
	flags.IntVarP(&cfg.n, "n", "n", 100_000, "number of keys per engine")
	flags.IntVar(&cfg.workers, "workers", 4, "goroutine pool size")
	flags.IntVar(&cfg.order, "order", 16, "max children of a b-tree node")
	flags.Uint64Var(&cfg.seed, "seed", uint64(time.Now().UnixNano()), "random keys seed")
	flags.BoolVar(&cfg.check, "check", false, "validate the tree invariants after the inserts")
	flags.StringVar(&cfg.metrics, "metrics", string(observability.NoopMetricsExporter), "metrics exporter, stdout|prometheus|none")
	flags.DurationVar(&cfg.interval, "metrics-interval", 5*time.Second, "stdout metrics export interval")
	flags.StringVar(&cfg.listen, "listen", ":9464", "prometheus metrics listen address")
	flags.DurationVar(&cfg.linger, "linger", 0, "keep the metrics served after the workloads")
	return cmd
}

type BenchResult struct {
	Engine Engine
	N      int
	Height int
	Insert time.Duration
	Find   time.Duration
	Erase  time.Duration
}

func newMeterProvider(lc fx.Lifecycle, cfg benchConfig, logger xlog.XLogger) (metric.MeterProvider, error) {
	kind := observability.MetricsExporter(cfg.metrics)
	opts := make([]stdoutmetric.Option, 0, 1)
	if cfg.metricsOut != nil {
		opts = append(opts, stdoutmetric.WithWriter(cfg.metricsOut))
	}
	shutdown, err := observability.SetupMetricsExporter(kind, cfg.interval, opts...)
	if err != nil {
		return nil, err
	}

	var srv *http.Server
	if kind == observability.PrometheusMetricsExporter {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		srv = &http.Server{
			Addr:              cfg.listen,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if kind != observability.NoopMetricsExporter {
				observability.InitAppStats(context.Background(), "bench")
			}
			if srv == nil {
				return nil
			}
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error(err, "prometheus metrics server stopped")
				}
			}()
			logger.Info("prometheus metrics served", zap.String("addr", ln.Addr().String()))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			var err error
			if srv != nil {
				err = multierr.Append(err, srv.Shutdown(ctx))
			}
			return multierr.Append(err, shutdown(ctx))
		},
	})
	return otel.GetMeterProvider(), nil
}

func newBenchPool(lc fx.Lifecycle, cfg benchConfig, logger xlog.XLogger) (*ants.Pool, error) {
	pool, err := ants.NewPool(
		cfg.workers,
		ants.WithLogger(xlog.NewAntsXLogger(logger)),
		ants.WithPanicHandler(func(p any) {
			logger.Error(fmt.Errorf("%v", p), "bench workload panic")
		}),
	)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.StopHook(pool.Release))
	return pool, nil
}

type benchRunner struct {
	cfg      benchConfig
	engines  []Engine
	logger   xlog.XLogger
	pool     *ants.Pool
	provider metric.MeterProvider
}

type benchRunnerParams struct {
	fx.In

	Cfg      benchConfig
	Engines  []Engine
	Logger   xlog.XLogger
	Pool     *ants.Pool
	Provider metric.MeterProvider
}

func newBenchRunner(p benchRunnerParams) *benchRunner {
	return &benchRunner{
		cfg:      p.Cfg,
		engines:  p.Engines,
		logger:   p.Logger.Named("bench"),
		pool:     p.Pool,
		provider: p.Provider,
	}
}

// Run submits one workload per engine and waits for all of them.
func (r *benchRunner) Run(ctx context.Context) ([]BenchResult, error) {
	var (
		wg      sync.WaitGroup
		results = make([]BenchResult, len(r.engines))
		errs    = make([]error, len(r.engines))
	)
	for i, e := range r.engines {
		wg.Add(1)
		if err := r.pool.Submit(func() {
			defer wg.Done()
			results[i], errs[i] = r.runEngine(ctx, e, uint64(i))
		}); err != nil {
			wg.Done()
			errs[i] = err
		}
	}
	wg.Wait()
	return results, multierr.Combine(errs...)
}

func (r *benchRunner) runEngine(ctx context.Context, e Engine, stream uint64) (BenchResult, error) {
	res := BenchResult{Engine: e, N: r.cfg.n}
	raw, err := NewEngine(e, r.cfg.order)
	if err != nil {
		return res, err
	}
	m, err := observability.InstrumentMap(
		raw,
		observability.WithMeterProvider(r.provider),
		observability.WithEngineName(string(e)),
	)
	if err != nil {
		raw.Release()
		return res, err
	}
	defer m.Release()

	ctx = context.WithValue(ctx, xlog.ContextKey("engine"), string(e))
	keys := rand.New(rand.NewPCG(r.cfg.seed, stream)).Perm(r.cfg.n)
	phase := func(name string, op func(key int64) bool) (time.Duration, error) {
		start := time.Now()
		for i, k := range keys {
			if i&1023 == 0 {
				if err := ctx.Err(); err != nil {
					return 0, err
				}
			}
			if !op(int64(k)) {
				return 0, fmt.Errorf("[xtree] %s %s key %d failed", e, name, k)
			}
		}
		elapsed := time.Since(start)
		r.logger.InfoContext(ctx, "bench phase done",
			zap.String("phase", name),
			zap.Int("ops", len(keys)),
			zap.Duration("elapsed", elapsed),
			zap.Int64("len", m.Len()),
			zap.Int("height", m.Height()),
		)
		return elapsed, nil
	}

	if res.Insert, err = phase("insert", func(key int64) bool {
		m.Insert(key, key)
		return true
	}); err != nil {
		return res, err
	}
	res.Height = m.Height()
	if r.cfg.check {
		if err := ValidateEngine(raw); err != nil {
			r.logger.ErrorContext(ctx, err, "bench validation failed")
			return res, err
		}
	}
	if res.Find, err = phase("find", func(key int64) bool {
		v, ok := m.Find(key)
		return ok && v == key
	}); err != nil {
		return res, err
	}
	if res.Erase, err = phase("erase", m.Erase); err != nil {
		return res, err
	}
	if m.Len() != 0 || m.Height() != 0 {
		return res, fmt.Errorf("[xtree] %s is not empty after the erases, len %d height %d", e, m.Len(), m.Height())
	}
	return res, nil
}

func printBenchResults(w io.Writer, results []BenchResult) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ENGINE\tN\tHEIGHT\tINSERT\tFIND\tERASE\tINSERT/OP\tFIND/OP\tERASE/OP")
	for _, res := range results {
		n := time.Duration(max(res.N, 1))
		_, _ = fmt.Fprintf(tw, "%s\t%d\t%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			res.Engine, res.N, res.Height,
			res.Insert, res.Find, res.Erase,
			res.Insert/n, res.Find/n, res.Erase/n,
		)
	}
	return tw.Flush()
}

func runBench(ctx context.Context, cfg benchConfig, logger xlog.XLogger) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg.out == nil {
		cfg.out = io.Discard
	}
	if cfg.metricsOut == nil {
		cfg.metricsOut = io.Discard
	}
	if logger == nil {
		logger = xlog.NewXLogger(xlog.WithXLoggerWriter(cfg.metricsOut))
	}
	if err := cfg.validate(); err != nil {
		return err
	}
	engines, err := ParseEngines(cfg.engines)
	if err != nil {
		return err
	}
	logger.Banner(xtreeBanner{})

	var runner *benchRunner
	app := fx.New(
		fx.WithLogger(func() fxevent.Logger {
			return xlog.NewFxXLogger(logger)
		}),
		fx.Supply(cfg, engines),
		fx.Provide(
			func() xlog.XLogger { return logger },
			newMeterProvider,
			newBenchPool,
			newBenchRunner,
		),
		fx.Populate(&runner),
	)
	if err := app.Err(); err != nil {
		return err
	}
	startCtx, cancel := context.WithTimeout(ctx, app.StartTimeout())
	defer cancel()
	if err := app.Start(startCtx); err != nil {
		return err
	}

	results, runErr := runner.Run(ctx)
	if runErr == nil {
		runErr = printBenchResults(cfg.out, results)
	} else {
		logger.Error(runErr, "bench failed")
	}
	if cfg.linger > 0 && runErr == nil {
		logger.Info("bench lingering", zap.Duration("linger", cfg.linger))
		select {
		case <-ctx.Done():
		case <-time.After(cfg.linger):
		}
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), app.StopTimeout())
	defer stopCancel()
	return multierr.Append(runErr, app.Stop(stopCtx))
}
