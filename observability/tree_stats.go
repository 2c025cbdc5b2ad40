package observability

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/multierr"

	"github.com/benz9527/xtree/lib/infra"
	"github.com/benz9527/xtree/lib/tree"
)

const treeStatsMeterName = "xtree/map"

var ErrInstrumentNilMap = errors.New("[xtree] nil ordered map to instrument")

var (
	opInsert = attribute.String("op", "insert")
	opFind   = attribute.String("op", "find")
	opErase  = attribute.String("op", "erase")

	resultHit  = attribute.String("result", "hit")
	resultMiss = attribute.String("result", "miss")
)

type instrumentOptions struct {
	provider metric.MeterProvider
	engine   string
}

type InstrumentOption func(*instrumentOptions)

// WithMeterProvider replaces the global meter provider.
func WithMeterProvider(provider metric.MeterProvider) InstrumentOption {
	return func(opts *instrumentOptions) {
		if provider != nil {
			opts.provider = provider
		}
	}
}

// WithEngineName tags all measurements by the engine attribute.
func WithEngineName(engine string) InstrumentOption {
	return func(opts *instrumentOptions) {
		opts.engine = engine
	}
}

type instrumentedMap[K infra.OrderedKey, V any] struct {
	tree.OrderedMap[K, V]
	engine       attribute.KeyValue
	ops          metric.Int64Counter
	duration     metric.Float64Histogram
	registration metric.Registration
}

func (m *instrumentedMap[K, V]) record(start time.Time, attrs ...attribute.KeyValue) {
	attrs = append(attrs, m.engine)
	set := metric.WithAttributes(attrs...)
	ctx := context.Background()
	m.ops.Add(ctx, 1, set)
	m.duration.Record(ctx, time.Since(start).Seconds(), set)
}

func (m *instrumentedMap[K, V]) Find(key K) (V, bool) {
	start := time.Now()
	val, ok := m.OrderedMap.Find(key)
	if ok {
		m.record(start, opFind, resultHit)
	} else {
		m.record(start, opFind, resultMiss)
	}
	return val, ok
}

func (m *instrumentedMap[K, V]) Insert(key K, val V) {
	start := time.Now()
	m.OrderedMap.Insert(key, val)
	m.record(start, opInsert)
}

func (m *instrumentedMap[K, V]) Erase(key K) bool {
	start := time.Now()
	ok := m.OrderedMap.Erase(key)
	if ok {
		m.record(start, opErase, resultHit)
	} else {
		m.record(start, opErase, resultMiss)
	}
	return ok
}

// Release stops the len & height observations as well.
func (m *instrumentedMap[K, V]) Release() {
	m.OrderedMap.Release()
	if m.registration != nil {
		_ = m.registration.Unregister()
		m.registration = nil
	}
}

// InstrumentMap wraps the ordered map by a synced map and records
// the operation counters, the operation durations and observes the
// len and height gauges.
func InstrumentMap[K infra.OrderedKey, V any](m tree.OrderedMap[K, V], opts ...InstrumentOption) (tree.OrderedMap[K, V], error) {
	if m == nil {
		return nil, ErrInstrumentNilMap
	}
	o := &instrumentOptions{
		provider: otel.GetMeterProvider(),
		engine:   "unknown",
	}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}

	meter := o.provider.Meter(treeStatsMeterName)
	var merr error
	ops, err := meter.Int64Counter(
		"xtree.map.ops",
		metric.WithDescription(`The ordered map operations.`),
	)
	merr = multierr.Append(merr, err)
	duration, err := meter.Float64Histogram(
		"xtree.map.op.duration",
		metric.WithDescription(`The ordered map operation durations.`),
		metric.WithUnit("s"),
	)
	merr = multierr.Append(merr, err)
	length, err := meter.Int64ObservableGauge(
		"xtree.map.len",
		metric.WithDescription(`The ordered map elements.`),
	)
	merr = multierr.Append(merr, err)
	height, err := meter.Int64ObservableGauge(
		"xtree.map.height",
		metric.WithDescription(`The ordered map height.`),
	)
	merr = multierr.Append(merr, err)
	if merr != nil {
		return nil, merr
	}

	engine := attribute.String("engine", o.engine)
	synced := tree.NewSyncedMap[K, V](m)
	registration, err := meter.RegisterCallback(func(ctx context.Context, ob metric.Observer) error {
		set := metric.WithAttributes(engine)
		ob.ObserveInt64(length, synced.Len(), set)
		ob.ObserveInt64(height, int64(synced.Height()), set)
		return nil
	}, length, height)
	if err != nil {
		return nil, err
	}

	return &instrumentedMap[K, V]{
		OrderedMap:   synced,
		engine:       engine,
		ops:          ops,
		duration:     duration,
		registration: registration,
	}, nil
}
