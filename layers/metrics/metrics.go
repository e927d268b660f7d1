// Package metrics implements the observability layer: a transparent
// accessor wrapper that records per-(scheme, operation) request counts,
// latency, and transferred-byte histograms without perturbing ordering,
// cancellation, or the error an operation returns (spec §4.6, §6).
package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/rclone/stratum/core"
)

// Metrics holds the metric families the layer writes to. There is no
// process-wide default registry here (spec §9 "must still allow injection
// for testability") — callers register one explicitly with New.
type Metrics struct {
	requestsTotal    *prometheus.CounterVec
	requestsDuration *prometheus.HistogramVec
	bytesTotal       *prometheus.HistogramVec
	errorsTotal      *prometheus.CounterVec
}

// New builds and registers the metric families against reg. Buckets are
// exponential starting at 0.01 (seconds, or bytes reinterpreted the same
// way), factor 2, 16 buckets (spec §6), grounded on prometheus.rs's own
// exponential_buckets(0.01, 2.0, 16) call.
func New(reg prometheus.Registerer) *Metrics {
	buckets := prometheus.ExponentialBuckets(0.01, 2, 16)

	m := &Metrics{
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stratum_requests_total",
			Help: "Number of accessor requests, by scheme and operation.",
		}, []string{"scheme", "operation"}),
		requestsDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "stratum_requests_duration_seconds",
			Help:    "Accessor request latency in seconds, by scheme and operation.",
			Buckets: buckets,
		}, []string{"scheme", "operation"}),
		bytesTotal: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "stratum_bytes_total",
			Help:    "Bytes transferred per read/write call, by scheme and operation.",
			Buckets: buckets,
		}, []string{"scheme", "operation"}),
		errorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stratum_errors_total",
			Help: "Errors observed, by operation and error kind.",
		}, []string{"operation", "kind"}),
	}
	reg.MustRegister(m.requestsTotal, m.requestsDuration, m.bytesTotal, m.errorsTotal)
	return m
}

// Layer builds the observability accessor bound to this Metrics container
// (spec §2, §9).
func (m *Metrics) Layer(inner core.Accessor) core.Accessor {
	return &accessor{inner: inner, m: m}
}

// accessor forwards every call to inner, recording request/duration/error
// metrics around it and, for read/write/append, wrapping the returned
// stream so transferred bytes land in the bytes histogram too.
type accessor struct {
	inner core.Accessor
	m     *Metrics
}

func (a *accessor) Inner() core.Accessor { return a.inner }

func (a *accessor) Info() core.Info { return a.inner.Info() }

// observe runs fn, timing it and bumping requestsTotal/requestsDuration
// unconditionally and errorsTotal on failure — a scoped-release timer that
// fires on every path, including errors (spec §4.6(d)).
func (a *accessor) observe(op core.Operation, fn func() error) error {
	scheme := a.inner.Info().Scheme
	start := time.Now()
	err := fn()
	a.m.requestsTotal.WithLabelValues(scheme, string(op)).Inc()
	a.m.requestsDuration.WithLabelValues(scheme, string(op)).Observe(time.Since(start).Seconds())
	if err != nil {
		a.m.errorsTotal.WithLabelValues(string(op), core.KindOf(err).String()).Inc()
	}
	return err
}

func (a *accessor) Stat(ctx context.Context, path string) (core.Metadata, error) {
	var md core.Metadata
	err := a.observe(core.OpStat, func() error {
		var e error
		md, e = a.inner.Stat(ctx, path)
		return e
	})
	return md, err
}

func (a *accessor) Read(ctx context.Context, path string, opts core.ReadOptions) (core.ReadMeta, core.Reader, error) {
	scheme := a.inner.Info().Scheme
	var rm core.ReadMeta
	var r core.Reader
	err := a.observe(core.OpRead, func() error {
		var e error
		rm, r, e = a.inner.Read(ctx, path, opts)
		return e
	})
	if err != nil {
		return core.ReadMeta{}, nil, err
	}
	hist := a.m.bytesTotal.WithLabelValues(scheme, string(core.OpRead))
	return rm, newObservingReader(r, hist), nil
}

func (a *accessor) Write(ctx context.Context, path string, opts core.WriteOptions) (core.WriteMeta, core.Writer, error) {
	scheme := a.inner.Info().Scheme
	var wm core.WriteMeta
	var w core.Writer
	err := a.observe(core.OpWrite, func() error {
		var e error
		wm, w, e = a.inner.Write(ctx, path, opts)
		return e
	})
	if err != nil {
		return core.WriteMeta{}, nil, err
	}
	hist := a.m.bytesTotal.WithLabelValues(scheme, string(core.OpWrite))
	return wm, newObservingWriter(w, hist), nil
}

func (a *accessor) Append(ctx context.Context, path string, opts core.WriteOptions) (core.WriteMeta, core.Appender, error) {
	scheme := a.inner.Info().Scheme
	var wm core.WriteMeta
	var ap core.Appender
	err := a.observe(core.OpAppend, func() error {
		var e error
		wm, ap, e = a.inner.Append(ctx, path, opts)
		return e
	})
	if err != nil {
		return core.WriteMeta{}, nil, err
	}
	hist := a.m.bytesTotal.WithLabelValues(scheme, string(core.OpAppend))
	return wm, newObservingAppender(ap, hist), nil
}

func (a *accessor) Delete(ctx context.Context, path string, opts core.DeleteOptions) error {
	return a.observe(core.OpDelete, func() error {
		return a.inner.Delete(ctx, path, opts)
	})
}

func (a *accessor) List(ctx context.Context, path string, opts core.ListOptions) (core.ListMeta, core.Pager, error) {
	var lm core.ListMeta
	var p core.Pager
	err := a.observe(core.OpList, func() error {
		var e error
		lm, p, e = a.inner.List(ctx, path, opts)
		return e
	})
	return lm, p, err
}

func (a *accessor) CreateDir(ctx context.Context, path string, opts core.CreateDirOptions) error {
	return a.observe(core.OpCreateDir, func() error {
		return a.inner.CreateDir(ctx, path, opts)
	})
}

func (a *accessor) Copy(ctx context.Context, from, to string, opts core.CopyOptions) error {
	return a.observe(core.OpCopy, func() error {
		return a.inner.Copy(ctx, from, to, opts)
	})
}

func (a *accessor) Rename(ctx context.Context, from, to string, opts core.RenameOptions) error {
	return a.observe(core.OpRename, func() error {
		return a.inner.Rename(ctx, from, to, opts)
	})
}

func (a *accessor) Batch(ctx context.Context, ops []core.BatchOp) (core.BatchResult, error) {
	var br core.BatchResult
	err := a.observe(core.OpBatch, func() error {
		var e error
		br, e = a.inner.Batch(ctx, ops)
		return e
	})
	return br, err
}

func (a *accessor) Presign(ctx context.Context, path string, opts core.PresignOptions) (core.PresignResult, error) {
	var pr core.PresignResult
	err := a.observe(core.OpPresign, func() error {
		var e error
		pr, e = a.inner.Presign(ctx, path, opts)
		return e
	})
	return pr, err
}

var (
	_ core.Layer     = (*Metrics)(nil)
	_ core.Accessor  = (*accessor)(nil)
	_ core.Unwrapper = (*accessor)(nil)
)
