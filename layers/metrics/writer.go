package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/rclone/stratum/core"
)

// observingWriter wraps a core.Writer to record total written bytes into
// hist at finalization: each Close or Abort call records the total so far,
// whatever it returns (spec §4.6(c); the wrapper must not alter the error
// propagated).
type observingWriter struct {
	inner core.Writer
	hist  prometheus.Observer
	total int64
}

func newObservingWriter(inner core.Writer, hist prometheus.Observer) *observingWriter {
	return &observingWriter{inner: inner, hist: hist}
}

func (w *observingWriter) Write(chunk []byte) (int, error) {
	n, err := w.inner.Write(chunk)
	w.total += int64(n)
	return n, err
}

func (w *observingWriter) Abort() error {
	w.hist.Observe(float64(w.total))
	return w.inner.Abort()
}

func (w *observingWriter) Close() error {
	w.hist.Observe(float64(w.total))
	return w.inner.Close()
}

var _ core.Writer = (*observingWriter)(nil)

// observingAppender is observingWriter's counterpart for Appender, which
// has no size contract (spec §4.5).
type observingAppender struct {
	inner core.Appender
	hist  prometheus.Observer
	total int64
}

func newObservingAppender(inner core.Appender, hist prometheus.Observer) *observingAppender {
	return &observingAppender{inner: inner, hist: hist}
}

func (a *observingAppender) Append(chunk []byte) error {
	err := a.inner.Append(chunk)
	if err == nil {
		a.total += int64(len(chunk))
	}
	return err
}

func (a *observingAppender) Close() error {
	a.hist.Observe(float64(a.total))
	return a.inner.Close()
}

var _ core.Appender = (*observingAppender)(nil)
