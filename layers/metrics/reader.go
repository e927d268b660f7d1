package metrics

import (
	"io"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/rclone/stratum/core"
)

// observingReader wraps a core.Reader to record the total bytes pulled
// through it into hist once the stream reaches EOF (spec §4.6(c)). It
// forwards every call unmodified otherwise, introducing no new suspension
// point and never altering the error returned.
type observingReader struct {
	inner   core.Reader
	hist    prometheus.Observer
	total   int64
	emitted bool
}

func newObservingReader(inner core.Reader, hist prometheus.Observer) *observingReader {
	return &observingReader{inner: inner, hist: hist}
}

func (r *observingReader) emit() {
	if !r.emitted {
		r.hist.Observe(float64(r.total))
		r.emitted = true
	}
}

func (r *observingReader) Read(p []byte) (int, error) {
	n, err := r.inner.Read(p)
	r.total += int64(n)
	if err == io.EOF {
		r.emit()
	}
	return n, err
}

func (r *observingReader) Seek(offset int64, whence int) (int64, error) {
	return r.inner.Seek(offset, whence)
}

func (r *observingReader) Next() ([]byte, error) {
	chunk, err := r.inner.Next()
	r.total += int64(len(chunk))
	if err == io.EOF {
		r.emit()
	}
	return chunk, err
}

var _ core.Reader = (*observingReader)(nil)
