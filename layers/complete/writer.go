package complete

import (
	"runtime"

	"github.com/rclone/stratum/core"
	"github.com/rclone/stratum/core/corelog"
)

// completeWriter wraps a backend Writer with a declared-size check and
// finalization discipline (spec §4.4), grounded one-to-one on complete.rs's
// CompleteWriter (same "expect: %d, actual: %d" message shape).
type completeWriter struct {
	inner     core.Writer
	size      *int64
	written   int64
	finalized bool
	scheme    string
	path      string
}

func newCompleteWriter(scheme, path string, size *int64, inner core.Writer) *completeWriter {
	w := &completeWriter{inner: inner, size: size, scheme: scheme, path: path}
	if corelog.DebugAssertions {
		runtime.SetFinalizer(w, warnIfNotFinalized)
	}
	return w
}

// warnIfNotFinalized fires if a completeWriter is garbage collected without
// Close or Abort ever having been called, matching the Rust original's
// debug_assertions-gated leak check (spec §4.4, §9).
func warnIfNotFinalized(w *completeWriter) {
	if !w.finalized {
		corelog.New(nil).Warnf("writer for %q (%s) dropped without close/abort", w.path, w.scheme)
	}
}

func (w *completeWriter) Write(chunk []byte) (int, error) {
	if w.finalized {
		return 0, core.NewError(core.KindUnexpected, "writer already finalized").
			WithOperation(string(core.OpWrite)).WithService(w.scheme)
	}
	if w.size != nil {
		if next := w.written + int64(len(chunk)); next > *w.size {
			return 0, core.NewError(core.KindContentTruncated, "expect: %d, actual: %d", *w.size, next).
				WithOperation(string(core.OpWrite)).WithService(w.scheme).WithContext("path", w.path)
		}
	}
	n, err := w.inner.Write(chunk)
	w.written += int64(n)
	return n, err
}

func (w *completeWriter) Abort() error {
	if w.finalized {
		return core.NewError(core.KindUnexpected, "writer already finalized").
			WithOperation(string(core.OpWrite)).WithService(w.scheme)
	}
	w.finalized = true
	return w.inner.Abort()
}

func (w *completeWriter) Close() error {
	if w.finalized {
		return core.NewError(core.KindUnexpected, "writer already finalized").
			WithOperation(string(core.OpWrite)).WithService(w.scheme)
	}
	if w.size != nil && w.written < *w.size {
		w.finalized = true
		return core.NewError(core.KindContentIncomplete, "expect: %d, actual: %d", *w.size, w.written).
			WithOperation(string(core.OpWrite)).WithService(w.scheme).WithContext("path", w.path)
	}
	w.finalized = true
	return w.inner.Close()
}

var _ core.Writer = (*completeWriter)(nil)
