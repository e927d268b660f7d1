package complete

import (
	"runtime"

	"github.com/rclone/stratum/core"
	"github.com/rclone/stratum/core/corelog"
)

// completeAppender wraps a backend Appender with the same finalization
// discipline as completeWriter, minus the size contract (spec §4.5).
type completeAppender struct {
	inner     core.Appender
	finalized bool
	scheme    string
}

func newCompleteAppender(scheme string, inner core.Appender) *completeAppender {
	a := &completeAppender{inner: inner, scheme: scheme}
	if corelog.DebugAssertions {
		runtime.SetFinalizer(a, warnAppenderIfNotFinalized)
	}
	return a
}

func warnAppenderIfNotFinalized(a *completeAppender) {
	if !a.finalized {
		corelog.New(nil).Warnf("appender (%s) dropped without close", a.scheme)
	}
}

func (a *completeAppender) Append(chunk []byte) error {
	if a.finalized {
		return core.NewError(core.KindUnexpected, "appender already finalized").
			WithOperation(string(core.OpAppend)).WithService(a.scheme)
	}
	return a.inner.Append(chunk)
}

func (a *completeAppender) Close() error {
	if a.finalized {
		return core.NewError(core.KindUnexpected, "appender already finalized").
			WithOperation(string(core.OpAppend)).WithService(a.scheme)
	}
	a.finalized = true
	return a.inner.Close()
}

var _ core.Appender = (*completeAppender)(nil)
