// Package corelog gives the core and layers packages a Logger interface that
// can be passed around explicitly. It wraps *logrus.Logger with the
// Debugf/Logf/Infof call shape rclone's own fs.Logf/fs.Debugf leveled
// helpers use. The completion layer's finalization warnings call New(nil),
// so they go to logrus's process-wide standard logger.
package corelog

import "github.com/sirupsen/logrus"

// Logger is the leveled logging surface stratum's layers take.
type Logger interface {
	Debugf(format string, args ...any)
	Logf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
}

// logrusLogger adapts *logrus.Logger to Logger; Logf maps to Info level,
// matching rclone's fs.Logf (its default, always-on informational log).
type logrusLogger struct {
	l *logrus.Logger
}

// New wraps l. Passing nil defaults to logrus.StandardLogger(), the same
// default rclone's own helpers fall back to when no logger is configured.
func New(l *logrus.Logger) Logger {
	if l == nil {
		l = logrus.StandardLogger()
	}
	return &logrusLogger{l: l}
}

func (g *logrusLogger) Debugf(format string, args ...any) { g.l.Debugf(format, args...) }
func (g *logrusLogger) Logf(format string, args ...any)   { g.l.Infof(format, args...) }
func (g *logrusLogger) Infof(format string, args ...any)  { g.l.Infof(format, args...) }
func (g *logrusLogger) Warnf(format string, args ...any)  { g.l.Warnf(format, args...) }

// DebugAssertions gates the finalization warning (a writer/appender
// dropped without a final Close/Abort, spec §4.4/§4.5) the way the Rust
// original gates its own check behind #[cfg(debug_assertions)] (spec §9).
// Tests that need to observe the warning set this to true.
var DebugAssertions = false

var _ Logger = (*logrusLogger)(nil)
