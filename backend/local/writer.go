package local

import "os"

// fileWriter wraps an *os.File opened via os.Create, removing the partial
// file on Abort instead of leaving a half-written one behind.
type fileWriter struct {
	f         *os.File
	full      string
	finalized bool
}

func (w *fileWriter) Write(chunk []byte) (int, error) {
	return w.f.Write(chunk)
}

func (w *fileWriter) Abort() error {
	if w.finalized {
		return nil
	}
	w.finalized = true
	w.f.Close()
	return os.Remove(w.full)
}

func (w *fileWriter) Close() error {
	if w.finalized {
		return nil
	}
	w.finalized = true
	return w.f.Close()
}

// fileAppender wraps an *os.File opened with O_APPEND.
type fileAppender struct {
	f         *os.File
	finalized bool
}

func (a *fileAppender) Append(chunk []byte) error {
	_, err := a.f.Write(chunk)
	return err
}

func (a *fileAppender) Close() error {
	if a.finalized {
		return nil
	}
	a.finalized = true
	return a.f.Close()
}
