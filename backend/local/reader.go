package local

import (
	"io"
	"os"
)

// seekableReader scopes an *os.File to the [start, end) window the caller
// asked for, translating the reader's own logical offset 0 to the file's
// absolute start so Seek(0, io.SeekStart) returns to the window's
// beginning rather than the file's. Next is never called: local's
// capability advertises ReadCanNext=false, so the completion layer always
// reaches this type through the streamable adapter instead.
type seekableReader struct {
	f          *os.File
	start, end int64 // absolute byte bounds in the file
	pos        int64 // absolute file position, always within [start, end]

	remaining int64
}

func newSeekableReader(f *os.File, start, size int64) *seekableReader {
	return &seekableReader{f: f, start: start, end: start + size, pos: start, remaining: size}
}

func (r *seekableReader) Read(p []byte) (int, error) {
	if r.remaining <= 0 {
		return 0, io.EOF
	}
	if int64(len(p)) > r.remaining {
		p = p[:r.remaining]
	}
	n, err := r.f.Read(p)
	r.pos += int64(n)
	r.remaining -= int64(n)
	if err == nil && r.remaining <= 0 {
		err = io.EOF
	}
	if err == io.EOF {
		r.f.Close()
	}
	return n, err
}

func (r *seekableReader) Seek(offset int64, whence int) (int64, error) {
	var logicalTarget int64
	switch whence {
	case io.SeekStart:
		logicalTarget = offset
	case io.SeekCurrent:
		logicalTarget = (r.pos - r.start) + offset
	case io.SeekEnd:
		logicalTarget = (r.end - r.start) + offset
	}

	abs := r.start + logicalTarget
	if abs < r.start {
		abs = r.start
	}
	if abs > r.end {
		abs = r.end
	}
	if _, err := r.f.Seek(abs, io.SeekStart); err != nil {
		return 0, err
	}
	r.pos = abs
	r.remaining = r.end - abs
	return abs - r.start, nil
}

func (r *seekableReader) Next() ([]byte, error) {
	return nil, io.EOF
}
