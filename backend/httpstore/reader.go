package httpstore

import (
	"io"

	"github.com/rclone/stratum/core"
)

const bodyChunkSize = 64 * 1024

// bodyReader wraps an HTTP response body: a forward-only stream with no
// native seek, closing itself once exhausted so callers that drain to EOF
// never need to know this holds a live connection.
type bodyReader struct {
	body io.ReadCloser
	done bool
}

func (r *bodyReader) Read(p []byte) (int, error) {
	if r.done {
		return 0, io.EOF
	}
	n, err := r.body.Read(p)
	if err == io.EOF {
		r.done = true
		r.body.Close()
	}
	return n, err
}

func (r *bodyReader) Seek(offset int64, whence int) (int64, error) {
	return 0, core.ErrUnsupported
}

// Next does one body read into a fresh bodyChunkSize (64 KiB) buffer per
// call and yields what that read returned, so a chunk may be shorter than
// the buffer; the completion layer's streamable adapter uses 256 KiB chunks.
func (r *bodyReader) Next() ([]byte, error) {
	buf := make([]byte, bodyChunkSize)
	n, err := r.Read(buf)
	if n == 0 {
		if err == nil {
			err = io.EOF
		}
		return nil, err
	}
	return buf[:n], err
}

var _ core.Reader = (*bodyReader)(nil)
