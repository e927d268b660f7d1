package memory

import (
	"io"

	"github.com/rclone/stratum/core"
)

// blockingReader is the Reader memory hands back from Read: a plain
// in-memory byte slice with no native seek or chunk iteration, forcing the
// completion layer to adapt it (NeedBoth) when it wraps this backend.
type blockingReader struct {
	data []byte
	pos  int
}

func (r *blockingReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	n := copy(p, r.data[r.pos:])
	r.pos += n
	return n, nil
}

func (r *blockingReader) Seek(offset int64, whence int) (int64, error) {
	return 0, core.ErrUnsupported // memory's native reader cannot seek; see Info().Capability
}

func (r *blockingReader) Next() ([]byte, error) {
	return nil, io.EOF // memory's native reader cannot stream chunks; see Info().Capability
}
