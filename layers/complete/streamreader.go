package complete

import (
	"io"

	"github.com/rclone/stratum/core"
)

// streamableChunkSize is the fixed buffer size the streamable adapter fills
// before yielding a chunk (spec §4.2 "buffers into chunks of 256 KiB"),
// grounded on complete.rs's oio::into_streamable_reader(r, 256 * 1024).
const streamableChunkSize = 256 * 1024

// seeker is the subset of core.Reader the streamable adapter needs from
// whatever it wraps: plain Read/Seek. Both the backend's native reader and
// rangeReader satisfy it, so the same adapter serves NeedStreamable and
// NeedBoth (spec §4.2 decision table).
type seeker interface {
	io.Reader
	Seek(offset int64, whence int) (int64, error)
}

// streamReader adds Next to a reader that already supports Read/Seek but
// not chunked streaming (spec §4.2 "streamable adapter").
type streamReader struct {
	r   seeker
	buf []byte
}

func newStreamReader(r seeker) *streamReader {
	return &streamReader{r: r, buf: make([]byte, streamableChunkSize)}
}

func (s *streamReader) Read(p []byte) (int, error) {
	return s.r.Read(p)
}

func (s *streamReader) Seek(offset int64, whence int) (int64, error) {
	return s.r.Seek(offset, whence)
}

// Next fills the fixed buffer and yields its filled prefix as an owned
// chunk. A short read due to EOF is reported once, with the bytes it read
// and a nil error; the following call reports io.EOF with no bytes.
func (s *streamReader) Next() ([]byte, error) {
	n, err := io.ReadFull(s.r, s.buf)
	if err == io.ErrUnexpectedEOF {
		err = nil
	}
	if n == 0 {
		if err == nil {
			err = io.EOF
		}
		return nil, err
	}
	chunk := make([]byte, n)
	copy(chunk, s.buf[:n])
	return chunk, err
}

var _ core.Reader = (*streamReader)(nil)
