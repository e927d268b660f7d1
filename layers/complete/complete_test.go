package complete

import (
	"bytes"
	"context"
	"io"

	"github.com/rclone/stratum/core"
)

// fakeReader is the plain backend reader every fakeAccessor.Read returns:
// it only ever supports Read/Seek/Next over an in-memory slice, with no
// knowledge of the completion layer wrapping it.
type fakeReader struct {
	r *bytes.Reader
}

func newFakeReader(b []byte) *fakeReader {
	return &fakeReader{r: bytes.NewReader(b)}
}

func (f *fakeReader) Read(p []byte) (int, error) { return f.r.Read(p) }

func (f *fakeReader) Seek(offset int64, whence int) (int64, error) {
	return f.r.Seek(offset, whence)
}

func (f *fakeReader) Next() ([]byte, error) {
	buf := make([]byte, 4096)
	n, err := f.r.Read(buf)
	if n == 0 {
		if err == nil {
			err = io.EOF
		}
		return nil, err
	}
	return buf[:n], err
}

var _ core.Reader = (*fakeReader)(nil)

// fakeAccessor is a minimal core.Accessor test double: capability and
// content are configurable per test, and every backend call is recorded so
// tests can assert the completion layer's call-count invariants (spec §8
// properties 1 and 3, scenario S1).
type fakeAccessor struct {
	scheme     string
	capability core.Capability
	content    []byte

	statCalls int
	readCalls []core.ReadOptions
}

func (f *fakeAccessor) Info() core.Info {
	return core.Info{Scheme: f.scheme, Capability: f.capability}
}

func (f *fakeAccessor) Stat(ctx context.Context, path string) (core.Metadata, error) {
	f.statCalls++
	return core.Metadata{}.SetContentLength(int64(len(f.content))), nil
}

func (f *fakeAccessor) Read(ctx context.Context, path string, opts core.ReadOptions) (core.ReadMeta, core.Reader, error) {
	f.readCalls = append(f.readCalls, opts)
	offset, size := opts.Range.Resolve(int64(len(f.content)))
	if offset < 0 {
		offset = 0
	}
	end := offset + size
	if end > int64(len(f.content)) {
		end = int64(len(f.content))
	}
	if end < offset {
		end = offset
	}
	slice := f.content[offset:end]
	return core.ReadMeta{ContentLength: int64(len(slice))}, newFakeReader(slice), nil
}

func (f *fakeAccessor) Write(ctx context.Context, path string, opts core.WriteOptions) (core.WriteMeta, core.Writer, error) {
	return core.WriteMeta{}, &fakeWriter{}, nil
}

func (f *fakeAccessor) Append(ctx context.Context, path string, opts core.WriteOptions) (core.WriteMeta, core.Appender, error) {
	return core.WriteMeta{}, &fakeAppender{}, nil
}

func (f *fakeAccessor) Delete(ctx context.Context, path string, opts core.DeleteOptions) error {
	return nil
}

func (f *fakeAccessor) List(ctx context.Context, path string, opts core.ListOptions) (core.ListMeta, core.Pager, error) {
	return core.ListMeta{}, nil, core.ErrUnsupported
}

func (f *fakeAccessor) CreateDir(ctx context.Context, path string, opts core.CreateDirOptions) error {
	return nil
}

func (f *fakeAccessor) Copy(ctx context.Context, from, to string, opts core.CopyOptions) error {
	return nil
}

func (f *fakeAccessor) Rename(ctx context.Context, from, to string, opts core.RenameOptions) error {
	return nil
}

func (f *fakeAccessor) Batch(ctx context.Context, ops []core.BatchOp) (core.BatchResult, error) {
	return core.BatchResult{}, nil
}

func (f *fakeAccessor) Presign(ctx context.Context, path string, opts core.PresignOptions) (core.PresignResult, error) {
	return core.PresignResult{}, nil
}

var _ core.Accessor = (*fakeAccessor)(nil)

// fakeWriter/fakeAppender record everything written/appended and whether
// they were finalized, for the completeWriter/completeAppender tests.
type fakeWriter struct {
	written []byte
	aborted bool
	closed  bool
}

func (w *fakeWriter) Write(chunk []byte) (int, error) {
	w.written = append(w.written, chunk...)
	return len(chunk), nil
}
func (w *fakeWriter) Abort() error { w.aborted = true; return nil }
func (w *fakeWriter) Close() error { w.closed = true; return nil }

var _ core.Writer = (*fakeWriter)(nil)

type fakeAppender struct {
	appended []byte
	closed   bool
}

func (a *fakeAppender) Append(chunk []byte) error {
	a.appended = append(a.appended, chunk...)
	return nil
}
func (a *fakeAppender) Close() error { a.closed = true; return nil }

var _ core.Appender = (*fakeAppender)(nil)

// fakeListAccessor backs the listing tests: List responses are scripted
// per path, as a single one-shot batch.
type fakeListAccessor struct {
	fakeAccessor
	responses map[string][]core.Entry
}

func (f *fakeListAccessor) List(ctx context.Context, path string, opts core.ListOptions) (core.ListMeta, core.Pager, error) {
	return core.ListMeta{}, &scriptedPager{batches: [][]core.Entry{f.responses[path]}}, nil
}

// scriptedPager replays pre-built batches, attaching io.EOF to the final one.
type scriptedPager struct {
	batches [][]core.Entry
	idx     int
}

func (p *scriptedPager) Next(ctx context.Context) ([]core.Entry, error) {
	if p.idx >= len(p.batches) {
		return nil, io.EOF
	}
	b := p.batches[p.idx]
	p.idx++
	if p.idx == len(p.batches) {
		return b, io.EOF
	}
	return b, nil
}

var _ core.Pager = (*scriptedPager)(nil)
