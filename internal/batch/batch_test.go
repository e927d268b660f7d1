package batch

import (
	"context"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rclone/stratum/core"
)

// fakeAccessor is a minimal in-memory core.Accessor double for exercising
// Remove/RemoveAll's chunking and fallback logic.
type fakeAccessor struct {
	mu         sync.Mutex
	capability core.Capability
	objects    map[string]bool // path -> exists
	entries    map[string][]core.Entry
	deleted    []string
	batchCalls int
}

func (f *fakeAccessor) Info() core.Info {
	return core.Info{Scheme: "fake", Capability: f.capability}
}

func (f *fakeAccessor) Stat(ctx context.Context, path string) (core.Metadata, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.objects[path] {
		return core.Metadata{}, core.NewError(core.KindNotFound, "not found")
	}
	return core.Metadata{}, nil
}

func (f *fakeAccessor) Delete(ctx context.Context, path string, opts core.DeleteOptions) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.objects[path] {
		return core.NewError(core.KindNotFound, "not found")
	}
	delete(f.objects, path)
	f.deleted = append(f.deleted, path)
	return nil
}

func (f *fakeAccessor) Batch(ctx context.Context, ops []core.BatchOp) (core.BatchResult, error) {
	f.mu.Lock()
	f.batchCalls++
	f.mu.Unlock()

	results := make([]core.BatchItemResult, len(ops))
	for i, op := range ops {
		err := f.Delete(ctx, op.Path, core.DeleteOptions{})
		results[i] = core.BatchItemResult{Path: op.Path, Err: err}
	}
	return core.BatchResult{Results: results}, nil
}

func (f *fakeAccessor) List(ctx context.Context, path string, opts core.ListOptions) (core.ListMeta, core.Pager, error) {
	return core.ListMeta{}, &onceListPager{entries: f.entries[path]}, nil
}

func (f *fakeAccessor) Read(ctx context.Context, path string, opts core.ReadOptions) (core.ReadMeta, core.Reader, error) {
	return core.ReadMeta{}, nil, core.ErrUnsupported
}
func (f *fakeAccessor) Write(ctx context.Context, path string, opts core.WriteOptions) (core.WriteMeta, core.Writer, error) {
	return core.WriteMeta{}, nil, core.ErrUnsupported
}
func (f *fakeAccessor) Append(ctx context.Context, path string, opts core.WriteOptions) (core.WriteMeta, core.Appender, error) {
	return core.WriteMeta{}, nil, core.ErrUnsupported
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
func (f *fakeAccessor) Presign(ctx context.Context, path string, opts core.PresignOptions) (core.PresignResult, error) {
	return core.PresignResult{}, nil
}

var _ core.Accessor = (*fakeAccessor)(nil)

type onceListPager struct {
	entries []core.Entry
	done    bool
}

func (p *onceListPager) Next(ctx context.Context) ([]core.Entry, error) {
	if p.done {
		return nil, io.EOF
	}
	p.done = true
	return p.entries, io.EOF
}

func newFakeAccessor(nativeBatch bool, objectPaths ...string) *fakeAccessor {
	objects := make(map[string]bool, len(objectPaths))
	for _, p := range objectPaths {
		objects[p] = true
	}
	return &fakeAccessor{
		capability: core.Capability{Batch: nativeBatch, BatchMaxOperations: 2},
		objects:    objects,
		entries:    map[string][]core.Entry{},
	}
}

func TestRemove_ChunksByBatchLimit(t *testing.T) {
	fa := newFakeAccessor(true, "/a", "/b", "/c", "/d", "/e")
	results := Remove(context.Background(), fa, []string{"/a", "/b", "/c", "/d", "/e"})

	require.Len(t, results, 5)
	for _, r := range results {
		require.NoError(t, r.Err)
	}
	// limit 2 over 5 paths -> 3 batch calls (2, 2, 1)
	require.Equal(t, 3, fa.batchCalls)
	require.Empty(t, fa.objects)
}

func TestRemove_FallbackWithoutNativeBatch(t *testing.T) {
	fa := newFakeAccessor(false, "/a", "/b", "/c")
	results := Remove(context.Background(), fa, []string{"/a", "/b", "/c"})

	require.Len(t, results, 3)
	for _, r := range results {
		require.NoError(t, r.Err)
	}
	require.Equal(t, 0, fa.batchCalls)
	require.Empty(t, fa.objects)
}

func TestRemove_PerItemErrorDoesNotShortCircuit(t *testing.T) {
	fa := newFakeAccessor(false, "/a", "/c") // "/b" doesn't exist
	results := Remove(context.Background(), fa, []string{"/a", "/b", "/c"})

	require.Len(t, results, 3)
	byPath := map[string]error{}
	for _, r := range results {
		byPath[r.Path] = r.Err
	}
	require.NoError(t, byPath["/a"])
	require.Equal(t, core.KindNotFound, core.KindOf(byPath["/b"]))
	require.NoError(t, byPath["/c"])
}

func TestRemoveAll_MissingObjectIsSuccess(t *testing.T) {
	fa := newFakeAccessor(true)
	require.NoError(t, RemoveAll(context.Background(), fa, "/missing"))
}

func TestRemoveAll_SingleFile(t *testing.T) {
	fa := newFakeAccessor(true, "/a")
	require.NoError(t, RemoveAll(context.Background(), fa, "/a"))
	require.False(t, fa.objects["/a"])
}

func TestRemoveAll_DirectoryRecurses(t *testing.T) {
	fa := newFakeAccessor(true, "dir/a", "dir/b")
	fa.objects["dir/"] = true
	fa.entries["dir/"] = []core.Entry{
		core.NewFileEntry("dir/a", nil),
		core.NewFileEntry("dir/b", nil),
	}

	require.NoError(t, RemoveAll(context.Background(), fa, "dir/"))
	require.False(t, fa.objects["dir/a"])
	require.False(t, fa.objects["dir/b"])
	require.False(t, fa.objects["dir/"])
}
