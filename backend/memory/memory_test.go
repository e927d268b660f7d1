package memory

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rclone/stratum/core"
)

func TestWriteThenRead(t *testing.T) {
	a := New()
	ctx := context.Background()

	_, w, err := a.Write(ctx, "/a", core.WriteOptions{})
	require.NoError(t, err)
	_, err = w.Write([]byte("hello world"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	md, err := a.Stat(ctx, "/a")
	require.NoError(t, err)
	length, ok := md.ContentLength()
	require.True(t, ok)
	require.EqualValues(t, 11, length)
	etag, ok := md.ETag()
	require.True(t, ok)
	require.NotEmpty(t, etag)

	_, r, err := a.Read(ctx, "/a", core.ReadOptions{})
	require.NoError(t, err)
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	require.Equal(t, "hello world", string(data))
}

func TestReadMissingIsNotFound(t *testing.T) {
	a := New()
	_, _, err := a.Read(context.Background(), "/missing", core.ReadOptions{})
	require.Equal(t, core.KindNotFound, core.KindOf(err))
}

func TestSuffixRange(t *testing.T) {
	a := New()
	ctx := context.Background()
	_, w, _ := a.Write(ctx, "/a", core.WriteOptions{})
	_, _ = w.Write([]byte("0123456789"))
	require.NoError(t, w.Close())

	_, r, err := a.Read(ctx, "/a", core.ReadOptions{Range: core.NewSuffixRange(3)})
	require.NoError(t, err)
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	require.Equal(t, "789", string(data))
}

func TestAppend(t *testing.T) {
	a := New()
	ctx := context.Background()
	_, w, _ := a.Write(ctx, "/a", core.WriteOptions{})
	_, _ = w.Write([]byte("abc"))
	require.NoError(t, w.Close())

	_, app, err := a.Append(ctx, "/a", core.WriteOptions{})
	require.NoError(t, err)
	require.NoError(t, app.Append([]byte("def")))
	require.NoError(t, app.Close())

	_, r, err := a.Read(ctx, "/a", core.ReadOptions{})
	require.NoError(t, err)
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	require.Equal(t, "abcdef", string(data))
}

func TestCreateDirTwiceIsAlreadyExists(t *testing.T) {
	a := New()
	ctx := context.Background()
	require.NoError(t, a.CreateDir(ctx, "dir/", core.CreateDirOptions{}))
	err := a.CreateDir(ctx, "dir/", core.CreateDirOptions{})
	require.Equal(t, core.KindAlreadyExists, core.KindOf(err))
}

func TestListHierarchical(t *testing.T) {
	a := New()
	ctx := context.Background()
	for _, p := range []string{"dir/a", "dir/b/c"} {
		_, w, _ := a.Write(ctx, p, core.WriteOptions{})
		_, _ = w.Write([]byte("x"))
		require.NoError(t, w.Close())
	}

	_, pager, err := a.List(ctx, "dir/", core.ListOptions{Delimiter: "/"})
	require.NoError(t, err)
	entries, err := pager.Next(ctx)
	require.Equal(t, io.EOF, err)

	var files, dirs []string
	for _, e := range entries {
		if e.Mode == core.ModeDir {
			dirs = append(dirs, e.Path)
		} else {
			files = append(files, e.Path)
		}
	}
	require.ElementsMatch(t, []string{"dir/a"}, files)
	require.ElementsMatch(t, []string{"dir/b/"}, dirs)
}

func TestListFlatUnsupportedNatively(t *testing.T) {
	a := New()
	_, _, err := a.List(context.Background(), "/", core.ListOptions{Delimiter: ""})
	require.Equal(t, core.KindUnsupported, core.KindOf(err))
}

func TestCopyAndRename(t *testing.T) {
	a := New()
	ctx := context.Background()
	_, w, _ := a.Write(ctx, "/a", core.WriteOptions{})
	_, _ = w.Write([]byte("content"))
	require.NoError(t, w.Close())

	require.NoError(t, a.Copy(ctx, "/a", "/b", core.CopyOptions{}))
	_, err := a.Stat(ctx, "/b")
	require.NoError(t, err)

	require.NoError(t, a.Rename(ctx, "/a", "/c", core.RenameOptions{}))
	_, err = a.Stat(ctx, "/a")
	require.Equal(t, core.KindNotFound, core.KindOf(err))
	_, err = a.Stat(ctx, "/c")
	require.NoError(t, err)
}

func TestBatchDelete(t *testing.T) {
	a := New()
	ctx := context.Background()
	for _, p := range []string{"/a", "/b"} {
		_, w, _ := a.Write(ctx, p, core.WriteOptions{})
		require.NoError(t, w.Close())
	}

	res, err := a.Batch(ctx, []core.BatchOp{{Path: "/a"}, {Path: "/missing"}})
	require.NoError(t, err)
	require.Len(t, res.Results, 2)
	require.NoError(t, res.Results[0].Err)
	require.Equal(t, core.KindNotFound, core.KindOf(res.Results[1].Err))
}

var _ core.Accessor = (*Accessor)(nil)
