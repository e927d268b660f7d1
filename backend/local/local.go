// Package local implements a core.Accessor over the local filesystem,
// trimmed from rclone's backend/local down to stat/read/write/append/delete/
// list/create_dir/copy/rename.
// It advertises a native seekable reader but no native chunk iteration
// (os.File supports Seek, rclone never chunk-iterates a local file), so it
// exercises the completion layer's streamable-adapter path. Its listing is
// flat-only (via filepath.WalkDir, mirroring rclone's own recursive
// ListR helper), forcing the completion layer to synthesize hierarchy views
// rather than forwarding them natively.
package local

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rclone/stratum/core"
	"github.com/rclone/stratum/core/configmap"
)

// Options holds local's configuration, populated from a configmap.Mapper
// the way rclone's backend Options structs are (fs/config/configstruct),
// trimmed to the one field this backend needs.
type Options struct {
	Root string
}

// Accessor roots every path at a single local directory, the way rclone's
// local Fs roots every remote at f.root.
type Accessor struct {
	root string
}

// New returns an Accessor rooted at the "root" key of m. root must already
// exist.
func New(m configmap.Mapper) (*Accessor, error) {
	opt := Options{}
	if v, ok := m.Get("root"); ok {
		opt.Root = v
	}

	info, err := os.Stat(opt.Root)
	if err != nil {
		return nil, core.NewError(core.KindNotFound, "root %q: %v", opt.Root, err).WithService("local")
	}
	if !info.IsDir() {
		return nil, core.NewError(core.KindNotADirectory, "root %q is not a directory", opt.Root).WithService("local")
	}
	return &Accessor{root: opt.Root}, nil
}

func (a *Accessor) localPath(path string) string {
	return filepath.Join(a.root, filepath.FromSlash(strings.TrimPrefix(path, "/")))
}

func (a *Accessor) Info() core.Info {
	return core.Info{
		Scheme: "local",
		Capability: core.Capability{
			Read:                 true,
			ReadCanSeek:          true,
			WriteCanMulti:        false,
			Append:               true,
			List:                 true,
			ListWithoutDelimiter: true,
			CreateDir:            true,
			Copy:                 true,
			Rename:               true,
		},
	}
}

func (a *Accessor) Stat(ctx context.Context, path string) (core.Metadata, error) {
	info, err := os.Stat(a.localPath(path))
	if err != nil {
		return core.Metadata{}, translateStatErr(path, err)
	}
	md := core.Metadata{}.SetLastModified(info.ModTime())
	if !info.IsDir() {
		md = md.SetContentLength(info.Size())
	}
	return md, nil
}

func translateStatErr(path string, err error) error {
	if os.IsNotExist(err) {
		return core.NewError(core.KindNotFound, "%q not found", path).WithService("local")
	}
	return core.NewError(core.KindUnexpected, "stat %q: %v", path, err).WithService("local")
}

func (a *Accessor) Read(ctx context.Context, path string, opts core.ReadOptions) (core.ReadMeta, core.Reader, error) {
	f, total, err := a.openForRead(path)
	if err != nil {
		return core.ReadMeta{}, nil, err
	}

	var offset, size int64
	if opts.Range.IsSuffix() {
		offset, size = core.ResolveSuffix(total, *opts.Range.Size)
	} else {
		offset, size = opts.Range.Resolve(total)
	}
	if offset > 0 {
		if _, err := f.Seek(offset, io.SeekStart); err != nil {
			f.Close()
			return core.ReadMeta{}, nil, core.NewError(core.KindUnexpected, "seek %q: %v", path, err).WithService("local")
		}
	}

	return core.ReadMeta{ContentLength: size}, newSeekableReader(f, offset, size), nil
}

func (a *Accessor) openForRead(path string) (*os.File, int64, error) {
	f, err := os.Open(a.localPath(path))
	if err != nil {
		return nil, 0, translateStatErr(path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, core.NewError(core.KindUnexpected, "stat %q: %v", path, err).WithService("local")
	}
	return f, info.Size(), nil
}

// BlockingRead wraps the *os.File in the same window-scoped seekableReader
// Read uses: it implements Read/Seek with no stored context, which is
// exactly the shape core.BlockingReader requires.
func (a *Accessor) BlockingRead(path string, opts core.ReadOptions) (core.ReadMeta, core.BlockingReader, error) {
	f, total, err := a.openForRead(path)
	if err != nil {
		return core.ReadMeta{}, nil, err
	}
	var offset, size int64
	if opts.Range.IsSuffix() {
		offset, size = core.ResolveSuffix(total, *opts.Range.Size)
	} else {
		offset, size = opts.Range.Resolve(total)
	}
	if offset > 0 {
		if _, err := f.Seek(offset, io.SeekStart); err != nil {
			f.Close()
			return core.ReadMeta{}, nil, core.NewError(core.KindUnexpected, "seek %q: %v", path, err).WithService("local")
		}
	}
	return core.ReadMeta{ContentLength: size}, newSeekableReader(f, offset, size), nil
}

func (a *Accessor) Write(ctx context.Context, path string, opts core.WriteOptions) (core.WriteMeta, core.Writer, error) {
	full := a.localPath(path)
	if err := os.MkdirAll(filepath.Dir(full), 0777); err != nil {
		return core.WriteMeta{}, nil, core.NewError(core.KindUnexpected, "mkdir for %q: %v", path, err).WithService("local")
	}
	f, err := os.Create(full)
	if err != nil {
		return core.WriteMeta{}, nil, core.NewError(core.KindUnexpected, "create %q: %v", path, err).WithService("local")
	}
	return core.WriteMeta{}, &fileWriter{f: f, full: full}, nil
}

func (a *Accessor) Append(ctx context.Context, path string, opts core.WriteOptions) (core.WriteMeta, core.Appender, error) {
	full := a.localPath(path)
	if err := os.MkdirAll(filepath.Dir(full), 0777); err != nil {
		return core.WriteMeta{}, nil, core.NewError(core.KindUnexpected, "mkdir for %q: %v", path, err).WithService("local")
	}
	f, err := os.OpenFile(full, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return core.WriteMeta{}, nil, core.NewError(core.KindUnexpected, "open %q: %v", path, err).WithService("local")
	}
	return core.WriteMeta{}, &fileAppender{f: f}, nil
}

func (a *Accessor) Delete(ctx context.Context, path string, opts core.DeleteOptions) error {
	err := os.Remove(a.localPath(path))
	if os.IsNotExist(err) {
		return core.NewError(core.KindNotFound, "%q not found", path).WithService("local")
	}
	if err != nil {
		return core.NewError(core.KindUnexpected, "remove %q: %v", path, err).WithService("local")
	}
	return nil
}

// List only ever returns a flat, recursive stream (delimiter ""); the
// completion layer synthesizes the hierarchical view from it.
func (a *Accessor) List(ctx context.Context, path string, opts core.ListOptions) (core.ListMeta, core.Pager, error) {
	if opts.Delimiter != "" {
		return core.ListMeta{}, nil, core.NewError(core.KindUnsupported, "local backend only lists flat (no delimiter)").
			WithOperation(string(core.OpList)).WithService("local")
	}

	root := a.localPath(path)
	var entries []core.Entry
	err := filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		entries = append(entries, core.NewFileEntry(path+filepath.ToSlash(rel), nil))
		return nil
	})
	if os.IsNotExist(err) {
		return core.ListMeta{}, nil, core.NewError(core.KindNotFound, "%q not found", path).WithService("local")
	}
	if err != nil {
		return core.ListMeta{}, nil, core.NewError(core.KindUnexpected, "list %q: %v", path, err).WithService("local")
	}
	return core.ListMeta{}, &onceShotPager{entries: entries}, nil
}

func (a *Accessor) CreateDir(ctx context.Context, path string, opts core.CreateDirOptions) error {
	full := a.localPath(path)
	if info, err := os.Stat(full); err == nil && info.IsDir() {
		return core.NewError(core.KindAlreadyExists, "directory %q already exists", path).
			WithOperation(string(core.OpCreateDir)).WithService("local")
	}
	if err := os.MkdirAll(full, 0777); err != nil {
		return core.NewError(core.KindUnexpected, "mkdir %q: %v", path, err).WithService("local")
	}
	return nil
}

func (a *Accessor) Copy(ctx context.Context, from, to string, opts core.CopyOptions) error {
	src, err := os.Open(a.localPath(from))
	if err != nil {
		return translateStatErr(from, err)
	}
	defer src.Close()

	dstPath := a.localPath(to)
	if err := os.MkdirAll(filepath.Dir(dstPath), 0777); err != nil {
		return core.NewError(core.KindUnexpected, "mkdir for %q: %v", to, err).WithService("local")
	}
	dst, err := os.Create(dstPath)
	if err != nil {
		return core.NewError(core.KindUnexpected, "create %q: %v", to, err).WithService("local")
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return core.NewError(core.KindUnexpected, "copy %q to %q: %v", from, to, err).WithService("local")
	}
	return nil
}

func (a *Accessor) Rename(ctx context.Context, from, to string, opts core.RenameOptions) error {
	dstPath := a.localPath(to)
	if err := os.MkdirAll(filepath.Dir(dstPath), 0777); err != nil {
		return core.NewError(core.KindUnexpected, "mkdir for %q: %v", to, err).WithService("local")
	}
	if err := os.Rename(a.localPath(from), dstPath); err != nil {
		if os.IsNotExist(err) {
			return core.NewError(core.KindNotFound, "%q not found", from).WithService("local")
		}
		return core.NewError(core.KindUnexpected, "rename %q to %q: %v", from, to, err).WithService("local")
	}
	return nil
}

func (a *Accessor) Batch(ctx context.Context, ops []core.BatchOp) (core.BatchResult, error) {
	return core.BatchResult{}, core.ErrUnsupported
}

func (a *Accessor) Presign(ctx context.Context, path string, opts core.PresignOptions) (core.PresignResult, error) {
	return core.PresignResult{}, core.NewError(core.KindUnsupported, "local backend does not support presigning").
		WithOperation(string(core.OpPresign)).WithService("local")
}

var (
	_ core.Accessor         = (*Accessor)(nil)
	_ core.BlockingAccessor = (*Accessor)(nil)
)
