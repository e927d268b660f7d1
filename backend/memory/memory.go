// Package memory implements an in-memory core.Accessor, adapted from
// rclone's backend/memory: the same map-of-objects storage model and
// RWMutex discipline, rewritten against the stratum accessor contract
// instead of fs.Fs/fs.Object. Its capability profile deliberately offers
// nothing but blocking byte-slice reads and hierarchical listing, so when
// wrapped by the completion layer it takes the NeedBoth reader path and the
// flat-pager listing path.
package memory

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rclone/stratum/core"
)

// object is one stored item: content plus the metadata memory can supply.
type object struct {
	content     []byte
	etag        string
	contentType string
	modTime     time.Time
}

// Accessor is the in-memory backend. The zero value is not usable; use New.
type Accessor struct {
	mu      sync.RWMutex
	objects map[string]*object
	dirs    map[string]bool
}

// New returns an empty in-memory accessor.
func New() *Accessor {
	return &Accessor{
		objects: make(map[string]*object),
		dirs:    make(map[string]bool),
	}
}

func (a *Accessor) Info() core.Info {
	return core.Info{
		Scheme: "memory",
		Capability: core.Capability{
			Read:                   true,
			WriteCanMulti:          false,
			Append:                 true,
			List:                   true,
			ListWithDelimiterSlash: true,
			CreateDir:              true,
			Copy:                   true,
			Rename:                 true,
			Batch:                  true,
			BatchMaxOperations:     3,
		},
	}
}

func (a *Accessor) Stat(ctx context.Context, path string) (core.Metadata, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if strings.HasSuffix(path, "/") {
		if a.dirs[path] || a.hasChildrenLocked(path) {
			return core.Metadata{}, nil
		}
		return core.Metadata{}, notFound(path)
	}

	o, ok := a.objects[path]
	if !ok {
		return core.Metadata{}, notFound(path)
	}
	return core.Metadata{}.
		SetContentLength(int64(len(o.content))).
		SetETag(o.etag).
		SetContentType(o.contentType).
		SetLastModified(o.modTime), nil
}

func (a *Accessor) hasChildrenLocked(dir string) bool {
	for k := range a.objects {
		if strings.HasPrefix(k, dir) {
			return true
		}
	}
	for k := range a.dirs {
		if k != dir && strings.HasPrefix(k, dir) {
			return true
		}
	}
	return false
}

func (a *Accessor) Read(ctx context.Context, path string, opts core.ReadOptions) (core.ReadMeta, core.Reader, error) {
	a.mu.RLock()
	o, ok := a.objects[path]
	a.mu.RUnlock()
	if !ok {
		return core.ReadMeta{}, nil, notFound(path)
	}

	total := int64(len(o.content))
	var offset, size int64
	if opts.Range.IsSuffix() {
		offset, size = core.ResolveSuffix(total, *opts.Range.Size)
	} else {
		offset, size = opts.Range.Resolve(total)
	}
	if offset < 0 {
		offset = 0
	}
	end := offset + size
	if end > int64(len(o.content)) {
		end = int64(len(o.content))
	}
	if end < offset {
		end = offset
	}
	slice := o.content[offset:end]
	return core.ReadMeta{ContentLength: int64(len(slice))}, &blockingReader{data: slice}, nil
}

func (a *Accessor) Write(ctx context.Context, path string, opts core.WriteOptions) (core.WriteMeta, core.Writer, error) {
	return core.WriteMeta{}, &writer{accessor: a, path: path, contentType: opts.ContentType}, nil
}

func (a *Accessor) Append(ctx context.Context, path string, opts core.WriteOptions) (core.WriteMeta, core.Appender, error) {
	a.mu.RLock()
	existing := a.objects[path]
	a.mu.RUnlock()

	buf := &bytes.Buffer{}
	if existing != nil {
		buf.Write(existing.content)
	}
	return core.WriteMeta{}, &appender{accessor: a, path: path, buf: buf}, nil
}

func (a *Accessor) Delete(ctx context.Context, path string, opts core.DeleteOptions) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if strings.HasSuffix(path, "/") {
		if !a.dirs[path] {
			return notFound(path)
		}
		delete(a.dirs, path)
		return nil
	}
	if _, ok := a.objects[path]; !ok {
		return notFound(path)
	}
	delete(a.objects, path)
	return nil
}

// List implements the hierarchical (delimiter "/") mode only; flat listing
// is synthesized by the completion layer's flat pager.
func (a *Accessor) List(ctx context.Context, path string, opts core.ListOptions) (core.ListMeta, core.Pager, error) {
	if opts.Delimiter != "/" {
		return core.ListMeta{}, nil, core.NewError(core.KindUnsupported, "memory backend only lists with delimiter \"/\" natively").
			WithOperation(string(core.OpList)).WithService("memory")
	}

	a.mu.RLock()
	defer a.mu.RUnlock()

	seenDirs := map[string]bool{}
	var entries []core.Entry
	for k, o := range a.objects {
		if !strings.HasPrefix(k, path) {
			continue
		}
		rest := k[len(path):]
		if rest == "" {
			continue
		}
		if idx := strings.IndexByte(rest, '/'); idx >= 0 {
			dir := path + rest[:idx+1]
			if !seenDirs[dir] {
				seenDirs[dir] = true
				entries = append(entries, core.NewDirEntry(dir))
			}
			continue
		}
		entries = append(entries, core.NewFileEntry(k, objectMetadata(o)))
	}
	for d := range a.dirs {
		if d == path || !strings.HasPrefix(d, path) {
			continue
		}
		rest := d[len(path):]
		idx := strings.IndexByte(rest, '/')
		dir := path + rest[:idx+1]
		if !seenDirs[dir] {
			seenDirs[dir] = true
			entries = append(entries, core.NewDirEntry(dir))
		}
	}

	return core.ListMeta{}, &onceShotPager{entries: entries}, nil
}

func objectMetadata(o *object) *core.Metadata {
	md := core.Metadata{}.SetContentLength(int64(len(o.content))).SetETag(o.etag).SetLastModified(o.modTime)
	return &md
}

func (a *Accessor) CreateDir(ctx context.Context, path string, opts core.CreateDirOptions) error {
	if !strings.HasSuffix(path, "/") {
		path += "/"
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.dirs[path] {
		return core.NewError(core.KindAlreadyExists, "directory %q already exists", path).
			WithOperation(string(core.OpCreateDir)).WithService("memory")
	}
	a.dirs[path] = true
	return nil
}

func (a *Accessor) Copy(ctx context.Context, from, to string, opts core.CopyOptions) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	o, ok := a.objects[from]
	if !ok {
		return notFound(from)
	}
	cp := *o
	cp.content = append([]byte(nil), o.content...)
	a.objects[to] = &cp
	return nil
}

func (a *Accessor) Rename(ctx context.Context, from, to string, opts core.RenameOptions) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	o, ok := a.objects[from]
	if !ok {
		return notFound(from)
	}
	a.objects[to] = o
	delete(a.objects, from)
	return nil
}

func (a *Accessor) Batch(ctx context.Context, ops []core.BatchOp) (core.BatchResult, error) {
	results := make([]core.BatchItemResult, len(ops))
	for i, op := range ops {
		results[i] = core.BatchItemResult{Path: op.Path, Err: a.Delete(ctx, op.Path, core.DeleteOptions{})}
	}
	return core.BatchResult{Results: results}, nil
}

func (a *Accessor) Presign(ctx context.Context, path string, opts core.PresignOptions) (core.PresignResult, error) {
	return core.PresignResult{}, core.NewError(core.KindUnsupported, "memory backend does not support presigning").
		WithOperation(string(core.OpPresign)).WithService("memory")
}

func notFound(path string) error {
	return core.NewError(core.KindNotFound, "object %q not found", path).WithService("memory")
}

// commit stores content under path, stamping a fresh etag and mod time.
func (a *Accessor) commit(path string, content []byte, contentType string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.objects[path] = &object{
		content:     content,
		etag:        uuid.New().String(),
		contentType: contentType,
		modTime:     time.Now(),
	}
}

var _ core.Accessor = (*Accessor)(nil)
