package complete

import (
	"context"

	"github.com/rclone/stratum/core"
)

// Layer builds the capability-completion accessor (spec §2, §9 "a layer
// takes an accessor and returns an accessor with enriched behavior").
// Construct one with New and install it with Layer(inner).
type Layer struct{}

// New returns the completion layer. It has no configuration: every
// adaptation decision is derived from the wrapped accessor's own
// capability record.
func New() Layer {
	return Layer{}
}

// Layer implements core.Layer.
func (Layer) Layer(inner core.Accessor) core.Accessor {
	return &accessor{inner: inner}
}

// accessor is the completed view of inner: its Info always reports full
// seek/stream/list capability, and read/write/append/list calls are routed
// through whichever adapter (if any) the inner capability record requires.
type accessor struct {
	inner core.Accessor
}

// Inner exposes the wrapped accessor for introspection (spec §4.1).
func (a *accessor) Inner() core.Accessor {
	return a.inner
}

// Info reports the completed capability set: seek, streaming, and both
// list delimiters always present, everything else forwarded from inner
// unchanged (spec §6 "an accessor whose capability record reports the
// completed capabilities regardless of the inner accessor").
func (a *accessor) Info() core.Info {
	info := a.inner.Info()
	capa := info.Capability
	capa.ReadCanSeek = true
	capa.ReadCanNext = true
	capa.List = capa.List || capa.ListWithoutDelimiter || capa.ListWithDelimiterSlash
	capa.ListWithoutDelimiter = true
	capa.ListWithDelimiterSlash = true
	info.Capability = capa
	return info
}

// Stat stamps the returned metadata as Complete: once the completion layer
// has answered, the façade can trust every field (spec §6).
func (a *accessor) Stat(ctx context.Context, path string) (core.Metadata, error) {
	md, err := a.inner.Stat(ctx, path)
	if err != nil {
		return core.Metadata{}, err
	}
	return md.WithBit(core.MetaComplete), nil
}

func (a *accessor) Read(ctx context.Context, path string, opts core.ReadOptions) (core.ReadMeta, core.Reader, error) {
	return completeReader(ctx, a.inner, path, opts)
}

// BlockingRead makes the completed accessor a core.BlockingAccessor whatever
// inner is; when inner does not implement core.BlockingAccessor it returns a
// KindUnsupported error.
func (a *accessor) BlockingRead(path string, opts core.ReadOptions) (core.ReadMeta, core.BlockingReader, error) {
	ba, ok := a.inner.(core.BlockingAccessor)
	if !ok {
		return core.ReadMeta{}, nil, core.NewError(core.KindUnsupported, "backend has no blocking read path").
			WithOperation(string(core.OpBlockingRead)).WithService(a.inner.Info().Scheme)
	}
	return completeBlockingReader(ba, path, opts)
}

func (a *accessor) Write(ctx context.Context, path string, opts core.WriteOptions) (core.WriteMeta, core.Writer, error) {
	wm, w, err := a.inner.Write(ctx, path, opts)
	if err != nil {
		return core.WriteMeta{}, nil, err
	}
	return wm, newCompleteWriter(a.inner.Info().Scheme, path, opts.ContentLength, w), nil
}

func (a *accessor) Append(ctx context.Context, path string, opts core.WriteOptions) (core.WriteMeta, core.Appender, error) {
	wm, w, err := a.inner.Append(ctx, path, opts)
	if err != nil {
		return core.WriteMeta{}, nil, err
	}
	return wm, newCompleteAppender(a.inner.Info().Scheme, w), nil
}

func (a *accessor) Delete(ctx context.Context, path string, opts core.DeleteOptions) error {
	return a.inner.Delete(ctx, path, opts)
}

func (a *accessor) List(ctx context.Context, path string, opts core.ListOptions) (core.ListMeta, core.Pager, error) {
	return completeList(ctx, a.inner, path, opts)
}

// CreateDir maps AlreadyExists to success: creating a directory that's
// already there is not a failure from the façade's point of view (spec §7).
func (a *accessor) CreateDir(ctx context.Context, path string, opts core.CreateDirOptions) error {
	err := a.inner.CreateDir(ctx, path, opts)
	if core.KindOf(err) == core.KindAlreadyExists {
		return nil
	}
	return err
}

func (a *accessor) Copy(ctx context.Context, from, to string, opts core.CopyOptions) error {
	return a.inner.Copy(ctx, from, to, opts)
}

func (a *accessor) Rename(ctx context.Context, from, to string, opts core.RenameOptions) error {
	return a.inner.Rename(ctx, from, to, opts)
}

func (a *accessor) Batch(ctx context.Context, ops []core.BatchOp) (core.BatchResult, error) {
	return a.inner.Batch(ctx, ops)
}

func (a *accessor) Presign(ctx context.Context, path string, opts core.PresignOptions) (core.PresignResult, error) {
	return a.inner.Presign(ctx, path, opts)
}

var (
	_ core.Accessor  = (*accessor)(nil)
	_ core.Unwrapper = (*accessor)(nil)
	_ core.Layer     = Layer{}
)
