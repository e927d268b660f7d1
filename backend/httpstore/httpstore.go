// Package httpstore implements a read-only core.Accessor over plain HTTP
// GET/HEAD, adapted from rclone's backend/http Object.head/Object.Open. It
// advertises no native seek but native chunked body reads, so it exercises
// the completion layer's range-reader adapter path. Called directly, it
// passes a suffix range to the server as a standard Range header; behind the
// completion layer a suffix read is first resolved to an absolute window
// with a Stat, because this backend cannot seek.
package httpstore

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rclone/stratum/core"
	"github.com/rclone/stratum/core/configmap"
)

// Options holds httpstore's configuration, populated from a
// configmap.Mapper the way rclone's http backend Options does.
type Options struct {
	URL string
}

// Accessor fetches objects from a single HTTP origin, one path per request.
type Accessor struct {
	base   *url.URL
	client *http.Client
}

// New returns an Accessor rooted at the "url" key of m; client defaults to
// http.DefaultClient when nil.
func New(m configmap.Mapper, client *http.Client) (*Accessor, error) {
	opt := Options{}
	if v, ok := m.Get("url"); ok {
		opt.URL = v
	}

	u, err := url.Parse(opt.URL)
	if err != nil {
		return nil, core.NewError(core.KindUnexpected, "parse base URL %q: %v", opt.URL, err).WithService("httpstore")
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Accessor{base: u, client: client}, nil
}

func (a *Accessor) url(path string) string {
	return a.base.String() + strings.TrimPrefix(path, "/")
}

func (a *Accessor) Info() core.Info {
	return core.Info{
		Scheme: "httpstore",
		Capability: core.Capability{
			Read:        true,
			ReadCanNext: true,
		},
	}
}

func (a *Accessor) Stat(ctx context.Context, path string) (core.Metadata, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, a.url(path), nil)
	if err != nil {
		return core.Metadata{}, core.NewError(core.KindUnexpected, "build HEAD request: %v", err).WithService("httpstore")
	}
	res, err := a.client.Do(req)
	if err != nil {
		return core.Metadata{}, core.NewError(core.KindUnexpected, "HEAD %q: %v", path, err).WithService("httpstore")
	}
	defer res.Body.Close()
	if res.StatusCode == http.StatusNotFound {
		return core.Metadata{}, core.NewError(core.KindNotFound, "%q not found", path).WithService("httpstore")
	}
	if res.StatusCode != http.StatusOK {
		return core.Metadata{}, statusError(path, res)
	}
	return decodeMetadata(res), nil
}

func decodeMetadata(res *http.Response) core.Metadata {
	md := core.Metadata{}
	if cl, err := strconv.ParseInt(res.Header.Get("Content-Length"), 10, 64); err == nil {
		md = md.SetContentLength(cl)
	}
	if ct := res.Header.Get("Content-Type"); ct != "" {
		md = md.SetContentType(ct)
	}
	if et := res.Header.Get("ETag"); et != "" {
		md = md.SetETag(et)
	}
	if t, err := http.ParseTime(res.Header.Get("Last-Modified")); err == nil {
		md = md.SetLastModified(t)
	}
	return md
}

func statusError(path string, res *http.Response) error {
	return core.NewError(core.KindUnexpected, "unexpected status %s for %q", res.Status, path).WithService("httpstore")
}

func (a *Accessor) Read(ctx context.Context, path string, opts core.ReadOptions) (core.ReadMeta, core.Reader, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.url(path), nil)
	if err != nil {
		return core.ReadMeta{}, nil, core.NewError(core.KindUnexpected, "build GET request: %v", err).WithService("httpstore")
	}
	if h, ok := rangeHeader(opts.Range); ok {
		req.Header.Set("Range", h)
	}
	if opts.IfMatch != "" {
		req.Header.Set("If-Match", opts.IfMatch)
	}
	if opts.IfNoneMatch != "" {
		req.Header.Set("If-None-Match", opts.IfNoneMatch)
	}
	for k, v := range opts.OverrideHeaders {
		req.Header.Set(k, v)
	}

	res, err := a.client.Do(req)
	if err != nil {
		return core.ReadMeta{}, nil, core.NewError(core.KindUnexpected, "GET %q: %v", path, err).WithService("httpstore")
	}
	if res.StatusCode == http.StatusNotFound {
		res.Body.Close()
		return core.ReadMeta{}, nil, core.NewError(core.KindNotFound, "%q not found", path).WithService("httpstore")
	}
	if res.StatusCode != http.StatusOK && res.StatusCode != http.StatusPartialContent {
		res.Body.Close()
		return core.ReadMeta{}, nil, statusError(path, res)
	}

	cl, _ := decodeMetadata(res).ContentLength()
	return core.ReadMeta{ContentLength: cl}, &bodyReader{body: res.Body}, nil
}

// rangeHeader turns a ByteRange into an HTTP Range header value; the
// server, not the completion layer, resolves the suffix case directly
// (RFC 7233 §2.1's "bytes=-N" form).
func rangeHeader(r core.ByteRange) (string, bool) {
	switch {
	case r.Offset != nil && r.Size != nil:
		return fmt.Sprintf("bytes=%d-%d", *r.Offset, *r.Offset+*r.Size-1), true
	case r.Offset != nil:
		return fmt.Sprintf("bytes=%d-", *r.Offset), true
	case r.Size != nil:
		return fmt.Sprintf("bytes=-%d", *r.Size), true
	default:
		return "", false
	}
}

func (a *Accessor) Write(ctx context.Context, path string, opts core.WriteOptions) (core.WriteMeta, core.Writer, error) {
	return core.WriteMeta{}, nil, readOnlyErr(core.OpWrite, path)
}

func (a *Accessor) Append(ctx context.Context, path string, opts core.WriteOptions) (core.WriteMeta, core.Appender, error) {
	return core.WriteMeta{}, nil, readOnlyErr(core.OpAppend, path)
}

func (a *Accessor) Delete(ctx context.Context, path string, opts core.DeleteOptions) error {
	return readOnlyErr(core.OpDelete, path)
}

func (a *Accessor) List(ctx context.Context, path string, opts core.ListOptions) (core.ListMeta, core.Pager, error) {
	return core.ListMeta{}, nil, core.NewError(core.KindUnsupported, "httpstore does not support listing").
		WithOperation(string(core.OpList)).WithService("httpstore")
}

func (a *Accessor) CreateDir(ctx context.Context, path string, opts core.CreateDirOptions) error {
	return readOnlyErr(core.OpCreateDir, path)
}

func (a *Accessor) Copy(ctx context.Context, from, to string, opts core.CopyOptions) error {
	return readOnlyErr(core.OpCopy, from)
}

func (a *Accessor) Rename(ctx context.Context, from, to string, opts core.RenameOptions) error {
	return readOnlyErr(core.OpRename, from)
}

func (a *Accessor) Batch(ctx context.Context, ops []core.BatchOp) (core.BatchResult, error) {
	return core.BatchResult{}, readOnlyErr(core.OpBatch, "")
}

func (a *Accessor) Presign(ctx context.Context, path string, opts core.PresignOptions) (core.PresignResult, error) {
	return core.PresignResult{}, core.NewError(core.KindUnsupported, "httpstore does not support presigning").
		WithOperation(string(core.OpPresign)).WithService("httpstore")
}

func readOnlyErr(op core.Operation, path string) error {
	return core.NewError(core.KindUnsupported, "httpstore is read-only: %q", path).
		WithOperation(string(op)).WithService("httpstore")
}

var _ core.Accessor = (*Accessor)(nil)
