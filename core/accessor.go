package core

import (
	"context"
	"time"
)

// Operation is the closed enum of primitives the accessor contract exposes,
// used as the metric/diagnostic label everywhere an operation needs naming
// (spec §6 "operation is a closed enum including both async and blocking
// variants of each primitive").
type Operation string

const (
	OpStat         Operation = "stat"
	OpRead         Operation = "read"
	OpBlockingRead Operation = "blocking_read"
	OpWrite        Operation = "write"
	OpAppend       Operation = "append"
	OpDelete       Operation = "delete"
	OpList         Operation = "list"
	OpCreateDir    Operation = "create_dir"
	OpCopy         Operation = "copy"
	OpRename       Operation = "rename"
	OpBatch        Operation = "batch"
	OpPresign      Operation = "presign"
)

// Info describes an accessor for introspection: its scheme tag (used as the
// metric label, spec §6) and its capability record.
type Info struct {
	Scheme     string
	Capability Capability
}

// ReadOptions carries the arguments to Read (spec §4.1).
type ReadOptions struct {
	Range           ByteRange
	IfMatch         string
	IfNoneMatch     string
	OverrideHeaders map[string]string
}

// ReadMeta carries at least the content length of the returned slice (spec §4.1).
type ReadMeta struct {
	ContentLength int64
}

// WriteOptions carries the arguments to Write/Append (spec §4.1).
type WriteOptions struct {
	ContentLength *int64
	ContentType   string
	CacheControl  string
	Append        bool
}

// WriteMeta carries response metadata from Write/Append.
type WriteMeta struct {
	ETag string
}

// DeleteOptions carries the arguments to Delete. Currently empty; kept as a
// distinct type so the accessor contract can grow per-call options without
// breaking the method signature.
type DeleteOptions struct{}

// ListOptions carries the arguments to List (spec §4.1).
type ListOptions struct {
	// Delimiter: only "" (flat) and "/" (hierarchical) are accepted by the
	// completion layer; anything else is KindUnsupported (spec §4.3).
	Delimiter  string
	Limit      *int
	StartAfter string
}

// ListMeta carries response metadata from List. Empty today; kept symmetric
// with the other *Meta types.
type ListMeta struct{}

// CreateDirOptions, CopyOptions, RenameOptions carry no fields today; kept as
// distinct types for the same forward-compatibility reason as DeleteOptions.
type CreateDirOptions struct{}
type CopyOptions struct{}
type RenameOptions struct{}

// BatchOp is one element of a Batch call: a path and the delete it should
// receive. The core only supports batched delete (spec §5 "the façade groups
// remove operations into chunks").
type BatchOp struct {
	Path string
}

// BatchItemResult is the outcome of one BatchOp within a Batch call.
type BatchItemResult struct {
	Path string
	Err  error
}

// BatchResult is the response from Batch: one result per input item, in
// input order, with no short-circuiting on a per-item failure (spec §5,
// resolved Open Question in DESIGN.md).
type BatchResult struct {
	Results []BatchItemResult
}

// PresignOptions carries the arguments to Presign: which operation the
// signed URL is for, and how long it should remain valid (spec §4.1,
// supplemented from operator.rs's presign_stat/presign_read/presign_write).
type PresignOptions struct {
	Operation Operation
	Expire    time.Duration
}

// PresignResult is the backend's response, propagated verbatim (spec §7
// "Presigning propagates the backend's response verbatim").
type PresignResult struct {
	URL     string
	Method  string
	Headers map[string]string
}

// Accessor is the polymorphic value every backend and every layer
// implements (spec §4.1). A layer takes an Accessor and returns an Accessor
// with enriched behavior; layers that wrap another accessor should also
// implement Inner so callers can unwrap for introspection (spec §4.1
// "the wrapper's inner() must surface the wrapped accessor").
type Accessor interface {
	Info() Info

	Stat(ctx context.Context, path string) (Metadata, error)
	Read(ctx context.Context, path string, opts ReadOptions) (ReadMeta, Reader, error)
	Write(ctx context.Context, path string, opts WriteOptions) (WriteMeta, Writer, error)
	Append(ctx context.Context, path string, opts WriteOptions) (WriteMeta, Appender, error)
	Delete(ctx context.Context, path string, opts DeleteOptions) error
	List(ctx context.Context, path string, opts ListOptions) (ListMeta, Pager, error)
	CreateDir(ctx context.Context, path string, opts CreateDirOptions) error
	Copy(ctx context.Context, from, to string, opts CopyOptions) error
	Rename(ctx context.Context, from, to string, opts RenameOptions) error
	Batch(ctx context.Context, ops []BatchOp) (BatchResult, error)
	Presign(ctx context.Context, path string, opts PresignOptions) (PresignResult, error)
}

// BlockingReader is the reader shape the blocking read variant returns: a
// plain seekable reader with no Next and, critically, no stored context to
// re-enter the backend with. That absence is what makes the blocking
// variant unable to simulate seek over a non-seekable backend (spec §4.2
// "simulating seek synchronously would require starting a second blocking
// call from within a reader method, which is prohibited") — in Go terms, a
// BlockingReader is constructed without a context to issue that second call
// with, by design, so the constraint holds without needing Rust's
// async-executor re-entrancy argument.
type BlockingReader interface {
	Read(p []byte) (int, error)
	Seek(offset int64, whence int) (int64, error)
}

// BlockingAccessor is implemented by backends (and the completion layer)
// that expose a synchronous read path alongside the context-carrying one.
type BlockingAccessor interface {
	Accessor
	BlockingRead(path string, opts ReadOptions) (ReadMeta, BlockingReader, error)
}

// Layer accepts an accessor and returns an accessor with additional
// behavior (spec §2, §9 "A layer takes an accessor and returns an accessor
// with enriched behavior").
type Layer interface {
	Layer(inner Accessor) Accessor
}

// Unwrapper is implemented by layered accessors so callers can introspect
// through the stack (spec §4.1).
type Unwrapper interface {
	Inner() Accessor
}

// Unwrap walks through every Unwrapper in the chain and returns the
// innermost accessor, the one a capability test would want to inspect
// directly.
func Unwrap(a Accessor) Accessor {
	for {
		u, ok := a.(Unwrapper)
		if !ok {
			return a
		}
		a = u.Inner()
	}
}
