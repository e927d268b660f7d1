// Package core defines the accessor contract that every storage backend and
// every layer in stratum implements: the capability descriptor, the byte
// range and entry/metadata records, the structured error type, and the
// Accessor/Layer interfaces themselves.
//
// Nothing in this package talks to a concrete backend. It is the vocabulary
// the completion and metrics layers (see stratum/layers/...) are written
// against.
package core

// Capability records which operations and sub-features a backend natively
// supports. The completion layer inspects these bits once per call to decide
// whether an adapter is needed (see stratum/layers/complete).
//
// A zero Capability is the most restrictive backend: no reads, no seeking,
// no streaming, no listing.
type Capability struct {
	// Read reports whether the backend implements Read at all.
	Read bool
	// ReadCanSeek reports whether the native reader returned from Read
	// supports random access (Seek).
	ReadCanSeek bool
	// ReadCanNext reports whether the native reader yields a sequence of
	// owned byte chunks via Next, i.e. is naturally streamable.
	ReadCanNext bool

	// WriteCanMulti reports whether the backend's writer accepts more than
	// one Write call per object; the completion core does not branch on it.
	WriteCanMulti bool

	// Append reports whether the backend implements Append.
	Append bool

	// List reports whether the backend supports enumeration at all.
	List bool
	// ListWithoutDelimiter reports whether the backend can produce a flat
	// (recursive) listing natively.
	ListWithoutDelimiter bool
	// ListWithDelimiterSlash reports whether the backend can produce a
	// hierarchical (one-level) listing natively.
	ListWithDelimiterSlash bool

	// CreateDir, Copy, Rename, Presign, Batch are opaque feature flags
	// consumed by the façade; the completion core does not branch on them.
	// Batch reports whether the backend can service Batch natively; when
	// false, internal/batch falls back to per-item delete with bounded
	// concurrency.
	CreateDir bool
	Copy      bool
	Rename    bool
	Presign   bool
	Batch     bool

	// BatchMaxOperations is the upper bound on the number of operations a
	// single Batch call may carry. Zero means the backend was not asked;
	// callers should treat zero as the documented default of 100.
	BatchMaxOperations int
}

// DefaultBatchMaxOperations is used by callers (stratum/internal/batch) when
// a backend reports BatchMaxOperations == 0.
const DefaultBatchMaxOperations = 100

// Limit returns BatchMaxOperations, or DefaultBatchMaxOperations if the
// backend didn't set one.
func (c Capability) Limit() int {
	if c.BatchMaxOperations <= 0 {
		return DefaultBatchMaxOperations
	}
	return c.BatchMaxOperations
}
