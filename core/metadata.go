package core

import "time"

// MetaBit enumerates which fields of a Metadata record are authoritatively
// present. Callers must only trust a field whose bit is set (spec §3).
type MetaBit uint32

const (
	MetaContentLength MetaBit = 1 << iota
	MetaETag
	MetaContentType
	MetaLastModified
	// MetaComplete marks a Metadata record as carrying every field the
	// backend could possibly supply; the completion layer stamps every
	// Stat response with it (spec §6) because by the time a caller sees a
	// completed accessor's metadata, nothing further can be filled in.
	MetaComplete
)

// Has reports whether all of the given bits are set.
func (b MetaBit) Has(bits MetaBit) bool {
	return b&bits == bits
}

// Metadata is the optional-attribute bag produced by Stat and carried on
// list Entry values.
type Metadata struct {
	bit MetaBit

	contentLength int64
	etag          string
	contentType   string
	lastModified  time.Time
}

// Bit returns the set of fields this record authoritatively carries.
func (m Metadata) Bit() MetaBit { return m.bit }

// WithBit returns a copy of m with additional bits set. Used by the
// completion layer to OR in MetaComplete without touching field values.
func (m Metadata) WithBit(bits MetaBit) Metadata {
	m.bit |= bits
	return m
}

func (m Metadata) ContentLength() (int64, bool) {
	return m.contentLength, m.bit.Has(MetaContentLength)
}

func (m Metadata) ETag() (string, bool) {
	return m.etag, m.bit.Has(MetaETag)
}

func (m Metadata) ContentType() (string, bool) {
	return m.contentType, m.bit.Has(MetaContentType)
}

func (m Metadata) LastModified() (time.Time, bool) {
	return m.lastModified, m.bit.Has(MetaLastModified)
}

// SetContentLength returns a copy of m with ContentLength set and its bit raised.
func (m Metadata) SetContentLength(n int64) Metadata {
	m.contentLength = n
	m.bit |= MetaContentLength
	return m
}

// SetETag returns a copy of m with ETag set and its bit raised.
func (m Metadata) SetETag(etag string) Metadata {
	m.etag = etag
	m.bit |= MetaETag
	return m
}

// SetContentType returns a copy of m with ContentType set and its bit raised.
func (m Metadata) SetContentType(ct string) Metadata {
	m.contentType = ct
	m.bit |= MetaContentType
	return m
}

// SetLastModified returns a copy of m with LastModified set and its bit raised.
func (m Metadata) SetLastModified(t time.Time) Metadata {
	m.lastModified = t
	m.bit |= MetaLastModified
	return m
}
