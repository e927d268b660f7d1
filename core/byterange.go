package core

// ByteRange describes the window of an object a read should return. A nil
// field means "unbounded" in the direction it would otherwise constrain; see
// the table below (mirrors spec §3):
//
//	(Some(o), Some(s))  -> bytes [o, o+s)
//	(Some(o), None)     -> from o to end
//	(None, None)        -> whole object
//	(None, Some(s))     -> last s bytes (suffix)
type ByteRange struct {
	Offset *int64
	Size   *int64
}

// FullRange is the zero-value range: the whole object.
var FullRange = ByteRange{}

// NewRange builds an explicit (offset, size) range.
func NewRange(offset, size int64) ByteRange {
	return ByteRange{Offset: &offset, Size: &size}
}

// NewOffsetRange builds a (offset, None) range: from offset to end.
func NewOffsetRange(offset int64) ByteRange {
	return ByteRange{Offset: &offset}
}

// NewSuffixRange builds a (None, size) suffix range: the last size bytes.
func NewSuffixRange(size int64) ByteRange {
	return ByteRange{Size: &size}
}

// IsSuffix reports whether this is a (None, Some(size)) suffix range, the
// only shape that needs a stat call to resolve (spec §4.2, §8 property 2).
func (r ByteRange) IsSuffix() bool {
	return r.Offset == nil && r.Size != nil
}

// ResolveSuffix implements the suffix-range law from spec §8 property 2:
// for any total size T >= 0 and suffix size s >= 0, the resolved window is
// (max(0, T-s), min(s, T)).
func ResolveSuffix(totalSize, suffixSize int64) (offset, size int64) {
	if suffixSize >= totalSize {
		return 0, totalSize
	}
	return totalSize - suffixSize, suffixSize
}

// Resolve turns this range into an absolute (offset, size) window given the
// content length of the object it applies to, for the non-suffix cases.
// Callers must resolve IsSuffix() ranges via a stat call and ResolveSuffix
// instead, since a suffix range needs the total size up front.
func (r ByteRange) Resolve(contentLength int64) (offset, size int64) {
	switch {
	case r.Offset != nil:
		offset = *r.Offset
		if r.Size != nil {
			size = *r.Size
			return offset, size
		}
		return offset, contentLength - offset
	default: // (None, None)
		return 0, contentLength
	}
}
