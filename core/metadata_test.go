package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMetadata_BitsTrackPresence(t *testing.T) {
	var md Metadata
	_, ok := md.ContentLength()
	require.False(t, ok)

	md = md.SetContentLength(42).SetETag("abc")
	n, ok := md.ContentLength()
	require.True(t, ok)
	require.EqualValues(t, 42, n)

	etag, ok := md.ETag()
	require.True(t, ok)
	require.Equal(t, "abc", etag)

	_, ok = md.ContentType()
	require.False(t, ok)

	require.False(t, md.Bit().Has(MetaComplete))
	md = md.WithBit(MetaComplete)
	require.True(t, md.Bit().Has(MetaComplete))
}

func TestMetadata_LastModified(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	md := Metadata{}.SetLastModified(now)
	got, ok := md.LastModified()
	require.True(t, ok)
	require.True(t, now.Equal(got))
}
