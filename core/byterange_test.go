package core

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveSuffix(t *testing.T) {
	cases := []struct {
		total, suffix  int64
		wantO, wantLen int64
	}{
		{100, 30, 70, 30},
		{100, 100, 0, 100},
		{100, 150, 0, 100}, // suffix larger than total clamps to (0, T)
		{0, 30, 0, 0},
		{50, 0, 50, 0},
	}
	for _, c := range cases {
		gotO, gotLen := ResolveSuffix(c.total, c.suffix)
		require.Equal(t, c.wantO, gotO, "offset for T=%d s=%d", c.total, c.suffix)
		require.Equal(t, c.wantLen, gotLen, "size for T=%d s=%d", c.total, c.suffix)
	}
}

func TestByteRange_IsSuffix(t *testing.T) {
	require.True(t, NewSuffixRange(30).IsSuffix())
	require.False(t, FullRange.IsSuffix())
	require.False(t, NewOffsetRange(10).IsSuffix())
	require.False(t, NewRange(10, 20).IsSuffix())
}

func TestByteRange_Resolve(t *testing.T) {
	offset, size := NewRange(10, 20).Resolve(1000)
	require.EqualValues(t, 10, offset)
	require.EqualValues(t, 20, size)

	offset, size = NewOffsetRange(10).Resolve(100)
	require.EqualValues(t, 10, offset)
	require.EqualValues(t, 90, size)

	offset, size = FullRange.Resolve(100)
	require.EqualValues(t, 0, offset)
	require.EqualValues(t, 100, size)
}
