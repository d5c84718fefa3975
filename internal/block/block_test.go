package block

import (
	"encoding/binary"
	"testing"

	"github.com/hupe1980/filltest/internal/mem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		b, err := New(4096)
		require.NoError(t, err)
		assert.Len(t, b, 4096)
		assert.Equal(t, 512, b.Units())
		assert.True(t, mem.IsAligned(b, mem.PageAlignment))
	})

	t.Run("not a multiple of unit", func(t *testing.T) {
		_, err := New(12)
		assert.Error(t, err)
	})

	t.Run("zero", func(t *testing.T) {
		_, err := New(0)
		assert.Error(t, err)
	})
}

func TestUnitAccess(t *testing.T) {
	b, err := New(32)
	require.NoError(t, err)

	b.SetUnitAt(2, 0x0102030405060708)
	assert.Equal(t, uint64(0x0102030405060708), b.UnitAt(2))
	assert.Equal(t, uint64(0x0102030405060708), binary.NativeEndian.Uint64(b[16:24]))
	assert.Equal(t, uint64(0), b.UnitAt(1))

	assert.Panics(t, func() { b.UnitAt(4) })
}

func TestFillDrain(t *testing.T) {
	b, err := New(64)
	require.NoError(t, err)

	var x uint64
	b.Fill(func() uint64 { x++; return x })

	var got []uint64
	b.Drain(len(b), func(i int, u uint64) { got = append(got, u) })
	assert.Equal(t, []uint64{1, 2, 3, 4, 5, 6, 7, 8}, got)

	got = got[:0]
	b.Drain(20, func(i int, u uint64) { got = append(got, u) })
	assert.Equal(t, []uint64{1, 2}, got, "partial trailing unit is skipped")

	got = got[:0]
	b.Drain(1000, func(i int, u uint64) { got = append(got, u) })
	assert.Len(t, got, 8)
}
