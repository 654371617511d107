package localalloc

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLayout(t *testing.T) {
	tests := []struct {
		name    string
		size    uintptr
		align   uintptr
		wantErr bool
	}{
		{"byte", 1, 1, false},
		{"word", 8, 8, false},
		{"zero size", 0, 4, false},
		{"large align", 3, 4096, false},
		{"zero align", 8, 0, true},
		{"non power of two", 8, 3, true},
		{"non power of two even", 8, 12, true},
		{"rounding overflows", math.MaxInt - 2, 8, true},
		{"exactly max", math.MaxInt - 7, 8, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := NewLayout(tt.size, tt.align)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidLayout)
				var le *LayoutError
				require.ErrorAs(t, err, &le)
				assert.Equal(t, tt.size, le.Size)
				assert.Equal(t, tt.align, le.Align)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.size, l.Size())
			assert.Equal(t, tt.align, l.Align())
		})
	}
}

func TestLayoutOf(t *testing.T) {
	type pair struct {
		a uint8
		b uint32
	}

	l := LayoutOf[pair]()
	assert.Equal(t, uintptr(8), l.Size())
	assert.Equal(t, uintptr(4), l.Align())

	z := LayoutOf[struct{}]()
	assert.Zero(t, z.Size())
	_, err := z.NonZero()
	assert.ErrorIs(t, err, ErrZeroSize)
}

func TestArrayLayout(t *testing.T) {
	l, err := ArrayLayout[uint32](10)
	require.NoError(t, err)
	assert.Equal(t, uintptr(40), l.Size())
	assert.Equal(t, uintptr(4), l.Align())

	l, err = ArrayLayout[uint64](0)
	require.NoError(t, err)
	assert.Zero(t, l.Size())

	_, err = ArrayLayout[uint64](-1)
	assert.ErrorIs(t, err, ErrInvalidLayout)

	_, err = ArrayLayout[uint64](math.MaxInt)
	assert.ErrorIs(t, err, ErrInvalidLayout)

	_, err = ArrayLayout[[64]byte](math.MaxInt / 32)
	assert.ErrorIs(t, err, ErrInvalidLayout)
}

func TestLayoutPaddedSize(t *testing.T) {
	tests := []struct {
		size, align, want uintptr
	}{
		{0, 8, 0},
		{1, 8, 8},
		{8, 8, 8},
		{5, 4, 8},
		{17, 16, 32},
	}

	for _, tt := range tests {
		l, err := NewLayout(tt.size, tt.align)
		require.NoError(t, err)
		assert.Equal(t, tt.want, l.PaddedSize(), "PaddedSize(%d, %d)", tt.size, tt.align)
	}
}

func TestNewNonZeroLayout(t *testing.T) {
	l, err := NewNonZeroLayout(24, 8)
	require.NoError(t, err)
	assert.Equal(t, uintptr(24), l.Size())
	assert.Equal(t, uintptr(8), l.Align())
	assert.Equal(t, uintptr(24), l.Layout().Size())

	_, err = NewNonZeroLayout(0, 8)
	assert.ErrorIs(t, err, ErrZeroSize)

	_, err = NewNonZeroLayout(8, 6)
	assert.ErrorIs(t, err, ErrInvalidLayout)

	_, err = NonZeroLayoutOf[struct{}]()
	assert.ErrorIs(t, err, ErrZeroSize)

	l, err = NonZeroLayoutOf[uint16]()
	require.NoError(t, err)
	assert.Equal(t, uintptr(2), l.Size())
}
