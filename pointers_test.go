package localalloc

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flat struct {
	A int64
	B [4]uint8
	C struct{ D float64 }
	E bool
}

type linked struct {
	Val  int
	Next *linked
}

func TestPointerFree(t *testing.T) {
	assert.True(t, PointerFree[int]())
	assert.True(t, PointerFree[flat]())
	assert.True(t, PointerFree[[8]flat]())
	assert.True(t, PointerFree[struct{}]())
	assert.True(t, PointerFree[[0]*int]())

	assert.False(t, PointerFree[*int]())
	assert.False(t, PointerFree[string]())
	assert.False(t, PointerFree[[]byte]())
	assert.False(t, PointerFree[map[int]int]())
	assert.False(t, PointerFree[any]())
	assert.False(t, PointerFree[func()]())
	assert.False(t, PointerFree[chan int]())
	assert.False(t, PointerFree[linked]())
	assert.False(t, PointerFree[[2]struct{ S string }]())
}

func TestCheckPointerFree(t *testing.T) {
	assert.NoError(t, CheckPointerFree[flat]())

	err := CheckPointerFree[linked]()
	var pe *PointerError
	require.ErrorAs(t, err, &pe)
	assert.ErrorIs(t, err, ErrPointers)
	assert.Equal(t, reflect.TypeFor[linked](), pe.Type)
	assert.EqualError(t, err, "localalloc: type holds pointers: localalloc.linked")
}

func TestCastRefusesPointers(t *testing.T) {
	raw := UninitFromSlice(make([]uint64, 4)).Bytes()

	_, err := Cast[*int](raw)
	assert.ErrorIs(t, err, ErrPointers)
	_, err = CastSlice[string](raw)
	assert.ErrorIs(t, err, ErrPointers)
	_, err = AlignFor[linked](raw)
	assert.ErrorIs(t, err, ErrPointers)

	// The same type keeps its pointer bitmap, so it is allowed.
	nodes := UninitFromSlice(make([]linked, 2))
	same, err := CastSlice[linked](nodes)
	require.NoError(t, err)
	assert.Equal(t, 2, same.Capacity())
}
