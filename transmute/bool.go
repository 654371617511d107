package transmute

// BytesAreBool reports whether every byte of b is 0 or 1.
func BytesAreBool(b []byte) bool {
	for _, c := range b {
		if c > 1 {
			return false
		}
	}
	return true
}

// Bool views b as a slice of bool. Every byte is checked before g runs, so
// a bad byte is reported as ErrInvalidValue even when the count is also
// wrong.
func Bool(b []byte, g Guard) ([]bool, error) {
	if !BytesAreBool(b) {
		return nil, ErrInvalidValue
	}
	if err := g.Check(1, len(b)); err != nil {
		return nil, err
	}
	return view[bool](b, 1)
}

// BoolPermissive is Bool with the Permissive guard.
func BoolPermissive(b []byte) ([]bool, error) { return Bool(b, Permissive) }

// BoolPedantic is Bool with the Pedantic guard.
func BoolPedantic(b []byte) ([]bool, error) { return Bool(b, Pedantic) }
