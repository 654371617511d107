package localalloc

// Dropper is implemented by values that release something when the container
// owning them destroys them. Drop is called exactly once per value.
type Dropper interface {
	Drop()
}

// Drop destroys the value at p: it calls Drop when *T implements Dropper and
// then zeroes the slot. The slot must be treated as uninitialized afterwards.
func Drop[T any](p *T) {
	if d, ok := any(p).(Dropper); ok {
		d.Drop()
	}
	var zero T
	*p = zero
}

// Take moves the value out of p and leaves the slot zeroed, without calling
// Drop. Ownership passes to the caller.
func Take[T any](p *T) T {
	v := *p
	var zero T
	*p = zero
	return v
}
