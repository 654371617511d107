package fixedvec

import (
	"iter"

	"github.com/pavanmanishd/localalloc"
)

// Drain removes the values at [lo, hi) from a vector. Values are taken from
// either end with Next and NextBack; Close drops whatever was not taken and
// closes the gap. The vector stays locked until Close runs, which happens
// automatically once the last value has been taken or an All loop ends.
//
//	d, err := v.Drain(2, 5)
//	if err != nil {
//		return err
//	}
//	defer d.Close()
type Drain[T any] struct {
	vec    *FixedVec[T]
	start  int // first removed index
	end    int // one past the last removed index
	front  int // next index Next yields
	back   int // one past the index NextBack yields
	tail   int // values after end
	closed bool
}

// Drain locks the vector and returns an iterator removing [lo, hi). It
// fails with a *localalloc.IndexError unless 0 <= lo <= hi <= Len().
func (v *FixedVec[T]) Drain(lo, hi int) (*Drain[T], error) {
	v.enter()
	n := len(v.items)
	if lo < 0 || lo > n {
		return nil, &localalloc.IndexError{Index: lo, Len: n}
	}
	if hi < lo || hi > n {
		return nil, &localalloc.IndexError{Index: hi, Len: n}
	}
	d := &Drain[T]{vec: v, start: lo, end: hi, front: lo, back: hi, tail: n - hi}
	// Until Close runs the vector only admits the values before lo.
	v.items = v.items[:lo]
	v.draining = true
	if lo == hi {
		d.Close()
	}
	return d, nil
}

// Next takes the next value from the front.
func (d *Drain[T]) Next() (T, bool) {
	if d.closed || d.front == d.back {
		var zero T
		return zero, false
	}
	x := localalloc.Take(&d.slots()[d.front])
	d.front++
	d.closeIfDone()
	return x, true
}

// NextBack takes the next value from the back.
func (d *Drain[T]) NextBack() (T, bool) {
	if d.closed || d.front == d.back {
		var zero T
		return zero, false
	}
	d.back--
	x := localalloc.Take(&d.slots()[d.back])
	d.closeIfDone()
	return x, true
}

// Len returns how many values are left to take.
func (d *Drain[T]) Len() int {
	if d.closed {
		return 0
	}
	return d.back - d.front
}

// Slice returns the values not taken yet. They may be modified in place
// before being taken. The slice is nil once the drain is closed.
func (d *Drain[T]) Slice() []T {
	if d.closed {
		return nil
	}
	return d.slots()[d.front:d.back:d.back]
}

// All returns an iterator taking the remaining values from the front. The
// drain is closed when the loop ends, including on break.
func (d *Drain[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		defer d.Close()
		for {
			x, ok := d.Next()
			if !ok || !yield(x) {
				return
			}
		}
	}
}

// Backward is like All but takes values from the back.
func (d *Drain[T]) Backward() iter.Seq[T] {
	return func(yield func(T) bool) {
		defer d.Close()
		for {
			x, ok := d.NextBack()
			if !ok || !yield(x) {
				return
			}
		}
	}
}

// Close drops the values not taken yet, moves the values after the removed
// range down to close the gap and unlocks the vector. Calling Close more than
// once is a no-op.
func (d *Drain[T]) Close() {
	if d.closed {
		return
	}
	d.closed = true
	rest := d.slots()[d.front:d.back]
	d.front = d.back
	// The gap is closed even if a Drop panics.
	defer d.closeGap()
	for i := range rest {
		localalloc.Drop(&rest[i])
	}
}

func (d *Drain[T]) closeIfDone() {
	if d.front == d.back {
		d.Close()
	}
}

func (d *Drain[T]) closeGap() {
	all := d.slots()
	if d.tail > 0 && d.end > d.start {
		copy(all[d.start:], all[d.end:d.end+d.tail])
	}
	newLen := d.start + d.tail
	clear(all[newLen : d.end+d.tail])
	d.vec.items = all[:newLen]
	d.vec.draining = false
}

// slots returns the vector's whole backing store.
func (d *Drain[T]) slots() []T {
	return d.vec.items[:cap(d.vec.items)]
}
