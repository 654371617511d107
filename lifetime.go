package localalloc

import (
	"math"
	"sync/atomic"
)

// ended is the generation a Lifetime is parked on once End is called. No
// AllocTime is ever stamped with it.
const ended = math.MaxUint64

// Lifetime is the scope every Allocation of a capability is tied to. The
// capability embeds one and stamps each Allocation with Time(). Renewing or
// ending the lifetime expires every tag stamped before it.
//
// The zero value is a live lifetime at generation 0.
type Lifetime struct {
	gen atomic.Uint64
}

// Time returns a tag for the current generation. It panics once the lifetime
// has ended.
func (l *Lifetime) Time() AllocTime {
	g := l.gen.Load()
	if g == ended {
		panic(ErrExpired)
	}
	return AllocTime{owner: l, gen: g}
}

// Renew starts a new generation. Tags from earlier generations stop being
// alive. Bulk resets of a region call this.
func (l *Lifetime) Renew() {
	for {
		g := l.gen.Load()
		if g == ended {
			return
		}
		next := g + 1
		if next == ended {
			next = 0
		}
		if l.gen.CompareAndSwap(g, next) {
			return
		}
	}
}

// End expires every tag for good.
func (l *Lifetime) End() {
	l.gen.Store(ended)
}

// Ended reports whether End has been called.
func (l *Lifetime) Ended() bool {
	return l.gen.Load() == ended
}

// AllocTime tags memory with the lifetime it was handed out for. The zero
// value belongs to no capability: it marks borrowed, garbage-collected Go
// memory and is always alive.
type AllocTime struct {
	owner *Lifetime
	gen   uint64
}

// Alive reports whether the tagged memory may still be dereferenced.
func (t AllocTime) Alive() bool {
	return t.owner == nil || t.owner.gen.Load() == t.gen
}

// Borrowed reports whether the tag belongs to no capability.
func (t AllocTime) Borrowed() bool {
	return t.owner == nil
}

// SameScope reports whether t and o were stamped by the same Lifetime.
func (t AllocTime) SameScope(o AllocTime) bool {
	return t.owner == o.owner
}

// Of reports whether t was stamped by l.
func (t AllocTime) Of(l *Lifetime) bool {
	return t.owner == l
}

func (t AllocTime) mustBeAlive() {
	if !t.Alive() {
		panic(ErrExpired)
	}
}
