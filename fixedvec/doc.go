// Package fixedvec provides a vector with a fixed capacity over a bounded
// region.
//
// A FixedVec never grows. Push on a full vector fails with a
// *CapacityError carrying the rejected value, so callers can decide to drop
// it, evict something or report upwards. The region comes either from a
// localalloc.LocalAlloc (WithCapacity) or from a borrowed
// localalloc.Uninit (New).
//
// Values are destroyed through localalloc.Drop: removing a value without
// handing it to the caller calls its Drop method when it has one and zeroes
// the slot.
//
// Drain removes a range of values. The vector is locked while a Drain is
// open and any other use panics with ErrDrainActive.
package fixedvec
