//go:build debug

// Package check holds precondition assertions that only exist in builds made
// with -tags debug. Release builds compile them down to nothing.
package check

import "fmt"

// Enabled reports whether assertions are compiled in.
const Enabled = true

// Assert panics with the formatted message when cond is false.
func Assert(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf("localalloc: debug assertion failed: "+format, args...))
	}
}
