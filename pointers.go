package localalloc

import (
	"reflect"
	"sync"
)

var pointerFree sync.Map // reflect.Type -> bool

// PointerFree reports whether values of T hold no Go pointers. Only such
// values may live in capability memory: the garbage collector does not scan
// it, so a pointer stored there does not keep its target alive.
func PointerFree[T any]() bool {
	return TypePointerFree(reflect.TypeFor[T]())
}

// TypePointerFree is PointerFree for a reflect.Type.
func TypePointerFree(t reflect.Type) bool {
	if ok, cached := pointerFree.Load(t); cached {
		return ok.(bool)
	}
	ok, _ := pointerFree.LoadOrStore(t, scanPointerFree(t))
	return ok.(bool)
}

// CheckPointerFree returns a *PointerError when T holds pointers.
func CheckPointerFree[T any]() error {
	t := reflect.TypeFor[T]()
	if !TypePointerFree(t) {
		return &PointerError{Type: t}
	}
	return nil
}

func mustBePointerFree[T any]() {
	if err := CheckPointerFree[T](); err != nil {
		panic(err)
	}
}

func scanPointerFree(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return true
	case reflect.Array:
		return t.Len() == 0 || scanPointerFree(t.Elem())
	case reflect.Struct:
		for i := range t.NumField() {
			if !scanPointerFree(t.Field(i).Type) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
