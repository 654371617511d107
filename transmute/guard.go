package transmute

// Guard decides whether n bytes may be viewed as values of size bytes each.
// Guards are strategy values picked at the call site.
type Guard interface {
	Check(size, n int) error
}

// The guards provided by this package.
var (
	// Permissive accepts any input and drops a trailing partial element.
	Permissive Guard = PermissiveGuard{}
	// Pedantic wants at least one element and no partial element.
	Pedantic Guard = PedanticGuard{}
	// SingleValue wants exactly one element.
	SingleValue Guard = SingleValueGuard{}
	// SingleMany wants at least one element and drops a trailing partial one.
	SingleMany Guard = SingleManyGuard{}
	// AllOrNothing accepts empty input but no partial element.
	AllOrNothing Guard = AllOrNothingGuard{}
)

type PermissiveGuard struct{}

func (PermissiveGuard) Check(size, n int) error { return nil }

type PedanticGuard struct{}

func (PedanticGuard) Check(size, n int) error {
	if n < size {
		return &GuardError{Required: size, Actual: n, Reason: NotEnoughBytes}
	}
	if n%size != 0 {
		return &GuardError{Required: size, Actual: n, Reason: InexactByteCount}
	}
	return nil
}

type SingleValueGuard struct{}

func (SingleValueGuard) Check(size, n int) error {
	switch {
	case n < size:
		return &GuardError{Required: size, Actual: n, Reason: NotEnoughBytes}
	case n > size:
		return &GuardError{Required: size, Actual: n, Reason: TooManyBytes}
	}
	return nil
}

type SingleManyGuard struct{}

func (SingleManyGuard) Check(size, n int) error {
	if n < size {
		return &GuardError{Required: size, Actual: n, Reason: NotEnoughBytes}
	}
	return nil
}

type AllOrNothingGuard struct{}

func (AllOrNothingGuard) Check(size, n int) error {
	if n%size != 0 {
		return &GuardError{Required: size, Actual: n, Reason: InexactByteCount}
	}
	return nil
}
