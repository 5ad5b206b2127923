package arbor

import (
	"fmt"
)

// Instantiate builds T with type safety.
func Instantiate[T any](inj *Injector) (T, error) {
	var zero T

	instance, err := inj.Instantiate(TypeOf[T]())
	if err != nil {
		return zero, err
	}

	return cast[T](instance)
}

// InstantiateIn builds T under parent with type safety.
func InstantiateIn[T any](inj *Injector, parent *Scope) (T, error) {
	var zero T

	instance, err := inj.InstantiateIn(TypeOf[T](), parent)
	if err != nil {
		return zero, err
	}

	return cast[T](instance)
}

// MustInstantiate builds T or panics - use only during startup.
func MustInstantiate[T any](inj *Injector) T {
	instance, err := Instantiate[T](inj)
	if err != nil {
		panic(fmt.Sprintf("failed to instantiate %s: %v", typeName(TypeOf[T]()), err))
	}

	return instance
}

// Get returns the root-scope instance of T, if one was cached.
func Get[T any](inj *Injector) (T, bool) {
	var zero T

	instance, ok := inj.Get(TypeOf[T]())
	if !ok {
		return zero, false
	}

	typed, err := cast[T](instance)
	if err != nil {
		return zero, false
	}

	return typed, true
}

// Injectable registers ctor for T in catalog. The constructor's first
// result must be exactly T.
//
// Usage:
//
//	arbor.Injectable[*Finger](catalog, NewFinger,
//	    arbor.WithParam(0, "FINGER_OPT"),
//	)
func Injectable[T any](catalog *Catalog, ctor any, opts ...InjectableOption) error {
	want := TypeOf[T]()

	if got := resultType(ctor); got != want {
		return ErrInvalidConstructor(ctor, fmt.Sprintf("does not construct %s", typeName(want)))
	}

	return catalog.Register(ctor, opts...)
}

func cast[T any](instance any) (T, error) {
	var zero T

	if instance == nil {
		return zero, nil
	}

	typed, ok := instance.(T)
	if !ok {
		return zero, ErrTypeMismatch("instance", TypeOf[T](), instance)
	}

	return typed, nil
}
