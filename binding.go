package arbor

import (
	"reflect"

	"go.uber.org/multierr"
)

// Kind is the construction strategy carried by a Binding.
type Kind uint8

const (
	// KindSelf constructs the provided type directly.
	KindSelf Kind = iota + 1

	// KindValue returns a fixed value, never reconstructed.
	KindValue

	// KindClass constructs a substitute type in place of the provided key.
	KindClass

	// KindFactory calls a function with the resolved arguments and the root object.
	KindFactory
)

// String returns the strategy name.
func (k Kind) String() string {
	switch k {
	case KindSelf:
		return "self"
	case KindValue:
		return "value"
	case KindClass:
		return "class"
	case KindFactory:
		return "factory"
	default:
		return "unknown"
	}
}

// Binding associates a key with exactly one construction strategy.
// Build bindings with Provide, UseValue, UseClass and UseFactory (or their
// generic forms) so Kind always matches the populated field.
type Binding struct {
	Provide Key
	Kind    Kind
	Value   any
	Class   reflect.Type
	Factory any
}

// Provide binds a type to itself: the type is constructed directly.
func Provide(t reflect.Type) Binding {
	return Binding{Provide: t, Kind: KindSelf}
}

// UseValue binds key to a precomputed value. Zero values such as nil, 0,
// "" or false are legal and still count as a present binding.
func UseValue(key Key, value any) Binding {
	return Binding{Provide: normalizeKey(key), Kind: KindValue, Value: value}
}

// UseClass binds key to a substitute type that is constructed instead.
func UseClass(key Key, class reflect.Type) Binding {
	return Binding{Provide: normalizeKey(key), Kind: KindClass, Class: class}
}

// UseFactory binds key to a function. The function receives the resolved
// constructor arguments of the requested type followed by the injector's
// root object, and returns the instance or (instance, error).
//
// Example:
//
//	arbor.UseFactory(arbor.TypeOf[Wheel](), func(root any) Wheel {
//	    return &AnyWheel{code: "custom"}
//	})
func UseFactory(key Key, factory any) Binding {
	return Binding{Provide: normalizeKey(key), Kind: KindFactory, Factory: factory}
}

// Self is the generic form of Provide.
func Self[T any]() Binding {
	return Provide(TypeOf[T]())
}

// Value is the generic form of UseValue keyed by T.
func Value[T any](value T) Binding {
	return UseValue(TypeOf[T](), value)
}

// Class binds T to the substitute S.
func Class[T, S any]() Binding {
	return UseClass(TypeOf[T](), TypeOf[S]())
}

// Factory is the generic form of UseFactory keyed by T.
func Factory[T any](factory any) Binding {
	return UseFactory(TypeOf[T](), factory)
}

// Validate checks that the binding is a well-formed variant.
func (b Binding) Validate() error {
	if !validKey(b.Provide) {
		return ErrIncorrectProvider(b.Provide, "key must be a reflect.Type, Name or *Token")
	}

	switch b.Kind {
	case KindSelf:
		if _, ok := b.Provide.(reflect.Type); !ok {
			return ErrIncorrectProvider(b.Provide, "self binding requires a type key")
		}
	case KindValue:
	case KindClass:
		if b.Class == nil {
			return ErrIncorrectProvider(b.Provide, "class binding without a substitute type")
		}
	case KindFactory:
		if b.Factory == nil || reflect.TypeOf(b.Factory).Kind() != reflect.Func {
			return ErrFactoryNotFunction(b.Provide, b.Factory)
		}
	default:
		return ErrIncorrectProvider(b.Provide, "unknown binding kind")
	}

	return nil
}

// ValidateBindings validates every binding and reports all problems at once.
func ValidateBindings(bindings ...Binding) error {
	var err error
	for _, b := range bindings {
		err = multierr.Append(err, b.Validate())
	}

	return err
}

// matches reports whether the binding provides key.
func (b Binding) matches(key Key) bool {
	return validKey(b.Provide) && b.Provide == key
}
