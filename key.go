package arbor

import (
	"fmt"
	"reflect"
)

// Key identifies a dependency. It holds one of:
//
//   - reflect.Type: a constructible component, compared by type identity
//   - Name: a plain global name, two equal names are the same key
//   - *Token: a unique token, only the same pointer matches
//
// Plain strings are accepted wherever a Key is taken and are treated as Name.
type Key = any

// Name is a plain string token. Names are global, so unrelated packages
// choosing the same name will collide; use NewToken when that matters.
type Name string

// String returns the name itself.
func (n Name) String() string {
	return string(n)
}

// Token is a collision-safe dependency key. Its identity is the pointer
// returned by NewToken; the name is only used for diagnostics.
type Token struct {
	name string
}

// NewToken creates a new unique token.
//
// Example:
//
//	var DSN = arbor.NewToken("dsn")
//	injector, _ := arbor.Create(app, []arbor.Binding{
//	    arbor.UseValue(DSN, "postgres://localhost/app"),
//	})
func NewToken(name string) *Token {
	return &Token{name: name}
}

// Name returns the diagnostic name of the token.
func (t *Token) Name() string {
	return t.name
}

// String returns a human-readable representation of the token.
func (t *Token) String() string {
	return fmt.Sprintf("Token(%s)", t.name)
}

// TypeOf returns the reflect.Type used as key for T.
// Interface types are kept as interfaces.
//
//	arbor.TypeOf[*Car]()  // *Car
//	arbor.TypeOf[Wheel]() // Wheel interface
func TypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// normalizeKey turns plain strings into Name so both spellings match.
func normalizeKey(key Key) Key {
	if s, ok := key.(string); ok {
		return Name(s)
	}

	return key
}

// validKey reports whether key is one of the supported key kinds.
func validKey(key Key) bool {
	switch k := key.(type) {
	case reflect.Type:
		return k != nil
	case Name:
		return k != ""
	case *Token:
		return k != nil
	default:
		return false
	}
}

// keyName returns a readable name for diagnostics.
func keyName(key Key) string {
	switch k := key.(type) {
	case nil:
		return "<nil>"
	case reflect.Type:
		return typeName(k)
	case Name:
		return string(k)
	case *Token:
		if k == nil {
			return "<nil>"
		}

		return k.String()
	default:
		return fmt.Sprintf("%v", k)
	}
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}

	return t.String()
}
