package arbor

import (
	"reflect"
)

// Scope is a node in the binding hierarchy. It holds bindings local to the
// subtree it roots and caches instances anchored at this level.
//
// The injector creates one short-lived scope per constructed type; only the
// root scope lives as long as the injector. Scopes are not safe for
// concurrent use.
type Scope struct {
	parent    *Scope
	bindings  []Binding
	instances map[reflect.Type]any
}

// NewScope creates a scope under parent (nil for a root) seeded with bindings.
func NewScope(parent *Scope, bindings ...Binding) *Scope {
	return &Scope{
		parent:    parent,
		bindings:  append([]Binding(nil), bindings...),
		instances: make(map[reflect.Type]any),
	}
}

// Parent returns the parent scope, nil for a root scope.
func (s *Scope) Parent() *Scope {
	return s.parent
}

// Bindings returns a copy of the bindings declared on this scope.
func (s *Scope) Bindings() []Binding {
	return append([]Binding(nil), s.bindings...)
}

// AddBindings appends local bindings.
func (s *Scope) AddBindings(bindings ...Binding) {
	s.bindings = append(s.bindings, bindings...)
}

// Provider searches the nearest binding for key from this scope to the root.
func (s *Scope) Provider(key Key) (Binding, bool) {
	key = normalizeKey(key)

	for sc := s; sc != nil; sc = sc.parent {
		if b, ok := sc.localProvider(key); ok {
			return b, true
		}
	}

	return Binding{}, false
}

// Instance returns an instance cached on this scope only.
func (s *Scope) Instance(t reflect.Type) (any, bool) {
	instance, ok := s.instances[t]

	return instance, ok
}

// AddInstance caches instance for t on this scope.
func (s *Scope) AddInstance(t reflect.Type, instance any) {
	s.instances[t] = instance
}

// removeInstance drops the cache entry for t if it still holds instance.
func (s *Scope) removeInstance(t reflect.Type, instance any) {
	cached, ok := s.instances[t]
	if ok && ((cached == nil && instance == nil) || sameInstance(cached, instance)) {
		delete(s.instances, t)
	}
}

func (s *Scope) localProvider(key Key) (Binding, bool) {
	for _, b := range s.bindings {
		if b.matches(key) {
			return b, true
		}
	}

	return Binding{}, false
}

// bindsAny reports whether this scope locally binds t or one of keys.
func (s *Scope) bindsAny(t reflect.Type, keys []Key) bool {
	if _, ok := s.localProvider(t); ok {
		return true
	}

	for _, key := range keys {
		if _, ok := s.localProvider(key); ok {
			return true
		}
	}

	return false
}

// holdsAny reports whether one of values is cached on this scope.
func (s *Scope) holdsAny(values []any) bool {
	for _, cached := range s.instances {
		for _, v := range values {
			if sameInstance(cached, v) {
				return true
			}
		}
	}

	return false
}

// findCachedInstance looks for a reusable instance of t. A scope that
// binds t or one of boundary locally ends the search: instances above it
// were built under a different configuration.
func (s *Scope) findCachedInstance(t reflect.Type, boundary []Key) (any, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if instance, ok := sc.instances[t]; ok {
			return instance, true
		}

		if sc.bindsAny(t, boundary) {
			return nil, false
		}
	}

	return nil, false
}

// owningScope returns the scope a new instance of t is cached at: the
// first scope from s upward that is the root, binds t or a boundary key,
// or already holds one of the instance's resolved parameters.
func (s *Scope) owningScope(t reflect.Type, boundary []Key, params []any) *Scope {
	sc := s
	for sc.parent != nil && !sc.bindsAny(t, boundary) && !sc.holdsAny(params) {
		sc = sc.parent
	}

	return sc
}

// sameInstance compares by identity. nil never matches. Maps, funcs and
// slices match only when they share the same backing data; other values
// whose dynamic contents are not comparable are compared deeply.
func sameInstance(a, b any) bool {
	if a == nil || b == nil {
		return false
	}

	if reflect.TypeOf(a) != reflect.TypeOf(b) {
		return false
	}

	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)

	switch va.Kind() {
	case reflect.Map, reflect.Func:
		return va.Pointer() == vb.Pointer()
	case reflect.Slice:
		return va.Pointer() == vb.Pointer() && va.Len() == vb.Len()
	}

	// Value.Comparable inspects dynamic contents such as interface fields
	if va.Comparable() && vb.Comparable() {
		return a == b
	}

	return reflect.DeepEqual(a, b)
}
