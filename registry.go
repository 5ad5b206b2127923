package arbor

import (
	"reflect"
	"sync"
)

// globalRoot keys the injector created without a root object.
type globalRoot struct{}

// Registry maps root objects to their injector. A root object owns at
// most one injector. Tests should prefer their own NewRegistry over
// DefaultRegistry.
type Registry struct {
	injectors map[any]*Injector
	mu        sync.RWMutex
}

// DefaultRegistry is the process-wide registry used by Create and GetInjector.
var DefaultRegistry = NewRegistry()

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		injectors: make(map[any]*Injector),
	}
}

// Create registers a new injector for root in the default registry.
//
// Example:
//
//	type App struct{ injector *arbor.Injector }
//
//	app := &App{}
//	app.injector, err = arbor.Create(app, []arbor.Binding{
//	    arbor.Self[*Car](),
//	    arbor.Self[Wheel](),
//	})
func Create(root any, bindings []Binding, opts ...Option) (*Injector, error) {
	return DefaultRegistry.Create(root, bindings, opts...)
}

// GetInjector looks up the injector of root in the default registry.
func GetInjector(root any) (*Injector, bool) {
	return DefaultRegistry.Get(root)
}

// Create builds an injector whose root scope holds bindings and registers
// it under root. A nil root registers under an implicit global key.
func (r *Registry) Create(root any, bindings []Binding, opts ...Option) (*Injector, error) {
	key, err := registryKey(root)
	if err != nil {
		return nil, err
	}

	if err := ValidateBindings(bindings...); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.injectors[key]; exists {
		return nil, ErrAlreadyExists(root)
	}

	injector := newInjector(root, bindings, opts...)
	injector.registry = r
	r.injectors[key] = injector

	return injector, nil
}

// Get returns the injector registered for root.
func (r *Registry) Get(root any) (*Injector, bool) {
	key, err := registryKey(root)
	if err != nil {
		return nil, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	injector, ok := r.injectors[key]

	return injector, ok
}

// Remove unregisters the injector of root and reports whether one existed.
func (r *Registry) Remove(root any) bool {
	key, err := registryKey(root)
	if err != nil {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.injectors[key]
	delete(r.injectors, key)

	return ok
}

// Reset drops all registered injectors.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.injectors = make(map[any]*Injector)
}

// Len returns the number of registered injectors.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.injectors)
}

// remove unregisters root only while it still maps to injector.
func (r *Registry) remove(root any, injector *Injector) {
	key, err := registryKey(root)
	if err != nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.injectors[key] == injector {
		delete(r.injectors, key)
	}
}

func registryKey(root any) (any, error) {
	if root == nil {
		return globalRoot{}, nil
	}

	// A comparable type may still hold slices or maps in interface fields
	if !reflect.ValueOf(root).Comparable() {
		return nil, ErrInvalidRoot
	}

	return root, nil
}
