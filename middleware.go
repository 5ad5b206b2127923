package arbor

import "reflect"

// Middleware provides hooks around the construction of each type.
// parent is the type whose constructor needs t, nil at the top level.
// Cache hits are not reported.
type Middleware interface {
	// BeforeInstantiate is called before t's dependencies are resolved.
	// Return error to abort resolution.
	BeforeInstantiate(parent, t reflect.Type) error

	// AfterInstantiate is called after t was constructed or failed.
	// Returning an error replaces the construction result.
	AfterInstantiate(parent, t reflect.Type, instance any, err error) error
}

// middlewareChain manages multiple middleware.
type middlewareChain struct {
	middleware []Middleware
}

// newMiddlewareChain creates a new middleware chain.
func newMiddlewareChain() *middlewareChain {
	return &middlewareChain{
		middleware: make([]Middleware, 0),
	}
}

// add appends middleware to the chain.
func (m *middlewareChain) add(middleware Middleware) {
	m.middleware = append(m.middleware, middleware)
}

// beforeInstantiate calls BeforeInstantiate on all middleware.
func (m *middlewareChain) beforeInstantiate(parent, t reflect.Type) error {
	for _, mw := range m.middleware {
		if err := mw.BeforeInstantiate(parent, t); err != nil {
			return err
		}
	}
	return nil
}

// afterInstantiate calls AfterInstantiate on all middleware.
func (m *middlewareChain) afterInstantiate(parent, t reflect.Type, instance any, err error) error {
	for _, mw := range m.middleware {
		if mwErr := mw.AfterInstantiate(parent, t, instance, err); mwErr != nil {
			return mwErr
		}
	}
	return nil
}

// FuncMiddleware wraps functions as Middleware.
type FuncMiddleware struct {
	BeforeInstantiateFunc func(parent, t reflect.Type) error
	AfterInstantiateFunc  func(parent, t reflect.Type, instance any, err error) error
}

// BeforeInstantiate implements Middleware.
func (f *FuncMiddleware) BeforeInstantiate(parent, t reflect.Type) error {
	if f.BeforeInstantiateFunc != nil {
		return f.BeforeInstantiateFunc(parent, t)
	}
	return nil
}

// AfterInstantiate implements Middleware.
func (f *FuncMiddleware) AfterInstantiate(parent, t reflect.Type, instance any, err error) error {
	if f.AfterInstantiateFunc != nil {
		return f.AfterInstantiateFunc(parent, t, instance, err)
	}
	return nil
}
