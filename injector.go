package arbor

import (
	"fmt"
	"reflect"

	logger "github.com/xraph/go-utils/log"
)

// Injector builds object graphs over a chain of scopes.
//
// Every constructed type gets its own child scope seeded with the type's
// local providers. Instances are cached at the nearest scope where their
// configuration changed, so two requests for the same type share an
// instance unless a binding it depends on was redeclared in between.
//
// An Injector is not safe for concurrent construction; callers serialize
// Instantiate calls. Factories may call back into the injector.
type Injector struct {
	root       any
	scope      *Scope
	metadata   Metadata
	strict     bool
	debug      bool
	log        logger.Logger
	middleware *middlewareChain
	registry   *Registry
}

// newInjector creates an injector without registering it.
func newInjector(root any, bindings []Binding, opts ...Option) *Injector {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	return &Injector{
		root:       root,
		scope:      NewScope(nil, bindings...),
		metadata:   o.metadata,
		strict:     o.strictProviders,
		debug:      o.debug,
		log:        o.newLogger(),
		middleware: newMiddlewareChain(),
	}
}

// Root returns the root object the injector is bound to.
func (inj *Injector) Root() any {
	return inj.root
}

// RootScope returns the scope that lives as long as the injector.
func (inj *Injector) RootScope() *Scope {
	return inj.scope
}

// Config returns the effective settings.
func (inj *Injector) Config() Config {
	strict, debug := inj.strict, inj.debug

	return Config{StrictProviders: &strict, Debug: &debug}
}

// Use adds middleware to the injector.
// Middleware is called in the order they are added.
func (inj *Injector) Use(middleware Middleware) {
	inj.middleware.add(middleware)
}

// Close removes the injector from the registry it was created in.
func (inj *Injector) Close() {
	if inj.registry != nil {
		inj.registry.remove(inj.root, inj)
	}
}

// Get returns an instance cached on the root scope. It never constructs.
func (inj *Injector) Get(t reflect.Type) (any, bool) {
	return inj.scope.Instance(t)
}

// Instantiate builds t and its dependencies under the root scope.
func (inj *Injector) Instantiate(t reflect.Type) (any, error) {
	return inj.InstantiateIn(t, nil)
}

// InstantiateIn builds t with parent as the enclosing scope; nil means the
// root scope. If any step fails, every instance cached during this call
// is discarded again and the error is returned unchanged.
func (inj *Injector) InstantiateIn(t reflect.Type, parent *Scope) (any, error) {
	if parent == nil {
		parent = inj.scope
	}

	res := &resolution{}

	instance, err := inj.instantiate(res, t, parent, nil, nil)
	if err != nil {
		res.rollback()

		return nil, err
	}

	return instance, nil
}

// instantiate is the recursive resolution step. pre, when set, is the
// binding already selected by the caller for t.
func (inj *Injector) instantiate(res *resolution, t reflect.Type, parent *Scope, parentType reflect.Type, pre *Binding) (any, error) {
	if t == nil {
		return nil, ErrNotInjectable(nil)
	}

	var requested Key = t

	binding, hasBinding := Binding{}, false
	if pre != nil {
		binding, hasBinding = *pre, true
		requested = pre.Provide
	} else {
		binding, hasBinding = parent.Provider(t)
	}

	// A substitute's own metadata is authoritative from here on
	if hasBinding && binding.Kind == KindClass && binding.Class != nil {
		t = binding.Class
	}

	opts, ok := inj.metadata.IsInjectable(t)
	if !ok {
		return nil, ErrNotInjectable(t)
	}

	scope := NewScope(parent, opts.Providers...)
	overrides := inj.metadata.ParamOverrides(t)
	boundary := boundaryKeys(requested, t, overrides)

	if instance, found := scope.findCachedInstance(t, boundary); found {
		return instance, nil
	}

	if res.constructing(t) {
		return nil, ErrCircularDependency(res.cycle(t))
	}

	if err := inj.middleware.beforeInstantiate(parentType, t); err != nil {
		return nil, err
	}

	res.push(t)
	instance, err := inj.build(res, t, scope, overrides, binding, hasBinding, parentType, boundary)
	res.pop()

	if mwErr := inj.middleware.afterInstantiate(parentType, t, instance, err); mwErr != nil {
		return nil, mwErr
	}

	if err != nil {
		return nil, err
	}

	return instance, nil
}

// build resolves t's parameters, constructs it and caches it at its owning scope.
func (inj *Injector) build(
	res *resolution,
	t reflect.Type,
	scope *Scope,
	overrides map[int]Key,
	binding Binding,
	hasBinding bool,
	parentType reflect.Type,
	boundary []Key,
) (any, error) {
	paramTypes := inj.metadata.ParamTypes(t)
	params := make([]any, len(paramTypes))

	for i, paramType := range paramTypes {
		var (
			value any
			err   error
		)

		if key, ok := overrides[i]; ok {
			value, err = inj.resolveToken(res, key, scope, t)
		} else {
			value, err = inj.instantiate(res, paramType, scope, t, nil)
		}

		if err != nil {
			return nil, err
		}

		params[i] = value
	}

	instance, err := inj.makeInstance(t, binding, hasBinding, params, parentType)
	if err != nil {
		return nil, err
	}

	res.cache(scope.owningScope(t, boundary, params), t, instance)

	return instance, nil
}

// resolveToken resolves a parameter bound through an explicit key.
// A missing binding leaves the slot empty regardless of strict mode.
func (inj *Injector) resolveToken(res *resolution, key Key, scope *Scope, parentType reflect.Type) (any, error) {
	binding, ok := scope.Provider(key)
	if !ok {
		return nil, nil
	}

	switch binding.Kind {
	case KindClass:
		if binding.Class != nil {
			return inj.instantiate(res, binding.Class, scope, parentType, &binding)
		}
	case KindSelf:
		if t, isType := binding.Provide.(reflect.Type); isType {
			return inj.instantiate(res, t, scope, parentType, &binding)
		}
	}

	return inj.makeInstance(key, binding, true, nil, parentType)
}

// makeInstance selects the construction strategy for key.
func (inj *Injector) makeInstance(key Key, binding Binding, hasBinding bool, args []any, parentType reflect.Type) (any, error) {
	switch {
	case !hasBinding || (binding.Kind == KindSelf && binding.matches(key)):
		t, ok := key.(reflect.Type)
		if !ok {
			return nil, ErrIncorrectProvider(key, "only types can be constructed directly")
		}

		if !hasBinding && inj.strict {
			return nil, ErrProviderNotExists(t)
		}

		return inj.construct(t, args, parentType, KindSelf)

	case binding.Kind == KindValue:
		return binding.Value, nil

	case binding.Kind == KindClass:
		if binding.Class == nil {
			return nil, ErrIncorrectProvider(key, "class binding without a substitute type")
		}

		return inj.construct(binding.Class, args, parentType, KindClass)

	case binding.Kind == KindFactory:
		return inj.callFactory(key, binding, args, parentType)

	default:
		return nil, ErrIncorrectProvider(key, fmt.Sprintf("unsupported binding kind %s", binding.Kind))
	}
}

func (inj *Injector) construct(t reflect.Type, args []any, parentType reflect.Type, kind Kind) (any, error) {
	ctor, ok := inj.metadata.Constructor(t)
	if !ok || ctor == nil {
		return nil, ErrNotInjectable(t)
	}

	inj.trace(parentType, t, kind)

	return ctor(args)
}

// callFactory invokes a factory with args and the root object as last argument.
func (inj *Injector) callFactory(key Key, binding Binding, args []any, parentType reflect.Type) (any, error) {
	fn := reflect.ValueOf(binding.Factory)
	if !fn.IsValid() || fn.Kind() != reflect.Func || fn.IsNil() {
		return nil, ErrFactoryNotFunction(key, binding.Factory)
	}

	inj.trace(parentType, key, KindFactory)

	callArgs := make([]any, 0, len(args)+1)
	callArgs = append(callArgs, args...)
	callArgs = append(callArgs, inj.root)

	return callFunc("factory for "+keyName(key), fn, callArgs)
}

// trace logs "<parent> <-- <constructed>" when debug is enabled.
func (inj *Injector) trace(parentType reflect.Type, key Key, kind Kind) {
	if !inj.debug {
		return
	}

	parent := "root"
	if parentType != nil {
		parent = typeName(parentType)
	}

	name := keyName(key)

	inj.log.Debug(fmt.Sprintf("%s <-- %s", parent, name),
		logger.String("parent", parent),
		logger.String("type", name),
		logger.String("strategy", kind.String()),
	)
}

// boundaryKeys returns the keys, besides t itself, whose local binding makes
// a scope a configuration boundary for t.
func boundaryKeys(requested Key, t reflect.Type, overrides map[int]Key) []Key {
	keys := make([]Key, 0, len(overrides)+1)

	if requested != nil && requested != Key(t) {
		keys = append(keys, requested)
	}

	for _, key := range overrides {
		keys = append(keys, key)
	}

	return keys
}

// resolution tracks one top-level Instantiate call.
type resolution struct {
	stack   []reflect.Type
	journal []cacheEntry
}

type cacheEntry struct {
	scope    *Scope
	typ      reflect.Type
	instance any
}

func (r *resolution) push(t reflect.Type) {
	r.stack = append(r.stack, t)
}

func (r *resolution) pop() {
	r.stack = r.stack[:len(r.stack)-1]
}

func (r *resolution) constructing(t reflect.Type) bool {
	for _, inProgress := range r.stack {
		if inProgress == t {
			return true
		}
	}

	return false
}

// cycle returns the in-progress path from the first occurrence of t back to t.
func (r *resolution) cycle(t reflect.Type) []string {
	var path []string

	for i, inProgress := range r.stack {
		if inProgress == t {
			for _, p := range r.stack[i:] {
				path = append(path, typeName(p))
			}

			break
		}
	}

	return append(path, typeName(t))
}

func (r *resolution) cache(scope *Scope, t reflect.Type, instance any) {
	scope.AddInstance(t, instance)
	r.journal = append(r.journal, cacheEntry{scope: scope, typ: t, instance: instance})
}

// rollback removes everything cached during the call, newest first.
func (r *resolution) rollback() {
	for i := len(r.journal) - 1; i >= 0; i-- {
		entry := r.journal[i]
		entry.scope.removeInstance(entry.typ, entry.instance)
	}

	r.journal = nil
}
