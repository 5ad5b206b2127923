package arbor

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// Metadata answers the per-type questions the injector asks while
// building a graph. Catalog is the default implementation.
type Metadata interface {
	// IsInjectable returns the options of t, or false if t may not be constructed.
	IsInjectable(t reflect.Type) (InjectableOptions, bool)

	// ParamTypes returns the ordered constructor parameter types of t.
	ParamTypes(t reflect.Type) []reflect.Type

	// ParamOverrides returns the sparse position -> key map of parameters
	// that are resolved by key instead of by type.
	ParamOverrides(t reflect.Type) map[int]Key

	// Constructor returns the function that builds t from positional arguments.
	Constructor(t reflect.Type) (Constructor, bool)
}

// Constructor builds an instance from positional arguments. Empty slots are nil.
type Constructor func(args []any) (any, error)

// DefaultCatalog is used by injectors created without WithMetadata.
var DefaultCatalog = NewCatalog()

// catalogEntry holds a registered type
type catalogEntry struct {
	typ       reflect.Type
	options   InjectableOptions
	params    []reflect.Type
	overrides map[int]Key
	construct Constructor
}

// Catalog is a static registration table of injectable types.
// It is safe for concurrent registration and lookup.
type Catalog struct {
	entries map[reflect.Type]*catalogEntry
	order   []reflect.Type // Preserve registration order
	mu      sync.RWMutex
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		entries: make(map[reflect.Type]*catalogEntry),
	}
}

// Register adds a constructor function. The first result type is the key,
// the parameters are its dependencies in order. ctor must return T or (T, error).
//
// Example:
//
//	func NewCar(w Wheel) *Car { return &Car{wheel: w} }
//
//	catalog.Register(NewCar)
func (c *Catalog) Register(ctor any, opts ...InjectableOption) error {
	fn := reflect.ValueOf(ctor)
	if !fn.IsValid() || fn.Kind() != reflect.Func || fn.IsNil() {
		return ErrInvalidConstructor(ctor, "constructor must be a function")
	}

	fnType := fn.Type()
	if fnType.IsVariadic() {
		return ErrInvalidConstructor(ctor, "variadic constructors are not supported")
	}

	if err := checkResults(fnType); err != nil {
		return ErrInvalidConstructor(ctor, err.Error())
	}

	typ := fnType.Out(0)

	params := make([]reflect.Type, fnType.NumIn())
	for i := range params {
		params[i] = fnType.In(i)
	}

	construct := func(args []any) (any, error) {
		return callFunc(typeName(typ), fn, args)
	}

	return c.add(typ, params, construct, opts)
}

// RegisterStruct registers a struct type whose exported fields are its
// dependencies. sample is a typed nil pointer such as (*Car)(nil); the key
// is the pointer type. Field tags control resolution:
//
//	type Nail struct {
//	    Color string `inject:"NAIL_COLOR"` // resolved by Name("NAIL_COLOR")
//	    Cache *Cache `inject:"-"`          // left untouched
//	    Lamp  *Lamp                        // resolved by type
//	}
func (c *Catalog) RegisterStruct(sample any, opts ...InjectableOption) error {
	typ := reflect.TypeOf(sample)
	if typ == nil || typ.Kind() != reflect.Ptr || typ.Elem().Kind() != reflect.Struct {
		return ErrInvalidConstructor(sample, "struct registration expects a pointer to struct")
	}

	fields, err := expandStruct(typ.Elem())
	if err != nil {
		return ErrInvalidConstructor(sample, err.Error())
	}

	opts = opts[:len(opts):len(opts)]
	params := make([]reflect.Type, len(fields))

	for i, f := range fields {
		params[i] = f.typ
		if f.key != nil {
			opts = append(opts, WithParam(i, f.key))
		}
	}

	construct := func(args []any) (any, error) {
		v := reflect.New(typ.Elem())

		for i, f := range fields {
			if args[i] == nil {
				continue
			}

			arg := reflect.ValueOf(args[i])
			if !arg.Type().AssignableTo(f.typ) {
				return nil, ErrTypeMismatch(fmt.Sprintf("%s field %s", typeName(typ), f.name), f.typ, args[i])
			}

			v.Elem().Field(f.index).Set(arg)
		}

		return v.Interface(), nil
	}

	return c.add(typ, params, construct, opts)
}

// MustRegister registers ctor and panics on error - use only during startup.
func (c *Catalog) MustRegister(ctor any, opts ...InjectableOption) {
	if err := c.Register(ctor, opts...); err != nil {
		panic(fmt.Sprintf("failed to register constructor: %v", err))
	}
}

func (c *Catalog) add(typ reflect.Type, params []reflect.Type, construct Constructor, opts []InjectableOption) error {
	cfg := collectOptions(opts)
	if err := cfg.validate(len(params)); err != nil {
		return err
	}

	entry := &catalogEntry{
		typ: typ,
		options: InjectableOptions{
			Alias:     cfg.alias,
			Providers: cfg.providers,
		},
		params:    params,
		overrides: cfg.params,
		construct: construct,
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[typ]; exists {
		return ErrAlreadyRegistered(typ)
	}

	c.entries[typ] = entry
	c.order = append(c.order, typ)

	return nil
}

func (c *Catalog) get(t reflect.Type) (*catalogEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[t]

	return entry, ok
}

// Has checks if a type is registered.
func (c *Catalog) Has(t reflect.Type) bool {
	_, ok := c.get(t)

	return ok
}

// Types returns registered types in registration order.
func (c *Catalog) Types() []reflect.Type {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return append([]reflect.Type(nil), c.order...)
}

// IsInjectable implements Metadata.
func (c *Catalog) IsInjectable(t reflect.Type) (InjectableOptions, bool) {
	entry, ok := c.get(t)
	if !ok {
		return InjectableOptions{}, false
	}

	return entry.options, true
}

// ParamTypes implements Metadata.
func (c *Catalog) ParamTypes(t reflect.Type) []reflect.Type {
	if entry, ok := c.get(t); ok {
		return entry.params
	}

	return nil
}

// ParamOverrides implements Metadata. The returned map must not be modified.
func (c *Catalog) ParamOverrides(t reflect.Type) map[int]Key {
	if entry, ok := c.get(t); ok {
		return entry.overrides
	}

	return nil
}

// Constructor implements Metadata.
func (c *Catalog) Constructor(t reflect.Type) (Constructor, bool) {
	entry, ok := c.get(t)
	if !ok {
		return nil, false
	}

	return entry.construct, true
}

// Graph returns the static dependency graph of registered types.
// Parameters resolved through an override key are not edges. Distinct
// types that print the same are told apart with a "#n" suffix.
func (c *Catalog) Graph() *DependencyGraph {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := newNodeNames()
	for _, typ := range c.order {
		names.of(typ)
	}

	g := NewDependencyGraph()

	for _, typ := range c.order {
		entry := c.entries[typ]

		var deps []string
		for i, param := range entry.params {
			if _, overridden := entry.overrides[i]; overridden {
				continue
			}

			deps = append(deps, names.of(param))
		}

		g.AddNode(names.of(typ), deps)
	}

	return g
}

// nodeNames assigns each type a unique graph node name.
type nodeNames struct {
	byType map[reflect.Type]string
	taken  map[string]reflect.Type
}

func newNodeNames() *nodeNames {
	return &nodeNames{
		byType: make(map[reflect.Type]string),
		taken:  make(map[string]reflect.Type),
	}
}

func (n *nodeNames) of(t reflect.Type) string {
	if name, ok := n.byType[t]; ok {
		return name
	}

	name := typeName(t)
	for i := 2; ; i++ {
		if _, used := n.taken[name]; !used {
			break
		}

		name = fmt.Sprintf("%s#%d", typeName(t), i)
	}

	n.byType[t] = name
	n.taken[name] = t

	return name
}

// CheckCycles reports a cycle among registered types without constructing anything.
func (c *Catalog) CheckCycles() error {
	_, err := c.Graph().TopologicalSort()

	return err
}

// structField describes an injectable struct field
type structField struct {
	name  string
	typ   reflect.Type
	index int
	key   Key // From `inject:"..."` tag, nil for type-based lookup
}

// expandStruct lists the injectable fields of a struct type.
func expandStruct(t reflect.Type) ([]structField, error) {
	var fields []structField

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		// Skip unexported fields
		if !field.IsExported() {
			continue
		}

		tag, hasTag := field.Tag.Lookup("inject")
		tag = strings.TrimSpace(tag)

		if tag == "-" {
			continue
		}

		if hasTag && tag == "" {
			return nil, fmt.Errorf("field %s has an empty inject tag", field.Name)
		}

		f := structField{
			name:  field.Name,
			typ:   field.Type,
			index: i,
		}

		if tag != "" {
			f.key = Name(tag)
		}

		fields = append(fields, f)
	}

	return fields, nil
}
