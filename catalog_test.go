package arbor

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_Register(t *testing.T) {
	c := NewCatalog()

	err := c.Register(newFinger,
		WithAlias("finger"),
		WithParam(0, "FINGER_OPT"),
		WithProviders(UseValue("NAIL_OPT", &NailOpt{Color: "red"})),
	)
	require.NoError(t, err)

	fingerType := TypeOf[*Finger]()
	assert.True(t, c.Has(fingerType))

	opts, ok := c.IsInjectable(fingerType)
	require.True(t, ok)
	assert.Equal(t, "finger", opts.Alias)
	require.Len(t, opts.Providers, 1)
	assert.Equal(t, Name("NAIL_OPT"), opts.Providers[0].Provide)

	assert.Equal(t, []reflect.Type{TypeOf[*FingerOpt](), TypeOf[*Nail]()}, c.ParamTypes(fingerType))
	assert.Equal(t, map[int]Key{0: Name("FINGER_OPT")}, c.ParamOverrides(fingerType))

	ctor, ok := c.Constructor(fingerType)
	require.True(t, ok)

	instance, err := ctor([]any{&FingerOpt{Name: "ring"}, nil})
	require.NoError(t, err)
	assert.Equal(t, "ring", instance.(*Finger).opt.Name)
	assert.Nil(t, instance.(*Finger).nail)
}

func TestCatalog_UnknownType(t *testing.T) {
	c := NewCatalog()

	_, ok := c.IsInjectable(TypeOf[*Car]())
	assert.False(t, ok)
	assert.Nil(t, c.ParamTypes(TypeOf[*Car]()))
	assert.Nil(t, c.ParamOverrides(TypeOf[*Car]()))

	_, ok = c.Constructor(TypeOf[*Car]())
	assert.False(t, ok)
}

func TestCatalog_RegisterErrors(t *testing.T) {
	c := NewCatalog()

	tests := []struct {
		name string
		ctor any
		opts []InjectableOption
	}{
		{"not a function", "newCar", nil},
		{"nil", nil, nil},
		{"nil func", (func() *Car)(nil), nil},
		{"no results", func() {}, nil},
		{"only error", func() error { return nil }, nil},
		{"second not error", func() (*Car, int) { return nil, 0 }, nil},
		{"too many results", func() (*Car, *Car, error) { return nil, nil, nil }, nil},
		{"variadic", func(...Wheel) *Car { return nil }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := c.Register(tt.ctor, tt.opts...)
			assert.ErrorIs(t, err, ErrInvalidConstructorSentinel)
		})
	}

	assert.Empty(t, c.Types())
}

func TestCatalog_RegisterInvalidOptions(t *testing.T) {
	c := NewCatalog()

	err := c.Register(newCar, WithParam(1, "X"))
	assert.ErrorContains(t, err, "out of range")

	err = c.Register(newCar, WithParam(0, 42))
	assert.ErrorIs(t, err, ErrIncorrectProviderSentinel)

	err = c.Register(newCar, WithProviders(UseFactory("f", "nope")))
	assert.ErrorIs(t, err, ErrFactoryNotFunctionSentinel)

	assert.False(t, c.Has(TypeOf[*Car]()))
}

func TestCatalog_RegisterDuplicate(t *testing.T) {
	c := NewCatalog()
	require.NoError(t, c.Register(newCar))

	err := c.Register(func(w Wheel) (*Car, error) { return &Car{wheel: w}, nil })
	assert.ErrorIs(t, err, ErrAlreadyRegisteredSentinel)
	assert.Contains(t, err.Error(), "already registered")
}

func TestCatalog_ConstructorError(t *testing.T) {
	c := NewCatalog()
	require.NoError(t, c.Register(newBrokenPart))

	ctor, ok := c.Constructor(TypeOf[*brokenPart]())
	require.True(t, ok)

	_, err := ctor(nil)
	assert.ErrorIs(t, err, ErrConstructionFailedSentinel)
	assert.True(t, errors.Is(err, errBroken))
}

func TestCatalog_ConstructorArgumentMismatch(t *testing.T) {
	c := NewCatalog()
	require.NoError(t, c.Register(newCar))

	ctor, _ := c.Constructor(TypeOf[*Car]())

	_, err := ctor([]any{"wheel"})
	assert.ErrorIs(t, err, ErrTypeMismatchSentinel)

	_, err = ctor(nil)
	assert.ErrorIs(t, err, ErrTypeMismatchSentinel)
}

func TestCatalog_RegisterStruct(t *testing.T) {
	type lamp struct{ on bool }

	type desk struct {
		Lamp   *lamp
		Color  string `inject:"DESK_COLOR"`
		Cache  map[string]int `inject:"-"`
		hidden int
	}

	c := NewCatalog()
	require.NoError(t, c.RegisterStruct((*desk)(nil), WithAlias("desk")))

	deskType := TypeOf[*desk]()
	assert.Equal(t, []reflect.Type{TypeOf[*lamp](), TypeOf[string]()}, c.ParamTypes(deskType))
	assert.Equal(t, map[int]Key{1: Name("DESK_COLOR")}, c.ParamOverrides(deskType))

	opts, _ := c.IsInjectable(deskType)
	assert.Equal(t, "desk", opts.Alias)

	ctor, _ := c.Constructor(deskType)
	l := &lamp{on: true}

	instance, err := ctor([]any{l, "oak"})
	require.NoError(t, err)

	d := instance.(*desk)
	assert.Same(t, l, d.Lamp)
	assert.Equal(t, "oak", d.Color)
	assert.Nil(t, d.Cache)
	assert.Zero(t, d.hidden)

	_, err = ctor([]any{l, 42})
	assert.ErrorIs(t, err, ErrTypeMismatchSentinel)
}

func TestCatalog_RegisterStructDoesNotAliasOptions(t *testing.T) {
	type a struct {
		X string `inject:"X"`
	}

	type b struct {
		Y string `inject:"Y"`
	}

	opts := make([]InjectableOption, 1, 4)
	opts[0] = WithAlias("shared")

	c := NewCatalog()
	require.NoError(t, c.RegisterStruct((*a)(nil), opts...))
	require.NoError(t, c.RegisterStruct((*b)(nil), opts...))

	assert.Equal(t, map[int]Key{0: Name("X")}, c.ParamOverrides(TypeOf[*a]()))
	assert.Equal(t, map[int]Key{0: Name("Y")}, c.ParamOverrides(TypeOf[*b]()))
}

func TestCatalog_RegisterStructErrors(t *testing.T) {
	type emptyTag struct {
		Value string `inject:""`
	}

	c := NewCatalog()

	assert.ErrorIs(t, c.RegisterStruct(nil), ErrInvalidConstructorSentinel)
	assert.ErrorIs(t, c.RegisterStruct(sNail{}), ErrInvalidConstructorSentinel)
	assert.ErrorIs(t, c.RegisterStruct(new(int)), ErrInvalidConstructorSentinel)

	err := c.RegisterStruct((*emptyTag)(nil))
	assert.ErrorIs(t, err, ErrInvalidConstructorSentinel)
	assert.Contains(t, err.Error(), "empty inject tag")
}

func TestCatalog_MustRegister(t *testing.T) {
	c := NewCatalog()

	assert.NotPanics(t, func() { c.MustRegister(newCar) })
	assert.Panics(t, func() { c.MustRegister(newCar) })
}

func TestCatalog_TypesAndGraph(t *testing.T) {
	c := humanCatalog(t)

	assert.Equal(t, []reflect.Type{
		TypeOf[*Nail](),
		TypeOf[*Finger](),
		TypeOf[*Arm](),
		TypeOf[*Foot](),
		TypeOf[*Crutch](),
		TypeOf[*Body](),
	}, c.Types())

	g := c.Graph()
	assert.Empty(t, g.GetDependencies("*arbor.Nail"), "overridden params are not edges")
	assert.Equal(t, []string{"*arbor.Nail"}, g.GetDependencies("*arbor.Finger"))
	assert.Equal(t, []string{"*arbor.Arm", "*arbor.Foot", "*arbor.Crutch"}, g.GetDependencies("*arbor.Body"))

	order, err := g.TopologicalSort()
	require.NoError(t, err)
	assert.Equal(t, "*arbor.Body", order[len(order)-1])

	assert.NoError(t, c.CheckCycles())
}

func TestCatalog_CheckCycles(t *testing.T) {
	c := NewCatalog()
	require.NoError(t, c.RegisterAll(Ctor(newChicken), Ctor(newEgg)))

	err := c.CheckCycles()
	assert.ErrorIs(t, err, ErrCircularDependencySentinel)
}

func TestCatalog_RegisterAllStopsAtFirstError(t *testing.T) {
	c := NewCatalog()

	err := c.RegisterAll(Ctor(newCar), Ctor("bad"), Ctor(newWheel))
	assert.ErrorIs(t, err, ErrInvalidConstructorSentinel)

	assert.True(t, c.Has(TypeOf[*Car]()))
	assert.False(t, c.Has(TypeOf[Wheel]()))
}

func firstPart() reflect.Type {
	type part struct{ n int }
	return TypeOf[*part]()
}

func secondPart() reflect.Type {
	type part struct{ s string }
	return TypeOf[*part]()
}

// makeCtor builds a constructor func for out taking in as parameters.
func makeCtor(out reflect.Type, in ...reflect.Type) any {
	fnType := reflect.FuncOf(in, []reflect.Type{out}, false)

	return reflect.MakeFunc(fnType, func([]reflect.Value) []reflect.Value {
		return []reflect.Value{reflect.New(out.Elem())}
	}).Interface()
}

func TestCatalog_GraphSamePrintedName(t *testing.T) {
	first, second := firstPart(), secondPart()
	require.NotEqual(t, first, second)
	require.Equal(t, first.String(), second.String())

	c := NewCatalog()
	require.NoError(t, c.Register(makeCtor(first)))
	require.NoError(t, c.Register(makeCtor(second, first)))

	// second depends on first; one shared node would look like a self-cycle
	assert.NoError(t, c.CheckCycles())

	order, err := c.Graph().TopologicalSort()
	require.NoError(t, err)
	assert.Equal(t, []string{"*arbor.part", "*arbor.part#2"}, order)
	assert.Equal(t, []string{"*arbor.part"}, c.Graph().GetDependencies("*arbor.part#2"))
}

func TestCatalog_GraphDistinctTypesSharingNameCycle(t *testing.T) {
	first, second := firstPart(), secondPart()

	c := NewCatalog()
	require.NoError(t, c.Register(makeCtor(first, second)))
	require.NoError(t, c.Register(makeCtor(second, first)))

	err := c.CheckCycles()
	assert.ErrorIs(t, err, ErrCircularDependencySentinel)
	assert.Contains(t, err.Error(), "*arbor.part -> *arbor.part#2 -> *arbor.part")
}
