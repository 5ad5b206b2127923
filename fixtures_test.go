package arbor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

// === Car graph ===

type Wheel interface {
	Code() string
}

type basicWheel struct{ size int }

func (*basicWheel) Code() string { return "123" }

func newWheel() Wheel { return &basicWheel{size: 16} }

type SpareWheel struct{ size int }

func (*SpareWheel) Code() string { return "sw123" }

func newSpareWheel() *SpareWheel { return &SpareWheel{size: 14} }

type AnyWheel struct{ code string }

func (w *AnyWheel) Code() string { return w.code }

type Car struct {
	wheel Wheel
}

func newCar(w Wheel) *Car { return &Car{wheel: w} }

func (c *Car) WheelCode() string {
	if c.wheel == nil {
		return ""
	}
	return c.wheel.Code()
}

type core struct{ name string }

func carCatalog(t *testing.T) *Catalog {
	t.Helper()

	c := NewCatalog()
	require.NoError(t, c.RegisterAll(
		Ctor(newCar),
		Ctor(newWheel),
		Ctor(newSpareWheel),
	))

	return c
}

// === Human graph ===

type FingerOpt struct{ Name string }

type NailOpt struct{ Color string }

type Nail struct{ opt *NailOpt }

func newNail(opt *NailOpt) *Nail {
	if opt == nil {
		opt = &NailOpt{Color: "transparent"}
	}
	return &Nail{opt: opt}
}

type Finger struct {
	opt  *FingerOpt
	nail *Nail
}

func newFinger(opt *FingerOpt, nail *Nail) *Finger {
	if opt == nil {
		opt = &FingerOpt{Name: "index"}
	}
	return &Finger{opt: opt, nail: nail}
}

type Arm struct{ finger *Finger }

func newArm(f *Finger) *Arm { return &Arm{finger: f} }

type Foot struct{ finger *Finger }

func newFoot(f *Finger) *Foot { return &Foot{finger: f} }

type Crutch struct{ finger *Finger }

func newCrutch(f *Finger) *Crutch { return &Crutch{finger: f} }

type Body struct {
	arm    *Arm
	foot   *Foot
	crutch *Crutch
}

func newBody(arm *Arm, foot *Foot, crutch *Crutch) *Body {
	return &Body{arm: arm, foot: foot, crutch: crutch}
}

func humanCatalog(t *testing.T) *Catalog {
	t.Helper()

	c := NewCatalog()
	require.NoError(t, c.RegisterAll(
		Ctor(newNail, WithParam(0, "NAIL_OPT")),
		Ctor(newFinger, WithParam(0, "FINGER_OPT")),
		Ctor(newArm),
		Ctor(newFoot),
		Ctor(newCrutch, WithProviders(UseValue("FINGER_OPT", &FingerOpt{Name: "pinky"}))),
		Ctor(newBody),
	))

	return c
}

func humanBindings(extra ...Binding) []Binding {
	return append([]Binding{
		Self[*Body](),
		Self[*Crutch](),
		Self[*Arm](),
		Self[*Foot](),
		Self[*Finger](),
		Self[*Nail](),
	}, extra...)
}

// === Struct graph ===

type sNail struct {
	Color string `inject:"NAIL_COLOR"`
}

type sFinger struct {
	Nail *sNail
}

type sHand struct {
	Finger *sFinger
}

type sBody struct {
	LeftHand *sHand
	secret   string
}

// === Failing constructors ===

var errBroken = errors.New("broken")

type okPart struct{ id int }

func newOkPart() *okPart { return &okPart{id: 1} }

type brokenPart struct{}

func newBrokenPart() (*brokenPart, error) { return nil, errBroken }

type machine struct {
	ok     *okPart
	broken *brokenPart
}

func newMachine(ok *okPart, broken *brokenPart) *machine {
	return &machine{ok: ok, broken: broken}
}

// === Cycles ===

type chicken struct{ egg *egg }

type egg struct{ chicken *chicken }

func newChicken(e *egg) *chicken { return &chicken{egg: e} }

func newEgg(c *chicken) *egg { return &egg{chicken: c} }

// newTestInjector creates an injector in a private registry.
func newTestInjector(t *testing.T, root any, bindings []Binding, opts ...Option) *Injector {
	t.Helper()

	inj, err := NewRegistry().Create(root, bindings, opts...)
	require.NoError(t, err)

	return inj
}
