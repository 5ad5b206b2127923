package arbor

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func TestBindingConstructors(t *testing.T) {
	wheel := TypeOf[Wheel]()

	self := Self[*Car]()
	assert.Equal(t, KindSelf, self.Kind)
	assert.Equal(t, TypeOf[*Car](), self.Provide)

	value := UseValue("NAIL_COLOR", "black")
	assert.Equal(t, KindValue, value.Kind)
	assert.Equal(t, Name("NAIL_COLOR"), value.Provide, "plain strings become names")

	class := Class[Wheel, *SpareWheel]()
	assert.Equal(t, KindClass, class.Kind)
	assert.Equal(t, wheel, class.Provide)
	assert.Equal(t, TypeOf[*SpareWheel](), class.Class)

	factory := Factory[Wheel](newWheel)
	assert.Equal(t, KindFactory, factory.Kind)
	assert.NotNil(t, factory.Factory)

	typed := Value[Wheel](nil)
	assert.Equal(t, wheel, typed.Provide)
	assert.Nil(t, typed.Value)
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "self", KindSelf.String())
	assert.Equal(t, "value", KindValue.String())
	assert.Equal(t, "class", KindClass.String())
	assert.Equal(t, "factory", KindFactory.String())
	assert.Equal(t, "unknown", Kind(0).String())
}

func TestBinding_Validate(t *testing.T) {
	tests := []struct {
		name    string
		binding Binding
		wantErr error
	}{
		{"self", Self[*Car](), nil},
		{"value nil", UseValue("x", nil), nil},
		{"value zero", UseValue(NewToken("n"), 0), nil},
		{"class", Class[Wheel, *SpareWheel](), nil},
		{"factory", Factory[Wheel](newWheel), nil},
		{"missing key", Binding{Kind: KindValue}, ErrIncorrectProviderSentinel},
		{"empty name", UseValue("", 1), ErrIncorrectProviderSentinel},
		{"unsupported key", Binding{Provide: 42, Kind: KindValue}, ErrIncorrectProviderSentinel},
		{"self by name", Binding{Provide: Name("x"), Kind: KindSelf}, ErrIncorrectProviderSentinel},
		{"class without type", UseClass("x", nil), ErrIncorrectProviderSentinel},
		{"factory not func", UseFactory("x", "nope"), ErrFactoryNotFunctionSentinel},
		{"factory nil", UseFactory("x", nil), ErrFactoryNotFunctionSentinel},
		{"unknown kind", Binding{Provide: Name("x")}, ErrIncorrectProviderSentinel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.binding.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}

			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestValidateBindings_CollectsAllErrors(t *testing.T) {
	err := ValidateBindings(
		Self[*Car](),
		UseFactory("a", 1),
		UseClass("b", nil),
	)
	require.Error(t, err)

	errs := multierr.Errors(err)
	require.Len(t, errs, 2)
	assert.ErrorIs(t, errs[0], ErrFactoryNotFunctionSentinel)
	assert.ErrorIs(t, errs[1], ErrIncorrectProviderSentinel)

	assert.NoError(t, ValidateBindings())
	assert.NoError(t, ValidateBindings(Self[*Car](), UseValue("x", false)))
}

func TestBinding_Matches(t *testing.T) {
	token := NewToken("t")

	assert.True(t, Self[*Car]().matches(TypeOf[*Car]()))
	assert.False(t, Self[*Car]().matches(TypeOf[Wheel]()))
	assert.True(t, UseValue("x", 1).matches(Name("x")))
	assert.False(t, UseValue("x", 1).matches("x"), "matches expects normalized keys")
	assert.True(t, UseValue(token, 1).matches(token))
	assert.False(t, Binding{}.matches(nil))
}

func TestKeys(t *testing.T) {
	token := NewToken("dsn")

	assert.Equal(t, "dsn", token.Name())
	assert.Equal(t, "Token(dsn)", token.String())
	assert.Equal(t, "color", Name("color").String())

	assert.Equal(t, Name("x"), normalizeKey("x"))
	assert.Equal(t, token, normalizeKey(token))

	assert.True(t, validKey(TypeOf[*Car]()))
	assert.True(t, validKey(Name("x")))
	assert.True(t, validKey(token))
	assert.False(t, validKey(nil))
	assert.False(t, validKey(reflect.Type(nil)))
	assert.False(t, validKey(Name("")))
	assert.False(t, validKey((*Token)(nil)))
	assert.False(t, validKey("raw string"))

	assert.Equal(t, "*arbor.Car", keyName(TypeOf[*Car]()))
	assert.Equal(t, "Token(dsn)", keyName(token))
	assert.Equal(t, "x", keyName(Name("x")))
	assert.Equal(t, "<nil>", keyName(nil))
	assert.Equal(t, "<nil>", keyName((*Token)(nil)))
	assert.Equal(t, "arbor.Wheel", typeName(TypeOf[Wheel]()))
}
