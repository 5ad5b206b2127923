package arbor

import (
	"fmt"
)

// InjectableOptions is the per-type metadata consulted by the injector.
type InjectableOptions struct {
	// Alias is a descriptive name. It takes no part in resolution.
	Alias string

	// Providers are bindings local to the subtree built for this type.
	Providers []Binding
}

// InjectableOption configures how a type is registered in a Catalog.
type InjectableOption interface {
	applyInjectable(*injectableConfig)
}

// injectableConfig holds configuration collected from InjectableOptions.
type injectableConfig struct {
	alias     string
	providers []Binding
	params    map[int]Key
}

// injectableOptionFunc is a function adapter for InjectableOption
type injectableOptionFunc func(*injectableConfig)

func (f injectableOptionFunc) applyInjectable(c *injectableConfig) { f(c) }

// WithAlias sets the descriptive alias of the type.
func WithAlias(alias string) InjectableOption {
	return injectableOptionFunc(func(c *injectableConfig) {
		c.alias = alias
	})
}

// WithProviders declares bindings that apply only inside the subtree
// constructed for the type, including when the type is a class substitute.
//
// Example:
//
//	catalog.Register(NewCrutch, arbor.WithProviders(
//	    arbor.UseValue("FINGER_OPT", FingerOpt{Name: "pinky"}),
//	))
func WithProviders(bindings ...Binding) InjectableOption {
	return injectableOptionFunc(func(c *injectableConfig) {
		c.providers = append(c.providers, bindings...)
	})
}

// WithParam resolves the constructor parameter at index through key instead
// of by its declared type.
//
// Example:
//
//	catalog.Register(NewNail, arbor.WithParam(0, "NAIL_COLOR"))
func WithParam(index int, key Key) InjectableOption {
	return injectableOptionFunc(func(c *injectableConfig) {
		if c.params == nil {
			c.params = make(map[int]Key)
		}

		c.params[index] = normalizeKey(key)
	})
}

func collectOptions(opts []InjectableOption) *injectableConfig {
	cfg := &injectableConfig{}
	for _, opt := range opts {
		opt.applyInjectable(cfg)
	}

	return cfg
}

// validate checks the collected options against a parameter count.
func (c *injectableConfig) validate(numParams int) error {
	if err := ValidateBindings(c.providers...); err != nil {
		return err
	}

	for index, key := range c.params {
		if index < 0 || index >= numParams {
			return fmt.Errorf("parameter override index %d out of range [0,%d)", index, numParams)
		}

		if !validKey(key) {
			return ErrIncorrectProvider(key, fmt.Sprintf("parameter %d override key must be a reflect.Type, Name or *Token", index))
		}
	}

	return nil
}
