package arbor

import "reflect"

// InstantiateAll builds several types in order, each as its own top-level
// call under the root scope. It stops at the first error; instances built
// by earlier successful calls stay cached.
//
// Example:
//
//	instances, err := injector.InstantiateAll(
//	    arbor.TypeOf[*Car](),
//	    arbor.TypeOf[*Garage](),
//	)
func (inj *Injector) InstantiateAll(types ...reflect.Type) ([]any, error) {
	instances := make([]any, 0, len(types))

	for _, t := range types {
		instance, err := inj.Instantiate(t)
		if err != nil {
			return instances, err
		}

		instances = append(instances, instance)
	}

	return instances, nil
}

// Registration pairs a constructor with its injectable options for batch registration.
type Registration struct {
	Constructor any
	Options     []InjectableOption
}

// Ctor creates a Registration for RegisterAll.
func Ctor(ctor any, opts ...InjectableOption) Registration {
	return Registration{
		Constructor: ctor,
		Options:     opts,
	}
}

// RegisterAll registers multiple constructors in a single call.
// Returns error if any registration fails.
//
// Example:
//
//	err := catalog.RegisterAll(
//	    arbor.Ctor(NewCar),
//	    arbor.Ctor(NewWheel),
//	    arbor.Ctor(NewNail, arbor.WithParam(0, "NAIL_COLOR")),
//	)
func (c *Catalog) RegisterAll(registrations ...Registration) error {
	for _, reg := range registrations {
		if err := c.Register(reg.Constructor, reg.Options...); err != nil {
			return err
		}
	}
	return nil
}
