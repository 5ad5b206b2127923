// Package arbor is a hierarchical dependency injector.
//
// Types are registered once in a Catalog together with the bindings local
// to their subtree. An Injector, created for a root object, builds a
// requested type by walking its constructor parameters depth first. Every
// level gets its own Scope, so a binding declared by a type applies to its
// dependencies only, and instances are shared for as long as nothing they
// depend on was rebound.
//
//	catalog := arbor.NewCatalog()
//	catalog.MustRegister(NewCar)
//	catalog.MustRegister(NewWheel)
//
//	injector, err := arbor.Create(app, []arbor.Binding{
//	    arbor.Self[*Car](),
//	    arbor.Class[Wheel, *SpareWheel](),
//	}, arbor.WithMetadata(catalog))
//
//	car, err := arbor.Instantiate[*Car](injector)
package arbor
