package arbor

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/xraph/go-utils/errs"
)

// =============================================================================
// ERROR CODES
// =============================================================================

const (
	// CodeAlreadyExists indicates an injector is already registered for a root object
	CodeAlreadyExists = "INJECTOR_ALREADY_EXISTS"

	// CodeNotInjectable indicates a constructor target carries no injectable metadata
	CodeNotInjectable = "NOT_INJECTABLE"

	// CodeProviderNotExists indicates no binding satisfies a type dependency in strict mode
	CodeProviderNotExists = "PROVIDER_NOT_EXISTS"

	// CodeIncorrectProvider indicates a binding matches none of the known strategies
	CodeIncorrectProvider = "INCORRECT_PROVIDER"

	// CodeFactoryNotFunction indicates a factory binding holds something that cannot be called
	CodeFactoryNotFunction = "FACTORY_NOT_FUNCTION"

	// CodeCircularDependency indicates a type was requested while it was being constructed
	CodeCircularDependency = "CIRCULAR_DEPENDENCY"

	// CodeTypeMismatch indicates a resolved value does not fit the slot it is passed to
	CodeTypeMismatch = "TYPE_MISMATCH"

	// CodeConstructionFailed indicates a constructor or factory returned an error
	CodeConstructionFailed = "CONSTRUCTION_FAILED"

	// CodeInvalidConstructor indicates a value registered as constructor is unusable
	CodeInvalidConstructor = "INVALID_CONSTRUCTOR"

	// CodeAlreadyRegistered indicates a type was registered twice in a catalog
	CodeAlreadyRegistered = "ALREADY_REGISTERED"

	// CodeInvalidRoot indicates a root object that cannot be used as a registry key
	CodeInvalidRoot = "INVALID_ROOT"
)

// =============================================================================
// SENTINEL ERRORS
// =============================================================================

// ErrAlreadyExistsSentinel is a sentinel error for duplicate injectors (for error checking).
var ErrAlreadyExistsSentinel = errs.NewError(CodeAlreadyExists, "injector already exists", nil)

// ErrNotInjectableSentinel is a sentinel error for non-injectable types (for error checking).
var ErrNotInjectableSentinel = errs.NewError(CodeNotInjectable, "not injectable", nil)

// ErrProviderNotExistsSentinel is a sentinel error for missing providers (for error checking).
var ErrProviderNotExistsSentinel = errs.NewError(CodeProviderNotExists, "provider not exists", nil)

// ErrIncorrectProviderSentinel is a sentinel error for malformed bindings (for error checking).
var ErrIncorrectProviderSentinel = errs.NewError(CodeIncorrectProvider, "incorrect provider", nil)

// ErrFactoryNotFunctionSentinel is a sentinel error for non-callable factories (for error checking).
var ErrFactoryNotFunctionSentinel = errs.NewError(CodeFactoryNotFunction, "factory not a function", nil)

// ErrCircularDependencySentinel is a sentinel error for circular dependency (for error checking).
var ErrCircularDependencySentinel = errs.NewError(CodeCircularDependency, "circular dependency", nil)

// ErrTypeMismatchSentinel is a sentinel error for type mismatch during resolution.
var ErrTypeMismatchSentinel = errs.NewError(CodeTypeMismatch, "type mismatch", nil)

// ErrConstructionFailedSentinel is a sentinel error for failing constructors (for error checking).
var ErrConstructionFailedSentinel = errs.NewError(CodeConstructionFailed, "construction failed", nil)

// ErrInvalidConstructorSentinel is a sentinel error for unusable constructors (for error checking).
var ErrInvalidConstructorSentinel = errs.NewError(CodeInvalidConstructor, "invalid constructor", nil)

// ErrAlreadyRegisteredSentinel is a sentinel error for duplicate catalog entries (for error checking).
var ErrAlreadyRegisteredSentinel = errs.NewError(CodeAlreadyRegistered, "type already registered", nil)

// ErrInvalidRoot is returned when a root object is not comparable and cannot key the registry.
var ErrInvalidRoot = errs.NewError(CodeInvalidRoot, "root object must be comparable", nil)

// =============================================================================
// ERROR CONSTRUCTORS
// =============================================================================

// ErrAlreadyExists creates an error for a second injector on the same root object
func ErrAlreadyExists(root any) *errs.Error {
	rootType := fmt.Sprintf("%T", root)

	return errs.NewError(
		CodeAlreadyExists,
		fmt.Sprintf("injector for root %s already exists", rootType),
		nil,
	).WithContext("root", rootType).(*errs.Error)
}

// ErrNotInjectable creates an error for a type that was never registered as injectable
func ErrNotInjectable(t reflect.Type) *errs.Error {
	name := typeName(t)

	return errs.NewError(
		CodeNotInjectable,
		fmt.Sprintf("type '%s' is not marked injectable", name),
		nil,
	).WithContext("type", name).(*errs.Error)
}

// ErrProviderNotExists creates an error for a type dependency without a binding
func ErrProviderNotExists(t reflect.Type) *errs.Error {
	name := typeName(t)

	return errs.NewError(
		CodeProviderNotExists,
		fmt.Sprintf("provider '%s' not exists", name),
		nil,
	).WithContext("type", name).(*errs.Error)
}

// ErrIncorrectProvider creates an error for a binding that cannot be used
func ErrIncorrectProvider(key Key, reason string) *errs.Error {
	name := keyName(key)

	return errs.NewError(
		CodeIncorrectProvider,
		fmt.Sprintf("incorrect provider '%s': %s", name, reason),
		nil,
	).WithContext("key", name).
		WithContext("reason", reason).(*errs.Error)
}

// ErrFactoryNotFunction creates an error for a factory binding that is not a func
func ErrFactoryNotFunction(key Key, factory any) *errs.Error {
	name := keyName(key)

	return errs.NewError(
		CodeFactoryNotFunction,
		fmt.Sprintf("factory for '%s' not a function: got %T", name, factory),
		nil,
	).WithContext("key", name).
		WithContext("actual_type", fmt.Sprintf("%T", factory)).(*errs.Error)
}

// ErrCircularDependency creates an error for circular dependency detection
func ErrCircularDependency(cycle []string) *errs.Error {
	return errs.NewError(
		CodeCircularDependency,
		fmt.Sprintf("circular dependency detected: %s", strings.Join(cycle, " -> ")),
		nil,
	).WithContext("cycle", cycle).(*errs.Error)
}

// ErrTypeMismatch creates an error for a value that does not fit its target
func ErrTypeMismatch(target string, expected reflect.Type, actual any) *errs.Error {
	return errs.NewError(
		CodeTypeMismatch,
		fmt.Sprintf("%s type mismatch: expected %s, got %T", target, typeName(expected), actual),
		nil,
	).WithContext("target", target).
		WithContext("expected_type", typeName(expected)).
		WithContext("actual_type", fmt.Sprintf("%T", actual)).(*errs.Error)
}

// NewConstructionError creates an error for a constructor or factory that failed
func NewConstructionError(target string, cause error) *errs.Error {
	return errs.NewError(
		CodeConstructionFailed,
		fmt.Sprintf("constructing '%s' failed", target),
		cause,
	).WithContext("target", target).(*errs.Error)
}

// ErrInvalidConstructor creates an error for a value that cannot serve as constructor
func ErrInvalidConstructor(ctor any, reason string) *errs.Error {
	actual := fmt.Sprintf("%T", ctor)

	return errs.NewError(
		CodeInvalidConstructor,
		fmt.Sprintf("invalid constructor %s: %s", actual, reason),
		nil,
	).WithContext("actual_type", actual).
		WithContext("reason", reason).(*errs.Error)
}

// ErrAlreadyRegistered creates an error for a type registered twice
func ErrAlreadyRegistered(t reflect.Type) *errs.Error {
	name := typeName(t)

	return errs.NewError(
		CodeAlreadyRegistered,
		fmt.Sprintf("type '%s' already registered", name),
		nil,
	).WithContext("type", name).(*errs.Error)
}
