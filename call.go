package arbor

import (
	"fmt"
	"reflect"
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// checkResults verifies fnType returns (T) or (T, error).
func checkResults(fnType reflect.Type) error {
	switch fnType.NumOut() {
	case 1:
		if fnType.Out(0) == errorType {
			return fmt.Errorf("single return value must not be error")
		}
	case 2:
		if fnType.Out(1) != errorType {
			return fmt.Errorf("second return value must be error, got %s", fnType.Out(1))
		}
	default:
		return fmt.Errorf("must return (T) or (T, error), got %d return values", fnType.NumOut())
	}

	return nil
}

// buildArgs converts positional values to call arguments for fnType.
// Empty slots become the zero value of the parameter type. Arguments past
// the last fixed parameter of a variadic func fill its variadic slice.
func buildArgs(target string, fnType reflect.Type, args []any) ([]reflect.Value, error) {
	in := make([]reflect.Value, len(args))

	for i, arg := range args {
		paramType := paramAt(fnType, i)
		if arg == nil {
			in[i] = reflect.Zero(paramType)
			continue
		}

		v := reflect.ValueOf(arg)
		if !v.Type().AssignableTo(paramType) {
			return nil, ErrTypeMismatch(fmt.Sprintf("%s argument %d", target, i), paramType, arg)
		}

		in[i] = v
	}

	return in, nil
}

// paramAt returns the type the i-th argument is passed as.
func paramAt(fnType reflect.Type, i int) reflect.Type {
	last := fnType.NumIn() - 1
	if fnType.IsVariadic() && i >= last {
		return fnType.In(last).Elem()
	}

	return fnType.In(i)
}

// callFunc calls fn with args and unpacks a (T) or (T, error) result.
// Errors returned by fn are wrapped in a construction error for target.
func callFunc(target string, fn reflect.Value, args []any) (any, error) {
	fnType := fn.Type()

	if !arityFits(fnType, len(args)) {
		return nil, ErrTypeMismatch(
			fmt.Sprintf("%s expects %d parameters, got %d arguments", target, fnType.NumIn(), len(args)),
			fnType,
			args,
		)
	}

	if err := checkResults(fnType); err != nil {
		return nil, ErrInvalidConstructor(fn.Interface(), err.Error())
	}

	in, err := buildArgs(target, fnType, args)
	if err != nil {
		return nil, err
	}

	results := fn.Call(in)

	if len(results) == 2 && !results[1].IsNil() {
		return nil, NewConstructionError(target, results[1].Interface().(error))
	}

	return results[0].Interface(), nil
}

// arityFits reports whether fnType can be called with n arguments.
// A variadic func takes any number beyond its fixed parameters.
func arityFits(fnType reflect.Type, n int) bool {
	if fnType.IsVariadic() {
		return n >= fnType.NumIn()-1
	}

	return n == fnType.NumIn()
}

// resultType returns the first result type of fn, nil if fn is not a func.
func resultType(fn any) reflect.Type {
	t := reflect.TypeOf(fn)
	if t == nil || t.Kind() != reflect.Func || t.NumOut() == 0 {
		return nil
	}

	return t.Out(0)
}
