package pluginject

import (
	"fmt"
	"reflect"
)

// argument is one analyzed constructor parameter. Parameters declared with
// the Qualified wrapper resolve a qualified Key and are delivered through
// the wrapper; everything else resolves the bare parameter type.
type argument struct {
	declaredType reflect.Type
	key          Key
	qualified    bool
}

type constructor struct {
	function  reflect.Value
	outType   reflect.Type
	hasErrOut bool
	arguments []argument
	marked    bool
}

// injectMarked wraps a constructor passed through Inject.
type injectMarked struct {
	function any
}

// Inject marks one constructor as the injection constructor when a binding
// or plugin registers more than one. With a single constructor the mark is
// not required.
func Inject(constructorFunction any) any {
	return injectMarked{function: constructorFunction}
}

// newConstructor validates and analyzes a constructor function. Constructors
// must be functions returning exactly one value or a (value, error) tuple.
// Misuse is a registration-time bug, so it panics.
func newConstructor(constructorFunctionInstance any) constructor {
	marked := false
	if injected, ok := constructorFunctionInstance.(injectMarked); ok {
		marked = true
		constructorFunctionInstance = injected.function
	}

	constructorFunction := reflect.ValueOf(constructorFunctionInstance)
	if !constructorFunction.IsValid() || constructorFunction.Kind() != reflect.Func {
		panic("constructor must be a function returning exactly one value, or a value and an error")
	}

	constructorType := constructorFunction.Type()
	if constructorType.NumOut() < 1 || constructorType.NumOut() > 2 {
		panic("constructor must be a function returning exactly one value, or a value and an error")
	}

	hasErrOut := constructorType.NumOut() == 2
	if hasErrOut {
		errorType := constructorType.Out(1)
		if !errorType.AssignableTo(reflect.TypeFor[error]()) {
			panic("constructor must be a function returning exactly one value, or a value and an error")
		}
	}

	numberOfArguments := constructorType.NumIn()
	arguments := make([]argument, numberOfArguments)
	for i := range numberOfArguments {
		parameterType := constructorType.In(i)
		if key, ok := qualifiedKey(parameterType); ok {
			arguments[i] = argument{declaredType: parameterType, key: key, qualified: true}
		} else {
			arguments[i] = argument{declaredType: parameterType, key: Key{Type: parameterType}}
		}
	}

	return constructor{
		function:  constructorFunction,
		outType:   constructorType.Out(0),
		hasErrOut: hasErrOut,
		arguments: arguments,
		marked:    marked,
	}
}

// provider is a provisioning rule for a Key: either a fixed instance, or a
// set of candidate constructors for an implementation.
type provider struct {
	instance     reflect.Value
	hasInstance  bool
	constructors []constructor
}

func instanceProvider(value reflect.Value) *provider {
	return &provider{instance: value, hasInstance: true}
}

func constructorProvider(constructorFunctions ...any) *provider {
	if len(constructorFunctions) == 0 {
		panic("at least one constructor is required")
	}
	constructors := make([]constructor, len(constructorFunctions))
	for i, fn := range constructorFunctions {
		constructors[i] = newConstructor(fn)
	}
	return &provider{constructors: constructors}
}

// selectConstructor applies the eligibility rule: a single constructor is
// used as is; among several, exactly one must be marked with Inject,
// otherwise the provision is ambiguous.
func (p *provider) selectConstructor(key Key) (constructor, error) {
	if len(p.constructors) == 1 {
		return p.constructors[0], nil
	}

	selected := -1
	for i, c := range p.constructors {
		if !c.marked {
			continue
		}
		if selected >= 0 {
			return constructor{}, resolutionErrorf(key, nil,
				"ambiguous constructors for %v: more than one is marked with Inject", key)
		}
		selected = i
	}
	if selected < 0 {
		return constructor{}, resolutionErrorf(key, nil,
			"ambiguous constructors for %v: %d candidates and none is marked with Inject", key, len(p.constructors))
	}
	return p.constructors[selected], nil
}

// checkProvides panics unless every constructor of the provider produces the
// register type, applying the given compatibility rule (exact for bindings,
// assignable for discovered plugins).
func (p *provider) checkProvides(registerType reflect.Type, assignable bool) {
	for _, c := range p.constructors {
		if c.outType == registerType {
			continue
		}
		if assignable && c.outType.AssignableTo(registerType) {
			continue
		}
		panic(fmt.Sprintf("the type parameter %v is not the same as the return type of the constructor %v", registerType, c.outType))
	}
}
