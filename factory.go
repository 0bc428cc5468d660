package pluginject

import (
	"reflect"
	"sync"
)

// assistedFactory is the resolution plan for a func-shaped Key: which
// constructor parameters come from the factory call and which are resolved
// from the container.
type assistedFactory struct {
	factoryType reflect.Type
	targetKey   Key
	constructor constructor
	// argumentSources[i] is the factory parameter index feeding constructor
	// argument i, or -1 when the argument is container-resolved.
	argumentSources []int
	hasErrOut       bool
}

// resolveFactory synthesizes an assisted factory for a func-shaped Key. The
// factory itself is a singleton memoized under the Key, but its products are
// explicitly not: every call invokes the target constructor again.
func (c *Container) resolveFactory(currentContext resolutionContext, key Key) (reflect.Value, error) {
	var zero reflect.Value

	resolutionLock, _ := c.resolutionLocks.LoadOrStore(key, &sync.Mutex{})
	resolutionLock.Lock()
	defer resolutionLock.Unlock()

	if cachedFactory, found := c.instances.Load(key); found {
		return reflect.ValueOf(cachedFactory), nil
	}

	factory, err := c.planFactory(key)
	if err != nil {
		return zero, err
	}

	factoryValue := reflect.MakeFunc(key.Type, factory.call(c))
	c.instances.Store(key, factoryValue.Interface())
	c.debugf("synthesized factory %v for %v", key, factory.targetKey)
	return factoryValue, nil
}

// planFactory validates the func type and matches its parameters against
// the target constructor: each factory parameter claims the first unclaimed
// constructor parameter of the identical declared type, left to right. Every
// factory parameter must find a match.
func (c *Container) planFactory(key Key) (*assistedFactory, error) {
	factoryType := key.Type

	numOut := factoryType.NumOut()
	if numOut < 1 || numOut > 2 {
		return nil, resolutionErrorf(key, nil,
			"factory type %v must return exactly one value, or a value and an error", key)
	}
	hasErrOut := numOut == 2
	if hasErrOut && !factoryType.Out(1).AssignableTo(reflect.TypeFor[error]()) {
		return nil, resolutionErrorf(key, nil,
			"factory type %v must return exactly one value, or a value and an error", key)
	}

	targetKey := Key{Type: factoryType.Out(0), Qualifier: key.Qualifier}
	prov, origin, err := c.provision(targetKey)
	if err != nil {
		return nil, resolutionErrorf(key, err, "cannot synthesize factory %v", key)
	}
	if prov.hasInstance {
		return nil, resolutionErrorf(key, nil,
			"cannot synthesize factory %v: %v is bound to an instance", key, targetKey)
	}
	c.debugf("planning factory %v via %s", key, origin)

	selected, err := prov.selectConstructor(targetKey)
	if err != nil {
		return nil, err
	}
	if !selected.outType.AssignableTo(factoryType.Out(0)) {
		return nil, resolutionErrorf(key, nil,
			"cannot synthesize factory %v: constructor produces %v", key, selected.outType)
	}

	argumentSources := make([]int, len(selected.arguments))
	for i := range argumentSources {
		argumentSources[i] = -1
	}
	for parameterIndex := range factoryType.NumIn() {
		parameterType := factoryType.In(parameterIndex)
		matched := false
		for argumentIndex, arg := range selected.arguments {
			if argumentSources[argumentIndex] >= 0 {
				continue
			}
			if arg.declaredType == parameterType {
				argumentSources[argumentIndex] = parameterIndex
				matched = true
				break
			}
		}
		if !matched {
			return nil, resolutionErrorf(key, nil,
				"factory parameter %d (%v) of %v does not match any constructor parameter of %v",
				parameterIndex, parameterType, key, targetKey)
		}
	}

	return &assistedFactory{
		factoryType:     factoryType,
		targetKey:       targetKey,
		constructor:     selected,
		argumentSources: argumentSources,
		hasErrOut:       hasErrOut,
	}, nil
}

// call builds the MakeFunc body. Call-time arguments are substituted into
// their claimed constructor parameters; the rest resolve from the container
// at call time. A factory without an error result has no way to report a
// failed resolution, so it panics with the *ResolutionError.
func (f *assistedFactory) call(c *Container) func(args []reflect.Value) []reflect.Value {
	errorType := reflect.TypeFor[error]()

	fail := func(err error) []reflect.Value {
		if !f.hasErrOut {
			panic(err)
		}
		errValue := reflect.New(errorType).Elem()
		errValue.Set(reflect.ValueOf(err))
		return []reflect.Value{reflect.Zero(f.factoryType.Out(0)), errValue}
	}

	return func(args []reflect.Value) []reflect.Value {
		callArguments := make([]reflect.Value, len(f.constructor.arguments))
		for argumentIndex, arg := range f.constructor.arguments {
			if parameterIndex := f.argumentSources[argumentIndex]; parameterIndex >= 0 {
				callArguments[argumentIndex] = args[parameterIndex]
				continue
			}

			rc := resolutionContext{container: c, stack: []Key{f.targetKey}}
			argumentValue, err := c.resolveKey(rc, arg.key)
			if err != nil {
				return fail(resolutionErrorf(f.targetKey, err,
					"failed to resolve argument %d (%v) of constructor for %v", argumentIndex, arg.key, f.targetKey))
			}
			if arg.qualified {
				wrapper := reflect.New(arg.declaredType).Elem()
				wrapper.Field(0).Set(argumentValue)
				argumentValue = wrapper
			}
			callArguments[argumentIndex] = argumentValue
		}

		results := f.constructor.function.Call(callArguments)
		if f.constructor.hasErrOut {
			if errValue := results[1].Interface(); errValue != nil {
				return fail(resolutionErrorf(f.targetKey, errValue.(error),
					"constructor for %v returned an error", f.targetKey))
			}
		}

		produced := results[0]
		if produced.Type() != f.factoryType.Out(0) {
			// Assignable but not identical (e.g. a concrete plugin type
			// behind an interface-returning factory).
			converted := reflect.New(f.factoryType.Out(0)).Elem()
			converted.Set(produced)
			produced = converted
		}

		if !f.hasErrOut {
			return []reflect.Value{produced}
		}
		return []reflect.Value{produced, reflect.Zero(errorType)}
	}
}
