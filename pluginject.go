// Package pluginject is a plugin-discovery dependency injection container.
//
// A capability is identified by a Key: a type plus an optional qualifier
// name. Implementations come from three competing origins with a strict
// precedence: explicit bindings registered on a Builder, candidates reported
// by a DiscoverySource, and fallback defaults. A default is shadowed by even
// a single discovered candidate.
//
// Every resolved Key is a singleton for the lifetime of the container:
// at most one construction happens per Key, even under concurrent access.
//
// The resolution API is exposed as function calls instead of methods. This
// is because Go has a limitation with generics and does not allow methods
// with generic parameters. You can read more about it here:
// https://go.googlesource.com/proposal/+/refs/heads/master/design/43651-type-parameters.md#No-parameterized-methods
package pluginject

import (
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/victormf2/pluginject/internal"
)

// Container resolves capability Keys to instances. It is created by
// Builder.Build and is immutable aside from cache population. A Container is
// safe for concurrent use.
type Container struct {
	// Explicit bindings, highest precedence. Never mutated after Build.
	bindings map[Key]*provider
	// Fallback bindings, lowest precedence. Never mutated after Build.
	defaults map[Key]*provider
	// External plugin registry, consulted for unqualified Keys with no
	// explicit binding. May be nil.
	source DiscoverySource
	logger *logrus.Logger

	// Discovery results, cached per capability type so repeated resolutions
	// never re-query the source.
	discovered *internal.SyncMap[reflect.Type, []Candidate]
	// Here is where the resolved instances are stored. You can think of it
	// as a cache. Singleton semantics rely on this to work.
	instances *internal.SyncMap[Key, any]
	// Resolution locks are necessary because concurrent first requests for
	// the same Key would otherwise construct multiple instances. Locking is
	// per Key, so unrelated resolutions are not serialized.
	resolutionLocks *internal.SyncMap[Key, *sync.Mutex]
}

// Resolve returns the instance for the unqualified Key of type T.
//
// A scalar request walks the precedence chain: explicit binding, then the
// highest-priority discovered candidate, then the default binding. The
// result is memoized under the requested Key.
//
// If T is a slice type []E, all discovered candidates of E are resolved in
// descending priority order. Each member is memoized under its own concrete
// type as Key; the returned slice is a fresh copy on every call, so callers
// cannot mutate the container's view.
//
// If T is a function type, a synthesized assisted factory is returned: its
// call-time arguments substitute the target constructor's parameters that
// match by declared type, in order, and the remaining parameters are
// resolved from the container. Every call constructs a fresh instance;
// factory products are never memoized. If the function type has no error
// result, a failing construction panics with the *ResolutionError.
func Resolve[T any](c *Container) (T, error) {
	return resolveAs[T](c, KeyFor[T]())
}

// ResolveNamed returns the instance for the qualified Key of type T.
func ResolveNamed[T any](c *Container, name string) (T, error) {
	return resolveAs[T](c, NamedKeyFor[T](name))
}

// MustResolve is Resolve, panicking on failure. It is intended for wiring
// code where a missing provision is a programming error.
func MustResolve[T any](c *Container) T {
	value, err := Resolve[T](c)
	if err != nil {
		panic(err)
	}
	return value
}

func resolveAs[T any](c *Container, key Key) (T, error) {
	var zero T // small trick since x := T{} is not possible
	value, err := c.resolveKey(resolutionContext{container: c}, key)
	if err != nil {
		return zero, err
	}
	return value.Interface().(T), nil
}

// resolutionContext tracks one in-flight Resolve call. The stack is the
// transient resolution graph: it exists only for the duration of the call
// and is used to detect circular dependencies and report the full path.
type resolutionContext struct {
	container *Container
	stack     []Key
}

func (rc resolutionContext) push(key Key) resolutionContext {
	return resolutionContext{
		container: rc.container,
		stack:     append(rc.stack, key),
	}
}

func (c *Container) debugf(format string, args ...any) {
	if c.logger == nil {
		return
	}
	c.logger.Debugf("pluginject: "+format, args...)
}

func (rc resolutionContext) dependencyChainString() string {
	keyStrings := internal.Map(
		rc.stack,
		func(key Key) string { return key.String() },
	)
	return strings.Join(keyStrings, " -> ")
}

func (c *Container) resolveKey(parentContext resolutionContext, key Key) (reflect.Value, error) {
	var zero reflect.Value
	currentContext := parentContext.push(key)

	// Checking if an instance is already in the cache.
	if cachedInstance, found := c.instances.Load(key); found {
		return reflect.ValueOf(cachedInstance), nil
	}

	if slices.Contains(parentContext.stack, key) {
		// resolveKey was already called for this Key up in the stack.
		// Lazy evaluation could break the cycle, but we don't support it;
		// reporting the chain is more useful than overflowing the stack.
		return zero, resolutionErrorf(key, nil,
			"circular dependency detected: %s", currentContext.dependencyChainString())
	}

	// Slice- and func-shaped requests get special treatment, unless an
	// explicit binding for the exact Key exists: explicit bindings always
	// win, whatever the shape.
	if _, bound := c.bindings[key]; !bound {
		if key.Qualifier == "" && key.Type.Kind() == reflect.Slice {
			return c.resolveMulti(currentContext, key)
		}
		if key.Type.Kind() == reflect.Func {
			return c.resolveFactory(currentContext, key)
		}
	}

	prov, origin, err := c.provision(key)
	if err != nil {
		return zero, err
	}
	c.debugf("resolving %v via %s", key, origin)

	return c.memoize(currentContext, key, prov)
}

// provision applies the precedence rules for a scalar Key: explicit binding,
// then discovery (unqualified Keys only; discovery is qualifier-agnostic),
// then default binding.
func (c *Container) provision(key Key) (*provider, string, error) {
	if prov, found := c.bindings[key]; found {
		return prov, "binding", nil
	}

	if key.Qualifier == "" {
		if candidates := c.discover(key.Type); len(candidates) > 0 {
			// Candidates are sorted descending by priority, so the first
			// one wins. A default registered for the same Key is shadowed.
			return candidates[0].provider, "discovery", nil
		}
	}

	if prov, found := c.defaults[key]; found {
		return prov, "default", nil
	}

	return nil, "", resolutionErrorf(key, nil,
		"no binding, discovered implementation or default registered for %v", key)
}

// discover queries the DiscoverySource for a capability type, at most once
// per type for the lifetime of the container.
func (c *Container) discover(capability reflect.Type) []Candidate {
	if candidates, found := c.discovered.Load(capability); found {
		return candidates
	}

	var candidates []Candidate
	if c.source != nil {
		candidates = c.source.Discover(capability)
		c.debugf("discovered %d candidates for %v", len(candidates), capability)
	}

	// A concurrent first query may compute the same result; LoadOrStore
	// makes one of them canonical.
	canonical, _ := c.discovered.LoadOrStore(capability, candidates)
	return canonical
}

// memoize constructs at most one instance for the Key. The per-Key lock
// plus the second cache check guarantee a single construction even when
// concurrent first requests race; a failed construction leaves the slot
// unpopulated, so a later request may retry.
func (c *Container) memoize(currentContext resolutionContext, key Key, prov *provider) (reflect.Value, error) {
	var zero reflect.Value

	resolutionLock, _ := c.resolutionLocks.LoadOrStore(key, &sync.Mutex{})
	resolutionLock.Lock()
	defer resolutionLock.Unlock()

	// Checking again for a cached instance because it could be created by
	// other concurrent resolve calls.
	if cachedInstance, found := c.instances.Load(key); found {
		return reflect.ValueOf(cachedInstance), nil
	}

	value, err := c.construct(currentContext, key, prov)
	if err != nil {
		return zero, err
	}

	c.instances.Store(key, value.Interface())
	return value, nil
}

// construct produces a value from the provider: instance providers return
// the instance directly, constructor providers select the eligible
// constructor, recursively resolve its parameters depth-first left to
// right, and invoke it.
func (c *Container) construct(currentContext resolutionContext, key Key, prov *provider) (reflect.Value, error) {
	var zero reflect.Value

	if prov.hasInstance {
		return prov.instance, nil
	}

	selected, err := prov.selectConstructor(key)
	if err != nil {
		return zero, err
	}

	callArguments := make([]reflect.Value, len(selected.arguments))
	for argumentIndex, arg := range selected.arguments {
		argumentValue, err := c.resolveKey(currentContext, arg.key)
		if err != nil {
			return zero, resolutionErrorf(key, err,
				"failed to resolve argument %d (%v) of constructor for %v", argumentIndex, arg.key, key)
		}
		if arg.qualified {
			// Deliver the resolved value through the Qualified wrapper
			// the parameter was declared with.
			wrapper := reflect.New(arg.declaredType).Elem()
			wrapper.Field(0).Set(argumentValue)
			argumentValue = wrapper
		}
		callArguments[argumentIndex] = argumentValue
	}

	results := selected.function.Call(callArguments)
	if selected.hasErrOut {
		if errValue := results[1].Interface(); errValue != nil {
			return zero, resolutionErrorf(key, errValue.(error),
				"constructor for %v returned an error", key)
		}
	}

	c.debugf("constructed %v", key)
	return results[0], nil
}

// resolveMulti resolves a slice-shaped request: every discovered candidate
// of the element type, constructed in descending priority order. Members
// are memoized under their constructor's declared return type, which for
// plugins is the concrete implementation type. The assembled slice is built
// fresh on every call.
func (c *Container) resolveMulti(currentContext resolutionContext, key Key) (reflect.Value, error) {
	var zero reflect.Value
	elementType := key.Type.Elem()

	candidates := c.discover(elementType)

	sliceValue := reflect.MakeSlice(key.Type, len(candidates), len(candidates))
	for candidateIndex, candidate := range candidates {
		elementKey := Key{Type: elementType}

		selected, err := candidate.provider.selectConstructor(elementKey)
		if err != nil {
			return zero, err
		}

		memberKey := Key{Type: selected.outType}
		memberValue, err := c.memoize(currentContext.push(memberKey), memberKey, candidate.provider)
		if err != nil {
			return zero, resolutionErrorf(key, err,
				"failed to resolve element %d (%v) of %v", candidateIndex, memberKey, key)
		}

		sliceValue.Index(candidateIndex).Set(memberValue)
	}

	return sliceValue, nil
}
