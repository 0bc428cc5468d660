package pluginject

import (
	"reflect"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/victormf2/pluginject/internal"
)

// Builder collects bindings before the container is finalized.
//
// As with the container, the registration API is exposed as free functions
// instead of methods, because Go does not allow methods with generic
// parameters:
// https://go.googlesource.com/proposal/+/refs/heads/master/design/43651-type-parameters.md#No-parameterized-methods
//
// A Builder is not safe for concurrent use and must not be reused after
// Build.
type Builder struct {
	bindings map[Key]*provider
	defaults map[Key]*provider
	source   DiscoverySource
	logger   *logrus.Logger
	built    bool
}

type BuilderOption func(*Builder)

// WithDiscovery attaches a DiscoverySource to the container being built.
// Without one, resolution falls straight from explicit bindings to defaults.
func WithDiscovery(source DiscoverySource) BuilderOption {
	return func(b *Builder) {
		b.source = source
	}
}

// WithLogger enables debug-level tracing of resolutions on the given logger.
func WithLogger(logger *logrus.Logger) BuilderOption {
	return func(b *Builder) {
		b.logger = logger
	}
}

func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{
		bindings: map[Key]*provider{},
		defaults: map[Key]*provider{},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Bind registers an explicit, highest-precedence binding for the type T.
// Rebinding the same Key overwrites the previous rule.
//
// Each constructor must be a function returning exactly T, or a (T, error)
// tuple. When more than one constructor is given, exactly one must be marked
// with Inject.
func Bind[T any](b *Builder, constructorFunctions ...any) {
	bindKey(b, KeyFor[T](), constructorFunctions)
}

// BindNamed is Bind for a qualified Key. The qualified and unqualified
// bindings of the same type are independent.
func BindNamed[T any](b *Builder, name string, constructorFunctions ...any) {
	bindKey(b, NamedKeyFor[T](name), constructorFunctions)
}

// BindInstance registers an already-constructed value for the type T.
func BindInstance[T any](b *Builder, value T) {
	b.checkUsable()
	b.bindings[KeyFor[T]()] = instanceProvider(reflect.ValueOf(&value).Elem())
}

// BindNamedInstance is BindInstance for a qualified Key.
func BindNamedInstance[T any](b *Builder, name string, value T) {
	b.checkUsable()
	b.bindings[NamedKeyFor[T](name)] = instanceProvider(reflect.ValueOf(&value).Elem())
}

// BindDefault registers a fallback binding for the type T, consulted only
// when the Key has no explicit binding and discovery yields zero candidates.
// A single discovered candidate is enough to shadow a default.
func BindDefault[T any](b *Builder, constructorFunctions ...any) {
	bindDefaultKey(b, KeyFor[T](), constructorFunctions)
}

// BindNamedDefault is BindDefault for a qualified Key.
func BindNamedDefault[T any](b *Builder, name string, constructorFunctions ...any) {
	bindDefaultKey(b, NamedKeyFor[T](name), constructorFunctions)
}

func bindKey(b *Builder, key Key, constructorFunctions []any) {
	b.checkUsable()
	prov := constructorProvider(constructorFunctions...)
	prov.checkProvides(key.Type, false)
	b.bindings[key] = prov
}

func bindDefaultKey(b *Builder, key Key, constructorFunctions []any) {
	b.checkUsable()
	prov := constructorProvider(constructorFunctions...)
	prov.checkProvides(key.Type, false)
	b.defaults[key] = prov
}

func (b *Builder) checkUsable() {
	if b.built {
		panic("pluginject: builder cannot be used after Build")
	}
}

// Build finalizes the binding table into an immutable container. Aside from
// cache population, nothing about the container changes after this point.
func (b *Builder) Build() *Container {
	b.checkUsable()
	b.built = true

	c := &Container{
		bindings:        b.bindings,
		defaults:        b.defaults,
		source:          b.source,
		logger:          b.logger,
		discovered:      internal.NewSyncMap[reflect.Type, []Candidate](),
		instances:       internal.NewSyncMap[Key, any](),
		resolutionLocks: internal.NewSyncMap[Key, *sync.Mutex](),
	}

	// The container resolves itself, so constructors can take *Container
	// as an ordinary dependency.
	c.instances.Store(KeyFor[*Container](), c)

	return c
}
