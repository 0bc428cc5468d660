package pluginject

import (
	"reflect"
	"sort"
	"sync"
)

// DiscoverySource supplies candidate implementations for a capability type.
// The container queries it lazily, at most once per capability type, and
// caches the answer for its lifetime.
//
// The ordering contract belongs to the source: Discover must return
// candidates sorted descending by priority, with equal-priority candidates
// in a stable order of the source's choosing. The resolver never re-orders
// the result.
type DiscoverySource interface {
	Discover(capability reflect.Type) []Candidate
}

// Candidate is one discovered implementation of a capability type.
type Candidate struct {
	// Priority orders candidates; higher comes first. Defaults to 0.
	Priority int

	provider *provider
}

// Registry is the built-in DiscoverySource: an append-only manifest
// associating a capability type with the constructors of its plugin
// implementations. It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	plugins map[reflect.Type][]Candidate
}

func NewRegistry() *Registry {
	return &Registry{
		plugins: map[reflect.Type][]Candidate{},
	}
}

type pluginConfig struct {
	priority              int
	alternateConstructors []any
}

type PluginOption func(*pluginConfig)

// WithPriority declares the plugin's priority. Higher-priority plugins sort
// first; the default is 0.
func WithPriority(priority int) PluginOption {
	return func(cfg *pluginConfig) {
		cfg.priority = priority
	}
}

// WithConstructor registers an alternate constructor for the same plugin.
// When a plugin has more than one constructor, exactly one of them must be
// marked with Inject.
func WithConstructor(constructorFunction any) PluginOption {
	return func(cfg *pluginConfig) {
		cfg.alternateConstructors = append(cfg.alternateConstructors, constructorFunction)
	}
}

// RegisterPlugin appends an implementation of the capability type T to the
// registry. The constructor's return type must be assignable to T; plugin
// constructors conventionally return their concrete implementation type,
// which is also the identity under which multi-binding members are cached.
//
// Registration order is preserved for candidates of equal priority.
func RegisterPlugin[T any](r *Registry, constructorFunction any, opts ...PluginOption) {
	cfg := pluginConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	capability := reflect.TypeFor[T]()
	constructorFunctions := append([]any{constructorFunction}, cfg.alternateConstructors...)
	prov := constructorProvider(constructorFunctions...)
	prov.checkProvides(capability, true)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.plugins[capability] = append(r.plugins[capability], Candidate{
		Priority: cfg.priority,
		provider: prov,
	})
}

// Discover returns the candidates registered for the capability type, sorted
// descending by priority. The sort is stable, so equal-priority candidates
// keep their registration order. The returned slice is a copy.
func (r *Registry) Discover(capability reflect.Type) []Candidate {
	r.mu.RLock()
	registered := r.plugins[capability]
	candidates := make([]Candidate, len(registered))
	copy(candidates, registered)
	r.mu.RUnlock()

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Priority > candidates[j].Priority
	})
	return candidates
}
