package modeldecl

import (
	"fmt"
	"sync"
)

// Registry is a host-provided name-to-target lookup used to resolve by-name
// model references (forward references and definition cycles). Names are
// opaque dotted paths by convention ("billing.Invoice"); the library never
// interprets them against the Go package graph.
type Registry struct {
	mu      sync.RWMutex
	targets map[string]ModelTarget
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{targets: make(map[string]ModelTarget)}
}

// Register binds a name to a model class or group. Re-binding an existing
// name is a definition-time error.
func (r *Registry) Register(name string, target ModelTarget) error {
	if name == "" {
		return fmt.Errorf("modeldecl: cannot register a model under an empty name")
	}
	if target == nil {
		return fmt.Errorf("modeldecl: cannot register a nil model target under %q", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.targets[name]; dup {
		return fmt.Errorf("modeldecl: model name %q is already registered", name)
	}
	r.targets[name] = target
	return nil
}

// MustRegister is Register panicking on error, for init-time wiring.
func (r *Registry) MustRegister(name string, target ModelTarget) {
	if err := r.Register(name, target); err != nil {
		panic(err)
	}
}

// Resolve returns the target bound to name, or an *UnresolvedError.
func (r *Registry) Resolve(name string) (ModelTarget, error) {
	r.mu.RLock()
	target, ok := r.targets[name]
	r.mu.RUnlock()
	if !ok {
		return nil, &UnresolvedError{Name: name}
	}
	return target, nil
}

var defaultRegistry = NewRegistry()

// DefaultRegistry returns the package-level registry used by by-name
// references that do not select their own.
func DefaultRegistry() *Registry { return defaultRegistry }

// Register binds a name in the default registry.
func Register(name string, target ModelTarget) error {
	return defaultRegistry.Register(name, target)
}

// MustRegister binds a name in the default registry, panicking on error.
func MustRegister(name string, target ModelTarget) {
	defaultRegistry.MustRegister(name, target)
}

// DeferredTarget is a lazily resolved reference to a registered model class
// or group. Resolution happens at most once; the outcome (including an
// *UnresolvedError) is memoized and safe to share across goroutines.
type DeferredTarget struct {
	name     string
	registry *Registry
	once     sync.Once
	target   ModelTarget
	err      error
}

// NewDeferredTarget builds a deferred reference against registry (the
// default registry when nil).
func NewDeferredTarget(name string, registry *Registry) *DeferredTarget {
	if registry == nil {
		registry = defaultRegistry
	}
	return &DeferredTarget{name: name, registry: registry}
}

// Name returns the symbolic name being referenced.
func (d *DeferredTarget) Name() string { return d.name }

// Resolve binds the symbolic name to its concrete target on first use.
func (d *DeferredTarget) Resolve() (ModelTarget, error) {
	d.once.Do(func() {
		d.target, d.err = d.registry.Resolve(d.name)
	})
	return d.target, d.err
}
