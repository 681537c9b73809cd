package dsl

import (
	"context"

	modeldecl "github.com/modeldecl/modeldecl"
)

// ModelType validates values that are instances of a referenced model class
// or members of a referenced polymorphic group. References may be given
// directly or by registered name, resolved lazily and memoized on first use.
type ModelType struct {
	direct   modeldecl.ModelTarget
	deferred *modeldecl.DeferredTarget
	name     string
	refiners []func(any) error
}

// Model returns a descriptor referencing target directly.
func Model(target modeldecl.ModelTarget) *ModelType {
	return &ModelType{direct: target}
}

// ModelNamed returns a descriptor referencing a target by its registered
// name in the default registry. Resolution is deferred until first use, so
// forward references and definition cycles work.
func ModelNamed(name string) *ModelType {
	return &ModelType{name: name, deferred: modeldecl.NewDeferredTarget(name, nil)}
}

// In rebinds a named reference to a specific registry.
func (t *ModelType) In(r *modeldecl.Registry) *ModelType {
	if t.name != "" {
		t.deferred = modeldecl.NewDeferredTarget(t.name, r)
	}
	return t
}

// Refine appends an extra validator run after the built-in checks.
func (t *ModelType) Refine(fn func(any) error) *ModelType {
	t.refiners = append(t.refiners, fn)
	return t
}

func (t *ModelType) Kind() modeldecl.Kind { return modeldecl.KindModel }

// Target resolves the referenced class or group. By-name references fail
// with *modeldecl.UnresolvedError when nothing is registered.
func (t *ModelType) Target() (modeldecl.ModelTarget, error) {
	if t.direct != nil {
		return t.direct, nil
	}
	return t.deferred.Resolve()
}

// Default constructs a default-filled instance for a class reference. Group
// references have no tag to dispatch on and default to absence, as do
// unresolved references.
func (t *ModelType) Default() any {
	target, err := t.Target()
	if err != nil {
		return nil
	}
	class, ok := target.(*modeldecl.ModelClass)
	if !ok {
		return nil
	}
	inst, err := class.New(nil)
	if err != nil {
		return nil
	}
	return inst
}

func (t *ModelType) Validate(ctx context.Context, v any) error {
	target, err := t.Target()
	if err != nil {
		return err
	}
	inst, ok := v.(*modeldecl.Instance)
	if !ok {
		return invalidType(v, "*modeldecl.Instance")
	}
	if !modeldecl.TargetAccepts(target, inst.Class()) {
		return invalidType(v, "instance of "+targetLabel(target))
	}
	if err := runRefiners(t.refiners, v); err != nil {
		return err
	}
	// a present instance also runs its own whole-object validation
	return inst.Validate(ctx)
}

func targetLabel(target modeldecl.ModelTarget) string {
	switch tt := target.(type) {
	case *modeldecl.ModelClass:
		return tt.Name()
	case *modeldecl.Group:
		return tt.Name()
	}
	return "model"
}
