package dsl

import (
	modeldecl "github.com/modeldecl/modeldecl"
)

// ModelBuilder assembles a model class: an optional base class plus the
// class's own field declarations in order. Build performs the one-time
// inheritance merge and returns the immutable class.
type ModelBuilder struct {
	name   string
	parent *modeldecl.ModelClass
	decls  []modeldecl.FieldDecl
}

// Define starts a model class declaration.
func Define(name string) *ModelBuilder {
	return &ModelBuilder{name: name}
}

// Extend sets the base class whose fields the new class inherits.
func (b *ModelBuilder) Extend(base *modeldecl.ModelClass) *ModelBuilder {
	b.parent = base
	return b
}

// Field declares a required field of the given type; options adjust
// requiredness and default policy.
func (b *ModelBuilder) Field(name string, t modeldecl.Type, opts ...modeldecl.FieldOption) *ModelBuilder {
	b.decls = append(b.decls, modeldecl.FieldDecl{Name: name, Field: modeldecl.NewField(t, opts...)})
	return b
}

// FieldDecl attaches a prebuilt field descriptor, for sharing one
// descriptor across classes.
func (b *ModelBuilder) FieldDecl(name string, f *modeldecl.Field) *ModelBuilder {
	b.decls = append(b.decls, modeldecl.FieldDecl{Name: name, Field: f})
	return b
}

// Build computes the effective field map and returns the class. Definition
// problems (duplicate names, missing types) surface here, not at
// validation time.
func (b *ModelBuilder) Build() (*modeldecl.ModelClass, error) {
	return modeldecl.NewClass(b.name, b.parent, b.decls)
}

// MustBuild is Build panicking on definition errors.
func (b *ModelBuilder) MustBuild() *modeldecl.ModelClass {
	c, err := b.Build()
	if err != nil {
		panic(err)
	}
	return c
}
