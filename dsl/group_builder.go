package dsl

import (
	"fmt"

	modeldecl "github.com/modeldecl/modeldecl"
)

// GroupBuilder assembles a polymorphic model group: a tag key plus the
// tag-to-class variants in declaration order.
type GroupBuilder struct {
	name     string
	tagKey   string
	variants []modeldecl.GroupVariant
	err      error
}

// DefineGroup starts a polymorphic group declaration. The tag key defaults
// to modeldecl.DefaultTagKey.
func DefineGroup(name string) *GroupBuilder {
	return &GroupBuilder{name: name}
}

// TagKey sets the serialized key carrying the type tag.
func (b *GroupBuilder) TagKey(key string) *GroupBuilder {
	b.tagKey = key
	return b
}

// Variant maps a type-tag string to a concrete model class. Declaration
// order matters: it breaks specificity ties in the reverse index.
func (b *GroupBuilder) Variant(tag string, class *modeldecl.ModelClass) *GroupBuilder {
	b.variants = append(b.variants, modeldecl.GroupVariant{Tag: tag, Class: class})
	return b
}

// Extend records a definition-time error: dispatch is exactly one level
// deep, so a group can never derive from another group.
func (b *GroupBuilder) Extend(base *modeldecl.Group) *GroupBuilder {
	if b.err == nil {
		b.err = fmt.Errorf("dsl: polymorphic group %q cannot extend group %q: groups cannot be subclassed", b.name, base.Name())
	}
	return b
}

// Build computes the dispatch indexes and returns the group.
func (b *GroupBuilder) Build() (*modeldecl.Group, error) {
	if b.err != nil {
		return nil, b.err
	}
	return modeldecl.NewGroup(b.name, b.tagKey, b.variants)
}

// MustBuild is Build panicking on definition errors.
func (b *GroupBuilder) MustBuild() *modeldecl.Group {
	g, err := b.Build()
	if err != nil {
		panic(err)
	}
	return g
}
