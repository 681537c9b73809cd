package modeldecl

import (
	"fmt"
	"sort"

	"github.com/modeldecl/modeldecl/i18n"
)

// DefaultTagKey is the serialized key carrying a polymorphic type tag when
// a group does not configure its own.
const DefaultTagKey = "type"

// GroupVariant maps one type-tag string to a concrete model class.
type GroupVariant struct {
	Tag   string
	Class *ModelClass
}

// Group is a polymorphic model group: a named union of concrete model
// classes dispatched by a string tag carried in serialized data. The
// reverse index (class to best-matching tag) ranks the most-derived class
// first; on equal depth the earlier variant wins, so registration order is
// part of the contract.
type Group struct {
	name   string
	tagKey string
	byTag  map[string]*ModelClass
	ranked []GroupVariant
}

func (*Group) modelTarget() {}

// NewGroup builds a polymorphic group. Duplicate tags and nil classes are
// definition-time errors. An empty tagKey means DefaultTagKey.
func NewGroup(name, tagKey string, variants []GroupVariant) (*Group, error) {
	if tagKey == "" {
		tagKey = DefaultTagKey
	}
	g := &Group{
		name:   name,
		tagKey: tagKey,
		byTag:  make(map[string]*ModelClass, len(variants)),
		ranked: make([]GroupVariant, len(variants)),
	}
	for _, v := range variants {
		if v.Tag == "" {
			return nil, fmt.Errorf("modeldecl: group %q declares a variant with an empty tag", name)
		}
		if v.Class == nil {
			return nil, fmt.Errorf("modeldecl: group %q variant %q has no model class", name, v.Tag)
		}
		if _, dup := g.byTag[v.Tag]; dup {
			return nil, fmt.Errorf("modeldecl: group %q declares tag %q twice", name, v.Tag)
		}
		g.byTag[v.Tag] = v.Class
	}
	copy(g.ranked, variants)
	sort.SliceStable(g.ranked, func(i, j int) bool {
		return g.ranked[i].Class.Depth() > g.ranked[j].Class.Depth()
	})
	return g, nil
}

// Name returns the group name given at definition time.
func (g *Group) Name() string { return g.name }

// TagKey returns the serialized key carrying the type tag.
func (g *Group) TagKey() string { return g.tagKey }

// Variants returns the tag-to-class pairs in specificity (dispatch) order.
func (g *Group) Variants() []GroupVariant {
	out := make([]GroupVariant, len(g.ranked))
	copy(out, g.ranked)
	return out
}

// ClassFor resolves a tag to its concrete model class.
func (g *Group) ClassFor(tag string) (*ModelClass, bool) {
	c, ok := g.byTag[tag]
	return c, ok
}

// TagFor returns the best-matching tag for a class: the most specific
// variant whose class the queried class equals or descends from.
func (g *Group) TagFor(class *ModelClass) (string, bool) {
	for _, v := range g.ranked {
		if class.Extends(v.Class) {
			return v.Tag, true
		}
	}
	return "", false
}

// Accepts reports whether class (or one of its ancestors) is a member of
// the group, the issubclass-style capability check.
func (g *Group) Accepts(class *ModelClass) bool {
	_, ok := g.TagFor(class)
	return ok
}

// New resolves a tag to its concrete class and constructs an instance,
// failing when the tag is unknown.
func (g *Group) New(tag string, values map[string]any) (*Instance, error) {
	class, ok := g.byTag[tag]
	if !ok {
		return nil, fmt.Errorf("modeldecl: unknown model type name %q for group %q", tag, g.name)
	}
	return class.New(values)
}

// ---- Free helpers shared by the serializers ----

// ClassForTag resolves target to a concrete model class. A plain class is
// returned as-is; a group resolves the tag, failing with a validation error
// when the tag is not a member.
func ClassForTag(target ModelTarget, tag string) (*ModelClass, error) {
	g, ok := target.(*Group)
	if !ok {
		return target.(*ModelClass), nil
	}
	class, ok := g.ClassFor(tag)
	if !ok {
		return nil, &Error{
			Code:    CodeDiscriminatorUnknown,
			Message: i18n.T(CodeDiscriminatorUnknown, nil),
			Hint:    fmt.Sprintf("%q is not in allowed types", tag),
		}
	}
	return class, nil
}

// TagForClass returns the tag a group serializes class under. Asking a
// non-polymorphic target, or a group with no matching variant, is a
// definition-time error.
func TagForClass(target ModelTarget, class *ModelClass) (string, error) {
	g, ok := target.(*Group)
	if !ok {
		return "", fmt.Errorf("modeldecl: %q is not a polymorphic group", targetName(target))
	}
	tag, ok := g.TagFor(class)
	if !ok {
		return "", fmt.Errorf("modeldecl: could not determine type name for model %q using group %q", class.Name(), g.name)
	}
	return tag, nil
}

// TagKeyOf returns the tag key of a polymorphic target, or ok=false for a
// plain model class.
func TagKeyOf(target ModelTarget) (string, bool) {
	if g, ok := target.(*Group); ok {
		return g.tagKey, true
	}
	return "", false
}

func targetName(target ModelTarget) string {
	switch t := target.(type) {
	case *ModelClass:
		return t.Name()
	case *Group:
		return t.Name()
	}
	return fmt.Sprintf("%T", target)
}

// TargetAccepts reports whether an instance of class is a valid value for
// target (the class itself or a descendant, or a group member).
func TargetAccepts(target ModelTarget, class *ModelClass) bool {
	switch t := target.(type) {
	case *ModelClass:
		return class.Extends(t)
	case *Group:
		return t.Accepts(class)
	}
	return false
}
