package modeldecl

import (
	"context"
	"fmt"
	"reflect"
)

// FieldDecl pairs a field name with its descriptor at class-definition time.
type FieldDecl struct {
	Name  string
	Field *Field
}

type fieldSlot struct {
	name  string
	field *Field
}

// ModelClass is an immutable, ordered field map plus an optional parent
// class. The effective fields are computed once at construction: the
// ancestor's fields (furthest ancestor first) overlaid by the class's own
// declarations, where a re-declared name replaces the inherited descriptor
// in place and new names append in declaration order.
type ModelClass struct {
	name   string
	parent *ModelClass
	slots  []fieldSlot
	index  map[string]int
	depth  int
}

func (*ModelClass) modelTarget() {}

// NewClass builds a model class. It fails on empty or duplicate field names
// and on nil field descriptors; these are definition-time errors, distinct
// from validation failures.
func NewClass(name string, parent *ModelClass, fields []FieldDecl) (*ModelClass, error) {
	c := &ModelClass{name: name, parent: parent, depth: 1}
	if parent != nil {
		c.depth = parent.depth + 1
		c.slots = make([]fieldSlot, len(parent.slots))
		copy(c.slots, parent.slots)
	}
	c.index = make(map[string]int, len(c.slots)+len(fields))
	for i, slot := range c.slots {
		c.index[slot.name] = i
	}
	seen := make(map[string]struct{}, len(fields))
	for _, decl := range fields {
		if decl.Name == "" {
			return nil, fmt.Errorf("modeldecl: model %q declares a field with an empty name", name)
		}
		if decl.Field == nil || decl.Field.Type() == nil {
			return nil, fmt.Errorf("modeldecl: model %q field %q has no type", name, decl.Name)
		}
		if _, dup := seen[decl.Name]; dup {
			return nil, fmt.Errorf("modeldecl: model %q declares field %q twice", name, decl.Name)
		}
		seen[decl.Name] = struct{}{}
		if at, ok := c.index[decl.Name]; ok {
			c.slots[at].field = decl.Field
			continue
		}
		c.index[decl.Name] = len(c.slots)
		c.slots = append(c.slots, fieldSlot{name: decl.Name, field: decl.Field})
	}
	return c, nil
}

// Name returns the class name given at definition time.
func (c *ModelClass) Name() string { return c.name }

// Parent returns the direct ancestor class, or nil.
func (c *ModelClass) Parent() *ModelClass { return c.parent }

// Depth is the length of the ancestor chain including the class itself.
// Polymorphic groups use it to rank specificity.
func (c *ModelClass) Depth() int { return c.depth }

// FieldNames returns the effective field names in declaration order.
func (c *ModelClass) FieldNames() []string {
	out := make([]string, len(c.slots))
	for i, slot := range c.slots {
		out[i] = slot.name
	}
	return out
}

// FieldByName returns the effective descriptor for name.
func (c *ModelClass) FieldByName(name string) (*Field, bool) {
	if at, ok := c.index[name]; ok {
		return c.slots[at].field, true
	}
	return nil, false
}

// NumFields returns the number of effective fields.
func (c *ModelClass) NumFields() int { return len(c.slots) }

// Extends reports whether c is other or descends from it.
func (c *ModelClass) Extends(other *ModelClass) bool {
	for cur := c; cur != nil; cur = cur.parent {
		if cur == other {
			return true
		}
	}
	return false
}

// New constructs an instance: every declared field is set from values when
// present, from the field's default otherwise. Unknown names fail with a
// definition-time error.
func (c *ModelClass) New(values map[string]any) (*Instance, error) {
	for name := range values {
		if _, ok := c.index[name]; !ok {
			return nil, fmt.Errorf("modeldecl: unknown field %q on model %q", name, c.name)
		}
	}
	inst := &Instance{class: c, values: make([]any, len(c.slots))}
	for i, slot := range c.slots {
		if v, ok := values[slot.name]; ok {
			inst.values[i] = v
			continue
		}
		inst.values[i] = slot.field.CreateDefault()
	}
	return inst, nil
}

// MustNew is New panicking on error, for statically known field names.
func (c *ModelClass) MustNew(values map[string]any) *Instance {
	inst, err := c.New(values)
	if err != nil {
		panic(err)
	}
	return inst
}

// Instance holds one value per declared field of its class. Instances are
// mutable and not safe for concurrent writers; classes are immutable and
// freely shared.
type Instance struct {
	class  *ModelClass
	values []any
}

// Class returns the instance's model class.
func (m *Instance) Class() *ModelClass { return m.class }

// Get returns the value of the named field.
func (m *Instance) Get(name string) (any, bool) {
	at, ok := m.class.index[name]
	if !ok {
		return nil, false
	}
	return m.values[at], true
}

// MustGet is Get panicking on unknown names.
func (m *Instance) MustGet(name string) any {
	v, ok := m.Get(name)
	if !ok {
		panic(fmt.Sprintf("modeldecl: unknown field %q on model %q", name, m.class.name))
	}
	return v
}

// Set assigns the named field.
func (m *Instance) Set(name string, v any) error {
	at, ok := m.class.index[name]
	if !ok {
		return fmt.Errorf("modeldecl: unknown field %q on model %q", name, m.class.name)
	}
	m.values[at] = v
	return nil
}

// Validate runs every field's validation, aggregating failures into a
// *ModelError keyed by field name. It returns nil when everything passes;
// one failing field never prevents the others from being checked unless the
// context is marked fail-fast.
func (m *Instance) Validate(ctx context.Context) error {
	me := NewModelError()
	for i, slot := range m.class.slots {
		if err := slot.field.Validate(ctx, m.values[i]); err != nil {
			me.AddFieldError(slot.name, err)
			if IsFailFast(ctx) {
				break
			}
		}
	}
	if me.HasErrors() {
		return me
	}
	return nil
}

// Equal reports structural equality: the exact same class (subclasses are
// never equal to base or sibling instances) and equal values for every
// declared field.
func (m *Instance) Equal(other *Instance) bool {
	if m == nil || other == nil {
		return m == other
	}
	if m.class != other.class {
		return false
	}
	for i := range m.values {
		if !valueEqual(m.values[i], other.values[i]) {
			return false
		}
	}
	return true
}

func valueEqual(a, b any) bool {
	switch av := a.(type) {
	case *Instance:
		bv, ok := b.(*Instance)
		return ok && av.Equal(bv)
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !valueEqual(av[i], bv[i]) {
				return false
			}
		}
		return true
	case map[any]struct{}:
		bv, ok := b.(map[any]struct{})
		if !ok || len(av) != len(bv) {
			return false
		}
		for k := range av {
			if _, present := bv[k]; !present {
				return false
			}
		}
		return true
	case map[any]any:
		bv, ok := b.(map[any]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, v := range av {
			bvv, present := bv[k]
			if !present || !valueEqual(v, bvv) {
				return false
			}
		}
		return true
	case map[string]any:
		bv, ok := b.(map[string]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, v := range av {
			bvv, present := bv[k]
			if !present || !valueEqual(v, bvv) {
				return false
			}
		}
		return true
	}
	return reflect.DeepEqual(a, b)
}
