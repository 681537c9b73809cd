package dsl

import (
	"context"

	modeldecl "github.com/modeldecl/modeldecl"
)

// ListType validates ordered []any collections. When an item type is
// configured, every element is validated against it and failures aggregate
// into a *ModelError keyed by element index; one bad element never stops
// the others from being checked (outside fail-fast).
type ListType struct {
	item           modeldecl.Type
	minLen, maxLen *int
	refiners       []func(any) error
}

// List returns a list type descriptor. A nil item leaves elements
// unconstrained.
func List(item modeldecl.Type) *ListType { return &ListType{item: item} }

// MinLen sets the minimum element count.
func (t *ListType) MinLen(n int) *ListType {
	t.minLen = &n
	return t
}

// MaxLen sets the maximum element count.
func (t *ListType) MaxLen(n int) *ListType {
	t.maxLen = &n
	return t
}

// Refine appends an extra validator run after the built-in checks.
func (t *ListType) Refine(fn func(any) error) *ListType {
	t.refiners = append(t.refiners, fn)
	return t
}

func (t *ListType) Kind() modeldecl.Kind { return modeldecl.KindList }

func (t *ListType) Item() modeldecl.Type { return t.item }

func (t *ListType) Ordered() bool { return true }

func (t *ListType) Default() any { return []any{} }

func (t *ListType) Validate(ctx context.Context, v any) error {
	items, ok := v.([]any)
	if !ok {
		return invalidType(v, "[]any")
	}
	if err := runRefiners(t.refiners, v); err != nil {
		return err
	}
	if err := checkLen(len(items), t.minLen, t.maxLen); err != nil {
		return err
	}
	if t.item == nil {
		return nil
	}
	me := modeldecl.NewModelError()
	for i, item := range items {
		if err := t.item.Validate(ctx, item); err != nil {
			me.AddFieldError(i, err)
			if modeldecl.IsFailFast(ctx) {
				break
			}
		}
	}
	if me.HasErrors() {
		return me
	}
	return nil
}

// SetType validates unordered map[any]struct{} collections, aggregating
// per-member failures under the member value itself.
type SetType struct {
	item           modeldecl.Type
	minLen, maxLen *int
	refiners       []func(any) error
}

// Set returns a set type descriptor. A nil item leaves members
// unconstrained.
func Set(item modeldecl.Type) *SetType { return &SetType{item: item} }

// MinLen sets the minimum member count.
func (t *SetType) MinLen(n int) *SetType {
	t.minLen = &n
	return t
}

// MaxLen sets the maximum member count.
func (t *SetType) MaxLen(n int) *SetType {
	t.maxLen = &n
	return t
}

// Refine appends an extra validator run after the built-in checks.
func (t *SetType) Refine(fn func(any) error) *SetType {
	t.refiners = append(t.refiners, fn)
	return t
}

func (t *SetType) Kind() modeldecl.Kind { return modeldecl.KindSet }

func (t *SetType) Item() modeldecl.Type { return t.item }

func (t *SetType) Ordered() bool { return false }

func (t *SetType) Default() any { return map[any]struct{}{} }

func (t *SetType) Validate(ctx context.Context, v any) error {
	members, ok := v.(map[any]struct{})
	if !ok {
		return invalidType(v, "map[any]struct{}")
	}
	if err := runRefiners(t.refiners, v); err != nil {
		return err
	}
	if err := checkLen(len(members), t.minLen, t.maxLen); err != nil {
		return err
	}
	if t.item == nil {
		return nil
	}
	me := modeldecl.NewModelError()
	for member := range members {
		if err := t.item.Validate(ctx, member); err != nil {
			me.AddFieldError(member, err)
			if modeldecl.IsFailFast(ctx) {
				break
			}
		}
	}
	if me.HasErrors() {
		return me
	}
	return nil
}

// DictType validates map[any]any values. When key and/or value types are
// configured, every pair is validated and failures aggregate under the
// pair's key using the fixed sub-keys "key" and "value" to tell the two
// sides apart.
type DictType struct {
	key, value     modeldecl.Type
	minLen, maxLen *int
	refiners       []func(any) error
}

// Dict returns a dict type descriptor. Nil key/value types leave that side
// unconstrained.
func Dict(key, value modeldecl.Type) *DictType { return &DictType{key: key, value: value} }

// MinLen sets the minimum entry count.
func (t *DictType) MinLen(n int) *DictType {
	t.minLen = &n
	return t
}

// MaxLen sets the maximum entry count.
func (t *DictType) MaxLen(n int) *DictType {
	t.maxLen = &n
	return t
}

// Refine appends an extra validator run after the built-in checks.
func (t *DictType) Refine(fn func(any) error) *DictType {
	t.refiners = append(t.refiners, fn)
	return t
}

func (t *DictType) Kind() modeldecl.Kind { return modeldecl.KindDict }

func (t *DictType) KeyType() modeldecl.Type { return t.key }

func (t *DictType) ValueType() modeldecl.Type { return t.value }

func (t *DictType) Default() any { return map[any]any{} }

func (t *DictType) Validate(ctx context.Context, v any) error {
	entries, ok := v.(map[any]any)
	if !ok {
		return invalidType(v, "map[any]any")
	}
	if err := runRefiners(t.refiners, v); err != nil {
		return err
	}
	if err := checkLen(len(entries), t.minLen, t.maxLen); err != nil {
		return err
	}
	if t.key == nil && t.value == nil {
		return nil
	}
	me := modeldecl.NewModelError()
	for k, val := range entries {
		if t.key != nil {
			if err := t.key.Validate(ctx, k); err != nil {
				me.Field(k).AddFieldError("key", err)
				if modeldecl.IsFailFast(ctx) {
					break
				}
			}
		}
		if t.value != nil {
			if err := t.value.Validate(ctx, val); err != nil {
				me.Field(k).AddFieldError("value", err)
				if modeldecl.IsFailFast(ctx) {
					break
				}
			}
		}
	}
	if me.HasErrors() {
		return me
	}
	return nil
}
