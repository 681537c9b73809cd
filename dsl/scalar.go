package dsl

import (
	"context"

	modeldecl "github.com/modeldecl/modeldecl"
	"github.com/modeldecl/modeldecl/i18n"
)

// BoolType validates native bool values. Default is false.
type BoolType struct {
	refiners []func(any) error
}

// Bool returns a boolean type descriptor.
func Bool() *BoolType { return &BoolType{} }

// Refine appends an extra validator run after the built-in checks.
func (t *BoolType) Refine(fn func(any) error) *BoolType {
	t.refiners = append(t.refiners, fn)
	return t
}

func (t *BoolType) Kind() modeldecl.Kind { return modeldecl.KindBool }

func (t *BoolType) Default() any { return false }

func (t *BoolType) Validate(ctx context.Context, v any) error {
	if _, ok := v.(bool); !ok {
		return invalidType(v, "bool")
	}
	// extra validators run right after the representation check
	return runRefiners(t.refiners, v)
}

// IntType validates native int values with optional ordering bounds.
// The representation is strict: a bool or a float is never accepted where
// an int is required, and no implicit numeric coercion happens. Default is 0.
type IntType struct {
	min, max *int
	refiners []func(any) error
}

// Int returns an integer type descriptor.
func Int() *IntType { return &IntType{} }

// Min sets the inclusive lower bound.
func (t *IntType) Min(n int) *IntType {
	t.min = &n
	return t
}

// Max sets the inclusive upper bound.
func (t *IntType) Max(n int) *IntType {
	t.max = &n
	return t
}

// Refine appends an extra validator run after the built-in checks.
func (t *IntType) Refine(fn func(any) error) *IntType {
	t.refiners = append(t.refiners, fn)
	return t
}

func (t *IntType) Kind() modeldecl.Kind { return modeldecl.KindInt }

func (t *IntType) Default() any { return 0 }

func (t *IntType) Validate(ctx context.Context, v any) error {
	n, ok := v.(int)
	if !ok {
		return invalidType(v, "int")
	}
	if err := runRefiners(t.refiners, v); err != nil {
		return err
	}
	if t.min != nil && n < *t.min {
		return &modeldecl.Error{
			Code:    modeldecl.CodeTooSmall,
			Message: i18n.T(modeldecl.CodeTooSmall, nil),
			Params:  map[string]any{"min": *t.min, "got": n},
		}
	}
	if t.max != nil && n > *t.max {
		return &modeldecl.Error{
			Code:    modeldecl.CodeTooBig,
			Message: i18n.T(modeldecl.CodeTooBig, nil),
			Params:  map[string]any{"max": *t.max, "got": n},
		}
	}
	return nil
}
