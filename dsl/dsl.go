package dsl

import (
	"fmt"

	modeldecl "github.com/modeldecl/modeldecl"
	"github.com/modeldecl/modeldecl/i18n"
)

// invalidType builds the leaf error shared by every native-representation check.
func invalidType(v any, want string) *modeldecl.Error {
	return &modeldecl.Error{
		Code:    modeldecl.CodeInvalidType,
		Message: i18n.T(modeldecl.CodeInvalidType, nil),
		Hint:    fmt.Sprintf("expected %s, got %T", want, v),
		Params:  map[string]any{"expected": want, "got": fmt.Sprintf("%T", v)},
	}
}

// runRefiners executes extra validators in declaration order; the first
// failure wins and is returned as-is.
func runRefiners(refiners []func(any) error, v any) error {
	for _, fn := range refiners {
		if err := fn(v); err != nil {
			return err
		}
	}
	return nil
}

// checkLen enforces configured length bounds on an already type-checked value.
func checkLen(n int, minLen, maxLen *int) error {
	if minLen != nil && n < *minLen {
		return &modeldecl.Error{
			Code:    modeldecl.CodeTooShort,
			Message: i18n.T(modeldecl.CodeTooShort, nil),
			Params:  map[string]any{"min": *minLen, "got": n},
		}
	}
	if maxLen != nil && n > *maxLen {
		return &modeldecl.Error{
			Code:    modeldecl.CodeTooLong,
			Message: i18n.T(modeldecl.CodeTooLong, nil),
			Params:  map[string]any{"max": *maxLen, "got": n},
		}
	}
	return nil
}
