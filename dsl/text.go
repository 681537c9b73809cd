package dsl

import (
	"context"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	modeldecl "github.com/modeldecl/modeldecl"
	"github.com/modeldecl/modeldecl/i18n"
)

// StringType validates native string values with optional length bounds and
// a search pattern. Lengths are measured in runes. Default is "".
type StringType struct {
	minLen, maxLen *int
	pattern        *regexp.Regexp
	refiners       []func(any) error
}

// String returns a text type descriptor.
func String() *StringType { return &StringType{} }

// MinLen sets the minimum length in runes.
func (t *StringType) MinLen(n int) *StringType {
	t.minLen = &n
	return t
}

// MaxLen sets the maximum length in runes.
func (t *StringType) MaxLen(n int) *StringType {
	t.maxLen = &n
	return t
}

// Pattern requires the value to match expr anywhere (unanchored search).
// The expression must compile; a bad pattern is a definition-time panic.
func (t *StringType) Pattern(expr string) *StringType {
	t.pattern = regexp.MustCompile(expr)
	return t
}

// Refine appends an extra validator run after the built-in checks.
func (t *StringType) Refine(fn func(any) error) *StringType {
	t.refiners = append(t.refiners, fn)
	return t
}

func (t *StringType) Kind() modeldecl.Kind { return modeldecl.KindString }

func (t *StringType) Default() any { return "" }

func (t *StringType) Validate(ctx context.Context, v any) error {
	s, ok := v.(string)
	if !ok {
		return invalidType(v, "string")
	}
	if err := runRefiners(t.refiners, v); err != nil {
		return err
	}
	if err := checkLen(utf8.RuneCountInString(s), t.minLen, t.maxLen); err != nil {
		return err
	}
	if t.pattern != nil && !t.pattern.MatchString(s) {
		return &modeldecl.Error{
			Code:    modeldecl.CodePattern,
			Message: i18n.T(modeldecl.CodePattern, nil),
			Params:  map[string]any{"pattern": t.pattern.String()},
		}
	}
	return nil
}

// URLType is StringType plus URL well-formedness and an optional scheme
// whitelist.
type URLType struct {
	str     StringType
	schemes []string
}

// URL returns a URL type descriptor.
func URL() *URLType { return &URLType{} }

// MinLen sets the minimum length in runes.
func (t *URLType) MinLen(n int) *URLType {
	t.str.MinLen(n)
	return t
}

// MaxLen sets the maximum length in runes.
func (t *URLType) MaxLen(n int) *URLType {
	t.str.MaxLen(n)
	return t
}

// Pattern requires the value to match expr anywhere (unanchored search).
func (t *URLType) Pattern(expr string) *URLType {
	t.str.Pattern(expr)
	return t
}

// Schemes whitelists the URL schemes accepted by Validate.
func (t *URLType) Schemes(schemes ...string) *URLType {
	t.schemes = append(t.schemes, schemes...)
	return t
}

// Refine appends an extra validator run after the built-in checks.
func (t *URLType) Refine(fn func(any) error) *URLType {
	t.str.Refine(fn)
	return t
}

func (t *URLType) Kind() modeldecl.Kind { return modeldecl.KindURL }

func (t *URLType) Default() any { return "" }

func (t *URLType) Validate(ctx context.Context, v any) error {
	if err := t.str.Validate(ctx, v); err != nil {
		return err
	}
	s := v.(string)
	parsed, err := url.Parse(s)
	if err != nil {
		return &modeldecl.Error{
			Code:    modeldecl.CodeInvalidFormat,
			Message: i18n.T(modeldecl.CodeInvalidFormat, nil),
			Hint:    "not a parseable URL",
			Cause:   err,
		}
	}
	if len(t.schemes) > 0 {
		found := false
		for _, scheme := range t.schemes {
			if parsed.Scheme == scheme {
				found = true
				break
			}
		}
		if !found {
			return &modeldecl.Error{
				Code:    modeldecl.CodeInvalidScheme,
				Message: i18n.T(modeldecl.CodeInvalidScheme, nil),
				Hint:    "allowed: " + strings.Join(t.schemes, ", "),
				Params:  map[string]any{"scheme": parsed.Scheme},
			}
		}
	}
	return nil
}
