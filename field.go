package modeldecl

import (
	"context"

	"github.com/modeldecl/modeldecl/i18n"
)

// Field declares one named, typed model attribute: a type descriptor, a
// required flag, and a default policy. Zero configuration means required
// with the type's own default.
type Field struct {
	typ      Type
	required bool
	def      any
	defFn    func() any
	hasDef   bool
}

// FieldOption configures a Field at declaration time.
type FieldOption func(*Field)

// Optional marks the field as accepting absence. Its implicit default
// becomes the null-like absence value instead of the type's default.
func Optional() FieldOption {
	return func(f *Field) { f.required = false }
}

// Default sets a literal default value, overriding the type-derived one.
func Default(v any) FieldOption {
	return func(f *Field) {
		f.def = v
		f.defFn = nil
		f.hasDef = true
	}
}

// DefaultFunc sets a producer invoked each time a default is needed.
func DefaultFunc(fn func() any) FieldOption {
	return func(f *Field) {
		f.def = nil
		f.defFn = fn
		f.hasDef = true
	}
}

// NewField builds a field descriptor for the given type. Fields are
// immutable once attached to a model class.
func NewField(t Type, opts ...FieldOption) *Field {
	f := &Field{typ: t, required: true}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Type returns the field's type descriptor.
func (f *Field) Type() Type { return f.typ }

// Required reports whether absence is a validation failure.
func (f *Field) Required() bool { return f.required }

// CreateDefault resolves the field's default: an explicit default wins
// (producers are invoked), then a required field derives from the type, and
// an optional field defaults to absence (nil).
func (f *Field) CreateDefault() any {
	if f.hasDef {
		if f.defFn != nil {
			return f.defFn()
		}
		return f.def
	}
	if f.required {
		return f.typ.Default()
	}
	return nil
}

// Validate checks a single field value. Absence (nil) is acceptable only
// when the field is not required; a present value is delegated to the type
// descriptor.
func (f *Field) Validate(ctx context.Context, v any) error {
	if v == nil {
		if f.required {
			return &Error{Code: CodeRequired, Message: i18n.T(CodeRequired, nil)}
		}
		return nil
	}
	return f.typ.Validate(ctx, v)
}
