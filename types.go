package modeldecl

import "context"

// Kind identifies a value type variant. Serializers dispatch on it instead
// of reflecting over descriptor implementations.
type Kind int

const (
	KindBool Kind = iota
	KindInt
	KindString
	KindURL
	KindList
	KindSet
	KindDict
	KindModel
	KindDate
	KindTime
	KindDateTime
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindString:
		return "string"
	case KindURL:
		return "url"
	case KindList:
		return "list"
	case KindSet:
		return "set"
	case KindDict:
		return "dict"
	case KindModel:
		return "model"
	case KindDate:
		return "date"
	case KindTime:
		return "time"
	case KindDateTime:
		return "datetime"
	}
	return "unknown"
}

// Type is a value-type descriptor: it validates a native value and produces
// the type's default. Descriptors are immutable once in use and safe to
// share across goroutines; see the dsl package for constructors.
type Type interface {
	Kind() Kind
	// Validate checks a single native value. Scalar checks fail with a leaf
	// *Error; composite descriptors aggregate per-element failures into a
	// *ModelError keyed by index, member, or mapping key.
	Validate(ctx context.Context, v any) error
	// Default returns the type's default value (zero-like for most kinds,
	// the current moment for temporal kinds).
	Default() any
}

// SequenceType is implemented by list and set descriptors.
type SequenceType interface {
	Type
	Item() Type    // nil when elements are unconstrained
	Ordered() bool // true for lists, false for sets
}

// MappingType is implemented by dict descriptors.
type MappingType interface {
	Type
	KeyType() Type   // nil when keys are unconstrained
	ValueType() Type // nil when values are unconstrained
}

// ModelRefType is implemented by model-referencing descriptors. Target
// resolves the referenced class or polymorphic group; by-name references
// may fail with *UnresolvedError.
type ModelRefType interface {
	Type
	Target() (ModelTarget, error)
}

// ModelTarget is either a *ModelClass or a polymorphic *Group. It is what
// model-referencing types point at and what the serializers accept.
type ModelTarget interface {
	modelTarget()
}

// ---- Validation-time context options ----

type contextKey int

const _ctxKeyFailFast contextKey = iota

// WithFailFast returns a child context that marks fail-fast validation:
// model validation, composite validation, and deserialization stop at the
// first recorded failure instead of collecting all of them.
func WithFailFast(ctx context.Context) context.Context {
	return context.WithValue(ctx, _ctxKeyFailFast, true)
}

// IsFailFast reports whether the current validation should stop on the
// first failure.
func IsFailFast(ctx context.Context) bool {
	b, _ := ctx.Value(_ctxKeyFailFast).(bool)
	return b
}
