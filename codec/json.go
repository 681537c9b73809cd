package codec

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-json"

	modeldecl "github.com/modeldecl/modeldecl"
	"github.com/modeldecl/modeldecl/i18n"
	"github.com/modeldecl/modeldecl/internal/jsonenc"
)

// JSON converts between model instances and JSON text. Decoding failures
// are reported as validation errors, uniformly with field-level failures.
type JSON struct {
	m        *Map
	sortKeys bool
}

// JSONOption configures a JSON serializer.
type JSONOption func(*JSON)

// SortKeys switches emitted object keys from field-declaration order to
// fully sorted order.
func SortKeys() JSONOption {
	return func(s *JSON) { s.sortKeys = true }
}

// NewJSON builds a JSON serializer. A nil codec means the default JSON
// value codec: temporal values as strings, json.Number decoded to int for
// int-typed fields.
func NewJSON(vc ValueCodec, opts ...JSONOption) *JSON {
	if vc == nil {
		vc = jsonValue{}
	}
	s := &JSON{m: NewMap(vc)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Serialize renders an instance as JSON text, walking the instance's own
// class.
func (s *JSON) Serialize(ctx context.Context, inst *modeldecl.Instance, opts ...Option) ([]byte, error) {
	if inst == nil {
		return nil, fmt.Errorf("codec: value is not a model instance")
	}
	return s.SerializeAs(ctx, inst, inst.Class(), opts...)
}

// SerializeAs renders an instance as JSON text using an explicit target; a
// polymorphic group target injects its type tag, emitted last in
// declaration-order mode.
func (s *JSON) SerializeAs(ctx context.Context, inst *modeldecl.Instance, target modeldecl.ModelTarget, opts ...Option) ([]byte, error) {
	m, err := s.m.SerializeAs(ctx, inst, target, opts...)
	if err != nil {
		return nil, err
	}
	return jsonenc.Marshal(m, target, s.sortKeys)
}

// Deserialize parses JSON text and builds a new instance. A syntactically
// invalid document surfaces as an aggregate carrying one parse_error.
func (s *JSON) Deserialize(ctx context.Context, data []byte, target modeldecl.ModelTarget, opts ...Option) (*modeldecl.Instance, error) {
	v, err := s.decode(data)
	if err != nil {
		return nil, wrapValidation(err)
	}
	return s.m.Deserialize(ctx, v, target, opts...)
}

// DeserializeInto parses JSON text into an existing instance, mutating it
// in place.
func (s *JSON) DeserializeInto(ctx context.Context, data []byte, inst *modeldecl.Instance, opts ...Option) (*modeldecl.Instance, error) {
	v, err := s.decode(data)
	if err != nil {
		return nil, wrapValidation(err)
	}
	return s.m.DeserializeInto(ctx, v, inst, opts...)
}

func (s *JSON) decode(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, &modeldecl.Error{
			Code:    modeldecl.CodeParseError,
			Message: i18n.T(modeldecl.CodeParseError, nil),
			Hint:    "value is not valid JSON: " + err.Error(),
			Cause:   err,
		}
	}
	return v, nil
}
