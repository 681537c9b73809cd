package codec

import (
	"context"
	"fmt"

	"gopkg.in/yaml.v3"

	modeldecl "github.com/modeldecl/modeldecl"
	"github.com/modeldecl/modeldecl/i18n"
)

// YAML converts between model instances and YAML text. It shares the Map
// walk and error contract with the JSON serializer: decode failures and
// wrong top-level shapes surface as aggregate validation errors.
type YAML struct {
	m *Map
}

// NewYAML builds a YAML serializer. A nil codec means the default YAML
// value codec (temporal values as strings on encode, with time.Time from
// the YAML timestamp resolver accepted on decode).
func NewYAML(vc ValueCodec) *YAML {
	if vc == nil {
		vc = yamlValue{}
	}
	return &YAML{m: NewMap(vc)}
}

// Serialize renders an instance as YAML text, walking the instance's own
// class.
func (s *YAML) Serialize(ctx context.Context, inst *modeldecl.Instance, opts ...Option) ([]byte, error) {
	if inst == nil {
		return nil, fmt.Errorf("codec: value is not a model instance")
	}
	return s.SerializeAs(ctx, inst, inst.Class(), opts...)
}

// SerializeAs renders an instance as YAML text using an explicit target.
func (s *YAML) SerializeAs(ctx context.Context, inst *modeldecl.Instance, target modeldecl.ModelTarget, opts ...Option) ([]byte, error) {
	m, err := s.m.SerializeAs(ctx, inst, target, opts...)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(m)
}

// Deserialize parses YAML text and builds a new instance.
func (s *YAML) Deserialize(ctx context.Context, data []byte, target modeldecl.ModelTarget, opts ...Option) (*modeldecl.Instance, error) {
	v, err := s.decode(data)
	if err != nil {
		return nil, wrapValidation(err)
	}
	return s.m.Deserialize(ctx, v, target, opts...)
}

// DeserializeInto parses YAML text into an existing instance, mutating it
// in place.
func (s *YAML) DeserializeInto(ctx context.Context, data []byte, inst *modeldecl.Instance, opts ...Option) (*modeldecl.Instance, error) {
	v, err := s.decode(data)
	if err != nil {
		return nil, wrapValidation(err)
	}
	return s.m.DeserializeInto(ctx, v, inst, opts...)
}

func (s *YAML) decode(data []byte) (any, error) {
	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, &modeldecl.Error{
			Code:    modeldecl.CodeParseError,
			Message: i18n.T(modeldecl.CodeParseError, nil),
			Hint:    "value is not valid YAML: " + err.Error(),
			Cause:   err,
		}
	}
	return v, nil
}
