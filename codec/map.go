package codec

import (
	"context"
	"fmt"
	"reflect"

	modeldecl "github.com/modeldecl/modeldecl"
	"github.com/modeldecl/modeldecl/i18n"
)

// FieldFilter decides which declared fields a serialize or deserialize call
// touches. A nil filter accepts every field.
type FieldFilter func(name string, f *modeldecl.Field) bool

// Names builds a membership filter accepting exactly the given field names.
func Names(names ...string) FieldFilter {
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return func(name string, _ *modeldecl.Field) bool {
		_, ok := set[name]
		return ok
	}
}

// Option adjusts a single serialize or deserialize call.
type Option func(*callOpts)

type callOpts struct {
	filter FieldFilter
}

// WithFields restricts the call to fields accepted by filter. The filter
// applies at every model level the call recurses through.
func WithFields(filter FieldFilter) Option {
	return func(o *callOpts) { o.filter = filter }
}

func applyOpts(opts []Option) callOpts {
	var o callOpts
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Map converts between model instances and plain nested structured values:
// models become map[string]any, lists stay []any, sets become []any, dicts
// stay map[any]any, scalars go through the ValueCodec.
type Map struct {
	values ValueCodec
}

// NewMap builds a structured-data serializer. A nil codec means Verbatim.
func NewMap(vc ValueCodec) *Map {
	if vc == nil {
		vc = Verbatim()
	}
	return &Map{values: vc}
}

// Serialize converts an instance into a plain nested mapping, walking the
// instance's own class.
func (s *Map) Serialize(ctx context.Context, inst *modeldecl.Instance, opts ...Option) (map[string]any, error) {
	if inst == nil {
		return nil, fmt.Errorf("codec: value is not a model instance")
	}
	return s.SerializeAs(ctx, inst, inst.Class(), opts...)
}

// SerializeAs converts an instance using an explicit target: fields still
// come from the instance's runtime class, and a polymorphic group target
// additionally injects its type tag under the group's tag key. The tag is
// written last, so it wins over a same-named declared field.
func (s *Map) SerializeAs(ctx context.Context, inst *modeldecl.Instance, target modeldecl.ModelTarget, opts ...Option) (map[string]any, error) {
	if inst == nil {
		return nil, fmt.Errorf("codec: value is not a model instance")
	}
	o := applyOpts(opts)
	return s.serializeModel(ctx, inst, target, o.filter)
}

// Deserialize builds a new instance from a plain nested mapping. A
// polymorphic group target requires its tag key in the input. All failures
// surface as one aggregate *modeldecl.ModelError.
func (s *Map) Deserialize(ctx context.Context, v any, target modeldecl.ModelTarget, opts ...Option) (*modeldecl.Instance, error) {
	o := applyOpts(opts)
	inst, err := s.deserializeModel(ctx, v, target, o.filter)
	return inst, wrapValidation(err)
}

// DeserializeInto mutates an existing instance in place from a plain nested
// mapping and returns it.
func (s *Map) DeserializeInto(ctx context.Context, v any, inst *modeldecl.Instance, opts ...Option) (*modeldecl.Instance, error) {
	o := applyOpts(opts)
	m, ok := v.(map[string]any)
	if !ok {
		return nil, wrapValidation(notAMapping(v))
	}
	out, err := s.deserializeInto(ctx, m, inst, o.filter)
	return out, wrapValidation(err)
}

// ---- serialization walk ----

func (s *Map) serializeModel(ctx context.Context, inst *modeldecl.Instance, target modeldecl.ModelTarget, filter FieldFilter) (map[string]any, error) {
	if inst == nil {
		return nil, nil
	}
	class := inst.Class()
	out := make(map[string]any, class.NumFields()+1)
	for _, name := range class.FieldNames() {
		f, _ := class.FieldByName(name)
		if filter != nil && !filter(name, f) {
			continue
		}
		v, _ := inst.Get(name)
		sv, err := s.serializeValue(ctx, v, f.Type(), filter)
		if err != nil {
			return nil, err
		}
		out[name] = sv
	}
	if tagKey, ok := modeldecl.TagKeyOf(target); ok {
		tag, err := modeldecl.TagForClass(target, class)
		if err != nil {
			return nil, err
		}
		out[tagKey] = tag
	}
	return out, nil
}

func (s *Map) serializeValue(ctx context.Context, v any, t modeldecl.Type, filter FieldFilter) (any, error) {
	switch tt := t.(type) {
	case modeldecl.ModelRefType:
		if v == nil {
			return nil, nil
		}
		inst, ok := v.(*modeldecl.Instance)
		if !ok {
			return nil, fmt.Errorf("codec: cannot serialize %T as a model value", v)
		}
		target, err := tt.Target()
		if err != nil {
			return nil, err
		}
		return s.serializeModel(ctx, inst, target, filter)
	case modeldecl.SequenceType:
		if v == nil {
			return nil, nil
		}
		if tt.Ordered() {
			items, ok := v.([]any)
			if !ok {
				return nil, fmt.Errorf("codec: cannot serialize %T as a list value", v)
			}
			out := make([]any, len(items))
			for i := range items {
				sv, err := s.serializeValue(ctx, items[i], tt.Item(), filter)
				if err != nil {
					return nil, err
				}
				out[i] = sv
			}
			return out, nil
		}
		members, ok := v.(map[any]struct{})
		if !ok {
			return nil, fmt.Errorf("codec: cannot serialize %T as a set value", v)
		}
		out := make([]any, 0, len(members))
		for member := range members {
			sv, err := s.serializeValue(ctx, member, tt.Item(), filter)
			if err != nil {
				return nil, err
			}
			out = append(out, sv)
		}
		return out, nil
	case modeldecl.MappingType:
		if v == nil {
			return nil, nil
		}
		entries, ok := v.(map[any]any)
		if !ok {
			return nil, fmt.Errorf("codec: cannot serialize %T as a dict value", v)
		}
		out := make(map[any]any, len(entries))
		for k, val := range entries {
			sk, err := s.serializeValue(ctx, k, tt.KeyType(), filter)
			if err != nil {
				return nil, err
			}
			sv, err := s.serializeValue(ctx, val, tt.ValueType(), filter)
			if err != nil {
				return nil, err
			}
			out[sk] = sv
		}
		return out, nil
	}
	return s.values.Encode(v, t)
}

// ---- deserialization walk ----

func (s *Map) deserializeModel(ctx context.Context, v any, target modeldecl.ModelTarget, filter FieldFilter) (*modeldecl.Instance, error) {
	if v == nil {
		return nil, nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, notAMapping(v)
	}
	var class *modeldecl.ModelClass
	if tagKey, polymorphic := modeldecl.TagKeyOf(target); polymorphic {
		raw, present := m[tagKey]
		if !present {
			return nil, &modeldecl.Error{
				Code:    modeldecl.CodeDiscriminatorMissing,
				Message: i18n.T(modeldecl.CodeDiscriminatorMissing, nil),
				Hint:    fmt.Sprintf("key %q is required", tagKey),
			}
		}
		tag, _ := raw.(string)
		resolved, err := modeldecl.ClassForTag(target, tag)
		if err != nil {
			return nil, err
		}
		class = resolved
	} else {
		class = target.(*modeldecl.ModelClass)
	}
	inst, err := class.New(nil)
	if err != nil {
		return nil, err
	}
	return s.deserializeInto(ctx, m, inst, filter)
}

func (s *Map) deserializeInto(ctx context.Context, m map[string]any, inst *modeldecl.Instance, filter FieldFilter) (*modeldecl.Instance, error) {
	class := inst.Class()
	me := modeldecl.NewModelError()
	for _, name := range class.FieldNames() {
		f, _ := class.FieldByName(name)
		if filter != nil && !filter(name, f) {
			continue
		}
		dv, err := s.deserializeValue(ctx, m[name], f.Type(), filter)
		if err == nil {
			err = f.Validate(ctx, dv)
		}
		if err != nil {
			// one failing field never aborts collection of the others
			if modeldecl.IsValidation(err) {
				me.AddFieldError(name, err)
				if modeldecl.IsFailFast(ctx) {
					break
				}
				continue
			}
			return nil, err
		}
		if err := inst.Set(name, dv); err != nil {
			return nil, err
		}
	}
	if me.HasErrors() {
		return nil, me
	}
	return inst, nil
}

func (s *Map) deserializeValue(ctx context.Context, v any, t modeldecl.Type, filter FieldFilter) (any, error) {
	switch tt := t.(type) {
	case modeldecl.ModelRefType:
		if v == nil {
			return nil, nil
		}
		target, err := tt.Target()
		if err != nil {
			return nil, err
		}
		inst, err := s.deserializeModel(ctx, v, target, filter)
		if err != nil {
			return nil, err
		}
		return instOrNil(inst), nil
	case modeldecl.SequenceType:
		if v == nil {
			return nil, nil
		}
		items, ok := v.([]any)
		if !ok {
			return nil, invalidShape(v, "an array")
		}
		me := modeldecl.NewModelError()
		if tt.Ordered() {
			out := make([]any, len(items))
			for i := range items {
				dv, err := s.deserializeValue(ctx, items[i], tt.Item(), filter)
				if err != nil {
					me.AddFieldError(i, err)
					if modeldecl.IsFailFast(ctx) {
						break
					}
					continue
				}
				out[i] = dv
			}
			if me.HasErrors() {
				return nil, me
			}
			return out, nil
		}
		out := make(map[any]struct{}, len(items))
		for i := range items {
			dv, err := s.deserializeValue(ctx, items[i], tt.Item(), filter)
			if err == nil && !isHashable(dv) {
				err = invalidShape(dv, "a hashable set member")
			}
			if err != nil {
				me.AddFieldError(i, err)
				if modeldecl.IsFailFast(ctx) {
					break
				}
				continue
			}
			out[dv] = struct{}{}
		}
		if me.HasErrors() {
			return nil, me
		}
		return out, nil
	case modeldecl.MappingType:
		if v == nil {
			return nil, nil
		}
		entries, ok := normalizeMapping(v)
		if !ok {
			return nil, invalidShape(v, "an object")
		}
		me := modeldecl.NewModelError()
		out := make(map[any]any, len(entries))
		for k, val := range entries {
			dk, err := s.deserializeValue(ctx, k, tt.KeyType(), filter)
			if err == nil && !isHashable(dk) {
				err = invalidShape(dk, "a hashable dict key")
			}
			if err != nil {
				me.Field(k).AddFieldError("key", err)
				if modeldecl.IsFailFast(ctx) {
					break
				}
				continue
			}
			dv, err := s.deserializeValue(ctx, val, tt.ValueType(), filter)
			if err != nil {
				me.Field(k).AddFieldError("value", err)
				if modeldecl.IsFailFast(ctx) {
					break
				}
				continue
			}
			out[dk] = dv
		}
		if me.HasErrors() {
			return nil, me
		}
		return out, nil
	}
	return s.values.Decode(v, t)
}

// ---- helpers ----

// instOrNil avoids storing a typed nil *Instance inside an any value, which
// would defeat the absence checks downstream.
func instOrNil(inst *modeldecl.Instance) any {
	if inst == nil {
		return nil
	}
	return inst
}

func normalizeMapping(v any) (map[any]any, bool) {
	switch m := v.(type) {
	case map[any]any:
		return m, true
	case map[string]any:
		out := make(map[any]any, len(m))
		for k, val := range m {
			out[k] = val
		}
		return out, true
	}
	return nil, false
}

func isHashable(v any) bool {
	if v == nil {
		return true
	}
	return reflect.TypeOf(v).Comparable()
}

func notAMapping(v any) *modeldecl.Error {
	return &modeldecl.Error{
		Code:    modeldecl.CodeInvalidType,
		Message: i18n.T(modeldecl.CodeInvalidType, nil),
		Hint:    fmt.Sprintf("model deserialization requires a mapping, got %T", v),
	}
}

func invalidShape(v any, want string) *modeldecl.Error {
	return &modeldecl.Error{
		Code:    modeldecl.CodeInvalidType,
		Message: i18n.T(modeldecl.CodeInvalidType, nil),
		Hint:    fmt.Sprintf("expected %s, got %T", want, v),
	}
}

func wrapValidation(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := modeldecl.AsModelError(err); ok {
		return err
	}
	if modeldecl.IsValidation(err) {
		return modeldecl.WrapModelError(err)
	}
	return err
}
