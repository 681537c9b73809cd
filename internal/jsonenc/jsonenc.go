// Package jsonenc renders already-serialized model data as JSON text with
// deterministic object key order: either the model's field declaration
// order (with a polymorphic tag key last) or fully sorted keys.
package jsonenc

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/goccy/go-json"

	modeldecl "github.com/modeldecl/modeldecl"
)

// Marshal encodes a serialized model mapping against its target's field
// metadata. sorted selects fully sorted keys over declaration order.
func Marshal(m map[string]any, target modeldecl.ModelTarget, sorted bool) ([]byte, error) {
	return appendModel(nil, m, target, sorted)
}

func appendModel(dst []byte, m map[string]any, target modeldecl.ModelTarget, sorted bool) ([]byte, error) {
	if m == nil {
		return append(dst, "null"...), nil
	}
	tagKey, polymorphic := modeldecl.TagKeyOf(target)
	class, err := classOf(m, target, tagKey, polymorphic)
	if err != nil {
		return nil, err
	}

	type kv struct {
		key string
		typ modeldecl.Type
	}
	var order []kv
	declared := make(map[string]struct{}, class.NumFields())
	for _, name := range class.FieldNames() {
		declared[name] = struct{}{}
		if polymorphic && name == tagKey {
			continue // the injected tag wins and is emitted last
		}
		if _, present := m[name]; !present {
			continue // filtered out at serialization time
		}
		f, _ := class.FieldByName(name)
		order = append(order, kv{key: name, typ: f.Type()})
	}
	var extras []string
	for key := range m {
		if _, ok := declared[key]; ok {
			continue
		}
		if polymorphic && key == tagKey {
			continue
		}
		extras = append(extras, key)
	}
	sort.Strings(extras)
	for _, key := range extras {
		order = append(order, kv{key: key})
	}
	if polymorphic {
		order = append(order, kv{key: tagKey})
	}
	if sorted {
		sort.Slice(order, func(i, j int) bool { return order[i].key < order[j].key })
	}

	dst = append(dst, '{')
	for i, ent := range order {
		if i > 0 {
			dst = append(dst, ',')
		}
		dst, err = appendString(dst, ent.key)
		if err != nil {
			return nil, err
		}
		dst = append(dst, ':')
		dst, err = appendValue(dst, m[ent.key], ent.typ, sorted)
		if err != nil {
			return nil, err
		}
	}
	return append(dst, '}'), nil
}

func appendValue(dst []byte, v any, t modeldecl.Type, sorted bool) ([]byte, error) {
	if v == nil {
		return append(dst, "null"...), nil
	}
	switch tt := t.(type) {
	case modeldecl.ModelRefType:
		m, ok := v.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("jsonenc: model value is %T, not a mapping", v)
		}
		target, err := tt.Target()
		if err != nil {
			return nil, err
		}
		return appendModel(dst, m, target, sorted)
	case modeldecl.SequenceType:
		items, ok := v.([]any)
		if !ok {
			return nil, fmt.Errorf("jsonenc: sequence value is %T, not a slice", v)
		}
		if !tt.Ordered() {
			return appendSet(dst, items, tt.Item(), sorted)
		}
		var err error
		dst = append(dst, '[')
		for i, item := range items {
			if i > 0 {
				dst = append(dst, ',')
			}
			dst, err = appendValue(dst, item, tt.Item(), sorted)
			if err != nil {
				return nil, err
			}
		}
		return append(dst, ']'), nil
	case modeldecl.MappingType:
		entries, ok := v.(map[any]any)
		if !ok {
			return nil, fmt.Errorf("jsonenc: dict value is %T, not a map", v)
		}
		keys := make([]any, 0, len(entries))
		for k := range entries {
			keys = append(keys, k)
		}
		// dict entries have no declared order; sort the rendered keys
		sort.Slice(keys, func(i, j int) bool { return keyString(keys[i]) < keyString(keys[j]) })
		var err error
		dst = append(dst, '{')
		for i, k := range keys {
			if i > 0 {
				dst = append(dst, ',')
			}
			dst, err = appendString(dst, keyString(k))
			if err != nil {
				return nil, err
			}
			dst = append(dst, ':')
			dst, err = appendValue(dst, entries[k], tt.ValueType(), sorted)
			if err != nil {
				return nil, err
			}
		}
		return append(dst, '}'), nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return append(dst, b...), nil
}

// appendSet renders set members sorted by their encoded form so output is
// stable across map iteration order.
func appendSet(dst []byte, items []any, item modeldecl.Type, sorted bool) ([]byte, error) {
	encoded := make([][]byte, len(items))
	for i := range items {
		b, err := appendValue(nil, items[i], item, sorted)
		if err != nil {
			return nil, err
		}
		encoded[i] = b
	}
	sort.Slice(encoded, func(i, j int) bool { return bytes.Compare(encoded[i], encoded[j]) < 0 })
	dst = append(dst, '[')
	for i, b := range encoded {
		if i > 0 {
			dst = append(dst, ',')
		}
		dst = append(dst, b...)
	}
	return append(dst, ']'), nil
}

func appendString(dst []byte, s string) ([]byte, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return append(dst, b...), nil
}

func keyString(k any) string {
	if s, ok := k.(string); ok {
		return s
	}
	return fmt.Sprint(k)
}

func classOf(m map[string]any, target modeldecl.ModelTarget, tagKey string, polymorphic bool) (*modeldecl.ModelClass, error) {
	if !polymorphic {
		return target.(*modeldecl.ModelClass), nil
	}
	tag, _ := m[tagKey].(string)
	return modeldecl.ClassForTag(target, tag)
}
