// Package codec converts between model instances and plain nested
// structured data, JSON text, and YAML text, driven entirely by field type
// descriptors. No per-model serialization code is needed.
package codec

import (
	"fmt"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	modeldecl "github.com/modeldecl/modeldecl"
	"github.com/modeldecl/modeldecl/i18n"
)

// ValueCodec is the scalar hook of the serializers: composites and model
// references are walked structurally, everything else is handed to the
// codec. Encode maps a native value to its wire form, Decode the reverse.
// t may be nil for unconstrained collection elements.
type ValueCodec interface {
	Encode(v any, t modeldecl.Type) (any, error)
	Decode(v any, t modeldecl.Type) (any, error)
}

// Verbatim returns the identity ValueCodec: values pass through unchanged
// in both directions.
func Verbatim() ValueCodec { return verbatimCodec{} }

type verbatimCodec struct{}

func (verbatimCodec) Encode(v any, t modeldecl.Type) (any, error) { return v, nil }
func (verbatimCodec) Decode(v any, t modeldecl.Type) (any, error) { return v, nil }

// Time returns the temporal-string ValueCodec: Date, Time, and DateTime
// values travel as strings in the wire layouts below, json.Number tokens
// decode to int for int-typed fields, and everything else passes through.
// It is the default codec of the JSON serializer and can be handed to
// NewMap when plain structured output should carry wire-formatted times.
func Time() ValueCodec { return jsonValue{} }

// Wire formats for temporal kinds.
const (
	dateLayout     = "2006-01-02"
	timeLayout     = "15:04:05"
	timeNanoLayout = "15:04:05.999999999"
)

// jsonValue is the default ValueCodec of the JSON serializer: temporal
// values travel as strings, and json.Number tokens decode to int where an
// int is declared. Everything else is verbatim.
type jsonValue struct{}

func (jsonValue) Encode(v any, t modeldecl.Type) (any, error) {
	if t == nil || v == nil {
		return v, nil
	}
	tm, ok := v.(time.Time)
	if !ok {
		return v, nil
	}
	switch t.Kind() {
	case modeldecl.KindDate:
		return tm.Format(dateLayout), nil
	case modeldecl.KindTime:
		return tm.Format(timeNanoLayout), nil
	case modeldecl.KindDateTime:
		return tm.UTC().Format(time.RFC3339Nano), nil
	}
	return v, nil
}

func (jsonValue) Decode(v any, t modeldecl.Type) (any, error) {
	if t == nil || v == nil {
		return v, nil
	}
	switch t.Kind() {
	case modeldecl.KindInt:
		if n, ok := v.(json.Number); ok {
			i, err := strconv.Atoi(n.String())
			if err != nil {
				return nil, &modeldecl.Error{
					Code:    modeldecl.CodeInvalidType,
					Message: i18n.T(modeldecl.CodeInvalidType, nil),
					Hint:    fmt.Sprintf("%s is not an integer", n),
					Cause:   err,
				}
			}
			return i, nil
		}
	case modeldecl.KindDate:
		if s, ok := v.(string); ok {
			return parseWire(s, dateLayout)
		}
	case modeldecl.KindTime:
		if s, ok := v.(string); ok {
			return parseWire(s, timeNanoLayout, timeLayout)
		}
	case modeldecl.KindDateTime:
		if s, ok := v.(string); ok {
			return parseWire(s, time.RFC3339Nano, time.RFC3339)
		}
	}
	return v, nil
}

// yamlValue is the default ValueCodec of the YAML serializer. Encoding
// matches the JSON wire strings for determinism; decoding additionally
// accepts time.Time because the YAML resolver parses timestamp-shaped
// scalars on its own.
type yamlValue struct{}

func (yamlValue) Encode(v any, t modeldecl.Type) (any, error) {
	return jsonValue{}.Encode(v, t)
}

func (yamlValue) Decode(v any, t modeldecl.Type) (any, error) {
	if t == nil || v == nil {
		return v, nil
	}
	switch t.Kind() {
	case modeldecl.KindDate, modeldecl.KindTime, modeldecl.KindDateTime:
		if tm, ok := v.(time.Time); ok {
			return tm, nil
		}
	}
	return jsonValue{}.Decode(v, t)
}

func parseWire(s string, layouts ...string) (any, error) {
	var err error
	for _, layout := range layouts {
		var tm time.Time
		if tm, err = time.Parse(layout, s); err == nil {
			return tm, nil
		}
	}
	return nil, &modeldecl.Error{
		Code:    modeldecl.CodeInvalidFormat,
		Message: i18n.T(modeldecl.CodeInvalidFormat, nil),
		Hint:    fmt.Sprintf("%q is not a valid %s value", s, layouts[0]),
		Cause:   err,
	}
}
