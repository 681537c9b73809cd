// Package modeldecl provides:
//
//   - Declarative typed data models (ordered fields, inheritance with
//     override-by-name, polymorphic tag dispatch via Group)
//   - Whole-object validation with a stable error model: leaf Error values
//     aggregated into a ModelError tree scoped by field name, index, or key
//   - Type descriptors (dsl package) covering scalars, sized and bounded
//     values, composites, temporal values, and by-name model references
//   - Serialization between model instances and plain nested data, JSON,
//     and YAML (codec package), driven entirely by field metadata
//
// Design policy:
//   - Keep only public APIs in the root package; put detailed
//     implementations under internal/.
//   - Place declaration builders under dsl/ and serializers under codec/.
//   - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	person := dsl.Define("Person").
//		Field("name", dsl.String().MinLen(1)).
//		Field("age", dsl.Int().Min(0)).
//		MustBuild()
//
//	inst, err := codec.NewJSON(nil).Deserialize(ctx, data, person)
//	out, err := codec.NewJSON(nil).Serialize(ctx, inst)
package modeldecl
