package codec_test

import (
	"context"
	"testing"
	"time"

	modeldecl "github.com/modeldecl/modeldecl"
	"github.com/modeldecl/modeldecl/codec"
	"github.com/modeldecl/modeldecl/dsl"
)

func TestJSON_SerializeDeclarationOrder(t *testing.T) {
	ctx := context.Background()
	person := personClass(t)
	inst := person.MustNew(map[string]any{"name": "Bob", "age": 5})

	got, err := codec.NewJSON(nil).Serialize(ctx, inst)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if string(got) != `{"name":"Bob","age":5}` {
		t.Fatalf("json = %s", got)
	}
}

func TestJSON_SerializeSortedKeys(t *testing.T) {
	ctx := context.Background()
	person := personClass(t)
	inst := person.MustNew(map[string]any{"name": "Bob", "age": 5})

	got, err := codec.NewJSON(nil, codec.SortKeys()).Serialize(ctx, inst)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if string(got) != `{"age":5,"name":"Bob"}` {
		t.Fatalf("json = %s", got)
	}
}

func TestJSON_SerializeAs_TagEmittedLast(t *testing.T) {
	ctx := context.Background()
	pet := dsl.Define("JPet").Field("name", dsl.String()).MustBuild()
	dog := dsl.Define("JDog").Extend(pet).Field("good", dsl.Bool()).MustBuild()
	group := dsl.DefineGroup("JPets").Variant("dog", dog).MustBuild()

	inst := dog.MustNew(map[string]any{"name": "Rex", "good": true})
	got, err := codec.NewJSON(nil).SerializeAs(ctx, inst, group)
	if err != nil {
		t.Fatalf("SerializeAs: %v", err)
	}
	if string(got) != `{"name":"Rex","good":true,"type":"dog"}` {
		t.Fatalf("json = %s", got)
	}
}

func TestJSON_SerializeNested(t *testing.T) {
	ctx := context.Background()
	addr := dsl.Define("JAddr").Field("city", dsl.String()).MustBuild()
	cls := dsl.Define("JNested").
		Field("home", dsl.Model(addr)).
		Field("nums", dsl.List(dsl.Int())).
		Field("scores", dsl.Dict(dsl.String(), dsl.Int())).
		MustBuild()
	inst := cls.MustNew(map[string]any{
		"home":   addr.MustNew(map[string]any{"city": "Oslo"}),
		"nums":   []any{3, 1},
		"scores": map[any]any{"b": 2, "a": 1},
	})

	got, err := codec.NewJSON(nil).Serialize(ctx, inst)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	// lists keep element order, dict keys render sorted
	if string(got) != `{"home":{"city":"Oslo"},"nums":[3,1],"scores":{"a":1,"b":2}}` {
		t.Fatalf("json = %s", got)
	}
}

func TestJSON_SerializeSetIsDeterministic(t *testing.T) {
	ctx := context.Background()
	cls := dsl.Define("JSet").Field("tags", dsl.Set(dsl.String())).MustBuild()
	inst := cls.MustNew(map[string]any{
		"tags": map[any]struct{}{"c": {}, "a": {}, "b": {}},
	})
	s := codec.NewJSON(nil)

	first, err := s.Serialize(ctx, inst)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if string(first) != `{"tags":["a","b","c"]}` {
		t.Fatalf("json = %s", first)
	}
	for i := 0; i < 10; i++ {
		again, err := s.Serialize(ctx, inst)
		if err != nil {
			t.Fatalf("Serialize: %v", err)
		}
		if string(again) != string(first) {
			t.Fatalf("unstable output: %s vs %s", first, again)
		}
	}
}

func TestJSON_TemporalWireFormats(t *testing.T) {
	ctx := context.Background()
	cls := dsl.Define("JTimes").
		Field("at", dsl.DateTime()).
		Field("day", dsl.Date()).
		Field("tod", dsl.Time()).
		MustBuild()
	inst := cls.MustNew(map[string]any{
		"at":  time.Date(2026, 8, 31, 14, 30, 45, 0, time.UTC),
		"day": time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
		"tod": time.Date(0, time.January, 1, 14, 30, 45, 0, time.UTC),
	})

	got, err := codec.NewJSON(nil).Serialize(ctx, inst)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	want := `{"at":"2026-08-31T14:30:45Z","day":"2026-08-31","tod":"14:30:45"}`
	if string(got) != want {
		t.Fatalf("json = %s, want %s", got, want)
	}

	back, err := codec.NewJSON(nil).Deserialize(ctx, got, cls)
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	if !back.Equal(inst) {
		t.Fatalf("temporal round trip changed the instance")
	}
}

func TestJSON_Deserialize(t *testing.T) {
	ctx := context.Background()
	person := personClass(t)

	inst, err := codec.NewJSON(nil).Deserialize(ctx, []byte(`{"name":"Bob","age":5}`), person)
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	// JSON numbers land as native ints on int fields
	if got := inst.MustGet("age"); got != 5 {
		t.Fatalf("age = %v (%T)", got, got)
	}
}

func TestJSON_Deserialize_FieldErrors(t *testing.T) {
	ctx := context.Background()
	person := personClass(t)

	_, err := codec.NewJSON(nil).Deserialize(ctx, []byte(`{"name":"Bob","age":-1}`), person)
	me, _ := modeldecl.AsModelError(err)
	if me == nil {
		t.Fatalf("expected aggregate, got %v", err)
	}
	if got := me.ErrorsAt("age"); len(got) != 1 {
		t.Fatalf("expected one error at age, got %v", got)
	}
	if got := me.ErrorsAt("name"); len(got) != 0 {
		t.Fatalf("expected no error at name, got %v", got)
	}
}

func TestJSON_Deserialize_FractionalNumberRejected(t *testing.T) {
	ctx := context.Background()
	person := personClass(t)

	_, err := codec.NewJSON(nil).Deserialize(ctx, []byte(`{"name":"Bob","age":5.5}`), person)
	me, _ := modeldecl.AsModelError(err)
	if me == nil {
		t.Fatalf("expected aggregate, got %v", err)
	}
	errs := me.ErrorsAt("age")
	if len(errs) != 1 {
		t.Fatalf("expected one error at age, got %v", errs)
	}
	if ve, _ := modeldecl.AsError(errs[0]); ve == nil || ve.Code != modeldecl.CodeInvalidType {
		t.Fatalf("expected invalid_type, got %v", errs[0])
	}
}

func TestJSON_Deserialize_ParseError(t *testing.T) {
	ctx := context.Background()
	_, err := codec.NewJSON(nil).Deserialize(ctx, []byte(`{"name":`), personClass(t))
	me, _ := modeldecl.AsModelError(err)
	if me == nil {
		t.Fatalf("expected aggregate, got %v", err)
	}
	errs := me.ErrorsAt()
	if len(errs) != 1 {
		t.Fatalf("expected one root error, got %v", errs)
	}
	if ve, _ := modeldecl.AsError(errs[0]); ve == nil || ve.Code != modeldecl.CodeParseError {
		t.Fatalf("expected parse_error, got %v", errs[0])
	}
}

func TestJSON_PolymorphicRoundTrip(t *testing.T) {
	ctx := context.Background()
	pet := dsl.Define("RPet").Field("name", dsl.String()).MustBuild()
	cat := dsl.Define("RCat").Extend(pet).Field("lives", dsl.Int()).MustBuild()
	dog := dsl.Define("RDog").Extend(pet).Field("good", dsl.Bool()).MustBuild()
	group := dsl.DefineGroup("RPets").Variant("cat", cat).Variant("dog", dog).MustBuild()
	s := codec.NewJSON(nil)

	orig := cat.MustNew(map[string]any{"name": "Whiskers", "lives": 9})
	data, err := s.SerializeAs(ctx, orig, group)
	if err != nil {
		t.Fatalf("SerializeAs: %v", err)
	}
	back, err := s.Deserialize(ctx, data, group)
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	if back.Class() != cat || !back.Equal(orig) {
		t.Fatalf("polymorphic round trip dispatched to %q", back.Class().Name())
	}
}

func TestJSON_RoundTrip(t *testing.T) {
	ctx := context.Background()
	inner := dsl.Define("JRTInner").Field("v", dsl.Int()).MustBuild()
	cls := dsl.Define("JRTOuter").
		Field("name", dsl.String()).
		Field("ok", dsl.Bool()).
		Field("child", dsl.Model(inner), modeldecl.Optional()).
		Field("nums", dsl.List(dsl.Int())).
		Field("tags", dsl.Set(dsl.String())).
		Field("scores", dsl.Dict(dsl.String(), dsl.Int())).
		MustBuild()
	orig := cls.MustNew(map[string]any{
		"name":   "x",
		"ok":     true,
		"child":  inner.MustNew(map[string]any{"v": 3}),
		"nums":   []any{1, 2, 3},
		"tags":   map[any]struct{}{"a": {}, "b": {}},
		"scores": map[any]any{"m": 1, "n": 2},
	})
	s := codec.NewJSON(nil)

	data, err := s.Serialize(ctx, orig)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	back, err := s.Deserialize(ctx, data, cls)
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	if !back.Equal(orig) {
		t.Fatalf("round trip changed the instance: %s", data)
	}

	// an optional nested model absent on the wire stays absent
	orig2 := cls.MustNew(map[string]any{
		"name":   "y",
		"ok":     false,
		"nums":   []any{},
		"tags":   map[any]struct{}{},
		"scores": map[any]any{},
	})
	data2, err := s.Serialize(ctx, orig2)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	back2, err := s.Deserialize(ctx, data2, cls)
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	if !back2.Equal(orig2) {
		t.Fatalf("round trip changed the instance: %s", data2)
	}
}
