package dsl_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	modeldecl "github.com/modeldecl/modeldecl"
	"github.com/modeldecl/modeldecl/dsl"
)

func mustCode(t *testing.T, err error, code string) {
	t.Helper()
	ve, ok := modeldecl.AsError(err)
	if !ok {
		t.Fatalf("expected leaf validation error, got %v (%T)", err, err)
	}
	if ve.Code != code {
		t.Fatalf("code = %q, want %q (error: %v)", ve.Code, code, err)
	}
}

func TestBool(t *testing.T) {
	ctx := context.Background()
	ty := dsl.Bool()

	if err := ty.Validate(ctx, true); err != nil {
		t.Fatalf("Validate(true): %v", err)
	}
	mustCode(t, ty.Validate(ctx, 1), modeldecl.CodeInvalidType)
	if ty.Default() != false {
		t.Fatalf("Default = %v", ty.Default())
	}
}

func TestInt_StrictRepresentation(t *testing.T) {
	ctx := context.Background()
	ty := dsl.Int()

	if err := ty.Validate(ctx, 42); err != nil {
		t.Fatalf("Validate(42): %v", err)
	}
	// no coercion from bool, float, or string
	mustCode(t, ty.Validate(ctx, true), modeldecl.CodeInvalidType)
	mustCode(t, ty.Validate(ctx, 42.0), modeldecl.CodeInvalidType)
	mustCode(t, ty.Validate(ctx, "42"), modeldecl.CodeInvalidType)
	mustCode(t, ty.Validate(ctx, int64(42)), modeldecl.CodeInvalidType)
}

func TestInt_Bounds(t *testing.T) {
	ctx := context.Background()
	ty := dsl.Int().Min(0).Max(10)

	for _, n := range []int{0, 5, 10} {
		if err := ty.Validate(ctx, n); err != nil {
			t.Fatalf("Validate(%d): %v", n, err)
		}
	}
	mustCode(t, ty.Validate(ctx, -1), modeldecl.CodeTooSmall)
	mustCode(t, ty.Validate(ctx, 11), modeldecl.CodeTooBig)
}

func TestString_RuneLengths(t *testing.T) {
	ctx := context.Background()
	ty := dsl.String().MinLen(2).MaxLen(3)

	// length counts runes, not bytes
	if err := ty.Validate(ctx, "héé"); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	mustCode(t, ty.Validate(ctx, "é"), modeldecl.CodeTooShort)
	mustCode(t, ty.Validate(ctx, "éééé"), modeldecl.CodeTooLong)
	mustCode(t, ty.Validate(ctx, 3), modeldecl.CodeInvalidType)
}

func TestString_Pattern(t *testing.T) {
	ctx := context.Background()
	ty := dsl.String().Pattern(`^[a-z]+$`)

	if err := ty.Validate(ctx, "abc"); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	mustCode(t, ty.Validate(ctx, "abc1"), modeldecl.CodePattern)
}

func TestString_PatternIsASearch(t *testing.T) {
	ctx := context.Background()
	// unanchored: a match anywhere in the value passes
	ty := dsl.String().Pattern(`\d{3}`)
	if err := ty.Validate(ctx, "order 123 shipped"); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	mustCode(t, ty.Validate(ctx, "no digits"), modeldecl.CodePattern)
}

func TestURL(t *testing.T) {
	ctx := context.Background()
	ty := dsl.URL().Schemes("http", "https")

	if err := ty.Validate(ctx, "https://example.com/x"); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	mustCode(t, ty.Validate(ctx, "ftp://example.com"), modeldecl.CodeInvalidScheme)
	mustCode(t, ty.Validate(ctx, "://"), modeldecl.CodeInvalidFormat)
	mustCode(t, ty.Validate(ctx, 7), modeldecl.CodeInvalidType)
}

func TestURL_StringChecksRunFirst(t *testing.T) {
	ctx := context.Background()
	ty := dsl.URL().MinLen(10).Schemes("https")
	mustCode(t, ty.Validate(ctx, "https://x"), modeldecl.CodeTooShort)
}

func TestRefine_RunsBeforeBuiltInChecks(t *testing.T) {
	ctx := context.Background()
	custom := modeldecl.NewError(modeldecl.CodeCustom, "not even")
	ty := dsl.Int().Min(100).Refine(func(v any) error {
		if v.(int)%2 != 0 {
			return custom
		}
		return nil
	})

	// the refinement failure wins over the bounds failure
	mustCode(t, ty.Validate(ctx, 3), modeldecl.CodeCustom)
	// representation failures still come first
	mustCode(t, ty.Validate(ctx, "x"), modeldecl.CodeInvalidType)
	mustCode(t, ty.Validate(ctx, 4), modeldecl.CodeTooSmall)
}

func TestRefine_FirstFailureWins(t *testing.T) {
	ctx := context.Background()
	second := 0
	ty := dsl.String().
		Refine(func(any) error { return fmt.Errorf("first") }).
		Refine(func(any) error { second++; return nil })

	if err := ty.Validate(ctx, "x"); err == nil || err.Error() != "first" {
		t.Fatalf("err = %v", err)
	}
	if second != 0 {
		t.Fatalf("later refinements should not run after a failure")
	}
}

func TestDateTime(t *testing.T) {
	ctx := context.Background()
	lo := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	hi := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	ty := dsl.DateTime().Min(lo).Max(hi)

	if err := ty.Validate(ctx, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	mustCode(t, ty.Validate(ctx, lo.Add(-time.Second)), modeldecl.CodeTooSmall)
	mustCode(t, ty.Validate(ctx, hi.Add(time.Second)), modeldecl.CodeTooBig)
	mustCode(t, ty.Validate(ctx, "2025-06-01"), modeldecl.CodeInvalidType)
}

func TestTemporalDefaultsUseClock(t *testing.T) {
	pinned := time.Date(2026, 8, 31, 14, 30, 45, 123, time.UTC)
	clock := func() time.Time { return pinned }

	if got := dsl.DateTime().WithClock(clock).Default(); got != pinned {
		t.Fatalf("DateTime default = %v", got)
	}
	wantDate := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	if got := dsl.Date().WithClock(clock).Default(); got != wantDate {
		t.Fatalf("Date default = %v, want %v", got, wantDate)
	}
	wantTime := time.Date(0, time.January, 1, 14, 30, 45, 123, time.UTC)
	if got := dsl.Time().WithClock(clock).Default(); got != wantTime {
		t.Fatalf("Time default = %v, want %v", got, wantTime)
	}
}

func TestTruncateHelpers(t *testing.T) {
	in := time.Date(2026, 8, 31, 14, 30, 45, 123, time.UTC)
	if got := dsl.TruncateToDate(in); got.Hour() != 0 || got.Day() != 31 {
		t.Fatalf("TruncateToDate = %v", got)
	}
	if got := dsl.TruncateToTimeOfDay(in); got.Year() != 0 || got.Hour() != 14 {
		t.Fatalf("TruncateToTimeOfDay = %v", got)
	}
}

func TestKinds(t *testing.T) {
	cases := []struct {
		ty   modeldecl.Type
		kind modeldecl.Kind
	}{
		{dsl.Bool(), modeldecl.KindBool},
		{dsl.Int(), modeldecl.KindInt},
		{dsl.String(), modeldecl.KindString},
		{dsl.URL(), modeldecl.KindURL},
		{dsl.List(nil), modeldecl.KindList},
		{dsl.Set(nil), modeldecl.KindSet},
		{dsl.Dict(nil, nil), modeldecl.KindDict},
		{dsl.Date(), modeldecl.KindDate},
		{dsl.Time(), modeldecl.KindTime},
		{dsl.DateTime(), modeldecl.KindDateTime},
	}
	for _, tc := range cases {
		if tc.ty.Kind() != tc.kind {
			t.Fatalf("kind = %v, want %v", tc.ty.Kind(), tc.kind)
		}
	}
}
