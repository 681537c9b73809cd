package dsl

import (
	"context"
	"time"

	modeldecl "github.com/modeldecl/modeldecl"
	"github.com/modeldecl/modeldecl/i18n"
)

// Temporal descriptors share a native time.Time representation:
// DateTime carries the full instant, Date only the calendar day (zero
// clock), and Time only the time of day (zero date). Defaults are the
// current moment at default-resolution time, taken from an injectable
// clock so tests can pin it.

type temporalCore struct {
	min, max *time.Time
	clock    func() time.Time
	refiners []func(any) error
}

func (c *temporalCore) now() time.Time {
	if c.clock != nil {
		return c.clock()
	}
	return time.Now()
}

func (c *temporalCore) validate(ctx context.Context, v any) error {
	tm, ok := v.(time.Time)
	if !ok {
		return invalidType(v, "time.Time")
	}
	if err := runRefiners(c.refiners, v); err != nil {
		return err
	}
	if c.min != nil && tm.Before(*c.min) {
		return &modeldecl.Error{
			Code:    modeldecl.CodeTooSmall,
			Message: i18n.T(modeldecl.CodeTooSmall, nil),
			Params:  map[string]any{"min": *c.min, "got": tm},
		}
	}
	if c.max != nil && tm.After(*c.max) {
		return &modeldecl.Error{
			Code:    modeldecl.CodeTooBig,
			Message: i18n.T(modeldecl.CodeTooBig, nil),
			Params:  map[string]any{"max": *c.max, "got": tm},
		}
	}
	return nil
}

// DateTimeType validates time.Time instants.
type DateTimeType struct{ core temporalCore }

// DateTime returns a timestamp type descriptor.
func DateTime() *DateTimeType { return &DateTimeType{} }

// Min sets the inclusive lower bound.
func (t *DateTimeType) Min(tm time.Time) *DateTimeType {
	t.core.min = &tm
	return t
}

// Max sets the inclusive upper bound.
func (t *DateTimeType) Max(tm time.Time) *DateTimeType {
	t.core.max = &tm
	return t
}

// WithClock replaces the default-value clock (time.Now).
func (t *DateTimeType) WithClock(clock func() time.Time) *DateTimeType {
	t.core.clock = clock
	return t
}

// Refine appends an extra validator run after the built-in checks.
func (t *DateTimeType) Refine(fn func(any) error) *DateTimeType {
	t.core.refiners = append(t.core.refiners, fn)
	return t
}

func (t *DateTimeType) Kind() modeldecl.Kind { return modeldecl.KindDateTime }

func (t *DateTimeType) Default() any { return t.core.now() }

func (t *DateTimeType) Validate(ctx context.Context, v any) error {
	return t.core.validate(ctx, v)
}

// DateType validates calendar days, represented as time.Time with a zero
// clock component.
type DateType struct{ core temporalCore }

// Date returns a calendar-day type descriptor.
func Date() *DateType { return &DateType{} }

// Min sets the inclusive lower bound.
func (t *DateType) Min(tm time.Time) *DateType {
	t.core.min = &tm
	return t
}

// Max sets the inclusive upper bound.
func (t *DateType) Max(tm time.Time) *DateType {
	t.core.max = &tm
	return t
}

// WithClock replaces the default-value clock (time.Now).
func (t *DateType) WithClock(clock func() time.Time) *DateType {
	t.core.clock = clock
	return t
}

// Refine appends an extra validator run after the built-in checks.
func (t *DateType) Refine(fn func(any) error) *DateType {
	t.core.refiners = append(t.core.refiners, fn)
	return t
}

func (t *DateType) Kind() modeldecl.Kind { return modeldecl.KindDate }

func (t *DateType) Default() any {
	return TruncateToDate(t.core.now())
}

func (t *DateType) Validate(ctx context.Context, v any) error {
	return t.core.validate(ctx, v)
}

// TimeType validates times of day, represented as time.Time with a zero
// date component.
type TimeType struct{ core temporalCore }

// Time returns a time-of-day type descriptor.
func Time() *TimeType { return &TimeType{} }

// Min sets the inclusive lower bound.
func (t *TimeType) Min(tm time.Time) *TimeType {
	t.core.min = &tm
	return t
}

// Max sets the inclusive upper bound.
func (t *TimeType) Max(tm time.Time) *TimeType {
	t.core.max = &tm
	return t
}

// WithClock replaces the default-value clock (time.Now).
func (t *TimeType) WithClock(clock func() time.Time) *TimeType {
	t.core.clock = clock
	return t
}

// Refine appends an extra validator run after the built-in checks.
func (t *TimeType) Refine(fn func(any) error) *TimeType {
	t.core.refiners = append(t.core.refiners, fn)
	return t
}

func (t *TimeType) Kind() modeldecl.Kind { return modeldecl.KindTime }

func (t *TimeType) Default() any {
	return TruncateToTimeOfDay(t.core.now())
}

func (t *TimeType) Validate(ctx context.Context, v any) error {
	return t.core.validate(ctx, v)
}

// TruncateToDate drops the clock component, keeping year, month, and day in
// the value's location.
func TruncateToDate(tm time.Time) time.Time {
	y, m, d := tm.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, tm.Location())
}

// TruncateToTimeOfDay drops the date component, keeping the clock in the
// value's location on the zero date.
func TruncateToTimeOfDay(tm time.Time) time.Time {
	return time.Date(0, time.January, 1, tm.Hour(), tm.Minute(), tm.Second(), tm.Nanosecond(), tm.Location())
}
