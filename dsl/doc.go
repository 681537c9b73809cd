// Package dsl provides the declaration builders for modeldecl: value-type
// descriptors (Bool, Int, String, URL, List, Set, Dict, Model, Date, Time,
// DateTime) and the Define/DefineGroup builders producing model classes and
// polymorphic groups.
//
// Descriptors are configured by chaining and must be treated as immutable
// once attached to a field or used for validation.
package dsl
