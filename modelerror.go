package modeldecl

import (
	"errors"
	"fmt"
	"strings"
)

// ModelError is an aggregate validation error: a tree of failures scoped by
// field name, collection index, or mapping key. One node holds the direct
// errors attached at its own scope plus one child node per sub-scope.
//
// A ModelError is what Model.Validate and the codec deserializers raise, so
// callers handle exactly one error family for every validation entry point.
type ModelError struct {
	errs     []error
	children map[any]*ModelError
	keys     []any // child keys in insertion order
}

// NewModelError returns an empty aggregate. It is populated during a single
// validation or deserialization pass and raised only when non-empty.
func NewModelError() *ModelError {
	return &ModelError{}
}

// AddError appends a direct error at this node's own scope.
func (e *ModelError) AddError(err error) {
	e.errs = append(e.errs, err)
}

// Field returns the child node at key, creating and registering an empty one
// when missing.
func (e *ModelError) Field(key any) *ModelError {
	if child, ok := e.children[key]; ok {
		return child
	}
	if e.children == nil {
		e.children = make(map[any]*ModelError)
	}
	child := NewModelError()
	e.children[key] = child
	e.keys = append(e.keys, key)
	return child
}

// AddFieldError records err under key. An aggregate error is installed as
// the child node verbatim; anything else is appended to the (possibly newly
// created) child's direct errors.
//
// Installing an aggregate where a child already exists panics with
// ErrAggregateMerge: silently merging two error trees would hide a
// double-registration bug in the caller.
func (e *ModelError) AddFieldError(key any, err error) {
	if sub, ok := AsModelError(err); ok {
		if _, exists := e.children[key]; exists {
			panic(ErrAggregateMerge)
		}
		if e.children == nil {
			e.children = make(map[any]*ModelError)
		}
		e.children[key] = sub
		e.keys = append(e.keys, key)
		return
	}
	e.Field(key).AddError(err)
}

// AddPathError records err at the node addressed by path. With an empty path
// it is equivalent to AddError; otherwise intermediate nodes are created as
// needed and the final segment behaves like AddFieldError.
func (e *ModelError) AddPathError(err error, path ...any) {
	if len(path) == 0 {
		e.AddError(err)
		return
	}
	cur := e
	for _, key := range path[:len(path)-1] {
		cur = cur.Field(key)
	}
	cur.AddFieldError(path[len(path)-1], err)
}

// ForPath builds a fresh aggregate holding err at the given path.
func ForPath(err error, path ...any) *ModelError {
	e := NewModelError()
	e.AddPathError(err, path...)
	return e
}

// ErrorsAt returns the direct errors of the node addressed by path. An empty
// path addresses this node. A missing node at any level yields an empty
// slice, never an error.
func (e *ModelError) ErrorsAt(path ...any) []error {
	cur := e
	for _, key := range path {
		child, ok := cur.children[key]
		if !ok {
			return nil
		}
		cur = child
	}
	return cur.errs
}

// Keys returns the child keys in insertion order.
func (e *ModelError) Keys() []any {
	out := make([]any, len(e.keys))
	copy(out, e.keys)
	return out
}

// HasErrors reports whether this node holds any direct error or any
// non-empty descendant.
func (e *ModelError) HasErrors() bool {
	if e == nil {
		return false
	}
	if len(e.errs) > 0 {
		return true
	}
	for _, child := range e.children {
		if child.HasErrors() {
			return true
		}
	}
	return false
}

// flatten walks the tree depth-first in insertion order, rendering each
// error with its JSON-Pointer-ish scope path.
func (e *ModelError) flatten(prefix string, out *[]flatErr) {
	for _, err := range e.errs {
		path := prefix
		if path == "" {
			path = "/"
		}
		*out = append(*out, flatErr{path: path, err: err})
	}
	for _, key := range e.keys {
		e.children[key].flatten(prefix+"/"+fmt.Sprint(key), out)
	}
}

type flatErr struct {
	path string
	err  error
}

// Error summarizes the first few failures, e.g. "required at /name; too_small at /age".
func (e *ModelError) Error() string {
	var flat []flatErr
	e.flatten("", &flat)
	if len(flat) == 0 {
		return "model validation failed"
	}
	const maxShown = 3
	b := &strings.Builder{}
	lim := len(flat)
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		label := flat[i].err.Error()
		if ve, ok := AsError(flat[i].err); ok {
			label = ve.Code
		}
		fmt.Fprintf(b, "%s at %s", label, flat[i].path)
	}
	if n := len(flat); n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AsModelError extracts an aggregate *ModelError using errors.As internally.
func AsModelError(err error) (*ModelError, bool) {
	if err == nil {
		return nil, false
	}
	var me *ModelError
	if errors.As(err, &me) {
		return me, true
	}
	return nil, false
}

// WrapModelError returns err as an aggregate: an existing *ModelError is
// passed through, any other error becomes the single direct error of a
// fresh tree. Deserialization entry points use this so callers always catch
// one consistent aggregate type.
func WrapModelError(err error) *ModelError {
	if err == nil {
		return nil
	}
	if me, ok := AsModelError(err); ok {
		return me
	}
	me := NewModelError()
	me.AddError(err)
	return me
}
