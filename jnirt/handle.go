package jnirt

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// Host wrappers keep their handle in this long field.
const handleField = "ptr"

// Method the host wrapper uses to expose its inner native object.
const (
	innerMethod    = "getInner"
	innerSig       = "()Lio/github/rubiojr/jnigen/NativeClass;"
	typeHashMethod = "getTypeHash"
	typeHashSig    = "()J"
)

// handleTable maps handles to native values. Handles start at 1 so that
// zero always means "no object".
type handleTable struct {
	next   atomic.Int64
	values sync.Map
}

var handles handleTable

// Box stores v in the handle table and returns its handle. A nil v yields
// the zero handle.
func Box[T any](v *T) int64 {
	if v == nil {
		return 0
	}
	h := handles.next.Add(1)
	handles.values.Store(h, v)
	return h
}

// Lookup resolves a handle issued by Box.
func Lookup[T any](h int64) (*T, error) {
	if h == 0 {
		return nil, NullHandleError
	}
	v, ok := handles.values.Load(h)
	if !ok {
		return nil, Errorf(ClassIllegalState, "native object %d was already destroyed", h)
	}
	t, ok := v.(*T)
	if !ok {
		return nil, Errorf(ClassIllegalArgument, "native object %d is a %T, not a %T", h, v, t)
	}
	return t, nil
}

// Drop releases the value behind h. Zero and unknown handles are ignored
// so a wrapper that is destroyed twice is harmless.
func Drop(h int64) {
	if h == 0 {
		return
	}
	handles.values.Delete(h)
}

// Live reports how many handles are currently stored.
func Live() int {
	n := 0
	handles.values.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// Receiver resolves the native value behind obj, the inner host object
// the native method was invoked on.
func Receiver[T any](e *Env, obj Object) (*T, error) {
	if obj == 0 {
		return nil, NullHandleError
	}
	h, err := e.GetLongField(obj, handleField)
	if err != nil {
		return nil, err
	}
	return Lookup[T](h)
}

// Ref resolves a host wrapper object passed as an argument. The wrapper's
// class must report the expected type-hash.
func Ref[T any](e *Env, obj Object, hash int64) (*T, error) {
	if obj == 0 {
		return nil, Errorf(ClassNullPointer, "the object is null")
	}
	cls := e.GetObjectClass(obj)
	got, err := e.CallStaticMethod(cls, typeHashMethod, typeHashSig)
	e.DeleteLocalRef(cls)
	if err != nil {
		return nil, err
	}
	if got.Int64() != hash {
		return nil, TypeMismatchError(hash, got.Int64())
	}
	inner, err := e.CallMethod(obj, innerMethod, innerSig)
	if err != nil {
		return nil, err
	}
	defer e.DeleteLocalRef(inner.Object())
	v, err := Receiver[T](e, inner.Object())
	if err != nil {
		return nil, fmt.Errorf("argument: %w", err)
	}
	return v, nil
}

// RefOf returns a converter resolving host wrappers of the class with the
// given type-hash.
func RefOf[T any](hash int64) FromFunc[*T] {
	return func(e *Env, obj Object) (*T, error) {
		return Ref[T](e, obj, hash)
	}
}
