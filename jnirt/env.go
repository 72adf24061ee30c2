// Package jnirt is the runtime support library imported by the bridge code
// that jnigen generates. It owns the handle table for native objects, the
// conversions between Go values and host objects, and exception
// translation. The JNI calls themselves go through a Backend; the cgo
// implementation lives in jnirt/jvm.
package jnirt

import (
	"fmt"
	"sync"
)

// Object is a host object reference (a JNI jobject). The zero Object is
// the host null.
type Object uintptr

// Null is the host null as returned from object-typed bridge functions.
const Null uintptr = 0

// Host booleans as passed through the bridge ABI.
const (
	False uint8 = 0
	True  uint8 = 1
)

// Bool converts a Go bool to a host boolean.
func Bool(b bool) uint8 {
	if b {
		return True
	}
	return False
}

// Backend is the subset of the JNI function table the runtime needs.
// Method and constructor signatures are JNI descriptors.
type Backend interface {
	FindClass(name string) (Object, error)
	GetObjectClass(obj Object) Object
	GetLongField(obj Object, name string) (int64, error)
	CallMethod(obj Object, name, sig string, args ...Value) (Value, error)
	CallStaticMethod(cls Object, name, sig string, args ...Value) (Value, error)
	NewObject(cls Object, sig string, args ...Value) (Object, error)
	NewString(s string) (Object, error)
	GetString(obj Object) (string, error)
	IsInstanceOf(obj, cls Object) bool
	ExceptionCheck() bool
	ThrowNew(class, msg string) error
	DeleteLocalRef(obj Object)
}

// Env is the runtime context handed to every bridge call. It is only
// valid on the thread and for the duration of the call that created it.
type Env struct {
	b       Backend
	classes map[string]Object
}

// NewEnv wraps a backend.
func NewEnv(b Backend) *Env {
	return &Env{b: b}
}

var (
	factoryMu sync.RWMutex
	factory   func(env uintptr) Backend
)

// RegisterBackend installs the function Attach uses to wrap a raw JNIEnv
// pointer. Backends call it from init().
func RegisterBackend(f func(env uintptr) Backend) {
	factoryMu.Lock()
	defer factoryMu.Unlock()
	factory = f
}

// Attach wraps the raw JNIEnv pointer received by an exported bridge
// function. It panics when no backend has been registered, which only
// happens when the jnirt/jvm package was not linked in.
func Attach(env uintptr) *Env {
	factoryMu.RLock()
	f := factory
	factoryMu.RUnlock()
	if f == nil {
		panic("jnirt: no backend registered; import github.com/rubiojr/jnigen/jnirt/jvm")
	}
	return NewEnv(f(env))
}

// Backend returns the underlying backend.
func (e *Env) Backend() Backend { return e.b }

// FindClass resolves a class by its slash-separated name. Results are
// local references cached until Release.
func (e *Env) FindClass(name string) (Object, error) {
	if cls, ok := e.classes[name]; ok {
		return cls, nil
	}
	cls, err := e.b.FindClass(name)
	if err != nil {
		return 0, fmt.Errorf("find class %s: %w", name, err)
	}
	if cls == 0 {
		return 0, Errorf(ClassNoClassDef, "class %s not found", name)
	}
	if e.classes == nil {
		e.classes = make(map[string]Object)
	}
	e.classes[name] = cls
	return cls, nil
}

// Release deletes the class references cached by FindClass. Bridges
// defer it right after Attach; the Env stays usable afterwards.
func (e *Env) Release() {
	for name, cls := range e.classes {
		e.b.DeleteLocalRef(cls)
		delete(e.classes, name)
	}
}

// GetObjectClass returns the runtime class of obj.
func (e *Env) GetObjectClass(obj Object) Object { return e.b.GetObjectClass(obj) }

// GetLongField reads a long instance field.
func (e *Env) GetLongField(obj Object, name string) (int64, error) {
	v, err := e.b.GetLongField(obj, name)
	if err != nil {
		return 0, fmt.Errorf("get field %s: %w", name, err)
	}
	return v, nil
}

// CallMethod invokes an instance method.
func (e *Env) CallMethod(obj Object, name, sig string, args ...Value) (Value, error) {
	if obj == 0 {
		return 0, Errorf(ClassNullPointer, "cannot call %s on a null object", name)
	}
	v, err := e.b.CallMethod(obj, name, sig, args...)
	if err != nil {
		return 0, fmt.Errorf("call %s%s: %w", name, sig, err)
	}
	return v, nil
}

// CallStaticMethod invokes a static method on cls.
func (e *Env) CallStaticMethod(cls Object, name, sig string, args ...Value) (Value, error) {
	v, err := e.b.CallStaticMethod(cls, name, sig, args...)
	if err != nil {
		return 0, fmt.Errorf("call static %s%s: %w", name, sig, err)
	}
	return v, nil
}

// NewObject constructs an instance of the named class.
func (e *Env) NewObject(class, sig string, args ...Value) (Object, error) {
	cls, err := e.FindClass(class)
	if err != nil {
		return 0, err
	}
	obj, err := e.b.NewObject(cls, sig, args...)
	if err != nil {
		return 0, fmt.Errorf("new %s%s: %w", class, sig, err)
	}
	return obj, nil
}

// NewString creates a host string.
func (e *Env) NewString(s string) (Object, error) { return e.b.NewString(s) }

// GetString reads a host string.
func (e *Env) GetString(obj Object) (string, error) { return e.b.GetString(obj) }

// IsInstanceOf reports whether obj is an instance of the named class.
func (e *Env) IsInstanceOf(obj Object, class string) (bool, error) {
	cls, err := e.FindClass(class)
	if err != nil {
		return false, err
	}
	return e.b.IsInstanceOf(obj, cls), nil
}

// ExceptionCheck reports whether a host exception is pending.
func (e *Env) ExceptionCheck() bool { return e.b.ExceptionCheck() }

// DeleteLocalRef releases a local reference. Null is ignored.
func (e *Env) DeleteLocalRef(obj Object) {
	if obj != 0 {
		e.b.DeleteLocalRef(obj)
	}
}
