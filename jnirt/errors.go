package jnirt

import (
	"errors"
	"fmt"
)

// Exception classes, in the slash-separated form FindClass expects.
const (
	ClassNullPointer          = "java/lang/NullPointerException"
	ClassIllegalArgument      = "java/lang/IllegalArgumentException"
	ClassIllegalState         = "java/lang/IllegalStateException"
	ClassUnsupportedOperation = "java/lang/UnsupportedOperationException"
	ClassRuntime              = "java/lang/RuntimeException"
	ClassNoClassDef           = "java/lang/NoClassDefFoundError"
	ClassNativeExecution      = "io/github/rubiojr/jnigen/NativeExecutionException"
)

// Error is an error that knows which host exception class it should be
// raised as. User code may return one from a fallible method to pick the
// class; Err is kept for errors.Is/As.
type Error struct {
	Class   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message == "" && e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Errorf builds an Error raised as class.
func Errorf(class, format string, args ...any) *Error {
	err := fmt.Errorf(format, args...)
	return &Error{Class: class, Message: err.Error(), Err: errors.Unwrap(err)}
}

// WithClass wraps err so that it is raised as class.
func WithClass(err error, class string) error {
	if err == nil {
		return nil
	}
	return &Error{Class: class, Message: err.Error(), Err: err}
}

// OrClass returns err unchanged when it already carries an exception
// class, otherwise wraps it with the given default.
func OrClass(err error, class string) error {
	if err == nil {
		return nil
	}
	var je *Error
	if errors.As(err, &je) && je.Class != "" {
		return err
	}
	return WithClass(err, class)
}

// ClassOf reports the exception class err would be raised as, falling back
// to java.lang.RuntimeException.
func ClassOf(err error) string {
	var je *Error
	if errors.As(err, &je) && je.Class != "" {
		return je.Class
	}
	return ClassRuntime
}

// NullHandleError is returned when a host wrapper no longer carries a
// native handle.
var NullHandleError = &Error{Class: ClassNullPointer, Message: "The pointer is null"}

// TypeMismatchError is returned when a host object's type-hash differs
// from the one the bridge expects.
func TypeMismatchError(want, got int64) *Error {
	return Errorf(ClassIllegalArgument, "type hash mismatch: expected %d, got %d", want, got)
}

// ErrPendingException is returned by backends when a host call left an
// exception pending. Throw leaves that exception in place.
var ErrPendingException = errors.New("host exception pending")

// Throw raises err as a host exception. It does nothing when err is nil
// or when an exception is already pending, so an exception raised by the
// host during the call is never replaced.
func (e *Env) Throw(err error) {
	if err == nil || e.b.ExceptionCheck() {
		return
	}
	if tErr := e.b.ThrowNew(ClassOf(err), err.Error()); tErr != nil {
		// the requested class could not be found; fall back to a class
		// every JVM has
		_ = e.b.ThrowNew(ClassRuntime, err.Error())
	}
}
