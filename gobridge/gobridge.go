// Package gobridge models Go declarations annotated for export to the JVM.
//
// Types written in declarations are classified into a closed set of
// BridgeType variants. Methods, classes and callback interfaces built on
// top of that classification are what the compiler package renders into
// cgo bridge functions and Java sources; both outputs read the same model
// so they cannot drift apart.
package gobridge

import "strings"

// Kind enumerates the BridgeType variants.
type Kind int

const (
	Text Kind = iota
	ReceiverHandle
	Unit
	Int32
	Int64
	Bool
	Float32
	Float64
	Int16
	Char16
	Int8
	RuntimeContext
	Fallible
	Optional
	ObjectRef
	OpaqueHandle
	List
	Map
	Callback
)

var kindNames = [...]string{
	Text:           "Text",
	ReceiverHandle: "ReceiverHandle",
	Unit:           "Unit",
	Int32:          "Int32",
	Int64:          "Int64",
	Bool:           "Bool",
	Float32:        "Float32",
	Float64:        "Float64",
	Int16:          "Int16",
	Char16:         "Char16",
	Int8:           "Int8",
	RuntimeContext: "RuntimeContext",
	Fallible:       "Fallible",
	Optional:       "Optional",
	ObjectRef:      "ObjectRef",
	OpaqueHandle:   "OpaqueHandle",
	List:           "List",
	Map:            "Map",
	Callback:       "Callback",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// IsPrimitive reports whether k is a scalar passed by value across the
// bridge.
func (k Kind) IsPrimitive() bool {
	switch k {
	case Int32, Int64, Bool, Float32, Float64, Int16, Char16, Int8:
		return true
	}
	return false
}

// BridgeType is a classified type. Which fields are meaningful depends on
// Kind:
//
//	RuntimeContext  Mutable
//	Fallible        Inner (Unit for a bare error)
//	Optional        Inner, Pointer
//	List            Inner (element)
//	Map             Key, Inner (value)
//	ObjectRef       Target, Host, GoPath, GoName
//	Callback        Target, Host, GoPath, GoName
type BridgeType struct {
	Kind    Kind
	Mutable bool
	Pointer bool
	Inner   *BridgeType
	Key     *BridgeType

	// Target is the stable identity of the native type or trait.
	Target string
	// Host is the dotted host class name.
	Host string
	// GoPath and GoName locate the Go type Target names.
	GoPath string
	GoName string
}

// Elem returns the element type of a List.
func (t *BridgeType) Elem() *BridgeType { return t.Inner }

// Value returns the value type of a Map.
func (t *BridgeType) Value() *BridgeType { return t.Inner }

// IsVoid reports whether values of t carry nothing back to the host.
func (t *BridgeType) IsVoid() bool {
	if t == nil {
		return true
	}
	switch t.Kind {
	case Unit:
		return true
	case Fallible:
		return t.Inner.IsVoid()
	}
	return false
}

// Unwrap strips a Fallible wrapper.
func (t *BridgeType) Unwrap() *BridgeType {
	if t != nil && t.Kind == Fallible {
		return t.Inner
	}
	return t
}

// Contains reports whether t or any type nested in it is of kind k.
func (t *BridgeType) Contains(k Kind) bool {
	if t == nil {
		return false
	}
	return t.Kind == k || t.Key.Contains(k) || t.Inner.Contains(k)
}

// HostSimpleName returns the last component of Host.
func (t *BridgeType) HostSimpleName() string {
	return t.Host[strings.LastIndex(t.Host, ".")+1:]
}

func (t *BridgeType) String() string {
	if t == nil {
		return "<none>"
	}
	switch t.Kind {
	case RuntimeContext:
		if t.Mutable {
			return "RuntimeContext{mut}"
		}
		return "RuntimeContext"
	case Fallible, List:
		return t.Kind.String() + "<" + t.Inner.String() + ">"
	case Optional:
		if t.Pointer {
			return "Optional*<" + t.Inner.String() + ">"
		}
		return "Optional<" + t.Inner.String() + ">"
	case Map:
		return "Map<" + t.Key.String() + ", " + t.Inner.String() + ">"
	case ObjectRef, Callback:
		return t.Kind.String() + "<" + t.Target + ">"
	}
	return t.Kind.String()
}
