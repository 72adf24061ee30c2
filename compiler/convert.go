package compiler

import (
	"fmt"

	"github.com/dave/jennifer/jen"

	"github.com/rubiojr/jnigen/gobridge"
	"github.com/rubiojr/jnigen/jnirt"
)

const (
	rtPath  = gobridge.RuntimePath
	jvmPath = gobridge.RuntimePath + "/jvm"
)

func rt(name string) *jen.Statement { return jen.Qual(rtPath, name) }

// scalar describes how a primitive crosses the bridge.
type scalar struct {
	goType func() *jen.Statement // Go type, also the ABI type except for bool
	boxed  string                // suffix of the jnirt Boxed* converters
	value  string                // jnirt.Value constructor
	getter string                // jnirt.Value accessor
}

var scalars = map[gobridge.Kind]scalar{
	gobridge.Int32:   {jen.Int32, "Int32", "Int32Value", "Int32"},
	gobridge.Int64:   {jen.Int64, "Int64", "Int64Value", "Int64"},
	gobridge.Bool:    {jen.Bool, "Bool", "BoolValue", "Bool"},
	gobridge.Float32: {jen.Float32, "Float32", "Float32Value", "Float32"},
	gobridge.Float64: {jen.Float64, "Float64", "Float64Value", "Float64"},
	gobridge.Int16:   {jen.Int16, "Int16", "Int16Value", "Int16"},
	gobridge.Char16:  {jen.Uint16, "Char", "CharValue", "Char"},
	gobridge.Int8:    {jen.Int8, "Int8", "Int8Value", "Int8"},
}

// goType is the Go type of a value of t as the annotated code sees it.
// owner is the class a ReceiverHandle stands for.
func goType(t *gobridge.BridgeType, owner *gobridge.Class) *jen.Statement {
	if s, ok := scalars[t.Kind]; ok {
		return s.goType()
	}
	switch t.Kind {
	case gobridge.Text:
		return jen.String()
	case gobridge.OpaqueHandle:
		return rt("Object")
	case gobridge.ObjectRef:
		return jen.Op("*").Qual(t.GoPath, t.GoName)
	case gobridge.Callback:
		return jen.Qual(t.GoPath, t.GoName)
	case gobridge.ReceiverHandle:
		return jen.Op("*").Qual(owner.GoPath, owner.Name)
	case gobridge.List:
		return jen.Index().Add(goType(t.Inner, owner))
	case gobridge.Map:
		return jen.Map(goType(t.Key, owner)).Add(goType(t.Inner, owner))
	case gobridge.Optional:
		if t.Pointer {
			return jen.Op("*").Add(goType(t.Inner, owner))
		}
		return rt("Optional").Types(goType(t.Inner, owner))
	case gobridge.Fallible:
		return goType(t.Inner, owner)
	}
	panic(fmt.Sprintf("no Go type for %s", t))
}

// abiType is the Go type a bridge uses for t in its exported signature.
func abiType(t *gobridge.BridgeType) *jen.Statement {
	t = t.Unwrap()
	switch t.Kind {
	case gobridge.Bool:
		return jen.Uint8()
	case gobridge.ReceiverHandle:
		return jen.Int64()
	}
	if s, ok := scalars[t.Kind]; ok {
		return s.goType()
	}
	return jen.Uintptr()
}

// fromFunc renders a jnirt.FromFunc converting a host reference into t.
// Primitives in this position are boxed.
func fromFunc(t *gobridge.BridgeType) *jen.Statement {
	if s, ok := scalars[t.Kind]; ok {
		return rt("Boxed" + s.boxed + "From")
	}
	switch t.Kind {
	case gobridge.Text:
		return rt("StringFrom")
	case gobridge.OpaqueHandle:
		return rt("ObjectFrom")
	case gobridge.ObjectRef:
		hash := jnirt.TypeHash(t.Target)
		return rt("RefOf").Types(jen.Qual(t.GoPath, t.GoName)).Call(jen.Lit(hash))
	case gobridge.List:
		return rt("ListOf").Types(goType(t.Inner, nil)).Call(fromFunc(t.Inner))
	case gobridge.Map:
		return rt("MapOf").Types(goType(t.Key, nil), goType(t.Inner, nil)).
			Call(fromFunc(t.Key), fromFunc(t.Inner))
	case gobridge.Optional:
		name := "OptionalOf"
		if t.Pointer {
			name = "PointerOf"
		}
		return rt(name).Types(goType(t.Inner, nil)).Call(fromFunc(t.Inner))
	}
	panic(fmt.Sprintf("no host conversion from %s", t))
}

// toFunc renders a jnirt.ToFunc converting t into a host reference.
func toFunc(t *gobridge.BridgeType) *jen.Statement {
	if s, ok := scalars[t.Kind]; ok {
		return rt("Boxed" + s.boxed + "To")
	}
	switch t.Kind {
	case gobridge.Text:
		return rt("StringTo")
	case gobridge.OpaqueHandle:
		return rt("ObjectTo")
	case gobridge.List:
		return rt("ListTo").Types(goType(t.Inner, nil)).Call(toFunc(t.Inner))
	case gobridge.Map:
		return rt("MapTo").Types(goType(t.Key, nil), goType(t.Inner, nil)).
			Call(toFunc(t.Key), toFunc(t.Inner))
	case gobridge.Optional:
		name := "OptionalTo"
		if t.Pointer {
			name = "PointerTo"
		}
		return rt(name).Types(goType(t.Inner, nil)).Call(toFunc(t.Inner))
	}
	panic(fmt.Sprintf("no host conversion to %s", t))
}

// sentinel renders the value returned after throwing, nil for a bare
// return.
func sentinel(s gobridge.Sentinel) jen.Code {
	switch s {
	case gobridge.SentinelNull:
		return rt("Null")
	case gobridge.SentinelZero, gobridge.SentinelZeroFloat:
		return jen.Lit(0)
	case gobridge.SentinelFalse:
		return rt("False")
	}
	return nil
}

func returnSentinel(s gobridge.Sentinel) *jen.Statement {
	if v := sentinel(s); v != nil {
		return jen.Return(v)
	}
	return jen.Return()
}
