package compiler

import (
	"fmt"
	"io"

	"github.com/dave/jennifer/jen"

	"github.com/rubiojr/jnigen/gobridge"
)

const generatedHeader = "Code generated by jnigen. DO NOT EDIT."

// BuildTag guards generated bridge files so packages keep building
// without cgo and a JDK.
const BuildTag = "jni"

// EmitBridgeFile renders the cgo bridge file of a package: one exported
// function per native method, the destructor and type-hash bridges of
// every class, and a proxy for every callback interface.
func EmitBridgeFile(w io.Writer, pkg *gobridge.Package) error {
	f := newBridgeFile(jen.NewFilePathName(pkg.Path, pkg.Name))
	for _, c := range pkg.Classes {
		emitClassBridges(f, c)
	}
	for _, it := range pkg.Interfaces {
		emitProxy(f, it)
	}
	return f.Render(w)
}

// EmitBridge renders the bridges of a single class as a file of its own.
// The package name is derived from the class import path.
func EmitBridge(w io.Writer, c *gobridge.Class) error {
	f := newBridgeFile(jen.NewFilePath(c.GoPath))
	emitClassBridges(f, c)
	return f.Render(w)
}

func newBridgeFile(f *jen.File) *jen.File {
	f.HeaderComment(generatedHeader)
	f.HeaderComment("//go:build " + BuildTag)
	f.CgoPreamble("#include <stdint.h>")
	f.Anon(jvmPath)
	return f
}

func emitClassBridges(f *jen.File, c *gobridge.Class) {
	for _, m := range c.Methods {
		emitBridge(f, c, m)
	}
	for _, m := range c.Constructors {
		emitBridge(f, c, m)
	}
	if c.HasConstructors() {
		name := c.DropBridgeName()
		f.Comment("//export " + name)
		f.Func().Id(name).Params(
			jen.List(jen.Id("env"), jen.Id("cls")).Uintptr(),
			jen.Id("ptr").Int64(),
		).Block(
			rt("Drop").Call(jen.Id("ptr")),
		)
		f.Line()
	}

	name := c.TypeHashBridgeName()
	f.Comment("//export " + name)
	f.Func().Id(name).Params(
		jen.List(jen.Id("env"), jen.Id("cls")).Uintptr(),
	).Int64().Block(
		jen.Return(rt("TypeHash").Call(jen.Lit(c.Identity()))),
	)
	f.Line()
}

// bridge accumulates the body of one exported function.
type bridge struct {
	m    *gobridge.Method
	body []jen.Code
}

func (b *bridge) add(code ...jen.Code) { b.body = append(b.body, code...) }

// throwOnErr appends the early return taken when err is set. wrap is
// applied to err before it is thrown.
func (b *bridge) throwOnErr(wrap func(jen.Code) jen.Code) {
	err := jen.Code(jen.Id("err"))
	if wrap != nil {
		err = wrap(err)
	}
	b.add(jen.If(jen.Id("err").Op("!=").Nil()).Block(
		jen.Id("e").Dot("Throw").Call(err),
		returnSentinel(b.m.Sentinel()),
	))
}

func nativeExecution(err jen.Code) jen.Code {
	return rt("OrClass").Call(err, rt("ClassNativeExecution"))
}

// needsEnv reports whether the bridge body talks to the JVM at all.
func needsEnv(m *gobridge.Method) bool {
	if m.Receiver() != nil || m.Fallible() {
		return true
	}
	for _, p := range m.Args() {
		if !p.Type.Kind.IsPrimitive() && p.Type.Kind != gobridge.OpaqueHandle {
			return true
		}
	}
	if ret := m.Result.Unwrap(); ret != nil {
		switch {
		case ret.Kind.IsPrimitive(), ret.Kind == gobridge.Unit, ret.Kind == gobridge.ReceiverHandle,
			ret.Kind == gobridge.OpaqueHandle:
		default:
			return true
		}
	}
	return false
}

func emitBridge(f *jen.File, c *gobridge.Class, m *gobridge.Method) {
	b := &bridge{m: m}
	name := c.BridgeName(m)

	self := "cls"
	if m.Receiver() != nil {
		self = "obj"
	}
	params := []jen.Code{jen.List(jen.Id("env"), jen.Id(self)).Uintptr()}
	for i, p := range m.HostArgs() {
		params = append(params, jen.Id(fmt.Sprintf("p%d", i)).Add(abiType(p.Type)))
	}

	if needsEnv(m) {
		b.add(
			jen.Id("e").Op(":=").Add(rt("Attach")).Call(jen.Id("env")),
			jen.Defer().Id("e").Dot("Release").Call(),
		)
	}
	if m.Receiver() != nil {
		b.add(jen.List(jen.Id("this"), jen.Err()).Op(":=").Add(rt("Receiver")).
			Types(jen.Qual(c.GoPath, c.Name)).
			Call(jen.Id("e"), rt("Object").Call(jen.Id("obj"))))
		b.throwOnErr(nil)
	}

	args := b.convertArgs()

	var call *jen.Statement
	if m.Receiver() != nil {
		call = jen.Id("this").Dot(m.GoName).Call(args...)
	} else {
		call = jen.Qual(c.GoPath, m.GoName).Call(args...)
	}
	b.callAndReturn(call)

	f.Comment("//export " + name)
	fn := f.Func().Id(name).Params(params...)
	if m.Returns() {
		fn.Add(abiType(m.Result))
	}
	fn.Block(b.body...)
	f.Line()
}

// convertArgs emits the conversion of every host argument and returns
// the expressions passed to the Go function, in declaration order.
func (b *bridge) convertArgs() []jen.Code {
	var args []jen.Code
	host := 0
	for _, p := range b.m.Args() {
		t := p.Type
		if p.IsRuntimeContext() {
			if t.Mutable {
				args = append(args, jen.Id("e"))
			} else {
				args = append(args, jen.Op("*").Id("e"))
			}
			continue
		}

		in := jen.Id(fmt.Sprintf("p%d", host))
		local := jen.Id(fmt.Sprintf("a%d", host))
		host++

		switch {
		case t.Kind == gobridge.Bool:
			args = append(args, jen.Add(in).Op("!=").Lit(0))
		case t.Kind.IsPrimitive():
			args = append(args, in)
		case t.Kind == gobridge.OpaqueHandle:
			args = append(args, rt("Object").Call(in))
		case t.Kind == gobridge.Callback:
			proxy := jen.Qual(t.GoPath, gobridge.ProxyConstructor(t.GoName))
			b.add(jen.List(local, jen.Err()).Op(":=").Add(rt("CallbackFrom")).
				Call(jen.Id("e"), rt("Object").Call(in), proxy))
			b.throwOnErr(nil)
			args = append(args, local)
		default:
			b.add(jen.List(local, jen.Err()).Op(":=").Add(fromFunc(t)).
				Call(jen.Id("e"), rt("Object").Call(in)))
			b.throwOnErr(nil)
			args = append(args, local)
		}
	}
	return args
}

func (b *bridge) callAndReturn(call *jen.Statement) {
	m := b.m
	ret := m.Result.Unwrap()

	if !m.Returns() {
		if m.Fallible() {
			b.add(jen.If(jen.Err().Op(":=").Add(call), jen.Err().Op("!=").Nil()).Block(
				jen.Id("e").Dot("Throw").Call(nativeExecution(jen.Err())),
			))
			return
		}
		b.add(call)
		return
	}

	if m.Fallible() {
		b.add(jen.List(jen.Id("res"), jen.Err()).Op(":=").Add(call))
		b.throwOnErr(nativeExecution)
	} else if ret.Kind.IsPrimitive() || ret.Kind == gobridge.OpaqueHandle {
		b.add(jen.Return(returnValue(ret, call)))
		return
	} else {
		b.add(jen.Id("res").Op(":=").Add(call))
	}

	switch {
	case ret.Kind == gobridge.ReceiverHandle:
		b.add(jen.Return(rt("Box").Call(jen.Id("res"))))
	case ret.Kind.IsPrimitive(), ret.Kind == gobridge.OpaqueHandle:
		b.add(jen.Return(returnValue(ret, jen.Id("res"))))
	default:
		b.add(jen.List(jen.Id("out"), jen.Err()).Op(":=").Add(toFunc(ret)).
			Call(jen.Id("e"), jen.Id("res")))
		b.throwOnErr(nil)
		b.add(jen.Return(jen.Uintptr().Call(jen.Id("out"))))
	}
}

// returnValue converts a primitive or opaque result to its ABI type.
func returnValue(t *gobridge.BridgeType, v *jen.Statement) *jen.Statement {
	switch t.Kind {
	case gobridge.Bool:
		return rt("Bool").Call(v)
	case gobridge.OpaqueHandle:
		return jen.Uintptr().Call(v)
	}
	return v
}
