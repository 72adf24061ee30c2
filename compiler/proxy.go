package compiler

import (
	"fmt"

	"github.com/dave/jennifer/jen"
	"github.com/iancoleman/strcase"

	"github.com/rubiojr/jnigen/gobridge"
)

func proxyTypeName(it *gobridge.Interface) string {
	return strcase.ToLowerCamel(it.Name) + "Proxy"
}

// emitProxy renders the Go implementation of a callback interface that
// forwards every call to a host object.
func emitProxy(f *jen.File, it *gobridge.Interface) {
	typ := proxyTypeName(it)
	ctor := it.ProxyConstructor()

	f.Type().Id(typ).Struct(jen.Id("obj").Add(rt("Object")))
	f.Line()

	f.Commentf("%s wraps a host object implementing %s.", ctor, it.HostName())
	f.Comment("The result is only valid during the native call that received obj.")
	f.Func().Id(ctor).Params(jen.Id("obj").Add(rt("Object"))).Qual(it.GoPath, it.Name).Block(
		jen.Return(jen.Op("&").Id(typ).Values(jen.Dict{jen.Id("obj"): jen.Id("obj")})),
	)
	f.Line()

	for _, m := range it.Methods {
		emitProxyMethod(f, typ, m)
	}
}

func emitProxyMethod(f *jen.File, typ string, m *gobridge.Method) {
	var (
		params []jen.Code
		body   []jen.Code
		values []jen.Code
	)
	env := jen.Id("env")
	for i, p := range m.Args() {
		if p.IsRuntimeContext() {
			params = append(params, jen.Id("env").Op("*").Add(rt("Env")))
			continue
		}
		arg := jen.Id(fmt.Sprintf("a%d", i))
		params = append(params, jen.Add(arg).Add(goType(p.Type, nil)))

		t := p.Type
		switch {
		case t.Kind.IsPrimitive():
			values = append(values, rt(scalars[t.Kind].value).Call(arg))
		case t.Kind == gobridge.OpaqueHandle:
			values = append(values, rt("ObjectValue").Call(arg))
		default:
			local := jen.Id(fmt.Sprintf("j%d", i))
			body = append(body,
				jen.List(local, jen.Err()).Op(":=").Add(toFunc(t)).Call(env, arg),
				jen.If(jen.Err().Op("!=").Nil()).Block(jen.Return()),
				jen.Defer().Add(env).Dot("DeleteLocalRef").Call(local),
			)
			values = append(values, rt("ObjectValue").Call(local))
		}
	}

	ret := m.Result.Unwrap()
	results := []jen.Code{jen.Err().Error()}
	if m.Returns() {
		results = []jen.Code{jen.Id("res").Add(goType(ret, nil)), jen.Err().Error()}
	}

	callArgs := append([]jen.Code{
		jen.Id("cb").Dot("obj"),
		jen.Lit(m.HostName),
		jen.Lit(m.Descriptor()),
	}, values...)
	call := jen.Add(env).Dot("CallMethod").Call(callArgs...)

	if !m.Returns() {
		body = append(body,
			jen.List(jen.Id("_"), jen.Err()).Op("=").Add(call),
			jen.Return(),
		)
	} else {
		body = append(body,
			jen.List(jen.Id("r"), jen.Err()).Op(":=").Add(call),
			jen.If(jen.Err().Op("!=").Nil()).Block(jen.Return()),
		)
		switch {
		case ret.Kind.IsPrimitive():
			body = append(body, jen.Return(jen.Id("r").Dot(scalars[ret.Kind].getter).Call(), jen.Nil()))
		case ret.Kind == gobridge.OpaqueHandle:
			body = append(body, jen.Return(jen.Id("r").Dot("Object").Call(), jen.Nil()))
		default:
			body = append(body,
				jen.Defer().Add(env).Dot("DeleteLocalRef").Call(jen.Id("r").Dot("Object").Call()),
				jen.Return(fromFunc(ret).Call(env, jen.Id("r").Dot("Object").Call())),
			)
		}
	}

	f.Func().Params(jen.Id("cb").Op("*").Id(typ)).Id(m.GoName).Params(params...).
		Params(results...).Block(body...)
	f.Line()
}
