package gobridge

import (
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"path/filepath"
	"strconv"

	"golang.org/x/tools/go/packages"
)

// RuntimePath is the import path of the runtime library generated code
// and annotated declarations use.
const RuntimePath = "github.com/rubiojr/jnigen/jnirt"

const loadMode = packages.NeedName | packages.NeedFiles | packages.NeedTypes |
	packages.NeedSyntax | packages.NeedTypesInfo

// Inspect loads the Go package in dir and builds the model of every
// annotated class and interface in it. Every diagnostic of the package is
// returned at once as a go/scanner.ErrorList.
func Inspect(dir string) (*Package, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	cfg := &packages.Config{Mode: loadMode, Dir: absDir}
	pkgs, err := packages.Load(cfg, ".")
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", dir, err)
	}
	if len(pkgs) != 1 {
		return nil, fmt.Errorf("%s: expected one package, found %d", dir, len(pkgs))
	}

	p := pkgs[0]
	if len(p.Errors) > 0 {
		var diags diagnostics
		for _, e := range p.Errors {
			diags.add(e)
		}
		return nil, diags.err()
	}

	in := &inspector{
		pkg:        p,
		classes:    map[*types.TypeName]*ClassDecl{},
		interfaces: map[*types.TypeName]*InterfaceDecl{},
	}
	in.collectTypes()
	in.collectFuncs()
	pkg := in.build(absDir)
	if err := in.diags.err(); err != nil {
		return nil, err
	}
	return pkg, nil
}

type inspector struct {
	pkg   *packages.Package
	diags diagnostics

	// declaration order
	classOrder []*types.TypeName
	ifaceOrder []*types.TypeName

	classes    map[*types.TypeName]*ClassDecl
	interfaces map[*types.TypeName]*InterfaceDecl
}

func (in *inspector) pos(p token.Pos) token.Position {
	return in.pkg.Fset.Position(p)
}

// declDirectives holds the directives of one doc comment.
type declDirectives struct {
	main   *Directive
	params map[string]Attrs
}

func (in *inspector) directives(cg *ast.CommentGroup) (declDirectives, bool) {
	var dd declDirectives
	if cg == nil {
		return dd, true
	}
	ok := true
	for _, c := range cg.List {
		if !IsDirective(c.Text) {
			continue
		}
		d, err := ParseDirective(c.Text, in.pos(c.Slash))
		if err != nil {
			in.diags.add(err)
			ok = false
			continue
		}
		if d.Kind == DirParam {
			if dd.params == nil {
				dd.params = map[string]Attrs{}
			}
			if _, dup := dd.params[d.Args[0]]; dup {
				in.diags.add(errorf(d.Pos, "duplicate //jni:param for %s", d.Args[0]))
				ok = false
				continue
			}
			dd.params[d.Args[0]] = d.Attrs
			continue
		}
		if dd.main != nil {
			in.diags.add(errorf(d.Pos, "//jni:%s conflicts with //jni:%s", d.Kind, dd.main.Kind))
			ok = false
			continue
		}
		dd.main = d
	}
	return dd, ok
}

func (in *inspector) collectTypes() {
	for _, f := range in.pkg.Syntax {
		for _, decl := range f.Decls {
			gd, isGen := decl.(*ast.GenDecl)
			if !isGen || gd.Tok != token.TYPE {
				continue
			}
			for _, spec := range gd.Specs {
				ts := spec.(*ast.TypeSpec)
				doc := ts.Doc
				if doc == nil && len(gd.Specs) == 1 {
					doc = gd.Doc
				}
				in.collectType(ts, doc)
			}
		}
	}
}

func (in *inspector) collectType(ts *ast.TypeSpec, doc *ast.CommentGroup) {
	dd, ok := in.directives(doc)
	if !ok || dd.main == nil {
		return
	}
	d := dd.main
	if dd.params != nil {
		in.diags.add(errorf(d.Pos, "//jni:param is only valid on functions and methods"))
	}
	obj, _ := in.pkg.TypesInfo.Defs[ts.Name].(*types.TypeName)
	if obj == nil {
		return
	}
	pos := in.pos(ts.Name.Pos())

	switch d.Kind {
	case DirClass:
		if _, isStruct := obj.Type().Underlying().(*types.Struct); !isStruct || ts.Assign.IsValid() {
			in.diags.add(errorf(pos, "//jni:class requires a struct type, %s is not one", obj.Name()))
			return
		}
		if ts.TypeParams != nil {
			in.diags.add(errorf(pos, "generic type %s cannot be exported", obj.Name()))
			return
		}
		in.classes[obj] = &ClassDecl{
			Name:   obj.Name(),
			GoPath: in.pkg.PkgPath,
			Attrs:  d.Attrs,
			Doc:    doc.Text(),
			Pos:    pos,
		}
		in.classOrder = append(in.classOrder, obj)

	case DirInterface:
		it, isIface := ts.Type.(*ast.InterfaceType)
		if !isIface {
			in.diags.add(errorf(pos, "//jni:interface requires an interface type, %s is not one", obj.Name()))
			return
		}
		decl := &InterfaceDecl{
			Name:   obj.Name(),
			GoPath: in.pkg.PkgPath,
			Attrs:  d.Attrs,
			Doc:    doc.Text(),
			Pos:    pos,
		}
		in.interfaces[obj] = decl
		in.ifaceOrder = append(in.ifaceOrder, obj)
		in.collectInterfaceMethods(decl, it)

	default:
		in.diags.add(errorf(d.Pos, "//jni:%s is not valid on a type", d.Kind))
	}
}

func (in *inspector) collectInterfaceMethods(decl *InterfaceDecl, it *ast.InterfaceType) {
	for _, field := range it.Methods.List {
		if len(field.Names) == 0 {
			in.diags.add(errorf(in.pos(field.Pos()), "interface %s: embedded interfaces are not supported", decl.Name))
			continue
		}
		dd, ok := in.directives(field.Doc)
		if !ok {
			continue
		}
		var attrs Attrs
		if dd.main != nil {
			if dd.main.Kind != DirMethod {
				in.diags.add(errorf(dd.main.Pos, "//jni:%s is not valid on an interface method", dd.main.Kind))
				continue
			}
			attrs = dd.main.Attrs
		}
		for _, name := range field.Names {
			fn, _ := in.pkg.TypesInfo.Defs[name].(*types.Func)
			if fn == nil {
				continue
			}
			sig, err := in.signature(fn, attrs, dd.params, nil)
			if err != nil {
				in.diags.add(err)
				continue
			}
			sig.Receiver = &ReceiverDecl{}
			sig.Trait = true
			sig.Doc = field.Doc.Text()
			decl.Methods = append(decl.Methods, sig)
		}
	}
}

func (in *inspector) collectFuncs() {
	for _, f := range in.pkg.Syntax {
		for _, decl := range f.Decls {
			fd, isFunc := decl.(*ast.FuncDecl)
			if !isFunc {
				continue
			}
			dd, ok := in.directives(fd.Doc)
			if !ok {
				continue
			}
			if dd.main == nil {
				if dd.params != nil {
					in.diags.add(errorf(in.pos(fd.Name.Pos()), "%s: //jni:param without an export directive", fd.Name.Name))
				}
				continue
			}
			in.collectFunc(fd, dd)
		}
	}
}

func (in *inspector) collectFunc(fd *ast.FuncDecl, dd declDirectives) {
	d := dd.main
	fn, _ := in.pkg.TypesInfo.Defs[fd.Name].(*types.Func)
	if fn == nil {
		return
	}
	pos := in.pos(fd.Name.Pos())
	if fd.Type.TypeParams != nil {
		in.diags.add(errorf(pos, "generic function %s cannot be exported", fn.Name()))
		return
	}
	gosig := fn.Type().(*types.Signature)

	var (
		owner *types.TypeName
		recv  *ReceiverDecl
	)
	switch d.Kind {
	case DirMethod:
		if gosig.Recv() == nil {
			in.diags.add(errorf(d.Pos, "//jni:method on function %s; use //jni:static", fn.Name()))
			return
		}
		rt := types.Unalias(gosig.Recv().Type())
		_, mutable := rt.(*types.Pointer)
		owner = namedObj(rt)
		recv = &ReceiverDecl{Mutable: mutable}

	case DirStatic, DirConstructor:
		if gosig.Recv() != nil {
			in.diags.add(errorf(d.Pos, "//jni:%s on method %s; use //jni:method", d.Kind, fn.Name()))
			return
		}
		owner = in.classByName(d.Args[0])
		if owner == nil {
			in.diags.add(errorf(d.Pos, "%s: unknown class %s", fn.Name(), d.Args[0]))
			return
		}

	default:
		in.diags.add(errorf(d.Pos, "//jni:%s is not valid on a function", d.Kind))
		return
	}

	cd := in.classes[owner]
	if cd == nil {
		in.diags.add(errorf(pos, "%s: receiver is not a //jni:class type", fn.Name()))
		return
	}

	var self *types.TypeName
	if d.Kind == DirConstructor {
		self = owner
	}
	sig, err := in.signature(fn, d.Attrs, dd.params, self)
	if err != nil {
		in.diags.add(err)
		return
	}
	sig.Receiver = recv
	sig.Constructor = d.Kind == DirConstructor
	sig.Doc = fd.Doc.Text()
	cd.Methods = append(cd.Methods, sig)
}

func (in *inspector) classByName(name string) *types.TypeName {
	for _, obj := range in.classOrder {
		if obj.Name() == name {
			return obj
		}
	}
	return nil
}

// signature translates a Go function signature. self is the class a
// constructor returns.
func (in *inspector) signature(fn *types.Func, attrs Attrs, params map[string]Attrs, self *types.TypeName) (Signature, error) {
	gosig := fn.Type().(*types.Signature)
	pos := in.pos(fn.Pos())
	sig := Signature{Name: fn.Name(), Attrs: attrs, Pos: pos}
	if attrs == nil {
		sig.Attrs = Attrs{}
	}
	if gosig.Variadic() {
		return sig, errorf(pos, "%s: variadic functions cannot be exported", fn.Name())
	}

	used := map[string]bool{}
	for i := range gosig.Params().Len() {
		v := gosig.Params().At(i)
		name := v.Name()
		if name == "" || name == "_" {
			name = "arg" + strconv.Itoa(i)
		}
		used[name] = true
		sig.Params = append(sig.Params, ParamDecl{
			Name:  name,
			Type:  in.typeExpr(v.Type(), in.pos(v.Pos()), nil),
			Attrs: params[name],
		})
	}
	for name := range params {
		if !used[name] {
			return sig, errorf(pos, "%s: //jni:param names unknown parameter %s", fn.Name(), name)
		}
	}

	result, err := in.results(gosig.Results(), pos, self)
	if err != nil {
		return sig, errorf(pos, "%s: %s", fn.Name(), err.Msg)
	}
	sig.Result = result
	return sig, nil
}

func (in *inspector) results(res *types.Tuple, pos token.Position, self *types.TypeName) (*TypeExpr, *ClassificationError) {
	switch res.Len() {
	case 0:
		return nil, nil
	case 1:
		t := res.At(0).Type()
		if isError(t) {
			return &TypeExpr{Name: ShapeFallible, Args: []*TypeExpr{{Name: ShapeUnit, Pos: pos}}, Pos: pos}, nil
		}
		return in.typeExpr(t, pos, self), nil
	case 2:
		if !isError(res.At(1).Type()) {
			return nil, errorf(pos, "the second result must be an error")
		}
		var inner *TypeExpr
		if isError(res.At(0).Type()) {
			unit := &TypeExpr{Name: ShapeUnit, Pos: pos}
			inner = &TypeExpr{Name: ShapeFallible, Args: []*TypeExpr{unit}, Pos: pos}
		} else {
			inner = in.typeExpr(res.At(0).Type(), pos, self)
		}
		return &TypeExpr{Name: ShapeFallible, Args: []*TypeExpr{inner}, Pos: pos}, nil
	}
	return nil, errorf(pos, "at most two results are supported, got %d", res.Len())
}

// typeExpr translates a go/types type. Types with no bridge shape come
// back under their Go spelling, which the classifier rejects.
func (in *inspector) typeExpr(t types.Type, pos token.Position, self *types.TypeName) *TypeExpr {
	t = types.Unalias(t)
	unsupported := &TypeExpr{Name: types.TypeString(t, in.qualifier), Pos: pos}

	switch t := t.(type) {
	case *types.Basic:
		if name, ok := basicShapes[t.Kind()]; ok {
			return &TypeExpr{Name: name, Pos: pos}
		}
		return unsupported

	case *types.Pointer:
		elem := types.Unalias(t.Elem())
		if named, ok := elem.(*types.Named); ok {
			obj := named.Obj()
			if isRuntime(obj, "Env") {
				return &TypeExpr{Name: ShapeEnv, Ref: true, Mutable: true, Pos: pos}
			}
			if self != nil && obj == self {
				return &TypeExpr{Name: ShapeSelf, Pos: pos}
			}
			if _, isStruct := elem.Underlying().(*types.Struct); isStruct {
				return &TypeExpr{
					Name: obj.Name(),
					Path: pkgPath(obj),
					Ref:  true,
					Host: in.hostOf(obj),
					Pos:  pos,
				}
			}
		}
		if b, isBasic := elem.(*types.Basic); isBasic {
			if name, ok := basicShapes[b.Kind()]; ok {
				inner := &TypeExpr{Name: name, Pos: pos}
				return &TypeExpr{Name: ShapeOptional, Args: []*TypeExpr{inner}, Pointer: true, Pos: pos}
			}
		}
		return unsupported

	case *types.Named:
		obj := t.Obj()
		if pkgPath(obj) == RuntimePath {
			switch obj.Name() {
			case "Env":
				return &TypeExpr{Name: ShapeEnv, Ref: true, Pos: pos}
			case "Object":
				return &TypeExpr{Name: ShapeObject, Pos: pos}
			case "Optional":
				if t.TypeArgs().Len() == 1 {
					inner := in.typeExpr(t.TypeArgs().At(0), pos, nil)
					return &TypeExpr{Name: ShapeOptional, Args: []*TypeExpr{inner}, Pos: pos}
				}
			}
			return unsupported
		}
		if _, isIface := t.Underlying().(*types.Interface); isIface && !isError(t) {
			trait := &TypeExpr{Name: obj.Name(), Path: pkgPath(obj), Host: in.hostOf(obj), Pos: pos}
			return &TypeExpr{Name: ShapeDyn, Args: []*TypeExpr{trait}, Pos: pos}
		}
		return &TypeExpr{Name: obj.Name(), Path: pkgPath(obj), Pos: pos}

	case *types.Slice:
		return &TypeExpr{Name: ShapeList, Args: []*TypeExpr{in.typeExpr(t.Elem(), pos, nil)}, Pos: pos}

	case *types.Map:
		key := in.typeExpr(t.Key(), pos, nil)
		val := in.typeExpr(t.Elem(), pos, nil)
		return &TypeExpr{Name: ShapeMap, Args: []*TypeExpr{key, val}, Pos: pos}

	case *types.Interface:
		return &TypeExpr{Name: ShapeDyn, Path: in.pkg.PkgPath, Anonymous: true, Pos: pos}
	}
	return unsupported
}

func (in *inspector) qualifier(p *types.Package) string {
	if p.Path() == in.pkg.PkgPath {
		return ""
	}
	return p.Name()
}

// hostOf returns the host name of a class or interface declared in the
// inspected package, or "" for anything else.
func (in *inspector) hostOf(obj *types.TypeName) string {
	if cd, ok := in.classes[obj]; ok {
		return cd.Attrs.Namespace() + "." + cd.Name
	}
	if id, ok := in.interfaces[obj]; ok {
		return id.Attrs.Namespace() + "." + id.Name
	}
	return ""
}

func (in *inspector) build(dir string) *Package {
	pkg := &Package{Name: in.pkg.Name, Path: in.pkg.PkgPath, Dir: dir}
	for _, obj := range in.classOrder {
		c, err := NewClass(*in.classes[obj])
		if err != nil {
			in.diags.add(err)
			continue
		}
		pkg.Classes = append(pkg.Classes, c)
	}
	for _, obj := range in.ifaceOrder {
		it, err := NewInterface(*in.interfaces[obj])
		if err != nil {
			in.diags.add(err)
			continue
		}
		pkg.Interfaces = append(pkg.Interfaces, it)
	}
	return pkg
}

var basicShapes = map[types.BasicKind]string{
	types.String:  ShapeString,
	types.Int32:   ShapeInt32,
	types.Int64:   ShapeInt64,
	types.Bool:    ShapeBool,
	types.Float32: ShapeFloat32,
	types.Float64: ShapeFloat64,
	types.Int16:   ShapeInt16,
	types.Uint16:  ShapeUint16,
	types.Int8:    ShapeInt8,
}

func namedObj(t types.Type) *types.TypeName {
	if p, ok := t.(*types.Pointer); ok {
		t = types.Unalias(p.Elem())
	}
	if n, ok := t.(*types.Named); ok {
		return n.Obj()
	}
	return nil
}

func pkgPath(obj *types.TypeName) string {
	if obj.Pkg() == nil {
		return ""
	}
	return obj.Pkg().Path()
}

func isRuntime(obj *types.TypeName, name string) bool {
	return pkgPath(obj) == RuntimePath && obj.Name() == name
}

func isError(t types.Type) bool {
	return types.Identical(t, types.Universe.Lookup("error").Type())
}
