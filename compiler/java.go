package compiler

import (
	"slices"
	"strings"

	"github.com/rubiojr/jnigen/gobridge"
	"github.com/rubiojr/jnigen/jnirt"
)

const throwsNative = " throws NativeExecutionException"

// EmitJavaClass renders the host wrapper class of c: an outer class
// holding the inner native object, public stubs forwarding to it, and the
// nested class declaring the natives.
func EmitJavaClass(c *gobridge.Class) string {
	w := &javaWriter{}
	outer, inner := c.Name, c.NativeName()

	w.Linef("package %s;", c.Namespace)
	w.Blank()
	imports := []string{jnirt.JavaPackage + ".NativeClass", jnirt.JavaPackage + ".NativeClassImpl"}
	for _, m := range append(c.Methods, c.Constructors...) {
		imports = append(imports, m.JavaImports()...)
	}
	writeImports(w, c.Namespace, imports)

	w.Javadoc(c.Doc)
	w.Linef("public class %s implements NativeClassImpl<%s.%s> {", outer, outer, inner)
	w.Linef("private final %s inner;", inner)
	w.Blank()

	for _, m := range c.Methods {
		writeStub(w, c, m)
	}

	if c.HasConstructors() {
		for _, m := range c.Constructors {
			w.Javadoc(m.Doc)
			w.Linef("public %s(%s)%s {", outer, paramDecls(m), throws(m))
			w.Linef("inner = new %s(%s);", inner, joinArgs(argNames(m), "this"))
			w.Linef("}")
			w.Blank()
		}
	} else {
		w.Linef("private %s() {", outer)
		w.Linef("inner = new %s();", inner)
		w.Linef("}")
		w.Blank()
	}

	w.Linef("@Override")
	w.Linef("public %s getInner() {", inner)
	w.Linef("return inner;")
	w.Linef("}")
	w.Blank()
	w.Linef("public static long getTypeHash() {")
	w.Linef("return %s.getTypeHash();", inner)
	w.Linef("}")
	w.Blank()

	writeNativeClass(w, c)
	w.Linef("}")
	return Reindent(w.String())
}

func writeStub(w *javaWriter, c *gobridge.Class, m *gobridge.Method) {
	static, target := "", "inner"
	if m.Static {
		static, target = "static ", c.NativeName()
	}
	ret := ""
	if m.Returns() {
		ret = "return "
	}
	w.Javadoc(m.Doc)
	w.Linef("public %s%s %s(%s)%s {", static, returnDecl(m), m.HostName, paramDecls(m), throws(m))
	w.Linef("%s%s.%s(%s);", ret, target, m.HostName, strings.Join(argNames(m), ", "))
	w.Linef("}")
	w.Blank()
}

func writeNativeClass(w *javaWriter, c *gobridge.Class) {
	inner := c.NativeName()
	w.Linef("static class %s extends NativeClass {", inner)
	if c.LoadLib != "" {
		w.Linef("static {")
		w.Linef("System.loadLibrary(%q);", c.LoadLib)
		w.Linef("}")
		w.Blank()
	}

	if c.HasConstructors() {
		for _, m := range c.Constructors {
			w.Linef("private %s(%s)%s {", inner, joinArgs(paramList(m), "Object referent"), throws(m))
			w.Linef("super(%s(%s), referent);", m.HostName, strings.Join(argNames(m), ", "))
			w.Linef("}")
			w.Blank()
		}
		w.Linef("@Override")
		w.Linef("protected void destruct() {")
		w.Linef("drop(this.ptr);")
		w.Linef("}")
	} else {
		w.Linef("private %s() {", inner)
		w.Linef("super(0, null);")
		w.Linef("throw new UnsupportedOperationException(%q);", c.Name+" cannot be constructed")
		w.Linef("}")
		w.Blank()
		w.Linef("@Override")
		w.Linef("protected void destruct() {")
		w.Linef("}")
	}
	w.Blank()

	for _, m := range c.Methods {
		static := ""
		if m.Static {
			static = "static "
		}
		w.Linef("private %snative %s %s(%s)%s;", static, returnDecl(m), m.HostName, paramDecls(m), throws(m))
	}
	if c.HasConstructors() {
		w.Linef("private static native void drop(long ptr);")
	}
	w.Linef("private static native long getTypeHash();")
	for _, m := range c.Constructors {
		w.Linef("private static native long %s(%s)%s;", m.HostName, paramDecls(m), throws(m))
	}
	w.Linef("}")
}

// EmitJavaInterface renders the host interface of a callback trait.
func EmitJavaInterface(it *gobridge.Interface) string {
	w := &javaWriter{}
	w.Linef("package %s;", it.Namespace)
	w.Blank()

	var imports []string
	for _, m := range it.Methods {
		for _, imp := range m.JavaImports() {
			if imp != gobridge.NativeExecutionException {
				imports = append(imports, imp)
			}
		}
	}
	writeImports(w, it.Namespace, imports)

	w.Javadoc(it.Doc)
	w.Linef("public interface %s {", it.Name)
	for _, m := range it.Methods {
		w.Javadoc(m.Doc)
		w.Linef("%s %s(%s) throws Exception;", returnDecl(m), m.HostName, paramDecls(m))
		w.Blank()
	}
	w.Linef("}")
	return Reindent(w.String())
}

// writeImports writes the sorted, deduplicated imports that are not in
// the current package.
func writeImports(w *javaWriter, namespace string, imports []string) {
	slices.Sort(imports)
	imports = slices.Compact(imports)
	n := 0
	for _, imp := range imports {
		if i := strings.LastIndex(imp, "."); i > 0 && imp[:i] == namespace {
			continue
		}
		w.Linef("import %s;", imp)
		n++
	}
	if n > 0 {
		w.Blank()
	}
}

func returnDecl(m *gobridge.Method) string { return gobridge.JavaDecl(m.Result) }

func throws(m *gobridge.Method) string {
	if m.Fallible() {
		return throwsNative
	}
	return ""
}

func paramList(m *gobridge.Method) []string {
	var out []string
	for _, p := range m.HostArgs() {
		out = append(out, gobridge.JavaDecl(p.Type)+" "+p.HostName)
	}
	return out
}

func paramDecls(m *gobridge.Method) string { return strings.Join(paramList(m), ", ") }

func argNames(m *gobridge.Method) []string {
	var out []string
	for _, p := range m.HostArgs() {
		out = append(out, p.HostName)
	}
	return out
}

func joinArgs(args []string, last string) string {
	return strings.Join(append(args, last), ", ")
}
