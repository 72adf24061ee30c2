package gobridge

import (
	"go/token"

	"github.com/rubiojr/jnigen/jnirt"
)

// Host members every generated wrapper already defines.
var reservedNames = map[string]bool{
	"drop":          true,
	"getTypeHash":   true,
	"getInner":      true,
	"destruct":      true,
	"isValid":       true,
	"getPtr":        true,
	"destroyNative": true,
	"dropNative":    true,
}

// ClassDecl is an exported struct type and the functions attached to it.
type ClassDecl struct {
	Name    string
	GoPath  string
	Attrs   Attrs
	Doc     string
	Methods []Signature
	Pos     token.Position
}

// Class is the model of one host wrapper class.
type Class struct {
	Name         string
	GoPath       string
	Namespace    string
	LoadLib      string
	Doc          []string
	Methods      []*Method
	Constructors []*Method
	Pos          token.Position
}

// NewClass classifies every method of decl. All errors are reported, not
// just the first.
func NewClass(decl ClassDecl) (*Class, error) {
	c := &Class{
		Name:      decl.Name,
		GoPath:    decl.GoPath,
		Namespace: decl.Attrs.Namespace(),
		LoadLib:   decl.Attrs.LoadLib(),
		Doc:       docLines(decl.Doc),
		Pos:       decl.Pos,
	}
	var diags diagnostics
	if c.Namespace == "" {
		diags.add(errorf(decl.Pos, "class %s needs a namespace", decl.Name))
	}
	seen := map[string]token.Position{}
	for _, sig := range decl.Methods {
		m, err := NewMethod(sig)
		if err != nil {
			diags.add(err)
			continue
		}
		if err := checkHostName(m, seen); err != nil {
			diags.add(err)
			continue
		}
		if m.Constructor {
			c.Constructors = append(c.Constructors, m)
		} else {
			c.Methods = append(c.Methods, m)
		}
	}
	if err := diags.err(); err != nil {
		return nil, err
	}
	return c, nil
}

func checkHostName(m *Method, seen map[string]token.Position) error {
	if IsJavaKeyword(m.HostName) {
		return errorf(m.Pos, "%s: the host name %q is a Java keyword; add rename=", m.GoName, m.HostName)
	}
	if reservedNames[m.HostName] {
		return errorf(m.Pos, "%s: the host name %q is reserved", m.GoName, m.HostName)
	}
	if prev, dup := seen[m.HostName]; dup {
		return errorf(m.Pos, "%s: host name %q is already used at %s", m.GoName, m.HostName, prev)
	}
	seen[m.HostName] = m.Pos
	return nil
}

// Identity is the stable identity of the native type.
func (c *Class) Identity() string { return joinIdentity(c.GoPath, c.Name) }

// TypeHash is the type-hash both sides compare before trusting a handle.
func (c *Class) TypeHash() int64 { return jnirt.TypeHash(c.Identity()) }

// HostName is the dotted host class name.
func (c *Class) HostName() string { return c.Namespace + "." + c.Name }

// NativeName is the name of the nested class declaring the natives.
func (c *Class) NativeName() string { return c.Name + "Native" }

// BridgeName is the exported symbol of one of the class's methods.
func (c *Class) BridgeName(m *Method) string {
	return BridgeName(c.Namespace, c.Name, m.HostName)
}

// DropBridgeName is the exported destructor symbol.
func (c *Class) DropBridgeName() string { return BridgeName(c.Namespace, c.Name, "drop") }

// TypeHashBridgeName is the exported type-hash symbol.
func (c *Class) TypeHashBridgeName() string {
	return BridgeName(c.Namespace, c.Name, "getTypeHash")
}

// HasConstructors reports whether the host can create instances.
func (c *Class) HasConstructors() bool { return len(c.Constructors) > 0 }

// Fallible reports whether any method or constructor returns an error.
func (c *Class) Fallible() bool {
	for _, m := range append(c.Methods, c.Constructors...) {
		if m.Fallible() {
			return true
		}
	}
	return false
}

// InterfaceDecl is an exported Go interface implemented by host objects.
type InterfaceDecl struct {
	Name    string
	GoPath  string
	Attrs   Attrs
	Doc     string
	Methods []Signature
	Pos     token.Position
}

// Interface is the model of a host callback interface.
type Interface struct {
	Name      string
	GoPath    string
	Namespace string
	Doc       []string
	Methods   []*Method
	Pos       token.Position
}

// NewInterface classifies every method of decl as a callback method.
func NewInterface(decl InterfaceDecl) (*Interface, error) {
	it := &Interface{
		Name:      decl.Name,
		GoPath:    decl.GoPath,
		Namespace: decl.Attrs.Namespace(),
		Doc:       docLines(decl.Doc),
		Pos:       decl.Pos,
	}
	var diags diagnostics
	if it.Namespace == "" {
		diags.add(errorf(decl.Pos, "interface %s needs a namespace", decl.Name))
	}
	seen := map[string]token.Position{}
	for _, sig := range decl.Methods {
		sig.Trait = true
		m, err := NewMethod(sig)
		if err != nil {
			diags.add(err)
			continue
		}
		if err := checkHostName(m, seen); err != nil {
			diags.add(err)
			continue
		}
		it.Methods = append(it.Methods, m)
	}
	if err := diags.err(); err != nil {
		return nil, err
	}
	return it, nil
}

// Identity is the stable identity of the Go interface.
func (it *Interface) Identity() string { return joinIdentity(it.GoPath, it.Name) }

// HostName is the dotted host interface name.
func (it *Interface) HostName() string { return it.Namespace + "." + it.Name }

// ProxyConstructor names the generated function wrapping a host object.
func (it *Interface) ProxyConstructor() string { return ProxyConstructor(it.Name) }

// ProxyConstructor names the generated proxy constructor of a trait.
func ProxyConstructor(trait string) string { return "New" + trait + "Callback" }

// Package is everything jnigen generates for one Go package.
type Package struct {
	Name       string
	Path       string
	Dir        string
	Classes    []*Class
	Interfaces []*Interface
}

// Empty reports whether the package declares nothing to export.
func (p *Package) Empty() bool {
	return len(p.Classes) == 0 && len(p.Interfaces) == 0
}
