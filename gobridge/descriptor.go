package gobridge

import (
	"fmt"
	"strings"
)

type hostPrimitive struct {
	desc  string // JNI descriptor
	decl  string // Java declaration
	boxed string // boxed class, dotted
}

var hostPrimitives = map[Kind]hostPrimitive{
	Int32:   {"I", "int", "java.lang.Integer"},
	Int64:   {"J", "long", "java.lang.Long"},
	Bool:    {"Z", "boolean", "java.lang.Boolean"},
	Float32: {"F", "float", "java.lang.Float"},
	Float64: {"D", "double", "java.lang.Double"},
	Int16:   {"S", "short", "java.lang.Short"},
	Char16:  {"C", "char", "java.lang.Character"},
	Int8:    {"B", "byte", "java.lang.Byte"},
}

// Descriptor returns the JNI descriptor token of t. The runtime context
// has none and yields "".
func Descriptor(t *BridgeType) string {
	if t == nil {
		return "V"
	}
	if p, ok := hostPrimitives[t.Kind]; ok {
		return p.desc
	}
	switch t.Kind {
	case Text:
		return "Ljava/lang/String;"
	case Unit:
		return "V"
	case ReceiverHandle:
		return "J"
	case Fallible:
		return Descriptor(t.Inner)
	case Optional:
		if p, ok := hostPrimitives[t.Inner.Kind]; ok {
			return "L" + HostPath(p.boxed) + ";"
		}
		return Descriptor(t.Inner)
	case List:
		return "Ljava/util/List;"
	case Map:
		return "Ljava/util/Map;"
	case OpaqueHandle:
		return "Ljava/lang/Object;"
	case ObjectRef, Callback:
		return "L" + HostPath(t.Host) + ";"
	}
	return ""
}

// MethodDescriptor builds the JNI method descriptor of a host-visible
// signature. Runtime contexts are skipped.
func MethodDescriptor(params []*BridgeType, ret *BridgeType) string {
	var sb strings.Builder
	sb.WriteByte('(')
	for _, p := range params {
		sb.WriteString(Descriptor(p))
	}
	sb.WriteByte(')')
	sb.WriteString(Descriptor(ret))
	return sb.String()
}

// ParseMethodDescriptor splits a method descriptor back into its
// parameter tokens and return token.
func ParseMethodDescriptor(desc string) ([]string, string, error) {
	if !strings.HasPrefix(desc, "(") {
		return nil, "", fmt.Errorf("malformed method descriptor %q", desc)
	}
	rest := desc[1:]
	var params []string
	for !strings.HasPrefix(rest, ")") {
		tok, n, err := descriptorToken(rest)
		if err != nil {
			return nil, "", fmt.Errorf("%q: %w", desc, err)
		}
		params = append(params, tok)
		rest = rest[n:]
	}
	ret, n, err := descriptorToken(rest[1:])
	if err != nil {
		return nil, "", fmt.Errorf("%q: %w", desc, err)
	}
	if n != len(rest)-1 {
		return nil, "", fmt.Errorf("trailing data in method descriptor %q", desc)
	}
	return params, ret, nil
}

func descriptorToken(s string) (string, int, error) {
	if s == "" {
		return "", 0, fmt.Errorf("unexpected end of descriptor")
	}
	switch s[0] {
	case 'Z', 'B', 'C', 'S', 'I', 'J', 'F', 'D', 'V':
		return s[:1], 1, nil
	case 'L':
		end := strings.IndexByte(s, ';')
		if end < 0 {
			return "", 0, fmt.Errorf("unterminated class descriptor")
		}
		return s[:end+1], end + 1, nil
	case '[':
		tok, n, err := descriptorToken(s[1:])
		if err != nil {
			return "", 0, err
		}
		return "[" + tok, n + 1, nil
	}
	return "", 0, fmt.Errorf("invalid descriptor character %q", s[0])
}

// JavaDecl returns how t is written in a Java declaration. The runtime
// context is not visible to the host and yields "".
func JavaDecl(t *BridgeType) string {
	if t == nil {
		return "void"
	}
	if p, ok := hostPrimitives[t.Kind]; ok {
		return p.decl
	}
	switch t.Kind {
	case Text:
		return "String"
	case Unit:
		return "void"
	case ReceiverHandle:
		return "long"
	case Fallible:
		return JavaDecl(t.Inner)
	case Optional:
		return boxedDecl(t.Inner)
	case List:
		return "List<" + boxedDecl(t.Inner) + ">"
	case Map:
		return "Map<" + boxedDecl(t.Key) + ", " + boxedDecl(t.Inner) + ">"
	case OpaqueHandle:
		return "Object"
	case ObjectRef, Callback:
		return t.HostSimpleName()
	}
	return ""
}

// boxedDecl is JavaDecl with primitives replaced by their boxed classes,
// as generic arguments require.
func boxedDecl(t *BridgeType) string {
	if p, ok := hostPrimitives[t.Kind]; ok {
		return simpleName(p.boxed)
	}
	if t.Kind == Optional {
		return boxedDecl(t.Inner)
	}
	return JavaDecl(t)
}

// JavaImports lists the classes a Java declaration of t needs imported.
func JavaImports(t *BridgeType) []string {
	if t == nil {
		return nil
	}
	switch t.Kind {
	case Fallible:
		return append([]string{NativeExecutionException}, JavaImports(t.Inner)...)
	case Optional:
		return JavaImports(t.Inner)
	case List:
		return append([]string{"java.util.List"}, JavaImports(t.Inner)...)
	case Map:
		imports := append([]string{"java.util.Map"}, JavaImports(t.Key)...)
		return append(imports, JavaImports(t.Inner)...)
	case ObjectRef, Callback:
		return []string{t.Host}
	}
	return nil
}

// NativeExecutionException is the host exception raised for errors that
// do not name a class of their own.
const NativeExecutionException = "io.github.rubiojr.jnigen.NativeExecutionException"

// Sentinel is the value a bridge returns after raising a host exception.
type Sentinel int

const (
	SentinelNone Sentinel = iota // unit: nothing is returned
	SentinelNull
	SentinelZero
	SentinelFalse
	SentinelZeroFloat
)

// SentinelOf returns the sentinel for a method returning t.
func SentinelOf(t *BridgeType) Sentinel {
	if t == nil {
		return SentinelNone
	}
	switch t.Kind {
	case Unit:
		return SentinelNone
	case Fallible:
		return SentinelOf(t.Inner)
	case Bool:
		return SentinelFalse
	case Float32, Float64:
		return SentinelZeroFloat
	case Int32, Int64, Int16, Char16, Int8, ReceiverHandle:
		return SentinelZero
	}
	return SentinelNull
}

// String renders the sentinel as the host sees it.
func (s Sentinel) String() string {
	switch s {
	case SentinelNull:
		return "null"
	case SentinelZero:
		return "0"
	case SentinelFalse:
		return "false"
	case SentinelZeroFloat:
		return "0.0"
	}
	return ""
}
