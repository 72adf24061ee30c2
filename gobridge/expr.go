package gobridge

import (
	"go/token"
	"strings"
)

// Shape names a TypeExpr can carry besides user type names.
const (
	ShapeString   = "string"
	ShapeInt32    = "int32"
	ShapeInt64    = "int64"
	ShapeBool     = "bool"
	ShapeFloat32  = "float32"
	ShapeFloat64  = "float64"
	ShapeInt16    = "int16"
	ShapeUint16   = "uint16"
	ShapeInt8     = "int8"
	ShapeSelf     = "Self"
	ShapeUnit     = "Unit"
	ShapeEnv      = "Env"
	ShapeObject   = "Object"
	ShapeOptional = "Optional"
	ShapeList     = "List"
	ShapeMap      = "Map"
	ShapeFallible = "Fallible"
	ShapeDyn      = "Dyn"
)

// TypeExpr is a parsed type as written in a declaration, independent of
// the front-end that produced it. Named user types carry their import
// path; well-known shapes use the Shape* names.
type TypeExpr struct {
	Name string
	Path string
	Args []*TypeExpr

	Ref     bool // passed by reference
	Mutable bool // mutable reference
	Pointer bool // optional written as *T

	// Anonymous marks a Dyn whose trait has no usable name.
	Anonymous bool

	// Host is the host class the front-end resolved for a named type,
	// in dotted form. Empty when unknown.
	Host string

	Pos token.Position
}

// Named builds a TypeExpr for a shape or type name.
func Named(name string, args ...*TypeExpr) *TypeExpr {
	return &TypeExpr{Name: name, Args: args}
}

// Identity returns the stable identity of a named user type:
// import path and name joined by a dot.
func (t *TypeExpr) Identity() string {
	if t.Path == "" {
		return t.Name
	}
	return t.Path + "." + t.Name
}

func (t *TypeExpr) String() string {
	var sb strings.Builder
	if t.Ref {
		sb.WriteString("&")
		if t.Mutable {
			sb.WriteString("mut ")
		}
	}
	if t.Pointer {
		sb.WriteString("*")
	}
	sb.WriteString(t.Name)
	if len(t.Args) > 0 {
		sb.WriteString("<")
		for i, a := range t.Args {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(a.String())
		}
		sb.WriteString(">")
	}
	return sb.String()
}
