package gobridge

import (
	"go/token"
	"slices"
	"strconv"
	"strings"
)

// Attrs holds the key=value attributes of a directive.
type Attrs map[string]string

// Get returns the value of key, or "".
func (a Attrs) Get(key string) string { return a[key] }

// ClassName is the host class override of a parameter.
func (a Attrs) ClassName() string { return a["class_name"] }

// Rename is the host name override of a method.
func (a Attrs) Rename() string { return a["rename"] }

// Namespace is the host package of a class or interface.
func (a Attrs) Namespace() string { return a["namespace"] }

// LoadLib is the native library a class loads in its static initializer.
func (a Attrs) LoadLib() string { return a["load_lib"] }

const directivePrefix = "//jni:"

// Directive kinds.
const (
	DirClass       = "class"
	DirInterface   = "interface"
	DirMethod      = "method"
	DirStatic      = "static"
	DirConstructor = "constructor"
	DirParam       = "param"
)

type directiveSpec struct {
	positional int
	keys       []string
	required   []string
}

var directiveSpecs = map[string]directiveSpec{
	DirClass:       {keys: []string{"namespace", "load_lib"}, required: []string{"namespace"}},
	DirInterface:   {keys: []string{"namespace"}, required: []string{"namespace"}},
	DirMethod:      {keys: []string{"rename"}},
	DirStatic:      {positional: 1, keys: []string{"rename"}},
	DirConstructor: {positional: 1, keys: []string{"rename"}},
	DirParam:       {positional: 1, keys: []string{"class_name"}},
}

// Directive is one parsed //jni: comment line, for example
//
//	//jni:class namespace=com.example load_lib=counter
type Directive struct {
	Kind  string
	Args  []string
	Attrs Attrs
	Pos   token.Position
}

// IsDirective reports whether a raw comment line is a //jni: directive.
func IsDirective(comment string) bool {
	return strings.HasPrefix(comment, directivePrefix)
}

// ParseDirective parses a raw comment line. Values may be double-quoted.
func ParseDirective(comment string, pos token.Position) (*Directive, error) {
	if !IsDirective(comment) {
		return nil, errorf(pos, "not a jni directive: %q", comment)
	}
	body := strings.TrimSpace(comment[len(directivePrefix):])
	fields := splitFields(body)
	if len(fields) == 0 {
		return nil, errorf(pos, "empty jni directive")
	}

	d := &Directive{Kind: fields[0], Attrs: Attrs{}, Pos: pos}
	spec, ok := directiveSpecs[d.Kind]
	if !ok {
		return nil, errorf(pos, "unknown directive //jni:%s", d.Kind)
	}

	for _, f := range fields[1:] {
		key, val, isAttr := strings.Cut(f, "=")
		if !isAttr {
			d.Args = append(d.Args, unquote(f))
			continue
		}
		if !slices.Contains(spec.keys, key) {
			return nil, errorf(pos, "unknown attribute %q for //jni:%s", key, d.Kind)
		}
		if _, dup := d.Attrs[key]; dup {
			return nil, errorf(pos, "duplicate attribute %q", key)
		}
		val = unquote(val)
		if val == "" {
			return nil, errorf(pos, "attribute %q needs a value", key)
		}
		d.Attrs[key] = val
	}

	if len(d.Args) != spec.positional {
		return nil, errorf(pos, "//jni:%s takes %d name argument(s), got %d", d.Kind, spec.positional, len(d.Args))
	}
	for _, key := range spec.required {
		if d.Attrs[key] == "" {
			return nil, errorf(pos, "//jni:%s requires %s=", d.Kind, key)
		}
	}
	return d, nil
}

// splitFields splits on blanks outside double-quoted values. Nothing
// else is special, so values like it's or a//b stay one field.
func splitFields(s string) []string {
	var fields []string
	start, quoted, escaped := -1, false, false
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case escaped:
			escaped = false
		case quoted && ch == '\\':
			escaped = true
		case ch == '"':
			quoted = !quoted
		case !quoted && (ch == ' ' || ch == '\t'):
			if start >= 0 {
				fields = append(fields, s[start:i])
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		fields = append(fields, s[start:])
	}
	return fields
}

func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' {
		if u, err := strconv.Unquote(s); err == nil {
			return u
		}
	}
	return s
}
