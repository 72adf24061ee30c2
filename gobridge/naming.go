package gobridge

import (
	"fmt"
	"strings"

	"github.com/iancoleman/strcase"
)

// MangleJNI escapes a name component following the JNI short-name rules:
// '_' becomes "_1", ';' "_2", '[' "_3", and any other character outside
// [A-Za-z0-9] becomes "_0" plus four lowercase hex digits.
func MangleJNI(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch {
		case r == '_':
			sb.WriteString("_1")
		case r == ';':
			sb.WriteString("_2")
		case r == '[':
			sb.WriteString("_3")
		case r < 0x80 && (r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9'):
			sb.WriteRune(r)
		case r > 0xffff:
			// supplementary characters are escaped as their UTF-16 pair
			r1, r2 := surrogates(r)
			fmt.Fprintf(&sb, "_0%04x_0%04x", r1, r2)
		default:
			fmt.Fprintf(&sb, "_0%04x", r)
		}
	}
	return sb.String()
}

func surrogates(r rune) (rune, rune) {
	r -= 0x10000
	return 0xd800 + (r>>10)&0x3ff, 0xdc00 + r&0x3ff
}

// mangleQualified mangles a dotted or slashed class name, turning package
// separators into '_'.
func mangleQualified(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool { return r == '.' || r == '/' })
	for i, p := range parts {
		parts[i] = MangleJNI(p)
	}
	return strings.Join(parts, "_")
}

// BridgeBaseName is the exported-symbol prefix shared by every bridge of
// a class: the native methods live on the nested <Class>Native class.
func BridgeBaseName(namespace, class string) string {
	inner := class + "$" + class + "Native"
	if namespace == "" {
		return "Java_" + MangleJNI(inner)
	}
	return "Java_" + mangleQualified(namespace) + "_" + MangleJNI(inner)
}

// BridgeName is the exported symbol of a native method.
func BridgeName(namespace, class, method string) string {
	return BridgeBaseName(namespace, class) + "_" + MangleJNI(method)
}

// HostMemberName turns a Go identifier or a rename into a host method or
// parameter name.
func HostMemberName(name string) string {
	return strcase.ToLowerCamel(name)
}

// HostPath turns a dotted namespace or class name into its slashed form.
func HostPath(dotted string) string {
	return strings.ReplaceAll(dotted, ".", "/")
}

func simpleName(dotted string) string {
	return dotted[strings.LastIndex(dotted, ".")+1:]
}

func packageOf(dotted string) string {
	if i := strings.LastIndex(dotted, "."); i >= 0 {
		return dotted[:i]
	}
	return ""
}

var javaKeywords = map[string]bool{}

func init() {
	for _, kw := range strings.Fields(`abstract assert boolean break byte case catch char class const
		continue default do double else enum extends false final finally float for goto if
		implements import instanceof int interface long native new null package private
		protected public return short static strictfp super switch synchronized this throw
		throws transient true try void volatile while`) {
		javaKeywords[kw] = true
	}
}

// IsJavaKeyword reports whether name cannot be used as a Java identifier.
func IsJavaKeyword(name string) bool { return javaKeywords[name] }

// hostParamName is HostMemberName made safe for use as a Java parameter.
func hostParamName(name string) string {
	n := HostMemberName(name)
	if IsJavaKeyword(n) {
		return n + "_"
	}
	return n
}
