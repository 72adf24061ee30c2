package compiler

import (
	"fmt"
	"strings"

	"github.com/rubiojr/jnigen/scanner"
)

// javaWriter accumulates Java source. Lines are written flush left;
// Reindent fixes the indentation once the whole unit is known.
type javaWriter struct {
	sb strings.Builder
}

// Linef writes a formatted line with a trailing newline appended.
func (w *javaWriter) Linef(format string, args ...interface{}) {
	fmt.Fprintf(&w.sb, format, args...)
	w.sb.WriteByte('\n')
}

// Blank writes an empty line.
func (w *javaWriter) Blank() { w.sb.WriteByte('\n') }

// Javadoc writes lines as a Javadoc comment. Nothing is written for an
// empty doc.
func (w *javaWriter) Javadoc(lines []string) {
	if len(lines) == 0 {
		return
	}
	w.Linef("/**")
	for _, l := range lines {
		if l == "" {
			w.Linef(" *")
			continue
		}
		w.Linef(" * %s", strings.ReplaceAll(l, "*/", "*&#47;"))
	}
	w.Linef(" */")
}

// String returns the accumulated output.
func (w *javaWriter) String() string { return w.sb.String() }

const javaIndent = "    "

// Reindent re-indents Java source by brace depth. Blank lines are
// collapsed to one and dropped after an opening or before a closing
// brace. Braces inside strings, char literals and comments are ignored.
func Reindent(src string) string {
	lines := strings.Split(strings.TrimSpace(src), "\n")
	depths := scanner.LineDepths(strings.Join(lines, "\n"))

	var sb strings.Builder
	prevBlank, prevOpen := false, false
	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			prevBlank = true
			continue
		}
		closing := strings.HasPrefix(line, "}")
		if prevBlank && !prevOpen && !closing && sb.Len() > 0 {
			sb.WriteByte('\n')
		}
		prevBlank = false

		// continuation lines of a Javadoc sit one space in
		if strings.HasPrefix(line, "*") {
			line = " " + line
		}
		sb.WriteString(strings.Repeat(javaIndent, depths[i]))
		sb.WriteString(line)
		sb.WriteByte('\n')
		prevOpen = strings.HasSuffix(line, "{")
	}
	return sb.String()
}
