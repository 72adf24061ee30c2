package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func codeBytes(src string) string {
	var out []byte
	sc := New(src)
	for ch, ok := sc.Next(); ok; ch, ok = sc.Next() {
		if sc.InCode() {
			out = append(out, ch)
		}
	}
	return string(out)
}

func TestInCode(t *testing.T) {
	tests := []struct {
		src  string
		code string
	}{
		{`a "b{" c`, `a  c`},
		{`x = '{';`, `x = ;`},
		{`s = "a\"{";`, `s = ;`},
		{`c = '\'';`, `c = ;`},
		{"a // {\nb", "a \nb"},
		{"a /* { */ b", "a  b"},
		{"a /**/ b", "a  b"},
		{"a /* it's */ b", "a  b"},
		{`"// not a comment" x`, ` x`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.code, codeBytes(tt.src), tt.src)
	}
}

func TestLineDepths(t *testing.T) {
	src := "class A {\n" +
		"void f() {\n" +
		"String s = \"}\";\n" +
		"if (x) {\n" +
		"} else {\n" +
		"}\n" +
		"/**\n" +
		" * {@code x}\n" +
		" */\n" +
		"}\n" +
		"}"
	assert.Equal(t, []int{0, 1, 2, 2, 2, 2, 2, 2, 2, 1, 0}, LineDepths(src))
}

func TestPeek(t *testing.T) {
	sc := New("ab")
	sc.Next()
	ch, ok := sc.Peek()
	assert.True(t, ok)
	assert.Equal(t, byte('b'), ch)
	sc.Next()
	_, ok = sc.Peek()
	assert.False(t, ok)
	_, ok = sc.Next()
	assert.False(t, ok)
}
