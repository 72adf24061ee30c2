package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReindent(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			"nested blocks",
			"class A {\nvoid f() {\nreturn;\n}\n}\n",
			"class A {\n    void f() {\n        return;\n    }\n}\n",
		},
		{
			"blank lines collapse",
			"int a;\n\n\n\nint b;\n",
			"int a;\n\nint b;\n",
		},
		{
			"no blank after open or before close",
			"class A {\n\nint a;\n\n}\n",
			"class A {\n    int a;\n}\n",
		},
		{
			"braces in strings are ignored",
			"class A {\nString s = \"{{\";\nchar c = '}';\n}\n",
			"class A {\n    String s = \"{{\";\n    char c = '}';\n}\n",
		},
		{
			"javadoc continuation",
			"class A {\n/**\n* Doc.\n*/\nint a;\n}\n",
			"class A {\n    /**\n     * Doc.\n     */\n    int a;\n}\n",
		},
		{
			"existing indentation is replaced",
			"  class A {\n\t\t\tint a;\n        }\n",
			"class A {\n    int a;\n}\n",
		},
		{
			"empty block on one line",
			"class A {\nvoid f() {}\nint a;\n}\n",
			"class A {\n    void f() {}\n    int a;\n}\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Reindent(tt.in))
		})
	}
}

func TestJavadoc(t *testing.T) {
	w := &javaWriter{}
	w.Javadoc(nil)
	assert.Empty(t, w.String())

	w.Javadoc([]string{"First.", "", "Ends */ early."})
	assert.Equal(t, "/**\n * First.\n *\n * Ends *&#47; early.\n */\n", w.String())
}
