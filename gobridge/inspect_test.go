package gobridge

import (
	"errors"
	"go/scanner"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtureDir(name string) string {
	_, f, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(f), "testdata", name)
}

func findMethod(ms []*Method, host string) *Method {
	for _, m := range ms {
		if m.HostName == host {
			return m
		}
	}
	return nil
}

func TestInspect(t *testing.T) {
	pkg, err := Inspect(fixtureDir("counter"))
	require.NoError(t, err)

	assert.Equal(t, "counter", pkg.Name)
	assert.Equal(t, "github.com/rubiojr/jnigen/gobridge/testdata/counter", pkg.Path)
	require.Len(t, pkg.Classes, 2)
	require.Len(t, pkg.Interfaces, 1)

	c := pkg.Classes[0]
	assert.Equal(t, "Counter", c.Name)
	assert.Equal(t, "com.example.counter", c.Namespace)
	assert.Equal(t, "counter", c.LoadLib)
	assert.Equal(t, []string{"Counter counts things."}, c.Doc)
	assert.True(t, c.Fallible())

	require.Len(t, c.Constructors, 2)
	assert.Equal(t, "newCounter", c.Constructors[0].HostName)
	assert.Equal(t, "(I)J", c.Constructors[0].Descriptor())
	assert.Equal(t, "withLabel", c.Constructors[1].HostName)
	assert.True(t, c.Constructors[1].Fallible())

	inc := findMethod(c.Methods, "increment")
	require.NotNil(t, inc)
	assert.True(t, inc.MutSelf)
	assert.Equal(t, []string{"Increment adds one and returns the new value."}, inc.Doc)

	value := findMethod(c.Methods, "value")
	require.NotNil(t, value)
	assert.False(t, value.MutSelf)

	label := findMethod(c.Methods, "label")
	require.NotNil(t, label)
	assert.Equal(t, "LabelOr", label.GoName)
	assert.Equal(t, "Optional*<Text>", label.Args()[0].Type.String())

	merge := findMethod(c.Methods, "merge")
	require.NotNil(t, merge)
	other := merge.Args()[0].Type
	assert.Equal(t, ObjectRef, other.Kind)
	assert.Equal(t, "com.example.counter.Counter", other.Host)
	assert.Equal(t, "github.com/rubiojr/jnigen/gobridge/testdata/counter.Counter", other.Target)

	each := findMethod(c.Methods, "each")
	require.NotNil(t, each)
	assert.True(t, each.Args()[0].IsRuntimeContext())
	assert.Equal(t, Callback, each.Args()[1].Type.Kind)
	assert.Equal(t, "(Lcom/example/counter/Listener;)V", each.Descriptor())

	assert.Equal(t, "Map<Text, Int32>", findMethod(c.Methods, "tags").Result.String())

	sum := findMethod(c.Methods, "sum")
	require.NotNil(t, sum)
	assert.True(t, sum.Static)
	assert.Equal(t, "(Ljava/util/List;)J", sum.Descriptor())

	reg := pkg.Classes[1]
	assert.Equal(t, "Registry", reg.Name)
	assert.False(t, reg.HasConstructors())
	lookup := findMethod(reg.Methods, "lookup")
	require.NotNil(t, lookup)
	assert.Equal(t, "(Ljava/lang/String;)Ljava/lang/Long;", lookup.Descriptor())

	it := pkg.Interfaces[0]
	assert.Equal(t, "Listener", it.Name)
	require.Len(t, it.Methods, 1)
	assert.Equal(t, "onTag", it.Methods[0].HostName)
	assert.Equal(t, []string{"OnTag receives one tag."}, it.Methods[0].Doc)
	assert.Equal(t, "(Ljava/lang/String;I)V", it.Methods[0].Descriptor())
}

func TestInspectReportsEveryError(t *testing.T) {
	_, err := Inspect(fixtureDir("broken"))
	require.Error(t, err)

	var list scanner.ErrorList
	require.True(t, errors.As(err, &list))

	var msgs []string
	for _, e := range list {
		msgs = append(msgs, e.Msg)
		assert.True(t, strings.HasSuffix(e.Pos.Filename, "broken.go"), e.Error())
	}
	all := strings.Join(msgs, "\n")
	for _, want := range []string{
		"//jni:class requires a struct type, NotAStruct is not one",
		"//jni:method on function Standalone",
		"unknown class Gadget",
		"variadic functions cannot be exported",
		"nested error results are not supported",
		"unsupported type 'uint64'",
		`"drop" is reserved`,
		"unsupported type '**jnirt.Env'",
	} {
		assert.Contains(t, all, want)
	}
	assert.Len(t, list, 8)
}
