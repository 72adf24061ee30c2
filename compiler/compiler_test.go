package compiler

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rubiojr/jnigen/gobridge"
)

const counterBase = "Java_com_example_counter_Counter_00024CounterNative"

func fixtureDir(t *testing.T, name string) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	require.True(t, ok)
	return filepath.Join(filepath.Dir(file), "..", "gobridge", "testdata", name)
}

func loadCounter(t *testing.T) *gobridge.Package {
	t.Helper()
	pkg, err := gobridge.Inspect(fixtureDir(t, "counter"))
	require.NoError(t, err)
	return pkg
}

func findClass(t *testing.T, pkg *gobridge.Package, name string) *gobridge.Class {
	t.Helper()
	for _, c := range pkg.Classes {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("class %s not found", name)
	return nil
}

func TestEmitBridgeFile(t *testing.T) {
	pkg := loadCounter(t)
	var buf bytes.Buffer
	require.NoError(t, EmitBridgeFile(&buf, pkg))
	src := buf.String()

	assert.True(t, strings.HasPrefix(src, "// Code generated by jnigen. DO NOT EDIT."))
	assert.Contains(t, src, "//go:build jni")
	assert.Contains(t, src, `import "C"`)
	assert.Contains(t, src, "package counter")

	for _, name := range []string{
		"increment", "value", "label", "merge", "each", "tag", "tags", "sum",
		"newCounter", "withLabel", "drop", "getTypeHash",
	} {
		assert.Contains(t, src, "//export "+counterBase+"_"+name, name)
	}

	assert.Contains(t, src, "e := jnirt.Attach(env)\n\tdefer e.Release()\n")
	assert.Contains(t, src, "this, err := jnirt.Receiver[Counter](e, jnirt.Object(obj))")
	assert.Contains(t, src, "jnirt.OrClass(err, jnirt.ClassNativeExecution)")
	assert.Contains(t, src, "jnirt.Drop(ptr)")
	assert.Contains(t, src, "jnirt.Box(res)")
	assert.Contains(t, src, "jnirt.ListOf[int64](jnirt.BoxedInt64From)")
	assert.Contains(t, src, "jnirt.MapTo[string, int32](jnirt.StringTo, jnirt.BoxedInt32To)")
	assert.Contains(t, src, "jnirt.PointerOf[string](jnirt.StringFrom)")

	counter := findClass(t, pkg, "Counter")
	assert.Contains(t, src, `jnirt.TypeHash("`+counter.Identity()+`")`)

	// callbacks
	assert.Contains(t, src, "jnirt.CallbackFrom(e, jnirt.Object(p0), NewListenerCallback)")
	assert.Contains(t, src, "type listenerProxy struct")
	assert.Contains(t, src, "func NewListenerCallback(obj jnirt.Object) Listener")
	assert.Contains(t, src, `cb.obj, "onTag", "(Ljava/lang/String;I)V"`)

	// Registry has no constructors, so no destructor bridge.
	assert.NotContains(t, src, "Java_com_example_counter_Registry_00024RegistryNative_drop")
	assert.Contains(t, src, "//export Java_com_example_counter_Registry_00024RegistryNative_lookup")
	assert.Contains(t, src, "jnirt.OptionalTo[int64](jnirt.BoxedInt64To)")
}

func TestEmitBridge(t *testing.T) {
	pkg := loadCounter(t)
	var buf bytes.Buffer
	require.NoError(t, EmitBridge(&buf, findClass(t, pkg, "Counter")))
	src := buf.String()

	assert.Contains(t, src, "package counter")
	assert.Contains(t, src, "//export "+counterBase+"_drop")
	assert.NotContains(t, src, "RegistryNative")
	assert.NotContains(t, src, "listenerProxy")
}

func TestBridgeWithoutEnv(t *testing.T) {
	pkg := loadCounter(t)
	var buf bytes.Buffer
	require.NoError(t, EmitBridgeFile(&buf, pkg))
	src := buf.String()

	// the type-hash bridge needs no JVM access at all
	i := strings.Index(src, "func "+counterBase+"_getTypeHash(")
	require.GreaterOrEqual(t, i, 0)
	body := src[i:]
	body = body[:strings.Index(body, "\n}\n")]
	assert.NotContains(t, body, "jnirt.Attach")
}

func TestEmitJavaClass(t *testing.T) {
	pkg := loadCounter(t)
	src := EmitJavaClass(findClass(t, pkg, "Counter"))

	assert.True(t, strings.HasPrefix(src, "package com.example.counter;\n\n"))
	assert.Contains(t, src, strings.Join([]string{
		"import io.github.rubiojr.jnigen.NativeClass;",
		"import io.github.rubiojr.jnigen.NativeClassImpl;",
		"import io.github.rubiojr.jnigen.NativeExecutionException;",
		"import java.util.List;",
		"import java.util.Map;",
	}, "\n"))
	assert.NotContains(t, src, "import com.example.counter.")

	assert.Contains(t, src, "/**\n * Counter counts things.\n */\npublic class Counter implements NativeClassImpl<Counter.CounterNative> {\n")
	assert.Contains(t, src, "    private final CounterNative inner;\n")
	assert.Contains(t, src, "    /**\n     * Increment adds one and returns the new value.\n     */\n"+
		"    public int increment() {\n        return inner.increment();\n    }\n")
	assert.Contains(t, src, "    public static long sum(List<Long> values) {\n        return CounterNative.sum(values);\n    }\n")
	assert.Contains(t, src, "    public void merge(Counter other) throws NativeExecutionException {\n        inner.merge(other);\n    }\n")
	assert.Contains(t, src, "    public void each(Listener l) throws NativeExecutionException {\n")
	assert.Contains(t, src, "    public String label(String def) {\n")
	assert.Contains(t, src, "    public Map<String, Integer> tags() {\n")

	// constructors
	assert.Contains(t, src, "    public Counter(int start) {\n        inner = new CounterNative(start, this);\n    }\n")
	assert.Contains(t, src, "    public Counter(String label) throws NativeExecutionException {\n")
	assert.Contains(t, src, "        private CounterNative(int start, Object referent) {\n            super(newCounter(start), referent);\n        }\n")

	// inner class
	assert.Contains(t, src, "    static class CounterNative extends NativeClass {\n        static {\n            System.loadLibrary(\"counter\");\n        }\n")
	assert.Contains(t, src, "            drop(this.ptr);\n")
	assert.Contains(t, src, "        private native int increment();\n")
	assert.Contains(t, src, "        private static native long sum(List<Long> values);\n")
	assert.Contains(t, src, "        private static native void drop(long ptr);\n")
	assert.Contains(t, src, "        private static native long getTypeHash();\n")
	assert.Contains(t, src, "        private static native long withLabel(String label) throws NativeExecutionException;\n")
	assert.Contains(t, src, "    public static long getTypeHash() {\n        return CounterNative.getTypeHash();\n    }\n")
	assert.True(t, strings.HasSuffix(src, "    }\n}\n"))
}

func TestEmitJavaClassWithoutConstructors(t *testing.T) {
	pkg := loadCounter(t)
	src := EmitJavaClass(findClass(t, pkg, "Registry"))

	assert.Contains(t, src, "    private Registry() {\n        inner = new RegistryNative();\n    }\n")
	assert.Contains(t, src, "super(0, null);\n            throw new UnsupportedOperationException(\"Registry cannot be constructed\");")
	assert.Contains(t, src, "        protected void destruct() {\n        }\n")
	assert.Contains(t, src, "    public static Long lookup(String name) {\n        return RegistryNative.lookup(name);\n    }\n")
	assert.NotContains(t, src, "drop(")
	assert.NotContains(t, src, "loadLibrary")
	assert.NotContains(t, src, "NativeExecutionException")
}

func TestEmitJavaInterface(t *testing.T) {
	pkg := loadCounter(t)
	require.Len(t, pkg.Interfaces, 1)
	src := EmitJavaInterface(pkg.Interfaces[0])

	want := `package com.example.counter;

/**
 * Listener observes tags.
 */
public interface Listener {
    /**
     * OnTag receives one tag.
     */
    void onTag(String name, int value) throws Exception;
}
`
	assert.Equal(t, want, src)
}

func TestGenerate(t *testing.T) {
	tmp := t.TempDir()
	var stdout bytes.Buffer
	c := New(Config{
		JavaOut: filepath.Join(tmp, "java"),
		GoFile:  filepath.Join(tmp, "counter_jni.go"),
		Debug:   true,
		Stdout:  &stdout,
	})

	out, err := c.Generate(fixtureDir(t, "counter"))
	require.NoError(t, err)
	require.NotNil(t, out.Bridge)
	assert.Len(t, out.Java, 3)

	data, err := os.ReadFile(filepath.Join(tmp, "counter_jni.go"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "//export "+counterBase+"_increment")

	for _, name := range []string{"Counter", "Registry", "Listener"} {
		p := filepath.Join(tmp, "java", "com", "example", "counter", name+".java")
		assert.FileExists(t, p)
		assert.Contains(t, stdout.String(), "// "+p+"\n")
	}
}

func TestGenerateWithoutJavaOut(t *testing.T) {
	tmp := t.TempDir()
	c := New(Config{GoFile: filepath.Join(tmp, "bridge.go")})

	out, err := c.Generate(fixtureDir(t, "counter"))
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(tmp, "bridge.go"))
	for _, f := range out.Java {
		assert.NoFileExists(t, f.Path)
	}
}

func TestGenerateRejectsBrokenPackage(t *testing.T) {
	tmp := t.TempDir()
	c := New(Config{
		JavaOut: filepath.Join(tmp, "java"),
		GoFile:  filepath.Join(tmp, "broken_jni.go"),
	})

	_, err := c.Generate(fixtureDir(t, "broken"))
	require.Error(t, err)
	assert.NoFileExists(t, filepath.Join(tmp, "broken_jni.go"))
	assert.NoDirExists(t, filepath.Join(tmp, "java"))
}

func TestWriteRuntime(t *testing.T) {
	tmp := t.TempDir()
	written, err := WriteRuntime(tmp)
	require.NoError(t, err)

	dir := filepath.Join(tmp, "io", "github", "rubiojr", "jnigen")
	for _, name := range []string{
		"NativeClass.java", "NativeClassImpl.java", "NativeDrop.java",
		"DestructorThread.java", "NativeExecutionException.java",
	} {
		assert.Contains(t, written, filepath.Join(dir, name))
		data, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err)
		assert.Contains(t, string(data), "package io.github.rubiojr.jnigen;")
	}
}
