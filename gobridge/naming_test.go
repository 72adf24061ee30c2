package gobridge

import (
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var noPos token.Position

func TestMangleJNI(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"snake_case", "snake_1case"},
		{"a;b[c", "a_2b_3c"},
		{"Outer$Inner", "Outer_00024Inner"},
		{"é", "_000e9"},
		{"\U0001F600", "_0d83d_0de00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, MangleJNI(tt.in), tt.in)
	}
}

func TestBridgeName(t *testing.T) {
	assert.Equal(t,
		"Java_com_example_Counter_00024CounterNative_increment",
		BridgeName("com.example", "Counter", "increment"))
	assert.Equal(t,
		"Java_org_my_1app_Point_00024PointNative_get_1x",
		BridgeName("org.my_app", "Point", "get_x"))
	assert.Equal(t, "Java_A_00024ANative_f", BridgeName("", "A", "f"))
}

func TestHostMemberName(t *testing.T) {
	assert.Equal(t, "increment", HostMemberName("Increment"))
	assert.Equal(t, "getValue", HostMemberName("get_value"))
	assert.Equal(t, "com/example/Point", HostPath("com.example.Point"))
}

func TestDescriptors(t *testing.T) {
	point := &BridgeType{Kind: ObjectRef, Host: "com.example.Point"}
	tests := []struct {
		t    *BridgeType
		desc string
		decl string
	}{
		{&BridgeType{Kind: Text}, "Ljava/lang/String;", "String"},
		{&BridgeType{Kind: Int32}, "I", "int"},
		{&BridgeType{Kind: Char16}, "C", "char"},
		{&BridgeType{Kind: Unit}, "V", "void"},
		{&BridgeType{Kind: ReceiverHandle}, "J", "long"},
		{&BridgeType{Kind: Optional, Inner: &BridgeType{Kind: Float64}}, "Ljava/lang/Double;", "Double"},
		{&BridgeType{Kind: Optional, Inner: &BridgeType{Kind: Text}}, "Ljava/lang/String;", "String"},
		{&BridgeType{Kind: List, Inner: &BridgeType{Kind: Bool}}, "Ljava/util/List;", "List<Boolean>"},
		{&BridgeType{Kind: Map, Key: &BridgeType{Kind: Text}, Inner: point}, "Ljava/util/Map;", "Map<String, Point>"},
		{&BridgeType{Kind: OpaqueHandle}, "Ljava/lang/Object;", "Object"},
		{point, "Lcom/example/Point;", "Point"},
		{&BridgeType{Kind: Fallible, Inner: &BridgeType{Kind: Int8}}, "B", "byte"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.desc, Descriptor(tt.t), tt.t.String())
		assert.Equal(t, tt.decl, JavaDecl(tt.t), tt.t.String())
	}
}

func TestMethodDescriptorRoundTrip(t *testing.T) {
	params := []*BridgeType{
		{Kind: Int32},
		{Kind: Text},
		{Kind: List, Inner: &BridgeType{Kind: Int64}},
		{Kind: Callback, Host: "com.example.Listener"},
	}
	desc := MethodDescriptor(params, &BridgeType{Kind: Fallible, Inner: &BridgeType{Kind: Bool}})
	assert.Equal(t, "(ILjava/lang/String;Ljava/util/List;Lcom/example/Listener;)Z", desc)

	toks, ret, err := ParseMethodDescriptor(desc)
	require.NoError(t, err)
	assert.Equal(t, []string{"I", "Ljava/lang/String;", "Ljava/util/List;", "Lcom/example/Listener;"}, toks)
	assert.Equal(t, "Z", ret)

	toks, ret, err = ParseMethodDescriptor("([I[Ljava/lang/String;)V")
	require.NoError(t, err)
	assert.Equal(t, []string{"[I", "[Ljava/lang/String;"}, toks)
	assert.Equal(t, "V", ret)

	for _, bad := range []string{"I)V", "(Ljava/lang/String)V", "(Q)V", "()VV", "(I"} {
		_, _, err := ParseMethodDescriptor(bad)
		assert.Error(t, err, bad)
	}
}

func TestSentinels(t *testing.T) {
	tests := []struct {
		t    *BridgeType
		want string
	}{
		{nil, ""},
		{&BridgeType{Kind: Fallible, Inner: &BridgeType{Kind: Unit}}, ""},
		{&BridgeType{Kind: Bool}, "false"},
		{&BridgeType{Kind: Float32}, "0.0"},
		{&BridgeType{Kind: Int16}, "0"},
		{&BridgeType{Kind: ReceiverHandle}, "0"},
		{&BridgeType{Kind: Text}, "null"},
		{&BridgeType{Kind: Fallible, Inner: &BridgeType{Kind: List, Inner: &BridgeType{Kind: Int32}}}, "null"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SentinelOf(tt.t).String(), tt.t.String())
	}
}

func TestParseDirective(t *testing.T) {
	d, err := ParseDirective(`//jni:class namespace=com.example load_lib="my lib"`, noPos)
	require.NoError(t, err)
	assert.Equal(t, DirClass, d.Kind)
	assert.Equal(t, "com.example", d.Attrs.Namespace())
	assert.Equal(t, "my lib", d.Attrs.LoadLib())

	d, err = ParseDirective("//jni:param cb class_name=com.example.Sink", noPos)
	require.NoError(t, err)
	assert.Equal(t, []string{"cb"}, d.Args)
	assert.Equal(t, "com.example.Sink", d.Attrs.ClassName())

	tests := []struct {
		line string
		err  string
	}{
		{"//jni:", "empty"},
		{"//jni:bogus", "unknown directive"},
		{"//jni:class", "requires namespace="},
		{"//jni:class namespace=a namespace=b", "duplicate attribute"},
		{"//jni:method color=red", "unknown attribute"},
		{"//jni:static", "takes 1 name argument"},
		{"//jni:method rename=", "needs a value"},
		{"// jni:class", "not a jni directive"},
	}
	for _, tt := range tests {
		_, err := ParseDirective(tt.line, noPos)
		require.Error(t, err, tt.line)
		assert.Contains(t, err.Error(), tt.err, tt.line)
	}
}

func TestSplitFields(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"method rename=it's", []string{"method", "rename=it's"}},
		{"class namespace=a load_lib=x//y", []string{"class", "namespace=a", "load_lib=x//y"}},
		{"class namespace=a(b load_lib=c", []string{"class", "namespace=a(b", "load_lib=c"}},
		{`class load_lib="a b" namespace=c`, []string{"class", `load_lib="a b"`, "namespace=c"}},
		{`class load_lib="a\" b"  namespace=c`, []string{"class", `load_lib="a\" b"`, "namespace=c"}},
		{" \tmethod\t", []string{"method"}},
		{"", nil},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, splitFields(tt.in), tt.in)
	}
}

func TestParseDirectivePlainValues(t *testing.T) {
	d, err := ParseDirective("//jni:method rename=it's", noPos)
	require.NoError(t, err)
	assert.Equal(t, "it's", d.Attrs.Rename())

	d, err = ParseDirective("//jni:class namespace=com.example load_lib=a//b", noPos)
	require.NoError(t, err)
	assert.Equal(t, "com.example", d.Attrs.Namespace())
	assert.Equal(t, "a//b", d.Attrs.LoadLib())
}
