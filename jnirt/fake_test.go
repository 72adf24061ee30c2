package jnirt

import (
	"fmt"
	"strings"
)

// fakeJVM is an in-memory Backend modelling just enough of the JDK for the
// conversions: strings, boxed primitives, ArrayList, HashMap and
// generated wrapper objects.
type fakeJVM struct {
	objs    map[Object]*fakeObject
	next    Object
	classes map[string]Object
	pending *thrown
	thrown  []thrown
	deletes int
}

type thrown struct {
	class, msg string
}

type fakeObject struct {
	class    string
	name     string // class objects
	typeHash int64  // class objects
	str      string
	value    Value
	fields   map[string]int64
	inner    Object
	list     []Object
	keys     []Object
	vals     []Object
	iter     []Object
	pos      int
}

func newFakeJVM() *fakeJVM {
	return &fakeJVM{objs: map[Object]*fakeObject{}, classes: map[string]Object{}}
}

func (j *fakeJVM) alloc(o *fakeObject) Object {
	j.next++
	j.objs[j.next] = o
	return j.next
}

func (j *fakeJVM) obj(o Object) *fakeObject {
	if fo, ok := j.objs[o]; ok {
		return fo
	}
	panic(fmt.Sprintf("fake jvm: dangling reference %d", o))
}

// class returns the class object named name, creating it when needed.
func (j *fakeJVM) class(name string) Object {
	if c, ok := j.classes[name]; ok {
		return c
	}
	c := j.alloc(&fakeObject{class: "java/lang/Class", name: name})
	j.classes[name] = c
	return c
}

// wrapper builds a generated wrapper object of class name whose inner
// object holds handle h.
func (j *fakeJVM) wrapper(name string, hash int64, h int64) Object {
	j.obj(j.class(name)).typeHash = hash
	inner := j.alloc(&fakeObject{class: name + "$" + name[strings.LastIndex(name, "/")+1:] + "Native",
		fields: map[string]int64{"ptr": h}})
	return j.alloc(&fakeObject{class: name, inner: inner})
}

func (j *fakeJVM) newString(s string) Object {
	return j.alloc(&fakeObject{class: "java/lang/String", str: s})
}

func (j *fakeJVM) newBoxed(class string, v Value) Object {
	return j.alloc(&fakeObject{class: class, value: v})
}

func (j *fakeJVM) newList(items ...Object) Object {
	return j.alloc(&fakeObject{class: "java/util/ArrayList", list: items})
}

func (j *fakeJVM) FindClass(name string) (Object, error) { return j.class(name), nil }

func (j *fakeJVM) GetObjectClass(o Object) Object { return j.class(j.obj(o).class) }

func (j *fakeJVM) GetLongField(o Object, name string) (int64, error) {
	v, ok := j.obj(o).fields[name]
	if !ok {
		return 0, fmt.Errorf("no field %s", name)
	}
	return v, nil
}

func (j *fakeJVM) CallMethod(o Object, name, sig string, args ...Value) (Value, error) {
	fo := j.obj(o)
	switch name {
	case "intValue", "longValue", "booleanValue", "floatValue", "doubleValue",
		"shortValue", "charValue", "byteValue":
		return fo.value, nil
	case "size":
		return Int32Value(int32(len(fo.list))), nil
	case "add":
		fo.list = append(fo.list, args[0].Object())
		return BoolValue(true), nil
	case "get":
		if fo.class == "java/util/HashMap" {
			for i, k := range fo.keys {
				if j.equal(k, args[0].Object()) {
					return ObjectValue(fo.vals[i]), nil
				}
			}
			return 0, nil
		}
		return ObjectValue(fo.list[args[0].Int32()]), nil
	case "put":
		for i, k := range fo.keys {
			if j.equal(k, args[0].Object()) {
				prev := fo.vals[i]
				fo.vals[i] = args[1].Object()
				return ObjectValue(prev), nil
			}
		}
		fo.keys = append(fo.keys, args[0].Object())
		fo.vals = append(fo.vals, args[1].Object())
		return 0, nil
	case "keySet":
		return ObjectValue(j.alloc(&fakeObject{class: "java/util/Set", list: fo.keys})), nil
	case "iterator":
		return ObjectValue(j.alloc(&fakeObject{class: "java/util/Iterator", iter: fo.list})), nil
	case "hasNext":
		return BoolValue(fo.pos < len(fo.iter)), nil
	case "next":
		fo.pos++
		return ObjectValue(fo.iter[fo.pos-1]), nil
	case "getInner":
		return ObjectValue(fo.inner), nil
	}
	return 0, fmt.Errorf("fake jvm: no method %s%s on %s", name, sig, fo.class)
}

func (j *fakeJVM) CallStaticMethod(cls Object, name, sig string, args ...Value) (Value, error) {
	c := j.obj(cls)
	switch name {
	case "valueOf":
		return ObjectValue(j.newBoxed(c.name, args[0])), nil
	case "getTypeHash":
		return Int64Value(c.typeHash), nil
	}
	return 0, fmt.Errorf("fake jvm: no static method %s%s on %s", name, sig, c.name)
}

func (j *fakeJVM) NewObject(cls Object, sig string, args ...Value) (Object, error) {
	return j.alloc(&fakeObject{class: j.obj(cls).name}), nil
}

func (j *fakeJVM) NewString(s string) (Object, error) { return j.newString(s), nil }

func (j *fakeJVM) GetString(o Object) (string, error) { return j.obj(o).str, nil }

func (j *fakeJVM) IsInstanceOf(o, cls Object) bool {
	return j.obj(o).class == j.obj(cls).name
}

func (j *fakeJVM) ExceptionCheck() bool { return j.pending != nil }

func (j *fakeJVM) ThrowNew(class, msg string) error {
	t := thrown{class: class, msg: msg}
	j.thrown = append(j.thrown, t)
	j.pending = &t
	return nil
}

func (j *fakeJVM) DeleteLocalRef(Object) { j.deletes++ }

func (j *fakeJVM) equal(a, b Object) bool {
	oa, ob := j.obj(a), j.obj(b)
	return oa.class == ob.class && oa.str == ob.str && oa.value == ob.value
}
