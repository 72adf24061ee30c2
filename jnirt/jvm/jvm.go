//go:build jni

// Package jvm registers the cgo implementation of jnirt.Backend. Generated
// bridge files import it for its side effect. Building it requires the
// JDK headers, e.g. CGO_CFLAGS="-I$JAVA_HOME/include -I$JAVA_HOME/include/linux".
package jvm

/*
#include <jni.h>
#include <stdlib.h>

static jclass jnigen_find_class(JNIEnv *env, const char *name) {
	jclass cls = (*env)->FindClass(env, name);
	if ((*env)->ExceptionCheck(env)) {
		(*env)->ExceptionClear(env);
		return NULL;
	}
	return cls;
}

static jclass jnigen_object_class(JNIEnv *env, jobject obj) {
	return (*env)->GetObjectClass(env, obj);
}

static int jnigen_long_field(JNIEnv *env, jobject obj, const char *name, jlong *out) {
	jclass cls = (*env)->GetObjectClass(env, obj);
	jfieldID id = (*env)->GetFieldID(env, cls, name, "J");
	(*env)->DeleteLocalRef(env, cls);
	if (id == NULL) {
		return -1;
	}
	*out = (*env)->GetLongField(env, obj, id);
	return 0;
}

static jvalue jnigen_call(JNIEnv *env, jobject obj, const char *name, const char *sig, char ret, const jvalue *args, int *ok) {
	jvalue res;
	res.j = 0;
	jclass cls = (*env)->GetObjectClass(env, obj);
	jmethodID id = (*env)->GetMethodID(env, cls, name, sig);
	(*env)->DeleteLocalRef(env, cls);
	if (id == NULL) {
		*ok = 0;
		return res;
	}
	switch (ret) {
	case 'V': (*env)->CallVoidMethodA(env, obj, id, args); break;
	case 'Z': res.z = (*env)->CallBooleanMethodA(env, obj, id, args); break;
	case 'B': res.b = (*env)->CallByteMethodA(env, obj, id, args); break;
	case 'C': res.c = (*env)->CallCharMethodA(env, obj, id, args); break;
	case 'S': res.s = (*env)->CallShortMethodA(env, obj, id, args); break;
	case 'I': res.i = (*env)->CallIntMethodA(env, obj, id, args); break;
	case 'J': res.j = (*env)->CallLongMethodA(env, obj, id, args); break;
	case 'F': res.f = (*env)->CallFloatMethodA(env, obj, id, args); break;
	case 'D': res.d = (*env)->CallDoubleMethodA(env, obj, id, args); break;
	default:  res.l = (*env)->CallObjectMethodA(env, obj, id, args); break;
	}
	*ok = !(*env)->ExceptionCheck(env);
	return res;
}

static jvalue jnigen_call_static(JNIEnv *env, jclass cls, const char *name, const char *sig, char ret, const jvalue *args, int *ok) {
	jvalue res;
	res.j = 0;
	jmethodID id = (*env)->GetStaticMethodID(env, cls, name, sig);
	if (id == NULL) {
		*ok = 0;
		return res;
	}
	switch (ret) {
	case 'V': (*env)->CallStaticVoidMethodA(env, cls, id, args); break;
	case 'Z': res.z = (*env)->CallStaticBooleanMethodA(env, cls, id, args); break;
	case 'B': res.b = (*env)->CallStaticByteMethodA(env, cls, id, args); break;
	case 'C': res.c = (*env)->CallStaticCharMethodA(env, cls, id, args); break;
	case 'S': res.s = (*env)->CallStaticShortMethodA(env, cls, id, args); break;
	case 'I': res.i = (*env)->CallStaticIntMethodA(env, cls, id, args); break;
	case 'J': res.j = (*env)->CallStaticLongMethodA(env, cls, id, args); break;
	case 'F': res.f = (*env)->CallStaticFloatMethodA(env, cls, id, args); break;
	case 'D': res.d = (*env)->CallStaticDoubleMethodA(env, cls, id, args); break;
	default:  res.l = (*env)->CallStaticObjectMethodA(env, cls, id, args); break;
	}
	*ok = !(*env)->ExceptionCheck(env);
	return res;
}

static jobject jnigen_new_object(JNIEnv *env, jclass cls, const char *sig, const jvalue *args) {
	jmethodID id = (*env)->GetMethodID(env, cls, "<init>", sig);
	if (id == NULL) {
		return NULL;
	}
	return (*env)->NewObjectA(env, cls, id, args);
}

static jstring jnigen_new_string(JNIEnv *env, const jchar *chars, jsize len) {
	return (*env)->NewString(env, chars, len);
}

static jsize jnigen_string_length(JNIEnv *env, jstring s) {
	return (*env)->GetStringLength(env, s);
}

static void jnigen_string_region(JNIEnv *env, jstring s, jsize len, jchar *buf) {
	(*env)->GetStringRegion(env, s, 0, len, buf);
}

static jboolean jnigen_is_instance_of(JNIEnv *env, jobject obj, jclass cls) {
	return (*env)->IsInstanceOf(env, obj, cls);
}

static jboolean jnigen_exception_check(JNIEnv *env) {
	return (*env)->ExceptionCheck(env);
}

static int jnigen_throw_new(JNIEnv *env, const char *class_name, const char *msg) {
	jclass cls = (*env)->FindClass(env, class_name);
	if (cls == NULL) {
		(*env)->ExceptionClear(env);
		return -1;
	}
	return (*env)->ThrowNew(env, cls, msg);
}

static void jnigen_delete_local_ref(JNIEnv *env, jobject obj) {
	(*env)->DeleteLocalRef(env, obj);
}
*/
import "C"

import (
	"fmt"
	"unicode/utf16"
	"unsafe"

	"github.com/rubiojr/jnigen/jnirt"
)

func init() {
	jnirt.RegisterBackend(func(env uintptr) jnirt.Backend {
		return &backend{env: (*C.JNIEnv)(unsafe.Pointer(env))}
	})
}

type backend struct {
	env *C.JNIEnv
}

func ref(o jnirt.Object) C.jobject { return C.jobject(unsafe.Pointer(o)) }

func obj(r C.jobject) jnirt.Object { return jnirt.Object(uintptr(unsafe.Pointer(r))) }

func (b *backend) FindClass(name string) (jnirt.Object, error) {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	cls := C.jnigen_find_class(b.env, cname)
	if cls == nil {
		return 0, fmt.Errorf("class %s not found", name)
	}
	return obj(C.jobject(cls)), nil
}

func (b *backend) GetObjectClass(o jnirt.Object) jnirt.Object {
	return obj(C.jobject(C.jnigen_object_class(b.env, ref(o))))
}

func (b *backend) GetLongField(o jnirt.Object, name string) (int64, error) {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	var out C.jlong
	if C.jnigen_long_field(b.env, ref(o), cname, &out) != 0 {
		return 0, jnirt.ErrPendingException
	}
	return int64(out), nil
}

// jvalues lays out args according to the parameter kinds of sig.
func jvalues(sig string, args []jnirt.Value) ([]C.jvalue, byte, error) {
	kinds, ret, err := jnirt.SplitDescriptor(sig)
	if err != nil {
		return nil, 0, err
	}
	if len(kinds) != len(args) {
		return nil, 0, fmt.Errorf("descriptor %s takes %d arguments, got %d", sig, len(kinds), len(args))
	}
	out := make([]C.jvalue, len(args)+1)
	for i, v := range args {
		p := unsafe.Pointer(&out[i])
		switch kinds[i] {
		case 'Z':
			*(*C.jboolean)(p) = C.jboolean(jnirt.Bool(v.Bool()))
		case 'B':
			*(*C.jbyte)(p) = C.jbyte(v.Int8())
		case 'C':
			*(*C.jchar)(p) = C.jchar(v.Char())
		case 'S':
			*(*C.jshort)(p) = C.jshort(v.Int16())
		case 'I':
			*(*C.jint)(p) = C.jint(v.Int32())
		case 'J':
			*(*C.jlong)(p) = C.jlong(v.Int64())
		case 'F':
			*(*C.jfloat)(p) = C.jfloat(v.Float32())
		case 'D':
			*(*C.jdouble)(p) = C.jdouble(v.Float64())
		default:
			*(*C.jobject)(p) = ref(v.Object())
		}
	}
	return out, ret, nil
}

func fromJValue(r C.jvalue, kind byte) jnirt.Value {
	p := unsafe.Pointer(&r)
	switch kind {
	case 'Z':
		return jnirt.BoolValue(*(*C.jboolean)(p) != 0)
	case 'B':
		return jnirt.Int8Value(int8(*(*C.jbyte)(p)))
	case 'C':
		return jnirt.CharValue(uint16(*(*C.jchar)(p)))
	case 'S':
		return jnirt.Int16Value(int16(*(*C.jshort)(p)))
	case 'I':
		return jnirt.Int32Value(int32(*(*C.jint)(p)))
	case 'J':
		return jnirt.Int64Value(int64(*(*C.jlong)(p)))
	case 'F':
		return jnirt.Float32Value(float32(*(*C.jfloat)(p)))
	case 'D':
		return jnirt.Float64Value(float64(*(*C.jdouble)(p)))
	case 'V':
		return 0
	default:
		return jnirt.ObjectValue(obj(*(*C.jobject)(p)))
	}
}

func (b *backend) CallMethod(o jnirt.Object, name, sig string, args ...jnirt.Value) (jnirt.Value, error) {
	vals, ret, err := jvalues(sig, args)
	if err != nil {
		return 0, err
	}
	cname, csig := C.CString(name), C.CString(sig)
	defer C.free(unsafe.Pointer(cname))
	defer C.free(unsafe.Pointer(csig))
	var ok C.int
	r := C.jnigen_call(b.env, ref(o), cname, csig, C.char(ret), &vals[0], &ok)
	if ok == 0 {
		return 0, jnirt.ErrPendingException
	}
	return fromJValue(r, ret), nil
}

func (b *backend) CallStaticMethod(cls jnirt.Object, name, sig string, args ...jnirt.Value) (jnirt.Value, error) {
	vals, ret, err := jvalues(sig, args)
	if err != nil {
		return 0, err
	}
	cname, csig := C.CString(name), C.CString(sig)
	defer C.free(unsafe.Pointer(cname))
	defer C.free(unsafe.Pointer(csig))
	var ok C.int
	r := C.jnigen_call_static(b.env, C.jclass(ref(cls)), cname, csig, C.char(ret), &vals[0], &ok)
	if ok == 0 {
		return 0, jnirt.ErrPendingException
	}
	return fromJValue(r, ret), nil
}

func (b *backend) NewObject(cls jnirt.Object, sig string, args ...jnirt.Value) (jnirt.Object, error) {
	vals, _, err := jvalues(sig, args)
	if err != nil {
		return 0, err
	}
	csig := C.CString(sig)
	defer C.free(unsafe.Pointer(csig))
	r := C.jnigen_new_object(b.env, C.jclass(ref(cls)), csig, &vals[0])
	if r == nil || C.jnigen_exception_check(b.env) != 0 {
		return 0, jnirt.ErrPendingException
	}
	return obj(r), nil
}

// Strings cross as UTF-16 so that characters outside the BMP survive;
// the JNI UTF-8 variants use modified UTF-8.
func (b *backend) NewString(s string) (jnirt.Object, error) {
	u := utf16.Encode([]rune(s))
	var p *C.jchar
	if len(u) > 0 {
		p = (*C.jchar)(unsafe.Pointer(&u[0]))
	}
	r := C.jnigen_new_string(b.env, p, C.jsize(len(u)))
	if r == nil {
		return 0, jnirt.ErrPendingException
	}
	return obj(C.jobject(r)), nil
}

func (b *backend) GetString(o jnirt.Object) (string, error) {
	s := C.jstring(ref(o))
	n := C.jnigen_string_length(b.env, s)
	if n == 0 {
		return "", nil
	}
	buf := make([]uint16, int(n))
	C.jnigen_string_region(b.env, s, n, (*C.jchar)(unsafe.Pointer(&buf[0])))
	if C.jnigen_exception_check(b.env) != 0 {
		return "", jnirt.ErrPendingException
	}
	return string(utf16.Decode(buf)), nil
}

func (b *backend) IsInstanceOf(o, cls jnirt.Object) bool {
	return C.jnigen_is_instance_of(b.env, ref(o), C.jclass(ref(cls))) != 0
}

func (b *backend) ExceptionCheck() bool {
	return C.jnigen_exception_check(b.env) != 0
}

func (b *backend) ThrowNew(class, msg string) error {
	cclass, cmsg := C.CString(class), C.CString(msg)
	defer C.free(unsafe.Pointer(cclass))
	defer C.free(unsafe.Pointer(cmsg))
	if C.jnigen_throw_new(b.env, cclass, cmsg) != 0 {
		return fmt.Errorf("cannot throw %s", class)
	}
	return nil
}

func (b *backend) DeleteLocalRef(o jnirt.Object) {
	C.jnigen_delete_local_ref(b.env, ref(o))
}
