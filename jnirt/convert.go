package jnirt

// FromFunc converts a host object into a Go value.
type FromFunc[T any] func(e *Env, obj Object) (T, error)

// ToFunc converts a Go value into a new local host reference.
type ToFunc[T any] func(e *Env, v T) (Object, error)

const (
	classArrayList = "java/util/ArrayList"
	classHashMap   = "java/util/HashMap"
)

// StringFrom reads a host string.
func StringFrom(e *Env, obj Object) (string, error) {
	if obj == 0 {
		return "", Errorf(ClassNullPointer, "the string is null")
	}
	return e.GetString(obj)
}

// StringTo creates a host string.
func StringTo(e *Env, s string) (Object, error) {
	return e.NewString(s)
}

// ObjectFrom passes an untyped host object through unchanged.
func ObjectFrom(_ *Env, obj Object) (Object, error) { return obj, nil }

// ObjectTo passes an untyped host object through unchanged.
func ObjectTo(_ *Env, obj Object) (Object, error) { return obj, nil }

type boxed struct {
	class  string // java/lang/Integer
	prim   string // I
	unbox  string // intValue
	pretty string // java.lang.Integer
}

var (
	boxInt32   = boxed{"java/lang/Integer", "I", "intValue", "java.lang.Integer"}
	boxInt64   = boxed{"java/lang/Long", "J", "longValue", "java.lang.Long"}
	boxBool    = boxed{"java/lang/Boolean", "Z", "booleanValue", "java.lang.Boolean"}
	boxFloat32 = boxed{"java/lang/Float", "F", "floatValue", "java.lang.Float"}
	boxFloat64 = boxed{"java/lang/Double", "D", "doubleValue", "java.lang.Double"}
	boxInt16   = boxed{"java/lang/Short", "S", "shortValue", "java.lang.Short"}
	boxChar    = boxed{"java/lang/Character", "C", "charValue", "java.lang.Character"}
	boxInt8    = boxed{"java/lang/Byte", "B", "byteValue", "java.lang.Byte"}
)

func unboxer[T any](b boxed, get func(Value) T) FromFunc[T] {
	return func(e *Env, obj Object) (T, error) {
		var zero T
		if obj == 0 {
			return zero, Errorf(ClassNullPointer, "the %s is null", b.pretty)
		}
		ok, err := e.IsInstanceOf(obj, b.class)
		if err != nil {
			return zero, err
		}
		if !ok {
			return zero, Errorf(ClassIllegalArgument, "expected a %s", b.pretty)
		}
		v, err := e.CallMethod(obj, b.unbox, "()"+b.prim)
		if err != nil {
			return zero, err
		}
		return get(v), nil
	}
}

func boxer[T any](b boxed, put func(T) Value) ToFunc[T] {
	return func(e *Env, v T) (Object, error) {
		cls, err := e.FindClass(b.class)
		if err != nil {
			return 0, err
		}
		res, err := e.CallStaticMethod(cls, "valueOf", "("+b.prim+")L"+b.class+";", put(v))
		if err != nil {
			return 0, err
		}
		return res.Object(), nil
	}
}

// Converters between Go scalars and the host's boxed primitive classes.
var (
	BoxedInt32From   = unboxer(boxInt32, Value.Int32)
	BoxedInt64From   = unboxer(boxInt64, Value.Int64)
	BoxedBoolFrom    = unboxer(boxBool, Value.Bool)
	BoxedFloat32From = unboxer(boxFloat32, Value.Float32)
	BoxedFloat64From = unboxer(boxFloat64, Value.Float64)
	BoxedInt16From   = unboxer(boxInt16, Value.Int16)
	BoxedCharFrom    = unboxer(boxChar, Value.Char)
	BoxedInt8From    = unboxer(boxInt8, Value.Int8)

	BoxedInt32To   = boxer(boxInt32, Int32Value)
	BoxedInt64To   = boxer(boxInt64, Int64Value)
	BoxedBoolTo    = boxer(boxBool, BoolValue)
	BoxedFloat32To = boxer(boxFloat32, Float32Value)
	BoxedFloat64To = boxer(boxFloat64, Float64Value)
	BoxedInt16To   = boxer(boxInt16, Int16Value)
	BoxedCharTo    = boxer(boxChar, CharValue)
	BoxedInt8To    = boxer(boxInt8, Int8Value)
)

// ListOf converts a java.util.List element by element.
func ListOf[T any](elem FromFunc[T]) FromFunc[[]T] {
	return func(e *Env, obj Object) ([]T, error) {
		if obj == 0 {
			return nil, Errorf(ClassNullPointer, "the list is null")
		}
		n, err := e.CallMethod(obj, "size", "()I")
		if err != nil {
			return nil, err
		}
		out := make([]T, 0, n.Int32())
		for i := int32(0); i < n.Int32(); i++ {
			item, err := e.CallMethod(obj, "get", "(I)Ljava/lang/Object;", Int32Value(i))
			if err != nil {
				return nil, err
			}
			v, err := elem(e, item.Object())
			e.DeleteLocalRef(item.Object())
			if err != nil {
				return nil, Errorf(ClassOf(err), "list element %d: %v", i, err)
			}
			out = append(out, v)
		}
		return out, nil
	}
}

// ListTo builds a java.util.ArrayList. A nil slice becomes an empty list.
func ListTo[T any](elem ToFunc[T]) ToFunc[[]T] {
	return func(e *Env, vs []T) (Object, error) {
		list, err := e.NewObject(classArrayList, "(I)V", Int32Value(int32(len(vs))))
		if err != nil {
			return 0, err
		}
		for i, v := range vs {
			item, err := elem(e, v)
			if err != nil {
				e.DeleteLocalRef(list)
				return 0, Errorf(ClassOf(err), "list element %d: %v", i, err)
			}
			_, err = e.CallMethod(list, "add", "(Ljava/lang/Object;)Z", ObjectValue(item))
			e.DeleteLocalRef(item)
			if err != nil {
				e.DeleteLocalRef(list)
				return 0, err
			}
		}
		return list, nil
	}
}

// MapOf converts a java.util.Map entry by entry.
func MapOf[K comparable, V any](key FromFunc[K], val FromFunc[V]) FromFunc[map[K]V] {
	return func(e *Env, obj Object) (map[K]V, error) {
		if obj == 0 {
			return nil, Errorf(ClassNullPointer, "the map is null")
		}
		keys, err := e.CallMethod(obj, "keySet", "()Ljava/util/Set;")
		if err != nil {
			return nil, err
		}
		defer e.DeleteLocalRef(keys.Object())
		it, err := e.CallMethod(keys.Object(), "iterator", "()Ljava/util/Iterator;")
		if err != nil {
			return nil, err
		}
		defer e.DeleteLocalRef(it.Object())

		out := make(map[K]V)
		for {
			more, err := e.CallMethod(it.Object(), "hasNext", "()Z")
			if err != nil {
				return nil, err
			}
			if !more.Bool() {
				return out, nil
			}
			jk, err := e.CallMethod(it.Object(), "next", "()Ljava/lang/Object;")
			if err != nil {
				return nil, err
			}
			jv, err := e.CallMethod(obj, "get", "(Ljava/lang/Object;)Ljava/lang/Object;", jk)
			if err != nil {
				e.DeleteLocalRef(jk.Object())
				return nil, err
			}
			k, err := key(e, jk.Object())
			if err == nil {
				var v V
				v, err = val(e, jv.Object())
				out[k] = v
			}
			e.DeleteLocalRef(jk.Object())
			e.DeleteLocalRef(jv.Object())
			if err != nil {
				return nil, Errorf(ClassOf(err), "map entry: %v", err)
			}
		}
	}
}

// MapTo builds a java.util.HashMap.
func MapTo[K comparable, V any](key ToFunc[K], val ToFunc[V]) ToFunc[map[K]V] {
	return func(e *Env, m map[K]V) (Object, error) {
		out, err := e.NewObject(classHashMap, "()V")
		if err != nil {
			return 0, err
		}
		for k, v := range m {
			if err := putEntry(e, out, key, val, k, v); err != nil {
				e.DeleteLocalRef(out)
				return 0, Errorf(ClassOf(err), "map entry: %v", err)
			}
		}
		return out, nil
	}
}

func putEntry[K comparable, V any](e *Env, m Object, key ToFunc[K], val ToFunc[V], k K, v V) error {
	jk, err := key(e, k)
	if err != nil {
		return err
	}
	defer e.DeleteLocalRef(jk)
	jv, err := val(e, v)
	if err != nil {
		return err
	}
	defer e.DeleteLocalRef(jv)
	prev, err := e.CallMethod(m, "put", "(Ljava/lang/Object;Ljava/lang/Object;)Ljava/lang/Object;",
		ObjectValue(jk), ObjectValue(jv))
	if err != nil {
		return err
	}
	e.DeleteLocalRef(prev.Object())
	return nil
}

// PointerOf converts a nullable host reference; null becomes nil and the
// inner converter is not called.
func PointerOf[T any](inner FromFunc[T]) FromFunc[*T] {
	return func(e *Env, obj Object) (*T, error) {
		if obj == 0 {
			return nil, nil
		}
		v, err := inner(e, obj)
		if err != nil {
			return nil, err
		}
		return &v, nil
	}
}

// PointerTo converts nil to the host null.
func PointerTo[T any](inner ToFunc[T]) ToFunc[*T] {
	return func(e *Env, v *T) (Object, error) {
		if v == nil {
			return 0, nil
		}
		return inner(e, *v)
	}
}

// OptionalOf is PointerOf for Optional values.
func OptionalOf[T any](inner FromFunc[T]) FromFunc[Optional[T]] {
	return func(e *Env, obj Object) (Optional[T], error) {
		if obj == 0 {
			return None[T](), nil
		}
		v, err := inner(e, obj)
		if err != nil {
			return None[T](), err
		}
		return Some(v), nil
	}
}

// OptionalTo is PointerTo for Optional values.
func OptionalTo[T any](inner ToFunc[T]) ToFunc[Optional[T]] {
	return func(e *Env, v Optional[T]) (Object, error) {
		if !v.Valid {
			return 0, nil
		}
		return inner(e, v.Value)
	}
}

// CallbackFrom wraps a host object implementing a callback interface
// using the generated proxy constructor. The proxy is only valid for the
// duration of the bridge call it was created in.
func CallbackFrom[T any](e *Env, obj Object, proxy func(Object) T) (T, error) {
	if obj == 0 {
		var zero T
		return zero, Errorf(ClassNullPointer, "the callback is null")
	}
	return proxy(obj), nil
}
