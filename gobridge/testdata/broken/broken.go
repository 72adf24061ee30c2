package broken

import "github.com/rubiojr/jnigen/jnirt"

//jni:class namespace=com.example.broken
type NotAStruct int

//jni:class namespace=com.example.broken
type Widget struct{}

//jni:method
func Standalone() {}

//jni:static Gadget
func Orphan() {}

//jni:static Widget
func Variadic(xs ...int32) {}

//jni:static Widget
func TwoErrors() (error, error) { return nil, nil }

//jni:static Widget
func Unsigned(x uint64) {}

//jni:method rename=drop
func (w *Widget) Drop() {}

//jni:method
func (w *Widget) Poke(env **jnirt.Env) int32 { return 0 }
