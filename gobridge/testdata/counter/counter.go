package counter

import (
	"errors"
	"sort"

	"github.com/rubiojr/jnigen/jnirt"
)

// Counter counts things.
//
//jni:class namespace=com.example.counter load_lib=counter
type Counter struct {
	n     int32
	label string
	tags  map[string]int32
}

// NewCounter creates a counter starting at start.
//
//jni:constructor Counter
func NewCounter(start int32) *Counter {
	return &Counter{n: start, tags: map[string]int32{}}
}

//jni:constructor Counter rename=withLabel
func NewLabeled(label string) (*Counter, error) {
	if label == "" {
		return nil, errors.New("empty label")
	}
	return &Counter{label: label, tags: map[string]int32{}}, nil
}

// Increment adds one and returns the new value.
//
//jni:method
func (c *Counter) Increment() int32 {
	c.n++
	return c.n
}

//jni:method
func (c Counter) Value() int32 { return c.n }

//jni:method rename=label
func (c *Counter) LabelOr(def *string) string {
	if c.label == "" && def != nil {
		return *def
	}
	return c.label
}

//jni:method
func (c *Counter) Merge(other *Counter) error {
	if other == c {
		return errors.New("cannot merge a counter into itself")
	}
	c.n += other.n
	return nil
}

//jni:method
//jni:param l class_name=com.example.counter.Listener
func (c *Counter) Each(env *jnirt.Env, l Listener) error {
	keys := make([]string, 0, len(c.tags))
	for k := range c.tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := l.OnTag(env, k, c.tags[k]); err != nil {
			return err
		}
	}
	return nil
}

//jni:method
func (c *Counter) Tag(name string, value int32) {
	c.tags[name] = value
}

//jni:method
func (c *Counter) Tags() map[string]int32 { return c.tags }

//jni:static Counter
func Sum(values []int64) int64 {
	var total int64
	for _, v := range values {
		total += v
	}
	return total
}

// Listener observes tags.
//
//jni:interface namespace=com.example.counter
type Listener interface {
	// OnTag receives one tag.
	OnTag(env *jnirt.Env, name string, value int32) error
}

// Registry has no constructors.
//
//jni:class namespace=com.example.counter
type Registry struct{}

//jni:static Registry
func Lookup(name string) jnirt.Optional[int64] {
	if name == "" {
		return jnirt.None[int64]()
	}
	return jnirt.Some(int64(len(name)))
}

// helper is not exported to the JVM.
func helper() {}
