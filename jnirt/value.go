package jnirt

import (
	"fmt"
	"math"
)

// Value carries one JNI argument or result (a jvalue). Which accessor is
// meaningful depends on the descriptor of the call it belongs to.
type Value uint64

func Int32Value(v int32) Value     { return Value(uint32(v)) }
func Int64Value(v int64) Value     { return Value(uint64(v)) }
func BoolValue(v bool) Value       { return Value(Bool(v)) }
func Float32Value(v float32) Value { return Value(math.Float32bits(v)) }
func Float64Value(v float64) Value { return Value(math.Float64bits(v)) }
func Int16Value(v int16) Value     { return Value(uint16(v)) }
func CharValue(v uint16) Value     { return Value(v) }
func Int8Value(v int8) Value       { return Value(uint8(v)) }
func ObjectValue(o Object) Value   { return Value(o) }

func (v Value) Int32() int32     { return int32(uint32(v)) }
func (v Value) Int64() int64     { return int64(v) }
func (v Value) Bool() bool       { return uint8(v) != 0 }
func (v Value) Float32() float32 { return math.Float32frombits(uint32(v)) }
func (v Value) Float64() float64 { return math.Float64frombits(uint64(v)) }
func (v Value) Int16() int16     { return int16(uint16(v)) }
func (v Value) Char() uint16     { return uint16(v) }
func (v Value) Int8() int8       { return int8(uint8(v)) }
func (v Value) Object() Object   { return Object(v) }

// SplitDescriptor breaks a method descriptor such as "(ILjava/lang/String;)Z"
// into one kind byte per parameter and the kind of the result. Object and
// array types are reported as 'L'.
func SplitDescriptor(sig string) (params []byte, ret byte, err error) {
	if len(sig) < 3 || sig[0] != '(' {
		return nil, 0, fmt.Errorf("malformed method descriptor %q", sig)
	}
	i := 1
	for i < len(sig) && sig[i] != ')' {
		kind, n, err := descriptorKind(sig[i:])
		if err != nil {
			return nil, 0, fmt.Errorf("%q: %w", sig, err)
		}
		params = append(params, kind)
		i += n
	}
	if i >= len(sig) {
		return nil, 0, fmt.Errorf("malformed method descriptor %q", sig)
	}
	ret, n, err := descriptorKind(sig[i+1:])
	if err != nil {
		return nil, 0, fmt.Errorf("%q: %w", sig, err)
	}
	if i+1+n != len(sig) {
		return nil, 0, fmt.Errorf("trailing data in method descriptor %q", sig)
	}
	return params, ret, nil
}

func descriptorKind(s string) (byte, int, error) {
	if s == "" {
		return 0, 0, fmt.Errorf("unexpected end of descriptor")
	}
	switch s[0] {
	case 'Z', 'B', 'C', 'S', 'I', 'J', 'F', 'D', 'V':
		return s[0], 1, nil
	case 'L':
		for i := 1; i < len(s); i++ {
			if s[i] == ';' {
				return 'L', i + 1, nil
			}
		}
		return 0, 0, fmt.Errorf("unterminated class descriptor")
	case '[':
		_, n, err := descriptorKind(s[1:])
		if err != nil {
			return 0, 0, err
		}
		return 'L', n + 1, nil
	default:
		return 0, 0, fmt.Errorf("invalid descriptor character %q", s[0])
	}
}
