package subst

import (
	"fmt"
	"reflect"
	"unsafe"
)

// kind is the value category an argument renders through. The engine never
// sees an argument directly; classify maps everything onto this closed set
// first.
type kind uint8

const (
	kindUint kind = iota
	kindInt
	kindFloat
	kindByte
	kindStr
	kindPtr
)

// value is the tagged union handed to the render engine. Exactly one field
// besides k is meaningful: u for kindUint, kindByte, and kindPtr; i for
// kindInt; f for kindFloat; s for kindStr.
type value struct {
	k kind
	u uint64
	i int64
	f float64
	s string
}

func strValue(s string) value { return value{k: kindStr, s: s} }

// classify maps an arbitrary argument onto a value category. Conversions
// that run user code (Error, String, or fmt.Sprint over a Stringer) can
// panic; those panics are contained here and the diagnostic, already
// marker-wrapped, becomes the argument's string value.
func classify(arg any) value {
	switch v := arg.(type) {
	case nil:
		return value{k: kindPtr}
	case uint8:
		return value{k: kindByte, u: uint64(v)}
	case int:
		return value{k: kindInt, i: int64(v)}
	case int8:
		return value{k: kindInt, i: int64(v)}
	case int16:
		return value{k: kindInt, i: int64(v)}
	case int32:
		return value{k: kindInt, i: int64(v)}
	case int64:
		return value{k: kindInt, i: v}
	case uint:
		return value{k: kindUint, u: uint64(v)}
	case uint16:
		return value{k: kindUint, u: uint64(v)}
	case uint32:
		return value{k: kindUint, u: uint64(v)}
	case uint64:
		return value{k: kindUint, u: v}
	case uintptr:
		return value{k: kindUint, u: uint64(v)}
	case float32:
		return value{k: kindFloat, f: float64(v)}
	case float64:
		return value{k: kindFloat, f: v}
	case string:
		return strValue(v)
	case []byte:
		return strValue(string(v))
	case unsafe.Pointer:
		return value{k: kindPtr, u: uint64(uintptr(v))}
	case error:
		return stringify(v.Error)
	case fmt.Stringer:
		return stringify(v.String)
	}

	rv := reflect.ValueOf(arg)
	switch rv.Kind() {
	case reflect.Pointer, reflect.UnsafePointer, reflect.Chan, reflect.Map, reflect.Func:
		return value{k: kindPtr, u: uint64(rv.Pointer())}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return value{k: kindInt, i: rv.Int()}
	case reflect.Uint8:
		return value{k: kindByte, u: rv.Uint()}
	case reflect.Uint, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return value{k: kindUint, u: rv.Uint()}
	case reflect.Float32, reflect.Float64:
		return value{k: kindFloat, f: rv.Float()}
	case reflect.String:
		return strValue(rv.String())
	}

	return stringify(func() string { return fmt.Sprint(arg) })
}

func stringify(fn func() string) (v value) {
	defer func() {
		if r := recover(); r != nil {
			v = strValue(describePanic(r))
		}
	}()
	return strValue(fn())
}
