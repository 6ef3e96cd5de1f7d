package value

import (
	"fmt"
	"strconv"
)

// Type represents the tag in the Value tagged union.
type Type uint8

const (
	TypeNull Type = iota
	TypeInt
	TypeBool
	TypeReturn
)

var typeNames = [...]string{
	TypeNull:   "NULL",
	TypeInt:    "INTEGER",
	TypeBool:   "BOOLEAN",
	TypeReturn: "RETURN_VALUE",
}

func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return fmt.Sprintf("Type(%d)", uint8(t))
}

// DefaultNull is how Null renders unless the caller picks another sentinel.
const DefaultNull = "nil"

// Value is a tagged union. The zero Value is Null.
type Value struct {
	Type   Type
	Data   uint64 // int64 bits for TypeInt, 0/1 for TypeBool
	Opaque any    // *Value for TypeReturn
}

// Null returns the null value.
func Null() Value { return Value{} }

// Int returns an integer value.
func Int(i int64) Value {
	return Value{Type: TypeInt, Data: uint64(i)}
}

// Bool returns a boolean value.
func Bool(b bool) Value {
	v := Value{Type: TypeBool}
	if b {
		v.Data = 1
	}
	return v
}

// Return wraps inner as the result of a return statement. Wrapping a value
// that is already a return keeps the single wrapper.
func Return(inner Value) Value {
	if inner.Type == TypeReturn {
		return inner
	}
	return Value{Type: TypeReturn, Opaque: &inner}
}

// Int returns the value as int64.
func (v Value) Int() int64 {
	return int64(v.Data)
}

// Bool returns the value as bool.
func (v Value) Bool() bool {
	return v.Data != 0
}

func (v Value) IsNull() bool { return v.Type == TypeNull }

// Unwrap returns the value carried by a return wrapper, or v itself.
func (v Value) Unwrap() Value {
	if v.Type != TypeReturn {
		return v
	}
	if inner, ok := v.Opaque.(*Value); ok && inner != nil {
		return *inner
	}
	return Null()
}

// Equal reports whether v and o have the same type and payload.
func (v Value) Equal(o Value) bool {
	if v.Type != o.Type {
		return false
	}
	if v.Type == TypeReturn {
		return v.Unwrap().Equal(o.Unwrap())
	}
	return v.Data == o.Data
}

// Format renders the value, printing Null as null.
func (v Value) Format(null string) string {
	switch v.Type {
	case TypeInt:
		return strconv.FormatInt(v.Int(), 10)
	case TypeBool:
		return strconv.FormatBool(v.Bool())
	case TypeReturn:
		return v.Unwrap().Format(null)
	case TypeNull:
		return null
	default:
		return fmt.Sprintf("%v", v.Data)
	}
}

func (v Value) String() string {
	return v.Format(DefaultNull)
}
