package value

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Kind enumerates the five SQLite storage classes. Every value crossing the
// store boundary is one of these, nothing else.
type Kind int

const (
	KindNull Kind = iota
	KindInt
	KindReal
	KindText
	KindBlob
)

// Value is a tagged union over the store's primitive types. The zero value
// is Null.
type Value struct {
	kind Kind
	i    int64
	r    float64
	s    string
	b    []byte
}

func Null() Value          { return Value{kind: KindNull} }
func Int(v int64) Value    { return Value{kind: KindInt, i: v} }
func Real(v float64) Value { return Value{kind: KindReal, r: v} }
func Text(v string) Value  { return Value{kind: KindText, s: v} }
func Blob(v []byte) Value  { return Value{kind: KindBlob, b: v} }

func (v Value) Kind() Kind   { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

func (v Value) Int() int64    { return v.i }
func (v Value) Real() float64 { return v.r }
func (v Value) Text() string  { return v.s }
func (v Value) Blob() []byte  { return v.b }

// Any returns the driver-level representation: nil, int64, float64, string
// or []byte.
func (v Value) Any() any {
	switch v.kind {
	case KindInt:
		return v.i
	case KindReal:
		return v.r
	case KindText:
		return v.s
	case KindBlob:
		return v.b
	default:
		return nil
	}
}

// String renders the value for display. Mismatched or unexpected shapes
// degrade to this form rather than failing.
func (v Value) String() string {
	switch v.kind {
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindReal:
		return strconv.FormatFloat(v.r, 'f', -1, 64)
	case KindText:
		return v.s
	case KindBlob:
		return string(v.b)
	default:
		return ""
	}
}

// Row is one result row: column name to decoded store value.
type Row map[string]Value

// FromAny converts a value scanned from the driver into a Value.
func FromAny(x any) Value {
	switch t := x.(type) {
	case nil:
		return Null()
	case int64:
		return Int(t)
	case int:
		return Int(int64(t))
	case float64:
		return Real(t)
	case bool:
		if t {
			return Int(1)
		}
		return Int(0)
	case string:
		return Text(t)
	case []byte:
		return Blob(t)
	case time.Time:
		return Int(t.Unix())
	default:
		return Text(fmt.Sprint(t))
	}
}

// Encode converts an opaque application value to its store encoding:
// nil and empty strings become Null, slices and maps become JSON text,
// times become epoch seconds, scalars pass through.
func Encode(v any) Value {
	switch t := v.(type) {
	case nil:
		return Null()
	case Value:
		return t
	case string:
		if t == "" {
			return Null()
		}
		return Text(t)
	case time.Time:
		return Int(t.Unix())
	case bool:
		if t {
			return Int(1)
		}
		return Int(0)
	case int:
		return Int(int64(t))
	case int32:
		return Int(int64(t))
	case int64:
		return Int(t)
	case float32:
		return Real(float64(t))
	case float64:
		return Real(t)
	case []byte:
		return Blob(t)
	}

	// Composite values (slices, maps, structs) are stored as JSON text.
	if b, err := json.Marshal(v); err == nil {
		return Text(string(b))
	}
	return Text(fmt.Sprint(v))
}

// Decode is the inverse of Encode at the scalar level: it returns the
// application-facing scalar for a store value.
func Decode(v Value) any {
	switch v.kind {
	case KindInt:
		return v.i
	case KindReal:
		return v.r
	case KindText:
		return v.s
	case KindBlob:
		return v.b
	default:
		return nil
	}
}
