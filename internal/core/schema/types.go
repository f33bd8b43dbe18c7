package schema

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/supernova/supernova/internal/core/value"
)

const (
	DateFormat     = "2006-01-02"
	DateTimeFormat = "2006-01-02 15:04"
)

// SQLType maps a property type to the storage primitive of its physical
// column. List-shaped types are stored as JSON text.
func (t PropertyType) SQLType() string {
	switch t {
	case PropertyText, PropertyLongText, PropertyDate, PropertyDateTime,
		PropertyDuration, PropertyLocation, PropertyReferenceUnique:
		return "TEXT"
	case PropertyNumber:
		return "INTEGER"
	case PropertyCurrency:
		return "REAL"
	case PropertyImages, PropertyFiles, PropertyAudios, PropertyReferenceMultiple:
		return "TEXT"
	}
	return "TEXT"
}

// EncodeProperty converts an application value for a typed property into
// its store encoding.
func EncodeProperty(v any, t PropertyType) value.Value {
	if v == nil {
		return value.Null()
	}

	switch t {
	case PropertyDate:
		if ts, ok := v.(time.Time); ok {
			return value.Text(ts.Format(DateFormat))
		}
	case PropertyDateTime:
		if ts, ok := v.(time.Time); ok {
			return value.Text(ts.Format(DateTimeFormat))
		}
	case PropertyNumber:
		switch n := v.(type) {
		case float64:
			return value.Int(int64(n))
		case float32:
			return value.Int(int64(n))
		}
	case PropertyCurrency:
		switch n := v.(type) {
		case int:
			return value.Real(float64(n))
		case int64:
			return value.Real(float64(n))
		}
	}

	return value.Encode(v)
}

// DecodeProperty is the inverse of EncodeProperty. Values whose stored shape
// does not match the property's declared type degrade to their displayable
// string form rather than failing.
func DecodeProperty(v value.Value, t PropertyType) any {
	if v.IsNull() {
		return nil
	}

	if t.IsList() {
		return decodeList(v)
	}

	switch t {
	case PropertyNumber:
		switch v.Kind() {
		case value.KindInt:
			return v.Int()
		case value.KindReal:
			return int64(v.Real())
		case value.KindText:
			if n, err := strconv.ParseInt(v.Text(), 10, 64); err == nil {
				return n
			}
		}
		return v.String()
	case PropertyCurrency:
		switch v.Kind() {
		case value.KindReal:
			return v.Real()
		case value.KindInt:
			return float64(v.Int())
		case value.KindText:
			if f, err := strconv.ParseFloat(v.Text(), 64); err == nil {
				return f
			}
		}
		return v.String()
	default:
		return v.String()
	}
}

func decodeList(v value.Value) any {
	raw := v.String()

	var items []string
	if err := json.Unmarshal([]byte(raw), &items); err == nil {
		return items
	}

	var generic []any
	if err := json.Unmarshal([]byte(raw), &generic); err == nil {
		out := make([]string, len(generic))
		for i, item := range generic {
			out[i] = fmt.Sprint(item)
		}
		return out
	}

	return raw
}
