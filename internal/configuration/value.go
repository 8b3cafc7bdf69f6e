// Package configuration holds the host-facing configuration primitives:
// loosely typed key maps, diagnostics, the cross-plugin global
// configuration and newline handling.
package configuration

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// ValueKind identifies the scalar type carried by a ConfigKeyValue.
type ValueKind int

const (
	KindNull ValueKind = iota
	KindString
	KindNumber
	KindBool
)

func (k ValueKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "boolean"
	default:
		return "null"
	}
}

// ConfigKeyValue is an untyped scalar supplied by a host.
type ConfigKeyValue struct {
	Kind   ValueKind
	String string
	Number float64
	Bool   bool
}

func StringValue(s string) ConfigKeyValue {
	return ConfigKeyValue{Kind: KindString, String: s}
}

func NumberValue(n float64) ConfigKeyValue {
	return ConfigKeyValue{Kind: KindNumber, Number: n}
}

func BoolValue(b bool) ConfigKeyValue {
	return ConfigKeyValue{Kind: KindBool, Bool: b}
}

func NullValue() ConfigKeyValue {
	return ConfigKeyValue{Kind: KindNull}
}

// FromAny converts a decoded JSON/YAML scalar into a ConfigKeyValue.
func FromAny(v any) (ConfigKeyValue, error) {
	switch x := v.(type) {
	case nil:
		return NullValue(), nil
	case string:
		return StringValue(x), nil
	case bool:
		return BoolValue(x), nil
	case int:
		return NumberValue(float64(x)), nil
	case int8:
		return NumberValue(float64(x)), nil
	case int16:
		return NumberValue(float64(x)), nil
	case int32:
		return NumberValue(float64(x)), nil
	case int64:
		return NumberValue(float64(x)), nil
	case uint:
		return NumberValue(float64(x)), nil
	case uint8:
		return NumberValue(float64(x)), nil
	case uint16:
		return NumberValue(float64(x)), nil
	case uint32:
		return NumberValue(float64(x)), nil
	case uint64:
		return NumberValue(float64(x)), nil
	case float32:
		return NumberValue(float64(x)), nil
	case float64:
		return NumberValue(x), nil
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return ConfigKeyValue{}, fmt.Errorf("invalid number %q: %w", x.String(), err)
		}
		return NumberValue(f), nil
	default:
		return ConfigKeyValue{}, fmt.Errorf("unsupported value type %T", v)
	}
}

// Text renders the value the way a user would have written it.
func (v ConfigKeyValue) Text() string {
	switch v.Kind {
	case KindString:
		return v.String
	case KindNumber:
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.Bool)
	default:
		return "null"
	}
}
