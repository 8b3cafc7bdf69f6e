package configuration

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Diagnostic is a non-fatal problem found while resolving configuration.
type Diagnostic struct {
	PropertyName string `json:"propertyName"`
	Message      string `json:"message"`
}

func (d Diagnostic) String() string {
	return d.PropertyName + ": " + d.Message
}

// Parser converts a raw value into a typed field value.
type Parser[T any] func(ConfigKeyValue) (T, error)

// GetValue takes key out of m and parses it. When the key is absent, or its
// value does not parse, defaultValue is returned; a parse failure also
// appends a diagnostic naming the key.
func GetValue[T any](m *ConfigKeyMap, key string, defaultValue T, parse Parser[T], diagnostics *[]Diagnostic) T {
	raw, ok := m.Take(key)
	if !ok {
		return defaultValue
	}
	v, err := parse(raw)
	if err != nil {
		*diagnostics = append(*diagnostics, Diagnostic{
			PropertyName: key,
			Message:      fmt.Sprintf("Error parsing configuration value for '%s'. Message: %v", key, err),
		})
		return defaultValue
	}
	return v
}

// GetUnknownPropertyDiagnostics drains m and reports every remaining key.
func GetUnknownPropertyDiagnostics(m *ConfigKeyMap) []Diagnostic {
	var diagnostics []Diagnostic
	for _, key := range m.Keys() {
		m.Take(key)
		diagnostics = append(diagnostics, Diagnostic{
			PropertyName: key,
			Message:      fmt.Sprintf("Unknown property in configuration: '%s'", key),
		})
	}
	return diagnostics
}

var errNull = errors.New("expected a value, found null")

// Bool accepts booleans and the strings "true" and "false".
func Bool(v ConfigKeyValue) (bool, error) {
	switch v.Kind {
	case KindBool:
		return v.Bool, nil
	case KindString:
		switch v.String {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
		return false, fmt.Errorf("expected a boolean, found %q", v.String)
	case KindNull:
		return false, errNull
	default:
		return false, fmt.Errorf("expected a boolean, found %s %s", v.Kind, v.Text())
	}
}

// Uint32 accepts positive integers that fit in 32 bits.
func Uint32(v ConfigKeyValue) (uint32, error) {
	n, err := positiveInt(v, math.MaxUint32)
	return uint32(n), err
}

// Uint8 accepts positive integers up to 255.
func Uint8(v ConfigKeyValue) (uint8, error) {
	n, err := positiveInt(v, math.MaxUint8)
	return uint8(n), err
}

func positiveInt(v ConfigKeyValue, max uint64) (uint64, error) {
	var f float64
	switch v.Kind {
	case KindNumber:
		f = v.Number
	case KindString:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v.String), 64)
		if err != nil {
			return 0, fmt.Errorf("expected a number, found %q", v.String)
		}
		f = parsed
	case KindNull:
		return 0, errNull
	default:
		return 0, fmt.Errorf("expected a number, found %s %s", v.Kind, v.Text())
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("expected an integer, found %v", f)
	}
	if f < 1 {
		return 0, fmt.Errorf("expected a positive integer, found %v", f)
	}
	if f > float64(max) {
		return 0, fmt.Errorf("value %v is larger than the maximum of %d", f, max)
	}
	return uint64(f), nil
}

// Enum builds a parser for string-valued enums.
func Enum[T any](parse func(string) (T, error)) Parser[T] {
	return func(v ConfigKeyValue) (T, error) {
		if v.Kind != KindString {
			var zero T
			if v.Kind == KindNull {
				return zero, errNull
			}
			return zero, fmt.Errorf("expected a string, found %s %s", v.Kind, v.Text())
		}
		return parse(v.String)
	}
}
