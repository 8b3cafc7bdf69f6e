package configuration

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// FromJSON decodes a JSON object into a ConfigKeyMap, keeping the order the
// keys appear in the document. Arrays and objects are stored as their raw
// JSON text so they fail as values during resolution rather than here.
func FromJSON(data []byte) (*ConfigKeyMap, error) {
	if len(data) == 0 {
		return NewConfigKeyMap(), nil
	}
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid JSON")
	}
	return FromJSONResult(gjson.ParseBytes(data))
}

// FromJSONResult converts an already located gjson object.
func FromJSONResult(obj gjson.Result) (*ConfigKeyMap, error) {
	m := NewConfigKeyMap()
	if !obj.Exists() || obj.Type == gjson.Null {
		return m, nil
	}
	if !obj.IsObject() {
		return nil, fmt.Errorf("expected a JSON object, found %s", obj.Type)
	}
	obj.ForEach(func(key, value gjson.Result) bool {
		m.Set(key.String(), jsonValue(value))
		return true
	})
	return m, nil
}

func jsonValue(v gjson.Result) ConfigKeyValue {
	switch v.Type {
	case gjson.String:
		return StringValue(v.Str)
	case gjson.Number:
		return NumberValue(v.Num)
	case gjson.True:
		return BoolValue(true)
	case gjson.False:
		return BoolValue(false)
	case gjson.Null:
		return NullValue()
	default:
		return StringValue(v.Raw)
	}
}
