package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jsvensson/luafmt/internal/configuration"
)

// ParseSet turns key=value pairs from the command line into an override
// map. "true" and "false" become booleans and numeric text becomes a
// number; anything else stays a string.
func ParseSet(pairs []string) (*configuration.ConfigKeyMap, error) {
	m := configuration.NewConfigKeyMap()
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid setting %q: expected key=value", pair)
		}
		m.Set(key, parseSetValue(strings.TrimSpace(value)))
	}
	return m, nil
}

func parseSetValue(s string) configuration.ConfigKeyValue {
	switch s {
	case "true":
		return configuration.BoolValue(true)
	case "false":
		return configuration.BoolValue(false)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return configuration.NumberValue(f)
	}
	return configuration.StringValue(s)
}
