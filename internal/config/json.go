package config

import (
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/jsvensson/luafmt/internal/configuration"
)

func parseJSON(src []byte) (*File, error) {
	all, err := configuration.FromJSON(src)
	if err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}
	return splitPluginSection(all)
}

// FromSettings builds a File from an editor settings object shaped like a
// JSON configuration file: top-level keys are globals and the luafmt
// object holds plugin overrides.
func FromSettings(settings gjson.Result) (*File, error) {
	all, err := configuration.FromJSONResult(settings)
	if err != nil {
		return nil, fmt.Errorf("parsing settings: %w", err)
	}
	return splitPluginSection(all)
}

func splitPluginSection(all *configuration.ConfigKeyMap) (*File, error) {
	f := &File{Global: all, Plugin: configuration.NewConfigKeyMap()}
	section, ok := all.Take(PluginSection)
	if !ok || section.Kind == configuration.KindNull {
		return f, nil
	}
	if section.Kind != configuration.KindString {
		return nil, fmt.Errorf("%s must be an object", PluginSection)
	}
	plugin, err := configuration.FromJSON([]byte(section.String))
	if err != nil {
		return nil, fmt.Errorf("%s must be an object: %w", PluginSection, err)
	}
	f.Plugin = plugin
	return f, nil
}
