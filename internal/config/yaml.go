package config

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jsvensson/luafmt/internal/configuration"
)

func parseYAML(src []byte) (*File, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(src, &doc); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}

	f := Empty()
	if len(doc.Content) == 0 {
		return f, nil
	}
	root := resolveAlias(doc.Content[0])
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: expected a mapping at the top level", root.Line)
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		key, value := root.Content[i].Value, resolveAlias(root.Content[i+1])
		if key != PluginSection {
			v, err := yamlValue(value)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", key, err)
			}
			f.Global.Set(key, v)
			continue
		}

		if value.Kind == yaml.ScalarNode && value.ShortTag() == "!!null" {
			continue
		}
		if value.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("line %d: %s must be a mapping", value.Line, PluginSection)
		}
		for j := 0; j+1 < len(value.Content); j += 2 {
			name := value.Content[j].Value
			v, err := yamlValue(resolveAlias(value.Content[j+1]))
			if err != nil {
				return nil, fmt.Errorf("%s.%s: %w", PluginSection, name, err)
			}
			f.Plugin.Set(name, v)
		}
	}
	return f, nil
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

// yamlValue converts a YAML node. Sequences and mappings are kept as YAML
// text so they surface as value diagnostics during resolution.
func yamlValue(n *yaml.Node) (configuration.ConfigKeyValue, error) {
	if n.Kind != yaml.ScalarNode {
		out, err := yaml.Marshal(n)
		if err != nil {
			return configuration.ConfigKeyValue{}, err
		}
		return configuration.StringValue(strings.TrimSpace(string(out))), nil
	}

	switch n.ShortTag() {
	case "!!null":
		return configuration.NullValue(), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return configuration.ConfigKeyValue{}, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return configuration.BoolValue(b), nil
	case "!!int", "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return configuration.ConfigKeyValue{}, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return configuration.NumberValue(f), nil
	default:
		return configuration.StringValue(n.Value), nil
	}
}
