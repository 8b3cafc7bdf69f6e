package config

import (
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"

	"github.com/jsvensson/luafmt/internal/configuration"
)

// hclFile splits the plugin block from the top-level attributes.
type hclFile struct {
	Plugin *hclSection `hcl:"luafmt,block"`
	Remain hcl.Body    `hcl:",remain"`
}

type hclSection struct {
	Entries hcl.Body `hcl:",remain"`
}

func parseHCL(path string, src []byte) (*File, error) {
	file, diags := hclsyntax.ParseConfig(src, path, hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return nil, fmt.Errorf("parsing HCL: %s", diags.Error())
	}

	var raw hclFile
	if diags := gohcl.DecodeBody(file.Body, nil, &raw); diags.HasErrors() {
		return nil, fmt.Errorf("decoding HCL: %s", diags.Error())
	}

	f := Empty()
	if err := hclAttributes(raw.Remain, "", f.Global); err != nil {
		return nil, err
	}
	if raw.Plugin != nil {
		if err := hclAttributes(raw.Plugin.Entries, PluginSection+".", f.Plugin); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// hclAttributes copies the attributes of body into m in source order.
func hclAttributes(body hcl.Body, prefix string, m *configuration.ConfigKeyMap) error {
	attrs, diags := body.JustAttributes()
	if diags.HasErrors() {
		return fmt.Errorf("parsing attributes: %s", diags.Error())
	}

	sorted := make([]*hcl.Attribute, 0, len(attrs))
	for _, attr := range attrs {
		sorted = append(sorted, attr)
	}
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Range.Start.Byte < sorted[j].Range.Start.Byte
	})

	for _, attr := range sorted {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return fmt.Errorf("evaluating %s%s: %s", prefix, attr.Name, diags.Error())
		}
		v, err := ctyValue(val)
		if err != nil {
			return fmt.Errorf("%s%s: %w", prefix, attr.Name, err)
		}
		m.Set(attr.Name, v)
	}
	return nil
}

// ctyValue converts an HCL value. Collections are kept as their JSON text so
// they surface as value diagnostics during resolution.
func ctyValue(val cty.Value) (configuration.ConfigKeyValue, error) {
	if val.IsNull() {
		return configuration.NullValue(), nil
	}
	if !val.IsWhollyKnown() {
		return configuration.ConfigKeyValue{}, fmt.Errorf("value is not known")
	}

	switch val.Type() {
	case cty.String:
		return configuration.StringValue(val.AsString()), nil
	case cty.Bool:
		return configuration.BoolValue(val.True()), nil
	case cty.Number:
		f, _ := val.AsBigFloat().Float64()
		return configuration.NumberValue(f), nil
	}

	raw, err := ctyjson.Marshal(val, val.Type())
	if err != nil {
		return configuration.ConfigKeyValue{}, fmt.Errorf("converting %s value: %w", val.Type().FriendlyName(), err)
	}
	return configuration.StringValue(string(raw)), nil
}
