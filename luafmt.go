// Package luafmt formats Lua source code for plugin hosts. A host resolves
// its raw configuration once with Handler.ResolveConfig and then calls
// Handler.Format for each file.
package luafmt

import (
	_ "embed"
	"fmt"

	"github.com/jsvensson/luafmt/internal/config"
	"github.com/jsvensson/luafmt/internal/configuration"
	"github.com/jsvensson/luafmt/internal/engine"
	"github.com/jsvensson/luafmt/internal/plugin"
)

type (
	Configuration       = plugin.Configuration
	Result              = plugin.Result
	PluginInfo          = plugin.PluginInfo
	ConfigKeyMap        = configuration.ConfigKeyMap
	ConfigKeyValue      = configuration.ConfigKeyValue
	GlobalConfiguration = configuration.GlobalConfiguration
	Diagnostic          = configuration.Diagnostic
)

var (
	// ErrSyntax matches errors for input that is not valid Lua.
	ErrSyntax = engine.ErrSyntax
	// ErrVerification matches errors for output that failed verification.
	ErrVerification = engine.ErrVerification
)

//go:embed LICENSE
var license string

// Handler is the plugin surface. The zero value is ready to use and safe
// for concurrent calls.
type Handler struct{}

func (Handler) PluginInfo() PluginInfo {
	return plugin.Info()
}

func (Handler) LicenseText() string {
	return license
}

// ResolveConfig turns raw plugin settings and host globals into a
// Configuration. Problems are returned as diagnostics. config is drained.
func (Handler) ResolveConfig(config *ConfigKeyMap, global GlobalConfiguration) (Configuration, []Diagnostic) {
	return plugin.ResolveConfig(config, global)
}

// Format formats text. An unchanged Result means text is already
// formatted.
func (Handler) Format(path, text string, cfg Configuration) (Result, error) {
	return plugin.Format(path, text, cfg)
}

// Load reads a luafmt configuration file (HCL, YAML or JSON) and resolves
// it.
func Load(path string) (Configuration, []Diagnostic, error) {
	f, err := config.Load(path)
	if err != nil {
		return Configuration{}, nil, fmt.Errorf("loading configuration: %w", err)
	}
	cfg, diagnostics := f.Resolve(nil)
	return cfg, diagnostics, nil
}
