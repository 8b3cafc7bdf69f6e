// Package plugin adapts the Lua formatting engine to a host that supplies
// sparse, loosely typed configuration and file text.
package plugin

import (
	"github.com/jsvensson/luafmt/internal/configuration"
	"github.com/jsvensson/luafmt/internal/engine"
)

// Configuration is the fully resolved plugin configuration. Every field is
// always set.
type Configuration struct {
	LineWidth               uint32                         `json:"lineWidth"`
	UseTabs                 bool                           `json:"useTabs"`
	IndentWidth             uint8                          `json:"indentWidth"`
	NewLineKind             configuration.NewLineKind      `json:"newLineKind"`
	Verify                  bool                           `json:"verify"`
	QuoteStyle              engine.QuoteStyle              `json:"quoteStyle"`
	CallParentheses         engine.CallParenType           `json:"callParentheses"`
	CollapseSimpleStatement engine.CollapseSimpleStatement `json:"collapseSimpleStatement"`
	SortRequires            bool                           `json:"sortRequires"`
}

// Plugin-specific keys. The four global keys live in the configuration
// package.
const (
	KeyVerify                  = "verify"
	KeyQuoteStyle              = "quoteStyle"
	KeyCallParentheses         = "callParentheses"
	KeyCollapseSimpleStatement = "collapseSimpleStatement"
	KeySortRequires            = "sortRequires"
)

// ResolveConfig builds a Configuration from the plugin override map and the
// host's global settings. Keys are taken out of config as they are read, so
// the map is empty afterwards; pass a clone to keep the original.
//
// Cross-plugin fields fall back to global and then to the recommended
// defaults. Verify and the style fields only come from config or the
// engine's defaults.
func ResolveConfig(config *configuration.ConfigKeyMap, global configuration.GlobalConfiguration) (Configuration, []configuration.Diagnostic) {
	var diagnostics []configuration.Diagnostic
	defaults := engine.DefaultConfig()
	recommended := configuration.RecommendedGlobalConfiguration

	resolved := Configuration{
		LineWidth: configuration.GetValue(config, configuration.KeyLineWidth,
			global.LineWidthOr(recommended.LineWidth), configuration.Uint32, &diagnostics),
		UseTabs: configuration.GetValue(config, configuration.KeyUseTabs,
			global.UseTabsOr(recommended.UseTabs), configuration.Bool, &diagnostics),
		IndentWidth: configuration.GetValue(config, configuration.KeyIndentWidth,
			global.IndentWidthOr(recommended.IndentWidth), configuration.Uint8, &diagnostics),
		NewLineKind: configuration.GetValue(config, configuration.KeyNewLineKind,
			global.NewLineKindOr(recommended.NewLineKind), configuration.Enum(configuration.ParseNewLineKind), &diagnostics),
		Verify: configuration.GetValue(config, KeyVerify, false, configuration.Bool, &diagnostics),
		QuoteStyle: configuration.GetValue(config, KeyQuoteStyle,
			defaults.QuoteStyle, configuration.Enum(engine.ParseQuoteStyle), &diagnostics),
		CallParentheses: configuration.GetValue(config, KeyCallParentheses,
			defaults.CallParentheses, configuration.Enum(engine.ParseCallParenType), &diagnostics),
		CollapseSimpleStatement: configuration.GetValue(config, KeyCollapseSimpleStatement,
			defaults.CollapseSimpleStatement, configuration.Enum(engine.ParseCollapseSimpleStatement), &diagnostics),
		SortRequires: configuration.GetValue(config, KeySortRequires,
			defaults.SortRequires.Enabled, configuration.Bool, &diagnostics),
	}

	diagnostics = append(diagnostics, configuration.GetUnknownPropertyDiagnostics(config)...)
	return resolved, diagnostics
}

// EngineConfig translates c into the engine's configuration, using newline
// as the line terminator.
func (c Configuration) EngineConfig(newline string) engine.Config {
	cfg := engine.DefaultConfig()
	cfg.ColumnWidth = int(c.LineWidth)
	cfg.IndentWidth = int(c.IndentWidth)
	cfg.IndentType = engine.IndentSpaces
	if c.UseTabs {
		cfg.IndentType = engine.IndentTabs
	}
	cfg.LineEndings = engine.LineEndingsUnix
	if newline == "\r\n" {
		cfg.LineEndings = engine.LineEndingsWindows
	}
	cfg.QuoteStyle = c.QuoteStyle
	cfg.CallParentheses = c.CallParentheses
	cfg.CollapseSimpleStatement = c.CollapseSimpleStatement
	cfg.SortRequires.Enabled = c.SortRequires
	return cfg
}
