package plugin

import (
	"path/filepath"
	"slices"
	"strings"
)

// Version is set at build time via ldflags.
var Version = "dev"

// PluginInfo describes the plugin to a host.
type PluginInfo struct {
	Name            string   `json:"name"`
	Version         string   `json:"version"`
	ConfigKey       string   `json:"configKey"`
	FileExtensions  []string `json:"fileExtensions"`
	FileNames       []string `json:"fileNames"`
	HelpURL         string   `json:"helpUrl"`
	ConfigSchemaURL string   `json:"configSchemaUrl"`
}

func Info() PluginInfo {
	return PluginInfo{
		Name:            "luafmt",
		Version:         Version,
		ConfigKey:       "luafmt",
		FileExtensions:  []string{"lua"},
		FileNames:       []string{},
		HelpURL:         "https://github.com/jsvensson/luafmt",
		ConfigSchemaURL: "",
	}
}

// SupportsPath reports whether path has one of the plugin's file
// extensions.
func SupportsPath(path string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if ext == "" {
		return slices.Contains(Info().FileNames, filepath.Base(path))
	}
	return slices.Contains(Info().FileExtensions, ext)
}
