// Package config finds and loads luafmt configuration files.
//
// A file has two parts: top-level keys, which are the host-wide globals
// (lineWidth, indentWidth, useTabs, newLineKind), and a "luafmt" section
// holding the plugin overrides. HCL, YAML and JSON files are supported and
// all of them keep keys in source order.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/tliron/commonlog"

	"github.com/jsvensson/luafmt/internal/configuration"
	"github.com/jsvensson/luafmt/internal/plugin"
)

// PluginSection names the block or key holding plugin overrides.
const PluginSection = "luafmt"

// FileNames lists the files Discover looks for, in priority order.
var FileNames = []string{
	"luafmt.hcl", ".luafmt.hcl",
	"luafmt.yaml", ".luafmt.yaml",
	"luafmt.json", ".luafmt.json",
}

var log = commonlog.GetLogger("luafmt.config")

// File is a loaded configuration file. Path is empty when no file was
// found.
type File struct {
	Path   string
	Global *configuration.ConfigKeyMap
	Plugin *configuration.ConfigKeyMap
}

// Empty returns a File with no settings.
func Empty() *File {
	return &File{
		Global: configuration.NewConfigKeyMap(),
		Plugin: configuration.NewConfigKeyMap(),
	}
}

// Discover returns the first of FileNames present in dir.
func Discover(dir string) (string, bool) {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}

// LoadDir loads the configuration file in dir, or an empty File when there
// is none.
func LoadDir(dir string) (*File, error) {
	path, ok := Discover(dir)
	if !ok {
		log.Debugf("no configuration file in %s", dir)
		return Empty(), nil
	}
	return Load(path)
}

// Load reads the configuration file at path. The format follows the file
// extension.
func Load(path string) (*File, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("configuration file %s does not exist", path)
		}
		return nil, fmt.Errorf("reading configuration file: %w", err)
	}

	var f *File
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".hcl":
		f, err = parseHCL(path, src)
	case ".yaml", ".yml":
		f, err = parseYAML(src)
	case ".json":
		f, err = parseJSON(src)
	default:
		return nil, fmt.Errorf("unsupported configuration file type %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}

	f.Path = path
	log.Infof("loaded configuration from %s", path)
	return f, nil
}

// Resolve layers overrides on top of the plugin section and resolves the
// result. The File is left untouched.
func (f *File) Resolve(overrides *configuration.ConfigKeyMap) (plugin.Configuration, []configuration.Diagnostic) {
	globals := f.Global.Clone()
	global, diagnostics := configuration.ResolveGlobalConfig(globals)
	diagnostics = append(diagnostics, configuration.GetUnknownPropertyDiagnostics(globals)...)

	raw := f.Plugin.Clone()
	raw.Merge(overrides)
	resolved, pluginDiagnostics := plugin.ResolveConfig(raw, global)
	return resolved, append(diagnostics, pluginDiagnostics...)
}

// Overlay returns a new File with other's entries set on top of f's.
// Neither input is modified.
func (f *File) Overlay(other *File) *File {
	out := &File{
		Path:   f.Path,
		Global: f.Global.Clone(),
		Plugin: f.Plugin.Clone(),
	}
	if other != nil {
		out.Global.Merge(other.Global)
		out.Plugin.Merge(other.Plugin)
	}
	return out
}
