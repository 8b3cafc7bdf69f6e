package lsp

import (
	"sync"

	"github.com/tidwall/gjson"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/jsvensson/luafmt/internal/config"
	"github.com/jsvensson/luafmt/internal/configuration"
	"github.com/jsvensson/luafmt/internal/plugin"
)

// resolveKey identifies one resolution of the configuration. Editors send
// their tab options with every request, so they are part of the key.
type resolveKey struct {
	revision     int
	tabSize      int
	hasTabSize   bool
	insertSpaces bool
	hasSpaces    bool
}

// configState combines the workspace configuration file with settings
// pushed by the client and caches what they resolve to.
type configState struct {
	mu       sync.Mutex
	file     *config.File
	client   *config.File
	revision int
	cache    map[resolveKey]plugin.Configuration
}

func newConfigState() *configState {
	return &configState{
		file:   config.Empty(),
		client: config.Empty(),
		cache:  make(map[resolveKey]plugin.Configuration),
	}
}

// setFile replaces the workspace configuration file.
func (c *configState) setFile(f *config.File) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.file = f
	c.invalidate()
}

// setSettings replaces the client settings. A missing or null value clears
// them.
func (c *configState) setSettings(settings gjson.Result) error {
	f := config.Empty()
	if settings.Exists() && settings.Type != gjson.Null {
		var err error
		if f, err = config.FromSettings(settings); err != nil {
			return err
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.client = f
	c.invalidate()
	return nil
}

func (c *configState) invalidate() {
	c.revision++
	clear(c.cache)
}

// resolve returns the configuration for a formatting request. fresh is true
// when it was computed rather than served from the cache, so diagnostics
// reach the user once per change.
func (c *configState) resolve(opts protocol.FormattingOptions) (cfg plugin.Configuration, diagnostics []configuration.Diagnostic, fresh bool) {
	tabSize, hasTabSize := opts[protocol.FormattingOptionTabSize].(float64)
	insertSpaces, hasSpaces := opts[protocol.FormattingOptionInsertSpaces].(bool)

	c.mu.Lock()
	defer c.mu.Unlock()

	key := resolveKey{
		revision:     c.revision,
		tabSize:      int(tabSize),
		hasTabSize:   hasTabSize,
		insertSpaces: insertSpaces,
		hasSpaces:    hasSpaces,
	}
	if cached, ok := c.cache[key]; ok {
		return cached, nil, false
	}

	f := c.file.Overlay(c.client)
	if hasTabSize {
		f.Global.Set(configuration.KeyIndentWidth, configuration.NumberValue(tabSize))
	}
	if hasSpaces {
		f.Global.Set(configuration.KeyUseTabs, configuration.BoolValue(!insertSpaces))
	}
	cfg, diagnostics = f.Resolve(nil)
	c.cache[key] = cfg
	return cfg, diagnostics, true
}
