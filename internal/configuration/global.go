package configuration

// GlobalConfiguration carries the cross-plugin conventions a host may
// supply. Nil fields were not set.
type GlobalConfiguration struct {
	LineWidth   *uint32
	IndentWidth *uint8
	UseTabs     *bool
	NewLineKind *NewLineKind
}

// RecommendedGlobal holds the universal defaults used when neither the
// plugin overrides nor the host globals set a cross-plugin field.
type RecommendedGlobal struct {
	LineWidth   uint32
	IndentWidth uint8
	UseTabs     bool
	NewLineKind NewLineKind
}

var RecommendedGlobalConfiguration = RecommendedGlobal{
	LineWidth:   120,
	IndentWidth: 2,
	UseTabs:     false,
	NewLineKind: NewLineLineFeed,
}

// Global config keys, shared with plugin override maps.
const (
	KeyLineWidth   = "lineWidth"
	KeyIndentWidth = "indentWidth"
	KeyUseTabs     = "useTabs"
	KeyNewLineKind = "newLineKind"
)

func (g GlobalConfiguration) LineWidthOr(def uint32) uint32 {
	if g.LineWidth != nil {
		return *g.LineWidth
	}
	return def
}

func (g GlobalConfiguration) IndentWidthOr(def uint8) uint8 {
	if g.IndentWidth != nil {
		return *g.IndentWidth
	}
	return def
}

func (g GlobalConfiguration) UseTabsOr(def bool) bool {
	if g.UseTabs != nil {
		return *g.UseTabs
	}
	return def
}

func (g GlobalConfiguration) NewLineKindOr(def NewLineKind) NewLineKind {
	if g.NewLineKind != nil {
		return *g.NewLineKind
	}
	return def
}

// ResolveGlobalConfig pulls the four global keys out of a host-level map.
// Other keys are left in m for the caller to deal with.
func ResolveGlobalConfig(m *ConfigKeyMap) (GlobalConfiguration, []Diagnostic) {
	var diagnostics []Diagnostic
	var g GlobalConfiguration

	if _, ok := m.Get(KeyLineWidth); ok {
		if v, ok := takeParsed(m, KeyLineWidth, Uint32, &diagnostics); ok {
			g.LineWidth = &v
		}
	}
	if _, ok := m.Get(KeyIndentWidth); ok {
		if v, ok := takeParsed(m, KeyIndentWidth, Uint8, &diagnostics); ok {
			g.IndentWidth = &v
		}
	}
	if _, ok := m.Get(KeyUseTabs); ok {
		if v, ok := takeParsed(m, KeyUseTabs, Bool, &diagnostics); ok {
			g.UseTabs = &v
		}
	}
	if _, ok := m.Get(KeyNewLineKind); ok {
		if v, ok := takeParsed(m, KeyNewLineKind, Enum(ParseNewLineKind), &diagnostics); ok {
			g.NewLineKind = &v
		}
	}

	return g, diagnostics
}

func takeParsed[T any](m *ConfigKeyMap, key string, parse Parser[T], diagnostics *[]Diagnostic) (T, bool) {
	before := len(*diagnostics)
	var zero T
	v := GetValue(m, key, zero, parse, diagnostics)
	return v, len(*diagnostics) == before
}
