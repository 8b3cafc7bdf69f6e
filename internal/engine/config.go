package engine

import (
	"fmt"
	"strings"
)

// Config is the fully populated formatter configuration.
type Config struct {
	ColumnWidth             int
	LineEndings             LineEndings
	IndentType              IndentType
	IndentWidth             int
	QuoteStyle              QuoteStyle
	CallParentheses         CallParenType
	CollapseSimpleStatement CollapseSimpleStatement
	SortRequires            SortRequiresConfig
}

type SortRequiresConfig struct {
	Enabled bool
}

// DefaultConfig returns the formatter's built-in defaults.
func DefaultConfig() Config {
	return Config{
		ColumnWidth:             120,
		LineEndings:             LineEndingsUnix,
		IndentType:              IndentTabs,
		IndentWidth:             4,
		QuoteStyle:              QuoteAutoPreferDouble,
		CallParentheses:         CallParenAlways,
		CollapseSimpleStatement: CollapseNever,
	}
}

func (c Config) indentUnit() string {
	if c.IndentType == IndentTabs {
		return "\t"
	}
	return strings.Repeat(" ", max(c.IndentWidth, 1))
}

func (c Config) newline() string {
	if c.LineEndings == LineEndingsWindows {
		return "\r\n"
	}
	return "\n"
}

type LineEndings int

const (
	LineEndingsUnix LineEndings = iota
	LineEndingsWindows
)

var lineEndingsNames = []string{"Unix", "Windows"}

func (l LineEndings) String() string { return enumName(lineEndingsNames, int(l)) }

type IndentType int

const (
	IndentTabs IndentType = iota
	IndentSpaces
)

var indentTypeNames = []string{"Tabs", "Spaces"}

func (i IndentType) String() string { return enumName(indentTypeNames, int(i)) }

// QuoteStyle controls the delimiter used for short string literals.
type QuoteStyle int

const (
	QuoteAutoPreferDouble QuoteStyle = iota
	QuoteAutoPreferSingle
	QuoteForceDouble
	QuoteForceSingle
)

var quoteStyleNames = []string{"AutoPreferDouble", "AutoPreferSingle", "ForceDouble", "ForceSingle"}

func ParseQuoteStyle(s string) (QuoteStyle, error) {
	i, err := parseEnum("quote style", quoteStyleNames, s)
	return QuoteStyle(i), err
}

func (q QuoteStyle) String() string { return enumName(quoteStyleNames, int(q)) }

func (q QuoteStyle) MarshalText() ([]byte, error) { return []byte(q.String()), nil }

func (q *QuoteStyle) UnmarshalText(text []byte) error {
	v, err := ParseQuoteStyle(string(text))
	*q = v
	return err
}

// CallParenType controls parentheses around single string or table
// arguments of function calls.
type CallParenType int

const (
	CallParenAlways CallParenType = iota
	CallParenNoSingleString
	CallParenNoSingleTable
	CallParenNone
	CallParenInput
)

var callParenNames = []string{"Always", "NoSingleString", "NoSingleTable", "None", "Input"}

func ParseCallParenType(s string) (CallParenType, error) {
	i, err := parseEnum("call parentheses", callParenNames, s)
	return CallParenType(i), err
}

func (c CallParenType) String() string { return enumName(callParenNames, int(c)) }

func (c CallParenType) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *CallParenType) UnmarshalText(text []byte) error {
	v, err := ParseCallParenType(string(text))
	*c = v
	return err
}

// CollapseSimpleStatement controls whether blocks holding a single simple
// statement may stay on one line.
type CollapseSimpleStatement int

const (
	CollapseNever CollapseSimpleStatement = iota
	CollapseFunctionOnly
	CollapseConditionalOnly
	CollapseAlways
)

var collapseNames = []string{"Never", "FunctionOnly", "ConditionalOnly", "Always"}

func ParseCollapseSimpleStatement(s string) (CollapseSimpleStatement, error) {
	i, err := parseEnum("collapse simple statement", collapseNames, s)
	return CollapseSimpleStatement(i), err
}

func (c CollapseSimpleStatement) String() string { return enumName(collapseNames, int(c)) }

func (c CollapseSimpleStatement) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *CollapseSimpleStatement) UnmarshalText(text []byte) error {
	v, err := ParseCollapseSimpleStatement(string(text))
	*c = v
	return err
}

func (c CollapseSimpleStatement) allowsFunctions() bool {
	return c == CollapseFunctionOnly || c == CollapseAlways
}

func (c CollapseSimpleStatement) allowsConditionals() bool {
	return c == CollapseConditionalOnly || c == CollapseAlways
}

// OutputVerification selects whether Format re-checks its own output.
type OutputVerification int

const (
	VerifyNone OutputVerification = iota
	VerifyFull
)

func enumName(names []string, i int) string {
	if i >= 0 && i < len(names) {
		return names[i]
	}
	return fmt.Sprintf("%d", i)
}

// parseEnum matches names case-insensitively, ignoring '-' and '_' so that
// "no-single-string" and "NoSingleString" are the same value.
func parseEnum(what string, names []string, s string) (int, error) {
	norm := strings.NewReplacer("-", "", "_", "").Replace(s)
	for i, name := range names {
		if strings.EqualFold(norm, name) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown %s %q (valid: %s)", what, s, strings.Join(names, ", "))
}
