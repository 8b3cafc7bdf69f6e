// Package engine formats Lua source code.
//
// Formatting runs over a token stream that keeps comments and line breaks:
// string quotes and call parentheses are normalized, block bodies are put on
// their own lines, then every line is re-indented and respaced. The input is
// parsed first so invalid programs are rejected before any rewriting.
package engine

import (
	"strings"

	"github.com/yuin/gopher-lua/parse"
)

// Format returns code formatted according to cfg. With VerifyFull the output
// is parsed again and must describe the same program as the input.
func Format(code string, cfg Config, verify OutputVerification) (string, error) {
	chunk, err := parse.Parse(strings.NewReader(stripShebang(code)), "<input>")
	if err != nil {
		return "", syntaxErrorFrom(err)
	}

	toks, err := lex(code)
	if err != nil {
		return "", err
	}
	normalizeQuotes(toks, cfg.QuoteStyle)
	toks = applyCallParentheses(toks, cfg.CallParentheses)
	toks = expandBlocks(toks, cfg.CollapseSimpleStatement)

	lines := splitLines(toks)
	if cfg.SortRequires.Enabled {
		sortRequireLines(lines)
	}
	out := layout(lines, cfg)

	if verify == VerifyFull {
		if err := verifyOutput(chunk, out, cfg); err != nil {
			return "", err
		}
	}
	return out, nil
}

// stripShebang blanks a leading "#" line, keeping the line break so parser
// positions stay correct.
func stripShebang(code string) string {
	if !strings.HasPrefix(code, "#") {
		return code
	}
	if i := strings.IndexAny(code, "\r\n"); i >= 0 {
		return code[i:]
	}
	return ""
}
