package engine

import (
	"fmt"
	"strings"

	"github.com/yuin/gopher-lua/ast"
	"github.com/yuin/gopher-lua/parse"
)

// verifyOutput checks that out parses to the same syntax tree as input.
// Positions are not part of the comparison.
func verifyOutput(input []ast.Stmt, out string, cfg Config) error {
	chunk, err := parse.Parse(strings.NewReader(stripShebang(out)), "<output>")
	if err != nil {
		return &VerificationError{Reason: fmt.Sprintf("formatted code does not parse: %v", syntaxErrorFrom(err))}
	}
	if cfg.SortRequires.Enabled {
		sortRequireStmts(input)
		sortRequireStmts(chunk)
	}
	if parse.Dump(input) != parse.Dump(chunk) {
		return &VerificationError{Reason: "formatted code does not match the input syntax tree"}
	}
	return nil
}
