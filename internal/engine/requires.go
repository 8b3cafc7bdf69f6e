package engine

import (
	"sort"

	"github.com/yuin/gopher-lua/ast"
)

// splitLines cuts a token stream at tokNewline. Empty entries are blank
// lines.
func splitLines(toks []token) [][]token {
	lines := [][]token{nil}
	for _, t := range toks {
		if t.kind == tokNewline {
			lines = append(lines, nil)
			continue
		}
		lines[len(lines)-1] = append(lines[len(lines)-1], t)
	}
	return lines
}

// blockDepth tracks keyword block nesting across lines.
type blockDepth int

func (d *blockDepth) advance(line []token) {
	for _, t := range line {
		if t.kind != tokKeyword {
			continue
		}
		switch t.text {
		case "function", "do", "then", "repeat":
			*d++
		case "end", "until", "elseif":
			*d--
		}
	}
}

// requireName returns the local bound by a line of the form
// local name = require(...) or local name = require "...".
func requireName(line []token) (string, bool) {
	if len(line) > 0 && line[len(line)-1].kind == tokComment {
		line = line[:len(line)-1]
	}
	if len(line) < 5 ||
		!line[0].isKeyword("local") ||
		line[1].kind != tokName ||
		!line[2].isSymbol("=") ||
		!line[3].is(tokName, "require") {
		return "", false
	}
	args := line[4:]
	switch {
	case len(args) == 1 && args[0].isStringLiteral():
		return line[1].text, true
	case args[0].isSymbol("(") && matchBracket(args, 0) == len(args)-1:
		return line[1].text, true
	case args[0].isSymbol("{") && matchBracket(args, 0) == len(args)-1:
		return line[1].text, true
	}
	return "", false
}

// sortRequireLines orders runs of consecutive top-level require lines by the
// name they bind.
func sortRequireLines(lines [][]token) {
	var depth blockDepth
	runStart := -1
	flush := func(end int) {
		if runStart >= 0 && end-runStart > 1 {
			run := lines[runStart:end]
			sort.SliceStable(run, func(i, j int) bool {
				a, _ := requireName(run[i])
				b, _ := requireName(run[j])
				return a < b
			})
		}
		runStart = -1
	}
	for i, line := range lines {
		if _, ok := requireName(line); ok && depth == 0 {
			if runStart < 0 {
				runStart = i
			}
		} else {
			flush(i)
		}
		depth.advance(line)
	}
	flush(len(lines))
}

func isRequireStmt(stmt ast.Stmt) (string, bool) {
	s, ok := stmt.(*ast.LocalAssignStmt)
	if !ok || len(s.Names) != 1 || len(s.Exprs) != 1 {
		return "", false
	}
	call, ok := s.Exprs[0].(*ast.FuncCallExpr)
	if !ok || call.Receiver != nil {
		return "", false
	}
	fn, ok := call.Func.(*ast.IdentExpr)
	if !ok || fn.Value != "require" {
		return "", false
	}
	return s.Names[0], true
}

// sortRequireStmts applies the same ordering to a parsed chunk so both sides
// of verification compare equal.
func sortRequireStmts(chunk []ast.Stmt) {
	for i := 0; i < len(chunk); {
		if _, ok := isRequireStmt(chunk[i]); !ok {
			i++
			continue
		}
		j := i
		for j < len(chunk) {
			if _, ok := isRequireStmt(chunk[j]); !ok {
				break
			}
			j++
		}
		run := chunk[i:j]
		sort.SliceStable(run, func(a, b int) bool {
			na, _ := isRequireStmt(run[a])
			nb, _ := isRequireStmt(run[b])
			return na < nb
		})
		i = j
	}
}
