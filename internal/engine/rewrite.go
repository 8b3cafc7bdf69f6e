package engine

import "strings"

// normalizeQuotes rewrites short string literals to the delimiter chosen by
// style. Auto styles switch to the other quote when that needs fewer
// escapes.
func normalizeQuotes(toks []token, style QuoteStyle) {
	for i := range toks {
		if toks[i].kind == tokString && !toks[i].multiline() {
			toks[i].text = requote(toks[i].text, style)
		}
	}
}

func requote(lit string, style QuoteStyle) string {
	body := lit[1 : len(lit)-1]
	doubles, singles := countQuotes(body)

	target := byte('"')
	switch style {
	case QuoteForceSingle:
		target = '\''
	case QuoteForceDouble:
	case QuoteAutoPreferSingle:
		if singles <= doubles {
			target = '\''
		}
	default:
		if doubles > singles {
			target = '\''
		}
	}
	other := byte('\'')
	if target == '\'' {
		other = '"'
	}

	var b strings.Builder
	b.Grow(len(lit) + 2)
	b.WriteByte(target)
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c == '\\' && i+1 < len(body) {
			next := body[i+1]
			if next != other {
				b.WriteByte(c)
			}
			b.WriteByte(next)
			i++
			continue
		}
		if c == target {
			b.WriteByte('\\')
		}
		b.WriteByte(c)
	}
	b.WriteByte(target)
	return b.String()
}

func countQuotes(body string) (doubles, singles int) {
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c == '\\' && i+1 < len(body) {
			i++
			c = body[i]
		}
		switch c {
		case '"':
			doubles++
		case '\'':
			singles++
		}
	}
	return doubles, singles
}

// matchBracket returns the index of the bracket closing the one at open, or
// -1 if it is unbalanced.
func matchBracket(toks []token, open int) int {
	var closer string
	switch toks[open].text {
	case "(":
		closer = ")"
	case "{":
		closer = "}"
	case "[":
		closer = "]"
	default:
		return -1
	}
	opener := toks[open].text
	depth := 0
	for i := open; i < len(toks); i++ {
		if toks[i].kind != tokSymbol {
			continue
		}
		switch toks[i].text {
		case opener:
			depth++
		case closer:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// isCallee reports whether a string or table literal directly after t is a
// call argument.
func isCallee(t token) bool {
	switch t.kind {
	case tokName, tokString, tokLongString:
		return true
	case tokSymbol:
		return t.text == ")" || t.text == "]" || t.text == "}"
	}
	return false
}

// continuesCall reports whether the token following a call would bind to a
// bare-argument call in a way that reads poorly, so parentheses stay.
func continuesCall(toks []token, i int) bool {
	if i >= len(toks) {
		return false
	}
	t := toks[i]
	if t.isStringLiteral() {
		return true
	}
	if t.kind == tokSymbol {
		switch t.text {
		case ".", ":", "[", "(", "{":
			return true
		}
	}
	return false
}

// applyCallParentheses adds or removes parentheses around single string and
// table call arguments.
func applyCallParentheses(toks []token, mode CallParenType) []token {
	if mode == CallParenInput {
		return toks
	}
	stringsBare := mode == CallParenNoSingleString || mode == CallParenNone
	tablesBare := mode == CallParenNoSingleTable || mode == CallParenNone

	toks = removeCallParens(toks, stringsBare, tablesBare)
	return addCallParens(toks, !stringsBare, !tablesBare)
}

func removeCallParens(toks []token, stringsBare, tablesBare bool) []token {
	if !stringsBare && !tablesBare {
		return toks
	}
	drop := make(map[int]bool)
	for i := 1; i+2 < len(toks); i++ {
		if !toks[i].isSymbol("(") || !isCallee(toks[i-1]) {
			continue
		}
		arg := toks[i+1]
		switch {
		case stringsBare && arg.isStringLiteral():
			if toks[i+2].isSymbol(")") && !continuesCall(toks, i+3) {
				drop[i], drop[i+2] = true, true
			}
		case tablesBare && arg.isSymbol("{"):
			end := matchBracket(toks, i+1)
			if end > 0 && end+1 < len(toks) && toks[end+1].isSymbol(")") && !continuesCall(toks, end+2) {
				drop[i], drop[end+1] = true, true
			}
		}
	}
	if len(drop) == 0 {
		return toks
	}
	out := make([]token, 0, len(toks)-len(drop))
	for i, t := range toks {
		if !drop[i] {
			out = append(out, t)
		}
	}
	return out
}

func addCallParens(toks []token, wrapStrings, wrapTables bool) []token {
	if !wrapStrings && !wrapTables {
		return toks
	}
	out := make([]token, 0, len(toks))
	closeAfter := make(map[int]int)
	open := token{kind: tokSymbol, text: "("}
	close := token{kind: tokSymbol, text: ")"}

	for i, t := range toks {
		bare := i > 0 && isCallee(toks[i-1])
		switch {
		case bare && wrapStrings && t.isStringLiteral():
			out = append(out, open, t, close)
		case bare && wrapTables && t.isSymbol("{"):
			if end := matchBracket(toks, i); end > 0 {
				closeAfter[end]++
				out = append(out, open, t)
			} else {
				out = append(out, t)
			}
		default:
			out = append(out, t)
		}
		for n := closeAfter[i]; n > 0; n-- {
			out = append(out, close)
		}
	}
	return out
}
