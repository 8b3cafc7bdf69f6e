package engine

type blockKind int

const (
	blockFunction blockKind = iota
	blockConditional
	blockLoop
	blockDo
	blockRepeat
	blockElse
)

// segment is the body of a block: the tokens strictly between open and
// close.
type segment struct {
	kind   blockKind
	open   int
	close  int
	fromIf bool
}

type blockFrame struct {
	kind   blockKind
	open   int
	fromIf bool
}

type pendingHeader struct {
	keyword string
	depth   int
}

// findSegments pairs block openers with their closers. Tokens must come
// from a program that parsed.
func findSegments(toks []token) []segment {
	var (
		stack   []blockFrame
		pending []pendingHeader
		segs    []segment
	)
	pop := func(closeAt int) {
		if len(stack) == 0 {
			return
		}
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		segs = append(segs, segment{kind: f.kind, open: f.open, close: closeAt, fromIf: f.fromIf})
	}
	takePending := func(keywords ...string) (string, bool) {
		if len(pending) == 0 {
			return "", false
		}
		p := pending[len(pending)-1]
		if p.depth != len(stack) {
			return "", false
		}
		for _, kw := range keywords {
			if p.keyword == kw {
				pending = pending[:len(pending)-1]
				return kw, true
			}
		}
		return "", false
	}

	for i := 0; i < len(toks); i++ {
		t := toks[i]
		if t.kind != tokKeyword {
			continue
		}
		switch t.text {
		case "function":
			stack = append(stack, blockFrame{kind: blockFunction, open: functionBodyStart(toks, i)})
		case "while", "for", "if":
			pending = append(pending, pendingHeader{keyword: t.text, depth: len(stack)})
		case "do":
			kind := blockDo
			if _, ok := takePending("while", "for"); ok {
				kind = blockLoop
			}
			stack = append(stack, blockFrame{kind: kind, open: i})
		case "then":
			kw, _ := takePending("if", "elseif")
			stack = append(stack, blockFrame{kind: blockConditional, open: i, fromIf: kw == "if"})
		case "elseif":
			pop(i)
			pending = append(pending, pendingHeader{keyword: "elseif", depth: len(stack)})
		case "else":
			pop(i)
			stack = append(stack, blockFrame{kind: blockElse, open: i})
		case "repeat":
			stack = append(stack, blockFrame{kind: blockRepeat, open: i})
		case "end", "until":
			pop(i)
		}
	}
	return segs
}

// functionBodyStart returns the index of the ')' closing the parameter list
// of the function keyword at i.
func functionBodyStart(toks []token, i int) int {
	for j := i + 1; j < len(toks); j++ {
		if toks[j].isSymbol("(") {
			if end := matchBracket(toks, j); end > 0 {
				return end
			}
			return j
		}
	}
	return i
}

var blockKeywords = map[string]bool{
	"function": true, "if": true, "while": true, "for": true,
	"repeat": true, "do": true, "then": true, "else": true, "elseif": true,
}

// collapsible reports whether a segment may stay on one line.
func collapsible(toks []token, s segment, mode CollapseSimpleStatement) bool {
	switch s.kind {
	case blockFunction:
		if !mode.allowsFunctions() {
			return false
		}
	case blockConditional:
		if !mode.allowsConditionals() || !s.fromIf || !toks[s.close].isKeyword("end") {
			return false
		}
	case blockLoop:
		if !mode.allowsConditionals() {
			return false
		}
	default:
		return false
	}
	for _, t := range toks[s.open+1 : s.close] {
		switch {
		case t.kind == tokNewline, t.isComment(), t.multiline():
			return false
		case t.kind == tokKeyword && blockKeywords[t.text]:
			return false
		case t.isSymbol(";"):
			return false
		}
	}
	return true
}

func bodyEmpty(toks []token, s segment) bool {
	for _, t := range toks[s.open+1 : s.close] {
		if t.kind != tokNewline {
			return false
		}
	}
	return true
}

// expandBlocks puts block bodies on their own lines unless the collapse mode
// lets a simple one-line body stay where it is.
func expandBlocks(toks []token, mode CollapseSimpleStatement) []token {
	breakAfter := make(map[int]bool)
	breakBefore := make(map[int]bool)

	for _, s := range findSegments(toks) {
		closer := toks[s.close]
		if bodyEmpty(toks, s) {
			if closer.isKeyword("else") || closer.isKeyword("elseif") {
				breakBefore[s.close] = true
			}
			continue
		}
		if collapsible(toks, s, mode) {
			continue
		}
		breakAfter[s.open] = true
		breakBefore[s.close] = true
	}
	if len(breakAfter) == 0 && len(breakBefore) == 0 {
		return toks
	}

	nl := token{kind: tokNewline, text: "\n"}
	out := make([]token, 0, len(toks)+len(breakAfter)+len(breakBefore))
	for i, t := range toks {
		if breakBefore[i] && len(out) > 0 && out[len(out)-1].kind != tokNewline {
			out = append(out, nl)
		}
		out = append(out, t)
		if breakAfter[i] && i+1 < len(toks) {
			next := toks[i+1]
			if next.kind != tokNewline && next.kind != tokComment && !breakBefore[i+1] {
				out = append(out, nl)
			}
		}
	}
	return out
}
