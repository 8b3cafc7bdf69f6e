package engine

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

var (
	openers = map[string]bool{
		"function": true, "then": true, "do": true, "repeat": true, "else": true,
		"(": true, "{": true, "[": true,
	}
	closers = map[string]bool{
		"end": true, "until": true, "elseif": true, "else": true,
		")": true, "}": true, "]": true,
	}
)

func isOpener(t token) bool {
	return (t.kind == tokKeyword || t.kind == tokSymbol) && openers[t.text]
}

func isCloser(t token) bool {
	return (t.kind == tokKeyword || t.kind == tokSymbol) && closers[t.text]
}

// layouter indents lines by bracket and block nesting. Every open construct
// records the indent level of the line it started on.
type layouter struct {
	cfg          Config
	stack        []int
	out          []string
	pendingBlank bool
}

func layout(lines [][]token, cfg Config) string {
	l := &layouter{cfg: cfg}
	queue := lines
	for len(queue) > 0 {
		line := queue[0]
		queue = queue[1:]
		if len(line) == 0 {
			l.pendingBlank = len(l.out) > 0
			continue
		}

		level := l.levelFor(line)
		text := renderLine(line)
		if l.width(level, text) > cfg.ColumnWidth && !hasMultiline(line) {
			if parts, ok := breakLine(line); ok {
				queue = append(parts, queue...)
				continue
			}
		}
		l.commit(line, level, text)
	}

	if len(l.out) == 0 {
		return ""
	}
	out := strings.Join(l.out, "\n") + "\n"
	if cfg.newline() != "\n" {
		out = strings.ReplaceAll(out, "\n", cfg.newline())
	}
	return out
}

func leadingClosers(line []token) int {
	n := 0
	for n < len(line) && isCloser(line[n]) {
		n++
	}
	return n
}

func (l *layouter) levelFor(line []token) int {
	depth := len(l.stack) - leadingClosers(line)
	if depth <= 0 {
		return 0
	}
	return l.stack[depth-1] + 1
}

func (l *layouter) pop() {
	if len(l.stack) > 0 {
		l.stack = l.stack[:len(l.stack)-1]
	}
}

func (l *layouter) commit(line []token, level int, text string) {
	for _, t := range line {
		if isCloser(t) {
			l.pop()
		}
		if isOpener(t) {
			l.stack = append(l.stack, level)
		}
	}

	if l.pendingBlank {
		l.out = append(l.out, "")
		l.pendingBlank = false
	}
	l.out = append(l.out, strings.Repeat(l.cfg.indentUnit(), level)+text)
}

func (l *layouter) width(level int, text string) int {
	return level*max(l.cfg.IndentWidth, 1) + runewidth.StringWidth(text)
}

func hasMultiline(line []token) bool {
	for _, t := range line {
		if t.multiline() {
			return true
		}
	}
	return false
}

var newlineNormalizer = strings.NewReplacer("\r\n", "\n", "\n\r", "\n", "\r", "\n")

func renderLine(line []token) string {
	var b strings.Builder
	for i, t := range line {
		if i > 0 && spaceBefore(line, i) {
			b.WriteByte(' ')
		}
		if t.multiline() {
			b.WriteString(newlineNormalizer.Replace(t.text))
		} else {
			b.WriteString(t.text)
		}
	}
	return b.String()
}

// attachesCall reports whether a '(' after t opens an argument or
// parameter list.
func attachesCall(t token) bool {
	switch t.kind {
	case tokName, tokString, tokLongString:
		return true
	case tokKeyword:
		return t.text == "function"
	case tokSymbol:
		return t.text == ")" || t.text == "]" || t.text == "}"
	}
	return false
}

// unaryContext reports whether a '-' after t is a unary minus.
func unaryContext(t *token) bool {
	if t == nil {
		return true
	}
	switch t.kind {
	case tokSymbol:
		switch t.text {
		case ")", "]", "}", "...":
			return false
		}
		return true
	case tokKeyword:
		return t.text != "nil" && t.text != "true" && t.text != "false"
	case tokComment, tokLongComment:
		return true
	}
	return false
}

func spaceBefore(line []token, i int) bool {
	prev, cur := line[i-1], line[i]
	switch {
	case prev.isSymbol("-") && cur.isSymbol("-"):
		return true
	case prev.isSymbol("[") && cur.kind == tokLongString:
		return true
	case cur.isComment():
		return true
	}

	if cur.kind == tokSymbol {
		switch cur.text {
		case ",", ";", ")", "]", ".", ":", "::":
			return false
		case "}":
			return !prev.isSymbol("{")
		case "(":
			return !attachesCall(prev)
		case "[":
			return prev.kind != tokName && !prev.isSymbol(")") && !prev.isSymbol("]")
		}
	}
	if prev.kind == tokSymbol {
		switch prev.text {
		case "(", "[", ".", ":", "::", "#":
			return false
		case "-":
			var before *token
			if i >= 2 {
				before = &line[i-2]
			}
			return !unaryContext(before)
		}
	}
	return true
}

// breakLine splits an overlong line at the outermost call or table whose
// brackets both sit on the line. Calls need at least two arguments.
func breakLine(line []token) ([][]token, bool) {
	depths := make([]int, len(line))
	blocks := make([]int, len(line))
	depth, block, maxDepth := 0, 0, 0
	for i, t := range line {
		if t.kind == tokSymbol && (t.text == ")" || t.text == "}" || t.text == "]") && depth > 0 {
			depth--
		}
		depths[i], blocks[i] = depth, block
		maxDepth = max(maxDepth, depth)
		if t.kind == tokSymbol && (t.text == "(" || t.text == "{" || t.text == "[") {
			depth++
		}
		block += keywordDelta(t)
	}

	for d := 0; d <= maxDepth; d++ {
		for i, t := range line {
			if depths[i] != d || blocks[i] > 0 || !(t.isSymbol("(") || t.isSymbol("{")) {
				continue
			}
			end := matchBracket(line, i)
			if end < 0 {
				continue
			}
			table := t.text == "{"
			items := splitItems(line[i+1:end], table)
			if len(items) == 0 || (!table && len(items) < 2) {
				continue
			}
			parts := make([][]token, 0, len(items)+2)
			parts = append(parts, line[:i+1:i+1])
			parts = append(parts, items...)
			parts = append(parts, line[end:])
			return parts, true
		}
	}
	return nil, false
}

func keywordDelta(t token) int {
	if t.kind != tokKeyword {
		return 0
	}
	switch t.text {
	case "function", "do", "then", "repeat":
		return 1
	case "end", "until", "elseif":
		return -1
	}
	return 0
}

// splitItems cuts the inside of a bracket pair at top-level separators.
// Table items always end with a separator.
func splitItems(inner []token, table bool) [][]token {
	var (
		items [][]token
		cur   []token
		depth int
	)
	for _, t := range inner {
		cur = append(cur, t)
		if t.kind == tokSymbol {
			switch t.text {
			case "(", "{", "[":
				depth++
			case ")", "}", "]":
				depth--
			}
		}
		depth += keywordDelta(t)
		sep := t.isSymbol(",") || (table && t.isSymbol(";"))
		if depth == 0 && sep {
			items = append(items, cur)
			cur = nil
		}
	}
	if len(cur) > 0 {
		if table {
			cur = append(cur, token{kind: tokSymbol, text: ","})
		}
		items = append(items, cur)
	}
	return items
}
