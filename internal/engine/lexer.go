package engine

import (
	"fmt"
	"strings"
)

type tokenKind int

const (
	tokName tokenKind = iota
	tokKeyword
	tokNumber
	tokString
	tokLongString
	tokComment
	tokLongComment
	tokSymbol
	tokNewline
)

type token struct {
	kind tokenKind
	text string
}

func (t token) is(kind tokenKind, text string) bool {
	return t.kind == kind && t.text == text
}

func (t token) isSymbol(text string) bool { return t.is(tokSymbol, text) }

func (t token) isKeyword(text string) bool { return t.is(tokKeyword, text) }

func (t token) isComment() bool {
	return t.kind == tokComment || t.kind == tokLongComment
}

func (t token) isStringLiteral() bool {
	return t.kind == tokString || t.kind == tokLongString
}

// multiline reports whether the token text itself spans lines.
func (t token) multiline() bool {
	return t.kind != tokNewline && strings.ContainsAny(t.text, "\r\n")
}

var keywords = map[string]bool{
	"and": true, "break": true, "do": true, "else": true, "elseif": true,
	"end": true, "false": true, "for": true, "function": true, "goto": true,
	"if": true, "in": true, "local": true, "nil": true, "not": true,
	"or": true, "repeat": true, "return": true, "then": true, "true": true,
	"until": true, "while": true,
}

var symbols = []string{
	"...", "..", "==", "~=", "<=", ">=", "::",
	"+", "-", "*", "/", "%", "^", "#", "=", "<", ">",
	"(", ")", "{", "}", "[", "]", ";", ":", ",", ".",
}

type lexer struct {
	src  string
	pos  int
	line int
	toks []token
}

// lex splits Lua source into tokens. Whitespace is dropped, line breaks
// become tokNewline, comments are kept.
func lex(src string) ([]token, error) {
	lx := &lexer{src: src, line: 1}
	if strings.HasPrefix(src, "#") {
		// shebang line
		for lx.pos < len(src) && src[lx.pos] != '\n' && src[lx.pos] != '\r' {
			lx.pos++
		}
		lx.emit(tokComment, strings.TrimRight(src[:lx.pos], " \t"))
	}
	for lx.pos < len(lx.src) {
		if err := lx.next(); err != nil {
			return nil, err
		}
	}
	return lx.toks, nil
}

func (lx *lexer) emit(kind tokenKind, text string) {
	lx.toks = append(lx.toks, token{kind: kind, text: text})
}

func (lx *lexer) errorf(format string, args ...any) error {
	return &SyntaxError{Line: lx.line, Message: fmt.Sprintf(format, args...)}
}

func (lx *lexer) peek(off int) byte {
	if lx.pos+off < len(lx.src) {
		return lx.src[lx.pos+off]
	}
	return 0
}

func (lx *lexer) next() error {
	c := lx.src[lx.pos]
	switch {
	case c == ' ' || c == '\t' || c == '\f' || c == '\v':
		lx.pos++
	case c == '\r' || c == '\n':
		lx.pos++
		if (c == '\r' && lx.peek(0) == '\n') || (c == '\n' && lx.peek(0) == '\r') {
			lx.pos++
		}
		lx.line++
		lx.emit(tokNewline, "\n")
	case c == '-' && lx.peek(1) == '-':
		return lx.comment()
	case c == '[' && (lx.peek(1) == '[' || lx.peek(1) == '='):
		if level, ok := lx.longBracketLevel(lx.pos); ok {
			text, err := lx.longBracket(level)
			if err != nil {
				return err
			}
			lx.emit(tokLongString, text)
			return nil
		}
		lx.pos++
		lx.emit(tokSymbol, "[")
	case c == '"' || c == '\'':
		return lx.shortString(c)
	case isDigit(c) || (c == '.' && isDigit(lx.peek(1))):
		lx.number()
	case isIdentStart(c):
		start := lx.pos
		for lx.pos < len(lx.src) && isIdentPart(lx.src[lx.pos]) {
			lx.pos++
		}
		word := lx.src[start:lx.pos]
		if keywords[word] {
			lx.emit(tokKeyword, word)
		} else {
			lx.emit(tokName, word)
		}
	default:
		for _, sym := range symbols {
			if strings.HasPrefix(lx.src[lx.pos:], sym) {
				lx.pos += len(sym)
				lx.emit(tokSymbol, sym)
				return nil
			}
		}
		return lx.errorf("unexpected character %q", c)
	}
	return nil
}

func (lx *lexer) comment() error {
	start := lx.pos
	lx.pos += 2
	if lx.peek(0) == '[' {
		if level, ok := lx.longBracketLevel(lx.pos); ok {
			text, err := lx.longBracket(level)
			if err != nil {
				return err
			}
			lx.emit(tokLongComment, "--"+text)
			return nil
		}
	}
	for lx.pos < len(lx.src) && lx.src[lx.pos] != '\n' && lx.src[lx.pos] != '\r' {
		lx.pos++
	}
	lx.emit(tokComment, strings.TrimRight(lx.src[start:lx.pos], " \t"))
	return nil
}

// longBracketLevel checks for [[ or [=*[ at i and returns the number of '='.
func (lx *lexer) longBracketLevel(i int) (int, bool) {
	if i >= len(lx.src) || lx.src[i] != '[' {
		return 0, false
	}
	j := i + 1
	for j < len(lx.src) && lx.src[j] == '=' {
		j++
	}
	if j < len(lx.src) && lx.src[j] == '[' {
		return j - i - 1, true
	}
	return 0, false
}

func (lx *lexer) longBracket(level int) (string, error) {
	start := lx.pos
	closing := "]" + strings.Repeat("=", level) + "]"
	end := strings.Index(lx.src[lx.pos+level+2:], closing)
	if end < 0 {
		return "", lx.errorf("unfinished long string or comment")
	}
	lx.pos += level + 2 + end + len(closing)
	text := lx.src[start:lx.pos]
	lx.line += strings.Count(text, "\n")
	return text, nil
}

func (lx *lexer) shortString(quote byte) error {
	start := lx.pos
	lx.pos++
	for lx.pos < len(lx.src) {
		c := lx.src[lx.pos]
		switch {
		case c == '\\':
			lx.pos++
			if n := lx.peek(0); n == '\r' || n == '\n' {
				lx.pos++
				if m := lx.peek(0); (m == '\r' || m == '\n') && m != n {
					lx.pos++
				}
				lx.line++
				continue
			}
			lx.pos++
			continue
		case c == quote:
			lx.pos++
			lx.emit(tokString, lx.src[start:lx.pos])
			return nil
		case c == '\n' || c == '\r':
			return lx.errorf("unfinished string")
		}
		lx.pos++
	}
	return lx.errorf("unfinished string")
}

func (lx *lexer) number() {
	start := lx.pos
	hex := lx.src[lx.pos] == '0' && (lx.peek(1) == 'x' || lx.peek(1) == 'X')
	if hex {
		lx.pos += 2
	}
	for lx.pos < len(lx.src) {
		c := lx.src[lx.pos]
		exp := (!hex && (c == 'e' || c == 'E')) || (hex && (c == 'p' || c == 'P'))
		switch {
		case exp:
			lx.pos++
			if lx.peek(0) == '+' || lx.peek(0) == '-' {
				lx.pos++
			}
		case isIdentPart(c) || c == '.':
			lx.pos++
		default:
			lx.emit(tokNumber, lx.src[start:lx.pos])
			return
		}
	}
	lx.emit(tokNumber, lx.src[start:lx.pos])
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool { return isIdentStart(c) || isDigit(c) }
