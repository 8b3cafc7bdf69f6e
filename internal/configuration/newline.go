package configuration

import (
	"fmt"
	"strings"
)

// NewLineKind selects the line terminator written by a formatter.
type NewLineKind int

const (
	// NewLineAuto follows the first terminator found in the file.
	NewLineAuto NewLineKind = iota
	NewLineLineFeed
	NewLineCarriageReturnLineFeed
	// NewLineSystem is detected from the file like NewLineAuto.
	NewLineSystem
)

var newLineKindNames = map[NewLineKind]string{
	NewLineAuto:                   "auto",
	NewLineLineFeed:               "lf",
	NewLineCarriageReturnLineFeed: "crlf",
	NewLineSystem:                 "system",
}

func ParseNewLineKind(s string) (NewLineKind, error) {
	for kind, name := range newLineKindNames {
		if strings.EqualFold(s, name) {
			return kind, nil
		}
	}
	return NewLineAuto, fmt.Errorf("unknown newline kind %q (valid: auto, lf, crlf, system)", s)
}

func (k NewLineKind) String() string {
	if name, ok := newLineKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("NewLineKind(%d)", int(k))
}

func (k NewLineKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *NewLineKind) UnmarshalText(text []byte) error {
	parsed, err := ParseNewLineKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ResolveNewLineKind returns the terminator to emit for text: "\r\n" or
// "\n". Auto and System look at the first terminator in text and fall
// back to "\n" when there is none.
func ResolveNewLineKind(text string, kind NewLineKind) string {
	switch kind {
	case NewLineLineFeed:
		return "\n"
	case NewLineCarriageReturnLineFeed:
		return "\r\n"
	default:
		i := strings.IndexByte(text, '\n')
		if i > 0 && text[i-1] == '\r' {
			return "\r\n"
		}
		return "\n"
	}
}
