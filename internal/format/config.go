package format

import (
	"regexp"
	"strings"

	"github.com/hashicorp/hcl/v2/hclwrite"
)

var (
	multipleBlankLines        = regexp.MustCompile(`\n{3,}`)
	blankLineAfterOpenBrace   = regexp.MustCompile(`\{\n\s*\n`)
	blankLineBeforeCloseBrace = regexp.MustCompile(`\n\s*\n(\s*\})`)
)

// FormatConfig returns a luafmt.hcl configuration file in canonical HCL
// style: aligned attributes, at most one blank line in a row, no blank
// lines just inside a block. Incomplete files are formatted as far as
// hclwrite can.
func FormatConfig(content string) string {
	formatted := string(hclwrite.Format([]byte(content)))
	formatted = multipleBlankLines.ReplaceAllString(formatted, "\n\n")
	formatted = blankLineAfterOpenBrace.ReplaceAllString(formatted, "{\n")
	formatted = blankLineBeforeCloseBrace.ReplaceAllString(formatted, "\n${1}")
	if formatted != "" && !strings.HasSuffix(formatted, "\n") {
		formatted += "\n"
	}
	return formatted
}
