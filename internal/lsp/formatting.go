package lsp

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/jsvensson/luafmt/internal/configuration"
	"github.com/jsvensson/luafmt/internal/plugin"
)

func (s *Server) textDocumentFormatting(ctx *glsp.Context, params *protocol.DocumentFormattingParams) ([]protocol.TextEdit, error) {
	uri := params.TextDocument.URI
	text, ok := s.docs.Get(uri)
	if !ok {
		return nil, fmt.Errorf("document %s is not open", uri)
	}

	cfg, diagnostics, fresh := s.config.resolve(params.Options)
	if fresh && len(diagnostics) > 0 {
		s.showDiagnostics(ctx, diagnostics)
	}

	result, err := plugin.Format(uriPath(uri), text, cfg)
	if err != nil {
		log.Errorf("%s", err)
		return nil, err
	}
	if !result.Changed {
		return []protocol.TextEdit{}, nil
	}

	return []protocol.TextEdit{{
		Range: protocol.Range{
			Start: protocol.Position{Line: 0, Character: 0},
			End:   endPosition(text),
		},
		NewText: result.Text,
	}}, nil
}

func (s *Server) showDiagnostics(ctx *glsp.Context, diagnostics []configuration.Diagnostic) {
	msgs := make([]string, len(diagnostics))
	for i, d := range diagnostics {
		msgs[i] = d.String()
		log.Warningf("configuration: %s", d)
	}
	if ctx == nil || ctx.Notify == nil {
		return
	}
	ctx.Notify(protocol.ServerWindowShowMessage, protocol.ShowMessageParams{
		Type:    protocol.MessageTypeWarning,
		Message: "luafmt configuration: " + strings.Join(msgs, "; "),
	})
}

// endPosition is the LSP position just past the last character of text.
// Characters are counted in UTF-16 code units.
func endPosition(text string) protocol.Position {
	var line, char protocol.UInteger
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		switch r {
		case '\r':
			if i+1 < len(text) && text[i+1] == '\n' {
				size = 2
			}
			line++
			char = 0
		case '\n':
			line++
			char = 0
		default:
			char += protocol.UInteger(utf16.RuneLen(r))
		}
		i += size
	}
	return protocol.Position{Line: line, Character: char}
}

// uriPath returns the file system path of a file URI, or the URI itself
// for other schemes.
func uriPath(uri string) string {
	u, err := url.Parse(uri)
	if err != nil || u.Scheme != "file" {
		return uri
	}
	return u.Path
}
