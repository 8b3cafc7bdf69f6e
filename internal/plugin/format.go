package plugin

import (
	"fmt"

	"github.com/jsvensson/luafmt/internal/configuration"
	"github.com/jsvensson/luafmt/internal/engine"
)

// Result is the outcome of a successful Format call. When Changed is false
// Text is the input.
type Result struct {
	Text    string
	Changed bool
}

// Format formats text with cfg. path identifies the file in errors and is
// not read. Engine failures keep their identity, so errors.Is matches
// engine.ErrSyntax and engine.ErrVerification.
func Format(path, text string, cfg Configuration) (Result, error) {
	newline := configuration.ResolveNewLineKind(text, cfg.NewLineKind)

	verify := engine.VerifyNone
	if cfg.Verify {
		verify = engine.VerifyFull
	}

	out, err := engine.Format(text, cfg.EngineConfig(newline), verify)
	if err != nil {
		return Result{}, fmt.Errorf("formatting %s: %w", path, err)
	}
	if out == text {
		return Result{Text: text}, nil
	}
	return Result{Text: out, Changed: true}, nil
}
