package stache

import (
	"context"

	"go.uber.org/zap"
)

// Template is a compiled token tree bound to the registry it was tokenized
// with. Compile once, render many times; Template carries no per-render
// state and is safe for concurrent Render calls.
type Template struct {
	source   string
	tree     []Token
	registry *Registry
	logger   *zap.Logger
}

func newTemplate(source string, tree []Token, registry *Registry, logger *zap.Logger) *Template {
	return &Template{source: source, tree: tree, registry: registry, logger: logger}
}

// Source returns the raw template source text.
func (t *Template) Source() string {
	return t.source
}

// Tokens returns the parsed token tree.
func (t *Template) Tokens() []Token {
	return append([]Token(nil), t.tree...)
}

// Render walks the token tree against data and returns the output.
func (t *Template) Render(ctx context.Context, data any) (string, error) {
	t.logger.Debug(LogMsgRenderStart, zap.Int(LogFieldBytes, len(t.source)))
	out, err := newRenderer(t.registry, t.logger).render(ctx, t.tree, data)
	if err != nil {
		return "", err
	}
	t.logger.Debug(LogMsgRenderDone, zap.Int(LogFieldBytes, len(out)))
	return out, nil
}
