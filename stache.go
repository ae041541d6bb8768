// Package stache is a Mustache-style template engine built around a frozen
// configuration registry. Every pluggable decision point - how a named value
// is pulled out of a runtime object, which prefix symbols introduce tags, how
// section truthiness is decided, how custom collections iterate, which
// loaders supply templates and partials, and how deep nested rendering may
// recurse - is fixed once at construction time and then shared read-only by
// every render.
//
// # Basic Usage
//
//	engine := stache.New()
//	out, err := engine.Render(ctx, "Hello, {{name}}!", map[string]any{
//	    "name": "Alice",
//	})
//	// out: "Hello, Alice!"
//
// # Tag Syntax
//
// Standard double-brace tags: {{name}} (escaped), {{{name}}} and {{&name}}
// (unescaped), {{#list}}...{{/list}} (section), {{^missing}}...{{/missing}}
// (inverted section), {{>header}} (partial), {{!comment}}, and
// {{=<% %>=}} (delimiter change).
//
// # Custom Resolution
//
// Values are resolved through a type-keyed table ordered most-specific
// first. Register a resolver for your own type to override the reflection
// fallback:
//
//	engine := stache.New(
//	    stache.WithValueResolverFor(MyRecord{}, func(v any, name string) (any, bool) {
//	        return v.(MyRecord).Field(name)
//	    }),
//	)
//
// # Configuration
//
// All extension points are functional options: WithTagHandler,
// WithTruthyChecks, WithEnumerationConverter, WithTemplateLoader,
// WithPartialLoader, WithMaxRecursionDepth, WithRenderSettings, WithLogger.
// The resulting Registry is immutable; one engine serves arbitrarily many
// concurrent renders without locking.
package stache

import (
	"context"

	"go.uber.org/zap"
)

// Engine is the main entry point. It owns a frozen Registry and compiles and
// renders templates against it.
type Engine struct {
	registry *Registry
	logger   *zap.Logger
}

// New creates an Engine from the given options. Construction cannot fail:
// every option is optional and absent facets fall back to built-ins.
func New(opts ...Option) *Engine {
	settings := &Settings{}
	for _, opt := range opts {
		opt(settings)
	}
	logger := settings.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		registry: NewRegistry(settings),
		logger:   logger,
	}
}

// NewWithRegistry wraps an existing Registry, sharing it between engines.
func NewWithRegistry(registry *Registry, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{registry: registry, logger: logger}
}

// Registry returns the engine's frozen configuration registry.
func (e *Engine) Registry() *Registry {
	return e.registry
}

// Compile resolves name through the template loader and parses the source
// into a reusable Template.
func (e *Engine) Compile(ctx context.Context, name string) (*Template, error) {
	source, err := e.registry.TemplateLoader().Load(ctx, name)
	if err != nil {
		return nil, err
	}
	tree, err := tokenize(source, e.registry, e.logger)
	if err != nil {
		return nil, err
	}
	return newTemplate(source, tree, e.registry, e.logger), nil
}

// Render compiles and renders in one step. With the default StringLoader the
// name argument is the template source itself. For templates rendered many
// times, use Compile.
func (e *Engine) Render(ctx context.Context, name string, data any) (string, error) {
	tmpl, err := e.Compile(ctx, name)
	if err != nil {
		return "", err
	}
	return tmpl.Render(ctx, data)
}
