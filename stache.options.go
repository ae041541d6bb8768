package stache

import (
	"reflect"

	"go.uber.org/zap"
)

// Option is a functional option for configuring an Engine. Options build the
// Settings snapshot the Registry is constructed from; they have no effect
// after construction.
type Option func(*Settings)

// WithValueResolver adds or replaces the value resolver registered under a
// type key. Overriding one of the built-in keys replaces that resolver;
// specificity ordering is recomputed over the merged table.
func WithValueResolver(key reflect.Type, resolver ValueResolver) Option {
	return func(s *Settings) {
		if s.ValueResolvers == nil {
			s.ValueResolvers = make(map[reflect.Type]ValueResolver)
		}
		s.ValueResolvers[key] = resolver
	}
}

// WithValueResolverFor registers a resolver keyed on the type of the sample
// value, sparing callers the reflect.TypeOf dance.
func WithValueResolverFor(sample any, resolver ValueResolver) Option {
	return WithValueResolver(reflect.TypeOf(sample), resolver)
}

// WithTagHandler adds or replaces the handler for a tag prefix. New prefixes
// join the assembled tag pattern; overriding a built-in prefix replaces both
// its handler and its pattern membership.
func WithTagHandler(prefix string, handler TagHandler) Option {
	return func(s *Settings) {
		if s.TagHandlers == nil {
			s.TagHandlers = make(map[string]TagHandler)
		}
		s.TagHandlers[prefix] = handler
	}
}

// WithoutTagPrefix removes a prefix from the handler table and the assembled
// pattern. The reserved "name" and "text" keys cannot be removed.
func WithoutTagPrefix(prefix string) Option {
	return func(s *Settings) {
		if s.TagHandlers == nil {
			s.TagHandlers = make(map[string]TagHandler)
		}
		s.TagHandlers[prefix] = nil
	}
}

// WithTruthyChecks sets the truthy-check chain, replacing the default empty
// chain wholesale. Order matters: the first determined answer wins.
func WithTruthyChecks(checks ...TruthyCheck) Option {
	return func(s *Settings) {
		s.TruthyChecks = checks
	}
}

// WithEnumerationConverter registers a section iteration adapter under a
// type key, with the same specificity ordering as value resolvers.
func WithEnumerationConverter(key reflect.Type, converter EnumerationConverter) Option {
	return func(s *Settings) {
		if s.EnumerationConverters == nil {
			s.EnumerationConverters = make(map[reflect.Type]EnumerationConverter)
		}
		s.EnumerationConverters[key] = converter
	}
}

// WithTemplateLoader sets the loader for top-level template names.
// Default: StringLoader (the name is the source).
func WithTemplateLoader(loader Loader) Option {
	return func(s *Settings) {
		s.TemplateLoader = loader
	}
}

// WithPartialLoader sets the loader for partial references. There is no
// default; without one, rendering a partial tag fails.
func WithPartialLoader(loader Loader) Option {
	return func(s *Settings) {
		s.PartialLoader = loader
	}
}

// WithMaxRecursionDepth sets the render nesting ceiling.
// Default: 256.
func WithMaxRecursionDepth(depth int) Option {
	return func(s *Settings) {
		s.MaxRecursionDepth = depth
	}
}

// WithRenderSettings attaches opaque render settings to the Registry. The
// bundled renderer understands RenderOptions; other renderers may store
// whatever they need.
func WithRenderSettings(settings any) Option {
	return func(s *Settings) {
		s.RenderSettings = settings
	}
}

// WithLogger sets the logger for the engine.
// Default: nil (no logging)
func WithLogger(logger *zap.Logger) Option {
	return func(s *Settings) {
		s.Logger = logger
	}
}
