package stache

import (
	"reflect"
	"regexp"
	"sort"

	"go.uber.org/zap"
)

// Settings is the construction-time input for a Registry. Every field is
// optional; a zero Settings (or a nil pointer) yields the built-in defaults.
// Settings are snapshotted during construction and not retained.
type Settings struct {
	// ValueResolvers adds or replaces type-keyed member resolvers.
	ValueResolvers map[reflect.Type]ValueResolver

	// TagHandlers adds or replaces prefix handlers. A nil handler removes
	// the prefix from the table and the assembled pattern; the reserved
	// "name" and "text" keys are never removable.
	TagHandlers map[string]TagHandler

	// TruthyChecks replaces the (empty) default chain wholesale.
	TruthyChecks []TruthyCheck

	// EnumerationConverters adds type-keyed section iteration adapters.
	EnumerationConverters map[reflect.Type]EnumerationConverter

	// TemplateLoader resolves top-level template names to source text.
	// Defaults to the identity string loader.
	TemplateLoader Loader

	// PartialLoader resolves partial names to source text. No default; its
	// absence is queryable on the built Registry.
	PartialLoader Loader

	// MaxRecursionDepth caps render nesting. Values < 1 fall back to
	// DefaultMaxRecursionDepth.
	MaxRecursionDepth int

	// RenderSettings is carried through unexamined for the renderer.
	RenderSettings any

	// Logger receives construction debug logs. Nil means no logging.
	Logger *zap.Logger
}

// Registry is the frozen configuration bundle consulted by the tokenizer and
// renderer. It is fully determined at construction and never mutated, so a
// single instance is safe for unlimited concurrent reads. Accessors that
// return collections return copies over internally owned storage.
type Registry struct {
	resolvers      []ResolverEntry
	handlers       map[string]TagHandler
	pattern        *regexp.Regexp
	truthyChecks   []TruthyCheck
	converters     []EnumerationEntry
	templateLoader Loader
	partialLoader  Loader
	maxDepth       int
	renderSettings any
}

// NewRegistry builds a Registry from an optional Settings snapshot.
// Construction cannot fail: every input is optional and merging operates
// over well-defined defaults.
func NewRegistry(settings *Settings) *Registry {
	if settings == nil {
		settings = &Settings{}
	}
	logger := settings.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := &Registry{
		resolvers:      mergeValueResolvers(settings.ValueResolvers, logger),
		handlers:       mergeTagHandlers(settings.TagHandlers, logger),
		truthyChecks:   append([]TruthyCheck(nil), settings.TruthyChecks...),
		converters:     mergeEnumerationConverters(settings.EnumerationConverters),
		templateLoader: settings.TemplateLoader,
		partialLoader:  settings.PartialLoader,
		maxDepth:       settings.MaxRecursionDepth,
		renderSettings: settings.RenderSettings,
	}
	if r.templateLoader == nil {
		r.templateLoader = StringLoader{}
	}
	if r.maxDepth < 1 {
		r.maxDepth = DefaultMaxRecursionDepth
	}
	r.pattern = assembleTagPattern(r.handlers)

	logger.Debug(LogMsgPatternAssembled, zap.String(LogFieldPattern, r.pattern.String()))
	logger.Debug(LogMsgRegistryBuilt,
		zap.Int(LogFieldResolvers, len(r.resolvers)),
		zap.Int(LogFieldHandlers, len(r.handlers)),
		zap.Int(LogFieldConverters, len(r.converters)),
		zap.Int(LogFieldChecks, len(r.truthyChecks)),
		zap.Int(LogFieldCeiling, r.maxDepth),
	)
	return r
}

// mergeValueResolvers merges caller overrides over the built-in table and
// orders the result most-specific-first. Override keys already present in the
// defaults replace the function in place; new keys append in a deterministic
// order (sorted by type name, since Go map iteration order is not stable)
// before ordering.
func mergeValueResolvers(overrides map[reflect.Type]ValueResolver, logger *zap.Logger) []ResolverEntry {
	merged := defaultValueResolvers()
	index := make(map[reflect.Type]int, len(merged))
	for i, entry := range merged {
		index[entry.Key] = i
	}
	for _, key := range sortedTypeKeys(overrides) {
		logger.Debug(LogMsgResolverOverride, zap.String(LogFieldType, key.String()))
		if i, ok := index[key]; ok {
			merged[i].Resolve = overrides[key]
			continue
		}
		index[key] = len(merged)
		merged = append(merged, ResolverEntry{Key: key, Resolve: overrides[key]})
	}
	return orderBySpecificity(merged)
}

// mergeTagHandlers merges caller overrides over the built-in handler table.
// Nil handler values delete the key; the reserved pseudo-keys survive any
// deletion attempt.
func mergeTagHandlers(overrides map[string]TagHandler, logger *zap.Logger) map[string]TagHandler {
	merged := defaultTagHandlers()
	for prefix, handler := range overrides {
		if handler == nil {
			if prefix == TagKeyName || prefix == TagKeyText {
				continue
			}
			delete(merged, prefix)
			logger.Debug(LogMsgHandlerRemoved, zap.String(LogFieldPrefix, prefix))
			continue
		}
		merged[prefix] = handler
		logger.Debug(LogMsgHandlerOverride, zap.String(LogFieldPrefix, prefix))
	}
	return merged
}

// mergeEnumerationConverters builds the ordered converter table from caller
// overrides. The default table is empty, so the merge is the overrides alone.
func mergeEnumerationConverters(overrides map[reflect.Type]EnumerationConverter) []EnumerationEntry {
	merged := defaultEnumerationConverters()
	for _, key := range sortedTypeKeysConv(overrides) {
		merged = append(merged, EnumerationEntry{Key: key, Convert: overrides[key]})
	}
	return orderEnumerationEntries(merged)
}

func sortedTypeKeys(m map[reflect.Type]ValueResolver) []reflect.Type {
	keys := make([]reflect.Type, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
	return keys
}

func sortedTypeKeysConv(m map[reflect.Type]EnumerationConverter) []reflect.Type {
	keys := make([]reflect.Type, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
	return keys
}

// ValueResolvers returns a copy of the specificity-ordered resolver table.
func (r *Registry) ValueResolvers() []ResolverEntry {
	return append([]ResolverEntry(nil), r.resolvers...)
}

// TagHandlers returns a copy of the merged prefix handler table.
func (r *Registry) TagHandlers() map[string]TagHandler {
	out := make(map[string]TagHandler, len(r.handlers))
	for prefix, handler := range r.handlers {
		out[prefix] = handler
	}
	return out
}

// TagHandler returns the handler registered for a prefix.
func (r *Registry) TagHandler(prefix string) (TagHandler, bool) {
	handler, ok := r.handlers[prefix]
	return handler, ok
}

// TagPattern returns the assembled tag-recognition pattern. Compiled regular
// expressions are safe for concurrent use.
func (r *Registry) TagPattern() *regexp.Regexp {
	return r.pattern
}

// TruthyChecks returns a copy of the configured truthy-check chain.
func (r *Registry) TruthyChecks() []TruthyCheck {
	return append([]TruthyCheck(nil), r.truthyChecks...)
}

// EnumerationConverters returns a copy of the ordered converter table.
func (r *Registry) EnumerationConverters() []EnumerationEntry {
	return append([]EnumerationEntry(nil), r.converters...)
}

// TemplateLoader returns the configured top-level template loader.
func (r *Registry) TemplateLoader() Loader {
	return r.templateLoader
}

// PartialLoader returns the partial loader and whether one is configured.
// Reacting to its absence is the renderer's policy, not the Registry's.
func (r *Registry) PartialLoader() (Loader, bool) {
	return r.partialLoader, r.partialLoader != nil
}

// HasPartialLoader reports whether a partial loader is configured.
func (r *Registry) HasPartialLoader() bool {
	return r.partialLoader != nil
}

// MaxRecursionDepth returns the recursion ceiling. Each render call tracks
// its own depth against this value.
func (r *Registry) MaxRecursionDepth() int {
	return r.maxDepth
}

// RenderSettings returns the opaque render settings, unexamined.
func (r *Registry) RenderSettings() any {
	return r.renderSettings
}

// ResolveValue dispatches a member lookup through the ordered resolver table.
// The first entry whose type key matches the runtime type of value answers;
// its answer is final even when it reports absence.
func (r *Registry) ResolveValue(value any, name string) (any, bool) {
	if value == nil {
		return nil, false
	}
	t := reflect.TypeOf(value)
	for _, entry := range r.resolvers {
		if typeKeyMatches(entry.Key, t) {
			return entry.Resolve(value, name)
		}
	}
	return nil, false
}

// CheckTruthy consults the configured truthy-check chain. The first
// determined answer wins; (false, false) means the chain has no opinion and
// the caller's built-in rule decides.
func (r *Registry) CheckTruthy(value any) (bool, bool) {
	for _, check := range r.truthyChecks {
		if truthy, determined := check(value); determined {
			return truthy, true
		}
	}
	return false, false
}

// EnumerateValue dispatches through the ordered converter table. The first
// entry whose type key matches answers; false means no converter applies.
func (r *Registry) EnumerateValue(value any) ([]any, bool) {
	if value == nil {
		return nil, false
	}
	t := reflect.TypeOf(value)
	for _, entry := range r.converters {
		if typeKeyMatches(entry.Key, t) {
			return entry.Convert(value), true
		}
	}
	return nil, false
}
