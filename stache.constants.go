package stache

// Delimiter constants - standard double-brace tag syntax
const (
	DefaultOpenDelim  = "{{"
	DefaultCloseDelim = "}}"
)

// Reserved pseudo-prefix keys. Both are always present in the handler table and
// never participate in tag pattern assembly: TagKeyName is the handler applied
// when no registered prefix matches the tag content, TagKeyText is the handler
// applied to literal content between tags.
const (
	TagKeyName = "name"
	TagKeyText = "text"
)

// Built-in tag prefix keys
const (
	TagPrefixSection      = "#"
	TagPrefixInverted     = "^"
	TagPrefixSectionClose = "/"
	TagPrefixPartial      = ">"
	TagPrefixComment      = "!"
	TagPrefixDelimiters   = "="
	TagPrefixTripleBrace  = "{"
	TagPrefixUnescaped    = "&"
)

// DefaultMaxRecursionDepth is the nesting ceiling applied when no explicit
// ceiling is configured. Each render call tracks its own depth against it.
const DefaultMaxRecursionDepth = 256

// TripleBraceCloser is the extra closing brace expected before the close
// delimiter for "{"-prefixed tags.
const TripleBraceCloser = "}"

// DelimiterTagCloser is the trailing marker of a delimiter-change tag body.
const DelimiterTagCloser = "="

// ImplicitIteratorKey resolves to the current context value itself.
const ImplicitIteratorKey = "."

// KeySeparator splits dotted lookup paths into segments.
const KeySeparator = "."

// Log message constants
const (
	LogMsgRegistryBuilt      = "registry built"
	LogMsgResolverOverride   = "value resolver override applied"
	LogMsgHandlerOverride    = "tag handler override applied"
	LogMsgHandlerRemoved     = "tag handler removed"
	LogMsgPatternAssembled   = "tag pattern assembled"
	LogMsgTemplateLoaded     = "template loaded"
	LogMsgPartialLoaded      = "partial loaded"
	LogMsgRenderStart        = "render started"
	LogMsgRenderDone         = "render finished"
	LogMsgPostgresConnected  = "postgres loader connected"
	LogMsgPostgresMigrated   = "postgres loader schema migrated"
	LogMsgConfigLoaded       = "engine config loaded"
)

// Log field constants
const (
	LogFieldPrefix     = "prefix"
	LogFieldType       = "type"
	LogFieldPattern    = "pattern"
	LogFieldResolvers  = "resolvers"
	LogFieldHandlers   = "handlers"
	LogFieldConverters = "converters"
	LogFieldChecks     = "truthy_checks"
	LogFieldName       = "name"
	LogFieldBytes      = "bytes"
	LogFieldDepth      = "depth"
	LogFieldCeiling    = "ceiling"
	LogFieldPath       = "path"
	LogFieldTable      = "table"
)
