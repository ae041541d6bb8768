package stache

import (
	"fmt"
	"strconv"

	"github.com/itsatony/go-cuserr"
)

// Error message constants - ALL error messages must be constants (NO MAGIC STRINGS)
const (
	// Tokenizer errors
	ErrMsgUnterminatedTag   = "unterminated tag"
	ErrMsgUnclosedSection   = "section is never closed"
	ErrMsgUnexpectedClose   = "closing tag without matching open"
	ErrMsgMismatchedSection = "mismatched section closing tag"
	ErrMsgBadDelimiterTag   = "malformed delimiter-change tag"
	ErrMsgHandlerFailed     = "tag handler failed"

	// Render errors
	ErrMsgRenderFailed      = "template rendering failed"
	ErrMsgPartialNotFound   = "partial template not found"
	ErrMsgNoPartialLoader   = "no partial loader configured"
	ErrMsgRecursionExceeded = "nesting depth exceeds recursion ceiling"

	// Loader errors
	ErrMsgTemplateNotFound  = "template not found"
	ErrMsgLoaderClosed      = "loader is closed"
	ErrMsgInvalidLoaderRoot = "loader root directory cannot be empty"
	ErrMsgUnsafeName        = "template name escapes the loader root"
	ErrMsgManifestParse     = "partial manifest parsing failed"

	// Config errors
	ErrMsgConfigLoad      = "engine config file could not be loaded"
	ErrMsgConfigUnmarshal = "engine config file could not be decoded"
)

// Error code constants for categorization
const (
	ErrCodeParse  = "STACHE_PARSE"
	ErrCodeRender = "STACHE_RENDER"
	ErrCodeLoader = "STACHE_LOADER"
	ErrCodeConfig = "STACHE_CONFIG"
)

// Metadata key constants
const (
	MetaKeyLine     = "line"
	MetaKeyColumn   = "column"
	MetaKeyOffset   = "offset"
	MetaKeyPrefix   = "prefix"
	MetaKeyName     = "name"
	MetaKeyExpected = "expected"
	MetaKeyActual   = "actual"
	MetaKeyDepth    = "depth"
	MetaKeyCeiling  = "ceiling"
	MetaKeyPath     = "path"
	MetaKeyTemplate = "template"
)

// Position represents a location in the source template
type Position struct {
	Offset int // Byte offset from start
	Line   int // 1-indexed line number
	Column int // 1-indexed column number
}

// String returns a human-readable position string
func (p Position) String() string {
	return fmt.Sprintf("line %d, column %d", p.Line, p.Column)
}

func withPosition(err *cuserr.CustomError, pos Position) *cuserr.CustomError {
	return err.
		WithMetadata(MetaKeyLine, strconv.Itoa(pos.Line)).
		WithMetadata(MetaKeyColumn, strconv.Itoa(pos.Column)).
		WithMetadata(MetaKeyOffset, strconv.Itoa(pos.Offset))
}

// NewParseError creates a tokenizer error with position context
func NewParseError(msg string, pos Position, cause error) error {
	var err *cuserr.CustomError
	if cause != nil {
		err = cuserr.WrapStdError(cause, ErrCodeParse, msg)
	} else {
		err = cuserr.NewValidationError(ErrCodeParse, msg)
	}
	return withPosition(err, pos)
}

// NewUnterminatedTagError creates an error for tags missing their close delimiter
func NewUnterminatedTagError(pos Position) error {
	return withPosition(cuserr.NewValidationError(ErrCodeParse, ErrMsgUnterminatedTag), pos)
}

// NewUnclosedSectionError creates an error for sections without a closing tag
func NewUnclosedSectionError(key string, pos Position) error {
	return withPosition(cuserr.NewValidationError(ErrCodeParse, ErrMsgUnclosedSection), pos).
		WithMetadata(MetaKeyName, key)
}

// NewMismatchedSectionError creates an error for closing tags that don't match
// the innermost open section
func NewMismatchedSectionError(expected, actual string, pos Position) error {
	return withPosition(cuserr.NewValidationError(ErrCodeParse, ErrMsgMismatchedSection), pos).
		WithMetadata(MetaKeyExpected, expected).
		WithMetadata(MetaKeyActual, actual)
}

// NewRenderError creates a render error, optionally wrapping a cause
func NewRenderError(msg string, cause error) error {
	if cause != nil {
		return cuserr.WrapStdError(cause, ErrCodeRender, msg)
	}
	return cuserr.NewInternalError(ErrCodeRender, nil)
}

// NewRecursionExceededError creates an error for renders past the ceiling
func NewRecursionExceededError(depth, ceiling int) error {
	return cuserr.NewValidationError(ErrCodeRender, ErrMsgRecursionExceeded).
		WithMetadata(MetaKeyDepth, strconv.Itoa(depth)).
		WithMetadata(MetaKeyCeiling, strconv.Itoa(ceiling))
}

// NewPartialNotFoundError creates an error for unresolved partial references
func NewPartialNotFoundError(name string, cause error) error {
	var err *cuserr.CustomError
	if cause != nil {
		err = cuserr.WrapStdError(cause, ErrCodeRender, ErrMsgPartialNotFound)
	} else {
		err = cuserr.NewNotFoundError(MetaKeyTemplate, ErrMsgPartialNotFound)
	}
	return err.WithMetadata(MetaKeyName, name)
}

// NewNoPartialLoaderError creates an error for partial references when no
// partial loader is configured
func NewNoPartialLoaderError(name string) error {
	return cuserr.NewNotFoundError(MetaKeyTemplate, ErrMsgNoPartialLoader).
		WithMetadata(MetaKeyName, name)
}

// NewTemplateNotFoundError creates an error for unresolved template names
func NewTemplateNotFoundError(name string) error {
	return cuserr.NewNotFoundError(MetaKeyTemplate, ErrMsgTemplateNotFound).
		WithMetadata(MetaKeyName, name)
}

// NewLoaderError creates a loader error wrapping an underlying cause
func NewLoaderError(msg string, name string, cause error) error {
	var err *cuserr.CustomError
	if cause != nil {
		err = cuserr.WrapStdError(cause, ErrCodeLoader, msg)
	} else {
		err = cuserr.NewValidationError(ErrCodeLoader, msg)
	}
	return err.WithMetadata(MetaKeyName, name)
}

// NewConfigError creates an engine config loading error
func NewConfigError(msg string, path string, cause error) error {
	var err *cuserr.CustomError
	if cause != nil {
		err = cuserr.WrapStdError(cause, ErrCodeConfig, msg)
	} else {
		err = cuserr.NewValidationError(ErrCodeConfig, msg)
	}
	return err.WithMetadata(MetaKeyPath, path)
}
