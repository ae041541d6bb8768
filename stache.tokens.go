package stache

// TokenType identifies the kind of a parsed template node.
type TokenType string

// Token type constants
const (
	TokenTypeText         TokenType = "text"
	TokenTypeVariable     TokenType = "variable"
	TokenTypeSection      TokenType = "section"
	TokenTypeSectionClose TokenType = "section_close"
	TokenTypePartial      TokenType = "partial"
	TokenTypeComment      TokenType = "comment"
	TokenTypeDelimiter    TokenType = "delimiter"
)

// Token is a typed unit of a parsed template. Prefix handlers produce tokens,
// the renderer consumes them. Custom handlers may return any Token
// implementation; embed TokenPos to receive source positions from the
// tokenizer.
type Token interface {
	Type() TokenType
	Pos() Position
}

// TokenPos is an embeddable position carrier for Token implementations.
type TokenPos struct {
	Position Position
}

// Pos returns the token's source position.
func (t *TokenPos) Pos() Position { return t.Position }

func (t *TokenPos) setPos(p Position) { t.Position = p }

// positioned is satisfied by tokens that accept a source position after
// construction.
type positioned interface {
	setPos(Position)
}

// TextToken is literal content between tags.
type TextToken struct {
	TokenPos
	Text string
}

// Type returns TokenTypeText.
func (t *TextToken) Type() TokenType { return TokenTypeText }

// VariableToken is an interpolation tag. Escaped variables are HTML-escaped
// on output; "{"- and "&"-prefixed tags clear the flag.
type VariableToken struct {
	TokenPos
	Key     string
	Escaped bool
}

// Type returns TokenTypeVariable.
func (t *VariableToken) Type() TokenType { return TokenTypeVariable }

// SectionToken is a block tag. Children are filled in by the parser when the
// matching closing tag is found. Inverted sections render on falsy values.
type SectionToken struct {
	TokenPos
	Key      string
	Inverted bool
	Children []Token
}

// Type returns TokenTypeSection.
func (t *SectionToken) Type() TokenType { return TokenTypeSection }

// SectionCloseToken marks the end of a section block. It only exists in the
// flat token stream; the parser consumes it while pairing sections.
type SectionCloseToken struct {
	TokenPos
	Key string
}

// Type returns TokenTypeSectionClose.
func (t *SectionCloseToken) Type() TokenType { return TokenTypeSectionClose }

// PartialToken references a named partial template resolved through the
// registry's partial loader at render time.
type PartialToken struct {
	TokenPos
	Name string
}

// Type returns TokenTypePartial.
func (t *PartialToken) Type() TokenType { return TokenTypePartial }

// CommentToken carries comment text. It renders to nothing.
type CommentToken struct {
	TokenPos
	Text string
}

// Type returns TokenTypeComment.
func (t *CommentToken) Type() TokenType { return TokenTypeComment }

// DelimiterToken switches the active delimiters for the rest of the stream.
// It renders to nothing; the tokenizer acts on it while scanning.
type DelimiterToken struct {
	TokenPos
	Delims Delimiters
}

// Type returns TokenTypeDelimiter.
func (t *DelimiterToken) Type() TokenType { return TokenTypeDelimiter }
