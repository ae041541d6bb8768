package stache

import (
	"strings"

	"go.uber.org/zap"
)

// tokenizer splits template source into a flat token stream using the
// registry's assembled tag pattern and prefix handler table, then pairs
// section tokens into a tree. Delimiter-change tags take effect immediately
// on its scan state.
type tokenizer struct {
	source   string
	registry *Registry
	delims   Delimiters
	pos      int
	line     int
	column   int
	logger   *zap.Logger
}

func newTokenizer(source string, registry *Registry, logger *zap.Logger) *tokenizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &tokenizer{
		source:   source,
		registry: registry,
		delims:   DefaultDelimiters(),
		line:     1,
		column:   1,
		logger:   logger,
	}
}

// tokenize produces the nested token tree for a template source.
func tokenize(source string, registry *Registry, logger *zap.Logger) ([]Token, error) {
	t := newTokenizer(source, registry, logger)
	flat, err := t.scan()
	if err != nil {
		return nil, err
	}
	return buildTree(flat)
}

func (t *tokenizer) position() Position {
	return Position{Offset: t.pos, Line: t.line, Column: t.column}
}

// advance moves the cursor forward n bytes, tracking line and column.
func (t *tokenizer) advance(n int) {
	segment := t.source[t.pos : t.pos+n]
	newlines := strings.Count(segment, "\n")
	if newlines > 0 {
		t.line += newlines
		t.column = len(segment) - strings.LastIndexByte(segment, '\n')
	} else {
		t.column += len(segment)
	}
	t.pos += n
}

func (t *tokenizer) scan() ([]Token, error) {
	var tokens []Token
	for t.pos < len(t.source) {
		rest := t.source[t.pos:]
		openIdx := strings.Index(rest, t.delims.Open)
		if openIdx < 0 {
			token, err := t.emit(TagKeyText, rest, t.position())
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, token)
			t.advance(len(rest))
			break
		}
		if openIdx > 0 {
			token, err := t.emit(TagKeyText, rest[:openIdx], t.position())
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, token)
			t.advance(openIdx)
		}

		tagPos := t.position()
		t.advance(len(t.delims.Open))

		token, err := t.scanTag(tagPos)
		if err != nil {
			return nil, err
		}
		if delimToken, ok := token.(*DelimiterToken); ok {
			t.delims = delimToken.Delims
		}
		tokens = append(tokens, token)
	}
	return tokens, nil
}

// scanTag consumes one tag body starting right after the open delimiter.
func (t *tokenizer) scanTag(tagPos Position) (Token, error) {
	rest := t.source[t.pos:]
	prefix := t.registry.TagPattern().FindString(rest)

	closer := t.delims.Close
	if prefix == TagPrefixTripleBrace {
		closer = TripleBraceCloser + t.delims.Close
	}

	body := rest[len(prefix):]
	closeIdx := strings.Index(body, closer)
	if closeIdx < 0 {
		return nil, NewUnterminatedTagError(tagPos)
	}
	content := body[:closeIdx]

	key := prefix
	if _, ok := t.registry.TagHandler(prefix); !ok || prefix == "" {
		// No registered prefix matched the tag content; the reserved name
		// handler takes it whole.
		key = TagKeyName
		content = rest[:len(prefix)+closeIdx]
	}

	token, err := t.emit(key, content, tagPos)
	if err != nil {
		return nil, err
	}
	t.advance(len(prefix) + closeIdx + len(closer))
	return token, nil
}

// emit dispatches content to the handler registered under key and stamps the
// produced token with its source position.
func (t *tokenizer) emit(key, content string, pos Position) (Token, error) {
	handler, ok := t.registry.TagHandler(key)
	if !ok {
		handler, _ = t.registry.TagHandler(TagKeyName)
	}
	token, err := handler(content, t.delims)
	if err != nil {
		return nil, NewParseError(ErrMsgHandlerFailed, pos, err)
	}
	if p, ok := token.(positioned); ok {
		p.setPos(pos)
	}
	return token, nil
}

// buildTree pairs section open and close tokens into nested children. Close
// tokens are consumed; every other token lands in the tree unchanged.
func buildTree(flat []Token) ([]Token, error) {
	var root []Token
	var stack []*SectionToken

	appendToken := func(token Token) {
		if len(stack) > 0 {
			top := stack[len(stack)-1]
			top.Children = append(top.Children, token)
			return
		}
		root = append(root, token)
	}

	for _, token := range flat {
		switch node := token.(type) {
		case *SectionToken:
			appendToken(node)
			stack = append(stack, node)
		case *SectionCloseToken:
			if len(stack) == 0 {
				return nil, NewParseError(ErrMsgUnexpectedClose, node.Pos(), nil)
			}
			top := stack[len(stack)-1]
			if top.Key != node.Key {
				return nil, NewMismatchedSectionError(top.Key, node.Key, node.Pos())
			}
			stack = stack[:len(stack)-1]
		default:
			appendToken(token)
		}
	}
	if len(stack) > 0 {
		top := stack[len(stack)-1]
		return nil, NewUnclosedSectionError(top.Key, top.Pos())
	}
	return root, nil
}
