package stache

import (
	"regexp"
	"sort"
	"strings"
)

// Delimiters are the active tag boundaries while tokenizing. They start at
// {{ and }} and change mid-stream through "="-prefixed tags.
type Delimiters struct {
	Open  string
	Close string
}

// DefaultDelimiters returns the standard double-brace delimiters.
func DefaultDelimiters() Delimiters {
	return Delimiters{Open: DefaultOpenDelim, Close: DefaultCloseDelim}
}

// TagHandler turns raw tag content (prefix already stripped) into a token
// node. The active delimiters are passed for handlers that need them, such as
// the delimiter-change handler.
type TagHandler func(content string, delims Delimiters) (Token, error)

// defaultTagHandlers returns the built-in prefix handler table, including the
// two reserved pseudo-keys.
func defaultTagHandlers() map[string]TagHandler {
	return map[string]TagHandler{
		TagKeyName:            handleName,
		TagKeyText:            handleText,
		TagPrefixSection:      handleSection,
		TagPrefixInverted:     handleInverted,
		TagPrefixSectionClose: handleSectionClose,
		TagPrefixPartial:      handlePartial,
		TagPrefixComment:      handleComment,
		TagPrefixDelimiters:   handleDelimiters,
		TagPrefixTripleBrace:  handleUnescaped,
		TagPrefixUnescaped:    handleUnescaped,
	}
}

func handleName(content string, _ Delimiters) (Token, error) {
	return &VariableToken{Key: strings.TrimSpace(content), Escaped: true}, nil
}

func handleText(content string, _ Delimiters) (Token, error) {
	return &TextToken{Text: content}, nil
}

func handleSection(content string, _ Delimiters) (Token, error) {
	return &SectionToken{Key: strings.TrimSpace(content)}, nil
}

func handleInverted(content string, _ Delimiters) (Token, error) {
	return &SectionToken{Key: strings.TrimSpace(content), Inverted: true}, nil
}

func handleSectionClose(content string, _ Delimiters) (Token, error) {
	return &SectionCloseToken{Key: strings.TrimSpace(content)}, nil
}

func handlePartial(content string, _ Delimiters) (Token, error) {
	return &PartialToken{Name: strings.TrimSpace(content)}, nil
}

func handleComment(content string, _ Delimiters) (Token, error) {
	return &CommentToken{Text: content}, nil
}

func handleUnescaped(content string, _ Delimiters) (Token, error) {
	return &VariableToken{Key: strings.TrimSpace(content), Escaped: false}, nil
}

// handleDelimiters parses a delimiter-change body such as "<% %>=" into the
// next delimiter pair. The tokenizer applies the change to its scan state.
func handleDelimiters(content string, delims Delimiters) (Token, error) {
	body := strings.TrimSpace(content)
	body = strings.TrimSuffix(body, DelimiterTagCloser)
	parts := strings.Fields(body)
	if len(parts) != 2 {
		return nil, NewParseError(ErrMsgBadDelimiterTag, Position{}, nil)
	}
	return &DelimiterToken{Delims: Delimiters{Open: parts[0], Close: parts[1]}}, nil
}

// structuralMarkers are always part of the assembled tag pattern regardless
// of the handler table: section-close, delimiter-change, the escaped
// interpolation brace and the negation-of-escaping marker.
var structuralMarkers = []string{
	TagPrefixSectionClose,
	TagPrefixDelimiters,
	TagPrefixTripleBrace,
	TagPrefixUnescaped,
}

// assembleTagPattern builds the single recognition pattern the tokenizer uses
// to classify tag content. Every registered prefix except the two reserved
// pseudo-keys becomes a literal alternative, unioned with the structural
// markers. Alternatives are deduped and ordered longest-first so a multi-rune
// prefix beats its own leading rune. The result is always a valid, non-empty
// pattern anchored at the start of the tag body.
func assembleTagPattern(handlers map[string]TagHandler) *regexp.Regexp {
	seen := make(map[string]bool, len(handlers)+len(structuralMarkers))
	alts := make([]string, 0, len(handlers)+len(structuralMarkers))
	for prefix := range handlers {
		if prefix == TagKeyName || prefix == TagKeyText {
			continue
		}
		if !seen[prefix] {
			seen[prefix] = true
			alts = append(alts, prefix)
		}
	}
	for _, marker := range structuralMarkers {
		if !seen[marker] {
			seen[marker] = true
			alts = append(alts, marker)
		}
	}
	sort.Slice(alts, func(i, j int) bool {
		if len(alts[i]) != len(alts[j]) {
			return len(alts[i]) > len(alts[j])
		}
		return alts[i] < alts[j]
	})
	quoted := make([]string, len(alts))
	for i, alt := range alts {
		quoted[i] = regexp.QuoteMeta(alt)
	}
	return regexp.MustCompile(`\A(?:` + strings.Join(quoted, "|") + `)`)
}
