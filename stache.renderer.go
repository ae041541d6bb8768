package stache

import (
	"context"
	"fmt"
	"html"
	"reflect"
	"strings"

	"go.uber.org/zap"
)

// RenderOptions is the render-settings shape this package's renderer
// understands. The Registry carries render settings as an opaque value; any
// other type is simply ignored here.
type RenderOptions struct {
	// DisableHTMLEscape turns off escaping for "name"-handled variables.
	DisableHTMLEscape bool
}

// renderer walks a token tree against a context stack. All configuration
// comes from the shared Registry; per-call state (context stack, nesting
// depth) lives in renderState so concurrent renders never interfere.
type renderer struct {
	registry *Registry
	options  RenderOptions
	logger   *zap.Logger
}

type renderState struct {
	stack []any
	depth int
}

func newRenderer(registry *Registry, logger *zap.Logger) *renderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	options, _ := registry.RenderSettings().(RenderOptions)
	return &renderer{registry: registry, options: options, logger: logger}
}

func (r *renderer) render(ctx context.Context, tree []Token, data any) (string, error) {
	state := &renderState{stack: []any{data}}
	var sb strings.Builder
	if err := r.walk(ctx, tree, state, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func (r *renderer) walk(ctx context.Context, tokens []Token, state *renderState, sb *strings.Builder) error {
	for _, token := range tokens {
		switch node := token.(type) {
		case *TextToken:
			sb.WriteString(node.Text)
		case *VariableToken:
			value, ok := r.lookup(state, node.Key)
			if !ok || value == nil {
				continue
			}
			text := stringify(value)
			if node.Escaped && !r.options.DisableHTMLEscape {
				text = html.EscapeString(text)
			}
			sb.WriteString(text)
		case *SectionToken:
			if err := r.renderSection(ctx, node, state, sb); err != nil {
				return err
			}
		case *PartialToken:
			if err := r.renderPartial(ctx, node, state, sb); err != nil {
				return err
			}
		case *CommentToken, *DelimiterToken:
			// Render to nothing.
		}
	}
	return nil
}

func (r *renderer) renderSection(ctx context.Context, node *SectionToken, state *renderState, sb *strings.Builder) error {
	value, _ := r.lookup(state, node.Key)
	truthy := r.truthy(value)

	if node.Inverted {
		if truthy {
			return nil
		}
		return r.nested(ctx, node.Children, state, sb, nil)
	}
	if !truthy {
		return nil
	}
	if elements, ok := r.sequenceOf(value); ok {
		for _, element := range elements {
			if err := r.nested(ctx, node.Children, state, sb, element); err != nil {
				return err
			}
		}
		return nil
	}
	return r.nested(ctx, node.Children, state, sb, value)
}

// nested renders children one level deeper, enforcing the recursion ceiling
// and optionally pushing a new context frame.
func (r *renderer) nested(ctx context.Context, children []Token, state *renderState, sb *strings.Builder, frame any) error {
	if err := ctx.Err(); err != nil {
		return NewRenderError(ErrMsgRenderFailed, err)
	}
	state.depth++
	if state.depth > r.registry.MaxRecursionDepth() {
		return NewRecursionExceededError(state.depth, r.registry.MaxRecursionDepth())
	}
	pushed := false
	if frame != nil {
		state.stack = append(state.stack, frame)
		pushed = true
	}
	err := r.walk(ctx, children, state, sb)
	if pushed {
		state.stack = state.stack[:len(state.stack)-1]
	}
	state.depth--
	return err
}

func (r *renderer) renderPartial(ctx context.Context, node *PartialToken, state *renderState, sb *strings.Builder) error {
	loader, ok := r.registry.PartialLoader()
	if !ok {
		return NewNoPartialLoaderError(node.Name)
	}
	source, err := loader.Load(ctx, node.Name)
	if err != nil {
		return NewPartialNotFoundError(node.Name, err)
	}
	r.logger.Debug(LogMsgPartialLoaded,
		zap.String(LogFieldName, node.Name),
		zap.Int(LogFieldDepth, state.depth),
	)
	tree, err := tokenize(source, r.registry, r.logger)
	if err != nil {
		return err
	}
	return r.nested(ctx, tree, state, sb, nil)
}

// truthy consults the configured check chain first; the built-in rule decides
// when the whole chain is undetermined.
func (r *renderer) truthy(value any) bool {
	if result, determined := r.registry.CheckTruthy(value); determined {
		return result
	}
	return builtinTruthy(value)
}

// sequenceOf reports whether value iterates as a section list. Configured
// enumeration converters are consulted before native slices and arrays.
func (r *renderer) sequenceOf(value any) ([]any, bool) {
	if elements, ok := r.registry.EnumerateValue(value); ok {
		return elements, true
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	elements := make([]any, rv.Len())
	for i := range elements {
		elements[i] = rv.Index(i).Interface()
	}
	return elements, true
}

// lookup resolves a dotted key against the context stack. The first segment
// walks the stack top-down until a frame yields a present value; remaining
// segments resolve against that value only.
func (r *renderer) lookup(state *renderState, key string) (any, bool) {
	if key == ImplicitIteratorKey {
		return state.stack[len(state.stack)-1], true
	}
	segments := strings.Split(key, KeySeparator)

	var current any
	found := false
	for i := len(state.stack) - 1; i >= 0; i-- {
		if value, ok := r.registry.ResolveValue(state.stack[i], segments[0]); ok {
			current = value
			found = true
			break
		}
	}
	if !found {
		return nil, false
	}
	for _, segment := range segments[1:] {
		value, ok := r.registry.ResolveValue(current, segment)
		if !ok {
			return nil, false
		}
		current = value
	}
	return current, true
}

func stringify(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	}
	return fmt.Sprintf("%v", value)
}
