package stache

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Loader resolves a template name (or source key) to template source text.
// Implementations must be safe for concurrent use; Load honors context
// cancellation where it performs I/O.
type Loader interface {
	Load(ctx context.Context, name string) (string, error)
}

// StringLoader is the default template loader: the supplied name is already
// the template source text.
type StringLoader struct{}

// Load returns the name verbatim.
func (StringLoader) Load(_ context.Context, name string) (string, error) {
	return name, nil
}

// MapLoader serves templates from an in-memory name-to-source map.
type MapLoader struct {
	mu        sync.RWMutex
	templates map[string]string
}

// NewMapLoader creates a MapLoader seeded with the given templates. The map
// is copied; later changes to the argument are not observed.
func NewMapLoader(templates map[string]string) *MapLoader {
	copied := make(map[string]string, len(templates))
	for name, source := range templates {
		copied[name] = source
	}
	return &MapLoader{templates: copied}
}

// Set adds or replaces a template source under the given name.
func (l *MapLoader) Set(name, source string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.templates[name] = source
}

// Load returns the stored source for name.
func (l *MapLoader) Load(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	source, ok := l.templates[name]
	if !ok {
		return "", NewTemplateNotFoundError(name)
	}
	return source, nil
}

// FileLoader serves templates from files under a root directory. Names map
// to <root>/<name><extension>; names resolving outside the root are
// rejected.
type FileLoader struct {
	root      string
	extension string
	logger    *zap.Logger
}

// DefaultTemplateExtension is appended to names by NewFileLoader unless a
// different extension is given.
const DefaultTemplateExtension = ".mustache"

// NewFileLoader creates a filesystem loader rooted at dir. An empty
// extension falls back to DefaultTemplateExtension.
func NewFileLoader(dir, extension string, logger *zap.Logger) (*FileLoader, error) {
	if dir == "" {
		return nil, NewLoaderError(ErrMsgInvalidLoaderRoot, dir, nil)
	}
	if extension == "" {
		extension = DefaultTemplateExtension
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileLoader{root: dir, extension: extension, logger: logger}, nil
}

// Load reads the file for name from the loader root.
func (l *FileLoader) Load(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	path := filepath.Join(l.root, name+l.extension)
	resolved, err := filepath.Abs(path)
	if err != nil {
		return "", NewLoaderError(ErrMsgUnsafeName, name, err)
	}
	rootAbs, err := filepath.Abs(l.root)
	if err != nil {
		return "", NewLoaderError(ErrMsgInvalidLoaderRoot, l.root, err)
	}
	if resolved != rootAbs && !strings.HasPrefix(resolved, rootAbs+string(filepath.Separator)) {
		return "", NewLoaderError(ErrMsgUnsafeName, name, nil)
	}
	data, err := os.ReadFile(resolved)
	if err != nil {
		if os.IsNotExist(err) {
			return "", NewTemplateNotFoundError(name)
		}
		return "", NewLoaderError(ErrMsgTemplateNotFound, name, err)
	}
	l.logger.Debug(LogMsgTemplateLoaded,
		zap.String(LogFieldName, name),
		zap.Int(LogFieldBytes, len(data)),
	)
	return string(data), nil
}

// YAMLLoader serves templates from a YAML manifest mapping names to source
// text. Useful for shipping a partial set as a single file.
type YAMLLoader struct {
	templates map[string]string
}

// NewYAMLLoader parses a manifest document of the form:
//
//	header: "<h1>{{title}}</h1>"
//	footer: "<footer>{{year}}</footer>"
func NewYAMLLoader(manifest []byte) (*YAMLLoader, error) {
	templates := make(map[string]string)
	if err := yaml.Unmarshal(manifest, &templates); err != nil {
		return nil, NewLoaderError(ErrMsgManifestParse, "", err)
	}
	return &YAMLLoader{templates: templates}, nil
}

// NewYAMLLoaderFromFile reads and parses a manifest file.
func NewYAMLLoaderFromFile(path string) (*YAMLLoader, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewLoaderError(ErrMsgManifestParse, path, err)
	}
	return NewYAMLLoader(data)
}

// Load returns the manifest entry for name.
func (l *YAMLLoader) Load(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	source, ok := l.templates[name]
	if !ok {
		return "", NewTemplateNotFoundError(name)
	}
	return source, nil
}

// Names returns the manifest entry names in unspecified order.
func (l *YAMLLoader) Names() []string {
	names := make([]string, 0, len(l.templates))
	for name := range l.templates {
		names = append(names, name)
	}
	return names
}
