package stache

import (
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"go.uber.org/zap"
)

// FileConfig is the on-disk engine configuration shape, loadable from a YAML
// or JSON file. It covers the facets that make sense outside code; resolvers,
// handlers and checks stay programmatic.
type FileConfig struct {
	// MaxRecursionDepth caps render nesting. 0 keeps the default.
	MaxRecursionDepth int `koanf:"max_recursion_depth"`

	// TemplateDir, when set, installs a FileLoader rooted there as the
	// template loader.
	TemplateDir string `koanf:"template_dir"`

	// TemplateExtension overrides the FileLoader suffix. Default ".mustache".
	TemplateExtension string `koanf:"template_extension"`

	// PartialsFile, when set, installs a YAMLLoader over the manifest as the
	// partial loader.
	PartialsFile string `koanf:"partials_file"`

	// DisableHTMLEscape turns off escaping for default interpolations.
	DisableHTMLEscape bool `koanf:"disable_html_escape"`
}

const koanfDelim = "."

// LoadConfig reads an engine configuration file. The parser is chosen by
// file extension: .json gets the JSON parser, everything else YAML.
func LoadConfig(path string, logger *zap.Logger) (*FileConfig, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	k := koanf.New(koanfDelim)

	parser := configParser(path)
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, NewConfigError(ErrMsgConfigLoad, path, err)
	}

	config := &FileConfig{}
	if err := k.Unmarshal("", config); err != nil {
		return nil, NewConfigError(ErrMsgConfigUnmarshal, path, err)
	}
	logger.Debug(LogMsgConfigLoaded, zap.String(LogFieldPath, path))
	return config, nil
}

func configParser(path string) koanf.Parser {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return json.Parser()
	}
	return yaml.Parser()
}

// Options converts the file configuration into engine options. Loader
// construction failures surface here rather than at engine construction,
// which stays infallible.
func (c *FileConfig) Options(logger *zap.Logger) ([]Option, error) {
	var opts []Option
	if c.MaxRecursionDepth > 0 {
		opts = append(opts, WithMaxRecursionDepth(c.MaxRecursionDepth))
	}
	if c.TemplateDir != "" {
		loader, err := NewFileLoader(c.TemplateDir, c.TemplateExtension, logger)
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithTemplateLoader(loader))
	}
	if c.PartialsFile != "" {
		loader, err := NewYAMLLoaderFromFile(c.PartialsFile)
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithPartialLoader(loader))
	}
	if c.DisableHTMLEscape {
		opts = append(opts, WithRenderSettings(RenderOptions{DisableHTMLEscape: true}))
	}
	if logger != nil {
		opts = append(opts, WithLogger(logger))
	}
	return opts, nil
}

// NewFromConfigFile loads a configuration file and builds an Engine from it.
func NewFromConfigFile(path string, logger *zap.Logger, extra ...Option) (*Engine, error) {
	config, err := LoadConfig(path, logger)
	if err != nil {
		return nil, err
	}
	opts, err := config.Options(logger)
	if err != nil {
		return nil, err
	}
	return New(append(opts, extra...)...), nil
}
