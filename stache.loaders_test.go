package stache

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringLoader(t *testing.T) {
	source, err := StringLoader{}.Load(context.Background(), "Hello {{name}}")
	require.NoError(t, err)
	assert.Equal(t, "Hello {{name}}", source)
}

func TestMapLoader(t *testing.T) {
	loader := NewMapLoader(map[string]string{"greet": "Hi"})
	ctx := context.Background()

	t.Run("returns stored source", func(t *testing.T) {
		source, err := loader.Load(ctx, "greet")
		require.NoError(t, err)
		assert.Equal(t, "Hi", source)
	})

	t.Run("missing name fails", func(t *testing.T) {
		_, err := loader.Load(ctx, "missing")
		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMsgTemplateNotFound)
	})

	t.Run("Set adds templates", func(t *testing.T) {
		loader.Set("bye", "Bye")
		source, err := loader.Load(ctx, "bye")
		require.NoError(t, err)
		assert.Equal(t, "Bye", source)
	})

	t.Run("seed map is copied", func(t *testing.T) {
		seed := map[string]string{"a": "1"}
		l := NewMapLoader(seed)
		seed["b"] = "2"
		_, err := l.Load(ctx, "b")
		require.Error(t, err)
	})

	t.Run("honors context cancellation", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := loader.Load(cancelled, "greet")
		require.Error(t, err)
	})
}

func TestFileLoader(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "greet.mustache"), []byte("Hi {{name}}"), 0o600))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "sub"), 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(root, "sub", "inner.mustache"), []byte("deep"), 0o600))

	loader, err := NewFileLoader(root, "", nil)
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("loads by name with default extension", func(t *testing.T) {
		source, err := loader.Load(ctx, "greet")
		require.NoError(t, err)
		assert.Equal(t, "Hi {{name}}", source)
	})

	t.Run("subdirectory names resolve", func(t *testing.T) {
		source, err := loader.Load(ctx, filepath.Join("sub", "inner"))
		require.NoError(t, err)
		assert.Equal(t, "deep", source)
	})

	t.Run("missing file fails as not found", func(t *testing.T) {
		_, err := loader.Load(ctx, "ghost")
		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMsgTemplateNotFound)
	})

	t.Run("names escaping the root are rejected", func(t *testing.T) {
		_, err := loader.Load(ctx, "../evil")
		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMsgUnsafeName)
	})

	t.Run("empty root is rejected", func(t *testing.T) {
		_, err := NewFileLoader("", "", nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMsgInvalidLoaderRoot)
	})

	t.Run("custom extension", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(root, "plain.txt"), []byte("txt"), 0o600))
		l, err := NewFileLoader(root, ".txt", nil)
		require.NoError(t, err)
		source, err := l.Load(ctx, "plain")
		require.NoError(t, err)
		assert.Equal(t, "txt", source)
	})
}

func TestYAMLLoader(t *testing.T) {
	ctx := context.Background()

	t.Run("parses a manifest of named templates", func(t *testing.T) {
		manifest := []byte("header: \"<h1>{{title}}</h1>\"\nfooter: \"<footer>{{year}}</footer>\"\n")
		loader, err := NewYAMLLoader(manifest)
		require.NoError(t, err)

		source, err := loader.Load(ctx, "header")
		require.NoError(t, err)
		assert.Equal(t, "<h1>{{title}}</h1>", source)
		assert.ElementsMatch(t, []string{"header", "footer"}, loader.Names())
	})

	t.Run("missing entry fails as not found", func(t *testing.T) {
		loader, err := NewYAMLLoader([]byte("a: b\n"))
		require.NoError(t, err)
		_, err = loader.Load(ctx, "z")
		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMsgTemplateNotFound)
	})

	t.Run("invalid manifest fails", func(t *testing.T) {
		_, err := NewYAMLLoader([]byte("{"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMsgManifestParse)
	})

	t.Run("loads from file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "partials.yaml")
		require.NoError(t, os.WriteFile(path, []byte("greet: \"Hi {{name}}\"\n"), 0o600))

		loader, err := NewYAMLLoaderFromFile(path)
		require.NoError(t, err)

		engine := New(WithPartialLoader(loader))
		out := mustRender(t, engine, "{{>greet}}!", map[string]any{"name": "Ana"})
		assert.Equal(t, "Hi Ana!", out)
	})
}

func TestPostgresLoader_ConfigValidation(t *testing.T) {
	_, err := NewPostgresLoader(PostgresLoaderConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrMsgPostgresEmptyConnString)
}
