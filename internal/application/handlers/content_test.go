package handlers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadContent(t *testing.T) {
	tests := []struct {
		name      string
		file      string
		content   string
		format    string
		wantTitle string
		wantBody  string
	}{
		{"json by extension", "page.json", `{"title": "Hello", "body": "World"}`, "", "Hello", "World"},
		{"yaml by extension", "page.yaml", "title: Hello\nbody: World\n", "auto", "Hello", "World"},
		{"markdown", "page.md", "# Hello\n\nWorld\n", "", "Hello", "World"},
		{"explicit format overrides extension", "page.txt", `{"title": "Hello"}`, "json", "Hello", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := LoadContent(writeFile(t, tt.file, tt.content), tt.format)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTitle, raw.Title)
			assert.Equal(t, tt.wantBody, raw.Body)
		})
	}
}

func TestLoadContent_Errors(t *testing.T) {
	t.Run("unsupported format", func(t *testing.T) {
		_, err := LoadContent(writeFile(t, "page.csv", "a,b"), "csv")
		require.ErrorIs(t, err, ErrInvalidRequest)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadContent(filepath.Join(t.TempDir(), "nope.json"), "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "opening file")
	})

	t.Run("malformed json", func(t *testing.T) {
		_, err := LoadContent(writeFile(t, "page.json", `{"title":`), "")
		require.ErrorIs(t, err, ErrInvalidRequest)
	})

	t.Run("no title", func(t *testing.T) {
		_, err := LoadContent(writeFile(t, "page.json", `{"body": "only"}`), "")
		require.ErrorIs(t, err, ErrInvalidRequest)
		assert.Contains(t, err.Error(), "no title")
	})
}
