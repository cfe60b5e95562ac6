// Package parsers provides parsers for reading revision content from files.
package parsers

import (
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/ersonp/revmod/internal/domain/entities"
)

// RawContent is revision content parsed from an external source before validation.
type RawContent struct {
	Title      string `json:"title" yaml:"title"`
	Body       string `json:"body" yaml:"body"`
	LogMessage string `json:"log_message,omitempty" yaml:"log_message,omitempty"`
}

// Content converts the parsed fields to revision content.
func (c RawContent) Content() entities.Content {
	return entities.Content{
		Title: strings.TrimSpace(c.Title),
		Body:  c.Body,
	}
}

// Validate checks that the content has a title.
func (c RawContent) Validate() error {
	if strings.TrimSpace(c.Title) == "" {
		return errors.New("content has no title")
	}
	return nil
}

// Parser defines the interface for parsing revision content.
type Parser interface {
	Parse(r io.Reader) (*RawContent, error)
}

// ForFormat returns the appropriate parser for the given format.
// Supported formats: "json", "yaml", "text".
func ForFormat(format string) Parser {
	switch strings.ToLower(format) {
	case "json":
		return &JSONParser{}
	case "yaml", "yml":
		return &YAMLParser{}
	case "text", "txt", "md", "markdown":
		return &TextParser{}
	default:
		return nil
	}
}

// ForFile returns the appropriate parser based on file extension. Files
// without a recognised extension are read as plain text.
func ForFile(filename string) Parser {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".json":
		return &JSONParser{}
	case ".yaml", ".yml":
		return &YAMLParser{}
	default:
		return &TextParser{}
	}
}
