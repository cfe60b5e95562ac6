package parsers

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// YAMLParser parses content from a YAML mapping.
type YAMLParser struct{}

// Parse reads a YAML mapping with title, body and log_message keys.
func (p *YAMLParser) Parse(r io.Reader) (*RawContent, error) {
	var content RawContent

	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&content); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("parsing YAML: empty document")
		}
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}

	return &content, nil
}
