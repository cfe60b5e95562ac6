package parsers

import (
	"encoding/json"
	"fmt"
	"io"
)

// JSONParser parses content from a JSON object.
type JSONParser struct{}

// Parse reads a JSON object with title, body and log_message fields.
func (p *JSONParser) Parse(r io.Reader) (*RawContent, error) {
	var content RawContent

	decoder := json.NewDecoder(r)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&content); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}

	return &content, nil
}
