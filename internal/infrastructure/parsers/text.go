package parsers

import (
	"fmt"
	"io"
	"strings"
)

// TextParser reads plain text or markdown: the first non-empty line is the
// title (leading '#' stripped) and the rest is the body.
type TextParser struct{}

// Parse reads the whole input.
func (p *TextParser) Parse(r io.Reader) (*RawContent, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading text: %w", err)
	}

	text := strings.TrimLeft(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")
	title, body, _ := strings.Cut(text, "\n")
	title = strings.TrimSpace(strings.TrimLeft(title, "#"))

	return &RawContent{
		Title: title,
		Body:  strings.Trim(body, "\n"),
	}, nil
}
