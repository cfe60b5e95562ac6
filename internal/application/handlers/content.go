package handlers

import (
	"fmt"
	"os"

	"github.com/ersonp/revmod/internal/infrastructure/parsers"
)

// LoadContent reads revision content from a file. An empty or "auto" format
// picks the parser from the file extension.
func LoadContent(filePath, format string) (*parsers.RawContent, error) {
	var parser parsers.Parser
	if format == "" || format == "auto" {
		parser = parsers.ForFile(filePath)
	} else {
		parser = parsers.ForFormat(format)
	}

	if parser == nil {
		return nil, fmt.Errorf("%w: unsupported format %q for file %s", ErrInvalidRequest, format, filePath)
	}

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer file.Close()

	raw, err := parser.Parse(file)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %w", ErrInvalidRequest, filePath, err)
	}
	if err := raw.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidRequest, filePath, err)
	}
	return raw, nil
}
