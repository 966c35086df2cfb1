package ingestion

import (
	"fmt"
	"unicode/utf8"
)

// TextExtractor converts raw document bytes into plain text for the
// pipeline. The default handles plain text and markdown; richer formats
// plug in behind this interface.
type TextExtractor interface {
	// Extract returns the text content of the raw document bytes.
	Extract(key string, data []byte) (string, error)
}

// PlainTextExtractor treats the document bytes as UTF-8 text.
type PlainTextExtractor struct{}

// Extract validates the bytes are UTF-8 and returns them unchanged.
func (PlainTextExtractor) Extract(key string, data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", fmt.Errorf("document %q is not valid UTF-8 text", key)
	}
	return string(data), nil
}
