package importers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mrlokans/quotes/internal/entities"
	"github.com/mrlokans/quotes/internal/quotes"
)

// InvalidJSONMessage is shown to users when a document cannot be parsed.
const InvalidJSONMessage = "Invalid JSON format."

var (
	ErrInvalidJSON = errors.New("invalid JSON format")
	ErrNotArray    = errors.New("imported JSON must be an array of quotes")
)

// Parse decodes an import document. Quotes are returned trimmed.
func Parse(data []byte) ([]entities.Quote, error) {
	trimmed := bytes.TrimSpace(data)
	if !json.Valid(trimmed) {
		return nil, ErrInvalidJSON
	}
	if trimmed[0] != '[' {
		return nil, ErrNotArray
	}

	var elements []json.RawMessage
	if err := json.Unmarshal(trimmed, &elements); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}

	parsed := make([]entities.Quote, 0, len(elements))
	for i, element := range elements {
		var q entities.Quote
		if err := json.Unmarshal(element, &q); err != nil {
			return nil, &quotes.ValidationError{Field: "quote", Index: i, Reason: "not an object with text and category"}
		}
		q = entities.NewQuote(q.Text, q.Category)
		if q.Text == "" {
			return nil, &quotes.ValidationError{Field: "text", Index: i}
		}
		if q.Category == "" {
			return nil, &quotes.ValidationError{Field: "category", Index: i}
		}
		parsed = append(parsed, q)
	}
	return parsed, nil
}
