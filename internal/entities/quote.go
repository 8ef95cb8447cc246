package entities

import "strings"

// CategoryAll is the filter sentinel selecting every quote.
const CategoryAll = "all"

// Quote is a text/category pair. Quotes have no identity beyond their content.
type Quote struct {
	Text     string `json:"text"`
	Category string `json:"category"`
}

// NewQuote returns a quote with both fields trimmed.
func NewQuote(text, category string) Quote {
	return Quote{
		Text:     strings.TrimSpace(text),
		Category: strings.TrimSpace(category),
	}
}

// IsValid reports whether both fields are non-empty after trimming.
func (q Quote) IsValid() bool {
	return strings.TrimSpace(q.Text) != "" && strings.TrimSpace(q.Category) != ""
}

// SeedQuotes returns the default collection used when nothing has been saved yet.
func SeedQuotes() []Quote {
	return []Quote{
		{Text: "The journey of a thousand miles begins with one step.", Category: "Motivation"},
		{Text: "To be or not to be, that is the question.", Category: "Philosophy"},
		{Text: "Stay hungry, stay foolish.", Category: "Inspiration"},
	}
}
