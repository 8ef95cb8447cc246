package exporters

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/mrlokans/quotes/internal/entities"
)

const (
	// FileName is the download name offered for exports.
	FileName    = "quotes.json"
	ContentType = "application/json"
)

// JSONExporter writes the collection as an indented JSON array.
type JSONExporter struct {
	Indent string
}

func NewJSONExporter() *JSONExporter {
	return &JSONExporter{Indent: "  "}
}

func (e *JSONExporter) Export(w io.Writer, quotes []entities.Quote) (ExportResult, error) {
	data, err := e.Marshal(quotes)
	if err != nil {
		return ExportResult{}, err
	}
	if _, err := w.Write(data); err != nil {
		return ExportResult{}, fmt.Errorf("failed to write export: %w", err)
	}
	return ExportResult{QuotesProcessed: len(quotes)}, nil
}

// Marshal returns the export document. An empty collection is "[]".
func (e *JSONExporter) Marshal(quotes []entities.Quote) ([]byte, error) {
	if quotes == nil {
		quotes = []entities.Quote{}
	}
	data, err := json.MarshalIndent(quotes, "", e.Indent)
	if err != nil {
		return nil, fmt.Errorf("failed to encode quotes: %w", err)
	}
	return data, nil
}

// WriteFile exports to path, replacing any existing file.
func (e *JSONExporter) WriteFile(path string, quotes []entities.Quote) (ExportResult, error) {
	f, err := os.Create(path)
	if err != nil {
		return ExportResult{}, fmt.Errorf("failed to create %s: %w", path, err)
	}

	result, err := e.Export(f, quotes)
	if closeErr := f.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("failed to close %s: %w", path, closeErr)
	}
	return result, err
}

var _ QuoteExporter = (*JSONExporter)(nil)
