package exporters

import (
	"io"

	"github.com/mrlokans/quotes/internal/entities"
)

type QuoteExporter interface {
	Export(w io.Writer, quotes []entities.Quote) (ExportResult, error)
}

type ExportResult struct {
	QuotesProcessed int `json:"quotes_processed"`
}
