package http

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/quotes/internal/entities"
	"github.com/mrlokans/quotes/internal/exporters"
	"github.com/mrlokans/quotes/internal/metrics"
)

const (
	noQuotesInCategoryMessage = "No quotes found for this category."
	noQuotesMessage           = "No quotes available. Add one first."

	maxImportSize = 10 << 20
)

type QuotesController struct {
	store      QuoteStore
	filters    FilterStore
	importer   Importer
	pusher     LocalPusher
	lastQuotes LastQuoteStore
	recorder   QuoteRecorder
	counter    QuoteCounter
	exporter   *exporters.JSONExporter
}

// NewQuotesController creates the quotes controller. lastQuotes, recorder and
// counter may be nil.
func NewQuotesController(store QuoteStore, filters FilterStore, importer Importer, pusher LocalPusher, lastQuotes LastQuoteStore, recorder QuoteRecorder, counter QuoteCounter) *QuotesController {
	return &QuotesController{
		store:      store,
		filters:    filters,
		importer:   importer,
		pusher:     pusher,
		lastQuotes: lastQuotes,
		recorder:   recorder,
		counter:    counter,
		exporter:   exporters.NewJSONExporter(),
	}
}

// QuoteListResponse is the body of GET /api/quotes.
type QuoteListResponse struct {
	Filter  string           `json:"filter"`
	Quotes  []entities.Quote `json:"quotes"`
	Message string           `json:"message,omitempty"`
}

// AddQuoteRequest is the body of POST /api/quotes.
type AddQuoteRequest struct {
	Text     string `json:"text" form:"text"`
	Category string `json:"category" form:"category"`
}

// ListQuotes handles GET /api/quotes?category=
// An explicit category is saved as the new filter; without one the saved
// filter is applied.
func (qc *QuotesController) ListQuotes(c *gin.Context) {
	ctx := c.Request.Context()

	filter := strings.TrimSpace(c.Query("category"))
	if filter == "" {
		filter = qc.filters.GetLastFilter(ctx)
	} else if err := qc.filters.SetLastFilter(ctx, filter); err != nil {
		respondInternalError(c, err, "save filter")
		return
	}

	response := QuoteListResponse{
		Filter: filter,
		Quotes: qc.store.ByCategory(filter),
	}
	if len(response.Quotes) == 0 {
		response.Message = noQuotesInCategoryMessage
	}
	c.JSON(http.StatusOK, response)
}

// AddQuote handles POST /api/quotes
// The created quote becomes the visitor's last shown quote and is pushed to
// the remote source in the background.
func (qc *QuotesController) AddQuote(c *gin.Context) {
	var req AddQuoteRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	quote, err := qc.store.Add(c.Request.Context(), req.Text, req.Category)
	if qc.recorder != nil {
		qc.recorder.LogCreate(entities.NewQuote(req.Text, req.Category), err)
	}
	if err != nil {
		respondDomainError(c, err, "add quote")
		return
	}

	if qc.counter != nil {
		qc.counter.AddQuotes(metrics.SourceManual, 1)
	}
	if qc.lastQuotes != nil {
		qc.lastQuotes.PutLastQuote(c.Request.Context(), quote)
	}
	if qc.pusher != nil {
		qc.pusher.PushLocal(quote)
	}

	respondCreated(c, quote)
}

// RandomQuote handles GET /api/quotes/random
func (qc *QuotesController) RandomQuote(c *gin.Context) {
	quote, ok := qc.store.Random()
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: noQuotesMessage, Code: CodeEmpty})
		return
	}

	if qc.lastQuotes != nil {
		qc.lastQuotes.PutLastQuote(c.Request.Context(), quote)
	}
	c.JSON(http.StatusOK, quote)
}

// LastQuote handles GET /api/quotes/last
func (qc *QuotesController) LastQuote(c *gin.Context) {
	if qc.lastQuotes == nil {
		respondNotFound(c, "last quote")
		return
	}

	quote, ok := qc.lastQuotes.LastQuote(c.Request.Context())
	if !ok {
		respondNotFound(c, "last quote")
		return
	}
	c.JSON(http.StatusOK, quote)
}

// Categories handles GET /api/categories
// Options start with the "all" sentinel; Selected restores the saved filter.
func (qc *QuotesController) Categories(c *gin.Context) {
	options := append([]string{entities.CategoryAll}, qc.store.Categories()...)

	c.JSON(http.StatusOK, gin.H{
		"categories": options,
		"selected":   qc.filters.GetLastFilter(c.Request.Context()),
	})
}

// GetFilter handles GET /api/filter
func (qc *QuotesController) GetFilter(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"filter": qc.filters.GetLastFilter(c.Request.Context())})
}

// SetFilter handles PUT /api/filter
func (qc *QuotesController) SetFilter(c *gin.Context) {
	var req struct {
		Filter string `json:"filter" form:"filter"`
	}
	if err := c.ShouldBind(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	filter := strings.TrimSpace(req.Filter)
	if filter == "" {
		respondBadRequest(c, "filter is required")
		return
	}
	if err := qc.filters.SetLastFilter(c.Request.Context(), filter); err != nil {
		respondInternalError(c, err, "save filter")
		return
	}
	c.JSON(http.StatusOK, gin.H{"filter": filter})
}

// Export handles GET /api/quotes/export
func (qc *QuotesController) Export(c *gin.Context) {
	all := qc.store.All()

	data, err := qc.exporter.Marshal(all)
	if qc.recorder != nil {
		qc.recorder.LogExport(len(all), err)
	}
	if err != nil {
		respondInternalError(c, err, "export quotes")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exporters.FileName))
	c.Data(http.StatusOK, exporters.ContentType, data)
}

// Import handles POST /api/quotes/import
// Accepts a multipart "file" field or a raw JSON body.
func (qc *QuotesController) Import(c *gin.Context) {
	data, err := readImportPayload(c)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	result, err := qc.importer.Import(c.Request.Context(), data)
	if err != nil {
		respondDomainError(c, err, "import quotes")
		return
	}

	if qc.counter != nil {
		qc.counter.AddQuotes(metrics.SourceImport, result.QuotesImported)
	}
	c.JSON(http.StatusOK, SuccessResponse{
		Message: fmt.Sprintf("Imported %d quotes.", result.QuotesImported),
		Data:    result,
	})
}

func readImportPayload(c *gin.Context) ([]byte, error) {
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			return nil, fmt.Errorf("file is required")
		}
		if fileHeader.Size > maxImportSize {
			return nil, fmt.Errorf("file too large")
		}
		file, err := fileHeader.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to read file")
		}
		defer file.Close()
		return io.ReadAll(file)
	}

	data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxImportSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read body")
	}
	if len(data) > maxImportSize {
		return nil, fmt.Errorf("file too large")
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("file is required")
	}
	return data, nil
}
