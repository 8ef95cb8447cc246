package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrlokans/quotes/internal/importers"
	"github.com/mrlokans/quotes/internal/quotes"
	"github.com/mrlokans/quotes/internal/remote"
	"github.com/mrlokans/quotes/internal/syncagent"
)

// --- Response Types ---

// ErrorResponse is the standard error response format for all API errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`    // machine-readable error code
	Details any    `json:"details,omitempty"` // additional context (validation errors, etc.)
}

// SuccessResponse is a standard success response with optional data.
type SuccessResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// Error codes
const (
	CodeValidation  = "validation_error"
	CodeInvalidJSON = "invalid_json"
	CodeNotArray    = "not_array"
	CodeEmpty       = "empty"
	CodeUpstream    = "upstream_error"
)

// --- Error Response Helpers ---

func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message})
}

func respondNotFound(c *gin.Context, resource string) {
	c.JSON(http.StatusNotFound, ErrorResponse{Error: resource + " not found"})
}

// respondInternalError logs the error and sends a 500 Internal Server Error response.
// The actual error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, err error, context string) {
	zap.S().Errorf("Internal error (%s): %v", context, err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorResponse{Error: message})
}

// respondDomainError maps quote, import and transport errors to a status code.
// Anything it does not recognise is an internal error.
func respondDomainError(c *gin.Context, err error, context string) {
	var validationErr *quotes.ValidationError
	switch {
	case errors.Is(err, importers.ErrInvalidJSON):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: importers.InvalidJSONMessage, Code: CodeInvalidJSON})
	case errors.Is(err, importers.ErrNotArray):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: importers.ErrNotArray.Error(), Code: CodeNotArray})
	case errors.As(err, &validationErr):
		details := gin.H{"field": validationErr.Field}
		if validationErr.Index >= 0 {
			details["index"] = validationErr.Index
		}
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: validationErr.Error(), Code: CodeValidation, Details: details})
	case isUpstreamError(err):
		zap.S().Warnf("Upstream error (%s): %v", context, err)
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "remote source unavailable", Code: CodeUpstream})
	default:
		respondInternalError(c, err, context)
	}
}

func isUpstreamError(err error) bool {
	var serverErr *remote.ServerError
	var statusErr *remote.StatusError
	return errors.Is(err, syncagent.ErrFetch) ||
		errors.Is(err, remote.ErrRateLimited) ||
		errors.As(err, &serverErr) ||
		errors.As(err, &statusErr)
}

// --- Success Response Helpers ---

func respondSuccess(c *gin.Context, message string) {
	c.JSON(http.StatusOK, SuccessResponse{Message: message})
}

func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// respondAccepted sends a 202 Accepted response (for async operations).
func respondAccepted(c *gin.Context, message string, data any) {
	c.JSON(http.StatusAccepted, SuccessResponse{Message: message, Data: data})
}

// --- Parameter Parsing ---

// parsePage reads page/limit query parameters, clamping limit to [1, maxLimit].
func parsePage(c *gin.Context, defaultLimit, maxLimit int) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > maxLimit {
		limit = defaultLimit
	}
	return page, limit
}
