package http

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/quotes/internal/entities"
)

func jsonRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeList(t *testing.T, w *httptest.ResponseRecorder) QuoteListResponse {
	t.Helper()
	var response QuoteListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return response
}

func TestAddQuote(t *testing.T) {
	s := newTestServer(t)

	w := s.do(jsonRequest(http.MethodPost, "/api/quotes", `{"text":" Test quote ","category":"Testing"}`))

	require.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"text":"Test quote","category":"Testing"}`, w.Body.String())
	assert.Equal(t, 4, s.store.Len())

	created := entities.Quote{Text: "Test quote", Category: "Testing"}
	assert.Equal(t, []entities.Quote{created}, s.pusher.pushed)
	assert.Equal(t, []entities.Quote{created}, s.recorder.created)

	last, ok := s.lastQuotes.LastQuote(context.Background())
	require.True(t, ok)
	assert.Equal(t, created, last)
}

func TestAddQuote_Validation(t *testing.T) {
	bodies := map[string]string{
		"empty text":          `{"text":"","category":"Testing"}`,
		"whitespace category": `{"text":"Test quote","category":"   "}`,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			s := newTestServer(t)

			w := s.do(jsonRequest(http.MethodPost, "/api/quotes", body))

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), CodeValidation)
			assert.Equal(t, 3, s.store.Len())
			assert.Empty(t, s.pusher.pushed)
		})
	}
}

func TestAddQuote_FormBody(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/quotes", strings.NewReader("text=Form+quote&category=Testing"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := s.do(req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, 4, s.store.Len())
}

func TestListQuotes_FilterIsSavedAndRestored(t *testing.T) {
	s := newTestServer(t)

	w := s.do(httptest.NewRequest(http.MethodGet, "/api/quotes?category=Philosophy", nil))

	require.Equal(t, http.StatusOK, w.Code)
	response := decodeList(t, w)
	assert.Equal(t, "Philosophy", response.Filter)
	require.Len(t, response.Quotes, 1)
	assert.Equal(t, "To be or not to be, that is the question.", response.Quotes[0].Text)
	assert.Empty(t, response.Message)

	// Without a parameter the saved filter applies
	response = decodeList(t, s.do(httptest.NewRequest(http.MethodGet, "/api/quotes", nil)))
	assert.Equal(t, "Philosophy", response.Filter)
	assert.Len(t, response.Quotes, 1)
}

func TestListQuotes_DefaultsToAll(t *testing.T) {
	s := newTestServer(t)

	response := decodeList(t, s.do(httptest.NewRequest(http.MethodGet, "/api/quotes", nil)))

	assert.Equal(t, entities.CategoryAll, response.Filter)
	assert.Equal(t, entities.SeedQuotes(), response.Quotes)
}

func TestListQuotes_NoMatch(t *testing.T) {
	s := newTestServer(t)

	w := s.do(httptest.NewRequest(http.MethodGet, "/api/quotes?category=Nonexistent", nil))

	require.Equal(t, http.StatusOK, w.Code)
	response := decodeList(t, w)
	assert.NotNil(t, response.Quotes)
	assert.Empty(t, response.Quotes)
	assert.Equal(t, noQuotesInCategoryMessage, response.Message)
	assert.Contains(t, w.Body.String(), `"quotes":[]`)
}

func TestRandomAndLastQuote(t *testing.T) {
	s := newTestServer(t)

	w := s.do(httptest.NewRequest(http.MethodGet, "/api/quotes/last", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(httptest.NewRequest(http.MethodGet, "/api/quotes/random", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var shown entities.Quote
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &shown))
	assert.Equal(t, entities.SeedQuotes()[0], shown)

	w = s.do(httptest.NewRequest(http.MethodGet, "/api/quotes/last", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var last entities.Quote
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &last))
	assert.Equal(t, shown, last)
}

func TestCategories(t *testing.T) {
	s := newTestServer(t)
	require.NoError(t, s.settings.SetLastFilter(context.Background(), "Motivation"))

	w := s.do(httptest.NewRequest(http.MethodGet, "/api/categories", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"categories": ["all", "Motivation", "Philosophy", "Inspiration"],
		"selected": "Motivation"
	}`, w.Body.String())
}

func TestFilterEndpoints(t *testing.T) {
	s := newTestServer(t)

	w := s.do(httptest.NewRequest(http.MethodGet, "/api/filter", nil))
	assert.JSONEq(t, `{"filter":"all"}`, w.Body.String())

	w = s.do(jsonRequest(http.MethodPut, "/api/filter", `{"filter":"Inspiration"}`))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Inspiration", s.settings.GetLastFilter(context.Background()))

	w = s.do(jsonRequest(http.MethodPut, "/api/filter", `{"filter":" "}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExport(t *testing.T) {
	s := newTestServer(t)

	w := s.do(httptest.NewRequest(http.MethodGet, "/api/quotes/export", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="quotes.json"`, w.Header().Get("Content-Disposition"))
	assert.Contains(t, w.Body.String(), "\n  {\n    \"text\"")

	var exported []entities.Quote
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &exported))
	assert.Equal(t, entities.SeedQuotes(), exported)
	assert.Equal(t, []int{3}, s.recorder.exports)
}

func TestImport_RawBody(t *testing.T) {
	s := newTestServer(t)

	w := s.do(jsonRequest(http.MethodPost, "/api/quotes/import", `[{"text":"Imported","category":"Testing"}]`))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Imported 1 quotes.")
	assert.Equal(t, 4, s.store.Len())
}

func TestImport_Multipart(t *testing.T) {
	s := newTestServer(t)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", "quotes.json")
	require.NoError(t, err)
	_, err = part.Write([]byte(`[{"text":"One","category":"A"},{"text":"Two","category":"B"}]`))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/quotes/import", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := s.do(req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 5, s.store.Len())
}

func TestImport_Rejected(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantBody string
	}{
		{"invalid json", `{not json`, "Invalid JSON format."},
		{"object", `{"text":"a","category":"b"}`, CodeNotArray},
		{"invalid element", `[{"text":"a"}]`, CodeValidation},
		{"empty body", ``, "file is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)

			w := s.do(jsonRequest(http.MethodPost, "/api/quotes/import", tt.body))

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantBody)
			assert.Equal(t, entities.SeedQuotes(), s.store.All())
		})
	}
}
