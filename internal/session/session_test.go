package session

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/quotes/internal/config"
	"github.com/mrlokans/quotes/internal/entities"
)

func setupManager(t *testing.T) *Manager {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "sessions.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	sm, err := NewManager(sqlDB, config.Session{Lifetime: time.Hour}, 0)
	require.NoError(t, err)
	return sm
}

func setupRouter(sm *Manager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(sm.LoadSave())
	router.POST("/shown", func(c *gin.Context) {
		sm.PutLastQuote(c.Request.Context(), entities.Quote{Text: c.PostForm("text"), Category: "Testing"})
		c.Status(http.StatusNoContent)
	})
	router.GET("/last", func(c *gin.Context) {
		quote, ok := sm.LastQuote(c.Request.Context())
		if !ok {
			c.Status(http.StatusNotFound)
			return
		}
		c.String(http.StatusOK, quote.Text)
	})
	return router
}

func postShown(text string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/shown", strings.NewReader(url.Values{"text": {text}}.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestNewManager(t *testing.T) {
	sm := setupManager(t)

	assert.Equal(t, CookieName, sm.Cookie.Name)
	assert.True(t, sm.Cookie.HttpOnly)
	assert.Equal(t, time.Hour, sm.Lifetime)
	assert.Equal(t, 30*time.Minute, sm.IdleTimeout)
}

func TestLastQuote_RoundTripsThroughCookie(t *testing.T) {
	sm := setupManager(t)
	router := setupRouter(sm)

	req := postShown("Test quote")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusNoContent, w.Code)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)

	req = httptest.NewRequest(http.MethodGet, "/last", nil)
	req.AddCookie(cookies[0])
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Test quote", w.Body.String())
}

func TestLastQuote_SessionsAreIsolated(t *testing.T) {
	sm := setupManager(t)
	router := setupRouter(sm)

	req := postShown("Test quote")
	router.ServeHTTP(httptest.NewRecorder(), req)

	// A visitor without the cookie has no last quote
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/last", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, w.Result().Cookies())
}

func TestLastQuote_StoredUnderLastQuoteKey(t *testing.T) {
	sm := setupManager(t)
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(sm.LoadSave())
	router.GET("/keys", func(c *gin.Context) {
		ctx := c.Request.Context()
		sm.PutLastQuote(ctx, entities.Quote{Text: "Test quote", Category: "Testing"})
		c.JSON(http.StatusOK, sm.Keys(ctx))
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/keys", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `["lastQuote"]`, w.Body.String())
}
