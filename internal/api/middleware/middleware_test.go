package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(mw...)
	ok := func(c *gin.Context) { c.Status(http.StatusNoContent) }
	r.POST("/x", ok)
	r.GET("/x", ok)
	return r
}

func do(r http.Handler, method, body, contentType string) int {
	req := httptest.NewRequest(method, "/x", strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestDeduplicationRejectsRepeatedPost(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := newEngine(NewDeduplicator(ctx, time.Minute).Middleware())

	assert.Equal(t, http.StatusNoContent, do(r, http.MethodPost, `{"a":1}`, "application/json"))
	assert.Equal(t, http.StatusTooManyRequests, do(r, http.MethodPost, `{"a":1}`, "application/json"))
	assert.Equal(t, http.StatusNoContent, do(r, http.MethodPost, `{"a":2}`, "application/json"))

	// binary uploads and GETs pass through
	assert.Equal(t, http.StatusNoContent, do(r, http.MethodPost, "RIFF", "audio/wav"))
	assert.Equal(t, http.StatusNoContent, do(r, http.MethodPost, "RIFF", "audio/wav"))
	assert.Equal(t, http.StatusNoContent, do(r, http.MethodGet, "", ""))
	assert.Equal(t, http.StatusNoContent, do(r, http.MethodGet, "", ""))
}

func TestDeduplicationIgnoresEmptyBodies(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := newEngine(NewDeduplicator(ctx, time.Minute).Middleware())
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusNoContent, do(r, http.MethodPost, "", ""))
		assert.Equal(t, http.StatusNoContent, do(r, http.MethodPost, "", "application/json"))
	}
}

func TestDeduplicationDisabled(t *testing.T) {
	r := newEngine(NewDeduplicator(context.Background(), 0).Middleware())
	assert.Equal(t, http.StatusNoContent, do(r, http.MethodPost, "", ""))
	assert.Equal(t, http.StatusNoContent, do(r, http.MethodPost, "", ""))
}

func TestRateLimitByIP(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := newEngine(RateLimitByIP(ctx, 2, time.Minute))
	assert.Equal(t, http.StatusNoContent, do(r, http.MethodGet, "", ""))
	assert.Equal(t, http.StatusNoContent, do(r, http.MethodGet, "", ""))
	assert.Equal(t, http.StatusTooManyRequests, do(r, http.MethodGet, "", ""))
}

func TestBodySizeLimit(t *testing.T) {
	r := newEngine(BodySizeLimit(4))
	assert.Equal(t, http.StatusRequestEntityTooLarge, do(r, http.MethodPost, "0123456789", "application/json"))
	assert.Equal(t, http.StatusNoContent, do(r, http.MethodPost, "012", "application/json"))
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(Recovery())
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
}
