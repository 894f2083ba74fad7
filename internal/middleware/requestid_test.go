package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRequestIDEngine() (*gin.Engine, *string) {
	gin.SetMode(gin.TestMode)
	var seen string
	engine := gin.New()
	engine.Use(RequestID())
	engine.GET("/ping", func(c *gin.Context) {
		seen = GetRequestID(c)
		c.Status(http.StatusOK)
	})
	return engine, &seen
}

func TestRequestIDHonorsSuppliedHeader(t *testing.T) {
	engine, seen := newRequestIDEngine()

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(HeaderXRequestID, "caller-supplied-id")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, "caller-supplied-id", *seen)
	assert.Equal(t, "caller-supplied-id", rec.Header().Get(HeaderXRequestID))
}

func TestRequestIDGeneratedWhenAbsent(t *testing.T) {
	engine, seen := newRequestIDEngine()

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	_, err := uuid.Parse(*seen)
	require.NoError(t, err)
	assert.Equal(t, *seen, rec.Header().Get(HeaderXRequestID))
}

func TestRequestIDReplacesOversizedHeader(t *testing.T) {
	engine, seen := newRequestIDEngine()

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(HeaderXRequestID, strings.Repeat("x", maxRequestIDLen+1))
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	_, err := uuid.Parse(*seen)
	require.NoError(t, err)
}
