package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRateLimitedEngine(cfg RateLimiterConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(NewRateLimiter(cfg).RateLimit())
	engine.GET("/ping", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return engine
}

func doRequest(engine *gin.Engine, remoteAddr string) int {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = remoteAddr
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec.Code
}

func TestRateLimitExhaustedBurst(t *testing.T) {
	engine := newRateLimitedEngine(RateLimiterConfig{Rate: 0, Burst: 2})

	assert.Equal(t, http.StatusOK, doRequest(engine, "10.0.0.1:1234"))
	assert.Equal(t, http.StatusOK, doRequest(engine, "10.0.0.1:1234"))
	assert.Equal(t, http.StatusTooManyRequests, doRequest(engine, "10.0.0.1:1234"))
}

// One client burning through its budget must not affect another client's
// bucket.
func TestRateLimitIsPerClient(t *testing.T) {
	engine := newRateLimitedEngine(RateLimiterConfig{Rate: 0, Burst: 1})

	require.Equal(t, http.StatusOK, doRequest(engine, "10.0.0.1:1234"))
	require.Equal(t, http.StatusTooManyRequests, doRequest(engine, "10.0.0.1:1234"))

	assert.Equal(t, http.StatusOK, doRequest(engine, "10.0.0.2:1234"))
}
