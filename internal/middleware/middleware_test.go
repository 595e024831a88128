// internal/middleware/middleware_test.go
package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"

	"github.com/javajoker/catalog-admin/internal/config"
)

func testEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(handlers...)
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	return r
}

func get(r *gin.Engine, header http.Header) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodGet, "/ping", nil)
	for k, v := range header {
		req.Header.Set(k, v[0])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimiterBlocksBurst(t *testing.T) {
	limiter := NewRateLimiter(rate.Every(time.Hour), 2)
	r := testEngine(limiter.Middleware())

	assert.Equal(t, http.StatusOK, get(r, nil).Code)
	assert.Equal(t, http.StatusOK, get(r, nil).Code)
	w := get(r, nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "RATE_LIMITED")
}

func TestRateLimiterEvictsIdle(t *testing.T) {
	limiter := NewRateLimiter(rate.Every(time.Hour), 1)
	limiter.getVisitor("10.0.0.1")

	limiter.evict(time.Now().Add(time.Minute))
	assert.Len(t, limiter.visitors, 1)

	limiter.evict(time.Now().Add(10 * time.Minute))
	assert.Empty(t, limiter.visitors)
}

func TestUploadLimiterPacing(t *testing.T) {
	limiter := NewUploadLimiter(config.RateLimitConfig{UploadPerMinute: 30, UploadBurst: 5})
	assert.Equal(t, rate.Every(2*time.Second), limiter.rate)
	assert.Equal(t, 5, limiter.burst)
}

func TestRequestID(t *testing.T) {
	r := testEngine(RequestID(), RequestLogger())

	w := get(r, nil)
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	w = get(r, http.Header{RequestIDHeader: []string{"abc-123"}})
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	r := testEngine(CORS(config.CORSConfig{AllowedOrigins: []string{"https://admin.example.com"}}))

	w := get(r, http.Header{"Origin": []string{"https://admin.example.com"}})
	assert.Equal(t, "https://admin.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	w = get(r, http.Header{"Origin": []string{"https://evil.example.com"}})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestCORSWildcard(t *testing.T) {
	r := testEngine(CORS(config.CORSConfig{AllowedOrigins: []string{"*"}, AllowCredentials: true}))

	w := get(r, http.Header{"Origin": []string{"https://any.example.com"}})
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
