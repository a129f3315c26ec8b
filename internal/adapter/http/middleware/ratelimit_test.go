package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	redisStore "payulot/internal/adapter/storage/redis"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func rateLimitedRouter(t *testing.T, limit int64) *gin.Engine {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	store := redisStore.NewRateLimitStore(client)

	r := gin.New()
	rule := RateLimitRule{Limit: limit, Window: time.Minute}
	r.POST("/charge", RateLimiter(store, "charge", rule, zerolog.Nop()), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{})
	})
	return r
}

func TestRateLimiter_AllowsUnderLimit(t *testing.T) {
	r := rateLimitedRouter(t, 3)

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/charge", nil))
		assert.Equal(t, http.StatusOK, w.Code, "request %d", i+1)
	}
}

func TestRateLimiter_BlocksOverLimit(t *testing.T) {
	r := rateLimitedRouter(t, 2)

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/charge", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/charge", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "RATE_001")
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestRateLimiter_SetsHeaders(t *testing.T) {
	r := rateLimitedRouter(t, 10)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/charge", nil))

	assert.Equal(t, "10", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "9", w.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, w.Header().Get("X-RateLimit-Reset"))
}
