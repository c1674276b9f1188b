package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"github.com/pageza/userprofile/backend/internal/testhelpers"
)

func limitedRouter(rl *RateLimiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/", rl.RateLimitMiddleware(), func(c *gin.Context) { c.Status(http.StatusCreated) })
	return router
}

func post(router *gin.Engine, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.RemoteAddr = remoteAddr
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimiterDisabled(t *testing.T) {
	var nilLimiter *RateLimiter
	for _, rl := range []*RateLimiter{
		nilLimiter,
		NewProfileCreationRateLimiter(nil, 10),
		NewProfileCreationRateLimiter(redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"}), 0),
	} {
		assert.False(t, rl.Enabled())
		router := limitedRouter(rl)
		for i := 0; i < 3; i++ {
			w := post(router, "10.0.0.1:1234")
			assert.Equal(t, http.StatusCreated, w.Code)
			assert.Empty(t, w.Header().Get("X-RateLimit-Limit"))
		}
	}
}

func TestRateLimiterFailsOpen(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond, MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })

	w := post(limitedRouter(NewProfileCreationRateLimiter(client, 1)), "10.0.0.1:1234")
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "rate limit check failed", w.Header().Get("X-RateLimit-Error"))
}

func TestRateLimiterWithRedis(t *testing.T) {
	client := testhelpers.SetupRedis(t)
	rl := NewProfileCreationRateLimiter(client, 2)
	fixed := time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)
	rl.now = func() time.Time { return fixed }
	router := limitedRouter(rl)

	w := post(router, "10.0.0.1:1234")
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, strconv.FormatInt(fixed.Truncate(time.Hour).Add(time.Hour).Unix(), 10), w.Header().Get("X-RateLimit-Reset"))

	assert.Equal(t, http.StatusCreated, post(router, "10.0.0.1:1234").Code)

	w = post(router, "10.0.0.1:1234")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1800", w.Header().Get("Retry-After"))

	// Other clients have their own budget.
	w = post(router, "10.0.0.2:1234")
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "1", w.Header().Get("X-RateLimit-Remaining"))
}
