package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"learnhub/internal/shared/constants"
	"learnhub/internal/shared/logger"
)

func newLimitedEngine(rl *RateLimiter, userID uint) *gin.Engine {
	engine := gin.New()
	engine.POST("/subscriptions", func(c *gin.Context) {
		if userID != 0 {
			c.Set(constants.ContextKeyUserID, userID)
		}
		c.Next()
	}, rl.Limit("subscription_write"), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})
	return engine
}

func post(engine *gin.Engine) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/subscriptions", nil))
	return w
}

func TestRateLimiter_Limit(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	rl := NewRateLimiter(client, 2, time.Minute, logger.NewNop())
	rl.now = func() time.Time { return time.Unix(1_800_000_000, 0) }

	alice := newLimitedEngine(rl, 7)
	assert.Equal(t, http.StatusCreated, post(alice).Code)

	w := post(alice)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	w = post(alice)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "rate_limited")

	// Counters are per caller.
	bob := newLimitedEngine(rl, 8)
	assert.Equal(t, http.StatusCreated, post(bob).Code)

	// A new window resets the counter.
	rl.now = func() time.Time { return time.Unix(1_800_000_000, 0).Add(time.Minute) }
	assert.Equal(t, http.StatusCreated, post(alice).Code)
}

func TestRateLimiter_FailsOpen(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	rl := NewRateLimiter(client, 1, time.Minute, logger.NewNop())
	mr.Close()

	engine := newLimitedEngine(rl, 7)
	assert.Equal(t, http.StatusCreated, post(engine).Code)
	assert.Equal(t, http.StatusCreated, post(engine).Code)
}

func TestRateLimiter_DisabledWithoutRedis(t *testing.T) {
	rl := NewRateLimiter(nil, 1, time.Minute, logger.NewNop())
	engine := newLimitedEngine(rl, 0)

	for i := 0; i < 3; i++ {
		require.Equal(t, http.StatusCreated, post(engine).Code)
	}
}

func TestRequestID(t *testing.T) {
	engine := gin.New()
	engine.Use(RequestID())
	engine.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(constants.ContextKeyRequestID))
	})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := w.Header().Get(constants.HeaderRequestID)
	assert.Len(t, generated, 36)
	assert.Equal(t, generated, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(constants.HeaderRequestID, "abc-123")
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(constants.HeaderRequestID))
}

func TestCORS(t *testing.T) {
	engine := gin.New()
	engine.Use(CORS([]string{"https://app.learnhub.io"}))
	engine.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://app.learnhub.io")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://app.learnhub.io", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
