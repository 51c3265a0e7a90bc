package config

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

func newTestRateLimiter() *RateLimiter {
	return NewRateLimiter(
		NewMemoryCounterStore(),
		zap.NewNop(),
		NewAppMetrics(prometheus.NewRegistry()),
	)
}

func TestMemoryCounterStore_CountsWithinWindow(t *testing.T) {
	RegisterTestingT(t)

	store := NewMemoryCounterStore()

	for i := 1; i <= 3; i++ {
		count, _, err := store.Incr(context.Background(), "k", time.Minute)

		Expect(err).To(BeNil())
		Expect(count).To(Equal(i))
	}
}

func TestMemoryCounterStore_ResetsAfterWindow(t *testing.T) {
	RegisterTestingT(t)

	store := NewMemoryCounterStore()

	count, _, _ := store.Incr(context.Background(), "k", 10*time.Millisecond)
	Expect(count).To(Equal(1))

	count, _, _ = store.Incr(context.Background(), "k", 10*time.Millisecond)
	Expect(count).To(Equal(2))

	time.Sleep(20 * time.Millisecond)

	count, _, _ = store.Incr(context.Background(), "k", 10*time.Millisecond)
	Expect(count).To(Equal(1))
}

func TestMemoryCounterStore_IndependentKeys(t *testing.T) {
	RegisterTestingT(t)

	store := NewMemoryCounterStore()

	store.Incr(context.Background(), "a", time.Minute)
	count, _, _ := store.Incr(context.Background(), "b", time.Minute)

	Expect(count).To(Equal(1))
}

func limiterRouter(rl *RateLimiter) *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(rl.RateLimitMiddleware())
	router.POST("/register", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	return router
}

func TestRateLimitMiddleware_BlocksAfterLimit(t *testing.T) {
	RegisterTestingT(t)

	rl := newTestRateLimiter()
	rl.SetRule("POST /register", 2, time.Minute)

	router := limiterRouter(rl)

	for i := 0; i < 2; i++ {
		req, _ := http.NewRequest("POST", "/register", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		Expect(rr.Code).To(Equal(http.StatusOK))
	}

	req, _ := http.NewRequest("POST", "/register", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	Expect(rr.Code).To(Equal(http.StatusTooManyRequests))
	Expect(rr.Body.String()).To(ContainSubstring("Demasiadas solicitudes"))
}

func TestRateLimitMiddleware_SetsHeaders(t *testing.T) {
	RegisterTestingT(t)

	rl := newTestRateLimiter()
	router := limiterRouter(rl)

	req, _ := http.NewRequest("POST", "/register", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	Expect(rr.Header().Get("X-RateLimit-Limit")).To(Equal("5"))
	Expect(rr.Header().Get("X-RateLimit-Remaining")).To(Equal("4"))
	Expect(rr.Header().Get("X-RateLimit-Reset")).NotTo(BeEmpty())
}

func TestRateLimiter_SetRuleKeepsKeyType(t *testing.T) {
	RegisterTestingT(t)

	rl := newTestRateLimiter()
	rl.SetRule("GET /tasks", 50, time.Minute)

	Expect(rl.rules["GET /tasks"].KeyType).To(Equal("user"))
	Expect(rl.rules["GET /tasks"].Requests).To(Equal(50))
}

type failingStore struct{}

func (failingStore) Incr(context.Context, string, time.Duration) (int, time.Time, error) {
	return 0, time.Time{}, context.DeadlineExceeded
}

func TestRateLimitMiddleware_StoreFailureAllowsRequest(t *testing.T) {
	RegisterTestingT(t)

	rl := NewRateLimiter(failingStore{}, zap.NewNop(), NewAppMetrics(prometheus.NewRegistry()))
	router := limiterRouter(rl)

	req, _ := http.NewRequest("POST", "/register", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	Expect(rr.Code).To(Equal(http.StatusOK))
}
