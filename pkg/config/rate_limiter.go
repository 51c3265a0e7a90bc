package config

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// CounterStore counts requests per key inside a sliding window. The
// in-process store suits a single instance; the redis store shares
// counters across replicas.
type CounterStore interface {
	Incr(ctx context.Context, key string, window time.Duration) (int, time.Time, error)
}

type memoryCounterStore struct {
	cache *cache.Cache
	mutex sync.Mutex
}

type counterEntry struct {
	Count     int
	ResetTime time.Time
}

func NewMemoryCounterStore() CounterStore {
	return &memoryCounterStore{
		cache: cache.New(5*time.Minute, 10*time.Minute),
	}
}

func (s *memoryCounterStore) Incr(_ context.Context, key string, window time.Duration) (int, time.Time, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	now := time.Now()

	if cached, found := s.cache.Get(key); found {
		entry := cached.(counterEntry)

		if now.Before(entry.ResetTime) {
			entry.Count++
			s.cache.Set(key, entry, time.Until(entry.ResetTime))
			return entry.Count, entry.ResetTime, nil
		}
	}

	entry := counterEntry{Count: 1, ResetTime: now.Add(window)}
	s.cache.Set(key, entry, window)

	return 1, entry.ResetTime, nil
}

type redisCounterStore struct {
	client *redis.Client
}

func NewRedisCounterStore(addr string) CounterStore {
	return &redisCounterStore{
		client: redis.NewClient(&redis.Options{Addr: addr}),
	}
}

func (s *redisCounterStore) Incr(ctx context.Context, key string, window time.Duration) (int, time.Time, error) {
	pipe := s.client.TxPipeline()

	incr := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, window)
	ttl := pipe.TTL(ctx, key)

	if _, err := pipe.Exec(ctx); err != nil {
		return 0, time.Time{}, err
	}

	return int(incr.Val()), time.Now().Add(ttl.Val()), nil
}

type rateLimitRule struct {
	Requests int
	Window   time.Duration
	KeyType  string
	KeyFunc  func(*gin.Context) string
}

type RateLimiter struct {
	store   CounterStore
	rules   map[string]rateLimitRule
	logger  *zap.Logger
	metrics *AppMetrics
}

func NewRateLimiter(store CounterStore, logger *zap.Logger, metrics *AppMetrics) *RateLimiter {
	rules := map[string]rateLimitRule{
		"POST /register": {Requests: 5, Window: time.Minute, KeyType: "ip", KeyFunc: clientIP},
		"POST /login":    {Requests: 10, Window: time.Minute, KeyType: "ip", KeyFunc: clientIP},
		"GET /tasks":     {Requests: 100, Window: time.Minute, KeyType: "user", KeyFunc: userKey},
		"POST /tasks":    {Requests: 20, Window: time.Minute, KeyType: "user", KeyFunc: userKey},
		"default":        {Requests: 60, Window: time.Minute, KeyType: "ip", KeyFunc: clientIP},
	}

	return &RateLimiter{
		store:   store,
		rules:   rules,
		logger:  logger,
		metrics: metrics,
	}
}

func (rl *RateLimiter) SetRule(methodPath string, requests int, window time.Duration) {
	rule := rateLimitRule{Requests: requests, Window: window, KeyType: "ip", KeyFunc: clientIP}

	if existing, ok := rl.rules[methodPath]; ok {
		rule.KeyType = existing.KeyType
		rule.KeyFunc = existing.KeyFunc
	}

	rl.rules[methodPath] = rule
}

func (rl *RateLimiter) RateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.FullPath()

		if path == "" {
			path = c.Request.URL.Path
		}

		methodPath := c.Request.Method + " " + path

		rule, exists := rl.rules[methodPath]

		if !exists {
			rule = rl.rules["default"]
		}

		key := fmt.Sprintf("ratelimit:%s:%s", methodPath, rule.KeyFunc(c))

		count, reset, err := rl.store.Incr(c.Request.Context(), key, rule.Window)

		if err != nil {
			// A broken counter backend should not block traffic.
			rl.logger.Warn("Rate limit store failure", zap.Error(err))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(rule.Requests))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(max(rule.Requests-count, 0)))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(reset.Unix(), 10))

		if count > rule.Requests {
			rl.metrics.RecordRateLimitHit(c.Request.Context(), path, rule.KeyType)

			rl.logger.Info("Rate limit exceeded",
				zap.String("path", methodPath),
				zap.String("key", key),
				zap.Int("count", count),
			)

			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": gin.H{
					"code": "RATE_LIMITED",
					"errors": []gin.H{
						{"field": "request", "message": "Demasiadas solicitudes, intenta más tarde"},
					},
				},
			})

			return
		}

		rl.metrics.RecordRateLimitAllowed(c.Request.Context(), path, rule.KeyType)
		c.Next()
	}
}

func clientIP(c *gin.Context) string {
	return "ip:" + c.ClientIP()
}

func userKey(c *gin.Context) string {
	if userId, exists := c.Get("x-user-id"); exists {
		return fmt.Sprintf("user:%v", userId)
	}

	return clientIP(c)
}
