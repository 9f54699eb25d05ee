package middleware

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Bekzhanizb/GreenVerseBackend/cache"
	"github.com/Bekzhanizb/GreenVerseBackend/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CacheMiddleware caches successful GET responses per user. It is a no-op
// while Redis is disabled. Keys carry the user's cache generation read before
// the handler runs, so a response computed before a write lands under a
// generation that the write has already retired.
func CacheMiddleware(duration time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet || !cache.Enabled() {
			c.Next()
			return
		}

		userID := "anonymous"
		if user, ok := CurrentUser(c); ok {
			userID = user.ID
		}
		ctx := c.Request.Context()
		gen, err := cache.Generation(ctx, generationKey(userID))
		if err != nil {
			utils.Logger.Warn("cache_generation_failed", zap.String("user_id", userID), zap.Error(err))
			c.Next()
			return
		}
		cacheKey := userCacheKey(userID, gen, c.Request.URL.Path, c.Request.URL.RawQuery)

		var cached CachedResponse
		if err := cache.Get(ctx, cacheKey, &cached); err == nil {
			utils.Logger.Debug("cache_hit", zap.String("key", cacheKey))
			for key, values := range cached.Headers {
				for _, value := range values {
					c.Header(key, value)
				}
			}
			c.Header("X-Cache", "HIT")
			c.Data(cached.Status, cached.ContentType, cached.Body)
			c.Abort()
			return
		}

		c.Header("X-Cache", "MISS")
		blw := &bodyLogWriter{body: &bytes.Buffer{}, ResponseWriter: c.Writer}
		c.Writer = blw

		c.Next()

		if c.Writer.Status() != http.StatusOK {
			return
		}
		resp := CachedResponse{
			Status:      http.StatusOK,
			ContentType: c.Writer.Header().Get("Content-Type"),
			Body:        blw.body.Bytes(),
		}
		if err := cache.Set(ctx, cacheKey, resp, duration); err != nil {
			utils.Logger.Warn("cache_set_failed", zap.String("key", cacheKey), zap.Error(err))
		}
	}
}

type CachedResponse struct {
	Status      int         `json:"status"`
	ContentType string      `json:"content_type"`
	Body        []byte      `json:"body"`
	Headers     http.Header `json:"headers,omitempty"`
}

type bodyLogWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *bodyLogWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyLogWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

func userCacheKey(userID string, gen int64, path, query string) string {
	return fmt.Sprintf("cache:%s:%d:%s?%s", userID, gen, path, query)
}

func generationKey(userID string) string {
	return "cache_gen:" + userID
}

// InvalidateUserCache retires every cached response for the user. Writers
// call it before answering so the user's next read sees the write, even if a
// read that started earlier stores its response afterwards.
func InvalidateUserCache(ctx context.Context, userID string) {
	if !cache.Enabled() {
		return
	}
	if _, err := cache.BumpGeneration(ctx, generationKey(userID)); err != nil {
		utils.Logger.Warn("cache_invalidate_failed", zap.String("user_id", userID), zap.Error(err))
	}
	if err := cache.DeletePattern(ctx, fmt.Sprintf("cache:%s:*", userID)); err != nil {
		utils.Logger.Warn("cache_cleanup_failed", zap.String("user_id", userID), zap.Error(err))
	}
}

// RateLimitMiddleware counts requests per client IP in fixed windows. Without
// Redis, or when Redis errors, requests pass.
func RateLimitMiddleware(maxRequests int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxRequests <= 0 || !cache.Enabled() {
			c.Next()
			return
		}

		clientIP := c.ClientIP()
		count, err := cache.IncrementCounter(c.Request.Context(), "rate_limit:"+clientIP, window)
		if err != nil {
			utils.Logger.Error("rate_limit_error", zap.Error(err))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(maxRequests))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(max(0, maxRequests-int(count))))

		if count > int64(maxRequests) {
			utils.Logger.Warn("rate_limit_exceeded",
				zap.String("ip", clientIP),
				zap.Int64("count", count),
			)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}

		c.Next()
	}
}
