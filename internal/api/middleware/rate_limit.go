package middleware

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"moodchef/internal/pkg/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// limiterInfo 每個 IP 的限流器與最後使用時間
type limiterInfo struct {
	limiter  *rate.Limiter
	mu       sync.Mutex
	lastSeen time.Time
}

// RateLimitByIP 每個 IP 在 window 內最多 requests 次，可短時間突發
func RateLimitByIP(ctx context.Context, requests int, window time.Duration) gin.HandlerFunc {
	if requests <= 0 || window <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	var limiters sync.Map
	every := rate.Every(window / time.Duration(requests))

	go func() {
		ticker := time.NewTicker(window)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				limiters.Range(func(key, value interface{}) bool {
					info := value.(*limiterInfo)
					info.mu.Lock()
					idle := time.Since(info.lastSeen) > 2*window
					info.mu.Unlock()
					if idle {
						limiters.Delete(key)
					}
					return true
				})
			}
		}
	}()

	return func(c *gin.Context) {
		ip := c.ClientIP()

		actual, _ := limiters.LoadOrStore(ip, &limiterInfo{
			limiter:  rate.NewLimiter(every, requests),
			lastSeen: time.Now(),
		})
		info := actual.(*limiterInfo)
		info.mu.Lock()
		info.lastSeen = time.Now()
		info.mu.Unlock()

		if !info.limiter.Allow() {
			common.LogInfo("rate limit exceeded",
				zap.String("ip", ip),
				zap.String("path", c.Request.URL.Path),
			)
			c.Header("Retry-After", fmt.Sprintf("%d", int(window.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, common.ErrTooManyRequests.Response(false))
			return
		}

		c.Next()
	}
}
