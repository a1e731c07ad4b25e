package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fabrikasoft/fabrika-api/internal/utils"
)

// Rate limiter ONLY for invalid login attempts.
type InvalidAuthRateLimiter struct {
	mu       sync.Mutex
	attempts map[string]*attemptInfo
}

type attemptInfo struct {
	count   int
	firstAt time.Time
}

func NewInvalidAuthRateLimiter() *InvalidAuthRateLimiter {
	rl := &InvalidAuthRateLimiter{
		attempts: make(map[string]*attemptInfo),
	}
	go rl.cleanup()
	return rl
}

// Handle gates the login endpoint: an IP that keeps failing gets blocked for
// the rest of the window. Successful logins are never counted.
func (r *InvalidAuthRateLimiter) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !r.allow(ip) {
			utils.Error(c, 429, "TOO_MANY_ATTEMPTS", "Too many failed login attempts, try again later")
			c.Abort()
			return
		}

		c.Next()

		if c.Writer.Status() == 401 {
			r.recordFailure(ip)
		}
	}
}

// allow checks if IP can make another attempt.
// Limit: 5 failed attempts per minute.
func (r *InvalidAuthRateLimiter) allow(ip string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	info, exists := r.attempts[ip]
	if !exists {
		return true
	}
	if time.Since(info.firstAt) > time.Minute {
		delete(r.attempts, ip)
		return true
	}
	return info.count < 5
}

func (r *InvalidAuthRateLimiter) recordFailure(ip string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	info, exists := r.attempts[ip]
	if !exists || now.Sub(info.firstAt) > time.Minute {
		r.attempts[ip] = &attemptInfo{count: 1, firstAt: now}
		return
	}
	info.count++
}

func (r *InvalidAuthRateLimiter) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	for range ticker.C {
		r.mu.Lock()
		now := time.Now()
		for ip, info := range r.attempts {
			if now.Sub(info.firstAt) > time.Minute {
				delete(r.attempts, ip)
			}
		}
		r.mu.Unlock()
	}
}
