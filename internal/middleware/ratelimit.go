package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/course-registration/internal/response"
)

// RateLimiter is a per-IP token bucket. Each IP may burst up to rate
// requests, refilled continuously at rate per interval.
type RateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	rate     float64
	interval time.Duration
	now      func() time.Time
}

type visitor struct {
	tokens   float64
	lastSeen time.Time
}

// NewRateLimiter creates a RateLimiter, e.g. 10 requests per minute.
// Call Janitor to evict idle visitors.
func NewRateLimiter(rate int, interval time.Duration) *RateLimiter {
	return &RateLimiter{
		visitors: make(map[string]*visitor),
		rate:     float64(rate),
		interval: interval,
		now:      time.Now,
	}
}

// Allow takes one token for key, reporting whether one was available and,
// if not, how long until the next one is.
func (rl *RateLimiter) Allow(key string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	v, ok := rl.visitors[key]
	if !ok {
		v = &visitor{tokens: rl.rate, lastSeen: now}
		rl.visitors[key] = v
	}

	perToken := rl.interval / time.Duration(rl.rate)
	v.tokens = math.Min(rl.rate, v.tokens+float64(now.Sub(v.lastSeen))/float64(perToken))
	v.lastSeen = now

	if v.tokens < 1 {
		wait := time.Duration((1 - v.tokens) * float64(perToken))
		return false, wait
	}
	v.tokens--
	return true, 0
}

// Middleware returns a Gin middleware that rate-limits requests by client IP.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, wait := rl.Allow(c.ClientIP())
		if !ok {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
			response.AbortFail(c, http.StatusTooManyRequests, response.ErrRateLimitExceeded)
			return
		}
		c.Next()
	}
}

// Janitor evicts visitors idle longer than idle until stop is closed.
func (rl *RateLimiter) Janitor(idle time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			rl.evict(idle)
		}
	}
}

func (rl *RateLimiter) evict(idle time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	now := rl.now()
	for ip, v := range rl.visitors {
		if now.Sub(v.lastSeen) > idle {
			delete(rl.visitors, ip)
		}
	}
}
