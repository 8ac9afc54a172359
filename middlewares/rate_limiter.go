package middlewares

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/readyvery/foodie-order/utils"
)

// limiterIdleTTL is how long a client's bucket is kept after its last request.
const limiterIdleTTL = 3 * time.Minute

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client IP. Buckets idle for
// longer than limiterIdleTTL are dropped when a new client shows up.
type RateLimiter struct {
	limit rate.Limit
	burst int
	ips   map[string]*clientLimiter
	mu    sync.Mutex
	now   func() time.Time
}

// NewRateLimiter allows perSecond requests per second per client IP, with
// bursts of the same size.
func NewRateLimiter(perSecond int) *RateLimiter {
	return &RateLimiter{
		limit: rate.Limit(perSecond),
		burst: perSecond,
		ips:   make(map[string]*clientLimiter),
		now:   time.Now,
	}
}

func (rl *RateLimiter) limiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	client, exists := rl.ips[ip]
	if !exists {
		rl.evictIdle(now)
		client = &clientLimiter{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.ips[ip] = client
	}
	client.lastSeen = now
	return client.limiter
}

func (rl *RateLimiter) evictIdle(now time.Time) {
	for ip, client := range rl.ips {
		if now.Sub(client.lastSeen) > limiterIdleTTL {
			delete(rl.ips, ip)
		}
	}
}

// Clients returns how many client buckets are held.
func (rl *RateLimiter) Clients() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.ips)
}

func (rl *RateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.limiter(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, utils.JSONResponse{
				Status:  false,
				Message: "Too many requests",
			})
			return
		}
		c.Next()
	}
}
