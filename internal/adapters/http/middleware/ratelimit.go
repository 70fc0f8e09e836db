package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/quoteshorts/api/internal/adapters/http/dto"
)

// RateLimitConfig controls the per-client token bucket.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained request rate each client gets.
	RequestsPerSecond float64

	// Burst is the bucket size, the number of requests a client may fire
	// at once before the sustained rate applies.
	Burst int

	// TTL is how long an idle client's bucket is retained.
	TTL time.Duration
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// rateLimiter tracks one token bucket per client IP.
type rateLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientLimiter
	cfg     RateLimitConfig
	stop    chan struct{}
}

func (rl *rateLimiter) get(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cl, ok := rl.clients[ip]
	if !ok {
		cl = &clientLimiter{
			limiter: rate.NewLimiter(rate.Limit(rl.cfg.RequestsPerSecond), rl.cfg.Burst),
		}
		rl.clients[ip] = cl
	}

	cl.lastSeen = time.Now()

	return cl.limiter
}

// sweep drops buckets that have been idle longer than the TTL. It runs
// until the stop channel closes.
func (rl *rateLimiter) sweep() {
	ticker := time.NewTicker(rl.cfg.TTL)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			rl.mu.Lock()
			for ip, cl := range rl.clients {
				if time.Since(cl.lastSeen) > rl.cfg.TTL {
					delete(rl.clients, ip)
				}
			}
			rl.mu.Unlock()
		}
	}
}

func newRateLimiter(cfg RateLimitConfig) *rateLimiter {
	if cfg.TTL <= 0 {
		cfg.TTL = 3 * time.Minute
	}

	return &rateLimiter{
		clients: make(map[string]*clientLimiter),
		cfg:     cfg,
		stop:    make(chan struct{}),
	}
}

// RateLimit returns middleware that throttles clients by IP with a token
// bucket. Clients over the limit get 429 with the standard envelope. The
// idle-bucket sweeper it starts lives as long as the process, matching the
// lifetime of the router it is installed on.
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	rl := newRateLimiter(cfg)
	go rl.sweep()

	return func(c *gin.Context) {
		if !rl.get(c.ClientIP()).Allow() {
			dto.Abort(c, http.StatusTooManyRequests, "too many requests, slow down")
			return
		}

		c.Next()
	}
}
