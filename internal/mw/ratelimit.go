package mw

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// ClientLimiter keeps one token bucket per client address.
type ClientLimiter struct {
	clients map[string]*rate.Limiter
	mu      sync.RWMutex
	r       rate.Limit
	b       int
}

// NewClientLimiter creates a ClientLimiter allowing r requests per second with burst b.
func NewClientLimiter(r rate.Limit, b int) *ClientLimiter {
	return &ClientLimiter{
		clients: make(map[string]*rate.Limiter),
		r:       r,
		b:       b,
	}
}

// limiter returns the bucket for addr, creating it on first use.
func (l *ClientLimiter) limiter(addr string) *rate.Limiter {
	l.mu.RLock()
	lim, ok := l.clients[addr]
	l.mu.RUnlock()
	if ok {
		return lim
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if lim, ok = l.clients[addr]; ok {
		return lim
	}
	lim = rate.NewLimiter(l.r, l.b)
	l.clients[addr] = lim
	return lim
}

// Allow reports whether addr may make another request now.
func (l *ClientLimiter) Allow(addr string) bool {
	return l.limiter(addr).Allow()
}

// RateLimit rejects clients that exceed their bucket with 429.
func RateLimit(l *ClientLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.Allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
			return
		}
		c.Next()
	}
}
