package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// ClientLimiter caps requests per caller over a fixed window. Counters live
// in memory; a multi-instance deployment gets per-instance limits.
type ClientLimiter struct {
	mu     sync.Mutex
	seen   map[string]*requestWindow
	limit  int
	window time.Duration
}

type requestWindow struct {
	start time.Time
	count int
}

func NewClientLimiter(limit int, window time.Duration) *ClientLimiter {
	l := &ClientLimiter{
		seen:   make(map[string]*requestWindow),
		limit:  limit,
		window: window,
	}
	go l.evict()
	return l
}

// Allow counts one request for key and reports whether it fits the window.
func (l *ClientLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := time.Now()
	w, ok := l.seen[key]
	if !ok || now.Sub(w.start) >= l.window {
		l.seen[key] = &requestWindow{start: now, count: 1}
		return true
	}
	if w.count >= l.limit {
		return false
	}
	w.count++
	return true
}

func (l *ClientLimiter) evict() {
	tick := time.NewTicker(5 * time.Minute)
	for range tick.C {
		l.mu.Lock()
		cutoff := time.Now().Add(-l.window)
		for k, w := range l.seen {
			if w.start.Before(cutoff) {
				delete(l.seen, k)
			}
		}
		l.mu.Unlock()
	}
}

// RateLimit keys authenticated callers by user ID so clients behind one NAT
// do not share a bucket; anonymous requests fall back to the client IP.
// Register it after AuthRequired on protected groups to get the user key.
func RateLimit(l *ClientLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "ip:" + c.ClientIP()
		if id := GetUserID(c); id != 0 {
			key = "u:" + strconv.FormatUint(uint64(id), 10)
		}
		if !l.Allow(key) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
