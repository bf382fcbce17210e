package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestAllowCapsRequestsPerWindow(t *testing.T) {
	l := NewClientLimiter(2, time.Minute)

	assert.True(t, l.Allow("u:1"))
	assert.True(t, l.Allow("u:1"))
	assert.False(t, l.Allow("u:1"))

	// Other keys get their own window.
	assert.True(t, l.Allow("u:2"))
}

func TestAllowResetsAfterWindow(t *testing.T) {
	l := NewClientLimiter(1, 20*time.Millisecond)

	assert.True(t, l.Allow("u:1"))
	assert.False(t, l.Allow("u:1"))
	time.Sleep(30 * time.Millisecond)
	assert.True(t, l.Allow("u:1"))
}

func TestRateLimitKeysByUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	limited := RateLimit(NewClientLimiter(1, time.Minute))
	r.GET("/as/:id", func(c *gin.Context) {
		var id uint
		if c.Param("id") == "1" {
			id = 1
		} else {
			id = 2
		}
		c.Set("user_id", id)
		c.Next()
	}, limited, func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	do := func(path string) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		r.ServeHTTP(w, req)
		return w.Code
	}

	// Same client IP throughout; the user ID decides the bucket.
	assert.Equal(t, http.StatusOK, do("/as/1"))
	assert.Equal(t, http.StatusTooManyRequests, do("/as/1"))
	assert.Equal(t, http.StatusOK, do("/as/2"))
}

func TestRateLimitFallsBackToClientIP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ping", RateLimit(NewClientLimiter(1, time.Minute)), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	do := func(addr string) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = addr
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, do("10.0.0.1:1234"))
	assert.Equal(t, http.StatusTooManyRequests, do("10.0.0.1:1234"))
	assert.Equal(t, http.StatusOK, do("10.0.0.2:1234"))
}
