package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"postflow/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newAuthRouter(tm *auth.TokenManager) *gin.Engine {
	r := gin.New()
	r.GET("/me", JWTAuthMiddleware(tm, zap.NewNop()), func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": user.ID.String(), "name": user.Name})
	})
	return r
}

func TestJWTAuthMiddleware(t *testing.T) {
	tm := auth.NewTokenManager([]byte("secret"), time.Hour)
	id := uuid.Must(uuid.NewV4())
	token, _, err := tm.Issue(id, "Ana")
	require.NoError(t, err)
	r := newAuthRouter(tm)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"valid token", "Bearer " + token, http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + token, http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-jwt", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
			if tt.want == http.StatusOK {
				assert.Contains(t, w.Body.String(), id.String())
			}
		})
	}
}

func TestIPRateLimiter_Window(t *testing.T) {
	rl := NewIPRateLimiter(2, time.Minute)
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		ok, err := rl.Allow(ctx, "1.2.3.4")
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, _ := rl.Allow(ctx, "1.2.3.4")
	assert.False(t, ok, "third hit inside the window")

	ok, _ = rl.Allow(ctx, "5.6.7.8")
	assert.True(t, ok, "other keys have their own budget")

	now = now.Add(61 * time.Second)
	ok, _ = rl.Allow(ctx, "1.2.3.4")
	assert.True(t, ok, "window slid past the old hits")
}

func TestIPRateLimiter_DropsIdleKeys(t *testing.T) {
	rl := NewIPRateLimiter(5, time.Minute)
	now := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 100; i++ {
		_, err := rl.Allow(ctx, fmt.Sprintf("10.0.0.%d", i))
		require.NoError(t, err)
	}
	assert.Len(t, rl.requests, 100)

	now = now.Add(2 * time.Minute)
	ok, err := rl.Allow(ctx, "10.0.1.1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Len(t, rl.requests, 1)
}

type failingLimiter struct{}

func (failingLimiter) Allow(context.Context, string) (bool, error) {
	return false, errors.New("redis down")
}

func TestRateLimitMiddleware(t *testing.T) {
	r := gin.New()
	r.GET("/limited", RateLimitMiddleware(NewIPRateLimiter(1, time.Minute), zap.NewNop()), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	r.GET("/open", RateLimitMiddleware(failingLimiter{}, zap.NewNop()), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	do := func(path string) int {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		return w.Code
	}

	assert.Equal(t, http.StatusNoContent, do("/limited"))
	assert.Equal(t, http.StatusTooManyRequests, do("/limited"))
	assert.Equal(t, http.StatusNoContent, do("/open"))
}
