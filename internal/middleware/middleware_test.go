package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakec/hms-backend/internal/model"
	"github.com/sakec/hms-backend/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTokens(t *testing.T) *service.TokenService {
	t.Helper()
	tokens, err := service.NewTokenService("test-secret")
	require.NoError(t, err)
	return tokens
}

func issue(t *testing.T, tokens *service.TokenService, role model.Role) string {
	t.Helper()
	tok, err := tokens.Issue(model.PublicUser{ID: uuid.New(), Username: "u", Role: role}, time.Hour)
	require.NoError(t, err)
	return tok
}

func gatedRouter(tokens *service.TokenService) *gin.Engine {
	r := gin.New()
	r.GET("/any", Authenticate(tokens), func(c *gin.Context) {
		c.String(http.StatusOK, GetClaims(c).Username)
	})
	r.GET("/admin", Authenticate(tokens), RequireRole(model.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.GET("/student", Authenticate(tokens), RequireRole(model.RoleStudent), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.GET("/norole", RequireRole(model.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func TestAuthorizationGateMatrix(t *testing.T) {
	tokens := newTokens(t)
	other, err := service.NewTokenService("other-secret")
	require.NoError(t, err)

	admin := issue(t, tokens, model.RoleAdmin)
	student := issue(t, tokens, model.RoleStudent)
	forged := issue(t, other, model.RoleAdmin)

	tests := []struct {
		name   string
		path   string
		header string
		want   int
	}{
		{"no header", "/any", "", http.StatusUnauthorized},
		{"bare token without scheme", "/any", admin, http.StatusUnauthorized},
		{"garbage token", "/any", "Bearer not.a.token", http.StatusUnauthorized},
		{"wrong signing secret", "/any", "Bearer " + forged, http.StatusUnauthorized},
		{"any role on open route", "/any", "Bearer " + student, http.StatusOK},
		{"admin on admin route", "/admin", "Bearer " + admin, http.StatusOK},
		{"student on admin route", "/admin", "Bearer " + student, http.StatusForbidden},
		{"student on student route", "/student", "Bearer " + student, http.StatusOK},
		{"admin on student route", "/student", "Bearer " + admin, http.StatusForbidden},
		{"role gate without claims", "/norole", "", http.StatusForbidden},
	}

	r := gatedRouter(tokens)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestAuthenticateWSReadsQueryToken(t *testing.T) {
	tokens := newTokens(t)
	r := gin.New()
	r.GET("/ws", AuthenticateWS(tokens), RequireRole(model.RoleStudent), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ws?token="+issue(t, tokens, model.RoleStudent), nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ws", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func hit(r *gin.Engine) int {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	r.ServeHTTP(w, req)
	return w.Code
}

func limitedRouter(rl *RateLimiter) *gin.Engine {
	r := gin.New()
	r.POST("/login", rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestRateLimiterRedisWindow(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	rl := NewRateLimiter(rdb, 2, time.Minute, zerolog.Nop())
	fixed := time.Unix(1_700_000_000, 0)
	rl.now = func() time.Time { return fixed }
	r := limitedRouter(rl)

	assert.Equal(t, http.StatusOK, hit(r))
	assert.Equal(t, http.StatusOK, hit(r))
	assert.Equal(t, http.StatusTooManyRequests, hit(r))

	fixed = fixed.Add(time.Minute)
	assert.Equal(t, http.StatusOK, hit(r))
}

func TestRateLimiterFailsOpenWhenRedisDown(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })
	mr.Close()

	r := limitedRouter(NewRateLimiter(rdb, 1, time.Minute, zerolog.Nop()))
	assert.Equal(t, http.StatusOK, hit(r))
	assert.Equal(t, http.StatusOK, hit(r))
}

func TestRateLimiterLocalBucket(t *testing.T) {
	rl := NewRateLimiter(nil, 1, time.Minute, zerolog.Nop())
	now := time.Unix(1_700_000_000, 0)
	rl.now = func() time.Time { return now }
	r := limitedRouter(rl)

	assert.Equal(t, http.StatusOK, hit(r))
	assert.Equal(t, http.StatusTooManyRequests, hit(r))

	now = now.Add(time.Minute)
	assert.Equal(t, http.StatusOK, hit(r))
}
