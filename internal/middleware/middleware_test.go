package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/dealership-reviews/internal/config"
	"github.com/iliyamo/dealership-reviews/internal/utils"
)

const testSecret = "test-secret"

type fakeSessions struct {
	valid map[string]string
}

func (f fakeSessions) Validate(_ context.Context, hash string) (string, error) {
	if u, ok := f.valid[hash]; ok {
		return u, nil
	}
	return "", errors.New("revoked")
}

func runSession(t *testing.T, store SessionValidator, prepare func(*http.Request)) (string, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/add_review/", nil)
	prepare(req)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var user string
	var ok bool
	h := Session(testSecret, "sessionid", store)(func(c echo.Context) error {
		user, ok = CurrentUser(c)
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, h(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	return user, ok
}

func TestSessionFromCookie(t *testing.T) {
	tok, err := utils.NewSessionToken(testSecret, "alice", time.Hour)
	require.NoError(t, err)
	store := fakeSessions{valid: map[string]string{utils.HashSessionID(tok.SessionID): "alice"}}

	user, ok := runSession(t, store, func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: "sessionid", Value: tok.Token})
	})
	assert.True(t, ok)
	assert.Equal(t, "alice", user)
}

func TestSessionFromBearer(t *testing.T) {
	tok, err := utils.NewSessionToken(testSecret, "bob", time.Hour)
	require.NoError(t, err)
	store := fakeSessions{valid: map[string]string{utils.HashSessionID(tok.SessionID): "bob"}}

	user, ok := runSession(t, store, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+tok.Token)
	})
	assert.True(t, ok)
	assert.Equal(t, "bob", user)
}

func TestSessionRevokedIsAnonymous(t *testing.T) {
	tok, err := utils.NewSessionToken(testSecret, "alice", time.Hour)
	require.NoError(t, err)

	_, ok := runSession(t, fakeSessions{}, func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: "sessionid", Value: tok.Token})
	})
	assert.False(t, ok)
}

func TestSessionBadSignatureIsAnonymous(t *testing.T) {
	tok, err := utils.NewSessionToken("other-secret", "alice", time.Hour)
	require.NoError(t, err)
	store := fakeSessions{valid: map[string]string{utils.HashSessionID(tok.SessionID): "alice"}}

	_, ok := runSession(t, store, func(r *http.Request) {
		r.AddCookie(&http.Cookie{Name: "sessionid", Value: tok.Token})
	})
	assert.False(t, ok)
}

func TestUserIDGuest(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	assert.Equal(t, "guest", userID(c))
	c.Set(ctxUsername, "carol")
	assert.Equal(t, "carol", userID(c))
}

func TestCacheKeyUsesConcretePath(t *testing.T) {
	e := echo.New()
	cfg := config.CacheConfig{KeyStrategy: "path_query", Prefix: "dealers-cache"}

	c1 := e.NewContext(httptest.NewRequest(http.MethodGet, "/dealer/1/", nil), httptest.NewRecorder())
	c1.SetPath("/dealer/:id/")
	c2 := e.NewContext(httptest.NewRequest(http.MethodGet, "/dealer/2/", nil), httptest.NewRecorder())
	c2.SetPath("/dealer/:id/")
	c3 := e.NewContext(httptest.NewRequest(http.MethodGet, "/dealer/1/?x=1", nil), httptest.NewRecorder())

	k1, k2, k3 := cacheKeyFrom(cfg, c1), cacheKeyFrom(cfg, c2), cacheKeyFrom(cfg, c3)
	assert.NotEqual(t, k1, k2)
	assert.NotEqual(t, k1, k3)
	assert.Contains(t, k1, "dealers-cache:")

	cfg.KeyStrategy = "path"
	assert.Equal(t, cacheKeyFrom(cfg, c1), cacheKeyFrom(cfg, c3))
}

func TestBodyRecorderStopsAtLimit(t *testing.T) {
	rec := httptest.NewRecorder()
	br := &bodyRecorder{ResponseWriter: rec, status: http.StatusOK, limit: 8}

	_, err := br.Write([]byte("1234"))
	require.NoError(t, err)
	assert.False(t, br.overflow)
	assert.Equal(t, "1234", br.body.String())

	_, err = br.Write([]byte("56789"))
	require.NoError(t, err)
	assert.True(t, br.overflow)
	assert.Equal(t, "123456789", rec.Body.String())
}

func TestReplayCachedResponse(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/get_dealers/", nil), rec)
	c.Response().Header().Set(echo.HeaderXRequestID, "current")

	hit := cachedResponse{
		Status: http.StatusOK,
		Header: http.Header{
			"Content-Type":   []string{"application/json"},
			"X-Request-Id":   []string{"stale"},
			"Content-Length": []string{"999"},
		},
		Body: []byte(`{"status":200,"dealers":[]}`),
	}
	require.NoError(t, replay(c, hit))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "HIT", rec.Header().Get("X-Cache"))
	assert.Equal(t, "current", rec.Header().Get(echo.HeaderXRequestID))
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"status":200,"dealers":[]}`, rec.Body.String())
}

func TestMiddlewarePassThroughWithoutRedis(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/login/", nil), rec)

	called := 0
	h := func(c echo.Context) error { called++; return c.NoContent(http.StatusOK) }

	rl := NewTokenBucket(config.RateLimitConfig{Enabled: true, Capacity: 1}, nil)(h)
	require.NoError(t, rl(c))
	cache := NewRedisCache(config.CacheConfig{Enabled: true, Methods: map[string]bool{"GET": true}}, nil)(h)
	require.NoError(t, cache(c))

	assert.Equal(t, 2, called)
	assert.Empty(t, rec.Header().Get("X-RateLimit-Limit"))
}

func TestBuildRateKey(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/login/", nil)
	req.Header.Set(echo.HeaderXRealIP, "10.0.0.1")
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/login/")

	cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: "ip_route"}
	assert.Equal(t, "rl:ip:10.0.0.1:route:POST /login/", buildRateKey(cfg, c))

	cfg.KeyStrategy = "user"
	assert.Equal(t, "rl:user:guest", buildRateKey(cfg, c))
}

func TestRetryAfterSeconds(t *testing.T) {
	assert.Equal(t, 1, retryAfterSeconds(0))
	assert.Equal(t, 1, retryAfterSeconds(200*time.Millisecond))
	assert.Equal(t, 6, retryAfterSeconds(5100*time.Millisecond))
}
