package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/iliyamo/dealership-reviews/internal/config"
)

// cachedResponse is what gets stored in Redis for one request key.
type cachedResponse struct {
	Status int         `json:"status"`
	Header http.Header `json:"header"`
	Body   []byte      `json:"body"`
}

// bodyRecorder tees the response to the client and keeps a copy of the
// body until it grows past limit.
type bodyRecorder struct {
	http.ResponseWriter
	status   int
	body     bytes.Buffer
	limit    int
	overflow bool
}

func (r *bodyRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *bodyRecorder) Write(b []byte) (int, error) {
	if !r.overflow {
		if r.limit > 0 && r.body.Len()+len(b) > r.limit {
			r.overflow = true
			r.body.Reset()
		} else {
			r.body.Write(b)
		}
	}
	return r.ResponseWriter.Write(b)
}

// skipped headers are recomputed on replay
var skipped = map[string]bool{"Content-Length": true, "X-Cache": true, "X-Request-Id": true}

// cacheKeyFrom derives the Redis key from the concrete request path, so
// /dealer/1/ and /dealer/2/ never share an entry.
func cacheKeyFrom(cfg config.CacheConfig, c echo.Context) string {
	u := c.Request().URL
	var raw string
	switch strings.ToLower(cfg.KeyStrategy) {
	case "path":
		raw = u.Path
	case "method_path_query":
		raw = c.Request().Method + " " + u.Path + "?" + u.RawQuery
	default: // path_query
		raw = u.Path + "?" + u.RawQuery
	}
	sum := sha256.Sum256([]byte(raw))
	return cfg.Prefix + ":" + hex.EncodeToString(sum[:16])
}

// NewRedisCache replays stored 200 responses for the configured methods and
// stores fresh ones for cfg.TTL. Without a Redis client it does nothing.
func NewRedisCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 2 * time.Minute
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !cfg.Methods[c.Request().Method] {
				return next(c)
			}
			ctx := c.Request().Context()
			key := cacheKeyFrom(cfg, c)

			hit, err := loadCached(ctx, rdb, key)
			switch {
			case err == nil:
				return replay(c, hit)
			case !errors.Is(err, redis.Nil):
				log.Debug().Err(err).Str("key", key).Msg("cache read failed")
			}

			rec := &bodyRecorder{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: cfg.MaxBodyBytes}
			c.Response().Writer = rec
			c.Response().Header().Set("X-Cache", "MISS")
			if err := next(c); err != nil {
				return err
			}
			if rec.status != http.StatusOK || rec.overflow {
				return nil
			}
			entry := cachedResponse{Status: rec.status, Header: c.Response().Header().Clone(), Body: rec.body.Bytes()}
			if err := storeCached(context.WithoutCancel(ctx), rdb, key, entry, cfg.TTL); err != nil {
				log.Debug().Err(err).Str("key", key).Msg("cache write failed")
			}
			return nil
		}
	}
}

func loadCached(ctx context.Context, rdb *redis.Client, key string) (cachedResponse, error) {
	var out cachedResponse
	bs, err := rdb.Get(ctx, key).Bytes()
	if err != nil {
		return out, err
	}
	err = json.Unmarshal(bs, &out)
	return out, err
}

func storeCached(ctx context.Context, rdb *redis.Client, key string, entry cachedResponse, ttl time.Duration) error {
	bs, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return rdb.Set(ctx, key, bs, ttl).Err()
}

func replay(c echo.Context, hit cachedResponse) error {
	h := c.Response().Header()
	for k, vals := range hit.Header {
		if skipped[http.CanonicalHeaderKey(k)] {
			continue
		}
		h[k] = append([]string(nil), vals...)
	}
	h.Set("X-Cache", "HIT")
	c.Response().WriteHeader(hit.Status)
	_, err := c.Response().Write(hit.Body)
	return err
}
