package middleware // package middleware contains reusable HTTP middleware functions

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/iliyamo/dealership-reviews/internal/utils"
)

// Context keys set by Session.
const (
	ctxUsername    = "username"
	ctxSessionHash = "session_hash"
)

// SessionValidator resolves a session hash to its username.
type SessionValidator interface {
	Validate(ctx context.Context, tokenHash string) (string, error)
}

// Session identifies the caller from the session cookie, or from a Bearer
// token for non-browser clients. It never rejects a request: anonymous
// callers simply carry no username and handlers decide what to allow.
func Session(secret, cookieName string, store SessionValidator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := sessionToken(c, cookieName)
			if raw == "" {
				return next(c)
			}
			claims, err := utils.ParseSessionToken(secret, raw)
			if err != nil {
				return next(c)
			}
			hash := utils.HashSessionID(claims.ID)
			username, err := store.Validate(c.Request().Context(), hash)
			if err != nil {
				log.Debug().Err(err).Str("username", claims.Username).Msg("session rejected")
				return next(c)
			}
			SetSession(c, username, hash)
			return next(c)
		}
	}
}

func sessionToken(c echo.Context, cookieName string) string {
	if auth := c.Request().Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	if ck, err := c.Cookie(cookieName); err == nil {
		return ck.Value
	}
	return ""
}

// SetSession marks the request as authenticated.
func SetSession(c echo.Context, username, hash string) {
	c.Set(ctxUsername, username)
	c.Set(ctxSessionHash, hash)
}

// CurrentUser returns the authenticated username, if any.
func CurrentUser(c echo.Context) (string, bool) {
	u, ok := c.Get(ctxUsername).(string)
	return u, ok && u != ""
}

// SessionHash returns the hash of the current session, if any.
func SessionHash(c echo.Context) (string, bool) {
	h, ok := c.Get(ctxSessionHash).(string)
	return h, ok && h != ""
}
