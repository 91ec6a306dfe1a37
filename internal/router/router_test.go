package router

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/dealership-reviews/internal/config"
	"github.com/iliyamo/dealership-reviews/internal/handler"
)

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()
	media := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(media, "logo.txt"), []byte("logo"), 0o644))

	e := echo.New()
	e.Validator = handler.NewValidator()
	RegisterRoutes(e, Deps{
		Auth:      handler.NewAuthHandler(config.Config{SessionCookie: "sessionid"}, nil, nil),
		Dealers:   handler.NewDealerHandler(nil, nil),
		Reviews:   handler.NewReviewHandler(nil),
		Cars:      handler.NewCarHandler(nil),
		MediaURL:  "/media/",
		MediaRoot: media,
	})
	return e
}

func serve(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestTrailingSlashOptional(t *testing.T) {
	e := newTestServer(t)
	for _, p := range []string{"/healthz", "/healthz/"} {
		rec := serve(e, http.MethodGet, p, "")
		assert.Equal(t, http.StatusOK, rec.Code, p)
		assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	}
	for _, p := range []string{"/dealer/abc", "/dealer/abc/"} {
		rec := serve(e, http.MethodGet, p, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, p)
	}
}

func TestAddReviewAnyMethodReachesHandler(t *testing.T) {
	e := newTestServer(t)
	for _, m := range []string{http.MethodGet, http.MethodPut, http.MethodPatch} {
		rec := serve(e, m, "/add_review/", "")
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code, m)
		assert.JSONEq(t, `{"status":405,"message":"Method not allowed"}`, rec.Body.String())
	}
	rec := serve(e, http.MethodPost, "/add_review", `{}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestLoginValidationThroughRouter(t *testing.T) {
	e := newTestServer(t)
	rec := serve(e, http.MethodPost, "/login", `{"password":"pw"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "userName is required")
}

func TestLogoutMethods(t *testing.T) {
	e := newTestServer(t)
	for _, m := range []string{http.MethodGet, http.MethodPost} {
		rec := serve(e, m, "/logout/", "")
		assert.Equal(t, http.StatusOK, rec.Code, m)
		assert.JSONEq(t, `{"userName":""}`, rec.Body.String())
	}
}

func TestMediaServedWithoutSlashRewrite(t *testing.T) {
	e := newTestServer(t)
	rec := serve(e, http.MethodGet, "/media/logo.txt", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "logo", rec.Body.String())
}
