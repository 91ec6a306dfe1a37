package router // package router defines how HTTP routes are registered for the API

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/dealership-reviews/internal/handler"
)

// Deps carries the handlers and the optional middleware wired around them.
// Nil middleware is skipped.
type Deps struct {
	Auth    *handler.AuthHandler
	Dealers *handler.DealerHandler
	Reviews *handler.ReviewHandler
	Cars    *handler.CarHandler

	Session   echo.MiddlewareFunc // identifies the caller on every route
	Cache     echo.MiddlewareFunc // dealer reads
	RateLimit echo.MiddlewareFunc // login and registration

	MediaURL  string
	MediaRoot string
}

// RegisterRoutes mounts every endpoint. Paths are registered with a
// trailing slash and requests without one are rewritten before routing.
func RegisterRoutes(e *echo.Echo, d Deps) {
	mediaPrefix := strings.TrimRight(d.MediaURL, "/")
	e.Pre(echomw.AddTrailingSlashWithConfig(echomw.TrailingSlashConfig{
		Skipper: func(c echo.Context) bool {
			return mediaPrefix != "" && strings.HasPrefix(c.Request().URL.Path, mediaPrefix+"/")
		},
	}))
	if d.Session != nil {
		e.Use(d.Session)
	}

	e.GET("/healthz/", handler.Health)

	// ---- Auth ----
	limited := optional(d.RateLimit)
	e.POST("/login/", d.Auth.Login, limited...)
	e.POST("/register/", d.Auth.Register, limited...)
	e.Match([]string{http.MethodGet, http.MethodPost}, "/logout/", d.Auth.Logout)

	// ---- Dealers ----
	cached := optional(d.Cache)
	e.GET("/get_dealers/", d.Dealers.GetDealerships, cached...)
	e.GET("/get_dealers/:state/", d.Dealers.GetDealerships, cached...)
	e.GET("/dealer/:id/", d.Dealers.GetDealerDetails, cached...)
	e.GET("/local_dealers/", d.Dealers.GetLocalDealers)

	// ---- Reviews ----
	// every method reaches the handler so it can answer 405 in its own format
	e.Any("/add_review/", d.Reviews.AddReview)
	e.GET("/reviews/dealer/:id/", d.Reviews.GetDealerReviews)

	// ---- Catalog ----
	e.GET("/get_cars/", d.Cars.GetCars)

	if mediaPrefix != "" && d.MediaRoot != "" {
		e.Static(mediaPrefix, d.MediaRoot)
	}
}

func optional(m echo.MiddlewareFunc) []echo.MiddlewareFunc {
	if m == nil {
		return nil
	}
	return []echo.MiddlewareFunc{m}
}
