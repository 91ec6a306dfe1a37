package handler // package handler contains one HTTP handler per route

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

// dbTimeout bounds every database call made from a handler.
const dbTimeout = 5 * time.Second

var errEmptyBody = errors.New("empty body")

// statusJSON writes the {status, message} envelope used by the dealer and
// review endpoints.
func statusJSON(c echo.Context, code int, msg string) error {
	return c.JSON(code, echo.Map{"status": code, "message": msg})
}

func internalError(c echo.Context) error {
	return statusJSON(c, http.StatusInternalServerError, "Internal Server Error")
}

// parseID reads the :id path parameter as a positive integer.
func parseID(c echo.Context) (uint64, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(c.Param("id")), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// decodeJSON reads the request body as JSON regardless of Content-Type.
func decodeJSON(c echo.Context, v any) error {
	body := c.Request().Body
	if body == nil {
		return errEmptyBody
	}
	return json.NewDecoder(body).Decode(v)
}
