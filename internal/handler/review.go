package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/iliyamo/dealership-reviews/internal/middleware"
	"github.com/iliyamo/dealership-reviews/internal/model"
	"github.com/iliyamo/dealership-reviews/internal/service"
)

// maxReviewBody caps the size of a review submission.
const maxReviewBody = 64 << 10

// Reviews is what the review handlers need from the review service.
type Reviews interface {
	Post(ctx context.Context, username string, payload map[string]any) error
	DealerReviews(ctx context.Context, dealerID uint64) ([]model.Review, error)
}

type ReviewHandler struct {
	Reviews Reviews
}

func NewReviewHandler(r Reviews) *ReviewHandler {
	return &ReviewHandler{Reviews: r}
}

// AddReview is routed for every method. Checks run in a fixed order:
// method, session, body, then the required fields. A body that is not a
// JSON object answers 400 rather than a server error, and a field sent as
// null counts as missing instead of being accepted as the text "None".
func (h *ReviewHandler) AddReview(c echo.Context) error {
	if c.Request().Method != http.MethodPost {
		return statusJSON(c, http.StatusMethodNotAllowed, "Method not allowed")
	}
	username, ok := middleware.CurrentUser(c)
	if !ok {
		return statusJSON(c, http.StatusForbidden, "Unauthorized")
	}

	payload, err := readObject(c)
	if err != nil {
		return statusJSON(c, http.StatusBadRequest, "Invalid JSON body")
	}
	if field := service.MissingField(payload); field != "" {
		return statusJSON(c, http.StatusBadRequest, "Missing or empty field: "+field)
	}

	if err := h.Reviews.Post(c.Request().Context(), username, payload); err != nil {
		log.Error().Err(err).Str("username", username).Msg("post review failed")
		return statusJSON(c, http.StatusInternalServerError, "Error in posting review")
	}
	return statusJSON(c, http.StatusOK, "Review posted successfully")
}

// GetDealerReviews returns the dealer's reviews, each with a sentiment key.
func (h *ReviewHandler) GetDealerReviews(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return statusJSON(c, http.StatusBadRequest, "Bad Request")
	}
	reviews, err := h.Reviews.DealerReviews(c.Request().Context(), id)
	if err != nil {
		log.Error().Err(err).Uint64("dealer_id", id).Msg("fetch reviews failed")
		return internalError(c)
	}
	if reviews == nil {
		reviews = []model.Review{}
	}
	return c.JSON(http.StatusOK, echo.Map{"status": http.StatusOK, "reviews": reviews})
}

// readObject decodes the body as a JSON object. Arrays, scalars and null
// are rejected.
func readObject(c echo.Context) (map[string]any, error) {
	if c.Request().Body == nil {
		return nil, errEmptyBody
	}
	raw, err := io.ReadAll(io.LimitReader(c.Request().Body, maxReviewBody))
	if err != nil {
		return nil, err
	}
	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, err
	}
	if payload == nil {
		return nil, errEmptyBody
	}
	return payload, nil
}
