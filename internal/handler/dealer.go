package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/iliyamo/dealership-reviews/internal/model"
)

// DealerSource is the remote dealer backend.
type DealerSource interface {
	FetchDealers(ctx context.Context, state string) ([]model.Dealer, error)
	FetchDealer(ctx context.Context, id uint64) (json.RawMessage, error)
}

// LocalDealers reads dealerships from the local store.
type LocalDealers interface {
	ListAll(ctx context.Context) ([]model.Dealership, error)
	ListByState(ctx context.Context, state string) ([]model.Dealership, error)
}

type DealerHandler struct {
	Remote DealerSource
	Local  LocalDealers
}

func NewDealerHandler(remote DealerSource, local LocalDealers) *DealerHandler {
	return &DealerHandler{Remote: remote, Local: local}
}

// GetDealerships lists all dealers, or the dealers of :state unless it is
// "All".
func (h *DealerHandler) GetDealerships(c echo.Context) error {
	state := strings.TrimSpace(c.Param("state"))
	dealers, err := h.Remote.FetchDealers(c.Request().Context(), state)
	if err != nil {
		log.Error().Err(err).Str("state", state).Msg("fetch dealers failed")
		return internalError(c)
	}
	if dealers == nil {
		dealers = []model.Dealer{}
	}
	return c.JSON(http.StatusOK, echo.Map{"status": http.StatusOK, "dealers": dealers})
}

// GetDealerDetails passes the backend's dealer payload through unchanged.
func (h *DealerHandler) GetDealerDetails(c echo.Context) error {
	id, ok := parseID(c)
	if !ok {
		return statusJSON(c, http.StatusBadRequest, "Bad Request")
	}
	dealer, err := h.Remote.FetchDealer(c.Request().Context(), id)
	if err != nil {
		log.Error().Err(err).Uint64("dealer_id", id).Msg("fetch dealer failed")
		return internalError(c)
	}
	return c.JSON(http.StatusOK, echo.Map{"status": http.StatusOK, "dealer": dealer})
}

// GetLocalDealers lists dealerships from the local table, optionally
// filtered by ?state=.
func (h *DealerHandler) GetLocalDealers(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	var (
		list []model.Dealership
		err  error
	)
	if state := strings.TrimSpace(c.QueryParam("state")); state != "" && state != "All" {
		list, err = h.Local.ListByState(ctx, state)
	} else {
		list, err = h.Local.ListAll(ctx)
	}
	if err != nil {
		log.Error().Err(err).Msg("list local dealerships failed")
		return internalError(c)
	}
	if list == nil {
		list = []model.Dealership{}
	}
	return c.JSON(http.StatusOK, echo.Map{"status": http.StatusOK, "dealers": list})
}
