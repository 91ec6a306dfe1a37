package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/iliyamo/dealership-reviews/internal/model"
)

// CarCatalog returns the seeded car catalog.
type CarCatalog interface {
	Cars(ctx context.Context) ([]model.CarModel, error)
}

type CarHandler struct {
	Catalog CarCatalog
}

func NewCarHandler(cat CarCatalog) *CarHandler {
	return &CarHandler{Catalog: cat}
}

type carEntry struct {
	CarModel string `json:"CarModel"`
	CarMake  string `json:"CarMake"`
}

// GetCars lists every model with its make, seeding the catalog on first use.
func (h *CarHandler) GetCars(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	models, err := h.Catalog.Cars(ctx)
	if err != nil {
		log.Error().Err(err).Msg("load car catalog failed")
		return internalError(c)
	}
	out := make([]carEntry, 0, len(models))
	for _, m := range models {
		e := carEntry{CarModel: m.Name}
		if m.Make != nil {
			e.CarMake = m.Make.Name
		}
		out = append(out, e)
	}
	return c.JSON(http.StatusOK, echo.Map{"CarModels": out})
}
