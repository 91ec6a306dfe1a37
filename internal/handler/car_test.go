package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/dealership-reviews/internal/database"
	"github.com/iliyamo/dealership-reviews/internal/repository"
	"github.com/iliyamo/dealership-reviews/internal/service"
)

func TestGetCarsSeedsOnce(t *testing.T) {
	ctx := context.Background()
	db, err := database.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.Migrate(ctx, db, "sqlite"))

	repo := repository.NewCarRepo(db)
	h := NewCarHandler(service.NewCatalogService(repo, repository.DefaultCatalog))

	get := func() map[string]any {
		rec := httptest.NewRecorder()
		c := newEcho().NewContext(httptest.NewRequest(http.MethodGet, "/get_cars/", nil), rec)
		require.NoError(t, h.GetCars(c))
		require.Equal(t, http.StatusOK, rec.Code)
		return decodeBody(t, rec)
	}

	first := get()
	models, ok := first["CarModels"].([]any)
	require.True(t, ok)
	require.NotEmpty(t, models)
	entry := models[0].(map[string]any)
	assert.NotEmpty(t, entry["CarModel"])
	assert.NotEmpty(t, entry["CarMake"])

	makes, err := repo.CountMakes(ctx)
	require.NoError(t, err)

	second := get()
	assert.Len(t, second["CarModels"], len(models))
	again, err := repo.CountMakes(ctx)
	require.NoError(t, err)
	assert.Equal(t, makes, again)
	assert.Equal(t, len(repository.DefaultCatalog), again)
}
