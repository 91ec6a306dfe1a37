package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/dealership-reviews/internal/database"
	"github.com/iliyamo/dealership-reviews/internal/repository"
)

func TestCatalogSeedsOnceUnderConcurrency(t *testing.T) {
	db, err := database.Open("sqlite", ":memory:")
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, database.Migrate(context.Background(), db, "sqlite"))

	repo := repository.NewCarRepo(db)
	svc := NewCatalogService(repo, repository.DefaultCatalog)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cars, err := svc.Cars(context.Background())
			assert.NoError(t, err)
			assert.NotEmpty(t, cars)
		}()
	}
	wg.Wait()

	n, err := repo.CountMakes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, len(repository.DefaultCatalog), n)

	first, err := svc.Cars(context.Background())
	require.NoError(t, err)
	second, err := svc.Cars(context.Background())
	require.NoError(t, err)
	assert.Equal(t, len(first), len(second))
}
