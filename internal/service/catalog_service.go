package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/iliyamo/dealership-reviews/internal/model"
	"github.com/iliyamo/dealership-reviews/internal/repository"
)

// CarCatalog is the storage the catalog service needs.
type CarCatalog interface {
	CountMakes(ctx context.Context) (int, error)
	SeedIfEmpty(ctx context.Context, makes []repository.SeedMake) (bool, error)
	ListModels(ctx context.Context) ([]model.CarModel, error)
}

// CatalogService serves the car make/model catalog, seeding it on first use.
type CatalogService struct {
	repo CarCatalog
	seed []repository.SeedMake
	mu   sync.Mutex
}

func NewCatalogService(repo CarCatalog, seed []repository.SeedMake) *CatalogService {
	return &CatalogService{repo: repo, seed: seed}
}

// Cars seeds the catalog when car_makes is empty and returns every model
// joined with its make.
func (s *CatalogService) Cars(ctx context.Context) ([]model.CarModel, error) {
	if err := s.ensureSeeded(ctx); err != nil {
		return nil, err
	}
	return s.repo.ListModels(ctx)
}

func (s *CatalogService) ensureSeeded(ctx context.Context) error {
	n, err := s.repo.CountMakes(ctx)
	if err != nil || n > 0 {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	seeded, err := s.repo.SeedIfEmpty(ctx, s.seed)
	if err != nil {
		return err
	}
	if seeded {
		log.Info().Int("makes", len(s.seed)).Msg("car catalog seeded")
	}
	return nil
}
