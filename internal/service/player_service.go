package service

import (
	"context"
	"time"

	"github.com/nkumar/cricket-auction/internal/domain"
	"github.com/nkumar/cricket-auction/internal/repository"
	"github.com/rs/zerolog/log"
)

type PlayerService struct {
	playerRepo repository.CatalogPlayerRepository
}

func NewPlayerService(playerRepo repository.CatalogPlayerRepository) *PlayerService {
	return &PlayerService{playerRepo: playerRepo}
}

func (s *PlayerService) GetAll(ctx context.Context) ([]*domain.CatalogPlayer, error) {
	return s.playerRepo.GetAll(ctx)
}

// SeedDefault upserts the built-in catalog. Idempotent; safe to call on every
// startup.
func (s *PlayerService) SeedDefault(ctx context.Context) error {
	players := DefaultCatalog()
	now := time.Now()
	for _, p := range players {
		p.LastSyncedAt = now
	}
	if err := s.playerRepo.UpsertMany(ctx, players); err != nil {
		return err
	}
	log.Info().Int("count", len(players)).Msg("seeded player catalog")
	return nil
}
