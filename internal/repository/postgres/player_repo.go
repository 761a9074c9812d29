package postgres

import (
	"context"

	"github.com/nkumar/cricket-auction/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type catalogPlayerRepository struct {
	db *gorm.DB
}

func NewCatalogPlayerRepository(db *gorm.DB) *catalogPlayerRepository {
	return &catalogPlayerRepository{db: db}
}

func (r *catalogPlayerRepository) UpsertMany(ctx context.Context, players []*domain.CatalogPlayer) error {
	if len(players) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(players).Error
}

func (r *catalogPlayerRepository) GetAll(ctx context.Context) ([]*domain.CatalogPlayer, error) {
	var players []*domain.CatalogPlayer
	err := r.db.WithContext(ctx).Order("id ASC").Find(&players).Error
	if err != nil {
		return nil, err
	}
	return players, nil
}

func (r *catalogPlayerRepository) GetByID(ctx context.Context, id string) (*domain.CatalogPlayer, error) {
	var player domain.CatalogPlayer
	err := r.db.WithContext(ctx).First(&player, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &player, nil
}
