package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/nkumar/cricket-auction/internal/domain"
	"gorm.io/gorm"
)

type auctionStateRepository struct {
	db *gorm.DB
}

func NewAuctionStateRepository(db *gorm.DB) *auctionStateRepository {
	return &auctionStateRepository{db: db}
}

func (r *auctionStateRepository) Create(ctx context.Context, state *domain.AuctionState) error {
	return r.db.WithContext(ctx).Create(state).Error
}

func (r *auctionStateRepository) GetByRoomID(ctx context.Context, roomID uuid.UUID) (*domain.AuctionState, error) {
	var state domain.AuctionState
	err := r.db.WithContext(ctx).First(&state, "room_id = ?", roomID).Error
	if err != nil {
		return nil, err
	}
	return &state, nil
}

// UpdateCAS is the only write path for auction state. The version predicate
// makes concurrent writers lose cleanly: zero rows affected means someone
// else advanced the state first and the caller must re-read.
func (r *auctionStateRepository) UpdateCAS(ctx context.Context, state *domain.AuctionState, expectedVersion int) error {
	result := r.db.WithContext(ctx).
		Model(&domain.AuctionState{}).
		Where("room_id = ? AND version = ?", state.RoomID, expectedVersion).
		Select("*").
		Omit("id", "room_id", "created_at").
		Updates(state)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrStaleState
	}
	return nil
}
