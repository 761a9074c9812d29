package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/nkumar/cricket-auction/internal/domain"
	"gorm.io/gorm"
)

type bidRecordRepository struct {
	db *gorm.DB
}

func NewBidRecordRepository(db *gorm.DB) *bidRecordRepository {
	return &bidRecordRepository{db: db}
}

func (r *bidRecordRepository) Create(ctx context.Context, record *domain.BidRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *bidRecordRepository) GetByRoomID(ctx context.Context, roomID uuid.UUID) ([]*domain.BidRecord, error) {
	var records []*domain.BidRecord
	err := r.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("created_at ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *bidRecordRepository) GetByRoomAndPlayer(ctx context.Context, roomID uuid.UUID, playerID string) ([]*domain.BidRecord, error) {
	var records []*domain.BidRecord
	err := r.db.WithContext(ctx).
		Where("room_id = ? AND player_id = ?", roomID, playerID).
		Order("created_at ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}
