package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/nkumar/cricket-auction/internal/domain"
	"gorm.io/gorm"
)

type participantRepository struct {
	db *gorm.DB
}

func NewParticipantRepository(db *gorm.DB) *participantRepository {
	return &participantRepository{db: db}
}

func (r *participantRepository) Create(ctx context.Context, participant *domain.Participant) error {
	return r.db.WithContext(ctx).Create(participant).Error
}

func (r *participantRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Participant, error) {
	var participant domain.Participant
	err := r.db.WithContext(ctx).
		Preload("User").
		First(&participant, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &participant, nil
}

func (r *participantRepository) GetByRoomAndUser(ctx context.Context, roomID, userID uuid.UUID) (*domain.Participant, error) {
	var participant domain.Participant
	err := r.db.WithContext(ctx).
		Preload("User").
		First(&participant, "room_id = ? AND user_id = ?", roomID, userID).Error
	if err != nil {
		return nil, err
	}
	return &participant, nil
}

func (r *participantRepository) GetByRoomID(ctx context.Context, roomID uuid.UUID) ([]*domain.Participant, error) {
	var participants []*domain.Participant
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("room_id = ?", roomID).
		Order("created_at ASC").
		Find(&participants).Error
	if err != nil {
		return nil, err
	}
	return participants, nil
}

// ClaimFranchise assigns a franchise in a single UPDATE; the (room_id,
// franchise) unique index turns a lost race into ErrFranchiseTaken instead of
// two owners of the same franchise.
func (r *participantRepository) ClaimFranchise(ctx context.Context, participantID uuid.UUID, franchise string) error {
	err := r.db.WithContext(ctx).
		Model(&domain.Participant{}).
		Where("id = ?", participantID).
		Update("franchise", franchise).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrFranchiseTaken
	}
	return err
}

func (r *participantRepository) Update(ctx context.Context, participant *domain.Participant) error {
	return r.db.WithContext(ctx).Save(participant).Error
}
