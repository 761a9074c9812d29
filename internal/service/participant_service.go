package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/nkumar/cricket-auction/internal/domain"
	"github.com/nkumar/cricket-auction/internal/repository"
	"gorm.io/gorm"
)

// ParticipantService is the ledger's join/claim surface. Budget debits happen
// only inside the auction loop's sell transition, never here.
type ParticipantService struct {
	repos *repository.Repositories
}

func NewParticipantService(repos *repository.Repositories) *ParticipantService {
	return &ParticipantService{repos: repos}
}

// Join adds the user to the room with the room's full budget. Rejoining
// returns the existing participant unchanged.
func (s *ParticipantService) Join(ctx context.Context, roomID, userID uuid.UUID) (*domain.Participant, error) {
	existing, err := s.repos.Participant.GetByRoomAndUser(ctx, roomID, userID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	room, err := s.repos.Room.GetByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}

	participant := &domain.Participant{
		ID:              uuid.New(),
		RoomID:          room.ID,
		UserID:          userID,
		RemainingBudget: room.BudgetPerTeam,
	}
	if err := s.repos.Participant.Create(ctx, participant); err != nil {
		// Unique (room_id, user_id): a concurrent join already inserted.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return s.repos.Participant.GetByRoomAndUser(ctx, roomID, userID)
		}
		return nil, err
	}
	return participant, nil
}

// ClaimFranchise assigns the requested franchise to the user's participant.
// Uniqueness per room rides on the database index, so two users racing for
// the same franchise cannot both win.
func (s *ParticipantService) ClaimFranchise(ctx context.Context, roomID, userID uuid.UUID, franchise string) (*domain.Participant, error) {
	participant, err := s.repos.Participant.GetByRoomAndUser(ctx, roomID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotInRoom
		}
		return nil, err
	}

	if err := s.repos.Participant.ClaimFranchise(ctx, participant.ID, franchise); err != nil {
		return nil, err
	}

	return s.repos.Participant.GetByID(ctx, participant.ID)
}

func (s *ParticipantService) ListByRoom(ctx context.Context, roomID uuid.UUID) ([]*domain.Participant, error) {
	return s.repos.Participant.GetByRoomID(ctx, roomID)
}
