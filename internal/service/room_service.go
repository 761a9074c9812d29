package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/nkumar/cricket-auction/internal/config"
	"github.com/nkumar/cricket-auction/internal/domain"
	"github.com/nkumar/cricket-auction/internal/repository"
	"gorm.io/gorm"
)

var ErrRoomNotFound = errors.New("room not found")

type RoomService struct {
	repos *repository.Repositories
	cfg   *config.Config
}

func NewRoomService(repos *repository.Repositories, cfg *config.Config) *RoomService {
	return &RoomService{repos: repos, cfg: cfg}
}

type CreateRoomInput struct {
	CreatedBy      uuid.UUID
	Name           string
	BudgetPerTeam  int
	PlayersPerTeam int
	TimerSeconds   int
}

// CreateRoom creates the room, its inert auction state row, and the creator's
// participant row with the auctioneer flag. Exactly one auctioneer per room,
// always the creator.
func (s *RoomService) CreateRoom(ctx context.Context, input CreateRoomInput) (*domain.Room, error) {
	shortCode, err := generateShortCode()
	if err != nil {
		return nil, err
	}

	room := &domain.Room{
		ID:             uuid.New(),
		ShortCode:      shortCode,
		Name:           input.Name,
		CreatedBy:      input.CreatedBy,
		BudgetPerTeam:  input.BudgetPerTeam,
		PlayersPerTeam: input.PlayersPerTeam,
		TimerSeconds:   input.TimerSeconds,
		Status:         domain.RoomStatusWaiting,
	}
	if room.BudgetPerTeam <= 0 {
		room.BudgetPerTeam = s.cfg.DefaultBudgetPerTeam
	}
	if room.PlayersPerTeam <= 0 {
		room.PlayersPerTeam = s.cfg.DefaultPlayersPerTeam
	}
	if room.TimerSeconds <= 0 {
		room.TimerSeconds = s.cfg.DefaultTimerSeconds
	}

	err = s.repos.Tx.Run(ctx, func(r *repository.Repositories) error {
		if err := r.Room.Create(ctx, room); err != nil {
			return err
		}

		state := &domain.AuctionState{
			ID:            uuid.New(),
			RoomID:        room.ID,
			TimeRemaining: room.TimerSeconds,
		}
		if err := r.AuctionState.Create(ctx, state); err != nil {
			return err
		}

		auctioneer := &domain.Participant{
			ID:              uuid.New(),
			RoomID:          room.ID,
			UserID:          input.CreatedBy,
			RemainingBudget: room.BudgetPerTeam,
			IsAuctioneer:    true,
		}
		return r.Participant.Create(ctx, auctioneer)
	})
	if err != nil {
		return nil, err
	}

	return room, nil
}

func (s *RoomService) GetRoom(ctx context.Context, idOrCode string) (*domain.Room, error) {
	var (
		room *domain.Room
		err  error
	)
	if id, parseErr := uuid.Parse(idOrCode); parseErr == nil {
		room, err = s.repos.Room.GetByID(ctx, id)
	} else {
		room, err = s.repos.Room.GetByShortCode(ctx, strings.ToUpper(idOrCode))
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return room, nil
}

func generateShortCode() (string, error) {
	bytes := make([]byte, 3)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return strings.ToUpper(hex.EncodeToString(bytes)), nil
}
