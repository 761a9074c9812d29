package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/nkumar/cricket-auction/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByDisplayName(ctx context.Context, displayName string) (*domain.User, error)
}

type SessionRepository interface {
	Create(ctx context.Context, session *domain.UserSession) error
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error
}

type RoomRepository interface {
	Create(ctx context.Context, room *domain.Room) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Room, error)
	GetByShortCode(ctx context.Context, code string) (*domain.Room, error)
	Update(ctx context.Context, room *domain.Room) error
}

type ParticipantRepository interface {
	Create(ctx context.Context, participant *domain.Participant) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Participant, error)
	GetByRoomAndUser(ctx context.Context, roomID, userID uuid.UUID) (*domain.Participant, error)
	GetByRoomID(ctx context.Context, roomID uuid.UUID) ([]*domain.Participant, error)
	// ClaimFranchise sets the franchise column; uniqueness within the room
	// is enforced by the database index, returning ErrFranchiseTaken on
	// collision rather than relying on a check-then-insert.
	ClaimFranchise(ctx context.Context, participantID uuid.UUID, franchise string) error
	Update(ctx context.Context, participant *domain.Participant) error
}

type CatalogPlayerRepository interface {
	UpsertMany(ctx context.Context, players []*domain.CatalogPlayer) error
	GetAll(ctx context.Context) ([]*domain.CatalogPlayer, error)
	GetByID(ctx context.Context, id string) (*domain.CatalogPlayer, error)
}

type AuctionStateRepository interface {
	Create(ctx context.Context, state *domain.AuctionState) error
	GetByRoomID(ctx context.Context, roomID uuid.UUID) (*domain.AuctionState, error)
	// UpdateCAS writes the row only if the stored version still matches
	// expectedVersion; a lost race returns ErrStaleState.
	UpdateCAS(ctx context.Context, state *domain.AuctionState, expectedVersion int) error
}

type BidRecordRepository interface {
	Create(ctx context.Context, record *domain.BidRecord) error
	GetByRoomID(ctx context.Context, roomID uuid.UUID) ([]*domain.BidRecord, error)
	GetByRoomAndPlayer(ctx context.Context, roomID uuid.UUID, playerID string) ([]*domain.BidRecord, error)
}

// TxRunner runs fn against a transactional copy of the repositories, so a
// sell can write the state row, the winner's ledger row, and the audit
// records atomically. fn returning an error rolls everything back.
type TxRunner interface {
	Run(ctx context.Context, fn func(r *Repositories) error) error
}

type Repositories struct {
	User          UserRepository
	Session       SessionRepository
	Room          RoomRepository
	Participant   ParticipantRepository
	CatalogPlayer CatalogPlayerRepository
	AuctionState  AuctionStateRepository
	BidRecord     BidRecordRepository
	Tx            TxRunner
}
