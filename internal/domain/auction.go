package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AuctionState is the authoritative auction row, one per room. All mutations
// go through the room's auction loop and are written back with a version CAS;
// clients only ever see whole snapshots of it.
type AuctionState struct {
	ID                   uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	RoomID               uuid.UUID      `json:"roomId" gorm:"type:uuid;uniqueIndex;not null"`
	Queue                datatypes.JSON `json:"queue" gorm:"type:jsonb;default:'[]'"`
	Position             int            `json:"position" gorm:"not null;default:0"`
	CurrentBid           int            `json:"currentBid" gorm:"not null;default:0"`
	LeadingParticipantID *uuid.UUID     `json:"leadingParticipantId" gorm:"type:uuid"`
	TimeRemaining        int            `json:"timeRemaining" gorm:"not null;default:0"` // seconds, as of TimerStartedAt
	TimerStartedAt       *time.Time     `json:"timerStartedAt"`
	LastBidAt            *time.Time     `json:"lastBidAt"`
	Active               bool           `json:"active" gorm:"not null;default:false"`
	Paused               bool           `json:"paused" gorm:"not null;default:false"`
	Ended                bool           `json:"ended" gorm:"not null;default:false"`
	Sold                 datatypes.JSON `json:"sold" gorm:"type:jsonb;default:'[]'"`
	Unsold               datatypes.JSON `json:"unsold" gorm:"type:jsonb;default:'[]'"`
	Version              int            `json:"version" gorm:"not null;default:0"`
	UpdatedAt            time.Time      `json:"updatedAt"`

	// Relations
	Room *Room `json:"room,omitempty" gorm:"foreignKey:RoomID"`
}

// SoldEntry is one completed sale embedded in AuctionState.Sold.
type SoldEntry struct {
	PlayerID      string    `json:"playerId"`
	ParticipantID uuid.UUID `json:"participantId"`
	Price         int       `json:"price"`
	At            time.Time `json:"at"`
}

// UnsoldEntry is one passed slot embedded in AuctionState.Unsold. HadBid is
// set when a skip happened despite a live bid; the bid is preserved in
// bid_records either way.
type UnsoldEntry struct {
	PlayerID string    `json:"playerId"`
	HadBid   bool      `json:"hadBid"`
	At       time.Time `json:"at"`
}

func (s *AuctionState) QueueIDs() []string {
	var ids []string
	if len(s.Queue) == 0 {
		return ids
	}
	_ = json.Unmarshal(s.Queue, &ids)
	return ids
}

func (s *AuctionState) SetQueue(ids []string) {
	data, _ := json.Marshal(ids)
	s.Queue = datatypes.JSON(data)
}

func (s *AuctionState) SoldEntries() []SoldEntry {
	var entries []SoldEntry
	if len(s.Sold) == 0 {
		return entries
	}
	_ = json.Unmarshal(s.Sold, &entries)
	return entries
}

func (s *AuctionState) AppendSold(entry SoldEntry) {
	entries := append(s.SoldEntries(), entry)
	data, _ := json.Marshal(entries)
	s.Sold = datatypes.JSON(data)
}

func (s *AuctionState) UnsoldEntries() []UnsoldEntry {
	var entries []UnsoldEntry
	if len(s.Unsold) == 0 {
		return entries
	}
	_ = json.Unmarshal(s.Unsold, &entries)
	return entries
}

func (s *AuctionState) AppendUnsold(entry UnsoldEntry) {
	entries := append(s.UnsoldEntries(), entry)
	data, _ := json.Marshal(entries)
	s.Unsold = datatypes.JSON(data)
}

// CurrentPlayerID returns the player id for the active slot, or "" when the
// queue is exhausted or not yet materialized.
func (s *AuctionState) CurrentPlayerID() string {
	queue := s.QueueIDs()
	if s.Position < 0 || s.Position >= len(queue) {
		return ""
	}
	return queue[s.Position]
}

// Remaining computes the authoritative countdown: persisted remaining minus
// wall-clock elapsed since the last timer write. Constant while paused.
func (s *AuctionState) Remaining(now time.Time) int {
	if !s.Active || s.Ended {
		return 0
	}
	if s.Paused || s.TimerStartedAt == nil {
		return s.TimeRemaining
	}
	elapsed := int(now.Sub(*s.TimerStartedAt).Seconds())
	remaining := s.TimeRemaining - elapsed
	if remaining < 0 {
		remaining = 0
	}
	return remaining
}

// BidRecord is an append-only audit log entry; never mutated after insert.
// The leading bid is reconstructable from it: highest amount wins, ties
// broken by earliest timestamp.
type BidRecord struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	RoomID        uuid.UUID `json:"roomId" gorm:"type:uuid;index;not null"`
	PlayerID      string    `json:"playerId" gorm:"not null;index"`
	ParticipantID uuid.UUID `json:"participantId" gorm:"type:uuid;not null"`
	Amount        int       `json:"amount" gorm:"not null"`
	CreatedAt     time.Time `json:"createdAt"`
}
