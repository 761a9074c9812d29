package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Participant is one franchise owner inside a room. The franchise is claimed
// after joining and is unique per room, enforced by the composite unique
// index rather than a check-then-insert.
type Participant struct {
	ID              uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	RoomID          uuid.UUID      `json:"roomId" gorm:"type:uuid;not null;index;uniqueIndex:idx_room_user;uniqueIndex:idx_room_franchise"`
	UserID          uuid.UUID      `json:"userId" gorm:"type:uuid;not null;uniqueIndex:idx_room_user"`
	Franchise       *string        `json:"franchise" gorm:"uniqueIndex:idx_room_franchise"`
	RemainingBudget int            `json:"remainingBudget" gorm:"not null"`
	Squad           datatypes.JSON `json:"squad" gorm:"type:jsonb;default:'[]'"`
	IsAuctioneer    bool           `json:"isAuctioneer" gorm:"not null;default:false"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`

	// Relations
	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// SquadIDs decodes the purchased-player list.
func (p *Participant) SquadIDs() []string {
	var ids []string
	if len(p.Squad) == 0 {
		return ids
	}
	_ = json.Unmarshal(p.Squad, &ids)
	return ids
}

// AddToSquad appends a purchased player id.
func (p *Participant) AddToSquad(playerID string) {
	ids := append(p.SquadIDs(), playerID)
	data, _ := json.Marshal(ids)
	p.Squad = datatypes.JSON(data)
}

// SquadSize returns the number of purchased players.
func (p *Participant) SquadSize() int {
	return len(p.SquadIDs())
}

// HasFranchise reports whether the participant has claimed a franchise yet.
func (p *Participant) HasFranchise() bool {
	return p.Franchise != nil && *p.Franchise != ""
}
