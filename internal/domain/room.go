package domain

import (
	"time"

	"github.com/google/uuid"
)

type RoomStatus string

const (
	RoomStatusWaiting   RoomStatus = "waiting"
	RoomStatusActive    RoomStatus = "active"
	RoomStatusPaused    RoomStatus = "paused"
	RoomStatusCompleted RoomStatus = "completed"
)

type Room struct {
	ID             uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ShortCode      string     `json:"shortCode" gorm:"uniqueIndex;not null"`
	Name           string     `json:"name" gorm:"not null"`
	CreatedBy      uuid.UUID  `json:"createdBy" gorm:"type:uuid;not null"`
	BudgetPerTeam  int        `json:"budgetPerTeam" gorm:"not null;default:12000"`
	PlayersPerTeam int        `json:"playersPerTeam" gorm:"not null;default:11"`
	TimerSeconds   int        `json:"timerSeconds" gorm:"not null;default:30"`
	Status         RoomStatus `json:"status" gorm:"not null;default:'waiting'"`
	// Flagged marks a room that hit an invariant violation and needs
	// manual review. Never cleared automatically.
	Flagged     bool       `json:"flagged" gorm:"not null;default:false"`
	CreatedAt   time.Time  `json:"createdAt"`
	StartedAt   *time.Time `json:"startedAt"`
	CompletedAt *time.Time `json:"completedAt"`

	// Relations
	Creator *User `json:"creator,omitempty" gorm:"foreignKey:CreatedBy"`
}
