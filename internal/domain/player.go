package domain

import "time"

type PlayerRole string

const (
	RoleBatter       PlayerRole = "batter"
	RoleBowler       PlayerRole = "bowler"
	RoleAllRounder   PlayerRole = "all_rounder"
	RoleWicketKeeper PlayerRole = "wicket_keeper"
)

// CatalogPlayer is immutable reference data: one auctionable cricketer.
type CatalogPlayer struct {
	ID           string     `json:"id" gorm:"primary_key"`
	Name         string     `json:"name" gorm:"not null"`
	Role         PlayerRole `json:"role" gorm:"not null"`
	Nationality  string     `json:"nationality" gorm:"not null"`
	BasePrice    int        `json:"basePrice" gorm:"not null"`
	LastSyncedAt time.Time  `json:"lastSyncedAt"`
}
