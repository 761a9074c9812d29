package service

import (
	"github.com/nkumar/cricket-auction/internal/config"
	"github.com/nkumar/cricket-auction/internal/repository"
)

type Services struct {
	Auth        *AuthService
	Room        *RoomService
	Participant *ParticipantService
	Player      *PlayerService
}

func NewServices(repos *repository.Repositories, cfg *config.Config) *Services {
	return &Services{
		Auth:        NewAuthService(repos.User, repos.Session, cfg),
		Room:        NewRoomService(repos, cfg),
		Participant: NewParticipantService(repos),
		Player:      NewPlayerService(repos.CatalogPlayer),
	}
}
