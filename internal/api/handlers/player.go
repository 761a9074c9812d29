package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/nkumar/cricket-auction/internal/domain"
	"github.com/nkumar/cricket-auction/internal/service"
)

type PlayerHandler struct {
	playerService *service.PlayerService
}

func NewPlayerHandler(playerService *service.PlayerService) *PlayerHandler {
	return &PlayerHandler{playerService: playerService}
}

type PlayerResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Role        string `json:"role"`
	Nationality string `json:"nationality"`
	BasePrice   int    `json:"basePrice"`
}

func playerResponse(p *domain.CatalogPlayer) PlayerResponse {
	return PlayerResponse{
		ID:          p.ID,
		Name:        p.Name,
		Role:        string(p.Role),
		Nationality: p.Nationality,
		BasePrice:   p.BasePrice,
	}
}

func (h *PlayerHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	players, err := h.playerService.GetAll(r.Context())
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	resp := make([]PlayerResponse, 0, len(players))
	for _, p := range players {
		resp = append(resp, playerResponse(p))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// Seed re-upserts the built-in catalog. Should be admin-only in production.
func (h *PlayerHandler) Seed(w http.ResponseWriter, r *http.Request) {
	if err := h.playerService.SeedDefault(r.Context()); err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"success": true})
}
