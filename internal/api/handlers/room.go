package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/nkumar/cricket-auction/internal/api/middleware"
	"github.com/nkumar/cricket-auction/internal/domain"
	"github.com/nkumar/cricket-auction/internal/repository"
	"github.com/nkumar/cricket-auction/internal/service"
	"github.com/nkumar/cricket-auction/internal/websocket"
)

type RoomHandler struct {
	roomService        *service.RoomService
	participantService *service.ParticipantService
	repos              *repository.Repositories
	hub                *websocket.Hub
}

func NewRoomHandler(roomService *service.RoomService, participantService *service.ParticipantService, repos *repository.Repositories, hub *websocket.Hub) *RoomHandler {
	return &RoomHandler{
		roomService:        roomService,
		participantService: participantService,
		repos:              repos,
		hub:                hub,
	}
}

type CreateRoomRequest struct {
	Name           string `json:"name"`
	BudgetPerTeam  int    `json:"budgetPerTeam"`
	PlayersPerTeam int    `json:"playersPerTeam"`
	TimerSeconds   int    `json:"timerSeconds"`
}

type RoomResponse struct {
	ID             string `json:"id"`
	ShortCode      string `json:"shortCode"`
	Name           string `json:"name"`
	Status         string `json:"status"`
	BudgetPerTeam  int    `json:"budgetPerTeam"`
	PlayersPerTeam int    `json:"playersPerTeam"`
	TimerSeconds   int    `json:"timerSeconds"`
	Flagged        bool   `json:"flagged"`
	CreatedBy      string `json:"createdBy"`
}

type ParticipantResponse struct {
	ID              string   `json:"id"`
	UserID          string   `json:"userId"`
	DisplayName     string   `json:"displayName"`
	Franchise       *string  `json:"franchise"`
	RemainingBudget int      `json:"remainingBudget"`
	Squad           []string `json:"squad"`
	IsAuctioneer    bool     `json:"isAuctioneer"`
}

type ClaimFranchiseRequest struct {
	Franchise string `json:"franchise"`
}

type AuctionStateResponse struct {
	Version          int                  `json:"version"`
	Position         int                  `json:"position"`
	QueueLength      int                  `json:"queueLength"`
	CurrentPlayerID  string               `json:"currentPlayerId"`
	CurrentBid       int                  `json:"currentBid"`
	LeadingID        *string              `json:"leadingParticipantId"`
	RemainingSeconds int                  `json:"remainingSeconds"`
	Active           bool                 `json:"active"`
	Paused           bool                 `json:"paused"`
	Ended            bool                 `json:"ended"`
	Sold             []domain.SoldEntry   `json:"sold"`
	Unsold           []domain.UnsoldEntry `json:"unsold"`
}

type BidResponse struct {
	ID            string `json:"id"`
	PlayerID      string `json:"playerId"`
	ParticipantID string `json:"participantId"`
	Amount        int    `json:"amount"`
	CreatedAt     int64  `json:"createdAt"`
}

func roomResponse(room *domain.Room) RoomResponse {
	return RoomResponse{
		ID:             room.ID.String(),
		ShortCode:      room.ShortCode,
		Name:           room.Name,
		Status:         string(room.Status),
		BudgetPerTeam:  room.BudgetPerTeam,
		PlayersPerTeam: room.PlayersPerTeam,
		TimerSeconds:   room.TimerSeconds,
		Flagged:        room.Flagged,
		CreatedBy:      room.CreatedBy.String(),
	}
}

func participantResponse(p *domain.Participant) ParticipantResponse {
	displayName := ""
	if p.User != nil {
		displayName = p.User.DisplayName
	}
	squad := p.SquadIDs()
	if squad == nil {
		squad = []string{}
	}
	return ParticipantResponse{
		ID:              p.ID.String(),
		UserID:          p.UserID.String(),
		DisplayName:     displayName,
		Franchise:       p.Franchise,
		RemainingBudget: p.RemainingBudget,
		Squad:           squad,
		IsAuctioneer:    p.IsAuctioneer,
	}
}

func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req CreateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	room, err := h.roomService.CreateRoom(r.Context(), service.CreateRoomInput{
		CreatedBy:      userID,
		Name:           req.Name,
		BudgetPerTeam:  req.BudgetPerTeam,
		PlayersPerTeam: req.PlayersPerTeam,
		TimerSeconds:   req.TimerSeconds,
	})
	if err != nil {
		http.Error(w, "Failed to create room", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(roomResponse(room))
}

func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	room, ok := h.lookup(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(roomResponse(room))
}

func (h *RoomHandler) Join(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	room, ok := h.lookup(w, r)
	if !ok {
		return
	}

	participant, err := h.participantService.Join(r.Context(), room.ID, userID)
	if err != nil {
		http.Error(w, "Failed to join room", http.StatusInternalServerError)
		return
	}

	h.hub.NotifyParticipant(room.ID, userID, "joined")

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(participantResponse(participant))
}

func (h *RoomHandler) ClaimFranchise(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	room, ok := h.lookup(w, r)
	if !ok {
		return
	}

	var req ClaimFranchiseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Franchise == "" {
		http.Error(w, "Franchise is required", http.StatusBadRequest)
		return
	}

	participant, err := h.participantService.ClaimFranchise(r.Context(), room.ID, userID, req.Franchise)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrFranchiseTaken):
			http.Error(w, "Franchise is already taken", http.StatusConflict)
		case errors.Is(err, domain.ErrNotInRoom):
			http.Error(w, "Join the room first", http.StatusForbidden)
		default:
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
		return
	}

	h.hub.NotifyParticipant(room.ID, userID, "claimed_franchise")

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(participantResponse(participant))
}

func (h *RoomHandler) Participants(w http.ResponseWriter, r *http.Request) {
	room, ok := h.lookup(w, r)
	if !ok {
		return
	}

	participants, err := h.participantService.ListByRoom(r.Context(), room.ID)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	resp := make([]ParticipantResponse, 0, len(participants))
	for _, p := range participants {
		resp = append(resp, participantResponse(p))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// State serves the persisted auction snapshot over REST, for reconnecting
// clients and post-auction summaries. The live path is the websocket
// STATE_SYNC; both read the same row.
func (h *RoomHandler) State(w http.ResponseWriter, r *http.Request) {
	room, ok := h.lookup(w, r)
	if !ok {
		return
	}

	state, err := h.repos.AuctionState.GetByRoomID(r.Context(), room.ID)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	var leadingID *string
	if state.LeadingParticipantID != nil {
		s := state.LeadingParticipantID.String()
		leadingID = &s
	}
	sold := state.SoldEntries()
	if sold == nil {
		sold = []domain.SoldEntry{}
	}
	unsold := state.UnsoldEntries()
	if unsold == nil {
		unsold = []domain.UnsoldEntry{}
	}

	resp := AuctionStateResponse{
		Version:          state.Version,
		Position:         state.Position,
		QueueLength:      len(state.QueueIDs()),
		CurrentPlayerID:  state.CurrentPlayerID(),
		CurrentBid:       state.CurrentBid,
		LeadingID:        leadingID,
		RemainingSeconds: state.Remaining(time.Now()),
		Active:           state.Active,
		Paused:           state.Paused,
		Ended:            state.Ended,
		Sold:             sold,
		Unsold:           unsold,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// Bids serves the append-only audit log for a room.
func (h *RoomHandler) Bids(w http.ResponseWriter, r *http.Request) {
	room, ok := h.lookup(w, r)
	if !ok {
		return
	}

	records, err := h.repos.BidRecord.GetByRoomID(r.Context(), room.ID)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	resp := make([]BidResponse, 0, len(records))
	for _, rec := range records {
		resp = append(resp, BidResponse{
			ID:            rec.ID.String(),
			PlayerID:      rec.PlayerID,
			ParticipantID: rec.ParticipantID.String(),
			Amount:        rec.Amount,
			CreatedAt:     rec.CreatedAt.UnixMilli(),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (h *RoomHandler) lookup(w http.ResponseWriter, r *http.Request) (*domain.Room, bool) {
	idOrCode := chi.URLParam(r, "idOrCode")

	room, err := h.roomService.GetRoom(r.Context(), idOrCode)
	if err != nil {
		if errors.Is(err, service.ErrRoomNotFound) {
			http.Error(w, "Room not found", http.StatusNotFound)
			return nil, false
		}
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return nil, false
	}
	return room, true
}
