package websocket

import (
	"encoding/json"
	"time"
)

type MessageType string

const (
	// Client to Server
	MessageTypeJoinRoom      MessageType = "JOIN_ROOM"
	MessageTypeSyncState     MessageType = "SYNC_STATE"
	MessageTypeStartAuction  MessageType = "START_AUCTION"
	MessageTypePlaceBid      MessageType = "PLACE_BID"
	MessageTypePauseAuction  MessageType = "PAUSE_AUCTION"
	MessageTypeResumeAuction MessageType = "RESUME_AUCTION"
	MessageTypeAddTime       MessageType = "ADD_TIME"
	MessageTypeSellPlayer    MessageType = "SELL_PLAYER"
	MessageTypeSkipPlayer    MessageType = "SKIP_PLAYER"
	MessageTypeEndAuction    MessageType = "END_AUCTION"

	// Server to Client
	MessageTypeStateSync         MessageType = "STATE_SYNC"
	MessageTypeAuctionStarted    MessageType = "AUCTION_STARTED"
	MessageTypeBidPlaced         MessageType = "BID_PLACED"
	MessageTypeTimerTick         MessageType = "TIMER_TICK"
	MessageTypeTimerExpired      MessageType = "TIMER_EXPIRED"
	MessageTypePlayerSold        MessageType = "PLAYER_SOLD"
	MessageTypePlayerUnsold      MessageType = "PLAYER_UNSOLD"
	MessageTypeAuctionPaused     MessageType = "AUCTION_PAUSED"
	MessageTypeAuctionResumed    MessageType = "AUCTION_RESUMED"
	MessageTypeAuctionCompleted  MessageType = "AUCTION_COMPLETED"
	MessageTypeParticipantUpdate MessageType = "PARTICIPANT_UPDATE"
	MessageTypeError             MessageType = "ERROR"
)

type Message struct {
	Type      MessageType     `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp int64           `json:"timestamp"`
}

func NewMessage(msgType MessageType, payload interface{}) (*Message, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Message{
		Type:      msgType,
		Payload:   payloadBytes,
		Timestamp: time.Now().UnixMilli(),
	}, nil
}

// Client to Server payloads

type JoinRoomPayload struct {
	RoomID string `json:"roomId"`
}

type PlaceBidPayload struct {
	Amount int `json:"amount"`
}

type AddTimePayload struct {
	Seconds int `json:"seconds"`
}

// Server to Client payloads

// StateSyncPayload is the whole-state snapshot sent to every subscriber after
// each accepted mutation and on demand. Version is monotonic per room;
// clients must discard snapshots older than the last one they applied.
type StateSyncPayload struct {
	Room         RoomInfo          `json:"room"`
	Auction      AuctionInfo       `json:"auction"`
	Participants []ParticipantInfo `json:"participants"`
	You          *ParticipantInfo  `json:"you"`
	IsAuctioneer bool              `json:"isAuctioneer"`
}

type RoomInfo struct {
	ID             string `json:"id"`
	ShortCode      string `json:"shortCode"`
	Name           string `json:"name"`
	Status         string `json:"status"`
	BudgetPerTeam  int    `json:"budgetPerTeam"`
	PlayersPerTeam int    `json:"playersPerTeam"`
	TimerSeconds   int    `json:"timerSeconds"`
}

type AuctionInfo struct {
	Version          int          `json:"version"`
	Position         int          `json:"position"`
	QueueLength      int          `json:"queueLength"`
	CurrentPlayer    *PlayerInfo  `json:"currentPlayer"`
	CurrentBid       int          `json:"currentBid"`
	LeadingID        *string      `json:"leadingParticipantId"`
	RemainingSeconds int          `json:"remainingSeconds"`
	Active           bool         `json:"active"`
	Paused           bool         `json:"paused"`
	Ended            bool         `json:"ended"`
	Sold             []SoldInfo   `json:"sold"`
	Unsold           []UnsoldInfo `json:"unsold"`
}

type PlayerInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Role        string `json:"role"`
	Nationality string `json:"nationality"`
	BasePrice   int    `json:"basePrice"`
}

type ParticipantInfo struct {
	ID              string   `json:"id"`
	UserID          string   `json:"userId"`
	DisplayName     string   `json:"displayName"`
	Franchise       *string  `json:"franchise"`
	RemainingBudget int      `json:"remainingBudget"`
	Squad           []string `json:"squad"`
	IsAuctioneer    bool     `json:"isAuctioneer"`
}

type SoldInfo struct {
	PlayerID      string `json:"playerId"`
	ParticipantID string `json:"participantId"`
	Price         int    `json:"price"`
	At            int64  `json:"at"`
}

type UnsoldInfo struct {
	PlayerID string `json:"playerId"`
	HadBid   bool   `json:"hadBid"`
}

type AuctionStartedPayload struct {
	Version          int         `json:"version"`
	CurrentPlayer    *PlayerInfo `json:"currentPlayer"`
	RemainingSeconds int         `json:"remainingSeconds"`
}

type BidPlacedPayload struct {
	Version          int    `json:"version"`
	PlayerID         string `json:"playerId"`
	ParticipantID    string `json:"participantId"`
	Franchise        string `json:"franchise"`
	Amount           int    `json:"amount"`
	RemainingSeconds int    `json:"remainingSeconds"`
}

type TimerTickPayload struct {
	Version          int `json:"version"`
	RemainingSeconds int `json:"remainingSeconds"`
}

// TimerExpiredPayload is advisory: the auctioneer decides whether to sell,
// add time, or skip. It fires at most once per slot.
type TimerExpiredPayload struct {
	Version  int    `json:"version"`
	Position int    `json:"position"`
	PlayerID string `json:"playerId"`
}

// PlayerSoldPayload doubles as the ephemeral toast: best-effort, cosmetic,
// clients auto-dismiss it. The authoritative record is the STATE_SYNC that
// accompanies it.
type PlayerSoldPayload struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	Franchise  string `json:"franchise"`
	Price      int    `json:"price"`
}

type PlayerUnsoldPayload struct {
	PlayerID string `json:"playerId"`
	HadBid   bool   `json:"hadBid"`
}

type AuctionPausedPayload struct {
	Version          int `json:"version"`
	RemainingSeconds int `json:"remainingSeconds"`
}

type AuctionResumedPayload struct {
	Version          int `json:"version"`
	RemainingSeconds int `json:"remainingSeconds"`
}

type AuctionCompletedPayload struct {
	Version int          `json:"version"`
	Sold    []SoldInfo   `json:"sold"`
	Unsold  []UnsoldInfo `json:"unsold"`
}

type ParticipantUpdatePayload struct {
	Participant ParticipantInfo `json:"participant"`
	Action      string          `json:"action"` // "joined", "left", "claimed_franchise"
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
