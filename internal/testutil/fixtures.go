package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nkumar/cricket-auction/internal/domain"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserBuilder creates test users with a builder pattern
type UserBuilder struct {
	displayName string
	password    string
}

// NewUserBuilder creates a new UserBuilder with default values
func NewUserBuilder() *UserBuilder {
	return &UserBuilder{
		displayName: fmt.Sprintf("testuser_%s", uuid.New().String()[:8]),
		password:    "testpassword123",
	}
}

// WithDisplayName sets the display name
func (b *UserBuilder) WithDisplayName(name string) *UserBuilder {
	b.displayName = name
	return b
}

// WithPassword sets the password
func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.password = password
	return b
}

// Build creates the user in the database and returns the user with the raw password
func (b *UserBuilder) Build(t *testing.T, db *gorm.DB) (*domain.User, string) {
	t.Helper()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(b.password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		DisplayName:  b.displayName,
		PasswordHash: string(hashedPassword),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user, b.password
}

// AuthResponse matches the API auth response
type AuthResponse struct {
	User struct {
		ID          string `json:"id"`
		DisplayName string `json:"displayName"`
	} `json:"user"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// BuildAndAuthenticate creates a user via API and returns the user and access token
func (b *UserBuilder) BuildAndAuthenticate(t *testing.T, ts *TestServer) (*domain.User, string) {
	t.Helper()

	reqBody := map[string]string{
		"displayName": b.displayName,
		"password":    b.password,
	}
	body, _ := json.Marshal(reqBody)

	resp, err := http.Post(ts.APIURL("/auth/register"), "application/json", bytes.NewBuffer(body))
	if err != nil {
		t.Fatalf("failed to register user: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status code: %d", resp.StatusCode)
	}

	var authResp AuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&authResp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	userID, _ := uuid.Parse(authResp.User.ID)
	user := &domain.User{
		ID:          userID,
		DisplayName: authResp.User.DisplayName,
	}

	return user, authResp.AccessToken
}

// RoomBuilder creates test rooms with a builder pattern. Build mirrors what
// RoomService.CreateRoom does: the room row, an inert auction state row, and
// the creator's participant row with the auctioneer flag.
type RoomBuilder struct {
	creator        *domain.User
	name           string
	budgetPerTeam  int
	playersPerTeam int
	timerSeconds   int
}

// NewRoomBuilder creates a new RoomBuilder with default values
func NewRoomBuilder() *RoomBuilder {
	return &RoomBuilder{
		name:           "Test Auction",
		budgetPerTeam:  12000,
		playersPerTeam: 11,
		timerSeconds:   2,
	}
}

// WithCreator sets the room creator (and auctioneer)
func (b *RoomBuilder) WithCreator(user *domain.User) *RoomBuilder {
	b.creator = user
	return b
}

// WithBudget sets the per-team budget
func (b *RoomBuilder) WithBudget(budget int) *RoomBuilder {
	b.budgetPerTeam = budget
	return b
}

// WithPlayersPerTeam sets the squad cap
func (b *RoomBuilder) WithPlayersPerTeam(n int) *RoomBuilder {
	b.playersPerTeam = n
	return b
}

// WithTimerSeconds sets the slot timer duration
func (b *RoomBuilder) WithTimerSeconds(seconds int) *RoomBuilder {
	b.timerSeconds = seconds
	return b
}

// Build creates the room, auction state, and auctioneer participant rows
func (b *RoomBuilder) Build(t *testing.T, db *gorm.DB) *domain.Room {
	t.Helper()

	if b.creator == nil {
		user, _ := NewUserBuilder().Build(t, db)
		b.creator = user
	}

	room := &domain.Room{
		ID:             uuid.New(),
		ShortCode:      generateShortCode(),
		Name:           b.name,
		CreatedBy:      b.creator.ID,
		BudgetPerTeam:  b.budgetPerTeam,
		PlayersPerTeam: b.playersPerTeam,
		TimerSeconds:   b.timerSeconds,
		Status:         domain.RoomStatusWaiting,
		CreatedAt:      time.Now(),
	}
	if err := db.Create(room).Error; err != nil {
		t.Fatalf("failed to create room: %v", err)
	}

	state := &domain.AuctionState{
		ID:            uuid.New(),
		RoomID:        room.ID,
		TimeRemaining: room.TimerSeconds,
	}
	if err := db.Create(state).Error; err != nil {
		t.Fatalf("failed to create auction state: %v", err)
	}

	auctioneer := &domain.Participant{
		ID:              uuid.New(),
		RoomID:          room.ID,
		UserID:          b.creator.ID,
		RemainingBudget: room.BudgetPerTeam,
		IsAuctioneer:    true,
	}
	if err := db.Create(auctioneer).Error; err != nil {
		t.Fatalf("failed to create auctioneer participant: %v", err)
	}

	return room
}

func generateShortCode() string {
	// Uppercase to match what the room service generates; lookups normalize
	// incoming codes to uppercase.
	return strings.ToUpper(uuid.New().String()[:6])
}

// ParticipantBuilder creates test participants
type ParticipantBuilder struct {
	room      *domain.Room
	user      *domain.User
	franchise *string
	budget    int
}

// NewParticipantBuilder creates a new ParticipantBuilder
func NewParticipantBuilder(room *domain.Room) *ParticipantBuilder {
	return &ParticipantBuilder{
		room:   room,
		budget: room.BudgetPerTeam,
	}
}

// WithUser sets the participant's user
func (b *ParticipantBuilder) WithUser(user *domain.User) *ParticipantBuilder {
	b.user = user
	return b
}

// WithFranchise sets the claimed franchise
func (b *ParticipantBuilder) WithFranchise(franchise string) *ParticipantBuilder {
	b.franchise = &franchise
	return b
}

// WithBudget overrides the remaining budget
func (b *ParticipantBuilder) WithBudget(budget int) *ParticipantBuilder {
	b.budget = budget
	return b
}

// Build creates the participant in the database
func (b *ParticipantBuilder) Build(t *testing.T, db *gorm.DB) *domain.Participant {
	t.Helper()

	if b.user == nil {
		user, _ := NewUserBuilder().Build(t, db)
		b.user = user
	}

	participant := &domain.Participant{
		ID:              uuid.New(),
		RoomID:          b.room.ID,
		UserID:          b.user.ID,
		Franchise:       b.franchise,
		RemainingBudget: b.budget,
	}
	if err := db.Create(participant).Error; err != nil {
		t.Fatalf("failed to create participant: %v", err)
	}

	return participant
}

// SeedPlayers creates N catalog players in the database
func SeedPlayers(t *testing.T, db *gorm.DB, count int) []*domain.CatalogPlayer {
	t.Helper()

	roles := []domain.PlayerRole{
		domain.RoleBatter,
		domain.RoleBowler,
		domain.RoleAllRounder,
		domain.RoleWicketKeeper,
	}

	players := make([]*domain.CatalogPlayer, count)
	for i := 0; i < count; i++ {
		players[i] = &domain.CatalogPlayer{
			ID:           fmt.Sprintf("test-player-%d", i),
			Name:         fmt.Sprintf("Test Player %d", i),
			Role:         roles[i%len(roles)],
			Nationality:  "Testland",
			BasePrice:    100,
			LastSyncedAt: time.Now(),
		}
		if err := db.Create(players[i]).Error; err != nil {
			t.Fatalf("failed to create catalog player: %v", err)
		}
	}
	return players
}

// CreateAuthenticatedRequest creates an HTTP request with auth token
func CreateAuthenticatedRequest(t *testing.T, method, url string, body interface{}, token string) *http.Request {
	t.Helper()

	var bodyReader *bytes.Buffer
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
		bodyReader = bytes.NewBuffer(jsonBody)
	} else {
		bodyReader = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, url, bodyReader)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req
}
