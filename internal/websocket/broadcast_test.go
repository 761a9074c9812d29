package websocket

import (
	"testing"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/nkumar/cricket-auction/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_TrySend(t *testing.T) {
	c := &Client{send: make(chan []byte, 1)}
	assert.True(t, c.trySend([]byte("a")))

	// Full buffer drops instead of blocking.
	assert.False(t, c.trySend([]byte("b")))

	// Closed channel (the unregister window) must not panic.
	closed := &Client{send: make(chan []byte, 1)}
	close(closed.send)
	assert.False(t, closed.trySend([]byte("c")))
}

func TestBroadcastMessage_SurvivesDisconnectingClients(t *testing.T) {
	// The hub closes a client's send channel on unregister before the room
	// actor processes the leave, so a broadcast can hit a closed channel.
	disconnecting := &Client{send: make(chan []byte, 1)}
	close(disconnecting.send)

	full := &Client{send: make(chan []byte, 1)}
	full.send <- []byte("backlog")

	healthy := &Client{send: make(chan []byte, 4)}

	r := &AuctionRoom{clients: map[*Client]bool{
		disconnecting: true,
		full:          true,
		healthy:       true,
	}}

	msg, err := NewMessage(MessageTypeTimerTick, TimerTickPayload{RemainingSeconds: 5})
	require.NoError(t, err)

	r.broadcastMessage(msg)

	select {
	case data := <-healthy.send:
		assert.NotEmpty(t, data)
	default:
		t.Fatal("healthy client should have received the broadcast")
	}
}

func TestSendStateSync_DoesNotBlockOnSlowClient(t *testing.T) {
	room := &domain.Room{
		ID:        uuid.New(),
		ShortCode: "ABC123",
		Name:      "Stalled",
		Status:    domain.RoomStatusActive,
	}
	state := &domain.AuctionState{RoomID: room.ID, Active: true}

	slow := &Client{userID: uuid.New(), send: make(chan []byte, 1)}
	slow.send <- []byte("backlog")

	r := &AuctionRoom{
		room:    room,
		state:   state,
		clock:   clockwork.NewFakeClock(),
		byUser:  map[uuid.UUID]*domain.Participant{},
		clients: map[*Client]bool{slow: true},
	}

	// A full buffer must drop the snapshot, not stall the room actor.
	r.sendStateSync(slow)
	r.broadcastStateSync()
}
