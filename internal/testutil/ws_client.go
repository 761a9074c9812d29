package testutil

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	gorillaWS "github.com/gorilla/websocket"
	"github.com/nkumar/cricket-auction/internal/websocket"
)

// WSClient is a test WebSocket client
type WSClient struct {
	t        *testing.T
	conn     *gorillaWS.Conn
	messages chan *websocket.Message
	errors   chan error
	done     chan struct{}
	mu       sync.Mutex
}

// NewWSClient creates a new WebSocket test client
func NewWSClient(t *testing.T, url string) *WSClient {
	t.Helper()

	dialer := gorillaWS.DefaultDialer
	dialer.HandshakeTimeout = 5 * time.Second

	conn, _, err := dialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("failed to connect to websocket: %v", err)
	}

	client := &WSClient{
		t:        t,
		conn:     conn,
		messages: make(chan *websocket.Message, 100),
		errors:   make(chan error, 10),
		done:     make(chan struct{}),
	}

	go client.readPump()

	t.Cleanup(func() {
		client.Close()
	})

	return client
}

func (c *WSClient) readPump() {
	defer close(c.messages)
	for {
		select {
		case <-c.done:
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				select {
				case <-c.done:
					return
				case c.errors <- err:
				}
				return
			}

			var msg websocket.Message
			if err := json.Unmarshal(data, &msg); err != nil {
				c.errors <- err
				continue
			}

			select {
			case c.messages <- &msg:
			case <-c.done:
				return
			}
		}
	}
}

// Close closes the WebSocket connection gracefully
func (c *WSClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	select {
	case <-c.done:
		return
	default:
		close(c.done)
		c.conn.WriteMessage(gorillaWS.CloseMessage, gorillaWS.FormatCloseMessage(gorillaWS.CloseNormalClosure, ""))
		c.conn.Close()
	}
}

func (c *WSClient) send(msgType websocket.MessageType, payload interface{}) {
	c.t.Helper()

	msg, err := websocket.NewMessage(msgType, payload)
	if err != nil {
		c.t.Fatalf("failed to build message: %v", err)
	}
	data, err := json.Marshal(msg)
	if err != nil {
		c.t.Fatalf("failed to marshal message: %v", err)
	}

	c.mu.Lock()
	err = c.conn.WriteMessage(gorillaWS.TextMessage, data)
	c.mu.Unlock()

	if err != nil {
		c.t.Fatalf("failed to send message: %v", err)
	}
}

// JoinRoom sends a JOIN_ROOM message
func (c *WSClient) JoinRoom(roomID string) {
	c.send(websocket.MessageTypeJoinRoom, websocket.JoinRoomPayload{RoomID: roomID})
}

// SyncState requests a fresh STATE_SYNC
func (c *WSClient) SyncState() {
	c.send(websocket.MessageTypeSyncState, struct{}{})
}

// StartAuction sends a START_AUCTION message
func (c *WSClient) StartAuction() {
	c.send(websocket.MessageTypeStartAuction, struct{}{})
}

// PlaceBid sends a PLACE_BID message
func (c *WSClient) PlaceBid(amount int) {
	c.send(websocket.MessageTypePlaceBid, websocket.PlaceBidPayload{Amount: amount})
}

// PauseAuction sends a PAUSE_AUCTION message
func (c *WSClient) PauseAuction() {
	c.send(websocket.MessageTypePauseAuction, struct{}{})
}

// ResumeAuction sends a RESUME_AUCTION message
func (c *WSClient) ResumeAuction() {
	c.send(websocket.MessageTypeResumeAuction, struct{}{})
}

// AddTime sends an ADD_TIME message
func (c *WSClient) AddTime(seconds int) {
	c.send(websocket.MessageTypeAddTime, websocket.AddTimePayload{Seconds: seconds})
}

// SellPlayer sends a SELL_PLAYER message
func (c *WSClient) SellPlayer() {
	c.send(websocket.MessageTypeSellPlayer, struct{}{})
}

// SkipPlayer sends a SKIP_PLAYER message
func (c *WSClient) SkipPlayer() {
	c.send(websocket.MessageTypeSkipPlayer, struct{}{})
}

// EndAuction sends an END_AUCTION message
func (c *WSClient) EndAuction() {
	c.send(websocket.MessageTypeEndAuction, struct{}{})
}

// ExpectMessage waits for a message of the specified type, skipping others
// (TIMER_TICK noise in particular)
func (c *WSClient) ExpectMessage(msgType websocket.MessageType, timeout time.Duration) *websocket.Message {
	c.t.Helper()

	deadline := time.After(timeout)
	for {
		select {
		case msg := <-c.messages:
			if msg == nil {
				c.t.Fatalf("connection closed while waiting for %s", msgType)
			}
			if msg.Type == msgType {
				return msg
			}
		case err := <-c.errors:
			c.t.Fatalf("error while waiting for %s: %v", msgType, err)
		case <-deadline:
			c.t.Fatalf("timeout waiting for message type %s", msgType)
		}
	}
}

// ExpectStateSync waits for and decodes a STATE_SYNC message
func (c *WSClient) ExpectStateSync(timeout time.Duration) *websocket.StateSyncPayload {
	c.t.Helper()

	msg := c.ExpectMessage(websocket.MessageTypeStateSync, timeout)

	var payload websocket.StateSyncPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		c.t.Fatalf("failed to decode state sync payload: %v", err)
	}

	return &payload
}

// ExpectStateSyncWhere waits for a STATE_SYNC matching the predicate,
// discarding earlier snapshots. Useful when several mutations broadcast in
// quick succession.
func (c *WSClient) ExpectStateSyncWhere(timeout time.Duration, match func(*websocket.StateSyncPayload) bool) *websocket.StateSyncPayload {
	c.t.Helper()

	deadline := time.Now().Add(timeout)
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			c.t.Fatal("timeout waiting for matching STATE_SYNC")
		}
		payload := c.ExpectStateSync(remaining)
		if match(payload) {
			return payload
		}
	}
}

// ExpectAuctionStarted waits for and decodes an AUCTION_STARTED message
func (c *WSClient) ExpectAuctionStarted(timeout time.Duration) *websocket.AuctionStartedPayload {
	c.t.Helper()

	msg := c.ExpectMessage(websocket.MessageTypeAuctionStarted, timeout)

	var payload websocket.AuctionStartedPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		c.t.Fatalf("failed to decode auction started payload: %v", err)
	}

	return &payload
}

// ExpectBidPlaced waits for and decodes a BID_PLACED message
func (c *WSClient) ExpectBidPlaced(timeout time.Duration) *websocket.BidPlacedPayload {
	c.t.Helper()

	msg := c.ExpectMessage(websocket.MessageTypeBidPlaced, timeout)

	var payload websocket.BidPlacedPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		c.t.Fatalf("failed to decode bid placed payload: %v", err)
	}

	return &payload
}

// ExpectPlayerSold waits for and decodes a PLAYER_SOLD message
func (c *WSClient) ExpectPlayerSold(timeout time.Duration) *websocket.PlayerSoldPayload {
	c.t.Helper()

	msg := c.ExpectMessage(websocket.MessageTypePlayerSold, timeout)

	var payload websocket.PlayerSoldPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		c.t.Fatalf("failed to decode player sold payload: %v", err)
	}

	return &payload
}

// ExpectPlayerUnsold waits for and decodes a PLAYER_UNSOLD message
func (c *WSClient) ExpectPlayerUnsold(timeout time.Duration) *websocket.PlayerUnsoldPayload {
	c.t.Helper()

	msg := c.ExpectMessage(websocket.MessageTypePlayerUnsold, timeout)

	var payload websocket.PlayerUnsoldPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		c.t.Fatalf("failed to decode player unsold payload: %v", err)
	}

	return &payload
}

// ExpectTimerExpired waits for and decodes a TIMER_EXPIRED message
func (c *WSClient) ExpectTimerExpired(timeout time.Duration) *websocket.TimerExpiredPayload {
	c.t.Helper()

	msg := c.ExpectMessage(websocket.MessageTypeTimerExpired, timeout)

	var payload websocket.TimerExpiredPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		c.t.Fatalf("failed to decode timer expired payload: %v", err)
	}

	return &payload
}

// ExpectAuctionCompleted waits for and decodes an AUCTION_COMPLETED message
func (c *WSClient) ExpectAuctionCompleted(timeout time.Duration) *websocket.AuctionCompletedPayload {
	c.t.Helper()

	msg := c.ExpectMessage(websocket.MessageTypeAuctionCompleted, timeout)

	var payload websocket.AuctionCompletedPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		c.t.Fatalf("failed to decode auction completed payload: %v", err)
	}

	return &payload
}

// ExpectParticipantUpdate waits for and decodes a PARTICIPANT_UPDATE message
func (c *WSClient) ExpectParticipantUpdate(timeout time.Duration) *websocket.ParticipantUpdatePayload {
	c.t.Helper()

	msg := c.ExpectMessage(websocket.MessageTypeParticipantUpdate, timeout)

	var payload websocket.ParticipantUpdatePayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		c.t.Fatalf("failed to decode participant update payload: %v", err)
	}

	return &payload
}

// ExpectError waits for and decodes an ERROR message
func (c *WSClient) ExpectError(timeout time.Duration) *websocket.ErrorPayload {
	c.t.Helper()

	msg := c.ExpectMessage(websocket.MessageTypeError, timeout)

	var payload websocket.ErrorPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		c.t.Fatalf("failed to decode error payload: %v", err)
	}

	return &payload
}

// ExpectErrorWithCode waits for an error with a specific code
func (c *WSClient) ExpectErrorWithCode(code string, timeout time.Duration) *websocket.ErrorPayload {
	c.t.Helper()

	payload := c.ExpectError(timeout)
	if payload.Code != code {
		c.t.Fatalf("expected error code %s, got %s: %s", code, payload.Code, payload.Message)
	}

	return payload
}

// DrainMessages drains all pending messages from the channel, waiting for the
// stream to settle
func (c *WSClient) DrainMessages() {
	deadline := time.After(100 * time.Millisecond)
	for {
		select {
		case msg := <-c.messages:
			if msg == nil {
				return
			}
			deadline = time.After(50 * time.Millisecond)
		case <-deadline:
			return
		case <-c.done:
			return
		}
	}
}
