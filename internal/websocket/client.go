package websocket

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512 * 1024
)

type Client struct {
	hub         *Hub
	conn        *websocket.Conn
	send        chan []byte
	room        *AuctionRoom
	userID      uuid.UUID
	displayName string
}

func NewClient(hub *Hub, conn *websocket.Conn, userID uuid.UUID, displayName string) *Client {
	return &Client{
		hub:         hub,
		conn:        conn,
		send:        make(chan []byte, 256),
		userID:      userID,
		displayName: displayName,
	}
}

func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warn().Err(err).Str("user_id", c.userID.String()).Msg("websocket read error")
			}
			break
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Debug().Err(err).Msg("failed to unmarshal message")
			continue
		}

		c.handleMessage(&msg)
	}
}

func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) handleMessage(msg *Message) {
	switch msg.Type {
	case MessageTypeJoinRoom:
		var payload JoinRoomPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			c.sendError("INVALID_PAYLOAD", "Invalid join room payload")
			return
		}
		c.hub.joinRoom <- &JoinRoomRequest{
			Client: c,
			RoomID: payload.RoomID,
		}

	case MessageTypeSyncState:
		if c.room != nil {
			c.room.syncState <- c
		}

	case MessageTypeStartAuction:
		if c.room != nil {
			c.room.startAuction <- c
		}

	case MessageTypePlaceBid:
		var payload PlaceBidPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			c.sendError("INVALID_PAYLOAD", "Invalid place bid payload")
			return
		}
		if c.room != nil {
			c.room.placeBid <- &PlaceBidRequest{
				Client: c,
				Amount: payload.Amount,
			}
		}

	case MessageTypePauseAuction:
		if c.room != nil {
			c.room.pauseAuction <- c
		}

	case MessageTypeResumeAuction:
		if c.room != nil {
			c.room.resumeAuction <- c
		}

	case MessageTypeAddTime:
		var payload AddTimePayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			c.sendError("INVALID_PAYLOAD", "Invalid add time payload")
			return
		}
		if c.room != nil {
			c.room.addTime <- &AddTimeRequest{
				Client:  c,
				Seconds: payload.Seconds,
			}
		}

	case MessageTypeSellPlayer:
		if c.room != nil {
			c.room.sellPlayer <- c
		}

	case MessageTypeSkipPlayer:
		if c.room != nil {
			c.room.skipPlayer <- c
		}

	case MessageTypeEndAuction:
		if c.room != nil {
			c.room.endAuction <- c
		}
	}
}

func (c *Client) sendError(code, message string) {
	msg, _ := NewMessage(MessageTypeError, ErrorPayload{
		Code:    code,
		Message: message,
	})
	data, _ := json.Marshal(msg)
	c.trySend(data)
}

func (c *Client) Send(msg *Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal message")
		return
	}
	c.trySend(data)
}

// trySend delivers without blocking the caller. The hub closes the send
// channel on unregister before the room actor processes the leave, so a
// broadcast can race a disconnect; the recover absorbs the send-on-closed
// window and a full buffer drops the message rather than stalling the room.
func (c *Client) trySend(data []byte) (ok bool) {
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}
