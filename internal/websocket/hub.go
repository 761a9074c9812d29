package websocket

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/nkumar/cricket-auction/internal/auction"
	"github.com/nkumar/cricket-auction/internal/domain"
	"github.com/nkumar/cricket-auction/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Hub routes clients to room actors. Actors are created lazily from the
// database, so a server restart does not strand live rooms: the first client
// to come back revives the actor from the persisted state row.
type Hub struct {
	rooms      map[string]*AuctionRoom
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	joinRoom   chan *JoinRoomRequest
	stop       chan struct{}
	done       chan struct{} // closed when Run() exits
	stopped    bool
	repos      *repository.Repositories
	machine    *auction.Machine
	clock      clockwork.Clock
	mu         sync.RWMutex
}

type JoinRoomRequest struct {
	Client *Client
	RoomID string
}

func NewHub(repos *repository.Repositories, machine *auction.Machine, clock clockwork.Clock) *Hub {
	return &Hub{
		rooms:      make(map[string]*AuctionRoom),
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		joinRoom:   make(chan *JoinRoomRequest),
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
		repos:      repos,
		machine:    machine,
		clock:      clock,
	}
}

func (h *Hub) Run() {
	defer close(h.done)

	for {
		select {
		case <-h.stop:
			h.mu.Lock()
			h.stopped = true

			uniqueRooms := make(map[*AuctionRoom]bool)
			for _, room := range h.rooms {
				uniqueRooms[room] = true
			}
			for room := range uniqueRooms {
				room.Stop()
			}
			h.mu.Unlock()

			// Wait for the actors to exit without holding the lock.
			for room := range uniqueRooms {
				room.Wait()
			}

			h.mu.Lock()
			for client := range h.clients {
				close(client.send)
			}
			h.clients = make(map[*Client]bool)
			h.rooms = make(map[string]*AuctionRoom)
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			if !h.stopped {
				h.clients[client] = true
			}
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if !h.stopped {
				if _, ok := h.clients[client]; ok {
					delete(h.clients, client)
					close(client.send)

					if client.room != nil {
						client.room.leave <- client
					}
				}
			}
			h.mu.Unlock()

		case req := <-h.joinRoom:
			h.mu.RLock()
			stopped := h.stopped
			h.mu.RUnlock()
			if !stopped {
				h.handleJoinRoom(req)
			}
		}
	}
}

// Stop gracefully shuts down the hub and all room actors. It blocks until
// everything has exited.
func (h *Hub) Stop() {
	h.mu.Lock()
	if h.stopped {
		h.mu.Unlock()
		return
	}
	h.mu.Unlock()

	close(h.stop)
	<-h.done
}

func (h *Hub) handleJoinRoom(req *JoinRoomRequest) {
	room, err := h.ensureRoom(context.Background(), req.RoomID)
	if err != nil {
		req.Client.sendError("ROOM_NOT_FOUND", "Room does not exist")
		return
	}

	if req.Client.room != nil && req.Client.room != room {
		req.Client.room.leave <- req.Client
	}

	req.Client.room = room
	room.join <- req.Client
}

// ensureRoom returns the live actor for a room id or short code, reviving it
// from the database if no actor is running yet.
func (h *Hub) ensureRoom(ctx context.Context, key string) (*AuctionRoom, error) {
	h.mu.RLock()
	room := h.rooms[key]
	h.mu.RUnlock()
	if room != nil {
		return room, nil
	}

	dbRoom, err := h.lookupRoom(ctx, key)
	if err != nil {
		return nil, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	// Another join may have revived it while we hit the database.
	if existing := h.rooms[dbRoom.ID.String()]; existing != nil {
		return existing, nil
	}

	actor, err := NewAuctionRoom(ctx, dbRoom.ID, h.repos, h.machine, h.clock)
	if err != nil {
		return nil, err
	}
	h.rooms[dbRoom.ID.String()] = actor
	h.rooms[dbRoom.ShortCode] = actor

	go actor.Run()

	log.Info().
		Str("room_id", dbRoom.ID.String()).
		Str("short_code", dbRoom.ShortCode).
		Msg("room actor started")
	return actor, nil
}

func (h *Hub) lookupRoom(ctx context.Context, key string) (*domain.Room, error) {
	if id, err := uuid.Parse(key); err == nil {
		room, err := h.repos.Room.GetByID(ctx, id)
		if err == nil {
			return room, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}
	return h.repos.Room.GetByShortCode(ctx, strings.ToUpper(key))
}

// NotifyParticipant tells a live room actor that a participant row changed
// over REST. A room with no running actor has no subscribers to notify.
func (h *Hub) NotifyParticipant(roomID uuid.UUID, userID uuid.UUID, action string) {
	h.mu.RLock()
	room := h.rooms[roomID.String()]
	stopped := h.stopped
	h.mu.RUnlock()

	if room == nil || stopped {
		return
	}
	select {
	case room.participant <- &ParticipantNotice{UserID: userID, Action: action}:
	default:
	}
}

func (h *Hub) GetRoom(key string) *AuctionRoom {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.rooms[key]
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister safely unregisters a client, handling the case where the hub may
// already be stopped.
func (h *Hub) Unregister(client *Client) {
	h.mu.RLock()
	stopped := h.stopped
	h.mu.RUnlock()

	if stopped {
		return
	}

	select {
	case h.unregister <- client:
	default:
	}
}
