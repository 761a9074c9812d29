package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/nkumar/cricket-auction/internal/auction"
	"github.com/nkumar/cricket-auction/internal/domain"
	"github.com/nkumar/cricket-auction/internal/repository"
	"github.com/rs/zerolog/log"
)

// AuctionRoom is the per-room actor: every auction mutation funnels through
// its Run loop, so the read-validate-mutate-persist cycle never interleaves.
// Persistence is a version CAS on the state row; a lost race (another server
// instance, or a stale in-memory copy after restart) reloads and retries the
// command once before reporting a conflict.
type AuctionRoom struct {
	id        uuid.UUID
	shortCode string

	room         *domain.Room
	state        *domain.AuctionState
	participants []*domain.Participant
	byUser       map[uuid.UUID]*domain.Participant
	byID         map[uuid.UUID]*domain.Participant
	catalog      map[string]*domain.CatalogPlayer
	catalogList  []*domain.CatalogPlayer

	machine *auction.Machine
	repos   *repository.Repositories
	clock   clockwork.Clock
	timer   *slotTimer

	clients map[*Client]bool

	// lastExpiredSlot suppresses duplicate expiry firings for a slot; re-armed
	// countdowns (AddTime) clear it so a fresh deadline can fire again.
	lastExpiredSlot int

	join          chan *Client
	leave         chan *Client
	broadcast     chan *Message
	syncState     chan *Client
	startAuction  chan *Client
	placeBid      chan *PlaceBidRequest
	pauseAuction  chan *Client
	resumeAuction chan *Client
	addTime       chan *AddTimeRequest
	sellPlayer    chan *Client
	skipPlayer    chan *Client
	endAuction    chan *Client
	participant   chan *ParticipantNotice
	timerExpired  chan int
	timerTick     chan struct{}
	stopCh        chan struct{}
	done          chan struct{}
}

type PlaceBidRequest struct {
	Client *Client
	Amount int
}

type AddTimeRequest struct {
	Client  *Client
	Seconds int
}

// ParticipantNotice tells the loop that a participant row changed outside the
// websocket path (REST join or franchise claim).
type ParticipantNotice struct {
	UserID uuid.UUID
	Action string
}

// NewAuctionRoom loads the room's authoritative rows and builds the actor.
// If the state says there is a current bid but no leading participant (a
// partial write should make this impossible, but restarts are cheap to guard),
// the leader is reconstructed from the bid audit log.
func NewAuctionRoom(ctx context.Context, roomID uuid.UUID, repos *repository.Repositories, machine *auction.Machine, clock clockwork.Clock) (*AuctionRoom, error) {
	room, err := repos.Room.GetByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	state, err := repos.AuctionState.GetByRoomID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	participants, err := repos.Participant.GetByRoomID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	catalogList, err := repos.CatalogPlayer.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	r := &AuctionRoom{
		id:              roomID,
		shortCode:       room.ShortCode,
		room:            room,
		state:           state,
		catalog:         make(map[string]*domain.CatalogPlayer, len(catalogList)),
		catalogList:     catalogList,
		machine:         machine,
		repos:           repos,
		clock:           clock,
		timer:           newSlotTimer(clock),
		clients:         make(map[*Client]bool),
		lastExpiredSlot: -1,
		join:            make(chan *Client),
		leave:           make(chan *Client),
		broadcast:       make(chan *Message),
		syncState:       make(chan *Client),
		startAuction:    make(chan *Client),
		placeBid:        make(chan *PlaceBidRequest),
		pauseAuction:    make(chan *Client),
		resumeAuction:   make(chan *Client),
		addTime:         make(chan *AddTimeRequest),
		sellPlayer:      make(chan *Client),
		skipPlayer:      make(chan *Client),
		endAuction:      make(chan *Client),
		participant:     make(chan *ParticipantNotice, 8),
		timerExpired:    make(chan int, 1),
		timerTick:       make(chan struct{}, 1),
		stopCh:          make(chan struct{}),
		done:            make(chan struct{}),
	}
	for _, p := range catalogList {
		r.catalog[p.ID] = p
	}
	r.setParticipants(participants)
	r.restoreLeading(ctx)

	// Resume the countdown for a room that was live when the server restarted.
	if state.Active && !state.Paused && !state.Ended {
		r.armTimer()
	}
	return r, nil
}

func (r *AuctionRoom) Run() {
	defer close(r.done)

	for {
		select {
		case <-r.stopCh:
			r.timer.Stop()
			return

		case client := <-r.join:
			r.handleJoin(client)

		case client := <-r.leave:
			r.handleLeave(client)

		case msg := <-r.broadcast:
			r.broadcastMessage(msg)

		case client := <-r.syncState:
			r.sendStateSync(client)

		case client := <-r.startAuction:
			r.handleStartAuction(client)

		case req := <-r.placeBid:
			r.handlePlaceBid(req)

		case client := <-r.pauseAuction:
			r.handlePauseAuction(client)

		case client := <-r.resumeAuction:
			r.handleResumeAuction(client)

		case req := <-r.addTime:
			r.handleAddTime(req)

		case client := <-r.sellPlayer:
			r.handleSellPlayer(client)

		case client := <-r.skipPlayer:
			r.handleSkipPlayer(client)

		case client := <-r.endAuction:
			r.handleEndAuction(client)

		case notice := <-r.participant:
			r.handleParticipantNotice(notice)

		case slot := <-r.timerExpired:
			r.handleTimerExpired(slot)

		case <-r.timerTick:
			r.handleTimerTick()
		}
	}
}

// Stop shuts the loop down; Wait blocks until it has exited.
func (r *AuctionRoom) Stop() {
	select {
	case <-r.stopCh:
	default:
		close(r.stopCh)
	}
}

func (r *AuctionRoom) Wait() {
	<-r.done
}

func (r *AuctionRoom) setParticipants(participants []*domain.Participant) {
	r.participants = participants
	r.byUser = make(map[uuid.UUID]*domain.Participant, len(participants))
	r.byID = make(map[uuid.UUID]*domain.Participant, len(participants))
	for _, p := range participants {
		r.byUser[p.UserID] = p
		r.byID[p.ID] = p
	}
}

func (r *AuctionRoom) restoreLeading(ctx context.Context) {
	if r.state.CurrentBid <= 0 || r.state.LeadingParticipantID != nil {
		return
	}
	records, err := r.repos.BidRecord.GetByRoomAndPlayer(ctx, r.id, r.state.CurrentPlayerID())
	if err != nil {
		log.Warn().Err(err).Str("room_id", r.id.String()).Msg("failed to load bid records for recovery")
		return
	}
	recs := make([]domain.BidRecord, len(records))
	for i, rec := range records {
		recs[i] = *rec
	}
	if id, amount, ok := auction.LeadingFromRecords(recs); ok {
		r.state.LeadingParticipantID = &id
		r.state.CurrentBid = amount
	}
}

// apply runs one command: mutate in memory, persist atomically, and on a
// version conflict reload and re-run the command once against fresh state.
// Any other persistence failure also reloads, so the in-memory copy never
// drifts ahead of the database.
func (r *AuctionRoom) apply(ctx context.Context, roomChanged bool, op func(now time.Time) (*domain.BidRecord, []*domain.Participant, error)) error {
	for attempt := 0; attempt < 2; attempt++ {
		now := r.clock.Now()
		bid, touched, err := op(now)
		if err != nil {
			if errors.Is(err, domain.ErrInvariantViolation) {
				// The room got flagged; that must stick even though the
				// command failed.
				if uerr := r.repos.Room.Update(ctx, r.room); uerr != nil {
					log.Error().Err(uerr).Str("room_id", r.id.String()).Msg("failed to persist flagged room")
				}
			}
			return err
		}

		perr := r.persist(ctx, bid, touched, roomChanged)
		if perr == nil {
			return nil
		}
		if rerr := r.reload(ctx); rerr != nil {
			log.Error().Err(rerr).Str("room_id", r.id.String()).Msg("failed to reload after persist error")
			return perr
		}
		if !errors.Is(perr, domain.ErrStaleState) || attempt > 0 {
			return perr
		}
	}
	return domain.ErrStaleState
}

func (r *AuctionRoom) persist(ctx context.Context, bid *domain.BidRecord, touched []*domain.Participant, roomChanged bool) error {
	expected := r.state.Version
	r.state.Version = expected + 1

	err := r.repos.Tx.Run(ctx, func(repos *repository.Repositories) error {
		if err := repos.AuctionState.UpdateCAS(ctx, r.state, expected); err != nil {
			return err
		}
		if roomChanged {
			if err := repos.Room.Update(ctx, r.room); err != nil {
				return err
			}
		}
		for _, p := range touched {
			if err := repos.Participant.Update(ctx, p); err != nil {
				return err
			}
		}
		if bid != nil {
			if err := repos.BidRecord.Create(ctx, bid); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		r.state.Version = expected
	}
	return err
}

func (r *AuctionRoom) reload(ctx context.Context) error {
	room, err := r.repos.Room.GetByID(ctx, r.id)
	if err != nil {
		return err
	}
	state, err := r.repos.AuctionState.GetByRoomID(ctx, r.id)
	if err != nil {
		return err
	}
	participants, err := r.repos.Participant.GetByRoomID(ctx, r.id)
	if err != nil {
		return err
	}
	r.room = room
	r.state = state
	r.setParticipants(participants)
	r.restoreLeading(ctx)
	return nil
}

func (r *AuctionRoom) participantFor(client *Client) *domain.Participant {
	return r.byUser[client.userID]
}

func (r *AuctionRoom) armTimer() {
	if !r.state.Active || r.state.Paused || r.state.Ended {
		r.timer.Stop()
		return
	}
	remaining := r.state.Remaining(r.clock.Now())
	r.timer.Arm(r.state.Position, time.Duration(remaining)*time.Second, r.timerExpired, r.timerTick)
}

func (r *AuctionRoom) handleJoin(client *Client) {
	r.clients[client] = true

	// The participant row may have been created over REST after this actor
	// loaded; pick it up now.
	r.refreshParticipant(client.userID)

	r.sendStateSync(client)

	if p := r.byUser[client.userID]; p != nil {
		r.broadcastParticipantUpdate(p, "joined")
	}
}

func (r *AuctionRoom) handleLeave(client *Client) {
	if !r.clients[client] {
		return
	}
	delete(r.clients, client)

	if p := r.byUser[client.userID]; p != nil {
		r.broadcastParticipantUpdate(p, "left")
	}
}

func (r *AuctionRoom) refreshParticipant(userID uuid.UUID) {
	p, err := r.repos.Participant.GetByRoomAndUser(context.Background(), r.id, userID)
	if err != nil {
		return
	}
	if existing := r.byUser[userID]; existing != nil {
		*existing = *p
		return
	}
	r.participants = append(r.participants, p)
	r.byUser[p.UserID] = p
	r.byID[p.ID] = p
}

func (r *AuctionRoom) handleParticipantNotice(notice *ParticipantNotice) {
	r.refreshParticipant(notice.UserID)
	if p := r.byUser[notice.UserID]; p != nil {
		r.broadcastParticipantUpdate(p, notice.Action)
	}
}

func (r *AuctionRoom) handleStartAuction(client *Client) {
	ctx := context.Background()
	err := r.apply(ctx, true, func(now time.Time) (*domain.BidRecord, []*domain.Participant, error) {
		queue := r.state.QueueIDs()
		if len(queue) == 0 {
			built, err := auction.BuildQueue(r.catalogList, r.room.ID.String())
			if err != nil {
				return nil, nil, err
			}
			queue = built
		}
		return nil, nil, r.machine.Start(r.room, r.state, r.participantFor(client), queue, now)
	})
	if err != nil {
		client.sendError(errorCode(err), err.Error())
		return
	}

	r.lastExpiredSlot = -1
	msg, _ := NewMessage(MessageTypeAuctionStarted, AuctionStartedPayload{
		Version:          r.state.Version,
		CurrentPlayer:    r.currentPlayerInfo(),
		RemainingSeconds: r.state.Remaining(r.clock.Now()),
	})
	r.broadcastMessage(msg)
	r.broadcastStateSync()
	r.armTimer()

	log.Info().Str("room_id", r.id.String()).Int("queue", len(r.state.QueueIDs())).Msg("auction started")
}

func (r *AuctionRoom) handlePlaceBid(req *PlaceBidRequest) {
	bidder := r.participantFor(req.Client)
	if bidder == nil {
		req.Client.sendError("NOT_IN_ROOM", "Join the room before bidding")
		return
	}

	ctx := context.Background()
	err := r.apply(ctx, false, func(now time.Time) (*domain.BidRecord, []*domain.Participant, error) {
		b := r.participantFor(req.Client)
		if b == nil {
			return nil, nil, domain.ErrNotInRoom
		}
		bid, err := r.machine.PlaceBid(r.room, r.state, b, r.currentBasePrice(), req.Amount, now)
		if err != nil {
			return nil, nil, err
		}
		return bid, nil, nil
	})
	if err != nil {
		req.Client.sendError(errorCode(err), err.Error())
		return
	}

	bidder = r.participantFor(req.Client)
	franchise := ""
	if bidder != nil && bidder.Franchise != nil {
		franchise = *bidder.Franchise
	}
	msg, _ := NewMessage(MessageTypeBidPlaced, BidPlacedPayload{
		Version:          r.state.Version,
		PlayerID:         r.state.CurrentPlayerID(),
		ParticipantID:    bidder.ID.String(),
		Franchise:        franchise,
		Amount:           r.state.CurrentBid,
		RemainingSeconds: r.state.Remaining(r.clock.Now()),
	})
	r.broadcastMessage(msg)
	r.broadcastStateSync()
	r.armTimer()
}

func (r *AuctionRoom) handlePauseAuction(client *Client) {
	ctx := context.Background()
	err := r.apply(ctx, true, func(now time.Time) (*domain.BidRecord, []*domain.Participant, error) {
		return nil, nil, r.machine.Pause(r.room, r.state, r.participantFor(client), now)
	})
	if err != nil {
		client.sendError(errorCode(err), err.Error())
		return
	}

	r.timer.Stop()
	msg, _ := NewMessage(MessageTypeAuctionPaused, AuctionPausedPayload{
		Version:          r.state.Version,
		RemainingSeconds: r.state.Remaining(r.clock.Now()),
	})
	r.broadcastMessage(msg)
	r.broadcastStateSync()
}

func (r *AuctionRoom) handleResumeAuction(client *Client) {
	ctx := context.Background()
	err := r.apply(ctx, true, func(now time.Time) (*domain.BidRecord, []*domain.Participant, error) {
		return nil, nil, r.machine.Resume(r.room, r.state, r.participantFor(client), now)
	})
	if err != nil {
		client.sendError(errorCode(err), err.Error())
		return
	}

	msg, _ := NewMessage(MessageTypeAuctionResumed, AuctionResumedPayload{
		Version:          r.state.Version,
		RemainingSeconds: r.state.Remaining(r.clock.Now()),
	})
	r.broadcastMessage(msg)
	r.broadcastStateSync()
	r.armTimer()
}

func (r *AuctionRoom) handleAddTime(req *AddTimeRequest) {
	ctx := context.Background()
	err := r.apply(ctx, false, func(now time.Time) (*domain.BidRecord, []*domain.Participant, error) {
		return nil, nil, r.machine.AddTime(r.room, r.state, r.participantFor(req.Client), req.Seconds, now)
	})
	if err != nil {
		req.Client.sendError(errorCode(err), err.Error())
		return
	}

	// A fresh deadline: the expiry guard must allow this slot to fire again.
	r.lastExpiredSlot = -1
	msg, _ := NewMessage(MessageTypeTimerTick, TimerTickPayload{
		Version:          r.state.Version,
		RemainingSeconds: r.state.Remaining(r.clock.Now()),
	})
	r.broadcastMessage(msg)
	r.broadcastStateSync()
	r.armTimer()
}

func (r *AuctionRoom) handleSellPlayer(client *Client) {
	var sold *domain.SoldEntry
	var winner *domain.Participant

	ctx := context.Background()
	err := r.apply(ctx, true, func(now time.Time) (*domain.BidRecord, []*domain.Participant, error) {
		winner = nil
		if r.state.LeadingParticipantID != nil {
			winner = r.byID[*r.state.LeadingParticipantID]
		}
		entry, err := r.machine.Sell(r.room, r.state, r.participantFor(client), winner, now)
		if err != nil {
			return nil, nil, err
		}
		sold = entry
		return nil, []*domain.Participant{winner}, nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvariantViolation) {
			log.Error().Str("room_id", r.id.String()).Msg("sell would overdraw budget; room flagged")
		}
		client.sendError(errorCode(err), err.Error())
		return
	}

	playerName := sold.PlayerID
	if p := r.catalog[sold.PlayerID]; p != nil {
		playerName = p.Name
	}
	franchise := ""
	if winner.Franchise != nil {
		franchise = *winner.Franchise
	}
	msg, _ := NewMessage(MessageTypePlayerSold, PlayerSoldPayload{
		PlayerID:   sold.PlayerID,
		PlayerName: playerName,
		Franchise:  franchise,
		Price:      sold.Price,
	})
	r.broadcastMessage(msg)
	r.afterSlotClosed()

	log.Info().
		Str("room_id", r.id.String()).
		Str("player_id", sold.PlayerID).
		Str("franchise", franchise).
		Int("price", sold.Price).
		Msg("player sold")
}

func (r *AuctionRoom) handleSkipPlayer(client *Client) {
	var skipped *domain.UnsoldEntry

	ctx := context.Background()
	err := r.apply(ctx, true, func(now time.Time) (*domain.BidRecord, []*domain.Participant, error) {
		entry, err := r.machine.Skip(r.room, r.state, r.participantFor(client), now)
		if err != nil {
			return nil, nil, err
		}
		skipped = entry
		return nil, nil, nil
	})
	if err != nil {
		client.sendError(errorCode(err), err.Error())
		return
	}

	if skipped.HadBid {
		log.Warn().
			Str("room_id", r.id.String()).
			Str("player_id", skipped.PlayerID).
			Msg("slot skipped over a live bid")
	}
	msg, _ := NewMessage(MessageTypePlayerUnsold, PlayerUnsoldPayload{
		PlayerID: skipped.PlayerID,
		HadBid:   skipped.HadBid,
	})
	r.broadcastMessage(msg)
	r.afterSlotClosed()
}

func (r *AuctionRoom) handleEndAuction(client *Client) {
	ctx := context.Background()
	err := r.apply(ctx, true, func(now time.Time) (*domain.BidRecord, []*domain.Participant, error) {
		return nil, nil, r.machine.End(r.room, r.state, r.participantFor(client), now)
	})
	if err != nil {
		client.sendError(errorCode(err), err.Error())
		return
	}
	r.afterSlotClosed()
}

// afterSlotClosed handles the shared tail of sell, skip, and end: either the
// next slot's countdown starts, or the auction is over and says so.
func (r *AuctionRoom) afterSlotClosed() {
	r.lastExpiredSlot = -1
	r.broadcastStateSync()

	if r.state.Ended {
		r.timer.Stop()
		msg, _ := NewMessage(MessageTypeAuctionCompleted, AuctionCompletedPayload{
			Version: r.state.Version,
			Sold:    r.soldInfos(),
			Unsold:  r.unsoldInfos(),
		})
		r.broadcastMessage(msg)
		log.Info().Str("room_id", r.id.String()).Msg("auction completed")
		return
	}
	r.armTimer()
}

func (r *AuctionRoom) handleTimerExpired(slot int) {
	if slot != r.state.Position || slot == r.lastExpiredSlot {
		return
	}
	if !r.state.Active || r.state.Paused || r.state.Ended {
		return
	}
	r.lastExpiredSlot = slot

	// Advisory only: the auctioneer decides what happens to the slot.
	msg, _ := NewMessage(MessageTypeTimerExpired, TimerExpiredPayload{
		Version:  r.state.Version,
		Position: slot,
		PlayerID: r.state.CurrentPlayerID(),
	})
	r.broadcastMessage(msg)
}

func (r *AuctionRoom) handleTimerTick() {
	if !r.state.Active || r.state.Paused || r.state.Ended {
		return
	}
	msg, _ := NewMessage(MessageTypeTimerTick, TimerTickPayload{
		Version:          r.state.Version,
		RemainingSeconds: r.state.Remaining(r.clock.Now()),
	})
	r.broadcastMessage(msg)
}

func (r *AuctionRoom) currentBasePrice() int {
	p := r.catalog[r.state.CurrentPlayerID()]
	if p == nil {
		return 0
	}
	return p.BasePrice
}

func (r *AuctionRoom) currentPlayerInfo() *PlayerInfo {
	p := r.catalog[r.state.CurrentPlayerID()]
	if p == nil {
		return nil
	}
	return &PlayerInfo{
		ID:          p.ID,
		Name:        p.Name,
		Role:        string(p.Role),
		Nationality: p.Nationality,
		BasePrice:   p.BasePrice,
	}
}

func (r *AuctionRoom) participantInfo(p *domain.Participant) ParticipantInfo {
	displayName := "Unknown"
	if p.User != nil {
		displayName = p.User.DisplayName
	}
	squad := p.SquadIDs()
	if squad == nil {
		squad = []string{}
	}
	return ParticipantInfo{
		ID:              p.ID.String(),
		UserID:          p.UserID.String(),
		DisplayName:     displayName,
		Franchise:       p.Franchise,
		RemainingBudget: p.RemainingBudget,
		Squad:           squad,
		IsAuctioneer:    p.IsAuctioneer,
	}
}

func (r *AuctionRoom) soldInfos() []SoldInfo {
	entries := r.state.SoldEntries()
	infos := make([]SoldInfo, 0, len(entries))
	for _, e := range entries {
		infos = append(infos, SoldInfo{
			PlayerID:      e.PlayerID,
			ParticipantID: e.ParticipantID.String(),
			Price:         e.Price,
			At:            e.At.UnixMilli(),
		})
	}
	return infos
}

func (r *AuctionRoom) unsoldInfos() []UnsoldInfo {
	entries := r.state.UnsoldEntries()
	infos := make([]UnsoldInfo, 0, len(entries))
	for _, e := range entries {
		infos = append(infos, UnsoldInfo{
			PlayerID: e.PlayerID,
			HadBid:   e.HadBid,
		})
	}
	return infos
}

func (r *AuctionRoom) sendStateSync(client *Client) {
	now := r.clock.Now()

	var leadingID *string
	if r.state.LeadingParticipantID != nil {
		s := r.state.LeadingParticipantID.String()
		leadingID = &s
	}

	participants := make([]ParticipantInfo, 0, len(r.participants))
	for _, p := range r.participants {
		participants = append(participants, r.participantInfo(p))
	}

	var you *ParticipantInfo
	isAuctioneer := false
	if p := r.byUser[client.userID]; p != nil {
		info := r.participantInfo(p)
		you = &info
		isAuctioneer = p.IsAuctioneer
	}

	msg, _ := NewMessage(MessageTypeStateSync, StateSyncPayload{
		Room: RoomInfo{
			ID:             r.room.ID.String(),
			ShortCode:      r.room.ShortCode,
			Name:           r.room.Name,
			Status:         string(r.room.Status),
			BudgetPerTeam:  r.room.BudgetPerTeam,
			PlayersPerTeam: r.room.PlayersPerTeam,
			TimerSeconds:   r.room.TimerSeconds,
		},
		Auction: AuctionInfo{
			Version:          r.state.Version,
			Position:         r.state.Position,
			QueueLength:      len(r.state.QueueIDs()),
			CurrentPlayer:    r.currentPlayerInfo(),
			CurrentBid:       r.state.CurrentBid,
			LeadingID:        leadingID,
			RemainingSeconds: r.state.Remaining(now),
			Active:           r.state.Active,
			Paused:           r.state.Paused,
			Ended:            r.state.Ended,
			Sold:             r.soldInfos(),
			Unsold:           r.unsoldInfos(),
		},
		Participants: participants,
		You:          you,
		IsAuctioneer: isAuctioneer,
	})
	client.Send(msg)
}

func (r *AuctionRoom) broadcastStateSync() {
	for client := range r.clients {
		r.sendStateSync(client)
	}
}

func (r *AuctionRoom) broadcastParticipantUpdate(p *domain.Participant, action string) {
	msg, _ := NewMessage(MessageTypeParticipantUpdate, ParticipantUpdatePayload{
		Participant: r.participantInfo(p),
		Action:      action,
	})
	r.broadcastMessage(msg)
}

func (r *AuctionRoom) broadcastMessage(msg *Message) {
	data, _ := json.Marshal(msg)
	for client := range r.clients {
		// Buffer full or channel closed mid-unregister: skip; the next
		// STATE_SYNC catches them up.
		client.trySend(data)
	}
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, domain.ErrNotAuctioneer):
		return "NOT_AUCTIONEER"
	case errors.Is(err, domain.ErrNotInRoom):
		return "NOT_IN_ROOM"
	case errors.Is(err, domain.ErrAlreadyActive):
		return "ALREADY_ACTIVE"
	case errors.Is(err, domain.ErrAuctionNotActive):
		return "NOT_ACTIVE"
	case errors.Is(err, domain.ErrAuctionPaused):
		return "AUCTION_PAUSED"
	case errors.Is(err, domain.ErrAuctionEnded):
		return "AUCTION_ENDED"
	case errors.Is(err, domain.ErrBidTooLow):
		return "BID_TOO_LOW"
	case errors.Is(err, domain.ErrInsufficientBudget):
		return "INSUFFICIENT_BUDGET"
	case errors.Is(err, domain.ErrSquadFull):
		return "SQUAD_FULL"
	case errors.Is(err, domain.ErrSelfOutbid):
		return "SELF_OUTBID"
	case errors.Is(err, domain.ErrNoValidBid):
		return "NO_VALID_BID"
	case errors.Is(err, domain.ErrNoFranchise):
		return "NO_FRANCHISE"
	case errors.Is(err, domain.ErrTimerExpired):
		return "TIMER_EXPIRED"
	case errors.Is(err, domain.ErrFranchiseTaken):
		return "FRANCHISE_TAKEN"
	case errors.Is(err, domain.ErrStaleState):
		return "CONFLICT"
	case errors.Is(err, domain.ErrEmptyCatalog):
		return "EMPTY_CATALOG"
	case errors.Is(err, domain.ErrInvariantViolation):
		return "INVARIANT_VIOLATION"
	default:
		return "INTERNAL_ERROR"
	}
}
