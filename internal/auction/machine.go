package auction

import (
	"time"

	"github.com/google/uuid"
	"github.com/nkumar/cricket-auction/internal/domain"
)

// Rules are the room-independent bidding parameters.
type Rules struct {
	// MinIncrement is the smallest raise over the current bid.
	MinIncrement int
	// BidCooldown is how long the leading participant must wait before
	// raising their own bid, unless someone else bids first.
	BidCooldown time.Duration
	// MaxTimeRemaining caps the countdown after AddTime so repeated
	// anti-snipe resets cannot produce runaway timers.
	MaxTimeRemaining int
}

func DefaultRules() Rules {
	return Rules{
		MinIncrement:     25,
		BidCooldown:      10 * time.Second,
		MaxTimeRemaining: 60,
	}
}

// Machine holds the legal transitions of a room's auction. It is pure: every
// operation is a synchronous mutation of the passed state and ledger rows,
// with the caller (the room's auction loop) responsible for serializing calls
// and persisting the result atomically. Time is always passed in, never read
// from the wall clock.
type Machine struct {
	rules Rules
}

func NewMachine(rules Rules) *Machine {
	return &Machine{rules: rules}
}

func (m *Machine) Rules() Rules {
	return m.rules
}

// Start materializes the queue and opens the first slot. Calling it again
// once a queue exists fails with ErrAlreadyActive, so a double-click can
// never re-shuffle.
func (m *Machine) Start(room *domain.Room, st *domain.AuctionState, actor *domain.Participant, queue []string, now time.Time) error {
	if err := requireAuctioneer(actor); err != nil {
		return err
	}
	if st.Ended || room.Status == domain.RoomStatusCompleted {
		return domain.ErrAuctionEnded
	}
	if st.Active && len(st.QueueIDs()) > 0 {
		return domain.ErrAlreadyActive
	}
	if len(queue) == 0 {
		return domain.ErrEmptyCatalog
	}

	st.SetQueue(queue)
	st.Position = 0
	st.CurrentBid = 0
	st.LeadingParticipantID = nil
	st.LastBidAt = nil
	st.Active = true
	st.Paused = false
	st.TimeRemaining = room.TimerSeconds
	st.TimerStartedAt = &now

	room.Status = domain.RoomStatusActive
	room.StartedAt = &now
	return nil
}

// PlaceBid validates and applies a bid on the current slot. On success the
// countdown resets to the full slot duration (anti-snipe) and the returned
// BidRecord must be appended to the audit log in the same transaction.
func (m *Machine) PlaceBid(room *domain.Room, st *domain.AuctionState, bidder *domain.Participant, basePrice, amount int, now time.Time) (*domain.BidRecord, error) {
	if st.Ended {
		return nil, domain.ErrAuctionEnded
	}
	if !st.Active {
		return nil, domain.ErrAuctionNotActive
	}
	if st.Paused {
		return nil, domain.ErrAuctionPaused
	}
	if st.Remaining(now) <= 0 {
		return nil, domain.ErrTimerExpired
	}
	if !bidder.HasFranchise() {
		return nil, domain.ErrNoFranchise
	}
	if bidder.SquadSize() >= room.PlayersPerTeam {
		return nil, domain.ErrSquadFull
	}

	floor := basePrice
	if st.CurrentBid > 0 {
		floor = st.CurrentBid + m.rules.MinIncrement
	}
	if amount < floor {
		return nil, domain.ErrBidTooLow
	}
	if amount > bidder.RemainingBudget {
		return nil, domain.ErrInsufficientBudget
	}
	if st.LeadingParticipantID != nil && *st.LeadingParticipantID == bidder.ID {
		if st.LastBidAt == nil || now.Sub(*st.LastBidAt) < m.rules.BidCooldown {
			return nil, domain.ErrSelfOutbid
		}
	}

	st.CurrentBid = amount
	st.LeadingParticipantID = &bidder.ID
	st.LastBidAt = &now
	st.TimeRemaining = room.TimerSeconds
	st.TimerStartedAt = &now

	return &domain.BidRecord{
		ID:            uuid.New(),
		RoomID:        room.ID,
		PlayerID:      st.CurrentPlayerID(),
		ParticipantID: bidder.ID,
		Amount:        amount,
		CreatedAt:     now,
	}, nil
}

// Pause freezes the countdown at its current value. Pausing a paused auction
// is a no-op.
func (m *Machine) Pause(room *domain.Room, st *domain.AuctionState, actor *domain.Participant, now time.Time) error {
	if err := requireAuctioneer(actor); err != nil {
		return err
	}
	if st.Ended {
		return domain.ErrAuctionEnded
	}
	if !st.Active {
		return domain.ErrAuctionNotActive
	}
	if st.Paused {
		return nil
	}

	st.TimeRemaining = st.Remaining(now)
	st.Paused = true
	st.TimerStartedAt = &now
	room.Status = domain.RoomStatusPaused
	return nil
}

// Resume restarts the countdown from the frozen remaining value. It never
// resets to the full duration.
func (m *Machine) Resume(room *domain.Room, st *domain.AuctionState, actor *domain.Participant, now time.Time) error {
	if err := requireAuctioneer(actor); err != nil {
		return err
	}
	if st.Ended {
		return domain.ErrAuctionEnded
	}
	if !st.Active {
		return domain.ErrAuctionNotActive
	}
	if !st.Paused {
		return nil
	}

	st.Paused = false
	st.TimerStartedAt = &now
	room.Status = domain.RoomStatusActive
	return nil
}

// AddTime extends the countdown, clamped to MaxTimeRemaining.
func (m *Machine) AddTime(room *domain.Room, st *domain.AuctionState, actor *domain.Participant, seconds int, now time.Time) error {
	if err := requireAuctioneer(actor); err != nil {
		return err
	}
	if st.Ended {
		return domain.ErrAuctionEnded
	}
	if !st.Active {
		return domain.ErrAuctionNotActive
	}

	remaining := st.Remaining(now) + seconds
	if remaining > m.rules.MaxTimeRemaining {
		remaining = m.rules.MaxTimeRemaining
	}
	st.TimeRemaining = remaining
	st.TimerStartedAt = &now
	return nil
}

// Sell closes the current slot on the leading bid: debits the winner, records
// the sale, and advances the queue. The winner row must be the participant the
// state says is leading; a debit that would go negative means bid validation
// failed upstream and flags the room instead of clamping.
func (m *Machine) Sell(room *domain.Room, st *domain.AuctionState, actor, winner *domain.Participant, now time.Time) (*domain.SoldEntry, error) {
	if err := requireAuctioneer(actor); err != nil {
		return nil, err
	}
	if st.Ended {
		return nil, domain.ErrAuctionEnded
	}
	if !st.Active {
		return nil, domain.ErrAuctionNotActive
	}
	if st.LeadingParticipantID == nil || st.CurrentBid <= 0 {
		return nil, domain.ErrNoValidBid
	}
	if winner == nil || winner.ID != *st.LeadingParticipantID {
		return nil, domain.ErrNoValidBid
	}

	price := st.CurrentBid
	if winner.RemainingBudget < price {
		room.Flagged = true
		return nil, domain.ErrInvariantViolation
	}

	winner.RemainingBudget -= price
	winner.AddToSquad(st.CurrentPlayerID())

	entry := domain.SoldEntry{
		PlayerID:      st.CurrentPlayerID(),
		ParticipantID: winner.ID,
		Price:         price,
		At:            now,
	}
	st.AppendSold(entry)

	m.advance(room, st, now)
	return &entry, nil
}

// Skip passes the current slot without a sale. Skipping over a live bid is
// recorded explicitly (HadBid) rather than silently dropping it; the bid
// itself stays in the audit log.
func (m *Machine) Skip(room *domain.Room, st *domain.AuctionState, actor *domain.Participant, now time.Time) (*domain.UnsoldEntry, error) {
	if err := requireAuctioneer(actor); err != nil {
		return nil, err
	}
	if st.Ended {
		return nil, domain.ErrAuctionEnded
	}
	if !st.Active {
		return nil, domain.ErrAuctionNotActive
	}

	entry := domain.UnsoldEntry{
		PlayerID: st.CurrentPlayerID(),
		HadBid:   st.CurrentBid > 0,
		At:       now,
	}
	st.AppendUnsold(entry)

	m.advance(room, st, now)
	return &entry, nil
}

// End closes the auction irreversibly. Ending an ended auction is a no-op.
func (m *Machine) End(room *domain.Room, st *domain.AuctionState, actor *domain.Participant, now time.Time) error {
	if err := requireAuctioneer(actor); err != nil {
		return err
	}
	if st.Ended {
		return nil
	}
	m.end(room, st, now)
	return nil
}

// advance moves to the next slot and resets the per-slot fields. Running past
// the last queue position ends the auction without an explicit End call.
func (m *Machine) advance(room *domain.Room, st *domain.AuctionState, now time.Time) {
	st.Position++
	st.CurrentBid = 0
	st.LeadingParticipantID = nil
	st.LastBidAt = nil
	st.TimeRemaining = room.TimerSeconds
	st.TimerStartedAt = &now

	if st.Position >= len(st.QueueIDs()) {
		m.end(room, st, now)
	}
}

func (m *Machine) end(room *domain.Room, st *domain.AuctionState, now time.Time) {
	st.Active = false
	st.Paused = false
	st.Ended = true
	room.Status = domain.RoomStatusCompleted
	room.CompletedAt = &now
}

func requireAuctioneer(actor *domain.Participant) error {
	if actor == nil || !actor.IsAuctioneer {
		return domain.ErrNotAuctioneer
	}
	return nil
}

// LeadingFromRecords recomputes the leading bid for a slot from the
// append-only log: highest amount wins, equal amounts break on earliest
// timestamp. Equal amounts should be impossible given the strictly-increasing
// rule but are handled anyway for recovery and audit.
func LeadingFromRecords(records []domain.BidRecord) (uuid.UUID, int, bool) {
	var (
		best  domain.BidRecord
		found bool
	)
	for _, rec := range records {
		if !found || rec.Amount > best.Amount ||
			(rec.Amount == best.Amount && rec.CreatedAt.Before(best.CreatedAt)) {
			best = rec
			found = true
		}
	}
	if !found {
		return uuid.Nil, 0, false
	}
	return best.ParticipantID, best.Amount, true
}
