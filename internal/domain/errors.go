package domain

import "errors"

// Validation errors: rejected with no state change, surfaced to the actor.
var (
	ErrEmptyCatalog       = errors.New("catalog is empty")
	ErrAlreadyActive      = errors.New("auction already active")
	ErrAuctionNotActive   = errors.New("auction is not active")
	ErrAuctionPaused      = errors.New("auction is paused")
	ErrAuctionEnded       = errors.New("auction has ended")
	ErrBidTooLow          = errors.New("bid is below the required minimum")
	ErrInsufficientBudget = errors.New("bid exceeds remaining budget")
	ErrSquadFull          = errors.New("squad is already full")
	ErrSelfOutbid         = errors.New("leading participant cannot outbid themselves yet")
	ErrNoValidBid         = errors.New("no valid bid to sell on")
	ErrNoFranchise        = errors.New("participant has not claimed a franchise")
	ErrTimerExpired       = errors.New("bidding time has run out")
)

// Authorization errors: rejected with no state change.
var (
	ErrNotAuctioneer = errors.New("only the auctioneer can perform this action")
	ErrNotInRoom     = errors.New("user is not a participant of this room")
)

// Conflict errors: retried once against the latest state, then surfaced.
var (
	ErrFranchiseTaken = errors.New("franchise is already taken in this room")
	ErrStaleState     = errors.New("auction state was modified concurrently")
)

// ErrInvariantViolation marks a state the bid validation should have made
// unreachable (e.g. a debit that would go negative). The room is flagged for
// manual review; the value is never silently repaired.
var ErrInvariantViolation = errors.New("auction invariant violated")
