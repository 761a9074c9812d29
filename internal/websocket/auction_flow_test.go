package websocket_test

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nkumar/cricket-auction/internal/domain"
	"github.com/nkumar/cricket-auction/internal/testutil"
	"github.com/nkumar/cricket-auction/internal/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const waitFor = 5 * time.Second

// flowFixture wires a room with a live auctioneer connection and two bidder
// connections holding franchises.
type flowFixture struct {
	ts         *testutil.TestServer
	room       *domain.Room
	auctioneer *testutil.WSClient
	bidderA    *testutil.WSClient
	bidderB    *testutil.WSClient
	tokenA     string
}

func setupFlow(t *testing.T, timerSeconds, playerCount int) *flowFixture {
	t.Helper()

	ts := testutil.NewTestServer(t)
	testutil.SeedPlayers(t, ts.DB.DB, playerCount)

	creator, creatorToken := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)
	room := testutil.NewRoomBuilder().
		WithCreator(creator).
		WithBudget(1000).
		WithPlayersPerTeam(2).
		WithTimerSeconds(timerSeconds).
		Build(t, ts.DB.DB)

	userA, tokenA := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)
	testutil.NewParticipantBuilder(room).WithUser(userA).WithFranchise("CSK").Build(t, ts.DB.DB)

	userB, tokenB := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)
	testutil.NewParticipantBuilder(room).WithUser(userB).WithFranchise("MI").Build(t, ts.DB.DB)

	f := &flowFixture{
		ts:         ts,
		room:       room,
		auctioneer: testutil.NewWSClient(t, ts.WebSocketURL(creatorToken)),
		bidderA:    testutil.NewWSClient(t, ts.WebSocketURL(tokenA)),
		bidderB:    testutil.NewWSClient(t, ts.WebSocketURL(tokenB)),
		tokenA:     tokenA,
	}

	for _, c := range []*testutil.WSClient{f.auctioneer, f.bidderA, f.bidderB} {
		c.JoinRoom(room.ID.String())
		c.ExpectStateSync(waitFor)
	}
	for _, c := range []*testutil.WSClient{f.auctioneer, f.bidderA, f.bidderB} {
		c.DrainMessages()
	}
	return f
}

func TestAuctionFlow_HappyPath(t *testing.T) {
	f := setupFlow(t, 30, 4)

	f.auctioneer.StartAuction()
	started := f.bidderA.ExpectAuctionStarted(waitFor)
	require.NotNil(t, started.CurrentPlayer)
	assert.Equal(t, 100, started.CurrentPlayer.BasePrice)

	sync := f.bidderA.ExpectStateSync(waitFor)
	assert.True(t, sync.Auction.Active)
	assert.Equal(t, 0, sync.Auction.Position)
	assert.Equal(t, 4, sync.Auction.QueueLength)
	assert.False(t, sync.IsAuctioneer)
	require.NotNil(t, sync.You)
	assert.Equal(t, 1000, sync.You.RemainingBudget)

	// Opening bid at base price.
	f.bidderA.PlaceBid(100)
	placed := f.bidderB.ExpectBidPlaced(waitFor)
	assert.Equal(t, 100, placed.Amount)
	assert.Equal(t, "CSK", placed.Franchise)

	// A raise from the other franchise.
	f.bidderB.PlaceBid(150)
	placed = f.bidderA.ExpectBidPlaced(waitFor)
	assert.Equal(t, 150, placed.Amount)
	assert.Equal(t, "MI", placed.Franchise)

	soldPlayerID := started.CurrentPlayer.ID
	f.auctioneer.SellPlayer()
	sold := f.bidderA.ExpectPlayerSold(waitFor)
	assert.Equal(t, soldPlayerID, sold.PlayerID)
	assert.Equal(t, "MI", sold.Franchise)
	assert.Equal(t, 150, sold.Price)

	// Everyone converges on the debited ledger and the next slot.
	sync = f.bidderB.ExpectStateSyncWhere(waitFor, func(p *websocket.StateSyncPayload) bool {
		return p.Auction.Position == 1
	})
	require.NotNil(t, sync.You)
	assert.Equal(t, 850, sync.You.RemainingBudget)
	assert.Equal(t, []string{soldPlayerID}, sync.You.Squad)
	assert.Equal(t, 0, sync.Auction.CurrentBid)
	assert.Nil(t, sync.Auction.LeadingID)
	require.Len(t, sync.Auction.Sold, 1)
	assert.Equal(t, 150, sync.Auction.Sold[0].Price)
}

func TestAuctionFlow_NonAuctioneerCannotRun(t *testing.T) {
	f := setupFlow(t, 30, 2)

	f.bidderA.StartAuction()
	f.bidderA.ExpectErrorWithCode("NOT_AUCTIONEER", waitFor)

	f.auctioneer.StartAuction()
	f.bidderA.ExpectAuctionStarted(waitFor)

	f.bidderA.PauseAuction()
	f.bidderA.ExpectErrorWithCode("NOT_AUCTIONEER", waitFor)

	f.bidderA.SellPlayer()
	f.bidderA.ExpectErrorWithCode("NOT_AUCTIONEER", waitFor)

	f.bidderA.EndAuction()
	f.bidderA.ExpectErrorWithCode("NOT_AUCTIONEER", waitFor)
}

func TestAuctionFlow_BidValidation(t *testing.T) {
	f := setupFlow(t, 30, 2)

	// Bids before the auction opens are rejected.
	f.bidderA.PlaceBid(100)
	f.bidderA.ExpectErrorWithCode("NOT_ACTIVE", waitFor)

	f.auctioneer.StartAuction()
	f.bidderA.ExpectAuctionStarted(waitFor)

	// Below base price.
	f.bidderA.PlaceBid(50)
	f.bidderA.ExpectErrorWithCode("BID_TOO_LOW", waitFor)

	// The auctioneer holds no franchise and cannot bid.
	f.auctioneer.PlaceBid(100)
	f.auctioneer.ExpectErrorWithCode("NO_FRANCHISE", waitFor)

	// Over budget.
	f.bidderA.PlaceBid(5000)
	f.bidderA.ExpectErrorWithCode("INSUFFICIENT_BUDGET", waitFor)

	// Raising without clearing the increment.
	f.bidderA.PlaceBid(100)
	f.bidderB.ExpectBidPlaced(waitFor)
	f.bidderB.PlaceBid(110)
	f.bidderB.ExpectErrorWithCode("BID_TOO_LOW", waitFor)

	// Outbidding yourself inside the cooldown.
	f.bidderA.PlaceBid(125)
	f.bidderA.ExpectErrorWithCode("SELF_OUTBID", waitFor)
}

func TestAuctionFlow_SellWithoutBid(t *testing.T) {
	f := setupFlow(t, 30, 2)

	f.auctioneer.StartAuction()
	f.auctioneer.ExpectAuctionStarted(waitFor)

	f.auctioneer.SellPlayer()
	f.auctioneer.ExpectErrorWithCode("NO_VALID_BID", waitFor)
}

func TestAuctionFlow_PauseResume(t *testing.T) {
	f := setupFlow(t, 30, 2)

	f.auctioneer.StartAuction()
	f.bidderA.ExpectAuctionStarted(waitFor)

	f.auctioneer.PauseAuction()
	f.bidderA.ExpectMessage(websocket.MessageTypeAuctionPaused, waitFor)

	f.bidderA.PlaceBid(100)
	f.bidderA.ExpectErrorWithCode("AUCTION_PAUSED", waitFor)

	f.auctioneer.ResumeAuction()
	f.bidderA.ExpectMessage(websocket.MessageTypeAuctionResumed, waitFor)

	f.bidderA.PlaceBid(100)
	placed := f.bidderA.ExpectBidPlaced(waitFor)
	assert.Equal(t, 100, placed.Amount)
}

func TestAuctionFlow_SkipThroughToCompletion(t *testing.T) {
	f := setupFlow(t, 30, 2)

	f.auctioneer.StartAuction()
	f.bidderA.ExpectAuctionStarted(waitFor)

	f.auctioneer.SkipPlayer()
	unsold := f.bidderA.ExpectPlayerUnsold(waitFor)
	assert.False(t, unsold.HadBid)

	// Skipping the last slot over a live bid ends the auction.
	f.bidderA.PlaceBid(100)
	f.bidderA.ExpectBidPlaced(waitFor)

	f.auctioneer.SkipPlayer()
	unsold = f.bidderA.ExpectPlayerUnsold(waitFor)
	assert.True(t, unsold.HadBid)

	completed := f.bidderA.ExpectAuctionCompleted(waitFor)
	assert.Empty(t, completed.Sold)
	assert.Len(t, completed.Unsold, 2)
}

func TestAuctionFlow_EndAuction(t *testing.T) {
	f := setupFlow(t, 30, 4)

	f.auctioneer.StartAuction()
	f.bidderA.ExpectAuctionStarted(waitFor)

	f.auctioneer.EndAuction()
	f.bidderA.ExpectAuctionCompleted(waitFor)

	f.bidderA.PlaceBid(100)
	f.bidderA.ExpectErrorWithCode("AUCTION_ENDED", waitFor)
}

func TestAuctionFlow_TimerExpiry(t *testing.T) {
	f := setupFlow(t, 2, 2)

	f.auctioneer.StartAuction()
	f.bidderA.ExpectAuctionStarted(waitFor)

	// Let the 2s countdown run out; expiry is advisory and fires once.
	expired := f.bidderA.ExpectTimerExpired(waitFor)
	assert.Equal(t, 0, expired.Position)

	f.bidderA.PlaceBid(100)
	f.bidderA.ExpectErrorWithCode("TIMER_EXPIRED", waitFor)

	// More time re-opens the slot for bidding.
	f.auctioneer.AddTime(30)
	placedAt := f.bidderA.ExpectStateSyncWhere(waitFor, func(p *websocket.StateSyncPayload) bool {
		return p.Auction.RemainingSeconds > 2
	})
	assert.True(t, placedAt.Auction.Active)

	f.bidderA.PlaceBid(100)
	placed := f.bidderA.ExpectBidPlaced(waitFor)
	assert.Equal(t, 100, placed.Amount)
}

func TestAuctionFlow_RestJoinVisibleToSubscribers(t *testing.T) {
	f := setupFlow(t, 30, 2)

	joiner, token := testutil.NewUserBuilder().BuildAndAuthenticate(t, f.ts)

	req := testutil.CreateAuthenticatedRequest(t, http.MethodPost,
		f.ts.APIURL("/rooms/"+f.room.ID.String()+"/join"), nil, token)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	update := f.bidderA.ExpectParticipantUpdate(waitFor)
	assert.Equal(t, "joined", update.Action)
	assert.Equal(t, joiner.ID.String(), update.Participant.UserID)

	// A franchise claim over REST is broadcast the same way.
	req = testutil.CreateAuthenticatedRequest(t, http.MethodPost,
		f.ts.APIURL("/rooms/"+f.room.ID.String()+"/franchise"),
		map[string]string{"franchise": "RCB"}, token)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	update = f.bidderA.ExpectParticipantUpdate(waitFor)
	assert.Equal(t, "claimed_franchise", update.Action)
	require.NotNil(t, update.Participant.Franchise)
	assert.Equal(t, "RCB", *update.Participant.Franchise)
}

func TestAuctionFlow_BidAuditLog(t *testing.T) {
	f := setupFlow(t, 30, 2)

	f.auctioneer.StartAuction()
	started := f.bidderA.ExpectAuctionStarted(waitFor)
	playerID := started.CurrentPlayer.ID

	f.bidderA.PlaceBid(100)
	f.bidderB.ExpectBidPlaced(waitFor)

	// A rejected raise must leave no trace in the log.
	f.bidderB.PlaceBid(110)
	f.bidderB.ExpectErrorWithCode("BID_TOO_LOW", waitFor)

	f.bidderB.PlaceBid(150)
	f.bidderA.ExpectBidPlaced(waitFor)

	req := testutil.CreateAuthenticatedRequest(t, http.MethodGet,
		f.ts.APIURL("/rooms/"+f.room.ID.String()+"/bids"), nil, f.tokenA)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var bids []struct {
		PlayerID      string `json:"playerId"`
		ParticipantID string `json:"participantId"`
		Amount        int    `json:"amount"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&bids))

	// Exactly the two accepted bids, in insertion order.
	require.Len(t, bids, 2)
	assert.Equal(t, 100, bids[0].Amount)
	assert.Equal(t, 150, bids[1].Amount)
	assert.Equal(t, playerID, bids[0].PlayerID)
	assert.Equal(t, playerID, bids[1].PlayerID)
	assert.NotEqual(t, bids[0].ParticipantID, bids[1].ParticipantID)
}

func TestAuctionFlow_RecoversLeadingBidFromAuditLog(t *testing.T) {
	ts := testutil.NewTestServer(t)
	players := testutil.SeedPlayers(t, ts.DB.DB, 2)

	creator, creatorToken := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)
	room := testutil.NewRoomBuilder().
		WithCreator(creator).
		WithBudget(1000).
		WithTimerSeconds(30).
		Build(t, ts.DB.DB)

	userA, _ := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)
	partA := testutil.NewParticipantBuilder(room).WithUser(userA).WithFranchise("CSK").Build(t, ts.DB.DB)
	userB, _ := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)
	partB := testutil.NewParticipantBuilder(room).WithUser(userB).WithFranchise("MI").Build(t, ts.DB.DB)

	// A mid-auction state whose leading pointer was lost (as after a partial
	// write and restart); only the append-only log knows who leads.
	var state domain.AuctionState
	require.NoError(t, ts.DB.DB.First(&state, "room_id = ?", room.ID).Error)
	state.SetQueue([]string{players[0].ID, players[1].ID})
	state.Active = true
	state.CurrentBid = 150
	state.LeadingParticipantID = nil
	state.TimeRemaining = 30
	now := time.Now()
	state.TimerStartedAt = &now
	require.NoError(t, ts.DB.DB.Save(&state).Error)

	base := now.Add(-time.Minute)
	for i, rec := range []domain.BidRecord{
		{ID: uuid.New(), RoomID: room.ID, PlayerID: players[0].ID, ParticipantID: partA.ID, Amount: 100},
		{ID: uuid.New(), RoomID: room.ID, PlayerID: players[0].ID, ParticipantID: partB.ID, Amount: 150},
	} {
		rec.CreatedAt = base.Add(time.Duration(i) * time.Second)
		require.NoError(t, ts.DB.DB.Create(&rec).Error)
	}

	// First join after the restart revives the actor from the rows.
	ws := testutil.NewWSClient(t, ts.WebSocketURL(creatorToken))
	ws.JoinRoom(room.ID.String())
	sync := ws.ExpectStateSync(waitFor)

	assert.Equal(t, 150, sync.Auction.CurrentBid)
	require.NotNil(t, sync.Auction.LeadingID)
	assert.Equal(t, partB.ID.String(), *sync.Auction.LeadingID)
}

func TestAuctionFlow_JoinByShortCode(t *testing.T) {
	f := setupFlow(t, 30, 2)

	_, token := testutil.NewUserBuilder().BuildAndAuthenticate(t, f.ts)
	req := testutil.CreateAuthenticatedRequest(t, http.MethodPost,
		f.ts.APIURL("/rooms/"+f.room.ShortCode+"/join"), nil, token)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	ws := testutil.NewWSClient(t, f.ts.WebSocketURL(token))
	ws.JoinRoom(f.room.ShortCode)
	sync := ws.ExpectStateSync(waitFor)
	assert.Equal(t, f.room.ID.String(), sync.Room.ID)
	require.NotNil(t, sync.You)
	assert.Equal(t, 1000, sync.You.RemainingBudget)
}
