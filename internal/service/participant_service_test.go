package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/nkumar/cricket-auction/internal/domain"
	repoPostgres "github.com/nkumar/cricket-auction/internal/repository/postgres"
	"github.com/nkumar/cricket-auction/internal/service"
	"github.com/nkumar/cricket-auction/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParticipantService_Join(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := repoPostgres.NewRepositories(testDB.DB)
	svc := service.NewParticipantService(repos)
	ctx := context.Background()

	room := testutil.NewRoomBuilder().WithBudget(8000).Build(t, testDB.DB)
	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

	participant, err := svc.Join(ctx, room.ID, user.ID)
	require.NoError(t, err)

	assert.Equal(t, room.ID, participant.RoomID)
	assert.Equal(t, user.ID, participant.UserID)
	assert.Equal(t, 8000, participant.RemainingBudget)
	assert.False(t, participant.IsAuctioneer)
	assert.Nil(t, participant.Franchise)
	assert.Empty(t, participant.SquadIDs())
}

func TestParticipantService_Join_Rejoin(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := repoPostgres.NewRepositories(testDB.DB)
	svc := service.NewParticipantService(repos)
	ctx := context.Background()

	room := testutil.NewRoomBuilder().Build(t, testDB.DB)
	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

	first, err := svc.Join(ctx, room.ID, user.ID)
	require.NoError(t, err)

	// Claim a franchise, then rejoin: the existing row comes back untouched.
	_, err = svc.ClaimFranchise(ctx, room.ID, user.ID, "CSK")
	require.NoError(t, err)

	second, err := svc.Join(ctx, room.ID, user.ID)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	require.NotNil(t, second.Franchise)
	assert.Equal(t, "CSK", *second.Franchise)
}

func TestParticipantService_Join_RoomNotFound(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := repoPostgres.NewRepositories(testDB.DB)
	svc := service.NewParticipantService(repos)

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

	_, err := svc.Join(context.Background(), uuid.New(), user.ID)
	assert.ErrorIs(t, err, service.ErrRoomNotFound)
}

func TestParticipantService_ClaimFranchise(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := repoPostgres.NewRepositories(testDB.DB)
	svc := service.NewParticipantService(repos)
	ctx := context.Background()

	room := testutil.NewRoomBuilder().Build(t, testDB.DB)
	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

	_, err := svc.Join(ctx, room.ID, user.ID)
	require.NoError(t, err)

	participant, err := svc.ClaimFranchise(ctx, room.ID, user.ID, "MI")
	require.NoError(t, err)
	require.NotNil(t, participant.Franchise)
	assert.Equal(t, "MI", *participant.Franchise)
}

func TestParticipantService_ClaimFranchise_Taken(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := repoPostgres.NewRepositories(testDB.DB)
	svc := service.NewParticipantService(repos)
	ctx := context.Background()

	room := testutil.NewRoomBuilder().Build(t, testDB.DB)
	first, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	second, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

	_, err := svc.Join(ctx, room.ID, first.ID)
	require.NoError(t, err)
	_, err = svc.Join(ctx, room.ID, second.ID)
	require.NoError(t, err)

	_, err = svc.ClaimFranchise(ctx, room.ID, first.ID, "RCB")
	require.NoError(t, err)

	_, err = svc.ClaimFranchise(ctx, room.ID, second.ID, "RCB")
	assert.ErrorIs(t, err, domain.ErrFranchiseTaken)

	// The loser can still claim a different franchise.
	participant, err := svc.ClaimFranchise(ctx, room.ID, second.ID, "KKR")
	require.NoError(t, err)
	assert.Equal(t, "KKR", *participant.Franchise)
}

func TestParticipantService_ClaimFranchise_NotInRoom(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := repoPostgres.NewRepositories(testDB.DB)
	svc := service.NewParticipantService(repos)

	room := testutil.NewRoomBuilder().Build(t, testDB.DB)
	outsider, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

	_, err := svc.ClaimFranchise(context.Background(), room.ID, outsider.ID, "CSK")
	assert.ErrorIs(t, err, domain.ErrNotInRoom)
}

func TestParticipantService_ListByRoom(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := repoPostgres.NewRepositories(testDB.DB)
	svc := service.NewParticipantService(repos)
	ctx := context.Background()

	room := testutil.NewRoomBuilder().Build(t, testDB.DB)
	for i := 0; i < 3; i++ {
		user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
		_, err := svc.Join(ctx, room.ID, user.ID)
		require.NoError(t, err)
	}

	participants, err := svc.ListByRoom(ctx, room.ID)
	require.NoError(t, err)
	// Three joiners plus the room builder's auctioneer.
	assert.Len(t, participants, 4)
	for _, p := range participants {
		require.NotNil(t, p.User, "participants list should preload users")
	}
}
