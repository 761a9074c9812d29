package auction_test

import (
	"fmt"
	"testing"

	"github.com/nkumar/cricket-auction/internal/auction"
	"github.com/nkumar/cricket-auction/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func catalog(n int) []*domain.CatalogPlayer {
	players := make([]*domain.CatalogPlayer, n)
	for i := range players {
		players[i] = &domain.CatalogPlayer{
			ID:        fmt.Sprintf("player-%d", i),
			Name:      fmt.Sprintf("Player %d", i),
			Role:      domain.RoleBatter,
			BasePrice: 100,
		}
	}
	return players
}

func TestBuildQueue_Deterministic(t *testing.T) {
	players := catalog(25)

	first, err := auction.BuildQueue(players, "room-seed")
	require.NoError(t, err)

	second, err := auction.BuildQueue(players, "room-seed")
	require.NoError(t, err)

	assert.Equal(t, first, second, "same seed must yield the same order")
}

func TestBuildQueue_SeedChangesOrder(t *testing.T) {
	players := catalog(25)

	first, err := auction.BuildQueue(players, "room-a")
	require.NoError(t, err)

	second, err := auction.BuildQueue(players, "room-b")
	require.NoError(t, err)

	assert.NotEqual(t, first, second, "different seeds should shuffle differently")
}

func TestBuildQueue_IsPermutation(t *testing.T) {
	players := catalog(40)

	queue, err := auction.BuildQueue(players, "room-seed")
	require.NoError(t, err)
	require.Len(t, queue, len(players))

	seen := make(map[string]bool, len(queue))
	for _, id := range queue {
		assert.False(t, seen[id], "duplicate id %s in queue", id)
		seen[id] = true
	}
	for _, p := range players {
		assert.True(t, seen[p.ID], "player %s missing from queue", p.ID)
	}
}

func TestBuildQueue_EmptyCatalog(t *testing.T) {
	_, err := auction.BuildQueue(nil, "room-seed")
	assert.ErrorIs(t, err, domain.ErrEmptyCatalog)
}

func TestBuildQueue_DoesNotMutateCatalog(t *testing.T) {
	players := catalog(10)
	original := make([]string, len(players))
	for i, p := range players {
		original[i] = p.ID
	}

	_, err := auction.BuildQueue(players, "room-seed")
	require.NoError(t, err)

	for i, p := range players {
		assert.Equal(t, original[i], p.ID)
	}
}
