package auction

import (
	"crypto/sha256"
	"encoding/binary"
	"math/rand"

	"github.com/nkumar/cricket-auction/internal/domain"
)

// BuildQueue produces the room's player order: a single Fisher-Yates shuffle
// driven by a PRNG seeded from the room seed. Pure: the same catalog and seed
// always yield the same order, so a restarted server reconstructs the exact
// sequence. The materialized order is still persisted on start so clients
// never recompute it.
func BuildQueue(catalog []*domain.CatalogPlayer, roomSeed string) ([]string, error) {
	if len(catalog) == 0 {
		return nil, domain.ErrEmptyCatalog
	}

	ids := make([]string, len(catalog))
	for i, p := range catalog {
		ids[i] = p.ID
	}

	sum := sha256.Sum256([]byte(roomSeed))
	seed := int64(binary.BigEndian.Uint64(sum[:8]))
	rng := rand.New(rand.NewSource(seed))

	for i := len(ids) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		ids[i], ids[j] = ids[j], ids[i]
	}

	return ids, nil
}
