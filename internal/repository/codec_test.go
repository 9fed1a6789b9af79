package repository

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/monopoly-backend/internal/entity"
)

func newTestGame(t *testing.T, id string) *entity.Game {
	t.Helper()

	catalog, err := entity.LoadCatalog()
	require.NoError(t, err)

	players := []*entity.Player{
		entity.NewPlayer("p1", "Alice", 1500),
		entity.NewPlayer("p2", "Bob", 1500),
	}

	return entity.NewGame(id, catalog, players, rand.New(rand.NewSource(1)))
}

func TestSnapshotCodec(t *testing.T) {
	// Given: a game with some history
	codec := newSnapshotCodec()
	game := newTestGame(t, "123")
	game.Ledger.Entries[5].Owner = "p1"
	game.Players[0].AddTile(5)
	game.Record("Alice bought Reading Railroad")

	// When: it is encoded and decoded
	raw, err := codec.encode(game)
	require.NoError(t, err)

	decoded, err := codec.decode(raw)
	require.NoError(t, err)

	// Then: the state survives and still validates
	catalog, err := entity.LoadCatalog()
	require.NoError(t, err)
	require.NoError(t, decoded.Validate(catalog.Board))

	assert.Equal(t, game.ID, decoded.ID)
	assert.Equal(t, "p1", decoded.Ledger.OwnerOf(5))
	assert.Equal(t, game.Decks[entity.DeckChance].DrawPile, decoded.Decks[entity.DeckChance].DrawPile)
	assert.Equal(t, game.Log, decoded.Log)
}

func TestSnapshotCodec_DecodeGarbage(t *testing.T) {
	codec := newSnapshotCodec()

	_, err := codec.decode([]byte("not zstd"))

	require.Error(t, err)
}
