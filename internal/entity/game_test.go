package entity

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/monopoly-backend/internal/apperror"
)

func newTestGame(t *testing.T) (*Game, *Board) {
	t.Helper()

	catalog := mustCatalog(t)
	players := []*Player{NewPlayer("p1", "Alice", 1500), NewPlayer("p2", "Bob", 1500)}

	return NewGame("123", catalog, players, rand.New(rand.NewSource(1))), catalog.Board
}

func TestGameStatusMethods(t *testing.T) {
	t.Run("IsFinished returns true when game status is finished", func(t *testing.T) {
		// Given: a game with StatusFinished
		game := &Game{Status: StatusFinished}

		// Then: it should return true
		assert.True(t, game.IsFinished())
	})

	t.Run("IsFinished returns false when game status is ongoing", func(t *testing.T) {
		game := &Game{Status: StatusOngoing}

		assert.False(t, game.IsFinished())
	})
}

func TestGame_Clone(t *testing.T) {
	// Given: a new game
	game, _ := newTestGame(t)
	game.Record("started")

	// When: the clone is changed
	clone := game.Clone()
	clone.Players[0].Cash = 0
	clone.Ledger.Entries[1].Owner = "p1"
	clone.Decks[DeckChance].DrawPile[0] = "changed"
	clone.Turn.Phase = PhaseRolled
	clone.Record("changed")

	// Then: the original is untouched
	assert.Equal(t, 1500, game.Players[0].Cash)
	assert.Equal(t, Bank, game.Ledger.OwnerOf(1))
	assert.NotEqual(t, "changed", game.Decks[DeckChance].DrawPile[0])
	assert.Equal(t, PhaseIdle, game.Turn.Phase)
	assert.Equal(t, []string{"started"}, game.Log)
}

func TestGame_Validate(t *testing.T) {
	t.Run("Fresh game is valid", func(t *testing.T) {
		game, board := newTestGame(t)

		require.NoError(t, game.Validate(board))
	})

	t.Run("Holdings must agree with the ledger", func(t *testing.T) {
		game, board := newTestGame(t)
		game.Ledger.Entries[1].Owner = "p1"

		require.ErrorIs(t, game.Validate(board), apperror.ErrInvariantViolation)
	})

	t.Run("Lost card", func(t *testing.T) {
		game, board := newTestGame(t)
		deck := game.Decks[DeckChance]
		deck.DrawPile = deck.DrawPile[1:]

		require.ErrorIs(t, game.Validate(board), apperror.ErrInvariantViolation)
	})

	t.Run("Held card must be in a player's hand", func(t *testing.T) {
		game, board := newTestGame(t)
		deck := game.Decks[DeckChance]
		deck.Held = append(deck.Held, deck.DrawPile[0])
		deck.DrawPile = deck.DrawPile[1:]

		require.ErrorIs(t, game.Validate(board), apperror.ErrInvariantViolation)
	})

	t.Run("Turn must point at a seated player", func(t *testing.T) {
		game, board := newTestGame(t)
		game.Turn.CurrentPlayer = 5

		require.ErrorIs(t, game.Validate(board), apperror.ErrInvariantViolation)
		assert.Nil(t, game.CurrentPlayer())
	})

	t.Run("Game without players", func(t *testing.T) {
		game, board := newTestGame(t)
		game.Players = nil

		require.ErrorIs(t, game.Validate(board), apperror.ErrInvariantViolation)
	})

	t.Run("Bankrupt player can not hold the turn of a running game", func(t *testing.T) {
		game, board := newTestGame(t)
		game.Players[0].Bankrupt = true

		require.ErrorIs(t, game.Validate(board), apperror.ErrInvariantViolation)

		game.Status = StatusFinished
		require.NoError(t, game.Validate(board))
	})

	t.Run("Debts must match negative cash", func(t *testing.T) {
		game, board := newTestGame(t)
		game.Players[0].Cash = -40

		require.ErrorIs(t, game.Validate(board), apperror.ErrInvariantViolation)

		game.Turn.Debts = map[string][]Debt{"p1": {{Creditor: "p2", Amount: 40}}}
		require.NoError(t, game.Validate(board))
		assert.Equal(t, 40, game.Turn.Owed("p1"))
	})
}

func TestRegistry_NextActive(t *testing.T) {
	// Given: three players, the second bankrupt
	players := Registry{NewPlayer("p1", "A", 0), NewPlayer("p2", "B", 0), NewPlayer("p3", "C", 0)}
	players[1].Bankrupt = true

	// Then: rotation skips the bankrupt seat and wraps
	next, ok := players.NextActive(0)
	require.True(t, ok)
	assert.Equal(t, 2, next)

	next, ok = players.NextActive(2)
	require.True(t, ok)
	assert.Equal(t, 0, next)

	assert.Len(t, players.Active(), 2)
}
