package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/monopoly-backend/internal/apperror"
)

func TestLedger_Purchase(t *testing.T) {
	board := mustCatalog(t).Board

	t.Run("Purchase of an unowned tile", func(t *testing.T) {
		// Given: a fresh ledger
		ledger := NewLedger(board)

		// When: a player buys Baltic Avenue
		entry, err := ledger.Purchase(3, "p1")

		// Then: the player owns it
		require.NoError(t, err)
		assert.Equal(t, "p1", entry.Owner)
		assert.Equal(t, []int{3}, ledger.TilesOf("p1"))
	})

	t.Run("Purchase of an owned tile", func(t *testing.T) {
		ledger := NewLedger(board)
		_, err := ledger.Purchase(3, "p1")
		require.NoError(t, err)

		_, err = ledger.Purchase(3, "p2")

		require.ErrorIs(t, err, apperror.ErrAlreadyOwned)
		assert.Equal(t, "p1", ledger.OwnerOf(3))
	})

	t.Run("Purchase of a tile that can not be owned", func(t *testing.T) {
		ledger := NewLedger(board)

		_, err := ledger.Purchase(4, "p1")

		require.ErrorIs(t, err, apperror.ErrNotOwnable)
	})
}

func TestLedger_TransferAll(t *testing.T) {
	board := mustCatalog(t).Board

	setup := func() *Ledger {
		ledger := NewLedger(board)
		for _, idx := range []int{1, 3, 5} {
			_, err := ledger.Purchase(idx, "p1")
			require.NoError(t, err)
		}
		ledger.Entries[1].Level = 2
		ledger.Entries[3].Level = 2
		ledger.Entries[5].Mortgaged = true

		return ledger
	}

	t.Run("To a player keeps improvements and mortgages", func(t *testing.T) {
		ledger := setup()

		moved := ledger.TransferAll("p1", "p2")

		assert.Equal(t, []int{1, 3, 5}, moved)
		assert.Equal(t, 2, ledger.Entries[1].Level)
		assert.True(t, ledger.Entries[5].Mortgaged)
		assert.Equal(t, []int{1, 3, 5}, ledger.TilesOf("p2"))
		assert.Empty(t, ledger.TilesOf("p1"))
	})

	t.Run("To the bank clears them", func(t *testing.T) {
		ledger := setup()

		ledger.TransferAll("p1", Bank)

		assert.Equal(t, 0, ledger.Entries[1].Level)
		assert.False(t, ledger.Entries[5].Mortgaged)
		assert.Equal(t, Bank, ledger.OwnerOf(5))
		require.NoError(t, ledger.Validate(board))
	})
}

func TestLedger_Validate(t *testing.T) {
	board := mustCatalog(t).Board

	t.Run("Improvement without owner", func(t *testing.T) {
		ledger := NewLedger(board)
		ledger.Entries[1].Level = 1

		require.ErrorIs(t, ledger.Validate(board), apperror.ErrInvariantViolation)
	})

	t.Run("Mortgaged with improvements", func(t *testing.T) {
		ledger := NewLedger(board)
		ledger.Entries[1].Owner = "p1"
		ledger.Entries[1].Level = 1
		ledger.Entries[1].Mortgaged = true

		require.ErrorIs(t, ledger.Validate(board), apperror.ErrInvariantViolation)
	})

	t.Run("Railroad with houses", func(t *testing.T) {
		ledger := NewLedger(board)
		ledger.Entries[5].Owner = "p1"
		ledger.Entries[5].Level = 1

		require.ErrorIs(t, ledger.Validate(board), apperror.ErrInvariantViolation)
	})
}

func TestRent(t *testing.T) {
	board := mustCatalog(t).Board
	tile := func(idx int) Tile {
		tile, err := board.TileAt(idx)
		require.NoError(t, err)
		return tile
	}
	owned := LedgerEntry{Owner: "p2"}

	testCases := []struct {
		name     string
		tile     Tile
		entry    LedgerEntry
		dice     int
		holdings Holdings
		modifier RentModifier
		want     int
	}{
		{name: "unowned", tile: tile(3), entry: LedgerEntry{}, want: 0},
		{name: "mortgaged", tile: tile(3), entry: LedgerEntry{Owner: "p2", Mortgaged: true}, want: 0},
		{name: "base", tile: tile(3), entry: owned, want: 4},
		{name: "full group", tile: tile(3), entry: owned, holdings: Holdings{FullGroups: map[string]bool{"brown": true}}, want: 8},
		{name: "hotel", tile: tile(39), entry: LedgerEntry{Owner: "p2", Level: HotelLevel}, want: 2000},
		{name: "one railroad", tile: tile(5), entry: owned, holdings: Holdings{Railroads: 1}, want: 25},
		{name: "four railroads", tile: tile(5), entry: owned, holdings: Holdings{Railroads: 4}, want: 200},
		{name: "railroad doubled", tile: tile(5), entry: owned, holdings: Holdings{Railroads: 3}, modifier: RentDoubleRailroad, want: 200},
		{name: "one utility", tile: tile(12), entry: owned, dice: 9, holdings: Holdings{Utilities: 1}, want: 36},
		{name: "both utilities", tile: tile(12), entry: owned, dice: 9, holdings: Holdings{Utilities: 2}, want: 90},
		{name: "utility ten times", tile: tile(12), entry: owned, dice: 9, holdings: Holdings{Utilities: 1}, modifier: RentUtilityTenTimes, want: 90},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Rent(tc.tile, tc.entry, tc.dice, tc.holdings, tc.modifier))
		})
	}
}

func TestHoldingsOf(t *testing.T) {
	// Given: p1 owns the brown group with a hotel and two railroads
	board := mustCatalog(t).Board
	ledger := NewLedger(board)
	for _, idx := range []int{1, 3, 5, 15, 6} {
		_, err := ledger.Purchase(idx, "p1")
		require.NoError(t, err)
	}
	ledger.Entries[1].Level = HotelLevel
	ledger.Entries[3].Level = 3

	// When: holdings are computed
	holdings := HoldingsOf(board, ledger, "p1")

	// Then: groups, railroads and improvements are counted
	assert.Equal(t, 2, holdings.Railroads)
	assert.Equal(t, 0, holdings.Utilities)
	assert.True(t, holdings.FullGroups["brown"])
	assert.False(t, holdings.FullGroups["light_blue"])
	assert.Equal(t, 3, holdings.Houses)
	assert.Equal(t, 1, holdings.Hotels)
}
