package entity

import (
	"fmt"
	"sort"

	"github.com/rocketscienceinc/monopoly-backend/internal/apperror"
)

// Bank is the owner id used for unowned tiles and bank creditors.
const Bank = ""

// LedgerEntry is the mutable ownership state of one ownable tile.
type LedgerEntry struct {
	Owner     string `json:"owner,omitempty"`
	Level     int    `json:"level"`
	Mortgaged bool   `json:"mortgaged,omitempty"`
}

func (that LedgerEntry) IsOwned() bool {
	return that.Owner != Bank
}

func (that LedgerEntry) HasHotel() bool {
	return that.Level == HotelLevel
}

// Ledger maps ownable tile indices to their ownership state.
type Ledger struct {
	Entries map[int]*LedgerEntry `json:"entries"`
}

// NewLedger creates an unowned entry for every ownable tile of the board.
func NewLedger(board *Board) *Ledger {
	ledger := &Ledger{Entries: make(map[int]*LedgerEntry)}
	for _, tile := range board.Ownable() {
		ledger.Entries[tile.Index] = &LedgerEntry{}
	}

	return ledger
}

// Entry returns a copy of the entry for tile.
func (that *Ledger) Entry(tile int) (LedgerEntry, error) {
	entry, ok := that.Entries[tile]
	if !ok {
		return LedgerEntry{}, fmt.Errorf("%w: tile %d", apperror.ErrNotOwnable, tile)
	}

	return *entry, nil
}

// OwnerOf returns the owner id of tile, Bank if unowned or not ownable.
func (that *Ledger) OwnerOf(tile int) string {
	if entry, ok := that.Entries[tile]; ok {
		return entry.Owner
	}

	return Bank
}

// Purchase records player as owner. Cash is handled by the caller.
func (that *Ledger) Purchase(tile int, playerID string) (LedgerEntry, error) {
	entry, ok := that.Entries[tile]
	if !ok {
		return LedgerEntry{}, fmt.Errorf("%w: tile %d", apperror.ErrNotOwnable, tile)
	}

	if entry.IsOwned() {
		return *entry, fmt.Errorf("%w: tile %d by %s", apperror.ErrAlreadyOwned, tile, entry.Owner)
	}

	entry.Owner = playerID

	return *entry, nil
}

// TilesOf lists the tiles owned by player in board order.
func (that *Ledger) TilesOf(playerID string) []int {
	tiles := make([]int, 0)
	for idx, entry := range that.Entries {
		if entry.Owner == playerID && playerID != Bank {
			tiles = append(tiles, idx)
		}
	}
	sort.Ints(tiles)

	return tiles
}

// TransferAll reassigns every tile of from to to. Tiles returning to the Bank lose
// improvements and mortgages; tiles going to a player keep them.
func (that *Ledger) TransferAll(from, to string) []int {
	moved := that.TilesOf(from)
	for _, idx := range moved {
		entry := that.Entries[idx]
		entry.Owner = to

		if to == Bank {
			entry.Level = 0
			entry.Mortgaged = false
		}
	}

	return moved
}

// Build adds one improvement level. The owner must hold the whole colour group,
// no tile of the group may be mortgaged and levels across the group may differ by at most one.
func (that *Ledger) Build(board *Board, tile int, playerID string) (LedgerEntry, error) {
	t, entry, err := that.ownedProperty(board, tile, playerID)
	if err != nil {
		return LedgerEntry{}, err
	}

	if entry.Level >= HotelLevel {
		return *entry, fmt.Errorf("%w: %s already has a hotel", apperror.ErrCannotBuild, t.Name)
	}

	for _, idx := range board.Group(t.Group) {
		other := that.Entries[idx]
		if other.Owner != playerID {
			return *entry, fmt.Errorf("%w: %s group is not complete", apperror.ErrCannotBuild, t.Group)
		}
		if other.Mortgaged {
			return *entry, fmt.Errorf("%w: %s group has a mortgaged tile", apperror.ErrCannotBuild, t.Group)
		}
		if other.Level < entry.Level {
			return *entry, fmt.Errorf("%w: build evenly across %s", apperror.ErrCannotBuild, t.Group)
		}
	}

	entry.Level++

	return *entry, nil
}

// SellImprovement removes one improvement level, keeping the group even.
func (that *Ledger) SellImprovement(board *Board, tile int, playerID string) (LedgerEntry, error) {
	t, entry, err := that.ownedProperty(board, tile, playerID)
	if err != nil {
		return LedgerEntry{}, err
	}

	if entry.Level == 0 {
		return *entry, fmt.Errorf("%w: %s has no improvements", apperror.ErrCannotBuild, t.Name)
	}

	for _, idx := range board.Group(t.Group) {
		if that.Entries[idx].Level > entry.Level {
			return *entry, fmt.Errorf("%w: sell evenly across %s", apperror.ErrCannotBuild, t.Group)
		}
	}

	entry.Level--

	return *entry, nil
}

// Mortgage flags an unimproved tile as mortgaged. For properties the whole group must be unimproved.
func (that *Ledger) Mortgage(board *Board, tile int, playerID string) (LedgerEntry, error) {
	entry, err := that.owned(tile, playerID)
	if err != nil {
		return LedgerEntry{}, err
	}

	if entry.Mortgaged {
		return *entry, fmt.Errorf("%w: tile %d is already mortgaged", apperror.ErrCannotMortgage, tile)
	}

	t, _ := board.TileAt(tile)
	if t.Kind == KindProperty {
		for _, idx := range board.Group(t.Group) {
			if that.Entries[idx].Level > 0 {
				return *entry, fmt.Errorf("%w: sell improvements in %s first", apperror.ErrCannotMortgage, t.Group)
			}
		}
	}

	entry.Mortgaged = true

	return *entry, nil
}

func (that *Ledger) Unmortgage(tile int, playerID string) (LedgerEntry, error) {
	entry, err := that.owned(tile, playerID)
	if err != nil {
		return LedgerEntry{}, err
	}

	if !entry.Mortgaged {
		return *entry, fmt.Errorf("%w: tile %d is not mortgaged", apperror.ErrCannotMortgage, tile)
	}

	entry.Mortgaged = false

	return *entry, nil
}

// Validate checks the ledger invariants against the board.
func (that *Ledger) Validate(board *Board) error {
	for idx, entry := range that.Entries {
		tile, err := board.TileAt(idx)
		if err != nil || !tile.IsOwnable() {
			return fmt.Errorf("%w: ledger entry for non-ownable tile %d", apperror.ErrInvariantViolation, idx)
		}

		switch {
		case entry.Level < 0 || entry.Level > HotelLevel:
			return fmt.Errorf("%w: tile %d level %d", apperror.ErrInvariantViolation, idx, entry.Level)
		case entry.Level > 0 && tile.Kind != KindProperty:
			return fmt.Errorf("%w: tile %d can not be improved", apperror.ErrInvariantViolation, idx)
		case entry.Level > 0 && !entry.IsOwned():
			return fmt.Errorf("%w: tile %d improved without owner", apperror.ErrInvariantViolation, idx)
		case entry.Mortgaged && entry.Level > 0:
			return fmt.Errorf("%w: tile %d mortgaged with improvements", apperror.ErrInvariantViolation, idx)
		case entry.Mortgaged && !entry.IsOwned():
			return fmt.Errorf("%w: tile %d mortgaged without owner", apperror.ErrInvariantViolation, idx)
		}
	}

	return nil
}

func (that *Ledger) clone() *Ledger {
	out := &Ledger{Entries: make(map[int]*LedgerEntry, len(that.Entries))}
	for idx, entry := range that.Entries {
		e := *entry
		out.Entries[idx] = &e
	}

	return out
}

func (that *Ledger) owned(tile int, playerID string) (*LedgerEntry, error) {
	entry, ok := that.Entries[tile]
	if !ok {
		return nil, fmt.Errorf("%w: tile %d", apperror.ErrNotOwnable, tile)
	}

	if entry.Owner != playerID || playerID == Bank {
		return nil, fmt.Errorf("%w: tile %d", apperror.ErrNotOwner, tile)
	}

	return entry, nil
}

func (that *Ledger) ownedProperty(board *Board, tile int, playerID string) (Tile, *LedgerEntry, error) {
	entry, err := that.owned(tile, playerID)
	if err != nil {
		return Tile{}, nil, err
	}

	t, err := board.TileAt(tile)
	if err != nil {
		return Tile{}, nil, err
	}

	if t.Kind != KindProperty {
		return t, nil, fmt.Errorf("%w: %s is not a property", apperror.ErrCannotBuild, t.Name)
	}

	return t, entry, nil
}
