package entity

// RailroadRent is indexed by the number of railroads the owner holds, minus one.
var RailroadRent = [4]int{25, 50, 100, 200}

const (
	utilitySingleMultiplier = 4
	utilityBothMultiplier   = 10
)

// RentModifier adjusts rent for card-driven landings.
type RentModifier int

const (
	RentNormal RentModifier = iota
	// RentDoubleRailroad doubles railroad rent.
	RentDoubleRailroad
	// RentUtilityTenTimes charges ten times the dice regardless of utilities held.
	RentUtilityTenTimes
)

// Holdings summarises what an owner holds, as needed by Rent.
type Holdings struct {
	Railroads  int
	Utilities  int
	FullGroups map[string]bool
	Houses     int
	Hotels     int
}

// HoldingsOf computes the holdings of owner from the ledger.
func HoldingsOf(board *Board, ledger *Ledger, owner string) Holdings {
	holdings := Holdings{FullGroups: make(map[string]bool)}
	if owner == Bank {
		return holdings
	}

	groups := make(map[string]bool)
	for _, idx := range ledger.TilesOf(owner) {
		tile, err := board.TileAt(idx)
		if err != nil {
			continue
		}

		entry := ledger.Entries[idx]
		switch tile.Kind {
		case KindRailroad:
			holdings.Railroads++
		case KindUtility:
			holdings.Utilities++
		case KindProperty:
			groups[tile.Group] = true
			if entry.HasHotel() {
				holdings.Hotels++
			} else {
				holdings.Houses += entry.Level
			}
		}
	}

	for group := range groups {
		full := true
		for _, idx := range board.Group(group) {
			if ledger.OwnerOf(idx) != owner {
				full = false
				break
			}
		}
		holdings.FullGroups[group] = full
	}

	return holdings
}

// Rent is the amount owed for landing on tile. It does not consult any mutable state.
func Rent(tile Tile, entry LedgerEntry, diceTotal int, holdings Holdings, modifier RentModifier) int {
	if !entry.IsOwned() || entry.Mortgaged {
		return 0
	}

	switch tile.Kind {
	case KindProperty:
		if entry.Level > 0 && entry.Level < len(tile.Rent) {
			return tile.Rent[entry.Level]
		}

		rent := tile.BaseRent()
		if holdings.FullGroups[tile.Group] {
			rent *= 2
		}
		return rent
	case KindRailroad:
		if holdings.Railroads < 1 {
			return 0
		}

		rent := RailroadRent[min(holdings.Railroads, len(RailroadRent))-1]
		if modifier == RentDoubleRailroad {
			rent *= 2
		}
		return rent
	case KindUtility:
		switch {
		case modifier == RentUtilityTenTimes, holdings.Utilities >= 2:
			return diceTotal * utilityBothMultiplier
		case holdings.Utilities == 1:
			return diceTotal * utilitySingleMultiplier
		default:
			return 0
		}
	default:
		return 0
	}
}
