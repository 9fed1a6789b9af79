package entity

// TileKind is the fixed category of a board tile.
type TileKind string

const (
	KindGo             TileKind = "go"
	KindProperty       TileKind = "property"
	KindRailroad       TileKind = "railroad"
	KindUtility        TileKind = "utility"
	KindChance         TileKind = "chance"
	KindCommunityChest TileKind = "community_chest"
	KindTax            TileKind = "tax"
	KindJail           TileKind = "jail"
	KindGoToJail       TileKind = "go_to_jail"
	KindFreeParking    TileKind = "free_parking"
)

const (
	// BoardSize is the number of tiles on the ring.
	BoardSize = 40

	// MaxHouses is the highest house count before a hotel.
	MaxHouses = 4
	// HotelLevel is the improvement level that represents a hotel.
	HotelLevel = MaxHouses + 1
)

// Tile is an immutable board square. Ownership lives in the Ledger.
type Tile struct {
	Index    int      `yaml:"index" json:"index"`
	Kind     TileKind `yaml:"kind" json:"kind"`
	Name     string   `yaml:"name" json:"name"`
	Group    string   `yaml:"group,omitempty" json:"group,omitempty"`
	Price    int      `yaml:"price,omitempty" json:"price,omitempty"`
	Rent     []int    `yaml:"rent,omitempty" json:"rent,omitempty"`
	Mortgage int      `yaml:"mortgage,omitempty" json:"mortgage,omitempty"`
	House    int      `yaml:"house,omitempty" json:"house,omitempty"`
	Tax      int      `yaml:"tax,omitempty" json:"tax,omitempty"`
}

func (that Tile) IsOwnable() bool {
	switch that.Kind {
	case KindProperty, KindRailroad, KindUtility:
		return true
	default:
		return false
	}
}

func (that Tile) IsCard() bool {
	return that.Kind == KindChance || that.Kind == KindCommunityChest
}

// BaseRent is the unimproved rent of a property.
func (that Tile) BaseRent() int {
	if len(that.Rent) == 0 {
		return 0
	}
	return that.Rent[0]
}
