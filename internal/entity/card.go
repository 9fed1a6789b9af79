package entity

// DeckKind names one of the two card decks.
type DeckKind string

const (
	DeckChance         DeckKind = "chance"
	DeckCommunityChest DeckKind = "community_chest"
)

// Card is an immutable card definition. Decks reference cards by ID.
type Card struct {
	ID      string
	Text    string
	Deck    DeckKind
	Payload CardPayload
}

// Keep reports whether the drawing player holds the card instead of discarding it.
func (that Card) Keep() bool {
	_, ok := that.Payload.(GetOutOfJailFree)
	return ok
}

// CardPayload is the closed set of card effects. Only types in this file implement it.
type CardPayload interface {
	cardPayload()
}

type Collect struct{ Amount int }

type Pay struct{ Amount int }

type CollectFromEachPlayer struct{ Amount int }

type PayEachPlayer struct{ Amount int }

// MoveTo sends the player to an absolute tile.
type MoveTo struct {
	Tile       int
	PassGoPays bool
}

// MoveRelative moves the player by Steps; negative steps move backwards and never pass Go.
type MoveRelative struct{ Steps int }

// AdvanceToNearest moves forward to the next tile of Kind (railroad or utility)
// with boosted rent if the tile is owned by another player.
type AdvanceToNearest struct{ Kind TileKind }

type GoToJail struct{}

type GetOutOfJailFree struct{}

type PayPerImprovement struct {
	PerHouse int
	PerHotel int
}

type Noop struct{}

func (Collect) cardPayload()               {}
func (Pay) cardPayload()                   {}
func (CollectFromEachPlayer) cardPayload() {}
func (PayEachPlayer) cardPayload()         {}
func (MoveTo) cardPayload()                {}
func (MoveRelative) cardPayload()          {}
func (AdvanceToNearest) cardPayload()      {}
func (GoToJail) cardPayload()              {}
func (GetOutOfJailFree) cardPayload()      {}
func (PayPerImprovement) cardPayload()     {}
func (Noop) cardPayload()                  {}
