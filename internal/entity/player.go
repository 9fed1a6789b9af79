package entity

import (
	"fmt"
	"slices"

	"github.com/rocketscienceinc/monopoly-backend/internal/apperror"
)

type Player struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Cash      int      `json:"cash"`
	Position  int      `json:"position"`
	Jailed    bool     `json:"jailed,omitempty"`
	JailTurns int      `json:"jail_turns,omitempty"`
	JailCards []string `json:"jail_cards,omitempty"`
	Tiles     []int    `json:"tiles,omitempty"`
	Bankrupt  bool     `json:"bankrupt,omitempty"`
}

func NewPlayer(id, name string, cash int) *Player {
	return &Player{
		ID:   id,
		Name: name,
		Cash: cash,
	}
}

func (that *Player) IsActive() bool {
	return !that.Bankrupt
}

func (that *Player) InDebt() bool {
	return !that.Bankrupt && that.Cash < 0
}

// AddTile records tile as owned, keeping Tiles sorted and unique.
func (that *Player) AddTile(tile int) {
	idx, found := slices.BinarySearch(that.Tiles, tile)
	if !found {
		that.Tiles = slices.Insert(that.Tiles, idx, tile)
	}
}

func (that *Player) RemoveTile(tile int) {
	if idx, found := slices.BinarySearch(that.Tiles, tile); found {
		that.Tiles = slices.Delete(that.Tiles, idx, idx+1)
	}
}

func (that *Player) clone() *Player {
	p := *that
	p.JailCards = slices.Clone(that.JailCards)
	p.Tiles = slices.Clone(that.Tiles)

	return &p
}

// Registry is the ordered list of players. Bankrupt players stay in place to keep turn order stable.
type Registry []*Player

// ByID finds a player and its seat index.
func (that Registry) ByID(id string) (*Player, int, error) {
	for i, player := range that {
		if player.ID == id {
			return player, i, nil
		}
	}

	return nil, -1, fmt.Errorf("%w: %s", apperror.ErrPlayerNotFound, id)
}

// Active returns the players still in the game.
func (that Registry) Active() []*Player {
	active := make([]*Player, 0, len(that))
	for _, player := range that {
		if player.IsActive() {
			active = append(active, player)
		}
	}

	return active
}

// NextActive returns the seat after from that holds a non-bankrupt player, wrapping around.
func (that Registry) NextActive(from int) (int, bool) {
	n := len(that)
	for step := 1; step <= n; step++ {
		idx := (from + step) % n
		if that[idx].IsActive() {
			return idx, true
		}
	}

	return 0, false
}
