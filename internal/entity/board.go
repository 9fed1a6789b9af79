package entity

import (
	"fmt"

	"github.com/rocketscienceinc/monopoly-backend/internal/apperror"
)

// Board is the fixed ring of tiles. It is never mutated after construction.
type Board struct {
	tiles  [BoardSize]Tile
	groups map[string][]int
	jail   int
}

// NewBoard validates the tiles and builds a board. Every index in [0,40) must appear exactly once.
func NewBoard(tiles []Tile) (*Board, error) {
	if len(tiles) != BoardSize {
		return nil, fmt.Errorf("%w: board needs %d tiles, got %d", apperror.ErrInvariantViolation, BoardSize, len(tiles))
	}

	board := &Board{
		groups: make(map[string][]int),
		jail:   -1,
	}

	seen := make(map[int]bool, BoardSize)
	for _, tile := range tiles {
		if tile.Index < 0 || tile.Index >= BoardSize {
			return nil, fmt.Errorf("%w: tile %q index %d", apperror.ErrOutOfRange, tile.Name, tile.Index)
		}

		if seen[tile.Index] {
			return nil, fmt.Errorf("%w: duplicate tile index %d", apperror.ErrInvariantViolation, tile.Index)
		}
		seen[tile.Index] = true

		if tile.Kind == KindProperty {
			if len(tile.Rent) != HotelLevel+1 {
				return nil, fmt.Errorf("%w: property %q needs %d rent levels", apperror.ErrInvariantViolation, tile.Name, HotelLevel+1)
			}
			board.groups[tile.Group] = append(board.groups[tile.Group], tile.Index)
		}

		if tile.Kind == KindJail {
			board.jail = tile.Index
		}

		board.tiles[tile.Index] = tile
	}

	if board.jail < 0 {
		return nil, fmt.Errorf("%w: board has no jail", apperror.ErrInvariantViolation)
	}

	return board, nil
}

// TileAt returns the tile at index.
func (that *Board) TileAt(index int) (Tile, error) {
	if index < 0 || index >= BoardSize {
		return Tile{}, fmt.Errorf("%w: %d", apperror.ErrOutOfRange, index)
	}

	return that.tiles[index], nil
}

// DistanceForward returns the number of forward steps from one tile to another, 0..39.
func (that *Board) DistanceForward(from, to int) int {
	return ((to-from)%BoardSize + BoardSize) % BoardSize
}

// NearestForward finds the first tile of kind strictly ahead of from.
func (that *Board) NearestForward(from int, kind TileKind) (int, bool) {
	for step := 1; step <= BoardSize; step++ {
		idx := (from + step) % BoardSize
		if that.tiles[idx].Kind == kind {
			return idx, true
		}
	}

	return 0, false
}

// Group returns the tile indices of a colour group in board order.
func (that *Board) Group(name string) []int {
	return that.groups[name]
}

func (that *Board) JailIndex() int {
	return that.jail
}

// Ownable lists every tile that can be bought.
func (that *Board) Ownable() []Tile {
	tiles := make([]Tile, 0, 28)
	for _, tile := range that.tiles {
		if tile.IsOwnable() {
			tiles = append(tiles, tile)
		}
	}

	return tiles
}

// CountKind counts the tiles of one kind.
func (that *Board) CountKind(kind TileKind) int {
	n := 0
	for _, tile := range that.tiles {
		if tile.Kind == kind {
			n++
		}
	}

	return n
}
