package entity

import (
	"embed"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed data/board.yaml data/cards.yaml
var catalogFS embed.FS

var ErrUnknownEffect = errors.New("unknown card effect")

// Catalog bundles the static board and card definitions a game is built from.
type Catalog struct {
	Board *Board
	Cards map[DeckKind][]Card
}

type boardFile struct {
	Tiles []Tile `yaml:"tiles"`
}

type cardDef struct {
	ID     string   `yaml:"id"`
	Text   string   `yaml:"text"`
	Effect string   `yaml:"effect"`
	Amount int      `yaml:"amount"`
	Tile   int      `yaml:"tile"`
	PassGo bool     `yaml:"pass_go"`
	Steps  int      `yaml:"steps"`
	Kind   TileKind `yaml:"kind"`
	House  int      `yaml:"house"`
	Hotel  int      `yaml:"hotel"`
}

type cardsFile struct {
	Chance         []cardDef `yaml:"chance"`
	CommunityChest []cardDef `yaml:"community_chest"`
}

// LoadCatalog parses the embedded standard board and card decks.
func LoadCatalog() (*Catalog, error) {
	boardRaw, err := catalogFS.ReadFile("data/board.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read board catalog: %w", err)
	}

	cardsRaw, err := catalogFS.ReadFile("data/cards.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read card catalog: %w", err)
	}

	return ParseCatalog(boardRaw, cardsRaw)
}

// ParseCatalog builds a catalog from YAML documents.
func ParseCatalog(boardRaw, cardsRaw []byte) (*Catalog, error) {
	var bf boardFile
	if err := yaml.Unmarshal(boardRaw, &bf); err != nil {
		return nil, fmt.Errorf("board.yaml: %w", err)
	}

	board, err := NewBoard(bf.Tiles)
	if err != nil {
		return nil, fmt.Errorf("invalid board: %w", err)
	}

	var cf cardsFile
	if err = yaml.Unmarshal(cardsRaw, &cf); err != nil {
		return nil, fmt.Errorf("cards.yaml: %w", err)
	}

	chance, err := buildCards(DeckChance, cf.Chance)
	if err != nil {
		return nil, err
	}

	chest, err := buildCards(DeckCommunityChest, cf.CommunityChest)
	if err != nil {
		return nil, err
	}

	return &Catalog{
		Board: board,
		Cards: map[DeckKind][]Card{
			DeckChance:         chance,
			DeckCommunityChest: chest,
		},
	}, nil
}

// CardByID looks a card up in either deck.
func (that *Catalog) CardByID(id string) (Card, bool) {
	for _, cards := range that.Cards {
		for _, card := range cards {
			if card.ID == id {
				return card, true
			}
		}
	}

	return Card{}, false
}

func buildCards(deck DeckKind, defs []cardDef) ([]Card, error) {
	cards := make([]Card, 0, len(defs))
	seen := make(map[string]bool, len(defs))

	for _, def := range defs {
		if seen[def.ID] {
			return nil, fmt.Errorf("duplicate card id %q", def.ID)
		}
		seen[def.ID] = true

		payload, err := payloadOf(def)
		if err != nil {
			return nil, fmt.Errorf("card %q: %w", def.ID, err)
		}

		cards = append(cards, Card{
			ID:      def.ID,
			Text:    def.Text,
			Deck:    deck,
			Payload: payload,
		})
	}

	return cards, nil
}

func payloadOf(def cardDef) (CardPayload, error) {
	switch def.Effect {
	case "collect":
		return Collect{Amount: def.Amount}, nil
	case "pay":
		return Pay{Amount: def.Amount}, nil
	case "collect_from_each_player":
		return CollectFromEachPlayer{Amount: def.Amount}, nil
	case "pay_each_player":
		return PayEachPlayer{Amount: def.Amount}, nil
	case "move_to":
		if def.Tile < 0 || def.Tile >= BoardSize {
			return nil, fmt.Errorf("move_to tile %d out of range", def.Tile)
		}
		return MoveTo{Tile: def.Tile, PassGoPays: def.PassGo}, nil
	case "move_relative":
		return MoveRelative{Steps: def.Steps}, nil
	case "advance_to_nearest":
		if def.Kind != KindRailroad && def.Kind != KindUtility {
			return nil, fmt.Errorf("advance_to_nearest supports railroad or utility, got %q", def.Kind)
		}
		return AdvanceToNearest{Kind: def.Kind}, nil
	case "go_to_jail":
		return GoToJail{}, nil
	case "get_out_of_jail_free":
		return GetOutOfJailFree{}, nil
	case "pay_per_improvement":
		return PayPerImprovement{PerHouse: def.House, PerHotel: def.Hotel}, nil
	case "noop":
		return Noop{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEffect, def.Effect)
	}
}
