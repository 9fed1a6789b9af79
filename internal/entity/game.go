package entity

import (
	"fmt"
	"math/rand"
	"slices"
	"time"

	"github.com/rocketscienceinc/monopoly-backend/internal/apperror"
)

const (
	StatusOngoing  = "ongoing"
	StatusFinished = "finished"
)

// Game is the complete state of one game. It is the value persisted between operations.
type Game struct {
	ID        string             `json:"id"`
	Status    string             `json:"status"`
	Players   Registry           `json:"players"`
	Ledger    *Ledger            `json:"ledger"`
	Decks     map[DeckKind]*Deck `json:"decks"`
	Turn      TurnState          `json:"turn"`
	Log       []string           `json:"log"`
	Winner    string             `json:"winner,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// NewGame sets up a game with every player on Go holding startingCash.
func NewGame(id string, catalog *Catalog, players []*Player, rng *rand.Rand) *Game {
	now := time.Now().UTC()

	game := &Game{
		ID:      id,
		Status:  StatusOngoing,
		Players: players,
		Ledger:  NewLedger(catalog.Board),
		Decks: map[DeckKind]*Deck{
			DeckChance:         NewDeck(DeckChance, catalog.Cards[DeckChance], rng),
			DeckCommunityChest: NewDeck(DeckCommunityChest, catalog.Cards[DeckCommunityChest], rng),
		},
		Turn: TurnState{
			Number: 1,
			Phase:  PhaseIdle,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	return game
}

// CurrentPlayer returns the player whose turn it is.
func (that *Game) CurrentPlayer() *Player {
	if that.Turn.CurrentPlayer < 0 || that.Turn.CurrentPlayer >= len(that.Players) {
		return nil
	}

	return that.Players[that.Turn.CurrentPlayer]
}

func (that *Game) IsFinished() bool {
	return that.Status == StatusFinished
}

// Record appends one line to the event log, oldest first.
func (that *Game) Record(format string, args ...any) {
	that.Log = append(that.Log, fmt.Sprintf(format, args...))
}

// Clone deep-copies the game so a failed operation can be discarded.
func (that *Game) Clone() *Game {
	out := *that

	out.Players = make(Registry, len(that.Players))
	for i, player := range that.Players {
		out.Players[i] = player.clone()
	}

	out.Ledger = that.Ledger.clone()

	out.Decks = make(map[DeckKind]*Deck, len(that.Decks))
	for kind, deck := range that.Decks {
		out.Decks[kind] = deck.clone()
	}

	out.Turn = that.Turn.clone()
	out.Log = slices.Clone(that.Log)

	return &out
}

// Validate checks cross-component invariants: the turn points at a seated player,
// ledger, decks and player holdings agree, and recorded debts match negative cash.
func (that *Game) Validate(board *Board) error {
	if err := that.validateTurn(); err != nil {
		return err
	}

	if err := that.Ledger.Validate(board); err != nil {
		return err
	}

	held := 0
	for _, deck := range that.Decks {
		if err := deck.Validate(); err != nil {
			return err
		}
		held += len(deck.Held)
	}

	cards := 0
	for _, player := range that.Players {
		cards += len(player.JailCards)

		owned := that.Ledger.TilesOf(player.ID)
		if !slices.Equal(owned, player.Tiles) {
			return fmt.Errorf("%w: player %s holdings %v disagree with ledger %v", apperror.ErrInvariantViolation, player.ID, player.Tiles, owned)
		}

		if player.Bankrupt && len(player.Tiles) > 0 {
			return fmt.Errorf("%w: bankrupt player %s owns tiles", apperror.ErrInvariantViolation, player.ID)
		}

		if owed := that.Turn.Owed(player.ID); owed != max(0, -player.Cash) {
			return fmt.Errorf("%w: player %s has cash %d but owes %d", apperror.ErrInvariantViolation, player.ID, player.Cash, owed)
		}
	}

	for debtor := range that.Turn.Debts {
		if _, _, err := that.Players.ByID(debtor); err != nil {
			return fmt.Errorf("%w: debt of unknown player %s", apperror.ErrInvariantViolation, debtor)
		}
	}

	if cards != held {
		return fmt.Errorf("%w: players hold %d jail cards, decks report %d", apperror.ErrInvariantViolation, cards, held)
	}

	return nil
}

func (that *Game) validateTurn() error {
	if len(that.Players) == 0 {
		return fmt.Errorf("%w: game %s has no players", apperror.ErrInvariantViolation, that.ID)
	}

	current := that.Turn.CurrentPlayer
	if current < 0 || current >= len(that.Players) {
		return fmt.Errorf("%w: current player %d of %d seats", apperror.ErrInvariantViolation, current, len(that.Players))
	}

	if !that.IsFinished() && that.Players[current].Bankrupt {
		return fmt.Errorf("%w: bankrupt player %s holds the turn", apperror.ErrInvariantViolation, that.Players[current].ID)
	}

	return nil
}
