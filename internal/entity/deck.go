package entity

import (
	"fmt"
	"math/rand"
	"slices"

	"github.com/rocketscienceinc/monopoly-backend/internal/apperror"
)

// Deck is a draw pile and a discard pile of card ids. Keep cards drawn by a player
// leave both piles and sit in Held until they are returned.
type Deck struct {
	Kind        DeckKind `json:"kind"`
	DrawPile    []string `json:"draw_pile"`
	DiscardPile []string `json:"discard_pile"`
	Held        []string `json:"held,omitempty"`
	KeepCards   []string `json:"keep_cards,omitempty"`
	Total       int      `json:"total"`
}

// NewDeck builds a shuffled deck from card definitions.
func NewDeck(kind DeckKind, cards []Card, rng *rand.Rand) *Deck {
	deck := &Deck{
		Kind:        kind,
		DrawPile:    make([]string, 0, len(cards)),
		DiscardPile: make([]string, 0, len(cards)),
		Total:       len(cards),
	}

	for _, card := range cards {
		deck.DrawPile = append(deck.DrawPile, card.ID)
		if card.Keep() {
			deck.KeepCards = append(deck.KeepCards, card.ID)
		}
	}

	shuffle(deck.DrawPile, rng)

	return deck
}

// Draw takes the top card. A keep card moves to Held and kept is true; any other card goes to the discard pile.
// An empty draw pile is refilled from the shuffled discard pile first.
func (that *Deck) Draw(rng *rand.Rand) (string, bool, error) {
	if len(that.DrawPile) == 0 {
		if len(that.DiscardPile) == 0 {
			return "", false, fmt.Errorf("%w: %s", apperror.ErrDeckExhausted, that.Kind)
		}

		that.DrawPile = append(that.DrawPile, that.DiscardPile...)
		that.DiscardPile = that.DiscardPile[:0]
		shuffle(that.DrawPile, rng)
	}

	id := that.DrawPile[0]
	that.DrawPile = that.DrawPile[1:]

	if slices.Contains(that.KeepCards, id) {
		that.Held = append(that.Held, id)
		return id, true, nil
	}

	that.DiscardPile = append(that.DiscardPile, id)

	return id, false, nil
}

// Return puts a held card back into circulation on the discard pile.
func (that *Deck) Return(id string) error {
	idx := slices.Index(that.Held, id)
	if idx < 0 {
		return fmt.Errorf("%w: card %s is not held from %s", apperror.ErrInvariantViolation, id, that.Kind)
	}

	that.Held = slices.Delete(that.Held, idx, idx+1)
	that.DiscardPile = append(that.DiscardPile, id)

	return nil
}

// Owns reports whether the card id belongs to this deck.
func (that *Deck) Owns(id string) bool {
	return slices.Contains(that.DrawPile, id) || slices.Contains(that.DiscardPile, id) || slices.Contains(that.Held, id)
}

// Validate checks that no card was lost or duplicated.
func (that *Deck) Validate() error {
	if n := len(that.DrawPile) + len(that.DiscardPile) + len(that.Held); n != that.Total {
		return fmt.Errorf("%w: deck %s holds %d of %d cards", apperror.ErrInvariantViolation, that.Kind, n, that.Total)
	}

	return nil
}

func (that *Deck) clone() *Deck {
	return &Deck{
		Kind:        that.Kind,
		DrawPile:    slices.Clone(that.DrawPile),
		DiscardPile: slices.Clone(that.DiscardPile),
		Held:        slices.Clone(that.Held),
		KeepCards:   slices.Clone(that.KeepCards),
		Total:       that.Total,
	}
}

func shuffle(ids []string, rng *rand.Rand) {
	rng.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
}
