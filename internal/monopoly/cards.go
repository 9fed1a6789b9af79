package monopoly

import (
	"errors"
	"fmt"

	"github.com/rocketscienceinc/monopoly-backend/internal/apperror"
	"github.com/rocketscienceinc/monopoly-backend/internal/entity"
)

func (that *txn) drawCard(player *entity.Player, kind entity.DeckKind, depth int) error {
	deck, ok := that.game.Decks[kind]
	if !ok {
		return fmt.Errorf("%w: missing %s deck", apperror.ErrInvariantViolation, kind)
	}

	id, kept, err := deck.Draw(that.rng)
	if errors.Is(err, apperror.ErrDeckExhausted) {
		that.game.Record("%s deck is empty, nothing drawn", kind)
		return nil
	}

	if err != nil {
		return err
	}

	card, ok := that.catalog.CardByID(id)
	if !ok {
		return fmt.Errorf("%w: unknown card %s", apperror.ErrInvariantViolation, id)
	}

	that.game.Record("%s drew %q", player.Name, card.Text)

	if kept {
		player.JailCards = append(player.JailCards, id)
	}

	return that.applyCard(player, card, depth)
}

// applyCard performs a card effect. Movement resolves the destination at depth, which stops further draws.
func (that *txn) applyCard(player *entity.Player, card entity.Card, depth int) error {
	switch payload := card.Payload.(type) {
	case entity.Collect:
		return that.credit(player.ID, payload.Amount)
	case entity.Pay:
		return that.pay(player, payload.Amount, entity.Bank)
	case entity.CollectFromEachPlayer:
		for _, other := range that.game.Players.Active() {
			if other.ID == player.ID {
				continue
			}

			if err := that.pay(other, payload.Amount, player.ID); err != nil {
				return err
			}
		}
	case entity.PayEachPlayer:
		for _, other := range that.game.Players.Active() {
			if player.Bankrupt {
				break
			}

			if other.ID == player.ID {
				continue
			}

			if err := that.pay(player, payload.Amount, other.ID); err != nil {
				return err
			}
		}
	case entity.MoveTo:
		if err := that.moveTo(player, payload.Tile, payload.PassGoPays); err != nil {
			return err
		}
		return that.resolve(player, depth, entity.RentNormal)
	case entity.MoveRelative:
		if payload.Steps >= 0 {
			if err := that.advance(player, payload.Steps); err != nil {
				return err
			}
		} else {
			that.moveBack(player, -payload.Steps)
		}
		return that.resolve(player, depth, entity.RentNormal)
	case entity.AdvanceToNearest:
		target, ok := that.board.NearestForward(player.Position, payload.Kind)
		if !ok {
			return fmt.Errorf("%w: no %s on board", apperror.ErrInvariantViolation, payload.Kind)
		}
		if err := that.moveTo(player, target, true); err != nil {
			return err
		}
		return that.resolve(player, depth, nearestModifier(payload.Kind))
	case entity.GoToJail:
		that.sendToJail(player)
	case entity.GetOutOfJailFree:
		that.game.Record("%s keeps the card", player.Name)
	case entity.PayPerImprovement:
		holdings := entity.HoldingsOf(that.board, that.game.Ledger, player.ID)
		amount := holdings.Houses*payload.PerHouse + holdings.Hotels*payload.PerHotel
		that.game.Record("%s pays %d for %d houses and %d hotels", player.Name, amount, holdings.Houses, holdings.Hotels)
		return that.pay(player, amount, entity.Bank)
	case entity.Noop:
	default:
		return fmt.Errorf("%w: unhandled card payload %T", apperror.ErrInvariantViolation, payload)
	}

	return nil
}

func nearestModifier(kind entity.TileKind) entity.RentModifier {
	switch kind {
	case entity.KindRailroad:
		return entity.RentDoubleRailroad
	case entity.KindUtility:
		return entity.RentUtilityTenTimes
	default:
		return entity.RentNormal
	}
}
