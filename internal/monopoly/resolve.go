package monopoly

import (
	"fmt"

	"github.com/rocketscienceinc/monopoly-backend/internal/apperror"
	"github.com/rocketscienceinc/monopoly-backend/internal/entity"
)

// maxResolutionDepth caps chained landings: a card may move the player once,
// and the tile reached that way never draws another card.
const maxResolutionDepth = 1

// advance moves forward by steps and pays the Go bonus once if the move wraps past Go.
func (that *txn) advance(player *entity.Player, steps int) error {
	from := player.Position
	player.Position = (from + steps) % entity.BoardSize

	if from+steps >= entity.BoardSize {
		that.game.Record("%s passed Go and collected %d", player.Name, that.rules.GoBonus)

		if err := that.credit(player.ID, that.rules.GoBonus); err != nil {
			return err
		}
	}

	that.game.Record("%s moved to %s", player.Name, that.tile(player.Position).Name)

	return nil
}

// moveTo relocates the player forward onto target.
func (that *txn) moveTo(player *entity.Player, target int, passGoPays bool) error {
	steps := that.board.DistanceForward(player.Position, target)
	if passGoPays {
		return that.advance(player, steps)
	}

	player.Position = target
	that.game.Record("%s moved to %s", player.Name, that.tile(target).Name)

	return nil
}

// moveBack never passes Go.
func (that *txn) moveBack(player *entity.Player, steps int) {
	player.Position = (player.Position - steps%entity.BoardSize + entity.BoardSize) % entity.BoardSize
	that.game.Record("%s moved back to %s", player.Name, that.tile(player.Position).Name)
}

// resolve applies the effect of the tile under the player. The phase is left at TurnEnd
// unless the tile opens a purchase prompt or jails the player.
func (that *txn) resolve(player *entity.Player, depth int, modifier entity.RentModifier) error {
	that.game.Turn.Phase = entity.PhaseTurnEnd
	tile := that.tile(player.Position)

	switch tile.Kind {
	case entity.KindProperty, entity.KindRailroad, entity.KindUtility:
		return that.landOnOwnable(player, tile, modifier)
	case entity.KindTax:
		that.game.Record("%s paid %s of %d", player.Name, tile.Name, tile.Tax)
		return that.pay(player, tile.Tax, entity.Bank)
	case entity.KindChance, entity.KindCommunityChest:
		if depth >= maxResolutionDepth {
			that.game.Record("%s landed on %s without drawing again", player.Name, tile.Name)
			return nil
		}
		return that.drawCard(player, deckFor(tile.Kind), depth+1)
	case entity.KindGoToJail:
		that.sendToJail(player)
	case entity.KindGo, entity.KindJail, entity.KindFreeParking:
		that.game.Record("%s rests on %s", player.Name, tile.Name)
	default:
		return fmt.Errorf("%w: unknown tile kind %q", apperror.ErrInvariantViolation, tile.Kind)
	}

	return nil
}

func (that *txn) landOnOwnable(player *entity.Player, tile entity.Tile, modifier entity.RentModifier) error {
	entry, err := that.game.Ledger.Entry(tile.Index)
	if err != nil {
		return fmt.Errorf("%w: %w", apperror.ErrInvariantViolation, err)
	}

	switch {
	case !entry.IsOwned():
		if player.Cash < tile.Price {
			that.game.Record("%s can not afford %s (%d)", player.Name, tile.Name, tile.Price)
			return nil
		}

		index := tile.Index
		that.game.Turn.PendingPurchase = &index
		that.game.Turn.Phase = entity.PhaseResolving
		that.game.Record("%s may buy %s for %d", player.Name, tile.Name, tile.Price)
	case entry.Owner == player.ID:
		that.game.Record("%s landed on own %s", player.Name, tile.Name)
	case entry.Mortgaged:
		that.game.Record("%s is mortgaged, no rent due", tile.Name)
	default:
		owner, _, err := that.game.Players.ByID(entry.Owner)
		if err != nil {
			return fmt.Errorf("%w: %w", apperror.ErrInvariantViolation, err)
		}

		holdings := entity.HoldingsOf(that.board, that.game.Ledger, owner.ID)
		rent := entity.Rent(tile, entry, that.diceTotal(), holdings, modifier)

		that.game.Record("%s paid %d rent to %s for %s", player.Name, rent, owner.Name, tile.Name)
		return that.pay(player, rent, owner.ID)
	}

	return nil
}

// ConfirmPurchase buys the tile offered by the last landing.
func (that *Engine) ConfirmPurchase(playerID string, tile int) error {
	return that.apply(func(t *txn) error {
		player, err := t.pendingDecision(playerID, tile)
		if err != nil {
			return err
		}

		price := t.tile(tile).Price
		if player.Cash < price {
			return fmt.Errorf("%w: %s costs %d, %s has %d", apperror.ErrInsufficientFunds, t.tile(tile).Name, price, player.Name, player.Cash)
		}

		if _, err = t.game.Ledger.Purchase(tile, player.ID); err != nil {
			return err
		}

		player.Cash -= price
		player.AddTile(tile)

		t.game.Turn.PendingPurchase = nil
		t.game.Turn.Phase = entity.PhaseTurnEnd
		t.game.Record("%s bought %s for %d", player.Name, t.tile(tile).Name, price)

		t.completeStep()

		return nil
	})
}

// DeclinePurchase leaves the tile with the bank. No auction is held.
func (that *Engine) DeclinePurchase(playerID string, tile int) error {
	return that.apply(func(t *txn) error {
		player, err := t.pendingDecision(playerID, tile)
		if err != nil {
			return err
		}

		t.game.Turn.PendingPurchase = nil
		t.game.Turn.Phase = entity.PhaseTurnEnd
		t.game.Record("%s declined %s", player.Name, t.tile(tile).Name)

		t.completeStep()

		return nil
	})
}

func (that *txn) pendingDecision(playerID string, tile int) (*entity.Player, error) {
	player, err := that.actor(playerID)
	if err != nil {
		return nil, err
	}

	if err = that.requirePhase(entity.PhaseResolving); err != nil {
		return nil, err
	}

	pending := that.game.Turn.PendingPurchase
	if pending == nil || *pending != tile {
		return nil, fmt.Errorf("%w: tile %d", apperror.ErrNoPendingPurchase, tile)
	}

	return player, nil
}

func deckFor(kind entity.TileKind) entity.DeckKind {
	if kind == entity.KindChance {
		return entity.DeckChance
	}

	return entity.DeckCommunityChest
}
