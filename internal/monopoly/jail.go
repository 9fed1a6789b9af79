package monopoly

import (
	"fmt"

	"github.com/rocketscienceinc/monopoly-backend/internal/apperror"
	"github.com/rocketscienceinc/monopoly-backend/internal/entity"
)

// sendToJail relocates the player without passing Go. The turn is over for a jailed current player.
func (that *txn) sendToJail(player *entity.Player) {
	player.Position = that.board.JailIndex()
	player.Jailed = true
	player.JailTurns = 0

	that.game.Record("%s went to jail", player.Name)

	if player.ID != that.current().ID {
		return
	}

	that.game.Turn.Doubles = 0
	that.game.Turn.PendingPurchase = nil
	that.game.Turn.Phase = entity.PhaseInJailAwaitingChoice
}

// jailRoll settles a throw made from jail: doubles release, otherwise the attempt counts,
// and once the attempts are used up the bail is forced and the same throw is moved.
func (that *txn) jailRoll(player *entity.Player, roll entity.Roll) error {
	that.game.Record("%s rolled %d+%d in jail", player.Name, roll.First, roll.Second)

	if roll.IsDouble() {
		that.release(player)
		that.game.Record("%s rolled doubles and leaves jail", player.Name)
		that.game.Turn.Phase = entity.PhaseRolled

		return nil
	}

	if player.JailTurns < that.rules.MaxJailTurns {
		player.JailTurns++
		that.game.Turn.Phase = entity.PhaseInJailResolvingRoll
		that.game.Record("%s stays in jail (%d/%d)", player.Name, player.JailTurns, that.rules.MaxJailTurns)

		return nil
	}

	that.game.Record("%s must pay %d bail", player.Name, that.rules.Bail)
	that.release(player)
	that.game.Turn.Phase = entity.PhaseRolled

	return that.pay(player, that.rules.Bail, entity.Bank)
}

func (that *txn) release(player *entity.Player) {
	player.Jailed = false
	player.JailTurns = 0
	that.game.Turn.Doubles = 0
}

// requireJailChoice allows a jail choice only before the jailed player has rolled this turn.
func (that *txn) requireJailChoice(playerID string) (*entity.Player, error) {
	player, err := that.actor(playerID)
	if err != nil {
		return nil, err
	}

	if err = that.requirePhase(entity.PhaseInJailAwaitingChoice); err != nil {
		return nil, err
	}

	if that.game.Turn.LastRoll != nil {
		return nil, fmt.Errorf("%w: already rolled this turn", apperror.ErrWrongPhase)
	}

	return player, nil
}

// PayBail frees the current player for the bail amount; the player then rolls normally.
func (that *Engine) PayBail(playerID string) error {
	return that.apply(func(t *txn) error {
		player, err := t.requireJailChoice(playerID)
		if err != nil {
			return err
		}

		if player.Cash < t.rules.Bail {
			return fmt.Errorf("%w: bail is %d, %s has %d", apperror.ErrInsufficientFunds, t.rules.Bail, player.Name, player.Cash)
		}

		player.Cash -= t.rules.Bail
		t.release(player)
		t.game.Turn.Phase = entity.PhaseIdle
		t.game.Record("%s paid %d bail", player.Name, t.rules.Bail)

		return nil
	})
}

// UseJailCard frees the current player with a held card, which goes back to its deck's discard pile.
func (that *Engine) UseJailCard(playerID string) error {
	return that.apply(func(t *txn) error {
		player, err := t.requireJailChoice(playerID)
		if err != nil {
			return err
		}

		if len(player.JailCards) == 0 {
			return fmt.Errorf("%w: %s", apperror.ErrNoCardHeld, player.Name)
		}

		card := player.JailCards[0]
		player.JailCards = player.JailCards[1:]

		if err = t.returnCard(card); err != nil {
			return err
		}

		t.release(player)
		t.game.Turn.Phase = entity.PhaseIdle
		t.game.Record("%s used a get out of jail free card", player.Name)

		return nil
	})
}

func (that *txn) returnCard(id string) error {
	for _, deck := range that.game.Decks {
		if deck.Owns(id) {
			return deck.Return(id)
		}
	}

	return fmt.Errorf("%w: card %s belongs to no deck", apperror.ErrInvariantViolation, id)
}
