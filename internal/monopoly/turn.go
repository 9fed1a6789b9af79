package monopoly

import (
	"fmt"

	"github.com/rocketscienceinc/monopoly-backend/internal/apperror"
	"github.com/rocketscienceinc/monopoly-backend/internal/entity"
)

// RollDice throws the dice for the current player. Outside jail the engine waits in Rolled for Move;
// a third consecutive double sends the player straight to jail instead. Inside jail the throw decides release.
func (that *Engine) RollDice(playerID string) (entity.Roll, error) {
	var roll entity.Roll

	err := that.apply(func(t *txn) error {
		player, err := t.actor(playerID)
		if err != nil {
			return err
		}

		if err = t.requirePhase(entity.PhaseIdle, entity.PhaseInJailAwaitingChoice); err != nil {
			return err
		}

		if t.game.Turn.LastRoll != nil && t.game.Turn.Phase == entity.PhaseInJailAwaitingChoice {
			return fmt.Errorf("%w: already rolled this turn", apperror.ErrWrongPhase)
		}

		if player.Cash < 0 {
			return fmt.Errorf("%w: settle a debt of %d first", apperror.ErrInsufficientFunds, -player.Cash)
		}

		roll = t.dice.Roll()
		t.game.Turn.LastRoll = &roll

		if player.Jailed {
			return t.jailRoll(player, roll)
		}

		t.game.Record("%s rolled %d+%d", player.Name, roll.First, roll.Second)

		if roll.IsDouble() {
			t.game.Turn.Doubles++
			if t.game.Turn.Doubles >= t.rules.MaxDoubles {
				t.game.Record("%s rolled doubles %d times in a row", player.Name, t.game.Turn.Doubles)
				t.sendToJail(player)
				return nil
			}
		}

		t.game.Turn.Phase = entity.PhaseRolled

		return nil
	})

	return roll, err
}

// RollForDoubles is the jail choice of trying to roll out.
func (that *Engine) RollForDoubles(playerID string) (entity.Roll, error) {
	if that.game.Turn.Phase != entity.PhaseGameOver && that.game.Turn.Phase != entity.PhaseInJailAwaitingChoice {
		return entity.Roll{}, fmt.Errorf("%w: %s", apperror.ErrWrongPhase, that.game.Turn.Phase)
	}

	return that.RollDice(playerID)
}

// Move advances the current player by the rolled total and resolves the tile landed on.
func (that *Engine) Move(playerID string) error {
	return that.apply(func(t *txn) error {
		player, err := t.actor(playerID)
		if err != nil {
			return err
		}

		if err = t.requirePhase(entity.PhaseRolled); err != nil {
			return err
		}

		if err = t.advance(player, t.diceTotal()); err != nil {
			return err
		}

		if err = t.resolve(player, 0, entity.RentNormal); err != nil {
			return err
		}

		t.completeStep()

		return nil
	})
}

// EndTurn passes play to the next non-bankrupt player. Every debt must be settled first.
func (that *Engine) EndTurn(playerID string) error {
	return that.apply(func(t *txn) error {
		player, err := t.actor(playerID)
		if err != nil {
			return err
		}

		switch t.game.Turn.Phase {
		case entity.PhaseTurnEnd, entity.PhaseInJailResolvingRoll:
		case entity.PhaseInJailAwaitingChoice:
			if t.game.Turn.LastRoll == nil {
				return fmt.Errorf("%w: pay bail, use a card or roll first", apperror.ErrWrongPhase)
			}
		default:
			return fmt.Errorf("%w: %s", apperror.ErrWrongPhase, t.game.Turn.Phase)
		}

		for _, p := range t.game.Players {
			if p.InDebt() {
				return fmt.Errorf("%w: %s owes %d", apperror.ErrInsufficientFunds, p.Name, -p.Cash)
			}
		}

		if t.checkWinner() {
			return nil
		}

		t.game.Record("%s ended the turn", player.Name)
		t.passTurn()

		return nil
	})
}

// completeStep settles the phase once the landing is fully resolved.
// A double outside jail grants another roll.
func (that *txn) completeStep() {
	turn := &that.game.Turn
	if turn.Phase != entity.PhaseTurnEnd {
		return
	}

	player := that.current()
	if player.Bankrupt || player.Jailed || player.Cash < 0 {
		return
	}

	if turn.LastRoll != nil && turn.LastRoll.IsDouble() && turn.Doubles > 0 {
		turn.Phase = entity.PhaseIdle
		that.game.Record("%s rolled doubles and rolls again", player.Name)
	}
}
