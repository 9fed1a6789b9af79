package monopoly

import (
	"errors"
	"fmt"

	"github.com/rocketscienceinc/monopoly-backend/internal/apperror"
	"github.com/rocketscienceinc/monopoly-backend/internal/entity"
)

// pay debits amount from player. The creditor receives what the player can cover now;
// the rest is recorded as a debt and paid out as the player raises cash.
func (that *txn) pay(player *entity.Player, amount int, creditor string) error {
	if amount <= 0 {
		return nil
	}

	covered := min(max(player.Cash, 0), amount)
	player.Cash -= amount

	if err := that.credit(creditor, covered); err != nil {
		return err
	}

	if owed := amount - covered; owed > 0 {
		if that.game.Turn.Debts == nil {
			that.game.Turn.Debts = make(map[string][]entity.Debt)
		}

		that.game.Turn.Debts[player.ID] = append(that.game.Turn.Debts[player.ID], entity.Debt{Creditor: creditor, Amount: owed})
	}

	return that.checkSolvency(player, creditor)
}

// credit adds amount to a player's cash, first paying down what that player owes. The bank absorbs credits.
func (that *txn) credit(playerID string, amount int) error {
	if amount <= 0 || playerID == entity.Bank {
		return nil
	}

	player, _, err := that.game.Players.ByID(playerID)
	if err != nil {
		return fmt.Errorf("%w: %w", apperror.ErrInvariantViolation, err)
	}

	if player.Bankrupt {
		return fmt.Errorf("%w: credit to bankrupt player %s", apperror.ErrInvariantViolation, player.ID)
	}

	player.Cash += amount

	return that.repay(player, amount)
}

// repay forwards up to amount of fresh cash to the player's creditors, oldest debt first.
func (that *txn) repay(player *entity.Player, amount int) error {
	for amount > 0 {
		debts := that.game.Turn.Debts[player.ID]
		if len(debts) == 0 {
			return nil
		}

		creditor := debts[0].Creditor
		part := min(amount, debts[0].Amount)
		amount -= part

		if part == debts[0].Amount {
			debts = debts[1:]
		} else {
			debts[0].Amount -= part
		}

		if len(debts) == 0 {
			delete(that.game.Turn.Debts, player.ID)
			that.game.Record("%s settled the debt", player.Name)
		} else {
			that.game.Turn.Debts[player.ID] = debts
		}

		if err := that.credit(creditor, part); err != nil {
			return err
		}
	}

	return nil
}

// checkSolvency bankrupts the player once selling and mortgaging everything can not cover the debt.
func (that *txn) checkSolvency(player *entity.Player, creditor string) error {
	if player.Cash >= 0 {
		return nil
	}

	if player.Cash+that.liquidationValue(player) < 0 {
		return that.bankrupt(player, creditor)
	}

	that.game.Record("%s owes %d and must raise cash", player.Name, -player.Cash)

	return nil
}

// liquidationValue is what the player could raise by selling every improvement
// back at half price and mortgaging every tile.
func (that *txn) liquidationValue(player *entity.Player) int {
	total := 0
	for _, idx := range player.Tiles {
		entry, err := that.game.Ledger.Entry(idx)
		if err != nil {
			continue
		}

		tile := that.tile(idx)
		total += entry.Level * tile.House / 2

		if !entry.Mortgaged {
			total += tile.Mortgage
		}
	}

	return total
}

// bankrupt removes the player from play. Holdings go to a creditor player as they are,
// or back to the bank stripped of improvements and mortgages. Unpaid debts are written off.
func (that *txn) bankrupt(player *entity.Player, creditor string) error {
	var receiver *entity.Player
	if creditor != entity.Bank {
		receiver, _, _ = that.game.Players.ByID(creditor)
	}

	if receiver == nil || receiver.Bankrupt {
		creditor = entity.Bank
		receiver = nil
	}

	moved := that.game.Ledger.TransferAll(player.ID, creditor)
	for _, idx := range moved {
		if receiver != nil {
			receiver.AddTile(idx)
		}
	}
	player.Tiles = nil

	for _, card := range player.JailCards {
		if receiver != nil {
			receiver.JailCards = append(receiver.JailCards, card)
			continue
		}

		if err := that.returnCard(card); err != nil {
			return err
		}
	}
	player.JailCards = nil

	player.Cash = 0
	player.Bankrupt = true
	player.Jailed = false
	player.JailTurns = 0

	delete(that.game.Turn.Debts, player.ID)
	for debtor, debts := range that.game.Turn.Debts {
		for i := range debts {
			if debts[i].Creditor == player.ID {
				debts[i].Creditor = entity.Bank
			}
		}
		that.game.Turn.Debts[debtor] = debts
	}

	if receiver != nil {
		that.game.Record("%s is bankrupt, holdings go to %s", player.Name, receiver.Name)
	} else {
		that.game.Record("%s is bankrupt, holdings return to the bank", player.Name)
	}

	if that.checkWinner() {
		return nil
	}

	if player.ID == that.current().ID {
		that.passTurn()
	}

	return nil
}

// checkWinner ends the game when a single player is left. It reports whether the game is over.
func (that *txn) checkWinner() bool {
	active := that.game.Players.Active()
	if len(active) != 1 {
		return false
	}

	winner := active[0]
	that.game.Winner = winner.ID
	that.game.Status = entity.StatusFinished
	that.game.Turn.Phase = entity.PhaseGameOver
	that.game.Turn.PendingPurchase = nil
	that.game.Record("%s wins the game", winner.Name)

	return true
}

// passTurn hands play to the next non-bankrupt seat and resets the turn.
func (that *txn) passTurn() {
	next, ok := that.game.Players.NextActive(that.game.Turn.CurrentPlayer)
	if !ok {
		return
	}

	turn := &that.game.Turn
	turn.CurrentPlayer = next
	turn.Number++
	turn.LastRoll = nil
	turn.Doubles = 0
	turn.PendingPurchase = nil

	player := that.current()
	if player.Jailed {
		turn.Phase = entity.PhaseInJailAwaitingChoice
	} else {
		turn.Phase = entity.PhaseIdle
	}

	that.game.Record("%s to play", player.Name)
}

// settler returns a player allowed to raise cash now: the current player or anyone in debt.
func (that *txn) settler(playerID string) (*entity.Player, error) {
	player, _, err := that.game.Players.ByID(playerID)
	if err != nil {
		return nil, err
	}

	if player.Bankrupt {
		return nil, fmt.Errorf("%w: %s is bankrupt", apperror.ErrWrongPhase, player.Name)
	}

	if player.ID != that.current().ID && !player.InDebt() {
		return nil, fmt.Errorf("%w: %s", apperror.ErrNotCurrentPlayer, player.Name)
	}

	return player, nil
}

// spender returns the current player when spending is allowed: never mid-move nor with a purchase pending.
func (that *txn) spender(playerID string) (*entity.Player, error) {
	player, err := that.actor(playerID)
	if err != nil {
		return nil, err
	}

	if err = that.requirePhase(entity.PhaseIdle, entity.PhaseTurnEnd, entity.PhaseInJailAwaitingChoice, entity.PhaseInJailResolvingRoll); err != nil {
		return nil, err
	}

	if player.InDebt() {
		return nil, fmt.Errorf("%w: settle a debt of %d first", apperror.ErrInsufficientFunds, -player.Cash)
	}

	return player, nil
}

// BuildImprovement adds a house, or the hotel on the fifth level, to a tile of a complete group.
func (that *Engine) BuildImprovement(playerID string, tile int) error {
	return that.apply(func(t *txn) error {
		player, err := t.spender(playerID)
		if err != nil {
			return err
		}

		cost := t.tile(tile).House
		if player.Cash < cost {
			return fmt.Errorf("%w: building costs %d, %s has %d", apperror.ErrInsufficientFunds, cost, player.Name, player.Cash)
		}

		entry, err := t.game.Ledger.Build(t.board, tile, player.ID)
		if err != nil {
			return err
		}

		player.Cash -= cost
		t.game.Record("%s built on %s, level %d", player.Name, t.tile(tile).Name, entry.Level)

		return nil
	})
}

// SellImprovement sells one level back to the bank at half the building cost.
func (that *Engine) SellImprovement(playerID string, tile int) error {
	return that.apply(func(t *txn) error {
		player, err := t.settler(playerID)
		if err != nil {
			return err
		}

		entry, err := t.game.Ledger.SellImprovement(t.board, tile, player.ID)
		if err != nil {
			return err
		}

		refund := t.tile(tile).House / 2
		t.game.Record("%s sold an improvement on %s for %d, level %d", player.Name, t.tile(tile).Name, refund, entry.Level)

		return t.raise(player, refund)
	})
}

// Mortgage raises the mortgage value of an unimproved tile.
func (that *Engine) Mortgage(playerID string, tile int) error {
	return that.apply(func(t *txn) error {
		player, err := t.settler(playerID)
		if err != nil {
			return err
		}

		if _, err = t.game.Ledger.Mortgage(t.board, tile, player.ID); err != nil {
			return err
		}

		value := t.tile(tile).Mortgage
		t.game.Record("%s mortgaged %s for %d", player.Name, t.tile(tile).Name, value)

		return t.raise(player, value)
	})
}

// Unmortgage lifts a mortgage for its value plus interest.
func (that *Engine) Unmortgage(playerID string, tile int) error {
	return that.apply(func(t *txn) error {
		player, err := t.spender(playerID)
		if err != nil {
			return err
		}

		entry, err := t.game.Ledger.Entry(tile)
		if err != nil {
			return err
		}

		if entry.Owner != player.ID {
			return fmt.Errorf("%w: tile %d", apperror.ErrNotOwner, tile)
		}

		cost := t.rules.unmortgageCost(t.tile(tile).Mortgage)
		if entry.Mortgaged && player.Cash < cost {
			return fmt.Errorf("%w: lifting the mortgage costs %d, %s has %d", apperror.ErrInsufficientFunds, cost, player.Name, player.Cash)
		}

		if _, err = t.game.Ledger.Unmortgage(tile, player.ID); err != nil {
			return err
		}

		player.Cash -= cost
		t.game.Record("%s lifted the mortgage on %s for %d", player.Name, t.tile(tile).Name, cost)

		return nil
	})
}

// DeclareBankruptcy lets an indebted player give up instead of raising cash.
func (that *Engine) DeclareBankruptcy(playerID string) error {
	return that.apply(func(t *txn) error {
		player, _, err := t.game.Players.ByID(playerID)
		if err != nil {
			return err
		}

		debts := t.game.Turn.Debts[player.ID]
		if len(debts) == 0 || !player.InDebt() {
			return fmt.Errorf("%w: %s has no debt", apperror.ErrWrongPhase, player.Name)
		}

		return t.bankrupt(player, debts[len(debts)-1].Creditor)
	})
}

// raise credits cash raised by selling or mortgaging. Once the current player is clear, the step completes.
func (that *txn) raise(player *entity.Player, amount int) error {
	if err := that.credit(player.ID, amount); err != nil {
		return err
	}

	if player.ID == that.current().ID && !player.InDebt() {
		that.completeStep()
	}

	return nil
}

// IsInDebt reports whether playerID must raise cash before play can continue.
func (that *Engine) IsInDebt(playerID string) bool {
	player, _, err := that.game.Players.ByID(playerID)
	if errors.Is(err, apperror.ErrPlayerNotFound) {
		return false
	}

	return player.InDebt()
}
