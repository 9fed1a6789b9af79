package entity

import "slices"

// Phase is the position of the turn state machine.
type Phase string

const (
	PhaseIdle                 Phase = "idle"
	PhaseRolled               Phase = "rolled"
	PhaseResolving            Phase = "resolving"
	PhaseTurnEnd              Phase = "turn_end"
	PhaseInJailAwaitingChoice Phase = "in_jail_awaiting_choice"
	PhaseInJailResolvingRoll  Phase = "in_jail_resolving_roll"
	PhaseGameOver             Phase = "game_over"
)

// IsJail reports whether the phase belongs to the jail flow.
func (that Phase) IsJail() bool {
	return that == PhaseInJailAwaitingChoice || that == PhaseInJailResolvingRoll
}

// Roll is one throw of two six-sided dice.
type Roll struct {
	First  int `json:"first"`
	Second int `json:"second"`
}

func (that Roll) Total() int {
	return that.First + that.Second
}

func (that Roll) IsDouble() bool {
	return that.First == that.Second
}

// Debt is the part of a payment the payer could not cover yet.
type Debt struct {
	Creditor string `json:"creditor"`
	Amount   int    `json:"amount"`
}

// TurnState is reset field by field at the end of every turn, never replaced.
type TurnState struct {
	Number          int               `json:"number"`
	CurrentPlayer   int               `json:"current_player"`
	Phase           Phase             `json:"phase"`
	LastRoll        *Roll             `json:"last_roll,omitempty"`
	Doubles         int               `json:"doubles"`
	PendingPurchase *int              `json:"pending_purchase,omitempty"`
	Debts           map[string][]Debt `json:"debts,omitempty"`
}

func (that *TurnState) clone() TurnState {
	out := *that
	if that.LastRoll != nil {
		roll := *that.LastRoll
		out.LastRoll = &roll
	}

	if that.PendingPurchase != nil {
		tile := *that.PendingPurchase
		out.PendingPurchase = &tile
	}

	if that.Debts != nil {
		out.Debts = make(map[string][]Debt, len(that.Debts))
		for debtor, debts := range that.Debts {
			out.Debts[debtor] = slices.Clone(debts)
		}
	}

	return out
}

// Owed sums what debtor still owes.
func (that *TurnState) Owed(debtor string) int {
	total := 0
	for _, debt := range that.Debts[debtor] {
		total += debt.Amount
	}

	return total
}
