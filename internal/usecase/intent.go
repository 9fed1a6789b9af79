package usecase

import (
	"errors"
	"fmt"

	"github.com/rocketscienceinc/monopoly-backend/internal/entity"
	"github.com/rocketscienceinc/monopoly-backend/internal/monopoly"
)

type Action string

const (
	ActionRoll       Action = "roll"
	ActionMove       Action = "move"
	ActionBuy        Action = "buy"
	ActionDecline    Action = "decline"
	ActionBail       Action = "bail"
	ActionJailCard   Action = "jail-card"
	ActionEndTurn    Action = "end-turn"
	ActionBuild      Action = "build"
	ActionSell       Action = "sell"
	ActionMortgage   Action = "mortgage"
	ActionUnmortgage Action = "unmortgage"
	ActionBankrupt   Action = "bankrupt"
)

var ErrUnknownAction = errors.New("unknown action")

// Intent is one player request against a game. Tile is used by tile-addressed actions only.
type Intent struct {
	Action   Action `json:"action"`
	PlayerID string `json:"player_id"`
	Tile     int    `json:"tile,omitempty"`
}

// dispatch runs the intent on the engine. The roll is set for roll intents.
func dispatch(engine *monopoly.Engine, intent Intent) (*entity.Roll, error) {
	switch intent.Action {
	case ActionRoll:
		var (
			roll entity.Roll
			err  error
		)

		if engine.Phase() == entity.PhaseInJailAwaitingChoice {
			roll, err = engine.RollForDoubles(intent.PlayerID)
		} else {
			roll, err = engine.RollDice(intent.PlayerID)
		}

		if err != nil {
			return nil, err
		}

		return &roll, nil
	case ActionMove:
		return nil, engine.Move(intent.PlayerID)
	case ActionBuy:
		return nil, engine.ConfirmPurchase(intent.PlayerID, intent.Tile)
	case ActionDecline:
		return nil, engine.DeclinePurchase(intent.PlayerID, intent.Tile)
	case ActionBail:
		return nil, engine.PayBail(intent.PlayerID)
	case ActionJailCard:
		return nil, engine.UseJailCard(intent.PlayerID)
	case ActionEndTurn:
		return nil, engine.EndTurn(intent.PlayerID)
	case ActionBuild:
		return nil, engine.BuildImprovement(intent.PlayerID, intent.Tile)
	case ActionSell:
		return nil, engine.SellImprovement(intent.PlayerID, intent.Tile)
	case ActionMortgage:
		return nil, engine.Mortgage(intent.PlayerID, intent.Tile)
	case ActionUnmortgage:
		return nil, engine.Unmortgage(intent.PlayerID, intent.Tile)
	case ActionBankrupt:
		return nil, engine.DeclareBankruptcy(intent.PlayerID)
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownAction, intent.Action)
	}
}
