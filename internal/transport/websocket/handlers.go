package websocket

import (
	"context"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/monopoly-backend/internal/apperror"
	"github.com/rocketscienceinc/monopoly-backend/internal/usecase"
)

const payloadActionGameUpdate = "game:update"

var intentActions = map[string]usecase.Action{
	"game:roll":       usecase.ActionRoll,
	"game:move":       usecase.ActionMove,
	"game:buy":        usecase.ActionBuy,
	"game:decline":    usecase.ActionDecline,
	"game:bail":       usecase.ActionBail,
	"game:jail-card":  usecase.ActionJailCard,
	"game:end-turn":   usecase.ActionEndTurn,
	"game:build":      usecase.ActionBuild,
	"game:sell":       usecase.ActionSell,
	"game:mortgage":   usecase.ActionMortgage,
	"game:unmortgage": usecase.ActionUnmortgage,
	"game:bankrupt":   usecase.ActionBankrupt,
}

func (that *Server) handleNewGame(ctx context.Context, c *client, action string, req *RequestPayload) error {
	log := that.logger.With("method", "handleNewGame")

	game, err := that.uGame.CreateGame(ctx, req.Names)
	if err != nil {
		log.Warn("failed to create game", "error", err)
		that.sendError(c, action, errorText(err))

		return nil
	}

	that.hub.subscribe(game.ID, c)

	return that.send(c, action, ResponsePayload{Game: game})
}

// handleState returns the game and subscribes the client to its updates.
func (that *Server) handleState(ctx context.Context, c *client, action string, req *RequestPayload) error {
	game, err := that.uGame.GetGame(ctx, req.GameID)
	if err != nil {
		that.sendError(c, action, errorText(err))
		return nil
	}

	if !game.IsFinished() {
		that.hub.subscribe(game.ID, c)
	}

	return that.send(c, action, ResponsePayload{Game: game})
}

func (that *Server) handleHistory(ctx context.Context, c *client, action string, req *RequestPayload) error {
	history, err := that.uGame.ListFinished(ctx, req.Limit)
	if err != nil {
		that.sendError(c, action, "failed to load history")
		return fmt.Errorf("failed to list finished games: %w", err)
	}

	return that.send(c, action, ResponsePayload{History: history})
}

// intentHandler applies one player intent. The actor gets the result under its action,
// every other watcher of the game gets it as game:update.
func (that *Server) intentHandler(intent usecase.Action) handlerFunc {
	return func(ctx context.Context, c *client, action string, req *RequestPayload) error {
		log := that.logger.With("method", "intentHandler", "action", action, "gameID", req.GameID)

		result, err := that.uGame.Apply(ctx, req.GameID, usecase.Intent{
			Action:   intent,
			PlayerID: req.PlayerID,
			Tile:     req.Tile,
		})
		if err != nil {
			log.Info("intent rejected", "error", err)

			payload := ResponsePayload{Error: errorText(err)}
			if result != nil {
				payload.Game = result.Game
			}

			return that.send(c, action, payload)
		}

		that.hub.subscribe(req.GameID, c)

		payload := ResponsePayload{Game: result.Game, Roll: result.Roll}

		update, err := encode(payloadActionGameUpdate, payload)
		if err != nil {
			return fmt.Errorf("failed to marshal update: %w", err)
		}
		that.hub.broadcast(req.GameID, update, c)

		return that.send(c, action, payload)
	}
}

// errorText hides storage failures from clients.
func errorText(err error) string {
	switch {
	case errors.Is(err, apperror.ErrInvariantViolation):
		return "internal error"
	case errors.Is(err, apperror.ErrGameNotFound),
		errors.Is(err, apperror.ErrPlayerNotFound),
		errors.Is(err, apperror.ErrInvalidPlayers),
		errors.Is(err, apperror.ErrWrongPhase),
		errors.Is(err, apperror.ErrNotCurrentPlayer),
		errors.Is(err, apperror.ErrGameOver),
		errors.Is(err, apperror.ErrInsufficientFunds),
		errors.Is(err, apperror.ErrNoCardHeld),
		errors.Is(err, apperror.ErrAlreadyOwned),
		errors.Is(err, apperror.ErrNoPendingPurchase),
		errors.Is(err, apperror.ErrNotOwner),
		errors.Is(err, apperror.ErrNotOwnable),
		errors.Is(err, apperror.ErrCannotBuild),
		errors.Is(err, apperror.ErrCannotMortgage),
		errors.Is(err, apperror.ErrOutOfRange),
		errors.Is(err, usecase.ErrUnknownAction):
		return err.Error()
	default:
		return "internal error"
	}
}
