package monopoly

import (
	"fmt"
	"math/rand"
	"slices"
	"time"

	"github.com/rocketscienceinc/monopoly-backend/internal/apperror"
	"github.com/rocketscienceinc/monopoly-backend/internal/entity"
)

// Seat describes a player joining a new game.
type Seat struct {
	ID   string
	Name string
}

// Engine drives one game. It is not safe for concurrent use: callers serialise operations per game.
type Engine struct {
	catalog *entity.Catalog
	board   *entity.Board
	rules   Rules
	rng     *rand.Rand
	dice    Roller

	game *entity.Game
}

type Option func(*Engine)

// WithRand sets the source used for shuffles and, unless WithRoller is given, dice.
func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) {
		e.rng = rng
	}
}

func WithSeed(seed int64) Option {
	return WithRand(rand.New(rand.NewSource(seed))) //nolint: gosec // game randomness
}

func WithRoller(roller Roller) Option {
	return func(e *Engine) {
		e.dice = roller
	}
}

func newEngine(catalog *entity.Catalog, rules Rules, opts ...Option) *Engine {
	engine := &Engine{
		catalog: catalog,
		board:   catalog.Board,
		rules:   rules,
	}

	for _, opt := range opts {
		opt(engine)
	}

	if engine.rng == nil {
		engine.rng = rand.New(rand.NewSource(time.Now().UnixNano())) //nolint: gosec // game randomness
	}

	if engine.dice == nil {
		engine.dice = NewRandomRoller(engine.rng)
	}

	return engine
}

// New starts a game: decks shuffled, every player on Go with the starting cash, first seat to act.
func New(catalog *entity.Catalog, rules Rules, gameID string, seats []Seat, opts ...Option) (*Engine, error) {
	if len(seats) < rules.MinPlayers || len(seats) > rules.MaxPlayers {
		return nil, fmt.Errorf("%w: %d (allowed %d..%d)", apperror.ErrInvalidPlayers, len(seats), rules.MinPlayers, rules.MaxPlayers)
	}

	players := make(entity.Registry, 0, len(seats))
	for _, seat := range seats {
		if seat.ID == entity.Bank {
			return nil, fmt.Errorf("%w: empty player id", apperror.ErrInvalidPlayers)
		}

		if _, _, err := players.ByID(seat.ID); err == nil {
			return nil, fmt.Errorf("%w: duplicate player id %s", apperror.ErrInvalidPlayers, seat.ID)
		}

		players = append(players, entity.NewPlayer(seat.ID, seat.Name, rules.StartingCash))
	}

	engine := newEngine(catalog, rules, opts...)
	engine.game = entity.NewGame(gameID, catalog, players, engine.rng)
	engine.game.Record("game %s started with %d players", gameID, len(players))
	engine.game.Record("%s to roll", players[0].Name)

	return engine, nil
}

// Restore resumes a persisted game. Future dice and shuffles come from a fresh source.
func Restore(catalog *entity.Catalog, rules Rules, game *entity.Game, opts ...Option) (*Engine, error) {
	if err := game.Validate(catalog.Board); err != nil {
		return nil, fmt.Errorf("failed to restore game %s: %w", game.ID, err)
	}

	engine := newEngine(catalog, rules, opts...)
	engine.game = game.Clone()

	return engine, nil
}

// Game returns a copy of the full state, suitable for persisting.
func (that *Engine) Game() *entity.Game {
	return that.game.Clone()
}

func (that *Engine) Board() *entity.Board {
	return that.board
}

func (that *Engine) Phase() entity.Phase {
	return that.game.Turn.Phase
}

func (that *Engine) CurrentPlayer() entity.Player {
	return *that.game.CurrentPlayer()
}

// PendingPurchase returns the tile awaiting a buy decision.
func (that *Engine) PendingPurchase() (int, bool) {
	if that.game.Turn.PendingPurchase == nil {
		return 0, false
	}

	return *that.game.Turn.PendingPurchase, true
}

func (that *Engine) Log() []string {
	return slices.Clone(that.game.Log)
}

func (that *Engine) Winner() (string, bool) {
	return that.game.Winner, that.game.Winner != ""
}

// apply runs op on a draft copy and commits it only when op and the invariant check succeed.
func (that *Engine) apply(op func(t *txn) error) error {
	if that.game.Turn.Phase == entity.PhaseGameOver {
		return apperror.ErrGameOver
	}

	draft := &txn{
		Engine: that,
		game:   that.game.Clone(),
	}

	if err := op(draft); err != nil {
		return err
	}

	if err := draft.game.Validate(that.board); err != nil {
		return fmt.Errorf("operation rejected: %w", err)
	}

	draft.game.UpdatedAt = time.Now().UTC()
	that.game = draft.game

	return nil
}

// txn is one in-flight operation against a draft game.
type txn struct {
	*Engine

	game *entity.Game
}

func (that *txn) current() *entity.Player {
	return that.game.CurrentPlayer()
}

// actor checks that playerID is the player whose turn it is.
func (that *txn) actor(playerID string) (*entity.Player, error) {
	player, _, err := that.game.Players.ByID(playerID)
	if err != nil {
		return nil, err
	}

	if player.ID != that.current().ID {
		return nil, fmt.Errorf("%w: %s", apperror.ErrNotCurrentPlayer, player.Name)
	}

	return player, nil
}

func (that *txn) requirePhase(allowed ...entity.Phase) error {
	if !slices.Contains(allowed, that.game.Turn.Phase) {
		return fmt.Errorf("%w: %s", apperror.ErrWrongPhase, that.game.Turn.Phase)
	}

	return nil
}

func (that *txn) tile(index int) entity.Tile {
	tile, _ := that.board.TileAt(index)
	return tile
}

func (that *txn) diceTotal() int {
	if that.game.Turn.LastRoll == nil {
		return 0
	}

	return that.game.Turn.LastRoll.Total()
}
