package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/rocketscienceinc/monopoly-backend/internal/apperror"
	"github.com/rocketscienceinc/monopoly-backend/internal/entity"
	"github.com/rocketscienceinc/monopoly-backend/internal/monopoly"
	"github.com/rocketscienceinc/monopoly-backend/internal/pkg"
	"github.com/rocketscienceinc/monopoly-backend/internal/repository"
)

const maxHistory = 100

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	DeleteByID(ctx context.Context, id string) error
}

type archiveRepo interface {
	Save(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	ListRecent(ctx context.Context, limit int) ([]repository.ArchivedGame, error)
}

// Result is the state after an applied intent.
type Result struct {
	Game *entity.Game `json:"game"`
	Roll *entity.Roll `json:"roll,omitempty"`
}

// GameManager loads a game, applies one intent through the engine and stores the result.
// Intents on one game are serialised; distinct games run independently.
type GameManager struct {
	logger  *slog.Logger
	catalog *entity.Catalog
	rules   monopoly.Rules

	gameRepo    gameRepo
	archiveRepo archiveRepo

	engineOpts []monopoly.Option

	seedMu sync.Mutex
	seeds  *rand.Rand

	locksMu sync.Mutex
	locks   map[string]*gameLock
}

// gameLock serialises intents on one game; the entry lives only while someone holds or waits on it.
type gameLock struct {
	mu   sync.Mutex
	refs int
}

// NewGameManager builds a manager. A non-zero seed makes every game reproducible in call order.
func NewGameManager(
	logger *slog.Logger,
	catalog *entity.Catalog,
	rules monopoly.Rules,
	seed int64,
	gameRepo gameRepo,
	archiveRepo archiveRepo,
	engineOpts ...monopoly.Option,
) *GameManager {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &GameManager{
		logger:  logger.With("component", "game_manager"),
		catalog: catalog,
		rules:   rules,

		gameRepo:    gameRepo,
		archiveRepo: archiveRepo,

		engineOpts: engineOpts,
		seeds:      rand.New(rand.NewSource(seed)), //nolint: gosec // game randomness
		locks:      make(map[string]*gameLock),
	}
}

// CreateGame seats the named players in order and stores the new game.
func (that *GameManager) CreateGame(ctx context.Context, names []string) (*entity.Game, error) {
	log := that.logger.With("method", "CreateGame")

	seats := make([]monopoly.Seat, 0, len(names))
	for _, name := range names {
		seats = append(seats, monopoly.Seat{ID: pkg.GeneratePlayerID(), Name: name})
	}

	engine, err := monopoly.New(that.catalog, that.rules, pkg.GenerateGameID(), seats, that.options()...)
	if err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	game := engine.Game()
	if err = that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to save game: %w", err)
	}

	log.Info("game created", "gameID", game.ID, "players", len(seats))

	return game, nil
}

// GetGame returns a live game, or the archived one once it is finished.
func (that *GameManager) GetGame(ctx context.Context, id string) (*entity.Game, error) {
	game, err := that.gameRepo.GetByID(ctx, id)
	if err == nil {
		return game, nil
	}

	if !errors.Is(err, apperror.ErrGameNotFound) {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	game, err = that.archiveRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return game, nil
}

// ListFinished returns the most recently finished games, newest first.
func (that *GameManager) ListFinished(ctx context.Context, limit int) ([]repository.ArchivedGame, error) {
	if limit <= 0 || limit > maxHistory {
		limit = maxHistory
	}

	games, err := that.archiveRepo.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list finished games: %w", err)
	}

	return games, nil
}

// Apply runs intent against the game. A rejected intent leaves the stored game untouched
// and the current state is returned along with the error.
func (that *GameManager) Apply(ctx context.Context, gameID string, intent Intent) (*Result, error) {
	log := that.logger.With("method", "Apply", "gameID", gameID, "action", intent.Action, "playerID", intent.PlayerID)

	unlock := that.lock(gameID)
	defer unlock()

	game, err := that.gameRepo.GetByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	engine, err := monopoly.Restore(that.catalog, that.rules, game, that.options()...)
	if err != nil {
		log.Error("stored game is corrupt", "error", err)
		return nil, fmt.Errorf("failed to restore game: %w", err)
	}

	roll, err := dispatch(engine, intent)
	if err != nil {
		if !apperror.IsRecoverable(err) {
			log.Error("intent broke an invariant", "error", err)
		}

		return &Result{Game: game}, fmt.Errorf("%s rejected: %w", intent.Action, err)
	}

	updated := engine.Game()

	if updated.IsFinished() {
		that.finishGame(ctx, updated)
		log.Info("game finished", "winner", updated.Winner)

		return &Result{Game: updated, Roll: roll}, nil
	}

	if err = that.gameRepo.CreateOrUpdate(ctx, updated); err != nil {
		return nil, fmt.Errorf("failed to update game: %w", err)
	}

	return &Result{Game: updated, Roll: roll}, nil
}

// finishGame moves the game from redis to the archive.
func (that *GameManager) finishGame(ctx context.Context, game *entity.Game) {
	log := that.logger.With("method", "finishGame", "gameID", game.ID)

	if err := that.archiveRepo.Save(ctx, game); err != nil {
		log.Error("failed to archive game, keeping it live", "error", err)

		if err = that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
			log.Error("failed to update game", "error", err)
		}

		return
	}

	if err := that.gameRepo.DeleteByID(ctx, game.ID); err != nil {
		log.Error("failed to delete game", "error", err)
	}

	log.Info("game archived")
}

func (that *GameManager) lock(gameID string) func() {
	that.locksMu.Lock()
	entry, ok := that.locks[gameID]
	if !ok {
		entry = &gameLock{}
		that.locks[gameID] = entry
	}
	entry.refs++
	that.locksMu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()

		that.locksMu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(that.locks, gameID)
		}
		that.locksMu.Unlock()
	}
}

// options gives every engine its own source; the manager's options come last so tests can override dice.
func (that *GameManager) options() []monopoly.Option {
	that.seedMu.Lock()
	seed := that.seeds.Int63()
	that.seedMu.Unlock()

	return append([]monopoly.Option{monopoly.WithSeed(seed)}, that.engineOpts...)
}
