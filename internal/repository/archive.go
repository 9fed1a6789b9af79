package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rocketscienceinc/monopoly-backend/internal/apperror"
	"github.com/rocketscienceinc/monopoly-backend/internal/entity"
)

// finishedAtLayout has a fixed width so rows sort by time as text.
const finishedAtLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ArchivedGame is the summary row of a finished game.
type ArchivedGame struct {
	ID         string    `json:"id"`
	Winner     string    `json:"winner"`
	Turns      int       `json:"turns"`
	Players    int       `json:"players"`
	FinishedAt time.Time `json:"finished_at"`
}

type ArchiveRepository interface {
	Save(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	ListRecent(ctx context.Context, limit int) ([]ArchivedGame, error)
}

type dbArchive struct {
	db    *sql.DB
	codec *snapshotCodec
}

// NewArchiveRepository keeps finished games in sqlite. The table comes from storage.Storage.Init.
func NewArchiveRepository(db *sql.DB) ArchiveRepository {
	return &dbArchive{
		db:    db,
		codec: newSnapshotCodec(),
	}
}

func (that *dbArchive) Save(ctx context.Context, game *entity.Game) error {
	snapshot, err := that.codec.encode(game)
	if err != nil {
		return err
	}

	query := `INSERT OR REPLACE INTO finished_games (id, winner, turns, players, finished_at, snapshot)
		VALUES (?, ?, ?, ?, ?, ?)`

	_, err = that.db.ExecContext(ctx, query,
		game.ID,
		game.Winner,
		game.Turn.Number,
		len(game.Players),
		game.UpdatedAt.UTC().Format(finishedAtLayout),
		snapshot,
	)
	if err != nil {
		return fmt.Errorf("failed to archive game: %w", err)
	}

	return nil
}

func (that *dbArchive) GetByID(ctx context.Context, id string) (*entity.Game, error) {
	var snapshot []byte

	err := that.db.QueryRowContext(ctx, `SELECT snapshot FROM finished_games WHERE id = ?`, id).Scan(&snapshot)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperror.ErrGameNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read archived game: %w", err)
	}

	return that.codec.decode(snapshot)
}

func (that *dbArchive) ListRecent(ctx context.Context, limit int) ([]ArchivedGame, error) {
	query := `SELECT id, winner, turns, players, finished_at FROM finished_games
		ORDER BY finished_at DESC LIMIT ?`

	rows, err := that.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list archived games: %w", err)
	}
	defer rows.Close()

	games := make([]ArchivedGame, 0, limit)
	for rows.Next() {
		var (
			game       ArchivedGame
			finishedAt string
		)

		if err = rows.Scan(&game.ID, &game.Winner, &game.Turns, &game.Players, &finishedAt); err != nil {
			return nil, fmt.Errorf("failed to scan archived game: %w", err)
		}

		if game.FinishedAt, err = time.Parse(finishedAtLayout, finishedAt); err != nil {
			return nil, fmt.Errorf("bad finished_at %q: %w", finishedAt, err)
		}

		games = append(games, game)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list archived games: %w", err)
	}

	return games, nil
}
