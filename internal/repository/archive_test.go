package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/monopoly-backend/internal/apperror"
	"github.com/rocketscienceinc/monopoly-backend/internal/entity"
	"github.com/rocketscienceinc/monopoly-backend/internal/repository/storage"
)

func newTestArchive(t *testing.T) (context.Context, ArchiveRepository) {
	t.Helper()

	ctx := context.Background()

	st, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "archive.db"))
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = st.Close()
	})

	require.NoError(t, st.Init(ctx))

	return ctx, NewArchiveRepository(st.Connection)
}

func finishedGame(t *testing.T, id string, finishedAt time.Time) *entity.Game {
	t.Helper()

	game := newTestGame(t, id)
	game.Status = entity.StatusFinished
	game.Winner = "p2"
	game.Players[0].Bankrupt = true
	game.Turn.Phase = entity.PhaseGameOver
	game.Turn.Number = 42
	game.UpdatedAt = finishedAt

	return game
}

func TestArchiveRepository_Save(t *testing.T) {
	t.Run("Save and read back", func(t *testing.T) {
		ctx, archive := newTestArchive(t)

		// Given: a finished game
		game := finishedGame(t, "123", time.Now())

		// When: it is archived
		require.NoError(t, archive.Save(ctx, game))

		// Then: the full snapshot can be read back
		stored, err := archive.GetByID(ctx, "123")
		require.NoError(t, err)
		assert.Equal(t, "p2", stored.Winner)
		assert.Equal(t, entity.PhaseGameOver, stored.Turn.Phase)
		assert.True(t, stored.Players[0].Bankrupt)
	})

	t.Run("Saving twice replaces the row", func(t *testing.T) {
		ctx, archive := newTestArchive(t)

		game := finishedGame(t, "123", time.Now())
		require.NoError(t, archive.Save(ctx, game))

		game.Winner = "p1"
		require.NoError(t, archive.Save(ctx, game))

		games, err := archive.ListRecent(ctx, 10)
		require.NoError(t, err)
		require.Len(t, games, 1)
		assert.Equal(t, "p1", games[0].Winner)
	})
}

func TestArchiveRepository_GetByID_NotFound(t *testing.T) {
	ctx, archive := newTestArchive(t)

	// When: an unknown game is requested
	_, err := archive.GetByID(ctx, "9999999")

	// Then: ErrGameNotFound is returned
	require.ErrorIs(t, err, apperror.ErrGameNotFound)
}

func TestArchiveRepository_ListRecent(t *testing.T) {
	ctx, archive := newTestArchive(t)

	// Given: three games finished one hour apart
	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"old", "mid", "new"} {
		require.NoError(t, archive.Save(ctx, finishedGame(t, id, start.Add(time.Duration(i)*time.Hour))))
	}

	// When: the two most recent are listed
	games, err := archive.ListRecent(ctx, 2)

	// Then: newest comes first with its summary
	require.NoError(t, err)
	require.Len(t, games, 2)
	assert.Equal(t, "new", games[0].ID)
	assert.Equal(t, "mid", games[1].ID)
	assert.Equal(t, 42, games[0].Turns)
	assert.Equal(t, 2, games[0].Players)
	assert.True(t, start.Add(2*time.Hour).Equal(games[0].FinishedAt))
}
