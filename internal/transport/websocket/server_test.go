package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/monopoly-backend/internal/apperror"
	"github.com/rocketscienceinc/monopoly-backend/internal/entity"
	"github.com/rocketscienceinc/monopoly-backend/internal/repository"
	"github.com/rocketscienceinc/monopoly-backend/internal/usecase"
)

type fakeGames struct {
	game *entity.Game
}

func (that *fakeGames) CreateGame(_ context.Context, names []string) (*entity.Game, error) {
	if len(names) < 2 {
		return nil, fmt.Errorf("failed to create game: %w", apperror.ErrInvalidPlayers)
	}

	return that.game, nil
}

func (that *fakeGames) GetGame(_ context.Context, id string) (*entity.Game, error) {
	if id != that.game.ID {
		return nil, fmt.Errorf("failed to get game: %w", apperror.ErrGameNotFound)
	}

	return that.game, nil
}

func (that *fakeGames) Apply(_ context.Context, gameID string, intent usecase.Intent) (*usecase.Result, error) {
	if gameID != that.game.ID {
		return nil, fmt.Errorf("failed to get game: %w", apperror.ErrGameNotFound)
	}

	if intent.PlayerID != "p1" {
		return &usecase.Result{Game: that.game}, fmt.Errorf("%s rejected: %w", intent.Action, apperror.ErrNotCurrentPlayer)
	}

	return &usecase.Result{Game: that.game, Roll: &entity.Roll{First: 2, Second: 3}}, nil
}

func (that *fakeGames) ListFinished(_ context.Context, _ int) ([]repository.ArchivedGame, error) {
	return []repository.ArchivedGame{{ID: "old", Winner: "p2", Turns: 40, Players: 2}}, nil
}

func newTestServer(t *testing.T) string {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	games := &fakeGames{game: &entity.Game{ID: "game-1", Status: entity.StatusOngoing}}
	server := New(slog.New(slog.NewJSONHandler(io.Discard, nil)), games)

	httpServer := httptest.NewServer(server.Handler(ctx))
	t.Cleanup(httpServer.Close)

	return "ws" + strings.TrimPrefix(httpServer.URL, "http")
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return conn
}

func request(t *testing.T, conn *websocket.Conn, action string, payload RequestPayload) {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	require.NoError(t, conn.WriteJSON(Message{Action: action, Payload: body}))
}

func receive(t *testing.T, conn *websocket.Conn) (string, ResponsePayload) {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))

	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))

	var payload ResponsePayload
	require.NoError(t, json.Unmarshal(msg.Payload, &payload))

	return msg.Action, payload
}

func TestServer_NewGame(t *testing.T) {
	url := newTestServer(t)

	t.Run("Creates a game", func(t *testing.T) {
		// Given: a connected client
		conn := dial(t, url)

		// When: it asks for a new game with two players
		request(t, conn, "game:new", RequestPayload{Names: []string{"Alice", "Bob"}})

		// Then: the game is returned
		action, payload := receive(t, conn)
		assert.Equal(t, "game:new", action)
		require.NotNil(t, payload.Game)
		assert.Equal(t, "game-1", payload.Game.ID)
		assert.Empty(t, payload.Error)
	})

	t.Run("Reports too few players", func(t *testing.T) {
		conn := dial(t, url)

		request(t, conn, "game:new", RequestPayload{Names: []string{"Alice"}})

		_, payload := receive(t, conn)
		assert.Nil(t, payload.Game)
		assert.Contains(t, payload.Error, apperror.ErrInvalidPlayers.Error())
	})
}

func TestServer_Intents(t *testing.T) {
	url := newTestServer(t)

	t.Run("Actor gets the result and watchers get an update", func(t *testing.T) {
		// Given: one client watching the game and another one playing it
		watcher := dial(t, url)
		request(t, watcher, "game:state", RequestPayload{GameID: "game-1"})
		action, _ := receive(t, watcher)
		require.Equal(t, "game:state", action)

		player := dial(t, url)

		// When: the player rolls
		request(t, player, "game:roll", RequestPayload{GameID: "game-1", PlayerID: "p1"})

		// Then: the player sees the roll
		action, payload := receive(t, player)
		assert.Equal(t, "game:roll", action)
		require.NotNil(t, payload.Roll)
		assert.Equal(t, 5, payload.Roll.Total())

		// Then: the watcher is told about it
		action, payload = receive(t, watcher)
		assert.Equal(t, payloadActionGameUpdate, action)
		assert.Equal(t, "game-1", payload.Game.ID)
	})

	t.Run("Rejected intent returns the error with the current game", func(t *testing.T) {
		conn := dial(t, url)

		request(t, conn, "game:end-turn", RequestPayload{GameID: "game-1", PlayerID: "p2"})

		action, payload := receive(t, conn)
		assert.Equal(t, "game:end-turn", action)
		assert.Contains(t, payload.Error, apperror.ErrNotCurrentPlayer.Error())
		require.NotNil(t, payload.Game)
	})

	t.Run("Unknown game", func(t *testing.T) {
		conn := dial(t, url)

		request(t, conn, "game:state", RequestPayload{GameID: "missing"})

		_, payload := receive(t, conn)
		assert.Contains(t, payload.Error, apperror.ErrGameNotFound.Error())
	})
}

func TestServer_Messages(t *testing.T) {
	url := newTestServer(t)

	t.Run("Unknown action", func(t *testing.T) {
		conn := dial(t, url)

		request(t, conn, "game:teleport", RequestPayload{})

		action, payload := receive(t, conn)
		assert.Equal(t, "game:teleport", action)
		assert.Equal(t, "unknown action", payload.Error)
	})

	t.Run("Malformed message", func(t *testing.T) {
		conn := dial(t, url)

		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))

		_, payload := receive(t, conn)
		assert.Equal(t, "malformed message", payload.Error)
	})

	t.Run("History", func(t *testing.T) {
		conn := dial(t, url)

		request(t, conn, "game:history", RequestPayload{Limit: 5})

		_, payload := receive(t, conn)
		require.Len(t, payload.History, 1)
		assert.Equal(t, "p2", payload.History[0].Winner)
	})
}

func TestErrorText(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"Rule error is shown", fmt.Errorf("roll rejected: %w", apperror.ErrWrongPhase), "roll rejected: " + apperror.ErrWrongPhase.Error()},
		{"Invariant violation is hidden", fmt.Errorf("bad: %w", apperror.ErrInvariantViolation), "internal error"},
		{"Storage error is hidden", fmt.Errorf("failed to update game: %w", io.ErrUnexpectedEOF), "internal error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errorText(tt.err))
		})
	}
}
