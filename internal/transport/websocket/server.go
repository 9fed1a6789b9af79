package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/monopoly-backend/internal/entity"
	"github.com/rocketscienceinc/monopoly-backend/internal/repository"
	"github.com/rocketscienceinc/monopoly-backend/internal/usecase"
)

type uGame interface {
	CreateGame(ctx context.Context, names []string) (*entity.Game, error)
	GetGame(ctx context.Context, id string) (*entity.Game, error)
	Apply(ctx context.Context, gameID string, intent usecase.Intent) (*usecase.Result, error)
	ListFinished(ctx context.Context, limit int) ([]repository.ArchivedGame, error)
}

type handlerFunc func(ctx context.Context, c *client, action string, req *RequestPayload) error

type Server struct {
	logger *slog.Logger
	uGame  uGame

	upgrader websocket.Upgrader
	hub      *hub

	handlers map[string]handlerFunc
}

func New(logger *slog.Logger, uGame uGame) *Server {
	server := &Server{
		logger: logger.With("component", "websocket"),
		uGame:  uGame,

		upgrader: websocket.Upgrader{
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 16 * 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		hub: newHub(),

		handlers: make(map[string]handlerFunc),
	}

	server.handlers["game:new"] = server.handleNewGame
	server.handlers["game:state"] = server.handleState
	server.handlers["game:history"] = server.handleHistory

	for action, intent := range intentActions {
		server.handlers[action] = server.intentHandler(intent)
	}

	return server
}

// Start - starts WebSocket server and stops it when ctx is done.
func (that *Server) Start(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.Handle("/ws", that.Handler(ctx))

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       30 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Handler upgrades requests to WebSocket connections served until ctx is done.
func (that *Server) Handler(ctx context.Context) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, req *http.Request) {
		that.serve(ctx, writer, req)
	})
}

func (that *Server) serve(ctx context.Context, writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "serve")

	conn, err := that.upgrader.Upgrade(writer, req, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}
	defer conn.Close()

	connCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	c := newClient(conn, that.logger)
	defer func() {
		that.hub.unsubscribeAll(c)
		c.close()
	}()

	go c.writeLoop(connCtx)

	log.Info("WebSocket connection established", "remote", req.RemoteAddr)

	if err = that.handleMessages(connCtx, c); err != nil {
		log.Info("WebSocket connection closed", "reason", err)
	}
}

// handleMessages - processes messages from the client.
func (that *Server) handleMessages(ctx context.Context, c *client) error {
	log := that.logger.With("method", "handleMessages")

	for {
		_ = c.conn.SetReadDeadline(time.Now().Add(readWait))

		_, body, err := c.conn.ReadMessage()
		if err != nil {
			return err
		}

		var message Message
		if err = json.Unmarshal(body, &message); err != nil {
			log.Warn("failed to unmarshal message", "error", err)
			that.sendError(c, "error", "malformed message")

			continue
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Warn("unknown action", "action", message.Action)
			that.sendError(c, message.Action, "unknown action")

			continue
		}

		var req RequestPayload
		if len(message.Payload) > 0 {
			if err = json.Unmarshal(message.Payload, &req); err != nil {
				that.sendError(c, message.Action, "malformed payload")
				continue
			}
		}

		if err = handler(ctx, c, message.Action, &req); err != nil {
			log.Error("error processing message", "action", message.Action, "error", err)
		}
	}
}

func (that *Server) send(c *client, action string, payload ResponsePayload) error {
	msg, err := encode(action, payload)
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}

	c.enqueue(msg)

	return nil
}

func (that *Server) sendError(c *client, action, text string) {
	if err := that.send(c, action, ResponsePayload{Error: text}); err != nil {
		that.logger.Error("failed to send error", "error", err)
	}
}
