package websocket

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 5 * time.Second
	readWait   = 60 * time.Second
	sendBuffer = 16
)

// client is one connection. Writes go through send so a slow reader never blocks a game.
type client struct {
	conn   *websocket.Conn
	logger *slog.Logger

	send      chan []byte
	closeOnce sync.Once
	done      chan struct{}
}

func newClient(conn *websocket.Conn, logger *slog.Logger) *client {
	return &client{
		conn:   conn,
		logger: logger,
		send:   make(chan []byte, sendBuffer),
		done:   make(chan struct{}),
	}
}

// enqueue drops the message if the client is gone or too far behind.
func (that *client) enqueue(msg []byte) {
	select {
	case <-that.done:
	case that.send <- msg:
	default:
		that.logger.Warn("client is too slow, message dropped")
	}
}

func (that *client) close() {
	that.closeOnce.Do(func() {
		close(that.done)
	})
}

func (that *client) writeLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-that.done:
			return
		case msg := <-that.send:
			_ = that.conn.SetWriteDeadline(time.Now().Add(writeWait))

			if err := that.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				that.logger.Error("failed to write message", "error", err)
				that.close()

				return
			}
		}
	}
}
