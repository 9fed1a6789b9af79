package websocket

import (
	"sync"
)

// hub tracks which clients watch which game.
type hub struct {
	mu       sync.RWMutex
	watchers map[string]map[*client]struct{}
}

func newHub() *hub {
	return &hub{watchers: make(map[string]map[*client]struct{})}
}

func (that *hub) subscribe(gameID string, c *client) {
	that.mu.Lock()
	defer that.mu.Unlock()

	clients, ok := that.watchers[gameID]
	if !ok {
		clients = make(map[*client]struct{})
		that.watchers[gameID] = clients
	}

	clients[c] = struct{}{}
}

func (that *hub) unsubscribeAll(c *client) {
	that.mu.Lock()
	defer that.mu.Unlock()

	for gameID, clients := range that.watchers {
		delete(clients, c)

		if len(clients) == 0 {
			delete(that.watchers, gameID)
		}
	}
}

// broadcast queues msg for every watcher of the game except skip.
func (that *hub) broadcast(gameID string, msg []byte, skip *client) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	for c := range that.watchers[gameID] {
		if c != skip {
			c.enqueue(msg)
		}
	}
}
