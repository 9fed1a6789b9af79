package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/monopoly-backend/internal/entity"
	"github.com/rocketscienceinc/monopoly-backend/internal/repository"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// RequestPayload carries the fields used by any client action.
type RequestPayload struct {
	GameID   string   `json:"game_id,omitempty"`
	PlayerID string   `json:"player_id,omitempty"`
	Names    []string `json:"names,omitempty"`
	Tile     int      `json:"tile,omitempty"`
	Limit    int      `json:"limit,omitempty"`
}

type ResponsePayload struct {
	Game    *entity.Game              `json:"game,omitempty"`
	Roll    *entity.Roll              `json:"roll,omitempty"`
	History []repository.ArchivedGame `json:"history,omitempty"`
	Error   string                    `json:"error,omitempty"`
}

func encode(action string, payload ResponsePayload) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return json.Marshal(Message{Action: action, Payload: body})
}
