package pkg

import "github.com/google/uuid"

// GenerateGameID - generates a unique identifier for a game.
func GenerateGameID() string {
	return uuid.NewString()
}

// GeneratePlayerID - generates a unique identifier for a seat in a game.
func GeneratePlayerID() string {
	return uuid.NewString()
}
