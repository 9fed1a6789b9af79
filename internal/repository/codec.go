package repository

import (
	"encoding/json"
	"fmt"

	"github.com/klauspost/compress/zstd"

	"github.com/rocketscienceinc/monopoly-backend/internal/entity"
)

// snapshotCodec turns a game into zstd-compressed JSON and back.
// Encoder and decoder are safe for concurrent EncodeAll/DecodeAll calls.
type snapshotCodec struct {
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

func newSnapshotCodec() *snapshotCodec {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		panic(fmt.Errorf("failed to create zstd encoder: %w", err))
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		panic(fmt.Errorf("failed to create zstd decoder: %w", err))
	}

	return &snapshotCodec{
		encoder: encoder,
		decoder: decoder,
	}
}

func (that *snapshotCodec) encode(game *entity.Game) ([]byte, error) {
	gameJSON, err := json.Marshal(game)
	if err != nil {
		return nil, fmt.Errorf("could not marshal game: %w", err)
	}

	return that.encoder.EncodeAll(gameJSON, make([]byte, 0, len(gameJSON)/4)), nil
}

func (that *snapshotCodec) decode(raw []byte) (*entity.Game, error) {
	gameJSON, err := that.decoder.DecodeAll(raw, nil)
	if err != nil {
		return nil, fmt.Errorf("could not decompress game: %w", err)
	}

	var game entity.Game
	if err = json.Unmarshal(gameJSON, &game); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game: %w", err)
	}

	return &game, nil
}
