package roundtrip

import "github.com/okian/mmolbparse/internal/domain/game"

// WithGameEncoder swaps the encoder used for game records.
func WithGameEncoder(enc func(game.Event) ([]byte, error)) Option {
	return func(c *Checker) { c.encodeGame = enc }
}
