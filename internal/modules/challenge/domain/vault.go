package domain

import (
	"context"
)

// SeedVault holds unrevealed seed material. The commit hashes are public from
// the moment a challenge opens; the plaintext seeds live only in the vault
// until the challenge-wide reveal copies them into the published record.
type SeedVault interface {
	PutServerSeed(ctx context.Context, challengeID, seed string) error
	GetServerSeed(ctx context.Context, challengeID string) (string, error)
	PutClientSeed(ctx context.Context, challengeID, subjectID, seed string) error
	GetClientSeeds(ctx context.Context, challengeID string) (map[string]string, error)
	// Clear drops the vault entry after a successful reveal.
	Clear(ctx context.Context, challengeID string) error
}
