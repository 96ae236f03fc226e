package memory

import (
	"context"
	"sync"

	"github.com/willsigmon/castaway-council-sub000/pkg/apperr"
)

// SeedVault implements domain.SeedVault using memory
type SeedVault struct {
	serverSeeds map[string]string
	clientSeeds map[string]map[string]string
	mu          sync.RWMutex
}

// NewSeedVault creates a new memory seed vault
func NewSeedVault() *SeedVault {
	return &SeedVault{
		serverSeeds: make(map[string]string),
		clientSeeds: make(map[string]map[string]string),
	}
}

func (v *SeedVault) PutServerSeed(ctx context.Context, challengeID, seed string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.serverSeeds[challengeID] = seed
	return nil
}

func (v *SeedVault) GetServerSeed(ctx context.Context, challengeID string) (string, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	seed, ok := v.serverSeeds[challengeID]
	if !ok {
		return "", apperr.NotFoundf("vaulted server seed for challenge %s", challengeID)
	}
	return seed, nil
}

func (v *SeedVault) PutClientSeed(ctx context.Context, challengeID, subjectID, seed string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.clientSeeds[challengeID] == nil {
		v.clientSeeds[challengeID] = make(map[string]string)
	}
	v.clientSeeds[challengeID][subjectID] = seed
	return nil
}

func (v *SeedVault) GetClientSeeds(ctx context.Context, challengeID string) (map[string]string, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()

	seeds := make(map[string]string, len(v.clientSeeds[challengeID]))
	for subjectID, seed := range v.clientSeeds[challengeID] {
		seeds[subjectID] = seed
	}
	return seeds, nil
}

func (v *SeedVault) Clear(ctx context.Context, challengeID string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	delete(v.serverSeeds, challengeID)
	delete(v.clientSeeds, challengeID)
	return nil
}
