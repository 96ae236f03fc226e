// Package redis provides the redis-backed seed vault. Unrevealed seed
// material is the only challenge state that must outlive a process without
// ever being published, so it lives in a keyed hash with a season-length TTL.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/willsigmon/castaway-council-sub000/pkg/apperr"
)

const serverSeedField = "__server"

// SeedVault implements domain.SeedVault using Redis
type SeedVault struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewSeedVault creates a new Redis seed vault
func NewSeedVault(rdb *redis.Client) *SeedVault {
	return &SeedVault{
		rdb: rdb,
		ttl: 45 * 24 * time.Hour, // longer than any season
	}
}

func vaultKey(challengeID string) string {
	return fmt.Sprintf("seed_vault:%s", challengeID)
}

func (v *SeedVault) PutServerSeed(ctx context.Context, challengeID, seed string) error {
	key := vaultKey(challengeID)

	pipe := v.rdb.Pipeline()
	pipe.HSet(ctx, key, serverSeedField, seed)
	pipe.Expire(ctx, key, v.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return apperr.Transient(err)
	}
	return nil
}

func (v *SeedVault) GetServerSeed(ctx context.Context, challengeID string) (string, error) {
	seed, err := v.rdb.HGet(ctx, vaultKey(challengeID), serverSeedField).Result()
	if err != nil {
		if err == redis.Nil {
			return "", apperr.NotFoundf("vaulted server seed for challenge %s", challengeID)
		}
		return "", apperr.Transient(err)
	}
	return seed, nil
}

func (v *SeedVault) PutClientSeed(ctx context.Context, challengeID, subjectID, seed string) error {
	key := vaultKey(challengeID)

	pipe := v.rdb.Pipeline()
	pipe.HSet(ctx, key, subjectID, seed)
	pipe.Expire(ctx, key, v.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return apperr.Transient(err)
	}
	return nil
}

func (v *SeedVault) GetClientSeeds(ctx context.Context, challengeID string) (map[string]string, error) {
	fields, err := v.rdb.HGetAll(ctx, vaultKey(challengeID)).Result()
	if err != nil {
		return nil, apperr.Transient(err)
	}

	seeds := make(map[string]string, len(fields))
	for field, seed := range fields {
		if field == serverSeedField {
			continue
		}
		seeds[field] = seed
	}
	return seeds, nil
}

func (v *SeedVault) Clear(ctx context.Context, challengeID string) error {
	if err := v.rdb.Del(ctx, vaultKey(challengeID)).Err(); err != nil {
		return apperr.Transient(err)
	}
	return nil
}
