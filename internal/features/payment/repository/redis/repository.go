package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"meme-forge-backend/internal/features/payment/repository"
)

const keyPrefixConsumed = "x402:consumed:"

// Ledger is the Redis-backed consumed-signature set. Entries expire after
// the TTL; old signatures fall outside the RPC commitment window anyway.
type Ledger struct {
	client *redis.Client
	ttl    time.Duration
}

func NewLedger(client *redis.Client, ttl time.Duration) repository.SignatureLedger {
	return &Ledger{client: client, ttl: ttl}
}

func (l *Ledger) Consume(ctx context.Context, signature string) (bool, error) {
	key := keyPrefixConsumed + signature
	ok, err := l.client.SetNX(ctx, key, time.Now().Unix(), l.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to consume signature: %w", err)
	}
	return ok, nil
}

func (l *Ledger) Release(ctx context.Context, signature string) error {
	if err := l.client.Del(ctx, keyPrefixConsumed+signature).Err(); err != nil {
		return fmt.Errorf("failed to release signature: %w", err)
	}
	return nil
}
