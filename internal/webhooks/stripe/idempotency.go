package stripewebhook

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rejoiceevents/decor-backend/pkg/redis"
)

// EventGuard remembers handled Stripe event ids in redis so re-deliveries
// short-circuit before touching the database. The DB's unique payment
// index is the durable backstop; this just saves the round trip.
type EventGuard struct {
	store redis.IdempotencyStore
	ttl   time.Duration
	scope string
}

// NewEventGuard builds a guard scoped to one webhook endpoint.
func NewEventGuard(store redis.IdempotencyStore, ttl time.Duration, scope string) (*EventGuard, error) {
	if store == nil {
		return nil, errors.New("idempotency store is required")
	}
	if ttl < 0 {
		return nil, errors.New("ttl must be non-negative")
	}
	if scope == "" {
		return nil, errors.New("scope is required")
	}
	return &EventGuard{store: store, ttl: ttl, scope: scope}, nil
}

// CheckAndMark claims the event id. It returns true when the event was
// already seen.
func (g *EventGuard) CheckAndMark(ctx context.Context, eventID string) (bool, error) {
	if eventID == "" {
		return false, errors.New("event id is required")
	}
	key := g.store.IdempotencyKey(g.scope, eventID)
	claimed, err := g.store.SetNX(ctx, key, "1", g.ttl)
	if err != nil {
		return false, fmt.Errorf("claim event id: %w", err)
	}
	return !claimed, nil
}

// Release forgets a claimed event id so a failed handler can be retried.
func (g *EventGuard) Release(ctx context.Context, eventID string) error {
	if eventID == "" {
		return errors.New("event id is required")
	}
	return g.store.Del(ctx, g.store.IdempotencyKey(g.scope, eventID))
}
