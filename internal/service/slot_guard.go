package service

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	// Redis key prefix for in-flight slot reservations
	RedisSlotKeyPrefix = "appointment:slot:"

	// How long a reservation outlives the booking attempt that took it.
	// Long enough to cover the occupancy check plus the insert, short
	// enough that a crashed request frees the slot on its own.
	slotReservationTTL = 15 * time.Second
)

// SlotGuard serializes concurrent booking attempts against the same
// (window, dateTime) slot with a Redis SETNX reservation. It is a
// secondary barrier only: the partial unique index on appointments is
// the authoritative guard, so Redis being down degrades to DB-only
// protection instead of blocking bookings.
type SlotGuard struct {
	redisClient *redis.Client
	log         *logrus.Logger
}

func NewSlotGuard(redisClient *redis.Client, log *logrus.Logger) *SlotGuard {
	return &SlotGuard{
		redisClient: redisClient,
		log:         log,
	}
}

func (g *SlotGuard) slotKey(windowID uint, at time.Time) string {
	return fmt.Sprintf("%s%d:%s", RedisSlotKeyPrefix, windowID, at.UTC().Format(time.RFC3339))
}

// Reserve attempts to take the slot. Returns false when another
// in-flight booking already holds it. Redis errors are logged and the
// reservation is granted (fail-open).
func (g *SlotGuard) Reserve(ctx context.Context, windowID uint, at time.Time) (bool, error) {
	if g.redisClient == nil {
		return true, nil
	}

	ok, err := g.redisClient.SetNX(ctx, g.slotKey(windowID, at), 1, slotReservationTTL).Result()
	if err != nil {
		g.log.Warnf("Slot reservation unavailable for window %d (non-fatal): %+v", windowID, err)
		return true, nil
	}
	return ok, nil
}

// Release frees a reservation after a failed insert so the slot does
// not stay blocked for the TTL.
func (g *SlotGuard) Release(ctx context.Context, windowID uint, at time.Time) {
	if g.redisClient == nil {
		return
	}

	if err := g.redisClient.Del(ctx, g.slotKey(windowID, at)).Err(); err != nil {
		g.log.Warnf("Failed to release slot reservation for window %d (non-fatal): %+v", windowID, err)
	}
}
