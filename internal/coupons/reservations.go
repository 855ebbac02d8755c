package coupons

import (
	"context"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
)

// ReservationStore claims single-use coupon ids. Reserve returns true only
// for the first caller to claim an id; the claim must be atomic.
type ReservationStore interface {
	Reserve(ctx context.Context, couponID int) (bool, error)
}

// MemoryReservations is a process-local reservation store. Claims reset on
// restart and are not shared between instances; it is the fallback when no
// Redis address is configured.
type MemoryReservations struct {
	mu   sync.Mutex
	used map[int]struct{}
}

func NewMemoryReservations() *MemoryReservations {
	return &MemoryReservations{used: make(map[int]struct{})}
}

func (m *MemoryReservations) Reserve(ctx context.Context, couponID int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, taken := m.used[couponID]; taken {
		return false, nil
	}
	m.used[couponID] = struct{}{}
	return true, nil
}

// Used reports how many coupon ids have been claimed.
func (m *MemoryReservations) Used() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.used)
}

// RedisReservations claims coupon ids in Redis so reservations survive
// restarts and are shared across instances. SETNX gives the uniqueness
// guarantee.
type RedisReservations struct {
	client *redis.Client
}

func NewRedisReservations(client *redis.Client) *RedisReservations {
	if client == nil {
		panic("coupons: redis client cannot be nil")
	}
	return &RedisReservations{client: client}
}

func (r *RedisReservations) key(couponID int) string {
	return fmt.Sprintf("coupon:reserved:%d", couponID)
}

func (r *RedisReservations) Reserve(ctx context.Context, couponID int) (bool, error) {
	claimed, err := r.client.SetNX(ctx, r.key(couponID), 1, 0).Result()
	if err != nil {
		return false, fmt.Errorf("coupons: reserve %d: %w", couponID, err)
	}
	return claimed, nil
}

var _ ReservationStore = (*MemoryReservations)(nil)
var _ ReservationStore = (*RedisReservations)(nil)
