package coupons

import (
	"context"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestRedisReservationsClaimOnce(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisReservations(client)
	ctx := context.Background()

	claimed, err := store.Reserve(ctx, 1)
	if err != nil {
		t.Fatalf("Reserve returned error: %v", err)
	}
	if !claimed {
		t.Fatal("expected first claim to succeed")
	}

	claimed, err = store.Reserve(ctx, 1)
	if err != nil {
		t.Fatalf("Reserve returned error: %v", err)
	}
	if claimed {
		t.Fatal("expected second claim on the same id to fail")
	}

	claimed, err = store.Reserve(ctx, 2)
	if err != nil || !claimed {
		t.Fatalf("expected a different id to be claimable, got %v / %v", claimed, err)
	}
}

func TestRedisReservationsError(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	mr.Close()

	store := NewRedisReservations(client)
	if _, err := store.Reserve(context.Background(), 1); err == nil {
		t.Fatal("expected error when redis is unreachable")
	}
}

func TestMemoryReservationsConcurrent(t *testing.T) {
	store := NewMemoryReservations()
	ctx := context.Background()

	const goroutines = 32
	wins := make(chan bool, goroutines)
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			claimed, err := store.Reserve(ctx, 7)
			if err != nil {
				t.Errorf("Reserve returned error: %v", err)
				return
			}
			wins <- claimed
		}()
	}
	wg.Wait()
	close(wins)

	won := 0
	for claimed := range wins {
		if claimed {
			won++
		}
	}
	if won != 1 {
		t.Fatalf("expected exactly one winner, got %d", won)
	}
}
