package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestStore_GetOrLoad_UsesSingleFlight(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (any, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return "value", nil
	}

	const workers = 32
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)
	errCh := make(chan error, workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err := store.GetOrLoad(context.Background(), "game:list", loader)
			if err != nil {
				errCh <- err
				return
			}
			if got, _ := v.(string); got != "value" {
				errCh <- errUnexpectedValue
			}
		}()
	}

	close(start)
	wg.Wait()
	close(errCh)
	for err := range errCh {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_GetOrLoad_UsesCachedValueAfterFirstLoad(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (any, error) {
		calls.Add(1)
		return "cached", nil
	}

	if _, err := store.GetOrLoad(context.Background(), "game:id:g1", loader); err != nil {
		t.Fatalf("first GetOrLoad error: %v", err)
	}
	if _, err := store.GetOrLoad(context.Background(), "game:id:g1", loader); err != nil {
		t.Fatalf("second GetOrLoad error: %v", err)
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

var errUnexpectedValue = errors.New("unexpected loaded value")

func TestStore_ExpiresEntries(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC)
	store := NewStore(30 * time.Second)
	store.now = func() time.Time { return now }

	expiresAt := store.Set(context.Background(), "game:g1", "snapshot")
	if want := now.Add(30 * time.Second); !expiresAt.Equal(want) {
		t.Fatalf("expiresAt = %s, want %s", expiresAt, want)
	}

	now = now.Add(29 * time.Second)
	if _, ok := store.Get(context.Background(), "game:g1"); !ok {
		t.Fatalf("expected entry inside ttl")
	}

	now = now.Add(time.Second)
	if _, ok := store.Get(context.Background(), "game:g1"); ok {
		t.Fatalf("expected entry to expire at ttl")
	}
}

func TestStore_TakeConsumesOnce(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	store.Set(context.Background(), "token", 42)

	v, ok := store.Take(context.Background(), "token")
	if !ok || v.(int) != 42 {
		t.Fatalf("first take = %v,%v", v, ok)
	}
	if _, ok := store.Take(context.Background(), "token"); ok {
		t.Fatalf("second take must miss")
	}
}

func TestStore_TakeSkipsExpired(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 20, 0, 0, 0, time.UTC)
	store := NewStore(time.Second)
	store.now = func() time.Time { return now }
	store.Set(context.Background(), "token", "x")

	now = now.Add(2 * time.Second)
	if _, ok := store.Take(context.Background(), "token"); ok {
		t.Fatalf("expected expired token to miss")
	}
}

func TestStore_DeletePrefix(t *testing.T) {
	t.Parallel()

	store := NewStore(0)
	store.Set(context.Background(), "game:list", 1)
	store.Set(context.Background(), "game:id:g1", 2)
	store.Set(context.Background(), "preference:narration_muted", 3)

	store.DeletePrefix(context.Background(), "game:")

	if _, ok := store.Get(context.Background(), "game:id:g1"); ok {
		t.Fatalf("expected game entries removed")
	}
	if _, ok := store.Get(context.Background(), "preference:narration_muted"); !ok {
		t.Fatalf("expected unrelated entry kept")
	}
}

func TestStore_InvalidationDuringLoadIsNotCached(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	loading := make(chan struct{})
	release := make(chan struct{})

	done := make(chan any, 1)
	go func() {
		v, _ := store.GetOrLoad(context.Background(), "game:id:g1", func(context.Context) (any, error) {
			close(loading)
			<-release
			return "stale", nil
		})
		done <- v
	}()

	<-loading
	store.Delete(context.Background(), "game:id:g1")

	fresh, err := store.GetOrLoad(context.Background(), "game:id:g1", func(context.Context) (any, error) {
		return "fresh", nil
	})
	if err != nil {
		t.Fatalf("fresh load: %v", err)
	}
	if fresh != "fresh" {
		t.Fatalf("load after invalidation joined the stale flight: got %v", fresh)
	}

	close(release)
	if got := <-done; got != "stale" {
		t.Fatalf("first caller got %v", got)
	}

	v, ok := store.Get(context.Background(), "game:id:g1")
	if !ok || v != "fresh" {
		t.Fatalf("cached value = %v,%v, want fresh", v, ok)
	}
}
