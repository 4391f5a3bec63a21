package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestStoreGetSetExpiry(t *testing.T) {
	now := time.Date(2026, time.March, 1, 10, 0, 0, 0, time.UTC)
	s := NewStore(30 * time.Second)
	s.now = func() time.Time { return now }
	ctx := context.Background()

	s.Set(ctx, "match:abc", "payload")
	if got, ok := s.Get(ctx, "match:abc"); !ok || got != "payload" {
		t.Fatalf("unexpected get: %v %v", got, ok)
	}

	now = now.Add(31 * time.Second)
	if _, ok := s.Get(ctx, "match:abc"); ok {
		t.Fatal("expected entry to expire")
	}
}

func TestStoreDeletePrefix(t *testing.T) {
	s := NewStore(time.Minute)
	ctx := context.Background()

	s.Set(ctx, "match:abc:events", 1)
	s.Set(ctx, "match:abc:frames", 2)
	s.Set(ctx, "match:xyz:events", 3)

	s.DeletePrefix(ctx, "match:abc:")

	if _, ok := s.Get(ctx, "match:abc:events"); ok {
		t.Fatal("expected match:abc:events to be deleted")
	}
	if _, ok := s.Get(ctx, "match:abc:frames"); ok {
		t.Fatal("expected match:abc:frames to be deleted")
	}
	if _, ok := s.Get(ctx, "match:xyz:events"); !ok {
		t.Fatal("expected match:xyz:events to survive")
	}
}

func TestStoreGetOrLoad(t *testing.T) {
	s := NewStore(time.Minute)
	ctx := context.Background()

	loads := 0
	loader := func(context.Context) (any, error) {
		loads++
		return "loaded", nil
	}

	for i := 0; i < 3; i++ {
		got, err := s.GetOrLoad(ctx, "key", loader)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "loaded" {
			t.Fatalf("unexpected value: %v", got)
		}
	}
	if loads != 1 {
		t.Fatalf("loader ran %d times, want 1", loads)
	}
}

func TestStoreGetOrLoadErrorNotCached(t *testing.T) {
	s := NewStore(time.Minute)
	ctx := context.Background()

	boom := errors.New("boom")
	calls := 0
	loader := func(context.Context) (any, error) {
		calls++
		if calls == 1 {
			return nil, boom
		}
		return "ok", nil
	}

	if _, err := s.GetOrLoad(ctx, "key", loader); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	got, err := s.GetOrLoad(ctx, "key", loader)
	if err != nil || got != "ok" {
		t.Fatalf("expected retry to succeed: %v %v", got, err)
	}
}

func TestDisabledStoreNeverRetains(t *testing.T) {
	s := NewDisabledStore()
	ctx := context.Background()

	s.Set(ctx, "key", "value")
	if _, ok := s.Get(ctx, "key"); ok {
		t.Fatal("disabled store should not retain values")
	}

	calls := 0
	loader := func(context.Context) (any, error) {
		calls++
		return calls, nil
	}
	for i := 1; i <= 2; i++ {
		got, err := s.GetOrLoad(ctx, "key", loader)
		if err != nil || got != i {
			t.Fatalf("expected load %d, got %v (%v)", i, got, err)
		}
	}
}
