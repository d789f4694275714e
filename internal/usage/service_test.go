package usage

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestGetInitializesDefaults(t *testing.T) {
	svc := NewService()
	u, err := svc.Get(context.Background(), "emp-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if u.Plan != "Starter" || u.Limit != 25 || u.Used != 0 {
		t.Fatalf("unexpected defaults: %+v", u)
	}
	if !u.ResetsAt.After(time.Now().UTC()) {
		t.Fatalf("expected future reset window, got %v", u.ResetsAt)
	}
}

func TestConsumeEnforcesLimit(t *testing.T) {
	svc := NewService()
	ctx := context.Background()

	u, err := svc.Get(ctx, "emp-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	for i := 0; i < u.Limit; i++ {
		if _, err := svc.Consume(ctx, "emp-1", 1); err != nil {
			t.Fatalf("Consume %d: %v", i, err)
		}
	}

	if _, err := svc.Consume(ctx, "emp-1", 1); !errors.Is(err, ErrLimitReached) {
		t.Fatalf("expected ErrLimitReached, got %v", err)
	}

	ok, _, err := svc.CanConsume(ctx, "emp-1", 1)
	if err != nil {
		t.Fatalf("CanConsume: %v", err)
	}
	if ok {
		t.Fatal("expected CanConsume false at limit")
	}
}

func TestCanConsumeZeroAlwaysAllowed(t *testing.T) {
	svc := NewService()
	ok, u, err := svc.CanConsume(context.Background(), "emp-1", 0)
	if err != nil {
		t.Fatalf("CanConsume: %v", err)
	}
	if !ok {
		t.Fatal("expected n=0 to be allowed")
	}
	if u.Used != 0 {
		t.Fatalf("expected no consumption, got %+v", u)
	}
}

func TestResetClearsUsage(t *testing.T) {
	svc := NewService()
	ctx := context.Background()

	if _, err := svc.Consume(ctx, "emp-1", 5); err != nil {
		t.Fatalf("Consume: %v", err)
	}
	u, err := svc.Reset(ctx, "emp-1")
	if err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if u.Used != 0 {
		t.Fatalf("expected zero used after reset, got %d", u.Used)
	}

	ok, _, err := svc.CanConsume(ctx, "emp-1", 1)
	if err != nil {
		t.Fatalf("CanConsume: %v", err)
	}
	if !ok {
		t.Fatal("expected quota available after reset")
	}
}

func TestUsageIsPerEmployer(t *testing.T) {
	svc := NewService()
	ctx := context.Background()

	if _, err := svc.Consume(ctx, "emp-1", 10); err != nil {
		t.Fatalf("Consume: %v", err)
	}
	other, err := svc.Get(ctx, "emp-2")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if other.Used != 0 {
		t.Fatalf("expected isolated quota, got %+v", other)
	}
}
