package worker

import (
	"context"
	"testing"
	"time"
)

func TestLimiter_AllowWithinBurst(t *testing.T) {
	l := NewLimiter(1, 3)

	for i := 0; i < 3; i++ {
		if !l.Allow("openai") {
			t.Fatalf("call %d should be within burst", i)
		}
	}
	if l.Allow("openai") {
		t.Error("call beyond burst should be denied")
	}
}

func TestLimiter_ProvidersAreIndependent(t *testing.T) {
	l := NewLimiter(1, 1)

	if !l.Allow("openai") {
		t.Fatal("first openai call should pass")
	}
	if l.Allow("openai") {
		t.Error("second openai call should be throttled")
	}
	if !l.Allow("outro") {
		t.Error("a different provider has its own bucket")
	}
}

func TestLimiter_SetProviderRate(t *testing.T) {
	l := NewLimiter(1, 1)
	l.SetProviderRate("openai", 100, 10)

	for i := 0; i < 10; i++ {
		if !l.Allow("openai") {
			t.Fatalf("call %d should be within the raised burst", i)
		}
	}
}

func TestLimiter_WaitHonorsContext(t *testing.T) {
	l := NewLimiter(0.001, 1)
	l.Allow("openai") // drain the single burst token

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := l.Wait(ctx, "openai"); err == nil {
		t.Error("expected context deadline error while throttled")
	}
}

func TestLimiter_DefaultBurst(t *testing.T) {
	l := NewLimiter(1, 0)

	// Zero burst falls back to the package default of 5
	for i := 0; i < 5; i++ {
		if !l.Allow("openai") {
			t.Fatalf("call %d should be within the default burst", i)
		}
	}
}
