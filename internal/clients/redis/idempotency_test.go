package redis

import (
	"context"
	"testing"
	"time"
)

func TestLocalGuardBlocksDuplicateKey(t *testing.T) {
	g := NewLocalGuard()
	ctx := context.Background()

	ok, err := g.Acquire(ctx, "k1", time.Minute)
	if err != nil || !ok {
		t.Fatalf("first acquire: ok=%v err=%v", ok, err)
	}
	ok, err = g.Acquire(ctx, "k1", time.Minute)
	if err != nil || ok {
		t.Fatalf("duplicate acquire should be refused: ok=%v err=%v", ok, err)
	}

	// Different key is independent.
	ok, _ = g.Acquire(ctx, "k2", time.Minute)
	if !ok {
		t.Fatalf("unrelated key should acquire")
	}
}

func TestLocalGuardReleaseFreesKey(t *testing.T) {
	g := NewLocalGuard()
	ctx := context.Background()

	if ok, _ := g.Acquire(ctx, "k1", time.Minute); !ok {
		t.Fatalf("acquire failed")
	}
	if err := g.Release(ctx, "k1"); err != nil {
		t.Fatalf("release: %v", err)
	}
	if ok, _ := g.Acquire(ctx, "k1", time.Minute); !ok {
		t.Fatalf("key should be free after release")
	}
}

func TestLocalGuardTTLExpires(t *testing.T) {
	g := NewLocalGuard().(*localGuard)
	now := time.Now()
	g.nowFunc = func() time.Time { return now }
	ctx := context.Background()

	if ok, _ := g.Acquire(ctx, "k1", 30*time.Second); !ok {
		t.Fatalf("acquire failed")
	}
	now = now.Add(time.Minute)
	if ok, _ := g.Acquire(ctx, "k1", 30*time.Second); !ok {
		t.Fatalf("expired hold should not block")
	}
}
