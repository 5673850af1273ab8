package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestGet_CachesSuccess(t *testing.T) {
	c := New[string](8, time.Hour, zerolog.Nop())
	var calls int
	load := func(context.Context) (string, error) {
		calls++
		return "NV", nil
	}

	for i := 0; i < 3; i++ {
		v, err := c.Get(context.Background(), "states", load)
		if err != nil || v != "NV" {
			t.Fatalf("Get = %q, %v", v, err)
		}
	}
	if calls != 1 {
		t.Errorf("loader called %d times, want 1", calls)
	}
	if c.Len() != 1 {
		t.Errorf("Len = %d", c.Len())
	}
}

func TestGet_DoesNotCacheFailures(t *testing.T) {
	c := New[int](8, time.Hour, zerolog.Nop())
	boom := errors.New("warehouse down")
	var calls int
	failing := func(context.Context) (int, error) {
		calls++
		return 0, boom
	}

	if _, err := c.Get(context.Background(), "k", failing); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if c.Len() != 0 {
		t.Fatal("failed load must not be stored")
	}

	v, err := c.Get(context.Background(), "k", func(context.Context) (int, error) {
		calls++
		return 7, nil
	})
	if err != nil || v != 7 {
		t.Fatalf("retry Get = %d, %v", v, err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestGet_ExpiresAfterTTL(t *testing.T) {
	c := New[int](8, 20*time.Millisecond, zerolog.Nop())
	var calls int
	load := func(context.Context) (int, error) {
		calls++
		return calls, nil
	}

	first, _ := c.Get(context.Background(), "k", load)
	time.Sleep(60 * time.Millisecond)
	second, _ := c.Get(context.Background(), "k", load)
	if first != 1 || second != 2 {
		t.Errorf("expected reload after TTL, got %d then %d", first, second)
	}
}

func TestGet_CollapsesConcurrentMisses(t *testing.T) {
	c := New[string](8, time.Hour, zerolog.Nop())
	var calls atomic.Int32
	release := make(chan struct{})
	load := func(context.Context) (string, error) {
		calls.Add(1)
		<-release
		return "ok", nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if v, err := c.Get(context.Background(), "codes", load); err != nil || v != "ok" {
				t.Errorf("Get = %q, %v", v, err)
			}
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	if n := calls.Load(); n != 1 {
		t.Errorf("loader ran %d times, want 1", n)
	}
}

func TestGet_ContextCancelled(t *testing.T) {
	c := New[string](8, time.Hour, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	block := make(chan struct{})
	defer close(block)

	_, err := c.Get(ctx, "slow", func(context.Context) (string, error) {
		<-block
		return "late", nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestGet_CancelledCallerDoesNotFailOthers(t *testing.T) {
	c := New[string](8, time.Hour, zerolog.Nop())
	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	load := func(ctx context.Context) (string, error) {
		once.Do(func() { close(started) })
		<-release
		if err := ctx.Err(); err != nil {
			return "", err
		}
		return "ok", nil
	}

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := c.Get(ctxA, "states", load)
		errA <- err
	}()
	<-started

	type result struct {
		v   string
		err error
	}
	resB := make(chan result, 1)
	go func() {
		v, err := c.Get(context.Background(), "states", load)
		resB <- result{v, err}
	}()
	time.Sleep(20 * time.Millisecond)

	cancelA()
	if err := <-errA; !errors.Is(err, context.Canceled) {
		t.Errorf("caller A: expected context.Canceled, got %v", err)
	}
	close(release)

	b := <-resB
	if b.err != nil || b.v != "ok" {
		t.Fatalf("caller B = %q, %v", b.v, b.err)
	}
	if v, ok := c.lru.Get("states"); !ok || v != "ok" {
		t.Errorf("value not cached after shared load: %q %v", v, ok)
	}
}

func TestPurge(t *testing.T) {
	c := New[int](8, time.Hour, zerolog.Nop())
	_, _ = c.Get(context.Background(), "a", func(context.Context) (int, error) { return 1, nil })
	c.Purge()
	if c.Len() != 0 {
		t.Errorf("Len after Purge = %d", c.Len())
	}
}
