package workers

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestCount(t *testing.T) {
	t.Setenv(EnvOverride, "")

	availableCPU := runtime.GOMAXPROCS(0)

	tests := []struct {
		name       string
		multiplier float64
		limit      int
		minExpect  int
		maxExpect  int
	}{
		{"CPU-bound task (1.0x multiplier)", 1.0, 0, 1, availableCPU},
		{"I/O-bound task (2.0x multiplier)", 2.0, 0, 1, availableCPU * 2},
		{"Mixed task (1.5x multiplier)", 1.5, 0, 1, max(1, int(float64(availableCPU)*1.5))},
		{"With limit lower than calculated", 2.0, 2, 1, 2},
		{"Very low multiplier", 0.1, 0, 1, max(1, int(float64(availableCPU)*0.1))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Count(tt.multiplier, tt.limit)
			if got < tt.minExpect || got > tt.maxExpect {
				t.Errorf("Count(%v, %d) = %d, expected between %d and %d", tt.multiplier, tt.limit, got, tt.minExpect, tt.maxExpect)
			}
		})
	}
}

func TestCountWithEnvOverride(t *testing.T) {
	tests := []struct {
		name     string
		envValue string
		limit    int
		expected int // 0 means fall back to the calculated value
	}{
		{"Valid override", "8", 0, 8},
		{"Override capped by limit", "20", 10, 10},
		{"Override below limit", "5", 10, 5},
		{"Non-numeric override ignored", "invalid", 0, 0},
		{"Zero override ignored", "0", 0, 0},
		{"Negative override ignored", "-5", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvOverride, tt.envValue)

			got := Count(1.0, tt.limit)
			want := tt.expected
			if want == 0 {
				want = max(1, runtime.GOMAXPROCS(0))
			}
			if got != want {
				t.Errorf("Count(1.0, %d) with %s=%s = %d, want %d", tt.limit, EnvOverride, tt.envValue, got, want)
			}
		})
	}
}

func TestHelpersRespectLimit(t *testing.T) {
	t.Setenv(EnvOverride, "")

	for name, fn := range map[string]func(int) int{"ForCPU": ForCPU, "ForIO": ForIO, "ForMixed": ForMixed} {
		if got := fn(1); got != 1 {
			t.Errorf("%s(1) = %d, want 1", name, got)
		}
		if got := fn(0); got < 1 {
			t.Errorf("%s(0) = %d, want at least 1", name, got)
		}
	}
}

func TestNewLimiterClampsCapacity(t *testing.T) {
	if got := NewLimiter(0).Capacity(); got != 1 {
		t.Errorf("Expected capacity 1, got %d", got)
	}
	if got := NewLimiter(3).Capacity(); got != 3 {
		t.Errorf("Expected capacity 3, got %d", got)
	}

	var nilLimiter *Limiter
	if got := nilLimiter.Capacity(); got != 0 {
		t.Errorf("Expected nil limiter capacity 0, got %d", got)
	}
}

func TestLimiterBoundsConcurrency(t *testing.T) {
	const capacity = 2
	lim := NewLimiter(capacity)

	var running, peak atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := lim.Do(context.Background(), func() error {
				n := running.Add(1)
				for {
					p := peak.Load()
					if n <= p || peak.CompareAndSwap(p, n) {
						break
					}
				}
				time.Sleep(5 * time.Millisecond)
				running.Add(-1)
				return nil
			})
			if err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := peak.Load(); got > capacity {
		t.Errorf("Expected at most %d concurrent tasks, saw %d", capacity, got)
	}
}

func TestLimiterAcquireHonoursContext(t *testing.T) {
	lim := NewLimiter(1)
	if err := lim.Acquire(context.Background()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if err := lim.Acquire(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Expected context.DeadlineExceeded, got %v", err)
	}

	lim.Release()
	if err := lim.Acquire(context.Background()); err != nil {
		t.Errorf("Expected slot after release, got %v", err)
	}
	lim.Release()
}

func TestLimiterDoPropagatesError(t *testing.T) {
	want := errors.New("boom")
	err := NewLimiter(1).Do(context.Background(), func() error { return want })
	if !errors.Is(err, want) {
		t.Errorf("Expected %v, got %v", want, err)
	}
}

func TestNilLimiterAdmitsEverything(t *testing.T) {
	var lim *Limiter
	called := false
	if err := lim.Do(context.Background(), func() error { called = true; return nil }); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !called {
		t.Error("Expected fn to run")
	}
}
