package cache

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestValidateKey(t *testing.T) {
	tests := []struct {
		key  string
		want error
	}{
		{"cache:data_analysis:abc", nil},
		{"", ErrInvalidKey},
		{"   ", ErrInvalidKey},
		{"a\nb", ErrInvalidKey},
		{strings.Repeat("k", MaxKeyLength+1), ErrKeyTooLong},
	}
	for _, tt := range tests {
		if err := ValidateKey(tt.key); !errors.Is(err, tt.want) {
			t.Errorf("ValidateKey(%.20q) = %v, want %v", tt.key, err, tt.want)
		}
	}
}

func TestHashKeyer_Deterministic(t *testing.T) {
	k := HashKeyer{}
	a, err := k.Key("data_analysis", map[string]any{"path": "a.csv", "size": 10, "meta": map[string]any{"x": 1, "y": 2}})
	if err != nil {
		t.Fatalf("Key() error = %v", err)
	}
	b, _ := k.Key("data_analysis", map[string]any{"meta": map[string]any{"y": 2, "x": 1}, "size": 10, "path": "a.csv"})
	if a != b {
		t.Errorf("keys differ for equal inputs: %s vs %s", a, b)
	}
	if !strings.HasPrefix(a, "cache:data_analysis:") || len(a) != len("cache:data_analysis:")+16 {
		t.Errorf("Key() = %q, want cache:data_analysis:<16 hex>", a)
	}

	c, _ := k.Key("data_analysis", map[string]any{"path": "b.csv", "size": 10})
	if c == a {
		t.Error("different inputs produced the same key")
	}
}

func TestHashKeyer_Struct(t *testing.T) {
	type in struct {
		Path string `json:"path"`
		Size int64  `json:"size"`
	}
	k := HashKeyer{}
	a, err := k.Key("op", in{Path: "x", Size: 1})
	if err != nil {
		t.Fatalf("Key() error = %v", err)
	}
	b, _ := k.Key("op", map[string]any{"size": 1, "path": "x"})
	if a != b {
		t.Errorf("struct and equivalent map keys differ: %s vs %s", a, b)
	}
}

func TestHashKeyer_Unencodable(t *testing.T) {
	if _, err := (HashKeyer{}).Key("op", make(chan int)); err == nil {
		t.Error("Key() should fail for a channel")
	}
}

func TestPolicy_TTL(t *testing.T) {
	p := Policy{DefaultTTL: time.Minute, MaxTTL: time.Hour}
	tests := []struct {
		override, want time.Duration
	}{
		{0, time.Minute},
		{-time.Second, time.Minute},
		{10 * time.Minute, 10 * time.Minute},
		{2 * time.Hour, time.Hour},
	}
	for _, tt := range tests {
		if got := p.TTL(tt.override); got != tt.want {
			t.Errorf("TTL(%v) = %v, want %v", tt.override, got, tt.want)
		}
	}
	if (Policy{}).Enabled() {
		t.Error("zero Policy should be disabled")
	}
	if !DefaultPolicy().Enabled() {
		t.Error("DefaultPolicy should be enabled")
	}
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache(0)
	now := time.Now()
	c.now = func() time.Time { return now }
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if v, ok := c.Get(ctx, "k"); !ok || string(v) != "v" {
		t.Errorf("Get() = %q, %v, want v, true", v, ok)
	}

	now = now.Add(time.Minute)
	if _, ok := c.Get(ctx, "k"); ok {
		t.Error("Get() hit after expiry")
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0 after lazy expiry", c.Len())
	}
}

func TestMemoryCache_ZeroTTLAndInvalidKey(t *testing.T) {
	c := NewMemoryCache(0)
	ctx := context.Background()

	_ = c.Set(ctx, "k", []byte("v"), 0)
	if _, ok := c.Get(ctx, "k"); ok {
		t.Error("zero TTL should not store")
	}
	if err := c.Set(ctx, "", []byte("v"), time.Minute); !errors.Is(err, ErrInvalidKey) {
		t.Errorf("Set(\"\") error = %v, want ErrInvalidKey", err)
	}
	if err := c.Delete(ctx, "missing"); err != nil {
		t.Errorf("Delete() error = %v", err)
	}
}

func TestMemoryCache_Eviction(t *testing.T) {
	c := NewMemoryCache(2)
	now := time.Now()
	c.now = func() time.Time { return now }
	ctx := context.Background()

	_ = c.Set(ctx, "short", []byte("1"), time.Minute)
	_ = c.Set(ctx, "long", []byte("2"), time.Hour)
	_ = c.Set(ctx, "new", []byte("3"), time.Hour)

	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", c.Len())
	}
	if _, ok := c.Get(ctx, "short"); ok {
		t.Error("entry closest to expiry should be evicted")
	}
	if _, ok := c.Get(ctx, "long"); !ok {
		t.Error("long-lived entry evicted")
	}
}

func TestMemoryCache_Purge(t *testing.T) {
	c := NewMemoryCache(0)
	now := time.Now()
	c.now = func() time.Time { return now }
	ctx := context.Background()

	_ = c.Set(ctx, "a", []byte("1"), time.Second)
	_ = c.Set(ctx, "b", []byte("2"), time.Hour)
	now = now.Add(time.Minute)

	if n := c.Purge(); n != 1 {
		t.Errorf("Purge() = %d, want 1", n)
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}
}

func TestLoader_HitAndMiss(t *testing.T) {
	l := NewLoader(NewMemoryCache(0), nil, DefaultPolicy())
	ctx := context.Background()
	calls := 0
	load := func(context.Context) ([]byte, error) {
		calls++
		return []byte(`{"total_rows":3}`), nil
	}

	v, hit, err := l.Load(ctx, "data_analysis", map[string]any{"path": "a.csv"}, load)
	if err != nil || hit || string(v) != `{"total_rows":3}` {
		t.Fatalf("first Load() = %s, %v, %v", v, hit, err)
	}
	_, hit, _ = l.Load(ctx, "data_analysis", map[string]any{"path": "a.csv"}, load)
	if !hit || calls != 1 {
		t.Errorf("second Load() hit = %v calls = %d, want true and 1", hit, calls)
	}

	if err := l.Invalidate(ctx, "data_analysis", map[string]any{"path": "a.csv"}); err != nil {
		t.Fatalf("Invalidate() error = %v", err)
	}
	_, hit, _ = l.Load(ctx, "data_analysis", map[string]any{"path": "a.csv"}, load)
	if hit || calls != 2 {
		t.Errorf("Load() after Invalidate hit = %v calls = %d, want false and 2", hit, calls)
	}
}

func TestLoader_ErrorsNotCached(t *testing.T) {
	l := NewLoader(NewMemoryCache(0), HashKeyer{}, DefaultPolicy())
	ctx := context.Background()
	testErr := errors.New("parse failed")
	calls := 0
	load := func(context.Context) ([]byte, error) {
		calls++
		return nil, testErr
	}

	for i := 0; i < 2; i++ {
		if _, _, err := l.Load(ctx, "op", "x", load); err != testErr {
			t.Errorf("Load() error = %v, want %v", err, testErr)
		}
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestLoader_Disabled(t *testing.T) {
	l := NewLoader(NewMemoryCache(0), nil, Policy{})
	calls := 0
	for i := 0; i < 3; i++ {
		_, hit, _ := l.Load(context.Background(), "op", nil, func(context.Context) ([]byte, error) {
			calls++
			return nil, nil
		})
		if hit {
			t.Error("disabled loader reported a hit")
		}
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestLoader_CollapsesConcurrentMisses(t *testing.T) {
	l := NewLoader(NewMemoryCache(0), nil, DefaultPolicy())
	var calls atomic.Int32
	release := make(chan struct{})
	load := func(context.Context) ([]byte, error) {
		calls.Add(1)
		<-release
		return []byte("v"), nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if v, _, err := l.Load(context.Background(), "op", "same", load); err != nil || string(v) != "v" {
				t.Errorf("Load() = %s, %v", v, err)
			}
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	if n := calls.Load(); n < 1 || n > 5 {
		t.Errorf("calls = %d", n)
	}
	if _, hit, _ := l.Load(context.Background(), "op", "same", load); !hit {
		t.Error("value not cached after concurrent load")
	}
}
