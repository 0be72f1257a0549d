package cache

import (
    "context"
    "testing"
    "time"
)

type countingResolver struct {
    value float64
    calls int
}

func (c *countingResolver) Name() string { return "counting" }
func (c *countingResolver) Resolve(_ context.Context, _ string) (float64, error) {
    c.calls++
    return c.value, nil
}

func TestResolve_NilUnderlyingResolver(t *testing.T) {
    c := &Resolver{}
    if c.Name() != "" {
        t.Fatalf("want empty name, got %q", c.Name())
    }
    _, err := c.Resolve(context.Background(), "TSLW")
    if err == nil {
        t.Fatal("want error for nil underlying resolver, got nil")
    }
}

func TestResolve_ServesCachedValueWithinTTL(t *testing.T) {
    under := &countingResolver{value: 45.72}
    c := &Resolver{R: under, TTL: time.Minute}

    for i := 0; i < 3; i++ {
        v, err := c.Resolve(context.Background(), "TSLW")
        if err != nil { t.Fatalf("resolve: %v", err) }
        if v != 45.72 { t.Fatalf("want 45.72, got %v", v) }
    }
    if under.calls != 1 {
        t.Fatalf("want 1 underlying call, got %d", under.calls)
    }
}

func TestResolve_NoCachingWhenTTLUnset(t *testing.T) {
    under := &countingResolver{value: 45.72}
    c := &Resolver{R: under}

    for i := 0; i < 2; i++ {
        if _, err := c.Resolve(context.Background(), "TSLW"); err != nil {
            t.Fatalf("resolve: %v", err)
        }
    }
    if under.calls != 2 {
        t.Fatalf("want 2 underlying calls, got %d", under.calls)
    }
}

func TestResolve_DistinctTickersCachedSeparately(t *testing.T) {
    under := &countingResolver{value: 1.00}
    c := &Resolver{R: under, TTL: time.Minute}

    if _, err := c.Resolve(context.Background(), "TSLW"); err != nil { t.Fatalf("resolve: %v", err) }
    if _, err := c.Resolve(context.Background(), "HOOW"); err != nil { t.Fatalf("resolve: %v", err) }
    if under.calls != 2 {
        t.Fatalf("want 2 underlying calls for 2 tickers, got %d", under.calls)
    }
}
