package ratelimit

import (
    "context"
    "sync"
    "time"

    "navprovider/internal/resolver"
)

// MinInterval wraps a resolver and enforces a minimum time between calls.
// Concurrent calls will wait until the interval has elapsed since the last call,
// or return early if the context is canceled.
type MinInterval struct {
    R        resolver.Resolver
    Interval time.Duration
    mu       sync.Mutex
    last     time.Time
}

func (m *MinInterval) Name() string { return m.R.Name() }

func (m *MinInterval) Resolve(ctx context.Context, tk string) (float64, error) {
    if m.Interval > 0 {
        // simple gate: ensure at least Interval since last
        m.mu.Lock()
        wait := time.Until(m.last.Add(m.Interval))
        m.mu.Unlock()
        if wait > 0 {
            t := time.NewTimer(wait)
            defer t.Stop()
            select {
            case <-ctx.Done():
                return 0, ctx.Err()
            case <-t.C:
            }
        }
    }
    v, err := m.R.Resolve(ctx, tk)
    if m.Interval > 0 {
        m.mu.Lock()
        m.last = time.Now()
        m.mu.Unlock()
    }
    return v, err
}
