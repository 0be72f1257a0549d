package cache

import (
    "context"
    "errors"
    "sync"
    "time"

    "navprovider/internal/resolver"
)

// entry stores one cached NAV with expiry.
type entry struct {
    expiresAt time.Time
    value     float64
}

// Resolver caches resolved NAVs per ticker for a TTL.
type Resolver struct {
    R        resolver.Resolver
    TTL      time.Duration
    MaxItems int

    mu    sync.RWMutex
    items map[string]entry // key: ticker
}

func (c *Resolver) Name() string {
    if c.R == nil { return "" }
    return c.R.Name()
}

// Resolve returns the cached NAV when valid, otherwise asks the underlying
// resolver and stores the result.
func (c *Resolver) Resolve(ctx context.Context, tk string) (float64, error) {
    if c.R == nil {
        return 0, errors.New("cache: no underlying resolver")
    }
    if c.TTL <= 0 {
        return c.R.Resolve(ctx, tk)
    }

    now := time.Now()
    c.mu.RLock()
    e, ok := c.items[tk]
    c.mu.RUnlock()
    if ok && now.Before(e.expiresAt) {
        return e.value, nil
    }

    v, err := c.R.Resolve(ctx, tk)
    if err != nil {
        return 0, err
    }

    c.mu.Lock()
    if c.items == nil { c.items = make(map[string]entry, 16) }
    c.items[tk] = entry{expiresAt: now.Add(c.TTL), value: v}
    // best-effort cap cache size
    if c.MaxItems > 0 && len(c.items) > c.MaxItems {
        for k, e := range c.items {
            if time.Now().After(e.expiresAt) {
                delete(c.items, k)
            }
            if len(c.items) <= c.MaxItems { break }
        }
        for k := range c.items {
            if len(c.items) <= c.MaxItems { break }
            delete(c.items, k)
        }
    }
    c.mu.Unlock()
    return v, nil
}
