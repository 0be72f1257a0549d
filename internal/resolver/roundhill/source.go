package roundhill

import (
    "context"
    "errors"
    "sync"
    "time"

    "navprovider/internal/resolver"
    "navprovider/internal/ticker"
    "golang.org/x/sync/singleflight"
)

// Config controls the Source behavior.
type Config struct {
    Name string
    // SheetTTLSeconds caches the parsed daily NAV sheet for this long so a
    // burst of per-ticker resolutions triggers a single download.
    SheetTTLSeconds int
    // FetchTimeoutSec bounds one sheet download. Defaults to 15.
    FetchTimeoutSec int
}

// Source resolves NAVs against the most recently downloaded daily sheet.
type Source struct {
    cfg    Config
    client *Client

    mu      sync.RWMutex
    sheet   Sheet
    expires time.Time

    // coalesce concurrent sheet refreshes
    sf singleflight.Group
}

func NewSource(cfg Config, client *Client) *Source {
    if cfg.Name == "" { cfg.Name = "Roundhill" }
    if cfg.SheetTTLSeconds <= 0 { cfg.SheetTTLSeconds = 60 }
    if cfg.FetchTimeoutSec <= 0 { cfg.FetchTimeoutSec = 15 }
    if client == nil { client = NewClient() }
    return &Source{cfg: cfg, client: client}
}

func (s *Source) Name() string { return s.cfg.Name }

// Resolve looks the ticker up in the current sheet. A ticker absent from the
// sheet is a no-data error, distinct from a legitimate zero NAV.
func (s *Source) Resolve(ctx context.Context, tk string) (float64, error) {
    sheet, err := s.currentSheet(ctx)
    if err != nil {
        reason := resolver.ReasonUnreachable
        if errors.Is(err, ErrMalformedSheet) { reason = resolver.ReasonMalformed }
        return 0, &resolver.ResolutionError{Ticker: tk, Reason: reason, Err: err}
    }
    v, ok := sheet[ticker.Normalize(tk)]
    if !ok {
        return 0, &resolver.ResolutionError{Ticker: tk, Reason: resolver.ReasonNoData, Err: resolver.ErrNoData}
    }
    return v, nil
}

// currentSheet returns the cached sheet while fresh, otherwise refreshes it.
// Concurrent refreshes collapse into one upstream download.
func (s *Source) currentSheet(ctx context.Context) (Sheet, error) {
    now := time.Now()
    s.mu.RLock()
    sheet, until := s.sheet, s.expires
    s.mu.RUnlock()
    if sheet != nil && now.Before(until) {
        return sheet, nil
    }

    v, err, _ := s.sf.Do("sheet", func() (any, error) {
        fetchCtx, cancel := context.WithTimeout(ctx, time.Duration(s.cfg.FetchTimeoutSec)*time.Second)
        defer cancel()
        fresh, err := s.client.FetchSheet(fetchCtx)
        if err != nil { return nil, err }
        s.mu.Lock()
        s.sheet = fresh
        s.expires = time.Now().Add(time.Duration(s.cfg.SheetTTLSeconds) * time.Second)
        s.mu.Unlock()
        return fresh, nil
    })
    if err != nil {
        // Serve the stale sheet if we have one rather than failing the batch
        s.mu.RLock()
        stale := s.sheet
        s.mu.RUnlock()
        if stale != nil { return stale, nil }
        return nil, err
    }
    return v.(Sheet), nil
}
