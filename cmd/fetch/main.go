package main

import (
    "context"
    "encoding/json"
    "flag"
    "fmt"
    "log"
    "os"
    "strings"
    "time"

    "navprovider/internal/config"
    "navprovider/internal/httpx"
    "navprovider/internal/nav"
    "navprovider/internal/resolver"
    "navprovider/internal/resolver/cache"
    "navprovider/internal/resolver/ratelimit"
    "navprovider/internal/resolver/roundhill"
    "navprovider/internal/ticker"
)

func main() {
    var tickersCSV string
    var timeout int
    var configPath string

    flag.StringVar(&tickersCSV, "tickers", getenv("TICKERS", strings.Join(ticker.All(), ",")), "comma-separated fund tickers")
    flag.IntVar(&timeout, "timeout", getenvInt("REQUEST_TIMEOUT_SEC", 15), "request timeout seconds")
    flag.StringVar(&configPath, "config", getenv("CONFIG_FILE", ""), "path to config.json (optional)")
    flag.Parse()

    cfg, err := config.Load(configPath)
    if err != nil { log.Fatalf("config: %v", err) }
    if timeout != 0 { cfg.Server.RequestTimeoutSec = timeout }
    if !cfg.Roundhill.Enabled { log.Fatal("roundhill.enabled=false; nothing to fetch") }

    httpClient := httpx.New(time.Duration(cfg.Server.RequestTimeoutSec) * time.Second)

    clientOpts := []roundhill.ClientOption{roundhill.WithHTTPClient(httpx.Doer{C: httpClient})}
    if cfg.Roundhill.Endpoint != "" {
        clientOpts = append(clientOpts, roundhill.WithSheetURL(cfg.Roundhill.Endpoint))
    }
    src := roundhill.NewSource(roundhill.Config{
        Name:            "Roundhill",
        SheetTTLSeconds: cfg.Roundhill.SheetTTLSeconds,
        FetchTimeoutSec: cfg.Roundhill.FetchTimeoutSec,
    }, roundhill.NewClient(clientOpts...))
    var res resolver.Resolver = src
    if cfg.Roundhill.MaxRequestsPerMinute > 0 {
        rate := float64(cfg.Roundhill.MaxRequestsPerMinute) / 60.0
        burst := cfg.Roundhill.Burst
        if burst <= 0 { burst = 1 }
        res = &ratelimit.TokenBucketResolver{R: res, TB: ratelimit.NewTokenBucket(rate, burst)}
    } else if cfg.Roundhill.MinRequestIntervalSec > 0 {
        interval := time.Duration(cfg.Roundhill.MinRequestIntervalSec) * time.Second
        res = &ratelimit.MinInterval{R: res, Interval: interval}
    }
    if cfg.Roundhill.CacheTTLSeconds > 0 {
        res = &cache.Resolver{R: res, TTL: time.Duration(cfg.Roundhill.CacheTTLSeconds) * time.Second, MaxItems: cfg.Roundhill.CacheMaxItems}
    }

    tickers := splitCSV(tickersCSV)
    if len(tickers) == 0 { log.Fatal("no tickers provided") }

    ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.RequestTimeoutSec)*time.Second)
    defer cancel()

    svc := &nav.Service{R: res}
    result := svc.GetNAV(ctx, tickers)
    if len(result.NAVData) == 0 {
        log.Fatal("no NAV values received")
    }

    b, _ := json.MarshalIndent(result, "", "  ")
    fmt.Println(string(b))
}

func splitCSV(s string) []string {
    parts := strings.Split(s, ",")
    out := make([]string, 0, len(parts))
    for _, p := range parts {
        p = strings.TrimSpace(p)
        if p != "" { out = append(out, p) }
    }
    return out
}

func getenv(key, def string) string { if v := os.Getenv(key); v != "" { return v }; return def }
func getenvInt(key string, def int) int {
    if v := os.Getenv(key); v != "" {
        var x int
        _, _ = fmt.Sscanf(v, "%d", &x)
        if x != 0 { return x }
    }
    return def
}
