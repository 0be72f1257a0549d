package main

import (
    "context"
    "encoding/json"
    "log"
    "net/http"
    "os"
    "os/signal"
    "strings"
    "syscall"
    "time"
    "compress/gzip"
    "io"
    "sync"

    "navprovider/internal/config"
    "navprovider/internal/httpx"
    "navprovider/internal/nav"
    "navprovider/internal/resolver"
    "navprovider/internal/resolver/cache"
    "navprovider/internal/resolver/ratelimit"
    "navprovider/internal/resolver/roundhill"
    "navprovider/internal/ticker"
)

type statusResponse struct {
    Status           string   `json:"status"`
    Service          string   `json:"service"`
    Version          string   `json:"version"`
    Method           string   `json:"method"`
    SupportedTickers []string `json:"supported_tickers"`
}

func main() {
    // Config
    cfgPath := os.Getenv("CONFIG_FILE")
    cfg, err := config.Load(cfgPath)
    if err != nil { log.Fatalf("config: %v", err) }
    port := cfg.Server.Port

    if !cfg.Roundhill.Enabled {
        log.Fatal("roundhill.enabled=false; no NAV source configured")
    }

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
    // Prefer token bucket with burst if RPM is set, otherwise use min-interval
    if cfg.Roundhill.MaxRequestsPerMinute > 0 {
        rate := float64(cfg.Roundhill.MaxRequestsPerMinute) / 60.0
        burst := cfg.Roundhill.Burst
        if burst <= 0 { burst = 1 }
        res = &ratelimit.TokenBucketResolver{R: res, TB: ratelimit.NewTokenBucket(rate, burst)}
    } else if cfg.Roundhill.MinRequestIntervalSec > 0 {
        interval := time.Duration(cfg.Roundhill.MinRequestIntervalSec) * time.Second
        res = &ratelimit.MinInterval{R: res, Interval: interval}
    }
    // Wrap with per-ticker cache if configured
    if cfg.Roundhill.CacheTTLSeconds > 0 {
        res = &cache.Resolver{R: res, TTL: time.Duration(cfg.Roundhill.CacheTTLSeconds) * time.Second, MaxItems: cfg.Roundhill.CacheMaxItems}
    }
    svc := &nav.Service{R: res}

    mux := http.NewServeMux()
    mux.HandleFunc("/", handleStatus)
    mux.HandleFunc("/health", handleHealth)
    mux.HandleFunc("/get-nav", func(w http.ResponseWriter, r *http.Request) {
        if r.Method != http.MethodPost {
            http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
            return
        }
        handleGetNAV(w, r, svc)
    })

    srv := &http.Server{
        Addr:              ":" + port,
        Handler:           withJSONHeaders(withGzip(recoverPanic(limitBody(mux)))),
        ReadHeaderTimeout: 5 * time.Second,
        ReadTimeout:       15 * time.Second,
        WriteTimeout:      20 * time.Second,
        IdleTimeout:       60 * time.Second,
    }

    go func() {
        log.Printf("server listening on :%s", port)
        if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
            log.Fatalf("server: %v", err)
        }
    }()

    // graceful shutdown
    ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
    defer stop()
    <-ctx.Done()
    shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
    defer cancel()
    _ = srv.Shutdown(shutdownCtx)
}

func handleStatus(w http.ResponseWriter, r *http.Request) {
    if r.URL.Path != "/" {
        http.NotFound(w, r)
        return
    }
    if r.Method != http.MethodGet {
        http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
        return
    }
    writeJSON(w, statusResponse{
        Status:           "online",
        Service:          "nav-provider",
        Version:          "1.0",
        Method:           "CSV",
        SupportedTickers: ticker.All(),
    })
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
    if r.Method != http.MethodGet {
        http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
        return
    }
    writeJSON(w, map[string]string{"status": "healthy"})
}

type postBody struct {
    Tickers []string `json:"tickers"`
}

func handleGetNAV(w http.ResponseWriter, r *http.Request, svc *nav.Service) {
    var b postBody
    dec := json.NewDecoder(r.Body)
    dec.DisallowUnknownFields()
    if err := dec.Decode(&b); err != nil {
        http.Error(w, "invalid JSON body", http.StatusBadRequest)
        return
    }
    if b.Tickers == nil {
        http.Error(w, "tickers must be an array", http.StatusBadRequest)
        return
    }
    if len(b.Tickers) > 100 {
        http.Error(w, "too many tickers (max 100)", http.StatusBadRequest)
        return
    }
    writeNAV(w, r.Context(), svc, b.Tickers)
}

func writeNAV(w http.ResponseWriter, rctx context.Context, svc *nav.Service, tickers []string) {
    ctx, cancel := context.WithTimeout(rctx, 20*time.Second)
    defer cancel()
    res := svc.GetNAV(ctx, tickers)
    writeJSON(w, res)
}

func writeJSON(w http.ResponseWriter, v any) {
    w.WriteHeader(http.StatusOK)
    enc := json.NewEncoder(w)
    enc.SetEscapeHTML(false)
    enc.Encode(v)
}

func withJSONHeaders(next http.Handler) http.Handler {
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        w.Header().Set("Content-Type", "application/json; charset=utf-8")
        // Basic CORS for browser usage; adjust as needed.
        w.Header().Set("Access-Control-Allow-Origin", "*")
        w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
        w.Header().Set("Access-Control-Allow-Headers", "Content-Type,Authorization")
        if r.Method == http.MethodOptions {
            w.WriteHeader(http.StatusNoContent)
            return
        }
        next.ServeHTTP(w, r)
    })
}

// withGzip compresses response when client supports gzip.
func withGzip(next http.Handler) http.Handler {
    var gzPool = sync.Pool{New: func() any {
        // Prefer best speed to reduce CPU usage since payloads are JSON
        w, _ := gzip.NewWriterLevel(io.Discard, gzip.BestSpeed)
        return w
    }}
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        if !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
            next.ServeHTTP(w, r)
            return
        }
        gz := gzPool.Get().(*gzip.Writer)
        gz.Reset(w)
        defer func() {
            _ = gz.Close()
            gz.Reset(io.Discard)
            gzPool.Put(gz)
        }()
        w.Header().Set("Content-Encoding", "gzip")
        w.Header().Add("Vary", "Accept-Encoding")
        gw := gzipResponseWriter{ResponseWriter: w, Writer: gz}
        next.ServeHTTP(gw, r)
    })
}

type gzipResponseWriter struct {
    http.ResponseWriter
    Writer io.Writer
}

func (g gzipResponseWriter) Write(b []byte) (int, error) {
    return g.Writer.Write(b)
}

// limitBody caps request body size to avoid memory abuse.
func limitBody(next http.Handler) http.Handler {
    const maxBody = 1 << 20 // 1MB
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        if r.Method == http.MethodPost && r.Body != nil {
            r.Body = http.MaxBytesReader(w, r.Body, maxBody)
        }
        next.ServeHTTP(w, r)
    })
}

// recoverPanic protects handlers from panics.
func recoverPanic(next http.Handler) http.Handler {
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        defer func() {
            if rec := recover(); rec != nil {
                http.Error(w, "internal server error", http.StatusInternalServerError)
            }
        }()
        next.ServeHTTP(w, r)
    })
}
