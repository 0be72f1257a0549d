package config

import (
    "encoding/json"
    "errors"
    "fmt"
    "os"
    "strings"
)

type Server struct {
    Port              string `json:"port"`
    RequestTimeoutSec int    `json:"request_timeout_sec"`
}

type Roundhill struct {
    Enabled               bool   `json:"enabled"`
    Endpoint              string `json:"endpoint"`
    SheetTTLSeconds       int    `json:"sheet_ttl_sec"`
    FetchTimeoutSec       int    `json:"fetch_timeout_sec"`
    MaxRequestsPerMinute  int    `json:"max_requests_per_minute"`
    MinRequestIntervalSec int    `json:"min_request_interval_sec"`
    Burst                 int    `json:"burst"`
    CacheTTLSeconds       int    `json:"cache_ttl_sec"`
    CacheMaxItems         int    `json:"cache_max_items"`
}

type Config struct {
    Server    Server    `json:"server"`
    Roundhill Roundhill `json:"roundhill"`
}

func Default() Config {
    return Config{
        Server: Server{Port: "8080", RequestTimeoutSec: 15},
        Roundhill: Roundhill{
            Enabled:              true,
            Endpoint:             "https://www.roundhillinvestments.com/assets/data/FilepointRoundhill.40RU.RU_DailyNAV.csv",
            SheetTTLSeconds:      60,
            FetchTimeoutSec:      15,
            MaxRequestsPerMinute: 12,
            Burst:                2,
            CacheTTLSeconds:      30,
            CacheMaxItems:        64,
        },
    }
}

// Load reads JSON config from path. If path is empty or file does not exist,
// it returns defaults. Environment variables override select fields.
func Load(path string) (Config, error) {
    cfg := Default()
    if path == "" {
        if _, err := os.Stat("config.json"); err == nil {
            path = "config.json"
        }
    }
    if path != "" {
        b, err := os.ReadFile(path)
        if err != nil && !errors.Is(err, os.ErrNotExist) {
            return cfg, fmt.Errorf("read config: %w", err)
        }
        if err == nil {
            if err := json.Unmarshal(b, &cfg); err != nil {
                return cfg, fmt.Errorf("parse config: %w", err)
            }
        }
    }
    applyEnv(&cfg)
    return cfg, nil
}

func applyEnv(cfg *Config) {
    if v := os.Getenv("PORT"); v != "" { cfg.Server.Port = v }
    if v := os.Getenv("REQUEST_TIMEOUT_SEC"); v != "" {
        var x int; fmt.Sscanf(v, "%d", &x); if x > 0 { cfg.Server.RequestTimeoutSec = x }
    }
    if v := os.Getenv("ROUNDHILL_ENABLED"); v != "" {
        switch strings.ToLower(v) {
        case "1","true","yes","y": cfg.Roundhill.Enabled = true
        case "0","false","no","n": cfg.Roundhill.Enabled = false
        }
    }
    if v := os.Getenv("ROUNDHILL_ENDPOINT"); v != "" { cfg.Roundhill.Endpoint = v }
    if v := os.Getenv("ROUNDHILL_SHEET_TTL_SEC"); v != "" {
        var x int; fmt.Sscanf(v, "%d", &x); if x >= 0 { cfg.Roundhill.SheetTTLSeconds = x }
    }
    if v := os.Getenv("ROUNDHILL_FETCH_TIMEOUT_SEC"); v != "" {
        var x int; fmt.Sscanf(v, "%d", &x); if x > 0 { cfg.Roundhill.FetchTimeoutSec = x }
    }
    if v := os.Getenv("ROUNDHILL_MAX_RPM"); v != "" {
        var x int; fmt.Sscanf(v, "%d", &x); if x >= 0 { cfg.Roundhill.MaxRequestsPerMinute = x }
    }
    if v := os.Getenv("ROUNDHILL_MIN_INTERVAL_SEC"); v != "" {
        var x int; fmt.Sscanf(v, "%d", &x); if x >= 0 { cfg.Roundhill.MinRequestIntervalSec = x }
    }
    if v := os.Getenv("ROUNDHILL_BURST"); v != "" {
        var x int; fmt.Sscanf(v, "%d", &x); if x > 0 { cfg.Roundhill.Burst = x }
    }
    if v := os.Getenv("ROUNDHILL_CACHE_TTL_SEC"); v != "" {
        var x int; fmt.Sscanf(v, "%d", &x); if x >= 0 { cfg.Roundhill.CacheTTLSeconds = x }
    }
    if v := os.Getenv("ROUNDHILL_CACHE_MAX_ITEMS"); v != "" {
        var x int; fmt.Sscanf(v, "%d", &x); if x > 0 { cfg.Roundhill.CacheMaxItems = x }
    }
}
