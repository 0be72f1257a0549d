package main

import (
    "context"
    "encoding/json"
    "flag"
    "log"
    "os"
    "time"

    "navprovider/internal/config"
    "navprovider/internal/httpx"
    "navprovider/internal/resolver/roundhill"
)

// navdump downloads the raw daily NAV sheet and writes the parsed
// ticker -> NAV map to a JSON file for inspection.
func main() {
    var (
        outPath    string
        cfgPath    string
        timeoutSec int
        maxRetries int
    )
    flag.StringVar(&outPath, "out", "roundhill_daily_nav.json", "output JSON file path")
    flag.StringVar(&cfgPath, "config", "", "path to config.json (optional)")
    flag.IntVar(&timeoutSec, "timeout", 20, "HTTP timeout seconds")
    flag.IntVar(&maxRetries, "retries", 3, "max retries on fetch failure")
    flag.Parse()

    cfg, err := config.Load(cfgPath)
    if err != nil {
        log.Fatalf("config: %v", err)
    }
    endpoint := cfg.Roundhill.Endpoint
    if endpoint == "" {
        log.Fatal("roundhill endpoint missing (set in config.json or env)")
    }

    hc := httpx.New(time.Duration(timeoutSec) * time.Second)
    client := roundhill.NewClient(
        roundhill.WithSheetURL(endpoint),
        roundhill.WithHTTPClient(httpx.Doer{C: hc}),
    )

    var sheet roundhill.Sheet
    for attempt := 0; ; attempt++ {
        ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeoutSec)*time.Second)
        sheet, err = client.FetchSheet(ctx)
        cancel()
        if err == nil {
            break
        }
        if attempt >= maxRetries {
            log.Fatalf("fetch sheet: %v", err)
        }
        back := time.Duration(250*(1<<attempt)) * time.Millisecond
        log.Printf("fetch sheet attempt %d failed: %v (retrying in %s)", attempt+1, err, back)
        time.Sleep(back)
    }
    log.Printf("sheet: %d funds", len(sheet))

    // encoding/json sorts map keys, so output is stable across runs
    b, err := json.MarshalIndent(sheet, "", "  ")
    if err != nil {
        log.Fatalf("marshal: %v", err)
    }
    if err := os.WriteFile(outPath, b, 0o644); err != nil {
        log.Fatalf("write out: %v", err)
    }
    log.Printf("done: wrote %s", outPath)
}
