package nav

import (
    "context"
    "log"

    "navprovider/internal/resolver"
    "navprovider/internal/ticker"
)

// Result is the response mapping of ticker to NAV. Unsupported tickers and
// tickers whose resolution failed are omitted.
type Result struct {
    NAVData map[string]float64 `json:"navData"`
}

// Service validates requested tickers and fans resolution out per ticker.
type Service struct {
    R resolver.Resolver
}

// GetNAV resolves NAVs for the supported subset of tickers. Per-ticker
// failures are logged and dropped; they never abort the batch.
func (s *Service) GetNAV(ctx context.Context, tickers []string) Result {
    out := Result{NAVData: map[string]float64{}}

    supported, rejected := ticker.Validate(tickers)
    if len(rejected) > 0 {
        log.Printf("get-nav: rejecting unsupported tickers %q", rejected)
    }
    if len(supported) == 0 {
        return out
    }

    // fan-out one resolution per ticker; collect partial results
    type outcome struct {
        ticker string
        value  float64
        err    error
    }
    ch := make(chan outcome, len(supported))
    for _, tk := range supported {
        tk := tk
        go func() {
            v, err := s.R.Resolve(ctx, tk)
            ch <- outcome{ticker: tk, value: v, err: err}
        }()
    }
    for i := 0; i < len(supported); i++ {
        o := <-ch
        if o.err != nil {
            log.Printf("get-nav: %v", o.err)
            continue
        }
        out.NAVData[o.ticker] = o.value
    }
    return out
}
