package resolver

import (
    "context"
    "errors"
    "fmt"
)

// Resolver returns the current net asset value for a single ticker.
// Calls are independent of each other; a failed call must not affect others.
type Resolver interface {
    Name() string
    Resolve(ctx context.Context, ticker string) (float64, error)
}

// Reason classifies why a resolution failed.
type Reason string

const (
    ReasonUnreachable Reason = "unreachable"
    ReasonMalformed   Reason = "malformed"
    ReasonNoData      Reason = "no_data"
)

// ErrNoData marks a ticker with no current NAV in the upstream sheet.
// Absence is an error, never a zero value.
var ErrNoData = errors.New("no NAV for ticker")

// ResolutionError is returned when the upstream source could not supply a
// value for one ticker.
type ResolutionError struct {
    Ticker string
    Reason Reason
    Err    error
}

func (e *ResolutionError) Error() string {
    if e.Err != nil {
        return fmt.Sprintf("resolve %s: %s: %v", e.Ticker, e.Reason, e.Err)
    }
    return fmt.Sprintf("resolve %s: %s", e.Ticker, e.Reason)
}

func (e *ResolutionError) Unwrap() error { return e.Err }
