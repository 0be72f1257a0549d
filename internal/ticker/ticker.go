package ticker

import "strings"

// supported is the fixed set of Roundhill fund tickers this service serves.
// Built once at init; read-only afterwards.
var supported = map[string]struct{}{}

var ordered = []string{"TSLW", "HOOW", "PLTW", "MSTY", "NVDW", "NVDY", "YBTC", "CONY", "NVDL"}

func init() {
    for _, t := range ordered { supported[t] = struct{}{} }
}

// Normalize trims whitespace and upper-cases a requested symbol.
func Normalize(s string) string { return strings.ToUpper(strings.TrimSpace(s)) }

// Supported reports whether s belongs to the allow-list (case-insensitive).
func Supported(s string) bool {
    _, ok := supported[Normalize(s)]
    return ok
}

// All returns the allow-list in declaration order.
func All() []string {
    out := make([]string, len(ordered))
    copy(out, ordered)
    return out
}

// Validate partitions requested symbols into supported tickers (normalized to
// uppercase, de-duplicated, first occurrence order) and rejected strings.
func Validate(tickers []string) (supp []string, rejected []string) {
    seen := make(map[string]struct{}, len(tickers))
    for _, raw := range tickers {
        t := Normalize(raw)
        if _, ok := supported[t]; !ok {
            rejected = append(rejected, raw)
            continue
        }
        if _, dup := seen[t]; dup { continue }
        seen[t] = struct{}{}
        supp = append(supp, t)
    }
    return supp, rejected
}
