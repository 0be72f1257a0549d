package main

import (
    "context"
    "encoding/json"
    "net/http"
    "net/http/httptest"
    "strings"
    "testing"

    "navprovider/internal/nav"
    "navprovider/internal/resolver"
)

type fakeResolver struct {
    values map[string]float64
    fail   map[string]bool
}

func (f fakeResolver) Name() string { return "fake" }
func (f fakeResolver) Resolve(_ context.Context, tk string) (float64, error) {
    if f.fail[tk] {
        return 0, &resolver.ResolutionError{Ticker: tk, Reason: resolver.ReasonUnreachable}
    }
    v, ok := f.values[tk]
    if !ok {
        return 0, &resolver.ResolutionError{Ticker: tk, Reason: resolver.ReasonNoData, Err: resolver.ErrNoData}
    }
    return v, nil
}

func testService() *nav.Service {
    return &nav.Service{R: fakeResolver{values: map[string]float64{
        "TSLW": 45.72, "HOOW": 32.18, "MSTY": 28.45, "NVDY": 19.87,
    }}}
}

func postGetNAV(t *testing.T, svc *nav.Service, body string) *httptest.ResponseRecorder {
    t.Helper()
    rr := httptest.NewRecorder()
    req := httptest.NewRequest(http.MethodPost, "/get-nav", strings.NewReader(body))
    handleGetNAV(rr, req, svc)
    return rr
}

func TestGetNAV_Handler_SupportedTickers(t *testing.T) {
    rr := postGetNAV(t, testService(), `{"tickers": ["TSLW","HOOW","MSTY"]}`)
    if rr.Code != 200 { t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String()) }
    var resp nav.Result
    if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil { t.Fatalf("decode: %v", err) }
    if len(resp.NAVData) != 3 { t.Fatalf("want 3 entries, got %v", resp.NAVData) }
    if resp.NAVData["TSLW"] != 45.72 { t.Fatalf("unexpected TSLW: %v", resp.NAVData) }
}

func TestGetNAV_Handler_EmptyList(t *testing.T) {
    rr := postGetNAV(t, testService(), `{"tickers": []}`)
    if rr.Code != 200 { t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String()) }
    if !strings.Contains(rr.Body.String(), `"navData":{}`) {
        t.Fatalf("want empty navData object, got %s", rr.Body.String())
    }
}

func TestGetNAV_Handler_UnsupportedTickerOmitted(t *testing.T) {
    rr := postGetNAV(t, testService(), `{"tickers": ["BADTICKER"]}`)
    if rr.Code != 200 { t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String()) }
    var resp nav.Result
    if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil { t.Fatalf("decode: %v", err) }
    if len(resp.NAVData) != 0 { t.Fatalf("want empty map, got %v", resp.NAVData) }
}

func TestGetNAV_Handler_FailedTickerOmitted(t *testing.T) {
    svc := &nav.Service{R: fakeResolver{
        values: map[string]float64{"TSLW": 45.72, "HOOW": 32.18},
        fail:   map[string]bool{"NVDY": true},
    }}
    rr := postGetNAV(t, svc, `{"tickers": ["TSLW","HOOW","NVDY"]}`)
    if rr.Code != 200 { t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String()) }
    var resp nav.Result
    if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil { t.Fatalf("decode: %v", err) }
    if len(resp.NAVData) != 2 { t.Fatalf("want 2 entries, got %v", resp.NAVData) }
    if _, ok := resp.NAVData["NVDY"]; ok { t.Fatalf("NVDY must be omitted: %v", resp.NAVData) }
}

func TestGetNAV_Handler_DuplicatesCollapse(t *testing.T) {
    rr := postGetNAV(t, testService(), `{"tickers": ["TSLW","TSLW"]}`)
    var resp nav.Result
    if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil { t.Fatalf("decode: %v", err) }
    if len(resp.NAVData) != 1 { t.Fatalf("want single entry, got %v", resp.NAVData) }
}

func TestGetNAV_Handler_InvalidBody(t *testing.T) {
    rr := postGetNAV(t, testService(), `not json`)
    if rr.Code != http.StatusBadRequest {
        t.Fatalf("want 400, got %d: %s", rr.Code, rr.Body.String())
    }
}

func TestGetNAV_Handler_MissingTickersField(t *testing.T) {
    rr := postGetNAV(t, testService(), `{}`)
    if rr.Code != http.StatusBadRequest {
        t.Fatalf("want 400, got %d: %s", rr.Code, rr.Body.String())
    }
}
