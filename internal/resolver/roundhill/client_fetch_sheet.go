package roundhill

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"

	"navprovider/internal/ticker"
)

// Sheet maps an uppercase fund ticker to its current NAV.
type Sheet map[string]float64

// ErrMalformedSheet marks a payload that downloaded fine but could not be
// parsed as the daily NAV CSV.
var ErrMalformedSheet = errors.New("malformed NAV sheet")

// FetchSheet downloads and parses the daily NAV CSV.
func (c *Client) FetchSheet(ctx context.Context) (Sheet, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.sheetURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header = c.header.Clone()

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("performing request: %w", err)
	}
	defer res.Body.Close()

	switch res.StatusCode {
	case http.StatusOK:
		break

	case http.StatusForbidden:
		return nil, fmt.Errorf("upstream refused the request: %d", res.StatusCode)

	case http.StatusTooManyRequests:
		return nil, fmt.Errorf("rate limited")

	default:
		return nil, fmt.Errorf("unexpected status code: %d", res.StatusCode)
	}

	sheet, err := ParseSheet(res.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSheet, err)
	}
	return sheet, nil
}

// ParseSheet reads the CSV payload. Column positions come from the header row
// ("Fund Ticker" and "NAV", case-insensitive). Rows with an empty or
// non-numeric NAV cell are skipped, never recorded as zero.
func ParseSheet(r io.Reader) (Sheet, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	tickerCol, navCol := -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "fund ticker":
			tickerCol = i
		case "nav":
			navCol = i
		}
	}
	if tickerCol < 0 || navCol < 0 {
		return nil, fmt.Errorf("missing Fund Ticker/NAV columns in header %q", header)
	}

	sheet := Sheet{}
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row: %w", err)
		}
		if tickerCol >= len(rec) || navCol >= len(rec) {
			continue
		}
		t := ticker.Normalize(rec[tickerCol])
		if t == "" {
			continue
		}
		v, ok := parseNAVCell(rec[navCol])
		if !ok {
			continue
		}
		// first row wins when a ticker repeats
		if _, dup := sheet[t]; dup {
			continue
		}
		sheet[t] = v
	}
	return sheet, nil
}

// parseNAVCell parses a NAV cell such as "45.72", "$45.72" or "1,045.72".
// Empty, non-numeric or negative cells report !ok.
func parseNAVCell(cell string) (float64, bool) {
	s := strings.TrimSpace(cell)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, false
	}
	return v, true
}
