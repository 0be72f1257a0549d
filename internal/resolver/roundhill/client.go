package roundhill

import (
	"net/http"
)

// HTTPClient describes an HTTP client.
//
//go:generate mockgen -package=roundhill_test -destination=mock_http_client_test.go -source=client.go HTTPClient
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// defaultSheetURL is the published daily NAV CSV covering all Roundhill funds.
const defaultSheetURL = "https://www.roundhillinvestments.com/assets/data/FilepointRoundhill.40RU.RU_DailyNAV.csv"

// Client is a client for the Roundhill daily NAV sheet.
type Client struct {
	// sheetURL is the full URL of the daily NAV CSV.
	sheetURL string
	// httpClient is the HTTP httpClient.
	httpClient HTTPClient
	// header contains the headers sent with each request.
	header http.Header
}

// ClientOption is a configuration option for the Roundhill sheet client.
type ClientOption func(*Client)

// WithSheetURL sets the URL the daily NAV CSV is downloaded from.
func WithSheetURL(sheetURL string) ClientOption {
	return func(c *Client) {
		c.sheetURL = sheetURL
	}
}

// WithHTTPClient sets the HTTP client used to download the sheet.
func WithHTTPClient(httpClient HTTPClient) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithHeader sets additional headers to be sent with each request.
func WithHeader(header http.Header) ClientOption {
	return func(c *Client) {
		for key, values := range header {
			for _, value := range values {
				c.header.Set(key, value)
			}
		}
	}
}

// NewClient creates a new Roundhill sheet client.
func NewClient(options ...ClientOption) *Client {
	var client = &Client{
		sheetURL:   defaultSheetURL,
		httpClient: http.DefaultClient,
		header:     defaultHeader(),
	}
	for _, option := range options {
		option(client)
	}
	return client
}

// defaultHeader mimics a browser request. The sheet endpoint serves an error
// page to clients that look like plain scrapers.
func defaultHeader() http.Header {
	h := http.Header{}
	h.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/141.0.0.0 Safari/537.36")
	h.Set("Accept", "text/csv,text/plain,*/*")
	h.Set("Accept-Language", "en-US,en;q=0.9")
	h.Set("Referer", "https://www.roundhillinvestments.com/")
	h.Set("Sec-Fetch-Site", "same-origin")
	h.Set("Sec-Fetch-Mode", "cors")
	h.Set("Sec-Fetch-Dest", "empty")
	return h
}
