package shared

import (
	"net/http"
	"time"
)

// BrowserUserAgent is the User-Agent presented to the source site. The
// GMP table is served differently to obvious bots, so fetches identify
// as a desktop browser.
const BrowserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// NewScrapingTransport creates an HTTP transport with connection
// pooling and timeouts tuned for scraping a single host.
func NewScrapingTransport() *http.Transport {
	return &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,

		DisableKeepAlives: false,

		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,

		DisableCompression: false,
	}
}

// ApplyBrowserHeaders configures request headers to mimic browser
// behavior. acceptHeader varies by caller (HTML page vs JSON endpoint).
func ApplyBrowserHeaders(headers *http.Header, acceptHeader string) {
	headers.Set("User-Agent", BrowserUserAgent)
	headers.Set("Accept", acceptHeader)
	headers.Set("Accept-Language", "en-US,en;q=0.9")
	headers.Set("Cache-Control", "no-cache")
	headers.Set("Connection", "keep-alive")
}
