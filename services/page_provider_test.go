package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/meetpanchal/ipo-gmp-bot/shared"
)

const sampleTablePage = `<!DOCTYPE html>
<html><body>
<h1>Live IPO GMP</h1>
<table class="table">
  <thead><tr><th>IPO</th><th>GMP</th></tr></thead>
  <tbody>
    <tr>
      <td>Acme Industries IPO</td><td>₹80 <span>(16.13%)</span></td><td>x</td><td>x</td><td>x</td>
      <td>₹475-500</td><td>x</td><td>30</td><td>13-Nov</td><td>17-Nov</td>
    </tr>
    <tr>
      <td>  Beta   Metals IPO </td><td>--</td><td>x</td><td>x</td><td>x</td>
      <td>--</td><td>x</td><td>--</td><td>14-Nov</td><td>18-Nov</td>
    </tr>
  </tbody>
</table>
</body></html>`

func TestParseTableGrid(t *testing.T) {
	grid, err := ParseTableGrid(strings.NewReader(sampleTablePage))
	if err != nil {
		t.Fatalf("ParseTableGrid failed: %v", err)
	}

	if len(grid) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(grid))
	}
	if len(grid[0]) != 10 {
		t.Fatalf("expected 10 cells, got %d", len(grid[0]))
	}
	if grid[0][0] != "Acme Industries IPO" {
		t.Errorf("cell[0][0] = %q", grid[0][0])
	}
	if grid[0][1] != "₹80 (16.13%)" {
		t.Errorf("nested markup must flatten to one cell text, got %q", grid[0][1])
	}
	if grid[1][0] != "Beta Metals IPO" {
		t.Errorf("interior whitespace must collapse, got %q", grid[1][0])
	}
}

func TestParseTableGridNoTable(t *testing.T) {
	if _, err := ParseTableGrid(strings.NewReader("<html><body><p>maintenance</p></body></html>")); err == nil {
		t.Fatal("a page without a table must be an error")
	}
}

func TestCollyPageProviderFetchTable(t *testing.T) {
	var seenUserAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenUserAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(sampleTablePage))
	}))
	defer server.Close()

	provider := NewCollyPageProvider(server.URL, 5*time.Second, shared.NewRequestRateLimiter(0))
	grid, err := provider.FetchTable(context.Background())
	if err != nil {
		t.Fatalf("FetchTable failed: %v", err)
	}

	if len(grid) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(grid))
	}
	if grid[0][0] != "Acme Industries IPO" {
		t.Errorf("cell[0][0] = %q", grid[0][0])
	}
	if seenUserAgent != shared.BrowserUserAgent {
		t.Errorf("user agent = %q, want browser-like agent", seenUserAgent)
	}
}

func TestCollyPageProviderNoTableIsFatal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><body><p>layout changed</p></body></html>"))
	}))
	defer server.Close()

	provider := NewCollyPageProvider(server.URL, 5*time.Second, shared.NewRequestRateLimiter(0))
	if _, err := provider.FetchTable(context.Background()); err == nil {
		t.Fatal("a page without a table must fail the fetch")
	}
}

func TestCollyPageProviderServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer server.Close()

	provider := NewCollyPageProvider(server.URL, 5*time.Second, shared.NewRequestRateLimiter(0))
	if _, err := provider.FetchTable(context.Background()); err == nil {
		t.Fatal("an HTTP error status must fail the fetch")
	}
}
