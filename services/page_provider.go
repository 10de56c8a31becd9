package services

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"
	"github.com/gocolly/colly/v2"
	"github.com/sirupsen/logrus"

	"github.com/meetpanchal/ipo-gmp-bot/models"
	"github.com/meetpanchal/ipo-gmp-bot/shared"
)

// PageProvider fetches the live GMP table from the source site and
// materializes it into a grid of cell text.
type PageProvider interface {
	FetchTable(ctx context.Context) (models.TableGrid, error)
}

// ChromedpPageProvider renders the listings page in a headless browser
// before reading the table. The source populates the GMP table with
// JavaScript, so a plain HTTP fetch sees an empty tbody.
type ChromedpPageProvider struct {
	url     string
	timeout time.Duration
	limiter *shared.RequestRateLimiter
}

// NewChromedpPageProvider creates a browser-based page provider
func NewChromedpPageProvider(url string, timeout time.Duration, limiter *shared.RequestRateLimiter) *ChromedpPageProvider {
	return &ChromedpPageProvider{url: url, timeout: timeout, limiter: limiter}
}

// FetchTable navigates to the listings page, waits for the table body
// to render, and returns the materialized grid.
func (p *ChromedpPageProvider) FetchTable(ctx context.Context) (models.TableGrid, error) {
	logger := logrus.WithFields(logrus.Fields{
		"component": "ChromedpPageProvider",
		"method":    "FetchTable",
		"url":       p.url,
	})

	p.limiter.EnforceRateLimit()

	options := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("blink-settings", "imagesEnabled=false"),
		chromedp.UserAgent(shared.BrowserUserAgent),
	)

	allocatorCtx, cancelAllocator := chromedp.NewExecAllocator(ctx, options...)
	defer cancelAllocator()

	browserCtx, cancelBrowser := chromedp.NewContext(allocatorCtx)
	defer cancelBrowser()

	browserCtx, cancelTimeout := context.WithTimeout(browserCtx, p.timeout)
	defer cancelTimeout()

	startTime := time.Now()
	var tableHTML string
	err := chromedp.Run(browserCtx,
		chromedp.EmulateViewport(1920, 1080),
		chromedp.Navigate(p.url),
		chromedp.WaitVisible("table tbody tr", chromedp.ByQuery),
		chromedp.OuterHTML("table", &tableHTML, chromedp.ByQuery),
	)
	if err != nil {
		logger.WithError(err).Error("Browser fetch of GMP table failed")
		return nil, shared.WrapError(err, shared.ErrorCategoryNetwork, "PAGE_FETCH_FAILED",
			"ChromedpPageProvider", "FetchTable", true)
	}

	grid, err := ParseTableGrid(strings.NewReader(tableHTML))
	if err != nil {
		return nil, shared.WrapError(err, shared.ErrorCategoryProcessing, "TABLE_PARSE_FAILED",
			"ChromedpPageProvider", "FetchTable", false)
	}

	logger.WithFields(logrus.Fields{
		"rows":     len(grid),
		"duration": time.Since(startTime),
	}).Info("Fetched GMP table via headless browser")

	return grid, nil
}

// CollyPageProvider fetches the listings page with a plain HTTP
// scraper. It only works against mirrors that serve the table
// server-side, and it is what the tests exercise.
type CollyPageProvider struct {
	url     string
	timeout time.Duration
	limiter *shared.RequestRateLimiter
}

// NewCollyPageProvider creates an HTTP-scraper page provider
func NewCollyPageProvider(url string, timeout time.Duration, limiter *shared.RequestRateLimiter) *CollyPageProvider {
	return &CollyPageProvider{url: url, timeout: timeout, limiter: limiter}
}

// FetchTable scrapes the listings page and returns the materialized
// grid. A page with no table element is an error; the caller treats
// that as a fatal layout change.
func (p *CollyPageProvider) FetchTable(ctx context.Context) (models.TableGrid, error) {
	logger := logrus.WithFields(logrus.Fields{
		"component": "CollyPageProvider",
		"method":    "FetchTable",
		"url":       p.url,
	})

	p.limiter.EnforceRateLimit()

	collector := colly.NewCollector(colly.UserAgent(shared.BrowserUserAgent))
	collector.SetRequestTimeout(p.timeout)
	collector.WithTransport(shared.NewScrapingTransport())

	collector.OnRequest(func(request *colly.Request) {
		if ctx.Err() != nil {
			request.Abort()
			return
		}
		shared.ApplyBrowserHeaders(request.Headers, "text/html,application/xhtml+xml")
	})

	var grid models.TableGrid
	tableSeen := false

	collector.OnHTML("table", func(*colly.HTMLElement) {
		tableSeen = true
	})
	collector.OnHTML("table tbody tr", func(row *colly.HTMLElement) {
		var cells []string
		row.ForEach("td", func(_ int, cell *colly.HTMLElement) {
			cells = append(cells, cleanCellText(cell.Text))
		})
		if len(cells) > 0 {
			grid = append(grid, cells)
		}
	})

	startTime := time.Now()
	if err := collector.Visit(p.url); err != nil {
		logger.WithError(err).Error("HTTP fetch of GMP table failed")
		return nil, shared.WrapError(err, shared.ErrorCategoryNetwork, "PAGE_FETCH_FAILED",
			"CollyPageProvider", "FetchTable", true)
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if !tableSeen {
		return nil, shared.NewServiceError(shared.ErrorCategoryProcessing, "TABLE_NOT_FOUND",
			fmt.Sprintf("no table element found at %s", p.url),
			"CollyPageProvider", "FetchTable", false, nil)
	}

	logger.WithFields(logrus.Fields{
		"rows":     len(grid),
		"duration": time.Since(startTime),
	}).Info("Fetched GMP table via HTTP scraper")

	return grid, nil
}

// ParseTableGrid materializes the first table in the given HTML into
// a grid of trimmed cell text, one slice per tbody row.
func ParseTableGrid(page io.Reader) (models.TableGrid, error) {
	document, err := goquery.NewDocumentFromReader(page)
	if err != nil {
		return nil, fmt.Errorf("failed to parse table HTML: %w", err)
	}

	if document.Find("table").Length() == 0 {
		return nil, fmt.Errorf("no table element found in page")
	}

	var grid models.TableGrid
	document.Find("table tbody tr").Each(func(_ int, row *goquery.Selection) {
		var cells []string
		row.Find("td").Each(func(_ int, cell *goquery.Selection) {
			cells = append(cells, cleanCellText(cell.Text()))
		})
		if len(cells) > 0 {
			grid = append(grid, cells)
		}
	})

	return grid, nil
}

// cleanCellText collapses interior whitespace left behind by nested
// markup inside table cells.
func cleanCellText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
