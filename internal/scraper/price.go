package scraper

import (
	"context"
	"fmt"
	"log"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const priceSelector = "#currencyAmount"

// Client fetches retail prices from vendor product pages. Third-party markup
// is unstable, so every failure mode collapses to "no price": callers only
// ever see a value and a boolean, never an error.
type Client struct {
	http      *http.Client
	baseURL   string
	userAgent string
}

// NewClient builds a scraping client. The timeout bounds each individual
// page fetch; the user agent keeps basic bot filters from rejecting us.
func NewClient(baseURL, userAgent string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		http:      &http.Client{Timeout: timeout},
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
	}
}

// FetchPrice retrieves the product page for the given vendor style code and
// extracts the first #currencyAmount value. The second return is false when
// no positive price could be extracted for any reason; the cause is logged
// for operators but never surfaced to the row pipeline.
func (c *Client) FetchPrice(ctx context.Context, styleCode string) (float64, bool) {
	styleCode = strings.TrimSpace(styleCode)
	if styleCode == "" {
		log.Println("scraper: empty vendor style code")
		return 0, false
	}

	endpoint := fmt.Sprintf("%s/product/%s", c.baseURL, url.PathEscape(styleCode))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		log.Printf("scraper: build request for %s: %v", styleCode, err)
		return 0, false
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		log.Printf("scraper: fetch %s: %v", endpoint, err)
		return 0, false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("scraper: unexpected status %d from %s", resp.StatusCode, endpoint)
		return 0, false
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		log.Printf("scraper: parse page for %s: %v", styleCode, err)
		return 0, false
	}

	text := strings.TrimSpace(doc.Find(priceSelector).First().Text())
	if text == "" {
		log.Printf("scraper: no price element on %s", endpoint)
		return 0, false
	}

	price, err := strconv.ParseFloat(stripNonNumeric(text), 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
		log.Printf("scraper: unusable price text %q on %s", text, endpoint)
		return 0, false
	}

	return price, true
}

// stripNonNumeric drops everything except digits and decimal points, turning
// display text like "$1,299.99" into "1299.99".
func stripNonNumeric(text string) string {
	var b strings.Builder
	for _, r := range text {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
