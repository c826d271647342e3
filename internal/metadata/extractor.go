package metadata

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"
)

const (
	// DefaultTimeout bounds the single page fetch.
	DefaultTimeout = 5 * time.Second

	userAgent    = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	maxPageBytes = 5 << 20
)

var (
	titleSuffix = regexp.MustCompile(`\s*[|\-–—]\s*.*$`)
	imagePath   = regexp.MustCompile(`(?i)\.(jpg|jpeg|png|gif|webp|svg)$`)
)

// Extractor derives a display title and a representative image from a
// product page. Every failure is reported as the empty string.
type Extractor struct {
	client *http.Client
}

// NewExtractor creates an Extractor whose fetches give up after timeout.
func NewExtractor(timeout time.Duration) *Extractor {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Extractor{client: &http.Client{Timeout: timeout}}
}

// ExtractTitle returns the cleaned product title of the page at pageURL,
// or "" when none can be derived.
func (e *Extractor) ExtractTitle(ctx context.Context, pageURL string) string {
	doc := e.fetch(ctx, pageURL)
	if doc == nil {
		return ""
	}

	title := firstContent(doc,
		`meta[property="og:title"]`,
		`meta[name="twitter:title"]`,
		`meta[itemprop="name"]`,
	)
	if title == "" {
		title = doc.Find("title").First().Text()
	}
	return cleanTitle(title)
}

// ExtractImage returns an absolute image URL for the page at pageURL, or ""
// when none can be derived.
func (e *Extractor) ExtractImage(ctx context.Context, pageURL string) string {
	doc := e.fetch(ctx, pageURL)
	if doc == nil {
		return ""
	}

	image := firstContent(doc,
		`meta[property="og:image"]`,
		`meta[name="twitter:image"]`,
		`meta[itemprop="image"]`,
	)
	if image == "" {
		if imagePath.MatchString(pageURL) {
			return pageURL
		}
		return ""
	}
	if isHTTP(image) {
		return image
	}
	return resolveImageURL(pageURL, image)
}

func (e *Extractor) fetch(ctx context.Context, pageURL string) *goquery.Document {
	if !isHTTP(pageURL) {
		return nil
	}
	log := logrus.WithField("url", pageURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		log.WithError(err).Warn("Failed to build metadata request")
		return nil
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := e.client.Do(req)
	if err != nil {
		log.WithError(err).Warn("Failed to fetch page for metadata")
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.WithError(fmt.Errorf("status code error: %d %s", resp.StatusCode, resp.Status)).
			Warn("Page fetch returned non-success status")
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		log.WithError(err).Warn("Failed to parse page HTML")
		return nil
	}
	return doc
}

// firstContent returns the first non-empty content attribute among the
// selectors, tried in order.
func firstContent(doc *goquery.Document, selectors ...string) string {
	for _, sel := range selectors {
		if v, ok := doc.Find(sel).First().Attr("content"); ok && v != "" {
			return v
		}
	}
	return ""
}

// cleanTitle collapses whitespace and drops a trailing " | Store" or
// " - Store" style suffix.
func cleanTitle(title string) string {
	title = strings.Join(strings.Fields(title), " ")
	return titleSuffix.ReplaceAllString(title, "")
}

// resolveImageURL makes ref absolute against pageURL.
func resolveImageURL(pageURL, ref string) string {
	base, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	abs, err := base.Parse(ref)
	if err != nil {
		return ""
	}
	return abs.String()
}

func isHTTP(raw string) bool {
	lower := strings.ToLower(raw)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
