package webfetch

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"
)

// maxContentRunes caps the extracted text handed to the completion service.
const maxContentRunes = 8000

// whitespaceRE collapses consecutive whitespace to a single space.
var whitespaceRE = regexp.MustCompile(`\s+`)

// Fetcher downloads a page and extracts its readable text. It never returns
// an error: any failure (network, non-2xx status, unparseable body) yields a
// placeholder referencing the URL, so the analyzer can still produce a
// lower-quality result instead of erroring the whole request.
type Fetcher struct {
	client *http.Client
}

// NewFetcher constructs a Fetcher with the given per-fetch deadline.
func NewFetcher(timeout time.Duration) *Fetcher {
	return &Fetcher{
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Text fetches url and returns its visible text: script/style/noscript
// blocks removed, remaining markup stripped, whitespace collapsed, trimmed,
// and truncated to the first 8000 runes. On any failure it returns
// "Website URL: <url>"; an empty extraction yields "Website: <url>".
func (f *Fetcher) Text(ctx context.Context, url string) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return degraded(url)
	}
	req.Header.Set("User-Agent", browserUA)

	resp, err := f.client.Do(req)
	if err != nil {
		log.Warn().Err(err).Str("url", url).Msg("content fetch failed")
		return degraded(url)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Warn().Int("status", resp.StatusCode).Str("url", url).Msg("content fetch non-OK status")
		return degraded(url)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		log.Warn().Err(err).Str("url", url).Msg("content parse failed")
		return degraded(url)
	}

	doc.Find("script, style, noscript").Remove()
	text := whitespaceRE.ReplaceAllString(strings.TrimSpace(doc.Text()), " ")

	if text == "" {
		return fmt.Sprintf("Website: %s", url)
	}
	if r := []rune(text); len(r) > maxContentRunes {
		text = string(r[:maxContentRunes])
	}
	return text
}

// degraded is the placeholder used when the page could not be fetched at
// all; the analyzer then works from the URL alone.
func degraded(url string) string {
	return fmt.Sprintf("Website URL: %s", url)
}
