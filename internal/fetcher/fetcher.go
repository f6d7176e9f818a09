// internal/fetcher/fetcher.go
package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	ErrorTitle    = "Error fetching article"
	UntitledTitle = "Untitled Article"
	NoContentText = "No content found."

	ModeParagraphs  = "paragraphs"
	ModeReadability = "readability"
)

// Article is the title and body text pulled from one page.
type Article struct {
	URL   string `json:"url"`
	Title string `json:"title"`
	Text  string `json:"text"`
}

// Options configures a Fetcher
type Options struct {
	Timeout   time.Duration
	UserAgent string
	MaxSizeMB int
	Mode      string
}

// Fetcher handles the single HTTP GET and the HTML extraction
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	mode       string
	log        zerolog.Logger
}

// New creates a fetcher. Redirects follow the net/http defaults.
func New(opts Options, log zerolog.Logger) *Fetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.MaxSizeMB <= 0 {
		opts.MaxSizeMB = 5
	}
	if opts.Mode == "" {
		opts.Mode = ModeParagraphs
	}
	return &Fetcher{
		httpClient: &http.Client{Timeout: opts.Timeout},
		userAgent:  opts.UserAgent,
		maxBytes:   int64(opts.MaxSizeMB) * 1024 * 1024,
		mode:       opts.Mode,
		log:        log.With().Str("component", "fetcher").Logger(),
	}
}

// Fetch downloads and extracts an article. It never fails: any error becomes
// the sentinel pair ("Error fetching article", "Error: <message>").
func (f *Fetcher) Fetch(ctx context.Context, url string) Article {
	f.log.Info().Str("url", url).Msg("fetching article")

	html, err := f.fetchHTML(ctx, url)
	if err != nil {
		f.log.Warn().Err(err).Str("url", url).Msg("fetch failed")
		return errorArticle(url, err)
	}

	article, err := f.Extract(url, html)
	if err != nil {
		f.log.Warn().Err(err).Str("url", url).Msg("extraction failed")
		return errorArticle(url, err)
	}

	f.log.Debug().Str("title", article.Title).Int("chars", len(article.Text)).Msg("article extracted")
	return article
}

// IsError reports whether downstream stages should be skipped for this text.
func IsError(text string) bool {
	return strings.Contains(text, "Error")
}

func errorArticle(url string, err error) Article {
	return Article{
		URL:   url,
		Title: ErrorTitle,
		Text:  fmt.Sprintf("Error: %v", err),
	}
}

// fetchHTML retrieves the raw page. Non-2xx bodies are still returned.
func (f *Fetcher) fetchHTML(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		f.log.Warn().Int("status", resp.StatusCode).Str("url", url).Msg("non-success status, parsing body anyway")
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("failed to read body: %w", err)
	}
	if int64(len(body)) > f.maxBytes {
		return "", fmt.Errorf("content exceeds size limit of %dMB", f.maxBytes/(1024*1024))
	}

	return string(body), nil
}
