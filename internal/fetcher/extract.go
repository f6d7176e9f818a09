package fetcher

import (
	"fmt"
	nurl "net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
)

// Extract parses html into an Article using the fetcher's mode.
func (f *Fetcher) Extract(url, html string) (Article, error) {
	if f.mode == ModeReadability {
		article, err := extractReadability(url, html)
		if err == nil {
			return article, nil
		}
		f.log.Warn().Err(err).Str("url", url).Msg("readability failed, using paragraphs")
	}
	return ExtractParagraphs(url, html)
}

// ExtractParagraphs takes the first h1 (or title) as the heading and joins
// the text of every paragraph with a single space.
func ExtractParagraphs(url, html string) (Article, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return Article{}, fmt.Errorf("failed to parse HTML: %w", err)
	}

	var parts []string
	doc.Find("p").Each(func(_ int, s *goquery.Selection) {
		parts = append(parts, s.Text())
	})
	text := strings.Join(parts, " ")
	if text == "" {
		text = NoContentText
	}

	return Article{
		URL:   url,
		Title: extractTitle(doc),
		Text:  text,
	}, nil
}

func extractTitle(doc *goquery.Document) string {
	sel := doc.Find("h1").First()
	if sel.Length() == 0 {
		sel = doc.Find("title").First()
	}
	if sel.Length() == 0 {
		return UntitledTitle
	}
	return strings.TrimSpace(sel.Text())
}

// extractReadability runs go-readability and falls back to the paragraph
// heading when it finds no title.
func extractReadability(url, html string) (Article, error) {
	pageURL, err := nurl.Parse(url)
	if err != nil {
		pageURL = &nurl.URL{}
	}

	parsed, err := readability.FromReader(strings.NewReader(html), pageURL)
	if err != nil {
		return Article{}, fmt.Errorf("readability: %w", err)
	}

	title := strings.TrimSpace(parsed.Title)
	if title == "" {
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(html)); err == nil {
			title = extractTitle(doc)
		} else {
			title = UntitledTitle
		}
	}

	text := strings.TrimSpace(parsed.TextContent)
	if text == "" {
		text = NoContentText
	}

	return Article{URL: url, Title: title, Text: text}, nil
}
