package fetcher

import (
	"context"
	"fmt"
	"html"
	"io"
	"log"
	"net/http"
	"regexp"
	"strings"
	"time"

	"newsrag/internal/domain"
)

// URLFetcher loads article URLs and extracts their plain text.
// Individual URL failures are logged and excluded from the result; the
// caller decides whether an empty batch is fatal.
type URLFetcher struct {
	client    *http.Client
	userAgent string
	// maxBody caps how much of a response is read.
	maxBody int64
}

type Config struct {
	Timeout   time.Duration
	UserAgent string
}

func New(cfg Config) *URLFetcher {
	t := cfg.Timeout
	if t == 0 {
		t = 30 * time.Second
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = "newsrag/1.0"
	}
	return &URLFetcher{
		client:    &http.Client{Timeout: t},
		userAgent: ua,
		maxBody:   4 << 20,
	}
}

func (f *URLFetcher) Fetch(ctx context.Context, urls []string) []domain.Document {
	var docs []domain.Document
	for _, u := range urls {
		u = strings.TrimSpace(u)
		if u == "" {
			continue
		}
		text, err := f.fetchOne(ctx, u)
		if err != nil {
			log.Printf("fetch: skipping %s: %v", u, err)
			continue
		}
		if strings.TrimSpace(text) == "" {
			log.Printf("fetch: skipping %s: no extractable text", u)
			continue
		}
		docs = append(docs, domain.Document{URL: u, Text: text})
	}
	return docs
}

func (f *URLFetcher) fetchOne(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html, text/plain")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("unexpected status %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBody))
	if err != nil {
		return "", err
	}

	ct := resp.Header.Get("Content-Type")
	if strings.Contains(ct, "text/plain") {
		return string(body), nil
	}
	return stripHTML(string(body)), nil
}

// Pre-compiled regular expressions for HTML text extraction.
var (
	scriptTag     = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleTag      = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	noscriptTag   = regexp.MustCompile(`(?is)<noscript[^>]*>.*?</noscript>`)
	headTag       = regexp.MustCompile(`(?is)<head[^>]*>.*?</head>`)
	svgTag        = regexp.MustCompile(`(?is)<svg[^>]*>.*?</svg>`)
	htmlComments  = regexp.MustCompile(`(?s)<!--.*?-->`)
	blockElements = regexp.MustCompile(`(?i)</(p|div|h[1-6]|li|tr|blockquote|pre|table|section|article)>`)
	brTags        = regexp.MustCompile(`(?i)<br\s*/?>`)
	allTags       = regexp.MustCompile(`<[^>]+>`)
	multiSpaces   = regexp.MustCompile(`[ \t]+`)
	multiNewlines = regexp.MustCompile(`\n{3,}`)
)

// stripHTML converts an HTML page to plain text, mapping block element
// boundaries to newlines so paragraph structure survives for chunking.
func stripHTML(content string) string {
	content = htmlComments.ReplaceAllString(content, "")
	content = headTag.ReplaceAllString(content, "")
	content = scriptTag.ReplaceAllString(content, "")
	content = styleTag.ReplaceAllString(content, "")
	content = noscriptTag.ReplaceAllString(content, "")
	content = svgTag.ReplaceAllString(content, "")
	content = brTags.ReplaceAllString(content, "\n")
	content = blockElements.ReplaceAllString(content, "\n\n")
	content = allTags.ReplaceAllString(content, " ")
	content = html.UnescapeString(content)
	content = multiSpaces.ReplaceAllString(content, " ")

	// Trim each line, then collapse runs of blank lines.
	lines := strings.Split(content, "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}
	content = strings.Join(lines, "\n")
	content = multiNewlines.ReplaceAllString(content, "\n\n")
	return strings.TrimSpace(content)
}
