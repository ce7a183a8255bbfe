package clipper

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// ErrNoTitle is returned when a page has nothing usable as a recipe name.
var ErrNoTitle = errors.New("no recipe name found on page")

// maxNameLength keeps page titles with long SEO tails readable.
const maxNameLength = 120

// Clipper derives recipe names from recipe web pages.
type Clipper struct {
	httpClient *http.Client
}

// NewClipper creates a new Clipper instance.
func NewClipper(timeout time.Duration) *Clipper {
	return &Clipper{
		httpClient: &http.Client{Timeout: timeout},
	}
}

// IsURL reports whether s looks like something RecipeName can fetch.
func IsURL(s string) bool {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
		return false
	}
	u, err := url.Parse(s)
	return err == nil && u.Host != ""
}

// RecipeName fetches the page at rawURL and picks a recipe name from it:
// schema.org Recipe name, then og:title, then the first h1, then the title.
func (c *Clipper) RecipeName(ctx context.Context, rawURL string) (string, error) {
	doc, err := c.fetch(ctx, strings.TrimSpace(rawURL))
	if err != nil {
		return "", fmt.Errorf("failed to fetch content: %w", err)
	}

	name := ExtractName(doc)
	if name == "" {
		return "", fmt.Errorf("%w: %s", ErrNoTitle, rawURL)
	}
	return name, nil
}

// ExtractName applies the RecipeName lookup order to an already parsed page.
func ExtractName(doc *goquery.Document) string {
	candidates := []string{
		doc.Find(`[itemtype*="schema.org/Recipe"] [itemprop="name"]`).First().Text(),
		doc.Find(`meta[property="og:title"]`).AttrOr("content", ""),
		doc.Find("h1").First().Text(),
		doc.Find("title").First().Text(),
	}

	for _, c := range candidates {
		if name := clean(c); name != "" {
			return name
		}
	}
	return ""
}

func (c *Clipper) fetch(ctx context.Context, rawURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "food-suggester/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch URL: status %d", resp.StatusCode)
	}

	return goquery.NewDocumentFromReader(resp.Body)
}

func clean(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if r := []rune(s); len(r) > maxNameLength {
		s = strings.TrimSpace(string(r[:maxNameLength]))
	}
	return s
}
