package ingest

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	readability "github.com/go-shiori/go-readability"

	"github.com/lineofflight/changeos/internal/signals"
)

// minPageText is the shortest extracted text accepted as a page signal.
const minPageText = 100

// PageDraft fetches a web page and extracts its readable text as a draft.
func (im *Importer) PageDraft(ctx context.Context, pageURL string, typ signals.Type, week int) (signals.Draft, error) {
	parsed, err := url.Parse(pageURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return signals.Draft{}, &signals.ValidationError{Field: "url", Message: fmt.Sprintf("invalid URL %q", pageURL)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return signals.Draft{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := im.client.Do(req)
	if err != nil {
		return signals.Draft{}, fmt.Errorf("fetching %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return signals.Draft{}, &HTTPError{URL: pageURL, Status: resp.StatusCode}
	}

	article, err := readability.FromReader(resp.Body, parsed)
	if err != nil {
		return signals.Draft{}, fmt.Errorf("extracting %s: %w", pageURL, err)
	}

	text := strings.Join(strings.Fields(article.TextContent), " ")
	if len(text) < minPageText {
		return signals.Draft{}, fmt.Errorf("no readable content at %s", pageURL)
	}

	title := strings.TrimSpace(article.Title)
	if title == "" {
		title = sourceName(pageURL)
	}

	return signals.Draft{
		Type:    typ,
		Week:    week,
		Title:   title,
		Content: truncate(text, maxContentRunes) + "\n\nLink: " + pageURL,
	}, nil
}
