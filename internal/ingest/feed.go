package ingest

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/mmcdole/gofeed"

	"github.com/lineofflight/changeos/internal/signals"
)

// FeedDrafts parses an RSS or Atom feed and returns one draft per item, up
// to limit. Items without a title or any text are skipped.
func (im *Importer) FeedDrafts(ctx context.Context, feedURL string, typ signals.Type, week, limit int) ([]signals.Draft, error) {
	if limit <= 0 {
		limit = defaultFeedLimit
	}

	parser := gofeed.NewParser()
	parser.Client = im.client
	parser.UserAgent = userAgent

	feed, err := parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		var he gofeed.HTTPError
		if errors.As(err, &he) {
			return nil, &HTTPError{URL: feedURL, Status: he.StatusCode}
		}
		return nil, fmt.Errorf("parsing feed %s: %w", feedURL, err)
	}

	source := strings.TrimSpace(feed.Title)
	if source == "" {
		source = sourceName(feedURL)
	}

	var drafts []signals.Draft
	for _, item := range feed.Items {
		if len(drafts) >= limit {
			break
		}
		if d, ok := itemDraft(item, source, typ, week); ok {
			drafts = append(drafts, d)
		}
	}
	log.Printf("Parsed %d signals from %s", len(drafts), source)
	return drafts, nil
}

func itemDraft(item *gofeed.Item, source string, typ signals.Type, week int) (signals.Draft, bool) {
	title := strings.TrimSpace(item.Title)
	if title == "" {
		return signals.Draft{}, false
	}

	var text string
	if item.Content != "" {
		text = stripHTML(item.Content)
	} else if item.Description != "" {
		text = stripHTML(item.Description)
	}
	if text == "" {
		return signals.Draft{}, false
	}

	var meta []string
	meta = append(meta, "Source: "+source)
	if item.PublishedParsed != nil {
		meta = append(meta, "Published: "+item.PublishedParsed.Format("2006-01-02"))
	}
	if item.Link != "" {
		meta = append(meta, "Link: "+item.Link)
	}

	return signals.Draft{
		Type:    typ,
		Week:    week,
		Title:   title,
		Content: truncate(text, maxContentRunes) + "\n\n" + strings.Join(meta, "\n"),
	}, true
}
