// Package ingest turns external sources, such as intranet news feeds and
// web pages, into signal drafts.
package ingest

import (
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

const (
	defaultFeedLimit = 20
	// maxContentRunes bounds how much of one source goes into a signal.
	maxContentRunes = 4000
	userAgent       = "ChangeOS/1.0 (signal import)"
)

// Importer fetches feeds and pages over HTTP.
type Importer struct {
	client *http.Client
}

// NewImporter creates an importer with the given request timeout.
func NewImporter(timeout time.Duration) *Importer {
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Importer{
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return http.ErrUseLastResponse
				}
				return nil
			},
		},
	}
}

// HTTPError is a non-success response from a source.
type HTTPError struct {
	URL    string
	Status int
}

func (e *HTTPError) Error() string {
	return e.URL + ": " + http.StatusText(e.Status)
}

func stripHTML(text string) string {
	var result strings.Builder
	inTag := false
	for _, r := range text {
		switch {
		case r == '<':
			inTag = true
			result.WriteRune(' ')
		case r == '>':
			inTag = false
		case !inTag:
			result.WriteRune(r)
		}
	}

	s := strings.NewReplacer(
		"&nbsp;", " ",
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&#39;", "'",
	).Replace(result.String())

	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:n])) + "…"
}

func sourceName(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return raw
	}
	host := strings.ToLower(u.Hostname())
	for _, prefix := range []string{"www.", "blog.", "blogs.", "rss.", "feeds.", "intranet."} {
		host = strings.TrimPrefix(host, prefix)
	}
	parts := strings.Split(host, ".")
	name := host
	if len(parts) >= 2 {
		name = parts[len(parts)-2]
	}
	if name == "" {
		return u.Hostname()
	}
	r, size := utf8.DecodeRuneInString(name)
	return string(unicode.ToUpper(r)) + name[size:]
}
