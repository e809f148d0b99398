package previews

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"unicode/utf8"

	"github.com/kova98/feedview.api/data"
	"github.com/kova98/feedview.api/enums"
	"github.com/kova98/feedview.api/metrics"
)

const maxDocumentBytes = 2 << 20

type DocumentFetcher interface {
	FetchDocument(ctx context.Context, url string) ([]byte, error)
}

type HTTPFetcher struct {
	client    *http.Client
	userAgent string
}

func NewHTTPFetcher(client *http.Client, userAgent string) *HTTPFetcher {
	return &HTTPFetcher{client: client, userAgent: userAgent}
}

func (f *HTTPFetcher) FetchDocument(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}

	return io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes))
}

type entry struct {
	meta     data.LinkMetadata
	resolved bool
}

// Resolver scrapes link metadata and memoizes it per URL for the lifetime of
// the process. Entries are never evicted or refreshed, and a URL is fetched
// at most once: a failed fetch leaves its placeholder pending forever.
type Resolver struct {
	logger  *slog.Logger
	fetcher DocumentFetcher
	metrics *metrics.Metrics

	mu      sync.RWMutex
	entries map[string]*entry
}

func NewResolver(logger *slog.Logger, fetcher DocumentFetcher, m *metrics.Metrics) *Resolver {
	return &Resolver{
		logger:  logger,
		fetcher: fetcher,
		metrics: m,
		entries: make(map[string]*entry),
	}
}

// Resolve starts a background fetch for url unless an entry, pending or
// resolved, already exists. It never blocks on the network and never reports
// errors. There is no cancellation and no way to wait for the result; callers
// observe completion through Lookup.
func (r *Resolver) Resolve(url string) {
	if !r.claim(url) {
		r.metrics.PreviewRequests.WithLabelValues("coalesced").Inc()
		return
	}
	r.metrics.PreviewRequests.WithLabelValues("fetched").Inc()

	go r.fetch(url)
}

// claim inserts the placeholder. The existence check and the insert happen
// under one lock so concurrent callers cannot both start a fetch.
func (r *Resolver) claim(url string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[url]; ok {
		return false
	}
	r.entries[url] = &entry{meta: data.LinkMetadata{URL: url}}
	return true
}

func (r *Resolver) fetch(url string) {
	r.metrics.PreviewsInFlight.Inc()
	defer r.metrics.PreviewsInFlight.Dec()

	body, err := r.fetcher.FetchDocument(context.Background(), url)
	if err != nil {
		r.logger.Debug("preview fetch failed", "url", url, "error", err)
		r.metrics.PreviewResults.WithLabelValues("fetch_failed").Inc()
		return
	}
	if !utf8.Valid(body) {
		r.logger.Debug("preview document is not text", "url", url)
		r.metrics.PreviewResults.WithLabelValues("not_text").Inc()
		return
	}

	found := extract(string(body))
	title := found.title
	if title == "" {
		title = url
	}

	r.mu.Lock()
	e := r.entries[url]
	e.meta.Title = title
	e.meta.Description = found.description
	e.meta.ImageURL = found.image
	e.meta.SiteName = siteName(url)
	e.resolved = true
	r.mu.Unlock()

	r.metrics.PreviewResults.WithLabelValues("resolved").Inc()
}

// Lookup returns a copy of the entry for url and its status.
func (r *Resolver) Lookup(url string) (data.LinkMetadata, enums.PreviewStatus) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[url]
	if !ok {
		return data.LinkMetadata{}, enums.PreviewNotRequested
	}
	if !e.resolved {
		return e.meta, enums.PreviewPending
	}
	return e.meta, enums.PreviewResolved
}

func (r *Resolver) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
