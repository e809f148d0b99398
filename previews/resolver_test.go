package previews

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kova98/feedview.api/enums"
	"github.com/kova98/feedview.api/metrics"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	calls   atomic.Int32
	release chan struct{}
	body    []byte
	err     error
}

func (f *fakeFetcher) FetchDocument(ctx context.Context, url string) ([]byte, error) {
	f.calls.Add(1)
	if f.release != nil {
		<-f.release
	}
	return f.body, f.err
}

func newTestResolver(f DocumentFetcher) (*Resolver, *metrics.Metrics) {
	m := metrics.NewIsolated()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewResolver(logger, f, m), m
}

func waitForStatus(t *testing.T, r *Resolver, url string, want enums.PreviewStatus) {
	t.Helper()
	assert.Eventually(t, func() bool {
		_, status := r.Lookup(url)
		return status == want
	}, time.Second, 5*time.Millisecond)
}

func counterValue(t *testing.T, c interface{ Write(*dto.Metric) error }) float64 {
	t.Helper()
	var metric dto.Metric
	require.NoError(t, c.Write(&metric))
	return metric.GetCounter().GetValue()
}

func TestResolve_PopulatesEntry(t *testing.T) {
	f := &fakeFetcher{body: []byte(`<title>Example</title><meta name="description" content="An example"><meta property="og:image" content="https://example.com/i.png">`)}
	r, _ := newTestResolver(f)

	r.Resolve("https://www.example.com/post")
	waitForStatus(t, r, "https://www.example.com/post", enums.PreviewResolved)

	meta, _ := r.Lookup("https://www.example.com/post")
	assert.Equal(t, "https://www.example.com/post", meta.URL)
	assert.Equal(t, "Example", meta.Title)
	assert.Equal(t, "An example", meta.Description)
	require.NotNil(t, meta.ImageURL)
	assert.Equal(t, "https://example.com/i.png", *meta.ImageURL)
	assert.Equal(t, "example.com", meta.SiteName)
}

func TestResolve_TitleFallsBackToURL(t *testing.T) {
	f := &fakeFetcher{body: []byte(`<p>no head</p>`)}
	r, _ := newTestResolver(f)

	r.Resolve("https://example.com/bare")
	waitForStatus(t, r, "https://example.com/bare", enums.PreviewResolved)

	meta, _ := r.Lookup("https://example.com/bare")
	assert.Equal(t, "https://example.com/bare", meta.Title)
	assert.Equal(t, "", meta.Description)
	assert.Nil(t, meta.ImageURL)
	assert.Equal(t, "example.com", meta.SiteName)
}

func TestResolve_ConcurrentCallersShareOneFetch(t *testing.T) {
	f := &fakeFetcher{release: make(chan struct{}), body: []byte(`<title>Once</title>`)}
	r, m := newTestResolver(f)
	const url = "https://example.com/hot"

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.Resolve(url)
		}()
	}
	wg.Wait()

	meta, status := r.Lookup(url)
	assert.Equal(t, enums.PreviewPending, status)
	assert.Equal(t, url, meta.URL)
	assert.Equal(t, "", meta.Title)

	close(f.release)
	waitForStatus(t, r, url, enums.PreviewResolved)

	assert.Equal(t, int32(1), f.calls.Load())
	assert.Equal(t, 1, r.Len())
	assert.Equal(t, 1.0, counterValue(t, m.PreviewRequests.WithLabelValues("fetched")))
	assert.Equal(t, 49.0, counterValue(t, m.PreviewRequests.WithLabelValues("coalesced")))
}

func TestResolve_CompletedEntryIsNeverRefetched(t *testing.T) {
	f := &fakeFetcher{body: []byte(`<title>Cached</title>`)}
	r, _ := newTestResolver(f)

	r.Resolve("https://example.com/a")
	waitForStatus(t, r, "https://example.com/a", enums.PreviewResolved)
	r.Resolve("https://example.com/a")
	r.Resolve("https://example.com/a")

	assert.Equal(t, int32(1), f.calls.Load())
}

func TestResolve_FailureLeavesPlaceholderAndNeverRetries(t *testing.T) {
	f := &fakeFetcher{err: errors.New("connection reset")}
	r, m := newTestResolver(f)

	r.Resolve("https://example.com/down")
	assert.Eventually(t, func() bool {
		return counterValue(t, m.PreviewResults.WithLabelValues("fetch_failed")) == 1
	}, time.Second, 5*time.Millisecond)
	r.Resolve("https://example.com/down")

	meta, status := r.Lookup("https://example.com/down")
	assert.Equal(t, enums.PreviewPending, status)
	assert.Equal(t, "", meta.Title)
	assert.Equal(t, "", meta.Description)
	assert.Nil(t, meta.ImageURL)
	assert.Equal(t, int32(1), f.calls.Load())
}

func TestResolve_BinaryDocumentLeavesPlaceholder(t *testing.T) {
	f := &fakeFetcher{body: []byte{0xff, 0xfe, 0xfd}}
	r, m := newTestResolver(f)

	r.Resolve("https://example.com/image.bin")
	assert.Eventually(t, func() bool {
		return counterValue(t, m.PreviewResults.WithLabelValues("not_text")) == 1
	}, time.Second, 5*time.Millisecond)

	_, status := r.Lookup("https://example.com/image.bin")
	assert.Equal(t, enums.PreviewPending, status)
}

func TestLookup_NotRequested(t *testing.T) {
	r, _ := newTestResolver(&fakeFetcher{})

	meta, status := r.Lookup("https://example.com/never")

	assert.Equal(t, enums.PreviewNotRequested, status)
	assert.Equal(t, "", meta.URL)
}

func TestHTTPFetcher_ReadsBodyAndRejectsErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "feedview-test", r.Header.Get("User-Agent"))
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("<title>ok</title>"))
	}))
	defer server.Close()
	f := NewHTTPFetcher(server.Client(), "feedview-test")

	body, err := f.FetchDocument(context.Background(), server.URL+"/page")
	require.NoError(t, err)
	assert.Equal(t, "<title>ok</title>", string(body))

	_, err = f.FetchDocument(context.Background(), server.URL+"/missing")
	assert.Error(t, err)
}
