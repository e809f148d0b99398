package sources

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kova98/feedview.api/models"
)

var (
	// ErrTransport covers network failures and non-2xx responses.
	ErrTransport = errors.New("reddit transport failure")
	// ErrSchema means the top-level response was not the expected listing shape.
	ErrSchema = errors.New("unexpected reddit response shape")
)

type RedditClient struct {
	logger     *slog.Logger
	httpClient *http.Client
	baseURL    string
	userAgent  string
}

func NewRedditClient(logger *slog.Logger, httpClient *http.Client, baseURL, userAgent string) *RedditClient {
	return &RedditClient{
		logger:     logger,
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  userAgent,
	}
}

// FetchHot returns the raw children of a subreddit's hot listing.
func (c *RedditClient) FetchHot(ctx context.Context, subreddit, token string, limit int) ([]models.RedditChild, error) {
	endpoint := fmt.Sprintf("%s/r/%s/hot?limit=%d&raw_json=1", c.baseURL, url.PathEscape(subreddit), limit)

	var listing models.RedditListing
	if err := c.fetchReddit(ctx, endpoint, token, &listing); err != nil {
		return nil, err
	}
	if listing.Data == nil || listing.Data.Children == nil {
		return nil, fmt.Errorf("%w: listing without data.children", ErrSchema)
	}

	return listing.Data.Children, nil
}

// FetchThread returns the raw children of a post's comment listing. The
// thread endpoint answers with [post listing, comment listing]; the post
// listing is ignored.
func (c *RedditClient) FetchThread(ctx context.Context, postID, subreddit, token string) ([]models.RedditChild, error) {
	endpoint := fmt.Sprintf("%s/r/%s/comments/%s?raw_json=1", c.baseURL, url.PathEscape(subreddit), url.PathEscape(postID))

	var thread []models.RedditListing
	if err := c.fetchReddit(ctx, endpoint, token, &thread); err != nil {
		return nil, err
	}
	if len(thread) != 2 {
		return nil, fmt.Errorf("%w: thread has %d parts, want 2", ErrSchema, len(thread))
	}
	comments := thread[1]
	if comments.Data == nil || comments.Data.Children == nil {
		return nil, fmt.Errorf("%w: comment listing without data.children", ErrSchema)
	}

	return comments.Data.Children, nil
}

func (c *RedditClient) fetchReddit(ctx context.Context, endpoint, token string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}

	req.Header.Set("Authorization", "bearer "+token)
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	requestMs := time.Since(start).Milliseconds()
	if err != nil {
		return fmt.Errorf("%w: (%dms) %v", ErrTransport, requestMs, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return truncateError(fmt.Errorf("%w: reddit returned status %d: %s", ErrTransport, resp.StatusCode, string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("%w: %v", ErrSchema, err)
	}

	c.logger.Debug("reddit request", "url", endpoint, "request_ms", requestMs)
	return nil
}

// truncateError keeps the wrapped chain intact while capping the message
// length, so errors.Is still matches the sentinel.
func truncateError(err error) error {
	msg := err.Error()
	if len(msg) <= 300 {
		return err
	}
	return &truncatedError{msg: msg[:300] + "...", err: err}
}

type truncatedError struct {
	msg string
	err error
}

func (e *truncatedError) Error() string { return e.msg }
func (e *truncatedError) Unwrap() error { return e.err }
