// Package feeds coordinates feed and thread fetches and publishes their results
// to the rendering layer.
package feeds

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/kova98/feedview.api/data"
	"github.com/kova98/feedview.api/enums"
	"github.com/kova98/feedview.api/matchers"
	"github.com/kova98/feedview.api/metrics"
	"github.com/kova98/feedview.api/models"
	"github.com/kova98/feedview.api/sources"
)

const DefaultLimit = 25

type Source interface {
	FetchHot(ctx context.Context, subreddit, token string, limit int) ([]models.RedditChild, error)
	FetchThread(ctx context.Context, postID, subreddit, token string) ([]models.RedditChild, error)
}

type PreviewResolver interface {
	Resolve(url string)
}

type Archiver interface {
	UpsertPosts(posts []data.ArchivedPost) error
}

// State is a consistent copy of everything the store publishes.
type State struct {
	Loading  bool            `json:"loading"`
	Error    string          `json:"error"`
	Posts    []data.Post     `json:"posts"`
	Comments []*data.Comment `json:"comments"`
}

// Store owns the published post list, comment tree and loading/error flags.
// Every write goes through mu. Requests are not cancelled when a newer one
// starts, so a slow response can overwrite fresher state.
type Store struct {
	logger   *slog.Logger
	source   Source
	resolver PreviewResolver
	archiver Archiver
	metrics  *metrics.Metrics

	mu       sync.RWMutex
	loading  bool
	err      string
	posts    []data.Post
	comments []*data.Comment
}

// NewStore builds a store. archiver may be nil to disable the feed archive.
func NewStore(logger *slog.Logger, source Source, resolver PreviewResolver, archiver Archiver, m *metrics.Metrics) *Store {
	return &Store{
		logger:   logger,
		source:   source,
		resolver: resolver,
		archiver: archiver,
		metrics:  m,
	}
}

// FetchFeed loads a subreddit's hot listing and replaces the published posts.
// On failure the error is recorded and the previous posts stay published.
func (s *Store) FetchFeed(ctx context.Context, subreddit, token string, limit int) ([]data.Post, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	s.begin()

	children, err := s.source.FetchHot(ctx, subreddit, token, limit)
	if err != nil {
		err = errors.Wrapf(err, "fetch feed r/%s", subreddit)
		s.fail("feed", err)
		return nil, err
	}

	posts, dropped := sources.NormalizePosts(children)
	s.recordDropped("post", dropped)

	s.mu.Lock()
	s.posts = posts
	s.loading = false
	s.mu.Unlock()
	s.metrics.FetchTotal.WithLabelValues("feed", "ok").Inc()

	for _, post := range posts {
		kind := matchers.ContentKind(post)
		s.metrics.PostsClassified.WithLabelValues(string(kind)).Inc()
		if kind == enums.ContentKindLink {
			s.resolver.Resolve(post.URL)
		}
	}

	s.archive(subreddit, posts)

	return posts, nil
}

// FetchThread loads a post's comments and replaces the published comment tree.
func (s *Store) FetchThread(ctx context.Context, postID, subreddit, token string) ([]*data.Comment, error) {
	s.begin()

	children, err := s.source.FetchThread(ctx, postID, subreddit, token)
	if err != nil {
		err = errors.Wrapf(err, "fetch thread %s", postID)
		s.fail("thread", err)
		return nil, err
	}

	roots, dropped := sources.BuildCommentTree(children)
	s.recordDropped("comment", dropped)

	s.mu.Lock()
	s.comments = roots
	s.loading = false
	s.mu.Unlock()
	s.metrics.FetchTotal.WithLabelValues("thread", "ok").Inc()

	return roots, nil
}

// Snapshot copies the published slices. Posts and comment trees are replaced
// wholesale and never edited in place, so sharing their elements is safe.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return State{
		Loading:  s.loading,
		Error:    s.err,
		Posts:    append([]data.Post(nil), s.posts...),
		Comments: append([]*data.Comment(nil), s.comments...),
	}
}

func (s *Store) begin() {
	s.mu.Lock()
	s.loading = true
	s.err = ""
	s.mu.Unlock()
}

func (s *Store) fail(op string, err error) {
	s.logger.Error("fetch failed", "op", op, "error", err)
	s.metrics.FetchTotal.WithLabelValues(op, "error").Inc()

	s.mu.Lock()
	s.err = err.Error()
	s.loading = false
	s.mu.Unlock()
}

func (s *Store) recordDropped(entity string, dropped int) {
	if dropped == 0 {
		return
	}
	s.logger.Debug("dropped malformed listing children", "entity", entity, "count", dropped)
	s.metrics.DecodeDropped.WithLabelValues(entity).Add(float64(dropped))
}

// archive writes the published posts to the archive. Failures are logged and
// never reach the caller.
func (s *Store) archive(subreddit string, posts []data.Post) {
	if s.archiver == nil || len(posts) == 0 {
		return
	}

	runID := uuid.New()
	fetchedAt := time.Now().UTC()
	rows := make([]data.ArchivedPost, 0, len(posts))
	for _, post := range posts {
		rows = append(rows, data.ArchivedPost{
			ID:          post.ID,
			Subreddit:   subreddit,
			Title:       post.Title,
			Author:      post.Author,
			URL:         post.URL,
			Kind:        string(matchers.ContentKind(post)),
			Language:    matchers.DetectLanguage(post.Title),
			Score:       post.Score,
			NumComments: post.NumComments,
			CreatedUTC:  post.CreatedAt,
			RunID:       runID,
			FetchedAt:   fetchedAt,
		})
	}

	if err := s.archiver.UpsertPosts(rows); err != nil {
		s.logger.Error("failed to archive feed", "subreddit", subreddit, "run_id", runID, "error", err)
		s.metrics.ArchiveFailures.Inc()
		return
	}
	s.logger.Debug("archived feed", "subreddit", subreddit, "run_id", runID, "count", len(rows))
}
