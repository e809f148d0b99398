package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/kova98/feedview.api/data"
	"github.com/kova98/feedview.api/enums"
	"github.com/kova98/feedview.api/feeds"
	"github.com/kova98/feedview.api/matchers"
	"github.com/kova98/feedview.api/models"
	"github.com/kova98/feedview.api/sources"
)

const (
	redditTokenHeader = "x-reddit-token"
	maxFeedLimit      = 100
)

type PreviewLookup interface {
	Lookup(url string) (data.LinkMetadata, enums.PreviewStatus)
}

// FeedHandler serves feed and thread fetches. Fetches are detached from the
// request context: a client that goes away does not cancel the upstream call
// or leave a cancellation error in the shared store.
type FeedHandler struct {
	store        *feeds.Store
	previews     PreviewLookup
	defaultLimit int
}

func NewFeedHandler(store *feeds.Store, previews PreviewLookup, defaultLimit int) *FeedHandler {
	return &FeedHandler{store: store, previews: previews, defaultLimit: defaultLimit}
}

func (h *FeedHandler) GetFeed(w http.ResponseWriter, r *http.Request) Result {
	subreddit := strings.TrimSpace(r.PathValue("subreddit"))
	if !matchers.ValidSubredditName(subreddit) {
		return BadRequest("Invalid subreddit.")
	}

	limit := h.defaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > maxFeedLimit {
			return BadRequest("Limit must be between 1 and 100.")
		}
		limit = parsed
	}

	token := r.Header.Get(redditTokenHeader)
	if token == "" {
		return Unauthorized("Missing reddit token")
	}

	posts, err := h.store.FetchFeed(context.WithoutCancel(r.Context()), subreddit, token, limit)
	if err != nil {
		return BadGateway(err, err.Error())
	}

	res := models.GetFeedResponse{Subreddit: subreddit, Posts: make([]models.FeedPost, 0, len(posts))}
	for _, post := range posts {
		res.Posts = append(res.Posts, h.toFeedPost(post))
	}

	return Ok(res)
}

func (h *FeedHandler) GetThread(w http.ResponseWriter, r *http.Request) Result {
	subreddit := strings.TrimSpace(r.PathValue("subreddit"))
	postID := strings.TrimSpace(r.PathValue("id"))
	if !matchers.ValidSubredditName(subreddit) {
		return BadRequest("Invalid subreddit.")
	}
	if postID == "" {
		return BadRequest("Post id is required.")
	}

	token := r.Header.Get(redditTokenHeader)
	if token == "" {
		return Unauthorized("Missing reddit token")
	}

	roots, err := h.store.FetchThread(context.WithoutCancel(r.Context()), postID, subreddit, token)
	if err != nil {
		return BadGateway(err, err.Error())
	}

	return Ok(models.GetThreadResponse{PostID: postID, Comments: toThreadComments(roots)})
}

func (h *FeedHandler) GetState(w http.ResponseWriter, r *http.Request) Result {
	return Ok(h.store.Snapshot())
}

func (h *FeedHandler) toFeedPost(post data.Post) models.FeedPost {
	fp := models.FeedPost{
		Post:            post,
		Kind:            matchers.ContentKind(post),
		PreviewImageURL: post.PreviewImageURL(),
		VideoURL:        post.VideoURL(),
		GalleryMediaIDs: post.GalleryMediaIDs(),
	}

	if fp.Kind == enums.ContentKindLink {
		meta, status := h.previews.Lookup(post.URL)
		fp.LinkPreview = &models.PreviewResponse{Status: status}
		if status != enums.PreviewNotRequested {
			fp.LinkPreview.Metadata = &meta
		}
	}

	return fp
}

func toThreadComments(roots []*data.Comment) []models.ThreadComment {
	flat := sources.FlattenComments(roots)
	out := make([]models.ThreadComment, 0, len(flat))
	for _, fc := range flat {
		out = append(out, models.ThreadComment{
			ID:        fc.Comment.ID,
			Author:    fc.Comment.Author,
			Body:      fc.Comment.Body,
			CreatedAt: fc.Comment.CreatedAt,
			Score:     fc.Comment.Score,
			Depth:     fc.Depth,
		})
	}
	return out
}
