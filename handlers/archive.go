package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/kova98/feedview.api/data/repos"
	"github.com/kova98/feedview.api/matchers"
	"github.com/kova98/feedview.api/models"
)

type ArchiveHandler struct {
	repo *repos.PostRepo
}

func NewArchiveHandler(repo *repos.PostRepo) *ArchiveHandler {
	return &ArchiveHandler{repo}
}

func (h *ArchiveHandler) GetArchivedPosts(w http.ResponseWriter, r *http.Request) Result {
	subreddit := strings.TrimSpace(r.PathValue("subreddit"))
	if !matchers.ValidSubredditName(subreddit) {
		return BadRequest("Invalid subreddit.")
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 || limit > maxFeedLimit {
		limit = 50
	}

	posts, err := h.repo.GetRecentBySubreddit(subreddit, limit)
	if err != nil {
		return InternalError(err, "get archived posts")
	}

	res := models.GetArchiveResponse{Subreddit: subreddit, Posts: make([]models.ArchivedPost, 0, len(posts))}
	for _, p := range posts {
		res.Posts = append(res.Posts, models.ArchivedPost{
			ID:          p.ID,
			Title:       p.Title,
			Author:      p.Author,
			URL:         p.URL,
			Kind:        p.Kind,
			Language:    p.Language,
			Score:       p.Score,
			NumComments: p.NumComments,
			CreatedAt:   p.CreatedUTC,
			FetchedAt:   p.FetchedAt,
		})
	}

	return Ok(res)
}
