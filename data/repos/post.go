package repos

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/kova98/feedview.api/data"
)

type PostRepo struct {
	db *sqlx.DB
}

func NewPostRepo(db *sqlx.DB) *PostRepo {
	return &PostRepo{db}
}

func (r *PostRepo) UpsertPosts(posts []data.ArchivedPost) error {
	if len(posts) == 0 {
		return nil
	}

	query := `
		INSERT INTO posts (id, subreddit, title, author, url, kind, language, score, num_comments, created_utc, run_id, fetched_at)
		VALUES (:id, :subreddit, :title, :author, :url, :kind, :language, :score, :num_comments, :created_utc, :run_id, :fetched_at)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			kind = EXCLUDED.kind,
			score = EXCLUDED.score,
			num_comments = EXCLUDED.num_comments,
			run_id = EXCLUDED.run_id,
			fetched_at = EXCLUDED.fetched_at`

	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("upsert posts: begin: %w", err)
	}
	defer tx.Rollback()

	for _, post := range posts {
		if _, err := tx.NamedExec(query, post); err != nil {
			return fmt.Errorf("upsert post %s: %w", post.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("upsert posts: commit: %w", err)
	}

	return nil
}

func (r *PostRepo) GetRecentBySubreddit(subreddit string, limit int) ([]data.ArchivedPost, error) {
	posts := []data.ArchivedPost{}
	query := `
		SELECT id, subreddit, title, author, url, kind, language, score, num_comments, created_utc, run_id, fetched_at
		FROM posts
		WHERE LOWER(subreddit) = LOWER($1)
		ORDER BY fetched_at DESC, score DESC
		LIMIT $2`

	err := r.db.Select(&posts, query, subreddit, limit)
	if err != nil {
		return nil, fmt.Errorf("get recent posts by subreddit: %w", err)
	}

	return posts, nil
}
