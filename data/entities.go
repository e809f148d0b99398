package data

import (
	"time"

	"github.com/google/uuid"
)

// User is the authenticated API caller resolved from Keycloak.
type User struct {
	ID          uuid.UUID
	Name        string
	DisplayName string
	Email       string
	Avatar      string
}

type ArchivedPost struct {
	ID          string    `db:"id"`
	Subreddit   string    `db:"subreddit"`
	Title       string    `db:"title"`
	Author      string    `db:"author"`
	URL         string    `db:"url"`
	Kind        string    `db:"kind"`
	Language    string    `db:"language"`
	Score       int       `db:"score"`
	NumComments int       `db:"num_comments"`
	CreatedUTC  time.Time `db:"created_utc"`
	RunID       uuid.UUID `db:"run_id"`
	FetchedAt   time.Time `db:"fetched_at"`
}
