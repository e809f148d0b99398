package models

import (
	"time"

	"github.com/kova98/feedview.api/data"
	"github.com/kova98/feedview.api/enums"
)

type FeedPost struct {
	data.Post
	Kind            enums.ContentKind `json:"kind"`
	PreviewImageURL *string           `json:"previewImageUrl,omitempty"`
	VideoURL        *string           `json:"videoUrl,omitempty"`
	GalleryMediaIDs []string          `json:"galleryMediaIds,omitempty"`
	LinkPreview     *PreviewResponse  `json:"linkPreview,omitempty"`
}

type GetFeedResponse struct {
	Subreddit string     `json:"subreddit"`
	Posts     []FeedPost `json:"posts"`
}

type ThreadComment struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
	Score     int       `json:"score"`
	Depth     int       `json:"depth"`
}

type GetThreadResponse struct {
	PostID   string          `json:"postId"`
	Comments []ThreadComment `json:"comments"`
}

type ResolvePreviewRequest struct {
	URL string `json:"url"`
}

type PreviewResponse struct {
	Status   enums.PreviewStatus `json:"status"`
	Metadata *data.LinkMetadata  `json:"metadata,omitempty"`
}

type ArchivedPost struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	URL         string    `json:"url"`
	Kind        string    `json:"kind"`
	Language    string    `json:"language,omitempty"`
	Score       int       `json:"score"`
	NumComments int       `json:"numComments"`
	CreatedAt   time.Time `json:"createdAt"`
	FetchedAt   time.Time `json:"fetchedAt"`
}

type GetArchiveResponse struct {
	Subreddit string         `json:"subreddit"`
	Posts     []ArchivedPost `json:"posts"`
}
