package models

import "encoding/json"

// RedditListing is the generic listing envelope. Children stay raw so each one
// can be decoded, and fail, on its own.
type RedditListing struct {
	Kind string `json:"kind"`
	Data *struct {
		After    string        `json:"after"`
		Children []RedditChild `json:"children"`
	} `json:"data"`
}

// RedditChild is one listing entry. Malformed is set instead of failing the
// listing when the entry itself is not a {kind, data} object.
type RedditChild struct {
	Kind      string          `json:"kind"`
	Data      json.RawMessage `json:"data"`
	Malformed bool            `json:"-"`
}

func (c *RedditChild) UnmarshalJSON(b []byte) error {
	var envelope struct {
		Kind string          `json:"kind"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(b, &envelope); err != nil {
		*c = RedditChild{Malformed: true}
		return nil
	}
	*c = RedditChild{Kind: envelope.Kind, Data: envelope.Data}
	return nil
}

// RedditPost mirrors the wire post. Pointer fields distinguish a missing
// required field from its zero value. Optional blocks stay raw and are decoded
// one at a time, so a malformed optional block reads as absent.
type RedditPost struct {
	ID                  *string         `json:"id"`
	Title               *string         `json:"title"`
	Author              *string         `json:"author"`
	CreatedUTC          *float64        `json:"created_utc"`
	Score               *int            `json:"score"`
	NumComments         *int            `json:"num_comments"`
	Permalink           *string         `json:"permalink"`
	Domain              *string         `json:"domain"`
	URL                 *string         `json:"url"`
	Selftext            *string         `json:"selftext"`
	IsSelf              *bool           `json:"is_self"`
	IsVideo             *bool           `json:"is_video"`
	Thumbnail           json.RawMessage `json:"thumbnail"`
	PostHint            json.RawMessage `json:"post_hint"`
	Media               json.RawMessage `json:"media"`
	Preview             json.RawMessage `json:"preview"`
	GalleryData         json.RawMessage `json:"gallery_data"`
	CrosspostParentList json.RawMessage `json:"crosspost_parent_list"`
}

type RedditMedia struct {
	RedditVideo json.RawMessage `json:"reddit_video"`
	Oembed      json.RawMessage `json:"oembed"`
}

type RedditVideo struct {
	FallbackURL *string `json:"fallback_url"`
	HLSURL      *string `json:"hls_url"`
	DashURL     *string `json:"dash_url"`
}

type RedditOembed struct {
	ProviderName string `json:"provider_name"`
	Title        string `json:"title"`
	HTML         string `json:"html"`
	ThumbnailURL string `json:"thumbnail_url"`
}

type RedditPreview struct {
	Images []json.RawMessage `json:"images"`
}

type RedditPreviewImage struct {
	Source      *RedditImageSource  `json:"source"`
	Resolutions []RedditImageSource `json:"resolutions"`
	Variants    *struct {
		GIF *RedditPreviewImage `json:"gif"`
		MP4 *RedditPreviewImage `json:"mp4"`
	} `json:"variants"`
}

type RedditImageSource struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type RedditGalleryData struct {
	Items []json.RawMessage `json:"items"`
}

type RedditGalleryItem struct {
	ID      int64  `json:"id"`
	MediaID string `json:"media_id"`
}

// RedditComment mirrors the wire comment. Replies is kept raw because the API
// sends an empty string instead of a listing when there are no replies.
type RedditComment struct {
	ID         *string         `json:"id"`
	Author     *string         `json:"author"`
	Body       *string         `json:"body"`
	CreatedUTC *float64        `json:"created_utc"`
	Score      *int            `json:"score"`
	Replies    json.RawMessage `json:"replies"`
}

type RedditTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	Scope       string `json:"scope"`
	Error       string `json:"error"`
}
