package data

import (
	"html"
	"time"
)

// Post is a normalized link, self or media submission. Optional parts of the
// source payload are nil when absent.
type Post struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	CreatedAt   time.Time `json:"createdAt"`
	Score       int       `json:"score"`
	NumComments int       `json:"numComments"`
	Permalink   string    `json:"permalink"`
	Domain      string    `json:"domain"`
	URL         string    `json:"url"`
	Selftext    string    `json:"selftext"`
	Thumbnail   *string   `json:"thumbnail,omitempty"`
	IsSelf      bool      `json:"isSelf"`
	IsVideo     bool      `json:"isVideo"`
	PostHint    *string   `json:"postHint,omitempty"`
	Media       *Media    `json:"media,omitempty"`
	Preview     *Preview  `json:"preview,omitempty"`
	GalleryData *Gallery  `json:"galleryData,omitempty"`
	Crossposts  []*Post   `json:"crossposts,omitempty"`
}

type Media struct {
	RedditVideo *RedditVideo `json:"redditVideo,omitempty"`
	Embed       *Embed       `json:"embed,omitempty"`
}

type RedditVideo struct {
	FallbackURL *string `json:"fallbackUrl,omitempty"`
	HLSURL      *string `json:"hlsUrl,omitempty"`
	DashURL     *string `json:"dashUrl,omitempty"`
}

type Embed struct {
	ProviderName string `json:"providerName,omitempty"`
	Title        string `json:"title,omitempty"`
	HTML         string `json:"html,omitempty"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
}

type Preview struct {
	Images []PreviewImage `json:"images"`
}

type PreviewImage struct {
	Source      ImageSource    `json:"source"`
	Resolutions []ImageSource  `json:"resolutions,omitempty"`
	Variants    *ImageVariants `json:"variants,omitempty"`
}

type ImageSource struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type ImageVariants struct {
	GIF *PreviewImage `json:"gif,omitempty"`
	MP4 *PreviewImage `json:"mp4,omitempty"`
}

type Gallery struct {
	Items []GalleryItem `json:"items"`
}

type GalleryItem struct {
	ID      int64  `json:"id"`
	MediaID string `json:"mediaId"`
}

// PreviewImageURL returns the first preview source with HTML entities
// unescaped, or nil when the post has no usable preview.
func (p Post) PreviewImageURL() *string {
	if p.Preview == nil {
		return nil
	}
	for _, img := range p.Preview.Images {
		if img.Source.URL == "" {
			continue
		}
		u := html.UnescapeString(img.Source.URL)
		return &u
	}
	return nil
}

// VideoURL prefers the progressive fallback stream over HLS and DASH.
func (p Post) VideoURL() *string {
	if p.Media == nil || p.Media.RedditVideo == nil {
		return nil
	}
	v := p.Media.RedditVideo
	for _, u := range []*string{v.FallbackURL, v.HLSURL, v.DashURL} {
		if u != nil && *u != "" {
			return u
		}
	}
	return nil
}

func (p Post) GalleryMediaIDs() []string {
	if p.GalleryData == nil {
		return nil
	}
	ids := make([]string, 0, len(p.GalleryData.Items))
	for _, item := range p.GalleryData.Items {
		ids = append(ids, item.MediaID)
	}
	return ids
}

// Comment is one node of a reply tree. Replies is nil when the source had no
// replies container and empty when the container held no usable comments.
type Comment struct {
	ID        string     `json:"id"`
	Author    string     `json:"author"`
	Body      string     `json:"body"`
	CreatedAt time.Time  `json:"createdAt"`
	Score     int        `json:"score"`
	Replies   []*Comment `json:"replies,omitempty"`
}

// LinkMetadata is the scraped preview of an external link, keyed by URL.
type LinkMetadata struct {
	URL         string  `json:"url"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	ImageURL    *string `json:"imageUrl,omitempty"`
	SiteName    string  `json:"siteName"`
}
