package sources

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/kova98/feedview.api/data"
	"github.com/kova98/feedview.api/models"
)

// maxCrosspostDepth bounds recursion through crosspost_parent_list. Deeper
// parents are dropped.
const maxCrosspostDepth = 4

var errMissingField = errors.New("missing required field")

// NormalizePosts decodes listing children into posts. Malformed children are
// skipped and counted in dropped; they never fail the batch.
func NormalizePosts(children []models.RedditChild) (posts []data.Post, dropped int) {
	posts = make([]data.Post, 0, len(children))
	for _, child := range children {
		if child.Malformed {
			dropped++
			continue
		}
		post, err := decodePost(child.Data, 0)
		if err != nil {
			dropped++
			continue
		}
		posts = append(posts, post)
	}
	return posts, dropped
}

func decodePost(raw json.RawMessage, depth int) (data.Post, error) {
	var wire models.RedditPost
	if err := json.Unmarshal(raw, &wire); err != nil {
		return data.Post{}, fmt.Errorf("decode post: %w", err)
	}

	if err := requirePostFields(wire); err != nil {
		return data.Post{}, err
	}

	post := data.Post{
		ID:          *wire.ID,
		Title:       *wire.Title,
		Author:      *wire.Author,
		CreatedAt:   unixTime(*wire.CreatedUTC),
		Score:       *wire.Score,
		NumComments: *wire.NumComments,
		Permalink:   *wire.Permalink,
		Domain:      *wire.Domain,
		URL:         *wire.URL,
		Selftext:    *wire.Selftext,
		IsSelf:      *wire.IsSelf,
		IsVideo:     *wire.IsVideo,
		Thumbnail:   optional[string](wire.Thumbnail),
		PostHint:    optional[string](wire.PostHint),
		Media:       convertMedia(optional[models.RedditMedia](wire.Media)),
		Preview:     convertPreview(optional[models.RedditPreview](wire.Preview)),
		GalleryData: convertGallery(optional[models.RedditGalleryData](wire.GalleryData)),
	}

	if parents := optional[[]json.RawMessage](wire.CrosspostParentList); parents != nil && depth < maxCrosspostDepth {
		for _, parentRaw := range *parents {
			parent, err := decodePost(parentRaw, depth+1)
			if err != nil {
				continue
			}
			post.Crossposts = append(post.Crossposts, &parent)
		}
	}

	return post, nil
}

func requirePostFields(w models.RedditPost) error {
	required := []struct {
		name    string
		present bool
	}{
		{"id", w.ID != nil},
		{"title", w.Title != nil},
		{"author", w.Author != nil},
		{"created_utc", w.CreatedUTC != nil},
		{"score", w.Score != nil},
		{"num_comments", w.NumComments != nil},
		{"permalink", w.Permalink != nil},
		{"domain", w.Domain != nil},
		{"url", w.URL != nil},
		{"selftext", w.Selftext != nil},
		{"is_self", w.IsSelf != nil},
		{"is_video", w.IsVideo != nil},
	}
	for _, field := range required {
		if !field.present {
			return fmt.Errorf("decode post: %w: %s", errMissingField, field.name)
		}
	}
	return nil
}

// optional decodes an optional block. Absent, null and malformed blocks all
// yield nil.
func optional[T any](raw json.RawMessage) *T {
	if len(raw) == 0 {
		return nil
	}
	var v *T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return v
}

func convertMedia(m *models.RedditMedia) *data.Media {
	if m == nil {
		return nil
	}
	media := &data.Media{}
	if v := optional[models.RedditVideo](m.RedditVideo); v != nil {
		media.RedditVideo = &data.RedditVideo{
			FallbackURL: v.FallbackURL,
			HLSURL:      v.HLSURL,
			DashURL:     v.DashURL,
		}
	}
	if e := optional[models.RedditOembed](m.Oembed); e != nil {
		media.Embed = &data.Embed{
			ProviderName: e.ProviderName,
			Title:        e.Title,
			HTML:         e.HTML,
			ThumbnailURL: e.ThumbnailURL,
		}
	}
	return media
}

// convertPreview keeps the well-formed images and skips the rest.
func convertPreview(p *models.RedditPreview) *data.Preview {
	if p == nil {
		return nil
	}
	preview := &data.Preview{Images: make([]data.PreviewImage, 0, len(p.Images))}
	for _, raw := range p.Images {
		img := optional[models.RedditPreviewImage](raw)
		if img == nil {
			continue
		}
		preview.Images = append(preview.Images, convertPreviewImage(*img))
	}
	return preview
}

func convertPreviewImage(img models.RedditPreviewImage) data.PreviewImage {
	out := data.PreviewImage{}
	if img.Source != nil {
		out.Source = convertImageSource(*img.Source)
	}
	for _, res := range img.Resolutions {
		out.Resolutions = append(out.Resolutions, convertImageSource(res))
	}
	if img.Variants != nil && (img.Variants.GIF != nil || img.Variants.MP4 != nil) {
		out.Variants = &data.ImageVariants{}
		if img.Variants.GIF != nil {
			gif := convertPreviewImage(*img.Variants.GIF)
			out.Variants.GIF = &gif
		}
		if img.Variants.MP4 != nil {
			mp4 := convertPreviewImage(*img.Variants.MP4)
			out.Variants.MP4 = &mp4
		}
	}
	return out
}

func convertImageSource(s models.RedditImageSource) data.ImageSource {
	return data.ImageSource{URL: s.URL, Width: s.Width, Height: s.Height}
}

// convertGallery keeps the container even when some or all items are
// malformed, since a present container is what marks a gallery.
func convertGallery(g *models.RedditGalleryData) *data.Gallery {
	if g == nil {
		return nil
	}
	gallery := &data.Gallery{Items: make([]data.GalleryItem, 0, len(g.Items))}
	for _, raw := range g.Items {
		item := optional[models.RedditGalleryItem](raw)
		if item == nil {
			continue
		}
		gallery.Items = append(gallery.Items, data.GalleryItem{ID: item.ID, MediaID: item.MediaID})
	}
	return gallery
}

func unixTime(seconds float64) time.Time {
	whole, frac := math.Modf(seconds)
	return time.Unix(int64(whole), int64(frac*1e9)).UTC()
}
