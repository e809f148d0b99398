package matchers

import (
	"strings"

	"github.com/kova98/feedview.api/data"
	"github.com/kova98/feedview.api/enums"
)

var (
	imageSuffixes = []string{".jpg", ".jpeg", ".png", ".gif"}
	videoSuffixes = []string{".mp4", ".mov", ".webm"}
	videoHosts    = []string{"youtube.com", "youtu.be", "v.redd.it", "vimeo.com", "streamable.com", "twitch.tv"}
)

// ContentKind classifies a post into exactly one kind. The first matching rule
// wins, in this order: self post, gallery, post hint, video flag, hosted
// video, preview image, URL suffix or host.
//
// A present post hint decides on its own. Unknown hints, including the empty
// string, map to link without consulting the media, preview or URL checks.
func ContentKind(p data.Post) enums.ContentKind {
	if p.IsSelf {
		return enums.ContentKindSelfText
	}

	if p.GalleryData != nil {
		return enums.ContentKindGallery
	}

	if p.PostHint != nil {
		switch *p.PostHint {
		case "image":
			return enums.ContentKindImage
		case "hosted:video", "rich:video":
			return enums.ContentKindVideo
		default:
			return enums.ContentKindLink
		}
	}

	if p.IsVideo {
		return enums.ContentKindVideo
	}

	if p.Media != nil && p.Media.RedditVideo != nil {
		return enums.ContentKindVideo
	}

	if hasPreviewImage(p.Preview) {
		return enums.ContentKindImage
	}

	url := strings.ToLower(p.URL)
	if hasAnySuffix(url, imageSuffixes) {
		return enums.ContentKindImage
	}
	if hasAnySuffix(url, videoSuffixes) || containsAny(url, videoHosts) {
		return enums.ContentKindVideo
	}

	return enums.ContentKindLink
}

func hasPreviewImage(preview *data.Preview) bool {
	if preview == nil {
		return false
	}
	for _, img := range preview.Images {
		if img.Source.URL != "" {
			return true
		}
	}
	return false
}

func hasAnySuffix(s string, suffixes []string) bool {
	for _, suffix := range suffixes {
		if strings.HasSuffix(s, suffix) {
			return true
		}
	}
	return false
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
