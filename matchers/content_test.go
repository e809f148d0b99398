package matchers

import (
	"testing"

	"github.com/kova98/feedview.api/data"
	"github.com/kova98/feedview.api/enums"
	"github.com/stretchr/testify/assert"
)

func ptr[T any](v T) *T {
	return &v
}

func bareLinkPost(url string) data.Post {
	return data.Post{ID: "p1", Title: "t", URL: url}
}

func TestContentKind_SelfWinsOverEverything(t *testing.T) {
	p := bareLinkPost("https://example.com/clip.mp4")
	p.IsSelf = true
	p.IsVideo = true
	p.PostHint = ptr("image")
	p.GalleryData = &data.Gallery{}
	p.Media = &data.Media{RedditVideo: &data.RedditVideo{}}

	assert.Equal(t, enums.ContentKindSelfText, ContentKind(p))
}

func TestContentKind_GalleryBeatsHint(t *testing.T) {
	p := bareLinkPost("https://www.reddit.com/gallery/abc")
	p.GalleryData = &data.Gallery{Items: []data.GalleryItem{{ID: 1, MediaID: "m1"}}}
	p.PostHint = ptr("image")

	assert.Equal(t, enums.ContentKindGallery, ContentKind(p))
}

func TestContentKind_EmptyGalleryStillGallery(t *testing.T) {
	p := bareLinkPost("https://www.reddit.com/gallery/abc")
	p.GalleryData = &data.Gallery{}

	assert.Equal(t, enums.ContentKindGallery, ContentKind(p))
}

func TestContentKind_Hints(t *testing.T) {
	cases := map[string]enums.ContentKind{
		"image":        enums.ContentKindImage,
		"hosted:video": enums.ContentKindVideo,
		"rich:video":   enums.ContentKindVideo,
		"link":         enums.ContentKindLink,
	}

	for hint, want := range cases {
		p := bareLinkPost("https://example.com/page")
		p.PostHint = ptr(hint)
		assert.Equal(t, want, ContentKind(p), "hint %q", hint)
	}
}

// Unknown hints end the cascade: video flag and .mp4 URL are ignored.
func TestContentKind_UnknownHintFallsThroughToLink(t *testing.T) {
	p := bareLinkPost("https://example.com/clip.mp4")
	p.PostHint = ptr("unexpected-value")
	p.IsVideo = true

	assert.Equal(t, enums.ContentKindLink, ContentKind(p))
}

func TestContentKind_EmptyHintIsLink(t *testing.T) {
	p := bareLinkPost("https://i.imgur.com/cat.png")
	p.PostHint = ptr("")
	p.Media = &data.Media{RedditVideo: &data.RedditVideo{FallbackURL: ptr("https://v.redd.it/x/DASH_720.mp4")}}

	assert.Equal(t, enums.ContentKindLink, ContentKind(p))
}

func TestContentKind_VideoFlagWithoutHint(t *testing.T) {
	p := bareLinkPost("https://v.redd.it/abc")
	p.IsVideo = true

	assert.Equal(t, enums.ContentKindVideo, ContentKind(p))
}

func TestContentKind_RedditVideoMedia(t *testing.T) {
	p := bareLinkPost("https://example.com/page")
	p.Media = &data.Media{RedditVideo: &data.RedditVideo{HLSURL: ptr("https://v.redd.it/x/HLSPlaylist.m3u8")}}

	assert.Equal(t, enums.ContentKindVideo, ContentKind(p))
}

func TestContentKind_EmbedOnlyMediaIsNotVideo(t *testing.T) {
	p := bareLinkPost("https://example.com/page")
	p.Media = &data.Media{Embed: &data.Embed{ProviderName: "Example"}}

	assert.Equal(t, enums.ContentKindLink, ContentKind(p))
}

func TestContentKind_PreviewImage(t *testing.T) {
	p := bareLinkPost("https://example.com/article")
	p.Preview = &data.Preview{Images: []data.PreviewImage{
		{Source: data.ImageSource{}},
		{Source: data.ImageSource{URL: "https://preview.redd.it/a.jpg"}},
	}}

	assert.Equal(t, enums.ContentKindImage, ContentKind(p))
}

func TestContentKind_PreviewWithoutSourceIsIgnored(t *testing.T) {
	p := bareLinkPost("https://example.com/article")
	p.Preview = &data.Preview{Images: []data.PreviewImage{{Source: data.ImageSource{}}}}

	assert.Equal(t, enums.ContentKindLink, ContentKind(p))
}

func TestContentKind_URLSuffixes(t *testing.T) {
	assert.Equal(t, enums.ContentKindImage, ContentKind(bareLinkPost("https://i.imgur.com/cat.png")))
	assert.Equal(t, enums.ContentKindImage, ContentKind(bareLinkPost("https://i.imgur.com/cat.JPEG")))
	assert.Equal(t, enums.ContentKindImage, ContentKind(bareLinkPost("https://i.imgur.com/cat.gif")))
	assert.Equal(t, enums.ContentKindVideo, ContentKind(bareLinkPost("https://example.com/clip.mp4")))
	assert.Equal(t, enums.ContentKindVideo, ContentKind(bareLinkPost("https://example.com/clip.MOV")))
	assert.Equal(t, enums.ContentKindVideo, ContentKind(bareLinkPost("https://example.com/clip.webm")))
	assert.Equal(t, enums.ContentKindLink, ContentKind(bareLinkPost("https://example.com/article")))
}

func TestContentKind_VideoHosts(t *testing.T) {
	assert.Equal(t, enums.ContentKindVideo, ContentKind(bareLinkPost("https://www.youtube.com/watch?v=abc")))
	assert.Equal(t, enums.ContentKindVideo, ContentKind(bareLinkPost("https://youtu.be/abc")))
	assert.Equal(t, enums.ContentKindVideo, ContentKind(bareLinkPost("https://WWW.YOUTUBE.COM/watch?v=abc")))
}

func TestContentKind_IsDeterministic(t *testing.T) {
	p := bareLinkPost("https://example.com/clip.mp4")
	first := ContentKind(p)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, ContentKind(p))
	}
}
