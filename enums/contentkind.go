package enums

type ContentKind string

const (
	ContentKindSelfText ContentKind = "selfText"
	ContentKindImage    ContentKind = "image"
	ContentKindVideo    ContentKind = "video"
	ContentKindLink     ContentKind = "link"
	ContentKindGallery  ContentKind = "gallery"
)

// AllContentKinds lists every kind in classification priority order.
var AllContentKinds = []ContentKind{
	ContentKindSelfText,
	ContentKindGallery,
	ContentKindImage,
	ContentKindVideo,
	ContentKindLink,
}
