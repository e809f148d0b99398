package enums

type PreviewStatus string

const (
	// PreviewNotRequested means no resolution was ever requested for the URL.
	PreviewNotRequested PreviewStatus = "not_requested"

	// PreviewPending means a placeholder exists. Failed fetches stay pending forever.
	PreviewPending PreviewStatus = "pending"

	// PreviewResolved means extraction completed and the entry was filled in.
	PreviewResolved PreviewStatus = "resolved"
)
