package handlers

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/kova98/feedview.api/data"
	"github.com/kova98/feedview.api/enums"
	"github.com/kova98/feedview.api/models"
)

type PreviewCache interface {
	Resolve(url string)
	Lookup(url string) (data.LinkMetadata, enums.PreviewStatus)
}

type PreviewHandler struct {
	cache PreviewCache
}

func NewPreviewHandler(cache PreviewCache) *PreviewHandler {
	return &PreviewHandler{cache}
}

func (h *PreviewHandler) GetPreview(w http.ResponseWriter, r *http.Request) Result {
	target := r.URL.Query().Get("url")
	if target == "" {
		return BadRequest("Url is required.")
	}

	meta, status := h.cache.Lookup(target)
	res := models.PreviewResponse{Status: status}
	if status != enums.PreviewNotRequested {
		res.Metadata = &meta
	}

	return Ok(res)
}

// RequestPreview starts a resolution and returns immediately. Clients poll
// GetPreview for the result.
func (h *PreviewHandler) RequestPreview(w http.ResponseWriter, r *http.Request) Result {
	var req models.ResolvePreviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return BadRequest("Invalid request.")
	}

	target := strings.TrimSpace(req.URL)
	if !isWebURL(target) {
		return BadRequest("Url must be an absolute http or https url.")
	}

	h.cache.Resolve(target)

	_, status := h.cache.Lookup(target)
	return Accepted(models.PreviewResponse{Status: status})
}

func isWebURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
