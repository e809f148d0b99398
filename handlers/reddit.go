package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/kova98/feedview.api/models"
)

type TokenExchanger interface {
	Exchange(ctx context.Context, code string) (string, error)
}

type RedditAuthHandler struct {
	logger    *slog.Logger
	exchanger TokenExchanger
}

func NewRedditAuthHandler(logger *slog.Logger, exchanger TokenExchanger) *RedditAuthHandler {
	return &RedditAuthHandler{logger: logger, exchanger: exchanger}
}

// ExchangeToken trades an authorization code for a reddit bearer token. The
// exchanger already logged the cause, so callers only learn that it failed.
func (h *RedditAuthHandler) ExchangeToken(w http.ResponseWriter, r *http.Request) Result {
	var req models.ExchangeTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return BadRequest("Invalid request.")
	}

	code := strings.TrimSpace(req.Code)
	if code == "" {
		return BadRequest("Code is required.")
	}

	token, err := h.exchanger.Exchange(r.Context(), code)
	if err != nil || token == "" {
		return Unauthorized("Token exchange failed")
	}

	h.logger.Debug("exchanged reddit authorization code")
	return Ok(models.ExchangeTokenResponse{AccessToken: token})
}
