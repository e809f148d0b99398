package sources

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/kova98/feedview.api/models"
)

// TokenExchanger trades an authorization code for a bearer token. It never
// refreshes or stores tokens.
type TokenExchanger struct {
	logger       *slog.Logger
	httpClient   *http.Client
	tokenURL     string
	clientID     string
	clientSecret string
	redirectURI  string
	userAgent    string
}

func NewTokenExchanger(logger *slog.Logger, httpClient *http.Client, tokenURL, clientID, clientSecret, redirectURI, userAgent string) *TokenExchanger {
	return &TokenExchanger{
		logger:       logger,
		httpClient:   httpClient,
		tokenURL:     tokenURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		redirectURI:  redirectURI,
		userAgent:    userAgent,
	}
}

// Exchange returns "" and an error on any failure. Callers treat an empty
// token as unauthenticated.
func (e *TokenExchanger) Exchange(ctx context.Context, code string) (string, error) {
	token, err := e.exchange(ctx, code)
	if err != nil {
		e.logger.Warn("token exchange failed", "error", err)
		return "", err
	}
	return token, nil
}

func (e *TokenExchanger) exchange(ctx context.Context, code string) (string, error) {
	if code == "" {
		return "", errors.New("exchange token: empty authorization code")
	}

	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", e.redirectURI)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("exchange token: %w", err)
	}
	req.SetBasicAuth(e.clientID, e.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", e.userAgent)

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("exchange token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("exchange token: status %d", resp.StatusCode)
	}

	var body models.RedditTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("exchange token: decode: %w", err)
	}
	if body.Error != "" {
		return "", fmt.Errorf("exchange token: %s", body.Error)
	}
	if body.AccessToken == "" {
		return "", errors.New("exchange token: access token is empty")
	}

	return body.AccessToken, nil
}
