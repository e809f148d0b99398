package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Nerzal/gocloak/v13"
	"github.com/google/uuid"

	"github.com/kova98/feedview.api/data"
)

type contextKey string

const UserContextKey contextKey = "user"

// AuthHandler resolves API callers from Keycloak access tokens.
type AuthHandler struct {
	keycloak *gocloak.GoCloak
	realm    string
}

func NewAuthHandler(keycloak *gocloak.GoCloak, realm string) *AuthHandler {
	return &AuthHandler{
		keycloak: keycloak,
		realm:    realm,
	}
}

func (h *AuthHandler) GetUser(ctx context.Context, authHeader string) Result {
	if authHeader == "" {
		return Unauthorized("Missing authorization header")
	}

	res := h.getUserFromAuthHeader(ctx, authHeader)
	if res.Code != http.StatusOK {
		return res
	}
	userInfo := res.Body.(gocloak.UserInfo)

	if userInfo.Sub == nil {
		return Unauthorized("User not found")
	}
	id, err := uuid.Parse(*userInfo.Sub)
	if err != nil {
		slog.Error("Failed to parse user ID from Keycloak", "sub", *userInfo.Sub, "error", err)
		return InternalError(err, "Failed to parse user ID from Keycloak")
	}

	user := data.User{
		ID:          id,
		Name:        deref(userInfo.PreferredUsername),
		DisplayName: deref(userInfo.Name),
		Email:       deref(userInfo.Email),
		Avatar:      deref(userInfo.Picture),
	}

	// If preferred_username is empty, use the part before the @ in the email
	if user.Name == "" {
		user.Name = strings.Split(user.Email, "@")[0]
	}

	return Ok(user)
}

func (h *AuthHandler) getUserFromAuthHeader(ctx context.Context, authHeader string) Result {
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return Unauthorized("Invalid authorization header format")
	}
	token := strings.TrimPrefix(authHeader, "Bearer ")

	// Validate the token
	_, _, err := h.keycloak.DecodeAccessToken(ctx, token, h.realm)
	if err != nil {
		return Unauthorized("Invalid token")
	}

	userInfo, err := h.keycloak.GetUserInfo(ctx, token, h.realm)
	if err != nil {
		return InternalError(err, "Failed to get user info")
	}

	if userInfo == nil {
		return Unauthorized("User not found")
	}

	return Ok(*userInfo)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
