package handlers

import (
	"net/http"

	"github.com/kova98/feedview.api/data"
	"github.com/kova98/feedview.api/models"
)

type UserHandler struct{}

func NewUserHandler() *UserHandler {
	return &UserHandler{}
}

func (h UserHandler) GetMe(w http.ResponseWriter, r *http.Request) Result {
	user, ok := r.Context().Value(UserContextKey).(data.User)
	if !ok {
		return Unauthorized("Authentication is not enabled")
	}

	return Ok(models.UserModel{
		ID:          user.ID,
		Name:        user.Name,
		DisplayName: user.DisplayName,
		Email:       user.Email,
		Avatar:      user.Avatar,
	})
}
