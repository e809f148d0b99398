package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kova98/feedview.api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubExchanger struct {
	token string
	err   error
	code  string
}

func (s *stubExchanger) Exchange(ctx context.Context, code string) (string, error) {
	s.code = code
	return s.token, s.err
}

func TestExchangeToken_ReturnsToken(t *testing.T) {
	ex := &stubExchanger{token: "bearer-123"}
	h := NewRedditAuthHandler(testLogger(), ex)

	r := httptest.NewRequest(http.MethodPost, "/auth/token", strings.NewReader(`{"code": " abc "}`))
	res := h.ExchangeToken(httptest.NewRecorder(), r)

	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "bearer-123", res.Body.(models.ExchangeTokenResponse).AccessToken)
	assert.Equal(t, "abc", ex.code)
}

func TestExchangeToken_FailureIsUnauthorized(t *testing.T) {
	h := NewRedditAuthHandler(testLogger(), &stubExchanger{err: errors.New("invalid_grant")})

	r := httptest.NewRequest(http.MethodPost, "/auth/token", strings.NewReader(`{"code": "abc"}`))
	res := h.ExchangeToken(httptest.NewRecorder(), r)

	assert.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestExchangeToken_MissingCode(t *testing.T) {
	ex := &stubExchanger{token: "unused"}
	h := NewRedditAuthHandler(testLogger(), ex)

	r := httptest.NewRequest(http.MethodPost, "/auth/token", strings.NewReader(`{}`))
	res := h.ExchangeToken(httptest.NewRecorder(), r)

	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, "", ex.code)
}
