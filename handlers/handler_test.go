package handlers

import (
	"contact_flow_app_go/services"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestRespondError(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{&services.ValidationError{Fields: map[string]string{"nome": "obrigatório"}}, http.StatusBadRequest},
		{services.ErrInvalidStatus, http.StatusBadRequest},
		{services.ErrEmptyBody, http.StatusBadRequest},
		{fmt.Errorf("wrapped: %w", services.ErrFeedbackNotFound), http.StatusNotFound},
		{services.ErrFeedbackResolved, http.StatusConflict},
		{services.ErrInvalidCredentials, http.StatusUnauthorized},
		{services.ErrAccountLocked, http.StatusUnauthorized},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			_, c, rec := setupEcho(http.MethodGet, "/", nil)
			assert.NoError(t, respondError(c, tt.err))
			assertError(t, rec, tt.status)
		})
	}

	t.Run("internal details stay private", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodGet, "/", nil)
		respondError(c, errors.New("password=hunter2"))
		assert.NotContains(t, rec.Body.String(), "hunter2")
	})
}

func TestJSONErrorHandler(t *testing.T) {
	_, c, rec := setupEcho(http.MethodGet, "/", nil)
	JSONErrorHandler(echo.NewHTTPError(http.StatusTooManyRequests, "devagar"), c)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.JSONEq(t, `{"error":"devagar"}`, rec.Body.String())

	env := newTestEnv(t)
	assertError(t, env.serve(http.MethodGet, "/api/nao-existe", "", nil), http.StatusNotFound)
}

func TestHealthHandler(t *testing.T) {
	env := newTestEnv(t)
	rec := env.serve(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "contact-flow", body["service"])
}
