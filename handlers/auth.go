package handlers

import (
	"contact_flow_app_go/middleware"
	"contact_flow_app_go/services"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

// LoginHandler checks admin credentials and starts a cookie session
func (h *Handler) LoginHandler(c echo.Context) error {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&body); err != nil || body.Email == "" || body.Password == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Email e senha são obrigatórios"})
	}

	user, err := services.Authenticate(h.db, body.Email, body.Password)
	if err != nil {
		services.LogSecurityEvent("LOGIN_FAILED", body.Email, fmt.Sprintf("ip=%s reason=%v", c.RealIP(), err))
		if errors.Is(err, services.ErrInvalidCredentials) {
			h.logins.TrackFailedLogin(c.RealIP())
		}
		return respondError(c, err)
	}
	h.logins.ResetIP(c.RealIP())

	session, err := services.CreateSession(h.db, user.ID, c.RealIP(), c.Request().UserAgent())
	if err != nil {
		return respondError(c, err)
	}

	middleware.SetSessionCookie(c, session)
	services.LogSecurityEvent("LOGIN_SUCCESS", fmt.Sprint(user.ID), "ip="+c.RealIP())

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"user":    user,
	})
}

// LogoutHandler ends the current session, if any
func (h *Handler) LogoutHandler(c echo.Context) error {
	if session := middleware.GetCurrentSession(c); session != nil {
		if err := services.DeleteSession(h.db, session.Token); err != nil {
			c.Logger().Errorf("Failed to delete session: %v", err)
		}
	}
	middleware.ClearSessionCookie(c)

	return c.JSON(http.StatusOK, map[string]interface{}{"success": true})
}

// MeHandler returns the signed-in user, or null for anonymous visitors
func (h *Handler) MeHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"user": middleware.GetCurrentUser(c),
	})
}
