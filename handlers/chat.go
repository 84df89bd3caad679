package handlers

import (
	"contact_flow_app_go/middleware"
	"contact_flow_app_go/models"
	"net/http"

	"github.com/labstack/echo/v4"
)

// ChatHistoryHandler returns a ticket's messages oldest first
func (h *Handler) ChatHistoryHandler(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, err)
	}

	messages, err := h.chat.History(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"mensagens": messages})
}

// SendChatMessageHandler appends a message. Admin sessions post as admin,
// everyone else as usuario.
func (h *Handler) SendChatMessageHandler(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, err)
	}

	var body struct {
		Message string `json:"mensagem"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Corpo da requisição inválido"})
	}

	sender := models.SenderUsuario
	if user := middleware.GetCurrentUser(c); user != nil && user.IsAdmin() {
		sender = models.SenderAdmin
	}

	msg, err := h.chat.Send(c.Request().Context(), id, sender, body.Message)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"success":  true,
		"mensagem": msg,
	})
}
