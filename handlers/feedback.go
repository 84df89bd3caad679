package handlers

import (
	"contact_flow_app_go/middleware"
	"contact_flow_app_go/models"
	"contact_flow_app_go/services"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
)

const maxListLimit = 100

// CreateFeedbackHandler opens a ticket from the public contact form and
// hands back the resume token the browser keeps with the ticket id.
func (h *Handler) CreateFeedbackHandler(c echo.Context) error {
	var in services.CreateFeedbackInput
	if err := c.Bind(&in); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Corpo da requisição inválido"})
	}

	feedback, err := h.feedback.Create(c.Request().Context(), in)
	if err != nil {
		return respondError(c, err)
	}

	token, err := h.tokens.Issue(feedback)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"success":     true,
		"feedbackId":  feedback.ID,
		"resumeToken": token,
	})
}

// GetFeedbackHandler returns a single ticket
func (h *Handler) GetFeedbackHandler(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, err)
	}

	feedback, err := h.feedback.GetByID(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"feedback": feedback})
}

// UpdateFeedbackStatusHandler changes a ticket's status (admin only)
func (h *Handler) UpdateFeedbackStatusHandler(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, err)
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Corpo da requisição inválido"})
	}
	if !models.IsValidFeedbackStatus(body.Status) {
		return respondError(c, services.ErrInvalidStatus)
	}

	ctx := c.Request().Context()
	before, err := h.feedback.GetByID(ctx, id)
	if err != nil {
		return respondError(c, err)
	}

	feedback, err := h.feedback.UpdateStatus(ctx, id, body.Status)
	if err != nil {
		return respondError(c, err)
	}

	h.audit.LogAuditEvent(middleware.GetAuditContext(c), services.AuditEntry{
		Action:       models.AuditActionUpdate,
		ResourceType: models.AuditResourceFeedback,
		ResourceID:   strconv.FormatUint(uint64(id), 10),
		ResourceName: before.Subject,
		Description:  fmt.Sprintf("Status alterado de %s para %s", before.Status, feedback.Status),
		OldValues:    map[string]string{"status": before.Status},
		NewValues:    map[string]string{"status": feedback.Status},
	})

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success":  true,
		"feedback": feedback,
	})
}

// DeleteFeedbackHandler removes a ticket and its messages (admin only)
func (h *Handler) DeleteFeedbackHandler(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, err)
	}

	ctx := c.Request().Context()
	before, err := h.feedback.GetByID(ctx, id)
	if err != nil {
		return respondError(c, err)
	}

	if err := h.feedback.Delete(ctx, id); err != nil {
		return respondError(c, err)
	}

	h.audit.LogAuditEvent(middleware.GetAuditContext(c), services.AuditEntry{
		Action:       models.AuditActionDelete,
		ResourceType: models.AuditResourceFeedback,
		ResourceID:   strconv.FormatUint(uint64(id), 10),
		ResourceName: before.Subject,
		Description:  fmt.Sprintf("Atendimento de %s excluído", before.Email),
		OldValues: map[string]string{
			"status":  before.Status,
			"email":   before.Email,
			"assunto": before.Subject,
		},
	})

	return c.JSON(http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Feedback excluído com sucesso",
	})
}

// ListFeedbackHandler lists tickets newest first (admin only)
func (h *Handler) ListFeedbackHandler(c echo.Context) error {
	filter := listFilter(c)

	items, total, err := h.feedback.List(c.Request().Context(), filter)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"feedback": items,
		"total":    total,
		"limit":    filter.Limit,
		"offset":   filter.Offset,
	})
}

// ExportFeedbackHandler downloads the filtered tickets as a spreadsheet (admin only)
func (h *Handler) ExportFeedbackHandler(c echo.Context) error {
	filter := listFilter(c)
	filter.Limit, filter.Offset = 0, 0

	buf, err := services.ExportFeedbackXLSX(c.Request().Context(), h.db, filter)
	if err != nil {
		return respondError(c, err)
	}

	filename := fmt.Sprintf("feedback_%s.xlsx", time.Now().Format("20060102"))
	c.Response().Header().Set("Content-Disposition", "attachment; filename="+filename)
	return c.Blob(http.StatusOK, services.XLSXContentType, buf.Bytes())
}

// ResumeFeedbackHandler reconciles what the browser remembered with the
// stored ticket and tells it whether to reopen the chat.
func (h *Handler) ResumeFeedbackHandler(c echo.Context) error {
	var remembered services.RememberedSession
	if err := c.Bind(&remembered); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Corpo da requisição inválido"})
	}

	decision := services.ReconcileSession(c.Request().Context(), h.feedback, h.tokens, remembered)
	return c.JSON(http.StatusOK, decision)
}

// FeedbackTranscriptHandler downloads the archived conversation of a resolved ticket (admin only)
func (h *Handler) FeedbackTranscriptHandler(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, err)
	}

	reader, contentType, err := h.transcripts.Open(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	defer reader.Close()

	c.Response().Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=feedback_%d.json", id))
	return c.Stream(http.StatusOK, contentType, reader)
}

type auditEntryResponse struct {
	models.AuditLog
	Changes []models.AuditChange `json:"changes"`
}

// FeedbackAuditHandler lists the admin actions taken on a ticket, newest first (admin only)
func (h *Handler) FeedbackAuditHandler(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, err)
	}

	logs, err := h.audit.ResourceHistory(c.Request().Context(), models.AuditResourceFeedback, strconv.FormatUint(uint64(id), 10))
	if err != nil {
		return respondError(c, err)
	}

	entries := make([]auditEntryResponse, 0, len(logs))
	for _, l := range logs {
		entries = append(entries, auditEntryResponse{AuditLog: l, Changes: l.Changes()})
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"audit": entries})
}

func listFilter(c echo.Context) services.FeedbackFilter {
	filter := services.FeedbackFilter{Status: c.QueryParam("status"), Limit: 20}
	if limit, err := strconv.Atoi(c.QueryParam("limit")); err == nil && limit > 0 {
		filter.Limit = limit
	}
	if filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}
	if offset, err := strconv.Atoi(c.QueryParam("offset")); err == nil && offset > 0 {
		filter.Offset = offset
	}
	return filter
}
