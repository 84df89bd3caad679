package handlers

import (
	"contact_flow_app_go/middleware"
	"net/http"

	"github.com/labstack/echo/v4"
)

// RegisterRoutes mounts the API under /api and the relay socket at /api/socketio
func RegisterRoutes(e *echo.Echo, h *Handler, socket http.Handler) {
	e.GET("/health", h.HealthHandler)

	api := e.Group("/api")
	api.Use(middleware.LoadUser(h.db))

	api.GET("/socketio", echo.WrapHandler(socket))

	// Public contact flow
	api.POST("/feedback", h.CreateFeedbackHandler, middleware.PublicFormRateLimiter.Middleware())
	api.POST("/feedback/resume", h.ResumeFeedbackHandler)
	api.GET("/feedback/:id", h.GetFeedbackHandler)
	api.GET("/chat/feedback/:id", h.ChatHistoryHandler)
	api.POST("/chat/feedback/:id", h.SendChatMessageHandler, middleware.ChatRateLimiter.Middleware())

	// Auth
	api.POST("/auth/login", h.LoginHandler, middleware.LoginRateLimiter.Middleware())
	api.POST("/auth/logout", h.LogoutHandler)
	api.GET("/auth/me", h.MeHandler)

	// Admin only
	adminOnly := middleware.RequireAdmin()
	audited := middleware.AuditContext()
	api.GET("/feedback", h.ListFeedbackHandler, adminOnly)
	api.GET("/feedback/export", h.ExportFeedbackHandler, adminOnly)
	api.GET("/feedback/:id/transcript", h.FeedbackTranscriptHandler, adminOnly)
	api.GET("/feedback/:id/audit", h.FeedbackAuditHandler, adminOnly)
	api.PATCH("/feedback/:id", h.UpdateFeedbackStatusHandler, adminOnly, audited)
	api.DELETE("/feedback/:id", h.DeleteFeedbackHandler, adminOnly, audited)
}
