package handlers

import (
	"contact_flow_app_go/config"
	"contact_flow_app_go/services"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// Handler serves the JSON API. Services are injected so the relay and
// the resume token issuer are never reached through globals.
type Handler struct {
	db          *gorm.DB
	cfg         *config.Config
	feedback    *services.FeedbackService
	chat        *services.ChatService
	tokens      *services.ResumeTokenIssuer
	transcripts *services.TranscriptService
	audit       *services.AuditLogger
	logins      *services.LoginMonitor
}

func New(database *gorm.DB, cfg *config.Config, feedback *services.FeedbackService, chat *services.ChatService, tokens *services.ResumeTokenIssuer, transcripts *services.TranscriptService) *Handler {
	return &Handler{
		db:          database,
		cfg:         cfg,
		feedback:    feedback,
		chat:        chat,
		tokens:      tokens,
		transcripts: transcripts,
		audit:       services.NewAuditLogger(database),
		logins:      services.NewLoginMonitor(),
	}
}

var errInvalidID = errors.New("invalid id")

// parseID reads a positive numeric :id path parameter
func parseID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, errInvalidID
	}
	return uint(id), nil
}

// respondError maps service errors to status codes. Anything unknown is
// logged and reported as a generic 500.
func respondError(c echo.Context, err error) error {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error":  "Dados inválidos",
			"fields": verr.Fields,
		})
	case errors.Is(err, errInvalidID):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "ID inválido"})
	case errors.Is(err, services.ErrInvalidStatus):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Status inválido"})
	case errors.Is(err, services.ErrEmptyBody):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Mensagem vazia"})
	case errors.Is(err, services.ErrFeedbackNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Feedback não encontrado"})
	case errors.Is(err, services.ErrTranscriptNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Transcrição não encontrada"})
	case errors.Is(err, services.ErrFeedbackResolved):
		return c.JSON(http.StatusConflict, map[string]string{"error": "Este atendimento já foi resolvido"})
	case errors.Is(err, services.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Email ou senha inválidos"})
	case errors.Is(err, services.ErrAccountLocked):
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Conta bloqueada. Tente novamente mais tarde."})
	case errors.Is(err, services.ErrAccountInactive):
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Conta desativada"})
	}

	c.Logger().Errorf("%s %s failed: %v", c.Request().Method, c.Path(), err)
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Erro interno do servidor"})
}

// JSONErrorHandler renders router and middleware errors as {"error": ...}
func JSONErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg, ok := he.Message.(string)
		if !ok {
			msg = http.StatusText(he.Code)
		}
		if jerr := c.JSON(he.Code, map[string]string{"error": msg}); jerr != nil {
			c.Logger().Error(jerr)
		}
		return
	}

	if rerr := respondError(c, err); rerr != nil {
		c.Logger().Error(rerr)
	}
}
