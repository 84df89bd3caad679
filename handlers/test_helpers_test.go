package handlers

import (
	"contact_flow_app_go/config"
	"contact_flow_app_go/models"
	"contact_flow_app_go/realtime"
	"contact_flow_app_go/services"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	// Use unique shared memory name to isolate tests while allowing shared cache for async tasks
	dbName := "mem_" + uuid.New().String()
	testDB, err := gorm.Open(sqlite.Open("file:"+dbName+"?mode=memory&cache=shared&_busy_timeout=5000"), &gorm.Config{})
	require.NoError(t, err)

	err = testDB.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.Feedback{},
		&models.ChatMessage{},
		&models.AuditLog{},
	)
	require.NoError(t, err)
	return testDB
}

func setupEcho(method, path string, body io.Reader) (*echo.Echo, echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	// Add config to context
	c.Set("config", &config.Config{
		Environment: "test",
	})

	return e, c, rec
}

type testEnv struct {
	db          *gorm.DB
	hub         *realtime.Hub
	tokens      *services.ResumeTokenIssuer
	transcripts *services.TranscriptService
	h           *Handler
	e           *echo.Echo
}

func newTestEnv(t *testing.T) *testEnv {
	database := setupTestDB(t)
	hub := realtime.NewHub()
	cfg := &config.Config{Environment: "test", SessionSecret: "test-secret"}
	tokens := services.NewResumeTokenIssuer(cfg.SessionSecret, time.Hour)
	transcripts := services.NewTranscriptService(database, services.NewLocalStorage(t.TempDir()))

	h := New(database,
		cfg,
		services.NewFeedbackService(database, hub, nil, nil),
		services.NewChatService(database, hub),
		tokens,
		transcripts,
	)

	e := echo.New()
	e.HTTPErrorHandler = JSONErrorHandler
	RegisterRoutes(e, h, realtime.NewServer(hub, 8, nil))

	return &testEnv{db: database, hub: hub, tokens: tokens, transcripts: transcripts, h: h, e: e}
}

// serve sends a request through the full router, optionally as a signed-in user
func (env *testEnv) serve(method, path, body string, session *models.Session) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if session != nil {
		req.AddCookie(&http.Cookie{Name: "contact_flow_session", Value: session.Token})
	}
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) seedFeedback(t *testing.T, status string) *models.Feedback {
	f := &models.Feedback{
		Name:    "Maria",
		Email:   "maria@example.com",
		Subject: "Ajuda",
		Message: "Olá",
		Status:  status,
	}
	require.NoError(t, env.db.Create(f).Error)
	return f
}

func (env *testEnv) seedUser(t *testing.T, email, role string) (*models.User, *models.Session) {
	hash, err := services.HashPassword("s3nha-forte")
	require.NoError(t, err)
	user := &models.User{Name: "Ana", Email: email, Password: hash, Role: role, IsActive: true}
	require.NoError(t, env.db.Create(user).Error)

	session, err := services.CreateSession(env.db, user.ID, "127.0.0.1", "test")
	require.NoError(t, err)
	return user, session
}

// follow joins a fake relay participant to a ticket's room
func (env *testEnv) follow(feedbackID uint) *realtime.Client {
	client := realtime.NewClient(8)
	env.hub.Join(feedbackID, client)
	return client
}

func pendingFrames(c *realtime.Client) []realtime.Frame {
	var frames []realtime.Frame
	for {
		select {
		case f := <-c.Send():
			frames = append(frames, f)
		default:
			return frames
		}
	}
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func assertError(t *testing.T, rec *httptest.ResponseRecorder, status int) {
	assert.Equal(t, status, rec.Code, rec.Body.String())
	assert.NotEmpty(t, decode(t, rec)["error"])
}
