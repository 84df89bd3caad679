package services

import (
	"contact_flow_app_go/config"
	"contact_flow_app_go/models"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildNewFeedbackEmail(t *testing.T) {
	f := &models.Feedback{
		ID:      12,
		Name:    "Maria <b>Silva</b>",
		Email:   "maria@example.com",
		Subject: "Pedido",
		Message: "Chegou quebrado",
	}

	email := BuildNewFeedbackEmail("admin@example.com", "Ana", f, "https://app.example.com/")

	assert.Equal(t, []string{"admin@example.com"}, email.To)
	assert.Equal(t, "Novo contato #12: Pedido", email.Subject)
	assert.Contains(t, email.HTMLBody, "https://app.example.com/admin/feedback/12")
	assert.Contains(t, email.HTMLBody, "Maria &lt;b&gt;Silva&lt;/b&gt;")
	assert.Contains(t, email.TextBody, "Olá Ana")
	assert.Contains(t, email.TextBody, "Chegou quebrado")
}

func TestSendEmail(t *testing.T) {
	email := &Email{To: []string{"a@example.com"}, Subject: "x", TextBody: "y"}

	t.Run("test mode logs instead of sending", func(t *testing.T) {
		assert.NoError(t, SendEmail(&config.Config{EmailTestMode: true}, email))
	})

	t.Run("missing API key", func(t *testing.T) {
		err := SendEmail(&config.Config{}, email)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "RESEND_API_KEY")
	})
}

func TestAdminNotifier(t *testing.T) {
	db := setupFeedbackTestDB(t)
	seedAdmin(t, db, "ana@example.com", "x")
	seedAdmin(t, db, "bia@example.com", "x")
	inactive := seedAdmin(t, db, "caio@example.com", "x")
	require.NoError(t, db.Model(inactive).Update("is_active", false).Error)
	require.NoError(t, db.Create(&models.User{Name: "Cliente", Email: "cliente@example.com", Password: "x", Role: models.RoleUsuario, IsActive: true}).Error)

	var sent []string
	notifier := &AdminNotifier{
		db:     db,
		appURL: "https://app.example.com",
		send: func(e *Email) error {
			sent = append(sent, e.To...)
			if e.To[0] == "ana@example.com" {
				return errors.New("boom")
			}
			return nil
		},
	}

	notifier.NotifyNewFeedback(&models.Feedback{ID: 3, Subject: "Oi"})

	assert.ElementsMatch(t, []string{"ana@example.com", "bia@example.com"}, sent)
}
