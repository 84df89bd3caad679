package services

import (
	"bytes"
	"contact_flow_app_go/config"
	"contact_flow_app_go/models"
	"fmt"
	"html/template"
	"log"
	"strings"

	"github.com/resend/resend-go/v2"
	"gorm.io/gorm"
)

// Email represents an email message
type Email struct {
	To       []string
	Subject  string
	HTMLBody string
	TextBody string
}

// EmailSender delivers an Email. SendEmail bound to a config satisfies it.
type EmailSender func(email *Email) error

var newFeedbackHTML = template.Must(template.New("new_feedback").Parse(`<p>Olá {{.AdminName}},</p>
<p>Um novo contato foi recebido pelo formulário do site.</p>
<ul>
<li><strong>Nome:</strong> {{.Feedback.Name}}</li>
<li><strong>Email:</strong> {{.Feedback.Email}}</li>
<li><strong>Telefone:</strong> {{.Feedback.Phone}}</li>
<li><strong>Assunto:</strong> {{.Feedback.Subject}}</li>
</ul>
<p>{{.Feedback.Message}}</p>
<p><a href="{{.Link}}">Abrir atendimento #{{.Feedback.ID}}</a></p>`))

// BuildNewFeedbackEmail builds the admin notification for a new ticket
func BuildNewFeedbackEmail(toEmail, adminName string, f *models.Feedback, appURL string) *Email {
	link := fmt.Sprintf("%s/admin/feedback/%d", strings.TrimSuffix(appURL, "/"), f.ID)

	var htmlBody bytes.Buffer
	data := struct {
		AdminName string
		Feedback  *models.Feedback
		Link      string
	}{adminName, f, link}
	if err := newFeedbackHTML.Execute(&htmlBody, data); err != nil {
		log.Printf("Error rendering new feedback email: %v", err)
	}

	text := fmt.Sprintf("Olá %s,\n\nNovo contato #%d de %s <%s>.\nTelefone: %s\nAssunto: %s\n\n%s\n\n%s\n",
		adminName, f.ID, f.Name, f.Email, f.Phone, f.Subject, f.Message, link)

	return &Email{
		To:       []string{toEmail},
		Subject:  fmt.Sprintf("Novo contato #%d: %s", f.ID, f.Subject),
		HTMLBody: htmlBody.String(),
		TextBody: text,
	}
}

// SendEmail sends an email using Resend API
func SendEmail(cfg *config.Config, email *Email) error {
	// In development mode, log the email instead of sending
	if cfg.EmailTestMode {
		logEmailToConsole(email)
		return nil
	}

	if cfg.ResendAPIKey == "" {
		return fmt.Errorf("RESEND_API_KEY not configured")
	}

	client := resend.NewClient(cfg.ResendAPIKey)

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", cfg.EmailFromName, cfg.EmailFrom),
		To:      email.To,
		Subject: email.Subject,
		Html:    email.HTMLBody,
		Text:    email.TextBody,
	}

	if params.Html == "" && params.Text == "" {
		return fmt.Errorf("email must have either HTMLBody or TextBody")
	}

	sent, err := client.Emails.Send(params)
	if err != nil {
		return fmt.Errorf("failed to send email via Resend: %w", err)
	}

	log.Printf("Email sent successfully via Resend (ID: %s) to: %v", sent.Id, email.To)
	return nil
}

// logEmailToConsole logs email details to console in development mode
func logEmailToConsole(email *Email) {
	separator := strings.Repeat("=", 80)
	log.Printf("\n%s\nEMAIL (test mode - not sent)\n%s", separator, separator)
	log.Printf("To: %v", email.To)
	log.Printf("Subject: %s", email.Subject)
	log.Printf("\n--- TEXT BODY ---\n%s", email.TextBody)
	log.Printf("%s\n", separator)
}

// AdminNotifier emails every active admin when a ticket is opened
type AdminNotifier struct {
	db     *gorm.DB
	appURL string
	send   EmailSender
	async  bool
}

// NewAdminNotifier sends through Resend (or the console in test mode) in a goroutine
func NewAdminNotifier(db *gorm.DB, cfg *config.Config) *AdminNotifier {
	return &AdminNotifier{
		db:     db,
		appURL: cfg.AppURL,
		send:   func(e *Email) error { return SendEmail(cfg, e) },
		async:  true,
	}
}

// NotifyNewFeedback implements FeedbackNotifier
func (n *AdminNotifier) NotifyNewFeedback(f *models.Feedback) {
	if n.async {
		go n.notify(f)
		return
	}
	n.notify(f)
}

func (n *AdminNotifier) notify(f *models.Feedback) {
	var admins []models.User
	if err := n.db.Where("papel = ? AND is_active = ?", models.RoleAdmin, true).Find(&admins).Error; err != nil {
		log.Printf("Failed to fetch admins for feedback %d notification: %v", f.ID, err)
		return
	}

	for _, admin := range admins {
		email := BuildNewFeedbackEmail(admin.Email, admin.Name, f, n.appURL)
		if err := n.send(email); err != nil {
			log.Printf("Failed to send feedback %d notification to %s: %v", f.ID, admin.Email, err)
		}
	}
}
