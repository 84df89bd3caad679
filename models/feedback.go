package models

import (
	"time"
)

// Feedback statuses. Any status may replace any other.
const (
	FeedbackStatusNovo       = "novo"
	FeedbackStatusLido       = "lido"
	FeedbackStatusRespondido = "respondido"
	FeedbackStatusResolvido  = "resolvido"
)

// FeedbackStatuses lists every accepted status in lifecycle order
var FeedbackStatuses = []string{
	FeedbackStatusNovo,
	FeedbackStatusLido,
	FeedbackStatusRespondido,
	FeedbackStatusResolvido,
}

// IsValidFeedbackStatus reports whether status is one of FeedbackStatuses
func IsValidFeedbackStatus(status string) bool {
	for _, s := range FeedbackStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// Feedback is a ticket opened through the public contact form
type Feedback struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `gorm:"column:criado_em" json:"criado_em"`
	UpdatedAt time.Time `gorm:"column:atualizado_em" json:"atualizado_em"`

	Name    string `gorm:"column:nome;not null" json:"nome"`
	Email   string `gorm:"column:email;not null;index" json:"email"`
	Phone   string `gorm:"column:telefone" json:"telefone"`
	Subject string `gorm:"column:assunto;not null" json:"assunto"`
	Message string `gorm:"column:mensagem;type:text;not null" json:"mensagem"`
	Status  string `gorm:"column:status;type:varchar(16);not null;default:novo;index" json:"status"` // novo, lido, respondido, resolvido
}

// IsResolved checks if the ticket no longer accepts messages
func (f *Feedback) IsResolved() bool {
	return f.Status == FeedbackStatusResolvido
}

// Room returns the realtime room name for this ticket
func (f *Feedback) Room() string {
	return FeedbackRoom(f.ID)
}

// TableName specifies the table name for Feedback model
func (Feedback) TableName() string {
	return "feedback"
}
