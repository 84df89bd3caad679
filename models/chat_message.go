package models

import (
	"fmt"
	"time"
)

// Chat senders
const (
	SenderUsuario = "usuario"
	SenderAdmin   = "admin"
)

// ChatMessage is one line of the conversation attached to a Feedback.
// FeedbackID is indexed but not declared as a foreign key.
type ChatMessage struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	FeedbackID uint      `gorm:"column:feedback_id;not null;index" json:"feedback_id"`
	Sender     string    `gorm:"column:remetente;type:varchar(16);not null" json:"remetente"` // usuario, admin
	Body       string    `gorm:"column:mensagem;type:text;not null" json:"mensagem"`
	SentAt     time.Time `gorm:"column:data;autoCreateTime;index" json:"data"`
	Read       bool      `gorm:"column:lida;not null;default:false" json:"lida"`
}

// TableName specifies the table name for ChatMessage model
func (ChatMessage) TableName() string {
	return "mensagens_chat"
}

// FeedbackRoom is the relay room shared by everyone following a ticket
func FeedbackRoom(feedbackID uint) string {
	return fmt.Sprintf("feedback_%d", feedbackID)
}
