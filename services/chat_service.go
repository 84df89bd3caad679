package services

import (
	"contact_flow_app_go/models"
	"contact_flow_app_go/realtime"
	"context"
	"fmt"

	"gorm.io/gorm"
)

// ChatService appends messages to a ticket and pushes them to its room
type ChatService struct {
	db    *gorm.DB
	relay realtime.Broadcaster
}

func NewChatService(db *gorm.DB, relay realtime.Broadcaster) *ChatService {
	return &ChatService{db: db, relay: relay}
}

// History returns the ticket's messages in send order
func (s *ChatService) History(ctx context.Context, feedbackID uint) ([]models.ChatMessage, error) {
	if err := s.ensureFeedback(ctx, feedbackID, nil); err != nil {
		return nil, err
	}

	messages := []models.ChatMessage{}
	err := s.db.WithContext(ctx).
		Where("feedback_id = ?", feedbackID).
		Order("data ASC").Order("id ASC").
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load messages of feedback %d: %w", feedbackID, err)
	}
	return messages, nil
}

// Send stores a message and broadcasts nova_mensagem. Rejected sends are
// never broadcast.
func (s *ChatService) Send(ctx context.Context, feedbackID uint, sender, body string) (*models.ChatMessage, error) {
	body = SanitizeText(body)
	if body == "" {
		return nil, ErrEmptyBody
	}
	if sender != models.SenderAdmin {
		sender = models.SenderUsuario
	}

	var feedback models.Feedback
	if err := s.ensureFeedback(ctx, feedbackID, &feedback); err != nil {
		return nil, err
	}
	if feedback.IsResolved() {
		return nil, ErrFeedbackResolved
	}

	msg := &models.ChatMessage{
		FeedbackID: feedbackID,
		Sender:     sender,
		Body:       body,
	}
	if err := s.db.WithContext(ctx).Create(msg).Error; err != nil {
		return nil, fmt.Errorf("failed to store message for feedback %d: %w", feedbackID, err)
	}

	s.relay.Broadcast(feedbackID, realtime.EventNewMessage, msg)
	return msg, nil
}

func (s *ChatService) ensureFeedback(ctx context.Context, feedbackID uint, dest *models.Feedback) error {
	if dest == nil {
		dest = &models.Feedback{}
	}
	result := s.db.WithContext(ctx).Limit(1).Find(dest, feedbackID)
	if result.Error != nil {
		return fmt.Errorf("failed to load feedback %d: %w", feedbackID, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrFeedbackNotFound
	}
	return nil
}
