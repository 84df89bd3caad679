package services

import (
	"contact_flow_app_go/models"
	"contact_flow_app_go/realtime"
	"context"
	"errors"
	"fmt"
	"log"
	"net/mail"
	"strings"
	"time"

	"gorm.io/gorm"
)

// FeedbackNotifier is told about every newly created ticket
type FeedbackNotifier interface {
	NotifyNewFeedback(f *models.Feedback)
}

// TranscriptArchiver stores the conversation of a resolved ticket and
// removes it when the ticket is deleted
type TranscriptArchiver interface {
	ArchiveAsync(feedbackID uint)
	Purge(ctx context.Context, feedbackID uint) error
}

// CreateFeedbackInput is the public contact form
type CreateFeedbackInput struct {
	Name    string `json:"nome"`
	Email   string `json:"email"`
	Phone   string `json:"telefone"`
	Subject string `json:"assunto"`
	Message string `json:"mensagem"`
}

// FeedbackFilter narrows admin listings
type FeedbackFilter struct {
	Status string
	Limit  int
	Offset int
}

// FeedbackService owns the ticket store and its status transitions
type FeedbackService struct {
	db       *gorm.DB
	relay    realtime.Broadcaster
	notifier FeedbackNotifier   // optional
	archiver TranscriptArchiver // optional
}

// NewFeedbackService wires the store to the relay. notifier and archiver may be nil.
func NewFeedbackService(db *gorm.DB, relay realtime.Broadcaster, notifier FeedbackNotifier, archiver TranscriptArchiver) *FeedbackService {
	return &FeedbackService{db: db, relay: relay, notifier: notifier, archiver: archiver}
}

// Create validates the contact form and stores a new ticket in status novo
func (s *FeedbackService) Create(ctx context.Context, in CreateFeedbackInput) (*models.Feedback, error) {
	feedback := &models.Feedback{
		Name:    SanitizeText(in.Name),
		Email:   strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:   SanitizeText(in.Phone),
		Subject: SanitizeText(in.Subject),
		Message: SanitizeText(in.Message),
		Status:  models.FeedbackStatusNovo,
	}

	fields := make(map[string]string)
	if feedback.Name == "" {
		fields["nome"] = "obrigatório"
	}
	if feedback.Email == "" {
		fields["email"] = "obrigatório"
	} else if addr, err := mail.ParseAddress(feedback.Email); err != nil {
		fields["email"] = "inválido"
	} else {
		// "Name <addr>" keeps only the address
		feedback.Email = strings.ToLower(addr.Address)
	}
	if feedback.Subject == "" {
		fields["assunto"] = "obrigatório"
	}
	if feedback.Message == "" {
		fields["mensagem"] = "obrigatório"
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	if err := s.db.WithContext(ctx).Create(feedback).Error; err != nil {
		return nil, fmt.Errorf("failed to create feedback: %w", err)
	}

	if s.notifier != nil {
		s.notifier.NotifyNewFeedback(feedback)
	}

	return feedback, nil
}

// GetByID loads one ticket
func (s *FeedbackService) GetByID(ctx context.Context, id uint) (*models.Feedback, error) {
	var f models.Feedback
	if err := s.db.WithContext(ctx).First(&f, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFeedbackNotFound
		}
		return nil, err
	}
	return &f, nil
}

// List returns tickets newest first together with the unpaginated total
func (s *FeedbackService) List(ctx context.Context, filter FeedbackFilter) ([]models.Feedback, int64, error) {
	var items []models.Feedback
	var total int64

	tx := s.db.WithContext(ctx).Model(&models.Feedback{})
	if filter.Status != "" && filter.Status != "all" {
		if !models.IsValidFeedbackStatus(filter.Status) {
			return nil, 0, ErrInvalidStatus
		}
		tx = tx.Where("status = ?", filter.Status)
	}

	// Count total before pagination
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if filter.Limit > 0 {
		tx = tx.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		tx = tx.Offset(filter.Offset)
	}
	if err := tx.Order("criado_em DESC").Order("id DESC").Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// UpdateStatus applies a status change. Any status may follow any other.
// Moving to resolvido notifies the ticket's room and archives the transcript.
func (s *FeedbackService) UpdateStatus(ctx context.Context, id uint, status string) (*models.Feedback, error) {
	if !models.IsValidFeedbackStatus(status) {
		return nil, ErrInvalidStatus
	}

	feedback, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"status":        status,
		"atualizado_em": time.Now(),
	}
	if err := s.db.WithContext(ctx).Model(feedback).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update feedback %d: %w", id, err)
	}

	// Re-fetch so the caller sees what was persisted
	updated, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if status == models.FeedbackStatusResolvido {
		s.relay.Broadcast(id, realtime.EventFeedbackResolved, map[string]uint{"feedbackId": id})
		log.Printf("Feedback %d marked as resolved", id)
		if s.archiver != nil {
			s.archiver.ArchiveAsync(id)
		}
	}

	return updated, nil
}

// Delete removes a ticket, its conversation and any archived transcript
func (s *FeedbackService) Delete(ctx context.Context, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&models.Feedback{}, id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete feedback %d: %w", id, result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrFeedbackNotFound
		}
		if err := tx.Where("feedback_id = ?", id).Delete(&models.ChatMessage{}).Error; err != nil {
			return fmt.Errorf("failed to delete messages of feedback %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	// The row is gone; a storage failure only leaves an orphaned file behind
	if s.archiver != nil {
		if err := s.archiver.Purge(ctx, id); err != nil {
			log.Printf("[TRANSCRIPT] %v", err)
		}
	}
	return nil
}
