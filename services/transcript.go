package services

import (
	"bytes"
	"contact_flow_app_go/models"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"gorm.io/gorm"
)

// Transcript is the archived form of a resolved ticket
type Transcript struct {
	Feedback   models.Feedback      `json:"feedback"`
	Messages   []models.ChatMessage `json:"mensagens"`
	ArchivedAt time.Time            `json:"archivedAt"`
}

// TranscriptService writes ticket conversations to storage
type TranscriptService struct {
	db      *gorm.DB
	storage StorageProvider
	timeout time.Duration
}

func NewTranscriptService(db *gorm.DB, storage StorageProvider) *TranscriptService {
	return &TranscriptService{db: db, storage: storage, timeout: 30 * time.Second}
}

// Archive stores the ticket and its messages as JSON under GenerateTranscriptKey
func (s *TranscriptService) Archive(ctx context.Context, feedbackID uint) (*StorageResult, error) {
	var t Transcript
	if err := s.db.WithContext(ctx).First(&t.Feedback, feedbackID).Error; err != nil {
		return nil, fmt.Errorf("failed to load feedback %d: %w", feedbackID, err)
	}
	t.Messages = []models.ChatMessage{}
	err := s.db.WithContext(ctx).
		Where("feedback_id = ?", feedbackID).
		Order("data ASC").Order("id ASC").
		Find(&t.Messages).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load messages of feedback %d: %w", feedbackID, err)
	}
	t.ArchivedAt = time.Now()

	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode transcript: %w", err)
	}

	return s.storage.UploadReader(ctx, bytes.NewReader(data), GenerateTranscriptKey(feedbackID), "application/json", int64(len(data)))
}

// ArchiveAsync implements TranscriptArchiver. Failures are only logged.
func (s *TranscriptService) ArchiveAsync(feedbackID uint) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		result, err := s.Archive(ctx, feedbackID)
		if err != nil {
			log.Printf("[TRANSCRIPT] Failed to archive feedback %d: %v", feedbackID, err)
			return
		}
		log.Printf("[TRANSCRIPT] Archived feedback %d (%d bytes) at %s", feedbackID, result.FileSize, result.Key)
	}()
}

// Open streams the archived transcript of a ticket
func (s *TranscriptService) Open(ctx context.Context, feedbackID uint) (io.ReadCloser, string, error) {
	reader, contentType, err := s.storage.Get(ctx, GenerateTranscriptKey(feedbackID))
	if err != nil {
		if errors.Is(err, ErrObjectNotFound) {
			return nil, "", ErrTranscriptNotFound
		}
		return nil, "", err
	}
	return reader, contentType, nil
}

// Purge implements TranscriptArchiver. A ticket that was never archived is not an error.
func (s *TranscriptService) Purge(ctx context.Context, feedbackID uint) error {
	if err := s.storage.Delete(ctx, GenerateTranscriptKey(feedbackID)); err != nil {
		return fmt.Errorf("failed to purge transcript of feedback %d: %w", feedbackID, err)
	}
	return nil
}
