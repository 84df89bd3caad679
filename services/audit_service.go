package services

import (
	"contact_flow_app_go/models"
	"context"
	"encoding/json"
	"log"

	"gorm.io/gorm"
)

// AuditContext contains contextual information for audit logging
type AuditContext struct {
	UserID    uint
	UserName  string
	UserRole  string
	IPAddress string
	UserAgent string
}

// AuditEntry describes one admin action on a resource
type AuditEntry struct {
	Action       models.AuditAction
	ResourceType string
	ResourceID   string
	ResourceName string
	Description  string
	OldValues    interface{}
	NewValues    interface{}
}

// AuditLogger persists audit entries without blocking the request
type AuditLogger struct {
	db    *gorm.DB
	async bool
}

func NewAuditLogger(db *gorm.DB) *AuditLogger {
	return &AuditLogger{db: db, async: true}
}

// LogAuditEvent records entry on behalf of actor
func (l *AuditLogger) LogAuditEvent(actor AuditContext, entry AuditEntry) {
	if l.async {
		go l.write(actor, entry)
		return
	}
	l.write(actor, entry)
}

func (l *AuditLogger) write(actor AuditContext, entry AuditEntry) {
	var oldJSON, newJSON string
	if entry.OldValues != nil {
		if bytes, err := json.Marshal(entry.OldValues); err == nil {
			oldJSON = string(bytes)
		}
	}
	if entry.NewValues != nil {
		if bytes, err := json.Marshal(entry.NewValues); err == nil {
			newJSON = string(bytes)
		}
	}

	auditLog := models.AuditLog{
		UserName:     actor.UserName,
		UserRole:     actor.UserRole,
		ResourceType: entry.ResourceType,
		ResourceID:   entry.ResourceID,
		ResourceName: entry.ResourceName,
		Action:       entry.Action,
		Description:  entry.Description,
		OldValues:    oldJSON,
		NewValues:    newJSON,
		IPAddress:    actor.IPAddress,
		UserAgent:    actor.UserAgent,
	}
	if actor.UserID != 0 {
		id := actor.UserID
		auditLog.UserID = &id
	}

	if err := l.db.Create(&auditLog).Error; err != nil {
		log.Printf("[AUDIT] Failed to create audit log: %v", err)
	}
}

// ResourceHistory returns the audit trail of one resource, newest first
func (l *AuditLogger) ResourceHistory(ctx context.Context, resourceType, resourceID string) ([]models.AuditLog, error) {
	logs := []models.AuditLog{}
	err := l.db.WithContext(ctx).
		Where("resource_type = ? AND resource_id = ?", resourceType, resourceID).
		Order("created_at DESC").
		Find(&logs).Error
	return logs, err
}
