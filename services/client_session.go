package services

import (
	"contact_flow_app_go/models"
	"context"
	"strings"
)

// RememberedSession is what the browser kept about its open ticket
type RememberedSession struct {
	FeedbackID uint   `json:"feedbackId"`
	Email      string `json:"email"`
	Token      string `json:"resumeToken"`
}

// Reasons reported by ReconcileSession
const (
	ResumeReasonNoSession     = "no_session"
	ResumeReasonInvalidToken  = "invalid_token"
	ResumeReasonNotFound      = "not_found"
	ResumeReasonEmailMismatch = "email_mismatch"
	ResumeReasonResolved      = "resolved"
)

// ResumeDecision tells the client whether to reopen the conversation.
// ClearSession asks it to forget the remembered ticket.
type ResumeDecision struct {
	Resume       bool             `json:"resume"`
	ClearSession bool             `json:"clearSession"`
	Reason       string           `json:"reason,omitempty"`
	Feedback     *models.Feedback `json:"feedback,omitempty"`
}

// FeedbackGetter is the part of FeedbackService reconciliation needs
type FeedbackGetter interface {
	GetByID(ctx context.Context, id uint) (*models.Feedback, error)
}

// ReconcileSession decides between resuming a remembered ticket and showing
// a fresh form. A remembered pair needs a valid resume token for the same
// ticket and email, a ticket that still exists with that email, and a status
// other than resolvido.
func ReconcileSession(ctx context.Context, feedbacks FeedbackGetter, issuer *ResumeTokenIssuer, r RememberedSession) ResumeDecision {
	email := strings.TrimSpace(r.Email)
	if r.FeedbackID == 0 || email == "" {
		return ResumeDecision{Reason: ResumeReasonNoSession}
	}

	claims, err := issuer.Verify(r.Token)
	if err != nil || claims.FeedbackID != r.FeedbackID || !strings.EqualFold(claims.Email, email) {
		return ResumeDecision{ClearSession: true, Reason: ResumeReasonInvalidToken}
	}

	feedback, err := feedbacks.GetByID(ctx, r.FeedbackID)
	if err != nil {
		return ResumeDecision{ClearSession: true, Reason: ResumeReasonNotFound}
	}
	if !strings.EqualFold(strings.TrimSpace(feedback.Email), email) {
		return ResumeDecision{ClearSession: true, Reason: ResumeReasonEmailMismatch}
	}
	if feedback.IsResolved() {
		return ResumeDecision{ClearSession: true, Reason: ResumeReasonResolved}
	}

	return ResumeDecision{Resume: true, Feedback: feedback}
}
