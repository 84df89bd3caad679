package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsValidFeedbackStatus(t *testing.T) {
	for _, s := range []string{"novo", "lido", "respondido", "resolvido"} {
		assert.True(t, IsValidFeedbackStatus(s), s)
	}
	for _, s := range []string{"", "open", "Resolvido", "fechado"} {
		assert.False(t, IsValidFeedbackStatus(s), s)
	}
}

func TestFeedbackRoom(t *testing.T) {
	f := Feedback{ID: 7}
	assert.Equal(t, "feedback_7", f.Room())
	assert.Equal(t, "feedback_42", FeedbackRoom(42))
}

func TestFeedbackIsResolved(t *testing.T) {
	f := Feedback{Status: FeedbackStatusRespondido}
	assert.False(t, f.IsResolved())
	f.Status = FeedbackStatusResolvido
	assert.True(t, f.IsResolved())
}

func TestUserLockout(t *testing.T) {
	u := User{Role: RoleAdmin}
	assert.True(t, u.IsAdmin())
	assert.False(t, u.IsLockedOut())

	future := time.Now().Add(time.Minute)
	u.LockoutUntil = &future
	assert.True(t, u.IsLockedOut())

	past := time.Now().Add(-time.Minute)
	u.LockoutUntil = &past
	assert.False(t, u.IsLockedOut())
}

func TestSessionIsExpired(t *testing.T) {
	s := Session{ExpiresAt: time.Now().Add(-time.Second)}
	assert.True(t, s.IsExpired())
	s.ExpiresAt = time.Now().Add(time.Hour)
	assert.False(t, s.IsExpired())
}
