package services

import (
	"contact_flow_app_go/models"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatService_Send(t *testing.T) {
	ctx := context.Background()

	t.Run("stores and broadcasts", func(t *testing.T) {
		db := setupFeedbackTestDB(t)
		relay := &recordingRelay{}
		svc := NewChatService(db, relay)
		f := seedFeedback(t, db, models.FeedbackStatusNovo)

		msg, err := svc.Send(ctx, f.ID, models.SenderUsuario, "  Olá, preciso de ajuda  ")
		require.NoError(t, err)
		assert.NotZero(t, msg.ID)
		assert.Equal(t, "Olá, preciso de ajuda", msg.Body)
		assert.False(t, msg.SentAt.IsZero())

		events := relay.Events()
		require.Len(t, events, 1)
		assert.Equal(t, f.ID, events[0].FeedbackID)
		assert.Equal(t, "nova_mensagem", events[0].Event)
		assert.Equal(t, msg, events[0].Payload)
	})

	t.Run("unknown senders post as usuario", func(t *testing.T) {
		db := setupFeedbackTestDB(t)
		svc := NewChatService(db, &recordingRelay{})
		f := seedFeedback(t, db, models.FeedbackStatusNovo)

		msg, err := svc.Send(ctx, f.ID, "sistema", "oi")
		require.NoError(t, err)
		assert.Equal(t, models.SenderUsuario, msg.Sender)

		msg, err = svc.Send(ctx, f.ID, models.SenderAdmin, "olá")
		require.NoError(t, err)
		assert.Equal(t, models.SenderAdmin, msg.Sender)
	})

	t.Run("rejected sends are not broadcast", func(t *testing.T) {
		db := setupFeedbackTestDB(t)
		relay := &recordingRelay{}
		svc := NewChatService(db, relay)
		open := seedFeedback(t, db, models.FeedbackStatusLido)
		resolved := seedFeedback(t, db, models.FeedbackStatusResolvido)

		_, err := svc.Send(ctx, open.ID, models.SenderUsuario, "   ")
		assert.ErrorIs(t, err, ErrEmptyBody)

		_, err = svc.Send(ctx, open.ID, models.SenderUsuario, "<p></p>")
		assert.ErrorIs(t, err, ErrEmptyBody)

		_, err = svc.Send(ctx, 999, models.SenderUsuario, "oi")
		assert.ErrorIs(t, err, ErrFeedbackNotFound)

		_, err = svc.Send(ctx, resolved.ID, models.SenderUsuario, "oi")
		assert.ErrorIs(t, err, ErrFeedbackResolved)

		assert.Empty(t, relay.Events())
		var count int64
		db.Model(&models.ChatMessage{}).Count(&count)
		assert.Zero(t, count)
	})
}

func TestChatService_History(t *testing.T) {
	db := setupFeedbackTestDB(t)
	svc := NewChatService(db, &recordingRelay{})
	ctx := context.Background()

	f := seedFeedback(t, db, models.FeedbackStatusNovo)
	other := seedFeedback(t, db, models.FeedbackStatusNovo)

	for _, body := range []string{"primeira", "segunda", "terceira"} {
		_, err := svc.Send(ctx, f.ID, models.SenderUsuario, body)
		require.NoError(t, err)
	}
	_, err := svc.Send(ctx, other.ID, models.SenderUsuario, "outra")
	require.NoError(t, err)

	messages, err := svc.History(ctx, f.ID)
	require.NoError(t, err)
	require.Len(t, messages, 3)
	assert.Equal(t, "primeira", messages[0].Body)
	assert.Equal(t, "terceira", messages[2].Body)

	empty := seedFeedback(t, db, models.FeedbackStatusNovo)
	messages, err = svc.History(ctx, empty.ID)
	require.NoError(t, err)
	assert.NotNil(t, messages)
	assert.Empty(t, messages)

	_, err = svc.History(ctx, 999)
	assert.ErrorIs(t, err, ErrFeedbackNotFound)
}
