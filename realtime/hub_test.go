package realtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func receive(t *testing.T, c *Client) (Frame, bool) {
	t.Helper()
	select {
	case f := <-c.Send():
		return f, true
	default:
		return Frame{}, false
	}
}

func TestHubBroadcastReachesRoomMembers(t *testing.T) {
	hub := NewHub()
	a := NewClient(4)
	b := NewClient(4)
	outsider := NewClient(4)

	hub.Join(7, a)
	hub.Join(7, b)
	hub.Join(8, outsider)
	assert.Equal(t, 2, hub.RoomSize(7))

	hub.Broadcast(7, EventNewMessage, map[string]interface{}{"feedback_id": 7})

	for _, c := range []*Client{a, b} {
		f, ok := receive(t, c)
		assert.True(t, ok)
		assert.Equal(t, EventNewMessage, f.Event)
	}
	_, ok := receive(t, outsider)
	assert.False(t, ok, "clients of other rooms must not receive the event")
}

func TestHubLeave(t *testing.T) {
	hub := NewHub()
	a := NewClient(4)

	hub.Join(7, a)
	hub.Leave(7, a)
	assert.Equal(t, 0, hub.RoomSize(7))

	hub.Broadcast(7, EventFeedbackResolved, map[string]uint{"feedbackId": 7})
	_, ok := receive(t, a)
	assert.False(t, ok)

	// Leaving a room never joined is a no-op
	hub.Leave(99, a)
}

func TestHubLeaveAll(t *testing.T) {
	hub := NewHub()
	a := NewClient(4)
	b := NewClient(4)

	hub.Join(1, a)
	hub.Join(2, a)
	hub.Join(2, b)

	hub.LeaveAll(a)
	assert.Equal(t, 0, hub.RoomSize(1))
	assert.Equal(t, 1, hub.RoomSize(2))
}

func TestHubNoReplayForLateJoiners(t *testing.T) {
	hub := NewHub()
	early := NewClient(4)
	hub.Join(3, early)

	hub.Broadcast(3, EventNewMessage, "first")

	late := NewClient(4)
	hub.Join(3, late)

	_, ok := receive(t, late)
	assert.False(t, ok, "events are never replayed")
	_, ok = receive(t, early)
	assert.True(t, ok)
}

func TestHubDropsWhenBufferFull(t *testing.T) {
	hub := NewHub()
	slow := NewClient(1)
	hub.Join(5, slow)

	hub.Broadcast(5, EventNewMessage, "one")
	hub.Broadcast(5, EventNewMessage, "two")

	f, ok := receive(t, slow)
	assert.True(t, ok)
	assert.Equal(t, "one", f.Data)
	_, ok = receive(t, slow)
	assert.False(t, ok)
}

func TestHubSkipsClosedClients(t *testing.T) {
	hub := NewHub()
	c := NewClient(2)
	hub.Join(4, c)
	c.Close()
	c.Close()

	hub.Broadcast(4, EventNewMessage, "ignored")
	_, ok := receive(t, c)
	assert.False(t, ok)
}

func TestNewClientDefaults(t *testing.T) {
	a := NewClient(0)
	b := NewClient(-1)
	assert.Equal(t, DefaultClientBuffer, cap(a.send))
	assert.NotEqual(t, a.ID, b.ID)
}
