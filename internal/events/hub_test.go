package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"checkin-backend/internal/models"
)

func TestPublish_NoClients(t *testing.T) {
	hub := NewHub()
	// Must not block or panic with nobody listening
	hub.Publish(models.CheckedInEvent{EventID: "e1", OrgID: 1})
	assert.Equal(t, 0, hub.ClientCount())
}

func TestPublish_FiltersByOrg(t *testing.T) {
	hub := NewHub()
	mine := &client{orgID: 1, send: make(chan models.CheckedInEvent, clientBuffer)}
	other := &client{orgID: 2, send: make(chan models.CheckedInEvent, clientBuffer)}
	hub.clients[mine] = struct{}{}
	hub.clients[other] = struct{}{}

	hub.Publish(models.CheckedInEvent{EventID: "e1", OrgID: 1})

	require.Len(t, mine.send, 1)
	got := <-mine.send
	assert.Equal(t, "e1", got.EventID)
	assert.Empty(t, other.send)
}

func TestPublish_DropsWhenClientBufferFull(t *testing.T) {
	hub := NewHub()
	slow := &client{orgID: 1, send: make(chan models.CheckedInEvent)} // unbuffered, nobody reading
	hub.clients[slow] = struct{}{}

	done := make(chan struct{})
	go func() {
		hub.Publish(models.CheckedInEvent{EventID: "e1", OrgID: 1})
		close(done)
	}()
	<-done // Publish returned without a reader; the event was dropped
	assert.Empty(t, slow.send)
}
