package realtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, events <-chan Envelope) Envelope {
	t.Helper()
	select {
	case envelope, ok := <-events:
		require.True(t, ok, "channel closed before envelope arrived")
		return envelope
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for envelope")
		return Envelope{}
	}
}

func TestHub_SubscribeAcknowledgesJoin(t *testing.T) {
	hub := NewHub()
	connID, events := hub.Register()
	defer hub.Deregister(connID)

	hub.Subscribe(connID, PublicGroup("acme-corp"))

	envelope := receive(t, events)
	assert.Equal(t, "joined", envelope.Event)
	assert.Equal(t, map[string]string{"room": "public_acme-corp"}, envelope.Data)
}

func TestHub_PublishReachesGroupMembersOnly(t *testing.T) {
	hub := NewHub()

	memberID, memberEvents := hub.Register()
	defer hub.Deregister(memberID)
	otherID, otherEvents := hub.Register()
	defer hub.Deregister(otherID)

	hub.Subscribe(memberID, OrganizationGroup("org-1"))
	receive(t, memberEvents) // joined ack
	hub.Subscribe(otherID, OrganizationGroup("org-2"))
	receive(t, otherEvents)

	hub.Publish(OrganizationGroup("org-1"), "service_updated", map[string]string{"id": "svc-1"})

	envelope := receive(t, memberEvents)
	assert.Equal(t, "service_updated", envelope.Event)

	select {
	case envelope := <-otherEvents:
		t.Fatalf("unexpected envelope for other tenant: %+v", envelope)
	default:
	}
}

func TestHub_PublishToEmptyGroupIsNoop(t *testing.T) {
	hub := NewHub()
	hub.Publish(PublicGroup("nobody-home"), "public_status_update", nil)
}

func TestHub_UnsubscribeStopsDelivery(t *testing.T) {
	hub := NewHub()
	connID, events := hub.Register()
	defer hub.Deregister(connID)

	group := PublicGroup("acme-corp")
	hub.Subscribe(connID, group)
	receive(t, events)

	hub.Unsubscribe(connID, group)
	hub.Publish(group, "public_status_update", nil)

	select {
	case envelope := <-events:
		t.Fatalf("unexpected envelope after unsubscribe: %+v", envelope)
	default:
	}
}

func TestHub_DeregisterClosesChannel(t *testing.T) {
	hub := NewHub()
	connID, events := hub.Register()

	hub.Deregister(connID)

	_, ok := <-events
	assert.False(t, ok, "channel should be closed")

	// Deregistering again must not panic.
	hub.Deregister(connID)
}

func TestHub_SlowSubscriberDropsInsteadOfBlocking(t *testing.T) {
	hub := NewHub()
	connID, events := hub.Register()
	defer hub.Deregister(connID)

	group := PublicGroup("acme-corp")
	hub.Subscribe(connID, group)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < sendBufferSize*2; i++ {
			hub.Publish(group, "public_status_update", i)
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}

	// Drain; the queue holds at most the buffer plus the join ack.
	count := 0
	for {
		select {
		case <-events:
			count++
		default:
			assert.LessOrEqual(t, count, sendBufferSize+1)
			return
		}
	}
}

func TestHub_CloseDropsAllConnections(t *testing.T) {
	hub := NewHub()
	_, events := hub.Register()

	hub.Close()

	_, ok := <-events
	assert.False(t, ok)

	// Registering after close hands back a closed channel.
	_, lateEvents := hub.Register()
	_, ok = <-lateEvents
	assert.False(t, ok)
}
