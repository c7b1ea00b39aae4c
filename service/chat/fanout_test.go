package chat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recvPayload(t *testing.T, c *Client) []byte {
	t.Helper()
	select {
	case p := <-c.Send:
		return p
	case <-time.After(2 * time.Second):
		t.Fatal("no payload arrived")
		return nil
	}
}

func TestEnqueueAfterCloseSend(t *testing.T) {
	c := NewClient("conn-1", nil, 4)
	c.CloseSend()

	assert.NotPanics(t, func() { c.Enqueue([]byte("late")) })

	_, open := <-c.Send
	assert.False(t, open)
}

func TestCloseSendTwice(t *testing.T) {
	c := NewClient("conn-1", nil, 4)
	assert.NotPanics(t, func() {
		c.CloseSend()
		c.CloseSend()
	})
}

// A member can be torn down between the membership snapshot and the
// worker delivering to it. The worker must survive that and keep
// serving later broadcasts.
func TestFanoutSurvivesTornDownMember(t *testing.T) {
	f := NewFanout(1, 16)
	stale := NewClient("conn-stale", nil, 4)
	live := NewClient("conn-live", nil, 4)
	stale.CloseSend()

	f.Broadcast([]*Client{stale, live}, []byte("first"))
	assert.Equal(t, []byte("first"), recvPayload(t, live))

	f.Broadcast([]*Client{live}, []byte("second"))
	assert.Equal(t, []byte("second"), recvPayload(t, live))
}

func TestEnqueueDropsWhenQueueFull(t *testing.T) {
	c := NewClient("conn-1", nil, 1)
	c.Enqueue([]byte("first"))
	c.Enqueue([]byte("overflow"))

	require.Equal(t, []byte("first"), <-c.Send)
	select {
	case p := <-c.Send:
		t.Fatalf("unexpected payload: %s", p)
	default:
	}
}
