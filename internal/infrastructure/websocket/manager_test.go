package websocket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, c *Client) WSMessage {
	t.Helper()
	select {
	case raw, ok := <-c.Send:
		require.True(t, ok, "send channel closed")
		var msg WSMessage
		require.NoError(t, json.Unmarshal(raw, &msg))
		return msg
	case <-time.After(time.Second):
		t.Fatal("no message received")
		return WSMessage{}
	}
}

func TestManagerRoutesToUsersAndAdmins(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := NewManager()
	m.Start(ctx)

	userA1 := NewClient("a", false, nil)
	userA2 := NewClient("a", false, nil)
	userB := NewClient("b", false, nil)
	admin := NewClient("root", true, nil)
	for _, c := range []*Client{userA1, userA2, userB, admin} {
		m.Register <- c
	}

	require.Eventually(t, func() bool { return m.Connections("a") == 2 }, time.Second, 10*time.Millisecond)

	m.NotifyUser("a", MessageTypeChatMessage, map[string]string{"message": "hi"})
	assert.Equal(t, MessageTypeChatMessage, receive(t, userA1).Type)
	assert.Equal(t, MessageTypeChatMessage, receive(t, userA2).Type)
	assert.Len(t, userB.Send, 0)
	assert.Len(t, admin.Send, 0)

	m.NotifyAdmins(MessageTypeChatMessage, map[string]string{"message": "help"})
	assert.Equal(t, MessageTypeChatMessage, receive(t, admin).Type)
	assert.Len(t, userA1.Send, 0)

	m.Unregister <- userA1
	require.Eventually(t, func() bool { return m.Connections("a") == 1 }, time.Second, 10*time.Millisecond)
	_, ok := <-userA1.Send
	assert.False(t, ok)
}

func TestHandleClientMessage(t *testing.T) {
	m := NewManager()
	c := NewClient("a", false, nil)
	m.add(c)

	m.HandleClientMessage(c, []byte(`{"type":"ping"}`))
	assert.Equal(t, MessageTypePong, receive(t, c).Type)

	m.HandleClientMessage(c, []byte(`{"type":"teleport"}`))
	assert.Equal(t, MessageTypeError, receive(t, c).Type)

	m.HandleClientMessage(c, []byte(`not json`))
	assert.Equal(t, MessageTypeError, receive(t, c).Type)
}
