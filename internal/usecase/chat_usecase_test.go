package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"valomarket/internal/domain/entity"
	"valomarket/internal/infrastructure/ratelimit"
	ws "valomarket/internal/infrastructure/websocket"
	"valomarket/internal/usecase/mocks"
	"valomarket/pkg/errors"
)

func newChatFixture(t *testing.T) (*fixture, *mocks.MockNotifier, *ChatUseCase) {
	ctrl := gomock.NewController(t)
	f := newFixture(t)
	notifier := mocks.NewMockNotifier(ctrl)
	chat := NewChatUseCase(f.store.Chats(), f.store.Users(), notifier, ratelimit.NewRateLimiter())
	chat.now = func() time.Time {
		f.tick()
		return f.clock
	}
	return f, notifier, chat
}

func TestChatChannel(t *testing.T) {
	ctx := context.Background()
	f, notifier, chat := newChatFixture(t)
	f.seedUser(t, "u1", 0)
	f.seedAdmin(t, "root")

	notifier.EXPECT().NotifyAdmins(ws.MessageTypeChatMessage, gomock.Any()).Times(3)
	notifier.EXPECT().NotifyUser("u1", ws.MessageTypeChatMessage, gomock.Any()).Times(1)

	_, err := chat.SendUserMessage(ctx, "u1", "hello, my purchase is missing")
	require.NoError(t, err)
	reply, err := chat.SendAdminMessage(ctx, "root", "u1", "checking now")
	require.NoError(t, err)
	assert.True(t, reply.IsFromAdmin)
	assert.Equal(t, []string{"u1", entity.AdminParticipant}, reply.Participants)
	assert.Equal(t, entity.AdminParticipant, reply.SenderID)
	assert.Equal(t, entity.AdminSenderName, reply.SenderName)
	_, err = chat.SendUserMessage(ctx, "u1", "thanks")
	require.NoError(t, err)

	messages, err := chat.Messages(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, messages, 3)
	assert.Equal(t, "hello, my purchase is missing", messages[0].Message)
	assert.Equal(t, "thanks", messages[2].Message)

	unread, err := chat.UnreadForUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread)

	n, err := chat.MarkReadByUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	unread, _ = chat.UnreadForUser(ctx, "u1")
	assert.Zero(t, unread)

	convs, err := chat.Conversations(ctx)
	require.NoError(t, err)
	require.Len(t, convs, 1)
	assert.Equal(t, "u1", convs[0].UserID)
	assert.Equal(t, "thanks", convs[0].LastMessage)
	assert.Equal(t, 2, convs[0].UnreadCount)

	n, err = chat.MarkReadByAdmin(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestChatValidation(t *testing.T) {
	ctx := context.Background()
	f, _, chat := newChatFixture(t)
	f.seedUser(t, "u1", 0)

	_, err := chat.SendUserMessage(ctx, "u1", "   ")
	assert.True(t, errors.Is(err, errors.CodeValidation))

	_, err = chat.SendUserMessage(ctx, "u1", strings.Repeat("ก", entity.MaxChatMessageLength+1))
	assert.True(t, errors.Is(err, errors.CodeValidation))

	_, err = chat.SendAdminMessage(ctx, "u1", "ghost", "hi")
	assert.True(t, errors.Is(err, errors.CodeNotFound))
}

func TestChatRateLimit(t *testing.T) {
	ctx := context.Background()
	f, notifier, chat := newChatFixture(t)
	f.seedUser(t, "u1", 0)

	notifier.EXPECT().NotifyAdmins(gomock.Any(), gomock.Any()).AnyTimes()

	for i := 0; i < 10; i++ {
		_, err := chat.SendUserMessage(ctx, "u1", "spam")
		require.NoError(t, err)
	}
	_, err := chat.SendUserMessage(ctx, "u1", "spam")
	assert.True(t, errors.Is(err, errors.CodeTooManyRequests))
}

func TestChatHistoryKeepsLatest(t *testing.T) {
	ctx := context.Background()
	f, notifier, chat := newChatFixture(t)
	f.seedUser(t, "u1", 0)
	f.seedAdmin(t, "root")

	notifier.EXPECT().NotifyUser(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	notifier.EXPECT().NotifyAdmins(gomock.Any(), gomock.Any()).AnyTimes()

	for i := 0; i < channelHistoryLimit+5; i++ {
		_, err := chat.SendAdminMessage(ctx, "root", "u1", "msg")
		require.NoError(t, err)
	}
	last, err := chat.SendAdminMessage(ctx, "root", "u1", "latest")
	require.NoError(t, err)

	messages, err := chat.Messages(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, messages, channelHistoryLimit)
	assert.Equal(t, last.ID, messages[len(messages)-1].ID)
	assert.True(t, messages[0].CreatedAt.Before(messages[1].CreatedAt))
}
