package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"valomarket/internal/domain/entity"
	"valomarket/internal/domain/repository"
	"valomarket/internal/infrastructure/ratelimit"
	ws "valomarket/internal/infrastructure/websocket"
	"valomarket/pkg/errors"
	"valomarket/pkg/logger"
)

const (
	channelHistoryLimit = 50
	conversationScan    = 500
	conversationLimit   = 50
)

// ChatUseCase runs the support channel between each user and the admins.
type ChatUseCase struct {
	chatRepo    repository.ChatRepository
	userRepo    repository.UserRepository
	notifier    Notifier
	rateLimiter *ratelimit.RateLimiter
	now         func() time.Time
}

func NewChatUseCase(
	chatRepo repository.ChatRepository,
	userRepo repository.UserRepository,
	notifier Notifier,
	rateLimiter *ratelimit.RateLimiter,
) *ChatUseCase {
	return &ChatUseCase{
		chatRepo:    chatRepo,
		userRepo:    userRepo,
		notifier:    notifier,
		rateLimiter: rateLimiter,
		now:         time.Now,
	}
}

func validateMessage(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", errors.Validation("Message must not be empty")
	}
	if utf8.RuneCountInString(text) > entity.MaxChatMessageLength {
		return "", errors.Validation(fmt.Sprintf("Message must be at most %d characters", entity.MaxChatMessageLength))
	}
	return text, nil
}

func (uc *ChatUseCase) SendUserMessage(ctx context.Context, userID, text string) (*entity.ChatMessage, error) {
	text, err := validateMessage(text)
	if err != nil {
		return nil, err
	}

	if ok, wait := uc.rateLimiter.Allow(userID, ratelimit.ActionSendMessage); !ok {
		logger.Debug("Chat rate limited: user %s must wait %v", userID, wait)
		return nil, errors.TooManyRequests(fmt.Sprintf("Sending too fast, retry in %s", wait.Round(time.Second)))
	}

	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, errors.FromStore("User", err)
	}

	msg := uc.newMessage(userID, user, text, false)
	if err := uc.chatRepo.Create(ctx, msg); err != nil {
		return nil, errors.FromStore("Message", err)
	}

	uc.notifier.NotifyAdmins(ws.MessageTypeChatMessage, msg)
	return msg, nil
}

func (uc *ChatUseCase) SendAdminMessage(ctx context.Context, adminID, userID, text string) (*entity.ChatMessage, error) {
	text, err := validateMessage(text)
	if err != nil {
		return nil, err
	}

	if _, err := uc.userRepo.GetByID(ctx, userID); err != nil {
		return nil, errors.FromStore("User", err)
	}
	if _, err := uc.userRepo.GetByID(ctx, adminID); err != nil {
		return nil, errors.FromStore("User", err)
	}

	// Users see the support desk, not the individual admin.
	desk := &entity.User{ID: entity.AdminParticipant, Username: entity.AdminSenderName}
	msg := uc.newMessage(userID, desk, text, true)
	if err := uc.chatRepo.Create(ctx, msg); err != nil {
		return nil, errors.FromStore("Message", err)
	}
	logger.Debug("Admin %s replied to %s", adminID, userID)

	uc.notifier.NotifyUser(userID, ws.MessageTypeChatMessage, msg)
	uc.notifier.NotifyAdmins(ws.MessageTypeChatMessage, msg)
	return msg, nil
}

func (uc *ChatUseCase) newMessage(channelUserID string, sender *entity.User, text string, fromAdmin bool) *entity.ChatMessage {
	return &entity.ChatMessage{
		ID:           uuid.New().String(),
		UserID:       channelUserID,
		Participants: entity.ChannelParticipants(channelUserID),
		Message:      text,
		SenderID:     sender.ID,
		SenderName:   sender.Username,
		SenderAvatar: sender.Avatar,
		IsFromAdmin:  fromAdmin,
		CreatedAt:    uc.now(),
	}
}

// Messages returns the latest messages of userID's channel, oldest first.
func (uc *ChatUseCase) Messages(ctx context.Context, userID string) ([]*entity.ChatMessage, error) {
	messages, err := uc.chatRepo.ListByUser(ctx, userID, channelHistoryLimit)
	if err != nil {
		return nil, errors.FromStore("Message", err)
	}
	return messages, nil
}

// UnreadForUser counts admin messages the user has not read.
func (uc *ChatUseCase) UnreadForUser(ctx context.Context, userID string) (int64, error) {
	n, err := uc.chatRepo.CountUnread(ctx, userID, true)
	if err != nil {
		return 0, errors.FromStore("Message", err)
	}
	return n, nil
}

// MarkReadByUser flags admin messages in the user's channel as read.
func (uc *ChatUseCase) MarkReadByUser(ctx context.Context, userID string) (int, error) {
	n, err := uc.chatRepo.MarkRead(ctx, userID, true)
	if err != nil {
		return 0, errors.FromStore("Message", err)
	}
	return n, nil
}

// MarkReadByAdmin flags the user's own messages as read.
func (uc *ChatUseCase) MarkReadByAdmin(ctx context.Context, userID string) (int, error) {
	n, err := uc.chatRepo.MarkRead(ctx, userID, false)
	if err != nil {
		return 0, errors.FromStore("Message", err)
	}
	return n, nil
}

// Conversations groups recent messages per user channel, newest first.
func (uc *ChatUseCase) Conversations(ctx context.Context) ([]*entity.Conversation, error) {
	recent, err := uc.chatRepo.ListRecent(ctx, conversationScan)
	if err != nil {
		return nil, errors.FromStore("Message", err)
	}

	seen := make(map[string]bool)
	conversations := make([]*entity.Conversation, 0)
	for _, msg := range recent {
		if seen[msg.UserID] {
			continue
		}
		seen[msg.UserID] = true

		conv := &entity.Conversation{
			UserID:        msg.UserID,
			LastMessage:   msg.Message,
			LastMessageAt: msg.CreatedAt,
		}

		if user, err := uc.userRepo.GetByID(ctx, msg.UserID); err == nil {
			conv.Username = user.Username
			conv.Avatar = user.Avatar
		} else if !errors.Is(err, errors.CodeNotFound) {
			return nil, errors.FromStore("User", err)
		}

		unread, err := uc.chatRepo.CountUnread(ctx, msg.UserID, false)
		if err != nil {
			return nil, errors.FromStore("Message", err)
		}
		conv.UnreadCount = int(unread)

		conversations = append(conversations, conv)
		if len(conversations) == conversationLimit {
			break
		}
	}

	return conversations, nil
}
