package repository

import (
	"context"

	"valomarket/internal/domain/entity"
)

type ChatRepository interface {
	Create(ctx context.Context, message *entity.ChatMessage) error
	// ListByUser returns the latest limit messages of a channel in ascending time order.
	ListByUser(ctx context.Context, userID string, limit int) ([]*entity.ChatMessage, error)
	// ListRecent returns the latest messages across all channels, newest first.
	ListRecent(ctx context.Context, limit int) ([]*entity.ChatMessage, error)
	// MarkRead flags unread messages of a channel whose IsFromAdmin equals fromAdmin.
	MarkRead(ctx context.Context, userID string, fromAdmin bool) (int, error)
	CountUnread(ctx context.Context, userID string, fromAdmin bool) (int64, error)
}
