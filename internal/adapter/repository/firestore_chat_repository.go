package repository

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"

	"valomarket/internal/domain/entity"
	"valomarket/internal/domain/repository"
	"valomarket/pkg/errors"
)

type firestoreChatRepository struct {
	client *firestore.Client
}

func NewFirestoreChatRepository(client *firestore.Client) repository.ChatRepository {
	return &firestoreChatRepository{
		client: client,
	}
}

func (r *firestoreChatRepository) Create(ctx context.Context, message *entity.ChatMessage) error {
	if message.ID == "" {
		message.ID = uuid.New().String()
	}

	_, err := r.client.Collection(chatsCollection).Doc(message.ID).Set(ctx, message)
	return errors.FromStore("Message", err)
}

func (r *firestoreChatRepository) channel(userID string) firestore.Query {
	return r.client.Collection(chatsCollection).Where("participants", "array-contains", userID)
}

func (r *firestoreChatRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*entity.ChatMessage, error) {
	query := paginate(r.channel(userID).OrderBy("createdAt", firestore.Desc), limit, 0)

	messages, err := collect[entity.ChatMessage](query.Documents(ctx), "Message")
	if err != nil {
		return nil, err
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

func (r *firestoreChatRepository) ListRecent(ctx context.Context, limit int) ([]*entity.ChatMessage, error) {
	query := r.client.Collection(chatsCollection).OrderBy("createdAt", firestore.Desc)
	return collect[entity.ChatMessage](paginate(query, limit, 0).Documents(ctx), "Message")
}

func (r *firestoreChatRepository) unread(userID string, fromAdmin bool) firestore.Query {
	return r.channel(userID).
		Where("isFromAdmin", "==", fromAdmin).
		Where("read", "==", false)
}

func (r *firestoreChatRepository) MarkRead(ctx context.Context, userID string, fromAdmin bool) (int, error) {
	docs, err := r.unread(userID, fromAdmin).Documents(ctx).GetAll()
	if err != nil {
		return 0, errors.FromStore("Message", err)
	}
	if len(docs) == 0 {
		return 0, nil
	}

	writer := r.client.BulkWriter(ctx)
	jobs := make([]*firestore.BulkWriterJob, 0, len(docs))
	for _, doc := range docs {
		job, err := writer.Update(doc.Ref, []firestore.Update{{Path: "read", Value: true}})
		if err != nil {
			writer.End()
			return 0, errors.FromStore("Message", err)
		}
		jobs = append(jobs, job)
	}
	writer.End()

	marked := 0
	for _, job := range jobs {
		if _, err := job.Results(); err != nil {
			return marked, errors.FromStore("Message", err)
		}
		marked++
	}
	return marked, nil
}

func (r *firestoreChatRepository) CountUnread(ctx context.Context, userID string, fromAdmin bool) (int64, error) {
	return count(ctx, r.unread(userID, fromAdmin), "Message")
}
