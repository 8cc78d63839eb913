package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"valomarket/internal/domain/entity"
	"valomarket/internal/domain/repository"
	"valomarket/pkg/errors"
)

type firestoreUserRepository struct {
	client *firestore.Client
}

func NewFirestoreUserRepository(client *firestore.Client) repository.UserRepository {
	return &firestoreUserRepository{
		client: client,
	}
}

func (r *firestoreUserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return getByID[entity.User](ctx, r.client.Collection(usersCollection).Doc(id), "User")
}

func (r *firestoreUserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	query := r.client.Collection(usersCollection).Where("email", "==", email)
	return first[entity.User](ctx, query, "User")
}

func (r *firestoreUserRepository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	query := r.client.Collection(usersCollection).Where("usernameLower", "==", entity.NormalizeUsername(username))
	return first[entity.User](ctx, query, "User")
}

func (r *firestoreUserRepository) SetRole(ctx context.Context, id, role string) error {
	_, err := r.client.Collection(usersCollection).Doc(id).Update(ctx, []firestore.Update{
		{Path: "role", Value: role},
		{Path: "updatedAt", Value: time.Now()},
	})
	return errors.FromStore("User", err)
}

func (r *firestoreUserRepository) List(ctx context.Context, limit int) ([]*entity.User, error) {
	query := r.client.Collection(usersCollection).OrderBy("createdAt", firestore.Desc)
	return collect[entity.User](paginate(query, limit, 0).Documents(ctx), "User")
}

func (r *firestoreUserRepository) Count(ctx context.Context) (int64, error) {
	return count(ctx, r.client.Collection(usersCollection).Query, "User")
}

func (r *firestoreUserRepository) TotalCoins(ctx context.Context) (int64, error) {
	iter := r.client.Collection(usersCollection).Select("coins").Documents(ctx)
	defer iter.Stop()

	var total int64
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return 0, errors.FromStore("User", err)
		}

		coins, err := doc.DataAt("coins")
		if err != nil {
			continue
		}
		if v, ok := coins.(int64); ok {
			total += v
		}
	}

	return total, nil
}
