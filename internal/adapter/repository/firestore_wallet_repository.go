package repository

import (
	"context"

	"cloud.google.com/go/firestore"

	"valomarket/internal/domain/entity"
	"valomarket/internal/domain/repository"
	"valomarket/pkg/errors"
)

type firestoreDepositRepository struct {
	client *firestore.Client
}

func NewFirestoreDepositRepository(client *firestore.Client) repository.DepositRepository {
	return &firestoreDepositRepository{
		client: client,
	}
}

func (r *firestoreDepositRepository) Create(ctx context.Context, deposit *entity.Deposit) error {
	_, err := r.client.Collection(depositsCollection).Doc(deposit.ID).Create(ctx, deposit)
	return errors.FromStore("Deposit", err)
}

func (r *firestoreDepositRepository) GetByID(ctx context.Context, id string) (*entity.Deposit, error) {
	return getByID[entity.Deposit](ctx, r.client.Collection(depositsCollection).Doc(id), "Deposit")
}

func (r *firestoreDepositRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*entity.Deposit, error) {
	query := r.client.Collection(depositsCollection).
		Where("userId", "==", userID).
		OrderBy("createdAt", firestore.Desc)
	return collect[entity.Deposit](paginate(query, limit, 0).Documents(ctx), "Deposit")
}

// ListByStatus returns the oldest requests first so admins work the queue in order.
func (r *firestoreDepositRepository) ListByStatus(ctx context.Context, status string, limit int) ([]*entity.Deposit, error) {
	query := r.client.Collection(depositsCollection).
		Where("status", "==", status).
		OrderBy("createdAt", firestore.Asc)
	return collect[entity.Deposit](paginate(query, limit, 0).Documents(ctx), "Deposit")
}

func (r *firestoreDepositRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	return count(ctx, r.client.Collection(depositsCollection).Where("status", "==", status), "Deposit")
}

type firestoreWithdrawalRepository struct {
	client *firestore.Client
}

func NewFirestoreWithdrawalRepository(client *firestore.Client) repository.WithdrawalRepository {
	return &firestoreWithdrawalRepository{
		client: client,
	}
}

func (r *firestoreWithdrawalRepository) GetByID(ctx context.Context, id string) (*entity.Withdrawal, error) {
	return getByID[entity.Withdrawal](ctx, r.client.Collection(withdrawalsCollection).Doc(id), "Withdrawal")
}

func (r *firestoreWithdrawalRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*entity.Withdrawal, error) {
	query := r.client.Collection(withdrawalsCollection).
		Where("userId", "==", userID).
		OrderBy("createdAt", firestore.Desc)
	return collect[entity.Withdrawal](paginate(query, limit, 0).Documents(ctx), "Withdrawal")
}

func (r *firestoreWithdrawalRepository) ListByStatus(ctx context.Context, status string, limit int) ([]*entity.Withdrawal, error) {
	query := r.client.Collection(withdrawalsCollection).
		Where("status", "==", status).
		OrderBy("createdAt", firestore.Asc)
	return collect[entity.Withdrawal](paginate(query, limit, 0).Documents(ctx), "Withdrawal")
}

func (r *firestoreWithdrawalRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	return count(ctx, r.client.Collection(withdrawalsCollection).Where("status", "==", status), "Withdrawal")
}

type firestoreLedgerRepository struct {
	client *firestore.Client
}

func NewFirestoreLedgerRepository(client *firestore.Client) repository.LedgerRepository {
	return &firestoreLedgerRepository{
		client: client,
	}
}

func (r *firestoreLedgerRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*entity.LedgerEntry, int64, error) {
	query := r.client.Collection(ledgerCollection).Where("userId", "==", userID)

	total, err := count(ctx, query, "Ledger entry")
	if err != nil {
		return nil, 0, err
	}

	query = paginate(query.OrderBy("createdAt", firestore.Desc), limit, offset)
	entries, err := collect[entity.LedgerEntry](query.Documents(ctx), "Ledger entry")
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

type firestorePurchaseRepository struct {
	client *firestore.Client
}

func NewFirestorePurchaseRepository(client *firestore.Client) repository.PurchaseRepository {
	return &firestorePurchaseRepository{
		client: client,
	}
}

func (r *firestorePurchaseRepository) GetByID(ctx context.Context, id string) (*entity.Purchase, error) {
	return getByID[entity.Purchase](ctx, r.client.Collection(purchasesCollection).Doc(id), "Purchase")
}

func (r *firestorePurchaseRepository) ListByBuyer(ctx context.Context, buyerID string, limit int) ([]*entity.Purchase, error) {
	query := r.client.Collection(purchasesCollection).
		Where("buyerId", "==", buyerID).
		OrderBy("createdAt", firestore.Desc)
	return collect[entity.Purchase](paginate(query, limit, 0).Documents(ctx), "Purchase")
}
