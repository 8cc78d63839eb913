package repository

import (
	"context"

	"cloud.google.com/go/firestore"

	"valomarket/internal/domain/entity"
	"valomarket/internal/domain/repository"
	"valomarket/pkg/errors"
)

type firestoreTransactor struct {
	client      *firestore.Client
	maxAttempts int
}

func NewFirestoreTransactor(client *firestore.Client, maxAttempts int) repository.Transactor {
	return &firestoreTransactor{
		client:      client,
		maxAttempts: maxAttempts,
	}
}

// RunTransaction wraps firestore's RunTransaction. Firestore requires every
// read to precede every write, so Put calls are buffered and flushed once fn
// has returned without error.
func (t *firestoreTransactor) RunTransaction(ctx context.Context, fn func(ctx context.Context, tx repository.Tx) error) error {
	err := t.client.RunTransaction(ctx, func(ctx context.Context, ftx *firestore.Transaction) error {
		tx := &firestoreTx{
			client: t.client,
			tx:     ftx,
			staged: make(map[string]stagedWrite),
		}
		if err := fn(ctx, tx); err != nil {
			return err
		}
		return tx.flush()
	}, firestore.MaxAttempts(t.maxAttempts))

	return errors.FromStore("Transaction", err)
}

type stagedWrite struct {
	ref    *firestore.DocumentRef
	data   interface{}
	delete bool
}

type firestoreTx struct {
	client *firestore.Client
	tx     *firestore.Transaction
	order  []string
	staged map[string]stagedWrite
}

func (t *firestoreTx) ref(collection, id string) *firestore.DocumentRef {
	return t.client.Collection(collection).Doc(id)
}

func (t *firestoreTx) stage(collection, id string, data interface{}, del bool) {
	key := collection + "/" + id
	if _, exists := t.staged[key]; !exists {
		t.order = append(t.order, key)
	}
	t.staged[key] = stagedWrite{ref: t.ref(collection, id), data: data, delete: del}
}

func (t *firestoreTx) flush() error {
	for _, key := range t.order {
		w := t.staged[key]
		var err error
		if w.delete {
			err = t.tx.Delete(w.ref)
		} else {
			err = t.tx.Set(w.ref, w.data)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// txGet reads a document through the transaction, preferring a staged write.
func txGet[T any](t *firestoreTx, collection, id, resource string) (*T, error) {
	if w, ok := t.staged[collection+"/"+id]; ok {
		if w.delete {
			return nil, errors.NotFound(resource, nil)
		}
		cp := *(w.data.(*T))
		return &cp, nil
	}

	doc, err := t.tx.Get(t.ref(collection, id))
	if err != nil {
		return nil, errors.FromStore(resource, err)
	}

	var item T
	if err := doc.DataTo(&item); err != nil {
		return nil, errors.Internal("Failed to parse "+resource+" data", err)
	}
	return &item, nil
}

func (t *firestoreTx) GetUser(ctx context.Context, id string) (*entity.User, error) {
	return txGet[entity.User](t, usersCollection, id, "User")
}

func (t *firestoreTx) PutUser(user *entity.User) error {
	cp := *user
	t.stage(usersCollection, user.ID, &cp, false)
	return nil
}

type usernameDoc struct {
	UserID string `firestore:"userId"`
}

func (t *firestoreTx) UsernameOwner(ctx context.Context, usernameLower string) (string, error) {
	doc, err := txGet[usernameDoc](t, usernamesCollection, usernameLower, "Username")
	if errors.Is(err, errors.CodeNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return doc.UserID, nil
}

func (t *firestoreTx) ClaimUsername(usernameLower, userID string) error {
	t.stage(usernamesCollection, usernameLower, &usernameDoc{UserID: userID}, false)
	return nil
}

func (t *firestoreTx) ReleaseUsername(usernameLower string) error {
	t.stage(usernamesCollection, usernameLower, nil, true)
	return nil
}

func (t *firestoreTx) GetListing(ctx context.Context, id string) (*entity.Listing, error) {
	return txGet[entity.Listing](t, listingsCollection, id, "Listing")
}

func (t *firestoreTx) PutListing(listing *entity.Listing) error {
	cp := *listing
	t.stage(listingsCollection, listing.ID, &cp, false)
	return nil
}

func (t *firestoreTx) GetDeposit(ctx context.Context, id string) (*entity.Deposit, error) {
	return txGet[entity.Deposit](t, depositsCollection, id, "Deposit")
}

func (t *firestoreTx) PutDeposit(deposit *entity.Deposit) error {
	cp := *deposit
	t.stage(depositsCollection, deposit.ID, &cp, false)
	return nil
}

func (t *firestoreTx) GetWithdrawal(ctx context.Context, id string) (*entity.Withdrawal, error) {
	return txGet[entity.Withdrawal](t, withdrawalsCollection, id, "Withdrawal")
}

func (t *firestoreTx) PutWithdrawal(withdrawal *entity.Withdrawal) error {
	cp := *withdrawal
	t.stage(withdrawalsCollection, withdrawal.ID, &cp, false)
	return nil
}

func (t *firestoreTx) PendingWithdrawalTotal(ctx context.Context, userID string) (int64, error) {
	query := t.client.Collection(withdrawalsCollection).
		Where("userId", "==", userID).
		Where("status", "==", entity.RequestStatusPending)

	pending, err := collect[entity.Withdrawal](t.tx.Documents(query), "Withdrawal")
	if err != nil {
		return 0, err
	}

	seen := make(map[string]bool, len(pending))
	var total int64
	for _, w := range pending {
		seen[w.ID] = true
		if staged, ok := t.staged[withdrawalsCollection+"/"+w.ID]; ok {
			w = staged.data.(*entity.Withdrawal)
		}
		if w.Status == entity.RequestStatusPending {
			total += w.Amount
		}
	}
	for _, key := range t.order {
		w, ok := t.staged[key].data.(*entity.Withdrawal)
		if !ok || seen[w.ID] {
			continue
		}
		if w.UserID == userID && w.Status == entity.RequestStatusPending {
			total += w.Amount
		}
	}
	return total, nil
}

func (t *firestoreTx) GetLedgerEntry(ctx context.Context, id string) (*entity.LedgerEntry, error) {
	return txGet[entity.LedgerEntry](t, ledgerCollection, id, "Ledger entry")
}

func (t *firestoreTx) PutLedgerEntry(entry *entity.LedgerEntry) error {
	cp := *entry
	t.stage(ledgerCollection, entry.ID, &cp, false)
	return nil
}

func (t *firestoreTx) GetPurchase(ctx context.Context, id string) (*entity.Purchase, error) {
	return txGet[entity.Purchase](t, purchasesCollection, id, "Purchase")
}

func (t *firestoreTx) PutPurchase(purchase *entity.Purchase) error {
	cp := *purchase
	t.stage(purchasesCollection, purchase.ID, &cp, false)
	return nil
}
