package memory

import (
	"context"

	"valomarket/internal/domain/entity"
	"valomarket/internal/domain/repository"
	"valomarket/pkg/errors"
)

// RunTransaction holds the store's write lock for the whole of fn. Writes
// are staged on the tx and applied only when fn returns nil.
func (s *Store) RunTransaction(ctx context.Context, fn func(ctx context.Context, tx repository.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return errors.Transient("Transaction cancelled", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &memTx{
		s:           s,
		users:       make(map[string]*entity.User),
		usernames:   make(map[string]string),
		released:    make(map[string]bool),
		listings:    make(map[string]*entity.Listing),
		deposits:    make(map[string]*entity.Deposit),
		withdrawals: make(map[string]*entity.Withdrawal),
		ledger:      make(map[string]*entity.LedgerEntry),
		purchases:   make(map[string]*entity.Purchase),
	}

	if err := fn(ctx, tx); err != nil {
		return err
	}

	tx.commit()
	return nil
}

type memTx struct {
	s *Store

	users       map[string]*entity.User
	usernames   map[string]string
	released    map[string]bool
	listings    map[string]*entity.Listing
	deposits    map[string]*entity.Deposit
	withdrawals map[string]*entity.Withdrawal
	ledger      map[string]*entity.LedgerEntry
	purchases   map[string]*entity.Purchase
}

func (tx *memTx) commit() {
	for k := range tx.released {
		delete(tx.s.usernames, k)
	}
	for k, v := range tx.usernames {
		tx.s.usernames[k] = v
	}
	for k, v := range tx.users {
		tx.s.users[k] = v
	}
	for k, v := range tx.listings {
		tx.s.listings[k] = v
	}
	for k, v := range tx.deposits {
		tx.s.deposits[k] = v
	}
	for k, v := range tx.withdrawals {
		tx.s.withdrawals[k] = v
	}
	for k, v := range tx.ledger {
		tx.s.ledger[k] = v
	}
	for k, v := range tx.purchases {
		tx.s.purchases[k] = v
	}
}

func (tx *memTx) GetUser(ctx context.Context, id string) (*entity.User, error) {
	if u, ok := tx.users[id]; ok {
		return cloneUser(u), nil
	}
	if u, ok := tx.s.users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, errors.NotFound("User", nil)
}

func (tx *memTx) PutUser(user *entity.User) error {
	tx.users[user.ID] = cloneUser(user)
	return nil
}

func (tx *memTx) UsernameOwner(ctx context.Context, usernameLower string) (string, error) {
	if id, ok := tx.usernames[usernameLower]; ok {
		return id, nil
	}
	if tx.released[usernameLower] {
		return "", nil
	}
	return tx.s.usernames[usernameLower], nil
}

func (tx *memTx) ClaimUsername(usernameLower, userID string) error {
	delete(tx.released, usernameLower)
	tx.usernames[usernameLower] = userID
	return nil
}

func (tx *memTx) ReleaseUsername(usernameLower string) error {
	delete(tx.usernames, usernameLower)
	tx.released[usernameLower] = true
	return nil
}

func (tx *memTx) GetListing(ctx context.Context, id string) (*entity.Listing, error) {
	if l, ok := tx.listings[id]; ok {
		return cloneListing(l), nil
	}
	if l, ok := tx.s.listings[id]; ok {
		return cloneListing(l), nil
	}
	return nil, errors.NotFound("Listing", nil)
}

func (tx *memTx) PutListing(listing *entity.Listing) error {
	tx.listings[listing.ID] = cloneListing(listing)
	return nil
}

func (tx *memTx) GetDeposit(ctx context.Context, id string) (*entity.Deposit, error) {
	if d, ok := tx.deposits[id]; ok {
		return cloneDeposit(d), nil
	}
	if d, ok := tx.s.deposits[id]; ok {
		return cloneDeposit(d), nil
	}
	return nil, errors.NotFound("Deposit", nil)
}

func (tx *memTx) PutDeposit(deposit *entity.Deposit) error {
	tx.deposits[deposit.ID] = cloneDeposit(deposit)
	return nil
}

func (tx *memTx) GetWithdrawal(ctx context.Context, id string) (*entity.Withdrawal, error) {
	if w, ok := tx.withdrawals[id]; ok {
		return cloneWithdrawal(w), nil
	}
	if w, ok := tx.s.withdrawals[id]; ok {
		return cloneWithdrawal(w), nil
	}
	return nil, errors.NotFound("Withdrawal", nil)
}

func (tx *memTx) PutWithdrawal(withdrawal *entity.Withdrawal) error {
	tx.withdrawals[withdrawal.ID] = cloneWithdrawal(withdrawal)
	return nil
}

func (tx *memTx) PendingWithdrawalTotal(ctx context.Context, userID string) (int64, error) {
	var total int64
	for id, w := range tx.s.withdrawals {
		if staged, ok := tx.withdrawals[id]; ok {
			w = staged
		}
		if w.UserID == userID && w.Status == entity.RequestStatusPending {
			total += w.Amount
		}
	}
	for id, w := range tx.withdrawals {
		if _, committed := tx.s.withdrawals[id]; committed {
			continue
		}
		if w.UserID == userID && w.Status == entity.RequestStatusPending {
			total += w.Amount
		}
	}
	return total, nil
}

func (tx *memTx) GetLedgerEntry(ctx context.Context, id string) (*entity.LedgerEntry, error) {
	if e, ok := tx.ledger[id]; ok {
		return cloneEntry(e), nil
	}
	if e, ok := tx.s.ledger[id]; ok {
		return cloneEntry(e), nil
	}
	return nil, errors.NotFound("Ledger entry", nil)
}

func (tx *memTx) PutLedgerEntry(entry *entity.LedgerEntry) error {
	tx.ledger[entry.ID] = cloneEntry(entry)
	return nil
}

func (tx *memTx) GetPurchase(ctx context.Context, id string) (*entity.Purchase, error) {
	if p, ok := tx.purchases[id]; ok {
		return clonePurchase(p), nil
	}
	if p, ok := tx.s.purchases[id]; ok {
		return clonePurchase(p), nil
	}
	return nil, errors.NotFound("Purchase", nil)
}

func (tx *memTx) PutPurchase(purchase *entity.Purchase) error {
	tx.purchases[purchase.ID] = clonePurchase(purchase)
	return nil
}
