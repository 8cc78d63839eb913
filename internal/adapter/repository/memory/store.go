// Package memory is an in-process implementation of the repositories and
// the Transactor, used by tests and STORE_DRIVER=memory.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"valomarket/internal/domain/entity"
	"valomarket/internal/domain/repository"
	"valomarket/pkg/errors"
	"valomarket/pkg/utils"
)

type Store struct {
	mu sync.RWMutex

	users       map[string]*entity.User
	usernames   map[string]string
	listings    map[string]*entity.Listing
	deposits    map[string]*entity.Deposit
	withdrawals map[string]*entity.Withdrawal
	ledger      map[string]*entity.LedgerEntry
	purchases   map[string]*entity.Purchase
	chats       map[string]*entity.ChatMessage
}

func NewStore() *Store {
	return &Store{
		users:       make(map[string]*entity.User),
		usernames:   make(map[string]string),
		listings:    make(map[string]*entity.Listing),
		deposits:    make(map[string]*entity.Deposit),
		withdrawals: make(map[string]*entity.Withdrawal),
		ledger:      make(map[string]*entity.LedgerEntry),
		purchases:   make(map[string]*entity.Purchase),
		chats:       make(map[string]*entity.ChatMessage),
	}
}

func (s *Store) Users() repository.UserRepository             { return &userRepository{s} }
func (s *Store) Listings() repository.ListingRepository       { return &listingRepository{s} }
func (s *Store) Deposits() repository.DepositRepository       { return &depositRepository{s} }
func (s *Store) Withdrawals() repository.WithdrawalRepository { return &withdrawalRepository{s} }
func (s *Store) Ledger() repository.LedgerRepository          { return &ledgerRepository{s} }
func (s *Store) Purchases() repository.PurchaseRepository     { return &purchaseRepository{s} }
func (s *Store) Chats() repository.ChatRepository             { return &chatRepository{s} }

func cloneUser(u *entity.User) *entity.User {
	cp := *u
	return &cp
}

func cloneListing(l *entity.Listing) *entity.Listing {
	cp := *l
	if l.Images != nil {
		cp.Images = append([]string(nil), l.Images...)
	}
	if l.Contact != nil {
		contact := *l.Contact
		cp.Contact = &contact
	}
	return &cp
}

func cloneDeposit(d *entity.Deposit) *entity.Deposit          { cp := *d; return &cp }
func cloneWithdrawal(w *entity.Withdrawal) *entity.Withdrawal { cp := *w; return &cp }
func cloneEntry(e *entity.LedgerEntry) *entity.LedgerEntry    { cp := *e; return &cp }
func clonePurchase(p *entity.Purchase) *entity.Purchase       { cp := *p; return &cp }

func cloneChat(m *entity.ChatMessage) *entity.ChatMessage {
	cp := *m
	cp.Participants = append([]string(nil), m.Participants...)
	return &cp
}

type userRepository struct{ s *Store }

func (r *userRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	return cloneUser(u), nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			return cloneUser(u), nil
		}
	}
	return nil, errors.NotFound("User", nil)
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	id, ok := r.s.usernames[entity.NormalizeUsername(username)]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	u, ok := r.s.users[id]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	return cloneUser(u), nil
}

func (r *userRepository) SetRole(ctx context.Context, id, role string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return errors.NotFound("User", nil)
	}
	u.Role = role
	return nil
}

func (r *userRepository) List(ctx context.Context, limit int) ([]*entity.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	users := make([]*entity.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		users = append(users, cloneUser(u))
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].CreatedAt.After(users[j].CreatedAt)
	})
	if limit > 0 && len(users) > limit {
		users = users[:limit]
	}
	return users, nil
}

func (r *userRepository) Count(ctx context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.s.users)), nil
}

func (r *userRepository) TotalCoins(ctx context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var total int64
	for _, u := range r.s.users {
		total += u.Coins
	}
	return total, nil
}

type listingRepository struct{ s *Store }

func (r *listingRepository) Create(ctx context.Context, listing *entity.Listing) error {
	if listing.ID == "" {
		listing.ID = uuid.New().String()
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, exists := r.s.listings[listing.ID]; exists {
		return errors.Conflict("Listing already exists")
	}
	r.s.listings[listing.ID] = cloneListing(listing)
	return nil
}

func (r *listingRepository) GetByID(ctx context.Context, id string) (*entity.Listing, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	l, ok := r.s.listings[id]
	if !ok {
		return nil, errors.NotFound("Listing", nil)
	}
	return cloneListing(l), nil
}

func (r *listingRepository) Delete(ctx context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.listings[id]; !ok {
		return errors.NotFound("Listing", nil)
	}
	delete(r.s.listings, id)
	return nil
}

func (r *listingRepository) List(ctx context.Context, filter repository.ListingFilter) ([]*entity.Listing, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var listings []*entity.Listing
	for _, l := range r.s.listings {
		if filter.Status != "" && l.Status != filter.Status {
			continue
		}
		if filter.SellerID != "" && l.SellerID != filter.SellerID {
			continue
		}
		if filter.Rank != "" && l.Rank != filter.Rank {
			continue
		}
		listings = append(listings, cloneListing(l))
	}

	sort.Slice(listings, func(i, j int) bool {
		return listings[i].CreatedAt.After(listings[j].CreatedAt)
	})

	total := int64(len(listings))
	start, end := utils.Window(len(listings), filter.Offset, filter.Limit)
	return listings[start:end], total, nil
}

func (r *listingRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var n int64
	for _, l := range r.s.listings {
		if l.Status == status {
			n++
		}
	}
	return n, nil
}

type depositRepository struct{ s *Store }

func (r *depositRepository) Create(ctx context.Context, deposit *entity.Deposit) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.deposits[deposit.ID] = cloneDeposit(deposit)
	return nil
}

func (r *depositRepository) GetByID(ctx context.Context, id string) (*entity.Deposit, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	d, ok := r.s.deposits[id]
	if !ok {
		return nil, errors.NotFound("Deposit", nil)
	}
	return cloneDeposit(d), nil
}

func (r *depositRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*entity.Deposit, error) {
	return r.list(func(d *entity.Deposit) bool { return d.UserID == userID }, limit, true), nil
}

func (r *depositRepository) ListByStatus(ctx context.Context, status string, limit int) ([]*entity.Deposit, error) {
	return r.list(func(d *entity.Deposit) bool { return d.Status == status }, limit, false), nil
}

func (r *depositRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	return int64(len(r.list(func(d *entity.Deposit) bool { return d.Status == status }, 0, false))), nil
}

func (r *depositRepository) list(match func(*entity.Deposit) bool, limit int, newestFirst bool) []*entity.Deposit {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []*entity.Deposit
	for _, d := range r.s.deposits {
		if match(d) {
			out = append(out, cloneDeposit(d))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if newestFirst {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

type withdrawalRepository struct{ s *Store }

func (r *withdrawalRepository) GetByID(ctx context.Context, id string) (*entity.Withdrawal, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	w, ok := r.s.withdrawals[id]
	if !ok {
		return nil, errors.NotFound("Withdrawal", nil)
	}
	return cloneWithdrawal(w), nil
}

func (r *withdrawalRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*entity.Withdrawal, error) {
	return r.list(func(w *entity.Withdrawal) bool { return w.UserID == userID }, limit, true), nil
}

func (r *withdrawalRepository) ListByStatus(ctx context.Context, status string, limit int) ([]*entity.Withdrawal, error) {
	return r.list(func(w *entity.Withdrawal) bool { return w.Status == status }, limit, false), nil
}

func (r *withdrawalRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	return int64(len(r.list(func(w *entity.Withdrawal) bool { return w.Status == status }, 0, false))), nil
}

func (r *withdrawalRepository) list(match func(*entity.Withdrawal) bool, limit int, newestFirst bool) []*entity.Withdrawal {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []*entity.Withdrawal
	for _, w := range r.s.withdrawals {
		if match(w) {
			out = append(out, cloneWithdrawal(w))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if newestFirst {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

type ledgerRepository struct{ s *Store }

func (r *ledgerRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*entity.LedgerEntry, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []*entity.LedgerEntry
	for _, e := range r.s.ledger {
		if e.UserID == userID {
			out = append(out, cloneEntry(e))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	total := int64(len(out))
	start, end := utils.Window(len(out), offset, limit)
	return out[start:end], total, nil
}

type purchaseRepository struct{ s *Store }

func (r *purchaseRepository) GetByID(ctx context.Context, id string) (*entity.Purchase, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.purchases[id]
	if !ok {
		return nil, errors.NotFound("Purchase", nil)
	}
	return clonePurchase(p), nil
}

func (r *purchaseRepository) ListByBuyer(ctx context.Context, buyerID string, limit int) ([]*entity.Purchase, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []*entity.Purchase
	for _, p := range r.s.purchases {
		if p.BuyerID == buyerID {
			out = append(out, clonePurchase(p))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type chatRepository struct{ s *Store }

func (r *chatRepository) Create(ctx context.Context, message *entity.ChatMessage) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.chats[message.ID] = cloneChat(message)
	return nil
}

func (r *chatRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*entity.ChatMessage, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []*entity.ChatMessage
	for _, m := range r.s.chats {
		if m.UserID == userID {
			out = append(out, cloneChat(m))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

func (r *chatRepository) ListRecent(ctx context.Context, limit int) ([]*entity.ChatMessage, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*entity.ChatMessage, 0, len(r.s.chats))
	for _, m := range r.s.chats {
		out = append(out, cloneChat(m))
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *chatRepository) MarkRead(ctx context.Context, userID string, fromAdmin bool) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	n := 0
	for _, m := range r.s.chats {
		if m.UserID == userID && m.IsFromAdmin == fromAdmin && !m.Read {
			m.Read = true
			n++
		}
	}
	return n, nil
}

func (r *chatRepository) CountUnread(ctx context.Context, userID string, fromAdmin bool) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var n int64
	for _, m := range r.s.chats {
		if m.UserID == userID && m.IsFromAdmin == fromAdmin && !m.Read {
			n++
		}
	}
	return n, nil
}
