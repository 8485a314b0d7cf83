package wallet

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/lira-pay/lira_pay/internal/money"
)

// MemoryRepository is a concurrency-safe in-memory wallet store for tests.
type MemoryRepository struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]Wallet
}

// NewMemoryRepository constructs an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{nextID: 1, byID: make(map[int64]Wallet)}
}

func (r *MemoryRepository) FindByID(_ context.Context, id int64) (Wallet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	w, ok := r.byID[id]
	if !ok {
		return Wallet{}, ErrNotFound
	}
	return w, nil
}

func (r *MemoryRepository) FindByIBAN(_ context.Context, iban string) (Wallet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, w := range r.byID {
		if strings.EqualFold(w.IBAN, iban) {
			return w, nil
		}
	}
	return Wallet{}, ErrNotFound
}

func (r *MemoryRepository) FindByOwner(_ context.Context, ownerID int64) ([]Wallet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var wallets []Wallet
	for _, w := range r.byID {
		if w.OwnerID == ownerID {
			wallets = append(wallets, w)
		}
	}
	sort.Slice(wallets, func(i, j int) bool { return wallets[i].ID < wallets[j].ID })
	return wallets, nil
}

func (r *MemoryRepository) ExistsByIBAN(_ context.Context, iban string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, w := range r.byID {
		if strings.EqualFold(w.IBAN, iban) {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryRepository) ExistsByOwnerAndName(_ context.Context, ownerID int64, name string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, w := range r.byID {
		if w.OwnerID == ownerID && strings.EqualFold(w.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryRepository) Create(_ context.Context, w Wallet) (Wallet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if strings.EqualFold(existing.IBAN, w.IBAN) {
			return Wallet{}, ErrAlreadyExists
		}
		if existing.OwnerID == w.OwnerID && strings.EqualFold(existing.Name, w.Name) {
			return Wallet{}, ErrAlreadyExists
		}
	}
	w.ID = r.nextID
	r.nextID++
	if w.CreatedAt.IsZero() {
		w.CreatedAt = time.Now().UTC()
	}
	r.byID[w.ID] = w
	return w, nil
}

func (r *MemoryRepository) ApplyBalanceDelta(_ context.Context, id int64, balanceDelta, usableDelta money.Amount) (Wallet, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.byID[id]
	if !ok {
		return Wallet{}, ErrNotFound
	}
	newBalance := w.Balance.Add(balanceDelta)
	if newBalance.IsNegative() {
		return Wallet{}, ErrConstraintViolation
	}
	w.Balance = newBalance
	w.UsableBalance = w.UsableBalance.Add(usableDelta)
	r.byID[id] = w
	return w, nil
}

// Snapshot copies the current state so a unit of work can roll back.
func (r *MemoryRepository) Snapshot() map[int64]Wallet {
	r.mu.RLock()
	defer r.mu.RUnlock()
	snap := make(map[int64]Wallet, len(r.byID))
	for id, w := range r.byID {
		snap[id] = w
	}
	return snap
}

// Restore replaces the state with a previously taken snapshot.
func (r *MemoryRepository) Restore(snap map[int64]Wallet) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID = make(map[int64]Wallet, len(snap))
	for id, w := range snap {
		r.byID[id] = w
	}
}
