package transaction

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lira-pay/lira_pay/internal/wallet"
)

// MemoryRepository is a concurrency-safe in-memory transaction store for
// tests. It borrows the wallet repository to answer owner-scoped queries.
type MemoryRepository struct {
	mu      sync.RWMutex
	nextID  int64
	byID    map[int64]Transaction
	wallets wallet.Repository
}

// NewMemoryRepository constructs an empty in-memory repository.
func NewMemoryRepository(wallets wallet.Repository) *MemoryRepository {
	return &MemoryRepository{nextID: 1, byID: make(map[int64]Transaction), wallets: wallets}
}

func (r *MemoryRepository) FindByID(_ context.Context, id int64) (Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.byID[id]
	if !ok {
		return Transaction{}, ErrNotFound
	}
	return t, nil
}

func (r *MemoryRepository) FindByReferenceNumber(_ context.Context, ref uuid.UUID) (Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, t := range r.byID {
		if t.ReferenceNumber == ref {
			return t, nil
		}
	}
	return Transaction{}, ErrNotFound
}

func (r *MemoryRepository) FindAllByWalletOwner(ctx context.Context, ownerID int64) ([]Transaction, error) {
	owned, err := r.wallets.FindByOwner(ctx, ownerID)
	if err != nil && !errors.Is(err, wallet.ErrNotFound) {
		return nil, err
	}
	ownedIDs := make(map[int64]bool, len(owned))
	for _, w := range owned {
		ownedIDs[w.ID] = true
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	var items []Transaction
	for _, t := range r.byID {
		if ownedIDs[t.FromWalletID] || ownedIDs[t.ToWalletID] {
			items = append(items, t)
		}
	}
	sortByID(items)
	return items, nil
}

func (r *MemoryRepository) FindAll(_ context.Context, req PageRequest) (Page, error) {
	req = normalizePage(req)

	r.mu.RLock()
	items := make([]Transaction, 0, len(r.byID))
	for _, t := range r.byID {
		items = append(items, t)
	}
	r.mu.RUnlock()

	switch normalizeSort(req.Sort) {
	case "created_at":
		sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.Before(items[j].CreatedAt) })
	case "created_at DESC":
		sort.Slice(items, func(i, j int) bool { return items[j].CreatedAt.Before(items[i].CreatedAt) })
	case "amount":
		sort.Slice(items, func(i, j int) bool { return items[i].Amount.LessThan(items[j].Amount) })
	case "amount DESC":
		sort.Slice(items, func(i, j int) bool { return items[j].Amount.LessThan(items[i].Amount) })
	case "id DESC":
		sort.Slice(items, func(i, j int) bool { return items[i].ID > items[j].ID })
	default:
		sortByID(items)
	}

	total := int64(len(items))
	start := (req.Page - 1) * req.Size
	if start > len(items) {
		start = len(items)
	}
	end := start + req.Size
	if end > len(items) {
		end = len(items)
	}
	return Page{Items: items[start:end], Page: req.Page, Size: req.Size, Total: total}, nil
}

func (r *MemoryRepository) Create(_ context.Context, t Transaction) (Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t.ReferenceNumber == uuid.Nil {
		t.ReferenceNumber = uuid.New()
	}
	for _, existing := range r.byID {
		if existing.ReferenceNumber == t.ReferenceNumber {
			return Transaction{}, ErrDuplicateReference
		}
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	t.ID = r.nextID
	r.nextID++
	r.byID[t.ID] = t
	return t, nil
}

func (r *MemoryRepository) TransitionStatus(_ context.Context, id int64, expected, next Status) (Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.byID[id]
	if !ok {
		return Transaction{}, ErrNotFound
	}
	if t.Status != expected {
		return Transaction{}, ErrInvalidState
	}
	t.Status = next
	r.byID[id] = t
	return t, nil
}

// Snapshot copies the current state so a unit of work can roll back.
func (r *MemoryRepository) Snapshot() map[int64]Transaction {
	r.mu.RLock()
	defer r.mu.RUnlock()
	snap := make(map[int64]Transaction, len(r.byID))
	for id, t := range r.byID {
		snap[id] = t
	}
	return snap
}

// Restore replaces the state with a previously taken snapshot.
func (r *MemoryRepository) Restore(snap map[int64]Transaction) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID = make(map[int64]Transaction, len(snap))
	for id, t := range snap {
		r.byID[id] = t
	}
}

func sortByID(items []Transaction) {
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
}
