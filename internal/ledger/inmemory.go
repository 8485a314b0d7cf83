package ledger

import (
	"context"
	"sync"

	"github.com/lira-pay/lira_pay/internal/transaction"
	"github.com/lira-pay/lira_pay/internal/wallet"
)

// MemoryStore backs the ledger with in-memory repositories, useful for unit
// tests. A single mutex serializes units of work and a snapshot taken before
// each one gives rollback on error.
type MemoryStore struct {
	mu           sync.Mutex
	wallets      *wallet.MemoryRepository
	transactions *transaction.MemoryRepository
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	wallets := wallet.NewMemoryRepository()
	return &MemoryStore{
		wallets:      wallets,
		transactions: transaction.NewMemoryRepository(wallets),
	}
}

// Wallets returns the wallet repository.
func (s *MemoryStore) Wallets() wallet.Repository {
	return s.wallets
}

// Transactions returns the transaction repository.
func (s *MemoryStore) Transactions() transaction.Repository {
	return s.transactions
}

// WithinTx serializes fn against all other units of work and restores the
// pre-transaction snapshot when fn fails.
func (s *MemoryStore) WithinTx(_ context.Context, fn func(uow UnitOfWork) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	walletSnap := s.wallets.Snapshot()
	txSnap := s.transactions.Snapshot()

	if err := fn(s); err != nil {
		s.wallets.Restore(walletSnap)
		s.transactions.Restore(txSnap)
		return err
	}
	return nil
}
