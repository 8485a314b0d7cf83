package transaction

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/lira-pay/lira_pay/internal/money"
	"github.com/lira-pay/lira_pay/internal/wallet"
)

func seedRepo(t *testing.T, n int) *MemoryRepository {
	t.Helper()
	repo := NewMemoryRepository(wallet.NewMemoryRepository())
	ctx := context.Background()
	for i := 0; i < n; i++ {
		_, err := repo.Create(ctx, Transaction{
			Amount:       money.MustParse("10.00"),
			Status:       StatusApproved,
			FromWalletID: 1,
			ToWalletID:   2,
			TypeID:       TypeTransfer,
		})
		if err != nil {
			t.Fatalf("seed create: %v", err)
		}
	}
	return repo
}

func TestFindAllPagination(t *testing.T) {
	repo := seedRepo(t, 25)
	ctx := context.Background()

	page, err := repo.FindAll(ctx, PageRequest{Page: 2, Size: 10})
	if err != nil {
		t.Fatalf("find all: %v", err)
	}
	if page.Total != 25 {
		t.Fatalf("expected total 25, got %d", page.Total)
	}
	if len(page.Items) != 10 {
		t.Fatalf("expected 10 items, got %d", len(page.Items))
	}
	if page.Items[0].ID != 11 {
		t.Fatalf("expected page to start at id 11, got %d", page.Items[0].ID)
	}

	last, err := repo.FindAll(ctx, PageRequest{Page: 3, Size: 10})
	if err != nil {
		t.Fatalf("find all last page: %v", err)
	}
	if len(last.Items) != 5 {
		t.Fatalf("expected 5 items on last page, got %d", len(last.Items))
	}
}

func TestFindAllDefaultsBadPageRequest(t *testing.T) {
	repo := seedRepo(t, 3)

	page, err := repo.FindAll(context.Background(), PageRequest{Page: -1, Size: 5000, Sort: "password"})
	if err != nil {
		t.Fatalf("find all: %v", err)
	}
	if page.Page != 1 || page.Size != 20 {
		t.Fatalf("expected normalized page 1 size 20, got page %d size %d", page.Page, page.Size)
	}
	if len(page.Items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(page.Items))
	}
}

func TestFindAllSortsDescending(t *testing.T) {
	repo := seedRepo(t, 5)

	page, err := repo.FindAll(context.Background(), PageRequest{Sort: "id desc"})
	if err != nil {
		t.Fatalf("find all: %v", err)
	}
	if page.Items[0].ID != 5 {
		t.Fatalf("expected newest first, got id %d", page.Items[0].ID)
	}
}

func TestCreateRejectsDuplicateReference(t *testing.T) {
	repo := NewMemoryRepository(wallet.NewMemoryRepository())
	ctx := context.Background()
	ref := uuid.New()

	if _, err := repo.Create(ctx, Transaction{ReferenceNumber: ref, Status: StatusApproved, TypeID: TypeDeposit}); err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err := repo.Create(ctx, Transaction{ReferenceNumber: ref, Status: StatusApproved, TypeID: TypeDeposit})
	if !errors.Is(err, ErrDuplicateReference) {
		t.Fatalf("expected ErrDuplicateReference, got %v", err)
	}
}

func TestTransitionStatusIsExclusive(t *testing.T) {
	repo := NewMemoryRepository(wallet.NewMemoryRepository())
	ctx := context.Background()

	created, err := repo.Create(ctx, Transaction{Status: StatusPending, TypeID: TypeDeposit})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := repo.TransitionStatus(ctx, created.ID, StatusPending, StatusApproved); err != nil {
		t.Fatalf("first transition: %v", err)
	}
	_, err = repo.TransitionStatus(ctx, created.ID, StatusPending, StatusDenied)
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
}

func TestFindAllByWalletOwnerScopes(t *testing.T) {
	wallets := wallet.NewMemoryRepository()
	repo := NewMemoryRepository(wallets)
	ctx := context.Background()

	mine, err := wallets.Create(ctx, wallet.Wallet{OwnerID: 1, IBAN: "TR000001", Name: "main", Currency: "TRY"})
	if err != nil {
		t.Fatalf("create wallet: %v", err)
	}
	other, err := wallets.Create(ctx, wallet.Wallet{OwnerID: 2, IBAN: "TR000002", Name: "main", Currency: "TRY"})
	if err != nil {
		t.Fatalf("create wallet: %v", err)
	}

	if _, err := repo.Create(ctx, Transaction{Status: StatusApproved, ToWalletID: mine.ID, TypeID: TypeDeposit}); err != nil {
		t.Fatalf("create tx: %v", err)
	}
	if _, err := repo.Create(ctx, Transaction{Status: StatusApproved, ToWalletID: other.ID, TypeID: TypeDeposit}); err != nil {
		t.Fatalf("create tx: %v", err)
	}

	items, err := repo.FindAllByWalletOwner(ctx, 1)
	if err != nil {
		t.Fatalf("find by owner: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 transaction for owner 1, got %d", len(items))
	}
	if items[0].ToWalletID != mine.ID {
		t.Fatalf("unexpected transaction %+v", items[0])
	}
}
