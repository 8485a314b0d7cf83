package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/lira-pay/lira_pay/internal/logging"
	"github.com/lira-pay/lira_pay/internal/money"
	"github.com/lira-pay/lira_pay/internal/notification"
	"github.com/lira-pay/lira_pay/internal/transaction"
	"github.com/lira-pay/lira_pay/internal/wallet"
)

var (
	// ErrNonPositiveAmount occurs when an operation is requested with a zero
	// or negative amount.
	ErrNonPositiveAmount = errors.New("amount must be positive")

	// ErrSameWallet occurs when a transfer names the same wallet on both sides.
	ErrSameWallet = errors.New("transfer requires two distinct wallets")
)

// maxTxRetries bounds retries of a unit of work on transient store failures.
const maxTxRetries = 3

// Service is the ledger engine. It is the sole writer of wallet balances and
// transaction records and holds no mutable state of its own, so one instance
// is safe to share across concurrent callers.
type Service struct {
	store    Store
	types    transaction.TypeResolver
	policy   ApprovalPolicy
	logger   *slog.Logger
	notifier notification.Notifier

	now    func() time.Time
	newRef func() uuid.UUID
}

// NewService constructs the engine. The notifier may be nil.
func NewService(store Store, types transaction.TypeResolver, policy ApprovalPolicy, logger *slog.Logger, notifier notification.Notifier) *Service {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Service{
		store:    store,
		types:    types,
		policy:   policy,
		logger:   logger,
		notifier: notifier,
		now:      func() time.Time { return time.Now().UTC() },
		newRef:   uuid.New,
	}
}

// CreateWalletInput captures the data required to open a wallet.
type CreateWalletInput struct {
	OwnerID           int64
	IBAN              string
	Name              string
	Currency          string
	ActiveForShopping bool
	ActiveForWithdraw bool
	InitialBalance    money.Amount
}

// CreateWallet opens a wallet with zero balances and books the initial
// balance as a regular deposit, so the starting funds are themselves an
// auditable transaction.
func (s *Service) CreateWallet(ctx context.Context, input CreateWalletInput) (wallet.Wallet, error) {
	if input.InitialBalance.IsNegative() {
		return wallet.Wallet{}, ErrNonPositiveAmount
	}

	var created wallet.Wallet
	err := s.runTx(ctx, func(uow UnitOfWork) error {
		wallets := uow.Wallets()

		exists, err := wallets.ExistsByIBAN(ctx, input.IBAN)
		if err != nil {
			return err
		}
		if exists {
			return wallet.ErrAlreadyExists
		}
		exists, err = wallets.ExistsByOwnerAndName(ctx, input.OwnerID, input.Name)
		if err != nil {
			return err
		}
		if exists {
			return wallet.ErrAlreadyExists
		}

		created, err = wallets.Create(ctx, wallet.Wallet{
			OwnerID:           input.OwnerID,
			IBAN:              input.IBAN,
			Name:              input.Name,
			Currency:          input.Currency,
			Balance:           money.Zero,
			UsableBalance:     money.Zero,
			ActiveForShopping: input.ActiveForShopping,
			ActiveForWithdraw: input.ActiveForWithdraw,
			CreatedAt:         s.now(),
		})
		if err != nil {
			return err
		}

		if input.InitialBalance.IsPositive() {
			created, _, err = s.creditLocked(ctx, uow, created, input.InitialBalance,
				"Initial balance", transaction.TypeInitial)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return wallet.Wallet{}, err
	}

	s.logger.Info("wallet created",
		"wallet_id", created.ID, "iban", created.IBAN, "name", created.Name,
		"balance", created.Balance.String())
	return created, nil
}

// TransferInput captures a two-wallet fund movement.
type TransferInput struct {
	FromIBAN    string
	ToIBAN      string
	Amount      money.Amount
	Description string
	TypeID      string
}

// Transfer moves funds between two wallets as one atomic unit: either both
// balance changes and the transaction record land, or nothing does. Transfers
// settle immediately once funds are confirmed available.
func (s *Service) Transfer(ctx context.Context, input TransferInput) (transaction.Transaction, error) {
	if !input.Amount.IsPositive() {
		return transaction.Transaction{}, ErrNonPositiveAmount
	}
	if input.TypeID == "" {
		input.TypeID = transaction.TypeTransfer
	}
	txType, err := s.types.Resolve(ctx, input.TypeID)
	if err != nil {
		return transaction.Transaction{}, err
	}
	if txType.Semantics != transaction.SemanticsTransfer {
		return transaction.Transaction{}, fmt.Errorf("type %q cannot be used for a transfer", input.TypeID)
	}

	var created transaction.Transaction
	err = s.runTx(ctx, func(uow UnitOfWork) error {
		wallets := uow.Wallets()

		from, err := wallets.FindByIBAN(ctx, input.FromIBAN)
		if err != nil {
			return err
		}
		to, err := wallets.FindByIBAN(ctx, input.ToIBAN)
		if err != nil {
			return err
		}
		if from.ID == to.ID {
			return ErrSameWallet
		}
		if from.Balance.LessThan(input.Amount) {
			return ErrInsufficientFunds
		}

		// Touch wallets in ascending id order so opposite-direction
		// transfers cannot deadlock on row locks.
		first, firstDelta := from, input.Amount.Neg()
		second, secondDelta := to, input.Amount
		if second.ID < first.ID {
			first, second = second, first
			firstDelta, secondDelta = secondDelta, firstDelta
		}
		if _, err := wallets.ApplyBalanceDelta(ctx, first.ID, firstDelta, money.Zero); err != nil {
			return debitErr(err)
		}
		if _, err := wallets.ApplyBalanceDelta(ctx, second.ID, secondDelta, money.Zero); err != nil {
			return debitErr(err)
		}

		created, err = uow.Transactions().Create(ctx, transaction.Transaction{
			ReferenceNumber: s.newRef(),
			Amount:          input.Amount,
			Description:     input.Description,
			Status:          transaction.StatusApproved,
			FromWalletID:    from.ID,
			ToWalletID:      to.ID,
			TypeID:          txType.ID,
			CreatedAt:       s.now(),
		})
		return err
	})
	if err != nil {
		return transaction.Transaction{}, err
	}

	s.logger.Info("funds transferred",
		"transaction_id", created.ID, "from_wallet_id", created.FromWalletID,
		"to_wallet_id", created.ToWalletID, "amount", created.Amount.String())
	s.notify(ctx, notification.Message{
		Kind:          notification.KindTransfer,
		TransactionID: created.ID,
		Body:          fmt.Sprintf("transfer of %s settled", created.Amount),
	})
	return created, nil
}

// FundsInput captures a one-sided deposit or withdrawal.
type FundsInput struct {
	IBAN        string
	Amount      money.Amount
	Description string
	TypeID      string
}

// AddFunds credits a wallet. The usable balance is claimed immediately; the
// settled balance only moves now when the approval policy auto-approves the
// amount, otherwise it waits for ApproveOrDeny.
func (s *Service) AddFunds(ctx context.Context, input FundsInput) (transaction.Transaction, error) {
	if !input.Amount.IsPositive() {
		return transaction.Transaction{}, ErrNonPositiveAmount
	}
	if input.TypeID == "" {
		input.TypeID = transaction.TypeDeposit
	}
	txType, err := s.types.Resolve(ctx, input.TypeID)
	if err != nil {
		return transaction.Transaction{}, err
	}
	if txType.Semantics != transaction.SemanticsCredit {
		return transaction.Transaction{}, fmt.Errorf("type %q cannot be used for a deposit", input.TypeID)
	}

	var created transaction.Transaction
	err = s.runTx(ctx, func(uow UnitOfWork) error {
		w, err := uow.Wallets().FindByIBAN(ctx, input.IBAN)
		if err != nil {
			return err
		}
		_, created, err = s.creditLocked(ctx, uow, w, input.Amount, input.Description, txType.ID)
		return err
	})
	if err != nil {
		return transaction.Transaction{}, err
	}

	s.logger.Info("funds added",
		"transaction_id", created.ID, "wallet_id", created.ToWalletID,
		"amount", created.Amount.String(), "status", created.Status)
	if created.Status == transaction.StatusPending {
		s.notify(ctx, notification.Message{
			Kind:          notification.KindApprovalRequired,
			TransactionID: created.ID,
			Body:          fmt.Sprintf("deposit of %s awaits approval", created.Amount),
		})
	}
	return created, nil
}

// WithdrawFunds debits a wallet. Like AddFunds, the usable balance moves
// immediately and the settled balance is deferred for amounts at or above the
// approval limit.
func (s *Service) WithdrawFunds(ctx context.Context, input FundsInput) (transaction.Transaction, error) {
	if !input.Amount.IsPositive() {
		return transaction.Transaction{}, ErrNonPositiveAmount
	}
	if input.TypeID == "" {
		input.TypeID = transaction.TypeWithdrawal
	}
	txType, err := s.types.Resolve(ctx, input.TypeID)
	if err != nil {
		return transaction.Transaction{}, err
	}
	if txType.Semantics != transaction.SemanticsDebit {
		return transaction.Transaction{}, fmt.Errorf("type %q cannot be used for a withdrawal", input.TypeID)
	}

	var created transaction.Transaction
	err = s.runTx(ctx, func(uow UnitOfWork) error {
		w, err := uow.Wallets().FindByIBAN(ctx, input.IBAN)
		if err != nil {
			return err
		}
		if w.Balance.LessThan(input.Amount) {
			return ErrInsufficientFunds
		}

		status := s.policy.Decide(input.Amount)
		balanceDelta := money.Zero
		if status == transaction.StatusApproved {
			balanceDelta = input.Amount.Neg()
		}
		if _, err := uow.Wallets().ApplyBalanceDelta(ctx, w.ID, balanceDelta, input.Amount.Neg()); err != nil {
			return debitErr(err)
		}

		created, err = uow.Transactions().Create(ctx, transaction.Transaction{
			ReferenceNumber: s.newRef(),
			Amount:          input.Amount,
			Description:     input.Description,
			Status:          status,
			FromWalletID:    w.ID,
			ToWalletID:      w.ID,
			TypeID:          txType.ID,
			CreatedAt:       s.now(),
		})
		return err
	})
	if err != nil {
		return transaction.Transaction{}, err
	}

	s.logger.Info("funds withdrawn",
		"transaction_id", created.ID, "wallet_id", created.FromWalletID,
		"amount", created.Amount.String(), "status", created.Status)
	if created.Status == transaction.StatusPending {
		s.notify(ctx, notification.Message{
			Kind:          notification.KindApprovalRequired,
			TransactionID: created.ID,
			Body:          fmt.Sprintf("withdrawal of %s awaits approval", created.Amount),
		})
	}
	return created, nil
}

// ApproveOrDeny manually resolves a PENDING transaction. The status
// compare-and-swap and the deferred balance effect share one unit of work, so
// concurrent resolution attempts apply the effect at most once: the loser of
// the race gets ErrInvalidState and no wallet mutation.
func (s *Service) ApproveOrDeny(ctx context.Context, id int64, next transaction.Status) (transaction.Transaction, error) {
	if next != transaction.StatusApproved && next != transaction.StatusDenied {
		return transaction.Transaction{}, fmt.Errorf("resolution must be %s or %s", transaction.StatusApproved, transaction.StatusDenied)
	}

	var resolved transaction.Transaction
	err := s.runTx(ctx, func(uow UnitOfWork) error {
		var err error
		resolved, err = uow.Transactions().TransitionStatus(ctx, id, transaction.StatusPending, next)
		if err != nil {
			return err
		}

		txType, err := s.types.Resolve(ctx, resolved.TypeID)
		if err != nil {
			return err
		}
		balanceDelta, usableDelta, err := resolutionDeltas(txType.Semantics, resolved.Amount, next)
		if err != nil {
			return err
		}
		if balanceDelta.IsZero() && usableDelta.IsZero() {
			return nil
		}
		_, err = uow.Wallets().ApplyBalanceDelta(ctx, resolved.ToWalletID, balanceDelta, usableDelta)
		return err
	})
	if err != nil {
		return transaction.Transaction{}, err
	}

	s.logger.Info("transaction resolved",
		"transaction_id", resolved.ID, "status", resolved.Status,
		"amount", resolved.Amount.String())
	s.notify(ctx, notification.Message{
		Kind:          notification.KindResolved,
		TransactionID: resolved.ID,
		Body:          fmt.Sprintf("transaction %d resolved as %s", resolved.ID, resolved.Status),
	})
	return resolved, nil
}

// resolutionDeltas computes the deferred balance effect of resolving a
// pending transaction. Approval applies the settled-balance movement that was
// deferred at creation; denial hands the claimed usable balance back.
func resolutionDeltas(sem transaction.Semantics, amount money.Amount, next transaction.Status) (balanceDelta, usableDelta money.Amount, err error) {
	switch sem {
	case transaction.SemanticsCredit:
		if next == transaction.StatusApproved {
			return amount, money.Zero, nil
		}
		return money.Zero, amount.Neg(), nil
	case transaction.SemanticsDebit:
		if next == transaction.StatusApproved {
			return amount.Neg(), money.Zero, nil
		}
		return money.Zero, amount, nil
	default:
		return money.Zero, money.Zero, fmt.Errorf("type semantics %q cannot be pending", sem)
	}
}

// creditLocked applies a policy-gated credit to a wallet already resolved
// inside the current unit of work.
func (s *Service) creditLocked(ctx context.Context, uow UnitOfWork, w wallet.Wallet, amount money.Amount, description, typeID string) (wallet.Wallet, transaction.Transaction, error) {
	status := s.policy.Decide(amount)
	balanceDelta := money.Zero
	if status == transaction.StatusApproved {
		balanceDelta = amount
	}

	updated, err := uow.Wallets().ApplyBalanceDelta(ctx, w.ID, balanceDelta, amount)
	if err != nil {
		return wallet.Wallet{}, transaction.Transaction{}, err
	}

	created, err := uow.Transactions().Create(ctx, transaction.Transaction{
		ReferenceNumber: s.newRef(),
		Amount:          amount,
		Description:     description,
		Status:          status,
		FromWalletID:    w.ID,
		ToWalletID:      w.ID,
		TypeID:          typeID,
		CreatedAt:       s.now(),
	})
	if err != nil {
		return wallet.Wallet{}, transaction.Transaction{}, err
	}
	return updated, created, nil
}

// runTx executes fn as a unit of work, retrying a bounded number of times
// when the store reports a transient failure.
func (s *Service) runTx(ctx context.Context, fn func(uow UnitOfWork) error) error {
	var err error
	for attempt := 0; attempt < maxTxRetries; attempt++ {
		err = s.store.WithinTx(ctx, fn)
		if !errors.Is(err, ErrStoreUnavailable) {
			return err
		}
	}
	return err
}

func (s *Service) notify(ctx context.Context, msg notification.Message) {
	if s.notifier == nil {
		return
	}
	_ = s.notifier.Send(ctx, msg)
}

// debitErr maps the store's negative-balance guard to the domain error a
// caller expects from losing a funds race. The pre-check inside the unit of
// work catches the common case; the guard only trips on true write races.
func debitErr(err error) error {
	if errors.Is(err, wallet.ErrConstraintViolation) {
		return ErrInsufficientFunds
	}
	return err
}
