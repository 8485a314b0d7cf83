package ledger

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/lira-pay/lira_pay/internal/money"
	"github.com/lira-pay/lira_pay/internal/transaction"
	"github.com/lira-pay/lira_pay/internal/wallet"
)

// Handler exposes the ledger engine operations over HTTP.
type Handler struct {
	service *Service
}

// NewHandler builds a ledger HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type createWalletRequest struct {
	OwnerID           int64        `json:"owner_id"`
	IBAN              string       `json:"iban"`
	Name              string       `json:"name"`
	Currency          string       `json:"currency"`
	ActiveForShopping bool         `json:"active_for_shopping"`
	ActiveForWithdraw bool         `json:"active_for_withdraw"`
	InitialBalance    money.Amount `json:"initial_balance"`
}

type transferRequest struct {
	FromIBAN    string       `json:"from_iban"`
	ToIBAN      string       `json:"to_iban"`
	Amount      money.Amount `json:"amount"`
	Description string       `json:"description"`
	TypeID      string       `json:"type_id"`
}

type fundsRequest struct {
	IBAN        string       `json:"iban"`
	Amount      money.Amount `json:"amount"`
	Description string       `json:"description"`
	TypeID      string       `json:"type_id"`
}

type resolutionRequest struct {
	Status transaction.Status `json:"status"`
}

type transactionResponse struct {
	ID              int64        `json:"id"`
	ReferenceNumber string       `json:"reference_number"`
	Amount          money.Amount `json:"amount"`
	Description     string       `json:"description"`
	Status          string       `json:"status"`
	FromWalletID    int64        `json:"from_wallet_id"`
	ToWalletID      int64        `json:"to_wallet_id"`
	TypeID          string       `json:"type_id"`
	CreatedAt       string       `json:"created_at"`
}

func toTransactionResponse(t transaction.Transaction) transactionResponse {
	return transactionResponse{
		ID:              t.ID,
		ReferenceNumber: t.ReferenceNumber.String(),
		Amount:          t.Amount,
		Description:     t.Description,
		Status:          string(t.Status),
		FromWalletID:    t.FromWalletID,
		ToWalletID:      t.ToWalletID,
		TypeID:          t.TypeID,
		CreatedAt:       t.CreatedAt.Format(time.RFC3339Nano),
	}
}

// CreateWallet opens a wallet with an audited initial balance.
func (h *Handler) CreateWallet(c *fiber.Ctx) error {
	var req createWalletRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	w, err := h.service.CreateWallet(c.UserContext(), CreateWalletInput{
		OwnerID:           req.OwnerID,
		IBAN:              req.IBAN,
		Name:              req.Name,
		Currency:          req.Currency,
		ActiveForShopping: req.ActiveForShopping,
		ActiveForWithdraw: req.ActiveForWithdraw,
		InitialBalance:    req.InitialBalance,
	})
	if err != nil {
		return errorFor(err)
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"id":             w.ID,
		"iban":           w.IBAN,
		"balance":        w.Balance,
		"usable_balance": w.UsableBalance,
	})
}

// Transfer moves funds between two wallets.
func (h *Handler) Transfer(c *fiber.Ctx) error {
	var req transferRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	t, err := h.service.Transfer(c.UserContext(), TransferInput{
		FromIBAN:    req.FromIBAN,
		ToIBAN:      req.ToIBAN,
		Amount:      req.Amount,
		Description: req.Description,
		TypeID:      req.TypeID,
	})
	if err != nil {
		return errorFor(err)
	}
	return c.Status(http.StatusCreated).JSON(toTransactionResponse(t))
}

// AddFunds credits a wallet, subject to the approval policy.
func (h *Handler) AddFunds(c *fiber.Ctx) error {
	var req fundsRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	t, err := h.service.AddFunds(c.UserContext(), FundsInput{
		IBAN:        req.IBAN,
		Amount:      req.Amount,
		Description: req.Description,
		TypeID:      req.TypeID,
	})
	if err != nil {
		return errorFor(err)
	}
	return c.Status(http.StatusCreated).JSON(toTransactionResponse(t))
}

// WithdrawFunds debits a wallet, subject to the approval policy.
func (h *Handler) WithdrawFunds(c *fiber.Ctx) error {
	var req fundsRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	t, err := h.service.WithdrawFunds(c.UserContext(), FundsInput{
		IBAN:        req.IBAN,
		Amount:      req.Amount,
		Description: req.Description,
		TypeID:      req.TypeID,
	})
	if err != nil {
		return errorFor(err)
	}
	return c.Status(http.StatusCreated).JSON(toTransactionResponse(t))
}

// Resolve approves or denies a pending transaction.
func (h *Handler) Resolve(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid transaction id")
	}
	var req resolutionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	t, err := h.service.ApproveOrDeny(c.UserContext(), int64(id), req.Status)
	if err != nil {
		return errorFor(err)
	}
	return c.Status(http.StatusOK).JSON(toTransactionResponse(t))
}

// errorFor maps domain errors onto HTTP status codes.
func errorFor(err error) error {
	switch {
	case errors.Is(err, wallet.ErrNotFound), errors.Is(err, transaction.ErrNotFound):
		return fiber.NewError(http.StatusNotFound, err.Error())
	case errors.Is(err, wallet.ErrAlreadyExists), errors.Is(err, transaction.ErrInvalidState):
		return fiber.NewError(http.StatusConflict, err.Error())
	case errors.Is(err, ErrInsufficientFunds),
		errors.Is(err, ErrNonPositiveAmount),
		errors.Is(err, ErrSameWallet),
		errors.Is(err, transaction.ErrUnknownType):
		return fiber.NewError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrStoreUnavailable):
		return fiber.NewError(http.StatusServiceUnavailable, err.Error())
	default:
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
}
