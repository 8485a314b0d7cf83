package wallet

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/lira-pay/lira_pay/internal/money"
)

// Handler exposes wallet read endpoints. All writes go through the ledger
// engine, never through here.
type Handler struct {
	repo Repository
}

// NewHandler builds a wallet HTTP handler.
func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
}

type walletResponse struct {
	ID                int64        `json:"id"`
	OwnerID           int64        `json:"owner_id"`
	IBAN              string       `json:"iban"`
	Name              string       `json:"name"`
	Currency          string       `json:"currency"`
	Balance           money.Amount `json:"balance"`
	UsableBalance     money.Amount `json:"usable_balance"`
	ActiveForShopping bool         `json:"active_for_shopping"`
	ActiveForWithdraw bool         `json:"active_for_withdraw"`
	CreatedAt         string       `json:"created_at"`
}

func toResponse(w Wallet) walletResponse {
	return walletResponse{
		ID:                w.ID,
		OwnerID:           w.OwnerID,
		IBAN:              w.IBAN,
		Name:              w.Name,
		Currency:          w.Currency,
		Balance:           w.Balance,
		UsableBalance:     w.UsableBalance,
		ActiveForShopping: w.ActiveForShopping,
		ActiveForWithdraw: w.ActiveForWithdraw,
		CreatedAt:         w.CreatedAt.Format(time.RFC3339Nano),
	}
}

// GetByID returns a single wallet by id.
func (h *Handler) GetByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid wallet id")
	}
	w, err := h.repo.FindByID(c.UserContext(), int64(id))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(http.StatusNotFound, err.Error())
		}
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.Status(http.StatusOK).JSON(toResponse(w))
}

// GetByIBAN returns a single wallet by IBAN.
func (h *Handler) GetByIBAN(c *fiber.Ctx) error {
	w, err := h.repo.FindByIBAN(c.UserContext(), c.Params("iban"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(http.StatusNotFound, err.Error())
		}
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.Status(http.StatusOK).JSON(toResponse(w))
}

// ListByOwner returns every wallet of one owner.
func (h *Handler) ListByOwner(c *fiber.Ctx) error {
	ownerID, err := c.ParamsInt("ownerId")
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid owner id")
	}
	wallets, err := h.repo.FindByOwner(c.UserContext(), int64(ownerID))
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	out := make([]walletResponse, 0, len(wallets))
	for _, w := range wallets {
		out = append(out, toResponse(w))
	}
	return c.Status(http.StatusOK).JSON(out)
}
