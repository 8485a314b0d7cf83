package transaction

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/lira-pay/lira_pay/internal/money"
)

// Handler exposes transaction read endpoints.
type Handler struct {
	repo Repository
}

// NewHandler builds a transaction HTTP handler.
func NewHandler(repo Repository) *Handler {
	return &Handler{repo: repo}
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

func toResponse(t Transaction) transactionResponse {
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

// GetByID returns a single transaction by id.
func (h *Handler) GetByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid transaction id")
	}
	t, err := h.repo.FindByID(c.UserContext(), int64(id))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(http.StatusNotFound, err.Error())
		}
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.Status(http.StatusOK).JSON(toResponse(t))
}

// GetByReference returns a single transaction by reference number.
func (h *Handler) GetByReference(c *fiber.Ctx) error {
	ref, err := uuid.Parse(c.Params("ref"))
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid reference number")
	}
	t, err := h.repo.FindByReferenceNumber(c.UserContext(), ref)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return fiber.NewError(http.StatusNotFound, err.Error())
		}
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.Status(http.StatusOK).JSON(toResponse(t))
}

// ListByOwner returns every transaction touching any wallet of one owner.
func (h *Handler) ListByOwner(c *fiber.Ctx) error {
	ownerID, err := c.ParamsInt("ownerId")
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid owner id")
	}
	items, err := h.repo.FindAllByWalletOwner(c.UserContext(), int64(ownerID))
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	out := make([]transactionResponse, 0, len(items))
	for _, t := range items {
		out = append(out, toResponse(t))
	}
	return c.Status(http.StatusOK).JSON(out)
}

// List returns one page of transactions.
func (h *Handler) List(c *fiber.Ctx) error {
	page, err := h.repo.FindAll(c.UserContext(), PageRequest{
		Page: c.QueryInt("page", 1),
		Size: c.QueryInt("size", 20),
		Sort: c.Query("sort", "id"),
	})
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	items := make([]transactionResponse, 0, len(page.Items))
	for _, t := range page.Items {
		items = append(items, toResponse(t))
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"items": items,
		"page":  page.Page,
		"size":  page.Size,
		"total": page.Total,
	})
}
