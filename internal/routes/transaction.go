package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lira-pay/lira_pay/internal/ledger"
	"github.com/lira-pay/lira_pay/internal/transaction"
)

// RegisterTransactionRoutes wires transaction-related endpoints.
func RegisterTransactionRoutes(r fiber.Router, h *transaction.Handler, lh *ledger.Handler) {
	r.Post("/transfers", lh.Transfer)
	r.Get("/transactions", h.List)
	r.Get("/transactions/:id", h.GetByID)
	r.Get("/transactions/reference/:ref", h.GetByReference)
	r.Get("/users/:ownerId/transactions", h.ListByOwner)
	r.Post("/transactions/:id/resolution", lh.Resolve)
}
