package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lira-pay/lira_pay/internal/ledger"
	"github.com/lira-pay/lira_pay/internal/wallet"
)

// RegisterWalletRoutes wires wallet-related endpoints.
func RegisterWalletRoutes(r fiber.Router, h *wallet.Handler, lh *ledger.Handler) {
	r.Post("/wallets", lh.CreateWallet)
	r.Get("/wallets/:id", h.GetByID)
	r.Get("/wallets/iban/:iban", h.GetByIBAN)
	r.Get("/users/:ownerId/wallets", h.ListByOwner)
	r.Post("/wallets/deposits", lh.AddFunds)
	r.Post("/wallets/withdrawals", lh.WithdrawFunds)
}
