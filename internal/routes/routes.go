package routes

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/lira-pay/lira_pay/internal/auth"
	"github.com/lira-pay/lira_pay/internal/config"
	"github.com/lira-pay/lira_pay/internal/ledger"
	"github.com/lira-pay/lira_pay/internal/middleware"
	"github.com/lira-pay/lira_pay/internal/notification"
	"github.com/lira-pay/lira_pay/internal/transaction"
	"github.com/lira-pay/lira_pay/internal/user"
	"github.com/lira-pay/lira_pay/internal/wallet"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) error {
	// Enforce DB/Redis presence outside of dev, even though main also checks.
	if !isDev(d.Cfg.AppEnv) {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
		if d.Cache == nil {
			return fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}

	// Middlewares
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Audit(d.Logger))
	if d.Cache != nil {
		app.Use(middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))
	}

	// Health
	RegisterHealthRoutes(app, d)

	// Repositories and the transactional store. The in-memory store keeps
	// local development working without Postgres.
	var (
		store    ledger.Store
		types    transaction.TypeResolver
		userRepo user.Repository
	)
	if d.DB != nil {
		store = ledger.NewPostgresStore(d.DB)
		types = transaction.NewPostgresTypeResolver(d.DB)
		userRepo = user.NewPostgresRepository(d.DB)
	} else {
		store = ledger.NewMemoryStore()
		types = transaction.NewStaticTypeResolver()
		userRepo = user.NewMemoryRepository()
	}

	notifier := notification.NewLoggerNotifier(d.Logger)
	policy := ledger.NewApprovalPolicy(d.Cfg.ApprovalLimit)
	ledgerSvc := ledger.NewService(store, types, policy, d.Logger, notifier)

	userSvc := user.NewService(userRepo)
	authSvc := auth.NewService(d.Cfg, userSvc)

	ledgerHandler := ledger.NewHandler(ledgerSvc)
	walletHandler := wallet.NewHandler(store.Wallets())
	txHandler := transaction.NewHandler(store.Transactions())
	authHandler := auth.NewHandler(userSvc, authSvc)

	// API routes
	api := app.Group("/api/v1")
	api.Get("/ping", func(c *fiber.Ctx) error {
		reqID, _ := c.Locals("X-Request-ID").(string)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": reqID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	// Public routes
	rateLimiter := middleware.LoginRateLimit(d.Cache, 5)
	RegisterAuthRoutes(api, authHandler, rateLimiter)

	// Protected routes
	jwtmw := middleware.JWTAuth(d.Cfg, userRepo)
	protected := api.Group("", jwtmw)
	RegisterWalletRoutes(protected, walletHandler, ledgerHandler)
	RegisterTransactionRoutes(protected, txHandler, ledgerHandler)

	return nil
}

func isDev(env string) bool {
	switch strings.ToLower(env) {
	case "dev", "development", "local":
		return true
	default:
		return false
	}
}
