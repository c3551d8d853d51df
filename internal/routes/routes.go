package routes

import (
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/rafaelmunetiko/Carteira/internal/auth"
	"github.com/rafaelmunetiko/Carteira/internal/config"
	"github.com/rafaelmunetiko/Carteira/internal/identity"
	"github.com/rafaelmunetiko/Carteira/internal/ledger"
	"github.com/rafaelmunetiko/Carteira/internal/middleware"
	"github.com/rafaelmunetiko/Carteira/internal/notification"
	"github.com/rafaelmunetiko/Carteira/internal/payments"
	"github.com/rafaelmunetiko/Carteira/internal/statement"
	"github.com/rafaelmunetiko/Carteira/internal/wallet"
)

// Deps aggregates shared dependencies required to wire routes.
type Deps struct {
	Cfg    config.Config
	DB     *pgxpool.Pool
	Cache  *redis.Client
	Logger *slog.Logger
}

// Setup configures middlewares and all application routes. Without a
// database the in-memory backends are used, which is only permitted in dev.
func Setup(app *fiber.App, d Deps) error {
	if !d.Cfg.IsDev() {
		if d.DB == nil {
			return fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.AppEnv)
		}
	}

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.Audit(d.Logger))
	if d.Cache != nil {
		app.Use(middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))
	}

	var (
		ledgerBackend ledger.Ledger
		userRepo      identity.Repository
	)
	if d.DB != nil {
		ledgerBackend = ledger.NewPostgres(d.DB, d.Logger)
		userRepo = identity.NewPostgresRepository(d.DB)
	} else {
		ledgerBackend = ledger.NewInMemory()
		userRepo = identity.NewMemoryRepository()
	}

	userSvc := identity.NewService(userRepo)
	tokenSvc := auth.NewService(d.Cfg)
	notifier := notification.NewLoggerNotifier(d.Logger)

	walletSvc := wallet.NewService(ledgerBackend, d.Logger)
	paymentSvc := payments.NewService(ledgerBackend, userRepo, notifier, d.Logger)
	statementSvc := statement.NewService(ledgerBackend, userRepo)

	authHandler := auth.NewHandler(userSvc, tokenSvc)
	walletHandler := wallet.NewHandler(walletSvc)
	paymentHandler := payments.NewHandler(paymentSvc)
	statementHandler := statement.NewHandler(statementSvc)

	RegisterHealthRoute(app, d)

	// Public surface: account creation and token issuance.
	app.Post("/users", authHandler.Register)
	app.Post("/login", middleware.LoginRateLimit(d.Cache, d.Cfg.LoginRateLimit), authHandler.Login)
	app.Post("/login/refresh", authHandler.Refresh)

	// Everything that touches a wallet requires a bearer token.
	protected := app.Group("", middleware.BearerAuth(tokenSvc))
	protected.Get("/balance", walletHandler.Balance)
	protected.Post("/balance/add", walletHandler.AddBalance)
	protected.Post("/transfer", paymentHandler.Transfer)
	protected.Get("/transfers", statementHandler.List)

	return nil
}
