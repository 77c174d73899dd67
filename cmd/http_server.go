package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/hosana-alex/leave-management/internal"
	"github.com/hosana-alex/leave-management/internal/account"
	accountpg "github.com/hosana-alex/leave-management/internal/account/postgres"
	"github.com/hosana-alex/leave-management/internal/analytics"
	analyticspg "github.com/hosana-alex/leave-management/internal/analytics/postgres"
	"github.com/hosana-alex/leave-management/internal/auth"
	authpg "github.com/hosana-alex/leave-management/internal/auth/postgres"
	"github.com/hosana-alex/leave-management/internal/balance"
	balancepg "github.com/hosana-alex/leave-management/internal/balance/postgres"
	"github.com/hosana-alex/leave-management/internal/core/events"
	"github.com/hosana-alex/leave-management/internal/leave"
	leavepg "github.com/hosana-alex/leave-management/internal/leave/postgres"
	"github.com/hosana-alex/leave-management/internal/notification"
	notificationpg "github.com/hosana-alex/leave-management/internal/notification/postgres"
	"github.com/hosana-alex/leave-management/internal/transport/rest"
	"github.com/hosana-alex/leave-management/pkg/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config   *internal.Config
	DB       *gorm.DB
	SQLDB    *sqlx.DB
	Router   *chi.Mux
	Handlers rest.Handlers
	RBAC     *auth.RBACAuthorization
	Logger   *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	rest.RegisterAllRoutes(deps.Router, deps.SQLDB.DB, deps.Handlers, deps.RBAC, deps.Logger)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	slog.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		slog.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
		if err := deps.SQLDB.Close(); err != nil {
			slog.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("Server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(os.Getenv("APP_ENV"), logger.LoggingOptions{
		Level:  config.Observability.Logging.Level,
		Format: config.Observability.Logging.Format,
	})
	log := logger.LoggerWrapper()

	gormDB, sqlxDB, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	bus := events.NewEventBus(log)

	accountRepo := accountpg.NewAccountRepository(gormDB)
	authRepo := authpg.NewRepository(gormDB)
	leaveRepo := leavepg.NewLeaveRepository(gormDB)
	balanceRepo := balancepg.NewBalanceRepository(gormDB)
	notificationRepo := notificationpg.NewNotificationRepository(gormDB)
	analyticsRepo := analyticspg.NewAnalyticsRepository(sqlxDB)

	balanceService := balance.NewService(balanceRepo, config.Leave.DefaultAllocations, config.Leave.HardCapBalances, log)
	accountService := account.NewService(accountRepo, balanceService, bus, log, config.Leave.AutoApproveDomains, config.Security.BCryptCost)
	tokenGenerator := auth.NewJWTTokenGenerator(
		config.Security.AccessTokenSecret,
		config.Security.RefreshTokenSecret,
		config.Security.AccessTokenDuration,
		config.Security.RefreshTokenDuration,
	)
	authService := auth.NewService(authRepo, tokenGenerator, config.Security.BCryptCost, config.Security.MinPasswordLength)
	leaveService := leave.NewService(leaveRepo, accountService, balanceService, bus, log)
	notificationService := notification.NewService(notificationRepo, log)
	analyticsService := analytics.NewService(analyticsRepo, log)

	notification.NewDispatcher(notificationService, log).RegisterHandlers(bus)

	handlers := rest.Handlers{
		Auth:         auth.NewHandler(authService),
		Account:      account.NewHandler(accountService),
		Leave:        leave.NewHandler(leaveService),
		Balance:      balance.NewHandler(balanceService),
		Notification: notification.NewHandler(notificationService),
		Analytics:    analytics.NewHandler(analyticsService),
	}
	rbac := auth.NewRBACAuthorization(auth.NewPermissionChecker(), log)

	return &Dependencies{
		Config:   config,
		DB:       gormDB,
		SQLDB:    sqlxDB,
		Router:   chi.NewRouter(),
		Handlers: handlers,
		RBAC:     rbac,
		Logger:   log,
	}, nil
}

// initDB opens one connection pool and exposes it through both GORM (write
// paths) and sqlx (analytics read model).
func initDB(cfg internal.DatabaseConfig) (*gorm.DB, *sqlx.DB, error) {
	var dialector gorm.Dialector
	driverName := "pgx"
	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.Source)
		driverName = "sqlite3"
	default:
		dialector = postgres.Open(cfg.Source)
	}

	gormDB, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to access db pool: %w", err)
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return gormDB, sqlx.NewDb(sqlDB, driverName), nil
}
