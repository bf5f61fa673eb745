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
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/vektora/capacity-admin/internal"
	"github.com/vektora/capacity-admin/internal/audit"
	auditPostgres "github.com/vektora/capacity-admin/internal/audit/postgres"
	"github.com/vektora/capacity-admin/internal/auth"
	authPostgres "github.com/vektora/capacity-admin/internal/auth/postgres"
	"github.com/vektora/capacity-admin/internal/settings"
	settingsPostgres "github.com/vektora/capacity-admin/internal/settings/postgres"
	"github.com/vektora/capacity-admin/internal/transport"
	"github.com/vektora/capacity-admin/internal/transport/rest"
	"github.com/vektora/capacity-admin/internal/usage"
	usagePostgres "github.com/vektora/capacity-admin/internal/usage/postgres"
	"github.com/vektora/capacity-admin/internal/worktype"
	worktypePostgres "github.com/vektora/capacity-admin/internal/worktype/postgres"
	"github.com/vektora/capacity-admin/pkg/logger"
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
	Config *internal.Config
	DB     *sqlx.DB
	Router *chi.Mux
	Logger *slog.Logger

	AuthHandler     *auth.Handler
	WorkTypeHandler *worktype.Handler
	SettingsHandler *settings.Handler
	AuditHandler    *audit.Handler
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	rest.RegisterAllRoutes(deps.Router, deps.DB.DB, deps.AuthHandler, deps.WorkTypeHandler, deps.SettingsHandler, deps.AuditHandler, deps.Logger)

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
		if err := deps.DB.Close(); err != nil {
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

	logger.Init(os.Getenv("APP_ENV"))
	lg := logger.L()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open gorm connection: %w", err)
	}

	baseHandler := transport.NewBaseHandler(lg)

	auditService := audit.NewService(auditPostgres.NewAuditRepository(gormDB), lg)
	usageService := usage.NewService(usagePostgres.NewTimeEntryRepository(gormDB), lg)

	workTypeService := worktype.NewService(worktypePostgres.NewWorkTypeRepository(gormDB), auditService, usageService, lg)
	workTypeGuard := worktype.NewGuard(workTypeService, usageService, lg)

	settingsService := settings.NewService(settingsPostgres.NewSettingsRepository(gormDB), auditService, lg)

	tokenGen := auth.NewJWTTokenGenerator(
		config.Security.AccessTokenSecret,
		config.Security.RefreshTokenSecret,
		config.Security.AccessTokenDuration,
		config.Security.RefreshTokenDuration,
	)
	authService := auth.NewService(authPostgres.NewUserRepository(gormDB), tokenGen, lg)

	return &Dependencies{
		Config: config,
		DB:     db,
		Router: chi.NewRouter(),
		Logger: lg,

		AuthHandler:     auth.NewHandler(baseHandler, authService),
		WorkTypeHandler: worktype.NewHandler(baseHandler, workTypeService, workTypeGuard),
		SettingsHandler: settings.NewHandler(baseHandler, settingsService),
		AuditHandler:    audit.NewHandler(baseHandler, auditService),
	}, nil
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// verify connection; close underlying *sql.DB on failure
	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
