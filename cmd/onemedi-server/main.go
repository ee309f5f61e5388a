package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/onemedi/onemedi/internal/config"
	"github.com/onemedi/onemedi/internal/domain/booking"
	"github.com/onemedi/onemedi/internal/domain/cart"
	"github.com/onemedi/onemedi/internal/domain/catalog"
	"github.com/onemedi/onemedi/internal/domain/diagnostics"
	"github.com/onemedi/onemedi/internal/domain/doctors"
	"github.com/onemedi/onemedi/internal/domain/location"
	"github.com/onemedi/onemedi/internal/domain/order"
	"github.com/onemedi/onemedi/internal/domain/uiconfig"
	"github.com/onemedi/onemedi/internal/platform/auth"
	"github.com/onemedi/onemedi/internal/platform/clientstate"
	"github.com/onemedi/onemedi/internal/platform/db"
	"github.com/onemedi/onemedi/internal/platform/middleware"
	"github.com/onemedi/onemedi/internal/platform/query"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "onemedi-server",
		Short: "One Medi commerce API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			count, err := migrator.Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			migrator := db.NewMigrator(pool, dir)
			statuses, err := migrator.Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

func runServer() error {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	if cfg.IsDev() {
		e.Use(auth.DevAuthMiddleware())
	} else {
		jwtCfg := auth.JWTConfig{
			Issuer:   cfg.AuthIssuer,
			Audience: cfg.AuthAudience,
			JWKSURL:  cfg.AuthJWKSURL,
		}
		if cfg.AuthSigningKey != "" {
			jwtCfg.SigningKey = []byte(cfg.AuthSigningKey)
		}
		e.Use(auth.JWTMiddleware(jwtCfg))
	}

	apiV1 := e.Group("/api/v1")

	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}
	apiV1.Use(middleware.RateLimit(rateLimitCfg))

	// Shared data access
	ds := query.NewPGSource(pool)
	stateStorage := clientstate.NewPGStorage(pool)

	e.GET("/health", db.HealthHandler(pool, db.Check{
		Name: "client_state",
		Run: func(ctx context.Context) error {
			_, err := stateStorage.Load(ctx, "healthcheck")
			return err
		},
	}))

	// Catalog domain
	medicineRepo := catalog.NewMedicineRepo(ds)
	vendorRepo := catalog.NewVendorRepo(ds)
	catalogSvc := catalog.NewService(medicineRepo, vendorRepo)
	catalogHandler := catalog.NewHandler(catalogSvc)
	catalogHandler.RegisterRoutes(apiV1)

	// Diagnostics domain
	labTestRepo := diagnostics.NewLabTestRepo(ds)
	scanRepo := diagnostics.NewScanRepo(ds)
	diagSvc := diagnostics.NewService(labTestRepo, scanRepo)
	diagHandler := diagnostics.NewHandler(diagSvc)
	diagHandler.RegisterRoutes(apiV1)

	// Doctors domain
	doctorRepo := doctors.NewRepo(ds)
	doctorSvc := doctors.NewService(doctorRepo)
	doctorHandler := doctors.NewHandler(doctorSvc)
	doctorHandler.RegisterRoutes(apiV1)

	// Booking domain
	bookingRepo := booking.NewRepo(ds)
	bookingSvc := booking.NewService(bookingRepo)
	bookingHandler := booking.NewHandler(bookingSvc)
	bookingHandler.RegisterRoutes(apiV1)

	// Cart domain
	carts := cart.NewManager(stateStorage)
	cartHandler := cart.NewHandler(carts)
	cartHandler.RegisterRoutes(apiV1)

	// Order domain
	orderRepo := order.NewRepoPG(pool)
	couponRepo := order.NewCouponRepoPG(pool)
	orderSvc := order.NewService(orderRepo, couponRepo)
	orderHandler := order.NewHandler(orderSvc, carts)
	orderHandler.RegisterRoutes(apiV1)

	// UI config domain
	uiRepo := uiconfig.NewRepo(ds)
	uiSvc := uiconfig.NewService(uiRepo)
	uiHandler := uiconfig.NewHandler(uiSvc)
	uiHandler.RegisterRoutes(apiV1)

	// Location domain
	locSvc := location.NewService(stateStorage)
	locHandler := location.NewHandler(locSvc)
	locHandler.RegisterRoutes(apiV1)

	// Start server with graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Str("env", cfg.Env).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("forced shutdown")
		return err
	}
	logger.Info().Msg("server stopped")
	return nil
}
