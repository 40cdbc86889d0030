package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/techmine/techmine/internal/apiserver/database"
	"github.com/techmine/techmine/internal/apiserver/handler"
	"github.com/techmine/techmine/internal/apiserver/middleware"
	"github.com/techmine/techmine/internal/apiserver/service"
	"github.com/techmine/techmine/internal/auth/jwt"
	"github.com/techmine/techmine/internal/common/cnst"
	"github.com/techmine/techmine/internal/common/config"
	"github.com/techmine/techmine/internal/common/dto"
	"github.com/techmine/techmine/internal/common/errorx"
	"github.com/techmine/techmine/internal/i18n"
	"github.com/techmine/techmine/pkg/logger"
	"github.com/techmine/techmine/pkg/metrics"
	"github.com/techmine/techmine/pkg/trace"
	"github.com/techmine/techmine/pkg/version"
	"go.uber.org/zap"
)

var (
	configPath string

	profileInput dto.Profile

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of apiserver",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("apiserver version %s\n", version.Get())
		},
	}

	profileCmd = &cobra.Command{
		Use:   "profile",
		Short: "Manage profiles provisioned outside the API",
	}

	profileSetCmd = &cobra.Command{
		Use:   "set",
		Short: "Create or overwrite the profile of an identity provider subject",
		RunE: func(cmd *cobra.Command, args []string) error {
			return setProfile(cmd.Context(), cmd)
		},
	}

	rootCmd = &cobra.Command{
		Use:   cnst.CommandName,
		Short: "Techmine API Server",
		Long:  `Techmine API Server tracks reports, incidents, worksites, clients and attachments of mine sites`,
		Run: func(cmd *cobra.Command, args []string) {
			run()
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "conf", cnst.ApiServerYaml, "path to configuration file")

	profileSetCmd.Flags().StringVar(&profileInput.ID, "subject", "", "identity provider subject (UUID)")
	profileSetCmd.Flags().StringVar(&profileInput.FullName, "name", "", "full name")
	profileSetCmd.Flags().StringVar(&profileInput.Email, "email", "", "email address")
	profileSetCmd.Flags().StringVar(&profileInput.Role, "role", "", "role, e.g. Admin")
	_ = profileSetCmd.MarkFlagRequired("subject")
	profileCmd.AddCommand(profileSetCmd)

	rootCmd.AddCommand(versionCmd, profileCmd)
}

func initLogger(cfg *config.APIServerConfig) *zap.Logger {
	lg, err := logger.NewLogger(&cfg.Logger)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	return lg
}

func initDatabase(lg *zap.Logger, cfg *config.DatabaseConfig) database.Database {
	db, err := database.NewDatabase(cfg)
	if err != nil {
		lg.Fatal("Failed to initialize database", zap.String("type", cfg.Type), zap.Error(err))
	}
	return db
}

// initLimiter returns nil when rate limiting is disabled
func initLimiter(lg *zap.Logger, cfg *config.RateLimitConfig) (*middleware.Limiter, func()) {
	if !cfg.Enabled {
		return nil, func() {}
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	limiter, err := middleware.NewLimiter(client, cfg.Prefix, cfg.Limit, cfg.Window)
	if err != nil {
		lg.Fatal("Failed to initialize rate limiter", zap.Error(err))
	}
	lg.Info("Rate limiting enabled",
		zap.String("addr", cfg.Addr),
		zap.Int("limit", cfg.Limit),
		zap.Duration("window", cfg.Window))
	return limiter, func() { _ = client.Close() }
}

func buildRouter(cfg *config.APIServerConfig, lg *zap.Logger, db database.Database, limiter *middleware.Limiter) (*gin.Engine, error) {
	translator, err := i18n.New(cfg.I18n.DefaultLang)
	if err != nil {
		return nil, fmt.Errorf("load translations: %w", err)
	}
	verifier, err := jwt.NewVerifier(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("init token verifier: %w", err)
	}
	doc, err := handler.LoadOpenAPI()
	if err != nil {
		return nil, err
	}

	opts := []service.Option{}
	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New(cfg.Metrics)
		opts = append(opts, service.WithObserver(m))
	}
	svc := service.New(db, lg, opts...)

	ro := handler.RouterOptions{
		Handler:      handler.New(svc, errorx.NewErrorHandler(lg, translator), lg),
		Verifier:     verifier,
		Languages:    translator,
		Pinger:       db,
		Limiter:      limiter,
		Metrics:      m,
		MetricsPath:  cfg.Metrics.Path,
		OpenAPI:      doc,
		AllowOrigins: cfg.Server.AllowOrigins,
	}
	if cfg.Tracing.Enabled {
		ro.ServiceName = cfg.Tracing.ServiceName
	}
	return handler.NewRouter(ro), nil
}

func run() {
	cfg, cfgPath, err := config.LoadConfig[config.APIServerConfig](configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration from %s: %v", cfgPath, err)
	}

	lg := initLogger(cfg)
	defer lg.Sync()
	lg.Info("Loaded configuration", zap.String("path", cfgPath))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := trace.InitTracing(ctx, &cfg.Tracing, lg)
	if err != nil {
		lg.Fatal("Failed to initialize tracing", zap.Error(err))
	}

	db := initDatabase(lg, &cfg.Database)
	defer db.Close()

	limiter, closeLimiter := initLimiter(lg, &cfg.RateLimit)
	defer closeLimiter()

	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	router, err := buildRouter(cfg, lg, db, limiter)
	if err != nil {
		lg.Fatal("Failed to build router", zap.Error(err))
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		lg.Info("Starting apiserver", zap.String("version", version.Get()), zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	lg.Info("Shutting down apiserver")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownWait)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		lg.Error("Failed to shutdown server", zap.Error(err))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		lg.Error("Failed to flush traces", zap.Error(err))
	}
}

func setProfile(ctx context.Context, cmd *cobra.Command) error {
	cfg, cfgPath, err := config.LoadConfig[config.APIServerConfig](configPath)
	if err != nil {
		return fmt.Errorf("load configuration from %s: %w", cfgPath, err)
	}
	lg := initLogger(cfg)
	defer lg.Sync()

	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	p, err := service.New(db, lg).Profiles.Save(ctx, profileInput)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "profile %s saved (role %q)\n", p.ID, p.Role)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
