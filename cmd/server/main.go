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

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"nr6/internal/config"
	"nr6/internal/draft"
	"nr6/internal/email/noop"
	"nr6/internal/email/ses"
	"nr6/internal/email/smtp"
	"nr6/internal/feed"
	"nr6/internal/handler"
	"nr6/internal/logger"
	"nr6/internal/payment/mock"
	"nr6/internal/payment/stripe"
	"nr6/internal/port"
	"nr6/internal/repository/postgres"
	"nr6/internal/router"
	"nr6/internal/service"
	s3storage "nr6/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	zlog, err := logger.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = zlog.Sync() }()
	zap.ReplaceGlobals(zlog)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(cfg.DB.DSN()); err != nil {
			return fmt.Errorf("failed to apply migrations: %w", err)
		}
		zlog.Info("migrations applied")
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Redis is optional. It backs drafts and relays change events between
	// instances when configured.
	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
	}

	// Initialize repositories
	filingRepo := postgres.NewFilingRepo(db)
	contactRepo := postgres.NewContactRepo(db)
	adminUserRepo := postgres.NewAdminUserRepo(db)

	// Initialize storage
	storage, err := s3storage.NewS3Client(ctx, &cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}

	drafts := draft.NewMemoryStore(cfg.Draft.TTL)
	if cfg.Draft.Backend == "redis" {
		drafts = draft.NewRedisStore(rdb, cfg.Draft.TTL)
	}

	hub := feed.NewHub()
	var changes port.ChangeFeed = hub
	if rdb != nil {
		bridge := feed.NewRedisBridge(hub, rdb, cfg.Redis.Channel, zlog.Named("feed"))
		if err := bridge.Start(ctx); err != nil {
			return fmt.Errorf("failed to start change relay: %w", err)
		}
		defer bridge.Close()
		changes = bridge
	}

	notifier, err := newNotifier(ctx, &cfg.Email, zlog)
	if err != nil {
		return fmt.Errorf("failed to initialize email sender: %w", err)
	}

	var payments port.PaymentProvider
	if cfg.Payment.SecretKey != "" {
		payments = stripe.NewStripeProvider(&cfg.Payment)
	} else {
		zlog.Warn("payment secret key not set, using mock checkout; filings are not charged")
		payments = mock.NewMockProvider(cfg.Payment.FrontendURL)
	}

	// Initialize services
	authSvc := service.NewAuthService(adminUserRepo, cfg.JWT)
	wizardSvc := service.NewWizardService(drafts, cfg.Draft.SessionTTL, zlog.Named("wizard"))
	intakeSvc := service.NewIntakeService(wizardSvc, filingRepo, storage, payments, notifier, changes, cfg.Email.AdminAddress, zlog.Named("intake"))
	contactSvc := service.NewContactService(contactRepo, notifier, changes, cfg.Email.AdminAddress, zlog.Named("contact"))
	adminSvc := service.NewAdminService(filingRepo, contactRepo, storage, notifier, changes, zlog.Named("admin"))
	paymentSvc := service.NewPaymentService(payments, filingRepo, notifier, changes, cfg.Email.AdminAddress, zlog.Named("payment"))

	// Initialize handlers and router
	r := router.Setup(cfg, zlog, authSvc, router.Handlers{
		Health:     handler.NewHealthHandler(db, rdb),
		Calculator: handler.NewCalculatorHandler(cfg.Payment.ServiceFee()),
		Wizard:     handler.NewWizardHandler(wizardSvc, intakeSvc, cfg.Draft.SessionTTL, cfg.Server.Environment == "production"),
		Order:      handler.NewOrderHandler(intakeSvc),
		Contact:    handler.NewContactHandler(contactSvc),
		Webhook:    handler.NewWebhookHandler(paymentSvc),
		Auth:       handler.NewAuthHandler(authSvc),
		Admin:      handler.NewAdminHandler(adminSvc),
		Stream:     handler.NewStreamHandler(changes, adminSvc, zlog.Named("stream")),
	})

	// WriteTimeout stays zero so admin event streams are not cut off.
	srv := &http.Server{
		Addr:              cfg.Server.Port,
		Handler:           r,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		zlog.Info("server starting", zap.String("addr", cfg.Server.Port), zap.String("environment", cfg.Server.Environment))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
	}

	zlog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.WriteTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

func newNotifier(ctx context.Context, cfg *config.EmailConfig, zlog *zap.Logger) (port.Notifier, error) {
	switch cfg.Provider {
	case "ses":
		return ses.NewSESSender(ctx, cfg.Region, cfg.FromAddress, cfg.FromName, cfg.FrontendURL)
	case "smtp":
		return smtp.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.FromAddress, cfg.FromName, cfg.FrontendURL), nil
	default:
		return noop.NewNoopSender(zlog.Named("email"), cfg.FrontendURL), nil
	}
}
