package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-accounts"
	"github.com/goliatone/go-accounts/avatar"
	"github.com/goliatone/go-accounts/config"
	"github.com/goliatone/go-accounts/mailer"
	"github.com/goliatone/go-accounts/middleware/bearer"
	"github.com/goliatone/go-accounts/repository"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "accountsd: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	zl, err := newLogger(cfg.IsProduction())
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer zl.Sync()
	logger := zapLogger{s: zl.Sugar()}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := repository.Open(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		return err
	}

	repos := repository.NewManager(db)
	repos.MustValidate()
	defer repos.Close()

	if err := repos.Migrate(ctx); err != nil {
		return err
	}

	notifier, err := newNotifier(cfg, logger)
	if err != nil {
		return err
	}

	avatars, err := newAvatarPipeline(ctx, cfg)
	if err != nil {
		return err
	}

	store := repos.Accounts()
	hasher := accounts.NewBcryptHasher(cfg.GetPasswordCost())
	tokens := accounts.NewTokenServiceFromConfig(cfg, accounts.WithTokenLogger(logger))

	verifications := accounts.NewVerificationWorkflow(store, hasher, notifier, cfg,
		accounts.WithVerificationLogger(logger),
		accounts.WithPhoneRegion(cfg.PhoneRegion),
	)
	sessions := accounts.NewSessionIssuer(store, hasher, tokens, accounts.WithSessionLogger(logger))
	profiles := accounts.NewProfileService(store, avatars, accounts.WithProfileLogger(logger))
	authenticator := accounts.NewRequestAuthenticator(store, tokens, accounts.WithAuthenticatorLogger(logger))

	app := fiber.New(fiber.Config{
		AppName:               "accountsd",
		ErrorHandler:          accounts.NewErrorHandler(logger),
		DisableStartupMessage: cfg.IsProduction(),
	})

	if cfg.Avatar.Driver == config.AvatarDriverLocal {
		app.Static("/"+filepath.Base(cfg.Avatar.Dir), cfg.Avatar.Dir)
	}

	controller := accounts.NewAccountController(verifications, sessions, profiles,
		accounts.WithControllerLogger(logger),
	)
	controller.RegisterRoutes(app.Group(cfg.RoutePrefix), bearer.New(bearer.Config{
		Authenticator: authenticator,
	}))

	errc := make(chan error, 1)
	go func() {
		logger.Info("listening on %s", cfg.HTTPAddr)
		errc <- app.Listen(cfg.HTTPAddr)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	return app.ShutdownWithTimeout(shutdownTimeout)
}

func newNotifier(cfg *config.Config, logger accounts.Logger) (accounts.Notifier, error) {
	if cfg.SMTP.Host == "" {
		logger.Warn("SMTP_HOST not set, verification mails are logged only")
		return mailer.NewLog(logger), nil
	}
	return mailer.NewSMTP(cfg.SMTPConfig())
}

func newAvatarPipeline(ctx context.Context, cfg *config.Config) (accounts.AvatarPipeline, error) {
	if cfg.Avatar.Driver == config.AvatarDriverS3 {
		return avatar.NewS3(ctx, cfg.S3Config())
	}
	return avatar.NewLocal(cfg.Avatar.Dir, filepath.Base(cfg.Avatar.Dir))
}
