package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	githubadapter "github.com/camdenr/trackhub/internal/adapter/driven/github"
	sqliteadapter "github.com/camdenr/trackhub/internal/adapter/driven/sqlite"
	httphandler "github.com/camdenr/trackhub/internal/adapter/driving/http"
	"github.com/camdenr/trackhub/internal/application"
	"github.com/camdenr/trackhub/internal/config"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration (fail fast on invalid values).
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"db_path", cfg.DBPath,
		"token_encryption", cfg.HasSecretKey(),
		"webhook_verification", cfg.WebhookSecret != "",
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Open database (dual reader/writer with WAL mode).
	db, err := sqliteadapter.NewDB(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()
	slog.Info("database opened", "path", cfg.DBPath)

	// 4. Run migrations on writer connection.
	if err := sqliteadapter.RunMigrations(db.Writer); err != nil {
		return err
	}
	slog.Info("migrations complete")

	// 5. Wire store adapters.
	repoStore := sqliteadapter.NewRepoRepo(db)
	branchStore := sqliteadapter.NewBranchRepo(db)
	commitStore := sqliteadapter.NewCommitRepo(db)
	prStore := sqliteadapter.NewPRRepo(db)
	checkStore := sqliteadapter.NewCheckRepo(db)
	issueStore := sqliteadapter.NewIssueRepo(db)
	appStore := sqliteadapter.NewAppRepo(db)
	userStore := sqliteadapter.NewUserRepo(db)
	installationStore := sqliteadapter.NewInstallationRepo(db, cfg.SecretKey)

	// 6. Create application services.
	reconciler := application.NewReconcileService(repoStore, branchStore, commitStore, prStore, checkStore, issueStore)
	authSvc := application.NewAuthService(installationStore, appStore, userStore)

	var statsSvc *application.StatsService
	if cfg.GitHubToken != "" {
		statsSvc = application.NewStatsService(githubadapter.NewClient(cfg.GitHubToken), commitStore)
		slog.Info("commit stats backfill enabled")
	} else {
		slog.Info("no github token configured, commit stats backfill disabled")
	}

	// 7. Create HTTP handlers and register routes.
	webhookHandler := httphandler.NewWebhookHandler(
		repoStore, prStore, reconciler, statsSvc, []byte(cfg.WebhookSecret), slog.Default(),
	)
	apiHandler := httphandler.NewHandler(issueStore, prStore, commitStore, authSvc, slog.Default())
	handler := httphandler.NewServeMux(apiHandler, webhookHandler, slog.Default())

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server error", "error", err)
		}
	}()

	slog.Info("trackhub started", "listen_addr", cfg.ListenAddr)

	// 8. Wait for shutdown signal.
	<-ctx.Done()
	slog.Info("shutting down")

	// 9. Graceful shutdown with 10s timeout to drain in-flight webhooks.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}
