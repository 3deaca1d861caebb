// Command gilnokied serves the Gilnokie textile back-office API.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/spf13/cobra"

	"gilnokie-backend/config"
	"gilnokie-backend/internal/api"
	"gilnokie-backend/internal/db"
	"gilnokie-backend/internal/logger"
	"gilnokie-backend/internal/mw"
	"gilnokie-backend/internal/notification"
	"gilnokie-backend/internal/store"
)

const (
	appName           = "gilnokied"
	defaultConfigPath = "./config/config.yaml"
	shutdownTimeout   = 5 * time.Second
)

// Version is set at build time with -ldflags.
var Version = "dev"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:          appName,
		Short:        "Gilnokie textile management API",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file path (default $CONFIG_PATH or "+defaultConfigPath+")")

	cmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(resolveConfigPath(configPath))
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			return migrate(resolveConfigPath(configPath))
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s\n", appName, Version)
		},
	})
	return cmd
}

func resolveConfigPath(flag string) string {
	if flag != "" {
		return flag
	}
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return defaultConfigPath
}

func setup(configPath string) (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load configuration from %s: %w", configPath, err)
	}
	log, err := logger.New(cfg.Log.Mode)
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)
	return cfg, log, nil
}

func migrate(configPath string) error {
	cfg, log, err := setup(configPath)
	if err != nil {
		return err
	}
	defer log.Sync()

	gormDB, err := db.Open(&cfg.Database, cfg.Log.Mode)
	if err != nil {
		return err
	}
	if err := db.Migrate(gormDB); err != nil {
		return err
	}
	log.Info("database schema is up to date")
	return nil
}

func serve(configPath string) error {
	cfg, log, err := setup(configPath)
	if err != nil {
		return err
	}
	defer log.Sync()

	if cfg.Auth.JWTSecret == "" {
		log.Warn("auth.jwt_secret is empty, every protected request will be rejected")
	}

	gormDB, err := db.Init(&cfg.Database, log, cfg.Log.Mode)
	if err != nil {
		return err
	}
	appStore := store.NewGormStore(gormDB, store.WithMaxAttempts(cfg.Numbering.MaxAttempts))
	log.Info("data store initialized")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		webpushOptions *webpush.Options
		notifier       notification.Dispatcher
	)
	if cfg.Push.Enabled() {
		webpushOptions = &webpush.Options{
			VAPIDPublicKey:  cfg.Push.PublicKey,
			VAPIDPrivateKey: cfg.Push.PrivateKey,
			Subscriber:      cfg.Push.Subject,
			TTL:             cfg.Push.TTL,
		}
		pool := notification.NewWorkerPool(cfg.WorkerPool.Size, appStore, webpushOptions, log)
		pool.Start(ctx)
		notifier = pool
		log.Info("push notifications enabled", "workers", cfg.WorkerPool.Size)
	} else {
		log.Warn("VAPID keys not configured, push notifications disabled")
	}

	handler := api.NewHandler(appStore, log, notifier, webpushOptions)
	router := api.NewRouter(handler, api.RouterConfig{
		Server: cfg.Server,
		Auth:   mw.NewAuthenticator(cfg.Auth.JWTSecret, cfg.Auth.CookieName),
		Log:    log,
	})
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server starting", "port", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Info("shutdown signal received, stopping services")
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	log.Info("server gracefully stopped")
	return nil
}
