package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"sms-forward-relay-go/internal/backend"
	"sms-forward-relay-go/internal/config"
	"sms-forward-relay-go/internal/db"
	"sms-forward-relay-go/internal/forwarder"
	"sms-forward-relay-go/internal/handlers"
	"sms-forward-relay-go/internal/metrics"
	"sms-forward-relay-go/internal/registration"
	"sms-forward-relay-go/internal/repository"
	"sms-forward-relay-go/internal/server"
	"sms-forward-relay-go/internal/syncer"
)

// Run initializes and starts the application
func Run() error {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetLevel(logrus.InfoLevel)

	logrus.Info("Starting SMS Forward Relay")

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	dbConn, err := db.Init(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	m := metrics.NewMetrics()
	repo := repository.New(dbConn)
	client := backend.NewClient(&cfg.Backend)

	regService := registration.NewService(repo, client, cfg.Device)
	// best effort, the device may be offline; dispatch and sync stay
	// dormant until a registration id exists
	regCtx, regCancel := context.WithTimeout(context.Background(), cfg.Backend.Timeout)
	if err := regService.RegisterIfNeeded(regCtx); err != nil {
		logrus.Warnf("Registration deferred: %v", err)
	}
	regCancel()

	dispatcher := forwarder.New(repo, client, m)
	sync := syncer.New(&cfg.Sync, repo, client, m)

	h := handlers.NewHandlers(dbConn, repo, dispatcher, sync, regService, client, m)
	router := server.SetupRouter(h)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	if err := sync.Start(); err != nil {
		return fmt.Errorf("failed to start profile sync: %w", err)
	}

	go func() {
		logrus.Infof("Starting HTTP server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("HTTP server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := sync.Stop(); err != nil {
		logrus.Errorf("Failed to stop profile sync: %v", err)
	}
	sync.Wait()

	if err := srv.Shutdown(ctx); err != nil {
		logrus.Errorf("HTTP server shutdown error: %v", err)
	}

	logrus.Info("Server stopped gracefully")
	return nil
}
