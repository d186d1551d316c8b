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

	"github.com/nexora-labs/website-backend/config"
	"github.com/nexora-labs/website-backend/internal/bootstrap"
	"github.com/nexora-labs/website-backend/internal/contact/service"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

// run returns instead of exiting so deferred closers always run.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	bootstrap.SetGinMode(cfg.App.Environment)

	ctx := context.Background()

	store, closeStore, err := bootstrap.OpenStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("store: %w", err)
	}
	defer closeStore()

	mailer, err := bootstrap.NewMailer(cfg)
	if err != nil {
		return fmt.Errorf("mailer: %w", err)
	}

	limiter, closeLimiter, err := bootstrap.NewLimiter(ctx, cfg)
	if err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}
	defer closeLimiter()

	router, err := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName:    cfg.App.ServiceName,
		Version:        cfg.App.Version,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		TrustedProxies: cfg.Server.TrustedProxies,
		Store:          store,
		Contact:        service.NewSubmissionService(store, mailer, cfg.Site),
		Limiter:        limiter,
	})
	if err != nil {
		return fmt.Errorf("router: %w", err)
	}

	log.Printf("starting (store=%s env=%s)", cfg.Store.Backend, cfg.App.Environment)
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	return serve(srv, stop)
}

// serve runs srv until it fails or a signal arrives on stop, then shuts it
// down gracefully.
func serve(srv *http.Server, stop <-chan os.Signal) error {
	serveErr := make(chan error, 1)
	go func() {
		log.Printf("listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("server: %w", err)
	case <-stop:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
	log.Println("server stopped")
	return nil
}
