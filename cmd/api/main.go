package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	"formdesk-backend/internal/billing"
	"formdesk-backend/internal/config"
	"formdesk-backend/internal/handlers"
	"formdesk-backend/internal/render"
	"formdesk-backend/internal/session"
	"formdesk-backend/internal/storage"
)

func main() {
	// 1. Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// 2. Session registry; every new session gets a form and an invoice
	sessions := session.NewStore(billing.Options{
		Fees:   cfg.Billing.Fees(),
		Issuer: cfg.Billing.Issuer(),
	})

	// 3. Optional export archive
	archive, err := newArchive(ctx, cfg.Export)
	if err != nil {
		log.Fatalf("Failed to initialize export archive: %v", err)
	}

	// Start background cleanup of idle sessions
	session.StartSweeper(ctx, sessions, cfg.SweepInterval, cfg.SessionTTL)

	// 4. Router
	router := handlers.NewRouter(ctx, handlers.RouterConfig{
		Sessions:      sessions,
		SessionSecret: cfg.SessionSecret,
		SessionTTL:    cfg.SessionTTL,
		CORSOrigins:   cfg.CORSOrigins,
		RateLimit:     rate.Limit(cfg.RateLimit.RPS),
		Burst:         cfg.RateLimit.Burst,
		Renderer:      render.NewPDFRenderer(),
		Archive:       archive,
		ExportDir:     cfg.Export.Dir,
	})

	// 5. Start server with graceful shutdown
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: router,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("Server started on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-done
	log.Println("Server stopped")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited properly")
}

// newArchive picks the export archive backend. "none" returns a nil store.
func newArchive(ctx context.Context, c config.Export) (storage.Store, error) {
	switch c.Store {
	case "local":
		log.Printf("[export] archiving to %s", c.Dir)
		return storage.NewLocalStore(c.Dir, c.BaseURL)
	case "r2":
		log.Printf("[export] archiving to r2 bucket %s", c.R2Bucket)
		return storage.NewR2Store(ctx, storage.R2Config{
			AccountID: c.R2AccountID,
			AccessKey: c.R2AccessKey,
			SecretKey: c.R2SecretKey,
			Bucket:    c.R2Bucket,
			PublicURL: c.R2PublicURL,
		})
	default:
		return nil, nil
	}
}
