package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	httpadapter "github.com/PabloGalante/pill-oracle/internal/adapters/http"
	"github.com/PabloGalante/pill-oracle/internal/adapters/llm"
	memstore "github.com/PabloGalante/pill-oracle/internal/adapters/storage/memory"
	"github.com/PabloGalante/pill-oracle/internal/app/fortune"
	"github.com/PabloGalante/pill-oracle/internal/app/oracle"
	"github.com/PabloGalante/pill-oracle/internal/config"
	"github.com/PabloGalante/pill-oracle/internal/domain"
	"github.com/PabloGalante/pill-oracle/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	observability.SetLevel(cfg.LogLevel)
	logger := observability.Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, closeClient, err := llm.NewFromConfig(ctx, cfg)
	if err != nil {
		log.Fatalf("error initializing %s inference client: %v", cfg.Backend, err)
	}
	defer closeClient()
	logger.Info("inference backend ready", "backend", cfg.Backend)

	// Storage: sessions only live in memory
	sessionStore := memstore.NewSessionStore()

	svc := oracle.NewService(sessionStore, func(id domain.SessionID) domain.FortuneMachine {
		return fortune.New(client,
			fortune.WithAgentID(cfg.AgentID),
			fortune.WithRevealDelay(cfg.RevealDelay),
			fortune.WithRequestTimeout(cfg.RequestTimeout),
			fortune.WithLogger(observability.WithFields("component", "fortune", "session_id", id)),
		)
	}, cfg.SessionTTL)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           httpadapter.NewServer(svc),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("oracle API listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if cfg.SessionTTL > 0 && cfg.SweepInterval > 0 {
		g.Go(func() error {
			ticker := time.NewTicker(cfg.SweepInterval)
			defer ticker.Stop()
			for {
				select {
				case <-gctx.Done():
					return nil
				case now := <-ticker.C:
					if _, err := svc.Sweep(gctx, now); err != nil {
						logger.Error("session sweep failed", "error", err)
					}
				}
			}
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("oracle API stopped", "error", err)
		os.Exit(1)
	}
	logger.Info("oracle API stopped")
}
