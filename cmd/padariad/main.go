package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dlemos/padaria/params"
	"github.com/dlemos/padaria/pkg/api"
	"github.com/dlemos/padaria/pkg/app"
	"github.com/dlemos/padaria/pkg/storage"
	"github.com/dlemos/padaria/pkg/util"
)

func main() {
	// Load config from .env file and environment variables
	cfg, err := params.LoadFromEnv("")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// Setup logging (write to both console and file)
	logger, err := util.NewLoggerWithFile(cfg.LogFile)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()
	sugar := logger.Sugar()
	sugar.Infow("logger_initialized", "log_file", cfg.LogFile)

	// ---- Store ----
	var kv storage.KV
	if cfg.Store.InMemory {
		kv = storage.NewMemKV()
		sugar.Info("store_in_memory - nothing will survive restart")
	} else {
		pkv, err := storage.NewPebbleKV(cfg.Store.DataDir)
		if err != nil {
			sugar.Fatalw("store_open_failed", "path", cfg.Store.DataDir, "err", err)
		}
		kv = pkv
		sugar.Infow("store_opened", "path", cfg.Store.DataDir)
	}
	defer kv.Close()

	// ---- App: ledgers + reporting ----
	// New loads both persisted snapshots; corrupt payloads degrade to
	// empty collections with a logged warning.
	a := app.New(kv, sugar)
	sugar.Infow("ledgers_loaded",
		"products", len(a.Inventory.Snapshot()),
		"orders", len(a.Orders.Snapshot()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ---- API Server ----
	srv := api.NewServer(a, sugar, cfg.Server.CORSOrigins)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(cfg.Server.APIAddr)
	}()

	select {
	case <-ctx.Done():
		sugar.Info("shutdown_signal_received")
	case err := <-errCh:
		if err != nil {
			sugar.Fatalw("api_server_failed", "err", err)
		}
		return
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.Server.ShutdownTimeoutSec)*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		sugar.Warnw("shutdown_incomplete", "err", err)
	}
	sugar.Info("stopped")
}
