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

	"go.uber.org/zap"

	"github.com/goodnatureofminers/anchorstore/internal/anchor/contentstore"
	"github.com/goodnatureofminers/anchorstore/internal/anchor/ethereum"
	"github.com/goodnatureofminers/anchorstore/internal/anchor/ledger"
	"github.com/goodnatureofminers/anchorstore/internal/anchor/retry"
	"github.com/goodnatureofminers/anchorstore/internal/anchor/storage"
	"github.com/goodnatureofminers/anchorstore/internal/config"
	"github.com/goodnatureofminers/anchorstore/internal/metrics"
	"github.com/goodnatureofminers/anchorstore/internal/transport"
)

type gatewayConfig struct {
	Addr           string `long:"addr" env:"ANCHOR_GATEWAY_ADDR" description:"HTTP listen address" default:":8001"`
	MaxBodyBytes   int64  `long:"max-body-bytes" env:"ANCHOR_GATEWAY_MAX_BODY_BYTES" description:"Largest accepted upload" default:"33554432"`
	ListingWorkers int    `long:"listing-workers" env:"ANCHOR_GATEWAY_LISTING_WORKERS" description:"Parallel lookups of one listing; 0 is unbounded" default:"8"`

	Ledger       config.Ledger       `group:"Ledger" namespace:"ledger" env-namespace:"ANCHOR_LEDGER"`
	ContentStore config.ContentStore `group:"Content store" namespace:"store" env-namespace:"ANCHOR_STORE"`
}

func main() {
	cfg := gatewayConfig{}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic("can't initialize zap logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync()
	}()

	if err := config.Parse(&cfg, os.Args[1:]); err != nil {
		if errors.Is(err, config.ErrHelp) {
			return
		}
		logger.Fatal("failed to parse flags", zap.Error(err))
	}

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("anchor gateway failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg gatewayConfig, logger *zap.Logger) error {
	ledgerCfg, err := cfg.Ledger.ManagerConfig()
	if err != nil {
		return fmt.Errorf("ledger config: %w", err)
	}
	dialLedger := func(ctx context.Context, lc ledger.Config) (storage.AnchorManager, error) {
		clientCfg := cfg.Ledger.ClientConfig(lc.ProviderURL)
		if lc.ContractAddress != "" {
			clientCfg.AnchorAddress = lc.ContractAddress
		}
		client, err := ethereum.Dial(ctx, clientCfg, metrics.NewRPCClient(lc.Network), logger)
		if err != nil {
			return nil, err
		}
		return ledger.NewManager(client, lc, logger, metrics.NewAnchor(lc.Network))
	}
	dialStore := func(_ context.Context, sc contentstore.Config) (storage.ContentStore, error) {
		return contentstore.Open(sc)
	}

	manager, err := dialLedger(ctx, ledgerCfg)
	if err != nil {
		return fmt.Errorf("init ledger: %w", err)
	}
	store, err := dialStore(ctx, cfg.ContentStore.StoreConfig())
	if err != nil {
		return fmt.Errorf("init content store: %w", err)
	}
	facade, err := storage.New(manager, store, storage.Options{
		MaxConcurrency:     cfg.ListingWorkers,
		LedgerDialer:       dialLedger,
		ContentStoreDialer: dialStore,
		Retry:              retry.New(ledgerCfg.Retry, logger.Named("content_retry")),
	}, logger)
	if err != nil {
		return err
	}

	server := transport.NewServer(facade, metrics.NewHTTP(), cfg.MaxBodyBytes, logger)
	s := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server.Handler(),
		ReadTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Minute,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    http.DefaultMaxHeaderBytes,
	}
	go func() {
		<-ctx.Done()
		logger.Info("Shutting down the http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.Shutdown(shutdownCtx); err != nil {
			logger.Error("Failed to shutdown http server", zap.Error(err))
		}
	}()

	logger.Info("Starting HTTP server",
		zap.String("addr", cfg.Addr),
		zap.String("network", ledgerCfg.Network),
		zap.String("store", cfg.ContentStore.Kind),
	)
	if err := s.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
