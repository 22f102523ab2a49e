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

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/goodnatureofminers/anchorstore/internal/anchor/ethereum"
	"github.com/goodnatureofminers/anchorstore/internal/anchor/ledger"
	"github.com/goodnatureofminers/anchorstore/internal/anchor/repository/clickhouse"
	"github.com/goodnatureofminers/anchorstore/internal/anchor/service/indexer"
	"github.com/goodnatureofminers/anchorstore/internal/config"
	"github.com/goodnatureofminers/anchorstore/internal/metrics"
)

type indexerConfig struct {
	MetricsAddr string `long:"metrics-addr" env:"ANCHOR_INDEXER_METRICS_ADDR" description:"address for metrics server" default:":2112"`

	Ledger     config.Ledger     `group:"Ledger" namespace:"ledger" env-namespace:"ANCHOR_LEDGER"`
	ClickHouse config.ClickHouse `group:"ClickHouse" namespace:"clickhouse" env-namespace:"ANCHOR_CLICKHOUSE"`
	Indexer    config.Indexer    `group:"Indexer" namespace:"indexer" env-namespace:"ANCHOR_INDEXER"`
}

func main() {
	cfg := indexerConfig{}

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

	if cfg.ClickHouse.DSN == "" {
		logger.Fatal("ClickHouse DSN is required")
	}

	if err := run(ctx, cfg, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("anchor indexer failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg indexerConfig, logger *zap.Logger) error {
	startMetricsServer(ctx, cfg.MetricsAddr, logger)

	ledgerCfg, err := cfg.Ledger.ManagerConfig()
	if err != nil {
		return fmt.Errorf("ledger config: %w", err)
	}
	client, err := ethereum.Dial(ctx, cfg.Ledger.ClientConfig(""), metrics.NewRPCClient(ledgerCfg.Network), logger)
	if err != nil {
		return fmt.Errorf("init ledger client: %w", err)
	}
	manager, err := ledger.NewManager(client, ledgerCfg, logger, metrics.NewAnchor(ledgerCfg.Network))
	if err != nil {
		return fmt.Errorf("init anchor manager: %w", err)
	}

	repo, err := clickhouse.NewRepository(cfg.ClickHouse.DSN, metrics.NewMirror())
	if err != nil {
		return fmt.Errorf("init repository: %w", err)
	}
	defer func() {
		if err := repo.Close(); err != nil {
			logger.Warn("failed to close repository", zap.Error(err))
		}
	}()

	svc, err := indexer.NewService(
		manager,
		repo,
		metrics.NewIndexer(ledgerCfg.Network),
		cfg.Indexer.ServiceConfig(),
		logger,
	)
	if err != nil {
		return err
	}
	return svc.Run(ctx)
}

func startMetricsServer(ctx context.Context, addr string, logger *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("starting metrics server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", zap.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("failed to shutdown metrics server", zap.Error(err))
		}
	}()
}
