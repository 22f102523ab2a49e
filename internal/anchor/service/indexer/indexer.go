// Package indexer mirrors anchored commitments from the ledger into the
// ClickHouse read model, following the chain head.
package indexer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/goodnatureofminers/anchorstore/internal/anchor/model"
	"github.com/goodnatureofminers/anchorstore/internal/clock"
)

// Config tunes the indexing loop. Zero values fall back to defaults.
type Config struct {
	ChunkSize     uint64
	Concurrency   int
	IdleSleep     time.Duration
	ErrorSleep    time.Duration
	FlushSize     int
	FlushInterval time.Duration
	WriteRPS      int
}

func (c Config) withDefaults() Config {
	if c.ChunkSize == 0 {
		c.ChunkSize = defaultChunkSize
	}
	if c.Concurrency <= 0 {
		c.Concurrency = defaultConcurrency
	}
	if c.IdleSleep <= 0 {
		c.IdleSleep = defaultIdleSleep
	}
	if c.ErrorSleep <= 0 {
		c.ErrorSleep = defaultErrorSleep
	}
	if c.FlushSize <= 0 {
		c.FlushSize = defaultFlushSize
	}
	if c.FlushInterval <= 0 {
		c.FlushInterval = defaultFlushInterval
	}
	return c
}

// Service walks the chain in chunks from the last indexed block to the head.
type Service struct {
	logger  *zap.Logger
	network string
	cfg     Config
	ledger  Ledger
	repo    Repository
	writer  EntryWriter
	metrics Metrics
	rewind  *rewindMark
	sleep   func(context.Context, time.Duration) error
}

// NewService builds a Service writing through a batched repository writer.
func NewService(ledger Ledger, repo Repository, metrics Metrics, cfg Config, logger *zap.Logger) (*Service, error) {
	if ledger == nil {
		return nil, errors.New("indexer ledger is required")
	}
	if repo == nil {
		return nil, errors.New("indexer repository is required")
	}
	if metrics == nil {
		return nil, errors.New("indexer metrics is required")
	}

	cfg = cfg.withDefaults()
	network := ledger.Network().Name
	logger = logger.Named("indexer").With(zap.String("network", network))
	rewind := &rewindMark{}

	return &Service{
		logger:  logger,
		network: network,
		cfg:     cfg,
		ledger:  ledger,
		repo:    repo,
		writer:  newEntryWriter(repo, rewind, cfg, logger),
		metrics: metrics,
		rewind:  rewind,
		sleep:   clock.Wait,
	}, nil
}

// Run indexes until ctx is canceled. Queued entries are flushed on return.
func (s *Service) Run(ctx context.Context) error {
	s.writer.Start(ctx)
	defer s.writer.Stop()

	var cursor uint64
	for {
		var err error
		if cursor, err = s.startBlock(ctx); err == nil {
			break
		}
		s.logger.Warn("resolve start block failed, backing off", zap.Error(err), zap.Duration("sleep", s.cfg.ErrorSleep))
		if sleepErr := s.sleep(ctx, s.cfg.ErrorSleep); sleepErr != nil {
			return sleepErr
		}
	}
	s.logger.Info("indexing", zap.Uint64("from_block", cursor))

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		next, err := s.step(ctx, cursor)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.logger.Warn("index step failed, backing off", zap.Uint64("cursor", cursor), zap.Error(err), zap.Duration("sleep", s.cfg.ErrorSleep))
			if sleepErr := s.sleep(ctx, s.cfg.ErrorSleep); sleepErr != nil {
				return sleepErr
			}
			continue
		}
		cursor = next
	}
}

// startBlock is the block after the last indexed one, never below the
// contract creation block.
func (s *Service) startBlock(ctx context.Context) (uint64, error) {
	start := s.ledger.CreationBlock()
	last, ok, err := s.repo.MaxIndexedBlock(ctx, s.network)
	if err != nil {
		return 0, fmt.Errorf("max indexed block: %w", err)
	}
	if ok && last+1 > start {
		start = last + 1
	}
	return start, nil
}

// step indexes one chunk starting at cursor and returns the next cursor.
func (s *Service) step(ctx context.Context, cursor uint64) (uint64, error) {
	if block, ok := s.rewind.take(); ok && block < cursor {
		s.logger.Warn("rewinding after failed write", zap.Uint64("cursor", cursor), zap.Uint64("block", block))
		cursor = block
	}

	head, err := s.ledger.Head(ctx)
	if err != nil {
		return cursor, fmt.Errorf("head: %w", err)
	}
	s.metrics.ObserveCursor(cursor, head)

	if cursor > head {
		s.logger.Debug("caught up with head; sleeping", zap.Uint64("head", head), zap.Duration("sleep", s.cfg.IdleSleep))
		return cursor, s.sleep(ctx, s.cfg.IdleSleep)
	}

	to := head
	if head-cursor >= s.cfg.ChunkSize {
		to = cursor + s.cfg.ChunkSize - 1
	}
	r := model.BlockRange{From: cursor, To: to}

	started := time.Now()
	entries, err := s.fetch(ctx, r)
	s.metrics.ObserveFetch(err, len(entries), started)
	if err != nil {
		return cursor, fmt.Errorf("fetch %s: %w", r, err)
	}

	for _, e := range entries {
		if err := s.writer.Write(ctx, e); err != nil {
			return cursor, fmt.Errorf("write entry %s: %w", e.ContentID, err)
		}
	}
	if len(entries) > 0 {
		s.logger.Info("indexed chunk", zap.Stringer("range", r), zap.Int("entries", len(entries)))
	}
	return to + 1, nil
}

// fetch queries and enriches the events of r. Malformed events are skipped so
// one bad log cannot stall the loop.
func (s *Service) fetch(ctx context.Context, r model.BlockRange) ([]model.IndexedEntry, error) {
	events, err := s.ledger.QueryRange(ctx, r.From, model.BlockNumber(r.To))
	if err != nil {
		return nil, err
	}

	valid := make([]model.RawEvent, 0, len(events))
	for _, ev := range events {
		if err := ev.Validate(); err != nil {
			s.logger.Warn("skipping malformed event", zap.Error(err))
			continue
		}
		valid = append(valid, ev)
	}
	if len(valid) == 0 {
		return nil, nil
	}

	enriched, err := s.ledger.EnrichWithMetadata(ctx, valid, s.cfg.Concurrency)
	if err != nil {
		return nil, err
	}
	if len(enriched) != len(valid) {
		return nil, fmt.Errorf("enriched %d of %d events", len(enriched), len(valid))
	}

	entries := make([]model.IndexedEntry, 0, len(enriched))
	for i, e := range enriched {
		entries = append(entries, model.IndexedEntry{
			Network:         s.network,
			ContentID:       e.ContentID,
			DeclaredSize:    e.DeclaredSize,
			Submitter:       e.Submitter,
			BlockNumber:     e.Meta.BlockNumber,
			BlockTimestamp:  e.Meta.BlockTimestamp,
			TransactionHash: e.Meta.TransactionHash,
			LogIndex:        valid[i].LogIndex,
			ContractAddress: e.Meta.ContractAddress,
		})
	}
	return entries, nil
}
