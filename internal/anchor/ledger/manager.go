// Package ledger anchors content commitments on the ledger and reads them back.
//
// Submissions are not serialized per account: concurrent Submit calls from the
// same account compete for nonces at the ledger and must be ordered by the caller.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/goodnatureofminers/anchorstore/internal/anchor/blocktime"
	"github.com/goodnatureofminers/anchorstore/internal/anchor/gas"
	"github.com/goodnatureofminers/anchorstore/internal/anchor/model"
	"github.com/goodnatureofminers/anchorstore/internal/anchor/retry"
	"github.com/goodnatureofminers/anchorstore/pkg/workerpool"
	"go.uber.org/zap"
)

// Manager submits commitments and retrieves historical ones.
type Manager struct {
	client     Client
	network    model.Network
	cfg        Config
	retry      *retry.Executor
	blocks     *blocktime.Index
	fees       *gas.Estimator
	isOverflow OverflowPredicate
	metrics    Metrics
	logger     *zap.Logger
}

// NewManager validates cfg and wires the helpers around client.
func NewManager(client Client, cfg Config, logger *zap.Logger, metrics Metrics) (*Manager, error) {
	if client == nil {
		return nil, errors.New("ledger client is required")
	}
	network, err := model.LookupNetwork(cfg.Network)
	if err != nil {
		return nil, err
	}
	tier, err := gas.ParseTier(string(cfg.PriorityTier))
	if err != nil {
		return nil, err
	}
	cfg.PriorityTier = tier
	if cfg.MaxConfirmationAttempts <= 0 {
		cfg.MaxConfirmationAttempts = defaultMaxConfirmationAttempts
	}
	if cfg.MaxConcurrency < 0 {
		cfg.MaxConcurrency = 0
	}
	if cfg.IsOverflow == nil {
		cfg.IsOverflow = DefaultOverflow
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if metrics == nil {
		metrics = nopMetrics{}
	}
	logger = logger.With(zap.String("network", network.Name))

	creationBlock := network.CreationBlock
	switch {
	case cfg.CreationBlock != nil:
		creationBlock = *cfg.CreationBlock
	case creationBlock == 0 && network.Public():
		return nil, fmt.Errorf("%w: network %s has no known anchor contract deployment block", model.ErrCreationBlockRequired, network.Name)
	}

	ex := retry.New(cfg.Retry, logger.Named("retry"))
	return &Manager{
		client:     client,
		network:    network,
		cfg:        cfg,
		retry:      ex,
		blocks:     blocktime.New(client, ex, creationBlock),
		fees:       gas.New(client, client, ex, gas.Config{DefaultGasPrice: cfg.DefaultGasPrice}, logger.Named("gas")),
		isOverflow: cfg.IsOverflow,
		metrics:    metrics,
		logger:     logger.Named("anchor"),
	}, nil
}

// Network returns the resolved network.
func (m *Manager) Network() model.Network {
	return m.network
}

// CreationBlock returns the first block searched for commitments.
func (m *Manager) CreationBlock() uint64 {
	return m.blocks.CreationBlock()
}

// Head returns the current head block number.
func (m *Manager) Head(ctx context.Context) (uint64, error) {
	return m.blocks.Head(ctx)
}

// BlockIndex exposes the block time index used by the manager.
func (m *Manager) BlockIndex() *blocktime.Index {
	return m.blocks
}

// ResolveBlockRange translates a time boundary into a block range.
func (m *Manager) ResolveBlockRange(ctx context.Context, boundary model.TimeBoundary) (model.BlockRange, error) {
	return m.blocks.ResolveBlockRange(ctx, boundary)
}

// Submit anchors contentID with declaredSize and waits for its metadata.
func (m *Manager) Submit(ctx context.Context, contentID string, declaredSize uint64, gasPriceOverride *big.Int) (meta model.Metadata, err error) {
	started := time.Now()
	defer func() {
		m.metrics.ObserveSubmit(err, started)
	}()

	from, err := m.account(ctx)
	if err != nil {
		return model.Metadata{}, err
	}

	baseFee, err := m.fees.EstimateFee(ctx, declaredSize)
	if err != nil {
		return model.Metadata{}, fmt.Errorf("submit %s: %w", contentID, err)
	}
	gasPrice := m.fees.GasPrice(ctx, gasPriceOverride, m.cfg.PriorityTier, m.network.Name)

	handle, err := m.client.SubmitAnchor(ctx, model.AnchorTx{
		From:          from,
		ContentID:     contentID,
		FeeParameters: EncodeFeeParameters(declaredSize),
		Value:         baseFee,
		GasPrice:      gasPrice,
	})
	if err != nil {
		return model.Metadata{}, fmt.Errorf("submit %s: %w: %w", contentID, model.ErrSubmissionFailed, err)
	}

	logger := m.logger.With(zap.String("content_id", contentID), zap.String("tx_hash", handle.Hash()))
	logger.Info("anchor submitted",
		zap.Uint64("declared_size", declaredSize),
		zap.Stringer("fee", baseFee),
		zap.Stringer("gas_price", gasPrice),
	)

	sub := newSubmission(handle.Hash(), m.cfg.MaxConfirmationAttempts, logger, func(ctx context.Context, receipt *model.Receipt) (model.Metadata, error) {
		return m.submittedMetadata(ctx, receipt, baseFee, gasPrice)
	})
	meta, err = sub.await(ctx, handle.Notifications())
	if err != nil {
		return model.Metadata{}, fmt.Errorf("submit %s: %w", contentID, err)
	}
	logger.Info("anchor confirmed", zap.Uint64("block", meta.BlockNumber), zap.Uint64("confirmations", meta.Confirmations))
	return meta, nil
}

func (m *Manager) account(ctx context.Context) (string, error) {
	if m.cfg.Submitter != "" {
		return m.cfg.Submitter, nil
	}
	accounts, err := retry.Value(ctx, m.retry, "accounts", m.client.Accounts)
	if err != nil {
		return "", fmt.Errorf("list accounts: %w", err)
	}
	if len(accounts) == 0 || accounts[0] == "" {
		return "", model.ErrNoAccountAvailable
	}
	return accounts[0], nil
}

func (m *Manager) submittedMetadata(ctx context.Context, receipt *model.Receipt, baseFee, gasPrice *big.Int) (model.Metadata, error) {
	head, err := m.blocks.Head(ctx)
	if err != nil {
		return model.Metadata{}, err
	}
	if head < receipt.BlockNumber {
		return model.Metadata{}, fmt.Errorf("head %d is behind mined block %d", head, receipt.BlockNumber)
	}
	ts, err := m.blocks.BlockTimestamp(ctx, receipt.BlockNumber)
	if err != nil {
		return model.Metadata{}, err
	}

	gasFee := new(big.Int).Mul(new(big.Int).SetUint64(receipt.GasUsed), gasPrice)
	return model.Metadata{
		BlockNumber:     receipt.BlockNumber,
		TransactionHash: receipt.TransactionHash,
		BlockTimestamp:  ts,
		Confirmations:   head - receipt.BlockNumber,
		Cost:            new(big.Int).Add(baseFee, gasFee),
		NetworkFee:      new(big.Int).Set(baseFee),
		GasFee:          gasFee,
		NetworkName:     m.network.Name,
		ContractAddress: m.cfg.ContractAddress,
	}, nil
}

// QueryRange returns every commitment event in [fromBlock, toBlock]. Provider
// result-limit errors are absorbed by bisecting the range.
func (m *Manager) QueryRange(ctx context.Context, fromBlock uint64, toBlock model.BlockRef) (events []model.RawEvent, err error) {
	started := time.Now()
	q := &rangeQuery{manager: m, sem: newSemaphore(m.cfg.MaxConcurrency)}
	defer func() {
		m.metrics.ObserveQueryRange(err, q.splitCount(), started)
	}()

	to, err := m.resolveBlock(ctx, toBlock)
	if err != nil {
		return nil, err
	}
	r := model.BlockRange{From: fromBlock, To: to}
	if err := r.Validate(); err != nil {
		return nil, err
	}

	events, err = q.run(ctx, r)
	if err != nil {
		return nil, err
	}
	if splits := q.splitCount(); splits > 0 {
		m.logger.Debug("range query split", zap.Stringer("range", r), zap.Int("splits", splits), zap.Int("events", len(events)))
	}
	return events, nil
}

func (m *Manager) resolveBlock(ctx context.Context, ref model.BlockRef) (uint64, error) {
	if n, ok := ref.Number(); ok {
		return n, nil
	}
	header, err := retry.Value(ctx, m.retry, "get_block", func(ctx context.Context) (model.BlockHeader, error) {
		return m.client.BlockByRef(ctx, ref)
	})
	if err != nil {
		return 0, fmt.Errorf("resolve block %s: %w", ref, err)
	}
	if header.Number == nil {
		return 0, fmt.Errorf("resolve block %s: %w", ref, model.ErrBlockNumberMissing)
	}
	return *header.Number, nil
}

// EnrichWithMetadata turns raw events into entries. Any malformed event fails
// the whole batch before metadata is fetched. Output order follows input order.
func (m *Manager) EnrichWithMetadata(ctx context.Context, events []model.RawEvent, concurrency int) (entries []model.Entry, err error) {
	started := time.Now()
	defer func() {
		m.metrics.ObserveEnrich(err, len(events), started)
	}()

	pending := make([]pendingEntry, len(events))
	for i, ev := range events {
		if err := ev.Validate(); err != nil {
			return nil, err
		}
		size, err := DecodeFeeParameters(ev.FeeParameters)
		if err != nil {
			return nil, fmt.Errorf("tx %s log %d: %w", ev.TransactionHash, ev.LogIndex, err)
		}
		pending[i] = pendingEntry{event: ev, size: size}
	}
	if len(events) == 0 {
		return []model.Entry{}, nil
	}

	head, err := m.blocks.Head(ctx)
	if err != nil {
		return nil, err
	}

	timestamps := newTimestampCache(m.blocks)
	return workerpool.Map(ctx, concurrency, pending, func(ctx context.Context, p pendingEntry) (model.Entry, error) {
		ev := p.event
		ts, err := timestamps.get(ctx, ev.BlockNumber)
		if err != nil {
			return model.Entry{}, fmt.Errorf("metadata for tx %s: %w", ev.TransactionHash, err)
		}
		return model.Entry{
			Commitment: model.Commitment{
				ContentID:    ev.ContentID,
				DeclaredSize: p.size,
				Submitter:    ev.Submitter,
			},
			Meta: m.eventMetadata(ev, head, ts),
		}, nil
	})
}

// pendingEntry is a validated event with its decoded declared size.
type pendingEntry struct {
	event model.RawEvent
	size  uint64
}

func (m *Manager) eventMetadata(ev model.RawEvent, head, ts uint64) model.Metadata {
	var confirmations uint64
	if head > ev.BlockNumber {
		confirmations = head - ev.BlockNumber
	}
	return model.Metadata{
		BlockNumber:     ev.BlockNumber,
		TransactionHash: ev.TransactionHash,
		BlockTimestamp:  ts,
		Confirmations:   confirmations,
		NetworkName:     m.network.Name,
		ContractAddress: m.cfg.ContractAddress,
	}
}

// ListRange returns enriched entries for a block range.
func (m *Manager) ListRange(ctx context.Context, r model.BlockRange) ([]model.Entry, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	events, err := m.QueryRange(ctx, r.From, model.BlockNumber(r.To))
	if err != nil {
		return nil, err
	}
	return m.EnrichWithMetadata(ctx, events, m.cfg.MaxConcurrency)
}

// GetEntry returns the earliest commitment of contentID.
func (m *Manager) GetEntry(ctx context.Context, contentID string) (model.Entry, error) {
	events, err := m.QueryRange(ctx, m.blocks.CreationBlock(), model.LatestBlock)
	if errors.Is(err, model.ErrInvalidRange) {
		// The head has not reached the creation block: nothing can be anchored yet.
		return model.Entry{}, fmt.Errorf("get entry %s: %w: %v", contentID, model.ErrNotIndexed, err)
	}
	if err != nil {
		return model.Entry{}, fmt.Errorf("get entry %s: %w", contentID, err)
	}
	for _, ev := range events {
		if ev.ContentID != contentID {
			continue
		}
		entries, err := m.EnrichWithMetadata(ctx, []model.RawEvent{ev}, 1)
		if err != nil {
			return model.Entry{}, fmt.Errorf("get entry %s: %w", contentID, err)
		}
		return entries[0], nil
	}
	return model.Entry{}, fmt.Errorf("get entry %s: %w", contentID, model.ErrNotIndexed)
}

// timestampCache shares block timestamps between workers of one enrichment.
type timestampCache struct {
	blocks *blocktime.Index
	mu     sync.Mutex
	seen   map[uint64]uint64
}

func newTimestampCache(blocks *blocktime.Index) *timestampCache {
	return &timestampCache{blocks: blocks, seen: make(map[uint64]uint64)}
}

func (c *timestampCache) get(ctx context.Context, n uint64) (uint64, error) {
	c.mu.Lock()
	ts, ok := c.seen[n]
	c.mu.Unlock()
	if ok {
		return ts, nil
	}

	ts, err := c.blocks.BlockTimestamp(ctx, n)
	if err != nil {
		return 0, err
	}
	c.mu.Lock()
	c.seen[n] = ts
	c.mu.Unlock()
	return ts, nil
}
