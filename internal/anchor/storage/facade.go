// Package storage is the public face of anchorstore: content goes to the
// content store, its id and size go to the ledger.
//
// Concurrent Append calls submitting from the same account are not serialized;
// callers that need ordering must provide it.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/goodnatureofminers/anchorstore/internal/anchor/contentstore"
	"github.com/goodnatureofminers/anchorstore/internal/anchor/ledger"
	"github.com/goodnatureofminers/anchorstore/internal/anchor/model"
	"github.com/goodnatureofminers/anchorstore/internal/anchor/retry"
	"github.com/goodnatureofminers/anchorstore/pkg/workerpool"
	"go.uber.org/zap"
)

// Options configures a Facade.
type Options struct {
	// MaxConcurrency bounds metadata enrichment and content fetches of a listing. Zero is unbounded.
	MaxConcurrency     int
	// Retry runs every content store call. Nil uses retry.DefaultConfig.
	Retry              *retry.Executor
	LedgerDialer       LedgerDialer
	ContentStoreDialer ContentStoreDialer
}

// Facade combines an anchor manager with a content store.
type Facade struct {
	mu      sync.RWMutex
	manager AnchorManager
	store   *storeHandle

	opts   Options
	retry  *retry.Executor
	logger *zap.Logger
}

// storeHandle counts the operations using one content store so a replaced
// store is closed only after they finish.
type storeHandle struct {
	store ContentStore
	users sync.WaitGroup
}

// New constructs a Facade.
func New(manager AnchorManager, store ContentStore, opts Options, logger *zap.Logger) (*Facade, error) {
	if manager == nil {
		return nil, errors.New("anchor manager is required")
	}
	if store == nil {
		return nil, errors.New("content store is required")
	}
	if opts.MaxConcurrency < 0 {
		opts.MaxConcurrency = 0
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("storage")
	ex := opts.Retry
	if ex == nil {
		ex = retry.New(retry.DefaultConfig(), logger.Named("retry"))
	}
	return &Facade{
		manager: manager,
		store:   &storeHandle{store: store},
		opts:    opts,
		retry:   ex,
		logger:  logger,
	}, nil
}

// acquire returns the current connections. release must be called once the
// content store is no longer used.
func (f *Facade) acquire() (manager AnchorManager, store ContentStore, release func()) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	h := f.store
	h.users.Add(1)
	return f.manager, h.store, h.users.Done
}

// contentCall runs a content store call under the retry policy. Lookups that
// cannot succeed on a later attempt are not retried.
func contentCall[T any](ctx context.Context, ex *retry.Executor, operation string, fn func(context.Context) (T, error)) (T, error) {
	return retry.Value(ctx, ex, operation, func(ctx context.Context) (T, error) {
		v, err := fn(ctx)
		if errors.Is(err, contentstore.ErrNotFound) || errors.Is(err, contentstore.ErrInvalidID) || errors.Is(err, contentstore.ErrIDMismatch) {
			return v, retry.Permanent(err)
		}
		return v, err
	})
}

// Append stores data and anchors its id with the stored size.
func (f *Facade) Append(ctx context.Context, data []byte) (model.AppendResult, error) {
	if len(data) == 0 {
		return model.AppendResult{}, model.ErrEmptyInput
	}
	manager, store, release := f.acquire()
	defer release()

	id, err := contentCall(ctx, f.retry, "content_put", func(ctx context.Context) (string, error) {
		return store.Put(ctx, data)
	})
	if err != nil {
		return model.AppendResult{}, fmt.Errorf("put content: %w", err)
	}
	size, err := contentCall(ctx, f.retry, "content_size_of", func(ctx context.Context) (uint64, error) {
		return store.SizeOf(ctx, id)
	})
	if err != nil {
		return model.AppendResult{}, fmt.Errorf("size of %s: %w", id, err)
	}
	meta, err := manager.Submit(ctx, id, size, nil)
	if err != nil {
		return model.AppendResult{}, fmt.Errorf("anchor %s: %w", id, err)
	}

	f.logger.Info("content appended",
		zap.String("content_id", id),
		zap.Uint64("size", size),
		zap.Uint64("block", meta.BlockNumber),
	)
	return model.AppendResult{ContentID: id, Meta: meta}, nil
}

// Read returns the content and ledger metadata of contentID.
func (f *Facade) Read(ctx context.Context, contentID string) (model.ReadResult, error) {
	manager, store, release := f.acquire()
	defer release()

	entry, err := manager.GetEntry(ctx, contentID)
	if err != nil {
		if errors.Is(err, model.ErrNotIndexed) {
			return model.ReadResult{}, fmt.Errorf("read %s: %w: %w", contentID, model.ErrNotFound, err)
		}
		return model.ReadResult{}, fmt.Errorf("read %s: %w", contentID, err)
	}

	data, err := contentCall(ctx, f.retry, "content_get", func(ctx context.Context) ([]byte, error) {
		return store.Get(ctx, contentID)
	})
	if err != nil {
		if errors.Is(err, contentstore.ErrInvalidID) {
			err = fmt.Errorf("%w: %w", model.ErrNotFound, err)
		}
		return model.ReadResult{}, fmt.Errorf("read %s: %w", contentID, err)
	}
	return model.ReadResult{Content: data, DeclaredSize: entry.DeclaredSize, Meta: entry.Meta}, nil
}

// ListAll returns every commitment, optionally bounded by block time, in ledger
// order. Content that cannot be fetched is reported as a metadata-only entry
// with an empty content id.
func (f *Facade) ListAll(ctx context.Context, boundary *model.TimeBoundary) ([]model.ListedEntry, error) {
	manager, store, release := f.acquire()
	defer release()

	from, to := manager.CreationBlock(), model.LatestBlock
	if boundary != nil {
		r, err := manager.ResolveBlockRange(ctx, *boundary)
		if err != nil {
			return nil, fmt.Errorf("resolve time boundary: %w", err)
		}
		from, to = r.From, model.BlockNumber(r.To)
	}

	events, err := manager.QueryRange(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	entries, err := manager.EnrichWithMetadata(ctx, events, f.opts.MaxConcurrency)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}

	return workerpool.Map(ctx, f.opts.MaxConcurrency, entries, func(ctx context.Context, e model.Entry) (model.ListedEntry, error) {
		listed := model.ListedEntry{DeclaredSize: e.DeclaredSize, Meta: e.Meta}
		data, err := contentCall(ctx, f.retry, "content_get", func(ctx context.Context) ([]byte, error) {
			return store.Get(ctx, e.ContentID)
		})
		if err != nil {
			if ctx.Err() != nil {
				return model.ListedEntry{}, ctx.Err()
			}
			f.logger.Warn("content unavailable, listing metadata only",
				zap.String("content_id", e.ContentID),
				zap.String("tx_hash", e.Meta.TransactionHash),
				zap.Error(err),
			)
			return listed, nil
		}
		listed.ContentID = e.ContentID
		listed.Content = data
		return listed, nil
	})
}

// UpdateLedgerConnection replaces the anchor manager. Operations already
// running keep the previous one.
func (f *Facade) UpdateLedgerConnection(ctx context.Context, cfg ledger.Config) error {
	if f.opts.LedgerDialer == nil {
		return errors.New("update ledger connection: no ledger dialer configured")
	}
	manager, err := f.opts.LedgerDialer(ctx, cfg)
	if err != nil {
		return fmt.Errorf("update ledger connection: %w", err)
	}

	f.mu.Lock()
	f.manager = manager
	f.mu.Unlock()

	f.logger.Info("ledger connection updated", zap.String("network", cfg.Network))
	return nil
}

// UpdateContentStoreConnection replaces the content store. Operations already
// running keep the previous one; it is closed once they finish when it
// implements io.Closer.
func (f *Facade) UpdateContentStoreConnection(ctx context.Context, cfg contentstore.Config) error {
	if f.opts.ContentStoreDialer == nil {
		return errors.New("update content store connection: no content store dialer configured")
	}
	store, err := f.opts.ContentStoreDialer(ctx, cfg)
	if err != nil {
		return fmt.Errorf("update content store connection: %w", err)
	}

	f.mu.Lock()
	old := f.store
	f.store = &storeHandle{store: store}
	f.mu.Unlock()

	go f.closeWhenIdle(old)

	f.logger.Info("content store connection updated", zap.String("kind", cfg.Kind))
	return nil
}

func (f *Facade) closeWhenIdle(h *storeHandle) {
	h.users.Wait()
	closer, ok := h.store.(io.Closer)
	if !ok {
		return
	}
	if err := closer.Close(); err != nil {
		f.logger.Warn("failed to close replaced content store", zap.Error(err))
	}
}
