package indexer

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/goodnatureofminers/anchorstore/internal/anchor/model"
	"github.com/goodnatureofminers/anchorstore/pkg/batcher"
)

// entryWriter batches indexed entries into the repository. Batches the
// repository rejects are reported to rewind so their blocks are fetched again.
type entryWriter struct {
	repo    Repository
	rewind  *rewindMark
	batcher *batcher.Batcher[model.IndexedEntry]
}

func newEntryWriter(repo Repository, rewind *rewindMark, cfg Config, logger *zap.Logger) *entryWriter {
	w := &entryWriter{repo: repo, rewind: rewind}
	w.batcher = batcher.New[model.IndexedEntry](
		logger.Named("entryBatcher"),
		w.flush,
		cfg.FlushSize,
		cfg.FlushInterval,
		cfg.WriteRPS,
	)
	w.batcher.OnFlushError(func(entries []model.IndexedEntry, _ error) {
		for _, e := range entries {
			w.rewind.mark(e.BlockNumber)
		}
	})
	return w
}

func (w *entryWriter) Start(ctx context.Context) {
	w.batcher.Start(ctx)
}

func (w *entryWriter) Stop() {
	w.batcher.Stop()
}

func (w *entryWriter) Write(ctx context.Context, e model.IndexedEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return w.batcher.Add(ctx, e)
}

func (w *entryWriter) flush(ctx context.Context, entries []model.IndexedEntry) error {
	return w.repo.InsertEntries(ctx, entries)
}

// rewindMark keeps the lowest block whose entries failed to persist.
type rewindMark struct {
	mu    sync.Mutex
	block *uint64
}

func (r *rewindMark) mark(block uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.block == nil || block < *r.block {
		r.block = &block
	}
}

func (r *rewindMark) take() (uint64, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.block == nil {
		return 0, false
	}
	block := *r.block
	r.block = nil
	return block, true
}
