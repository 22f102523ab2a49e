package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/anchorstore/internal/anchor/model"
)

const insertEntriesQuery = `
INSERT INTO anchor_entries (
	network,
	content_id,
	declared_size,
	submitter,
	block_number,
	block_timestamp,
	transaction_hash,
	log_index,
	contract_address
) VALUES`

// InsertEntries stores indexed commitments. Rows are deduplicated by
// network, transaction hash and log index on merge.
func (r *Repository) InsertEntries(ctx context.Context, entries []model.IndexedEntry) error {
	start := time.Now()
	var err error
	defer func() {
		r.metrics.Observe("insert_entries", firstNetwork(entries), err, start)
	}()

	if len(entries) == 0 {
		return nil
	}

	batch, err := r.conn.PrepareBatch(ctx, insertEntriesQuery)
	if err != nil {
		return fmt.Errorf("prepare entries batch: %w", err)
	}

	for _, e := range entries {
		if err = batch.Append(
			e.Network,
			e.ContentID,
			e.DeclaredSize,
			e.Submitter,
			e.BlockNumber,
			e.BlockTimestamp,
			e.TransactionHash,
			e.LogIndex,
			e.ContractAddress,
		); err != nil {
			_ = batch.Abort()
			return fmt.Errorf("append entry %s: %w", e.ContentID, err)
		}
	}

	if err = batch.Send(); err != nil {
		return fmt.Errorf("insert entries: %w", err)
	}
	return nil
}

func firstNetwork(entries []model.IndexedEntry) string {
	if len(entries) == 0 {
		return ""
	}
	return entries[0].Network
}
