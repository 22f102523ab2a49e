package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/goodnatureofminers/anchorstore/internal/anchor/model"
)

const entriesByContentIDQuery = `
SELECT
	network,
	content_id,
	declared_size,
	submitter,
	block_number,
	block_timestamp,
	transaction_hash,
	log_index,
	contract_address
FROM anchor_entries FINAL
WHERE network = ? AND content_id = ?
ORDER BY block_number, log_index`

// EntriesByContentID returns every indexed anchoring of contentID, earliest first.
func (r *Repository) EntriesByContentID(ctx context.Context, network, contentID string) (entries []model.IndexedEntry, err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("entries_by_content_id", network, err, start)
	}()

	rows, err := r.conn.Query(ctx, entriesByContentIDQuery, network, contentID)
	if err != nil {
		return nil, fmt.Errorf("query entries %s: %w", contentID, err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close rows: %w", closeErr)
		}
	}()

	entries = make([]model.IndexedEntry, 0)
	for rows.Next() {
		var e model.IndexedEntry
		if err = rows.Scan(
			&e.Network,
			&e.ContentID,
			&e.DeclaredSize,
			&e.Submitter,
			&e.BlockNumber,
			&e.BlockTimestamp,
			&e.TransactionHash,
			&e.LogIndex,
			&e.ContractAddress,
		); err != nil {
			return nil, fmt.Errorf("scan entry %s: %w", contentID, err)
		}
		entries = append(entries, e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries %s: %w", contentID, err)
	}
	return entries, nil
}
