package clickhouse

import (
	"context"
	"fmt"
	"time"
)

const maxIndexedBlockQuery = `
SELECT count() AS entries, max(block_number) AS max_block
FROM anchor_entries
WHERE network = ?`

// MaxIndexedBlock returns the highest block with an indexed entry. ok is false
// when nothing is indexed for the network yet.
func (r *Repository) MaxIndexedBlock(ctx context.Context, network string) (block uint64, ok bool, err error) {
	start := time.Now()
	defer func() {
		r.metrics.Observe("max_indexed_block", network, err, start)
	}()

	rows, err := r.conn.Query(ctx, maxIndexedBlockQuery, network)
	if err != nil {
		return 0, false, fmt.Errorf("query max indexed block: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close rows: %w", closeErr)
		}
	}()

	if !rows.Next() {
		return 0, false, fmt.Errorf("max indexed block not found")
	}

	var entries uint64
	if err = rows.Scan(&entries, &block); err != nil {
		return 0, false, fmt.Errorf("scan max indexed block: %w", err)
	}
	if err = rows.Err(); err != nil {
		return 0, false, fmt.Errorf("iterate max indexed block: %w", err)
	}

	if entries == 0 {
		return 0, false, nil
	}
	return block, true, nil
}
