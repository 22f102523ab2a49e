// Package blocktime maps wall-clock timestamps to block numbers by binary
// search over block timestamps, assuming they never decrease with height.
package blocktime

import (
	"context"
	"fmt"

	"github.com/goodnatureofminers/anchorstore/internal/anchor/model"
	"github.com/goodnatureofminers/anchorstore/internal/anchor/retry"
)

// BlockReader is the part of the ledger client the index needs.
type BlockReader interface {
	BlockByRef(ctx context.Context, ref model.BlockRef) (model.BlockHeader, error)
	HeadNumber(ctx context.Context) (uint64, error)
}

// Index resolves time boundaries to block ranges. It keeps no state between
// calls: the head moves, so every call reads it again.
type Index struct {
	reader        BlockReader
	retry         *retry.Executor
	creationBlock uint64
}

// New constructs an Index searching from creationBlock up to the head.
func New(reader BlockReader, ex *retry.Executor, creationBlock uint64) *Index {
	return &Index{
		reader:        reader,
		retry:         ex,
		creationBlock: creationBlock,
	}
}

// CreationBlock returns the first block of interest.
func (i *Index) CreationBlock() uint64 {
	return i.creationBlock
}

// Head returns the current head block number.
func (i *Index) Head(ctx context.Context) (uint64, error) {
	head, err := retry.Value(ctx, i.retry, "head_number", i.reader.HeadNumber)
	if err != nil {
		return 0, fmt.Errorf("get head number: %w", err)
	}
	return head, nil
}

// BlockTimestamp returns the timestamp of block n.
func (i *Index) BlockTimestamp(ctx context.Context, n uint64) (uint64, error) {
	header, err := retry.Value(ctx, i.retry, "get_block", func(ctx context.Context) (model.BlockHeader, error) {
		return i.reader.BlockByRef(ctx, model.BlockNumber(n))
	})
	if err != nil {
		return 0, fmt.Errorf("get block %d: %w", n, err)
	}
	return header.Timestamp, nil
}

// ResolveBlockRange translates a time boundary into a block range. Open bounds
// default to the creation block and the head. The result is validated so that
// callers never query a range whose end precedes its start.
func (i *Index) ResolveBlockRange(ctx context.Context, boundary model.TimeBoundary) (model.BlockRange, error) {
	p, err := i.newLookup(ctx)
	if err != nil {
		return model.BlockRange{}, err
	}

	r := model.BlockRange{From: p.lo, To: p.hi}
	if boundary.From != nil {
		if r.From, err = p.blockAfter(ctx, *boundary.From); err != nil {
			return model.BlockRange{}, fmt.Errorf("resolve from timestamp %d: %w", *boundary.From, err)
		}
	}
	if boundary.To != nil {
		if r.To, err = p.blockBefore(ctx, *boundary.To); err != nil {
			return model.BlockRange{}, fmt.Errorf("resolve to timestamp %d: %w", *boundary.To, err)
		}
	}

	if err := r.Validate(); err != nil {
		return model.BlockRange{}, err
	}
	return r, nil
}

// BlockAfter returns the smallest block whose timestamp is at least ts, or the nearest boundary.
func (i *Index) BlockAfter(ctx context.Context, ts uint64) (uint64, error) {
	p, err := i.newLookup(ctx)
	if err != nil {
		return 0, err
	}
	return p.blockAfter(ctx, ts)
}

// BlockBefore returns the largest block whose timestamp is at most ts, or the nearest boundary.
func (i *Index) BlockBefore(ctx context.Context, ts uint64) (uint64, error) {
	p, err := i.newLookup(ctx)
	if err != nil {
		return 0, err
	}
	return p.blockBefore(ctx, ts)
}

func (i *Index) newLookup(ctx context.Context) (*lookup, error) {
	head, err := i.Head(ctx)
	if err != nil {
		return nil, err
	}
	return &lookup{
		index: i,
		lo:    i.creationBlock,
		hi:    head,
		seen:  make(map[uint64]uint64),
	}, nil
}

// lookup caches block timestamps for the duration of one call.
type lookup struct {
	index *Index
	lo    uint64
	hi    uint64
	seen  map[uint64]uint64
}

func (p *lookup) timestamp(ctx context.Context, n uint64) (uint64, error) {
	if ts, ok := p.seen[n]; ok {
		return ts, nil
	}
	ts, err := p.index.BlockTimestamp(ctx, n)
	if err != nil {
		return 0, err
	}
	p.seen[n] = ts
	return ts, nil
}

func (p *lookup) blockAfter(ctx context.Context, target uint64) (uint64, error) {
	lo, hi := p.lo, p.hi
	if hi <= lo {
		return lo, nil
	}

	hiTs, err := p.timestamp(ctx, hi)
	if err != nil {
		return 0, err
	}
	if hiTs < target {
		return hi, nil
	}
	loTs, err := p.timestamp(ctx, lo)
	if err != nil {
		return 0, err
	}
	if loTs >= target {
		return lo, nil
	}

	// ts(lo) < target <= ts(hi)
	for hi-lo > 1 {
		mid := lo + (hi-lo)/2
		ts, err := p.timestamp(ctx, mid)
		if err != nil {
			return 0, err
		}
		if ts >= target {
			hi = mid
		} else {
			lo = mid
		}
	}
	return hi, nil
}

func (p *lookup) blockBefore(ctx context.Context, target uint64) (uint64, error) {
	lo, hi := p.lo, p.hi
	if hi <= lo {
		return hi, nil
	}

	loTs, err := p.timestamp(ctx, lo)
	if err != nil {
		return 0, err
	}
	if loTs > target {
		return lo, nil
	}
	hiTs, err := p.timestamp(ctx, hi)
	if err != nil {
		return 0, err
	}
	if hiTs <= target {
		return hi, nil
	}

	// ts(lo) <= target < ts(hi)
	for hi-lo > 1 {
		mid := lo + (hi-lo)/2
		ts, err := p.timestamp(ctx, mid)
		if err != nil {
			return 0, err
		}
		if ts <= target {
			lo = mid
		} else {
			hi = mid
		}
	}
	return lo, nil
}
