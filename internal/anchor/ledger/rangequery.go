package ledger

import (
	"context"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/goodnatureofminers/anchorstore/internal/anchor/model"
	"github.com/goodnatureofminers/anchorstore/internal/anchor/retry"
)

// newSemaphore bounds in-flight RPCs. A nil semaphore is unbounded.
func newSemaphore(n int) *semaphore.Weighted {
	if n <= 0 {
		return nil
	}
	return semaphore.NewWeighted(int64(n))
}

// rangeQuery fetches one block range, bisecting when the provider refuses it.
type rangeQuery struct {
	manager *Manager
	sem     *semaphore.Weighted
	splits  atomic.Int64
}

func (q *rangeQuery) splitCount() int {
	return int(q.splits.Load())
}

func (q *rangeQuery) run(ctx context.Context, r model.BlockRange) ([]model.RawEvent, error) {
	events, err := q.fetch(ctx, r)
	if err == nil {
		return events, nil
	}
	if !q.manager.isOverflow(err) {
		return nil, fmt.Errorf("query events %s: %w", r, err)
	}
	if r.From == r.To {
		return nil, fmt.Errorf("query events %s: %w: %w", r, model.ErrRangeTooLarge, err)
	}

	q.splits.Add(1)
	mid := r.From + (r.To-r.From)/2
	halves := [2]model.BlockRange{
		{From: r.From, To: mid},
		{From: mid + 1, To: r.To},
	}

	var results [2][]model.RawEvent
	g, gctx := errgroup.WithContext(ctx)
	for i, half := range halves {
		g.Go(func() (err error) {
			results[i], err = q.run(gctx, half)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return append(results[0], results[1]...), nil
}

// fetch issues the RPC for r. Overflow errors are not retried: splitting is the answer.
func (q *rangeQuery) fetch(ctx context.Context, r model.BlockRange) ([]model.RawEvent, error) {
	if q.sem != nil {
		if err := q.sem.Acquire(ctx, 1); err != nil {
			return nil, err
		}
		defer q.sem.Release(1)
	}

	return retry.Value(ctx, q.manager.retry, "query_events", func(ctx context.Context) ([]model.RawEvent, error) {
		events, err := q.manager.client.QueryEvents(ctx, r.From, r.To)
		if err != nil && q.manager.isOverflow(err) {
			return nil, retry.Permanent(err)
		}
		return events, err
	})
}
