package contentstore

import (
	"context"
	"io"
	"time"
)

// Metrics records content store operations.
type Metrics interface {
	Observe(operation string, bytes int, err error, started time.Time)
}

// Observed decorates a Store with metrics.
type Observed struct {
	store   Store
	metrics Metrics
}

// NewObserved wraps store.
func NewObserved(store Store, metrics Metrics) *Observed {
	return &Observed{store: store, metrics: metrics}
}

func (o *Observed) Put(ctx context.Context, data []byte) (id string, err error) {
	defer func(started time.Time) {
		o.metrics.Observe("put", len(data), err, started)
	}(time.Now())
	return o.store.Put(ctx, data)
}

func (o *Observed) Get(ctx context.Context, id string) (data []byte, err error) {
	defer func(started time.Time) {
		o.metrics.Observe("get", len(data), err, started)
	}(time.Now())
	return o.store.Get(ctx, id)
}

func (o *Observed) SizeOf(ctx context.Context, id string) (size uint64, err error) {
	defer func(started time.Time) {
		o.metrics.Observe("size_of", 0, err, started)
	}(time.Now())
	return o.store.SizeOf(ctx, id)
}

// Close closes the wrapped store when it holds resources.
func (o *Observed) Close() error {
	if c, ok := o.store.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
