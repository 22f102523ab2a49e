package indexer

import (
	"context"
	"time"

	"github.com/goodnatureofminers/anchorstore/internal/anchor/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	Ledger interface {
		Network() model.Network
		CreationBlock() uint64
		Head(ctx context.Context) (uint64, error)
		QueryRange(ctx context.Context, fromBlock uint64, toBlock model.BlockRef) ([]model.RawEvent, error)
		EnrichWithMetadata(ctx context.Context, events []model.RawEvent, concurrency int) ([]model.Entry, error)
	}
	Repository interface {
		InsertEntries(ctx context.Context, entries []model.IndexedEntry) error
		MaxIndexedBlock(ctx context.Context, network string) (uint64, bool, error)
	}
	EntryWriter interface {
		Start(ctx context.Context)
		Stop()
		Write(ctx context.Context, e model.IndexedEntry) error
	}
	Metrics interface {
		ObserveFetch(err error, entries int, started time.Time)
		ObserveCursor(cursor, head uint64)
	}
)
