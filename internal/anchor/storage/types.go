package storage

import (
	"context"
	"math/big"

	"github.com/goodnatureofminers/anchorstore/internal/anchor/contentstore"
	"github.com/goodnatureofminers/anchorstore/internal/anchor/ledger"
	"github.com/goodnatureofminers/anchorstore/internal/anchor/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// AnchorManager commits content ids to the ledger and reads them back.
	AnchorManager interface {
		Submit(ctx context.Context, contentID string, declaredSize uint64, gasPriceOverride *big.Int) (model.Metadata, error)
		GetEntry(ctx context.Context, contentID string) (model.Entry, error)
		QueryRange(ctx context.Context, fromBlock uint64, toBlock model.BlockRef) ([]model.RawEvent, error)
		EnrichWithMetadata(ctx context.Context, events []model.RawEvent, concurrency int) ([]model.Entry, error)
		ResolveBlockRange(ctx context.Context, boundary model.TimeBoundary) (model.BlockRange, error)
		CreationBlock() uint64
	}

	// ContentStore keeps content bodies by id.
	ContentStore interface {
		Put(ctx context.Context, data []byte) (string, error)
		Get(ctx context.Context, id string) ([]byte, error)
		SizeOf(ctx context.Context, id string) (uint64, error)
	}

	// LedgerDialer builds an AnchorManager from a ledger configuration.
	LedgerDialer func(ctx context.Context, cfg ledger.Config) (AnchorManager, error)

	// ContentStoreDialer builds a ContentStore from its configuration.
	ContentStoreDialer func(ctx context.Context, cfg contentstore.Config) (ContentStore, error)
)
