package ledger

import (
	"context"
	"math/big"
	"time"

	"github.com/goodnatureofminers/anchorstore/internal/anchor/model"
)

type (
	// Client is the ledger capability consumed by the Manager.
	Client interface {
		Accounts(ctx context.Context) ([]string, error)
		SubmitAnchor(ctx context.Context, tx model.AnchorTx) (TransactionHandle, error)
		QueryEvents(ctx context.Context, fromBlock, toBlock uint64) ([]model.RawEvent, error)
		BlockByRef(ctx context.Context, ref model.BlockRef) (model.BlockHeader, error)
		HeadNumber(ctx context.Context) (uint64, error)
		CallView(ctx context.Context, method string, args ...any) (any, error)
		SuggestGasPrice(ctx context.Context) (*big.Int, error)
	}

	// TransactionHandle exposes the lifecycle of a submitted transaction. The
	// notification channel is closed by the client once it stops reporting.
	TransactionHandle interface {
		Hash() string
		Notifications() <-chan model.TxNotification
	}

	// Metrics records anchor manager outcomes.
	Metrics interface {
		ObserveSubmit(err error, started time.Time)
		ObserveQueryRange(err error, splits int, started time.Time)
		ObserveEnrich(err error, events int, started time.Time)
	}
)

type nopMetrics struct{}

func (nopMetrics) ObserveSubmit(error, time.Time)          {}
func (nopMetrics) ObserveQueryRange(error, int, time.Time) {}
func (nopMetrics) ObserveEnrich(error, int, time.Time)     {}
