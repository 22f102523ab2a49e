package ethereum

import (
	"context"
	"errors"
	"fmt"

	geth "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"github.com/goodnatureofminers/anchorstore/internal/anchor/model"
	"github.com/goodnatureofminers/anchorstore/internal/clock"
)

// txHandle reports the lifecycle of one sent transaction. The channel is
// buffered for every signal it can carry so the watcher never blocks on a
// reader that stopped listening.
type txHandle struct {
	hash common.Hash
	max  int
	ch   chan model.TxNotification
}

func newTxHandle(hash common.Hash, maxConfirmations int) *txHandle {
	return &txHandle{
		hash: hash,
		max:  maxConfirmations,
		ch:   make(chan model.TxNotification, maxConfirmations+1),
	}
}

func (h *txHandle) Hash() string {
	return h.hash.Hex()
}

func (h *txHandle) Notifications() <-chan model.TxNotification {
	return h.ch
}

// watch polls for the receipt, then emits one confirmation per observed head
// until max confirmations were sent or ctx ends.
func (h *txHandle) watch(ctx context.Context, c *Client, logger *zap.Logger) {
	defer close(h.ch)

	r, err := h.awaitReceipt(ctx, c, logger)
	if err != nil {
		if ctx.Err() == nil {
			h.ch <- model.TxNotification{Kind: model.TxError, Err: err}
		}
		return
	}
	receipt := &model.Receipt{
		TransactionHash: h.Hash(),
		BlockNumber:     r.BlockNumber.Uint64(),
		GasUsed:         r.GasUsed,
	}

	var lastHead uint64
	for sent := 0; sent < h.max; {
		head, err := c.HeadNumber(ctx)
		switch {
		case err != nil:
			logger.Debug("head poll failed", zap.Error(err))
		case sent == 0 || head > lastHead:
			lastHead = head
			var confirmations uint64
			if head > receipt.BlockNumber {
				confirmations = head - receipt.BlockNumber
			}
			h.ch <- model.TxNotification{Kind: model.TxConfirmation, Confirmations: confirmations, Receipt: receipt}
			sent++
			if sent == h.max {
				return
			}
		}
		if err := clock.Wait(ctx, c.pollInterval); err != nil {
			return
		}
	}
}

func (h *txHandle) awaitReceipt(ctx context.Context, c *Client, logger *zap.Logger) (*types.Receipt, error) {
	for {
		r, err := c.receipt(ctx, h.hash)
		switch {
		case err == nil && r != nil && r.BlockNumber != nil:
			if r.Status != types.ReceiptStatusSuccessful {
				return nil, fmt.Errorf("transaction %s reverted in block %s", h.Hash(), r.BlockNumber)
			}
			return r, nil
		case err != nil && !errors.Is(err, geth.NotFound):
			logger.Debug("receipt poll failed", zap.Error(err))
		}
		if err := clock.Wait(ctx, c.pollInterval); err != nil {
			return nil, err
		}
	}
}
