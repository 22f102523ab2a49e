// Package ledgertest provides an in-memory ledger for tests.
package ledgertest

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/goodnatureofminers/anchorstore/internal/anchor/ledger"
	"github.com/goodnatureofminers/anchorstore/internal/anchor/model"
)

// DefaultAccount is the account a new Chain submits from.
const DefaultAccount = "0x00000000000000000000000000000000000a11ce"

const (
	defaultBlockInterval = 12
	defaultConfirmations = 3
	defaultGasUsed       = 50_000
)

var _ ledger.Client = (*Chain)(nil)

// Chain is a deterministic ledger. Blocks are numbered from zero and every
// submission mines one block followed by the configured number of empty
// confirmation blocks.
type Chain struct {
	mu sync.Mutex

	timestamps []uint64
	events     map[uint64][]model.RawEvent

	accounts      []string
	capacity      int
	feePerByte    *big.Int
	gasPrice      *big.Int
	gasPriceErr   error
	submitErr     error
	rejectErr     error
	confirmations int
	gasUsed       uint64
	omitNumber    bool
	stallHead     int
	queryErrs     []error

	txCount int
	queries []model.BlockRange
}

// NewChain returns a chain whose block i has timestamps[i].
func NewChain(timestamps ...uint64) *Chain {
	if len(timestamps) == 0 {
		timestamps = []uint64{0}
	}
	return &Chain{
		timestamps:    append([]uint64(nil), timestamps...),
		events:        make(map[uint64][]model.RawEvent),
		accounts:      []string{DefaultAccount},
		feePerByte:    big.NewInt(1),
		gasPrice:      big.NewInt(1_000_000_000),
		confirmations: defaultConfirmations,
		gasUsed:       defaultGasUsed,
	}
}

// SetAccounts replaces the accounts returned by Accounts.
func (c *Chain) SetAccounts(accounts ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accounts = accounts
}

// SetCapacity makes QueryEvents fail like a provider result limit when a range
// holds more than n events. Zero disables the limit.
func (c *Chain) SetCapacity(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.capacity = n
}

// SetFeePerByte sets the fee schedule.
func (c *Chain) SetFeePerByte(fee *big.Int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.feePerByte = fee
}

// SetGasPrice sets the suggested gas price and the error returned with it.
func (c *Chain) SetGasPrice(price *big.Int, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gasPrice, c.gasPriceErr = price, err
}

// SetSubmitError makes SubmitAnchor fail synchronously.
func (c *Chain) SetSubmitError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.submitErr = err
}

// SetReject makes submitted transactions report err through their handle.
func (c *Chain) SetReject(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rejectErr = err
}

// SetConfirmations sets how many confirmation blocks follow a mined submission.
func (c *Chain) SetConfirmations(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.confirmations = n
}

// OmitBlockNumber makes BlockByRef return headers without a number for tags.
func (c *Chain) OmitBlockNumber(omit bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.omitNumber = omit
}

// StallHead makes the next n HeadNumber calls report block zero, as a lagging
// node would.
func (c *Chain) StallHead(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stallHead = n
}

// FailQueries makes the next QueryEvents calls return errs in order.
func (c *Chain) FailQueries(errs ...error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.queryErrs = append(c.queryErrs, errs...)
}

// AddBlock appends a block and returns its number.
func (c *Chain) AddBlock(timestamp uint64) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.timestamps = append(c.timestamps, timestamp)
	return uint64(len(c.timestamps) - 1)
}

// Emit records ev in its block. Block number, log index and transaction hash
// are filled when empty.
func (c *Chain) Emit(ev model.RawEvent) model.RawEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.emitLocked(ev)
}

func (c *Chain) emitLocked(ev model.RawEvent) model.RawEvent {
	if ev.TransactionHash == "" {
		c.txCount++
		ev.TransactionHash = txHash(c.txCount)
	}
	ev.LogIndex = uint32(len(c.events[ev.BlockNumber]))
	c.events[ev.BlockNumber] = append(c.events[ev.BlockNumber], ev)
	return ev
}

// Events returns every event in block order, as an unlimited query would.
func (c *Chain) Events() []model.RawEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.collectLocked(0, uint64(len(c.timestamps)-1))
}

// Queries returns the ranges passed to QueryEvents so far.
func (c *Chain) Queries() []model.BlockRange {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]model.BlockRange(nil), c.queries...)
}

// Accounts implements ledger.Client.
func (c *Chain) Accounts(context.Context) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.accounts...), nil
}

// SubmitAnchor implements ledger.Client. The transaction is mined at once and
// all of its notifications are buffered on the returned handle.
func (c *Chain) SubmitAnchor(_ context.Context, tx model.AnchorTx) (ledger.TransactionHandle, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.submitErr != nil {
		return nil, c.submitErr
	}
	c.txCount++
	h := &handle{hash: txHash(c.txCount)}

	if c.rejectErr != nil {
		ch := make(chan model.TxNotification, 1)
		ch <- model.TxNotification{Kind: model.TxError, Err: c.rejectErr}
		close(ch)
		h.ch = ch
		return h, nil
	}

	mined := c.mineLocked()
	c.emitLocked(model.RawEvent{
		BlockNumber:     mined,
		TransactionHash: h.hash,
		ContentID:       tx.ContentID,
		Submitter:       tx.From,
		FeeParameters:   append([]byte(nil), tx.FeeParameters...),
	})
	receipt := &model.Receipt{TransactionHash: h.hash, BlockNumber: mined, GasUsed: c.gasUsed}

	ch := make(chan model.TxNotification, c.confirmations)
	for i := 1; i <= c.confirmations; i++ {
		c.mineLocked()
		n := model.TxNotification{Kind: model.TxConfirmation, Confirmations: uint64(i)}
		if i == 1 {
			n.Receipt = receipt
		}
		ch <- n
	}
	close(ch)
	h.ch = ch
	return h, nil
}

func (c *Chain) mineLocked() uint64 {
	last := c.timestamps[len(c.timestamps)-1]
	c.timestamps = append(c.timestamps, last+defaultBlockInterval)
	return uint64(len(c.timestamps) - 1)
}

// QueryEvents implements ledger.Client.
func (c *Chain) QueryEvents(_ context.Context, fromBlock, toBlock uint64) ([]model.RawEvent, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.queries = append(c.queries, model.BlockRange{From: fromBlock, To: toBlock})
	if len(c.queryErrs) > 0 {
		err := c.queryErrs[0]
		c.queryErrs = c.queryErrs[1:]
		return nil, err
	}
	if toBlock < fromBlock {
		return nil, fmt.Errorf("invalid block range [%d, %d]", fromBlock, toBlock)
	}
	events := c.collectLocked(fromBlock, toBlock)
	if c.capacity > 0 && len(events) > c.capacity {
		return nil, fmt.Errorf("query returned more than %d results", c.capacity)
	}
	return events, nil
}

func (c *Chain) collectLocked(fromBlock, toBlock uint64) []model.RawEvent {
	head := uint64(len(c.timestamps) - 1)
	if toBlock > head {
		toBlock = head
	}
	var events []model.RawEvent
	for n := fromBlock; n <= toBlock; n++ {
		events = append(events, c.events[n]...)
	}
	return events
}

// BlockByRef implements ledger.Client.
func (c *Chain) BlockByRef(_ context.Context, ref model.BlockRef) (model.BlockHeader, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, concrete := ref.Number()
	if !concrete {
		n = uint64(len(c.timestamps) - 1)
		if c.omitNumber {
			return model.BlockHeader{Timestamp: c.timestamps[n]}, nil
		}
	}
	if n >= uint64(len(c.timestamps)) {
		return model.BlockHeader{}, fmt.Errorf("block %d not found", n)
	}
	return model.BlockHeader{Number: &n, Timestamp: c.timestamps[n]}, nil
}

// HeadNumber implements ledger.Client.
func (c *Chain) HeadNumber(context.Context) (uint64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stallHead > 0 {
		c.stallHead--
		return 0, nil
	}
	return uint64(len(c.timestamps) - 1), nil
}

// CallView implements ledger.Client for the fee schedule view.
func (c *Chain) CallView(_ context.Context, method string, args ...any) (any, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(args) != 1 {
		return nil, fmt.Errorf("%s: want 1 argument, got %d", method, len(args))
	}
	size, ok := args[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("%s: argument is %T, want *big.Int", method, args[0])
	}
	return new(big.Int).Mul(size, c.feePerByte), nil
}

// SuggestGasPrice implements ledger.Client.
func (c *Chain) SuggestGasPrice(context.Context) (*big.Int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gasPriceErr != nil {
		return nil, c.gasPriceErr
	}
	if c.gasPrice == nil {
		return nil, errors.New("no gas price")
	}
	return new(big.Int).Set(c.gasPrice), nil
}

type handle struct {
	hash string
	ch   <-chan model.TxNotification
}

func (h *handle) Hash() string {
	return h.hash
}

func (h *handle) Notifications() <-chan model.TxNotification {
	return h.ch
}

func txHash(n int) string {
	return fmt.Sprintf("0x%064x", n)
}
