// Package ethereum implements the ledger client on top of go-ethereum's RPC
// client for the anchor and fee schedule contracts.
package ethereum

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	geth "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"go.uber.org/ratelimit"
	"go.uber.org/zap"

	"github.com/goodnatureofminers/anchorstore/internal/anchor/ledger"
	"github.com/goodnatureofminers/anchorstore/internal/anchor/model"
)

const (
	defaultPollInterval     = 2 * time.Second
	defaultMaxConfirmations = 12
)

var _ ledger.Client = (*Client)(nil)

// Config configures a Client.
type Config struct {
	RPCURL        string
	AnchorAddress string
	// FeeAddress is the fee schedule contract; defaults to AnchorAddress.
	FeeAddress    string
	PrivateKeyHex string
	// RPS caps requests per second to the node. Zero is unlimited.
	RPS int
	// PollInterval spaces receipt and head polls of submitted transactions.
	PollInterval time.Duration
	// MaxConfirmations is the number of confirmation signals a handle emits.
	MaxConfirmations int
	// GasLimit fixes the gas of anchoring transactions; zero estimates it.
	GasLimit uint64
}

// Client is a ledger.Client for EVM nodes.
type Client struct {
	backend Backend
	limiter ratelimit.Limiter
	metrics RPCMetrics
	logger  *zap.Logger

	anchor common.Address
	fee    common.Address

	key     *ecdsa.PrivateKey
	account common.Address
	chainID *big.Int

	pollInterval     time.Duration
	maxConfirmations int
	gasLimit         uint64
}

// Dial connects to cfg.RPCURL.
func Dial(ctx context.Context, cfg Config, metrics RPCMetrics, logger *zap.Logger) (*Client, error) {
	if cfg.RPCURL == "" {
		return nil, errors.New("rpc url is required")
	}
	backend, err := ethclient.DialContext(ctx, cfg.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", cfg.RPCURL, classify(err))
	}
	return NewClient(ctx, backend, cfg, metrics, logger)
}

// NewClient wraps backend. The chain id is fetched when a signing key is configured.
func NewClient(ctx context.Context, backend Backend, cfg Config, metrics RPCMetrics, logger *zap.Logger) (*Client, error) {
	if !common.IsHexAddress(cfg.AnchorAddress) {
		return nil, fmt.Errorf("invalid anchor contract address %q", cfg.AnchorAddress)
	}
	feeAddress := cfg.FeeAddress
	if feeAddress == "" {
		feeAddress = cfg.AnchorAddress
	}
	if !common.IsHexAddress(feeAddress) {
		return nil, fmt.Errorf("invalid fee contract address %q", feeAddress)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	limiter := ratelimit.NewUnlimited()
	if cfg.RPS > 0 {
		limiter = ratelimit.New(cfg.RPS)
	}
	pollInterval := cfg.PollInterval
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}
	maxConfirmations := cfg.MaxConfirmations
	if maxConfirmations <= 0 {
		maxConfirmations = defaultMaxConfirmations
	}

	c := &Client{
		backend:          backend,
		limiter:          limiter,
		metrics:          metrics,
		logger:           logger.Named("ethereum"),
		anchor:           common.HexToAddress(cfg.AnchorAddress),
		fee:              common.HexToAddress(feeAddress),
		pollInterval:     pollInterval,
		maxConfirmations: maxConfirmations,
		gasLimit:         cfg.GasLimit,
	}

	if cfg.PrivateKeyHex != "" {
		key, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.PrivateKeyHex, "0x"))
		if err != nil {
			return nil, fmt.Errorf("parse private key: %w", err)
		}
		chainID, err := c.chainIDOf(ctx)
		if err != nil {
			return nil, fmt.Errorf("chain id: %w", err)
		}
		c.key, c.account, c.chainID = key, crypto.PubkeyToAddress(key.PublicKey), chainID
	}
	return c, nil
}

func (c *Client) chainIDOf(ctx context.Context) (id *big.Int, err error) {
	started := c.begin()
	defer func() { c.observe("chain_id", err, started) }()
	id, err = c.backend.ChainID(ctx)
	return id, classify(err)
}

func (c *Client) begin() time.Time {
	c.limiter.Take()
	return time.Now()
}

func (c *Client) observe(operation string, err error, started time.Time) {
	if c.metrics != nil {
		c.metrics.Observe(operation, err, started)
	}
}

// Accounts returns the address of the configured key, if any.
func (c *Client) Accounts(context.Context) ([]string, error) {
	if c.key == nil {
		return []string{}, nil
	}
	return []string{c.account.Hex()}, nil
}

// SubmitAnchor signs and sends a submitHash transaction.
func (c *Client) SubmitAnchor(ctx context.Context, tx model.AnchorTx) (ledger.TransactionHandle, error) {
	if c.key == nil {
		return nil, model.ErrNoAccountAvailable
	}
	if !strings.EqualFold(tx.From, c.account.Hex()) {
		return nil, fmt.Errorf("no signing key for account %s", tx.From)
	}

	data, err := anchorABI.Pack(submitMethod, tx.ContentID, tx.FeeParameters)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", submitMethod, err)
	}
	value := tx.Value
	if value == nil {
		value = new(big.Int)
	}

	nonce, err := c.pendingNonce(ctx)
	if err != nil {
		return nil, err
	}
	gas := c.gasLimit
	if gas == 0 {
		gas, err = c.estimateGas(ctx, geth.CallMsg{
			From:     c.account,
			To:       &c.anchor,
			GasPrice: tx.GasPrice,
			Value:    value,
			Data:     data,
		})
		if err != nil {
			return nil, err
		}
	}

	signed, err := types.SignTx(types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		GasPrice: tx.GasPrice,
		Gas:      gas,
		To:       &c.anchor,
		Value:    value,
		Data:     data,
	}), types.LatestSignerForChainID(c.chainID), c.key)
	if err != nil {
		return nil, fmt.Errorf("sign transaction: %w", err)
	}
	if err := c.send(ctx, signed); err != nil {
		return nil, err
	}

	h := newTxHandle(signed.Hash(), c.maxConfirmations)
	go h.watch(ctx, c, c.logger.With(zap.String("tx_hash", signed.Hash().Hex())))
	return h, nil
}

func (c *Client) pendingNonce(ctx context.Context) (nonce uint64, err error) {
	started := c.begin()
	defer func() { c.observe("pending_nonce_at", err, started) }()
	nonce, err = c.backend.PendingNonceAt(ctx, c.account)
	if err != nil {
		return 0, fmt.Errorf("pending nonce: %w", classify(err))
	}
	return nonce, nil
}

func (c *Client) estimateGas(ctx context.Context, msg geth.CallMsg) (gas uint64, err error) {
	started := c.begin()
	defer func() { c.observe("estimate_gas", err, started) }()
	gas, err = c.backend.EstimateGas(ctx, msg)
	if err != nil {
		return 0, fmt.Errorf("estimate gas: %w", classify(err))
	}
	return gas, nil
}

func (c *Client) send(ctx context.Context, tx *types.Transaction) (err error) {
	started := c.begin()
	defer func() { c.observe("send_transaction", err, started) }()
	if err = c.backend.SendTransaction(ctx, tx); err != nil {
		return fmt.Errorf("send transaction: %w", classify(err))
	}
	return nil
}

func (c *Client) receipt(ctx context.Context, hash common.Hash) (r *types.Receipt, err error) {
	started := c.begin()
	defer func() {
		if errors.Is(err, geth.NotFound) {
			c.observe("transaction_receipt", nil, started)
			return
		}
		c.observe("transaction_receipt", err, started)
	}()
	r, err = c.backend.TransactionReceipt(ctx, hash)
	return r, classify(err)
}

// QueryEvents returns NewHash logs of the anchor contract in [fromBlock, toBlock].
func (c *Client) QueryEvents(ctx context.Context, fromBlock, toBlock uint64) (events []model.RawEvent, err error) {
	started := c.begin()
	defer func() { c.observe("filter_logs", err, started) }()

	logs, err := c.backend.FilterLogs(ctx, geth.FilterQuery{
		FromBlock: new(big.Int).SetUint64(fromBlock),
		ToBlock:   new(big.Int).SetUint64(toBlock),
		Addresses: []common.Address{c.anchor},
		Topics:    [][]common.Hash{{anchorABI.Events[newHashEvent].ID}},
	})
	if err != nil {
		return nil, classify(err)
	}

	events = make([]model.RawEvent, 0, len(logs))
	for _, l := range logs {
		if l.Removed {
			continue
		}
		ev, derr := decodeNewHash(l)
		if derr != nil {
			c.logger.Debug("undecodable NewHash log",
				zap.String("tx_hash", l.TxHash.Hex()),
				zap.Uint("log_index", l.Index),
				zap.Error(derr),
			)
		}
		events = append(events, ev)
	}
	return events, nil
}

// BlockByRef returns the header of a numbered or tagged block.
func (c *Client) BlockByRef(ctx context.Context, ref model.BlockRef) (header model.BlockHeader, err error) {
	started := c.begin()
	defer func() { c.observe("header_by_number", err, started) }()

	var number *big.Int
	if n, ok := ref.Number(); ok {
		number = new(big.Int).SetUint64(n)
	} else if ref.Tag() == model.TagPending {
		number = big.NewInt(int64(rpc.PendingBlockNumber))
	}

	h, err := c.backend.HeaderByNumber(ctx, number)
	if err != nil {
		return model.BlockHeader{}, fmt.Errorf("header %s: %w", ref, classify(err))
	}
	header = model.BlockHeader{Timestamp: h.Time}
	if h.Number != nil && h.Number.IsUint64() {
		n := h.Number.Uint64()
		header.Number = &n
	}
	return header, nil
}

// HeadNumber returns the latest block number.
func (c *Client) HeadNumber(ctx context.Context) (n uint64, err error) {
	started := c.begin()
	defer func() { c.observe("block_number", err, started) }()
	n, err = c.backend.BlockNumber(ctx)
	return n, classify(err)
}

// CallView calls a view of the fee schedule contract. Single return values
// are returned unwrapped.
func (c *Client) CallView(ctx context.Context, method string, args ...any) (out any, err error) {
	data, err := feeABI.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}

	started := c.begin()
	defer func() { c.observe("call_contract", err, started) }()

	raw, err := c.backend.CallContract(ctx, geth.CallMsg{To: &c.fee, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", method, classify(err))
	}
	values, err := feeABI.Unpack(method, raw)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", method, err)
	}
	if len(values) == 1 {
		return values[0], nil
	}
	return values, nil
}

// SuggestGasPrice returns the node's gas price suggestion.
func (c *Client) SuggestGasPrice(ctx context.Context) (price *big.Int, err error) {
	started := c.begin()
	defer func() { c.observe("suggest_gas_price", err, started) }()
	price, err = c.backend.SuggestGasPrice(ctx)
	return price, classify(err)
}
