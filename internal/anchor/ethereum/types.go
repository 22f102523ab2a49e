package ethereum

import (
	"context"
	"math/big"
	"time"

	geth "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// Backend is the subset of ethclient.Client the adapter uses.
	Backend interface {
		ChainID(ctx context.Context) (*big.Int, error)
		BlockNumber(ctx context.Context) (uint64, error)
		HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
		FilterLogs(ctx context.Context, q geth.FilterQuery) ([]types.Log, error)
		CallContract(ctx context.Context, call geth.CallMsg, blockNumber *big.Int) ([]byte, error)
		SuggestGasPrice(ctx context.Context) (*big.Int, error)
		PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
		EstimateGas(ctx context.Context, call geth.CallMsg) (uint64, error)
		SendTransaction(ctx context.Context, tx *types.Transaction) error
		TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	}

	// RPCMetrics records metrics for RPC calls.
	RPCMetrics interface {
		Observe(operation string, err error, started time.Time)
	}
)
