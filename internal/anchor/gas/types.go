package gas

import (
	"context"
	"math/big"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	// ViewCaller reads the fee schedule contract.
	ViewCaller interface {
		CallView(ctx context.Context, method string, args ...any) (any, error)
	}
	// PriceSuggester reports the provider's current gas price.
	PriceSuggester interface {
		SuggestGasPrice(ctx context.Context) (*big.Int, error)
	}
)
