// Package gas computes the fee attached to an anchoring transaction and the gas
// price it is submitted with.
package gas

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/goodnatureofminers/anchorstore/internal/anchor/model"
	"github.com/goodnatureofminers/anchorstore/internal/anchor/retry"
	"go.uber.org/zap"
)

// Tier selects how aggressively the gas price is set.
type Tier string

const (
	TierLow      Tier = "low"
	TierStandard Tier = "standard"
	TierFast     Tier = "fast"
)

// DefaultFeeMethod is the fee schedule view returning the fee for a content size.
const DefaultFeeMethod = "getFeesAmount"

// tierPercent scales the provider suggestion per tier.
var tierPercent = map[Tier]int64{
	TierLow:      90,
	TierStandard: 100,
	TierFast:     125,
}

// DefaultGasPrice is used when the provider cannot suggest a price: 100 gwei.
func DefaultGasPrice() *big.Int {
	return big.NewInt(100_000_000_000)
}

// ParseTier validates a configured tier name.
func ParseTier(s string) (Tier, error) {
	t := Tier(strings.ToLower(strings.TrimSpace(s)))
	if t == "" {
		return TierStandard, nil
	}
	if _, ok := tierPercent[t]; !ok {
		return "", fmt.Errorf("%w: %q", model.ErrUnknownTier, s)
	}
	return t, nil
}

// Config holds estimator settings.
type Config struct {
	DefaultGasPrice *big.Int
	FeeMethod       string
}

// Estimator computes base fees and gas prices.
type Estimator struct {
	caller    ViewCaller
	suggester PriceSuggester
	retry     *retry.Executor
	fallback  *big.Int
	feeMethod string
	logger    *zap.Logger
}

// New constructs an Estimator.
func New(caller ViewCaller, suggester PriceSuggester, ex *retry.Executor, cfg Config, logger *zap.Logger) *Estimator {
	fallback := cfg.DefaultGasPrice
	if fallback == nil || fallback.Sign() <= 0 {
		fallback = DefaultGasPrice()
	}
	feeMethod := cfg.FeeMethod
	if feeMethod == "" {
		feeMethod = DefaultFeeMethod
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Estimator{
		caller:    caller,
		suggester: suggester,
		retry:     ex,
		fallback:  new(big.Int).Set(fallback),
		feeMethod: feeMethod,
		logger:    logger,
	}
}

// EstimateFee returns the ledger-side fee for anchoring declaredSize bytes.
func (e *Estimator) EstimateFee(ctx context.Context, declaredSize uint64) (*big.Int, error) {
	size := new(big.Int).SetUint64(declaredSize)
	fee, err := retry.Value(ctx, e.retry, "estimate_fee", func(ctx context.Context) (*big.Int, error) {
		out, err := e.caller.CallView(ctx, e.feeMethod, size)
		if err != nil {
			return nil, err
		}
		fee, ok := out.(*big.Int)
		if !ok || fee == nil {
			return nil, retry.Permanent(fmt.Errorf("%s returned %T, want *big.Int", e.feeMethod, out))
		}
		return fee, nil
	})
	if err != nil {
		return nil, fmt.Errorf("estimate fee for size %d: %w", declaredSize, err)
	}
	return fee, nil
}

// EstimateGasPrice returns the provider suggestion scaled by tier, or the
// configured default when the provider is unreachable.
func (e *Estimator) EstimateGasPrice(ctx context.Context, tier Tier, network string) *big.Int {
	pct, ok := tierPercent[tier]
	if !ok {
		pct = tierPercent[TierStandard]
	}

	suggested, err := retry.Value(ctx, e.retry, "suggest_gas_price", e.suggester.SuggestGasPrice)
	if err != nil || suggested == nil || suggested.Sign() <= 0 {
		e.logger.Warn("gas price estimation failed, using default",
			zap.String("network", network),
			zap.String("tier", string(tier)),
			zap.Stringer("default", e.fallback),
			zap.Error(err),
		)
		return new(big.Int).Set(e.fallback)
	}

	price := new(big.Int).Mul(suggested, big.NewInt(pct))
	return price.Div(price, big.NewInt(100))
}

// GasPrice returns override when set, otherwise the estimated price.
func (e *Estimator) GasPrice(ctx context.Context, override *big.Int, tier Tier, network string) *big.Int {
	if override != nil && override.Sign() > 0 {
		return new(big.Int).Set(override)
	}
	return e.EstimateGasPrice(ctx, tier, network)
}
