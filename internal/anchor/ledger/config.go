package ledger

import (
	"math/big"
	"regexp"

	"github.com/goodnatureofminers/anchorstore/internal/anchor/gas"
	"github.com/goodnatureofminers/anchorstore/internal/anchor/retry"
)

const defaultMaxConfirmationAttempts = 10

// OverflowPredicate reports whether a range query failed because the provider
// refused to return that many results. The wording is provider specific.
type OverflowPredicate func(error) bool

var overflowPattern = regexp.MustCompile(`(?i)(more than \d+ results|query returned more than|log response size exceeded)`)

// DefaultOverflow matches the result-limit messages of common EVM providers.
func DefaultOverflow(err error) bool {
	return err != nil && overflowPattern.MatchString(err.Error())
}

// OverflowMatching builds a predicate from a provider-specific pattern.
func OverflowMatching(pattern string) (OverflowPredicate, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	return func(err error) bool {
		return err != nil && re.MatchString(err.Error())
	}, nil
}

// Config configures a Manager.
type Config struct {
	Network         string
	ContractAddress string
	// ProviderURL names the ledger endpoint for dialers; the Manager does not use it.
	ProviderURL string
	// CreationBlock overrides the network's creation block when set.
	CreationBlock *uint64
	Retry         retry.Config
	// MaxConcurrency caps parallel RPCs of one range query or enrichment. Zero is unbounded.
	MaxConcurrency int
	// MaxConfirmationAttempts caps confirmation signals spent building submit metadata.
	MaxConfirmationAttempts int
	PriorityTier            gas.Tier
	DefaultGasPrice         *big.Int
	// Submitter overrides the account picked from the client.
	Submitter  string
	IsOverflow OverflowPredicate
}
