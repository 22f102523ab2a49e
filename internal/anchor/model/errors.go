package model

import "errors"

var (
	// ErrNetworkUnreachable marks transport-level failures talking to the ledger or the content store.
	ErrNetworkUnreachable = errors.New("network unreachable")
	// ErrTimeout marks a single attempt that exceeded its deadline.
	ErrTimeout = errors.New("timeout")
	// ErrRangeTooLarge marks a single-block query that still overflows the provider result limit.
	ErrRangeTooLarge = errors.New("range too large")
	// ErrMalformedEvent marks a ledger event missing a required field.
	ErrMalformedEvent = errors.New("malformed event")
	// ErrSubmissionFailed marks a rejected anchoring transaction.
	ErrSubmissionFailed = errors.New("submission failed")
	// ErrMetadataUnresolved marks a mined submission whose metadata could not be built in time.
	ErrMetadataUnresolved = errors.New("metadata unresolved")
	// ErrNotIndexed marks a content id without any commitment on the ledger.
	ErrNotIndexed = errors.New("not indexed")
	// ErrNotFound marks a content id unresolvable on either substrate.
	ErrNotFound = errors.New("not found")
	// ErrNoAccountAvailable marks a ledger connection without a submitting account.
	ErrNoAccountAvailable = errors.New("no account available")
	// ErrUnknownNetwork marks an unsupported network name.
	ErrUnknownNetwork = errors.New("unknown network")
	// ErrUnknownTier marks an unsupported gas priority tier.
	ErrUnknownTier = errors.New("unknown priority tier")
	// ErrEmptyInput marks a zero-length append.
	ErrEmptyInput = errors.New("empty input")
	// ErrInvalidRange marks a block range whose end precedes its start.
	ErrInvalidRange = errors.New("invalid block range")
	// ErrCreationBlockRequired marks a public network configured without the anchor contract's creation block.
	ErrCreationBlockRequired = errors.New("creation block required")
	// ErrBlockNumberMissing marks a symbolic block that came back without a number.
	ErrBlockNumberMissing = errors.New("block number missing")
)
