package model

import (
	"fmt"
	"strconv"
)

// Symbolic block tags understood by the ledger client.
const (
	TagLatest  = "latest"
	TagPending = "pending"
)

// BlockRef points at a block either by number or by symbolic tag.
type BlockRef struct {
	number uint64
	tag    string
}

var (
	// LatestBlock refers to the current chain head.
	LatestBlock = BlockRef{tag: TagLatest}
	// PendingBlock refers to the block being assembled.
	PendingBlock = BlockRef{tag: TagPending}
)

// BlockNumber returns a reference to a concrete block.
func BlockNumber(n uint64) BlockRef {
	return BlockRef{number: n}
}

// Tag returns the symbolic tag, empty for concrete references.
func (r BlockRef) Tag() string {
	return r.tag
}

// Number returns the block number and whether the reference is concrete.
func (r BlockRef) Number() (uint64, bool) {
	return r.number, r.tag == ""
}

func (r BlockRef) String() string {
	if r.tag != "" {
		return r.tag
	}
	return strconv.FormatUint(r.number, 10)
}

// BlockHeader carries the block fields the engine needs.
// Number is nil when the provider returned a block without a number.
type BlockHeader struct {
	Number    *uint64
	Timestamp uint64
}

// BlockRange is an inclusive range of block numbers.
type BlockRange struct {
	From uint64
	To   uint64
}

// Validate rejects ranges whose end precedes their start.
func (r BlockRange) Validate() error {
	if r.To < r.From {
		return fmt.Errorf("%w: to block %d is below from block %d", ErrInvalidRange, r.To, r.From)
	}
	return nil
}

func (r BlockRange) String() string {
	return fmt.Sprintf("[%d, %d]", r.From, r.To)
}

// TimeBoundary bounds a listing by block timestamps (unix seconds). Nil bounds are open.
type TimeBoundary struct {
	From *uint64
	To   *uint64
}
