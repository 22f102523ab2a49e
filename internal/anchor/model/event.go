package model

import "fmt"

// RawEvent is a decoded NewHash log. Empty ContentID or nil FeeParameters mean
// the field was absent from the log.
type RawEvent struct {
	BlockNumber     uint64
	TransactionHash string
	LogIndex        uint32
	ContentID       string
	Submitter       string
	FeeParameters   []byte
}

// Validate reports missing required fields.
func (e RawEvent) Validate() error {
	if e.ContentID == "" {
		return fmt.Errorf("%w: tx %s log %d has no content id", ErrMalformedEvent, e.TransactionHash, e.LogIndex)
	}
	if e.FeeParameters == nil {
		return fmt.Errorf("%w: tx %s log %d has no fee parameters", ErrMalformedEvent, e.TransactionHash, e.LogIndex)
	}
	return nil
}

// TxNotificationKind enumerates transaction lifecycle signals.
type TxNotificationKind int

const (
	// TxError reports a rejected submission.
	TxError TxNotificationKind = iota
	// TxConfirmation reports one more block on top of the mined block.
	TxConfirmation
)

// Receipt carries the mined transaction data needed to build metadata.
type Receipt struct {
	TransactionHash string
	BlockNumber     uint64
	GasUsed         uint64
}

// TxNotification is one lifecycle signal of a submitted transaction.
type TxNotification struct {
	Kind          TxNotificationKind
	Err           error
	Confirmations uint64
	Receipt       *Receipt
}
