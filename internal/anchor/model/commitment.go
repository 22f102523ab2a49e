// Package model defines domain models for ledger anchoring.
package model

import "math/big"

// Commitment is the unit anchored on the ledger.
type Commitment struct {
	ContentID    string
	DeclaredSize uint64
	Submitter    string
}

// Metadata is derived per read from the ledger for one commitment.
// Fee fields are nil when the transaction's fee context is unknown.
type Metadata struct {
	BlockNumber     uint64
	TransactionHash string
	BlockTimestamp  uint64
	Confirmations   uint64
	Cost            *big.Int
	NetworkFee      *big.Int
	GasFee          *big.Int
	NetworkName     string
	ContractAddress string
}

// Entry pairs a commitment with its ledger metadata.
type Entry struct {
	Commitment
	Meta Metadata
}

// AppendResult is returned by the storage facade after anchoring new content.
type AppendResult struct {
	ContentID string
	Meta      Metadata
}

// ReadResult is returned by the storage facade for a single content id.
type ReadResult struct {
	Content      []byte
	DeclaredSize uint64
	Meta         Metadata
}

// ListedEntry is one element of a listing. ContentID is empty when the content
// store could not serve the body.
type ListedEntry struct {
	ContentID    string
	Content      []byte
	DeclaredSize uint64
	Meta         Metadata
}

// IndexedEntry is a commitment as mirrored into the index repository.
type IndexedEntry struct {
	Network         string
	ContentID       string
	DeclaredSize    uint64
	Submitter       string
	BlockNumber     uint64
	BlockTimestamp  uint64
	TransactionHash string
	LogIndex        uint32
	ContractAddress string
}

// AnchorTx is the anchoring transaction handed to the ledger client.
type AnchorTx struct {
	From          string
	ContentID     string
	FeeParameters []byte
	Value         *big.Int
	GasPrice      *big.Int
}
