// Package contentstore keeps content bodies addressed by CIDv1 (raw codec,
// sha2-256 multihash).
package contentstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/goodnatureofminers/anchorstore/internal/anchor/model"
	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
)

var (
	// ErrNotFound matches model.ErrNotFound.
	ErrNotFound = fmt.Errorf("contentstore: %w", model.ErrNotFound)
	// ErrInvalidID reports an id that is not a raw sha2-256 CID.
	ErrInvalidID = errors.New("contentstore: invalid content id")
	// ErrIDMismatch reports stored bytes that no longer hash to their id.
	ErrIDMismatch = errors.New("contentstore: content id mismatch")
)

// Store is a content-addressed byte store.
type Store interface {
	Put(ctx context.Context, data []byte) (string, error)
	Get(ctx context.Context, id string) ([]byte, error)
	SizeOf(ctx context.Context, id string) (uint64, error)
}

// ComputeID returns the content id of data.
func ComputeID(data []byte) (string, error) {
	c, err := computeCID(data)
	if err != nil {
		return "", err
	}
	return c.String(), nil
}

func computeCID(data []byte) (cid.Cid, error) {
	sum, err := multihash.Sum(data, multihash.SHA2_256, -1)
	if err != nil {
		return cid.Undef, fmt.Errorf("hash content: %w", err)
	}
	return cid.NewCidV1(cid.Raw, sum), nil
}

// ParseID validates id and returns it in canonical form.
func ParseID(id string) (string, error) {
	c, err := cid.Decode(id)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %w", ErrInvalidID, id, err)
	}
	if c.Version() != 1 || c.Type() != cid.Raw || c.Prefix().MhType != multihash.SHA2_256 {
		return "", fmt.Errorf("%w: %q is not a raw sha2-256 CIDv1", ErrInvalidID, id)
	}
	return c.String(), nil
}

func verify(id string, data []byte) error {
	got, err := ComputeID(data)
	if err != nil {
		return err
	}
	if got != id {
		return fmt.Errorf("%w: stored bytes hash to %s, want %s", ErrIDMismatch, got, id)
	}
	return nil
}
