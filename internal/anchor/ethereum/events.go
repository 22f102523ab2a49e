package ethereum

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/goodnatureofminers/anchorstore/internal/anchor/model"
	"github.com/goodnatureofminers/anchorstore/pkg/safe"
)

// decodeNewHash converts a NewHash log. Fields that cannot be decoded are left
// empty and the event is still returned, so validation downstream rejects it.
func decodeNewHash(l types.Log) (model.RawEvent, error) {
	ev := model.RawEvent{
		BlockNumber:     l.BlockNumber,
		TransactionHash: l.TxHash.Hex(),
	}
	index, err := safe.Uint32(l.Index)
	if err != nil {
		return ev, fmt.Errorf("log index: %w", err)
	}
	ev.LogIndex = index

	values, err := anchorABI.Unpack(newHashEvent, l.Data)
	if err != nil {
		return ev, fmt.Errorf("unpack %s: %w", newHashEvent, err)
	}
	if len(values) != 3 {
		return ev, fmt.Errorf("unpack %s: got %d values, want 3", newHashEvent, len(values))
	}

	if hash, ok := values[0].(string); ok {
		ev.ContentID = hash
	}
	if submitter, ok := values[1].(common.Address); ok {
		ev.Submitter = submitter.Hex()
	}
	if params, ok := values[2].([]byte); ok && len(params) > 0 {
		ev.FeeParameters = params
	}
	return ev, nil
}
