package ledger

import (
	"fmt"
	"math/big"

	"github.com/goodnatureofminers/anchorstore/internal/anchor/model"
	"github.com/goodnatureofminers/anchorstore/pkg/safe"
)

// feeParametersLength is the size of one ABI-encoded uint256.
const feeParametersLength = 32

// EncodeFeeParameters encodes the declared size as the contract's fee parameter.
func EncodeFeeParameters(declaredSize uint64) []byte {
	out := make([]byte, feeParametersLength)
	new(big.Int).SetUint64(declaredSize).FillBytes(out)
	return out
}

// DecodeFeeParameters extracts the declared size from a fee parameter.
func DecodeFeeParameters(b []byte) (uint64, error) {
	if len(b) != feeParametersLength {
		return 0, fmt.Errorf("%w: fee parameters are %d bytes, want %d", model.ErrMalformedEvent, len(b), feeParametersLength)
	}
	size, err := safe.Uint64FromBig(new(big.Int).SetBytes(b))
	if err != nil {
		return 0, fmt.Errorf("%w: declared size: %w", model.ErrMalformedEvent, err)
	}
	return size, nil
}
