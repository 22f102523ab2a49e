// Package safe provides helpers for safe numeric conversions with overflow checks.
package safe

import (
	"fmt"
	"math"
	"math/big"
)

// Integer lists the integer kinds the conversions accept.
type Integer interface {
	~int | ~int32 | ~int64 | ~uint | ~uint32 | ~uint64
}

// Uint32 converts signed or unsigned integers to uint32 with range validation.
func Uint32[T Integer](v T) (uint32, error) {
	if v < 0 {
		return 0, fmt.Errorf("value %d out of uint32 range", v)
	}
	if uint64(v) > math.MaxUint32 {
		return 0, fmt.Errorf("value %d out of uint32 range", v)
	}
	return uint32(v), nil
}

// Uint64 converts signed or unsigned integers to uint64 while guarding against negatives.
func Uint64[T Integer](v T) (uint64, error) {
	if v < 0 {
		return 0, fmt.Errorf("value %d out of uint64 range", v)
	}
	return uint64(v), nil
}

// Uint64FromBig converts a big integer to uint64, rejecting nil, negative and oversized values.
func Uint64FromBig(v *big.Int) (uint64, error) {
	if v == nil {
		return 0, fmt.Errorf("nil value out of uint64 range")
	}
	if v.Sign() < 0 || !v.IsUint64() {
		return 0, fmt.Errorf("value %s out of uint64 range", v)
	}
	return v.Uint64(), nil
}
