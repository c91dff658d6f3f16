package types

import (
	"github.com/holiman/uint256"
)

// MaxUint128 is the ceiling of every vote accumulator.
var MaxUint128 = new(uint256.Int).Sub(new(uint256.Int).Lsh(uint256.NewInt(1), 128), uint256.NewInt(1))

func IsUint128(v *uint256.Int) bool {
	return v.Cmp(MaxUint128) <= 0
}

func Uint256ToString(value *uint256.Int) string {
	if value == nil {
		return ""
	}
	return value.Dec()
}

func StringToUint256(value string) (*uint256.Int, error) {
	if value == "" {
		return nil, nil
	}
	returnValue, err := uint256.FromDecimal(value)
	if err != nil {
		return nil, err
	}
	return returnValue, nil
}
