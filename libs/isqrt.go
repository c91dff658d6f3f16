package libs

import (
	"github.com/holiman/uint256"
)

// Isqrt returns floor(sqrt(x)) so that Isqrt(x)^2 <= x < (Isqrt(x)+1)^2.
// x is not modified.
func Isqrt(x *uint256.Int) *uint256.Int {
	if x.IsZero() {
		return uint256.NewInt(0)
	}

	// 2^ceil(bitlen/2) is never below the root, so Newton's steps only descend.
	z := new(uint256.Int).Lsh(uint256.NewInt(1), uint((x.BitLen()+1)/2))
	y := new(uint256.Int)
	for {
		y.Div(x, z)
		y.Add(y, z)
		y.Rsh(y, 1)
		if y.Cmp(z) >= 0 {
			return z
		}
		z.Set(y)
	}
}
