package gov

import (
	ctrlertypes "github.com/coopgov/coopgov-go/ctrlers/types"
	"github.com/coopgov/coopgov-go/types/xerrors"
)

// ValidateWeights checks that a ballot spreads exactly 100 weight units
// over distinct options of a proposal with optCnt options.
func ValidateWeights(indices, weights []uint32, optCnt int) xerrors.XError {
	if len(indices) == 0 || len(indices) != len(weights) {
		return xerrors.ErrWeightsLength.Wrapf("indices: %d, weights: %d", len(indices), len(weights))
	}

	// optCnt never exceeds MaxOptionCnt (50), so one word holds every index.
	var seen uint64
	sum := uint64(0)
	for i, idx := range indices {
		if int(idx) >= optCnt || idx >= 64 {
			return xerrors.ErrInvalidIndex.Wrapf("index %d, options: %d", idx, optCnt)
		}
		bit := uint64(1) << idx
		if seen&bit != 0 {
			return xerrors.ErrDuplicateIndex.Wrapf("index %d", idx)
		}
		seen |= bit

		if weights[i] > ctrlertypes.FullSlicePct {
			return xerrors.ErrInvalidWeight.Wrapf("weight %d", weights[i])
		}
		sum += uint64(weights[i])
	}

	if sum != ctrlertypes.FullSlicePct {
		return xerrors.ErrInvalidWeightSum.Wrapf("sum %d", sum)
	}
	return nil
}
