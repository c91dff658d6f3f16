package gov

import (
	"github.com/coopgov/coopgov-go/types/xerrors"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestValidateWeights(t *testing.T) {
	cases := []struct {
		indices []uint32
		weights []uint32
		optCnt  int
		err     xerrors.XError
	}{
		{nil, nil, 3, xerrors.ErrWeightsLength},
		{[]uint32{0}, nil, 3, xerrors.ErrWeightsLength},
		{[]uint32{0, 1}, []uint32{100}, 3, xerrors.ErrWeightsLength},
		{[]uint32{3}, []uint32{100}, 3, xerrors.ErrInvalidIndex},
		{[]uint32{0, 63}, []uint32{50, 50}, 50, xerrors.ErrInvalidIndex},
		{[]uint32{1, 1}, []uint32{50, 50}, 3, xerrors.ErrDuplicateIndex},
		{[]uint32{0, 2, 0}, []uint32{20, 30, 50}, 3, xerrors.ErrDuplicateIndex},
		{[]uint32{0}, []uint32{101}, 3, xerrors.ErrInvalidWeight},
		{[]uint32{0, 1}, []uint32{50, 49}, 3, xerrors.ErrInvalidWeightSum},
		{[]uint32{0, 1}, []uint32{60, 60}, 3, xerrors.ErrInvalidWeightSum},
		{[]uint32{0}, []uint32{0}, 3, xerrors.ErrInvalidWeightSum},
		{[]uint32{2}, []uint32{100}, 3, nil},
		{[]uint32{2, 0, 1}, []uint32{20, 30, 50}, 3, nil},
		{[]uint32{0, 1}, []uint32{0, 100}, 2, nil},
		{[]uint32{49, 0}, []uint32{1, 99}, 50, nil},
	}

	for i, c := range cases {
		xerr := ValidateWeights(c.indices, c.weights, c.optCnt)
		if c.err == nil {
			require.NoError(t, xerr, "index", i)
		} else {
			require.ErrorIs(t, xerr, c.err, "index", i)
		}
	}
}

func TestValidateWeightsKeepsInput(t *testing.T) {
	indices := []uint32{2, 0}
	weights := []uint32{40, 60}
	require.NoError(t, ValidateWeights(indices, weights, 3))
	require.Equal(t, []uint32{2, 0}, indices)
	require.Equal(t, []uint32{40, 60}, weights)
}
