package xerrors

import (
	"errors"
	"fmt"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestWrapKeepsCode(t *testing.T) {
	cause := errors.New("balance lookup timed out")
	xerr := ErrOracle.Wrap(cause)

	require.Equal(t, ErrCodeOracle, xerr.Code())
	require.ErrorIs(t, xerr, ErrOracle)
	require.ErrorIs(t, xerr, cause)
	require.NotErrorIs(t, xerr, ErrOverflow)
	require.Equal(t, "oracle query failed<<balance lookup timed out", xerr.Error())

	// wrapped again by a plain error
	outer := fmt.Errorf("vote: %w", xerr)
	require.ErrorIs(t, outer, ErrOracle)
	require.Equal(t, ErrCodeOracle, From(outer).Code())
}

func TestFrom(t *testing.T) {
	require.Nil(t, From(nil))

	xerr := From(errors.New("disk full"))
	require.Equal(t, ErrCodeGeneric, xerr.Code())
	// generic errors never match each other by code
	require.NotErrorIs(t, xerr, New("disk full"))

	require.Equal(t, ErrNoRight, From(ErrNoRight))
}

func TestWrapf(t *testing.T) {
	xerr := ErrInvalidIndex.Wrapf("index %d of %d", 7, 3)
	require.ErrorIs(t, xerr, ErrInvalidIndex)
	require.Contains(t, xerr.Error(), "index 7 of 3")
}
