package version

import (
	"github.com/stretchr/testify/require"
	tmrand "github.com/tendermint/tendermint/libs/rand"
	"testing"
)

func TestVersionMasking(t *testing.T) {
	defer func(a, b, c uint64) { majorVer, minorVer, patchVer = a, b, c }(majorVer, minorVer, patchVer)

	rand := tmrand.NewRand()
	for i := 0; i < 100; i++ {
		majorVer = uint64(rand.Intn(0xffff))
		minorVer = uint64(rand.Intn(0xffff))
		patchVer = uint64(rand.Intn(0xffff))

		require.Equal(t, majorVer<<32+minorVer<<16+patchVer, Uint64())
		require.Equal(t, majorVer<<32, Uint64(MASK_MAJOR_VER))
		require.Equal(t, majorVer<<32+patchVer, Uint64(MASK_MAJOR_VER, MASK_PATCH_VER))
		require.Equal(t, String(), Parse(Uint64()))
	}
}

func TestVersionOrder(t *testing.T) {
	defer func(a, b, c uint64) { majorVer, minorVer, patchVer = a, b, c }(majorVer, minorVer, patchVer)

	majorVer, minorVer, patchVer = 1, 9, 9
	older := Uint64()
	majorVer, minorVer, patchVer = 1, 10, 0
	require.Greater(t, Uint64(), older)
	require.Equal(t, "v1.10.0", String())
}
