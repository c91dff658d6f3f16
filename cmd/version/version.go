package version

import (
	"fmt"
)

const fmtVersion = "v%d.%d.%d"

var (
	majorVer uint64 = 0
	minorVer uint64 = 1
	patchVer uint64 = 0

	// it is changed using ldflags.
	//  ex) -ldflags "... -X 'github.com/coopgov/coopgov-go/cmd/version.GitCommit=$(git rev-parse --short HEAD)'"
	GitCommit string
)

const (
	MASK_MAJOR_VER = uint64(0xFFFF_0000_0000)
	MASK_MINOR_VER = uint64(0x0000_FFFF_0000)
	MASK_PATCH_VER = uint64(0x0000_0000_FFFF)
)

func String() string {
	ver := fmt.Sprintf(fmtVersion, majorVer, minorVer, patchVer)
	if GitCommit != "" {
		ver += "-" + GitCommit
	}
	return ver
}

// Uint64 packs the version so that newer versions compare greater.
func Uint64(masks ...uint64) uint64 {
	mask := MASK_MAJOR_VER | MASK_MINOR_VER | MASK_PATCH_VER
	if len(masks) > 0 {
		mask = 0
		for _, m := range masks {
			mask |= m
		}
	}
	return (majorVer<<32 | minorVer<<16 | patchVer) & mask
}

func Parse(v uint64) string {
	return fmt.Sprintf(fmtVersion, (v>>32)&0xFFFF, (v>>16)&0xFFFF, v&0xFFFF)
}
