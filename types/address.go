package types

import (
	"encoding/hex"
	abytes "github.com/coopgov/coopgov-go/types/bytes"
	"github.com/coopgov/coopgov-go/types/xerrors"
	"strings"
)

const AddrSize = 20

type Address = abytes.HexBytes

func RandAddress() Address {
	return abytes.RandBytes(AddrSize)
}

func ZeroAddress() Address {
	return abytes.ZeroBytes(AddrSize)
}

func HexToAddress(_hex string) (Address, xerrors.XError) {
	_hex = strings.TrimPrefix(_hex, "0x")
	bzAddr, err := hex.DecodeString(_hex)
	if err != nil {
		return nil, xerrors.From(err)
	}
	if len(bzAddr) != AddrSize {
		return nil, xerrors.NewOrdinary("error of address length: address length should be 20 bytes")
	}
	return bzAddr, nil
}

func IsZeroAddress(addr Address) bool {
	for _, b := range addr {
		if b != 0 {
			return false
		}
	}
	return true
}
