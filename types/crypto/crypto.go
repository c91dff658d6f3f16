package crypto

import (
	abytes "github.com/coopgov/coopgov-go/types/bytes"
	"github.com/coopgov/coopgov-go/types/xerrors"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
	"hash"
)

func DefaultHash(datas ...[]byte) []byte {
	hasher := DefaultHasher()
	for _, bz := range datas {
		hasher.Write(bz)
	}
	return hasher.Sum(nil)
}

func DefaultHasher() hash.Hash {
	return ethcrypto.NewKeccakState()
}

func DefaultHasherName() string {
	return "keccak256"
}

// ContentHash is the keccak256 digest of the canonical RLP encoding of v.
func ContentHash(v interface{}) (abytes.HexBytes, xerrors.XError) {
	bz, err := rlp.EncodeToBytes(v)
	if err != nil {
		return nil, xerrors.From(err)
	}
	return DefaultHash(bz), nil
}
