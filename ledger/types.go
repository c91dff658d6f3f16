package ledger

import (
	"bytes"
	"encoding/binary"
	"github.com/coopgov/coopgov-go/types/xerrors"
	"sort"
)

const LEDGERKEYSIZE = 32

type LedgerKey = [32]byte

func ToLedgerKey(s []byte) LedgerKey {
	var ret LedgerKey
	n := len(s)
	if n > LEDGERKEYSIZE {
		n = LEDGERKEYSIZE
	}
	copy(ret[:], s[:n])
	return ret
}

// Uint64ToLedgerKey places n big-endian in the last 8 bytes,
// so tree iteration follows numeric order.
func Uint64ToLedgerKey(n uint64) LedgerKey {
	var ret LedgerKey
	binary.BigEndian.PutUint64(ret[LEDGERKEYSIZE-8:], n)
	return ret
}

type LedgerKeyList []LedgerKey

func (a LedgerKeyList) Len() int {
	return len(a)
}
func (a LedgerKeyList) Less(i, j int) bool {
	ret := bytes.Compare(a[i][:], a[j][:])
	return ret > 0
}
func (a LedgerKeyList) Swap(i, j int) {
	a[i], a[j] = a[j], a[i]
}

var _ sort.Interface = LedgerKeyList(nil)

type ILedgerItem interface {
	Key() LedgerKey
	Encode() ([]byte, xerrors.XError)
	Decode([]byte) xerrors.XError
}

// ILedger stages writes in a cache until Commit.
// Rollback discards everything staged since the last Commit.
type ILedger[T ILedgerItem] interface {
	Version() int64
	Hash() []byte
	Set(T) xerrors.XError
	Get(LedgerKey) (T, xerrors.XError)
	Read(LedgerKey) (T, xerrors.XError)
	IterateReadAllItems(func(T) xerrors.XError) xerrors.XError
	Commit() ([]byte, int64, xerrors.XError)
	Rollback()
	Close() xerrors.XError
}
