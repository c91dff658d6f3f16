package types

import (
	"encoding/binary"
	"github.com/coopgov/coopgov-go/types/xerrors"
)

const (
	QUERY_PROPOSAL int16 = 1 + iota
	QUERY_PROPOSALS
	QUERY_CLASSES
	QUERY_RESULT
	QUERY_GOVPARAMS
)

// QueryData is a 2-byte big-endian command followed by its parameters.
type QueryData struct {
	Command int16
	Params  []byte
}

func NewQueryData(cmd int16, params []byte) *QueryData {
	return &QueryData{
		Command: cmd,
		Params:  params,
	}
}

func DecodeQueryData(bz []byte) (*QueryData, xerrors.XError) {
	if len(bz) < 2 {
		return nil, xerrors.ErrInvalidQueryCmd
	}
	cmd := int16(binary.BigEndian.Uint16(bz[:2]))
	params := bz[2:]
	return &QueryData{
		Command: cmd,
		Params:  params,
	}, nil
}

func (q *QueryData) Encode() []byte {
	bzcmd := make([]byte, 2)
	binary.BigEndian.PutUint16(bzcmd, uint16(q.Command))
	return append(bzcmd, q.Params...)
}

// Uint64Params encodes a proposal id as query parameters.
func Uint64Params(n uint64) []byte {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, n)
	return bz
}

func (q *QueryData) Uint64Param() (uint64, xerrors.XError) {
	if len(q.Params) != 8 {
		return 0, xerrors.ErrInvalidQueryParams.Wrapf("expected 8 bytes, got %d", len(q.Params))
	}
	return binary.BigEndian.Uint64(q.Params), nil
}
