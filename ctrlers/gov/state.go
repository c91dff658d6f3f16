package gov

import (
	"encoding/json"
	"github.com/coopgov/coopgov-go/ledger"
	abytes "github.com/coopgov/coopgov-go/types/bytes"
	"github.com/coopgov/coopgov-go/types/xerrors"
)

var stateKey = ledger.ToLedgerKey(abytes.ZeroBytes(32))

// GovState keeps the counters of the engine.
type GovState struct {
	LastProposalID uint64 `json:"lastProposalId"`
}

func (s *GovState) Key() ledger.LedgerKey {
	return stateKey
}

func (s *GovState) Encode() ([]byte, xerrors.XError) {
	if bz, err := json.Marshal(s); err != nil {
		return nil, xerrors.From(err)
	} else {
		return bz, nil
	}
}

func (s *GovState) Decode(bz []byte) xerrors.XError {
	if err := json.Unmarshal(bz, s); err != nil {
		return xerrors.From(err)
	}
	return nil
}

var _ ledger.ILedgerItem = (*GovState)(nil)

func (ctrler *GovCtrler) getState() (*GovState, xerrors.XError) {
	st, xerr := ctrler.stateLedger.Get(stateKey)
	if xerr == xerrors.ErrNotFoundResult {
		return &GovState{}, nil
	} else if xerr != nil {
		return nil, xerr
	}
	return st, nil
}
