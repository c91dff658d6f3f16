package types

import (
	"encoding/json"
	"github.com/coopgov/coopgov-go/types"
	"github.com/coopgov/coopgov-go/types/xerrors"
	"github.com/holiman/uint256"
)

// IRoleOracle answers capability membership for many roles in one round-trip.
// The result has the same length and order as roles.
type IRoleOracle interface {
	WearsBatch(addr types.Address, roles []RoleID) ([]bool, error)
}

// IBalanceOracle reports holdings of the asset referenced by a balance weighted class.
type IBalanceOracle interface {
	BalanceOf(asset, holder types.Address) (*uint256.Int, error)
}

// IExecutionSink performs the actions of a winning option.
// A non-nil error undoes the finalization that triggered it.
type IExecutionSink interface {
	Execute(proposalID uint64, batch []*Call) error
}

// ILedgerHandler is the read side of a controller backed by ledgers.
type ILedgerHandler interface {
	Query(*types.QueryData) (json.RawMessage, xerrors.XError)
	Hash() []byte
	Version() int64
	Close() xerrors.XError
}
