package gov

import (
	"encoding/json"
	"github.com/coopgov/coopgov-go/ctrlers/gov/proposal"
	ctrlertypes "github.com/coopgov/coopgov-go/ctrlers/types"
	"github.com/coopgov/coopgov-go/ledger"
	"github.com/coopgov/coopgov-go/types"
	"github.com/coopgov/coopgov-go/types/xerrors"
)

// Queries read committed state only. They never observe the staged
// writes of an operation in flight, even when called from the execution sink.

// ProposalResult is the resolver's view of a proposal. Announced tells
// whether Winner and Valid are final.
type ProposalResult struct {
	ID        uint64   `json:"id"`
	Winner    uint32   `json:"winner"`
	Valid     bool     `json:"valid"`
	Scores    []uint64 `json:"scores"`
	Voters    int      `json:"voters"`
	Announced bool     `json:"announced"`
}

func (ctrler *GovCtrler) ReadProposal(id uint64) (*proposal.GovProposal, xerrors.XError) {
	if prop, xerr := ctrler.proposalLedger.Read(ledger.Uint64ToLedgerKey(id)); xerr != nil {
		if xerr == xerrors.ErrNotFoundResult {
			return nil, xerrors.ErrNotFoundProposal
		}
		return nil, xerr
	} else {
		return prop, nil
	}
}

func (ctrler *GovCtrler) ReadAllProposals() ([]*proposal.GovProposal, xerrors.XError) {
	var proposals []*proposal.GovProposal
	if xerr := ctrler.proposalLedger.IterateReadAllItems(func(prop *proposal.GovProposal) xerrors.XError {
		proposals = append(proposals, prop)
		return nil
	}); xerr != nil {
		return nil, xerr
	}
	return proposals, nil
}

func (ctrler *GovCtrler) ReadClasses() (*ClassRegistry, xerrors.XError) {
	reg, xerr := ctrler.registryLedger.Read(registryKey)
	if xerr == xerrors.ErrNotFoundResult {
		return nil, xerrors.ErrInvalidClassCount.Wrapf("no class set")
	} else if xerr != nil {
		return nil, xerr
	}
	return reg, nil
}

// ReadResult returns the recorded result of an announced proposal or, before
// that, what the resolver would decide from the votes so far.
func (ctrler *GovCtrler) ReadResult(id uint64) (*ProposalResult, xerrors.XError) {
	prop, xerr := ctrler.ReadProposal(id)
	if xerr != nil {
		return nil, xerr
	}

	if prop.Result != nil {
		return &ProposalResult{
			ID:        id,
			Winner:    prop.Result.Winner,
			Valid:     prop.Result.Valid,
			Scores:    prop.Result.Scores,
			Voters:    prop.VoterCount(),
			Announced: true,
		}, nil
	}

	winner, valid, scores := prop.Resolve(ctrler.params.QuorumPct)
	return &ProposalResult{
		ID:     id,
		Winner: winner,
		Valid:  valid,
		Scores: scores,
		Voters: prop.VoterCount(),
	}, nil
}

func (ctrler *GovCtrler) Query(qd *types.QueryData) (json.RawMessage, xerrors.XError) {
	var v any
	switch qd.Command {
	case types.QUERY_PROPOSAL:
		id, xerr := qd.Uint64Param()
		if xerr != nil {
			return nil, xerr
		}
		prop, xerr := ctrler.ReadProposal(id)
		if xerr != nil {
			return nil, xerr
		}
		v = prop
	case types.QUERY_PROPOSALS:
		props, xerr := ctrler.ReadAllProposals()
		if xerr != nil {
			return nil, xerr
		}
		v = props
	case types.QUERY_CLASSES:
		reg, xerr := ctrler.ReadClasses()
		if xerr != nil {
			return nil, xerr
		}
		v = reg
	case types.QUERY_RESULT:
		id, xerr := qd.Uint64Param()
		if xerr != nil {
			return nil, xerr
		}
		res, xerr := ctrler.ReadResult(id)
		if xerr != nil {
			return nil, xerr
		}
		v = res
	case types.QUERY_GOVPARAMS:
		params := ctrler.GetGovParams()
		v = &params
	default:
		return nil, xerrors.ErrInvalidQueryCmd
	}

	if bz, err := json.Marshal(v); err != nil {
		return nil, xerrors.ErrQuery.Wrap(err)
	} else {
		return bz, nil
	}
}

var _ ctrlertypes.ILedgerHandler = (*GovCtrler)(nil)
