package proposal

import (
	"encoding/json"
	ctrlertypes "github.com/coopgov/coopgov-go/ctrlers/types"
	"github.com/coopgov/coopgov-go/ledger"
	"github.com/coopgov/coopgov-go/types"
	"github.com/coopgov/coopgov-go/types/xerrors"
	"github.com/holiman/uint256"
	"sync"
)

type VoteResult struct {
	Winner uint32   `json:"winner"`
	Valid  bool     `json:"valid"`
	Scores []uint64 `json:"scores"`
	Height int64    `json:"height"`
}

type GovProposal struct {
	GovProposalHeader
	Classes     []*ctrlertypes.Class
	Options     []*VoteOption
	ClassTotals []*uint256.Int
	Voters      map[string]bool
	Executed    bool
	Result      *VoteResult

	mtx sync.RWMutex
}

// NewGovProposal snapshots classes; later registry updates never reach the proposal.
func NewGovProposal(header GovProposalHeader, classes []*ctrlertypes.Class, optCnt int, batches [][]*ctrlertypes.Call) *GovProposal {
	header.Restricted = len(header.AllowedRoles) > 0
	totals := make([]*uint256.Int, len(classes))
	for i := range totals {
		totals[i] = uint256.NewInt(0)
	}

	return &GovProposal{
		GovProposalHeader: header,
		Classes:           ctrlertypes.CloneClasses(classes),
		Options:           NewVoteOptions(len(classes), batches, optCnt),
		ClassTotals:       totals,
		Voters:            make(map[string]bool),
	}
}

func (prop *GovProposal) Key() ledger.LedgerKey {
	prop.mtx.RLock()
	defer prop.mtx.RUnlock()

	return ledger.Uint64ToLedgerKey(prop.ID)
}

func (prop *GovProposal) Encode() ([]byte, xerrors.XError) {
	prop.mtx.RLock()
	defer prop.mtx.RUnlock()

	if bz, err := json.Marshal(prop); err != nil {
		return bz, xerrors.From(err)
	} else {
		return bz, nil
	}
}

func (prop *GovProposal) Decode(bz []byte) xerrors.XError {
	prop.mtx.Lock()
	defer prop.mtx.Unlock()

	if err := json.Unmarshal(bz, prop); err != nil {
		return xerrors.From(err)
	}
	return nil
}

var _ ledger.ILedgerItem = (*GovProposal)(nil)

func (prop *GovProposal) ClassCount() int {
	return len(prop.Classes)
}

func (prop *GovProposal) OptionCount() int {
	return len(prop.Options)
}

func (prop *GovProposal) ClassTotal(classIdx int) *uint256.Int {
	prop.mtx.RLock()
	defer prop.mtx.RUnlock()

	return prop.ClassTotals[classIdx].Clone()
}

func (prop *GovProposal) IsVoter(addr types.Address) bool {
	prop.mtx.RLock()
	defer prop.mtx.RUnlock()

	return prop.Voters[addr.String()]
}

func (prop *GovProposal) VoterCount() int {
	prop.mtx.RLock()
	defer prop.mtx.RUnlock()

	return len(prop.Voters)
}

// ReferencedRoles lists, without duplicates, every role the proposal gate
// or any snapshotted class refers to.
func (prop *GovProposal) ReferencedRoles() []ctrlertypes.RoleID {
	prop.mtx.RLock()
	defer prop.mtx.RUnlock()

	seen := make(map[ctrlertypes.RoleID]bool)
	var roles []ctrlertypes.RoleID
	add := func(rs []ctrlertypes.RoleID) {
		for _, r := range rs {
			if !seen[r] {
				seen[r] = true
				roles = append(roles, r)
			}
		}
	}
	add(prop.AllowedRoles)
	for _, c := range prop.Classes {
		add(c.GatingRoles)
	}
	return roles
}

// DoVote adds powers (one per class) to the class totals and splits them over
// the options in indices by weights. indices and weights must already be
// validated. Nothing changes unless every sum fits in 128 bits.
func (prop *GovProposal) DoVote(addr types.Address, powers []*uint256.Int, indices, weights []uint32) xerrors.XError {
	prop.mtx.Lock()
	defer prop.mtx.Unlock()

	if prop.Voters[addr.String()] {
		return xerrors.ErrAlreadyVoted
	}
	if len(powers) != len(prop.Classes) {
		return xerrors.NewOrdinary("power count does not match class count")
	}

	newTotals := make([]*uint256.Int, len(powers))
	for c, p := range powers {
		sum, overflow := new(uint256.Int).AddOverflow(prop.ClassTotals[c], p)
		if overflow || !ctrlertypes.IsUint128(sum) {
			return xerrors.ErrOverflow.Wrapf("class %d total", c)
		}
		newTotals[c] = sum
	}

	hundred := uint256.NewInt(ctrlertypes.FullSlicePct)
	newRaws := make([][]*uint256.Int, len(indices))
	for i, idx := range indices {
		opt := prop.Options[idx]
		newRaws[i] = make([]*uint256.Int, len(powers))
		for c, p := range powers {
			if p.IsZero() {
				continue
			}
			delta, overflow := new(uint256.Int).MulOverflow(p, uint256.NewInt(uint64(weights[i])))
			if overflow {
				return xerrors.ErrOverflow.Wrapf("option %d class %d delta", idx, c)
			}
			delta.Div(delta, hundred)

			sum, overflow := new(uint256.Int).AddOverflow(opt.classRaw[c], delta)
			if overflow || !ctrlertypes.IsUint128(sum) {
				return xerrors.ErrOverflow.Wrapf("option %d class %d raw", idx, c)
			}
			newRaws[i][c] = sum
		}
	}

	prop.ClassTotals = newTotals
	for i, idx := range indices {
		for c, v := range newRaws[i] {
			if v != nil {
				prop.Options[idx].classRaw[c] = v
			}
		}
	}
	prop.Voters[addr.String()] = true
	return nil
}

func (prop *GovProposal) MarshalJSON() ([]byte, error) {
	_tmp := &struct {
		Header      *GovProposalHeader   `json:"header"`
		Classes     []*ctrlertypes.Class `json:"classes"`
		Options     []*VoteOption        `json:"options"`
		ClassTotals []string             `json:"classTotals"`
		Voters      map[string]bool      `json:"voters"`
		Executed    bool                 `json:"executed"`
		Result      *VoteResult          `json:"result,omitempty"`
	}{
		Header:      &prop.GovProposalHeader,
		Classes:     prop.Classes,
		Options:     prop.Options,
		ClassTotals: uint256sToStrings(prop.ClassTotals),
		Voters:      prop.Voters,
		Executed:    prop.Executed,
		Result:      prop.Result,
	}
	return json.Marshal(_tmp)
}

func (prop *GovProposal) UnmarshalJSON(bz []byte) error {
	_tmp := &struct {
		Header      *GovProposalHeader   `json:"header"`
		Classes     []*ctrlertypes.Class `json:"classes"`
		Options     []*VoteOption        `json:"options"`
		ClassTotals []string             `json:"classTotals"`
		Voters      map[string]bool      `json:"voters"`
		Executed    bool                 `json:"executed"`
		Result      *VoteResult          `json:"result,omitempty"`
	}{}
	if err := json.Unmarshal(bz, _tmp); err != nil {
		return err
	}
	totals, err := stringsToUint256s(_tmp.ClassTotals)
	if err != nil {
		return err
	}
	if _tmp.Header != nil {
		prop.GovProposalHeader = *_tmp.Header
	}
	if _tmp.Voters == nil {
		_tmp.Voters = make(map[string]bool)
	}
	prop.Classes = _tmp.Classes
	prop.Options = _tmp.Options
	prop.ClassTotals = totals
	prop.Voters = _tmp.Voters
	prop.Executed = _tmp.Executed
	prop.Result = _tmp.Result
	return nil
}
