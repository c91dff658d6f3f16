package proposal

import (
	ctrlertypes "github.com/coopgov/coopgov-go/ctrlers/types"
	"github.com/coopgov/coopgov-go/ledger"
	"github.com/coopgov/coopgov-go/types"
	"github.com/coopgov/coopgov-go/types/xerrors"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
	"testing"
)

func powers(vals ...uint64) []*uint256.Int {
	ret := make([]*uint256.Int, len(vals))
	for i, v := range vals {
		ret[i] = uint256.NewInt(v)
	}
	return ret
}

func newTestProposal(optCnt int, classes ...*ctrlertypes.Class) *GovProposal {
	return NewGovProposal(GovProposalHeader{
		ID:       1,
		Title:    "test proposal",
		Proposer: types.RandAddress(),
		Deadline: 1000,
	}, classes, optCnt, nil)
}

func TestNewGovProposal(t *testing.T) {
	classes := []*ctrlertypes.Class{
		ctrlertypes.NewFixedClass(60, 1),
		ctrlertypes.NewBalanceClass(40, types.RandAddress(), uint256.NewInt(10), true),
	}
	batches := [][]*ctrlertypes.Call{
		{ctrlertypes.NewCall(types.RandAddress(), uint256.NewInt(1), []byte{0x01})},
		nil,
	}
	prop := NewGovProposal(GovProposalHeader{ID: 7, AllowedRoles: []ctrlertypes.RoleID{3}}, classes, 2, batches)

	require.True(t, prop.IsRestricted())
	require.Equal(t, EVENT_CREATED_GATED, prop.CreationEvent())
	require.Equal(t, 2, prop.ClassCount())
	require.Equal(t, 2, prop.OptionCount())
	require.Equal(t, ledger.Uint64ToLedgerKey(7), prop.Key())
	require.Len(t, prop.WinningBatch(0), 1)
	require.Len(t, prop.WinningBatch(1), 0)
	require.Nil(t, prop.WinningBatch(2))
	require.Equal(t, []ctrlertypes.RoleID{3, 1}, prop.ReferencedRoles())

	// the snapshot is detached from the caller's classes
	classes[0].SlicePct = 10
	classes[0].GatingRoles[0] = 99
	require.Equal(t, uint8(60), prop.Classes[0].SlicePct)
	require.Equal(t, ctrlertypes.RoleID(1), prop.Classes[0].GatingRoles[0])
}

func TestEncodeDecode(t *testing.T) {
	prop := newTestProposal(3,
		ctrlertypes.NewFixedClass(50),
		ctrlertypes.NewBalanceClass(50, types.RandAddress(), uint256.NewInt(5), false, 2, 4))
	voter := types.RandAddress()
	require.NoError(t, prop.DoVote(voter, powers(100, 12345), []uint32{0, 2}, []uint32{30, 70}))
	require.NoError(t, prop.Finalize(&VoteResult{Winner: 2, Valid: true, Scores: prop.Scores(), Height: 3}))

	bz, xerr := prop.Encode()
	require.NoError(t, xerr)

	decoded := &GovProposal{}
	require.NoError(t, decoded.Decode(bz))
	require.Equal(t, prop.GovProposalHeader, decoded.GovProposalHeader)
	require.Equal(t, prop.Classes, decoded.Classes)
	require.Equal(t, prop.ClassTotals, decoded.ClassTotals)
	require.Equal(t, prop.Options[0].ClassRaws(), decoded.Options[0].ClassRaws())
	require.Equal(t, prop.Options[2].ClassRaws(), decoded.Options[2].ClassRaws())
	require.True(t, decoded.IsVoter(voter))
	require.True(t, decoded.IsExecuted())
	require.Equal(t, prop.Result, decoded.Result)

	bz2, xerr := decoded.Encode()
	require.NoError(t, xerr)
	require.Equal(t, bz, bz2)
}

func TestDoVote(t *testing.T) {
	prop := newTestProposal(3, ctrlertypes.NewFixedClass(70), ctrlertypes.NewFixedClass(30))

	v0, v1 := types.RandAddress(), types.RandAddress()
	require.NoError(t, prop.DoVote(v0, powers(100, 0), []uint32{1}, []uint32{100}))
	require.NoError(t, prop.DoVote(v1, powers(100, 100), []uint32{0, 1}, []uint32{40, 60}))

	require.Equal(t, uint256.NewInt(200), prop.ClassTotal(0))
	require.Equal(t, uint256.NewInt(100), prop.ClassTotal(1))
	require.Equal(t, powers(40, 40), prop.Options[0].ClassRaws())
	require.Equal(t, powers(160, 60), prop.Options[1].ClassRaws())
	require.Equal(t, powers(0, 0), prop.Options[2].ClassRaws())
	require.Equal(t, 2, prop.VoterCount())

	require.ErrorIs(t, prop.DoVote(v0, powers(100, 0), []uint32{1}, []uint32{100}), xerrors.ErrAlreadyVoted)
	require.Error(t, prop.DoVote(types.RandAddress(), powers(100), []uint32{1}, []uint32{100}))
}

func TestDoVoteZeroPower(t *testing.T) {
	prop := newTestProposal(2, ctrlertypes.NewFixedClass(100))
	voter := types.RandAddress()

	// a voter without power is still recorded and cannot vote twice
	require.NoError(t, prop.DoVote(voter, powers(0), []uint32{0}, []uint32{100}))
	require.True(t, prop.IsVoter(voter))
	require.True(t, prop.ClassTotal(0).IsZero())
	require.ErrorIs(t, prop.DoVote(voter, powers(100), []uint32{0}, []uint32{100}), xerrors.ErrAlreadyVoted)
}

func TestDoVoteOverflow(t *testing.T) {
	prop := newTestProposal(2, ctrlertypes.NewFixedClass(50), ctrlertypes.NewFixedClass(50))

	big := ctrlertypes.MaxUint128.Clone()
	require.NoError(t, prop.DoVote(types.RandAddress(), []*uint256.Int{uint256.NewInt(1), big}, []uint32{0}, []uint32{100}))

	// the second class total would exceed 2^128-1
	voter := types.RandAddress()
	xerr := prop.DoVote(voter, powers(100, 1), []uint32{0}, []uint32{100})
	require.ErrorIs(t, xerr, xerrors.ErrOverflow)

	// nothing of the failed vote is applied
	require.False(t, prop.IsVoter(voter))
	require.Equal(t, uint256.NewInt(1), prop.ClassTotal(0))
	require.Equal(t, big, prop.ClassTotal(1))
	require.Equal(t, []*uint256.Int{uint256.NewInt(1), big}, prop.Options[0].ClassRaws())
}

func TestRoundingDrift(t *testing.T) {
	prop := newTestProposal(3, ctrlertypes.NewFixedClass(100))

	// 100 power split 33/33/34 loses nothing, 101 split the same way loses one unit
	require.NoError(t, prop.DoVote(types.RandAddress(), powers(101), []uint32{0, 1, 2}, []uint32{33, 33, 34}))

	sum := new(uint256.Int)
	for _, opt := range prop.Options {
		sum.Add(sum, opt.ClassRaw(0))
	}
	require.Equal(t, uint256.NewInt(101), prop.ClassTotal(0))
	require.Equal(t, uint256.NewInt(100), sum)
	require.True(t, sum.Cmp(prop.ClassTotal(0)) <= 0)
}
