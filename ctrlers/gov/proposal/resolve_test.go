package proposal

import (
	ctrlertypes "github.com/coopgov/coopgov-go/ctrlers/types"
	"github.com/coopgov/coopgov-go/types"
	"github.com/coopgov/coopgov-go/types/xerrors"
	"github.com/stretchr/testify/require"
	"testing"
)

type ballot struct {
	powers  []uint64
	indices []uint32
	weights []uint32
}

func TestResolve(t *testing.T) {
	cases := []struct {
		name    string
		classes []*ctrlertypes.Class
		optCnt  int
		ballots []ballot
		quorum  uint64
		winner  uint32
		valid   bool
		scores  []uint64
	}{
		{
			name:    "no votes",
			classes: []*ctrlertypes.Class{ctrlertypes.NewFixedClass(100)},
			optCnt:  2,
			quorum:  50,
			winner:  0,
			valid:   false,
			scores:  []uint64{0, 0},
		},
		{
			name:    "two against one",
			classes: []*ctrlertypes.Class{ctrlertypes.NewFixedClass(100)},
			optCnt:  2,
			ballots: []ballot{
				{[]uint64{100}, []uint32{0}, []uint32{100}},
				{[]uint64{100}, []uint32{0}, []uint32{100}},
				{[]uint64{100}, []uint32{1}, []uint32{100}},
			},
			quorum: 50,
			winner: 0,
			valid:  true,
			scores: []uint64{66, 33},
		},
		{
			name:    "tie at quorum",
			classes: []*ctrlertypes.Class{ctrlertypes.NewFixedClass(100)},
			optCnt:  2,
			ballots: []ballot{
				{[]uint64{100}, []uint32{0}, []uint32{100}},
				{[]uint64{100}, []uint32{1}, []uint32{100}},
			},
			quorum: 50,
			winner: 0,
			valid:  false,
			scores: []uint64{50, 50},
		},
		{
			name:    "later tie does not displace the leader",
			classes: []*ctrlertypes.Class{ctrlertypes.NewFixedClass(100)},
			optCnt:  3,
			ballots: []ballot{
				{[]uint64{100}, []uint32{0, 1}, []uint32{80, 20}},
				{[]uint64{100}, []uint32{2, 1}, []uint32{80, 20}},
			},
			quorum: 10,
			winner: 0,
			valid:  false,
			scores: []uint64{40, 20, 40},
		},
		{
			name:    "below quorum",
			classes: []*ctrlertypes.Class{ctrlertypes.NewFixedClass(100)},
			optCnt:  3,
			ballots: []ballot{
				{[]uint64{100}, []uint32{0, 1, 2}, []uint32{40, 30, 30}},
			},
			quorum: 50,
			winner: 0,
			valid:  false,
			scores: []uint64{40, 30, 30},
		},
		{
			name: "classes weigh by slice not by head count",
			classes: []*ctrlertypes.Class{
				ctrlertypes.NewFixedClass(30),
				ctrlertypes.NewBalanceClass(70, types.RandAddress(), nil, false),
			},
			optCnt: 2,
			ballots: []ballot{
				{[]uint64{100, 0}, []uint32{0}, []uint32{100}},
				{[]uint64{100, 0}, []uint32{0}, []uint32{100}},
				{[]uint64{100, 500}, []uint32{1}, []uint32{100}},
			},
			quorum: 50,
			winner: 1,
			valid:  true,
			scores: []uint64{20, 80},
		},
		{
			name: "class without votes is skipped",
			classes: []*ctrlertypes.Class{
				ctrlertypes.NewFixedClass(60),
				ctrlertypes.NewFixedClass(40),
			},
			optCnt: 2,
			ballots: []ballot{
				{[]uint64{100, 0}, []uint32{1}, []uint32{100}},
			},
			quorum: 50,
			winner: 1,
			valid:  true,
			scores: []uint64{0, 60},
		},
	}

	for _, c := range cases {
		prop := newTestProposal(c.optCnt, c.classes...)
		for _, b := range c.ballots {
			require.NoError(t, prop.DoVote(types.RandAddress(), powers(b.powers...), b.indices, b.weights), c.name)
		}
		winner, valid, scores := prop.Resolve(c.quorum)
		require.Equal(t, c.winner, winner, c.name)
		require.Equal(t, c.valid, valid, c.name)
		require.Equal(t, c.scores, scores, c.name)
	}
}

func TestFinalize(t *testing.T) {
	prop := newTestProposal(2, ctrlertypes.NewFixedClass(100))
	require.False(t, prop.IsExecuted())

	result := &VoteResult{Winner: 1, Valid: true, Scores: []uint64{0, 100}}
	require.NoError(t, prop.Finalize(result))
	require.True(t, prop.IsExecuted())
	require.Equal(t, result, prop.Result)

	require.ErrorIs(t, prop.Finalize(&VoteResult{}), xerrors.ErrAlreadyExecuted)
	require.Equal(t, result, prop.Result)
}
