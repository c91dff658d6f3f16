package gov

import (
	"encoding/json"
	"github.com/coopgov/coopgov-go/ctrlers/gov/proposal"
	ctrlertypes "github.com/coopgov/coopgov-go/ctrlers/types"
	"github.com/coopgov/coopgov-go/types"
	"github.com/coopgov/coopgov-go/types/xerrors"
	"github.com/holiman/uint256"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestQueryBeforeClasses(t *testing.T) {
	env := newTestEnv(t, nil)

	_, xerr := env.ctrler.Query(types.NewQueryData(types.QUERY_CLASSES, nil))
	require.ErrorIs(t, xerr, xerrors.ErrInvalidClassCount)

	bz, xerr := env.ctrler.Query(types.NewQueryData(types.QUERY_PROPOSALS, nil))
	require.NoError(t, xerr)
	require.Equal(t, "null", string(bz))

	_, xerr = env.ctrler.Query(types.NewQueryData(types.QUERY_PROPOSAL, types.Uint64Params(1)))
	require.ErrorIs(t, xerr, xerrors.ErrNotFoundProposal)
}

func TestQuery(t *testing.T) {
	env := newTestEnv(t, nil)
	env.initClasses(t, ctrlertypes.NewFixedClass(30), ctrlertypes.NewBalanceClass(70, asset0, nil, false))
	id0 := env.propose(t, simpleRequest(2))
	id1 := env.propose(t, simpleRequest(3))

	voter := types.RandAddress()
	env.balances.set(asset0, voter, uint256.NewInt(5))
	require.NoError(t, env.ctrler.Vote(newCtx(voter, votingTime), id0, []uint32{1}, []uint32{100}))

	// classes
	bz, xerr := env.ctrler.Query(types.NewQueryData(types.QUERY_CLASSES, nil))
	require.NoError(t, xerr)
	reg := &ClassRegistry{}
	require.NoError(t, json.Unmarshal(bz, reg))
	require.Equal(t, int64(1), reg.Version)
	require.Len(t, reg.Classes, 2)
	require.Equal(t, ctrlertypes.STRATEGY_BALANCE_WEIGHTED, reg.Classes[1].Strategy)
	require.Equal(t, asset0, reg.Classes[1].Asset)

	// single proposal
	bz, xerr = env.ctrler.Query(types.NewQueryData(types.QUERY_PROPOSAL, types.Uint64Params(id0)))
	require.NoError(t, xerr)
	prop := &proposal.GovProposal{}
	require.NoError(t, json.Unmarshal(bz, prop))
	require.Equal(t, id0, prop.ID)
	require.True(t, prop.IsVoter(voter))
	require.Equal(t, uint64(500), prop.ClassTotal(1).Uint64())

	// all proposals in id order
	bz, xerr = env.ctrler.Query(types.NewQueryData(types.QUERY_PROPOSALS, nil))
	require.NoError(t, xerr)
	var props []*proposal.GovProposal
	require.NoError(t, json.Unmarshal(bz, &props))
	require.Len(t, props, 2)
	require.Equal(t, id0, props[0].ID)
	require.Equal(t, id1, props[1].ID)
	require.Equal(t, 3, props[1].OptionCount())

	// result preview before the deadline
	bz, xerr = env.ctrler.Query(types.NewQueryData(types.QUERY_RESULT, types.Uint64Params(id0)))
	require.NoError(t, xerr)
	res := &ProposalResult{}
	require.NoError(t, json.Unmarshal(bz, res))
	require.Equal(t, &ProposalResult{ID: id0, Winner: 1, Valid: true, Scores: []uint64{0, 100}, Voters: 1}, res)

	// result after announcement
	_, _, xerr = env.ctrler.AnnounceWinner(newCtx(voter, closingTime), id0)
	require.NoError(t, xerr)
	bz, xerr = env.ctrler.Query(types.NewQueryData(types.QUERY_RESULT, types.Uint64Params(id0)))
	require.NoError(t, xerr)
	res = &ProposalResult{}
	require.NoError(t, json.Unmarshal(bz, res))
	require.True(t, res.Announced)
	require.Equal(t, uint32(1), res.Winner)

	// params
	bz, xerr = env.ctrler.Query(types.NewQueryData(types.QUERY_GOVPARAMS, nil))
	require.NoError(t, xerr)
	params := &ctrlertypes.GovParams{}
	require.NoError(t, json.Unmarshal(bz, params))
	require.Equal(t, ctrlertypes.DefaultGovParams().QuorumPct, params.QuorumPct)
	require.Equal(t, env.executor, params.Executor)

	// malformed queries
	_, xerr = env.ctrler.Query(types.NewQueryData(types.QUERY_PROPOSAL, []byte{1, 2}))
	require.ErrorIs(t, xerr, xerrors.ErrInvalidQueryParams)
	_, xerr = env.ctrler.Query(types.NewQueryData(types.QUERY_RESULT, types.Uint64Params(id1+1)))
	require.ErrorIs(t, xerr, xerrors.ErrNotFoundProposal)
	_, xerr = env.ctrler.Query(types.NewQueryData(99, nil))
	require.ErrorIs(t, xerr, xerrors.ErrInvalidQueryCmd)
}

func TestMetrics(t *testing.T) {
	env := newTestEnv(t, nil)
	env.initClasses(t, ctrlertypes.NewFixedClass(100))
	require.Equal(t, float64(1), testutil.ToFloat64(env.ctrler.metrics.registryVersion))

	id := env.propose(t, simpleRequest(2))
	voter := types.RandAddress()
	require.NoError(t, env.ctrler.Vote(newCtx(voter, votingTime), id, []uint32{0}, []uint32{100}))
	require.ErrorIs(t, env.ctrler.Vote(newCtx(voter, votingTime), id, []uint32{0}, []uint32{100}), xerrors.ErrAlreadyVoted)
	_, _, xerr := env.ctrler.AnnounceWinner(newCtx(voter, closingTime), id)
	require.NoError(t, xerr)

	require.Equal(t, float64(1), testutil.ToFloat64(env.ctrler.metrics.proposals))
	require.Equal(t, float64(1), testutil.ToFloat64(env.ctrler.metrics.votes))
	require.Equal(t, float64(1), testutil.ToFloat64(env.ctrler.metrics.rejected.WithLabelValues("Vote")))
	require.Equal(t, float64(1), testutil.ToFloat64(env.ctrler.metrics.results.WithLabelValues("true")))
	require.Equal(t, float64(0), testutil.ToFloat64(env.ctrler.metrics.executionFailures))

	cnt, err := testutil.GatherAndCount(env.registry, "coopgov_votes_total", "coopgov_proposals_created_total")
	require.NoError(t, err)
	require.Equal(t, 2, cnt)
}
