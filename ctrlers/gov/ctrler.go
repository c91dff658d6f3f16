package gov

import (
	"fmt"
	cfg "github.com/coopgov/coopgov-go/cmd/config"
	"github.com/coopgov/coopgov-go/ctrlers/gov/proposal"
	ctrlertypes "github.com/coopgov/coopgov-go/ctrlers/types"
	"github.com/coopgov/coopgov-go/ledger"
	"github.com/coopgov/coopgov-go/types/crypto"
	"github.com/coopgov/coopgov-go/types/xerrors"
	"github.com/prometheus/client_golang/prometheus"
	abcitypes "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
)

// ProposalRequest describes a proposal to create. Batches is either empty
// or holds one (possibly empty) call list per option. A non-empty
// AllowedRoles restricts voting to members wearing one of them.
type ProposalRequest struct {
	Title           string
	DescriptionRef  string
	DurationMinutes uint64
	OptionCount     int
	Batches         [][]*ctrlertypes.Call
	AllowedRoles    []ctrlertypes.RoleID
}

// GovCtrler is not safe for concurrent use. Callers must serialize
// operations externally: one entered while another is in flight, from any
// goroutine, fails with ErrReentrantCall instead of waiting.
type GovCtrler struct {
	params *ctrlertypes.GovParams

	registryLedger ledger.ILedger[*ClassRegistry]
	proposalLedger ledger.ILedger[*proposal.GovProposal]
	stateLedger    ledger.ILedger[*GovState]

	roleOracle    ctrlertypes.IRoleOracle
	balanceOracle ctrlertypes.IBalanceOracle
	sink          ctrlertypes.IExecutionSink

	lastHash    []byte
	lastVersion int64

	metrics  *govMetrics
	inFlight atomic.Bool
	logger   log.Logger
	mtx      sync.Mutex
}

func NewGovCtrler(config *cfg.Config, roles ctrlertypes.IRoleOracle, balances ctrlertypes.IBalanceOracle, sink ctrlertypes.IExecutionSink, reg prometheus.Registerer, logger log.Logger) (*GovCtrler, error) {
	if xerr := config.Gov.Validate(); xerr != nil {
		return nil, xerr
	}

	newRegistryProvider := func() *ClassRegistry { return &ClassRegistry{} }
	newProposalProvider := func() *proposal.GovProposal { return &proposal.GovProposal{} }
	newStateProvider := func() *GovState { return &GovState{} }

	registryLedger, xerr := ledger.NewSimpleLedger[*ClassRegistry]("class_registry", config.DBBackend, config.DBDir(), config.CacheSize, newRegistryProvider)
	if xerr != nil {
		return nil, xerr
	}
	proposalLedger, xerr := ledger.NewSimpleLedger[*proposal.GovProposal]("proposal", config.DBBackend, config.DBDir(), config.CacheSize, newProposalProvider)
	if xerr != nil {
		_ = registryLedger.Close()
		return nil, xerr
	}
	stateLedger, xerr := ledger.NewSimpleLedger[*GovState]("gov_state", config.DBBackend, config.DBDir(), config.CacheSize, newStateProvider)
	if xerr != nil {
		_ = registryLedger.Close()
		_ = proposalLedger.Close()
		return nil, xerr
	}
	// the three ledgers are committed one after another; a crash between
	// them leaves versions apart and the store is refused.
	if v0, v1, v2 := registryLedger.Version(), proposalLedger.Version(), stateLedger.Version(); v0 != v1 || v1 != v2 {
		_ = registryLedger.Close()
		_ = proposalLedger.Close()
		_ = stateLedger.Close()
		return nil, xerrors.ErrCommit.Wrapf("ledger versions differ - registry:%v, proposal:%v, state:%v", v0, v1, v2)
	}

	ctrler := &GovCtrler{
		params:         config.Gov,
		registryLedger: registryLedger,
		proposalLedger: proposalLedger,
		stateLedger:    stateLedger,
		roleOracle:     roles,
		balanceOracle:  balances,
		sink:           sink,
		lastVersion:    registryLedger.Version(),
		metrics:        newGovMetrics(reg),
		logger:         logger.With("module", "coopgov_GovCtrler"),
	}
	if cur, xerr := registryLedger.Read(registryKey); xerr == nil {
		ctrler.metrics.registryVersion.Set(float64(cur.Version))
	}
	return ctrler, nil
}

// execute runs op as one atomic step: its staged writes are committed
// when it succeeds and discarded when it fails. Events reach ctx only on success.
func (ctrler *GovCtrler) execute(ctx *ctrlertypes.TrxContext, name string, op func() ([]abcitypes.Event, xerrors.XError)) xerrors.XError {
	// Checked before locking, so a call made from inside an oracle or the
	// execution sink fails instead of deadlocking.
	if !ctrler.inFlight.CompareAndSwap(false, true) {
		return xerrors.ErrReentrantCall
	}
	defer ctrler.inFlight.Store(false)

	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	evts, xerr := op()
	if xerr != nil {
		ctrler.rollback()
		ctrler.metrics.rejected.WithLabelValues(name).Inc()
		ctrler.logger.Debug("Operation rejected", "op", name, "sender", ctx.Sender, "error", xerr)
		return xerr
	}

	if _, _, xerr := ctrler.commit(); xerr != nil {
		ctrler.rollback()
		ctrler.logger.Error("Commit failed", "op", name, "error", xerr)
		return xerrors.ErrCommit.Wrap(xerr)
	}

	ctx.Events = append(ctx.Events, evts...)
	return nil
}

func (ctrler *GovCtrler) rollback() {
	ctrler.registryLedger.Rollback()
	ctrler.proposalLedger.Rollback()
	ctrler.stateLedger.Rollback()
}

func (ctrler *GovCtrler) commit() ([]byte, int64, xerrors.XError) {
	h0, v0, xerr := ctrler.registryLedger.Commit()
	if xerr != nil {
		return nil, -1, xerr
	}
	h1, v1, xerr := ctrler.proposalLedger.Commit()
	if xerr != nil {
		return nil, -1, xerr
	}
	h2, v2, xerr := ctrler.stateLedger.Commit()
	if xerr != nil {
		return nil, -1, xerr
	}

	if v0 != v1 || v1 != v2 {
		return nil, -1, xerrors.ErrCommit.Wrapf("error: GovCtrler.commit() has wrong version number - v0:%v, v1:%v, v2:%v", v0, v1, v2)
	}

	ctrler.lastHash = crypto.DefaultHash(h0, h1, h2)
	ctrler.lastVersion = v0
	return ctrler.lastHash, v0, nil
}

// Hash and Version identify the state left by the last successful operation.
func (ctrler *GovCtrler) Hash() []byte {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	return ctrler.lastHash
}

func (ctrler *GovCtrler) Version() int64 {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	return ctrler.lastVersion
}

func (ctrler *GovCtrler) CreateProposal(ctx *ctrlertypes.TrxContext, req *ProposalRequest) (uint64, xerrors.XError) {
	var prop *proposal.GovProposal
	xerr := ctrler.execute(ctx, "CreateProposal", func() ([]abcitypes.Event, xerrors.XError) {
		if xerr := ctrler.validateRequest(req); xerr != nil {
			return nil, xerr
		}

		reg, xerr := ctrler.registryLedger.Get(registryKey)
		if xerr == xerrors.ErrNotFoundResult {
			return nil, xerrors.ErrInvalidClassCount.Wrapf("no class set")
		} else if xerr != nil {
			return nil, xerr
		}

		st, xerr := ctrler.getState()
		if xerr != nil {
			return nil, xerr
		}
		st.LastProposalID++

		prop = proposal.NewGovProposal(proposal.GovProposalHeader{
			ID:              st.LastProposalID,
			Title:           req.Title,
			DescriptionRef:  req.DescriptionRef,
			Proposer:        ctx.Sender,
			CreatedAt:       ctx.BlockTime,
			Deadline:        ctx.BlockTime + int64(req.DurationMinutes)*60,
			AllowedRoles:    append([]ctrlertypes.RoleID(nil), req.AllowedRoles...),
			RegistryVersion: reg.Version,
		}, reg.Classes, req.OptionCount, req.Batches)

		if xerr := ctrler.stateLedger.Set(st); xerr != nil {
			return nil, xerr
		}
		if xerr := ctrler.proposalLedger.Set(prop); xerr != nil {
			return nil, xerr
		}

		return []abcitypes.Event{
			{
				Type: "proposal",
				Attributes: []abcitypes.EventAttribute{
					{Key: []byte(prop.CreationEvent()), Value: []byte(strconv.FormatUint(prop.ID, 10)), Index: true},
					{Key: []byte("proposer"), Value: []byte(ctx.Sender.String()), Index: true},
					{Key: []byte("deadline"), Value: []byte(strconv.FormatInt(prop.Deadline, 10)), Index: false},
					{Key: []byte("options"), Value: []byte(strconv.Itoa(prop.OptionCount())), Index: false},
				},
			},
		}, nil
	})
	if xerr != nil {
		return 0, xerr
	}

	ctrler.metrics.proposals.Inc()
	ctrler.logger.Info("Proposal created", "id", prop.ID, "proposer", ctx.Sender, "deadline", prop.Deadline, "restricted", prop.Restricted)
	return prop.ID, nil
}

func (ctrler *GovCtrler) validateRequest(req *ProposalRequest) xerrors.XError {
	params := ctrler.params

	if len(req.Title) == 0 || len(req.Title) > params.MaxTitleLength {
		return xerrors.ErrInvalidTitle.Wrapf("title length: %d", len(req.Title))
	}
	if req.DurationMinutes < params.MinDurationMinutes || req.DurationMinutes > params.MaxDurationMinutes {
		return xerrors.ErrInvalidDuration.Wrapf("duration: %d minutes", req.DurationMinutes)
	}
	if req.OptionCount < 1 || req.OptionCount > params.MaxOptions {
		return xerrors.ErrInvalidOptionCount.Wrapf("options: %d", req.OptionCount)
	}
	if len(req.Batches) != 0 && len(req.Batches) != req.OptionCount {
		return xerrors.ErrBatchLengthMismatch.Wrapf("batches: %d, options: %d", len(req.Batches), req.OptionCount)
	}
	for i, batch := range req.Batches {
		if len(batch) > params.MaxCallsPerBatch {
			return xerrors.ErrTooManyCalls.Wrapf("option %d has %d calls", i, len(batch))
		}
		for _, call := range batch {
			if call == nil {
				return xerrors.ErrInvalidParams.Wrapf("option %d has an empty call", i)
			}
			if params.IsEngine(call.Target) {
				return xerrors.ErrSelfCall.Wrapf("option %d", i)
			}
		}
	}
	if len(req.AllowedRoles) > params.MaxGatingRolesPerProposal {
		return xerrors.ErrTooManyGatingRoles.Wrapf("proposal has %d roles, max %d", len(req.AllowedRoles), params.MaxGatingRolesPerProposal)
	}
	return nil
}

// Vote casts the sender's ballot: weights[i] percent of the sender's power
// in every class goes to option indices[i].
func (ctrler *GovCtrler) Vote(ctx *ctrlertypes.TrxContext, proposalID uint64, indices, weights []uint32) xerrors.XError {
	var powers []string
	xerr := ctrler.execute(ctx, "Vote", func() ([]abcitypes.Event, xerrors.XError) {
		prop, xerr := ctrler.getProposal(proposalID)
		if xerr != nil {
			return nil, xerr
		}
		if prop.IsExpired(ctx.BlockTime) {
			return nil, xerrors.ErrVotingExpired
		}

		worn, xerr := wornRoles(ctrler.roleOracle, ctx.Sender, prop)
		if xerr != nil {
			return nil, xerr
		}
		if prop.IsRestricted() && !worn.wearsAny(prop.AllowedRoles) {
			return nil, xerrors.ErrRoleNotAllowed
		}
		if prop.IsVoter(ctx.Sender) {
			return nil, xerrors.ErrAlreadyVoted
		}
		if xerr := ValidateWeights(indices, weights, prop.OptionCount()); xerr != nil {
			return nil, xerr
		}

		rawPowers, xerr := votingPowers(prop, ctx.Sender, worn, ctrler.params.IsExecutor(ctx.Sender), ctrler.balanceOracle)
		if xerr != nil {
			return nil, xerr
		}
		if xerr := prop.DoVote(ctx.Sender, rawPowers, indices, weights); xerr != nil {
			return nil, xerr
		}
		if xerr := ctrler.proposalLedger.Set(prop); xerr != nil {
			return nil, xerr
		}

		powers = make([]string, len(rawPowers))
		for i, p := range rawPowers {
			powers[i] = p.Dec()
		}
		return []abcitypes.Event{
			{
				Type: "vote",
				Attributes: []abcitypes.EventAttribute{
					{Key: []byte("proposal"), Value: []byte(strconv.FormatUint(proposalID, 10)), Index: true},
					{Key: []byte("voter"), Value: []byte(ctx.Sender.String()), Index: true},
					{Key: []byte("powers"), Value: []byte(strings.Join(powers, ",")), Index: false},
				},
			},
		}, nil
	})
	if xerr != nil {
		return xerr
	}

	ctrler.metrics.votes.Inc()
	ctrler.logger.Debug("Vote cast", "proposal", proposalID, "voter", ctx.Sender, "powers", strings.Join(powers, ","))
	return nil
}

// AnnounceWinner resolves a closed proposal once. When the result is valid
// and the winning option carries calls, they are handed to the execution
// sink; if the sink fails nothing is recorded and the call may be retried.
func (ctrler *GovCtrler) AnnounceWinner(ctx *ctrlertypes.TrxContext, proposalID uint64) (uint32, bool, xerrors.XError) {
	var result *proposal.VoteResult
	var executed bool
	xerr := ctrler.execute(ctx, "AnnounceWinner", func() ([]abcitypes.Event, xerrors.XError) {
		prop, xerr := ctrler.getProposal(proposalID)
		if xerr != nil {
			return nil, xerr
		}
		if prop.IsExecuted() {
			return nil, xerrors.ErrAlreadyExecuted
		}
		if !prop.IsExpired(ctx.BlockTime) {
			return nil, xerrors.ErrVotingActive
		}

		winner, valid, scores := prop.Resolve(ctrler.params.QuorumPct)
		result = &proposal.VoteResult{
			Winner: winner,
			Valid:  valid,
			Scores: scores,
			Height: ctx.Height,
		}
		if xerr := prop.Finalize(result); xerr != nil {
			return nil, xerr
		}
		if xerr := ctrler.proposalLedger.Set(prop); xerr != nil {
			return nil, xerr
		}

		evts := []abcitypes.Event{
			{
				Type: "result",
				Attributes: []abcitypes.EventAttribute{
					{Key: []byte("proposal"), Value: []byte(strconv.FormatUint(proposalID, 10)), Index: true},
					{Key: []byte("winner"), Value: []byte(strconv.FormatUint(uint64(winner), 10)), Index: false},
					{Key: []byte("valid"), Value: []byte(strconv.FormatBool(valid)), Index: false},
					{Key: []byte("scores"), Value: []byte(joinScores(scores)), Index: false},
				},
			},
		}

		batch := prop.WinningBatch(winner)
		if !valid || len(batch) == 0 {
			return evts, nil
		}
		if ctrler.sink == nil {
			return nil, xerrors.ErrExecutionFailed.Wrapf("no execution sink")
		}
		if err := ctrler.sink.Execute(proposalID, batch); err != nil {
			ctrler.metrics.executionFailures.Inc()
			ctrler.logger.Error("Execution failed", "proposal", proposalID, "winner", winner, "error", err)
			return nil, xerrors.ErrExecutionFailed.Wrap(err)
		}
		executed = true

		return append(evts, abcitypes.Event{
			Type: "executed",
			Attributes: []abcitypes.EventAttribute{
				{Key: []byte("proposal"), Value: []byte(strconv.FormatUint(proposalID, 10)), Index: true},
				{Key: []byte("calls"), Value: []byte(strconv.Itoa(len(batch))), Index: false},
			},
		}), nil
	})
	if xerr != nil {
		return 0, false, xerr
	}

	ctrler.metrics.results.WithLabelValues(strconv.FormatBool(result.Valid)).Inc()
	ctrler.logger.Info("Winner announced", "proposal", proposalID, "winner", result.Winner, "valid", result.Valid, "executed", executed)
	return result.Winner, result.Valid, nil
}

func (ctrler *GovCtrler) getProposal(id uint64) (*proposal.GovProposal, xerrors.XError) {
	prop, xerr := ctrler.proposalLedger.Get(ledger.Uint64ToLedgerKey(id))
	if xerr == xerrors.ErrNotFoundResult {
		return nil, xerrors.ErrNotFoundProposal.Wrapf("id: %d", id)
	} else if xerr != nil {
		return nil, xerr
	}
	return prop, nil
}

func joinScores(scores []uint64) string {
	strs := make([]string, len(scores))
	for i, s := range scores {
		strs[i] = strconv.FormatUint(s, 10)
	}
	return strings.Join(strs, ",")
}

func (ctrler *GovCtrler) GetGovParams() ctrlertypes.GovParams {
	return *ctrler.params
}

func (ctrler *GovCtrler) Close() xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	if ctrler.registryLedger != nil {
		if xerr := ctrler.registryLedger.Close(); xerr != nil {
			ctrler.logger.Error("registryLedger.Close()", "error", xerr.Error())
		}
		ctrler.registryLedger = nil
	}
	if ctrler.proposalLedger != nil {
		if xerr := ctrler.proposalLedger.Close(); xerr != nil {
			ctrler.logger.Error("proposalLedger.Close()", "error", xerr.Error())
		}
		ctrler.proposalLedger = nil
	}
	if ctrler.stateLedger != nil {
		if xerr := ctrler.stateLedger.Close(); xerr != nil {
			ctrler.logger.Error("stateLedger.Close()", "error", xerr.Error())
		}
		ctrler.stateLedger = nil
	}
	return nil
}

func (ctrler *GovCtrler) String() string {
	return fmt.Sprintf("GovCtrler{version:%d, hash:%X}", ctrler.Version(), ctrler.Hash())
}
