package gov

import (
	"errors"
	cfg "github.com/coopgov/coopgov-go/cmd/config"
	ctrlertypes "github.com/coopgov/coopgov-go/ctrlers/types"
	"github.com/coopgov/coopgov-go/types"
	"github.com/holiman/uint256"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	tmlog "github.com/tendermint/tendermint/libs/log"
	"testing"
)

var errMock = errors.New("mock failure")

type roleOracleMock struct {
	roles map[string][]ctrlertypes.RoleID
	calls int
	err   error
}

func newRoleOracleMock() *roleOracleMock {
	return &roleOracleMock{roles: make(map[string][]ctrlertypes.RoleID)}
}

func (m *roleOracleMock) grant(addr types.Address, roles ...ctrlertypes.RoleID) {
	m.roles[addr.String()] = append(m.roles[addr.String()], roles...)
}

func (m *roleOracleMock) WearsBatch(addr types.Address, roles []ctrlertypes.RoleID) ([]bool, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	ret := make([]bool, len(roles))
	for i, r := range roles {
		for _, w := range m.roles[addr.String()] {
			if w == r {
				ret[i] = true
			}
		}
	}
	return ret, nil
}

var _ ctrlertypes.IRoleOracle = (*roleOracleMock)(nil)

type balanceOracleMock struct {
	balances map[string]*uint256.Int
	err      error
}

func newBalanceOracleMock() *balanceOracleMock {
	return &balanceOracleMock{balances: make(map[string]*uint256.Int)}
}

func (m *balanceOracleMock) set(asset, holder types.Address, bal *uint256.Int) {
	m.balances[asset.String()+holder.String()] = bal
}

func (m *balanceOracleMock) BalanceOf(asset, holder types.Address) (*uint256.Int, error) {
	if m.err != nil {
		return nil, m.err
	}
	if bal, ok := m.balances[asset.String()+holder.String()]; ok {
		return bal.Clone(), nil
	}
	return uint256.NewInt(0), nil
}

var _ ctrlertypes.IBalanceOracle = (*balanceOracleMock)(nil)

type executed struct {
	id    uint64
	batch []*ctrlertypes.Call
}

type sinkMock struct {
	executed []executed
	err      error
	hook     func(id uint64) error
}

func (m *sinkMock) Execute(id uint64, batch []*ctrlertypes.Call) error {
	if m.hook != nil {
		if err := m.hook(id); err != nil {
			return err
		}
	}
	if m.err != nil {
		return m.err
	}
	m.executed = append(m.executed, executed{id: id, batch: batch})
	return nil
}

var _ ctrlertypes.IExecutionSink = (*sinkMock)(nil)

// testEnv is a controller on in-memory ledgers together with its mocks.
type testEnv struct {
	ctrler   *GovCtrler
	roles    *roleOracleMock
	balances *balanceOracleMock
	sink     *sinkMock
	registry *prometheus.Registry
	executor types.Address
	engine   types.Address
}

func newTestEnv(t *testing.T, params *ctrlertypes.GovParams) *testEnv {
	env := &testEnv{
		roles:    newRoleOracleMock(),
		balances: newBalanceOracleMock(),
		sink:     &sinkMock{},
		registry: prometheus.NewRegistry(),
		executor: types.RandAddress(),
		engine:   types.RandAddress(),
	}

	if params == nil {
		params = ctrlertypes.DefaultGovParams()
	}
	params.Executor = env.executor
	params.Engine = env.engine

	config := cfg.DefaultConfig()
	config.DBBackend = "memdb"
	config.Home = t.TempDir()
	config.CacheSize = 128
	config.Gov = params

	ctrler, err := NewGovCtrler(config, env.roles, env.balances, env.sink, env.registry, tmlog.NewNopLogger())
	require.NoError(t, err)
	t.Cleanup(func() { ctrler.Close() })

	env.ctrler = ctrler
	return env
}

func (env *testEnv) initClasses(t *testing.T, classes ...*ctrlertypes.Class) {
	require.NoError(t, env.ctrler.InitClasses(newCtx(env.executor, baseTime), classes))
}

func (env *testEnv) propose(t *testing.T, req *ProposalRequest) uint64 {
	id, xerr := env.ctrler.CreateProposal(newCtx(types.RandAddress(), baseTime), req)
	require.NoError(t, xerr)
	return id
}

const (
	baseTime    = int64(1_700_000_000)
	votingTime  = baseTime + 60
	closingTime = baseTime + 10*60 + 1
)

func newCtx(sender types.Address, btime int64) *ctrlertypes.TrxContext {
	return ctrlertypes.NewTrxContext(1, btime, sender)
}

func simpleRequest(optCnt int) *ProposalRequest {
	return &ProposalRequest{
		Title:           "test proposal",
		DescriptionRef:  "ipfs://description",
		DurationMinutes: 10,
		OptionCount:     optCnt,
	}
}

func eventTypes(ctx *ctrlertypes.TrxContext) []string {
	var ret []string
	for _, evt := range ctx.Events {
		ret = append(ret, evt.Type)
	}
	return ret
}

func eventAttr(ctx *ctrlertypes.TrxContext, typ, key string) string {
	for _, evt := range ctx.Events {
		if evt.Type != typ {
			continue
		}
		for _, attr := range evt.Attributes {
			if string(attr.Key) == key {
				return string(attr.Value)
			}
		}
	}
	return ""
}
