package commands

import (
	"encoding/json"
	cfg "github.com/coopgov/coopgov-go/cmd/config"
	ctrlertypes "github.com/coopgov/coopgov-go/ctrlers/types"
	"github.com/coopgov/coopgov-go/types"
	"github.com/holiman/uint256"
	"github.com/tendermint/tendermint/libs/log"
	"strings"
)

// fixtureRoles answers role queries from the fixtures of the config file.
type fixtureRoles struct {
	roles map[string]map[ctrlertypes.RoleID]bool
}

func newFixtureRoles(fixtures *cfg.Fixtures) (*fixtureRoles, error) {
	ret := &fixtureRoles{roles: make(map[string]map[ctrlertypes.RoleID]bool)}
	for holder, roles := range fixtures.Roles {
		addr, xerr := types.HexToAddress(holder)
		if xerr != nil {
			return nil, xerr
		}
		set := make(map[ctrlertypes.RoleID]bool)
		for _, r := range roles {
			set[r] = true
		}
		ret.roles[addr.String()] = set
	}
	return ret, nil
}

func (f *fixtureRoles) WearsBatch(addr types.Address, roles []ctrlertypes.RoleID) ([]bool, error) {
	worn := f.roles[addr.String()]
	ret := make([]bool, len(roles))
	for i, r := range roles {
		ret[i] = worn[r]
	}
	return ret, nil
}

var _ ctrlertypes.IRoleOracle = (*fixtureRoles)(nil)

// fixtureBalances answers balance queries from the fixtures of the config file.
type fixtureBalances struct {
	balances map[string]*uint256.Int
}

func newFixtureBalances(fixtures *cfg.Fixtures) (*fixtureBalances, error) {
	ret := &fixtureBalances{balances: make(map[string]*uint256.Int)}
	for asset, holders := range fixtures.Balances {
		assetAddr, xerr := types.HexToAddress(asset)
		if xerr != nil {
			return nil, xerr
		}
		for holder, amt := range holders {
			holderAddr, xerr := types.HexToAddress(holder)
			if xerr != nil {
				return nil, xerr
			}
			bal, err := ctrlertypes.StringToUint256(amt)
			if err != nil {
				return nil, err
			}
			if bal == nil {
				bal = uint256.NewInt(0)
			}
			ret.balances[balanceKey(assetAddr, holderAddr)] = bal
		}
	}
	return ret, nil
}

func balanceKey(asset, holder types.Address) string {
	return strings.Join([]string{asset.String(), holder.String()}, "/")
}

func (f *fixtureBalances) BalanceOf(asset, holder types.Address) (*uint256.Int, error) {
	if bal, ok := f.balances[balanceKey(asset, holder)]; ok {
		return bal.Clone(), nil
	}
	return uint256.NewInt(0), nil
}

var _ ctrlertypes.IBalanceOracle = (*fixtureBalances)(nil)

// logSink reports winning batches instead of dispatching them.
type logSink struct {
	logger log.Logger
}

func (s *logSink) Execute(proposalID uint64, batch []*ctrlertypes.Call) error {
	bz, err := json.Marshal(batch)
	if err != nil {
		return err
	}
	s.logger.Info("Execute batch", "proposal", proposalID, "calls", len(batch), "batch", string(bz))
	return nil
}

var _ ctrlertypes.IExecutionSink = (*logSink)(nil)
