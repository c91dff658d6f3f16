package gov

import (
	"github.com/coopgov/coopgov-go/ctrlers/gov/proposal"
	ctrlertypes "github.com/coopgov/coopgov-go/ctrlers/types"
	"github.com/coopgov/coopgov-go/libs"
	"github.com/coopgov/coopgov-go/types"
	"github.com/coopgov/coopgov-go/types/xerrors"
	"github.com/holiman/uint256"
)

type roleSet map[ctrlertypes.RoleID]bool

func (rs roleSet) wearsAny(roles []ctrlertypes.RoleID) bool {
	for _, r := range roles {
		if rs[r] {
			return true
		}
	}
	return false
}

// wornRoles asks the role oracle, in a single call, which of the roles
// referenced by prop the voter wears.
func wornRoles(oracle ctrlertypes.IRoleOracle, voter types.Address, prop *proposal.GovProposal) (roleSet, xerrors.XError) {
	worn := make(roleSet)
	roles := prop.ReferencedRoles()
	if len(roles) == 0 {
		return worn, nil
	}
	if oracle == nil {
		return nil, xerrors.ErrOracle.Wrapf("no role oracle")
	}

	flags, err := oracle.WearsBatch(voter, roles)
	if err != nil {
		return nil, xerrors.ErrOracle.Wrap(err)
	}
	if len(flags) != len(roles) {
		return nil, xerrors.ErrOracle.Wrapf("%d answers for %d roles", len(flags), len(roles))
	}
	for i, r := range roles {
		if flags[i] {
			worn[r] = true
		}
	}
	return worn, nil
}

// classPower returns the raw power of voter in class. gatePassed tells
// whether the voter may use the class at all.
func classPower(class *ctrlertypes.Class, voter types.Address, gatePassed bool, balances ctrlertypes.IBalanceOracle) (*uint256.Int, xerrors.XError) {
	if !gatePassed {
		return uint256.NewInt(0), nil
	}

	switch class.Strategy {
	case ctrlertypes.STRATEGY_FIXED:
		return uint256.NewInt(ctrlertypes.PowerPerPerson), nil
	case ctrlertypes.STRATEGY_BALANCE_WEIGHTED:
		if balances == nil {
			return nil, xerrors.ErrOracle.Wrapf("no balance oracle")
		}
		bal, err := balances.BalanceOf(class.Asset, voter)
		if err != nil {
			return nil, xerrors.ErrOracle.Wrap(err)
		}
		if bal == nil || bal.IsZero() || (class.MinBalance != nil && bal.Lt(class.MinBalance)) {
			return uint256.NewInt(0), nil
		}

		base := bal
		if class.Quadratic {
			base = libs.Isqrt(bal)
		}
		power, overflow := new(uint256.Int).MulOverflow(base, uint256.NewInt(ctrlertypes.PowerPerPerson))
		if overflow || !ctrlertypes.IsUint128(power) {
			return nil, xerrors.ErrOverflow.Wrapf("power of balance %v", bal)
		}
		return power, nil
	default:
		return nil, xerrors.ErrInvalidStrategy.Wrapf("strategy: %v", class.Strategy)
	}
}

// votingPowers computes the raw power of voter in every class of prop.
func votingPowers(prop *proposal.GovProposal, voter types.Address, worn roleSet, isExecutor bool, balances ctrlertypes.IBalanceOracle) ([]*uint256.Int, xerrors.XError) {
	powers := make([]*uint256.Int, len(prop.Classes))
	for i, class := range prop.Classes {
		gatePassed := isExecutor || !class.IsGated() || worn.wearsAny(class.GatingRoles)
		p, xerr := classPower(class, voter, gatePassed, balances)
		if xerr != nil {
			return nil, xerr
		}
		powers[i] = p
	}
	return powers, nil
}
