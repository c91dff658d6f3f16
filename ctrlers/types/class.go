package types

import (
	"encoding/json"
	"fmt"
	"github.com/coopgov/coopgov-go/types"
	"github.com/coopgov/coopgov-go/types/crypto"
	"github.com/coopgov/coopgov-go/types/xerrors"
	"github.com/holiman/uint256"
	"math/big"
	"strings"
)

const (
	MaxClassCnt    = 8
	FullSlicePct   = 100
	PowerPerPerson = 100 // raw units granted by a FIXED class, also the balance scale
)

// RoleID identifies a capability token held by members.
type RoleID = uint64

type Strategy uint8

const (
	STRATEGY_FIXED Strategy = iota
	STRATEGY_BALANCE_WEIGHTED
)

func (s Strategy) String() string {
	switch s {
	case STRATEGY_FIXED:
		return "FIXED"
	case STRATEGY_BALANCE_WEIGHTED:
		return "BALANCE_WEIGHTED"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", uint8(s))
	}
}

func ParseStrategy(s string) (Strategy, xerrors.XError) {
	switch strings.ToUpper(s) {
	case "FIXED":
		return STRATEGY_FIXED, nil
	case "BALANCE_WEIGHTED", "BALANCE":
		return STRATEGY_BALANCE_WEIGHTED, nil
	default:
		return 0, xerrors.ErrInvalidStrategy.Wrapf("strategy: %q", s)
	}
}

// Class is one weighting bloc of the voting engine.
type Class struct {
	Strategy    Strategy
	SlicePct    uint8
	Quadratic   bool
	MinBalance  *uint256.Int
	Asset       types.Address
	GatingRoles []RoleID
}

func NewFixedClass(slicePct uint8, gatingRoles ...RoleID) *Class {
	return &Class{
		Strategy:    STRATEGY_FIXED,
		SlicePct:    slicePct,
		MinBalance:  uint256.NewInt(0),
		GatingRoles: gatingRoles,
	}
}

func NewBalanceClass(slicePct uint8, asset types.Address, minBalance *uint256.Int, quadratic bool, gatingRoles ...RoleID) *Class {
	if minBalance == nil {
		minBalance = uint256.NewInt(0)
	}
	return &Class{
		Strategy:    STRATEGY_BALANCE_WEIGHTED,
		SlicePct:    slicePct,
		Quadratic:   quadratic,
		MinBalance:  minBalance,
		Asset:       asset,
		GatingRoles: gatingRoles,
	}
}

func (c *Class) IsGated() bool {
	return len(c.GatingRoles) > 0
}

// Clone returns a deep copy; a proposal snapshot must never share
// memory with the live registry.
func (c *Class) Clone() *Class {
	ret := &Class{
		Strategy:  c.Strategy,
		SlicePct:  c.SlicePct,
		Quadratic: c.Quadratic,
	}
	if c.MinBalance != nil {
		ret.MinBalance = c.MinBalance.Clone()
	}
	if c.Asset != nil {
		ret.Asset = append(types.Address{}, c.Asset...)
	}
	if c.GatingRoles != nil {
		ret.GatingRoles = append([]RoleID{}, c.GatingRoles...)
	}
	return ret
}

func (c *Class) validate(maxGatingRoles int) xerrors.XError {
	if c.SlicePct == 0 || c.SlicePct > FullSlicePct {
		return xerrors.ErrInvalidSlice.Wrapf("slice: %d", c.SlicePct)
	}
	switch c.Strategy {
	case STRATEGY_FIXED:
	case STRATEGY_BALANCE_WEIGHTED:
		if len(c.Asset) == 0 || types.IsZeroAddress(c.Asset) {
			return xerrors.ErrMissingAsset
		}
	default:
		return xerrors.ErrInvalidStrategy.Wrapf("strategy: %v", c.Strategy)
	}
	if len(c.GatingRoles) > maxGatingRoles {
		return xerrors.ErrTooManyGatingRoles.Wrapf("class has %d roles, max %d", len(c.GatingRoles), maxGatingRoles)
	}
	return nil
}

// ValidateClasses checks a whole class list as the registry would accept it.
func ValidateClasses(classes []*Class, maxGatingRoles int) xerrors.XError {
	if len(classes) == 0 || len(classes) > MaxClassCnt {
		return xerrors.ErrInvalidClassCount.Wrapf("class count: %d", len(classes))
	}

	sum := 0
	for i, c := range classes {
		if c == nil {
			return xerrors.ErrInvalidClassCount.Wrapf("class %d is nil", i)
		}
		if xerr := c.validate(maxGatingRoles); xerr != nil {
			return xerr
		}
		sum += int(c.SlicePct)
	}
	if sum != FullSlicePct {
		return xerrors.ErrInvalidSliceSum.Wrapf("sum: %d", sum)
	}
	return nil
}

func CloneClasses(classes []*Class) []*Class {
	ret := make([]*Class, len(classes))
	for i, c := range classes {
		ret[i] = c.Clone()
	}
	return ret
}

type classRLP struct {
	Strategy    uint8
	SlicePct    uint8
	Quadratic   bool
	MinBalance  *big.Int
	Asset       []byte
	GatingRoles []uint64
}

// ClassesHash is the keccak256 of the RLP encoded class list.
func ClassesHash(classes []*Class) ([]byte, xerrors.XError) {
	items := make([]classRLP, len(classes))
	for i, c := range classes {
		minBalance := new(big.Int)
		if c.MinBalance != nil {
			minBalance = c.MinBalance.ToBig()
		}
		roles := c.GatingRoles
		if roles == nil {
			roles = []uint64{}
		}
		items[i] = classRLP{
			Strategy:    uint8(c.Strategy),
			SlicePct:    c.SlicePct,
			Quadratic:   c.Quadratic,
			MinBalance:  minBalance,
			Asset:       c.Asset,
			GatingRoles: roles,
		}
	}
	return crypto.ContentHash(items)
}

type classJSON struct {
	Strategy    string        `json:"strategy"`
	SlicePct    uint8         `json:"slicePct"`
	Quadratic   bool          `json:"quadratic,omitempty"`
	MinBalance  string        `json:"minBalance,omitempty"`
	Asset       types.Address `json:"asset,omitempty"`
	GatingRoles []RoleID      `json:"gatingRoles,omitempty"`
}

func (c *Class) MarshalJSON() ([]byte, error) {
	return json.Marshal(&classJSON{
		Strategy:    c.Strategy.String(),
		SlicePct:    c.SlicePct,
		Quadratic:   c.Quadratic,
		MinBalance:  Uint256ToString(c.MinBalance),
		Asset:       c.Asset,
		GatingRoles: c.GatingRoles,
	})
}

func (c *Class) UnmarshalJSON(bz []byte) error {
	tm := &classJSON{}
	if err := json.Unmarshal(bz, tm); err != nil {
		return err
	}
	strategy, xerr := ParseStrategy(tm.Strategy)
	if xerr != nil {
		return xerr
	}
	minBalance, err := StringToUint256(tm.MinBalance)
	if err != nil {
		return err
	}
	if minBalance == nil {
		minBalance = uint256.NewInt(0)
	}

	c.Strategy = strategy
	c.SlicePct = tm.SlicePct
	c.Quadratic = tm.Quadratic
	c.MinBalance = minBalance
	c.Asset = tm.Asset
	c.GatingRoles = tm.GatingRoles
	return nil
}
