package types

import (
	"encoding/json"
	"github.com/coopgov/coopgov-go/types"
	"github.com/coopgov/coopgov-go/types/bytes"
	"github.com/holiman/uint256"
)

// Call is one authorized action dispatched when its option wins.
type Call struct {
	Target types.Address
	Value  *uint256.Int
	Data   bytes.HexBytes
}

func NewCall(target types.Address, value *uint256.Int, data []byte) *Call {
	if value == nil {
		value = uint256.NewInt(0)
	}
	return &Call{
		Target: target,
		Value:  value,
		Data:   data,
	}
}

func (c *Call) MarshalJSON() ([]byte, error) {
	_tmp := &struct {
		Target types.Address  `json:"target"`
		Value  string         `json:"value,omitempty"`
		Data   bytes.HexBytes `json:"data,omitempty"`
	}{
		Target: c.Target,
		Value:  Uint256ToString(c.Value),
		Data:   c.Data,
	}
	return json.Marshal(_tmp)
}

func (c *Call) UnmarshalJSON(bz []byte) error {
	_tmp := &struct {
		Target types.Address  `json:"target"`
		Value  string         `json:"value,omitempty"`
		Data   bytes.HexBytes `json:"data,omitempty"`
	}{}
	if err := json.Unmarshal(bz, _tmp); err != nil {
		return err
	}
	value, err := StringToUint256(_tmp.Value)
	if err != nil {
		return err
	}
	if value == nil {
		value = uint256.NewInt(0)
	}
	c.Target = _tmp.Target
	c.Value = value
	c.Data = _tmp.Data
	return nil
}
