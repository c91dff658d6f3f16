package types

import (
	"github.com/coopgov/coopgov-go/types"
	abcitypes "github.com/tendermint/tendermint/abci/types"
	"time"
)

// TrxContext carries the ambient facts of one engine call. BlockTime is
// the clock every deadline is checked against (unix seconds).
type TrxContext struct {
	Height    int64
	BlockTime int64
	Sender    types.Address
	Events    []abcitypes.Event
}

func NewTrxContext(height, btime int64, sender types.Address) *TrxContext {
	return &TrxContext{
		Height:    height,
		BlockTime: btime,
		Sender:    sender,
	}
}

func NewTrxContextNow(sender types.Address) *TrxContext {
	return NewTrxContext(0, time.Now().Unix(), sender)
}
