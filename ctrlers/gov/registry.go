package gov

import (
	"encoding/json"
	ctrlertypes "github.com/coopgov/coopgov-go/ctrlers/types"
	"github.com/coopgov/coopgov-go/ledger"
	abytes "github.com/coopgov/coopgov-go/types/bytes"
	"github.com/coopgov/coopgov-go/types/xerrors"
	abcitypes "github.com/tendermint/tendermint/abci/types"
	"strconv"
)

var registryKey = ledger.ToLedgerKey(abytes.ZeroBytes(32))

// ClassRegistry is the single active class set. Version grows with every
// accepted update; Hash is the content hash of Classes.
type ClassRegistry struct {
	Version int64                `json:"version"`
	Classes []*ctrlertypes.Class `json:"classes"`
	Hash    abytes.HexBytes      `json:"hash"`
}

func (r *ClassRegistry) Key() ledger.LedgerKey {
	return registryKey
}

func (r *ClassRegistry) Encode() ([]byte, xerrors.XError) {
	if bz, err := json.Marshal(r); err != nil {
		return nil, xerrors.From(err)
	} else {
		return bz, nil
	}
}

func (r *ClassRegistry) Decode(bz []byte) xerrors.XError {
	if err := json.Unmarshal(bz, r); err != nil {
		return xerrors.From(err)
	}
	return nil
}

var _ ledger.ILedgerItem = (*ClassRegistry)(nil)

// InitClasses seeds the first class set. It fails once any class set exists.
func (ctrler *GovCtrler) InitClasses(ctx *ctrlertypes.TrxContext, classes []*ctrlertypes.Class) xerrors.XError {
	var reg *ClassRegistry
	xerr := ctrler.execute(ctx, "InitClasses", func() ([]abcitypes.Event, xerrors.XError) {
		if _, xerr := ctrler.registryLedger.Get(registryKey); xerr == nil {
			return nil, xerrors.ErrAlreadyInitialized
		} else if xerr != xerrors.ErrNotFoundResult {
			return nil, xerr
		}

		var evts []abcitypes.Event
		var xerr xerrors.XError
		reg, evts, xerr = ctrler.putClasses(classes, 0)
		return evts, xerr
	})
	if xerr != nil {
		return xerr
	}
	ctrler.classesUpdated(reg)
	return nil
}

// SetClasses replaces the whole class set. Only the executor may call it.
// Existing proposals keep the classes they were created with.
func (ctrler *GovCtrler) SetClasses(ctx *ctrlertypes.TrxContext, classes []*ctrlertypes.Class) xerrors.XError {
	var reg *ClassRegistry
	xerr := ctrler.execute(ctx, "SetClasses", func() ([]abcitypes.Event, xerrors.XError) {
		if !ctrler.params.IsExecutor(ctx.Sender) {
			return nil, xerrors.ErrNoRight
		}

		prevVersion := int64(0)
		if prev, xerr := ctrler.registryLedger.Get(registryKey); xerr == nil {
			prevVersion = prev.Version
		} else if xerr != xerrors.ErrNotFoundResult {
			return nil, xerr
		}

		var evts []abcitypes.Event
		var xerr xerrors.XError
		reg, evts, xerr = ctrler.putClasses(classes, prevVersion)
		return evts, xerr
	})
	if xerr != nil {
		return xerr
	}
	ctrler.classesUpdated(reg)
	return nil
}

func (ctrler *GovCtrler) classesUpdated(reg *ClassRegistry) {
	ctrler.metrics.registryVersion.Set(float64(reg.Version))
	ctrler.logger.Info("Class set updated", "version", reg.Version, "classes", len(reg.Classes), "hash", reg.Hash)
}

func (ctrler *GovCtrler) putClasses(classes []*ctrlertypes.Class, prevVersion int64) (*ClassRegistry, []abcitypes.Event, xerrors.XError) {
	if xerr := ctrlertypes.ValidateClasses(classes, ctrler.params.MaxGatingRolesPerClass); xerr != nil {
		return nil, nil, xerr
	}
	hash, xerr := ctrlertypes.ClassesHash(classes)
	if xerr != nil {
		return nil, nil, xerr
	}

	reg := &ClassRegistry{
		Version: prevVersion + 1,
		Classes: ctrlertypes.CloneClasses(classes),
		Hash:    hash,
	}
	if xerr := ctrler.registryLedger.Set(reg); xerr != nil {
		return nil, nil, xerr
	}

	return reg, []abcitypes.Event{
		{
			Type: "classes",
			Attributes: []abcitypes.EventAttribute{
				{Key: []byte("version"), Value: []byte(strconv.FormatInt(reg.Version, 10)), Index: true},
				{Key: []byte("hash"), Value: []byte(reg.Hash.String()), Index: true},
				{Key: []byte("count"), Value: []byte(strconv.Itoa(len(reg.Classes))), Index: false},
			},
		},
	}, nil
}
