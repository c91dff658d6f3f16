package types

import (
	"fmt"
	"github.com/coopgov/coopgov-go/types"
	"github.com/coopgov/coopgov-go/types/xerrors"
)

const (
	// MaxOptionCnt is bounded by the 64-bit index set used for duplicate detection.
	MaxOptionCnt = 50
	// MaxDurationLimit is ten years in minutes.
	MaxDurationLimit = 10 * 365 * 24 * 60
)

// GovParams holds the tunables of the voting engine.
type GovParams struct {
	MinDurationMinutes        uint64        `json:"minDurationMinutes" yaml:"minDurationMinutes"`
	MaxDurationMinutes        uint64        `json:"maxDurationMinutes" yaml:"maxDurationMinutes"`
	MaxTitleLength            int           `json:"maxTitleLength" yaml:"maxTitleLength"`
	MaxOptions                int           `json:"maxOptions" yaml:"maxOptions"`
	MaxCallsPerBatch          int           `json:"maxCallsPerBatch" yaml:"maxCallsPerBatch"`
	MaxGatingRolesPerClass    int           `json:"maxGatingRolesPerClass" yaml:"maxGatingRolesPerClass"`
	MaxGatingRolesPerProposal int           `json:"maxGatingRolesPerProposal" yaml:"maxGatingRolesPerProposal"`
	QuorumPct                 uint64        `json:"quorumPct" yaml:"quorumPct"`
	Executor                  types.Address `json:"executor" yaml:"executor"`
	Engine                    types.Address `json:"engine" yaml:"engine"`
}

func DefaultGovParams() *GovParams {
	return &GovParams{
		MinDurationMinutes:        10,
		MaxDurationMinutes:        43200, // 30 days
		MaxTitleLength:            256,
		MaxOptions:                MaxOptionCnt,
		MaxCallsPerBatch:          16,
		MaxGatingRolesPerClass:    16,
		MaxGatingRolesPerProposal: 16,
		QuorumPct:                 50,
		Executor:                  types.ZeroAddress(),
		Engine:                    types.ZeroAddress(),
	}
}

func (p *GovParams) Validate() xerrors.XError {
	switch {
	case p.MinDurationMinutes == 0 || p.MinDurationMinutes > p.MaxDurationMinutes || p.MaxDurationMinutes > MaxDurationLimit:
		return xerrors.ErrInvalidParams.Wrapf("duration range [%d, %d]", p.MinDurationMinutes, p.MaxDurationMinutes)
	case p.MaxTitleLength <= 0:
		return xerrors.ErrInvalidParams.Wrapf("maxTitleLength: %d", p.MaxTitleLength)
	case p.MaxOptions <= 0 || p.MaxOptions > MaxOptionCnt:
		return xerrors.ErrInvalidParams.Wrapf("maxOptions: %d", p.MaxOptions)
	case p.MaxCallsPerBatch < 0:
		return xerrors.ErrInvalidParams.Wrapf("maxCallsPerBatch: %d", p.MaxCallsPerBatch)
	case p.MaxGatingRolesPerClass < 0 || p.MaxGatingRolesPerProposal < 0:
		return xerrors.ErrInvalidParams.Wrapf("gating role caps: %d, %d", p.MaxGatingRolesPerClass, p.MaxGatingRolesPerProposal)
	case p.QuorumPct > FullSlicePct:
		return xerrors.ErrInvalidParams.Wrapf("quorumPct: %d", p.QuorumPct)
	case len(p.Engine) == 0 || types.IsZeroAddress(p.Engine):
		// batches calling back into the engine are only caught with a real engine address
		return xerrors.ErrInvalidParams.Wrapf("engine address is not set")
	}
	return nil
}

func (p *GovParams) IsExecutor(addr types.Address) bool {
	return len(p.Executor) > 0 && !types.IsZeroAddress(p.Executor) && p.Executor.Equal(addr)
}

func (p *GovParams) IsEngine(addr types.Address) bool {
	return len(p.Engine) > 0 && !types.IsZeroAddress(p.Engine) && p.Engine.Equal(addr)
}

func (p *GovParams) String() string {
	return fmt.Sprintf("{duration:[%d,%d]m, maxTitle:%d, maxOptions:%d, maxCalls:%d, maxRoles:%d/%d, quorum:%d%%, executor:%v, engine:%v}",
		p.MinDurationMinutes, p.MaxDurationMinutes, p.MaxTitleLength, p.MaxOptions, p.MaxCallsPerBatch,
		p.MaxGatingRolesPerClass, p.MaxGatingRolesPerProposal, p.QuorumPct, p.Executor, p.Engine)
}
