package proposal

import (
	ctrlertypes "github.com/coopgov/coopgov-go/ctrlers/types"
	"github.com/coopgov/coopgov-go/types"
)

const (
	EVENT_CREATED       = "created"
	EVENT_CREATED_GATED = "created_gated"
)

type GovProposalHeader struct {
	ID              uint64               `json:"id"`
	Title           string               `json:"title"`
	DescriptionRef  string               `json:"descriptionRef,omitempty"`
	Proposer        types.Address        `json:"proposer"`
	CreatedAt       int64                `json:"createdAt"`
	Deadline        int64                `json:"deadline"`
	Restricted      bool                 `json:"restricted,omitempty"`
	AllowedRoles    []ctrlertypes.RoleID `json:"allowedRoles,omitempty"`
	RegistryVersion int64                `json:"registryVersion"`
}

// IsExpired reports whether voting is closed at the unix time now.
// The deadline second itself is still open for voting.
func (h *GovProposalHeader) IsExpired(now int64) bool {
	return now > h.Deadline
}

func (h *GovProposalHeader) IsRestricted() bool {
	return h.Restricted
}

func (h *GovProposalHeader) CreationEvent() string {
	if h.Restricted {
		return EVENT_CREATED_GATED
	}
	return EVENT_CREATED
}
