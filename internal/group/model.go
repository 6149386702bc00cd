package group

import (
	"time"

	"github.com/fkhayef/groupescrow/internal/escrow"
)

// Instance is the persisted form of one group's escrow controller
type Instance struct {
	GroupID   string          `json:"group_id"`
	OwnerID   string          `json:"owner_id"`
	Version   int64           `json:"version"`
	State     escrow.Snapshot `json:"state"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// NewInstance wraps a controller snapshot for storage
func NewInstance(groupID escrow.Key, snap escrow.Snapshot) *Instance {
	return &Instance{
		GroupID: groupID.String(),
		OwnerID: snap.Owner.String(),
		Version: snap.Version,
		State:   snap,
	}
}

// Receipt is the result of an accepted operation
type Receipt struct {
	GroupID   string
	Operation string
	Outcome   escrow.Outcome
	Value     any
	TxID      string
	Version   int64
}
