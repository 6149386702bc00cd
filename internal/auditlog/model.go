package auditlog

import (
	"time"

	"github.com/google/uuid"
)

// Entry is one row of the append-only contract log. Every accepted
// mutation on an escrow instance gets a transaction id and an entry.
type Entry struct {
	ID        int64     `json:"id"`
	GroupID   string    `json:"group_id"`
	TxID      uuid.UUID `json:"tx_id"`
	Operation string    `json:"operation"`
	CallerID  string    `json:"caller_id"`
	Outcome   string    `json:"outcome"` // e.g., "201_OK"
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
}
