package group

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrStaleVersion is returned when a newer snapshot of the instance is
// already stored
var ErrStaleVersion = errors.New("stale escrow instance version")

// Repository handles escrow instance persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new escrow instance repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Save upserts an instance. A row is only replaced by a higher version, so
// snapshots written out of order never roll state back.
func (r *Repository) Save(ctx context.Context, inst *Instance) error {
	state, err := json.Marshal(inst.State)
	if err != nil {
		return fmt.Errorf("failed to encode escrow state: %w", err)
	}

	query := `
		INSERT INTO escrow_instances (group_id, owner_id, version, state)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (group_id) DO UPDATE
		SET version = EXCLUDED.version, state = EXCLUDED.state, updated_at = NOW()
		WHERE escrow_instances.version < EXCLUDED.version
	`

	result, err := r.db.ExecContext(ctx, query, inst.GroupID, inst.OwnerID, inst.Version, state)
	if err != nil {
		return fmt.Errorf("failed to save escrow instance: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrStaleVersion
	}

	return nil
}

// Load retrieves an instance by group id. It returns nil when none exists.
func (r *Repository) Load(ctx context.Context, groupID string) (*Instance, error) {
	query := `
		SELECT group_id, owner_id, version, state, created_at, updated_at
		FROM escrow_instances
		WHERE group_id = $1
	`

	inst := &Instance{}
	var state []byte
	err := r.db.QueryRowContext(ctx, query, groupID).Scan(
		&inst.GroupID,
		&inst.OwnerID,
		&inst.Version,
		&state,
		&inst.CreatedAt,
		&inst.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load escrow instance: %w", err)
	}

	if err := json.Unmarshal(state, &inst.State); err != nil {
		return nil, fmt.Errorf("failed to decode escrow state: %w", err)
	}

	return inst, nil
}
