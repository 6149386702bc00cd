package auditlog

import (
	"context"
	"database/sql"
	"fmt"
)

// Repository handles contract log persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new contract log repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Append inserts a log entry. Entries are never updated or deleted.
func (r *Repository) Append(ctx context.Context, e *Entry) (*Entry, error) {
	query := `
		INSERT INTO contract_log (group_id, tx_id, operation, caller_id, outcome, version)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	out := *e
	err := r.db.QueryRowContext(ctx, query, e.GroupID, e.TxID, e.Operation, e.CallerID, e.Outcome, e.Version).Scan(
		&out.ID,
		&out.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to append contract log: %w", err)
	}

	return &out, nil
}

// ListByGroupID retrieves a group's log entries in append order
func (r *Repository) ListByGroupID(ctx context.Context, groupID string, limit, offset int) ([]*Entry, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM contract_log WHERE group_id = $1`
	if err := r.db.QueryRowContext(ctx, countQuery, groupID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count contract log: %w", err)
	}

	query := `
		SELECT id, group_id, tx_id, operation, caller_id, outcome, version, created_at
		FROM contract_log
		WHERE group_id = $1
		ORDER BY id ASC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, groupID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list contract log: %w", err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		e := &Entry{}
		if err := rows.Scan(
			&e.ID,
			&e.GroupID,
			&e.TxID,
			&e.Operation,
			&e.CallerID,
			&e.Outcome,
			&e.Version,
			&e.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan contract log: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read contract log: %w", err)
	}

	return entries, total, nil
}
