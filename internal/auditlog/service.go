package auditlog

import (
	"context"

	"github.com/google/uuid"
)

// Store is the persistence the service needs; *Repository implements it
type Store interface {
	Append(ctx context.Context, e *Entry) (*Entry, error)
	ListByGroupID(ctx context.Context, groupID string, limit, offset int) ([]*Entry, int, error)
}

// Service handles contract log business logic
type Service struct {
	repo Store
}

// NewService creates a new contract log service
func NewService(repo Store) *Service {
	return &Service{repo: repo}
}

// Record assigns a new transaction id and appends the entry
func (s *Service) Record(ctx context.Context, groupID, operation, callerID, outcome string, version int64) (*Entry, error) {
	return s.repo.Append(ctx, &Entry{
		GroupID:   groupID,
		TxID:      uuid.New(),
		Operation: operation,
		CallerID:  callerID,
		Outcome:   outcome,
		Version:   version,
	})
}

// ListByGroupID retrieves a page of a group's log
func (s *Service) ListByGroupID(ctx context.Context, groupID string, page, perPage int) ([]*Entry, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	offset := (page - 1) * perPage
	return s.repo.ListByGroupID(ctx, groupID, perPage, offset)
}
