package group

import (
	"context"
	"errors"
	"fmt"

	logging "github.com/ipfs/go-log/v2"

	"github.com/fkhayef/groupescrow/internal/auditlog"
	"github.com/fkhayef/groupescrow/internal/escrow"
	"github.com/fkhayef/groupescrow/internal/metrics"
)

var log = logging.Logger("group")

// ErrConcurrentUpdate is returned when another copy of the instance saved
// first. The mutation is dropped and can be retried.
var ErrConcurrentUpdate = errors.New("escrow instance was modified concurrently")

// Auditor appends accepted mutations to the contract log
type Auditor interface {
	Record(ctx context.Context, groupID, operation, callerID, outcome string, version int64) (*auditlog.Entry, error)
}

// Service runs escrow operations against live controllers and persists
// every accepted mutation
type Service struct {
	registry *Registry
	store    Store
	audit    Auditor
}

// NewService creates a new escrow group service
func NewService(registry *Registry, store Store, audit Auditor) *Service {
	return &Service{
		registry: registry,
		store:    store,
		audit:    audit,
	}
}

// Create registers a new instance for cfg.GroupID and initializes it.
// Nothing is kept when initialization is rejected.
func (s *Service) Create(ctx context.Context, caller escrow.Key, cfg escrow.Config) (*Receipt, error) {
	e, err := s.registry.Create(ctx, cfg.GroupID)
	if err != nil {
		return nil, err
	}

	receipt, err := s.apply(ctx, cfg.GroupID, caller, e, escrow.Initialize{Config: cfg})
	if err != nil {
		s.registry.evictEntry(cfg.GroupID, e)
		return nil, err
	}

	return receipt, nil
}

// Execute runs op on the instance for groupID on behalf of caller.
// Rejections are returned as escrow sentinel errors.
func (s *Service) Execute(ctx context.Context, groupID, caller escrow.Key, op escrow.Operation) (*Receipt, error) {
	e, err := s.registry.Get(ctx, groupID)
	if err != nil {
		return nil, err
	}

	return s.apply(ctx, groupID, caller, e, op)
}

func (s *Service) apply(ctx context.Context, groupID, caller escrow.Key, e *entry, op escrow.Operation) (*Receipt, error) {
	if op.Mutating() {
		e.persist.Lock()
		defer e.persist.Unlock()
	}

	res := e.ctrl.Execute(caller, op)
	metrics.Operations.WithLabelValues(res.Operation, res.Outcome.String()).Inc()

	if !res.OK() {
		log.Debugw("operation rejected",
			"group", groupID,
			"operation", res.Operation,
			"caller", caller,
			"code", escrow.Code(res.Err),
		)
		return nil, res.Err
	}

	receipt := &Receipt{
		GroupID:   groupID.String(),
		Operation: res.Operation,
		Outcome:   res.Outcome,
		Value:     res.Value,
	}
	if res.Snapshot == nil {
		return receipt, nil
	}
	receipt.Version = res.Snapshot.Version

	if err := s.persist(ctx, groupID, e, op, *res.Snapshot); err != nil {
		return nil, err
	}

	logEntry, err := s.audit.Record(ctx, groupID.String(), res.Operation, caller.String(), res.Outcome.Token(), receipt.Version)
	if err != nil {
		metrics.PersistFailures.WithLabelValues("contract_log").Inc()
		log.Warnw("failed to record contract log entry",
			"group", groupID,
			"operation", res.Operation,
			"version", receipt.Version,
			"error", err,
		)
	} else {
		receipt.TxID = logEntry.TxID.String()
	}

	log.Infow("operation applied",
		"group", groupID,
		"operation", res.Operation,
		"caller", caller,
		"version", receipt.Version,
		"tx", receipt.TxID,
	)

	return receipt, nil
}

// persist stores a post-mutation snapshot. Saves from one entry arrive in
// version order, so a stale save means another copy of the instance wrote
// first. On any failure the entry is evicted and the next request restores
// the stored state, dropping the unsaved mutation.
func (s *Service) persist(ctx context.Context, groupID escrow.Key, e *entry, op escrow.Operation, snap escrow.Snapshot) error {
	err := s.store.Save(ctx, NewInstance(groupID, snap))
	if err == nil {
		return nil
	}

	s.registry.evictEntry(groupID, e)

	if errors.Is(err, ErrStaleVersion) {
		log.Warnw("escrow instance changed underneath a live copy",
			"group", groupID,
			"version", snap.Version,
		)
		if _, initializing := op.(escrow.Initialize); initializing {
			return ErrGroupExists
		}
		return ErrConcurrentUpdate
	}

	metrics.PersistFailures.WithLabelValues("snapshot").Inc()
	log.Errorw("failed to persist escrow instance",
		"group", groupID,
		"version", snap.Version,
		"error", err,
	)
	return fmt.Errorf("failed to persist escrow instance: %w", err)
}
