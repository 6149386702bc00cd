package group

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/raulk/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fkhayef/groupescrow/internal/auditlog"
	"github.com/fkhayef/groupescrow/internal/escrow"
)

var (
	owner    = escrow.MustKey("suite-platform")
	stranger = escrow.MustKey("someone-else")
	groupKey = escrow.MustKey("group-7f3a")
)

// memStore keeps instances as JSON, with the same version guard as the
// Postgres repository
type memStore struct {
	mu       sync.Mutex
	rows     map[string][]byte
	versions map[string]int64
	loads    atomic.Int32
	failSave bool
}

func newMemStore() *memStore {
	return &memStore{rows: map[string][]byte{}, versions: map[string]int64{}}
}

func (m *memStore) Save(_ context.Context, inst *Instance) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failSave {
		return errors.New("connection reset")
	}
	if v, ok := m.versions[inst.GroupID]; ok && v >= inst.Version {
		return ErrStaleVersion
	}
	state, err := json.Marshal(inst.State)
	if err != nil {
		return err
	}
	m.rows[inst.GroupID] = state
	m.versions[inst.GroupID] = inst.Version
	return nil
}

func (m *memStore) Load(_ context.Context, groupID string) (*Instance, error) {
	m.loads.Add(1)
	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.rows[groupID]
	if !ok {
		return nil, nil
	}
	inst := &Instance{GroupID: groupID, Version: m.versions[groupID]}
	if err := json.Unmarshal(state, &inst.State); err != nil {
		return nil, err
	}
	inst.OwnerID = inst.State.Owner.String()
	return inst, nil
}

func (m *memStore) version(groupID escrow.Key) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.versions[groupID.String()]
}

// memAuditor records contract log entries in memory
type memAuditor struct {
	mu      sync.Mutex
	entries []*auditlog.Entry
}

func (a *memAuditor) Record(_ context.Context, groupID, operation, callerID, outcome string, version int64) (*auditlog.Entry, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	e := &auditlog.Entry{
		ID:        int64(len(a.entries) + 1),
		GroupID:   groupID,
		TxID:      uuid.New(),
		Operation: operation,
		CallerID:  callerID,
		Outcome:   outcome,
		Version:   version,
	}
	a.entries = append(a.entries, e)
	return e, nil
}

func (a *memAuditor) operations() []string {
	a.mu.Lock()
	defer a.mu.Unlock()

	ops := make([]string, len(a.entries))
	for i, e := range a.entries {
		ops[i] = e.Operation
	}
	return ops
}

type fixture struct {
	store    *memStore
	audit    *memAuditor
	registry *Registry
	service  *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := newMemStore()
	audit := &memAuditor{}
	registry, err := NewRegistry(store, owner, 16, escrow.WithClock(clock.NewMock()))
	require.NoError(t, err)

	return &fixture{
		store:    store,
		audit:    audit,
		registry: registry,
		service:  NewService(registry, store, audit),
	}
}

func contractConfig(capacity int, deposit int64) escrow.Config {
	return escrow.Config{
		LeaderID:         escrow.MustKey("leader-01"),
		GroupID:          groupKey,
		Capacity:         capacity,
		DepositPerPerson: deposit,
		GroupPeriod:      30 * 24 * time.Hour,
	}
}

func payerKey(i int) escrow.Key {
	return escrow.MustKey("payer-" + string(rune('a'+i)))
}

func (f *fixture) pay(t *testing.T, i int, amount int64) *Receipt {
	t.Helper()
	receipt, err := f.service.Execute(context.Background(), groupKey, owner, escrow.RecordPayment{PayerID: payerKey(i), Amount: amount})
	require.NoError(t, err)
	return receipt
}

func TestService_CreateAndPay(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	receipt, err := f.service.Create(ctx, owner, contractConfig(3, 100))
	require.NoError(t, err)
	assert.Equal(t, escrow.OutcomeMutation, receipt.Outcome)
	assert.Equal(t, int64(1), receipt.Version)
	assert.NotEmpty(t, receipt.TxID)

	contract := receipt.Value.(escrow.GroupContract)
	assert.Equal(t, escrow.GroupStatusPending, contract.Status)

	f.pay(t, 0, 100)
	f.pay(t, 1, 100)
	last := f.pay(t, 2, 100)
	assert.Equal(t, escrow.GroupStatusStarted, last.Value)
	assert.Equal(t, int64(4), last.Version)

	assert.Equal(t, int64(4), f.store.version(groupKey))
	assert.Equal(t, []string{"initialize", "record_payment", "record_payment", "record_payment"}, f.audit.operations())
}

func TestService_CreateRejectedLeavesNothing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.Create(ctx, stranger, contractConfig(3, 100))
	assert.ErrorIs(t, err, escrow.ErrUnauthorized)
	assert.Equal(t, 0, f.registry.Len())
	assert.Zero(t, f.store.version(groupKey))
	assert.Empty(t, f.audit.operations())

	_, err = f.service.Create(ctx, owner, contractConfig(0, 100))
	assert.ErrorIs(t, err, escrow.ErrInvalidConfig)

	_, err = f.service.Create(ctx, owner, contractConfig(3, 100))
	require.NoError(t, err)
}

func TestService_CreateDuplicate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.Create(ctx, owner, contractConfig(3, 100))
	require.NoError(t, err)

	_, err = f.service.Create(ctx, owner, contractConfig(3, 100))
	assert.ErrorIs(t, err, ErrGroupExists)

	// Still a duplicate once only the store knows about it
	f.registry.Evict(groupKey)
	_, err = f.service.Create(ctx, owner, contractConfig(3, 100))
	assert.ErrorIs(t, err, ErrGroupExists)
}

func TestService_ExecuteUnknownGroup(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Execute(context.Background(), groupKey, owner, escrow.ListActive{})
	assert.ErrorIs(t, err, ErrGroupNotFound)
}

func TestService_RejectionIsNotPersisted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.Create(ctx, owner, contractConfig(3, 100))
	require.NoError(t, err)

	_, err = f.service.Execute(ctx, groupKey, owner, escrow.RecordPayment{PayerID: payerKey(0), Amount: 99})
	assert.ErrorIs(t, err, escrow.ErrAmountMismatch)
	assert.True(t, escrow.IsRejection(err))

	assert.Equal(t, int64(1), f.store.version(groupKey))
	assert.Equal(t, []string{"initialize"}, f.audit.operations())
}

func TestService_QueriesAreNotAudited(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.Create(ctx, owner, contractConfig(3, 100))
	require.NoError(t, err)
	f.pay(t, 0, 100)

	receipt, err := f.service.Execute(ctx, groupKey, stranger, escrow.CheckCompletion{PayerID: payerKey(0)})
	require.NoError(t, err)
	assert.Equal(t, escrow.OutcomeQuery, receipt.Outcome)
	assert.Equal(t, true, receipt.Value)
	assert.Empty(t, receipt.TxID)

	assert.Equal(t, []string{"initialize", "record_payment"}, f.audit.operations())
}

func TestService_RestoresAfterEviction(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.Create(ctx, owner, contractConfig(3, 101))
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		f.pay(t, i, 101)
	}
	_, err = f.service.Execute(ctx, groupKey, owner, escrow.RedistributeExpelled{PayerID: payerKey(1)})
	require.NoError(t, err)

	f.registry.Evict(groupKey)

	receipt, err := f.service.Execute(ctx, groupKey, owner, escrow.ListActive{})
	require.NoError(t, err)
	deposits := receipt.Value.([]escrow.Deposit)
	require.Len(t, deposits, 3)
	assert.Equal(t, int64(151), deposits[0].Amount)
	assert.Equal(t, int64(0), deposits[1].Amount)
	assert.True(t, deposits[1].Expelled)
	assert.Equal(t, int64(151), deposits[2].Amount)

	receipt, err = f.service.Execute(ctx, groupKey, owner, escrow.GetPlatformAccount{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), receipt.Value.(escrow.PlatformAccount).Balance)

	// The restored controller keeps counting versions
	receipt, err = f.service.Execute(ctx, groupKey, owner, escrow.WithdrawPlatformRevenue{})
	require.NoError(t, err)
	assert.Equal(t, int64(6), receipt.Version)
	assert.Equal(t, int64(6), f.store.version(groupKey))
}

func TestService_PersistFailureRollsBackMemory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.Create(ctx, owner, contractConfig(3, 100))
	require.NoError(t, err)
	f.pay(t, 0, 100)

	f.store.failSave = true
	_, err = f.service.Execute(ctx, groupKey, owner, escrow.RecordPayment{PayerID: payerKey(1), Amount: 100})
	require.Error(t, err)
	assert.False(t, escrow.IsRejection(err))
	assert.Equal(t, 0, f.registry.Len())

	f.store.failSave = false
	receipt, err := f.service.Execute(ctx, groupKey, owner, escrow.ListActive{})
	require.NoError(t, err)
	assert.Len(t, receipt.Value.([]escrow.Deposit), 1)

	// The payment can be retried
	f.pay(t, 1, 100)
}

func TestService_StaleWriteOfEvictedController(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.Create(ctx, owner, contractConfig(3, 100))
	require.NoError(t, err)

	orphan, err := f.registry.Get(ctx, groupKey)
	require.NoError(t, err)
	f.registry.Evict(groupKey)

	// A fresh copy takes a write first
	f.pay(t, 0, 100)

	_, err = f.service.apply(ctx, groupKey, owner, orphan, escrow.RecordPayment{PayerID: payerKey(1), Amount: 100})
	assert.ErrorIs(t, err, ErrConcurrentUpdate)
	assert.Equal(t, int64(2), f.store.version(groupKey))
}

func TestService_StaleWriteOfCachedController(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.Create(ctx, owner, contractConfig(3, 100))
	require.NoError(t, err)

	// Two live copies at the same version; only the second is cached
	orphan, err := f.registry.Get(ctx, groupKey)
	require.NoError(t, err)
	f.registry.Evict(groupKey)
	cached, err := f.registry.Get(ctx, groupKey)
	require.NoError(t, err)
	require.NotSame(t, orphan, cached)

	_, err = f.service.apply(ctx, groupKey, owner, orphan, escrow.RecordPayment{PayerID: payerKey(0), Amount: 100})
	require.NoError(t, err)

	_, err = f.service.apply(ctx, groupKey, owner, cached, escrow.RecordPayment{PayerID: payerKey(1), Amount: 100})
	assert.ErrorIs(t, err, ErrConcurrentUpdate)
	assert.Equal(t, 0, f.registry.Len())
	assert.Equal(t, []string{"initialize", "record_payment"}, f.audit.operations())

	// Memory follows the store again
	receipt, err := f.service.Execute(ctx, groupKey, owner, escrow.ListActive{})
	require.NoError(t, err)
	deposits := receipt.Value.([]escrow.Deposit)
	require.Len(t, deposits, 1)
	assert.Equal(t, payerKey(0), deposits[0].PayerID)

	// The rejected payment can be retried
	f.pay(t, 1, 100)
	assert.Equal(t, int64(3), f.store.version(groupKey))
}

func TestService_ConcurrentPaymentsStartOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.Create(ctx, owner, contractConfig(5, 100))
	require.NoError(t, err)

	var (
		wg      sync.WaitGroup
		started atomic.Int32
		okCount atomic.Int32
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			receipt, err := f.service.Execute(ctx, groupKey, owner, escrow.RecordPayment{PayerID: payerKey(i), Amount: 100})
			if err != nil {
				assert.ErrorIs(t, err, escrow.ErrCapacityReached)
				return
			}
			okCount.Add(1)
			if receipt.Value == escrow.GroupStatusStarted {
				started.Add(1)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(5), okCount.Load())
	assert.Equal(t, int32(1), started.Load())
	assert.Equal(t, int64(6), f.store.version(groupKey))
	assert.Len(t, f.audit.operations(), 6)
}

func TestRegistry_ConcurrentMissLoadsOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.Create(ctx, owner, contractConfig(3, 100))
	require.NoError(t, err)
	f.registry.Evict(groupKey)
	before := f.store.loads.Load()

	var wg sync.WaitGroup
	entries := make([]*entry, 10)
	for i := range entries {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			e, err := f.registry.Get(ctx, groupKey)
			assert.NoError(t, err)
			entries[i] = e
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), f.store.loads.Load()-before)
	for _, e := range entries {
		assert.Same(t, entries[0], e)
	}
	assert.Equal(t, 1, f.registry.Len())
}
