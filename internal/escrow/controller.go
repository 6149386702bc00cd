package escrow

import (
	"fmt"
	"math"
	"sync"

	"github.com/raulk/clock"
)

// DefaultForfeitReason is used when ForfeitAll is called without a reason
const DefaultForfeitReason = "breach of contract"

// Controller owns one escrow instance: its group contract, its ledger and
// its run flag. Every mutation is applied atomically under an exclusive
// lock; queries take a shared lock and return copies.
type Controller struct {
	mu sync.RWMutex

	owner       Key
	active      bool
	initialized bool
	contract    GroupContract
	ledger      *Ledger
	version     int64

	policy RedistributionPolicy
	clock  clock.Clock
}

// Option configures a Controller
type Option func(*Controller)

// WithClock sets the clock used for deadlines and timestamps
func WithClock(c clock.Clock) Option {
	return func(ctrl *Controller) {
		ctrl.clock = c
	}
}

// WithPolicy sets the redistribution policy used for expulsions
func WithPolicy(p RedistributionPolicy) Option {
	return func(ctrl *Controller) {
		ctrl.policy = p
	}
}

// NewController creates an active, uninitialized instance owned by owner
func NewController(owner Key, opts ...Option) *Controller {
	c := &Controller{
		owner:    owner,
		active:   true,
		contract: GroupContract{Status: GroupStatusPending},
		ledger:   NewLedger(),
		policy:   &RemainingPolicy{},
		clock:    clock.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// guard checks the preconditions shared by mutations. Callers hold c.mu.
func (c *Controller) guard(caller Key, ownerOnly, needsContract bool) error {
	if !c.active {
		return ErrInactive
	}
	if ownerOnly && caller != c.owner {
		return ErrUnauthorized
	}
	if needsContract && !c.initialized {
		return ErrNotInitialized
	}
	return nil
}

// Initialize sets the group contract. It succeeds once per instance.
func (c *Controller) Initialize(caller Key, cfg Config) (GroupContract, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.guard(caller, true, false); err != nil {
		return GroupContract{}, err
	}
	if c.initialized {
		return GroupContract{}, ErrAlreadyInitialized
	}

	now := c.clock.Now()
	contract := GroupContract{
		LeaderID:                 cfg.LeaderID,
		GroupID:                  cfg.GroupID,
		Capacity:                 cfg.Capacity,
		DepositPerPerson:         cfg.DepositPerPerson,
		Deadline:                 cfg.Deadline,
		Status:                   GroupStatusPending,
		MidtermRefundAmount:      cfg.DepositPerPerson,
		RecruitmentDeadline:      cfg.RecruitmentDeadline,
		MinimumAttendance:        cfg.MinimumAttendance,
		MinimumMissionCompletion: cfg.MinimumMissionCompletion,
	}
	if contract.Deadline.IsZero() && cfg.GroupPeriod > 0 {
		contract.Deadline = now.Add(cfg.GroupPeriod)
	}
	if contract.RecruitmentDeadline.IsZero() && cfg.RecruitmentPeriod > 0 {
		contract.RecruitmentDeadline = now.Add(cfg.RecruitmentPeriod)
	}
	if cfg.MidtermRefundAmount != nil {
		contract.MidtermRefundAmount = *cfg.MidtermRefundAmount
	}
	if err := validateContract(contract); err != nil {
		return GroupContract{}, err
	}

	c.contract = contract
	c.initialized = true
	c.version++
	return c.contract, nil
}

func validateContract(gc GroupContract) error {
	switch {
	case gc.GroupID.IsZero():
		return fmt.Errorf("%w: group id is required", ErrInvalidConfig)
	case gc.LeaderID.IsZero():
		return fmt.Errorf("%w: leader id is required", ErrInvalidConfig)
	case gc.Capacity < 1:
		return fmt.Errorf("%w: capacity must be at least 1", ErrInvalidConfig)
	case gc.DepositPerPerson < 0:
		return fmt.Errorf("%w: deposit per person cannot be negative", ErrInvalidConfig)
	case gc.DepositPerPerson > math.MaxInt64/int64(gc.Capacity):
		// Every ledger sum is bounded by the pool
		return fmt.Errorf("%w: total deposit pool overflows", ErrInvalidConfig)
	case gc.MidtermRefundAmount < 0:
		return fmt.Errorf("%w: midterm refund cannot be negative", ErrInvalidConfig)
	case gc.Deadline.IsZero():
		return fmt.Errorf("%w: deadline is required", ErrInvalidConfig)
	case gc.MinimumAttendance < 0 || gc.MinimumMissionCompletion < 0:
		return fmt.Errorf("%w: minimums cannot be negative", ErrInvalidConfig)
	}
	return nil
}

// RecordPayment appends payer's deposit. The owner relays payments on
// behalf of participants. When the ledger reaches capacity the group
// starts in the same step. The returned status is the status after the call.
func (c *Controller) RecordPayment(caller, payer Key, amount int64, note string) (GroupStatus, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.guard(caller, true, true); err != nil {
		return "", err
	}
	if payer.IsZero() {
		return "", ErrInvalidKey
	}
	if c.contract.Status == GroupStatusEnded {
		return "", ErrAlreadyEnded
	}
	if amount != c.contract.DepositPerPerson {
		return "", ErrAmountMismatch
	}
	if c.ledger.HasActive(payer) {
		return "", ErrDuplicatePayment
	}
	if c.ledger.Count() >= c.contract.Capacity {
		return "", ErrCapacityReached
	}

	c.ledger.Append(Deposit{
		PayerID:    payer,
		PledgeNote: note,
		Amount:     amount,
		PaidAt:     c.clock.Now(),
	})
	if c.ledger.Count() == c.contract.Capacity && c.contract.Status == GroupStatusPending {
		c.contract.Status = GroupStatusStarted
	}
	c.version++
	return c.contract.Status, nil
}

// CheckCompletion reports whether payer's deposit is confirmed and intact
func (c *Controller) CheckCompletion(payer Key) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.initialized {
		return false
	}
	return c.ledger.AmountOf(payer) == c.contract.DepositPerPerson
}

// AdvanceToEnded ends the group once its deadline has passed
func (c *Controller) AdvanceToEnded(caller Key) (GroupStatus, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.guard(caller, false, true); err != nil {
		return "", err
	}
	if c.clock.Now().Before(c.contract.Deadline) {
		return "", ErrNotYetDue
	}
	if c.contract.Status == GroupStatusEnded {
		return "", ErrAlreadyEnded
	}

	c.contract.Status = GroupStatusEnded
	c.version++
	return c.contract.Status, nil
}

// Stop makes the instance read only. A running group cannot be stopped and
// the platform balance must be withdrawn first.
func (c *Controller) Stop(caller Key) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.guard(caller, false, false); err != nil {
		return err
	}
	if c.contract.Status == GroupStatusStarted {
		return ErrGroupStillRunning
	}
	if c.ledger.platform.Balance != 0 {
		return ErrUnsettledPlatformBalance
	}

	c.active = false
	c.version++
	return nil
}

// WithdrawPlatformRevenue pays out and zeroes the platform balance
func (c *Controller) WithdrawPlatformRevenue(caller Key) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.guard(caller, true, false); err != nil {
		return 0, err
	}
	amount, err := c.ledger.WithdrawBalance()
	if err != nil {
		return 0, err
	}
	c.version++
	return amount, nil
}

// RedistributeExpelled splits an expelled payer's deposit per the policy
func (c *Controller) RedistributeExpelled(caller, payer Key) (*Redistribution, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.guard(caller, true, true); err != nil {
		return nil, err
	}
	r, err := c.ledger.RedistributeExpelled(c.contract.GroupID, payer, c.policy, c.clock.Now())
	if err != nil {
		return nil, err
	}
	c.version++
	return r, nil
}

// ForfeitAll moves every participant balance to the platform
func (c *Controller) ForfeitAll(caller Key, reason string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.guard(caller, true, true); err != nil {
		return 0, err
	}
	if reason == "" {
		reason = DefaultForfeitReason
	}
	total := c.ledger.ForfeitAll(c.contract.GroupID, reason, c.clock.Now())
	c.version++
	return total, nil
}

// SettleFinal writes the final deposit list once and zeroes the ledger
func (c *Controller) SettleFinal(caller Key) ([]Deposit, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.guard(caller, true, true); err != nil {
		return nil, err
	}
	final, err := c.ledger.SettleFinal()
	if err != nil {
		return nil, err
	}
	c.version++
	return final, nil
}

// RefundMidterm lets payer leave before the group ends. The payer gets the
// contract's midterm refund, capped at what the record holds.
func (c *Controller) RefundMidterm(caller, payer Key) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.guard(caller, true, true); err != nil {
		return 0, err
	}
	if c.contract.Status == GroupStatusEnded {
		return 0, ErrAlreadyEnded
	}
	refund, _, err := c.ledger.Withdraw(c.contract.GroupID, payer, c.contract.MidtermRefundAmount, c.clock.Now())
	if err != nil {
		return 0, err
	}
	c.version++
	return refund, nil
}

// Contract returns the group contract
func (c *Controller) Contract() (GroupContract, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.initialized {
		return GroupContract{}, ErrNotInitialized
	}
	return c.contract, nil
}

// ListActive returns the current deposit records
func (c *Controller) ListActive() []Deposit {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ledger.ListActive()
}

// ListFinal returns the settled deposit records
func (c *Controller) ListFinal() ([]Deposit, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ledger.ListFinal()
}

// PlatformAccount returns the platform balance and flow log to the owner
func (c *Controller) PlatformAccount(caller Key) (PlatformAccount, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if caller != c.owner {
		return PlatformAccount{}, ErrUnauthorized
	}
	return c.ledger.Platform(), nil
}

// IsActive reports whether the instance still accepts mutations
func (c *Controller) IsActive() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.active
}

// Owner returns the identity allowed to perform owner-only operations
func (c *Controller) Owner() Key {
	return c.owner
}

// Version returns the number of accepted mutations
func (c *Controller) Version() int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.version
}
